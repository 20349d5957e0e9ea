package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationInvalid means required settings are missing or still
	// placeholders. No network call is attempted.
	ErrConfigurationInvalid = errors.New("configuration invalid")
	// ErrNetwork is a transport failure: no HTTP response was received.
	ErrNetwork = errors.New("network error")
	// ErrServer is a response with a status outside 200-299.
	ErrServer = errors.New("server error")
	// ErrDecode is a body that does not match the expected schema.
	ErrDecode = errors.New("decode error")
	// ErrEmptyResult is a successful decode that produced zero periods.
	ErrEmptyResult = errors.New("no data available")
)

// ErrorKind is the closed set of failure classes a fetch cycle can end with.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindConfigurationInvalid ErrorKind = "configuration_invalid"
	KindNetworkError         ErrorKind = "network_error"
	KindServerError          ErrorKind = "server_error"
	KindDecodeError          ErrorKind = "decode_error"
	KindEmptyResult          ErrorKind = "empty_result"
	KindUnknown              ErrorKind = "unknown"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfigurationInvalid:
		return ErrConfigurationInvalid
	case KindNetworkError:
		return ErrNetwork
	case KindServerError:
		return ErrServer
	case KindDecodeError:
		return ErrDecode
	case KindEmptyResult:
		return ErrEmptyResult
	default:
		return nil
	}
}

// FetchError carries the classification of a failed fetch.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int    // set for KindServerError
	Path       string // field or offset that failed to decode, if known
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindServerError:
		return fmt.Sprintf("server error: status code %d", e.StatusCode)
	case KindDecodeError:
		if e.Path != "" {
			return fmt.Sprintf("decode error at %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("decode error: %v", e.Err)
	}
	s := e.Kind.sentinel()
	switch {
	case s == nil && e.Err == nil:
		return string(e.Kind)
	case s == nil:
		return e.Err.Error()
	case e.Err == nil:
		return s.Error()
	}
	return fmt.Sprintf("%v: %v", s, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *FetchError) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf classifies any error into the taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	for _, k := range []ErrorKind{KindConfigurationInvalid, KindNetworkError, KindServerError, KindDecodeError, KindEmptyResult} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return KindUnknown
}

func configInvalid(format string, args ...any) error {
	return &FetchError{Kind: KindConfigurationInvalid, Err: fmt.Errorf(format, args...)}
}
