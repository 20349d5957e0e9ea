package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// HTTPClientConfig bundles the transport used by every source.
type HTTPClientConfig struct {
	Client  *http.Client
	BaseURL string
	Logger  *slog.Logger
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// statusError lets the breaker count non-2xx responses as failures while the
// caller still sees the status code.
type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}

// newCircuitBreaker trips on transport failures only. A received response,
// whatever its status, proves the API is reachable.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: reachedServer,
	})
}

func reachedServer(err error) bool {
	var se *statusError
	return err == nil || errors.As(err, &se)
}

// doRequest performs exactly one GET for req through the circuit breaker and
// returns the body of a 2xx response. Failures are classified into the
// weather error taxonomy; nothing is retried.
func doRequest(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, req weather.Request) (int, []byte, error) {
	if cfg.Client == nil {
		return 0, nil, &weather.FetchError{Kind: weather.KindNetworkError, Err: errNoHTTPClient}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL(), nil)
	if err != nil {
		return 0, nil, &weather.FetchError{Kind: weather.KindNetworkError, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")

	type result struct {
		status int
		body   []byte
	}

	out, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(httpReq)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{code: resp.StatusCode, body: body}
		}
		if readErr != nil {
			return nil, readErr
		}
		return result{status: resp.StatusCode, body: body}, nil
	})

	if err == nil {
		r, ok := out.(result)
		if !ok {
			return 0, nil, &weather.FetchError{Kind: weather.KindNetworkError, Err: fmt.Errorf("unexpected result type from circuit breaker")}
		}
		return r.status, r.body, nil
	}

	var se *statusError
	switch {
	case errors.As(err, &se):
		logger(cfg).Debug("weather api returned an error status",
			slog.String("kind", string(req.Kind)),
			slog.Int("status", se.code),
			slog.String("body", truncate(se.body, 256)))
		return se.code, nil, &weather.FetchError{Kind: weather.KindServerError, StatusCode: se.code, Err: se}
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return 0, nil, &weather.FetchError{Kind: weather.KindNetworkError, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
	default:
		return 0, nil, &weather.FetchError{Kind: weather.KindNetworkError, Err: err}
	}
}

// decode parses body into v. An empty body decodes to the zero value, which
// transposes to an empty result.
func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &weather.FetchError{Kind: weather.KindDecodeError, Path: decodePath(err), Err: err}
	}
	return nil
}

func decodePath(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return typeErr.Field
		}
		return "offset " + strconv.FormatInt(typeErr.Offset, 10)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "offset " + strconv.FormatInt(syntaxErr.Offset, 10)
	}
	return ""
}

func logger(cfg HTTPClientConfig) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// fetch runs one request/decode/transpose cycle for a source.
func fetch[R any, T any](
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	kind weather.Kind,
	settings weather.Settings,
	periods func(*R) []T,
) ([]T, error) {
	req, err := weather.BuildRequest(kind, settings, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	status, body, err := doRequest(ctx, cfg, cb, req)
	if err != nil {
		return nil, err
	}

	var payload R
	if err := decode(body, &payload); err != nil {
		return nil, err
	}

	out := periods(&payload)
	logger(cfg).Debug("weather api response decoded",
		slog.String("kind", string(kind)),
		slog.Int("status", status),
		slog.Int("periods", len(out)))
	return out, nil
}
