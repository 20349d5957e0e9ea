package location

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/meteoinsight/internal/weather"
)

var (
	// ErrFeedClosed is returned when pushing to a closed Feed.
	ErrFeedClosed = errors.New("location feed closed")
	// ErrFeedFull is returned when nobody is draining the feed.
	ErrFeedFull = errors.New("location feed full")
)

var validate = validator.New()

// Update is one event from a location provider: either a position or an
// opaque provider error such as a denied permission.
type Update struct {
	Coordinates weather.Coordinates
	Err         error
}

// Provider emits location updates asynchronously.
type Provider interface {
	Updates() <-chan Update
}

// Feed is a Provider fed by hand, e.g. from the HTTP API. It remembers the
// last accepted position.
type Feed struct {
	mu     sync.Mutex
	ch     chan Update
	last   *weather.Coordinates
	closed bool
}

func NewFeed(buffer int) *Feed {
	return &Feed{ch: make(chan Update, buffer)}
}

func (f *Feed) Updates() <-chan Update {
	return f.ch
}

// Push validates c and queues it.
func (f *Feed) Push(c weather.Coordinates) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid coordinates: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeedClosed
	}
	if err := f.send(Update{Coordinates: c}); err != nil {
		return err
	}
	f.last = &c
	return nil
}

// PushError forwards a provider failure.
func (f *Feed) PushError(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeedClosed
	}
	return f.send(Update{Err: err})
}

// send must be called with mu held.
func (f *Feed) send(u Update) error {
	select {
	case f.ch <- u:
		return nil
	default:
		return ErrFeedFull
	}
}

// Last returns the most recently pushed position.
func (f *Feed) Last() (weather.Coordinates, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return weather.Coordinates{}, false
	}
	return *f.last, true
}

func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}
