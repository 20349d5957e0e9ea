package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/meteoinsight/internal/scheduler"
	"github.com/i474232898/meteoinsight/internal/store"
	"github.com/i474232898/meteoinsight/internal/weather"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("refresh controller closed")

const defaultFetchTimeout = 30 * time.Second

// Fetcher produces the normalized periods of one data source.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, settings weather.Settings) ([]T, error)
}

// ConfigSource is the read-only configuration a controller fetches with.
type ConfigSource interface {
	Settings() weather.Settings
}

// LocationSaver is implemented by configuration sources that accept a new
// location from the controller.
type LocationSaver interface {
	SaveLocation(weather.Coordinates) error
}

// Options configures a Controller. Fetcher, Config, Repeater and State are required.
type Options[T any] struct {
	Name     string
	Fetcher  Fetcher[T]
	Config   ConfigSource
	Repeater scheduler.Repeater
	State    *store.Published[T]
	History  *store.History[T]
	// Interval defaults to weather.RefreshInterval.
	Interval time.Duration
	// Timeout bounds a single fetch; defaults to 30s.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Controller is the refresh state machine of one data source. It allows a
// single fetch in flight and a single repeating timer at any time.
type Controller[T any] struct {
	name     string
	fetcher  Fetcher[T]
	config   ConfigSource
	repeater scheduler.Repeater
	state    *store.Published[T]
	history  *store.History[T]
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	// lifecycle serializes Start, Stop and Close. It is never taken by the
	// timer callback, so cancelling a handle cannot deadlock on a tick.
	lifecycle sync.Mutex

	mu       sync.Mutex
	idle     *sync.Cond
	status   store.Status
	handle   scheduler.Handle
	location *weather.Coordinates
	closed   bool
}

// New creates a Controller in the Idle state.
func New[T any](opts Options[T]) *Controller[T] {
	if opts.Interval <= 0 {
		opts.Interval = weather.RefreshInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Controller[T]{
		name:     opts.Name,
		fetcher:  opts.Fetcher,
		config:   opts.Config,
		repeater: opts.Repeater,
		state:    opts.State,
		history:  opts.History,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		logger:   opts.Logger.With("module", "refresh", slog.String("source", opts.Name)),
		status:   store.StatusIdle,
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

func (c *Controller[T]) Name() string {
	return c.name
}

// State is the published projection of this controller.
func (c *Controller[T]) State() *store.Published[T] {
	return c.state
}

// History is the retained list of successful results, or nil.
func (c *Controller[T]) History() *store.History[T] {
	return c.history
}

// Status reports the current phase of the refresh cycle.
func (c *Controller[T]) Status() store.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start replaces any running timer. With auto-refresh enabled it fetches
// immediately and then every interval; with auto-refresh disabled it does
// nothing else.
func (c *Controller[T]) Start() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.cancelTimer()

	c.mu.Lock()
	closed := c.closed
	settings := c.settingsLocked()
	c.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if !settings.AutoRefresh {
		c.logger.Info("auto refresh disabled; not scheduling")
		return nil
	}

	h, err := c.repeater.Every(c.interval, func() { c.TriggerFetch() })
	if err != nil {
		return fmt.Errorf("schedule %s refresh: %w", c.name, err)
	}

	c.mu.Lock()
	c.handle = h
	c.mu.Unlock()

	c.logger.Info("auto refresh started", slog.Duration("interval", c.interval))
	c.TriggerFetch()
	return nil
}

// Stop cancels the timer. The published state is left as it is, and a fetch
// already in flight is still adopted when it completes.
func (c *Controller[T]) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.cancelTimer() {
		c.logger.Info("auto refresh stopped")
	}
}

// Close tears the controller down: the timer is cancelled, later triggers are
// ignored and the in-flight fetch, if any, is awaited.
func (c *Controller[T]) Close() {
	c.lifecycle.Lock()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancelTimer()
	c.lifecycle.Unlock()

	c.Wait()
}

// Wait blocks until no fetch is in flight.
func (c *Controller[T]) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.status == store.StatusLoading {
		c.idle.Wait()
	}
}

// cancelTimer must be called with lifecycle held.
func (c *Controller[T]) cancelTimer() bool {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()

	if h == nil {
		return false
	}
	h.Cancel()
	return true
}

// TriggerFetch starts a fetch unless one is already in flight. It reports
// whether a fetch was started.
func (c *Controller[T]) TriggerFetch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status == store.StatusLoading {
		return false
	}
	c.status = store.StatusLoading
	settings := c.settingsLocked()

	c.state.Update(func(s *store.State[T]) {
		s.Status = store.StatusLoading
		s.Loading = true
		s.ErrorKind = weather.KindNone
		s.ErrorMessage = nil
	})

	go c.run(settings)
	return true
}

// UpdateLocation replaces the coordinates used by this controller, hands them
// to the configuration source when it accepts them, and fetches right away.
func (c *Controller[T]) UpdateLocation(coords weather.Coordinates) bool {
	c.mu.Lock()
	c.location = &coords
	c.mu.Unlock()

	if saver, ok := c.config.(LocationSaver); ok {
		if err := saver.SaveLocation(coords); err != nil {
			c.logger.Warn("failed to persist location", slog.Any("error", err))
		}
	}

	c.logger.Debug("location updated", slog.String("coordinates", coords.String()))
	return c.TriggerFetch()
}

func (c *Controller[T]) settingsLocked() weather.Settings {
	s := c.config.Settings()
	if c.location != nil {
		s = s.WithCoordinates(*c.location)
	}
	return s
}

func (c *Controller[T]) run(settings weather.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	periods, err := c.safeFetch(ctx, settings)
	c.complete(periods, err)
}

func (c *Controller[T]) safeFetch(ctx context.Context, settings weather.Settings) (periods []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			periods = nil
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return c.fetcher.Fetch(ctx, settings)
}

func (c *Controller[T]) complete(periods []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		c.status = store.StatusFailed
		kind := weather.KindOf(err)
		msg := err.Error()
		if kind == weather.KindConfigurationInvalid {
			c.logger.Warn("fetch skipped: configuration invalid", slog.Any("error", err))
		} else {
			c.logger.Error("fetch failed", slog.String("kind", string(kind)), slog.Any("error", err))
		}
		c.state.Update(func(s *store.State[T]) {
			s.Status = store.StatusFailed
			s.Loading = false
			s.ErrorKind = kind
			s.ErrorMessage = &msg
		})

	case len(periods) == 0:
		c.status = store.StatusSucceeded
		msg := weather.ErrEmptyResult.Error()
		c.logger.Info("fetch returned no data")
		c.state.Update(func(s *store.State[T]) {
			s.Status = store.StatusSucceeded
			s.Loading = false
			s.Data = []T{}
			s.ErrorKind = weather.KindEmptyResult
			s.ErrorMessage = &msg
		})

	default:
		c.status = store.StatusSucceeded
		c.logger.Info("fetch succeeded", slog.Int("periods", len(periods)))
		if c.history != nil {
			c.history.Save(store.Entry[T]{FetchedAt: time.Now().UTC(), Periods: periods})
		}
		c.state.Update(func(s *store.State[T]) {
			s.Status = store.StatusSucceeded
			s.Loading = false
			s.Data = periods
			s.ErrorKind = weather.KindNone
			s.ErrorMessage = nil
		})
	}

	c.idle.Broadcast()
}
