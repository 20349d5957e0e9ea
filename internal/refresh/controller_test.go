package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/meteoinsight/internal/location"
	"github.com/i474232898/meteoinsight/internal/scheduler"
	"github.com/i474232898/meteoinsight/internal/store"
	"github.com/i474232898/meteoinsight/internal/weather"
	"github.com/i474232898/meteoinsight/internal/weather/providers"
)

type fakeTask struct {
	interval  time.Duration
	fn        func()
	cancelled atomic.Bool
}

func (t *fakeTask) Cancel() { t.cancelled.Store(true) }

// fakeRepeater records scheduled tasks and fires them on Tick.
type fakeRepeater struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (r *fakeRepeater) Every(interval time.Duration, fn func()) (scheduler.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTask{interval: interval, fn: fn}
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *fakeRepeater) Tick() {
	r.mu.Lock()
	tasks := append([]*fakeTask(nil), r.tasks...)
	r.mu.Unlock()
	for _, t := range tasks {
		if !t.cancelled.Load() {
			t.fn()
		}
	}
}

func (r *fakeRepeater) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}

type fakeConfig struct {
	mu    sync.Mutex
	s     weather.Settings
	saved []weather.Coordinates
}

func (c *fakeConfig) Settings() weather.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func (c *fakeConfig) SaveLocation(coords weather.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved = append(c.saved, coords)
	return nil
}

// fakeFetcher returns canned periods. When gate is set every call blocks until
// it is closed.
type fakeFetcher struct {
	calls   atomic.Int32
	gate    chan struct{}
	periods []int
	err     error

	mu       sync.Mutex
	settings []weather.Settings
}

func (f *fakeFetcher) Fetch(ctx context.Context, s weather.Settings) ([]int, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.settings = append(f.settings, s)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.periods, f.err
}

func (f *fakeFetcher) lastSettings() weather.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[len(f.settings)-1]
}

func validSettings() weather.Settings {
	s := weather.DefaultSettings()
	s.APIKey = "abc123"
	s.StationID = "IBERLIN123"
	s.PostalKey = "10115:DE"
	s.Coordinates = &weather.Coordinates{Latitude: 52.52, Longitude: 13.405}
	return s
}

type harness[T any] struct {
	dispatcher *store.Dispatcher
	repeater   *fakeRepeater
	config     *fakeConfig
	controller *Controller[T]
}

func newHarness[T any](t *testing.T, fetcher Fetcher[T], s weather.Settings) *harness[T] {
	t.Helper()
	d := store.NewDispatcher()
	h := &harness[T]{
		dispatcher: d,
		repeater:   &fakeRepeater{},
		config:     &fakeConfig{s: s},
	}
	h.controller = New(Options[T]{
		Name:     "test",
		Fetcher:  fetcher,
		Config:   h.config,
		Repeater: h.repeater,
		State:    store.NewPublished[T]("test", d),
		History:  store.NewHistory[T](10, 0),
	})
	t.Cleanup(func() {
		h.controller.Close()
		d.Close()
	})
	return h
}

// settle waits for the in-flight fetch and for its state to be published.
func (h *harness[T]) settle() store.State[T] {
	h.controller.Wait()
	h.dispatcher.Sync()
	return h.controller.State().Snapshot()
}

func countingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestConfigurationInvalidMakesNoNetworkCall(t *testing.T) {
	for _, key := range []string{weather.PlaceholderAPIKey, ""} {
		t.Run("key="+key, func(t *testing.T) {
			srv, calls := countingServer(t, `{}`)
			source := providers.NewHourlySource(providers.HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL})

			s := validSettings()
			s.APIKey = key
			h := newHarness[weather.HourlyPeriod](t, source, s)

			require.NoError(t, h.controller.Start())
			state := h.settle()

			assert.Equal(t, store.StatusFailed, state.Status)
			assert.False(t, state.Loading)
			assert.Equal(t, weather.KindConfigurationInvalid, state.ErrorKind)
			require.NotNil(t, state.ErrorMessage)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestDecodeErrorEndsFailed(t *testing.T) {
	srv, calls := countingServer(t, `{"validTimeLocal": 42}`)
	source := providers.NewHourlySource(providers.HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL})
	h := newHarness[weather.HourlyPeriod](t, source, validSettings())

	require.True(t, h.controller.TriggerFetch())
	state := h.settle()

	assert.Equal(t, store.StatusFailed, state.Status)
	assert.False(t, state.Loading)
	assert.Equal(t, weather.KindDecodeError, state.ErrorKind)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, store.StatusFailed, h.controller.Status())
}

func TestSuccessfulFetchPublishesPeriods(t *testing.T) {
	srv, _ := countingServer(t, `{"validTimeLocal":["a","b"],"temperature":[10,null],"precipChance":null}`)
	source := providers.NewHourlySource(providers.HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL})
	h := newHarness[weather.HourlyPeriod](t, source, validSettings())

	require.True(t, h.controller.TriggerFetch())
	state := h.settle()

	assert.Equal(t, store.StatusSucceeded, state.Status)
	require.Len(t, state.Data, 2)
	assert.Equal(t, 10.0, *state.Data[0].Temperature)
	assert.Nil(t, state.Data[1].Temperature)
	assert.Nil(t, state.ErrorMessage)
	assert.Equal(t, 1, h.controller.History().Len())
}

func TestTriggerWhileLoadingIsNoop(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{}), periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.True(t, h.controller.TriggerFetch())
	assert.False(t, h.controller.TriggerFetch())
	assert.False(t, h.controller.TriggerFetch())
	assert.Equal(t, store.StatusLoading, h.controller.Status())

	close(f.gate)
	state := h.settle()

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, store.StatusSucceeded, state.Status)
	assert.Equal(t, []int{1}, state.Data)
}

func TestLoadingIsPublished(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	h := newHarness[int](t, f, validSettings())

	require.True(t, h.controller.TriggerFetch())
	h.dispatcher.Sync()

	state := h.controller.State().Snapshot()
	assert.Equal(t, store.StatusLoading, state.Status)
	assert.True(t, state.Loading)
	close(f.gate)
}

func TestEmptyResultEndsSucceeded(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness[int](t, f, validSettings())

	require.True(t, h.controller.TriggerFetch())
	state := h.settle()

	assert.Equal(t, store.StatusSucceeded, state.Status)
	assert.NotNil(t, state.Data)
	assert.Empty(t, state.Data)
	assert.Equal(t, weather.KindEmptyResult, state.ErrorKind)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, weather.ErrEmptyResult.Error(), *state.ErrorMessage)
	assert.Zero(t, h.controller.History().Len())
}

func TestFailureKeepsPreviousData(t *testing.T) {
	f := &fakeFetcher{periods: []int{7}}
	h := newHarness[int](t, f, validSettings())

	require.True(t, h.controller.TriggerFetch())
	h.settle()

	f.err = &weather.FetchError{Kind: weather.KindServerError, StatusCode: 503}
	require.True(t, h.controller.TriggerFetch())
	state := h.settle()

	assert.Equal(t, store.StatusFailed, state.Status)
	assert.Equal(t, weather.KindServerError, state.ErrorKind)
	assert.Equal(t, []int{7}, state.Data)
}

func TestStartFetchesImmediatelyAndOnEveryTick(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.NoError(t, h.controller.Start())
	h.settle()
	assert.Equal(t, int32(1), f.calls.Load())
	require.Equal(t, 1, h.repeater.Active())
	assert.Equal(t, weather.RefreshInterval, h.repeater.tasks[0].interval)

	h.repeater.Tick()
	h.settle()
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestStartSupersedesPreviousTimer(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.NoError(t, h.controller.Start())
	h.settle()
	require.NoError(t, h.controller.Start())
	h.settle()

	assert.Equal(t, 1, h.repeater.Active())
	assert.Len(t, h.repeater.tasks, 2)
}

func TestStopPreventsFurtherFetches(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.NoError(t, h.controller.Start())
	before := h.settle()

	h.controller.Stop()
	assert.Zero(t, h.repeater.Active())

	h.repeater.Tick()
	after := h.settle()

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, before, after, "stop leaves the published state alone")
}

func TestStopAdoptsInFlightCompletion(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{}), periods: []int{3}}
	h := newHarness[int](t, f, validSettings())

	require.NoError(t, h.controller.Start())
	h.controller.Stop()
	close(f.gate)

	state := h.settle()
	assert.Equal(t, store.StatusSucceeded, state.Status)
	assert.Equal(t, []int{3}, state.Data)
}

func TestAutoRefreshDisabled(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	s := validSettings()
	s.AutoRefresh = false
	h := newHarness[int](t, f, s)

	require.NoError(t, h.controller.Start())
	state := h.settle()

	assert.Zero(t, f.calls.Load())
	assert.Zero(t, h.repeater.Active())
	assert.Equal(t, store.StatusIdle, state.Status)

	// a manual trigger still works
	require.True(t, h.controller.TriggerFetch())
	h.settle()
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestUpdateLocationTriggersFetch(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	s := validSettings()
	s.AutoRefresh = false
	h := newHarness[int](t, f, s)

	require.NoError(t, h.controller.Start())
	coords := weather.Coordinates{Latitude: 48.137, Longitude: 11.575}
	assert.True(t, h.controller.UpdateLocation(coords))
	h.settle()

	assert.Equal(t, int32(1), f.calls.Load())
	require.NotNil(t, f.lastSettings().Coordinates)
	assert.Equal(t, coords, *f.lastSettings().Coordinates)
	assert.Equal(t, []weather.Coordinates{coords}, h.config.saved)
}

func TestUpdateLocationWhileLoadingDoesNotStack(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{}), periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.True(t, h.controller.TriggerFetch())
	for i := 0; i < 5; i++ {
		h.controller.UpdateLocation(weather.Coordinates{Latitude: float64(i)})
	}
	close(f.gate)
	h.settle()

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestCloseCancelsTimerAndIgnoresTriggers(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	require.NoError(t, h.controller.Start())
	h.controller.Close()

	assert.Zero(t, h.repeater.Active())
	assert.False(t, h.controller.TriggerFetch())
	assert.ErrorIs(t, h.controller.Start(), ErrClosed)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestCyclesCompleteWhileDeliveryIsBusy(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	var delivered atomic.Int32
	h.controller.State().Subscribe(func(store.State[int]) {
		_ = h.controller.Status()
		delivered.Add(1)
	})

	gate := make(chan struct{})
	h.dispatcher.Post(func() { <-gate })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.controller.TriggerFetch()
			h.controller.Wait()
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh cycles stalled behind a busy delivery queue")
	}

	close(gate)
	h.settle()
	assert.Equal(t, int32(200), delivered.Load())
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, weather.Settings) ([]int, error) {
	panic("boom")
}

func TestFetchPanicEndsFailed(t *testing.T) {
	h := newHarness[int](t, panicFetcher{}, validSettings())

	require.True(t, h.controller.TriggerFetch())
	state := h.settle()

	assert.Equal(t, store.StatusFailed, state.Status)
	assert.Equal(t, weather.KindUnknown, state.ErrorKind)
}

type failingRepeater struct{}

func (failingRepeater) Every(time.Duration, func()) (scheduler.Handle, error) {
	return nil, errors.New("no scheduler")
}

func TestStartReportsSchedulerError(t *testing.T) {
	d := store.NewDispatcher()
	defer d.Close()

	c := New(Options[int]{
		Name:     "test",
		Fetcher:  &fakeFetcher{},
		Config:   &fakeConfig{s: validSettings()},
		Repeater: failingRepeater{},
		State:    store.NewPublished[int]("test", d),
	})
	assert.Error(t, c.Start())
}

func TestFollowForwardsUpdatesAndErrors(t *testing.T) {
	f := &fakeFetcher{periods: []int{1}}
	h := newHarness[int](t, f, validSettings())

	feed := location.NewFeed(4)
	var errs []error
	done := make(chan struct{})
	go func() {
		defer close(done)
		Follow(context.Background(), feed.Updates(), func(err error) { errs = append(errs, err) }, h.controller)
	}()

	denied := errors.New("permission denied")
	require.NoError(t, feed.PushError(denied))
	require.NoError(t, feed.Push(weather.Coordinates{Latitude: 1, Longitude: 2}))
	feed.Close()
	<-done
	h.settle()

	assert.Equal(t, []error{denied}, errs)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 1.0, f.lastSettings().Coordinates.Latitude)
}
