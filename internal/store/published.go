package store

import (
	"sync"
	"time"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// Status is the phase of a data source's refresh cycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is what consumers see of a data source.
type State[T any] struct {
	Status       Status            `json:"status"`
	Loading      bool              `json:"isLoading"`
	Data         []T               `json:"data"`
	ErrorKind    weather.ErrorKind `json:"errorKind,omitempty"`
	ErrorMessage *string           `json:"errorMessage"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Published is an observable State. Writes are applied on the dispatcher;
// reads return the last applied state.
type Published[T any] struct {
	name       string
	dispatcher *Dispatcher

	mu     sync.RWMutex
	state  State[T]
	subs   map[int]func(State[T])
	nextID int
}

func NewPublished[T any](name string, d *Dispatcher) *Published[T] {
	return &Published[T]{
		name:       name,
		dispatcher: d,
		state:      State[T]{Status: StatusIdle},
		subs:       make(map[int]func(State[T])),
	}
}

func (p *Published[T]) Name() string {
	return p.name
}

// Update queues a mutation. Subscribers are notified with the resulting state
// on the dispatcher goroutine.
func (p *Published[T]) Update(mutate func(*State[T])) {
	p.dispatcher.Post(func() {
		p.mu.Lock()
		next := p.state
		mutate(&next)
		next.UpdatedAt = time.Now().UTC()
		p.state = next
		subs := make([]func(State[T]), 0, len(p.subs))
		for _, fn := range p.subs {
			subs = append(subs, fn)
		}
		p.mu.Unlock()

		for _, fn := range subs {
			fn(next)
		}
	})
}

// Snapshot returns the current state.
func (p *Published[T]) Snapshot() State[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe registers fn for every future state change and returns a function
// that removes it.
func (p *Published[T]) Subscribe(fn func(State[T])) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}
