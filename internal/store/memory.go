package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no successful result is retained.
	ErrNotFound = errors.New("no weather data retained")
)

// Entry is one successful fetch result.
type Entry[T any] struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Periods   []T       `json:"periods"`
}

// History is a concurrency-safe, bounded, time-ordered list of results.
type History[T any] struct {
	mu sync.RWMutex

	entries []Entry[T]

	// retention configuration
	maxHistory int           // max number of entries
	maxAge     time.Duration // optional max age for entries
}

// NewHistory creates a History with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewHistory[T any](maxHistory int, maxAge time.Duration) *History[T] {
	return &History[T]{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a new entry and enforces retention.
func (h *History[T]) Save(entry Entry[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)

	// Enforce retention by count.
	if h.maxHistory > 0 && len(h.entries) > h.maxHistory {
		over := len(h.entries) - h.maxHistory
		h.entries = h.entries[over:]
	}

	// Enforce retention by age.
	if h.maxAge > 0 {
		cutoff := time.Now().Add(-h.maxAge)
		i := 0
		for ; i < len(h.entries); i++ {
			if !h.entries[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			h.entries = h.entries[i:]
		}
	}
}

// GetLatest returns the most recent entry.
func (h *History[T]) GetLatest() (Entry[T], error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return Entry[T]{}, ErrNotFound
	}
	return h.entries[len(h.entries)-1], nil
}

// GetRange returns all entries fetched between from and to (inclusive).
func (h *History[T]) GetRange(from, to time.Time) ([]Entry[T], error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []Entry[T]
	for _, e := range h.entries {
		if !e.FetchedAt.Before(from) && !e.FetchedAt.After(to) {
			result = append(result, e)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len reports the number of retained entries.
func (h *History[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
