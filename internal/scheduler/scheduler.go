package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Handle cancels a repeating task. Cancel is safe to call more than once.
type Handle interface {
	Cancel()
}

// Repeater runs a function every interval until its handle is cancelled.
// The first run happens one interval after scheduling.
type Repeater interface {
	Every(interval time.Duration, fn func()) (Handle, error)
}

// Scheduler is a Repeater backed by gocron. Each task gets its own gocron
// scheduler so cancelling one never affects another.
type Scheduler struct {
	location *time.Location
}

// New creates a new Scheduler.
func New() *Scheduler {
	return &Scheduler{location: time.UTC}
}

// Every schedules fn and starts it asynchronously.
func (s *Scheduler) Every(interval time.Duration, fn func()) (Handle, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}

	gs := gocron.NewScheduler(s.location)
	gs.SingletonModeAll()

	if _, err := gs.Every(interval).WaitForSchedule().Do(fn); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	gs.StartAsync()
	return &task{scheduler: gs}, nil
}

type task struct {
	once      sync.Once
	scheduler *gocron.Scheduler
}

// Cancel stops the underlying scheduler and any future runs.
func (t *task) Cancel() {
	t.once.Do(func() {
		if t.scheduler != nil {
			t.scheduler.Stop()
		}
	})
}
