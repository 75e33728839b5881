package routine

import (
	"time"

	"github.com/urmzd/relayctl/pkg/relay"
)

// Status is the lifecycle state of a routine run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Event is reported by a running routine. Pattern events carry Status
// running and the pattern about to be applied; the last event of every run
// carries its terminal status.
type Event struct {
	RunID   string
	Routine string
	Seq     int // 1-based position in the run's event stream
	Cycle   int // 1-based cycle, 0 on the terminal event
	Label   string
	State   relay.State
	Status  Status
	Err     error
	Time    time.Time
}

// Terminal reports whether this is the run's final event.
func (e Event) Terminal() bool {
	return e.Status.Terminal()
}

// Run summarises a routine run.
type Run struct {
	ID         string
	Routine    string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      int // pattern events emitted
	Error      string
}
