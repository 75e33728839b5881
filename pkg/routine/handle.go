package routine

import (
	"context"
	"sync"
	"time"
)

// Handle controls and observes one routine run.
type Handle struct {
	id      string
	routine string
	started time.Time

	cancel context.CancelFunc
	events chan Event
	done   chan struct{}

	mu       sync.Mutex
	status   Status
	err      error
	count    int
	finished time.Time
}

func newHandle(id, routine string, cancel context.CancelFunc, buffer int) *Handle {
	return &Handle{
		id:      id,
		routine: routine,
		started: time.Now(),
		cancel:  cancel,
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
		status:  StatusRunning,
	}
}

// ID returns the run ID.
func (h *Handle) ID() string { return h.id }

// Routine returns the routine name.
func (h *Handle) Routine() string { return h.routine }

// Events delivers the run's events in emission order and closes after the
// terminal event.
func (h *Handle) Events() <-chan Event { return h.events }

// Done is closed once the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Cancel asks the run to stop. A write already in flight completes first.
func (h *Handle) Cancel() { h.cancel() }

// Wait blocks until the run finishes and returns its terminal status and
// error, if it failed.
func (h *Handle) Wait() (Status, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.err
}

// Status returns the current status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Run returns a summary of the run so far.
func (h *Handle) Run() Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary()
}

func (h *Handle) summary() Run {
	r := Run{
		ID:         h.id,
		Routine:    h.routine,
		Status:     h.status,
		StartedAt:  h.started,
		FinishedAt: h.finished,
		Steps:      h.count,
	}
	if h.err != nil {
		r.Error = h.err.Error()
	}
	return r
}

func (h *Handle) steps() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *Handle) stepped() {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
}

func (h *Handle) finish(status Status, err error) Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.err = err
	h.finished = time.Now()
	h.cancel()
	return h.summary()
}
