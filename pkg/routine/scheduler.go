package routine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
	"golang.org/x/sync/semaphore"
)

// Applier writes a relay pattern to the board.
type Applier interface {
	WriteState(ctx context.Context, state relay.State) error
}

// Options tune the scheduler.
type Options struct {
	// Unit is the length of one hold unit. Defaults to one second.
	Unit time.Duration
	// EventBuffer is the capacity of each run's event channel.
	EventBuffer int
}

const (
	defaultUnit        = time.Second
	defaultEventBuffer = 16
)

// Scheduler launches named routines on background goroutines. At most one
// routine runs at a time, which also makes it the only writer to the board
// while it runs.
type Scheduler struct {
	applier Applier
	unit    time.Duration
	buffer  int

	slot *semaphore.Weighted

	mu       sync.Mutex
	defs     map[string]Definition
	order    []string
	current  *Handle
	onFinish []func(Run)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler writing through applier, with the
// built-in routines registered.
func NewScheduler(applier Applier, opts Options) *Scheduler {
	if opts.Unit <= 0 {
		opts.Unit = defaultUnit
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		applier: applier,
		unit:    opts.Unit,
		buffer:  opts.EventBuffer,
		slot:    semaphore.NewWeighted(1),
		defs:    make(map[string]Definition),
		ctx:     ctx,
		cancel:  cancel,
	}

	for _, def := range Builtins() {
		// Built-ins are statically valid
		_ = s.Register(def)
	}
	return s
}

// Unit returns the hold unit length.
func (s *Scheduler) Unit() time.Duration {
	return s.unit
}

// Register adds or replaces a routine definition.
func (s *Scheduler) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.defs[def.Name]; !ok {
		s.order = append(s.order, def.Name)
	}
	s.defs[def.Name] = def
	return nil
}

// Definitions returns the registered routines in registration order.
func (s *Scheduler) Definitions() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := make([]Definition, 0, len(s.order))
	for _, name := range s.order {
		defs = append(defs, s.defs[name])
	}
	return defs
}

// Definition looks up a routine by name.
func (s *Scheduler) Definition(name string) (Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.defs[name]
	return def, ok
}

// OnFinish registers a callback invoked once per run when it reaches a
// terminal state, before the terminal event is delivered.
func (s *Scheduler) OnFinish(fn func(Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = append(s.onFinish, fn)
}

// Launch starts the named routine. It fails with device.ErrBusy while another
// routine is running. The caller must drain Handle.Events until it closes.
func (s *Scheduler) Launch(name string) (*Handle, error) {
	def, ok := s.Definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoutine, name)
	}

	if !s.slot.TryAcquire(1) {
		current := s.Current()
		if current != nil {
			return nil, fmt.Errorf("%w: %s (run %s)", device.ErrBusy, current.Routine(), current.ID())
		}
		return nil, device.ErrBusy
	}

	if err := s.ctx.Err(); err != nil {
		s.slot.Release(1)
		return nil, fmt.Errorf("scheduler closed: %w", err)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	h := newHandle(uuid.New().String(), def.Name, cancel, s.buffer)

	s.mu.Lock()
	s.current = h
	s.mu.Unlock()

	log.Info().
		Str("routine", def.Name).
		Str("run", h.ID()).
		Int("cycles", def.Cycles).
		Dur("unit", s.unit).
		Msg("Routine started")

	go s.run(ctx, h, def)

	return h, nil
}

// Current returns the running routine, or nil.
func (s *Scheduler) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Running reports whether a routine is running.
func (s *Scheduler) Running() bool {
	return s.Current() != nil
}

// Cancel cancels the running routine if its run ID matches id. An empty id
// cancels whatever is running.
func (s *Scheduler) Cancel(id string) (*Handle, bool) {
	h := s.Current()
	if h == nil || (id != "" && h.ID() != id) {
		return nil, false
	}
	h.Cancel()
	return h, true
}

// Close cancels the running routine and waits for it to stop.
func (s *Scheduler) Close() {
	s.cancel()
	if h := s.Current(); h != nil {
		<-h.Done()
	}
}

func (s *Scheduler) run(ctx context.Context, h *Handle, def Definition) {
	status, err := s.execute(ctx, h, def)

	run := h.finish(status, err)

	s.mu.Lock()
	if s.current == h {
		s.current = nil
	}
	hooks := append([]func(Run){}, s.onFinish...)
	s.mu.Unlock()
	s.slot.Release(1)
	close(h.done)

	logEvent := log.Info()
	if status == StatusFailed {
		logEvent = log.Error().Err(err)
	}
	logEvent.
		Str("routine", def.Name).
		Str("run", h.ID()).
		Str("status", string(status)).
		Int("steps", run.Steps).
		Msg("Routine finished")

	for _, fn := range hooks {
		fn(run)
	}

	h.events <- Event{
		RunID:   h.ID(),
		Routine: def.Name,
		Seq:     run.Steps + 1,
		Status:  status,
		Err:     err,
		Time:    run.FinishedAt,
	}
	close(h.events)
}

// execute runs the cycles. Cancellation is checked only between steps and
// during holds: a write that has started always completes.
func (s *Scheduler) execute(ctx context.Context, h *Handle, def Definition) (Status, error) {
	writeCtx := context.WithoutCancel(ctx)

	for cycle := 1; cycle <= def.Cycles; cycle++ {
		for _, step := range def.Steps {
			if ctx.Err() != nil {
				return StatusCancelled, nil
			}

			evt := Event{
				RunID:   h.ID(),
				Routine: def.Name,
				Seq:     h.steps() + 1,
				Cycle:   cycle,
				Label:   step.Label,
				State:   step.Pattern,
				Status:  StatusRunning,
				Time:    time.Now(),
			}
			select {
			case <-ctx.Done():
				return StatusCancelled, nil
			case h.events <- evt:
				h.stepped()
			}

			if err := s.applier.WriteState(writeCtx, step.Pattern); err != nil {
				return StatusFailed, fmt.Errorf("routine %s cycle %d step %s: %w", def.Name, cycle, step.Label, err)
			}

			if !hold(ctx, time.Duration(step.Hold)*s.unit) {
				return StatusCancelled, nil
			}
		}
	}
	return StatusCompleted, nil
}

// hold sleeps for d, returning false if ctx is cancelled first.
func hold(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
