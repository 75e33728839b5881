// Package panel is the foreground side of the relay controller. It owns the
// board link and the display mirror, applies manual input, and turns routine
// events into display refreshes.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
	"github.com/urmzd/relayctl/pkg/routine"
)

// Status line texts
const (
	StatusOK         = "OK"
	StatusInputError = "Error! Require 32-bit binary input"
)

// View is a point-in-time copy of everything the panel shows.
type View struct {
	Snapshot device.Snapshot
	Status   string
	Input    string
	Command  string       // Label of the last routine step, e.g. "A"
	Routine  *routine.Run // Running routine, nil when idle
}

// Panel coordinates the board, the scheduler and the mirror.
type Panel struct {
	board  device.Controller
	sched  *routine.Scheduler
	mirror Mirror

	mu      sync.Mutex
	input   string
	command string
	status  string

	subscribers   []chan routine.Event
	subscribersMu sync.Mutex

	wg sync.WaitGroup
}

// New creates a panel and renders the initial, all-off state.
func New(board device.Controller, sched *routine.Scheduler, mirror Mirror) *Panel {
	p := &Panel{
		board:  board,
		sched:  sched,
		mirror: mirror,
		input:  relay.AllOff().Binary(),
		status: StatusOK,
	}
	p.mu.Lock()
	p.refreshLocked(StatusOK)
	p.mu.Unlock()
	return p
}

// Board returns the controller the panel writes through.
func (p *Panel) Board() device.Controller {
	return p.board
}

// Scheduler returns the routine scheduler.
func (p *Panel) Scheduler() *routine.Scheduler {
	return p.sched
}

// Refresh re-reads the controls and redraws the binary/hex readout.
func (p *Panel) Refresh() device.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshLocked(StatusOK)
}

// SetInput replaces the manual input text without applying it.
func (p *Panel) SetInput(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = text
}

// Input returns the manual input text.
func (p *Panel) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// ApplyInput parses the manual input and applies it to the board and the
// controls. Malformed input resets the input to all-off and reports the
// error on the status line; nothing is written in that case.
func (p *Panel) ApplyInput(ctx context.Context) (device.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := relay.DecodeBinary(p.input)
	if err != nil {
		p.input = relay.AllOff().Binary()
		p.setStatusLocked(StatusInputError)
		return device.Snapshot{}, err
	}
	return p.applyLocked(ctx, state)
}

// SetState writes state to the board and mirrors it on the controls.
func (p *Panel) SetState(ctx context.Context, state relay.State) (device.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.input = state.Binary()
	return p.applyLocked(ctx, state)
}

// AllOn applies pattern B.
func (p *Panel) AllOn(ctx context.Context) (device.Snapshot, error) {
	return p.SetState(ctx, relay.AllOn())
}

// AllOff applies pattern A.
func (p *Panel) AllOff(ctx context.Context) (device.Snapshot, error) {
	return p.SetState(ctx, relay.AllOff())
}

// SetChannel switches one channel, leaving the others as the controls show.
func (p *Panel) SetChannel(ctx context.Context, ch int, on bool) (device.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.mirror.CheckedState().WithChannel(ch, on)
	if err != nil {
		return device.Snapshot{}, err
	}
	p.input = state.Binary()
	return p.applyLocked(ctx, state)
}

// ReadBoard reads the board's actual state and mirrors it on the controls.
func (p *Panel) ReadBoard(ctx context.Context) (device.Snapshot, error) {
	if err := p.checkIdle(); err != nil {
		return device.Snapshot{}, err
	}

	state, err := p.board.ReadState(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.setStatusLocked("Error! " + err.Error())
		return device.Snapshot{}, err
	}
	if err := p.mirror.ApplyState(state.Channels()); err != nil {
		return device.Snapshot{}, err
	}
	return p.refreshLocked(StatusOK), nil
}

// StartRoutine launches a routine and consumes its events on the panel.
func (p *Panel) StartRoutine(name string) (routine.Run, error) {
	h, err := p.sched.Launch(name)
	if err != nil {
		return routine.Run{}, err
	}

	p.wg.Add(1)
	go p.consume(h)

	return h.Run(), nil
}

// CancelRoutine cancels the running routine. An empty id matches any run.
func (p *Panel) CancelRoutine(id string) (routine.Run, error) {
	h, ok := p.sched.Cancel(id)
	if !ok {
		return routine.Run{}, fmt.Errorf("%w: no running routine matches %q", routine.ErrUnknownRoutine, id)
	}
	return h.Run(), nil
}

// View returns the current panel contents.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Snapshot: device.NewSnapshot(p.mirror.CheckedState(), time.Now()),
		Status:   p.status,
		Input:    p.input,
		Command:  p.command,
	}
	if h := p.sched.Current(); h != nil {
		run := h.Run()
		v.Routine = &run
	}
	return v
}

// Close cancels any running routine, waits for its events to drain and
// releases the board. It reports whether the board link closed.
func (p *Panel) Close() bool {
	p.sched.Close()
	p.wg.Wait()
	return p.board.Close()
}

// consume is the single subscriber of a run's events.
func (p *Panel) consume(h *routine.Handle) {
	defer p.wg.Done()

	for evt := range h.Events() {
		p.handleEvent(evt)
		p.publishEvent(evt)
	}
}

func (p *Panel) handleEvent(evt routine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !evt.Terminal() {
		p.command = evt.Label
		p.input = evt.State.Binary()
		if err := p.mirror.ApplyState(evt.State.Channels()); err != nil {
			log.Error().Err(err).Msg("Failed to mirror routine state")
			p.setStatusLocked("Error! " + err.Error())
			return
		}
		p.refreshLocked(StatusOK)
		return
	}

	switch evt.Status {
	case routine.StatusFailed:
		p.setStatusLocked(fmt.Sprintf("Error! Routine %s failed: %v", evt.Routine, evt.Err))
	case routine.StatusCancelled:
		p.setStatusLocked(fmt.Sprintf("Routine %s cancelled", evt.Routine))
	default:
		p.setStatusLocked(fmt.Sprintf("Routine %s complete", evt.Routine))
	}
}

// applyLocked writes state then mirrors it. The caller holds p.mu.
func (p *Panel) applyLocked(ctx context.Context, state relay.State) (device.Snapshot, error) {
	if err := p.checkIdle(); err != nil {
		p.setStatusLocked("Error! " + err.Error())
		return device.Snapshot{}, err
	}

	if err := p.board.WriteState(ctx, state); err != nil {
		status := "Error! " + err.Error()
		if errors.Is(err, device.ErrNotConnected) {
			status = "Error! Board not connected"
		}
		p.setStatusLocked(status)
		return device.Snapshot{}, err
	}

	if err := p.mirror.ApplyState(state.Channels()); err != nil {
		p.setStatusLocked("Error! " + err.Error())
		return device.Snapshot{}, err
	}
	return p.refreshLocked(StatusOK), nil
}

// checkIdle rejects manual board access while a routine owns the board.
func (p *Panel) checkIdle() error {
	if h := p.sched.Current(); h != nil {
		return fmt.Errorf("%w: %s", device.ErrBusy, h.Routine())
	}
	return nil
}

func (p *Panel) refreshLocked(status string) device.Snapshot {
	state := p.mirror.CheckedState()
	p.status = status
	p.mirror.Display(state.Binary(), state.Hex(), status)
	return device.NewSnapshot(state, time.Now())
}

func (p *Panel) setStatusLocked(status string) {
	p.refreshLocked(status)
}

// --- routine event fan-out ---

// Subscribe returns a channel receiving every routine event handled by the
// panel. Slow subscribers miss events rather than stall the panel.
func (p *Panel) Subscribe() chan routine.Event {
	ch := make(chan routine.Event, 32)
	p.subscribersMu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription.
func (p *Panel) Unsubscribe(ch chan routine.Event) {
	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (p *Panel) publishEvent(evt routine.Event) {
	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()

	for _, ch := range p.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}
