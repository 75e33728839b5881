package routine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
)

type fakeApplier struct {
	mu      sync.Mutex
	writes  []relay.State
	failAt  int           // 1-based write that fails, 0 = never
	gate    chan struct{} // when set, the first write blocks until closed
	entered chan struct{}
}

func (f *fakeApplier) WriteState(ctx context.Context, state relay.State) error {
	f.mu.Lock()
	n := len(f.writes) + 1
	gate := f.gate
	f.gate = nil
	f.mu.Unlock()

	if gate != nil {
		close(f.entered)
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt == n {
		return device.ErrProtocol
	}
	f.writes = append(f.writes, state)
	return nil
}

func (f *fakeApplier) written() []relay.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]relay.State(nil), f.writes...)
}

func collect(t *testing.T, h *Handle) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case evt, ok := <-h.Events():
			if !ok {
				return events
			}
			events = append(events, evt)
		case <-timeout:
			t.Fatal("timed out waiting for routine events")
			return nil
		}
	}
}

func TestLaunch_EventOrderToCompletion(t *testing.T) {
	applier := &fakeApplier{}
	unit := 2 * time.Millisecond
	s := NewScheduler(applier, Options{Unit: unit})

	start := time.Now()
	h, err := s.Launch("routine1")
	require.NoError(t, err)

	events := collect(t, h)
	elapsed := time.Since(start)

	require.Len(t, events, 2*DemoCycles+1)
	for i := 0; i < 2*DemoCycles; i++ {
		evt := events[i]
		assert.Equal(t, StatusRunning, evt.Status)
		assert.Equal(t, i+1, evt.Seq)
		assert.Equal(t, i/2+1, evt.Cycle)
		if i%2 == 0 {
			assert.Equal(t, LabelA, evt.Label)
			assert.Equal(t, relay.AllOff(), evt.State)
		} else {
			assert.Equal(t, LabelB, evt.Label)
			assert.Equal(t, relay.AllOn(), evt.State)
		}
	}

	last := events[len(events)-1]
	assert.Equal(t, StatusCompleted, last.Status)
	assert.True(t, last.Terminal())
	assert.NoError(t, last.Err)

	writes := applier.written()
	require.Len(t, writes, 2*DemoCycles)
	for i, w := range writes {
		assert.Equal(t, events[i].State, w)
	}

	// 10 cycles of 1 + 2 units
	assert.GreaterOrEqual(t, elapsed, time.Duration(3*DemoCycles)*unit)

	status, err := h.Wait()
	assert.Equal(t, StatusCompleted, status)
	assert.NoError(t, err)
	assert.False(t, s.Running())
}

func TestLaunch_SingleFlight(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{Unit: 50 * time.Millisecond})

	first, err := s.Launch("routine1")
	require.NoError(t, err)

	_, err = s.Launch("routine2")
	require.ErrorIs(t, err, device.ErrBusy)
	_, err = s.Launch("routine1")
	require.ErrorIs(t, err, device.ErrBusy)

	first.Cancel()
	events := collect(t, first)
	require.NotEmpty(t, events)
	assert.Equal(t, StatusCancelled, events[len(events)-1].Status)

	status, _ := first.Wait()
	require.Equal(t, StatusCancelled, status)

	second, err := s.Launch("routine2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, second, s.Current())

	second.Cancel()
	collect(t, second)
}

func TestCancel_InFlightWriteCompletes(t *testing.T) {
	applier := &fakeApplier{
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	gate := applier.gate
	s := NewScheduler(applier, Options{Unit: time.Millisecond})

	h, err := s.Launch("routine3")
	require.NoError(t, err)

	first := <-h.Events()
	assert.Equal(t, LabelA, first.Label)

	<-applier.entered
	h.Cancel()
	close(gate)

	rest := collect(t, h)
	require.Len(t, rest, 1, "no pattern event may follow cancellation")
	assert.Equal(t, StatusCancelled, rest[0].Status)

	assert.Equal(t, []relay.State{relay.AllOff()}, applier.written())
}

func TestLaunch_FailureReleasesSlot(t *testing.T) {
	applier := &fakeApplier{failAt: 3}
	s := NewScheduler(applier, Options{Unit: time.Millisecond})

	h, err := s.Launch("routine1")
	require.NoError(t, err)

	events := collect(t, h)
	require.Len(t, events, 4) // A, B, A (failed write), terminal
	last := events[3]
	assert.Equal(t, StatusFailed, last.Status)
	require.ErrorIs(t, last.Err, device.ErrProtocol)

	status, err := h.Wait()
	assert.Equal(t, StatusFailed, status)
	require.ErrorIs(t, err, device.ErrProtocol)

	next, err := s.Launch("routine1")
	require.NoError(t, err)
	next.Cancel()
	collect(t, next)
}

func TestSchedulerCancel_ByID(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{Unit: 50 * time.Millisecond})

	h, err := s.Launch("routine4")
	require.NoError(t, err)

	_, ok := s.Cancel("not-this-one")
	assert.False(t, ok)

	got, ok := s.Cancel(h.ID())
	require.True(t, ok)
	assert.Equal(t, h, got)

	collect(t, h)
	_, ok = s.Cancel("")
	assert.False(t, ok)
}

func TestOnFinish(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{Unit: time.Microsecond})

	runs := make(chan Run, 1)
	s.OnFinish(func(r Run) { runs <- r })

	h, err := s.Launch("routine2")
	require.NoError(t, err)
	collect(t, h)

	r := <-runs
	assert.Equal(t, h.ID(), r.ID)
	assert.Equal(t, "routine2", r.Routine)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, 2*DemoCycles, r.Steps)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))
}

func TestLaunch_Unknown(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{})
	_, err := s.Launch("nope")
	require.True(t, errors.Is(err, ErrUnknownRoutine))
}

func TestRegister(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{})
	require.Len(t, s.Definitions(), 4)

	err := s.Register(Definition{Name: "empty", Cycles: 1})
	require.ErrorIs(t, err, ErrInvalidDefinition)

	require.NoError(t, s.Register(Definition{
		Name:   "blink",
		Cycles: 2,
		Steps:  []Step{{Label: "on", Pattern: relay.AllOn(), Hold: 1}},
	}))
	defs := s.Definitions()
	require.Len(t, defs, 5)
	assert.Equal(t, "blink", defs[4].Name)
}

func TestClose_StopsRunning(t *testing.T) {
	s := NewScheduler(&fakeApplier{}, Options{Unit: 50 * time.Millisecond})

	h, err := s.Launch("routine1")
	require.NoError(t, err)

	go func() {
		for range h.Events() {
		}
	}()
	s.Close()

	assert.Equal(t, StatusCancelled, h.Status())
	_, err = s.Launch("routine1")
	require.Error(t, err)
}

func TestBuiltins(t *testing.T) {
	for _, def := range Builtins() {
		require.NoError(t, def.Validate())
		assert.Equal(t, 3*DemoCycles, def.Units())
	}
}
