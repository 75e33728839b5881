package panel

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
	"github.com/urmzd/relayctl/pkg/routine"
)

type fakeBoard struct {
	mu       sync.Mutex
	state    relay.State
	writes   int
	writeErr error
	closed   bool
}

func (b *fakeBoard) ReadState(ctx context.Context) (relay.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, nil
}

func (b *fakeBoard) WriteState(ctx context.Context, state relay.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.state = state
	b.writes++
	return nil
}

func (b *fakeBoard) IsConnected() bool { return true }

func (b *fakeBoard) Close() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return true
}

func (b *fakeBoard) writeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

func newTestPanel(unit time.Duration) (*Panel, *fakeBoard, *MemoryMirror) {
	board := &fakeBoard{}
	mirror := NewMemoryMirror()
	sched := routine.NewScheduler(board, routine.Options{Unit: unit})
	return New(board, sched, mirror), board, mirror
}

func TestRefresh_ShowsCheckedControls(t *testing.T) {
	p, _, mirror := newTestPanel(time.Millisecond)

	require.NoError(t, mirror.Toggle(0))
	require.NoError(t, mirror.Toggle(31))
	snap := p.Refresh()

	assert.Equal(t, "80000001", snap.Hex)
	bin, hex, status := mirror.Readout()
	assert.Equal(t, "1"+strings.Repeat("0", 30)+"1", bin)
	assert.Equal(t, "80000001", hex)
	assert.Equal(t, StatusOK, status)
}

func TestApplyInput(t *testing.T) {
	p, board, mirror := newTestPanel(time.Millisecond)
	ctx := context.Background()

	p.SetInput(strings.Repeat("1", 16) + strings.Repeat("0", 16))
	snap, err := p.ApplyInput(ctx)
	require.NoError(t, err)

	assert.Equal(t, "ffff0000", snap.Hex)
	assert.Equal(t, "ffff0000", board.state.Hex())
	assert.Equal(t, "ffff0000", mirror.CheckedState().Hex())
}

func TestApplyInput_MalformedRevertsToAllOff(t *testing.T) {
	p, board, mirror := newTestPanel(time.Millisecond)

	p.SetInput("1111")
	_, err := p.ApplyInput(context.Background())
	require.ErrorIs(t, err, relay.ErrFormat)

	assert.Equal(t, relay.AllOff().Binary(), p.Input())
	assert.Equal(t, 0, board.writeCount())
	_, _, status := mirror.Readout()
	assert.Equal(t, StatusInputError, status)
	assert.Equal(t, StatusInputError, p.View().Status)
}

func TestAllOnAllOff(t *testing.T) {
	p, board, _ := newTestPanel(time.Millisecond)
	ctx := context.Background()

	snap, err := p.AllOn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ffffffff", snap.Hex)
	assert.Equal(t, relay.AllOn().Binary(), p.Input())

	snap, err = p.AllOff(ctx)
	require.NoError(t, err)
	assert.Equal(t, "00000000", snap.Hex)
	assert.Equal(t, 2, board.writeCount())
}

func TestSetChannel(t *testing.T) {
	p, board, _ := newTestPanel(time.Millisecond)
	ctx := context.Background()

	_, err := p.SetChannel(ctx, 28, true)
	require.NoError(t, err)
	snap, err := p.SetChannel(ctx, 31, true)
	require.NoError(t, err)
	assert.Equal(t, "00000009", snap.Hex)
	assert.Equal(t, "00000009", board.state.Hex())

	_, err = p.SetChannel(ctx, 40, true)
	require.ErrorIs(t, err, relay.ErrFormat)
}

func TestSetState_BoardError(t *testing.T) {
	p, board, mirror := newTestPanel(time.Millisecond)
	board.writeErr = device.ErrTransport

	_, err := p.AllOn(context.Background())
	require.ErrorIs(t, err, device.ErrTransport)
	assert.Equal(t, relay.AllOff(), mirror.CheckedState(), "controls must not change on failed write")
	assert.True(t, strings.HasPrefix(p.View().Status, "Error!"))
}

func TestReadBoard(t *testing.T) {
	p, board, mirror := newTestPanel(time.Millisecond)
	board.state = relay.FromUint32(0xdeadbeef)

	snap, err := p.ReadBoard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", snap.Hex)
	assert.Equal(t, "deadbeef", mirror.CheckedState().Hex())
}

func TestStartRoutine_MirrorsEventsAndBlocksManualWrites(t *testing.T) {
	p, board, mirror := newTestPanel(20 * time.Millisecond)
	ctx := context.Background()

	events := p.Subscribe()
	defer p.Unsubscribe(events)

	run, err := p.StartRoutine("routine1")
	require.NoError(t, err)
	assert.Equal(t, routine.StatusRunning, run.Status)

	_, err = p.StartRoutine("routine2")
	require.ErrorIs(t, err, device.ErrBusy)

	_, err = p.AllOn(ctx)
	require.ErrorIs(t, err, device.ErrBusy)

	first := <-events
	assert.Equal(t, routine.LabelA, first.Label)

	second := <-events
	assert.Equal(t, routine.LabelB, second.Label)
	require.Eventually(t, func() bool {
		return mirror.CheckedState() == relay.AllOn() && p.View().Command == routine.LabelB
	}, time.Second, 5*time.Millisecond)

	view := p.View()
	require.NotNil(t, view.Routine)
	assert.Equal(t, run.ID, view.Routine.ID)

	cancelled, err := p.CancelRoutine(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, cancelled.ID)

	var last routine.Event
	for evt := range events {
		if evt.Terminal() {
			last = evt
			break
		}
	}
	assert.Equal(t, routine.StatusCancelled, last.Status)
	assert.GreaterOrEqual(t, board.writeCount(), 2)

	require.Eventually(t, func() bool { return p.View().Routine == nil }, time.Second, 5*time.Millisecond)
	_, err = p.AllOff(ctx)
	require.NoError(t, err)
}

func TestStartRoutine_FailureSurfacesOnStatus(t *testing.T) {
	p, board, _ := newTestPanel(time.Millisecond)
	board.writeErr = device.ErrProtocol

	events := p.Subscribe()
	defer p.Unsubscribe(events)

	_, err := p.StartRoutine("routine1")
	require.NoError(t, err)

	var last routine.Event
	for evt := range events {
		if evt.Terminal() {
			last = evt
			break
		}
	}
	require.Equal(t, routine.StatusFailed, last.Status)
	require.ErrorIs(t, last.Err, device.ErrProtocol)
	assert.Contains(t, p.View().Status, "failed")
}

func TestCancelRoutine_Idle(t *testing.T) {
	p, _, _ := newTestPanel(time.Millisecond)
	_, err := p.CancelRoutine("")
	require.ErrorIs(t, err, routine.ErrUnknownRoutine)
}

func TestClose(t *testing.T) {
	p, board, _ := newTestPanel(50 * time.Millisecond)

	_, err := p.StartRoutine("routine1")
	require.NoError(t, err)

	assert.True(t, p.Close())
	assert.True(t, board.closed)
}

func TestMemoryMirror_RejectsWrongLength(t *testing.T) {
	m := NewMemoryMirror()
	require.ErrorIs(t, m.ApplyState(make([]bool, 31)), relay.ErrFormat)
	require.ErrorIs(t, m.ApplyState(make([]bool, 33)), relay.ErrFormat)
	require.NoError(t, m.ApplyState(make([]bool, 32)))
}
