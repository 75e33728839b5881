package console

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/relayctl/pkg/panel"
	"github.com/urmzd/relayctl/pkg/relay"
	"github.com/urmzd/relayctl/pkg/routine"
)

type fakeBoard struct {
	mu    sync.Mutex
	state relay.State
}

func (b *fakeBoard) ReadState(ctx context.Context) (relay.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, nil
}

func (b *fakeBoard) WriteState(ctx context.Context, state relay.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
	return nil
}

func (b *fakeBoard) IsConnected() bool { return true }
func (b *fakeBoard) Close() bool       { return true }

func (b *fakeBoard) hex() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Hex()
}

type fakeHistory struct{ runs []routine.Run }

func (h *fakeHistory) Recent(ctx context.Context, limit int) ([]routine.Run, error) {
	return h.runs, nil
}

func newTestConsole(t *testing.T, unit time.Duration) (*Console, *fakeBoard, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	board := &fakeBoard{}
	var out, display bytes.Buffer
	mirror := NewTerminalMirror(&display)
	sched := routine.NewScheduler(board, routine.Options{Unit: unit})
	p := panel.New(board, sched, mirror)
	t.Cleanup(func() { p.Close() })

	c := &Console{panel: p, mirror: mirror, out: &out, history: &fakeHistory{}}
	return c, board, &out, &display
}

func TestExecute_Set(t *testing.T) {
	c, board, _, display := newTestConsole(t, time.Millisecond)
	ctx := context.Background()

	require.True(t, c.Execute(ctx, "set "+strings.Repeat("1", 16)+strings.Repeat("0", 16)))
	assert.Equal(t, "ffff0000", board.hex())
	assert.Contains(t, display.String(), "ffff0000  OK")

	require.True(t, c.Execute(ctx, "set 10"))
	assert.Equal(t, "ffff0000", board.hex())
	assert.Contains(t, display.String(), panel.StatusInputError)
}

func TestExecute_OnOffChannel(t *testing.T) {
	c, board, out, _ := newTestConsole(t, time.Millisecond)
	ctx := context.Background()

	c.Execute(ctx, "on")
	assert.Equal(t, "ffffffff", board.hex())

	c.Execute(ctx, "off")
	assert.Equal(t, "00000000", board.hex())

	c.Execute(ctx, "ch 31 on")
	assert.Equal(t, "00000001", board.hex())

	c.Execute(ctx, "ch 40 on")
	assert.Contains(t, out.String(), "Error:")

	c.Execute(ctx, "ch 1 maybe")
	assert.Contains(t, out.String(), "Invalid state")
}

func TestExecute_ToggleThenApply(t *testing.T) {
	c, board, _, display := newTestConsole(t, time.Millisecond)
	ctx := context.Background()

	c.Execute(ctx, "toggle 0")
	assert.Equal(t, "00000000", board.hex(), "toggle must not write")
	assert.Contains(t, display.String(), "80000000")

	c.Execute(ctx, "apply")
	assert.Equal(t, "80000000", board.hex())
}

func TestExecute_Routines(t *testing.T) {
	c, _, out, _ := newTestConsole(t, time.Hour)
	ctx := context.Background()

	c.Execute(ctx, "routines")
	assert.Contains(t, out.String(), "routine4")

	c.Execute(ctx, "run routine1")
	assert.Contains(t, out.String(), "Started routine1")
	assert.True(t, c.panel.Scheduler().Running())

	c.Execute(ctx, "run routine2")
	assert.Contains(t, out.String(), "already running")

	c.Execute(ctx, "cancel")
	assert.Contains(t, out.String(), "Cancelling routine1")

	require.Eventually(t, func() bool {
		return c.panel.View().Status == "Routine routine1 cancelled"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestExecute_StatusHistoryQuit(t *testing.T) {
	c, _, out, _ := newTestConsole(t, time.Millisecond)
	ctx := context.Background()

	c.history = &fakeHistory{runs: []routine.Run{{
		ID: "run-9", Routine: "routine3", Status: routine.StatusFailed, Steps: 2,
		Error: "transport failure", StartedAt: time.Now(),
	}}}

	c.Execute(ctx, "status")
	assert.Contains(t, out.String(), "Routine: idle")
	assert.Contains(t, out.String(), "Board:   connected")

	c.Execute(ctx, "history")
	assert.Contains(t, out.String(), "run-9")
	assert.Contains(t, out.String(), "transport failure")

	c.Execute(ctx, "bogus")
	assert.Contains(t, out.String(), "Unknown command: bogus")

	assert.True(t, c.Execute(ctx, "   "))
	assert.False(t, c.Execute(ctx, "quit"))
}

func TestFormatReadback(t *testing.T) {
	got := FormatReadback(strings.Repeat("1", 32), true)
	assert.Equal(t, strings.Repeat("1", 32)+"\nPort closed: true\n", got)
}
