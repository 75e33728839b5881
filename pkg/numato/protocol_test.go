package numato

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
)

// fakeBoard mimics the firmware: it echoes every command and answers readall
// with the last written state followed by a prompt.
type fakeBoard struct {
	mu       sync.Mutex
	writes   []string
	pending  []byte
	state    string
	reply    []byte // overrides the readall reply when set
	flushes  int
	closes   int
	writeErr error
	closeErr error
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{state: "00000000"}
}

func (f *fakeBoard) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	line := string(p)
	f.writes = append(f.writes, line)
	cmd := strings.TrimSuffix(line, "\r")
	f.pending = append(f.pending, []byte(cmd+"\n\r")...)

	switch {
	case strings.HasPrefix(cmd, "relay writeall "):
		f.state = strings.TrimPrefix(cmd, "relay writeall ")
		f.pending = append(f.pending, '>')
	case cmd == "relay readall":
		if f.reply != nil {
			f.pending = f.reply
		} else {
			f.pending = append(f.pending, []byte(f.state+"\n\r>")...)
		}
	}
	return len(p), nil
}

func (f *fakeBoard) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeBoard) ResetInputBuffer() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	f.pending = nil
	return nil
}

func (f *fakeBoard) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

func newTestProtocol(t Transport) (*Protocol, *[]time.Duration) {
	p := NewProtocol(t, Config{SettleDelay: 20 * time.Millisecond})
	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func TestCommand_Bytes(t *testing.T) {
	state, err := relay.DecodeBinary(strings.Repeat("0", 28) + "1111")
	require.NoError(t, err)

	assert.Equal(t, "relay writeall 0000000f\r", string(WriteAllCommand(state).Bytes()))
	assert.Equal(t, "relay readall\r", string(ReadAllCommand().Bytes()))
	assert.Empty(t, ReadAllCommand().Payload())
}

func TestWriteAll_SettlesAndFlushes(t *testing.T) {
	board := newFakeBoard()
	p, slept := newTestProtocol(board)

	require.NoError(t, p.WriteAll(context.Background(), relay.AllOn()))

	assert.Equal(t, []string{"relay writeall ffffffff\r"}, board.writes)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, *slept)
	assert.Equal(t, 1, board.flushes)
	assert.Empty(t, board.pending, "echo must be discarded")
}

func TestReadAll_AfterWrite(t *testing.T) {
	board := newFakeBoard()
	p, _ := newTestProtocol(board)
	ctx := context.Background()

	want, err := relay.DecodeBinary(strings.Repeat("10", 16))
	require.NoError(t, err)
	require.NoError(t, p.WriteAll(ctx, want))

	got, err := p.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "relay readall\r", board.writes[1])
}

func TestReadAll_ThreeLineReply(t *testing.T) {
	board := newFakeBoard()
	board.reply = []byte("relay readall\nffffffff\n>")
	p, _ := newTestProtocol(board)

	got, err := p.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, relay.AllOn(), got)
}

func TestReadAll_SingleLine(t *testing.T) {
	board := newFakeBoard()
	board.reply = []byte("ffffffff")
	p, _ := newTestProtocol(board)

	_, err := p.ReadAll(context.Background())
	require.ErrorIs(t, err, device.ErrProtocol)
}

func TestReadAll_NoReply(t *testing.T) {
	board := newFakeBoard()
	board.reply = []byte{}
	p, _ := newTestProtocol(board)

	_, err := p.ReadAll(context.Background())
	require.ErrorIs(t, err, device.ErrProtocol)
}

func TestParseReadAllResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "numato line endings", raw: "relay readall\n\r0000ffff\n\r>", want: "0000ffff"},
		{name: "trailing newline", raw: "relay readall\n00000001\n>\n", want: "00000001"},
		{name: "two lines", raw: "abcdef01\n>", want: "abcdef01"},
		{name: "non hex state", raw: "relay readall\nzzzzzzzz\n>", wantErr: true},
		{name: "prompt only", raw: ">", wantErr: true},
		{name: "overflow", raw: "relay readall\n1ffffffff\n>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReadAllResponse([]byte(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, device.ErrProtocol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Hex())
		})
	}
}

func TestWriteAll_TransportError(t *testing.T) {
	board := newFakeBoard()
	board.writeErr = errors.New("unplugged")
	p, _ := newTestProtocol(board)

	err := p.WriteAll(context.Background(), relay.AllOff())
	require.ErrorIs(t, err, device.ErrTransport)
}

func TestWriteAll_CancelledBeforeWrite(t *testing.T) {
	board := newFakeBoard()
	p, _ := newTestProtocol(board)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.WriteAll(ctx, relay.AllOn())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, board.writes)
}

func TestClose_Idempotent(t *testing.T) {
	board := newFakeBoard()
	p, _ := newTestProtocol(board)

	assert.True(t, p.Close())
	assert.True(t, p.Close())
	assert.Equal(t, 1, board.closes)

	err := p.WriteAll(context.Background(), relay.AllOn())
	require.ErrorIs(t, err, device.ErrNotConnected)
}

func TestClose_Failure(t *testing.T) {
	board := newFakeBoard()
	board.closeErr = errors.New("busy")
	p, _ := newTestProtocol(board)

	assert.False(t, p.Close())
	assert.False(t, p.Closed())
}

func TestController_RoundTrip(t *testing.T) {
	board := newFakeBoard()
	c := NewControllerWithTransport(board, "fake", Config{SettleDelay: time.Millisecond})
	ctx := context.Background()

	require.True(t, c.IsConnected())
	require.NoError(t, c.WriteState(ctx, relay.AllOn()))

	got, err := c.ReadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, relay.AllOn(), got)

	assert.True(t, c.Close())
	assert.False(t, c.IsConnected())

	_, err = c.ReadState(ctx)
	require.ErrorIs(t, err, device.ErrNotConnected)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Len(t, SplitLines("a\nb\n>"), 3)
	assert.Len(t, SplitLines("a\nb\n"), 2)
}
