package numato

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
)

// Protocol timing defaults
const (
	DefaultSettleDelay = 50 * time.Millisecond
	maxResponseBytes   = 4096
	readChunk          = 256
)

// Transport is the byte stream the protocol runs over. Reads must not block:
// they return whatever is buffered, possibly zero bytes.
type Transport interface {
	io.ReadWriter
	ResetInputBuffer() error
	Close() error
}

// Config holds protocol timing.
type Config struct {
	// SettleDelay is the pause after each command before the board is
	// spoken to or read from again.
	SettleDelay time.Duration
}

func (c Config) settle() time.Duration {
	if c.SettleDelay <= 0 {
		return DefaultSettleDelay
	}
	return c.SettleDelay
}

// Protocol speaks the board's line-oriented ASCII protocol. Exchanges are
// half-duplex and never pipelined: each one holds the lock for write,
// settle and read.
type Protocol struct {
	transport Transport
	cfg       Config

	mu     sync.Mutex
	closed bool
	sleep  func(time.Duration)
}

// NewProtocol creates a protocol over an already open transport.
func NewProtocol(t Transport, cfg Config) *Protocol {
	return &Protocol{
		transport: t,
		cfg:       cfg,
		sleep:     time.Sleep,
	}
}

// WriteAll sets every channel to state. The settle delay is observed and any
// echoed input is flushed before returning, so the next command starts clean.
// Once the command bytes are on the wire the exchange runs to completion
// regardless of ctx.
func (p *Protocol) WriteAll(ctx context.Context, state relay.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return device.ErrNotConnected
	}

	cmd := WriteAllCommand(state)
	if err := p.send(cmd); err != nil {
		return err
	}
	p.sleep(p.cfg.settle())

	if err := p.transport.ResetInputBuffer(); err != nil {
		return fmt.Errorf("%w: flush input: %v", device.ErrTransport, err)
	}
	return nil
}

// ReadAll queries the board and returns its relay state, taken from the
// second-to-last line of the reply.
func (p *Protocol) ReadAll(ctx context.Context) (relay.State, error) {
	if err := ctx.Err(); err != nil {
		return relay.State{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return relay.State{}, device.ErrNotConnected
	}

	if err := p.send(ReadAllCommand()); err != nil {
		return relay.State{}, err
	}
	p.sleep(p.cfg.settle())

	raw, err := p.drain()
	if err != nil {
		return relay.State{}, err
	}

	state, err := ParseReadAllResponse(raw)
	if err != nil {
		log.Warn().Err(err).Str("response", string(raw)).Msg("Unexpected readall reply")
		return relay.State{}, err
	}

	log.Debug().Str("hex", state.Hex()).Msg("Relay state read")
	return state, nil
}

// Close closes the transport. It reports whether the transport is closed
// afterwards; the close error itself is only logged.
func (p *Protocol) Close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return true
	}
	if err := p.transport.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close relay transport")
		return false
	}
	p.closed = true
	return true
}

// Closed reports whether Close has succeeded.
func (p *Protocol) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Protocol) send(cmd Command) error {
	data := cmd.Bytes()

	log.Debug().Str("command", cmd.String()).Msg("Relay TX")

	n, err := p.transport.Write(data)
	if err != nil {
		return fmt.Errorf("%w: write %q: %v", device.ErrTransport, cmd.String(), err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: short write %q: %d of %d bytes", device.ErrTransport, cmd.String(), n, len(data))
	}
	return nil
}

// drain reads everything currently buffered.
func (p *Protocol) drain() ([]byte, error) {
	var out []byte
	buf := make([]byte, readChunk)
	for len(out) < maxResponseBytes {
		n, err := p.transport.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: read: %v", device.ErrTransport, err)
		}
		if err == io.EOF || n == 0 {
			break
		}
	}
	return out, nil
}

// ParseReadAllResponse extracts the relay state from a raw readall reply.
// The board answers with the command echo, the state and a prompt; the
// state is always on the second-to-last line.
func ParseReadAllResponse(raw []byte) (relay.State, error) {
	lines := SplitLines(string(raw))
	if len(lines) < 2 {
		return relay.State{}, fmt.Errorf("%w: expected at least 2 response lines, got %d", device.ErrProtocol, len(lines))
	}

	line := strings.TrimSpace(lines[len(lines)-2])
	state, err := relay.FromHex(line)
	if err != nil {
		return relay.State{}, fmt.Errorf("%w: state line %q: %v", device.ErrProtocol, line, err)
	}
	return state, nil
}

// SplitLines splits a reply on '\n' the way a line reader would: a trailing
// newline does not produce an empty final line, and an unterminated tail
// (the prompt) is a line of its own.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
