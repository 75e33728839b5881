package panel

import (
	"fmt"
	"sync"

	"github.com/urmzd/relayctl/pkg/relay"
)

// Mirror is the display collaborator: 32 checkable controls plus a
// binary/hex/status readout.
type Mirror interface {
	// CheckedState reads the controls
	CheckedState() relay.State

	// ApplyState sets the controls. It fails when given anything other than
	// exactly one value per channel.
	ApplyState(channels []bool) error

	// Display shows the current binary and hex forms and a status line
	Display(binary, hex, status string)
}

// MemoryMirror is a Mirror kept in memory, for headless frontends.
type MemoryMirror struct {
	mu       sync.RWMutex
	checked  relay.State
	binary   string
	hex      string
	status   string
	displays int
}

// NewMemoryMirror creates a mirror with every control unchecked.
func NewMemoryMirror() *MemoryMirror {
	off := relay.AllOff()
	return &MemoryMirror{
		binary: off.Binary(),
		hex:    off.Hex(),
		status: StatusOK,
	}
}

func (m *MemoryMirror) CheckedState() relay.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checked
}

func (m *MemoryMirror) ApplyState(channels []bool) error {
	if len(channels) != relay.Channels {
		return fmt.Errorf("%w: mirror has %d controls, got %d values", relay.ErrFormat, relay.Channels, len(channels))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.checked[:], channels)
	return nil
}

func (m *MemoryMirror) Display(binary, hex, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = binary
	m.hex = hex
	m.status = status
	m.displays++
}

// Toggle flips one control, as a click would.
func (m *MemoryMirror) Toggle(ch int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch < 0 || ch >= relay.Channels {
		return fmt.Errorf("%w: channel %d out of range", relay.ErrFormat, ch)
	}
	m.checked[ch] = !m.checked[ch]
	return nil
}

// Readout returns what the display currently shows.
func (m *MemoryMirror) Readout() (binary, hex, status string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.binary, m.hex, m.status
}

// Displays returns how many times Display has been called.
func (m *MemoryMirror) Displays() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displays
}
