package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/urmzd/relayctl/pkg/panel"
)

// TerminalMirror keeps the relay controls in memory and prints every
// readout refresh to the terminal.
type TerminalMirror struct {
	*panel.MemoryMirror

	mu  sync.Mutex
	out io.Writer
}

// NewTerminalMirror creates a mirror that prints to out.
func NewTerminalMirror(out io.Writer) *TerminalMirror {
	return &TerminalMirror{MemoryMirror: panel.NewMemoryMirror(), out: out}
}

// Display records the readouts and prints them.
func (m *TerminalMirror) Display(binary, hex, status string) {
	m.MemoryMirror.Display(binary, hex, status)

	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "[%s] %s  %s\n", binary, hex, status)
}
