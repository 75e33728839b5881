package device

import (
	"time"

	"github.com/urmzd/relayctl/pkg/relay"
)

// Snapshot is a relay state rendered for display or transport.
type Snapshot struct {
	Binary    string    `json:"binary"`    // 32 characters, channel 0 leftmost
	Hex       string    `json:"hex"`       // 8 lowercase hex digits
	Channels  []bool    `json:"channels"`  // Per-channel on/off
	Timestamp time.Time `json:"timestamp"` // When the state was observed or applied
}

// NewSnapshot renders state at the given time.
func NewSnapshot(state relay.State, at time.Time) Snapshot {
	return Snapshot{
		Binary:    state.Binary(),
		Hex:       state.Hex(),
		Channels:  state.Channels(),
		Timestamp: at,
	}
}

// Board model constants
const (
	BoardModel    = "numato-32-relay"
	BoardChannels = relay.Channels
)
