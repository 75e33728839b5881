package device

import (
	"context"

	"github.com/urmzd/relayctl/pkg/relay"
)

// Controller abstracts a 32-channel relay board. Implementations serialise
// access to the underlying link; at most one exchange is in flight at a time.
type Controller interface {
	// ReadState queries the board for its current relay state
	ReadState(ctx context.Context) (relay.State, error)

	// WriteState sets every channel of the board at once
	WriteState(ctx context.Context, state relay.State) error

	// IsConnected returns true if the board link is open
	IsConnected() bool

	// Close releases the link. It reports whether the link is closed
	// afterwards and is safe to call more than once.
	Close() bool
}
