package device

import (
	"context"

	"github.com/urmzd/relayctl/pkg/relay"
)

// NullController is a no-op controller used when the relay board is unavailable.
// It allows the API to run in limited mode without a serial port.
type NullController struct{}

// NewNullController creates a new NullController.
func NewNullController() *NullController {
	return &NullController{}
}

func (c *NullController) ReadState(ctx context.Context) (relay.State, error) {
	return relay.State{}, ErrNotConnected
}

func (c *NullController) WriteState(ctx context.Context, state relay.State) error {
	return ErrNotConnected
}

func (c *NullController) IsConnected() bool {
	return false
}

func (c *NullController) Close() bool {
	return true
}
