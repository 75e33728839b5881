package numato

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
)

// Controller implements device.Controller for a Numato 32-channel USB
// relay board.
type Controller struct {
	proto *Protocol
	name  string

	connected bool
	connMu    sync.RWMutex
}

// NewController opens the serial port at portPath and returns a connected
// controller. The port stays open until Close.
func NewController(portPath string, cfg Config) (*Controller, error) {
	log.Info().Str("port", portPath).Dur("settle", cfg.settle()).Msg("Initializing relay controller")

	s, err := OpenSerial(portPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrTransport, err)
	}

	return NewControllerWithTransport(s, portPath, cfg), nil
}

// NewControllerWithTransport wraps an already open transport.
func NewControllerWithTransport(t Transport, name string, cfg Config) *Controller {
	return &Controller{
		proto:     NewProtocol(t, cfg),
		name:      name,
		connected: true,
	}
}

// Name returns the port path or transport label.
func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) ReadState(ctx context.Context) (relay.State, error) {
	if !c.IsConnected() {
		return relay.State{}, device.ErrNotConnected
	}
	return c.proto.ReadAll(ctx)
}

func (c *Controller) WriteState(ctx context.Context, state relay.State) error {
	if !c.IsConnected() {
		return device.ErrNotConnected
	}
	if err := c.proto.WriteAll(ctx, state); err != nil {
		return err
	}
	log.Debug().Str("hex", state.Hex()).Msg("Relay state written")
	return nil
}

func (c *Controller) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

func (c *Controller) Close() bool {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	closed := c.proto.Close()
	if closed {
		log.Info().Str("port", c.name).Msg("Relay controller closed")
	}
	return closed
}
