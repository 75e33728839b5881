package device

import "errors"

var (
	// ErrProtocol indicates the board replied with something unexpected
	ErrProtocol = errors.New("relay protocol error")

	// ErrTransport indicates the serial link failed to open, read, write or close
	ErrTransport = errors.New("transport error")

	// ErrBusy indicates a routine is already running
	ErrBusy = errors.New("routine already running")

	// ErrNotConnected indicates the controller has no open link
	ErrNotConnected = errors.New("controller not connected")
)
