package numato

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// BaudRate is the fixed line speed of the Numato relay board.
const BaudRate = 9600

// SerialPort wraps a serial connection to the relay board's USB CDC port.
type SerialPort struct {
	port   serial.Port
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the serial port at 9600 baud, 8N1, with non-blocking reads.
func OpenSerial(portPath string) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	// Zero timeout: Read returns whatever is buffered, possibly nothing.
	if err := port.SetReadTimeout(0); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	log.Info().Str("port", portPath).Int("baud", BaudRate).Msg("Serial port opened")

	return &SerialPort{port: port, path: portPath}, nil
}

// Path returns the device path the port was opened with.
func (s *SerialPort) Path() string {
	return s.path
}

// Write sends raw bytes to the serial port.
func (s *SerialPort) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// Read reads the bytes currently buffered by the driver. It returns 0, nil
// when nothing is pending.
func (s *SerialPort) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

// ResetInputBuffer discards unread input.
func (s *SerialPort) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.ResetInputBuffer()
}

// Close closes the serial port. Closing twice is a no-op.
func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.port.Drain(); err != nil {
		log.Debug().Err(err).Str("port", s.path).Msg("Drain before close failed")
	}
	return s.port.Close()
}
