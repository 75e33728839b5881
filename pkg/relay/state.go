// Package relay holds the 32-channel relay state and its textual encodings.
//
// Channel 0 is the leftmost character of the binary form and the most
// significant bit of the 32-bit value, matching the board's wiring order.
package relay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Channels is the number of relay channels on the board.
const Channels = 32

// ErrFormat indicates a malformed binary or hex relay string.
var ErrFormat = errors.New("invalid relay state format")

// State is the on/off value of every relay channel, index 0..31.
type State [Channels]bool

// AllOff is pattern A: every channel released.
func AllOff() State {
	return State{}
}

// AllOn is pattern B: every channel energised.
func AllOn() State {
	return FromUint32(0xffffffff)
}

// FromUint32 builds a State from its 32-bit value (channel 0 = bit 31).
func FromUint32(v uint32) State {
	var s State
	for i := 0; i < Channels; i++ {
		s[i] = v&(1<<(Channels-1-i)) != 0
	}
	return s
}

// Uint32 returns the 32-bit value of the state.
func (s State) Uint32() uint32 {
	var v uint32
	for i, on := range s {
		if on {
			v |= 1 << (Channels - 1 - i)
		}
	}
	return v
}

// DecodeBinary parses a 32 character string of '0' and '1'.
func DecodeBinary(str string) (State, error) {
	if len(str) != Channels {
		return State{}, fmt.Errorf("%w: binary state must be %d characters, got %d", ErrFormat, Channels, len(str))
	}
	var s State
	for i := 0; i < Channels; i++ {
		switch str[i] {
		case '0':
		case '1':
			s[i] = true
		default:
			return State{}, fmt.Errorf("%w: invalid character %q at position %d", ErrFormat, str[i], i)
		}
	}
	return s, nil
}

// Binary returns the 32 character binary form, channel 0 leftmost.
func (s State) Binary() string {
	var b strings.Builder
	b.Grow(Channels)
	for _, on := range s {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Hex returns the 8 digit lowercase, zero padded hex form.
func (s State) Hex() string {
	return fmt.Sprintf("%08x", s.Uint32())
}

// FromHex parses a hex string of at most 8 significant digits. Callers need
// not pad the input; surrounding whitespace is ignored.
func FromHex(str string) (State, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return State{}, fmt.Errorf("%w: empty hex state", ErrFormat)
	}
	v, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return State{}, fmt.Errorf("%w: hex state %q exceeds 32 bits", ErrFormat, str)
		}
		return State{}, fmt.Errorf("%w: invalid hex state %q", ErrFormat, str)
	}
	return FromUint32(uint32(v)), nil
}

// FromChannels copies a channel slice into a State. The slice must hold
// exactly 32 values; shorter or longer input is rejected, never truncated.
func FromChannels(channels []bool) (State, error) {
	if len(channels) != Channels {
		return State{}, fmt.Errorf("%w: expected %d channels, got %d", ErrFormat, Channels, len(channels))
	}
	var s State
	copy(s[:], channels)
	return s, nil
}

// Channels returns the state as a slice.
func (s State) Channels() []bool {
	out := make([]bool, Channels)
	copy(out, s[:])
	return out
}

// WithChannel returns a copy of s with one channel changed.
func (s State) WithChannel(ch int, on bool) (State, error) {
	if ch < 0 || ch >= Channels {
		return s, fmt.Errorf("%w: channel %d out of range 0-%d", ErrFormat, ch, Channels-1)
	}
	s[ch] = on
	return s, nil
}

// String implements fmt.Stringer.
func (s State) String() string {
	return s.Binary()
}
