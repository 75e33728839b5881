package relay

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex_Patterns(t *testing.T) {
	assert.Equal(t, "00000000", AllOff().Hex())
	assert.Equal(t, "ffffffff", AllOn().Hex())
	assert.Equal(t, strings.Repeat("0", 32), AllOff().Binary())
	assert.Equal(t, strings.Repeat("1", 32), AllOn().Binary())
}

func TestDecodeBinary_ChannelOrder(t *testing.T) {
	s, err := DecodeBinary("1" + strings.Repeat("0", 31))
	require.NoError(t, err)
	assert.True(t, s[0])
	assert.Equal(t, "80000000", s.Hex())

	s, err = DecodeBinary(strings.Repeat("0", 31) + "1")
	require.NoError(t, err)
	assert.True(t, s[31])
	assert.Equal(t, "00000001", s.Hex())
}

func TestDecodeBinary_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", strings.Repeat("0", 31)},
		{"too long", strings.Repeat("1", 33)},
		{"bad character", strings.Repeat("0", 31) + "2"},
		{"space", strings.Repeat("0", 15) + " " + strings.Repeat("0", 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBinary(tt.input)
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestHex_ZeroPadded(t *testing.T) {
	s := FromUint32(0x1f)
	assert.Equal(t, "0000001f", s.Hex())
	assert.Len(t, s.Hex(), 8)
}

func TestFromHex(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
	}{
		{"ffffffff", 0xffffffff},
		{"FFFFFFFF", 0xffffffff},
		{"00000000", 0},
		{"1f", 0x1f},
		{"0", 0},
		{" 0000abcd\r", 0xabcd},
	}

	for _, tt := range tests {
		s, err := FromHex(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, s.Uint32(), tt.input)
	}
}

func TestFromHex_Invalid(t *testing.T) {
	for _, input := range []string{"", "xyz", "0x1f", "-1", "100000000", "fffffffff", ">"} {
		_, err := FromHex(input)
		assert.ErrorIs(t, err, ErrFormat, input)
	}
}

func TestRoundTrip_RandomSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		want := FromUint32(rng.Uint32())

		fromBin, err := DecodeBinary(want.Binary())
		require.NoError(t, err)
		require.Equal(t, want, fromBin)

		fromHex, err := FromHex(fromBin.Hex())
		require.NoError(t, err)
		require.Equal(t, fromBin, fromHex)
	}
}

func TestFromChannels(t *testing.T) {
	_, err := FromChannels(make([]bool, 31))
	require.ErrorIs(t, err, ErrFormat)
	_, err = FromChannels(make([]bool, 33))
	require.ErrorIs(t, err, ErrFormat)

	in := make([]bool, Channels)
	in[3] = true
	s, err := FromChannels(in)
	require.NoError(t, err)
	assert.Equal(t, in, s.Channels())
}

func TestWithChannel(t *testing.T) {
	s, err := AllOff().WithChannel(31, true)
	require.NoError(t, err)
	assert.Equal(t, "00000001", s.Hex())

	_, err = s.WithChannel(32, true)
	require.ErrorIs(t, err, ErrFormat)
	_, err = s.WithChannel(-1, true)
	require.ErrorIs(t, err, ErrFormat)
}
