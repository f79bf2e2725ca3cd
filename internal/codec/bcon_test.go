package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviourConstantsRoundTrip(t *testing.T) {
	t.Parallel()

	bc := &BehaviourConstants{
		FileName:  "Tuning - Cost",
		Flag:      0x01,
		Constants: []uint16{100, 0, 0xFFFF, 42},
	}

	data, err := bc.Encode()
	require.NoError(t, err)
	assert.Equal(t, 0x40+2+4*2, len(data))
	// count byte precedes the flag
	assert.Equal(t, byte(4), data[0x40])
	assert.Equal(t, byte(1), data[0x41])

	parsed, err := ParseBehaviourConstants(data)
	require.NoError(t, err)
	assert.Equal(t, bc, parsed)
}

func TestBehaviourConstantsEmpty(t *testing.T) {
	t.Parallel()

	bc := &BehaviourConstants{FileName: "empty"}
	data, err := bc.Encode()
	require.NoError(t, err)

	parsed, err := ParseBehaviourConstants(data)
	require.NoError(t, err)
	assert.Equal(t, "empty", parsed.FileName)
	assert.Empty(t, parsed.Constants)
}

func TestBehaviourConstantsTruncated(t *testing.T) {
	t.Parallel()

	bc := &BehaviourConstants{FileName: "cut", Constants: []uint16{1, 2}}
	data, err := bc.Encode()
	require.NoError(t, err)

	_, err = ParseBehaviourConstants(data[:len(data)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}
