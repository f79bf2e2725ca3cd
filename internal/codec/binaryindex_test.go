package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryIndexRoundTrip(t *testing.T) {
	t.Parallel()

	bi := &BinaryIndex{
		Icon:        Reference{Index: 0},
		StringSet:   Reference{Index: 1},
		Bin:         Reference{Index: 2},
		Object:      Reference{Index: 3},
		CreatorID:   "00000000-0000-0000-0000-000000000000",
		SortIndex:   -20,
		StringIndex: 1,
	}

	data, err := bi.Encode()
	require.NoError(t, err)

	parsed, err := ParseBinaryIndex(data)
	require.NoError(t, err)
	assert.Equal(t, bi, parsed)
}

func TestParseBinaryIndexPlainIdxKeys(t *testing.T) {
	t.Parallel()

	// BINX references use the short "idx" suffix, not "keyidx"
	c := NewCPF()
	c.Append("iconidx", uint32(9))
	c.Append("stringsetidx", uint32(8))
	c.Append("binidx", uint32(7))
	c.Append("objectidx", uint32(6))
	c.Append("sortindex", uint32(0x80000000))
	c.Append("creatorid", "c")
	c.Append("stringindex", uint32(2))

	data, err := c.Encode()
	require.NoError(t, err)

	bi, err := ParseBinaryIndex(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), bi.Icon.Index)
	assert.Equal(t, uint32(6), bi.Object.Index)
	// unsigned storage is accepted for the sort index
	assert.Equal(t, int32(-2147483648), bi.SortIndex)
}

func TestParseBinaryIndexMissingReference(t *testing.T) {
	t.Parallel()

	c := NewCPF()
	c.Append("iconidx", uint32(1))

	data, err := c.Encode()
	require.NoError(t, err)

	_, err = ParseBinaryIndex(data)
	require.Error(t, err)
	assert.EqualError(t, err, "could not find property by key stringsetidx")
}
