package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtools/dbpfkit/internal/tgi"
)

func TestSimOutfitsRoundTrip(t *testing.T) {
	t.Parallel()

	so := &SimOutfits{
		IndexMinor: 1,
		Entries: []tgi.TGI{
			{Type: tgi.PropertySet, Group: 0xDEADBEEF, Instance: 0x1234},
			{Type: tgi.TextureResource, Group: 0x1C050000, Instance: 0xFF000001},
		},
	}

	data, err := so.Encode()
	require.NoError(t, err)
	assert.Equal(t, 12+2*12, len(data))

	parsed, err := ParseSimOutfits(data)
	require.NoError(t, err)
	assert.Equal(t, so, parsed)
}

func TestSimOutfitsHighInstanceWords(t *testing.T) {
	t.Parallel()

	so := &SimOutfits{
		IndexMinor: 2,
		Entries: []tgi.TGI{
			{Type: tgi.BinaryIndex, Group: 1, Instance: 0xAABBCCDD_00112233},
		},
	}

	data, err := so.Encode()
	require.NoError(t, err)
	assert.Equal(t, 12+16, len(data))

	parsed, err := ParseSimOutfits(data)
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, uint64(0xAABBCCDD_00112233), parsed.Entries[0].Instance)

	// minor versions other than 2 drop the high word
	so.IndexMinor = 1
	data, err = so.Encode()
	require.NoError(t, err)
	parsed, err = ParseSimOutfits(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x00112233), parsed.Entries[0].Instance)
}

func TestSimOutfitsBadMagic(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.U32(0xDEADBEEE)
	_, err := ParseSimOutfits(w.Bytes())
	require.Error(t, err)
	assert.EqualError(t, err, "bad reference file magic 0xDEADBEEE")
}

func TestSimOutfitsUnknownMinor(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.U32(0xDEADBEEF)
	w.U32(4)
	w.U32(0)
	_, err := ParseSimOutfits(w.Bytes())
	require.Error(t, err)
	assert.EqualError(t, err, "unknown index minor version 4")

	so := &SimOutfits{IndexMinor: 9}
	_, err = so.Encode()
	require.Error(t, err)
	assert.EqualError(t, err, "unknown index minor version 9")
}
