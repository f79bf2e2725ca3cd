package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextListTaggedRoundTrip(t *testing.T) {
	t.Parallel()

	for _, version := range []TextListVersion{TextListV0, TextListV1, TextListV2, TextListV9} {
		tl := &TextList{
			FileName: "Catalog Description",
			Version:  version,
			Strings: []TaggedString{
				{Language: 1, Value: "Comfy Chair", Description: "A chair."},
				{Language: 4, Value: "Bequemer Stuhl", Description: ""},
			},
		}

		data, err := tl.Encode()
		require.NoError(t, err)

		parsed, err := ParseTextList(data)
		require.NoError(t, err)
		assert.Equal(t, tl, parsed, "version 0x%04X", uint16(version))
	}
}

func TestTextListUntaggedFallback(t *testing.T) {
	t.Parallel()

	tl := &TextList{
		FileName: "old strings",
		Untagged: true,
		Values:   []string{"first", "second", "third"},
	}

	data, err := tl.Encode()
	require.NoError(t, err)
	// the bare form counts big endian
	assert.Equal(t, []byte{0, 3}, data[0x40:0x42])

	parsed, err := ParseTextList(data)
	require.NoError(t, err)
	assert.Equal(t, tl, parsed)
}

func TestTextListEncodeUnknownVersion(t *testing.T) {
	t.Parallel()

	tl := &TextList{FileName: "x", Version: 0x1234}
	_, err := tl.Encode()
	require.Error(t, err)
	assert.EqualError(t, err, "unknown text list version 0x1234")
}

func TestTextListTruncatedEntry(t *testing.T) {
	t.Parallel()

	tl := &TextList{
		FileName: "cut",
		Version:  TextListV0,
		Strings:  []TaggedString{{Language: 1, Value: "v", Description: "d"}},
	}
	data, err := tl.Encode()
	require.NoError(t, err)

	_, err = ParseTextList(data[:len(data)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "string 0")
}
