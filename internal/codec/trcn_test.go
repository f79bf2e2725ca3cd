package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantsLabelsV1RoundTrip(t *testing.T) {
	t.Parallel()

	bl := &BehaviourConstantsLabels{
		FileName: "Tuning - Cost - Labels",
		Unknown1: 1,
		Unknown2: 0,
		LabelsV1: []ConstantsLabelV1{
			{Used: 1, ID: 0, Name: "Base price", Default: 100, Min: 0, Max: 1000},
			{Used: 0, ID: 1, Name: "unused", Default: 0, Min: 0, Max: 0},
		},
	}

	data, err := bl.Encode()
	require.NoError(t, err)
	// magic leads the body in the original revision
	assert.Equal(t, "NCRT", string(data[0x40:0x44]))

	parsed, err := ParseBehaviourConstantsLabels(data)
	require.NoError(t, err)
	assert.Equal(t, bl, parsed)
}

func TestConstantsLabelsV2RoundTrip(t *testing.T) {
	t.Parallel()

	bl := &BehaviourConstantsLabels{
		FileName:   "labels",
		ExtraNulls: true,
		Unknown1:   76,
		Unknown2:   0,
		LabelsV2: []ConstantsLabelV2{
			{Used: 1, ID: 0, Name: "Mood threshold", NameTag: true, Description: "Minimum mood", DescriptionTag: true},
			{Used: 1, ID: 1, Name: "Delay", Description: ""},
		},
	}

	data, err := bl.Encode()
	require.NoError(t, err)
	// the later revision buries the magic behind the two header words
	assert.Equal(t, "NCRT", string(data[0x48:0x4C]))

	parsed, err := ParseBehaviourConstantsLabels(data)
	require.NoError(t, err)
	assert.Equal(t, bl, parsed)
}

func TestConstantsLabelsV2TrailingBytes(t *testing.T) {
	t.Parallel()

	bl := &BehaviourConstantsLabels{
		FileName:   "labels",
		ExtraNulls: true,
		Unknown1:   76,
		Unknown2:   1,
		LabelsV2: []ConstantsLabelV2{
			{Used: 1, ID: 0, Name: "a", Description: "b", Unknown: [5]byte{1, 2, 3, 4, 5}},
		},
	}

	data, err := bl.Encode()
	require.NoError(t, err)

	parsed, err := ParseBehaviourConstantsLabels(data)
	require.NoError(t, err)
	assert.Equal(t, bl, parsed)
}

func TestConstantsLabelsMissingMagic(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	require.NoError(t, w.FileName("broken"))
	w.U32(0)
	w.U32(0)
	w.Raw([]byte("WHAT"))
	w.U32(0)

	_, err := ParseBehaviourConstantsLabels(w.Bytes())
	require.Error(t, err)
	assert.EqualError(t, err, "offset 72: missing NCRT magic")
}
