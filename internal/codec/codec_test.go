package codec

import (
	"testing"

	"github.com/simtools/dbpfkit/internal/tgi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDispatch(t *testing.T) {
	t.Parallel()

	bc := &BehaviourConstants{
		FileName:  "tuning - kicky bag",
		Flag:      1,
		Constants: []uint16{100, 50},
	}
	data, err := bc.Encode()
	require.NoError(t, err)

	file, ok, err := Decode(tgi.SimanticsBehaviourConstants, data)
	require.NoError(t, err)
	require.True(t, ok)
	parsed, isBCON := file.(*BehaviourConstants)
	require.True(t, isBCON)
	assert.Equal(t, bc, parsed)

	cpf := NewCPF()
	cpf.Append("product", uint32(3))
	data, err = cpf.Encode()
	require.NoError(t, err)

	file, ok, err = Decode(tgi.TrackSettings, data)
	require.NoError(t, err)
	require.True(t, ok)
	_, isCPF := file.(*CPF)
	assert.True(t, isCPF)
}

func TestDecodeUnknownType(t *testing.T) {
	t.Parallel()

	file, ok, err := Decode(tgi.TypeID(0x12345678), []byte{1, 2, 3})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, file)
}

func TestDecodeParseError(t *testing.T) {
	t.Parallel()

	file, ok, err := Decode(tgi.ObjectData, []byte{1, 2})
	assert.True(t, ok)
	require.Error(t, err)
	assert.Nil(t, file)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	list := &TextList{
		FileName: "catalog strings",
		Version:  TextListV0,
		Strings: []TaggedString{
			{Language: 1, Value: "Kicky Bag", Description: "a bag to kick"},
		},
	}
	data, err := list.Encode()
	require.NoError(t, err)

	file, ok, err := Decode(tgi.CatalogDescription, data)
	require.NoError(t, err)
	require.True(t, ok)
	encoded, err := file.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}
