package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockFormatSizes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, F32Scalar.ElementSize())
	assert.Equal(t, 8, F32Vec2.ElementSize())
	assert.Equal(t, 12, F32Vec3.ElementSize())
	assert.Equal(t, 4, U8Vec4.ElementSize())
	assert.Equal(t, 4, U8Vec4.Components())
	assert.Equal(t, 1, U8Vec4.ComponentSize())
}

func TestPolyCount(t *testing.T) {
	t.Parallel()

	triangles := Mesh{Primitive: PrimitiveTriangles, Indices: make([]uint32, 12)}
	assert.Equal(t, 4, triangles.PolyCount())

	lines := Mesh{Primitive: PrimitiveLines, Indices: make([]uint32, 6)}
	assert.Equal(t, 6, lines.PolyCount())

	points := Mesh{Primitive: PrimitivePoints, Indices: make([]uint32, 5)}
	assert.Equal(t, 10, points.PolyCount())

	g := GeometricDataContainer{Meshes: []Mesh{triangles, lines, points}}
	assert.Equal(t, 20, g.PolyCount())
}

func TestAttributeTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Positions", AttrPositions.String())
	assert.Equal(t, "Binormals", AttrBinormals.String())
	assert.Equal(t, "AttributeType(0x00000001)", AttributeType(1).String())
}

func TestPrimitiveTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "triangles", PrimitiveTriangles.String())
	assert.Equal(t, "PrimitiveType(9)", PrimitiveType(9).String())
}

func TestReadAttributeBufferValidation(t *testing.T) {
	t.Parallel()

	encode := func(attrType, format, indexSet uint32) []byte {
		w := NewWriter()
		w.U32(1)
		w.U32(attrType)
		w.U32(0)
		w.U32(format)
		w.U32(indexSet)
		w.U32(0)
		w.U32(0)
		return w.Bytes()
	}

	_, err := readAttributeBuffer(NewReader(encode(1, 2, 0)), 4)
	require.Error(t, err)
	assert.EqualError(t, err, "unknown attribute type 0x00000001")

	_, err = readAttributeBuffer(NewReader(encode(uint32(AttrPositions), 3, 0)), 4)
	require.Error(t, err)
	assert.EqualError(t, err, "unknown block format 3")

	_, err = readAttributeBuffer(NewReader(encode(uint32(AttrPositions), 2, 4)), 4)
	require.Error(t, err)
	assert.EqualError(t, err, "unknown index set 4")
}

func TestReadMeshUnknownPrimitive(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.U32(3)
	_, err := readMesh(NewReader(w.Bytes()), 4)
	require.Error(t, err)
	assert.EqualError(t, err, "unknown primitive type 3")
}
