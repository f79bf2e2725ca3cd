package codec

import "fmt"

// AttributeType names a vertex attribute buffer. The values are the hashes
// the game uses to bind buffers to shader inputs.
type AttributeType uint32

const (
	AttrPositions      AttributeType = 0x5B830781
	AttrPositionDeltas AttributeType = 0x5CF2CFE1
	AttrNormals        AttributeType = 0x3B83078B
	AttrNormalDeltas   AttributeType = 0xCB6F3A6A
	AttrTangents       AttributeType = 0x89D92BA0
	AttrTangentDeltas  AttributeType = 0x69D92B93
	AttrBinormals      AttributeType = 0x9BB38AFB
	AttrTexCoords      AttributeType = 0xBB8307AB
	// BlendKeys are morph target ids in groups of four, indexing the blend
	// weight bindings applied to the delta attributes.
	AttrBlendKeys   AttributeType = 0xDCF2CFDC
	AttrBoneWeights AttributeType = 0x3BD70105
	// BoneKeys are bone ids in groups of four, 0xFF meaning no binding.
	AttrBoneKeys     AttributeType = 0xFBD70111
	AttrBlendValues1 AttributeType = 0x1C4AFC56
	AttrBlendValues2 AttributeType = 0x7C4DEE82
	AttrBoneValues   AttributeType = 0x5C4AFC5C
	// DeformMask holds byte groups with observed values 51 to 255, flags of
	// some sort.
	AttrDeformMask AttributeType = 0xDB830795
	AttrVertexID   AttributeType = 0x114113C3
	AttrRegionMask AttributeType = 0x114113CD
)

var attributeTypeNames = map[AttributeType]string{
	AttrPositions:      "Positions",
	AttrPositionDeltas: "PositionDeltas",
	AttrNormals:        "Normals",
	AttrNormalDeltas:   "NormalDeltas",
	AttrTangents:       "Tangents",
	AttrTangentDeltas:  "TangentDeltas",
	AttrBinormals:      "Binormals",
	AttrTexCoords:      "TexCoords",
	AttrBlendKeys:      "BlendKeys",
	AttrBoneWeights:    "BoneWeights",
	AttrBoneKeys:       "BoneKeys",
	AttrBlendValues1:   "BlendValues1",
	AttrBlendValues2:   "BlendValues2",
	AttrBoneValues:     "BoneValues",
	AttrDeformMask:     "DeformMask",
	AttrVertexID:       "VertexID",
	AttrRegionMask:     "RegionMask",
}

func (a AttributeType) String() string {
	if name, ok := attributeTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AttributeType(0x%08X)", uint32(a))
}

// BlockFormat is the data type of one element in an attribute buffer.
type BlockFormat uint32

const (
	F32Scalar BlockFormat = 0
	F32Vec2   BlockFormat = 1
	F32Vec3   BlockFormat = 2
	U8Vec4    BlockFormat = 4
)

func (f BlockFormat) Components() int {
	switch f {
	case F32Scalar:
		return 1
	case F32Vec2:
		return 2
	case F32Vec3:
		return 3
	default:
		return 4
	}
}

func (f BlockFormat) ComponentSize() int {
	if f == U8Vec4 {
		return 1
	}
	return 4
}

// ElementSize is the byte size of one element in this format.
func (f BlockFormat) ElementSize() int {
	return f.Components() * f.ComponentSize()
}

// IndexSet selects which index list of an attribute group applies when
// reading a buffer.
type IndexSet uint32

const (
	IndexSetMain  IndexSet = 0
	IndexSetNorms IndexSet = 1
	IndexSetUV    IndexSet = 2
	IndexSetNone  IndexSet = 3
)

type PrimitiveType uint32

const (
	PrimitivePoints    PrimitiveType = 0
	PrimitiveLines     PrimitiveType = 1
	PrimitiveTriangles PrimitiveType = 2
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveTriangles:
		return "triangles"
	}
	return fmt.Sprintf("PrimitiveType(%d)", uint32(p))
}

type Vertex struct {
	X, Y, Z float32
}

type Quaternion struct {
	X, Y, Z, W float32
}

// Transform is the rest pose of one bone.
type Transform struct {
	Rotation    Quaternion
	Translation Vertex
}

// AttributeBuffer is a raw data buffer holding one vertex attribute, what a
// buffer object is to OpenGL. References into another buffer take the place
// of the data for attributes shared between groups.
type AttributeBuffer struct {
	NumberElements uint32
	Type           AttributeType
	Slot           uint32
	Format         BlockFormat
	IndexSet       IndexSet
	Data           []byte
	References     []uint32
}

// ElementSize is the byte size of one element in the buffer.
func (b *AttributeBuffer) ElementSize() int {
	return b.Format.ElementSize()
}

// AttributeGroup collects the buffers that make up one set of vertex
// attributes, with the per kind index lists used to expand them.
type AttributeGroup struct {
	Attributes       []uint32
	NumberElements   uint32
	ReferencedActive uint32
	VertexIndices    []uint32
	NormalIndices    []uint32
	UVIndices        []uint32
}

// Mesh is a single draw call: a primitive type, the attribute group it
// draws from and the element indices.
type Mesh struct {
	Primitive           PrimitiveType
	AttributeGroupIndex uint32
	Name                string
	Indices             []uint32
	Opacity             int32
	BoneReferences      []uint32 // block version 2 up
}

// PolyCount returns the number of polygons this mesh draws.
func (m *Mesh) PolyCount() int {
	switch m.Primitive {
	case PrimitivePoints:
		// every point is rendered as 2 triangles
		return len(m.Indices) * 2
	case PrimitiveLines:
		return len(m.Indices)
	default:
		return len(m.Indices) / 3
	}
}

type BlendGroupBinding struct {
	BlendGroup string
	Element    string
}

// BoundingMesh is a simple mesh used for selection testing only, so it
// carries vertices and faces but no attributes.
type BoundingMesh struct {
	Vertices []Vertex
	Faces    []uint32
}

// GeometricDataContainer is the GMDC block of a resource collection.
type GeometricDataContainer struct {
	FileName            string
	AttributeBuffers    []AttributeBuffer
	AttributeGroups     []AttributeGroup
	Meshes              []Mesh
	Bones               []Transform
	BlendGroupBindings  []BlendGroupBinding
	BoundingMesh        BoundingMesh
	DynamicBoundingMesh []BoundingMesh
}

// PolyCount returns the total polygon count over all meshes.
func (g *GeometricDataContainer) PolyCount() int {
	total := 0
	for i := range g.Meshes {
		total += g.Meshes[i].PolyCount()
	}
	return total
}

// Element references use four bytes up to block version 3 and two from
// version 4 on.

func readReference(r *Reader, version uint32) (uint32, error) {
	if version < 4 {
		return r.U32()
	}
	v, err := r.U16()
	return uint32(v), err
}

func writeReference(w *Writer, ref, version uint32) {
	if version < 4 {
		w.U32(ref)
	} else {
		w.U16(uint16(ref))
	}
}

func readReferenceArray(r *Reader, count, version uint32) ([]uint32, error) {
	refs := make([]uint32, count)
	var err error
	for i := range refs {
		if refs[i], err = readReference(r, version); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

func readReferences(r *Reader, version uint32) ([]uint32, error) {
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	return readReferenceArray(r, count, version)
}

func writeReferences(w *Writer, refs []uint32, version uint32) {
	w.U32(uint32(len(refs)))
	for _, ref := range refs {
		writeReference(w, ref, version)
	}
}

func readAttributeBuffer(r *Reader, version uint32) (AttributeBuffer, error) {
	var b AttributeBuffer
	var err error
	if b.NumberElements, err = r.U32(); err != nil {
		return b, err
	}
	attrType, err := r.U32()
	if err != nil {
		return b, err
	}
	b.Type = AttributeType(attrType)
	if _, ok := attributeTypeNames[b.Type]; !ok {
		return b, fmt.Errorf("unknown attribute type 0x%08X", attrType)
	}
	if b.Slot, err = r.U32(); err != nil {
		return b, err
	}
	format, err := r.U32()
	if err != nil {
		return b, err
	}
	switch BlockFormat(format) {
	case F32Scalar, F32Vec2, F32Vec3, U8Vec4:
		b.Format = BlockFormat(format)
	default:
		return b, fmt.Errorf("unknown block format %d", format)
	}
	indexSet, err := r.U32()
	if err != nil {
		return b, err
	}
	if indexSet > uint32(IndexSetNone) {
		return b, fmt.Errorf("unknown index set %d", indexSet)
	}
	b.IndexSet = IndexSet(indexSet)
	size, err := r.U32()
	if err != nil {
		return b, err
	}
	data, err := r.Bytes(int(size))
	if err != nil {
		return b, err
	}
	b.Data = append([]byte(nil), data...)
	if b.References, err = readReferences(r, version); err != nil {
		return b, err
	}
	return b, nil
}

func writeAttributeBuffer(w *Writer, b *AttributeBuffer, version uint32) {
	w.U32(b.NumberElements)
	w.U32(uint32(b.Type))
	w.U32(b.Slot)
	w.U32(uint32(b.Format))
	w.U32(uint32(b.IndexSet))
	w.U32(uint32(len(b.Data)))
	w.Raw(b.Data)
	writeReferences(w, b.References, version)
}

func readAttributeGroup(r *Reader, version uint32) (AttributeGroup, error) {
	var g AttributeGroup
	var err error
	if g.Attributes, err = readReferences(r, version); err != nil {
		return g, err
	}
	if g.NumberElements, err = r.U32(); err != nil {
		return g, err
	}
	if g.ReferencedActive, err = r.U32(); err != nil {
		return g, err
	}
	if g.VertexIndices, err = readReferences(r, version); err != nil {
		return g, err
	}
	if g.NormalIndices, err = readReferences(r, version); err != nil {
		return g, err
	}
	g.UVIndices, err = readReferences(r, version)
	return g, err
}

func writeAttributeGroup(w *Writer, g *AttributeGroup, version uint32) {
	writeReferences(w, g.Attributes, version)
	w.U32(g.NumberElements)
	w.U32(g.ReferencedActive)
	writeReferences(w, g.VertexIndices, version)
	writeReferences(w, g.NormalIndices, version)
	writeReferences(w, g.UVIndices, version)
}

func readMesh(r *Reader, version uint32) (Mesh, error) {
	var m Mesh
	primitive, err := r.U32()
	if err != nil {
		return m, err
	}
	if primitive > uint32(PrimitiveTriangles) {
		return m, fmt.Errorf("unknown primitive type %d", primitive)
	}
	m.Primitive = PrimitiveType(primitive)
	if m.AttributeGroupIndex, err = r.U32(); err != nil {
		return m, err
	}
	if m.Name, err = r.BigString(); err != nil {
		return m, err
	}
	if m.Indices, err = readReferences(r, version); err != nil {
		return m, err
	}
	if m.Opacity, err = r.I32(); err != nil {
		return m, err
	}
	if version > 1 {
		if m.BoneReferences, err = readReferences(r, version); err != nil {
			return m, err
		}
	}
	return m, nil
}

func writeMesh(w *Writer, m *Mesh, version uint32) {
	w.U32(uint32(m.Primitive))
	w.U32(m.AttributeGroupIndex)
	w.BigString(m.Name)
	writeReferences(w, m.Indices, version)
	w.I32(m.Opacity)
	if version > 1 {
		writeReferences(w, m.BoneReferences, version)
	}
}

func readVertex(r *Reader) (Vertex, error) {
	var v Vertex
	var err error
	if v.X, err = r.F32(); err != nil {
		return v, err
	}
	if v.Y, err = r.F32(); err != nil {
		return v, err
	}
	v.Z, err = r.F32()
	return v, err
}

func readBoundingMesh(r *Reader, version uint32) (BoundingMesh, error) {
	var m BoundingMesh
	vertexCount, err := r.U32()
	if err != nil {
		return m, err
	}
	var faceCount uint32
	if vertexCount > 0 {
		if faceCount, err = r.U32(); err != nil {
			return m, err
		}
	}
	m.Vertices = make([]Vertex, vertexCount)
	for i := range m.Vertices {
		if m.Vertices[i], err = readVertex(r); err != nil {
			return m, err
		}
	}
	if vertexCount > 0 {
		if m.Faces, err = readReferenceArray(r, faceCount, version); err != nil {
			return m, err
		}
	}
	return m, nil
}

func writeBoundingMesh(w *Writer, m *BoundingMesh, version uint32) {
	w.U32(uint32(len(m.Vertices)))
	if len(m.Vertices) > 0 {
		w.U32(uint32(len(m.Faces)))
	}
	for _, v := range m.Vertices {
		w.F32(v.X)
		w.F32(v.Y)
		w.F32(v.Z)
	}
	if len(m.Vertices) > 0 {
		for _, face := range m.Faces {
			writeReference(w, face, version)
		}
	}
}

func readGeometricDataContainer(r *Reader, version uint32) (*GeometricDataContainer, error) {
	g := &GeometricDataContainer{}
	var err error
	if g.FileName, err = readSGResourceName(r); err != nil {
		return nil, err
	}

	bufferCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.AttributeBuffers = make([]AttributeBuffer, bufferCount)
	for i := range g.AttributeBuffers {
		if g.AttributeBuffers[i], err = readAttributeBuffer(r, version); err != nil {
			return nil, fmt.Errorf("attribute buffer %d: %w", i, err)
		}
	}

	groupCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.AttributeGroups = make([]AttributeGroup, groupCount)
	for i := range g.AttributeGroups {
		if g.AttributeGroups[i], err = readAttributeGroup(r, version); err != nil {
			return nil, fmt.Errorf("attribute group %d: %w", i, err)
		}
	}

	meshCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.Meshes = make([]Mesh, meshCount)
	for i := range g.Meshes {
		if g.Meshes[i], err = readMesh(r, version); err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	boneCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.Bones = make([]Transform, boneCount)
	for i := range g.Bones {
		t := &g.Bones[i]
		for _, f := range []*float32{
			&t.Rotation.X, &t.Rotation.Y, &t.Rotation.Z, &t.Rotation.W,
			&t.Translation.X, &t.Translation.Y, &t.Translation.Z,
		} {
			if *f, err = r.F32(); err != nil {
				return nil, err
			}
		}
	}

	bindingCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.BlendGroupBindings = make([]BlendGroupBinding, bindingCount)
	for i := range g.BlendGroupBindings {
		b := &g.BlendGroupBindings[i]
		if b.BlendGroup, err = r.BigString(); err != nil {
			return nil, err
		}
		if b.Element, err = r.BigString(); err != nil {
			return nil, err
		}
	}

	if g.BoundingMesh, err = readBoundingMesh(r, version); err != nil {
		return nil, fmt.Errorf("bounding mesh: %w", err)
	}

	dynamicCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	g.DynamicBoundingMesh = make([]BoundingMesh, dynamicCount)
	for i := range g.DynamicBoundingMesh {
		if g.DynamicBoundingMesh[i], err = readBoundingMesh(r, version); err != nil {
			return nil, fmt.Errorf("dynamic bounding mesh %d: %w", i, err)
		}
	}
	return g, nil
}

func writeGeometricDataContainer(w *Writer, g *GeometricDataContainer, version uint32) error {
	writeSGResourceName(w, g.FileName)
	w.U32(uint32(len(g.AttributeBuffers)))
	for i := range g.AttributeBuffers {
		writeAttributeBuffer(w, &g.AttributeBuffers[i], version)
	}
	w.U32(uint32(len(g.AttributeGroups)))
	for i := range g.AttributeGroups {
		writeAttributeGroup(w, &g.AttributeGroups[i], version)
	}
	w.U32(uint32(len(g.Meshes)))
	for i := range g.Meshes {
		writeMesh(w, &g.Meshes[i], version)
	}
	w.U32(uint32(len(g.Bones)))
	for _, t := range g.Bones {
		for _, f := range []float32{
			t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W,
			t.Translation.X, t.Translation.Y, t.Translation.Z,
		} {
			w.F32(f)
		}
	}
	w.U32(uint32(len(g.BlendGroupBindings)))
	for _, b := range g.BlendGroupBindings {
		w.BigString(b.BlendGroup)
		w.BigString(b.Element)
	}
	writeBoundingMesh(w, &g.BoundingMesh, version)
	w.U32(uint32(len(g.DynamicBoundingMesh)))
	for i := range g.DynamicBoundingMesh {
		writeBoundingMesh(w, &g.DynamicBoundingMesh[i], version)
	}
	return nil
}
