package codec

import (
	"fmt"

	"github.com/simtools/dbpfkit/internal/tgi"
)

// resourceVersionMagic opens a versioned collection. Its presence decides
// whether file links carry a resource id.
const resourceVersionMagic = 0xFFFF0001

const sgResourceTag = "cSGResource"

func readSGResourceName(r *Reader) (string, error) {
	tag, err := r.BigString()
	if err != nil {
		return "", err
	}
	if tag != sgResourceTag {
		return "", fmt.Errorf("expected %s, got %q", sgResourceTag, tag)
	}
	blockID, err := r.U32()
	if err != nil {
		return "", err
	}
	if blockID != 0 {
		return "", fmt.Errorf("sg resource block id is %d, expected 0", blockID)
	}
	version, err := r.U32()
	if err != nil {
		return "", err
	}
	if version != 2 {
		return "", fmt.Errorf("sg resource version is %d, expected 2", version)
	}
	return r.BigString()
}

func writeSGResourceName(w *Writer, name string) {
	w.BigString(sgResourceTag)
	w.U32(0)
	w.U32(2)
	w.BigString(name)
}

// FileLink points a scene graph resource at another one. Resource is only
// on disk in versioned collections.
type FileLink struct {
	Group    uint32
	Instance uint32
	Resource uint32
	Type     tgi.TypeID
}

// ResourceBlock is the payload of a collection entry: a texture, a material
// definition or a geometry container.
type ResourceBlock interface {
	isResourceBlock()
}

func (*TextureResource) isResourceBlock()        {}
func (*MaterialDefinition) isResourceBlock()     {}
func (*GeometricDataContainer) isResourceBlock() {}

// ResourceEntry is one block of a collection together with its name, type
// and block format version.
type ResourceEntry struct {
	Name    string
	Type    tgi.TypeID
	Version uint32
	Block   ResourceBlock
}

// ResourceCollection is the scene graph container (RCOL) wrapped around
// textures, materials and meshes.
type ResourceCollection struct {
	Versioned bool
	Links     []FileLink
	Entries   []ResourceEntry
}

func ParseResourceCollection(data []byte) (*ResourceCollection, error) {
	r := NewReader(data)
	rc := &ResourceCollection{}

	start := r.Offset()
	magic, err := r.U32()
	if err != nil {
		return nil, err
	}
	if magic == resourceVersionMagic {
		rc.Versioned = true
	} else {
		r.SetOffset(start)
	}

	linkCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	rc.Links = make([]FileLink, linkCount)
	for i := range rc.Links {
		if rc.Links[i].Group, err = r.U32(); err != nil {
			return nil, err
		}
		if rc.Links[i].Instance, err = r.U32(); err != nil {
			return nil, err
		}
		if rc.Versioned {
			if rc.Links[i].Resource, err = r.U32(); err != nil {
				return nil, err
			}
		}
		typeID, err := r.U32()
		if err != nil {
			return nil, err
		}
		rc.Links[i].Type = tgi.TypeID(typeID)
	}

	itemCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	// the type id index repeats the per entry types, skip it
	for i := uint32(0); i < itemCount; i++ {
		if _, err = r.U32(); err != nil {
			return nil, err
		}
	}

	rc.Entries = make([]ResourceEntry, 0, itemCount)
	for i := uint32(0); i < itemCount; i++ {
		entry, err := readResourceEntry(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		rc.Entries = append(rc.Entries, entry)
	}
	return rc, nil
}

func readResourceEntry(r *Reader) (ResourceEntry, error) {
	var entry ResourceEntry
	var err error
	if entry.Name, err = r.BigString(); err != nil {
		return entry, err
	}
	typeID, err := r.U32()
	if err != nil {
		return entry, err
	}
	entry.Type = tgi.TypeID(typeID)
	if entry.Version, err = r.U32(); err != nil {
		return entry, err
	}
	switch entry.Type {
	case tgi.TextureResource:
		entry.Block, err = readTextureResource(r, entry.Version)
	case tgi.MaterialDefinition:
		entry.Block, err = readMaterialDefinition(r, entry.Version)
	case tgi.GeometricDataContainer:
		entry.Block, err = readGeometricDataContainer(r, entry.Version)
	default:
		err = fmt.Errorf("unknown resource block type %s", entry.Type.Abbreviation())
	}
	return entry, err
}

func (rc *ResourceCollection) Encode() ([]byte, error) {
	w := NewWriter()
	if rc.Versioned {
		w.U32(resourceVersionMagic)
	}
	w.U32(uint32(len(rc.Links)))
	for _, link := range rc.Links {
		w.U32(link.Group)
		w.U32(link.Instance)
		if rc.Versioned {
			w.U32(link.Resource)
		}
		w.U32(uint32(link.Type))
	}
	w.U32(uint32(len(rc.Entries)))
	for _, entry := range rc.Entries {
		w.U32(uint32(entry.Type))
	}
	for i, entry := range rc.Entries {
		w.BigString(entry.Name)
		w.U32(uint32(entry.Type))
		w.U32(entry.Version)
		var err error
		switch block := entry.Block.(type) {
		case *TextureResource:
			err = writeTextureResource(w, block, entry.Version)
		case *MaterialDefinition:
			err = writeMaterialDefinition(w, block, entry.Version)
		case *GeometricDataContainer:
			err = writeGeometricDataContainer(w, block, entry.Version)
		default:
			err = fmt.Errorf("unknown resource block %T", entry.Block)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return w.Bytes(), nil
}

// Texture returns the first texture block of the collection.
func (rc *ResourceCollection) Texture() (*TextureResource, bool) {
	for _, entry := range rc.Entries {
		if t, ok := entry.Block.(*TextureResource); ok {
			return t, true
		}
	}
	return nil, false
}

// Material returns the first material definition of the collection.
func (rc *ResourceCollection) Material() (*MaterialDefinition, bool) {
	for _, entry := range rc.Entries {
		if m, ok := entry.Block.(*MaterialDefinition); ok {
			return m, true
		}
	}
	return nil, false
}

// Geometry returns the first geometry container of the collection.
func (rc *ResourceCollection) Geometry() (*GeometricDataContainer, bool) {
	for _, entry := range rc.Entries {
		if g, ok := entry.Block.(*GeometricDataContainer); ok {
			return g, true
		}
	}
	return nil, false
}
