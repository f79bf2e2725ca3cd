package codec

import (
	"fmt"

	"github.com/simtools/dbpfkit/internal/tgi"
)

const outfitsMagic = 0xDEADBEEF

// SimOutfits is a resource reference list (3IDR): an ordered set of ids
// pointing at the property sets, meshes and textures that make up an outfit.
// IndexMinor mirrors the package index format; instance ids carry a high
// word only at minor version 2.
type SimOutfits struct {
	IndexMinor uint32
	Entries    []tgi.TGI
}

func ParseSimOutfits(data []byte) (*SimOutfits, error) {
	r := NewReader(data)

	magic, err := r.U32()
	if err != nil {
		return nil, err
	}
	if magic != outfitsMagic {
		return nil, fmt.Errorf("bad reference file magic 0x%08X", magic)
	}
	so := &SimOutfits{}
	if so.IndexMinor, err = r.U32(); err != nil {
		return nil, err
	}
	if so.IndexMinor > 3 {
		return nil, fmt.Errorf("unknown index minor version %d", so.IndexMinor)
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	so.Entries = make([]tgi.TGI, 0, count)
	for i := uint32(0); i < count; i++ {
		typeID, err := r.U32()
		if err != nil {
			return nil, err
		}
		group, err := r.U32()
		if err != nil {
			return nil, err
		}
		low, err := r.U32()
		if err != nil {
			return nil, err
		}
		var high uint32
		if so.IndexMinor == 2 {
			if high, err = r.U32(); err != nil {
				return nil, err
			}
		}
		id := tgi.TGI{Type: tgi.TypeID(typeID), Group: group}.WithInstance(low, high)
		so.Entries = append(so.Entries, id)
	}
	return so, nil
}

func (so *SimOutfits) Encode() ([]byte, error) {
	if so.IndexMinor > 3 {
		return nil, fmt.Errorf("unknown index minor version %d", so.IndexMinor)
	}
	w := NewWriter()
	w.U32(outfitsMagic)
	w.U32(so.IndexMinor)
	w.U32(uint32(len(so.Entries)))
	for _, e := range so.Entries {
		w.U32(uint32(e.Type))
		w.U32(e.Group)
		w.U32(e.InstanceLow())
		if so.IndexMinor == 2 {
			w.U32(e.InstanceHigh())
		}
	}
	return w.Bytes(), nil
}
