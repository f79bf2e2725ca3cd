package codec

import (
	"errors"
	"fmt"
)

// OutfitOverride replaces the material of one mesh subset.
type OutfitOverride struct {
	Shape    uint32
	Subset   string
	Resource Reference
}

// PropertySet is the GZPS catalog description of a body shop outfit.
type PropertySet struct {
	Version *uint32
	Product *uint32

	Parts  uint32
	Outfit uint32

	Priority *uint32

	Resource Reference
	Shape    Reference

	Age      uint32
	Gender   uint32
	Species  uint32
	Flags    uint32
	Name     string
	Creator  string
	Family   string
	Genetic  *float32
	Type     string
	Skintone string
	Hairtone string
	Category uint32
	Shoe     uint32
	Fitness  uint32

	Overrides []OutfitOverride
}

// ParsePropertySet decodes a GZPS resource from either property-set form.
func ParsePropertySet(data []byte) (*PropertySet, error) {
	cpf, err := ParseCPF(data)
	if err != nil {
		return nil, err
	}

	ps := &PropertySet{}

	if v, err := cpf.TakeUInt32("version"); err == nil {
		ps.Version = &v
	}
	if v, err := cpf.TakeUInt32("product"); err == nil {
		ps.Product = &v
	}

	// older resources carry only one of the two; the other mirrors it
	parts, partsErr := cpf.TakeUInt32("parts")
	outfit, outfitErr := cpf.TakeUInt32("outfit")
	switch {
	case partsErr == nil && outfitErr == nil:
	case partsErr == nil:
		outfit = parts
	case outfitErr == nil:
		parts = outfit
	default:
		return nil, errors.New("could not find or parse property by key part or outfit")
	}
	ps.Parts, ps.Outfit = parts, outfit

	if ps.Resource, err = takeReference(cpf, "resource", true); err != nil {
		return nil, err
	}
	if ps.Shape, err = takeReference(cpf, "shape", true); err != nil {
		return nil, err
	}

	if v, ok := cpf.Take("priority"); ok {
		switch n := v.(type) {
		case uint32:
			ps.Priority = &n
		case int32:
			u := uint32(n)
			ps.Priority = &u
		default:
			return nil, fmt.Errorf("data of key priority has wrong type (%T)", v)
		}
	}

	numOverrides, err := cpf.TakeUInt32("numoverrides")
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numOverrides; i++ {
		var ov OutfitOverride
		if ov.Shape, err = cpf.TakeUInt32(fmt.Sprintf("override%dshape", i)); err != nil {
			return nil, err
		}
		if ov.Subset, err = cpf.TakeText(fmt.Sprintf("override%dsubset", i)); err != nil {
			return nil, err
		}
		if ov.Resource, err = takeReference(cpf, fmt.Sprintf("override%dresource", i), true); err != nil {
			return nil, err
		}
		ps.Overrides = append(ps.Overrides, ov)
	}

	if v, err := cpf.TakeFloat32("genetic"); err == nil {
		ps.Genetic = &v
	}

	if ps.Type, err = cpf.TakeText("type"); err != nil {
		return nil, err
	}
	if ps.Age, err = cpf.TakeUInt32("age"); err != nil {
		return nil, err
	}
	if ps.Gender, err = cpf.TakeUInt32("gender"); err != nil {
		return nil, err
	}
	if ps.Species, err = cpf.TakeUInt32("species"); err != nil {
		return nil, err
	}
	if ps.Flags, err = cpf.TakeUInt32("flags"); err != nil {
		return nil, err
	}
	if ps.Name, err = cpf.TakeText("name"); err != nil {
		return nil, err
	}
	if ps.Creator, err = cpf.TakeText("creator"); err != nil {
		return nil, err
	}
	if ps.Family, err = cpf.TakeText("family"); err != nil {
		return nil, err
	}
	if ps.Skintone, err = cpf.TakeText("skintone"); err != nil {
		return nil, err
	}
	if ps.Hairtone, err = cpf.TakeText("hairtone"); err != nil {
		return nil, err
	}
	if ps.Category, err = cpf.TakeUInt32("category"); err != nil {
		return nil, err
	}
	if ps.Shoe, err = cpf.TakeUInt32("shoe"); err != nil {
		return nil, err
	}
	if ps.Fitness, err = cpf.TakeUInt32("fitness"); err != nil {
		return nil, err
	}

	return ps, nil
}

// Encode serializes to the binary property-set form.
func (ps *PropertySet) Encode() ([]byte, error) {
	cpf := NewCPF()

	cpf.Append("parts", ps.Parts)
	cpf.Append("outfit", ps.Outfit)
	cpf.Append("age", ps.Age)
	cpf.Append("gender", ps.Gender)
	cpf.Append("species", ps.Species)
	cpf.Append("flags", ps.Flags)
	cpf.Append("name", ps.Name)
	cpf.Append("creator", ps.Creator)
	cpf.Append("family", ps.Family)
	cpf.Append("type", ps.Type)
	cpf.Append("skintone", ps.Skintone)
	cpf.Append("hairtone", ps.Hairtone)
	cpf.Append("category", ps.Category)
	cpf.Append("shoe", ps.Shoe)
	cpf.Append("fitness", ps.Fitness)

	if ps.Version != nil {
		cpf.Append("version", *ps.Version)
	}
	if ps.Product != nil {
		cpf.Append("product", *ps.Product)
	}
	if ps.Priority != nil {
		cpf.Append("priority", *ps.Priority)
	}
	if ps.Genetic != nil {
		cpf.Append("genetic", *ps.Genetic)
	}

	ps.Resource.appendCPF(cpf, "resource", true)
	ps.Shape.appendCPF(cpf, "shape", true)

	cpf.Append("numoverrides", uint32(len(ps.Overrides)))
	for i, ov := range ps.Overrides {
		cpf.Append(fmt.Sprintf("override%dshape", i), ov.Shape)
		cpf.Append(fmt.Sprintf("override%dsubset", i), ov.Subset)
		ov.Resource.appendCPF(cpf, fmt.Sprintf("override%dresource", i), true)
	}

	return cpf.Encode()
}
