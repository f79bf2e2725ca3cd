package tgi

import "fmt"

// TypeID is the resource type field of a TGI triple.
type TypeID uint32

// TGI identifies a resource by its type, group and instance ids.
type TGI struct {
	Type     TypeID `json:"type"`
	Group    uint32 `json:"group"`
	Instance uint64 `json:"instance"`
}

// InstanceLow returns the low 32 bits of the instance id, the part every
// index revision stores.
func (t TGI) InstanceLow() uint32 {
	return uint32(t.Instance)
}

// InstanceHigh returns the high 32 bits of the instance id, present only
// in long-instance index revisions.
func (t TGI) InstanceHigh() uint32 {
	return uint32(t.Instance >> 32)
}

// WithInstance combines a low/high pair back into a full instance id.
func (t TGI) WithInstance(low, high uint32) TGI {
	t.Instance = uint64(high)<<32 | uint64(low)
	return t
}

func (t TGI) String() string {
	return fmt.Sprintf("%s group 0x%08X instance 0x%016X", t.Type.Abbreviation(), t.Group, t.Instance)
}
