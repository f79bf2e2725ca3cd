package codec

// BinaryIndex is the BINX record binding an outfit to its icon, string set
// and object references.
type BinaryIndex struct {
	Icon        Reference
	StringSet   Reference
	Bin         Reference
	Object      Reference
	CreatorID   string
	SortIndex   int32
	StringIndex uint32
}

// ParseBinaryIndex decodes a BINX resource.
func ParseBinaryIndex(data []byte) (*BinaryIndex, error) {
	cpf, err := ParseCPF(data)
	if err != nil {
		return nil, err
	}

	bi := &BinaryIndex{}
	if bi.Icon, err = takeReference(cpf, "icon", false); err != nil {
		return nil, err
	}
	if bi.StringSet, err = takeReference(cpf, "stringset", false); err != nil {
		return nil, err
	}
	if bi.Bin, err = takeReference(cpf, "bin", false); err != nil {
		return nil, err
	}
	if bi.Object, err = takeReference(cpf, "object", false); err != nil {
		return nil, err
	}
	if bi.SortIndex, err = cpf.TakeInt32Lenient("sortindex"); err != nil {
		return nil, err
	}
	if bi.CreatorID, err = cpf.TakeText("creatorid"); err != nil {
		return nil, err
	}
	if bi.StringIndex, err = cpf.TakeUInt32("stringindex"); err != nil {
		return nil, err
	}
	return bi, nil
}

// Encode serializes to the binary property-set form.
func (bi *BinaryIndex) Encode() ([]byte, error) {
	cpf := NewCPF()
	cpf.Append("creatorid", bi.CreatorID)
	cpf.Append("sortindex", bi.SortIndex)
	cpf.Append("stringindex", bi.StringIndex)
	bi.Icon.appendCPF(cpf, "icon", false)
	bi.StringSet.appendCPF(cpf, "stringset", false)
	bi.Bin.appendCPF(cpf, "bin", false)
	bi.Object.appendCPF(cpf, "object", false)
	return cpf.Encode()
}
