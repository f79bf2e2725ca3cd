package codec

import "fmt"

const trcnMagic = "NCRT"

// labelTag marks an optional filler byte between the strings of a
// ConstantsLabelV2. Some writers emit it, some do not.
const labelTag = 0xA3

// ConstantsLabelV1 is the original label form with length prefixed strings.
type ConstantsLabelV1 struct {
	Used    uint32
	ID      uint32
	Name    string
	Default uint16
	Min     uint16
	Max     uint16
}

// ConstantsLabelV2 is the later label form with zero terminated strings.
type ConstantsLabelV2 struct {
	Used           uint32
	ID             uint32
	Name           string
	NameTag        bool
	Description    string
	DescriptionTag bool
	Unknown        [5]byte // present when the second header word is 1
}

// BehaviourConstantsLabels names and bounds the entries of a constant table
// (TRCN). Two revisions exist: the original one keeps the magic up front and
// uses LabelsV1, the later one moves the magic behind the two header words
// and uses LabelsV2. Exactly one of the label slices is populated.
type BehaviourConstantsLabels struct {
	FileName   string
	ExtraNulls bool
	Unknown1   uint32
	Unknown2   uint32
	LabelsV1   []ConstantsLabelV1
	LabelsV2   []ConstantsLabelV2
}

func ParseBehaviourConstantsLabels(data []byte) (*BehaviourConstantsLabels, error) {
	r := NewReader(data)
	bl := &BehaviourConstantsLabels{}

	var err error
	if bl.FileName, err = r.FileName(); err != nil {
		return nil, err
	}

	start := r.Offset()
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) == trcnMagic {
		if bl.Unknown1, err = r.U32(); err != nil {
			return nil, err
		}
		if bl.Unknown2, err = r.U32(); err != nil {
			return nil, err
		}
	} else {
		r.SetOffset(start)
		bl.ExtraNulls = true
		if bl.Unknown1, err = r.U32(); err != nil {
			return nil, err
		}
		if bl.Unknown2, err = r.U32(); err != nil {
			return nil, err
		}
		magic, err = r.Bytes(4)
		if err != nil {
			return nil, err
		}
		if string(magic) != trcnMagic {
			return nil, fmt.Errorf("offset %d: missing %s magic", r.Offset()-4, trcnMagic)
		}
	}

	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		if bl.ExtraNulls {
			label, err := readLabelV2(r, bl.Unknown2)
			if err != nil {
				return nil, fmt.Errorf("label %d: %w", i, err)
			}
			bl.LabelsV2 = append(bl.LabelsV2, label)
		} else {
			label, err := readLabelV1(r)
			if err != nil {
				return nil, fmt.Errorf("label %d: %w", i, err)
			}
			bl.LabelsV1 = append(bl.LabelsV1, label)
		}
	}
	return bl, nil
}

func readLabelV1(r *Reader) (ConstantsLabelV1, error) {
	var label ConstantsLabelV1
	var err error
	if label.Used, err = r.U32(); err != nil {
		return label, err
	}
	if label.ID, err = r.U32(); err != nil {
		return label, err
	}
	if label.Name, err = r.BigString(); err != nil {
		return label, err
	}
	if label.Default, err = r.U16(); err != nil {
		return label, err
	}
	if label.Min, err = r.U16(); err != nil {
		return label, err
	}
	label.Max, err = r.U16()
	return label, err
}

func readLabelV2(r *Reader, headerWord uint32) (ConstantsLabelV2, error) {
	var label ConstantsLabelV2
	var err error
	if label.Used, err = r.U32(); err != nil {
		return label, err
	}
	if label.ID, err = r.U32(); err != nil {
		return label, err
	}
	if label.Name, err = r.NullString(); err != nil {
		return label, err
	}
	label.NameTag = readLabelTag(r)
	if label.Description, err = r.NullString(); err != nil {
		return label, err
	}
	label.DescriptionTag = readLabelTag(r)
	if headerWord == 1 {
		tail, err := r.Bytes(5)
		if err != nil {
			return label, err
		}
		copy(label.Unknown[:], tail)
	}
	return label, nil
}

func readLabelTag(r *Reader) bool {
	if r.Remaining() == 0 {
		return false
	}
	off := r.Offset()
	b, _ := r.U8()
	if b != labelTag {
		r.SetOffset(off)
		return false
	}
	return true
}

func (bl *BehaviourConstantsLabels) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(bl.FileName); err != nil {
		return nil, err
	}
	if bl.ExtraNulls {
		w.U32(bl.Unknown1)
		w.U32(bl.Unknown2)
		w.Raw([]byte(trcnMagic))
		w.U32(uint32(len(bl.LabelsV2)))
		for _, label := range bl.LabelsV2 {
			w.U32(label.Used)
			w.U32(label.ID)
			w.NullString(label.Name)
			if label.NameTag {
				w.U8(labelTag)
			}
			w.NullString(label.Description)
			if label.DescriptionTag {
				w.U8(labelTag)
			}
			if bl.Unknown2 == 1 {
				w.Raw(label.Unknown[:])
			}
		}
		return w.Bytes(), nil
	}
	w.Raw([]byte(trcnMagic))
	w.U32(bl.Unknown1)
	w.U32(bl.Unknown2)
	w.U32(uint32(len(bl.LabelsV1)))
	for _, label := range bl.LabelsV1 {
		w.U32(label.Used)
		w.U32(label.ID)
		w.BigString(label.Name)
		w.U16(label.Default)
		w.U16(label.Min)
		w.U16(label.Max)
	}
	return w.Bytes(), nil
}
