package codec

import "fmt"

// TextListVersion is the magic word opening the tagged text list form.
type TextListVersion uint16

const (
	TextListV0 TextListVersion = 0xFFFF
	TextListV1 TextListVersion = 0xFFFE
	TextListV2 TextListVersion = 0xFFFD
	TextListV9 TextListVersion = 0xFFF6
)

// TaggedString is one localised entry of a tagged text list.
type TaggedString struct {
	Language    LanguageCode
	Value       string
	Description string
}

// TextList is a string table (STR#, CTSS, TTAs). Most resources use the
// tagged form opened by a version magic; very old ones carry a bare big
// endian count followed by length prefixed strings. Untagged selects the
// form, and exactly one of Strings and Values is populated.
type TextList struct {
	FileName string
	Untagged bool
	Version  TextListVersion
	Strings  []TaggedString
	Values   []string
}

func ParseTextList(data []byte) (*TextList, error) {
	r := NewReader(data)
	tl := &TextList{}

	var err error
	if tl.FileName, err = r.FileName(); err != nil {
		return nil, err
	}

	start := r.Offset()
	magic, err := r.U16()
	if err != nil {
		return nil, err
	}
	switch TextListVersion(magic) {
	case TextListV0, TextListV1, TextListV2, TextListV9:
		tl.Version = TextListVersion(magic)
	default:
		r.SetOffset(start)
		tl.Untagged = true
		count, err := r.U16Big()
		if err != nil {
			return nil, err
		}
		tl.Values = make([]string, count)
		for i := range tl.Values {
			if tl.Values[i], err = r.BigString(); err != nil {
				return nil, fmt.Errorf("string %d: %w", i, err)
			}
		}
		return tl, nil
	}

	count, err := r.U16()
	if err != nil {
		return nil, err
	}
	tl.Strings = make([]TaggedString, count)
	for i := range tl.Strings {
		lang, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		tl.Strings[i].Language = LanguageCode(lang)
		if tl.Strings[i].Value, err = r.NullString(); err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		if tl.Strings[i].Description, err = r.NullString(); err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
	}
	return tl, nil
}

func (tl *TextList) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(tl.FileName); err != nil {
		return nil, err
	}
	if tl.Untagged {
		w.U16Big(uint16(len(tl.Values)))
		for _, v := range tl.Values {
			w.BigString(v)
		}
		return w.Bytes(), nil
	}
	switch tl.Version {
	case TextListV0, TextListV1, TextListV2, TextListV9:
	default:
		return nil, fmt.Errorf("unknown text list version 0x%04X", uint16(tl.Version))
	}
	w.U16(uint16(tl.Version))
	w.U16(uint16(len(tl.Strings)))
	for _, s := range tl.Strings {
		w.U8(uint8(s.Language))
		w.NullString(s.Value)
		w.NullString(s.Description)
	}
	return w.Bytes(), nil
}
