package codec

import "fmt"

const objfMagic = "fJBO"

const (
	objfHeaderSize       = 0x8
	objfPaddedHeaderSize = 0x48
)

// ObjectFunctionEntry binds one of the fixed object callbacks (init, main,
// clean up and so on) to a pair of behaviour tree ids.
type ObjectFunctionEntry struct {
	GuardianID uint16
	ActionID   uint16
}

// ObjectFunctions is an object's function table (OBJf). Header holds the raw
// bytes in front of the magic, 8 in the common form and 0x48 in the padded
// one.
type ObjectFunctions struct {
	FileName string
	Header   []byte
	Entries  []ObjectFunctionEntry
}

func ParseObjectFunctions(data []byte) (*ObjectFunctions, error) {
	r := NewReader(data)
	of := &ObjectFunctions{}

	var err error
	if of.FileName, err = r.FileName(); err != nil {
		return nil, err
	}

	start := r.Offset()
	header, magicErr := readObjfHeader(r, objfHeaderSize)
	if magicErr != nil {
		r.SetOffset(start)
		if header, err = readObjfHeader(r, objfPaddedHeaderSize); err != nil {
			return nil, err
		}
	}
	of.Header = header

	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	of.Entries = make([]ObjectFunctionEntry, count)
	for i := range of.Entries {
		if of.Entries[i].GuardianID, err = r.U16(); err != nil {
			return nil, err
		}
		if of.Entries[i].ActionID, err = r.U16(); err != nil {
			return nil, err
		}
	}
	return of, nil
}

func readObjfHeader(r *Reader, size int) ([]byte, error) {
	header, err := r.Bytes(size)
	if err != nil {
		return nil, err
	}
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != objfMagic {
		return nil, fmt.Errorf("offset %d: missing %s magic", r.Offset()-4, objfMagic)
	}
	return append([]byte(nil), header...), nil
}

func (of *ObjectFunctions) Encode() ([]byte, error) {
	if len(of.Header) != objfHeaderSize && len(of.Header) != objfPaddedHeaderSize {
		return nil, fmt.Errorf("header is %d bytes, expected %d or %d", len(of.Header), objfHeaderSize, objfPaddedHeaderSize)
	}
	w := NewWriter()
	if err := w.FileName(of.FileName); err != nil {
		return nil, err
	}
	w.Raw(of.Header)
	w.Raw([]byte(objfMagic))
	w.U32(uint32(len(of.Entries)))
	for _, e := range of.Entries {
		w.U16(e.GuardianID)
		w.U16(e.ActionID)
	}
	return w.Bytes(), nil
}
