package dbpf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/tgi"
)

// Hole is a free region left behind by an in-place edit. Holes are read for
// reporting and dropped on write.
type Hole struct {
	Location uint32
	Size     uint32
}

// V2 index flag bits marking ids hoisted out of the per-entry records.
const (
	indexFixedType  = 1 << 0
	indexFixedGroup = 1 << 1
	indexFixedHigh  = 1 << 2
)

// entrySizeV2 is the width of one entry in the plain extended form this
// package writes: full ids, size word, payload size, compression, committed.
const entrySizeV2 = 32

// Group and instance ids the games use for the directory resource.
const (
	dirGroup    = 0xE86B1EEF
	dirInstance = 0x286B1F03
)

func holeParser(count uint32) func(io.ReadSeeker) ([]Hole, error) {
	return func(r io.ReadSeeker) ([]Hole, error) {
		buf := make([]byte, int(count)*8)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading hole index: %w", err)
		}
		holes := make([]Hole, count)
		for i := range holes {
			holes[i] = Hole{
				Location: binary.LittleEndian.Uint32(buf[i*8:]),
				Size:     binary.LittleEndian.Uint32(buf[i*8+4:]),
			}
		}
		return holes, nil
	}
}

// lazyData defers an entry payload read.
func (f *File) lazyData(offset int64, size uint32) *Lazy[[]byte] {
	return NewLazy(offset, func(r io.ReadSeeker) ([]byte, error) {
		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	})
}

func (f *File) parseIndex(count, size uint32) func(io.ReadSeeker) ([]*Entry, error) {
	return func(r io.ReadSeeker) ([]*Entry, error) {
		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading index: %w", err)
		}
		if f.Header.Version.Major >= 2 {
			return f.parseIndexV2(codec.NewReader(buf), count)
		}
		entries, err := f.parseIndexV1(buf, count)
		if err != nil {
			return nil, err
		}
		return f.consumeDirectory(r, entries)
	}
}

// parseIndexV1 walks the fixed-width records; the buffer length was already
// validated against the entry count.
func (f *File) parseIndexV1(buf []byte, count uint32) ([]*Entry, error) {
	long := f.Header.longInstance()
	esz := int(v1EntrySize(f.Header.IndexMinor))

	entries := make([]*Entry, 0, count)
	for i := 0; i < int(count); i++ {
		rec := buf[i*esz:]
		t := binary.LittleEndian.Uint32(rec)
		g := binary.LittleEndian.Uint32(rec[4:])
		low := binary.LittleEndian.Uint32(rec[8:])
		off := 12
		var high uint32
		if long {
			high = binary.LittleEndian.Uint32(rec[12:])
			off = 16
		}
		loc := binary.LittleEndian.Uint32(rec[off:])
		size := binary.LittleEndian.Uint32(rec[off+4:])
		if loc == 0 {
			return nil, fmt.Errorf("index entry %d has location 0: %w", i, ErrMalformedHeader)
		}

		e := &Entry{
			TGI:         tgi.TGI{Type: tgi.TypeID(t), Group: g}.WithInstance(low, high),
			file:        f,
			compression: Uncompressed,
			location:    int64(loc),
			size:        size,
			declared:    size,
			committed:   1,
		}
		e.raw = f.lazyData(e.location, e.size)
		entries = append(entries, e)
	}
	return entries, nil
}

// consumeDirectory folds the directory resource into the entries: entries
// it names become refpack-compressed with the recorded payload size, and
// the directory itself leaves the index. Claims for entries that are not
// present are ignored.
func (f *File) consumeDirectory(r io.ReadSeeker, entries []*Entry) ([]*Entry, error) {
	dirAt := -1
	for i, e := range entries {
		if e.TGI.Type == tgi.Directory {
			dirAt = i
			break
		}
	}
	if dirAt < 0 {
		return entries, nil
	}
	dir := entries[dirAt]
	entries = append(entries[:dirAt], entries[dirAt+1:]...)

	if _, err := r.Seek(dir.location, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to directory resource: %w", err)
	}
	buf := make([]byte, dir.size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading directory resource: %w", err)
	}

	recSize := 16
	if f.Header.longInstance() {
		recSize = 20
	}
	if len(buf)%recSize != 0 {
		return nil, fmt.Errorf("directory resource size %d is not a multiple of %d: %w",
			len(buf), recSize, ErrMalformedHeader)
	}

	byID := make(map[tgi.TGI]*Entry, len(entries))
	for _, e := range entries {
		byID[e.TGI] = e
	}
	for off := 0; off < len(buf); off += recSize {
		rec := buf[off:]
		t := binary.LittleEndian.Uint32(rec)
		g := binary.LittleEndian.Uint32(rec[4:])
		low := binary.LittleEndian.Uint32(rec[8:])
		var high uint32
		n := 12
		if recSize == 20 {
			high = binary.LittleEndian.Uint32(rec[12:])
			n = 16
		}
		declared := binary.LittleEndian.Uint32(rec[n:])

		id := tgi.TGI{Type: tgi.TypeID(t), Group: g}.WithInstance(low, high)
		if e, ok := byID[id]; ok {
			e.compression = RefPack
			e.declared = declared
		}
	}
	return entries, nil
}

func (f *File) parseIndexV2(rd *codec.Reader, count uint32) ([]*Entry, error) {
	flags, err := rd.U32()
	if err != nil {
		return nil, fmt.Errorf("index flags: %w", err)
	}
	var fixedType, fixedGroup, fixedHigh uint32
	if flags&indexFixedType != 0 {
		if fixedType, err = rd.U32(); err != nil {
			return nil, fmt.Errorf("fixed type id: %w", err)
		}
	}
	if flags&indexFixedGroup != 0 {
		if fixedGroup, err = rd.U32(); err != nil {
			return nil, fmt.Errorf("fixed group id: %w", err)
		}
	}
	if flags&indexFixedHigh != 0 {
		if fixedHigh, err = rd.U32(); err != nil {
			return nil, fmt.Errorf("fixed instance id: %w", err)
		}
	}

	entries := make([]*Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := f.parseEntryV2(rd, flags, fixedType, fixedGroup, fixedHigh)
		if err != nil {
			return nil, fmt.Errorf("index entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (f *File) parseEntryV2(rd *codec.Reader, flags, fixedType, fixedGroup, fixedHigh uint32) (*Entry, error) {
	t, g, high := fixedType, fixedGroup, fixedHigh
	var err error
	if flags&indexFixedType == 0 {
		if t, err = rd.U32(); err != nil {
			return nil, err
		}
	}
	if flags&indexFixedGroup == 0 {
		if g, err = rd.U32(); err != nil {
			return nil, err
		}
	}
	if flags&indexFixedHigh == 0 {
		if high, err = rd.U32(); err != nil {
			return nil, err
		}
	}
	low, err := rd.U32()
	if err != nil {
		return nil, err
	}
	loc, err := rd.U32()
	if err != nil {
		return nil, err
	}
	sizeWord, err := rd.U32()
	if err != nil {
		return nil, err
	}
	declared, err := rd.U32()
	if err != nil {
		return nil, err
	}

	e := &Entry{
		TGI:         tgi.TGI{Type: tgi.TypeID(t), Group: g}.WithInstance(low, high),
		file:        f,
		compression: Uncompressed,
		location:    int64(loc),
		size:        sizeWord &^ (1 << 31),
		declared:    declared,
		committed:   1,
	}
	if sizeWord&(1<<31) != 0 {
		ct, err := rd.U16()
		if err != nil {
			return nil, err
		}
		committed, err := rd.U16()
		if err != nil {
			return nil, err
		}
		e.compression = CompressionType(ct)
		e.committed = committed
	}
	e.raw = f.lazyData(e.location, e.size)
	return e, nil
}

// indexRecord is one entry's row in a freshly written index.
type indexRecord struct {
	id          tgi.TGI
	location    uint32
	size        uint32
	declared    uint32
	compression CompressionType
	committed   uint16
}

func writeIndexV1(w *codec.Writer, long bool, recs []indexRecord) {
	for _, rec := range recs {
		w.U32(uint32(rec.id.Type))
		w.U32(rec.id.Group)
		w.U32(rec.id.InstanceLow())
		if long {
			w.U32(rec.id.InstanceHigh())
		}
		w.U32(rec.location)
		w.U32(rec.size)
	}
}

func writeIndexV2(w *codec.Writer, recs []indexRecord) {
	w.U32(0) // no hoisted ids
	for _, rec := range recs {
		w.U32(uint32(rec.id.Type))
		w.U32(rec.id.Group)
		w.U32(rec.id.InstanceHigh())
		w.U32(rec.id.InstanceLow())
		w.U32(rec.location)
		w.U32(rec.size | 1<<31)
		w.U32(rec.declared)
		w.U16(uint16(rec.compression))
		w.U16(rec.committed)
	}
}

// directoryPayload lists every refpack entry with its payload size, the V1
// carrier for compression state.
func directoryPayload(long bool, recs []indexRecord) []byte {
	w := codec.NewWriter()
	for _, rec := range recs {
		if rec.compression != RefPack {
			continue
		}
		w.U32(uint32(rec.id.Type))
		w.U32(rec.id.Group)
		w.U32(rec.id.InstanceLow())
		if long {
			w.U32(rec.id.InstanceHigh())
		}
		w.U32(rec.declared)
	}
	return w.Bytes()
}
