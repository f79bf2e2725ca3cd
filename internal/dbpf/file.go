// Package dbpf reads and writes DBPF packages, the container format the
// Sims-era games keep their resources in. A package is a 96-byte header, an
// index of TGI-addressed entries, an optional hole list and the entry
// payloads, possibly compressed. Opening is cheap: only the header is read
// up front, tables and payloads are materialized on first use.
package dbpf

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/tgi"
)

// File is one package, either opened from a stream or built from scratch.
type File struct {
	Header Header

	r     io.ReadSeeker
	owned bool

	index *Lazy[[]*Entry]
	holes *Lazy[[]Hole]
}

// New creates an empty package. The version picks the index layout used
// when the package is written.
func New(v Version) *File {
	now := uint32(time.Now().Unix())
	f := &File{
		Header: Header{
			Version:      v,
			IndexVersion: IndexVersionDefault,
			IndexMinor:   2,
			Created:      now,
			Modified:     now,
		},
	}
	f.index = Resolved([]*Entry{})
	f.holes = Resolved([]Hole{})
	return f
}

// Open reads a package from r. The caller keeps ownership of r and must
// keep it open for as long as deferred entry data may still be read.
func Open(r io.ReadSeeker) (*File, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("sizing package: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding package: %w", err)
	}

	raw, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := raw.validate(size); err != nil {
		return nil, err
	}

	f := &File{Header: raw.header(), r: r}
	if raw.HoleCount == 0 {
		f.holes = Resolved([]Hole{})
	} else {
		f.holes = NewLazy(int64(raw.HoleLocation), holeParser(raw.HoleCount))
	}
	if raw.IndexCount == 0 {
		f.index = Resolved([]*Entry{})
	} else {
		f.index = NewLazy(raw.indexStart(), f.parseIndex(raw.IndexCount, raw.IndexSize))
	}
	return f, nil
}

// OpenFile opens a package on disk. Closing the returned file closes the
// underlying handle.
func OpenFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := Open(fh)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.owned = true
	return f, nil
}

// Close detaches the backing stream. Entries whose bytes were never
// materialized report ErrDeferred afterwards.
func (f *File) Close() error {
	r := f.r
	f.r = nil
	if f.owned && r != nil {
		if c, ok := r.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

// Entries returns the live entries, parsing the index and folding in the
// directory resource on first call.
func (f *File) Entries() ([]*Entry, error) {
	if !f.index.IsResolved() && f.r == nil {
		return nil, fmt.Errorf("index: %w", ErrDeferred)
	}
	return f.index.Resolve(f.r)
}

// Holes returns the recorded free regions.
func (f *File) Holes() ([]Hole, error) {
	if !f.holes.IsResolved() && f.r == nil {
		return nil, fmt.Errorf("hole index: %w", ErrDeferred)
	}
	return f.holes.Resolve(f.r)
}

// HoleSize returns the total bytes lost to holes.
func (f *File) HoleSize() (uint32, error) {
	holes, err := f.Holes()
	if err != nil {
		return 0, err
	}
	var total uint32
	for _, h := range holes {
		total += h.Size
	}
	return total, nil
}

// Add appends a new entry holding the given payload, stored uncompressed
// until SetCompression says otherwise.
func (f *File) Add(id tgi.TGI, data []byte) (*Entry, error) {
	entries, err := f.Entries()
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	e := &Entry{
		TGI:         id,
		file:        f,
		compression: Uncompressed,
		size:        uint32(len(data)),
		declared:    uint32(len(data)),
		committed:   1,
		raw:         Resolved(data),
	}
	f.index.Set(append(entries, e))
	return e, nil
}

// Write serializes the package: header, then the index, then entry data.
// Geometry is recomputed from live state, holes are dropped and, for V1
// layouts, a directory resource is regenerated when any entry is stored
// compressed. Timestamps carry over unchanged.
func (f *File) Write(ctx context.Context, w io.Writer) error {
	entries, err := f.Entries()
	if err != nil {
		return err
	}
	v1 := f.Header.Version.Major < 2

	recs := make([]indexRecord, 0, len(entries)+1)
	blobs := make([][]byte, 0, len(entries)+1)
	for _, e := range entries {
		data, err := e.Raw(ctx)
		if err != nil {
			return err
		}
		if e.declared == 0 && e.compression.Compressed() && len(data) > 0 {
			// the index needs the payload size, measure it
			if _, err := e.Decompressed(ctx); err != nil {
				return err
			}
		}
		if v1 && e.compression.Compressed() && e.compression != RefPack {
			return fmt.Errorf("entry %s: a version %s index cannot record %s data: %w",
				e.TGI, f.Header.Version, e.compression, ErrUnsupportedCompression)
		}
		recs = append(recs, indexRecord{
			id:          e.TGI,
			size:        uint32(len(data)),
			declared:    e.declared,
			compression: e.compression,
			committed:   e.committed,
		})
		blobs = append(blobs, data)
	}

	if v1 {
		if dir := directoryPayload(f.Header.longInstance(), recs); len(dir) > 0 {
			dirID := tgi.TGI{Type: tgi.Directory, Group: dirGroup, Instance: dirInstance}
			recs = append([]indexRecord{{id: dirID, size: uint32(len(dir)), declared: uint32(len(dir))}}, recs...)
			blobs = append([][]byte{dir}, blobs...)
		}
	}

	var indexSize uint32
	if v1 {
		indexSize = uint32(len(recs)) * v1EntrySize(f.Header.IndexMinor)
	} else {
		indexSize = 4 + uint32(len(recs))*entrySizeV2
	}
	off := uint32(HeaderSize) + indexSize
	for i := range recs {
		recs[i].location = off
		off += recs[i].size
	}

	iw := codec.NewWriter()
	if v1 {
		writeIndexV1(iw, f.Header.longInstance(), recs)
	} else {
		writeIndexV2(iw, recs)
	}

	hdr := rawHeader{
		VersionMajor:  f.Header.Version.Major,
		VersionMinor:  f.Header.Version.Minor,
		UserMajor:     f.Header.UserVersion.Major,
		UserMinor:     f.Header.UserVersion.Minor,
		Flags:         f.Header.Flags,
		Created:       f.Header.Created,
		Modified:      f.Header.Modified,
		IndexVersion:  f.Header.IndexVersion,
		IndexCount:    uint32(len(recs)),
		IndexLocation: HeaderSize,
		IndexSize:     indexSize,
		IndexMinor:    f.Header.IndexMinor,
	}
	copy(hdr.Magic[:], headerMagic)
	if !v1 {
		hdr.IndexOffset = HeaderSize
	}

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(iw.Bytes()); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	for i, blob := range blobs {
		if _, err := w.Write(blob); err != nil {
			return fmt.Errorf("writing entry %s: %w", recs[i].id, err)
		}
	}
	return nil
}
