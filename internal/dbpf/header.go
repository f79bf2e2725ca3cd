package dbpf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the fixed size of the package header.
const HeaderSize = 0x60

const headerMagic = "DBPF"

// Index table revisions seen in the wild.
const (
	IndexVersionDefault = 7
	IndexVersionSpore   = 0
)

// Version is a container layout revision as a major/minor pair. Major 1
// covers the classic games, 2 and 3 the later long-instance layouts.
type Version struct {
	Major uint32
	Minor uint32
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

func (v Version) supported() bool {
	switch v.Major {
	case 1:
		return v.Minor <= 2
	case 2:
		return v.Minor <= 1
	case 3:
		return v.Minor == 0
	}
	return false
}

// Header carries the package fields that survive a rewrite. Index and hole
// geometry is recomputed from live state every time the package is written.
type Header struct {
	Version      Version
	UserVersion  Version
	Flags        uint32
	Created      uint32
	Modified     uint32
	IndexVersion uint32
	IndexMinor   uint32
}

// longInstance reports whether index and directory records carry the high
// half of the instance id.
func (h Header) longInstance() bool { return h.IndexMinor == 2 }

func v1EntrySize(indexMinor uint32) uint32 {
	if indexMinor == 2 {
		return 24
	}
	return 20
}

// rawHeader is the on-disk header layout, 96 bytes.
type rawHeader struct {
	Magic         [4]byte
	VersionMajor  uint32
	VersionMinor  uint32
	UserMajor     uint32
	UserMinor     uint32
	Flags         uint32
	Created       uint32
	Modified      uint32
	IndexVersion  uint32
	IndexCount    uint32
	IndexLocation uint32
	IndexSize     uint32
	HoleCount     uint32
	HoleLocation  uint32
	HoleSize      uint32
	IndexMinor    uint32
	IndexOffset   uint64
	_             [24]byte
}

func readHeader(r io.Reader) (rawHeader, error) {
	var h rawHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("reading package header: %w", err)
	}
	return h, nil
}

// indexStart returns the index table position. Version 2 moved it to a
// 64-bit field; the old 32-bit location is ignored from then on.
func (h rawHeader) indexStart() int64 {
	if h.VersionMajor >= 2 {
		return int64(h.IndexOffset)
	}
	return int64(h.IndexLocation)
}

func (h rawHeader) validate(fileSize int64) error {
	if string(h.Magic[:]) != headerMagic {
		return fmt.Errorf("bad magic %q: %w", h.Magic, ErrMalformedHeader)
	}
	v := Version{h.VersionMajor, h.VersionMinor}
	if !v.supported() {
		return fmt.Errorf("unsupported package version %s: %w", v, ErrMalformedHeader)
	}
	if h.IndexVersion != IndexVersionDefault && h.IndexVersion != IndexVersionSpore {
		return fmt.Errorf("unknown index version %d: %w", h.IndexVersion, ErrMalformedHeader)
	}
	if h.IndexMinor > 3 {
		return fmt.Errorf("unknown index minor version %d: %w", h.IndexMinor, ErrMalformedHeader)
	}

	if h.HoleSize != h.HoleCount*8 {
		return fmt.Errorf("hole index size %d does not match %d holes: %w", h.HoleSize, h.HoleCount, ErrMalformedHeader)
	}
	if h.HoleCount > 0 {
		if h.HoleLocation < HeaderSize {
			return fmt.Errorf("hole index location 0x%X is inside the header: %w", h.HoleLocation, ErrMalformedHeader)
		}
		if int64(h.HoleLocation)+int64(h.HoleSize) > fileSize {
			return fmt.Errorf("hole index at 0x%X runs past the end of the file: %w", h.HoleLocation, ErrMalformedHeader)
		}
	}

	if h.IndexCount > 0 {
		start := h.indexStart()
		if start < HeaderSize {
			return fmt.Errorf("index location 0x%X is inside the header: %w", start, ErrMalformedHeader)
		}
		if start+int64(h.IndexSize) > fileSize {
			return fmt.Errorf("index at 0x%X runs past the end of the file: %w", start, ErrMalformedHeader)
		}
	}
	if h.VersionMajor == 1 {
		if want := h.IndexCount * v1EntrySize(h.IndexMinor); h.IndexSize != want {
			return fmt.Errorf("index size %d does not match %d entries of %d bytes: %w",
				h.IndexSize, h.IndexCount, v1EntrySize(h.IndexMinor), ErrMalformedHeader)
		}
	}
	return nil
}

func (h rawHeader) header() Header {
	return Header{
		Version:      Version{h.VersionMajor, h.VersionMinor},
		UserVersion:  Version{h.UserMajor, h.UserMinor},
		Flags:        h.Flags,
		Created:      h.Created,
		Modified:     h.Modified,
		IndexVersion: h.IndexVersion,
		IndexMinor:   h.IndexMinor,
	}
}
