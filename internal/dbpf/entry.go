package dbpf

import (
	"context"
	"fmt"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/tgi"
)

// Entry is one resource in a package. Its bytes move through three layers,
// stored form, decompressed payload and decoded value, each materialized on
// demand and cached until a mutator invalidates it.
type Entry struct {
	TGI tgi.TGI

	file *File

	compression CompressionType
	location    int64
	size        uint32 // stored size, as on disk
	declared    uint32 // decompressed size as recorded, 0 until known
	committed   uint16

	raw         *Lazy[[]byte]
	plain       []byte
	decoded     codec.File
	decodedOK   bool
	decodedDone bool
}

// Compression returns the entry's stored form.
func (e *Entry) Compression() CompressionType { return e.compression }

// StoredSize returns the size of the stored form, 0 when no stored copy
// exists yet.
func (e *Entry) StoredSize() uint32 {
	if e.raw != nil && e.raw.IsResolved() {
		data, _ := e.raw.Resolve(nil)
		return uint32(len(data))
	}
	return e.size
}

// DecompressedSize returns the declared payload size, 0 when it has not
// been recorded or measured yet.
func (e *Entry) DecompressedSize() uint32 { return e.declared }

// Raw returns the entry's bytes in their stored form, reading them from the
// backing stream on first use. With no stored copy the bytes are rebuilt
// from the decompressed or decoded layer.
func (e *Entry) Raw(ctx context.Context) ([]byte, error) {
	if e.raw != nil {
		if e.raw.IsResolved() {
			return e.raw.Resolve(nil)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.file == nil || e.file.r == nil {
			return nil, fmt.Errorf("entry %s: %w", e.TGI, ErrDeferred)
		}
		data, err := e.raw.Resolve(e.file.r)
		if err != nil {
			return nil, fmt.Errorf("reading entry %s: %w", e.TGI, err)
		}
		return data, nil
	}

	plain, err := e.Decompressed(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := compress(e.compression, plain)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.TGI, err)
	}
	e.declared = uint32(len(plain))
	e.size = uint32(len(stored))
	e.raw = Resolved(stored)
	return stored, nil
}

// Decompressed returns the entry's payload, expanding the stored form or
// re-encoding the decoded value as needed.
func (e *Entry) Decompressed(ctx context.Context) ([]byte, error) {
	if e.plain != nil {
		return e.plain, nil
	}

	if e.raw == nil {
		if !e.decodedDone || !e.decodedOK {
			return nil, fmt.Errorf("entry %s holds no data in any layer", e.TGI)
		}
		data, err := e.decoded.Encode()
		if err != nil {
			return nil, fmt.Errorf("encoding entry %s: %w", e.TGI, err)
		}
		if data == nil {
			data = []byte{}
		}
		e.plain = data
		e.declared = uint32(len(data))
		return data, nil
	}

	stored, err := e.Raw(ctx)
	if err != nil {
		return nil, err
	}
	out, err := expand(e.compression, stored, e.declared)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.TGI, err)
	}
	if e.compression.Compressed() && e.declared != 0 && uint32(len(out)) != e.declared {
		return nil, fmt.Errorf("entry %s decompressed to %d bytes, the directory declared %d: %w",
			e.TGI, len(out), e.declared, ErrSizeMismatch)
	}
	if out == nil {
		out = []byte{}
	}
	e.declared = uint32(len(out))
	e.plain = out
	return out, nil
}

// Decoded returns the entry's typed value. The second return is false when
// the type has no registered codec, which is not an error.
func (e *Entry) Decoded(ctx context.Context) (codec.File, bool, error) {
	if e.decodedDone {
		return e.decoded, e.decodedOK, nil
	}
	plain, err := e.Decompressed(ctx)
	if err != nil {
		return nil, false, err
	}
	file, known, err := codec.Decode(e.TGI.Type, plain)
	if err != nil {
		return nil, known, &DecodeError{Type: e.TGI.Type, Offset: e.location, Err: err}
	}
	e.decoded = file
	e.decodedOK = known
	e.decodedDone = true
	return file, known, nil
}

// Compressed returns the entry's bytes in the given stored form without
// changing the entry. When the form matches the current one this is Raw.
func (e *Entry) Compressed(ctx context.Context, ct CompressionType) ([]byte, error) {
	if ct == e.compression {
		return e.Raw(ctx)
	}
	plain, err := e.Decompressed(ctx)
	if err != nil {
		return nil, err
	}
	out, err := compress(ct, plain)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.TGI, err)
	}
	return out, nil
}

// SetRaw replaces the stored bytes, dropping the decompressed and decoded
// layers. The payload size of compressed data is rediscovered on the next
// expansion.
func (e *Entry) SetRaw(data []byte, ct CompressionType) {
	if data == nil {
		data = []byte{}
	}
	e.raw = Resolved(data)
	e.compression = ct
	e.size = uint32(len(data))
	if ct.Compressed() {
		e.declared = 0
	} else {
		e.declared = uint32(len(data))
	}
	e.plain = nil
	e.decoded = nil
	e.decodedOK = false
	e.decodedDone = false
}

// SetDecoded replaces the typed value. Stored and decompressed bytes are
// re-encoded from it on demand.
func (e *Entry) SetDecoded(file codec.File) {
	e.decoded = file
	e.decodedOK = true
	e.decodedDone = true
	e.plain = nil
	e.raw = nil
	e.size = 0
	e.declared = 0
}

// SetCompression changes the stored form. The payload is materialized first
// so the old stored bytes can be dropped.
func (e *Entry) SetCompression(ctx context.Context, ct CompressionType) error {
	if ct == e.compression {
		return nil
	}
	if _, ok := compressors[ct]; !ok {
		return fmt.Errorf("entry %s: cannot produce %s data: %w", e.TGI, ct, ErrUnsupportedCompression)
	}
	if _, err := e.Decompressed(ctx); err != nil {
		return err
	}
	e.compression = ct
	e.raw = nil
	e.size = 0
	return nil
}
