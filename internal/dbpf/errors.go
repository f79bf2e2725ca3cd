package dbpf

import (
	"errors"
	"fmt"

	"github.com/simtools/dbpfkit/internal/tgi"
)

var (
	// ErrMalformedHeader means the package header or index tables violate a
	// structural invariant. The package cannot be opened.
	ErrMalformedHeader = errors.New("malformed package header")

	// ErrSizeMismatch means an entry decompressed to a different length than
	// its directory declared. Fatal to that entry only.
	ErrSizeMismatch = errors.New("decompressed size mismatch")

	// ErrUnsupportedCompression means an entry is stored in a compression
	// scheme this package cannot expand or produce.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrDeferred means an entry's bytes were still deferred to the backing
	// stream when the stream went away.
	ErrDeferred = errors.New("data deferred to a closed stream")
)

// DecodeError reports that a known resource type's bytes did not match its
// format. It carries the type and stored offset for diagnostics.
type DecodeError struct {
	Type    tgi.TypeID
	Version uint32
	Offset  int64
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Version != 0 {
		return fmt.Sprintf("decoding %s version %d at offset 0x%X: %v", e.Type.Abbreviation(), e.Version, e.Offset, e.Err)
	}
	return fmt.Sprintf("decoding %s at offset 0x%X: %v", e.Type.Abbreviation(), e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
