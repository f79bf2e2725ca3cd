package dbpf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/simtools/dbpfkit/internal/qfs"
)

// CompressionType is the stored form of an entry's bytes, as recorded in a
// V2 index or implied by a V1 directory resource.
type CompressionType uint16

const (
	Uncompressed CompressionType = 0x0000
	ZLib         CompressionType = 0x5A42
	Deleted      CompressionType = 0xFFE0
	Streamable   CompressionType = 0xFFFE
	RefPack      CompressionType = 0xFFFF
)

func (c CompressionType) String() string {
	switch c {
	case Uncompressed:
		return "uncompressed"
	case ZLib:
		return "zlib"
	case Deleted:
		return "deleted"
	case Streamable:
		return "streamable"
	case RefPack:
		return "refpack"
	}
	return fmt.Sprintf("0x%04X", uint16(c))
}

// Compressed reports whether the stored form differs from the payload.
// Deleted entries keep their bytes verbatim.
func (c CompressionType) Compressed() bool {
	return c == RefPack || c == ZLib || c == Streamable
}

// expanders maps each stored form to its expansion routine. Expansion gets
// the declared payload size as a read bound; verifying the result against it
// is the caller's job.
var expanders = map[CompressionType]func(src []byte, declared uint32) ([]byte, error){
	Uncompressed: expandStored,
	Deleted:      expandStored,
	RefPack:      expandRefPack,
	ZLib:         expandZLib,
}

var compressors = map[CompressionType]func(src []byte) ([]byte, error){
	Uncompressed: compressStored,
	Deleted:      compressStored,
	RefPack:      qfs.Compress,
	ZLib:         compressZLib,
}

func expand(ct CompressionType, src []byte, declared uint32) ([]byte, error) {
	fn, ok := expanders[ct]
	if !ok {
		return nil, fmt.Errorf("cannot expand %s data: %w", ct, ErrUnsupportedCompression)
	}
	return fn(src, declared)
}

func compress(ct CompressionType, src []byte) ([]byte, error) {
	fn, ok := compressors[ct]
	if !ok {
		return nil, fmt.Errorf("cannot produce %s data: %w", ct, ErrUnsupportedCompression)
	}
	return fn(src)
}

func expandStored(src []byte, _ uint32) ([]byte, error) {
	return src, nil
}

func expandRefPack(src []byte, _ uint32) ([]byte, error) {
	return qfs.Decompress(src)
}

// expandZLib inflates at most declared+1 bytes so a lying stream cannot
// balloon memory; the extra byte lets the caller spot an overrun.
func expandZLib(src []byte, declared uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer zr.Close()

	var out []byte
	if declared == 0 {
		out, err = io.ReadAll(zr)
	} else {
		out, err = io.ReadAll(io.LimitReader(zr, int64(declared)+1))
	}
	if err != nil {
		return nil, fmt.Errorf("zlib stream: %w", err)
	}
	return out, nil
}

func compressStored(src []byte) ([]byte, error) {
	return src, nil
}

func compressZLib(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("zlib deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib deflate: %w", err)
	}
	return buf.Bytes(), nil
}
