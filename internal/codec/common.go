package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// ErrTruncated is wrapped by every reader failure caused by running out of
// input rather than by malformed content.
var ErrTruncated = errors.New("truncated data")

// filenameSize is the fixed size of the embedded filename header carried by
// the older resource formats.
const filenameSize = 0x40

// Reader walks a byte slice with an explicit offset. All fixed-width reads
// are little-endian unless the method name says otherwise.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Offset() int { return r.off }

func (r *Reader) SetOffset(off int) { r.off = off }

func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) AtEOF() bool { return r.off >= len(r.data) }

func (r *Reader) need(n int) error {
	if r.off+n > len(r.data) {
		return fmt.Errorf("offset %d: need %d bytes, have %d: %w", r.off, n, len(r.data)-r.off, ErrTruncated)
	}
	return nil
}

// Bytes consumes and returns the next n bytes. The returned slice aliases
// the reader's backing data.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) U16Big() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *Reader) U64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// String32 reads a u32 length followed by that many raw bytes. The bytes
// are kept verbatim in the returned string so legacy encodings round-trip.
func (r *Reader) String32() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", fmt.Errorf("string of length %d: %w", n, err)
	}
	return string(b), nil
}

// VarInt reads a 7-bit little-endian variable length integer.
func (r *Reader) VarInt() (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
		if shift > 63 {
			return 0, fmt.Errorf("offset %d: varint overflows 64 bits", r.off)
		}
	}
}

// BigString reads a varint length followed by that many raw bytes.
func (r *Reader) BigString() (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", fmt.Errorf("string of length %d: %w", n, err)
	}
	return string(b), nil
}

// NullString reads bytes up to and including a zero terminator.
func (r *Reader) NullString() (string, error) {
	end := bytes.IndexByte(r.data[r.off:], 0)
	if end < 0 {
		return "", fmt.Errorf("offset %d: unterminated string: %w", r.off, ErrTruncated)
	}
	s := string(r.data[r.off : r.off+end])
	r.off += end + 1
	return s, nil
}

// FileName reads the 64-byte embedded filename block: a zero-terminated
// name padded with zeros to the block size.
func (r *Reader) FileName() (string, error) {
	b, err := r.Bytes(filenameSize)
	if err != nil {
		return "", fmt.Errorf("filename block: %w", err)
	}
	if end := bytes.IndexByte(b, 0); end >= 0 {
		b = b[:end]
	}
	return string(b), nil
}

// Writer builds a byte slice by appending. Writes cannot fail except where
// a method returns an error for content that does not fit the format.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Raw(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) U16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) U16Big(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }

func (w *Writer) U32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) U64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

func (w *Writer) String32(s string) {
	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) VarInt(v uint64) {
	for v >= 0x80 {
		w.U8(uint8(v) | 0x80)
		v >>= 7
	}
	w.U8(uint8(v))
}

func (w *Writer) BigString(s string) {
	w.VarInt(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) NullString(s string) {
	w.buf = append(w.buf, s...)
	w.U8(0)
}

// FileName writes the 64-byte embedded filename block. Names must leave
// room for the terminator.
func (w *Writer) FileName(s string) error {
	if len(s) >= filenameSize {
		return fmt.Errorf("filename %q is %d bytes, limit is %d", s, len(s), filenameSize-1)
	}
	w.buf = append(w.buf, s...)
	for i := len(s); i < filenameSize; i++ {
		w.buf = append(w.buf, 0)
	}
	return nil
}

// DecodeWindows1252 converts legacy single-byte text to UTF-8 for display.
// Resource strings stay raw in the decoded structs so writes round-trip.
func DecodeWindows1252(s string) string {
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// LanguageCode is the language field of a translated text entry.
type LanguageCode uint8

var languageNames = map[LanguageCode]string{
	1:  "English (US)",
	2:  "English (UK)",
	3:  "French",
	4:  "German",
	5:  "Italian",
	6:  "Spanish",
	7:  "Dutch",
	8:  "Danish",
	9:  "Swedish",
	10: "Norwegian",
	11: "Finnish",
	12: "Hebrew",
	13: "Russian",
	14: "Portuguese",
	15: "Japanese",
	16: "Polish",
	17: "Traditional Chinese",
	18: "Simplified Chinese",
	19: "Thai",
	20: "Korean",
}

func (c LanguageCode) String() string {
	if name, ok := languageNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Language %d", uint8(c))
}
