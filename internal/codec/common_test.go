package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderFixedWidth(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.U8(0xAB)
	w.U16(0x1234)
	w.U16Big(0x1234)
	w.U32(0xDEADBEEF)
	w.U64(0x0102030405060708)
	w.I32(-42)
	w.F32(1.5)

	r := NewReader(w.Bytes())

	u8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u16b, err := r.U16Big()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16b)

	u32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	i32, err := r.I32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i32)

	f32, err := r.F32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	assert.True(t, r.AtEOF())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderEndianness(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0x34, 0x12, 0x12, 0x34})

	le, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), le)

	be, err := r.U16Big()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), be)
}

func TestReaderTruncated(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0x01, 0x02})
	_, err := r.U32()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.EqualError(t, err, "offset 0: need 4 bytes, have 2: truncated data")

	// a failed read must not move the cursor
	v, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)
}

func TestReaderOffset(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{1, 2, 3, 4})
	_, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Offset())
	assert.Equal(t, 2, r.Remaining())

	r.SetOffset(0)
	v, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
}

func TestVarInt(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 0x7F, 0x80, 0x123, 0x3FFF, 0x4000, 1<<32 - 1, 1<<63 - 1}
	for _, v := range values {
		w := NewWriter()
		w.VarInt(v)
		r := NewReader(w.Bytes())
		got, err := r.VarInt()
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.True(t, r.AtEOF())
	}

	// 0x80 needs a continuation byte
	w := NewWriter()
	w.VarInt(0x80)
	assert.Equal(t, []byte{0x80, 0x01}, w.Bytes())
}

func TestVarIntOverflow(t *testing.T) {
	t.Parallel()

	r := NewReader(bytes.Repeat([]byte{0xFF}, 11))
	_, err := r.VarInt()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varint overflows 64 bits")
}

func TestString32(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.String32("material")
	assert.Equal(t, append([]byte{8, 0, 0, 0}, "material"...), w.Bytes())

	r := NewReader(w.Bytes())
	s, err := r.String32()
	require.NoError(t, err)
	assert.Equal(t, "material", s)

	// length beyond the buffer
	r = NewReader([]byte{0xFF, 0, 0, 0, 'a'})
	_, err = r.String32()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "string of length 255")
}

func TestBigString(t *testing.T) {
	t.Parallel()

	long := string(bytes.Repeat([]byte{'x'}, 200))
	for _, s := range []string{"", "short", long} {
		w := NewWriter()
		w.BigString(s)
		r := NewReader(w.Bytes())
		got, err := r.BigString()
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	// 200 does not fit a single varint byte
	w := NewWriter()
	w.BigString(long)
	assert.Equal(t, []byte{0xC8, 0x01}, w.Bytes()[:2])
}

func TestNullString(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	w.NullString("one")
	w.NullString("")
	w.NullString("two")

	r := NewReader(w.Bytes())
	for _, want := range []string{"one", "", "two"} {
		s, err := r.NullString()
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
	assert.True(t, r.AtEOF())

	r = NewReader([]byte("no terminator"))
	_, err := r.NullString()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestFileNameBlock(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	require.NoError(t, w.FileName("neighborhood"))
	assert.Equal(t, 0x40, w.Len())

	r := NewReader(w.Bytes())
	name, err := r.FileName()
	require.NoError(t, err)
	assert.Equal(t, "neighborhood", name)
	assert.True(t, r.AtEOF())
}

func TestFileNameTooLong(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	err := w.FileName(string(bytes.Repeat([]byte{'a'}, 0x40)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 63")

	// 63 bytes still leave room for the terminator
	require.NoError(t, w.FileName(string(bytes.Repeat([]byte{'a'}, 0x3F))))
}

func TestDecodeWindows1252(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "café", DecodeWindows1252("caf\xE9"))
	assert.Equal(t, "“hi”", DecodeWindows1252("\x93hi\x94"))
	assert.Equal(t, "plain", DecodeWindows1252("plain"))
}

func TestLanguageCodeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "English (US)", LanguageCode(1).String())
	assert.Equal(t, "Korean", LanguageCode(20).String())
	assert.Equal(t, "Language 99", LanguageCode(99).String())
}
