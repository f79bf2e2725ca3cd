package codec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ddsBytes(h *ddsHeader, pixels ...[]byte) []byte {
	w := NewWriter()
	writeDDSHeader(w, h)
	for _, p := range pixels {
		w.Raw(p)
	}
	return w.Bytes()
}

func TestDDSRoundTripRaw(t *testing.T) {
	t.Parallel()

	tex := solidTextureFixture()
	var buf bytes.Buffer
	require.NoError(t, tex.ExportDDS(&buf))

	out := buf.Bytes()
	assert.Equal(t, "DDS ", string(out[:4]))
	assert.Equal(t, uint32(124), binary.LittleEndian.Uint32(out[4:]))
	assert.Equal(t, uint32(0x82100F), binary.LittleEndian.Uint32(out[8:]), "flags")
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(out[12:]), "height")
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[20:]), "pitch")
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(out[28:]), "mip count")
	assert.Equal(t, uint32(0x401008), binary.LittleEndian.Uint32(out[108:]), "caps")
	// largest level leads the pixel data
	assert.Equal(t, tex.Textures[0].Entries[2].Data, out[128:128+64])

	imported, err := ImportDDS(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), imported.Width)
	assert.Equal(t, uint32(4), imported.Height)
	assert.Equal(t, FormatRawARGB32, imported.Format)
	require.Len(t, imported.Textures, 1)
	assert.Equal(t, uint32(0xFFFFFFFF), imported.Textures[0].CreatorID)
	require.Len(t, imported.Textures[0].Entries, 3)
	for i, entry := range imported.Textures[0].Entries {
		assert.Equal(t, tex.Textures[0].Entries[i].Data, entry.Data, "mip %d", i)
	}
}

func TestDDSRoundTripDXT1(t *testing.T) {
	t.Parallel()

	tex := &TextureResource{
		Width:  4,
		Height: 4,
		Format: FormatDXT1,
		Textures: []MipChain{{
			Entries: []MipEntry{
				{Data: bytes.Repeat([]byte{1}, 8)},
				{Data: bytes.Repeat([]byte{2}, 8)},
				{Data: bytes.Repeat([]byte{3}, 8)},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, tex.ExportDDS(&buf))
	out := buf.Bytes()
	assert.Equal(t, uint32(0x8A1007), binary.LittleEndian.Uint32(out[8:]), "flags")
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(out[20:]), "linear size")

	imported, err := ImportDDS(&buf)
	require.NoError(t, err)
	assert.Equal(t, FormatDXT1, imported.Format)
	require.Len(t, imported.Textures[0].Entries, 3)
	assert.Equal(t, tex.Textures[0].Entries[0].Data, imported.Textures[0].Entries[0].Data)
}

func TestDDSRoundTripSingleChannelFormats(t *testing.T) {
	t.Parallel()

	for _, format := range []TextureFormat{FormatAlpha, FormatGrayscale, FormatRawRGB24} {
		tex := &TextureResource{
			Width:  2,
			Height: 2,
			Format: format,
			Textures: []MipChain{{
				Entries: []MipEntry{{Data: make([]byte, format.CompressedSize(2, 2))}},
			}},
		}
		for i := range tex.Textures[0].Entries[0].Data {
			tex.Textures[0].Entries[0].Data[i] = byte(i + 1)
		}

		var buf bytes.Buffer
		require.NoError(t, tex.ExportDDS(&buf))
		imported, err := ImportDDS(&buf)
		require.NoError(t, err, "format %v", format)
		assert.Equal(t, format, imported.Format, "format %v", format)
		assert.Equal(t, tex.Textures[0].Entries[0].Data, imported.Textures[0].Entries[0].Data)
	}
}

func TestImportSwapsNonNativeChannelOrder(t *testing.T) {
	t.Parallel()

	// A8B8G8R8 holds red in the low byte, storage wants blue there
	h := &ddsHeader{
		height: 1,
		width:  1,
		pixel: ddsPixelFormat{
			flags:    ddpfRGB | ddpfAlphaPixels,
			bitCount: 32,
			rMask:    0xFF,
			gMask:    0xFF00,
			bMask:    0xFF0000,
			aMask:    0xFF000000,
		},
	}
	imported, err := ImportDDS(bytes.NewReader(ddsBytes(h, []byte{1, 2, 3, 4})))
	require.NoError(t, err)
	assert.Equal(t, FormatRawARGB32, imported.Format)
	assert.Equal(t, []byte{3, 2, 1, 4}, imported.Textures[0].Entries[0].Data)

	decoded, err := imported.Decompress(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, decoded.Data)
}

func TestImportForcesOpaqueWithoutAlphaMask(t *testing.T) {
	t.Parallel()

	h := &ddsHeader{
		height: 1,
		width:  1,
		pixel: ddsPixelFormat{
			flags:    ddpfRGB,
			bitCount: 32,
			rMask:    0xFF0000,
			gMask:    0xFF00,
			bMask:    0xFF,
		},
	}
	imported, err := ImportDDS(bytes.NewReader(ddsBytes(h, []byte{10, 20, 30, 77})))
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 255}, imported.Textures[0].Entries[0].Data)
}

func TestImportDX10Header(t *testing.T) {
	t.Parallel()

	h := &ddsHeader{
		height: 1,
		width:  1,
		pixel:  ddsPixelFormat{flags: ddpfFourCC, fourCC: fourCCDX10},
	}

	ext := make([]byte, 20)
	binary.LittleEndian.PutUint32(ext, dxgiB8G8R8A8UNorm)
	imported, err := ImportDDS(bytes.NewReader(ddsBytes(h, ext, []byte{9, 8, 7, 6})))
	require.NoError(t, err)
	assert.Equal(t, FormatRawARGB32, imported.Format)
	assert.Equal(t, []byte{9, 8, 7, 6}, imported.Textures[0].Entries[0].Data)

	binary.LittleEndian.PutUint32(ext, 28) // R8G8B8A8_UNORM
	imported, err = ImportDDS(bytes.NewReader(ddsBytes(h, ext, []byte{1, 2, 3, 4})))
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4, 1}, imported.Textures[0].Entries[0].Data)

	binary.LittleEndian.PutUint32(ext, 999)
	_, err = ImportDDS(bytes.NewReader(ddsBytes(h, ext)))
	assert.EqualError(t, err, "unsupported dxgi format 999")
}

func TestDDSVolumeTexture(t *testing.T) {
	t.Parallel()

	tex := &TextureResource{
		Width:  1,
		Height: 1,
		Format: FormatRawARGB32,
		Textures: []MipChain{
			{Entries: []MipEntry{{Data: []byte{1, 1, 1, 255}}}},
			{Entries: []MipEntry{{Data: []byte{2, 2, 2, 255}}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tex.ExportDDS(&buf))
	out := buf.Bytes()
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(out[24:]), "depth")
	assert.Equal(t, uint32(ddsCaps2Volume), binary.LittleEndian.Uint32(out[112:]), "caps2")

	imported, err := ImportDDS(&buf)
	require.NoError(t, err)
	require.Len(t, imported.Textures, 2)
	assert.Equal(t, []byte{1, 1, 1, 255}, imported.Textures[0].Entries[0].Data)
	assert.Equal(t, []byte{2, 2, 2, 255}, imported.Textures[1].Entries[0].Data)
}

func TestExportRefusesLIFOMips(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries[0] = MipEntry{LIFO: true, Name: "chair_seat-lifo_00_2"}

	var buf bytes.Buffer
	err := tex.ExportDDS(&buf)
	assert.EqualError(t, err, "tried to export a texture with lifo mipmaps")
}

func TestImportRejectsMalformedHeaders(t *testing.T) {
	t.Parallel()

	_, err := ImportDDS(bytes.NewReader([]byte("PNG somethingelse")))
	assert.EqualError(t, err, "not a dds file")

	w := NewWriter()
	w.Raw([]byte(ddsMagic))
	w.U32(120)
	_, err = ImportDDS(bytes.NewReader(w.Bytes()))
	assert.EqualError(t, err, "dds header size is 120, expected 124")

	h := &ddsHeader{height: 1, width: 1, pixel: ddsPixelFormat{bitCount: 16}}
	_, err = ImportDDS(bytes.NewReader(ddsBytes(h)))
	assert.EqualError(t, err, "unsupported dds pixel format")
}

func TestPixelFormatDetectLooseMatches(t *testing.T) {
	t.Parallel()

	alpha := &ddsPixelFormat{flags: ddpfAlpha}
	format, fixup, ok := alpha.detect()
	require.True(t, ok)
	assert.Equal(t, FormatAlpha, format)
	assert.Nil(t, fixup)

	lum := &ddsPixelFormat{flags: ddpfLuminance}
	format, _, ok = lum.detect()
	require.True(t, ok)
	assert.Equal(t, FormatGrayscale, format)

	unknown := &ddsPixelFormat{flags: ddpfRGB, bitCount: 16, rMask: 0xF00}
	_, _, ok = unknown.detect()
	assert.False(t, ok)
}
