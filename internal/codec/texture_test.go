package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidBGRA fills n pixels with one stored color value.
func solidBGRA(n int) []byte {
	return bytes.Repeat([]byte{50, 100, 200, 255}, n)
}

func solidTextureFixture() *TextureResource {
	t := textureFixture()
	t.Textures[0].Entries[0].Data = solidBGRA(1)
	t.Textures[0].Entries[1].Data = solidBGRA(4)
	t.Textures[0].Entries[2].Data = solidBGRA(16)
	return t
}

func TestMipSize(t *testing.T) {
	t.Parallel()

	tex := &TextureResource{Width: 8, Height: 4}
	for _, tt := range []struct {
		level, width, height int
	}{
		{0, 8, 4},
		{1, 4, 2},
		{2, 2, 1},
		{3, 1, 1},
		{4, 1, 1},
	} {
		w, h := tex.MipSize(tt.level)
		assert.Equal(t, tt.width, w, "level %d", tt.level)
		assert.Equal(t, tt.height, h, "level %d", tt.level)
	}
}

func TestTextureDecompress(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries[0].Data = []byte{10, 20, 30, 40}

	// mip index 0 is the smallest level
	decoded, err := tex.Decompress(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Width)
	assert.Equal(t, 1, decoded.Height)
	assert.Equal(t, []byte{30, 20, 10, 40}, decoded.Data)

	largest, err := tex.Decompress(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, largest.Width)
	assert.Len(t, largest.Data, 64)
}

func TestTextureDecompressLIFO(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries[0] = MipEntry{LIFO: true, Name: "chair_seat-lifo_00_2"}

	_, err := tex.Decompress(0, 0)
	assert.EqualError(t, err, "mipmap entry is a LIFO file")
}

func TestTextureDecompressSizeMismatch(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries[2].Data = make([]byte, 3)

	_, err := tex.Decompress(0, 2)
	assert.EqualError(t, err,
		"mipmap level calculated size 64 does not match data length 3 with texture size 4x4")
}

func TestCompressReplace(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	decoded := &DecodedTexture{
		Width:  2,
		Height: 2,
		Data:   bytes.Repeat([]byte{200, 100, 50, 255}, 4),
	}
	tex.CompressReplace(decoded, nil)

	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	require.Len(t, tex.Textures, 1)
	require.Len(t, tex.Textures[0].Entries, 1)
	assert.Equal(t, solidBGRA(4), tex.Textures[0].Entries[0].Data)

	dxt1 := FormatDXT1
	tex.CompressReplace(decoded, &dxt1)
	assert.Equal(t, FormatDXT1, tex.Format)
	assert.Len(t, tex.Textures[0].Entries[0].Data, 8)
}

func TestRecompressWithFormat(t *testing.T) {
	t.Parallel()

	tex := solidTextureFixture()
	out, err := tex.RecompressWithFormat(FormatDXT1)
	require.NoError(t, err)

	assert.Equal(t, FormatDXT1, out.Format)
	for i, entry := range out.Textures[0].Entries {
		assert.Len(t, entry.Data, 8, "mip %d", i)
	}

	// the receiver keeps its encoding
	assert.Equal(t, FormatRawARGB32, tex.Format)
	assert.Len(t, tex.Textures[0].Entries[2].Data, 64)
}

func TestRecompressCarriesLIFOLevels(t *testing.T) {
	t.Parallel()

	tex := solidTextureFixture()
	tex.Textures[0].Entries[0] = MipEntry{LIFO: true, Name: "chair_seat-lifo_00_2"}

	out, err := tex.RecompressWithFormat(FormatDXT1)
	require.NoError(t, err)
	assert.True(t, out.Textures[0].Entries[0].LIFO)
	assert.Equal(t, "chair_seat-lifo_00_2", out.Textures[0].Entries[0].Name)
	assert.Len(t, out.Textures[0].Entries[1].Data, 8)
}

func TestRecompressBadMipLeavesReceiver(t *testing.T) {
	t.Parallel()

	tex := solidTextureFixture()
	tex.Textures[0].Entries[1].Data = make([]byte, 5)

	_, err := tex.RecompressWithFormat(FormatDXT1)
	require.ErrorContains(t, err, "calculated size")
	assert.Equal(t, FormatRawARGB32, tex.Format)
}

func TestRemoveMipLevels(t *testing.T) {
	t.Parallel()

	largest := solidTextureFixture()
	largest.RemoveLargestMipLevels(1)
	assert.Equal(t, uint32(2), largest.Width)
	assert.Equal(t, uint32(2), largest.Height)
	require.Len(t, largest.Textures[0].Entries, 2)
	assert.Len(t, largest.Textures[0].Entries[1].Data, 16)

	smallest := solidTextureFixture()
	smallest.RemoveSmallestMipLevels(1)
	assert.Equal(t, uint32(4), smallest.Width)
	require.Len(t, smallest.Textures[0].Entries, 2)
	assert.Len(t, smallest.Textures[0].Entries[0].Data, 16)

	smaller := solidTextureFixture()
	smaller.RemoveSmallerMipLevels()
	require.Len(t, smaller.Textures[0].Entries, 1)
	assert.Len(t, smaller.Textures[0].Entries[0].Data, 64)
}

func TestAddExtraMipLevels(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries = []MipEntry{{Data: solidBGRA(16)}}

	added := tex.AddExtraMipLevels(2, nil)
	assert.Equal(t, 2, added)
	require.Len(t, tex.Textures[0].Entries, 3)
	// a solid color survives the halving untouched
	assert.Equal(t, solidBGRA(1), tex.Textures[0].Entries[0].Data)
	assert.Equal(t, solidBGRA(4), tex.Textures[0].Entries[1].Data)
	assert.Equal(t, solidBGRA(16), tex.Textures[0].Entries[2].Data)
}

func TestAddExtraMipLevelsStops(t *testing.T) {
	t.Parallel()

	tiny := textureFixture()
	tiny.Width, tiny.Height = 1, 1
	tiny.Textures[0].Entries = []MipEntry{{Data: solidBGRA(1)}}
	assert.Equal(t, 0, tiny.AddExtraMipLevels(1, nil))

	lifo := textureFixture()
	lifo.Textures[0].Entries[0] = MipEntry{LIFO: true, Name: "chair_seat-lifo_00_2"}
	assert.Equal(t, 0, lifo.AddExtraMipLevels(1, nil))
}

func TestAddMaxMipLevels(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Textures[0].Entries = []MipEntry{{Data: solidBGRA(16)}}

	tex.AddMaxMipLevels(nil)
	assert.Equal(t, 3, tex.MipLevels())
}

func TestMaxMipLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		width, height uint32
		want          int
	}{
		{8, 4, 4},
		{4, 4, 3},
		{1, 1, 1},
		{6, 4, 1},
		{0, 4, 0},
	}
	for _, tt := range tests {
		tex := &TextureResource{Width: tt.width, Height: tt.height}
		assert.Equal(t, tt.want, tex.MaxMipLevels(), "%dx%d", tt.width, tt.height)
	}
}

func TestTextureCanShrink(t *testing.T) {
	t.Parallel()

	assert.True(t, textureFixture().CanShrink(ShrinkBoth))

	lifo := textureFixture()
	lifo.Textures[0].Entries[0] = MipEntry{LIFO: true, Name: "chair_seat-lifo_00_2"}
	assert.False(t, lifo.CanShrink(ShrinkBoth))

	tiny := textureFixture()
	tiny.Width, tiny.Height = 1, 1
	tiny.Textures[0].Entries = []MipEntry{{Data: solidBGRA(1)}}
	assert.False(t, tiny.CanShrink(ShrinkBoth))

	odd := textureFixture()
	odd.Width, odd.Height = 6, 6
	odd.Textures[0].Entries = []MipEntry{{Data: solidBGRA(36)}}
	assert.False(t, odd.CanShrink(ShrinkBoth))
}

func TestTextureShrink(t *testing.T) {
	t.Parallel()

	tex := solidTextureFixture()
	removed, err := tex.Shrink(nil, ShrinkBoth)
	require.NoError(t, err)
	// the full chain no longer fits 2x2, so the smallest level goes
	assert.True(t, removed)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	require.Len(t, tex.Textures[0].Entries, 2)
	assert.Equal(t, solidBGRA(1), tex.Textures[0].Entries[0].Data)
	assert.Equal(t, solidBGRA(4), tex.Textures[0].Entries[1].Data)
}

func TestTextureShrinkRefused(t *testing.T) {
	t.Parallel()

	tex := textureFixture()
	tex.Width, tex.Height = 1, 1
	tex.Textures[0].Entries = []MipEntry{{Data: solidBGRA(1)}}

	removed, err := tex.Shrink(nil, ShrinkBoth)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, uint32(1), tex.Width)
}
