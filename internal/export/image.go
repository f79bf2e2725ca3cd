package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/simtools/dbpfkit/internal/codec"
)

// PNG encodes one decoded mip level as a PNG image.
func PNG(decoded *codec.DecodedTexture, w io.Writer) error {
	img := &image.NRGBA{
		Pix:    decoded.Data,
		Stride: decoded.Width * 4,
		Rect:   image.Rect(0, 0, decoded.Width, decoded.Height),
	}
	return png.Encode(w, img)
}

// TexturePNG decodes the largest embedded mip of a texture resource and
// encodes it as PNG. Levels that live in external LIFO files are skipped in
// favour of the largest one stored inline.
func TexturePNG(t *codec.TextureResource, w io.Writer) error {
	if len(t.Textures) == 0 || len(t.Textures[0].Entries) == 0 {
		return fmt.Errorf("texture has no mip levels")
	}

	entries := t.Textures[0].Entries
	for mip := len(entries) - 1; mip >= 0; mip-- {
		if entries[mip].LIFO {
			continue
		}
		decoded, err := t.Decompress(0, mip)
		if err != nil {
			return fmt.Errorf("decoding mip %d: %w", mip, err)
		}
		return PNG(decoded, w)
	}

	return fmt.Errorf("texture holds only LIFO mip references")
}
