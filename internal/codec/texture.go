package codec

import "fmt"

// Texture purposes the game knows. Other values occur and are preserved.
const (
	PurposeObject    float32 = 1
	PurposeOutfit    float32 = 2
	PurposeInterface float32 = 3
)

// formatFlag trails every mip chain at block version 9.
const formatFlag float32 = 10

// MipEntry is one mip level of a texture: pixel data embedded in the
// resource, or the name of a LIFO file holding it.
type MipEntry struct {
	LIFO bool
	Name string
	Data []byte
}

// MipChain is one texture of a resource, its mip entries ordered smallest
// first. CreatorID is 0xFF000000 or 0xFFFFFFFF when not uploaded online.
type MipChain struct {
	Entries   []MipEntry
	CreatorID uint32
}

// TextureResource is the pixel data block of a TXTR. Width and Height are
// the dimensions of the largest mip level.
type TextureResource struct {
	FileName       string
	Width          uint32
	Height         uint32
	Format         TextureFormat
	Purpose        float32
	Unknown        uint32
	FileNameRepeat string // block version 9
	Textures       []MipChain
}

func readTextureResource(r *Reader, version uint32) (*TextureResource, error) {
	t := &TextureResource{}

	var err error
	if t.FileName, err = readSGResourceName(r); err != nil {
		return nil, err
	}
	if t.Width, err = r.U32(); err != nil {
		return nil, err
	}
	if t.Height, err = r.U32(); err != nil {
		return nil, err
	}
	format, err := r.U32()
	if err != nil {
		return nil, err
	}
	if format < 1 || format > 9 {
		return nil, fmt.Errorf("unknown texture format %d", format)
	}
	t.Format = TextureFormat(format)
	mipLevels, err := r.U32()
	if err != nil {
		return nil, err
	}
	if t.Purpose, err = r.F32(); err != nil {
		return nil, err
	}
	numTextures, err := r.U32()
	if err != nil {
		return nil, err
	}
	if t.Unknown, err = r.U32(); err != nil {
		return nil, err
	}
	if version == 9 {
		if t.FileNameRepeat, err = r.BigString(); err != nil {
			return nil, err
		}
	}
	t.Textures = make([]MipChain, 0, numTextures)
	for i := uint32(0); i < numTextures; i++ {
		chain, err := readMipChain(r, version, mipLevels)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		t.Textures = append(t.Textures, chain)
	}
	return t, nil
}

func readMipChain(r *Reader, version, mipLevels uint32) (MipChain, error) {
	var chain MipChain
	var err error
	if version == 9 {
		if mipLevels, err = r.U32(); err != nil {
			return chain, err
		}
	}
	chain.Entries = make([]MipEntry, 0, mipLevels)
	for i := uint32(0); i < mipLevels; i++ {
		tag, err := r.U8()
		if err != nil {
			return chain, err
		}
		var entry MipEntry
		switch tag {
		case 0:
			size, err := r.U32()
			if err != nil {
				return chain, err
			}
			data, err := r.Bytes(int(size))
			if err != nil {
				return chain, err
			}
			entry.Data = append([]byte(nil), data...)
		case 1:
			entry.LIFO = true
			if entry.Name, err = r.BigString(); err != nil {
				return chain, err
			}
		default:
			return chain, fmt.Errorf("unknown mip entry tag %d", tag)
		}
		chain.Entries = append(chain.Entries, entry)
	}
	if chain.CreatorID, err = r.U32(); err != nil {
		return chain, err
	}
	if version == 9 {
		flag, err := r.F32()
		if err != nil {
			return chain, err
		}
		if flag != formatFlag {
			return chain, fmt.Errorf("bad texture format flag %v", flag)
		}
	}
	return chain, nil
}

func writeTextureResource(w *Writer, t *TextureResource, version uint32) error {
	writeSGResourceName(w, t.FileName)
	w.U32(t.Width)
	w.U32(t.Height)
	w.U32(uint32(t.Format))
	mipLevels := t.MipLevels()
	w.U32(uint32(mipLevels))
	w.F32(t.Purpose)
	w.U32(uint32(len(t.Textures)))
	w.U32(t.Unknown)
	if version == 9 {
		w.BigString(t.FileNameRepeat)
	}
	for i, chain := range t.Textures {
		if version == 9 {
			w.U32(uint32(len(chain.Entries)))
		} else if len(chain.Entries) != mipLevels {
			return fmt.Errorf("texture %d has %d mip levels, expected %d with block version %d",
				i, len(chain.Entries), mipLevels, version)
		}
		for _, entry := range chain.Entries {
			if entry.LIFO {
				w.U8(1)
				w.BigString(entry.Name)
			} else {
				w.U8(0)
				w.U32(uint32(len(entry.Data)))
				w.Raw(entry.Data)
			}
		}
		w.U32(chain.CreatorID)
		if version == 9 {
			w.F32(formatFlag)
		}
	}
	return nil
}

// MipLevels returns the number of mip levels held by the first texture.
func (t *TextureResource) MipLevels() int {
	if len(t.Textures) == 0 {
		return 0
	}
	return len(t.Textures[0].Entries)
}

// MipSize guesses the best matching dimensions for a mip level, counting
// down from level 0 at full size.
func (t *TextureResource) MipSize(level int) (width, height int) {
	width = max(int(t.Width)>>level, 1)
	height = max(int(t.Height)>>level, 1)
	return width, height
}

func decompressMip(data []byte, width, height int, format TextureFormat) (*DecodedTexture, error) {
	expected := format.CompressedSize(width, height)
	if expected != len(data) {
		return nil, fmt.Errorf("mipmap level calculated size %d does not match data length %d with texture size %dx%d",
			expected, len(data), width, height)
	}
	out := make([]byte, width*height*4)
	format.Decompress(data, width, height, out)
	return &DecodedTexture{Width: width, Height: height, Data: out}, nil
}

func compressMip(decoded *DecodedTexture, format TextureFormat) []byte {
	out := make([]byte, format.CompressedSize(decoded.Width, decoded.Height))
	format.Compress(decoded.Data, decoded.Width, decoded.Height, out)
	return out
}

// Decompress decodes a single mip level to RGBA. Mip index 0 is the
// smallest level, matching storage order.
func (t *TextureResource) Decompress(textureIndex, mipIndex int) (*DecodedTexture, error) {
	entry := t.Textures[textureIndex].Entries[mipIndex]
	if entry.LIFO {
		return nil, fmt.Errorf("mipmap entry is a LIFO file")
	}
	shift := len(t.Textures[textureIndex].Entries) - 1 - mipIndex
	width, height := t.MipSize(shift)
	return decompressMip(entry.Data, width, height, t.Format)
}

// CompressReplace swaps the whole image for the given one, dropping all but
// the first texture and all mip levels. format, when non nil, switches the
// storage encoding at the same time.
func (t *TextureResource) CompressReplace(decoded *DecodedTexture, format *TextureFormat) {
	t.Width = uint32(decoded.Width)
	t.Height = uint32(decoded.Height)
	if len(t.Textures) > 1 {
		t.Textures = t.Textures[:1]
	}
	if format != nil {
		t.Format = *format
	}
	if len(t.Textures) > 0 {
		t.Textures[0].Entries = []MipEntry{{Data: compressMip(decoded, t.Format)}}
	}
}

func (t *TextureResource) clone() *TextureResource {
	n := *t
	n.Textures = make([]MipChain, len(t.Textures))
	for i, chain := range t.Textures {
		entries := make([]MipEntry, len(chain.Entries))
		for j, e := range chain.Entries {
			entries[j] = e
			entries[j].Data = append([]byte(nil), e.Data...)
		}
		n.Textures[i] = MipChain{Entries: entries, CreatorID: chain.CreatorID}
	}
	return &n
}

// RecompressWithFormat re-encodes every embedded mip level in the new
// format. It works on a copy, so a conversion error leaves the receiver
// untouched. LIFO levels are carried over as they are.
func (t *TextureResource) RecompressWithFormat(format TextureFormat) (*TextureResource, error) {
	n := t.clone()
	if n.Format == format {
		return n, nil
	}
	n.Format = format
	for _, chain := range n.Textures {
		total := len(chain.Entries)
		for i := range chain.Entries {
			entry := &chain.Entries[i]
			if entry.LIFO {
				continue
			}
			width, height := t.MipSize(total - 1 - i)
			decoded, err := decompressMip(entry.Data, width, height, t.Format)
			if err != nil {
				return nil, err
			}
			entry.Data = compressMip(decoded, format)
		}
	}
	return n, nil
}

// RemoveLargestMipLevels drops the n largest mip levels, halving the
// texture dimensions n times.
func (t *TextureResource) RemoveLargestMipLevels(n int) {
	width, height := t.MipSize(n)
	t.Width = uint32(width)
	t.Height = uint32(height)
	for i := range t.Textures {
		entries := t.Textures[i].Entries
		t.Textures[i].Entries = entries[:len(entries)-n]
	}
}

// RemoveSmallestMipLevels drops the n smallest mip levels. The texture
// dimensions stay as they are.
func (t *TextureResource) RemoveSmallestMipLevels(n int) {
	for i := range t.Textures {
		t.Textures[i].Entries = t.Textures[i].Entries[n:]
	}
}

// RemoveSmallerMipLevels drops everything but the largest level.
func (t *TextureResource) RemoveSmallerMipLevels() {
	t.RemoveSmallestMipLevels(t.MipLevels() - 1)
}

// AddExtraMipLevels grows each mip chain by up to n new smallest levels,
// halving the current smallest one step at a time. It returns the number of
// levels actually added, which falls short of n when a dimension can not be
// halved further or the smallest level is not embedded.
func (t *TextureResource) AddExtraMipLevels(n int, preserveAlpha *uint8) int {
	smallestWidth, smallestHeight := t.MipSize(t.MipLevels() - 1)
	current := make([]*DecodedTexture, 0, len(t.Textures))
	for _, chain := range t.Textures {
		if len(chain.Entries) == 0 || chain.Entries[0].LIFO {
			return 0
		}
		decoded, err := decompressMip(chain.Entries[0].Data, smallestWidth, smallestHeight, t.Format)
		if err != nil {
			return 0
		}
		current = append(current, decoded)
	}

	for i := 0; i < n; i++ {
		for _, decoded := range current {
			if decoded.Shrink(preserveAlpha, ShrinkBoth) != ShrinkOK {
				return i
			}
		}
		for j := range t.Textures {
			entry := MipEntry{Data: compressMip(current[j], t.Format)}
			t.Textures[j].Entries = append([]MipEntry{entry}, t.Textures[j].Entries...)
		}
	}
	return n
}

// AddMaxMipLevels fills the mip chain down to 1x1 where the dimensions
// allow it.
func (t *TextureResource) AddMaxMipLevels(preserveAlpha *uint8) {
	extra := t.MaxMipLevels() - t.MipLevels()
	if extra > 0 {
		t.AddExtraMipLevels(extra, preserveAlpha)
	}
}

// MaxMipLevels returns the number of mip levels a full chain for the
// current dimensions would have.
func (t *TextureResource) MaxMipLevels() int {
	width, height := int(t.Width), int(t.Height)
	if width == 0 || height == 0 {
		return 0
	}
	n := 1
	for width > 1 || height > 1 {
		if CanShrinkDimensions(width, height, ShrinkBoth) == ShrinkUnable {
			return 1
		}
		n++
		width = max(width>>1, 1)
		height = max(height>>1, 1)
	}
	return n
}

func (t *TextureResource) anyLIFO() bool {
	for _, chain := range t.Textures {
		for _, entry := range chain.Entries {
			if entry.LIFO {
				return true
			}
		}
	}
	return false
}

// CanShrink reports whether every mip level can be halved in the given
// direction.
func (t *TextureResource) CanShrink(dir ShrinkDirection) bool {
	for _, chain := range t.Textures {
		width, height := t.MipSize(len(chain.Entries))
		if CanShrinkDimensions(width, height, dir) == ShrinkUnable {
			return false
		}
	}
	return CanShrinkDimensions(int(t.Width), int(t.Height), dir) != ShrinkSmall &&
		!t.anyLIFO()
}

// Shrink halves the texture, re-encoding every mip level. When the chain
// ends up longer than the new dimensions support, the smallest level is
// dropped; the returned bool reports that.
func (t *TextureResource) Shrink(preserveAlpha *uint8, dir ShrinkDirection) (bool, error) {
	if !t.CanShrink(dir) {
		return false, nil
	}

	for ti := range t.Textures {
		chain := &t.Textures[ti]
		numMip := len(chain.Entries)
		for i := 0; i < numMip; i++ {
			entry := &chain.Entries[i]
			if entry.LIFO {
				continue
			}
			width, height := t.MipSize(numMip - i - 1)
			decoded, err := decompressMip(entry.Data, width, height, t.Format)
			if err != nil {
				return false, err
			}
			decoded.Shrink(preserveAlpha, dir)
			entry.Data = compressMip(decoded, t.Format)
		}
	}

	if dir != ShrinkVertical {
		t.Width /= 2
	}
	if dir != ShrinkHorizontal {
		t.Height /= 2
	}

	removed := false
	maxMip := t.MaxMipLevels()
	for i := range t.Textures {
		if len(t.Textures[i].Entries) > maxMip {
			t.Textures[i].Entries = t.Textures[i].Entries[1:]
			removed = true
		}
	}
	return removed, nil
}
