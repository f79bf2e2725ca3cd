package codec

import (
	"fmt"
	"io"
)

const ddsMagic = "DDS "

const (
	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPitch       = 0x8
	ddsdPixelFormat = 0x1000
	ddsdMipMapCount = 0x20000
	ddsdLinearSize  = 0x80000
	ddsdDepth       = 0x800000
)

const (
	ddpfAlphaPixels = 0x1
	ddpfAlpha       = 0x2
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
	ddpfLuminance   = 0x20000
)

const (
	ddsCapsComplex = 0x8
	ddsCapsTexture = 0x1000
	ddsCapsMipMap  = 0x400000
)

const ddsCaps2Volume = 0x200000

const (
	fourCCDXT1 = 0x31545844
	fourCCDXT3 = 0x33545844
	fourCCDXT5 = 0x35545844
	fourCCDX10 = 0x30315844
)

// DXGI format numbers carried by the DX10 extension header. Each family
// maps to a single storage format here, so only the range ends are named.
const (
	dxgiR8G8B8A8Typeless = 27
	dxgiR8G8B8A8SInt     = 32
	dxgiR8Typeless       = 60
	dxgiR8SInt           = 64
	dxgiA8UNorm          = 65
	dxgiBC1Typeless      = 70
	dxgiBC1UNormSRGB     = 72
	dxgiBC2Typeless      = 73
	dxgiBC2UNormSRGB     = 75
	dxgiBC3Typeless      = 76
	dxgiBC3UNormSRGB     = 78
	dxgiB8G8R8A8UNorm    = 87
	dxgiB8G8R8X8UNorm    = 88
	dxgiB8G8R8A8Typeless = 90
	dxgiB8G8R8A8SRGB     = 91
	dxgiB8G8R8X8Typeless = 92
	dxgiB8G8R8X8SRGB     = 93
)

type ddsPixelFormat struct {
	flags    uint32
	fourCC   uint32
	bitCount uint32
	rMask    uint32
	gMask    uint32
	bMask    uint32
	aMask    uint32
}

type ddsHeader struct {
	flags             uint32
	height            uint32
	width             uint32
	pitchOrLinearSize uint32
	depth             uint32
	mipMapCount       uint32
	pixel             ddsPixelFormat
	caps              uint32
	caps2             uint32
	dxgiFormat        uint32 // valid when pixel.fourCC is DX10
}

func readDDSHeader(r *Reader) (*ddsHeader, error) {
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != ddsMagic {
		return nil, fmt.Errorf("not a dds file")
	}
	size, err := r.U32()
	if err != nil {
		return nil, err
	}
	if size != 124 {
		return nil, fmt.Errorf("dds header size is %d, expected 124", size)
	}

	h := &ddsHeader{}
	fields := []*uint32{&h.flags, &h.height, &h.width, &h.pitchOrLinearSize, &h.depth, &h.mipMapCount}
	for _, f := range fields {
		if *f, err = r.U32(); err != nil {
			return nil, err
		}
	}
	if _, err = r.Bytes(11 * 4); err != nil { // reserved1
		return nil, err
	}

	pfSize, err := r.U32()
	if err != nil {
		return nil, err
	}
	if pfSize != 32 {
		return nil, fmt.Errorf("dds pixel format size is %d, expected 32", pfSize)
	}
	pf := []*uint32{
		&h.pixel.flags, &h.pixel.fourCC, &h.pixel.bitCount,
		&h.pixel.rMask, &h.pixel.gMask, &h.pixel.bMask, &h.pixel.aMask,
	}
	for _, f := range pf {
		if *f, err = r.U32(); err != nil {
			return nil, err
		}
	}

	if h.caps, err = r.U32(); err != nil {
		return nil, err
	}
	if h.caps2, err = r.U32(); err != nil {
		return nil, err
	}
	if _, err = r.Bytes(3 * 4); err != nil { // caps3, caps4, reserved2
		return nil, err
	}

	if h.pixel.flags&ddpfFourCC != 0 && h.pixel.fourCC == fourCCDX10 {
		if h.dxgiFormat, err = r.U32(); err != nil {
			return nil, err
		}
		// resource dimension, misc flags, array size, misc flags 2
		if _, err = r.Bytes(4 * 4); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func writeDDSHeader(w *Writer, h *ddsHeader) {
	w.Raw([]byte(ddsMagic))
	w.U32(124)
	w.U32(h.flags)
	w.U32(h.height)
	w.U32(h.width)
	w.U32(h.pitchOrLinearSize)
	w.U32(h.depth)
	w.U32(h.mipMapCount)
	for i := 0; i < 11; i++ {
		w.U32(0)
	}
	w.U32(32)
	w.U32(h.pixel.flags)
	w.U32(h.pixel.fourCC)
	w.U32(h.pixel.bitCount)
	w.U32(h.pixel.rMask)
	w.U32(h.pixel.gMask)
	w.U32(h.pixel.bMask)
	w.U32(h.pixel.aMask)
	w.U32(h.caps)
	w.U32(h.caps2)
	for i := 0; i < 3; i++ {
		w.U32(0)
	}
}

// pixelFixup rewrites imported pixel data in place to the channel order the
// storage format expects.
type pixelFixup func([]byte)

func swapRedBlue(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+2] = data[i+2], data[i]
	}
}

func swapRedBlueOpaque(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+2] = data[i+2], data[i]
		data[i+3] = 0xFF
	}
}

func forceOpaque(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i+3] = 0xFF
	}
}

func rotateChannelsLeft(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		c0 := data[i]
		data[i] = data[i+1]
		data[i+1] = data[i+2]
		data[i+2] = data[i+3]
		data[i+3] = c0
	}
}

func (p *ddsPixelFormat) detect() (TextureFormat, pixelFixup, bool) {
	if p.flags&ddpfFourCC != 0 {
		switch p.fourCC {
		case fourCCDXT1:
			return FormatDXT1, nil, true
		case fourCCDXT3:
			return FormatDXT3, nil, true
		case fourCCDXT5:
			return FormatDXT5, nil, true
		}
		return 0, nil, false
	}
	if p.flags&ddpfRGB != 0 {
		hasAlpha := p.flags&ddpfAlphaPixels != 0 && p.aMask == 0xFF000000
		switch {
		case p.bitCount == 32 && p.rMask == 0xFF && p.gMask == 0xFF00 && p.bMask == 0xFF0000:
			if hasAlpha { // A8B8G8R8
				return FormatRawARGB32, swapRedBlue, true
			}
			return FormatRawARGB32, swapRedBlueOpaque, true // X8B8G8R8
		case p.bitCount == 32 && p.rMask == 0xFF0000 && p.gMask == 0xFF00 && p.bMask == 0xFF:
			if hasAlpha { // A8R8G8B8
				return FormatRawARGB32, nil, true
			}
			return FormatRawARGB32, forceOpaque, true // X8R8G8B8
		case p.bitCount == 24 && p.rMask == 0xFF0000 && p.gMask == 0xFF00 && p.bMask == 0xFF:
			return FormatRawRGB24, nil, true
		}
		return 0, nil, false
	}
	if p.flags&ddpfLuminance != 0 && p.bitCount == 8 && p.rMask == 0xFF {
		return FormatGrayscale, nil, true
	}
	if p.flags&(ddpfAlpha|ddpfAlphaPixels) != 0 && p.bitCount == 8 && p.aMask == 0xFF {
		return FormatAlpha, nil, true
	}
	// loose match on the flags alone, for files that leave the masks empty
	if p.flags == ddpfAlpha && (p.bitCount == 8 || p.bitCount == 0) {
		return FormatAlpha, nil, true
	}
	if p.flags == ddpfLuminance && (p.bitCount == 8 || p.bitCount == 0) {
		return FormatGrayscale, nil, true
	}
	return 0, nil, false
}

func dxgiToFormat(f uint32) (TextureFormat, pixelFixup, bool) {
	switch {
	case f >= dxgiR8G8B8A8Typeless && f <= dxgiR8G8B8A8SInt:
		return FormatRawARGB32, rotateChannelsLeft, true
	case f >= dxgiR8Typeless && f <= dxgiR8SInt:
		return FormatGrayscale, nil, true
	case f == dxgiA8UNorm:
		return FormatAlpha, nil, true
	case f >= dxgiBC1Typeless && f <= dxgiBC1UNormSRGB:
		return FormatDXT1, nil, true
	case f >= dxgiBC2Typeless && f <= dxgiBC2UNormSRGB:
		return FormatDXT3, nil, true
	case f >= dxgiBC3Typeless && f <= dxgiBC3UNormSRGB:
		return FormatDXT5, nil, true
	case f == dxgiB8G8R8A8UNorm || f == dxgiB8G8R8A8Typeless || f == dxgiB8G8R8A8SRGB:
		return FormatRawARGB32, nil, true
	case f == dxgiB8G8R8X8UNorm || f == dxgiB8G8R8X8Typeless || f == dxgiB8G8R8X8SRGB:
		return FormatAltARGB32, nil, true
	}
	return 0, nil, false
}

func (h *ddsHeader) textureFormat() (TextureFormat, pixelFixup, error) {
	if format, fixup, ok := h.pixel.detect(); ok {
		return format, fixup, nil
	}
	if h.pixel.flags&ddpfFourCC != 0 && h.pixel.fourCC == fourCCDX10 {
		if format, fixup, ok := dxgiToFormat(h.dxgiFormat); ok {
			return format, fixup, nil
		}
		return 0, nil, fmt.Errorf("unsupported dxgi format %d", h.dxgiFormat)
	}
	return 0, nil, fmt.Errorf("unsupported dds pixel format")
}

// ImportDDS builds a texture resource from a DDS file, converting the pixel
// data to the closest storage format. The resource keeps an empty name.
func ImportDDS(rd io.Reader) (*TextureResource, error) {
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	r := NewReader(raw)
	h, err := readDDSHeader(r)
	if err != nil {
		return nil, err
	}
	format, fixup, err := h.textureFormat()
	if err != nil {
		return nil, err
	}

	t := &TextureResource{
		Width:  h.width,
		Height: h.height,
		Format: format,
	}

	depth := max(h.depth, 1)
	mips := max(h.mipMapCount, 1)
	for i := uint32(0); i < depth; i++ {
		chain := MipChain{CreatorID: 0xFFFFFFFF}
		for m := uint32(0); m < mips; m++ {
			width, height := t.MipSize(int(m))
			data, err := r.Bytes(format.CompressedSize(width, height))
			if err != nil {
				return nil, err
			}
			data = append([]byte(nil), data...)
			if fixup != nil {
				fixup(data)
			}
			chain.Entries = append([]MipEntry{{Data: data}}, chain.Entries...)
		}
		t.Textures = append(t.Textures, chain)
	}
	return t, nil
}

func formatPixelFormat(f TextureFormat) ddsPixelFormat {
	var pf ddsPixelFormat
	switch f {
	case FormatRawARGB32, FormatAltARGB32:
		pf.flags = ddpfRGB | ddpfAlphaPixels
		pf.bitCount = 32
		pf.rMask, pf.gMask, pf.bMask, pf.aMask = 0xFF0000, 0xFF00, 0xFF, 0xFF000000
	case FormatRawRGB24, FormatAltRGB24:
		pf.flags = ddpfRGB
		pf.bitCount = 24
		pf.rMask, pf.gMask, pf.bMask = 0xFF0000, 0xFF00, 0xFF
	case FormatAlpha:
		pf.flags = ddpfAlpha
		pf.bitCount = 8
		pf.aMask = 0xFF
	case FormatGrayscale:
		pf.flags = ddpfLuminance
		pf.bitCount = 8
		pf.rMask = 0xFF
	case FormatDXT1:
		pf.flags = ddpfFourCC
		pf.fourCC = fourCCDXT1
	case FormatDXT3:
		pf.flags = ddpfFourCC
		pf.fourCC = fourCCDXT3
	case FormatDXT5:
		pf.flags = ddpfFourCC
		pf.fourCC = fourCCDXT5
	}
	return pf
}

// ExportDDS writes the texture as a DDS file, largest mip level first. LIFO
// mip levels can not be exported.
func (t *TextureResource) ExportDDS(wr io.Writer) error {
	mips := t.MipLevels()
	h := &ddsHeader{
		flags:       ddsdCaps | ddsdHeight | ddsdWidth | ddsdPixelFormat | ddsdMipMapCount | ddsdDepth,
		height:      t.Height,
		width:       t.Width,
		depth:       uint32(len(t.Textures)),
		mipMapCount: uint32(mips),
		pixel:       formatPixelFormat(t.Format),
		caps:        ddsCapsTexture,
	}
	switch t.Format {
	case FormatDXT1, FormatDXT3, FormatDXT5:
		h.flags |= ddsdLinearSize
		h.pitchOrLinearSize = uint32(t.Format.CompressedSize(int(t.Width), int(t.Height)))
	default:
		h.flags |= ddsdPitch
		h.pitchOrLinearSize = uint32(t.Format.CompressedSize(int(t.Width), 1))
	}
	if mips > 1 {
		h.caps |= ddsCapsComplex | ddsCapsMipMap
	}
	if len(t.Textures) > 1 {
		h.caps |= ddsCapsComplex
		h.caps2 = ddsCaps2Volume
	}

	w := NewWriter()
	writeDDSHeader(w, h)
	for _, chain := range t.Textures {
		for i := len(chain.Entries) - 1; i >= 0; i-- {
			if chain.Entries[i].LIFO {
				return fmt.Errorf("tried to export a texture with lifo mipmaps")
			}
			w.Raw(chain.Entries[i].Data)
		}
	}
	_, err := wr.Write(w.Bytes())
	return err
}
