package codec

import (
	"encoding/binary"
	"fmt"
)

// TextureFormat is the storage encoding of texture pixel data. Raw formats
// hold BGRA byte order; decompression always yields RGBA.
type TextureFormat uint32

const (
	FormatRawARGB32 TextureFormat = 1
	FormatRawRGB24  TextureFormat = 2
	FormatAlpha     TextureFormat = 3
	FormatDXT1      TextureFormat = 4
	FormatDXT3      TextureFormat = 5
	FormatGrayscale TextureFormat = 6
	FormatAltARGB32 TextureFormat = 7
	FormatDXT5      TextureFormat = 8
	FormatAltRGB24  TextureFormat = 9
)

func (f TextureFormat) String() string {
	switch f {
	case FormatRawARGB32:
		return "RawARGB32"
	case FormatRawRGB24:
		return "RawRGB24"
	case FormatAlpha:
		return "Alpha"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatGrayscale:
		return "Grayscale"
	case FormatAltARGB32:
		return "AltARGB32"
	case FormatDXT5:
		return "DXT5"
	case FormatAltRGB24:
		return "AltRGB24"
	}
	return fmt.Sprintf("TextureFormat(%d)", uint32(f))
}

// CompressedSize returns the byte size of a width by height image encoded
// in this format.
func (f TextureFormat) CompressedSize(width, height int) int {
	switch f {
	case FormatRawARGB32, FormatAltARGB32:
		return width * height * 4
	case FormatRawRGB24, FormatAltRGB24:
		return width * height * 3
	case FormatGrayscale, FormatAlpha:
		return width * height
	case FormatDXT1:
		return blocksAcross(width) * blocksAcross(height) * 8
	case FormatDXT3, FormatDXT5:
		return blocksAcross(width) * blocksAcross(height) * 16
	}
	return 0
}

// Decompress decodes data into out, which must hold width*height*4 bytes of
// RGBA.
func (f TextureFormat) Decompress(data []byte, width, height int, out []byte) {
	switch f {
	case FormatRawARGB32, FormatAltARGB32:
		for i := 0; i+4 <= len(data); i += 4 {
			out[i] = data[i+2]
			out[i+1] = data[i+1]
			out[i+2] = data[i]
			out[i+3] = data[i+3]
		}
	case FormatRawRGB24, FormatAltRGB24:
		for i, o := 0, 0; i+3 <= len(data); i, o = i+3, o+4 {
			out[o] = data[i+2]
			out[o+1] = data[i+1]
			out[o+2] = data[i]
			out[o+3] = 0xFF
		}
	case FormatGrayscale:
		for i, v := range data {
			out[i*4] = v
			out[i*4+1] = v
			out[i*4+2] = v
			out[i*4+3] = 0xFF
		}
	case FormatAlpha:
		for i, v := range data {
			out[i*4] = 0
			out[i*4+1] = 0
			out[i*4+2] = 0
			out[i*4+3] = v
		}
	case FormatDXT1:
		decodeBC1(data, width, height, out)
	case FormatDXT3:
		decodeBC2(data, width, height, out)
	case FormatDXT5:
		decodeBC3(data, width, height, out)
	}
}

// Compress encodes width*height*4 bytes of RGBA from data into out, which
// must hold CompressedSize bytes.
func (f TextureFormat) Compress(data []byte, width, height int, out []byte) {
	switch f {
	case FormatRawARGB32, FormatAltARGB32:
		for i := 0; i+4 <= len(data); i += 4 {
			out[i] = data[i+2]
			out[i+1] = data[i+1]
			out[i+2] = data[i]
			out[i+3] = data[i+3]
		}
	case FormatRawRGB24, FormatAltRGB24:
		for i, o := 0, 0; i+4 <= len(data); i, o = i+4, o+3 {
			out[o] = data[i+2]
			out[o+1] = data[i+1]
			out[o+2] = data[i]
		}
	case FormatGrayscale:
		for i, o := 0, 0; i+4 <= len(data); i, o = i+4, o+1 {
			out[o] = uint8((uint16(data[i]) + uint16(data[i+1]) + uint16(data[i+2])) / 3)
		}
	case FormatAlpha:
		for i, o := 0, 0; i+4 <= len(data); i, o = i+4, o+1 {
			out[o] = data[i+3]
		}
	case FormatDXT1:
		encodeBC1(data, width, height, out)
	case FormatDXT3:
		encodeBC2(data, width, height, out)
	case FormatDXT5:
		encodeBC3(data, width, height, out)
	}
}

func blocksAcross(dim int) int { return (dim + 3) / 4 }

func expand565(c uint16) (r, g, b uint8) {
	r5 := uint8(c >> 11 & 0x1F)
	g6 := uint8(c >> 5 & 0x3F)
	b5 := uint8(c & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func pack565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// colorPalette expands the two block endpoints. BC2 and BC3 color blocks
// always interpolate four opaque colors; BC1 picks the mode by comparing
// the raw endpoint words.
func colorPalette(block []byte, fourColor bool) [4][4]uint8 {
	c0 := binary.LittleEndian.Uint16(block)
	c1 := binary.LittleEndian.Uint16(block[2:])
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)
	var p [4][4]uint8
	p[0] = [4]uint8{r0, g0, b0, 0xFF}
	p[1] = [4]uint8{r1, g1, b1, 0xFF}
	if fourColor || c0 > c1 {
		p[2] = [4]uint8{
			uint8((2*uint16(r0) + uint16(r1)) / 3),
			uint8((2*uint16(g0) + uint16(g1)) / 3),
			uint8((2*uint16(b0) + uint16(b1)) / 3),
			0xFF,
		}
		p[3] = [4]uint8{
			uint8((uint16(r0) + 2*uint16(r1)) / 3),
			uint8((uint16(g0) + 2*uint16(g1)) / 3),
			uint8((uint16(b0) + 2*uint16(b1)) / 3),
			0xFF,
		}
	} else {
		p[2] = [4]uint8{
			uint8((uint16(r0) + uint16(r1)) / 2),
			uint8((uint16(g0) + uint16(g1)) / 2),
			uint8((uint16(b0) + uint16(b1)) / 2),
			0xFF,
		}
		p[3] = [4]uint8{0, 0, 0, 0}
	}
	return p
}

func writeTexel(out []byte, width, height, x, y int, px [4]uint8) {
	if x >= width || y >= height {
		return
	}
	copy(out[(y*width+x)*4:], px[:])
}

func decodeBC1(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*8:]
			palette := colorPalette(block, false)
			bits := binary.LittleEndian.Uint32(block[4:])
			for t := 0; t < 16; t++ {
				idx := bits >> (2 * t) & 3
				writeTexel(out, width, height, bx*4+t%4, by*4+t/4, palette[idx])
			}
		}
	}
}

func decodeBC2(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*16:]
			alphaBits := binary.LittleEndian.Uint64(block)
			palette := colorPalette(block[8:], true)
			bits := binary.LittleEndian.Uint32(block[12:])
			for t := 0; t < 16; t++ {
				px := palette[bits>>(2*t)&3]
				a4 := uint8(alphaBits >> (4 * t) & 0xF)
				px[3] = a4<<4 | a4
				writeTexel(out, width, height, bx*4+t%4, by*4+t/4, px)
			}
		}
	}
}

func alphaPalette(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			p[i] = uint8(((8-i)*int(a0) + (i-1)*int(a1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			p[i] = uint8(((6-i)*int(a0) + (i-1)*int(a1)) / 5)
		}
		p[6] = 0
		p[7] = 0xFF
	}
	return p
}

func decodeBC3(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*16:]
			alphas := alphaPalette(block[0], block[1])
			var alphaBits uint64
			for i := 0; i < 6; i++ {
				alphaBits |= uint64(block[2+i]) << (8 * i)
			}
			palette := colorPalette(block[8:], true)
			bits := binary.LittleEndian.Uint32(block[12:])
			for t := 0; t < 16; t++ {
				px := palette[bits>>(2*t)&3]
				px[3] = alphas[alphaBits>>(3*t)&7]
				writeTexel(out, width, height, bx*4+t%4, by*4+t/4, px)
			}
		}
	}
}

// gatherTile reads the 4x4 tile at block position bx,by as RGBA, clamping
// reads at the image edge so partial tiles stay well defined.
func gatherTile(data []byte, width, height, bx, by int) [16][4]uint8 {
	var tile [16][4]uint8
	for t := 0; t < 16; t++ {
		x, y := bx*4+t%4, by*4+t/4
		if x >= width {
			x = width - 1
		}
		if y >= height {
			y = height - 1
		}
		i := (y*width + x) * 4
		copy(tile[t][:], data[i:i+4])
	}
	return tile
}

func nearestColor(palette [4][4]uint8, n int, px [4]uint8) uint32 {
	best, bestDist := 0, 1<<30
	for i := 0; i < n; i++ {
		dr := int(palette[i][0]) - int(px[0])
		dg := int(palette[i][1]) - int(px[1])
		db := int(palette[i][2]) - int(px[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint32(best)
}

// colorEndpoints fits endpoints to a tile by taking the per channel color
// bounds. A range fit keeps the encoder simple at some quality cost against
// cluster fitting.
func colorEndpoints(tile [16][4]uint8, opaqueOnly bool) (c0, c1 uint16) {
	minC := [3]uint8{0xFF, 0xFF, 0xFF}
	var maxC [3]uint8
	seen := false
	for _, px := range tile {
		if opaqueOnly && px[3] < 0x80 {
			continue
		}
		seen = true
		for c := 0; c < 3; c++ {
			if px[c] < minC[c] {
				minC[c] = px[c]
			}
			if px[c] > maxC[c] {
				maxC[c] = px[c]
			}
		}
	}
	if !seen {
		return 0, 0
	}
	return pack565(maxC[0], maxC[1], maxC[2]), pack565(minC[0], minC[1], minC[2])
}

func encodeBC1(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			tile := gatherTile(data, width, height, bx, by)
			transparent := false
			for _, px := range tile {
				if px[3] < 0x80 {
					transparent = true
					break
				}
			}
			c0, c1 := colorEndpoints(tile, transparent)
			if transparent {
				// three color mode needs c0 <= c1
				if c0 > c1 {
					c0, c1 = c1, c0
				}
			} else if c0 < c1 {
				c0, c1 = c1, c0
			}
			block := out[(by*bw+bx)*8:]
			binary.LittleEndian.PutUint16(block, c0)
			binary.LittleEndian.PutUint16(block[2:], c1)
			palette := colorPalette(block, false)
			var bits uint32
			for t, px := range tile {
				var idx uint32
				if transparent && px[3] < 0x80 {
					idx = 3
				} else if transparent {
					idx = nearestColor(palette, 3, px)
				} else if c0 != c1 {
					idx = nearestColor(palette, 4, px)
				}
				bits |= idx << (2 * t)
			}
			binary.LittleEndian.PutUint32(block[4:], bits)
		}
	}
}

func encodeColorBlock(tile [16][4]uint8, block []byte) {
	c0, c1 := colorEndpoints(tile, false)
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	binary.LittleEndian.PutUint16(block, c0)
	binary.LittleEndian.PutUint16(block[2:], c1)
	palette := colorPalette(block, true)
	var bits uint32
	if c0 != c1 {
		for t, px := range tile {
			bits |= nearestColor(palette, 4, px) << (2 * t)
		}
	}
	binary.LittleEndian.PutUint32(block[4:], bits)
}

func encodeBC2(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			tile := gatherTile(data, width, height, bx, by)
			block := out[(by*bw+bx)*16:]
			var alphaBits uint64
			for t, px := range tile {
				alphaBits |= uint64(px[3]>>4) << (4 * t)
			}
			binary.LittleEndian.PutUint64(block, alphaBits)
			encodeColorBlock(tile, block[8:])
		}
	}
}

func nearestAlpha(palette [8]uint8, a uint8) uint64 {
	best, bestDist := 0, 1<<30
	for i, v := range palette {
		d := int(v) - int(a)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint64(best)
}

func encodeBC3(data []byte, width, height int, out []byte) {
	bw, bh := blocksAcross(width), blocksAcross(height)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			tile := gatherTile(data, width, height, bx, by)
			block := out[(by*bw+bx)*16:]
			minA, maxA := uint8(0xFF), uint8(0)
			for _, px := range tile {
				if px[3] < minA {
					minA = px[3]
				}
				if px[3] > maxA {
					maxA = px[3]
				}
			}
			block[0], block[1] = maxA, minA
			var alphaBits uint64
			if maxA != minA {
				palette := alphaPalette(maxA, minA)
				for t, px := range tile {
					alphaBits |= nearestAlpha(palette, px[3]) << (3 * t)
				}
			}
			for i := 0; i < 6; i++ {
				block[2+i] = uint8(alphaBits >> (8 * i))
			}
			encodeColorBlock(tile, block[8:])
		}
	}
}

type ShrinkResult int

const (
	// ShrinkOK means the texture can be, or has been, halved.
	ShrinkOK ShrinkResult = iota
	// ShrinkSmall means a dimension is already 1.
	ShrinkSmall
	// ShrinkUnable means a dimension is odd and larger than 1.
	ShrinkUnable
)

type ShrinkDirection int

const (
	ShrinkBoth ShrinkDirection = iota
	ShrinkHorizontal
	ShrinkVertical
)

// DecodedTexture is a mip level decompressed to RGBA.
type DecodedTexture struct {
	Width  int
	Height int
	Data   []byte
}

func CanShrinkDimensions(width, height int, dir ShrinkDirection) ShrinkResult {
	if dir == ShrinkBoth {
		h := CanShrinkDimensions(width, height, ShrinkHorizontal)
		v := CanShrinkDimensions(width, height, ShrinkVertical)
		switch {
		case h == ShrinkUnable || v == ShrinkUnable:
			return ShrinkUnable
		case h == ShrinkSmall && v == ShrinkSmall:
			return ShrinkSmall
		}
		return ShrinkOK
	}
	dim := width
	if dir == ShrinkVertical {
		dim = height
	}
	switch {
	case dim == 1:
		return ShrinkSmall
	case dim%2 == 1:
		return ShrinkUnable
	}
	return ShrinkOK
}

func (d *DecodedTexture) CanShrink(dir ShrinkDirection) ShrinkResult {
	return CanShrinkDimensions(d.Width, d.Height, dir)
}

// Shrink halves the texture in place, merging pixel pairs or quads weighted
// by their alpha. preserveAlpha, when set, biases the merged alpha towards
// the given cutoff so binary transparency masks survive repeated halving.
func (d *DecodedTexture) Shrink(preserveAlpha *uint8, dir ShrinkDirection) ShrinkResult {
	if res := d.CanShrink(dir); res != ShrinkOK {
		return res
	}
	newWidth := d.Width
	if dir != ShrinkVertical {
		newWidth = max(d.Width/2, 1)
	}
	newHeight := d.Height
	if dir != ShrinkHorizontal {
		newHeight = max(d.Height/2, 1)
	}

	if d.Width == 1 || d.Height == 1 || dir != ShrinkBoth {
		for y := 0; y < newHeight; y++ {
			for x := 0; x < newWidth; x++ {
				i := x + y*newWidth
				var origI, origOffset int
				if dir == ShrinkVertical {
					rowOffset := 4 * d.Width
					origI = x*4 + y*rowOffset*2
					origOffset = rowOffset
				} else {
					origI = i * 4 * 2
					origOffset = 4
				}
				newI := i * 4

				a0 := uint32(d.Data[3+origI])
				a1 := uint32(d.Data[3+origI+origOffset])
				aTotal := a0 + a1
				for c := 0; c < 3; c++ {
					w0, w1, wTotal := a0, a1, aTotal
					if aTotal == 0 {
						w0, w1, wTotal = 1, 1, 4
					}
					merged := (uint32(d.Data[c+origI])*w0 +
						uint32(d.Data[c+origI+origOffset])*w1) / wTotal
					d.Data[c+newI] = uint8(merged)
				}
				d.Data[3+newI] = uint8(aTotal / 2)
			}
		}
	} else {
		for y := 0; y < newHeight; y++ {
			for x := 0; x < newWidth; x++ {
				origRowOffset := 4 * d.Width
				origI := x*4*2 + y*origRowOffset*2
				newI := x*4 + y*4*newWidth

				a0 := uint32(d.Data[3+origI])
				a1 := uint32(d.Data[3+origI+4])
				a2 := uint32(d.Data[3+origI+origRowOffset])
				a3 := uint32(d.Data[3+origI+origRowOffset+4])
				aTotal := a0 + a1 + a2 + a3

				for c := 0; c < 3; c++ {
					w0, w1, w2, w3, wTotal := a0, a1, a2, a3, aTotal
					if aTotal == 0 {
						w0, w1, w2, w3, wTotal = 1, 1, 1, 1, 4
					}
					merged := (uint32(d.Data[c+origI])*w0 +
						uint32(d.Data[c+origI+4])*w1 +
						uint32(d.Data[c+origI+origRowOffset])*w2 +
						uint32(d.Data[c+origI+origRowOffset+4])*w3) / wTotal
					d.Data[c+newI] = uint8(merged)
				}

				if preserveAlpha != nil {
					p := uint32(*preserveAlpha)
					pInv := 255 - p
					merged := (a0*(a0*p+pInv*pInv) +
						a1*(a1*p+pInv*pInv) +
						a2*(a2*p+pInv*pInv) +
						a3*(a3*p+pInv*pInv)) /
						max(aTotal*p+pInv*pInv*4, 1)
					d.Data[3+newI] = uint8(merged)
				} else {
					d.Data[3+newI] = uint8(aTotal / 4)
				}
			}
		}
	}

	d.Data = d.Data[:newWidth*newHeight*4]
	d.Width = newWidth
	d.Height = newHeight
	return ShrinkOK
}
