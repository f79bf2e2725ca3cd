// Package qfs implements RefPack, the LZ77 variant DBPF packages compress
// resources with. A stream is a small header followed by control codes that
// interleave literal runs with back references into the output window.
package qfs

import (
	"encoding/binary"
	"fmt"
)

const (
	magicFlags    = 0x10
	magicTail     = 0xFB
	largeSizeFlag = 0x01
)

const (
	maxShortOffset  = 1 << 10
	maxMediumOffset = 1 << 14
	maxLongOffset   = 1 << 17
	maxShortCopy    = 10
	maxMediumCopy   = 67
	maxLongCopy     = 1028
	maxLiteralRun   = 112
	minCopy         = 3
)

func isMagic(b0, b1 byte) bool {
	return b0&^largeSizeFlag == magicFlags && b1 == magicTail
}

// splitHeader locates the magic and reads the big endian decompressed size
// behind it. The form with a leading total size word is tried first.
func splitHeader(src []byte) ([]byte, int, error) {
	if len(src) >= 6 && isMagic(src[4], src[5]) {
		return readDeclaredSize(src[4:])
	}
	if len(src) >= 2 && isMagic(src[0], src[1]) {
		return readDeclaredSize(src)
	}
	return nil, 0, fmt.Errorf("missing refpack magic 0x10FB")
}

func readDeclaredSize(src []byte) ([]byte, int, error) {
	sizeLen := 3
	if src[0]&largeSizeFlag != 0 {
		sizeLen = 4
	}
	if len(src) < 2+sizeLen {
		return nil, 0, fmt.Errorf("refpack header needs %d bytes, have %d", 2+sizeLen, len(src))
	}
	size := 0
	for _, b := range src[2 : 2+sizeLen] {
		size = size<<8 | int(b)
	}
	return src[2+sizeLen:], size, nil
}

// Decompress expands a RefPack stream. The output must come out at exactly
// the size declared in the header.
func Decompress(src []byte) ([]byte, error) {
	body, declared, err := splitHeader(src)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, declared)
	pos := 0
	for {
		if pos >= len(body) {
			return nil, fmt.Errorf("compressed stream ends without a stop code")
		}
		ctrl := int(body[pos])

		var literals, copyLen, offset int
		stop := false
		switch {
		case ctrl < 0x80:
			if pos+2 > len(body) {
				return nil, fmt.Errorf("offset %d: truncated control code 0x%02X", pos, ctrl)
			}
			b1 := int(body[pos+1])
			literals = ctrl & 0x03
			copyLen = (ctrl>>2)&0x07 + minCopy
			offset = (ctrl&0x60)<<3 + b1 + 1
			pos += 2
		case ctrl < 0xC0:
			if pos+3 > len(body) {
				return nil, fmt.Errorf("offset %d: truncated control code 0x%02X", pos, ctrl)
			}
			b1, b2 := int(body[pos+1]), int(body[pos+2])
			literals = b1 >> 6
			copyLen = ctrl&0x3F + 4
			offset = (b1&0x3F)<<8 + b2 + 1
			pos += 3
		case ctrl < 0xE0:
			if pos+4 > len(body) {
				return nil, fmt.Errorf("offset %d: truncated control code 0x%02X", pos, ctrl)
			}
			b1, b2, b3 := int(body[pos+1]), int(body[pos+2]), int(body[pos+3])
			literals = ctrl & 0x03
			copyLen = (ctrl&0x0C)<<6 + b3 + 5
			offset = (ctrl&0x10)<<12 + b1<<8 + b2 + 1
			pos += 4
		case ctrl < 0xFC:
			literals = (ctrl&0x1F + 1) << 2
			pos++
		default:
			literals = ctrl & 0x03
			pos++
			stop = true
		}

		if pos+literals > len(body) {
			return nil, fmt.Errorf("offset %d: %d literal bytes past the end of the stream", pos, literals)
		}
		if len(out)+literals+copyLen > declared {
			return nil, fmt.Errorf("offset %d: output exceeds the declared size %d", pos, declared)
		}
		out = append(out, body[pos:pos+literals]...)
		pos += literals

		if offset > len(out) {
			return nil, fmt.Errorf("offset %d: copy reaches back %d bytes with only %d decompressed", pos, offset, len(out))
		}
		// byte at a time, copies may overlap their own output
		for i := 0; i < copyLen; i++ {
			out = append(out, out[len(out)-offset])
		}

		if stop {
			break
		}
	}
	if len(out) != declared {
		return nil, fmt.Errorf("decompressed %d bytes, expected %d", len(out), declared)
	}
	return out, nil
}

const (
	hashSize = 1 << 16
	maxChain = 64
)

func hash3(a, b, c byte) int {
	return (int(a)<<12 ^ int(b)<<6 ^ int(c)) & (hashSize - 1)
}

// Compress encodes src as a RefPack stream with a leading total size word.
// The match search is a greedy hash chain walk within each control code's
// offset and length limits.
func Compress(src []byte) ([]byte, error) {
	if len(src) > 0xFFFFFFFF {
		return nil, fmt.Errorf("input is %d bytes, refpack caps out at %d", len(src), 0xFFFFFFFF)
	}

	flags := byte(magicFlags)
	sizeLen := 3
	if len(src) >= 1<<24 {
		flags |= largeSizeFlag
		sizeLen = 4
	}
	out := make([]byte, 4, len(src)/2+16)
	out = append(out, flags, magicTail)
	for i := sizeLen - 1; i >= 0; i-- {
		out = append(out, byte(len(src)>>(8*i)))
	}

	head := make([]int, hashSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int, len(src))

	insert := func(i int) {
		if i+minCopy > len(src) {
			return
		}
		h := hash3(src[i], src[i+1], src[i+2])
		prev[i] = head[h]
		head[h] = i
	}

	bestMatch := func(i int) (length, dist int) {
		if i+minCopy > len(src) {
			return 0, 0
		}
		limit := min(len(src)-i, maxLongCopy)
		candidate := head[hash3(src[i], src[i+1], src[i+2])]
		for chain := maxChain; candidate >= 0 && chain > 0; chain-- {
			d := i - candidate
			if d > maxLongOffset {
				break
			}
			n := 0
			for n < limit && src[candidate+n] == src[i+n] {
				n++
			}
			// short matches only pay off within the tighter windows
			usable := n >= 5 ||
				(n == 4 && d <= maxMediumOffset) ||
				(n == minCopy && d <= maxShortOffset)
			if usable && n > length {
				length, dist = n, d
			}
			candidate = prev[candidate]
		}
		return length, dist
	}

	emitRun := func(start, n int) {
		out = append(out, byte(0xE0|(n/4-1)))
		out = append(out, src[start:start+n]...)
	}

	emitCopy := func(literals, start, copyLen, dist int) {
		offset := dist - 1
		switch {
		case copyLen <= maxShortCopy && dist <= maxShortOffset:
			out = append(out,
				byte(offset>>3&0x60|(copyLen-minCopy)<<2|literals),
				byte(offset))
		case copyLen <= maxMediumCopy && dist <= maxMediumOffset:
			out = append(out,
				byte(0x80|(copyLen-4)),
				byte(literals<<6|offset>>8),
				byte(offset))
		default:
			out = append(out,
				byte(0xC0|offset>>12&0x10|(copyLen-5)>>6&0x0C|literals),
				byte(offset>>8),
				byte(offset),
				byte(copyLen-5))
		}
		out = append(out, src[start:start+literals]...)
	}

	litStart := 0
	pos := 0
	for pos < len(src) {
		n, dist := bestMatch(pos)
		if n == 0 {
			insert(pos)
			pos++
			continue
		}

		literals := pos - litStart
		for literals >= 4 {
			run := min(maxLiteralRun, literals&^3)
			emitRun(litStart, run)
			litStart += run
			literals -= run
		}
		emitCopy(literals, litStart, n, dist)

		for i := pos; i < pos+n; i++ {
			insert(i)
		}
		pos += n
		litStart = pos
	}

	literals := len(src) - litStart
	for literals >= 4 {
		run := min(maxLiteralRun, literals&^3)
		emitRun(litStart, run)
		litStart += run
		literals -= run
	}
	out = append(out, byte(0xFC|literals))
	out = append(out, src[litStart:]...)

	binary.LittleEndian.PutUint32(out[:4], uint32(len(out)))
	return out, nil
}
