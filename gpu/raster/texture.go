// This file is part of islacore.
//
// islacore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// islacore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with islacore.  If not, see <https://www.gnu.org/licenses/>.

package raster

// TextureFormat is one of the pixel encodings a texture unit can be
// configured to sample from.
type TextureFormat int

const (
	FmtRGBA8 TextureFormat = iota
	FmtRGB8
	FmtRGB5A1
	FmtRGB565
	FmtRGBA4
	FmtLA8
	FmtRG8
	FmtL8
	FmtA8
	FmtLA4
	FmtL4
	FmtA4
	FmtETC1
	FmtETC1A4
)

// Memory is the byte-addressable backing store textures and framebuffers
// are read from and written to; hardware/bus satisfies it directly.
type Memory interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, v uint8)
}

// SwizzleOffset exposes swizzleOffset for callers outside this package
// that need to locate a pixel within a swizzled color buffer directly,
// such as reading a finished frame back out for display.
func SwizzleOffset(u, v, width int) int { return swizzleOffset(u, v, width) }

// swizzleOffset maps a pixel (u, v) to its offset, in pixels, within a
// buffer of the given width under the 8x8 Morton-style tile swizzle every
// texture and framebuffer format shares.
func swizzleOffset(u, v, width int) int {
	ofs := (u & 0x1) | ((u << 1) & 0x4) | ((u << 2) & 0x10)
	ofs |= ((v << 1) & 0x2) | ((v << 2) & 0x8) | ((v << 3) & 0x20)
	ofs += (v &^ 0x7) * width
	ofs += (u &^ 0x7) << 3
	return ofs
}

// Sample decodes one texel from a texture unit's backing memory at pixel
// coordinate (u, v), returning straight (non-premultiplied) RGBA in [0,1].
func Sample(mem Memory, addr uint32, width, height int, format TextureFormat, u, v int) Vec4 {
	u = wrap(u, width)
	v = wrap(v, height)

	switch format {
	case FmtETC1, FmtETC1A4:
		return sampleETC1(mem, addr, width, format, u, v)
	}

	ofs := swizzleOffset(u, v, width)
	read := func(n int) uint32 {
		var b uint32
		for i := 0; i < n; i++ {
			b |= uint32(mem.Read8(addr+uint32(ofs*n+i))) << (8 * uint(i))
		}
		return b
	}

	switch format {
	case FmtRGBA8:
		w := read(4)
		return Vec4{f8(byte(w)), f8(byte(w >> 8)), f8(byte(w >> 16)), f8(byte(w >> 24))}
	case FmtRGB8:
		b0 := mem.Read8(addr + uint32(ofs*3))
		b1 := mem.Read8(addr + uint32(ofs*3+1))
		b2 := mem.Read8(addr + uint32(ofs*3+2))
		return Vec4{f8(b0), f8(b1), f8(b2), 1}
	case FmtRG8:
		w := read(2)
		return Vec4{f8(byte(w)), f8(byte(w >> 8)), 0, 1}
	case FmtLA8:
		w := read(2)
		l := f8(byte(w))
		return Vec4{l, l, l, f8(byte(w >> 8))}
	case FmtRGB5A1:
		w := uint16(read(2))
		return Vec4{f5(w >> 11), f5(w >> 6), f5(w >> 1), f1(w)}
	case FmtRGB565:
		w := uint16(read(2))
		return Vec4{f5(w >> 11), f6(w >> 5), f5(w), 1}
	case FmtRGBA4:
		w := uint16(read(2))
		return Vec4{f4(w >> 12), f4(w >> 8), f4(w >> 4), f4(w)}
	case FmtL8:
		l := f8(mem.Read8(addr + uint32(ofs)))
		return Vec4{l, l, l, 1}
	case FmtA8:
		return Vec4{0, 0, 0, f8(mem.Read8(addr + uint32(ofs)))}
	case FmtLA4:
		b := mem.Read8(addr + uint32(ofs))
		l := f4(uint16(b >> 4))
		return Vec4{l, l, l, f4(uint16(b))}
	case FmtL4:
		b := mem.Read8(addr + uint32(ofs/2))
		n := nibble(b, ofs)
		l := f4(uint16(n))
		return Vec4{l, l, l, 1}
	case FmtA4:
		b := mem.Read8(addr + uint32(ofs/2))
		n := nibble(b, ofs)
		return Vec4{0, 0, 0, f4(uint16(n))}
	}
	return Vec4{}
}

func wrap(n, size int) int {
	if size <= 0 {
		return 0
	}
	n %= size
	if n < 0 {
		n += size
	}
	return n
}

func nibble(b byte, ofs int) byte {
	if ofs&1 != 0 {
		return b >> 4
	}
	return b & 0xF
}

func f8(b byte) float32    { return float32(b) / 255 }
func f6(v uint16) float32  { return float32(v&0x3F) / 63 }
func f5(v uint16) float32  { return float32(v&0x1F) / 31 }
func f4(v uint16) float32  { return float32(v&0xF) / 15 }
func f1(v uint16) float32 {
	if v&1 != 0 {
		return 1
	}
	return 0
}

// etc1Tables holds the eight modifier tables indexed by a block's 3-bit
// table selector; each entry adjusts the base color for a "dark"/"light"
// pixel pair.
var etc1Tables = [8][4]int32{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// sampleETC1 decodes one texel out of a 4x4 compressed block. Blocks are
// addressed with the same tile swizzle as every other format, applied at
// block granularity; ETC1A4 prefixes each color block with a 4-bit alpha
// plane, eight bytes each.
func sampleETC1(mem Memory, addr uint32, width int, format TextureFormat, u, v int) Vec4 {
	bx, by := u>>2, v>>2
	blockWidth := width >> 2
	blockOfs := swizzleOffset(bx, by, blockWidth)

	blockSize := 8
	alphaBlock := uint64(0)
	if format == FmtETC1A4 {
		blockSize = 16
		base := addr + uint32(blockOfs*blockSize)
		var a uint64
		for i := 0; i < 8; i++ {
			a |= uint64(mem.Read8(base+uint32(i))) << (8 * uint(i))
		}
		alphaBlock = a
		addr = base + 8
	} else {
		addr += uint32(blockOfs * blockSize)
	}

	var block uint64
	for i := 0; i < 8; i++ {
		block |= uint64(mem.Read8(addr+uint32(i))) << (8 * uint(7-i))
	}

	diffBit := block&(1<<33) != 0
	flipBit := block&(1<<32) != 0
	table1 := int((block >> 37) & 0x7)
	table2 := int((block >> 34) & 0x7)

	r1 := int32((block >> 59) & 0x1F)
	g1 := int32((block >> 51) & 0x1F)
	b1 := int32((block >> 43) & 0x1F)
	var r2, g2, b2 int32
	if diffBit {
		r2 = r1 + signExtend3((block>>56)&0x7)
		g2 = g1 + signExtend3((block>>48)&0x7)
		b2 = b1 + signExtend3((block>>40)&0x7)
		r1, g1, b1 = r1<<3|r1>>2, g1<<3|g1>>2, b1<<3|b1>>2
		r2, g2, b2 = r2<<3|r2>>2, g2<<3|g2>>2, b2<<3|b2>>2
	} else {
		r1 = int32((block >> 60) & 0xF)
		g1 = int32((block >> 52) & 0xF)
		b1 = int32((block >> 44) & 0xF)
		r2 = int32((block >> 56) & 0xF)
		g2 = int32((block >> 48) & 0xF)
		b2 = int32((block >> 40) & 0xF)
		r1, g1, b1 = r1<<4|r1, g1<<4|g1, b1<<4|b1
		r2, g2, b2 = r2<<4|r2, g2<<4|g2, b2<<4|b2
	}

	lu, lv := u&0x3, v&0x3
	var inSecond bool
	if flipBit {
		inSecond = lv >= 2
	} else {
		inSecond = lu >= 2
	}

	pixIdx := lu*4 + lv
	msb := (block >> uint(16+pixIdx)) & 1
	lsb := (block >> uint(pixIdx)) & 1

	var table int
	var r, g, b int32
	if inSecond {
		table, r, g, b = table2, r2, g2, b2
	} else {
		table, r, g, b = table1, r1, g1, b1
	}

	idx := msb<<1 | lsb
	mod := etc1Tables[table][idx]
	out := Vec4{f8(clampByte(r + mod)), f8(clampByte(g + mod)), f8(clampByte(b + mod)), 1}

	if format == FmtETC1A4 {
		nibbleShift := uint(pixIdx * 4)
		a := (alphaBlock >> nibbleShift) & 0xF
		out[3] = f4(uint16(a))
	}
	return out
}

func signExtend3(v uint64) int32 {
	x := int32(v)
	if x&0x4 != 0 {
		x -= 8
	}
	return x
}
