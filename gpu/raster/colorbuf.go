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

// ColorFormat is the packing of the color buffer a draw call writes to.
type ColorFormat int

const (
	ColorRGBA8 ColorFormat = iota
	ColorRGB565
	ColorRGB5A1
	ColorRGBA4
)

func to8(v float32) byte   { return byte(clamp01(v) * 255) }
func to5(v float32) uint16 { return uint16(clamp01(v) * 31) }
func to6(v float32) uint16 { return uint16(clamp01(v) * 63) }
func to4(v float32) uint16 { return uint16(clamp01(v) * 15) }

// writeColor packs and stores one pixel's final color at the given
// swizzled offset.
func writeColor(mem Memory, addr uint32, ofs int, format ColorFormat, c Vec4) {
	switch format {
	case ColorRGBA8:
		base := addr + uint32(ofs*4)
		mem.Write8(base, to8(c[0]))
		mem.Write8(base+1, to8(c[1]))
		mem.Write8(base+2, to8(c[2]))
		mem.Write8(base+3, to8(c[3]))
	case ColorRGB565:
		w := to5(c[0])<<11 | to6(c[1])<<5 | to5(c[2])
		writeHalf(mem, addr, ofs, w)
	case ColorRGB5A1:
		var a uint16
		if c[3] >= 0.5 {
			a = 1
		}
		w := to5(c[0])<<11 | to5(c[1])<<6 | to5(c[2])<<1 | a
		writeHalf(mem, addr, ofs, w)
	case ColorRGBA4:
		w := to4(c[0])<<12 | to4(c[1])<<8 | to4(c[2])<<4 | to4(c[3])
		writeHalf(mem, addr, ofs, w)
	}
}

func writeHalf(mem Memory, addr uint32, ofs int, w uint16) {
	base := addr + uint32(ofs*2)
	mem.Write8(base, byte(w))
	mem.Write8(base+1, byte(w>>8))
}

func readHalf(mem Memory, addr uint32, ofs int) uint16 {
	base := addr + uint32(ofs*2)
	return uint16(mem.Read8(base)) | uint16(mem.Read8(base+1))<<8
}

// ReadColor is writeColor's inverse: it unpacks one pixel at the given
// swizzled offset back into straight RGBA in [0,1], for reading a
// finished frame out of the color buffer for display.
func ReadColor(mem Memory, addr uint32, ofs int, format ColorFormat) Vec4 {
	switch format {
	case ColorRGBA8:
		base := addr + uint32(ofs*4)
		return Vec4{f8(mem.Read8(base)), f8(mem.Read8(base + 1)), f8(mem.Read8(base + 2)), f8(mem.Read8(base + 3))}
	case ColorRGB565:
		w := readHalf(mem, addr, ofs)
		return Vec4{f5(w >> 11), f6(w >> 5), f5(w), 1}
	case ColorRGB5A1:
		w := readHalf(mem, addr, ofs)
		return Vec4{f5(w >> 11), f5(w >> 6), f5(w >> 1), f1(w)}
	case ColorRGBA4:
		w := readHalf(mem, addr, ofs)
		return Vec4{f4(w >> 12), f4(w >> 8), f4(w >> 4), f4(w)}
	}
	return Vec4{}
}
