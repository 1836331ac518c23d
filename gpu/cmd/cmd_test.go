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

package cmd

import (
	"math"
	"testing"

	"github.com/islacore/islacore/gpu/raster"
	"github.com/islacore/islacore/gpu/shader"
)

// fakeMem is a flat byte array satisfying the Memory interface.
type fakeMem []byte

func (m fakeMem) Read8(addr uint32) uint8 { return m[addr] }
func (m fakeMem) Read16(addr uint32) uint16 {
	return uint16(m[addr]) | uint16(m[addr+1])<<8
}
func (m fakeMem) Read32(addr uint32) uint32 {
	return uint32(m[addr]) | uint32(m[addr+1])<<8 | uint32(m[addr+2])<<16 | uint32(m[addr+3])<<24
}
func (m fakeMem) Write8(addr uint32, v uint8) { m[addr] = v }

func TestMaskTableExpandsEachByteLane(t *testing.T) {
	if maskTable[0x0] != 0 {
		t.Fatalf("mask 0x0 should enable nothing, got %#x", maskTable[0x0])
	}
	if maskTable[0xF] != 0xFFFFFFFF {
		t.Fatalf("mask 0xF should enable every byte, got %#x", maskTable[0xF])
	}
	if maskTable[0x5] != 0x00FF00FF {
		t.Fatalf("mask 0x5 should enable bytes 0 and 2, got %#x", maskTable[0x5])
	}
}

func TestFlt24e7to32e8RoundTripsZero(t *testing.T) {
	if flt24e7to32e8(0) != 0 {
		t.Fatalf("packed zero should widen to zero")
	}
}

func TestFlt24e7to32e8PreservesSign(t *testing.T) {
	negative := uint32(1) << 23
	widened := flt24e7to32e8(negative)
	if asFloat(widened) >= 0 {
		t.Fatalf("sign bit should survive widening, got %v", asFloat(widened))
	}
}

func TestUnpackFloat24x3ProducesFourFloats(t *testing.T) {
	// Packed representation of zero in every 24-bit lane widens to four
	// ordinary zero floats; this only checks the bit-slicing loop walks
	// all 96 bits without panicking or truncating a lane.
	out := unpackFloat24x3([3]uint32{0, 0, 0})
	for i, v := range out {
		if v != 0 {
			t.Fatalf("lane %d: expected 0, got %v", i, v)
		}
	}
}

func newTestProcessor() (*Processor, fakeMem) {
	mem := make(fakeMem, 1<<16)
	sh := shader.New()
	ra := raster.New(mem)
	return New(mem, sh, ra, nil), mem
}

func TestWriteFaceCullingReachesRasterConfig(t *testing.T) {
	p, _ := newTestProcessor()
	p.write(cmdFaceCulling, 0xFFFFFFFF, 0x2)
	if p.raster.Config().CullMode != raster.CullBack {
		t.Fatalf("expected CullBack, got %v", p.raster.Config().CullMode)
	}
}

func TestWriteBufferDimDoesNotAliasColbufLoc(t *testing.T) {
	p, _ := newTestProcessor()
	p.write(cmdColbufLoc, 0xFFFFFFFF, 0x1000)
	p.write(cmdBufferDim, 0xFFFFFFFF, 240|(320<<12))
	cfg := p.raster.Config()
	if cfg.ColorAddr != 0x1000<<3 {
		t.Fatalf("writing buffer dimensions corrupted the color buffer address: %#x", cfg.ColorAddr)
	}
	if cfg.BufWidth != 240 {
		t.Fatalf("expected buffer width 240, got %d", cfg.BufWidth)
	}
}

func TestWriteAttrFixedDataBuildsFixedBase(t *testing.T) {
	p, _ := newTestProcessor()
	p.write(cmdAttrFixedIdx, 0xFFFFFFFF, 1)
	p.write(cmdAttrFixedData, 0xFFFFFFFF, 0)
	p.write(cmdAttrFixedData, 0xFFFFFFFF, 0)
	p.write(cmdAttrFixedData, 0xFFFFFFFF, 0)
	p.rebuildFixed()
	if p.fixedDirty {
		t.Fatalf("rebuildFixed should have cleared the dirty flag")
	}
	for _, v := range p.fixedBase[1] {
		if v != 0 {
			t.Fatalf("expected a packed-zero fixed attribute to widen to zero, got %v", v)
		}
	}
}

// TestDrawArraysWithPassthroughShaderReachesColorBuffer builds a minimal
// command stream that configures a tiny framebuffer, a pass-through
// vertex shader (MOV output 0 from input 0, MOV output 1 from input 1),
// a single triangle's worth of interleaved position+color attributes,
// and a draw-arrays command, then checks that a pixel inside the
// triangle reaches the color buffer.
func TestDrawArraysWithPassthroughShaderReachesColorBuffer(t *testing.T) {
	p, mem := newTestProcessor()

	// Viewport: scale 4.0 (half of an 8-pixel dimension) on both axes,
	// step 1.0 pixel per scanline/column. These are the packed-float
	// register encodings of 4.0 and 1.0 in the formats flt24e7to32e8 and
	// flt32e7to32e8 decode, not the IEEE-754 bit patterns.
	p.write(cmdViewScaleH, 0xFFFFFFFF, 0x410000)
	p.write(cmdViewScaleV, 0xFFFFFFFF, 0x410000)
	p.write(cmdViewStepH, 0xFFFFFFFF, 0x3F000000)
	p.write(cmdViewStepV, 0xFFFFFFFF, 0x3F000000)

	// Buffer: 8x8 RGBA8 color buffer at address 0x1000, no depth test.
	p.write(cmdColbufFmt, 0xFFFFFFFF, 0x00002)
	p.write(cmdColbufLoc, 0xFFFFFFFF, 0x1000>>3)
	p.write(cmdBufferDim, 0xFFFFFFFF, 8|(7<<12)) // height field holds height-1
	p.write(cmdDepcolMask, 0xFFFFFFFF, 0xF00) // color write enabled, depth test off
	p.write(cmdColbufWrite, 0xFFFFFFFF, 0xF)

	// Shader: output 0 = input 0 (position), output 1 = input 1 (color).
	// Descriptor 0 is an identity swizzle with no negation and a full
	// write mask, reused by both instructions.
	const opMov = 0x13
	p.shader.WriteDesc(0, 0x36F)
	movOp := func(dst, src uint32) uint32 {
		return (opMov << 26) | ((dst & 0x1F) << 21) | ((src & 0x7F) << 12)
	}
	p.shader.WriteCode(0, movOp(0, 0))
	p.shader.WriteCode(1, movOp(1, 1))
	p.write(cmdVshEntry, 0xFFFFFFFF, 0|(2<<16))
	p.write(cmdShdOutTotal, 0xFFFFFFFF, 2)
	p.write(cmdShdOutMapBase+0, 0xFFFFFFFF, uint32(semPosX)|uint32(semPosY)<<8|uint32(semPosZ)<<16|uint32(semPosW)<<24)
	p.write(cmdShdOutMapBase+1, 0xFFFFFFFF, uint32(semColorR)|uint32(semColorG)<<8|uint32(semColorB)<<16|uint32(semColorA)<<24)

	// Attribute layout: one buffer, stride 32 bytes, two float4
	// components (position at offset 0 mapped to generic attr 0, color
	// at offset 16 mapped to generic attr 1).
	p.write(cmdAttrFmtL, 0xFFFFFFFF, 0xF<<0|0xF<<4) // both generic attrs: float, 4 components
	p.write(cmdAttrBase, 0xFFFFFFFF, 0x2000>>3)
	p.write(cmdAttrOfsBase+0, 0xFFFFFFFF, 0)
	cfg0 := uint64(32) | uint64(2)<<8 | uint64(0)<<16 | uint64(1)<<20
	p.write(cmdAttrCfgLBase+0, 0xFFFFFFFF, uint32(cfg0))
	p.write(cmdAttrCfgHBase+0, 0xFFFFFFFF, uint32(cfg0>>32))
	p.write(cmdVshAttrIdsL, 0xFFFFFFFF, 0x10) // shader input 0 <- generic attr 0, input 1 <- generic attr 1

	writeFloat := func(addr uint32, v float32) {
		bits := math.Float32bits(v)
		mem[addr] = byte(bits)
		mem[addr+1] = byte(bits >> 8)
		mem[addr+2] = byte(bits >> 16)
		mem[addr+3] = byte(bits >> 24)
	}
	writeVertex := func(base uint32, x, y, z, w float32, r, g, b, a float32) {
		writeFloat(base+0, x)
		writeFloat(base+4, y)
		writeFloat(base+8, z)
		writeFloat(base+12, w)
		writeFloat(base+16, r)
		writeFloat(base+20, g)
		writeFloat(base+24, b)
		writeFloat(base+28, a)
	}
	writeVertex(0x2000+0*32, -1, -1, 0, 1, 1, 1, 1, 1)
	writeVertex(0x2000+1*32, 1, -1, 0, 1, 1, 1, 1, 1)
	writeVertex(0x2000+2*32, -1, 1, 0, 1, 1, 1, 1, 1)

	p.write(cmdAttrNumVerts, 0xFFFFFFFF, 3)
	p.write(cmdAttrFirstIdx, 0xFFFFFFFF, 0)
	p.write(cmdAttrDrawArrays, 0xFFFFFFFF, 1)

	ofs := swizzleTestOffset(1, 1, 8)
	r := mem[0x1000+uint32(ofs*4)]
	if r != 255 {
		t.Fatalf("expected a lit pixel inside the triangle, got color byte %d", r)
	}
}

// swizzleTestOffset duplicates the package-private tile swizzle just
// enough to locate a pixel for the assertion above without exporting it.
func swizzleTestOffset(u, v, width int) int {
	ofs := (u & 0x1) | ((u << 1) & 0x4) | ((u << 2) & 0x10)
	ofs |= ((v << 1) & 0x2) | ((v << 2) & 0x8) | ((v << 3) & 0x20)
	ofs += (v &^ 0x7) * width
	ofs += (u &^ 0x7) << 3
	return ofs
}
