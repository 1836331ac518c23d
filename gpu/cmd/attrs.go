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
	"github.com/islacore/islacore/gpu/raster"
	"github.com/islacore/islacore/gpu/shader"
)

const maxAttrBuffers = 12
const numGenericAttrs = 12

// unpackFloat24x3 widens the three packed 32-bit words a fixed-attribute
// or shader-uniform write carries into the four 24-bit floats they encode
// as a single 96-bit stream, least significant bit first within each byte.
func unpackFloat24x3(w [3]uint32) [4]float32 {
	var buf [12]byte
	for i, word := range w {
		buf[i*4] = byte(word)
		buf[i*4+1] = byte(word >> 8)
		buf[i*4+2] = byte(word >> 16)
		buf[i*4+3] = byte(word >> 24)
	}
	bit := 0
	read24 := func() uint32 {
		var v uint32
		for b := 0; b < 24; b++ {
			byteIdx, bitIdx := bit/8, uint(bit%8)
			v |= uint32((buf[byteIdx]>>bitIdx)&1) << uint(b)
			bit++
		}
		return v
	}
	var out [4]float32
	for i := range out {
		out[i] = asFloat(flt24e7to32e8(read24()))
	}
	return out
}

func componentSize(typ uint64) int {
	switch typ {
	case 0, 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

func (p *Processor) readComponents(addr uint32, typ uint64, count int) shader.Vec4 {
	v := shader.Vec4{0, 0, 0, 1}
	size := componentSize(typ)
	for c := 0; c < count && c < 4; c++ {
		a := addr + uint32(c*size)
		switch typ {
		case 0:
			v[c] = float32(int8(p.mem.Read8(a))) / 127
		case 1:
			v[c] = float32(p.mem.Read8(a)) / 255
		case 2:
			v[c] = float32(int16(p.mem.Read16(a))) / 32767
		case 3:
			v[c] = asFloat(p.mem.Read32(a))
		}
	}
	return v
}

// componentOffset sums the byte size of every component slot preceding
// `slot` in the same buffer's interleaved vertex record.
func (p *Processor) componentOffset(cfg uint64, slot int) int {
	off := 0
	for s := 0; s < slot; s++ {
		sel := int((cfg >> uint(16+s*4)) & 0xF)
		if sel >= numGenericAttrs {
			continue
		}
		fmtNibble := (p.attrFmt >> uint(sel*4)) & 0xF
		off += componentSize(fmtNibble&0x3) * (int((fmtNibble>>2)&0x3) + 1)
	}
	return off
}

// decodeGeneric loads one of the twelve generic vertex attributes for the
// given vertex index. An attribute not claimed by any buffer's component
// permutation is a constant, supplied by the fixed-attribute registers
// instead of the vertex arrays.
func (p *Processor) decodeGeneric(i int, vertexIdx uint32) shader.Vec4 {
	fmtNibble := (p.attrFmt >> uint(i*4)) & 0xF
	typ := fmtNibble & 0x3
	count := int((fmtNibble>>2)&0x3) + 1

	for b := 0; b < maxAttrBuffers; b++ {
		cfg := p.attrCfg[b]
		stride := uint32(cfg & 0xFF)
		ncomp := int((cfg >> 8) & 0xF)
		for slot := 0; slot < ncomp; slot++ {
			sel := int((cfg >> uint(16+slot*4)) & 0xF)
			if sel != i {
				continue
			}
			off := p.componentOffset(cfg, slot)
			addr := p.attrBase<<3 + p.attrOfs[b] + stride*vertexIdx + uint32(off)
			return p.readComponents(addr, typ, count)
		}
	}
	return shader.Vec4(p.fixedBase[i])
}

func (p *Processor) rebuildFixed() {
	if !p.fixedDirty {
		return
	}
	for i := range p.fixedBase {
		p.fixedBase[i] = unpackFloat24x3(p.attrFixedData[i])
	}
	p.fixedDirty = false
}

// drawAttrIdx assembles one vertex's worth of shader input registers: the
// twelve generic attributes, decoded from whichever buffer claims them (or
// taken from the fixed-attribute bank), placed into shader input slots
// according to the vertex-shader's own attribute-id mapping.
func (p *Processor) drawAttrIdx(idx uint32) [16]shader.Vec4 {
	p.rebuildFixed()

	var generic [numGenericAttrs]shader.Vec4
	for i := range generic {
		generic[i] = p.decodeGeneric(i, idx)
	}

	var input [16]shader.Vec4
	for s := 0; s < 16; s++ {
		sel := int((p.vshAttrIds >> uint(s*4)) & 0xF)
		if sel < numGenericAttrs {
			input[s] = generic[sel]
		}
	}
	return input
}

// outSemantic values name what a post-shader output register lane feeds;
// any value past texcoord2.v is simply never matched in buildVertex.
const (
	semPosX = iota
	semPosY
	semPosZ
	semPosW
)

const (
	semColorR = 8 + iota
	semColorG
	semColorB
	semColorA
)

const (
	semTex0U = 12 + iota
	semTex0V
	semTex1U
	semTex1V
)

const (
	semTex2U = 22
	semTex2V = 23
)

// updateOutMap rebuilds the semantic assignment of every post-shader
// output register lane from the raw shdOutMap registers.
func (p *Processor) updateOutMap() {
	for reg := 0; reg < 7; reg++ {
		for lane := 0; lane < 4; lane++ {
			sem := byte((p.shdOutMap[reg] >> uint(lane*8)) & 0x1F)
			p.outMap[reg][lane] = outSlot{semantic: sem}
		}
	}
}

// buildVertex reads the shader's output register file through the
// semantic map and produces the rasterizer's vertex representation.
// Color defaults to opaque white so a vertex shader that never writes a
// color semantic (common for untextured, unlit geometry) still shades.
func (p *Processor) buildVertex(out [8]shader.Vec4) raster.Vertex {
	v := raster.Vertex{Color: raster.Vec4{1, 1, 1, 1}}
	total := int(p.shdOutTotal)
	if total > 7 {
		total = 7
	}
	for reg := 0; reg < total; reg++ {
		for lane := 0; lane < 4; lane++ {
			sem := p.outMap[reg][lane].semantic
			val := out[reg][lane]
			switch sem {
			case semPosX, semPosY, semPosZ, semPosW:
				v.Pos[sem] = val
			case semColorR, semColorG, semColorB, semColorA:
				v.Color[sem-semColorR] = val
			case semTex0U:
				v.Tex[0][0] = val
			case semTex0V:
				v.Tex[0][1] = val
			case semTex1U:
				v.Tex[1][0] = val
			case semTex1V:
				v.Tex[1][1] = val
			case semTex2U:
				v.Tex[2][0] = val
			case semTex2V:
				v.Tex[2][1] = val
			}
		}
	}
	return v
}

func (p *Processor) drawVertex(idx uint32) {
	input := p.drawAttrIdx(idx)
	out := p.shader.Run(input)
	v := p.buildVertex(out)
	if t0, t1, t2, ok := p.assembler.Push(v); ok {
		p.raster.Submit(t0, t1, t2)
	}
}

func (p *Processor) drawArrays() {
	for i := uint32(0); i < p.attrNumVerts; i++ {
		p.drawVertex(p.attrFirstIdx + i)
	}
}

// drawElements reads one index per vertex from the index list, whose top
// bit selects 16-bit versus 8-bit index width.
func (p *Processor) drawElements() {
	is16 := p.attrIdxList&0x80000000 != 0
	base := p.attrBase<<3 + (p.attrIdxList &^ 0x80000000)
	for i := uint32(0); i < p.attrNumVerts; i++ {
		var idx uint32
		if is16 {
			idx = uint32(p.mem.Read16(base + i*2))
		} else {
			idx = uint32(p.mem.Read8(base + i))
		}
		p.drawVertex(idx)
	}
}
