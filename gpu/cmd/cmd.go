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

// Package cmd drains a GPU command list and drives the vertex shader and
// rasterizer from it: register writes configure fixed-function state and
// load shader programs/uniforms, and draw commands walk the attribute
// buffer, assemble shader input, and submit the resulting triangles.
package cmd

import (
	"math"

	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/gpu/raster"
	"github.com/islacore/islacore/gpu/shader"
	"github.com/islacore/islacore/logger"
)

// Memory is the byte-addressable store command lists, attribute arrays,
// and index lists are all read from.
type Memory interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
}

// maskTable expands a command header's 4-bit per-byte write-enable field
// into the full 32-bit mask every register write is gated by.
var maskTable [16]uint32

func init() {
	for m := 0; m < 16; m++ {
		var v uint32
		if m&0x1 != 0 {
			v |= 0x000000FF
		}
		if m&0x2 != 0 {
			v |= 0x0000FF00
		}
		if m&0x4 != 0 {
			v |= 0x00FF0000
		}
		if m&0x8 != 0 {
			v |= 0xFF000000
		}
		maskTable[m] = v
	}
}

// flt24e7to32e8 widens a 24-bit float with a 7-bit exponent (the packed
// form most GPU float registers use) to an ordinary IEEE-754 float32.
func flt24e7to32e8(value uint32) uint32 {
	if value&0xFFFFFF == 0 {
		return 0
	}
	return ((value << 8) & (1 << 31)) | (((value & 0x7FFFFF) + 0x400000) << 7)
}

// flt32e7to32e8 widens a 32-bit float with a 7-bit exponent to an
// ordinary IEEE-754 float32, used by the step registers.
func flt32e7to32e8(value uint32) uint32 {
	if value == 0 {
		return 0
	}
	return (value & (1 << 31)) | (((value & 0x7FFFFFFF) + 0x40000000) >> 1)
}

func asFloat(bits uint32) float32 { return math.Float32frombits(bits) }

// Processor owns every piece of register state a command list can touch,
// and the shader/rasterizer it drives as a result.
type Processor struct {
	mem    Memory
	shader *shader.Shader
	raster *raster.Rasterizer
	log    *logger.Logger

	cmdAddr, cmdEnd uint32
	curCmd          uint32

	cmdSize [2]uint32
	cmdAddr2 [2]uint32

	faceCulling  uint32
	viewScaleH   uint32
	viewStepH    uint32
	viewScaleV   uint32
	viewStepV    uint32
	primConfig uint32

	assembler *raster.Assembler

	texDim  [3]uint32
	texAddr [3]uint32
	texType [3]uint32

	combSrc   [6]uint32
	combOper  [6]uint32
	combMode  [6]uint32
	combColor [6]uint32

	depcolMask  uint32
	colbufWrite uint32
	depbufWrite uint32
	depbufFmt   uint32
	colbufFmt   uint32
	depbufLoc   uint32
	colbufLoc   uint32
	bufferDim   uint32

	attrBase     uint32
	attrFmt      uint64
	attrOfs      [12]uint32
	attrCfg      [12]uint64
	attrIdxList  uint32
	attrNumVerts uint32
	attrFirstIdx uint32

	attrFixedIdx  uint32
	attrFixedData [16][3]uint32
	fixedBase     [16][4]float32
	fixedDirty    bool

	shdOutTotal uint32
	shdOutMap   [7]uint32
	vshOutMask  uint32
	outMap      [8][4]outSlot

	vshAttrIds uint64

	vshBoolsReg uint32
	vshIntsReg  [4]uint32
	vshEntryReg uint32

	vshFloatIdx  uint32
	vshFloat32   bool
	vshFloatData [4]uint32

	vshCodeIdx uint32
	vshDescIdx uint32
}

// outSlot names, for one byte lane of the post-shader output registers,
// which rasterizer vertex field it feeds. semantic holds the low five bits
// of the map register's byte; a value buildVertex does not match leaves
// the lane unused.
type outSlot struct {
	semantic byte
}

// New constructs a command processor bound to the given memory, shader
// VM, and rasterizer. It owns the fixed-function register state; the
// shader and rasterizer own their own. log may be nil, in which case an
// unknown command ID is silently ignored rather than recorded.
func New(mem Memory, sh *shader.Shader, ra *raster.Rasterizer, log *logger.Logger) *Processor {
	return &Processor{
		mem:       mem,
		shader:    sh,
		raster:    ra,
		log:       log,
		assembler: raster.NewAssembler(raster.PrimTriangles),
		cmdAddr:   0xFFFFFFFF,
	}
}

func (p *Processor) logUnknown(id uint32) {
	if p.log != nil {
		p.log.Logf(logger.Warning, "gpu", errors.UnknownGpuCommand, id)
	}
}

// WriteReg handles one direct, CPU-issued register write, addressed the
// same way a command-list entry's curCmd selects a handler. This is how
// software starts command-list processing in the first place (writing
// the GPUREG_CMDBUF_JUMP pair through here, rather than through a list)
// and how it can poke any other register without building a list for it.
func (p *Processor) WriteReg(id uint32, mask, value uint32) {
	p.write(id&0x3FF, mask, value)
}

// RunCommands drains the current command list, dispatching each register
// write to the handler its command ID selects, until the list's end
// address is reached.
func (p *Processor) RunCommands() {
	for p.cmdAddr < p.cmdEnd {
		header := p.mem.Read32(p.cmdAddr + 4)
		mask := maskTable[(header>>16)&0xF]
		count := (header >> 20) & 0xFF
		p.curCmd = header & 0x3FF

		address := p.cmdAddr + 4
		p.cmdAddr += ((count + 3) << 2) &^ 0x7

		p.write(p.curCmd, mask, p.mem.Read32(address-4))

		if header&(1<<31) != 0 {
			for i := uint32(0); i < count; i++ {
				address += 4
				p.curCmd = (p.curCmd + 1) & 0x3FF
				p.write(p.curCmd, mask, p.mem.Read32(address))
			}
		} else {
			for i := uint32(0); i < count; i++ {
				address += 4
				p.write(p.curCmd, mask, p.mem.Read32(address))
			}
		}
	}
	p.cmdAddr = 0xFFFFFFFF
}
