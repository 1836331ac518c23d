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

// Package gpu wires the command processor, vertex-shader VM, and
// rasterizer into the single unit a CPU island's register writes and a
// frame-boundary poll actually see. The three are kept as separate
// packages (command dispatch, shader execution, and rasterization are
// independently testable), but nothing outside this package needs to
// know that: GPU is the whole graphics pipeline as far as Core is
// concerned.
package gpu

import (
	"github.com/islacore/islacore/gpu/cmd"
	"github.com/islacore/islacore/gpu/raster"
	"github.com/islacore/islacore/gpu/shader"
	"github.com/islacore/islacore/logger"
)

// Memory is the byte-addressable backing store command lists, attribute
// arrays, textures, and color/depth buffers all live in; hardware/bus
// satisfies it directly.
type Memory interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
}

// GPU owns the three pipeline stages and the memory they share.
type GPU struct {
	mem Memory

	shader *shader.Shader
	raster *raster.Rasterizer
	cmd    *cmd.Processor
}

// New constructs a GPU bound to the given memory, with every register
// and program-memory slot reset to zero. log may be nil.
func New(mem Memory, log *logger.Logger) *GPU {
	sh := shader.New()
	ra := raster.New(mem)
	return &GPU{
		mem:    mem,
		shader: sh,
		raster: ra,
		cmd:    cmd.New(mem, sh, ra, log),
	}
}

// WriteReg handles one CPU-issued write to a GPU register. This is the
// single entry point software uses both to configure fixed-function
// state directly and to point the command processor at a list in
// memory (writing the command-buffer jump pair here starts drain
// immediately if the processor was idle).
func (g *GPU) WriteReg(id uint32, mask, value uint32) {
	g.cmd.WriteReg(id, mask, value)
}

// Frame is one decoded color-buffer scanout: width/height in pixels and
// a tightly packed, row-major RGBA8 buffer.
type Frame struct {
	Width, Height int
	RGBA          []byte
}

// ReadFrame decodes the rasterizer's current color buffer out of memory
// in display (row-major, unswizzled) order, whatever pixel format it was
// last configured to write. It returns ok=false if no buffer has been
// sized yet (width or height still zero).
func (g *GPU) ReadFrame() (Frame, bool) {
	cfg := g.raster.Config()
	if cfg.BufWidth <= 0 || cfg.BufHeight <= 0 {
		return Frame{}, false
	}

	f := Frame{
		Width:  cfg.BufWidth,
		Height: cfg.BufHeight,
		RGBA:   make([]byte, cfg.BufWidth*cfg.BufHeight*4),
	}
	for y := 0; y < cfg.BufHeight; y++ {
		for x := 0; x < cfg.BufWidth; x++ {
			ofs := raster.SwizzleOffset(x, y, cfg.BufWidth)
			c := raster.ReadColor(g.mem, cfg.ColorAddr, ofs, cfg.ColorFormat)
			i := (y*cfg.BufWidth + x) * 4
			f.RGBA[i+0] = byte(clamp01x255(c[0]))
			f.RGBA[i+1] = byte(clamp01x255(c[1]))
			f.RGBA[i+2] = byte(clamp01x255(c[2]))
			f.RGBA[i+3] = byte(clamp01x255(c[3]))
		}
	}
	return f, true
}

func clamp01x255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return v * 255
}
