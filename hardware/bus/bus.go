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

// Package bus implements the flat physical address space shared by every
// CPU island once a virtual address has been through hardware/coproc's
// translation. It resolves an address directly against one of a handful
// of backing RAM/ROM regions when it can, and falls through to the MMIO
// dispatch table otherwise.
package bus

import (
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/logger"
)

// Physical base addresses and sizes of the regions this bus knows how to
// back directly. Addresses that fall outside every region below are
// routed to Mmio. These values are a placeholder physical map: the
// retrieval pack's original source did not include the file that fixes
// them, so the layout here is sized to be plausible for the console
// this module targets (see DESIGN.md).
const (
	Boot11Base = 0x00010000
	Boot11Size = 0x00010000

	Boot9Base = 0xFFFF0000
	Boot9Size = 0x00010000

	AxiWramBase = 0x1FF80000
	AxiWramSize = 0x00080000

	DspMemBase = 0x1FF00000
	DspMemSize = 0x00080000

	VramBase = 0x18000000
	VramSize = 0x00600000

	FcramBase = 0x20000000
	FcramSize = 0x08000000

	MmioBase = 0x10000000
	MmioSize = 0x01000000
)

// Mmio is the device-register dispatch table backing every address this
// bus can't resolve to a RAM or ROM region.
type Mmio interface {
	Read32(addr uint32) uint32
	Read16(addr uint32) uint16
	Read8(addr uint32) uint8
	Write32(addr uint32, v uint32)
	Write16(addr uint32, v uint16)
	Write8(addr uint32, v uint8)
}

// region is one contiguous, directly-backed slice of physical memory.
type region struct {
	base    uint32
	backing []byte
	mutable bool
}

// Bus is the physical memory every CPU island's CoProc ultimately reads
// from and writes to, once virtual addresses have been translated.
type Bus struct {
	mmio Mmio
	log  *logger.Logger

	boot11  []byte
	boot9   []byte
	axiwram []byte
	dspmem  []byte
	vram    []byte
	fcram   []byte
}

// New allocates the fixed RAM regions and wires the MMIO fallthrough.
// Boot ROMs start out empty; LoadBoot11/LoadBoot9 populate them.
func New(mmio Mmio, log *logger.Logger) *Bus {
	return &Bus{
		mmio:    mmio,
		log:     log,
		axiwram: make([]byte, AxiWramSize),
		dspmem:  make([]byte, DspMemSize),
		vram:    make([]byte, VramSize),
		fcram:   make([]byte, FcramSize),
	}
}

// LoadBoot11 copies the A11 boot ROM image into place. An oversized image
// is truncated to Boot11Size.
func (b *Bus) LoadBoot11(data []byte) {
	b.boot11 = truncate(data, Boot11Size)
}

// LoadBoot9 copies the A9 boot ROM image into place. An oversized image
// is truncated to Boot9Size.
func (b *Bus) LoadBoot9(data []byte) {
	b.boot9 = truncate(data, Boot9Size)
}

func truncate(data []byte, max int) []byte {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// resolve finds the directly-backed region addr falls in, if any, and
// returns a slice starting at addr. The boot ROMs are read-only: a write
// that lands in one is reported mutable=false and must be ignored.
func (b *Bus) resolve(addr uint32) (region []byte, mutable bool, ok bool) {
	switch {
	case addr >= Boot11Base && addr < Boot11Base+uint32(len(b.boot11)):
		return b.boot11[addr-Boot11Base:], false, true
	case addr >= Boot9Base && addr < Boot9Base+uint32(len(b.boot9)):
		return b.boot9[addr-Boot9Base:], false, true
	case addr >= AxiWramBase && addr < AxiWramBase+AxiWramSize:
		return b.axiwram[addr-AxiWramBase:], true, true
	case addr >= DspMemBase && addr < DspMemBase+DspMemSize:
		return b.dspmem[addr-DspMemBase:], true, true
	case addr >= VramBase && addr < VramBase+VramSize:
		return b.vram[addr-VramBase:], true, true
	case addr >= FcramBase && addr < FcramBase+FcramSize:
		return b.fcram[addr-FcramBase:], true, true
	}
	return nil, false, false
}

func (b *Bus) Read32(addr uint32) uint32 {
	if r, _, ok := b.resolve(addr); ok && len(r) >= 4 {
		return uint32(r[0]) | uint32(r[1])<<8 | uint32(r[2])<<16 | uint32(r[3])<<24
	}
	return b.mmio.Read32(addr)
}

func (b *Bus) Read16(addr uint32) uint16 {
	if r, _, ok := b.resolve(addr); ok && len(r) >= 2 {
		return uint16(r[0]) | uint16(r[1])<<8
	}
	return b.mmio.Read16(addr)
}

func (b *Bus) Read8(addr uint32) uint8 {
	if r, _, ok := b.resolve(addr); ok && len(r) >= 1 {
		return r[0]
	}
	return b.mmio.Read8(addr)
}

func (b *Bus) Write32(addr uint32, v uint32) {
	r, mutable, ok := b.resolve(addr)
	if !ok {
		b.mmio.Write32(addr, v)
		return
	}
	if !mutable || len(r) < 4 {
		b.log.Logf(logger.Warning, "bus", errors.UnsupportedDescriptor, addr)
		return
	}
	r[0], r[1], r[2], r[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func (b *Bus) Write16(addr uint32, v uint16) {
	r, mutable, ok := b.resolve(addr)
	if !ok {
		b.mmio.Write16(addr, v)
		return
	}
	if !mutable || len(r) < 2 {
		b.log.Logf(logger.Warning, "bus", errors.UnsupportedDescriptor, addr)
		return
	}
	r[0], r[1] = byte(v), byte(v>>8)
}

func (b *Bus) Write8(addr uint32, v uint8) {
	r, mutable, ok := b.resolve(addr)
	if !ok {
		b.mmio.Write8(addr, v)
		return
	}
	if !mutable || len(r) < 1 {
		b.log.Logf(logger.Warning, "bus", errors.UnsupportedDescriptor, addr)
		return
	}
	r[0] = v
}

// Vram exposes the raw framebuffer/texture backing store directly.
// Nothing in this module calls it.
func (b *Bus) Vram() []byte {
	return b.vram
}
