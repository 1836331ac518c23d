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

package coproc

import (
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/logger"
)

// numA11 is the number of A11 cores, each with its own MMU cache and
// translation-table registers. The A9 is handled separately: it has no
// MMU, only the fixed ITCM/DTCM overlay windows.
const numA11 = 4

// Bus is the physical memory this coprocessor translates into: the
// flat, page-mapped address space behind every CPU.
type Bus interface {
	Read32(phys uint32) uint32
	Read16(phys uint32) uint16
	Read8(phys uint32) uint8
	Write32(phys uint32, v uint32)
	Write16(phys uint32, v uint16)
	Write8(phys uint32, v uint8)
}

// HaltController lets the WFI (wait-for-interrupt) register write halt
// the calling core.
type HaltController interface {
	Halt(id cpu.ID)
}

// Unsigned is satisfied by the three register widths a CPU moves
// through this coprocessor.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// CoProc is the system-control coprocessor shared by every CPU's
// MRC/MCR and memory-access instructions. It satisfies cpu.Memory.
type CoProc struct {
	bus  Bus
	halt HaltController
	log  *logger.Logger

	mmuEnable [numA11]bool
	mmuCache  [numA11][]mmuEntry
	mmuTag    [numA11]uint32

	ctrlRegs     [int(cpu.NumCPUs)]uint32
	exceptAddrs  [int(cpu.NumCPUs)]uint32
	tlbBase0     [numA11]uint32
	tlbBase1     [numA11]uint32
	tlbCtrl      [numA11]uint32
	physAddrReg  [numA11]uint32
	threadID     [numA11][3]uint32

	dtcmRead, dtcmWrite bool
	itcmRead, itcmWrite bool
	dtcmAddr, dtcmSize  uint32
	itcmSize            uint32
	dtcmReg, itcmReg     uint32

	itcm [0x8000]byte
	dtcm [0x4000]byte
}

// mmuEntry is a cached page-granularity virtual-to-physical mapping,
// valid only while tag matches the owning core's current mmuTag.
type mmuEntry struct {
	tag  uint32
	phys uint32
}

// NewCoProc constructs a CoProc. The reset control-register values match
// the A11/A9 boot defaults: MMU disabled, exception vectors at 0.
func NewCoProc(bus Bus, halt HaltController, log *logger.Logger) *CoProc {
	c := &CoProc{bus: bus, halt: halt, log: log}
	for i := 0; i < numA11; i++ {
		c.mmuCache[i] = make([]mmuEntry, 1<<20)
		c.mmuTag[i] = 1
	}
	return c
}

// ExceptionAddr satisfies cpu.Memory.
func (c *CoProc) ExceptionAddr(id cpu.ID) uint32 {
	return c.exceptAddrs[id]
}

func (c *CoProc) Read32(id cpu.ID, addr uint32) uint32 {
	addr &^= 3
	if id == cpu.A9 {
		if tcm := c.tcmRead(addr); tcm != nil {
			return uint32(tcm[0]) | uint32(tcm[1])<<8 | uint32(tcm[2])<<16 | uint32(tcm[3])<<24
		}
	}
	phys, ok := c.translate(id, addr)
	if !ok {
		c.log.Logf(logger.Warning, id.String(), errors.UnsupportedDescriptor, addr)
		return 0
	}
	return c.bus.Read32(phys)
}

func (c *CoProc) Read16(id cpu.ID, addr uint32) uint16 {
	addr &^= 1
	if id == cpu.A9 {
		if tcm := c.tcmRead(addr); tcm != nil {
			return uint16(tcm[0]) | uint16(tcm[1])<<8
		}
	}
	phys, ok := c.translate(id, addr)
	if !ok {
		c.log.Logf(logger.Warning, id.String(), errors.UnsupportedDescriptor, addr)
		return 0
	}
	return c.bus.Read16(phys)
}

func (c *CoProc) Read8(id cpu.ID, addr uint32) uint8 {
	if id == cpu.A9 {
		if tcm := c.tcmRead(addr); tcm != nil {
			return tcm[0]
		}
	}
	phys, ok := c.translate(id, addr)
	if !ok {
		c.log.Logf(logger.Warning, id.String(), errors.UnsupportedDescriptor, addr)
		return 0
	}
	return c.bus.Read8(phys)
}

func (c *CoProc) Write32(id cpu.ID, addr uint32, v uint32) {
	addr &^= 3
	if id == cpu.A9 {
		if tcm := c.tcmWrite(addr); tcm != nil {
			tcm[0], tcm[1], tcm[2], tcm[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
			return
		}
	}
	if phys, ok := c.translate(id, addr); ok {
		c.bus.Write32(phys, v)
	}
}

func (c *CoProc) Write16(id cpu.ID, addr uint32, v uint16) {
	addr &^= 1
	if id == cpu.A9 {
		if tcm := c.tcmWrite(addr); tcm != nil {
			tcm[0], tcm[1] = byte(v), byte(v>>8)
			return
		}
	}
	if phys, ok := c.translate(id, addr); ok {
		c.bus.Write16(phys, v)
	}
}

func (c *CoProc) Write8(id cpu.ID, addr uint32, v uint8) {
	if id == cpu.A9 {
		if tcm := c.tcmWrite(addr); tcm != nil {
			tcm[0] = v
			return
		}
	}
	if phys, ok := c.translate(id, addr); ok {
		c.bus.Write8(phys, v)
	}
}

// ReadT and WriteT are the generic entry points SPEC_FULL.md's memory
// model is described in terms of; the concrete per-width methods above
// exist only because cpu.Memory can't use a generic method.
func ReadT[T Unsigned](c *CoProc, id cpu.ID, addr uint32) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(c.Read8(id, addr))
	case uint16:
		return T(c.Read16(id, addr))
	default:
		return T(c.Read32(id, addr))
	}
}

func WriteT[T Unsigned](c *CoProc, id cpu.ID, addr uint32, v T) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		c.Write8(id, addr, uint8(v))
	case uint16:
		c.Write16(id, addr, uint16(v))
	default:
		c.Write32(id, addr, uint32(v))
	}
}
