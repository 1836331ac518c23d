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

package cpu

import "math/bits"

// singleDataTransfer executes LDR/STR/LDRB/STRB, with either an immediate
// or a shifted-register offset.
func (c *CPU) singleDataTransfer(opcode uint32) int {
	registerOffset := opcode&(1<<25) != 0
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	byteTransfer := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0 || !pre
	load := opcode&(1<<20) != 0
	rn := int(opcode>>16) & 0xF
	rd := int(opcode>>12) & 0xF

	var offset uint32
	if registerOffset {
		rm := c.Reg(int(opcode & 0xF))
		amount := (opcode >> 7) & 0x1F
		kind := byte((opcode >> 5) & 3)
		offset, _ = shift(kind, rm, amount, c.cpsr&cpsrC != 0)
	} else {
		offset = opcode & 0xFFF
	}

	base := c.Reg(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		if byteTransfer {
			c.SetReg(rd, uint32(c.mem.Read8(c.id, addr)))
		} else {
			c.SetReg(rd, c.readAligned32(addr))
		}
	} else {
		if byteTransfer {
			c.mem.Write8(c.id, addr, uint8(c.Reg(rd)))
		} else {
			c.mem.Write32(c.id, addr, c.Reg(rd))
		}
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if writeback && rn != 15 {
		c.SetReg(rn, addr)
	}

	if load && rd == 15 {
		c.flushPipeline()
		return 5
	}
	if load {
		return 3
	}
	return 2
}

// readAligned32 reproduces the rotate-on-misaligned-read behaviour of the
// ARM data bus: a word read from a non-word-aligned address is rotated
// right by the misalignment, in bytes, times eight.
func (c *CPU) readAligned32(addr uint32) uint32 {
	v := c.mem.Read32(c.id, addr&^3)
	rot := (addr & 3) * 8
	return bits.RotateLeft32(v, -int(rot))
}

// blockTransfer executes LDM/STM over the register list in bits 15-0,
// walking the address upward or downward from the base register according
// to the P/U bits.
func (c *CPU) blockTransfer(opcode uint32) int {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	sBit := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := int(opcode>>16) & 0xF
	list := opcode & 0xFFFF

	count := bits.OnesCount32(list)
	base := c.Reg(rn)

	var start uint32
	if up {
		start = base
	} else {
		start = base - uint32(count)*4
	}
	addr := start

	// The walk always proceeds upward from the lowest address to the
	// highest, even for a down (U=0) transfer, since start is already the
	// lowest address involved. That means the P bit's pre/post sense is
	// inverted for U=0: DA's first access lands one word above the lowest
	// address (like an up-transfer's pre-increment), while DB's first
	// access lands exactly on the lowest address (like an up-transfer's
	// post-increment).
	effectivePre := pre
	if !up {
		effectivePre = !pre
	}

	// S (bit 22, the ^ suffix) selects the user-bank registers for the
	// listed registers when PC is not among them, and, when PC is in the
	// list for an LDM, restores CPSR from SPSR after the load completes.
	pcInList := list&(1<<15) != 0
	userBank := sBit && !pcInList

	// Loading Rn as part of its own writeback normally leaves the loaded
	// value in place (writeback is suppressed); the writeback value only
	// wins when Rn is first in the list, or the only register in it.
	rnBit := uint32(1) << uint(rn)
	rnInList := list&rnBit != 0
	rnWritebackVisible := !rnInList || bits.TrailingZeros32(list) == rn || list == rnBit

	loadedPC := false
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if effectivePre {
			addr += 4
		}
		if load {
			v := c.mem.Read32(c.id, addr)
			if userBank {
				c.regsUsr[i] = v
			} else {
				c.SetReg(i, v)
			}
			if i == 15 {
				loadedPC = true
			}
		} else {
			var v uint32
			if userBank {
				v = c.regsUsr[i]
			} else {
				v = c.Reg(i)
			}
			c.mem.Write32(c.id, addr, v)
		}
		if !effectivePre {
			addr += 4
		}
	}

	if writeback && (!load || rnWritebackVisible) {
		if up {
			c.SetReg(rn, base+uint32(count)*4)
		} else {
			c.SetReg(rn, base-uint32(count)*4)
		}
	}

	if sBit && pcInList && load && c.spsr != nil {
		c.setCpsr(*c.spsr, false)
	}

	if loadedPC {
		c.flushPipeline()
		return 2 + count*2
	}
	return 1 + count
}
