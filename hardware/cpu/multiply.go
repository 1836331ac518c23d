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

// multiply executes MUL/MLA and the long multiply family (UMULL, UMLAL,
// SMULL, SMLAL), selected by bits 23-21.
func (c *CPU) multiply(opcode uint32) int {
	s := opcode&(1<<20) != 0
	rm := c.Reg(int(opcode & 0xF))
	rs := c.Reg(int(opcode>>8) & 0xF)

	switch (opcode >> 21) & 0x7 {
	case 0x0: // MUL
		rd := int(opcode>>16) & 0xF
		result := rm * rs
		c.SetReg(rd, result)
		if s {
			c.setNZ(result)
		}
		return 2
	case 0x1: // MLA
		rd := int(opcode>>16) & 0xF
		rn := c.Reg(int(opcode>>12) & 0xF)
		result := rm*rs + rn
		c.SetReg(rd, result)
		if s {
			c.setNZ(result)
		}
		return 3
	case 0x4, 0x5, 0x6, 0x7: // UMULL, UMLAL, SMULL, SMLAL
		rdLo := int(opcode>>12) & 0xF
		rdHi := int(opcode>>16) & 0xF
		var result uint64
		signed := (opcode>>21)&0x7 >= 0x6
		if signed {
			result = uint64(int64(int32(rm)) * int64(int32(rs)))
		} else {
			result = uint64(rm) * uint64(rs)
		}
		if (opcode>>21)&1 != 0 { // accumulate variants (MLAL)
			acc := uint64(c.Reg(rdHi))<<32 | uint64(c.Reg(rdLo))
			result += acc
		}
		c.SetReg(rdLo, uint32(result))
		c.SetReg(rdHi, uint32(result>>32))
		if s {
			c.setFlag(cpsrN, result&(1<<63) != 0)
			c.setFlag(cpsrZ, result == 0)
		}
		return 4
	}
	return c.unkArm(opcode)
}

// halfwordTransfer executes the half-word and signed-byte load/store
// family distinguished by bits 7-4 of the opcode (LDRH/STRH/LDRSB/LDRSH).
func (c *CPU) halfwordTransfer(opcode uint32) int {
	load := opcode&(1<<20) != 0
	immForm := opcode&(1<<22) != 0
	up := opcode&(1<<23) != 0
	pre := opcode&(1<<24) != 0
	writeback := opcode&(1<<21) != 0 || !pre
	rn := int(opcode>>16) & 0xF
	rd := int(opcode>>12) & 0xF

	var offset uint32
	if immForm {
		offset = (opcode>>4)&0xF0 | opcode&0xF
	} else {
		offset = c.Reg(int(opcode & 0xF))
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

	kind := (opcode >> 5) & 3
	if load {
		switch kind {
		case 1: // unsigned halfword
			c.SetReg(rd, uint32(c.mem.Read16(c.id, addr)))
		case 2: // signed byte
			c.SetReg(rd, uint32(int32(int8(c.mem.Read8(c.id, addr)))))
		case 3: // signed halfword
			c.SetReg(rd, uint32(int32(int16(c.mem.Read16(c.id, addr)))))
		}
	} else {
		c.mem.Write16(c.id, addr, uint16(c.Reg(rd)))
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
		return 3
	}
	return 2
}
