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

// coprocRegisterMove executes MRC/MCR: a single-register move between a
// general register and a coprocessor register identified by (CRn, CRm,
// opc1, opc2). CDP, the coprocessor-internal data operation, is not
// implemented: this interpreter's only coprocessor is the MMU/system
// control block, which exposes no operation that isn't a register move.
func (c *CPU) coprocRegisterMove(opcode uint32) int {
	if opcode&(1<<4) == 0 {
		return c.unkArm(opcode)
	}

	load := opcode&(1<<20) != 0
	cpNum := int(opcode>>8) & 0xF
	crn := uint8(opcode>>16) & 0xF
	crm := uint8(opcode) & 0xF
	opc1 := uint8(opcode>>21) & 0x7
	opc2 := uint8(opcode>>5) & 0x7
	rd := int(opcode>>12) & 0xF

	if load {
		v := c.mem.ReadCoprocReg(c.id, cpNum, crn, crm, opc1, opc2)
		if rd == 15 {
			c.setNZ(v)
		} else {
			c.SetReg(rd, v)
		}
	} else {
		c.mem.WriteCoprocReg(c.id, cpNum, crn, crm, opc1, opc2, c.Reg(rd))
	}
	return 4
}

// softwareInterrupt handles SWI/SVC by taking the software interrupt
// exception. The comment field carried in the low 24 bits of the opcode
// is left for the handler to decode from the faulting instruction.
func (c *CPU) softwareInterrupt(opcode uint32) int {
	return c.exception(0x08)
}

// clrex clears the exclusive monitor set up by LDREX, used by CLREX and
// by any context switch that must invalidate an in-flight
// load-exclusive/store-exclusive pair.
func (c *CPU) clrex(opcode uint32) int {
	c.exclusiveValid = false
	return 1
}

// blxLabel executes BLX(label), reached via the reserved condition code
// rather than through the normal branch opcode space.
func (c *CPU) blxLabel(opcode uint32) int {
	return c.branchLinkExchangeImmediate(opcode)
}

// pld is a cache preload hint. This interpreter has no data cache model
// distinct from the MMU's translation cache, so it is a no-op.
func (c *CPU) pld(opcode uint32) int {
	return 1
}
