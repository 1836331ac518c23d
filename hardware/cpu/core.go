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

import (
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/logger"
)

// RunOpcode executes the opcode currently at the front of the pipeline,
// refills the pipeline, and returns the cycle cost charged against the
// scheduler. It satisfies scheduler.Core.
func (c *CPU) RunOpcode() int {
	opcode := c.pipeline[0]
	c.pipeline[0] = c.pipeline[1]

	if c.cpsr&cpsrThumb != 0 {
		pc := c.view[15]
		*pc += 2
		c.pipeline[1] = uint32(c.mem.Read16(c.id, *pc))
		return thumbTable[(uint16(opcode)>>6)&0x3FF](c, uint16(opcode))
	}

	pc := c.view[15]
	*pc += 4
	c.pipeline[1] = c.mem.Read32(c.id, *pc)

	condIdx := ((opcode >> 24) & 0xF0) | (c.cpsr >> 28)
	switch conditionTable[condIdx] {
	case condFalse:
		return 1
	case condReserved:
		return c.handleReserved(opcode)
	default:
		idx := ((opcode >> 16) & 0xFF0) | ((opcode >> 4) & 0xF)
		return armTable[idx](c, opcode)
	}
}

// handleReserved decodes the handful of unconditional special instructions
// reached through the otherwise-unused 0b1111 condition code.
func (c *CPU) handleReserved(opcode uint32) int {
	switch {
	case opcode&0xE000000 == 0xA000000:
		return c.blxLabel(opcode)
	case opcode&0xC100000 == 0x4100000:
		return c.pld(opcode)
	case opcode == 0xF57FF01F:
		return c.clrex(opcode)
	default:
		return c.unkArm(opcode)
	}
}

// Halt stops this core pending an interrupt, satisfying
// coproc.HaltController for the WFI coprocessor register write. The same
// halt bit is cleared by TakeIRQ/TakeFIQ, so a core halted here resumes
// as soon as an enabled interrupt line is raised against it.
func (c *CPU) Halt() {
	c.halt(1 << 1)
}

// TakeIRQ enters the IRQ exception if interrupts are not currently
// masked. The interrupt controller is responsible for only calling this
// when it has a pending, enabled interrupt line; this just applies the
// CPSR mask.
func (c *CPU) TakeIRQ() {
	if c.cpsr&cpsr_I != 0 {
		return
	}
	c.unhalt(1 << 1)
	c.exception(0x18)
}

// TakeFIQ enters the FIQ exception if FIQs are not currently masked.
func (c *CPU) TakeFIQ() {
	if c.cpsr&cpsr_F != 0 {
		return
	}
	c.unhalt(1 << 1)
	c.exception(0x1C)
}

func (c *CPU) unkArm(opcode uint32) int {
	c.log.Logf(logger.Critical, c.id.String(), errors.UnknownArmOpcode, opcode)
	return 1
}

func (c *CPU) unkThumb(opcode uint16) int {
	c.log.Logf(logger.Critical, c.id.String(), errors.UnknownThumbOpcode, opcode)
	return 1
}
