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

// branch executes B and BL: a PC-relative jump by a sign-extended 24-bit
// word offset, optionally saving the return address in the link
// register.
func (c *CPU) branch(opcode uint32) int {
	link := opcode&(1<<24) != 0
	offset := signExtend(opcode&0xFFFFFF, 24) << 2
	if link {
		c.SetReg(14, c.Reg(15)-4)
	}
	c.SetReg(15, c.Reg(15)+offset)
	c.flushPipeline()
	return 3
}

// branchExchange executes BX/BLX(register): jump to the target address,
// switching to THUMB mode if its low bit is set.
func (c *CPU) branchExchange(opcode uint32) int {
	link := opcode&0xF == 3
	rm := c.Reg(int(opcode & 0xF))
	if link {
		c.SetReg(14, c.Reg(15)-4)
	}
	thumb := rm&1 != 0
	c.setFlag(cpsrThumb, thumb)
	c.SetReg(15, rm&^1)
	c.flushPipeline()
	return 3
}

// branchLinkExchangeImmediate executes BLX(label), the unconditional
// encoding reached through the reserved condition code, which always
// switches to THUMB mode.
func (c *CPU) branchLinkExchangeImmediate(opcode uint32) int {
	h := (opcode >> 24) & 1
	offset := signExtend(opcode&0xFFFFFF, 24)<<2 + h<<1
	c.SetReg(14, c.Reg(15)-4)
	c.setFlag(cpsrThumb, true)
	c.SetReg(15, c.Reg(15)+offset)
	c.flushPipeline()
	return 3
}

func signExtend(v uint32, width int) uint32 {
	sh := uint(32 - width)
	return uint32(int32(v<<sh) >> sh)
}
