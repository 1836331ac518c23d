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

// ldrex loads a word and marks its address as the target of an exclusive
// monitor, armed for a matching strex.
func (c *CPU) ldrex(opcode uint32) int {
	rn := int(opcode>>16) & 0xF
	rd := int(opcode>>12) & 0xF
	addr := c.Reg(rn)
	c.SetReg(rd, c.mem.Read32(c.id, addr))
	c.exclusiveValid = true
	c.exclusiveAddr = addr
	return 3
}

// strex stores a word only if the exclusive monitor is still armed for
// that address, clearing it either way and reporting success in rd (0) or
// failure (1), matching the ARM exclusive-access contract.
func (c *CPU) strex(opcode uint32) int {
	rn := int(opcode>>16) & 0xF
	rd := int(opcode>>12) & 0xF
	rm := int(opcode) & 0xF
	addr := c.Reg(rn)

	if c.exclusiveValid && c.exclusiveAddr == addr {
		c.mem.Write32(c.id, addr, c.Reg(rm))
		c.SetReg(rd, 0)
	} else {
		c.SetReg(rd, 1)
	}
	c.exclusiveValid = false
	return 4
}
