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

// armHandler executes one decoded ARM opcode and returns its cycle cost.
type armHandler func(c *CPU, opcode uint32) int

// armTable is indexed by ((opcode>>16)&0xFF0)|((opcode>>4)&0xF): bits
// 27-20 of the opcode concatenated with bits 7-4. Those twelve bits are
// enough to pick an instruction class without looking at the rest of the
// opcode; the handler re-reads the full opcode for its operands. Built
// once from a small set of classification rules instead of hand-listing
// every one of the 4096 entries.
var armTable [4096]armHandler

func init() {
	for idx := 0; idx < 4096; idx++ {
		hi := uint32(idx >> 4)  // opcode bits 27-20
		lo := uint32(idx) & 0xF // opcode bits 7-4

		armTable[idx] = classifyArm(hi, lo)
	}
}

func classifyArm(hi, lo uint32) armHandler {
	switch {
	case hi == 0x12 && lo == 0x1:
		return (*CPU).branchExchange
	case hi == 0x12 && lo == 0x3:
		return (*CPU).branchExchange
	case hi == 0x19 && lo == 0x9:
		return (*CPU).ldrex
	case hi == 0x18 && lo == 0x9:
		return (*CPU).strex

	case hi < 0x20:
		if lo&0x9 == 0x9 {
			if (lo>>1)&0x3 == 0 {
				return (*CPU).multiply
			}
			return (*CPU).halfwordTransfer
		}
		return (*CPU).dataProcessing

	case hi < 0x40:
		return (*CPU).dataProcessing

	case hi < 0x80:
		return (*CPU).singleDataTransfer

	case hi < 0xA0:
		return (*CPU).blockTransfer

	case hi < 0xC0:
		return (*CPU).branch

	case hi < 0xE0:
		return (*CPU).unkArmHandler // LDC/STC: no external coprocessor memory transfer in this design

	case hi < 0xF0:
		if lo&0x1 != 0 {
			return (*CPU).coprocRegisterMove
		}
		return (*CPU).unkArmHandler // CDP: no coprocessor-internal data operation needed

	default:
		return (*CPU).softwareInterrupt
	}
}

func (c *CPU) unkArmHandler(opcode uint32) int {
	return c.unkArm(opcode)
}
