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

// dataProcessing executes one of the sixteen ARM ALU opcodes (bits
// 24-21), with the special-cased MRS/MSR encodings that share the
// TST/TEQ/CMP/CMN opcode space when S is clear.
func (c *CPU) dataProcessing(opcode uint32) int {
	opc := (opcode >> 21) & 0xF
	s := opcode&(1<<20) != 0
	rn := int(opcode>>16) & 0xF
	rd := int(opcode>>12) & 0xF

	if !s && opc >= 8 && opc <= 11 {
		if v, ok := c.statusRegisterOp(opcode, opc); ok {
			return v
		}
	}

	op2, shiftCarry, extra := c.operand2(opcode)
	rnVal := c.Reg(rn)
	if rn == 15 && opcode&(1<<25) == 0 && opcode&(1<<4) != 0 {
		rnVal += 4 // PC as Rn reads ahead when a register-specified shift is used
	}

	var result uint32
	var carry, overflow bool
	logical := true

	switch opc {
	case 0x0: // AND
		result = rnVal & op2
	case 0x1: // EOR
		result = rnVal ^ op2
	case 0x2: // SUB
		result, carry, overflow = sub(rnVal, op2)
		logical = false
	case 0x3: // RSB
		result, carry, overflow = sub(op2, rnVal)
		logical = false
	case 0x4: // ADD
		result, carry, overflow = add(rnVal, op2)
		logical = false
	case 0x5: // ADC
		result, carry, overflow = adc(rnVal, op2, c.cpsr&cpsrC != 0)
		logical = false
	case 0x6: // SBC
		result, carry, overflow = sbc(rnVal, op2, c.cpsr&cpsrC != 0)
		logical = false
	case 0x7: // RSC
		result, carry, overflow = sbc(op2, rnVal, c.cpsr&cpsrC != 0)
		logical = false
	case 0x8: // TST
		result = rnVal & op2
	case 0x9: // TEQ
		result = rnVal ^ op2
	case 0xA: // CMP
		result, carry, overflow = sub(rnVal, op2)
		logical = false
	case 0xB: // CMN
		result, carry, overflow = add(rnVal, op2)
		logical = false
	case 0xC: // ORR
		result = rnVal | op2
	case 0xD: // MOV
		result = op2
	case 0xE: // BIC
		result = rnVal &^ op2
	case 0xF: // MVN
		result = ^op2
	}

	if s {
		if rd == 15 {
			if c.spsr != nil {
				c.setCpsr(*c.spsr, false)
			}
		} else {
			c.setNZ(result)
			if logical {
				c.setCarry(shiftCarry)
			} else {
				c.setCarry(carry)
				c.setOverflow(overflow)
			}
		}
	}

	// TST/TEQ/CMP/CMN never write rd
	if opc == 0x8 || opc == 0x9 || opc == 0xA || opc == 0xB {
		return 1 + extra
	}

	c.SetReg(rd, result)
	if rd == 15 {
		c.flushPipeline()
		return 3 + extra
	}
	return 1 + extra
}

// statusRegisterOp handles MRS/MSR, which are encoded using the same
// opcode field as TST/TEQ/CMP/CMN but with S clear.
func (c *CPU) statusRegisterOp(opcode uint32, opc uint32) (int, bool) {
	_ = opc
	// MRS: cccc 0001 0s00 1111 dddd 0000 0000 0000
	if opcode&0xFBFFFF == 0xF0000 {
		rd := int(opcode>>12) & 0xF
		if opcode&(1<<22) != 0 {
			if c.spsr != nil {
				c.SetReg(rd, *c.spsr)
			}
		} else {
			c.SetReg(rd, c.cpsr)
		}
		return 1, true
	}
	// MSR register/immediate: cccc 00I1 0R10 mask 1111 ...
	if opcode&0xDB0F00 == 0x120F00 {
		var value uint32
		if opcode&(1<<25) != 0 {
			imm := opcode & 0xFF
			rot := (opcode >> 8) & 0xF
			value, _ = shift(3, imm, rot*2, false)
		} else {
			value = c.Reg(int(opcode & 0xF))
		}

		mask := uint32(0)
		if opcode&(1<<19) != 0 {
			mask |= 0xFF000000 // flags field
		}
		if opcode&(1<<16) != 0 {
			mask |= 0xFF // control field
		}

		if opcode&(1<<22) != 0 {
			if c.spsr != nil {
				*c.spsr = (*c.spsr &^ mask) | (value & mask)
			}
		} else {
			c.setCpsr((c.cpsr&^mask)|(value&mask), false)
		}
		return 1, true
	}
	return 0, false
}

func (c *CPU) setNZ(v uint32) {
	c.setFlag(cpsrN, int32(v) < 0)
	c.setFlag(cpsrZ, v == 0)
}

func (c *CPU) setCarry(v bool)    { c.setFlag(cpsrC, v) }
func (c *CPU) setOverflow(v bool) { c.setFlag(cpsrV, v) }

func (c *CPU) setFlag(bit uint32, v bool) {
	if v {
		c.cpsr |= bit
	} else {
		c.cpsr &^= bit
	}
}

func add(a, b uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^result)&(b^result)&(1<<31) != 0
	return
}

func sub(a, b uint32) (result uint32, carry, overflow bool) {
	result = a - b
	carry = a >= b
	overflow = (a^b)&(a^result)&(1<<31) != 0
	return
}

// adc is add with a carry-in, widened to 64 bits so the carry-out is
// correct at the extremes (e.g. a+0xFFFFFFFF+1 must carry out, which
// folding the carry into b before a 32-bit add loses).
func adc(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	if carryIn {
		sum++
	}
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^result)&(b^result)&(1<<31) != 0
	return
}

// sbc is subtract with a borrow-in (ARM's carry flag inverted): result is
// a - b - 1 + carryIn, computed in 64 bits for the same reason as adc.
func sbc(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	diff := int64(a) - int64(b) - 1
	if carryIn {
		diff++
	}
	result = uint32(diff)
	carry = diff >= 0
	overflow = (a^b)&(a^result)&(1<<31) != 0
	return
}
