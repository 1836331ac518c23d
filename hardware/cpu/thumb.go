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

// thumbHandler executes one decoded THUMB opcode and returns its cycle
// cost.
type thumbHandler func(c *CPU, opcode uint16) int

// thumbTable is indexed by (opcode>>6)&0x3FF: the top ten bits of the
// instruction. THUMB packs format and operation almost entirely into
// those bits, so unlike the ARM table most entries here resolve to a
// fully-specific handler; a few related formats still share one handler
// that finishes the decode from the full opcode.
var thumbTable [1024]thumbHandler

func init() {
	for idx := 0; idx < 1024; idx++ {
		val8 := uint32(idx) >> 2 // opcode bits 15-8
		thumbTable[idx] = classifyThumb(val8)
	}
}

func classifyThumb(val8 uint32) thumbHandler {
	switch {
	case val8 < 0x18:
		return (*CPU).shiftThumb
	case val8 < 0x20:
		return (*CPU).addSubThumb
	case val8 < 0x40:
		return (*CPU).mcasImmThumb
	case val8 < 0x44:
		return (*CPU).aluThumb
	case val8 < 0x48:
		return (*CPU).hiRegThumb
	case val8 < 0x50:
		return (*CPU).pcRelLoadThumb
	case val8 < 0x60:
		return (*CPU).loadStoreRegOffsetThumb
	case val8 < 0x80:
		return (*CPU).loadStoreImmThumb
	case val8 < 0x90:
		return (*CPU).loadStoreHalfwordThumb
	case val8 < 0xA0:
		return (*CPU).spRelLoadStoreThumb
	case val8 < 0xB0:
		return (*CPU).loadAddressThumb
	case val8 == 0xB0:
		return (*CPU).addSPThumb
	case val8 == 0xB4 || val8 == 0xB5 || val8 == 0xBC || val8 == 0xBD:
		return (*CPU).pushPopThumb
	case val8 < 0xC0:
		return (*CPU).unkThumbHandler
	case val8 < 0xD0:
		return (*CPU).multipleLoadStoreThumb
	case val8 == 0xDF:
		return (*CPU).swiThumbHandler
	case val8 < 0xE0:
		return (*CPU).condBranchThumb
	case val8 < 0xE8:
		return (*CPU).uncondBranchThumb
	case val8 < 0xF0:
		return (*CPU).unkThumbHandler
	default:
		return (*CPU).longBranchLinkThumb
	}
}

func (c *CPU) unkThumbHandler(opcode uint16) int { return c.unkThumb(opcode) }

func (c *CPU) shiftThumb(opcode uint16) int {
	kind := byte((opcode >> 11) & 0x3)
	amount := uint32(opcode>>6) & 0x1F
	rs := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7

	carryIn := c.cpsr&cpsrC != 0
	if amount == 0 && kind != 0 {
		amount = 32
	}
	v, carry := shift(kind, c.Reg(rs), amount, carryIn)
	c.SetReg(rd, v)
	c.setNZ(v)
	c.setCarry(carry)
	return 1
}

func (c *CPU) addSubThumb(opcode uint16) int {
	immediate := opcode&(1<<10) != 0
	sub := opcode&(1<<9) != 0
	rn := int(opcode>>6) & 0x7
	rs := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7

	var b uint32
	if immediate {
		b = uint32(rn)
	} else {
		b = c.Reg(rn)
	}
	a := c.Reg(rs)

	var result uint32
	var carry, overflow bool
	if sub {
		result, carry, overflow = subOp(a, b)
	} else {
		result, carry, overflow = add(a, b)
	}
	c.SetReg(rd, result)
	c.setNZ(result)
	c.setCarry(carry)
	c.setOverflow(overflow)
	return 1
}

func subOp(a, b uint32) (uint32, bool, bool) { return sub(a, b) }

func (c *CPU) mcasImmThumb(opcode uint16) int {
	op := (opcode >> 11) & 0x3
	rd := int(opcode>>8) & 0x7
	imm := uint32(opcode) & 0xFF

	switch op {
	case 0: // MOV
		c.SetReg(rd, imm)
		c.setNZ(imm)
		c.setCarry(c.cpsr&cpsrC != 0)
	case 1: // CMP
		result, carry, overflow := sub(c.Reg(rd), imm)
		c.setNZ(result)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 2: // ADD
		result, carry, overflow := add(c.Reg(rd), imm)
		c.SetReg(rd, result)
		c.setNZ(result)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 3: // SUB
		result, carry, overflow := sub(c.Reg(rd), imm)
		c.SetReg(rd, result)
		c.setNZ(result)
		c.setCarry(carry)
		c.setOverflow(overflow)
	}
	return 1
}

func (c *CPU) aluThumb(opcode uint16) int {
	op := (opcode >> 6) & 0xF
	rs := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7

	a := c.Reg(rd)
	b := c.Reg(rs)
	var result uint32
	var carry, overflow bool
	write := true

	switch op {
	case 0x0: // AND
		result = a & b
	case 0x1: // EOR
		result = a ^ b
	case 0x2: // LSL
		result, carry = shift(0, a, b&0xFF, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
	case 0x3: // LSR
		result, carry = shift(1, a, b&0xFF, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
	case 0x4: // ASR
		result, carry = shift(2, a, b&0xFF, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
	case 0x5: // ADC
		result, carry, overflow = adc(a, b, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 0x6: // SBC
		result, carry, overflow = sbc(a, b, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 0x7: // ROR
		result, carry = shift(3, a, b&0xFF, c.cpsr&cpsrC != 0)
		c.setCarry(carry)
	case 0x8: // TST
		result = a & b
		write = false
	case 0x9: // NEG
		result, carry, overflow = sub(0, b)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 0xA: // CMP
		result, carry, overflow = sub(a, b)
		c.setCarry(carry)
		c.setOverflow(overflow)
		write = false
	case 0xB: // CMN
		result, carry, overflow = add(a, b)
		c.setCarry(carry)
		c.setOverflow(overflow)
		write = false
	case 0xC: // ORR
		result = a | b
	case 0xD: // MUL
		result = a * b
	case 0xE: // BIC
		result = a &^ b
	case 0xF: // MVN
		result = ^b
	}

	c.setNZ(result)
	if write {
		c.SetReg(rd, result)
	}
	if op == 0xD {
		return 2
	}
	return 1
}

func (c *CPU) hiRegThumb(opcode uint16) int {
	op := (opcode >> 8) & 0x3
	h1 := opcode&(1<<7) != 0
	h2 := opcode&(1<<6) != 0
	rs := int(opcode>>3)&0x7 + boolInt(h2)*8
	rd := int(opcode)&0x7 + boolInt(h1)*8

	switch op {
	case 0: // ADD
		c.SetReg(rd, c.Reg(rd)+c.Reg(rs))
		if rd == 15 {
			c.flushPipeline()
		}
	case 1: // CMP
		result, carry, overflow := sub(c.Reg(rd), c.Reg(rs))
		c.setNZ(result)
		c.setCarry(carry)
		c.setOverflow(overflow)
	case 2: // MOV
		c.SetReg(rd, c.Reg(rs))
		if rd == 15 {
			c.flushPipeline()
		}
	case 3: // BX/BLX
		v := c.Reg(rs)
		if h1 {
			c.SetReg(14, c.Reg(15)-1)
		}
		thumb := v&1 != 0
		c.setFlag(cpsrThumb, thumb)
		c.SetReg(15, v&^1)
		c.flushPipeline()
	}
	return 3
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) pcRelLoadThumb(opcode uint16) int {
	rd := int(opcode>>8) & 0x7
	imm := uint32(opcode&0xFF) << 2
	base := (c.Reg(15) &^ 3) + imm
	c.SetReg(rd, c.mem.Read32(c.id, base))
	return 3
}

func (c *CPU) loadStoreRegOffsetThumb(opcode uint16) int {
	ro := int(opcode>>6) & 0x7
	rb := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7
	addr := c.Reg(rb) + c.Reg(ro)

	signExtended := opcode&(1<<9) != 0
	opc := (opcode >> 10) & 0x3

	if signExtended {
		switch opc {
		case 0: // STRH
			c.mem.Write16(c.id, addr, uint16(c.Reg(rd)))
		case 1: // LDSB
			c.SetReg(rd, uint32(int32(int8(c.mem.Read8(c.id, addr)))))
		case 2: // LDRH
			c.SetReg(rd, uint32(c.mem.Read16(c.id, addr)))
		case 3: // LDSH
			c.SetReg(rd, uint32(int32(int16(c.mem.Read16(c.id, addr)))))
		}
	} else {
		load := opcode&(1<<11) != 0
		byteTransfer := opcode&(1<<10) != 0
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
	}
	return 3
}

func (c *CPU) loadStoreImmThumb(opcode uint16) int {
	byteTransfer := opcode&(1<<12) != 0
	load := opcode&(1<<11) != 0
	rb := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7
	imm := uint32(opcode>>6) & 0x1F
	if !byteTransfer {
		imm <<= 2
	}
	addr := c.Reg(rb) + imm

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
	return 3
}

func (c *CPU) loadStoreHalfwordThumb(opcode uint16) int {
	load := opcode&(1<<11) != 0
	rb := int(opcode>>3) & 0x7
	rd := int(opcode) & 0x7
	imm := (uint32(opcode>>6) & 0x1F) << 1
	addr := c.Reg(rb) + imm

	if load {
		c.SetReg(rd, uint32(c.mem.Read16(c.id, addr)))
	} else {
		c.mem.Write16(c.id, addr, uint16(c.Reg(rd)))
	}
	return 3
}

func (c *CPU) spRelLoadStoreThumb(opcode uint16) int {
	load := opcode&(1<<11) != 0
	rd := int(opcode>>8) & 0x7
	imm := uint32(opcode&0xFF) << 2
	addr := c.Reg(13) + imm

	if load {
		c.SetReg(rd, c.readAligned32(addr))
	} else {
		c.mem.Write32(c.id, addr, c.Reg(rd))
	}
	return 3
}

func (c *CPU) loadAddressThumb(opcode uint16) int {
	sp := opcode&(1<<11) != 0
	rd := int(opcode>>8) & 0x7
	imm := uint32(opcode&0xFF) << 2
	if sp {
		c.SetReg(rd, c.Reg(13)+imm)
	} else {
		c.SetReg(rd, (c.Reg(15)&^3)+imm)
	}
	return 1
}

func (c *CPU) addSPThumb(opcode uint16) int {
	negative := opcode&(1<<7) != 0
	imm := uint32(opcode&0x7F) << 2
	if negative {
		c.SetReg(13, c.Reg(13)-imm)
	} else {
		c.SetReg(13, c.Reg(13)+imm)
	}
	return 1
}

func (c *CPU) pushPopThumb(opcode uint16) int {
	load := opcode&(1<<11) != 0
	includeExtra := opcode&(1<<8) != 0
	list := opcode & 0xFF

	if load {
		sp := c.Reg(13)
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) != 0 {
				c.SetReg(i, c.mem.Read32(c.id, sp))
				sp += 4
			}
		}
		if includeExtra {
			c.SetReg(15, c.mem.Read32(c.id, sp)&^1)
			sp += 4
			c.flushPipeline()
		}
		c.SetReg(13, sp)
		return 3
	}

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
		}
	}
	if includeExtra {
		count++
	}
	sp := c.Reg(13) - uint32(count)*4
	c.SetReg(13, sp)
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			c.mem.Write32(c.id, sp, c.Reg(i))
			sp += 4
		}
	}
	if includeExtra {
		c.mem.Write32(c.id, sp, c.Reg(14))
	}
	return 2
}

func (c *CPU) multipleLoadStoreThumb(opcode uint16) int {
	load := opcode&(1<<11) != 0
	rb := int(opcode>>8) & 0x7
	list := opcode & 0xFF
	addr := c.Reg(rb)

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		count++
		if load {
			c.SetReg(i, c.mem.Read32(c.id, addr))
		} else {
			c.mem.Write32(c.id, addr, c.Reg(i))
		}
		addr += 4
	}
	c.SetReg(rb, addr)
	return 1 + count
}

func (c *CPU) condBranchThumb(opcode uint16) int {
	cond := byte((opcode >> 8) & 0xF)
	flags := byte(c.cpsr >> 28)
	if conditionTable[cond<<4|flags] != condTrue {
		return 1
	}
	offset := signExtend(uint32(opcode&0xFF), 8) << 1
	c.SetReg(15, c.Reg(15)+offset)
	c.flushPipeline()
	return 3
}

func (c *CPU) swiThumbHandler(opcode uint16) int {
	return c.exception(0x08)
}

func (c *CPU) uncondBranchThumb(opcode uint16) int {
	offset := signExtend(uint32(opcode&0x7FF), 11) << 1
	c.SetReg(15, c.Reg(15)+offset)
	c.flushPipeline()
	return 3
}

// longBranchLinkThumb executes both halves of BL, which is split across
// two consecutive THUMB opcodes: the first stashes a partial offset in
// LR, the second combines it with the return address.
func (c *CPU) longBranchLinkThumb(opcode uint16) int {
	low := opcode&(1<<11) != 0
	offset11 := uint32(opcode & 0x7FF)

	if !low {
		c.SetReg(14, c.Reg(15)+signExtend(offset11, 11)<<12)
		return 1
	}

	target := c.Reg(14) + offset11<<1
	c.SetReg(14, (c.Reg(15)-2)|1)
	c.SetReg(15, target)
	c.flushPipeline()
	return 3
}
