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
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/scheduler"
)

const (
	modeUsr = 0x10
	modeFiq = 0x11
	modeIrq = 0x12
	modeSvc = 0x13
	modeAbt = 0x17
	modeUnd = 0x1B
	modeSys = 0x1F

	cpsrThumb = 0x20
	cpsr_F    = 0x40
	cpsr_I    = 0x80
	cpsrN     = 1 << 31
	cpsrZ     = 1 << 30
	cpsrC     = 1 << 29
	cpsrV     = 1 << 28
)

// CPU is one ARM/THUMB interpreter instance, driven one opcode at a time
// by a scheduler.Scheduler via RunOpcode.
type CPU struct {
	id         ID
	mem        Memory
	interrupts Interrupts
	log        *logger.Logger

	regsUsr [16]uint32
	regsFiq [7]uint32 // r8..r14
	regsIrq [2]uint32 // r13,r14
	regsSvc [2]uint32
	regsAbt [2]uint32
	regsUnd [2]uint32
	view    [16]*uint32

	cpsr    uint32
	spsr    *uint32
	spsrFiq uint32
	spsrIrq uint32
	spsrSvc uint32
	spsrAbt uint32
	spsrUnd uint32

	pipeline [2]uint32

	halted uint8
	cycles scheduler.Cycles

	exclusiveValid bool
	exclusiveAddr  uint32
}

// NewCPU constructs a CPU in user mode with every banked register view
// pointing at the user bank. Of the A11 cores only A11-0 starts runnable
// (the A9 does not start halted either): the other three
// A11 cores are brought up one at a time by a SYSCON-style wake request
// from the boot firmware, so A11-1 through A11-3 start halted.
func NewCPU(id ID, mem Memory, interrupts Interrupts, log *logger.Logger) *CPU {
	c := &CPU{id: id, mem: mem, interrupts: interrupts, log: log}
	for i := range c.view {
		c.view[i] = &c.regsUsr[i]
	}
	if id == A11_1 || id == A11_2 || id == A11_3 {
		c.halt(1)
	}
	return c
}

// Init prepares the CPU to execute its boot ROM: supervisor mode,
// interrupts masked, program counter at the reset vector, pipeline
// filled.
func (c *CPU) Init() {
	c.setCpsr(cpsr_I|cpsr_F|modeSvc, false)
	c.regsUsr[15] = c.id.resetVector()
	c.flushPipeline()
}

// Reg returns the current value of general register i (0-15), taking the
// active banked view into account.
func (c *CPU) Reg(i int) uint32 { return *c.view[i] }

// SetReg writes general register i (0-15) through the active banked view.
func (c *CPU) SetReg(i int, v uint32) { *c.view[i] = v }

// Cycles and SetCycles satisfy scheduler.Core.
func (c *CPU) Cycles() scheduler.Cycles     { return c.cycles }
func (c *CPU) SetCycles(cy scheduler.Cycles) { c.cycles = cy }

func (c *CPU) halt(mask uint8) {
	before := c.halted
	c.halted |= mask
	if before == 0 && c.halted != 0 {
		c.cycles = scheduler.Unreachable
	}
}

func (c *CPU) unhalt(mask uint8) {
	before := c.halted
	c.halted &^= mask
	if before != 0 && c.halted == 0 {
		c.cycles = 0
	}
}

// Halted reports whether the core is currently stopped.
func (c *CPU) Halted() bool { return c.halted != 0 }

// setCpsr installs a new CPSR value, swapping the banked register view and
// SPSR pointer if the mode field changed, optionally saving the outgoing
// CPSR to the new mode's SPSR, and asking the interrupt controller to
// reconsider whether an interrupt is now due.
func (c *CPU) setCpsr(value uint32, save bool) {
	if value&0x1F != c.cpsr&0x1F {
		switch value & 0x1F {
		case modeUsr, modeSys:
			c.bankUsr()
			c.spsr = nil
		case modeFiq:
			c.view[8] = &c.regsFiq[0]
			c.view[9] = &c.regsFiq[1]
			c.view[10] = &c.regsFiq[2]
			c.view[11] = &c.regsFiq[3]
			c.view[12] = &c.regsFiq[4]
			c.view[13] = &c.regsFiq[5]
			c.view[14] = &c.regsFiq[6]
			c.spsr = &c.spsrFiq
		case modeIrq:
			c.bankUsr8to12()
			c.view[13] = &c.regsIrq[0]
			c.view[14] = &c.regsIrq[1]
			c.spsr = &c.spsrIrq
		case modeSvc:
			c.bankUsr8to12()
			c.view[13] = &c.regsSvc[0]
			c.view[14] = &c.regsSvc[1]
			c.spsr = &c.spsrSvc
		case modeAbt:
			c.bankUsr8to12()
			c.view[13] = &c.regsAbt[0]
			c.view[14] = &c.regsAbt[1]
			c.spsr = &c.spsrAbt
		case modeUnd:
			c.bankUsr8to12()
			c.view[13] = &c.regsUnd[0]
			c.view[14] = &c.regsUnd[1]
			c.spsr = &c.spsrUnd
		default:
			c.log.Logf(logger.Critical, c.id.String(), "unknown CPU mode: 0x%x", value&0x1F)
		}
	}

	if save && c.spsr != nil {
		*c.spsr = c.cpsr
	}
	c.cpsr = value
	c.interrupts.CheckInterrupt(c.id)
}

func (c *CPU) bankUsr() {
	for i := 8; i <= 14; i++ {
		c.view[i] = &c.regsUsr[i]
	}
}

func (c *CPU) bankUsr8to12() {
	for i := 8; i <= 12; i++ {
		c.view[i] = &c.regsUsr[i]
	}
}

// exception switches to the mode associated with vector, saves the
// current CPSR and return address, and jumps to the vector's handler.
func (c *CPU) exception(vector uint8) int {
	modes := [8]uint32{modeSvc, modeUnd, modeSvc, modeAbt, modeAbt, modeSvc, modeIrq, modeFiq}
	oldCpsr := c.cpsr
	c.setCpsr((c.cpsr&^0x3F)|cpsr_I|modes[vector>>2], true)
	c.SetReg(14, c.Reg(15)+((oldCpsr&cpsrThumb)>>4))
	c.SetReg(15, c.mem.ExceptionAddr(c.id)+uint32(vector))
	c.flushPipeline()
	return 3
}

// flushPipeline refills both pipeline stages after a jump, aligning the
// program counter to the current instruction set's word size.
func (c *CPU) flushPipeline() {
	pc := c.view[15]
	if c.cpsr&cpsrThumb != 0 {
		*pc &^= 1
		c.pipeline[0] = uint32(c.mem.Read16(c.id, *pc))
		*pc += 2
		c.pipeline[1] = uint32(c.mem.Read16(c.id, *pc))
	} else {
		*pc &^= 3
		c.pipeline[0] = c.mem.Read32(c.id, *pc)
		*pc += 4
		c.pipeline[1] = c.mem.Read32(c.id, *pc)
	}
}
