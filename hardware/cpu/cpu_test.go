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

package cpu_test

import (
	"testing"

	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/test"
)

// flatMemory is a minimal, unbounded Memory implementation good enough to
// drive the interpreter in isolation, without any MMU or device mapping.
type flatMemory struct {
	mem map[uint32]uint32
}

func newFlatMemory() *flatMemory {
	return &flatMemory{mem: make(map[uint32]uint32)}
}

func (m *flatMemory) Read32(id cpu.ID, addr uint32) uint32 { return m.mem[addr&^3] }
func (m *flatMemory) Read16(id cpu.ID, addr uint32) uint16 {
	return uint16(m.mem[addr&^3] >> ((addr & 2) * 8))
}
func (m *flatMemory) Read8(id cpu.ID, addr uint32) uint8 {
	return uint8(m.mem[addr&^3] >> ((addr & 3) * 8))
}
func (m *flatMemory) Write32(id cpu.ID, addr uint32, v uint32) { m.mem[addr&^3] = v }
func (m *flatMemory) Write16(id cpu.ID, addr uint32, v uint16) {
	shift := (addr & 2) * 8
	word := m.mem[addr&^3]
	word = (word &^ (0xFFFF << shift)) | (uint32(v) << shift)
	m.mem[addr&^3] = word
}
func (m *flatMemory) Write8(id cpu.ID, addr uint32, v uint8) {
	shift := (addr & 3) * 8
	word := m.mem[addr&^3]
	word = (word &^ (0xFF << shift)) | (uint32(v) << shift)
	m.mem[addr&^3] = word
}
func (m *flatMemory) ExceptionAddr(id cpu.ID) uint32 { return 0 }
func (m *flatMemory) ReadCoprocReg(id cpu.ID, cpNum int, crn, crm, opc1, opc2 uint8) uint32 {
	return 0
}
func (m *flatMemory) WriteCoprocReg(id cpu.ID, cpNum int, crn, crm, opc1, opc2 uint8, v uint32) {}

type noInterrupts struct{}

func (noInterrupts) CheckInterrupt(id cpu.ID) {}

func newTestCPU(t *testing.T) (*cpu.CPU, *flatMemory) {
	t.Helper()
	mem := newFlatMemory()
	log := logger.NewLogger(100)
	c := cpu.NewCPU(cpu.A11_0, mem, noInterrupts{}, log)
	return c, mem
}

func TestInitSetsResetVector(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Init()
	test.ExpectEquality(t, c.Reg(15), uint32(0x00010000))
}

func TestMovImmediateSetsRegister(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Init()

	pc := c.Reg(15) &^ 3
	// MOV r0, #0 ; AL condition, opcode 1101 (MOV), S=1, imm=0
	mem.Write32(cpu.A11_0, pc, 0xE3B00000)
	c.Init()

	cost := c.RunOpcode()
	test.ExpectEquality(t, c.Reg(0), uint32(0))
	if cost <= 0 {
		t.Fatalf("expected positive cycle cost, got %d", cost)
	}
}

func TestBranchFlushesPipeline(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Init()

	pc := c.Reg(15) &^ 3
	// B #8 ; AL condition, branch forward by two words
	mem.Write32(cpu.A11_0, pc, 0xEA000000)
	c.Init()

	before := c.Reg(15)
	c.RunOpcode()
	test.ExpectEquality(t, c.Reg(15) > before, true)
}

func TestA11Core0StartsRunning(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Init()
	test.ExpectEquality(t, c.Halted(), false)
}
