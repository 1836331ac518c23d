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

package coproc_test

import (
	"testing"

	"github.com/islacore/islacore/hardware/coproc"
	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/test"
)

type flatBus struct {
	mem map[uint32]byte
}

func newFlatBus() *flatBus { return &flatBus{mem: make(map[uint32]byte)} }

func (b *flatBus) Read8(addr uint32) uint8 { return b.mem[addr] }
func (b *flatBus) Read16(addr uint32) uint16 {
	return uint16(b.mem[addr]) | uint16(b.mem[addr+1])<<8
}
func (b *flatBus) Read32(addr uint32) uint32 {
	return uint32(b.mem[addr]) | uint32(b.mem[addr+1])<<8 | uint32(b.mem[addr+2])<<16 | uint32(b.mem[addr+3])<<24
}
func (b *flatBus) Write8(addr uint32, v uint8) { b.mem[addr] = v }
func (b *flatBus) Write16(addr uint32, v uint16) {
	b.mem[addr], b.mem[addr+1] = byte(v), byte(v>>8)
}
func (b *flatBus) Write32(addr uint32, v uint32) {
	b.mem[addr], b.mem[addr+1], b.mem[addr+2], b.mem[addr+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

type noHalt struct{}

func (noHalt) Halt(id cpu.ID) {}

func TestDirectMapWhenMmuDisabled(t *testing.T) {
	bus := newFlatBus()
	c := coproc.NewCoProc(bus, noHalt{}, logger.NewLogger(10))

	c.Write32(cpu.A11_0, 0x1000, 0xDEADBEEF)
	test.ExpectEquality(t, c.Read32(cpu.A11_0, 0x1000), uint32(0xDEADBEEF))
}

func TestA9ItcmOverlay(t *testing.T) {
	bus := newFlatBus()
	c := coproc.NewCoProc(bus, noHalt{}, logger.NewLogger(10))

	// enable ITCM read+write with a 32KB window: control bit18 set,
	// bit19 clear, itcm size register selecting 0x8000
	c.WriteCoprocReg(cpu.A9, 15, 9, 1, 0, 1, (6<<1))
	c.WriteCoprocReg(cpu.A9, 15, 1, 0, 0, 0, 1<<18)

	c.Write32(cpu.A9, 0x100, 0x12345678)
	test.ExpectEquality(t, c.Read32(cpu.A9, 0x100), uint32(0x12345678))

	// the same write must not have reached the physical bus
	test.ExpectEquality(t, bus.Read32(0x100), uint32(0))
}

func TestCoprocRegisterRoundTrip(t *testing.T) {
	bus := newFlatBus()
	c := coproc.NewCoProc(bus, noHalt{}, logger.NewLogger(10))

	c.WriteCoprocReg(cpu.A11_0, 15, 13, 0, 0, 3, 0xCAFEBABE)
	test.ExpectEquality(t, c.ReadCoprocReg(cpu.A11_0, 15, 13, 0, 0, 3), uint32(0xCAFEBABE))
}

func TestMmuFailedWalkReadsZero(t *testing.T) {
	bus := newFlatBus()
	c := coproc.NewCoProc(bus, noHalt{}, logger.NewLogger(10))

	// a malformed (zero) translation table base means every walk fails;
	// enabling the MMU with no valid tables should therefore log and
	// return a zero read rather than panic
	c.WriteCoprocReg(cpu.A11_0, 15, 1, 0, 0, 0, 1) // MMU enable bit
	test.ExpectEquality(t, c.Read32(cpu.A11_0, 0x1000), uint32(0))
}
