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

// Package mmio implements the memory-mapped device register space
// behind hardware/bus's fallthrough path. Only writes to the GPU's
// register window go through a mask-word merge (gpu.WriteReg); the
// interrupt controller's registers set or clear bits as written and the
// timer registers store the written value, with no writable-bits mask
// applied to either. Regions this module doesn't
// model a device for are registered as present but inert: reads return
// zero, writes are dropped, and both log at warning level rather than
// silently succeeding or panicking.
package mmio

import (
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/logger"
)

// Device register regions within hardware/bus.MmioBase..+MmioSize. Three
// are backed by a real model (Interrupts, Timers, the GPU's own register
// window); everything else an emulator of this console would expose (DMA
// engines, the display controller, crypto, storage) is registered-but-
// unimplemented, per the component table's "representative peripherals"
// scope.
const (
	InterruptBase = 0x10000000 + 0x00001000
	InterruptSize = 0x1000

	TimerBase = 0x10000000 + 0x00002000
	TimerSize = 0x1000

	GpuBase = 0x10000000 + 0x00400000
	GpuSize = 0x1000
)

// gpuRegs is the register-write surface gpu.GPU exposes; named locally
// so this package doesn't need to import gpu's dependency chain just to
// route a handful of addresses to it.
type gpuRegs interface {
	WriteReg(id uint32, mask, value uint32)
}

// Dispatcher routes a physical address within the MMIO region to the
// device region that owns it, satisfying bus.Mmio.
type Dispatcher struct {
	log       *logger.Logger
	interrupt *Interrupts
	timer     *Timers
	gpu       gpuRegs
}

// New wires the interrupt controller, timer block, and GPU register
// window into a Dispatcher. Any may be nil, in which case its address
// range falls through to the unimplemented-region handler.
func New(log *logger.Logger, interrupt *Interrupts, timer *Timers, gpu gpuRegs) *Dispatcher {
	return &Dispatcher{log: log, interrupt: interrupt, timer: timer, gpu: gpu}
}

func (d *Dispatcher) Read32(addr uint32) uint32 {
	switch {
	case d.interrupt != nil && inRange(addr, InterruptBase, InterruptSize):
		return d.interrupt.Read32(addr - InterruptBase)
	case d.timer != nil && inRange(addr, TimerBase, TimerSize):
		return d.timer.Read32(addr - TimerBase)
	case d.gpu != nil && inRange(addr, GpuBase, GpuSize):
		// The command FIFO's registers are effectively write-only; a
		// read back returns zero rather than a shadowed value, matching
		// how the command list's own parameters are never read back.
		return 0
	}
	d.log.Logf(logger.Warning, "mmio", errors.UnknownMmioAddress, addr)
	return 0
}

func (d *Dispatcher) Read16(addr uint32) uint16 { return uint16(d.Read32(addr &^ 1)) }
func (d *Dispatcher) Read8(addr uint32) uint8   { return uint8(d.Read32(addr &^ 3)) }

func (d *Dispatcher) Write32(addr uint32, v uint32) {
	switch {
	case d.interrupt != nil && inRange(addr, InterruptBase, InterruptSize):
		d.interrupt.Write32(addr-InterruptBase, v)
		return
	case d.timer != nil && inRange(addr, TimerBase, TimerSize):
		d.timer.Write32(addr-TimerBase, v)
		return
	case d.gpu != nil && inRange(addr, GpuBase, GpuSize):
		d.gpu.WriteReg((addr-GpuBase)>>2, 0xFFFFFFFF, v)
		return
	}
	d.log.Logf(logger.Warning, "mmio", errors.UnknownMmioAddress, addr)
}

func (d *Dispatcher) Write16(addr uint32, v uint16) {
	d.Write32(addr&^1, maskedMerge(d.Read32(addr&^1), uint32(v), 0xFFFF, addr&2))
}

func (d *Dispatcher) Write8(addr uint32, v uint8) {
	d.Write32(addr&^3, maskedMerge(d.Read32(addr&^3), uint32(v), 0xFF, addr&3))
}

// maskedMerge folds a narrow write into the 32-bit register it targets,
// shifting the caller's value and mask into the correct byte lane first.
func maskedMerge(reg, value, mask, lane uint32) uint32 {
	shift := lane * 8
	return (reg &^ (mask << shift)) | ((value & mask) << shift)
}

func inRange(addr, base uint32, size uint32) bool {
	return addr >= base && addr < base+size
}
