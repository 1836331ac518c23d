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

package mmio_test

import (
	"testing"

	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/hardware/mmio"
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/scheduler"
	"github.com/islacore/islacore/test"
)

type countingCore struct {
	irqs int
	fiqs int
}

func (c *countingCore) TakeIRQ() { c.irqs++ }
func (c *countingCore) TakeFIQ() { c.fiqs++ }

func TestInterruptRaisesIrqWhenEnabled(t *testing.T) {
	in := mmio.NewInterrupts()
	core := &countingCore{}
	in.RegisterCore(cpu.A11_0, core)
	in.Write32(0x00, 1) // global interrupt enable

	in.SendInterrupt(cpu.A11_0, 3)
	test.ExpectEquality(t, core.irqs, 1)
}

func TestInterruptMaskedWhenGloballyDisabled(t *testing.T) {
	in := mmio.NewInterrupts()
	core := &countingCore{}
	in.RegisterCore(cpu.A11_0, core)

	in.SendInterrupt(cpu.A11_0, 3)
	test.ExpectEquality(t, core.irqs, 0)
}

func TestTimerUnderflowRaisesInterrupt(t *testing.T) {
	sched := scheduler.New()
	in := mmio.NewInterrupts()
	core := &countingCore{}
	in.RegisterCore(cpu.A9, core)
	in.Write32(0x40, 1<<8) // irqIe: enable line 8, the timer's interrupt line

	tm := mmio.NewTimers(sched, in, cpu.A9)
	tm.Write32(0x4, 0) // reload
	tm.Write32(0x0, 0) // counter starts at 0: underflows on the very first tick
	tm.Write32(0x8, 1<<7|1<<6)

	// stop the scheduler right after the timer's self-rescheduled tick
	// fires once, before it can schedule a second one forever
	sched.Schedule(1, func() { sched.Stop() })
	sched.RunFrame()

	test.ExpectEquality(t, core.irqs, 1)
}

func TestDispatcherReadsZeroFromUnmappedAddress(t *testing.T) {
	d := mmio.New(logger.NewLogger(4), nil, nil, nil)
	test.ExpectEquality(t, d.Read32(0x10000000), uint32(0))
}
