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

package mmio

import (
	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/scheduler"
)

// Timers is a free-running 16-bit down-counter with a reload value and
// an interrupt-on-underflow flag, one per register window. It schedules
// its own next tick rather than being polled from RunFrame, matching
// how every other deferred hardware event in this design is driven.
type Timers struct {
	sched  *scheduler.Scheduler
	intr   *Interrupts
	target cpu.ID

	counter uint16
	reload  uint16
	ctrl    uint16
}

const (
	timerEnable    = 1 << 7
	timerIrqEnable = 1 << 6
)

// NewTimers wires a timer block to the scheduler it ticks itself on and
// the interrupt controller it raises a line against on underflow.
func NewTimers(sched *scheduler.Scheduler, intr *Interrupts, target cpu.ID) *Timers {
	return &Timers{sched: sched, intr: intr, target: target}
}

func (t *Timers) prescaler() scheduler.Cycles {
	switch (t.ctrl >> 2) & 0x3 {
	case 1:
		return 64
	case 2:
		return 256
	case 3:
		return 1024
	default:
		return 1
	}
}

func (t *Timers) scheduleTick() {
	if t.ctrl&timerEnable == 0 {
		return
	}
	t.sched.Schedule(t.prescaler(), t.tick)
}

func (t *Timers) tick() {
	if t.ctrl&timerEnable == 0 {
		return
	}
	if t.counter == 0 {
		t.counter = t.reload
		if t.ctrl&timerIrqEnable != 0 {
			t.intr.SendInterrupt(t.target, 8)
		}
	} else {
		t.counter--
	}
	t.scheduleTick()
}

func (t *Timers) Read32(off uint32) uint32 {
	switch off {
	case 0x0:
		return uint32(t.counter)
	case 0x4:
		return uint32(t.reload)
	case 0x8:
		return uint32(t.ctrl)
	}
	return 0
}

func (t *Timers) Write32(off uint32, v uint32) {
	switch off {
	case 0x0:
		t.counter = uint16(v)
	case 0x4:
		t.reload = uint16(v)
	case 0x8:
		wasRunning := t.ctrl&timerEnable != 0
		t.ctrl = uint16(v)
		if t.ctrl&timerEnable != 0 && !wasRunning {
			t.counter = t.reload
			t.scheduleTick()
		}
	}
}
