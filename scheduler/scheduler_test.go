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

package scheduler_test

import (
	"testing"

	"github.com/islacore/islacore/hardware/clocks"
	"github.com/islacore/islacore/scheduler"
	"github.com/islacore/islacore/test"
)

// stubCore is a minimal scheduler.Core that always costs 1 cycle per
// opcode and counts how many times it ran.
type stubCore struct {
	cycles scheduler.Cycles
	ran    int
	cost   int
}

func (c *stubCore) Cycles() scheduler.Cycles  { return c.cycles }
func (c *stubCore) SetCycles(v scheduler.Cycles) { c.cycles = v }
func (c *stubCore) RunOpcode() int {
	c.ran++
	if c.cost == 0 {
		return 1
	}
	return c.cost
}

func TestSchedulerOrdering(t *testing.T) {
	s := scheduler.New()

	var order []string
	s.Schedule(100, func() { order = append(order, "A") })
	s.Schedule(50, func() { order = append(order, "B") })
	s.Schedule(50, func() {
		order = append(order, "end")
		s.Stop()
	})

	s.RunFrame()

	test.ExpectEquality(t, order, []string{"B", "end"})
}

func TestSchedulerRunsCoresUntilEvent(t *testing.T) {
	s := scheduler.New()
	core := &stubCore{}
	s.AddCore(core, clocks.A11, nil)

	s.Schedule(10, func() { s.Stop() })
	s.RunFrame()

	if core.ran == 0 {
		t.Fatalf("expected core to run at least once before the event fired")
	}
	if core.cycles < 10 {
		t.Fatalf("expected core cycles to reach the event deadline, got %d", core.cycles)
	}
}

func TestSchedulerSkipsDisabledCores(t *testing.T) {
	s := scheduler.New()
	extra := &stubCore{}
	s.AddCore(extra, clocks.A11, func() bool { return false })

	s.Schedule(10, func() { s.Stop() })
	s.RunFrame()

	test.ExpectEquality(t, extra.ran, 0)
}

func TestHaltedCoreIsIgnored(t *testing.T) {
	s := scheduler.New()
	core := &stubCore{cycles: scheduler.Unreachable}
	s.AddCore(core, clocks.A11, nil)

	s.Schedule(5, func() { s.Stop() })
	s.RunFrame()

	test.ExpectEquality(t, core.ran, 0)
}

func TestRebaseCycles(t *testing.T) {
	s := scheduler.New()
	core := &stubCore{cycles: 1000}
	s.AddCore(core, clocks.A11, nil)
	s.Schedule(500, func() {})

	s.RebaseCycles(400)

	test.ExpectEquality(t, s.GlobalCycles(), scheduler.Cycles(-400))
	test.ExpectEquality(t, core.cycles, scheduler.Cycles(600))
}
