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

// Package scheduler implements the cycle-accurate global scheduler that
// interleaves CPU islands running at different clock ratios with a queue of
// deferred hardware events.
package scheduler

import "github.com/islacore/islacore/hardware/clocks"

// Cycles is an absolute position on the global cycle counter. -1 means the
// owning CPU is halted or otherwise unreachable and should be skipped.
type Cycles int64

// Unreachable is the sentinel value of a halted CPU's next-due cycle.
const Unreachable Cycles = -1

// Task is a deferred unit of work run when its deadline is reached.
type Task func()

// event is one entry in the deadline-ordered queue.
type event struct {
	deadline Cycles
	seq      int64
	task     Task
}

// Core is the minimal interface the scheduler needs from a CPU island in
// order to interleave it with others. hardware/cpu.CPU implements this.
type Core interface {
	Cycles() Cycles
	SetCycles(Cycles)
	RunOpcode() int
}

// coreSlot binds a Core to its clock divider and an enablement check (used
// for the "extra mode" A11 cores 2 and 3, which only run when enabled).
type coreSlot struct {
	core    Core
	divider clocks.Divider
	enabled func() bool
}

// Scheduler owns the global cycle counter and the deadline-ordered event
// queue, and drives every registered CPU core through RunFrame.
type Scheduler struct {
	global  Cycles
	events  []event
	nextSeq int64
	cores   []coreSlot
	running bool
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// GlobalCycles returns the current global cycle counter, satisfying
// random.CycleSource.
func (s *Scheduler) GlobalCycles() Cycles {
	return s.global
}

// AddCore registers a CPU island to be advanced by RunFrame. enabled may be
// nil, meaning always enabled.
func (s *Scheduler) AddCore(c Core, divider clocks.Divider, enabled func() bool) {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	s.cores = append(s.cores, coreSlot{core: c, divider: divider, enabled: enabled})
}

// Schedule inserts a task at global_cycles+delay, keeping events sorted by
// deadline with ties broken by insertion order.
func (s *Scheduler) Schedule(delay Cycles, task Task) {
	ev := event{deadline: s.global + delay, seq: s.nextSeq, task: task}
	s.nextSeq++

	i := len(s.events)
	for i > 0 && (s.events[i-1].deadline > ev.deadline ||
		(s.events[i-1].deadline == ev.deadline && s.events[i-1].seq > ev.seq)) {
		i--
	}
	s.events = append(s.events, event{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = ev
}

// Stop clears the running flag; takes effect at the next frame-end
// boundary check.
func (s *Scheduler) Stop() {
	s.running = false
}

// RunFrame advances every enabled core to the next event boundary, fires
// every event whose deadline has passed, and repeats until some task calls
// Stop (conventionally the frame-end task).
func (s *Scheduler) RunFrame() {
	s.running = true
	for s.running {
		for len(s.events) > 0 && s.events[0].deadline > s.global {
			minNext := Unreachable
			for _, slot := range s.cores {
				if !slot.enabled() {
					continue
				}
				cur := slot.core.Cycles()
				if cur != Unreachable && cur <= s.global {
					cost := slot.core.RunOpcode()
					cur = s.global + Cycles(cost)*Cycles(slot.divider)
					slot.core.SetCycles(cur)
				}
				if cur != Unreachable && (minNext == Unreachable || cur < minNext) {
					minNext = cur
				}
			}
			if minNext == Unreachable {
				// every enabled core is halted; nothing more to do before
				// the next event, so jump straight to it
				break
			}
			s.global = minNext
		}

		if len(s.events) == 0 {
			s.running = false
			break
		}

		s.global = s.events[0].deadline
		for len(s.events) > 0 && s.events[0].deadline <= s.global {
			task := s.events[0].task
			s.events = s.events[1:]
			task()
		}
	}
}

// RebaseCycles subtracts origin from the global counter, every tracked
// core's next-due cycle (unless halted), and every pending event's
// deadline. Used by a periodic reset task to keep cycle counters bounded;
// every counter the scheduler tracks is enumerated here in one place so
// that none is missed by a rebase.
func (s *Scheduler) RebaseCycles(origin Cycles) {
	s.global -= origin
	for _, slot := range s.cores {
		if c := slot.core.Cycles(); c != Unreachable {
			slot.core.SetCycles(c - origin)
		}
	}
	for i := range s.events {
		s.events[i].deadline -= origin
	}
}
