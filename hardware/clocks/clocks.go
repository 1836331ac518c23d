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

// Package clocks defines the relative clock ratios between the CPU islands
// driven by the scheduler. The A11 application cores are the scheduler's
// time base; the A9 coprocessor and the DSP run at a fixed sub-multiple of
// it.
package clocks

// Divider is the multiple applied to an opcode's cycle cost before it is
// added to a CPU's next-due absolute cycle. A11 cores run at the
// scheduler's native rate; A9 and the DSP are clocked at half that rate, so
// their opcodes are charged twice the cycles.
type Divider int

const (
	A11 Divider = 1
	A9  Divider = 2
	DSP Divider = 2
)
