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

// Package cpu implements the ARM/THUMB interpreter shared by the two CPU
// islands: the four A11 cores and the single A9 coprocessor core. A CPU
// value knows nothing about the scheduler that drives it beyond satisfying
// scheduler.Core; it knows nothing about physical memory layout beyond the
// Memory interface it is constructed with.
//
// Registers are held as a flat user-mode bank plus one small bank per
// privileged mode, with a table of sixteen pointers (view) redirected on
// every mode change so that general register access never needs a mode
// switch in the hot path. This mirrors the banked-register indirection
// used by both CPU islands in real ARM silicon.
package cpu
