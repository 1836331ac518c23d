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

// Per-class cycle costs. These are a flat placeholder model, not a
// cycle-exact pipeline simulation: one cost per instruction class
// regardless of operand addressing mode, cache state or bus
// contention. No handler refers to these constants: every handler returns
// its own literal cost, and costs vary within a class (MUL costs 2, MLA 3
// and the long multiplies 4; a load into PC costs 5; STREX costs 4).
const (
	costALU      = 1
	costShiftReg = 1 // extra cycle added by operand2 for a register-specified shift amount
	costLoad     = 3
	costStore    = 2
	costMultiply = 2
	costBranch   = 3
	costException = 3
)
