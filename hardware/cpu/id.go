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

// ID names one of the five interpreter instances that make up the two CPU
// islands: four A11 cores plus the single A9 coprocessor core.
type ID int

const (
	A11_0 ID = iota
	A11_1
	A11_2
	A11_3
	A9
	NumCPUs
)

func (id ID) String() string {
	switch id {
	case A11_0:
		return "a11:0"
	case A11_1:
		return "a11:1"
	case A11_2:
		return "a11:2"
	case A11_3:
		return "a11:3"
	case A9:
		return "a9"
	default:
		return "unknown"
	}
}

// resetVector is the address the program counter is set to, and the
// pipeline is filled from, when a core is initialised.
func (id ID) resetVector() uint32 {
	if id == A9 {
		return 0xFFFF0000
	}
	return 0x00010000
}
