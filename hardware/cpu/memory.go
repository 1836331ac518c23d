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

// Memory is the view of the shared address space a CPU needs: fetches for
// pipeline fill and decode, and the loads/stores its instruction set
// performs. Implemented by the coprocessor/MMU package, which is
// responsible for translation and caching; a CPU never sees a physical
// address, only the virtual one it computed.
type Memory interface {
	Read32(id ID, addr uint32) uint32
	Read16(id ID, addr uint32) uint16
	Read8(id ID, addr uint32) uint8
	Write32(id ID, addr uint32, v uint32)
	Write16(id ID, addr uint32, v uint16)
	Write8(id ID, addr uint32, v uint8)

	// ExceptionAddr returns the base address this core's exception vector
	// table is installed at; added to the exception's vector offset to
	// find the handler address.
	ExceptionAddr(id ID) uint32

	// ReadCoprocReg and WriteCoprocReg carry out MRC/MCR, the register
	// moves ARM uses to talk to system control and MMU coprocessors.
	ReadCoprocReg(id ID, cpNum int, crn, crm, opc1, opc2 uint8) uint32
	WriteCoprocReg(id ID, cpNum int, crn, crm, opc1, opc2 uint8, v uint32)
}

// Interrupts lets a CPU ask whether, after a CPSR write changes the
// interrupt mask or the current mode, a pending interrupt should now be
// taken.
type Interrupts interface {
	CheckInterrupt(id ID)
}
