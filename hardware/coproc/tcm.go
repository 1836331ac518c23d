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

package coproc

// tcmRead returns a pointer into the ITCM or DTCM backing array for a
// read at addr, or nil if addr falls outside an enabled TCM window.
func (c *CoProc) tcmRead(addr uint32) []byte {
	if c.itcmRead && addr < c.itcmSize {
		return c.itcm[addr&0x7FFF:]
	}
	if c.dtcmRead && addr >= c.dtcmAddr && addr < c.dtcmAddr+c.dtcmSize {
		return c.dtcm[(addr-c.dtcmAddr)&0x3FFF:]
	}
	return nil
}

// tcmWrite returns a pointer into the ITCM or DTCM backing array for a
// write at addr, or nil if addr falls outside an enabled TCM window.
func (c *CoProc) tcmWrite(addr uint32) []byte {
	if c.itcmWrite && addr < c.itcmSize {
		return c.itcm[addr&0x7FFF:]
	}
	if c.dtcmWrite && addr >= c.dtcmAddr && addr < c.dtcmAddr+c.dtcmSize {
		return c.dtcm[(addr-c.dtcmAddr)&0x3FFF:]
	}
	return nil
}
