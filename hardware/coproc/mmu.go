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

import "github.com/islacore/islacore/hardware/cpu"

// translate resolves a virtual address to a physical one. The A9 has no
// MMU: it either serves from its TCM overlay or passes the address
// through unchanged. Each A11 core either passes the address through
// directly (MMU disabled) or walks its translation tables, caching the
// per-page result until the next invalidation.
func (c *CoProc) translate(id cpu.ID, addr uint32) (uint32, bool) {
	if id == cpu.A9 {
		return c.translateA9(addr), true
	}

	idx := int(id)
	if !c.mmuEnable[idx] {
		return addr, true
	}

	page := addr >> 12
	entry := &c.mmuCache[idx][page]
	if entry.tag != c.mmuTag[idx] {
		phys, ok := c.walk(id, addr)
		if !ok {
			return 0, false
		}
		entry.tag = c.mmuTag[idx]
		entry.phys = phys &^ 0xFFF
	}
	return entry.phys | (addr & 0xFFF), true
}

// translateA9 is the identity mapping: the A9 has no MMU, and the ITCM
// and DTCM overlay windows are served directly by tcmRead/tcmWrite
// before translate ever reaches here, so every address that does arrive
// is already physical.
func (c *CoProc) translateA9(addr uint32) uint32 {
	return addr
}

// walk performs a two-level translation-table lookup: a first-level
// descriptor selecting a coarse page table or a 1MB/16MB section, and
// for the coarse case a second-level descriptor selecting a 64KB large
// page or a 4KB small page.
func (c *CoProc) walk(id cpu.ID, addr uint32) (uint32, bool) {
	idx := int(id)
	var base uint32
	if c.tlbCtrl[idx] != 0 {
		bits := c.tlbCtrl[idx]
		mask := ((uint32(1) << bits) - 1) << (32 - bits)
		if addr&mask != 0 {
			base = c.tlbBase1[idx] & 0xFFFFC000
		} else {
			base = c.tlbBase0[idx] & (0xFFFFC000 | (mask >> 18))
		}
	} else {
		base = c.tlbBase0[idx] & 0xFFFFC000
	}

	first := c.bus.Read32(base + ((addr >> 18) & 0x3FFC))
	switch first & 0x3 {
	case 0x1: // coarse page table
		second := c.bus.Read32((first &^ 0x3FF) + ((addr >> 10) & 0x3FC))
		switch second & 0x3 {
		case 0x1: // 64KB large page
			return (second &^ 0xFFFF) | (addr & 0xFFFF), true
		case 0x2, 0x3: // 4KB small page
			return (second &^ 0xFFF) | (addr & 0xFFF), true
		}
	case 0x2: // section or supersection
		if first&(1<<18) != 0 {
			return (first &^ 0xFFFFFF) | (addr & 0xFFFFFF), true // 16MB supersection
		}
		return (first &^ 0xFFFFF) | (addr & 0xFFFFF), true // 1MB section
	}

	return 0, false
}

// invalidate bumps a core's MMU tag so every cached entry reads as
// stale; on the rare wraparound it clears the cache outright to avoid a
// tag collision with a page that was never actually re-walked.
func (c *CoProc) invalidate(id cpu.ID) {
	idx := int(id)
	c.mmuTag[idx]++
	if c.mmuTag[idx] == 0 {
		for i := range c.mmuCache[idx] {
			c.mmuCache[idx][i] = mmuEntry{}
		}
		c.mmuTag[idx] = 1
	}
}
