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

import "github.com/islacore/islacore/hardware/cpu"

// cpuLine is the pair of exception entries an interrupt line can drive.
type cpuLine interface {
	TakeIRQ()
	TakeFIQ()
}

// Interrupts is the interrupt controller: a per-A11-core local enable/
// pending/acknowledge bank (mirroring an MPCore-style distributor) plus
// the legacy single IE/IF pair the A9 reads through its own register
// window. Field names follow the controller this is grounded on, with
// the per-core arrays widened from two entries to four to cover every
// A11 core this module can run.
type Interrupts struct {
	cores [int(cpu.NumCPUs)]cpuLine

	mpIle [4]uint32
	mpIge uint32
	mpIe  [4]uint32
	mpIp  [4][4]uint32
	mpIa  [4][4]uint32

	irqIe uint32
	irqIf uint32
}

// NewInterrupts constructs a controller with every local enable bank
// reset to all-lines-enabled, matching the controller's own defaults.
func NewInterrupts() *Interrupts {
	in := &Interrupts{}
	for i := range in.mpIe {
		in.mpIe[i] = 0xFFFFFFFF
	}
	return in
}

// RegisterCore attaches a CPU's IRQ/FIQ entry points so SendInterrupt and
// CheckInterrupt can act on it.
func (in *Interrupts) RegisterCore(id cpu.ID, c cpuLine) {
	in.cores[id] = c
}

// SendInterrupt raises line typ's pending bit for id: in the per-core
// pending bank when id is an A11 core index 0..3, and in the shared IF
// register for any id, the A9 included. It then immediately re-checks
// whether that now satisfies an enabled, unmasked line.
func (in *Interrupts) SendInterrupt(id cpu.ID, typ int) {
	if typ < 0 || typ >= 128 {
		return
	}
	word, bit := typ/32, uint32(1)<<uint(typ%32)
	if int(id) < 4 {
		in.mpIp[id][word] |= bit
	}
	in.irqIf |= bit
	in.CheckInterrupt(id)
}

// CheckInterrupt satisfies cpu.Interrupts: it is called after every CPSR
// write (a mode switch or an I/F mask change) so a line that was pending
// but masked can fire the moment the core unmasks it.
func (in *Interrupts) CheckInterrupt(id cpu.ID) {
	core := in.cores[id]
	if core == nil {
		return
	}

	if int(id) < 4 && in.mpIge != 0 {
		idx := int(id)
		for w := 0; w < 4; w++ {
			if in.mpIp[idx][w]&in.mpIe[w] != 0 {
				core.TakeIRQ()
				return
			}
		}
	}

	if id == cpu.A9 && in.irqIf&in.irqIe != 0 {
		core.TakeIRQ()
	}
}

func (in *Interrupts) Read32(off uint32) uint32 {
	switch {
	case off == 0x00:
		return in.mpIge
	case off >= 0x10 && off < 0x20:
		return in.mpIe[(off-0x10)/4]
	case off >= 0x20 && off < 0x30:
		idx, w := addrToCore(off-0x20)
		return in.mpIp[idx][w]
	case off >= 0x30 && off < 0x40:
		idx, w := addrToCore(off-0x30)
		return in.mpIa[idx][w]
	case off == 0x40:
		return in.irqIe
	case off == 0x44:
		return in.irqIf
	}
	return 0
}

func (in *Interrupts) Write32(off uint32, v uint32) {
	switch {
	case off == 0x00:
		in.mpIge = v & 1
	case off >= 0x10 && off < 0x18:
		in.mpIe[(off-0x10)/4] |= v
	case off >= 0x18 && off < 0x20:
		in.mpIe[(off-0x18)/4] &^= v
	case off >= 0x30 && off < 0x40:
		idx, w := addrToCore(off - 0x30)
		in.mpIp[idx][w] &^= v
		in.mpIa[idx][w] |= v
	case off == 0x40:
		in.irqIe = v
	case off == 0x44:
		in.irqIf &^= v
	}
}

func addrToCore(off uint32) (core, word int) {
	return int(off / 16), int((off % 16) / 4)
}
