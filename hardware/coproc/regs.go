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

import (
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/logger"
)

func regKey(crn, crm, opc1, opc2 uint8) uint32 {
	return uint32(crn)<<16 | uint32(crm)<<8 | uint32(opc2) | uint32(opc1)<<24
}

// ReadCoprocReg satisfies cpu.Memory, executing MRC against the
// system-control coprocessor registers the A11/A9 share (with
// per-core-type register maps).
func (c *CoProc) ReadCoprocReg(id cpu.ID, cpNum int, crn, crm, opc1, opc2 uint8) uint32 {
	if id != cpu.A9 {
		switch regKey(crn, crm, opc1, opc2) {
		case regKey(0, 0, 0, 5):
			return uint32(id)
		case regKey(1, 0, 0, 0):
			return c.ctrlRegs[id]
		case regKey(2, 0, 0, 0):
			return c.tlbBase0[id]
		case regKey(2, 0, 0, 1):
			return c.tlbBase1[id]
		case regKey(2, 0, 0, 2):
			return c.tlbCtrl[id]
		case regKey(7, 4, 0, 0):
			return c.physAddrReg[id]
		case regKey(13, 0, 0, 2):
			return c.threadID[id][0]
		case regKey(13, 0, 0, 3):
			return c.threadID[id][1]
		case regKey(13, 0, 0, 4):
			return c.threadID[id][2]
		}
	} else {
		switch regKey(crn, crm, opc1, opc2) {
		case regKey(0, 0, 0, 0):
			return 0x41059461
		case regKey(0, 0, 0, 1):
			return 0x0F0D2112
		case regKey(1, 0, 0, 0):
			return c.ctrlRegs[id]
		case regKey(9, 1, 0, 0):
			return c.dtcmReg
		case regKey(9, 1, 0, 1):
			return c.itcmReg
		}
	}

	c.log.Logf(logger.Warning, id.String(), errors.UnknownCoprocReg, crn, crm, opc2)
	return 0
}

// WriteCoprocReg satisfies cpu.Memory, executing MCR against the
// system-control coprocessor registers.
func (c *CoProc) WriteCoprocReg(id cpu.ID, cpNum int, crn, crm, opc1, opc2 uint8, v uint32) {
	if id != cpu.A9 {
		switch regKey(crn, crm, opc1, opc2) {
		case regKey(1, 0, 0, 0):
			c.writeCtrl11(id, v)
			return
		case regKey(2, 0, 0, 0):
			c.writeTlbBase0(id, v)
			return
		case regKey(2, 0, 0, 1):
			c.writeTlbBase1(id, v)
			return
		case regKey(2, 0, 0, 2):
			c.writeTlbCtrl(id, v)
			return
		case regKey(7, 0, 0, 4):
			c.halt.Halt(id)
			return
		case regKey(7, 8, 0, 0), regKey(7, 8, 0, 1), regKey(7, 8, 0, 2), regKey(7, 8, 0, 3):
			c.physAddrReg[id], _ = c.translate(id, v)
			return
		case regKey(8, 5, 0, 0), regKey(8, 5, 0, 1), regKey(8, 5, 0, 2), regKey(8, 5, 0, 3),
			regKey(8, 6, 0, 0), regKey(8, 6, 0, 1), regKey(8, 6, 0, 2), regKey(8, 6, 0, 3),
			regKey(8, 7, 0, 0), regKey(8, 7, 0, 1), regKey(8, 7, 0, 2), regKey(8, 7, 0, 3):
			c.invalidate(id)
			return
		case regKey(13, 0, 0, 2):
			c.threadID[id][0] = v
			return
		case regKey(13, 0, 0, 3):
			c.threadID[id][1] = v
			return
		case regKey(13, 0, 0, 4):
			c.threadID[id][2] = v
			return
		case regKey(7, 5, 0, 1), regKey(7, 6, 0, 1), regKey(7, 10, 0, 1), regKey(7, 10, 0, 4),
			regKey(7, 10, 0, 5), regKey(7, 14, 0, 1):
			return // cache/barrier maintenance, no cache model to maintain
		}
	} else {
		switch regKey(crn, crm, opc1, opc2) {
		case regKey(1, 0, 0, 0):
			c.writeCtrl9(id, v)
			return
		case regKey(7, 0, 0, 4), regKey(7, 8, 0, 2):
			c.halt.Halt(id)
			return
		case regKey(9, 1, 0, 0):
			c.writeDtcm(v)
			return
		case regKey(9, 1, 0, 1):
			c.writeItcm(v)
			return
		case regKey(7, 5, 0, 1), regKey(7, 6, 0, 1), regKey(7, 10, 0, 1), regKey(7, 10, 0, 4),
			regKey(7, 14, 0, 1):
			return
		}
	}

	c.log.Logf(logger.Warning, id.String(), errors.UnknownCoprocReg, crn, crm, opc2)
}

func (c *CoProc) writeCtrl11(id cpu.ID, v uint32) {
	const writable = 0x32C0BB07
	c.ctrlRegs[id] = (c.ctrlRegs[id] &^ writable) | (v & writable)
	c.mmuEnable[id] = c.ctrlRegs[id]&1 != 0
	if c.ctrlRegs[id]&(1<<13) != 0 {
		c.exceptAddrs[id] = 0xFFFF0000
	} else {
		c.exceptAddrs[id] = 0
	}
}

func (c *CoProc) writeCtrl9(id cpu.ID, v uint32) {
	const writable = 0xFF085
	c.ctrlRegs[id] = (c.ctrlRegs[id] &^ writable) | (v & writable)
	if c.ctrlRegs[id]&(1<<13) != 0 {
		c.exceptAddrs[id] = 0xFFFF0000
	} else {
		c.exceptAddrs[id] = 0
	}
	c.dtcmRead = c.ctrlRegs[id]&(1<<16) != 0 && c.ctrlRegs[id]&(1<<17) == 0
	c.dtcmWrite = c.ctrlRegs[id]&(1<<16) != 0
	c.itcmRead = c.ctrlRegs[id]&(1<<18) != 0 && c.ctrlRegs[id]&(1<<19) == 0
	c.itcmWrite = c.ctrlRegs[id]&(1<<18) != 0
}

func (c *CoProc) writeTlbBase0(id cpu.ID, v uint32) {
	c.tlbBase0[id] = v
	c.invalidate(id)
}

func (c *CoProc) writeTlbBase1(id cpu.ID, v uint32) {
	c.tlbBase1[id] = v
	c.invalidate(id)
}

func (c *CoProc) writeTlbCtrl(id cpu.ID, v uint32) {
	c.tlbCtrl[id] = v & 0x7
	c.invalidate(id)
}

func (c *CoProc) writeDtcm(v uint32) {
	c.dtcmReg = v
	c.dtcmAddr = v &^ 0xFFF
	c.dtcmSize = max32(0x1000, 0x200<<((v>>1)&0x1F))
}

func (c *CoProc) writeItcm(v uint32) {
	c.itcmReg = v
	c.itcmSize = max32(0x1000, 0x200<<((v>>1)&0x1F))
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
