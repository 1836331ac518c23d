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

package bus_test

import (
	"testing"

	"github.com/islacore/islacore/hardware/bus"
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/test"
)

type stubMmio struct {
	reads  map[uint32]uint32
	writes map[uint32]uint32
}

func newStubMmio() *stubMmio {
	return &stubMmio{reads: make(map[uint32]uint32), writes: make(map[uint32]uint32)}
}

func (m *stubMmio) Read32(addr uint32) uint32   { return m.reads[addr] }
func (m *stubMmio) Read16(addr uint32) uint16   { return uint16(m.reads[addr]) }
func (m *stubMmio) Read8(addr uint32) uint8      { return uint8(m.reads[addr]) }
func (m *stubMmio) Write32(addr uint32, v uint32) { m.writes[addr] = v }
func (m *stubMmio) Write16(addr uint32, v uint16) { m.writes[addr] = uint32(v) }
func (m *stubMmio) Write8(addr uint32, v uint8)   { m.writes[addr] = uint32(v) }

func TestFcramReadWrite(t *testing.T) {
	mmio := newStubMmio()
	b := bus.New(mmio, logger.NewLogger(10))

	b.Write32(bus.FcramBase+0x100, 0xA5A5A5A5)
	test.ExpectEquality(t, b.Read32(bus.FcramBase+0x100), uint32(0xA5A5A5A5))
}

func TestBootRomIsReadOnly(t *testing.T) {
	mmio := newStubMmio()
	b := bus.New(mmio, logger.NewLogger(10))
	b.LoadBoot11([]byte{0x01, 0x02, 0x03, 0x04})

	test.ExpectEquality(t, b.Read32(bus.Boot11Base), uint32(0x04030201))

	b.Write32(bus.Boot11Base, 0xFFFFFFFF)
	test.ExpectEquality(t, b.Read32(bus.Boot11Base), uint32(0x04030201))
}

func TestUnmappedAddressFallsThroughToMmio(t *testing.T) {
	mmio := newStubMmio()
	b := bus.New(mmio, logger.NewLogger(10))

	mmio.reads[bus.MmioBase] = 0x1234
	test.ExpectEquality(t, b.Read32(bus.MmioBase), uint32(0x1234))

	b.Write32(bus.MmioBase, 0x5678)
	test.ExpectEquality(t, mmio.writes[bus.MmioBase], uint32(0x5678))
}
