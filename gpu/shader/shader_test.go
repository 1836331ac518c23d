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

package shader

import "testing"

// genOp builds a generic two-operand instruction word: group, the 5-bit
// destination, the 2-bit indirect selector, the 7-bit first source, the
// 5-bit second source, and the 7-bit descriptor index.
func genOp(g, dst, idxSel, src1, src2, descIdx uint32) uint32 {
	return g<<26 | (dst&0x1F)<<21 | (idxSel&0x3)<<19 | (src1&0x7F)<<12 | (src2&0x1F)<<7 | (descIdx & 0x7F)
}

// flowOp builds a branch/loop/call instruction word: group, the 12-bit
// target, the 8-bit trailing-instruction count, and the 4-bit selector
// (bool/int uniform index, or condition ref+mode bits).
func flowOp(g, target, num, sel uint32) uint32 {
	return g<<26 | (sel&0xF)<<22 | (target&0xFFF)<<10 | (num & 0xFF)
}

func packDesc(mask uint8, neg1 bool, sw1 [4]uint8, neg2 bool, sw2 [4]uint8) uint32 {
	d := uint32(mask & 0xF)
	if neg1 {
		d |= 1 << 4
	}
	d |= uint32(sw1[0]&0x3)<<11 | uint32(sw1[1]&0x3)<<9 | uint32(sw1[2]&0x3)<<7 | uint32(sw1[3]&0x3)<<5
	if neg2 {
		d |= 1 << 13
	}
	d |= uint32(sw2[0]&0x3)<<20 | uint32(sw2[1]&0x3)<<18 | uint32(sw2[2]&0x3)<<16 | uint32(sw2[3]&0x3)<<14
	return d
}

var identitySwizzle = [4]uint8{0, 1, 2, 3}

func identityDesc() uint32 {
	return packDesc(0xF, false, identitySwizzle, false, identitySwizzle)
}

func TestMovPassesInputToOutput(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.WriteCode(0, genOp(opMov, 0, 0, 0, 0, 0))
	s.SetEntry(0, 1)

	var in [numInput]Vec4
	in[0] = Vec4{1, 2, 3, 4}
	out := s.Run(in)

	if out[0] != (Vec4{1, 2, 3, 4}) {
		t.Fatalf("mov did not copy input to output: %v", out[0])
	}
}

func TestAddTwoTemps(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.WriteCode(0, genOp(opMov, 0x10, 0, 0, 0, 0))
	s.WriteCode(1, genOp(opMov, 0x11, 0, 1, 0, 0))
	s.WriteCode(2, genOp(opAdd, 0, 0, 0x10, 0x11, 0))
	s.SetEntry(0, 3)

	var in [numInput]Vec4
	in[0] = Vec4{1, 1, 1, 1}
	in[1] = Vec4{2, 3, 4, 5}
	out := s.Run(in)

	if out[0] != (Vec4{3, 4, 5, 6}) {
		t.Fatalf("add produced %v", out[0])
	}
}

func TestDp4Broadcast(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.WriteCode(0, genOp(opDp4, 0, 0, 0, 1, 0))
	s.SetEntry(0, 1)

	var in [numInput]Vec4
	in[0] = Vec4{1, 2, 3, 4}
	in[1] = Vec4{1, 1, 1, 1}
	out := s.Run(in)

	want := float32(1 + 2 + 3 + 4)
	if out[0] != (Vec4{want, want, want, want}) {
		t.Fatalf("dp4 produced %v", out[0])
	}
}

func TestIfuRunsElseWhenBoolFalse(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.SetBool(0, false)
	s.WriteCode(0, flowOp(opIfu, 2, 1, 0))
	s.WriteCode(1, genOp(opMov, 0, 0, 0, 0, 0))
	s.WriteCode(2, genOp(opMov, 0, 0, 1, 0, 0))
	s.SetEntry(0, 3)

	var in [numInput]Vec4
	in[0] = Vec4{1, 1, 1, 1}
	in[1] = Vec4{2, 2, 2, 2}
	out := s.Run(in)

	if out[0] != (Vec4{2, 2, 2, 2}) {
		t.Fatalf("ifu ran the true body instead of the else body: %v", out[0])
	}
}

func TestIfuRunsTrueBodyWhenBoolTrue(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.SetBool(0, true)
	s.WriteCode(0, flowOp(opIfu, 2, 1, 0))
	s.WriteCode(1, genOp(opMov, 0, 0, 0, 0, 0))
	s.WriteCode(2, genOp(opMov, 0, 0, 1, 0, 0))
	s.SetEntry(0, 3)

	var in [numInput]Vec4
	in[0] = Vec4{1, 1, 1, 1}
	in[1] = Vec4{2, 2, 2, 2}
	out := s.Run(in)

	if out[0] != (Vec4{1, 1, 1, 1}) {
		t.Fatalf("ifu ran the else body instead of the true body: %v", out[0])
	}
}

func TestLoopRunsCountPlusOneIterations(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.SetInt(0, 0, 2) // int[0].x: loop runs 2+1 = 3 times
	s.SetInt(0, 1, 0) // int[0].y: initial aL
	s.SetInt(0, 2, 1) // int[0].z: aL step per iteration

	s.WriteCode(0, flowOp(opLoop, 1, 0, 0))
	s.WriteCode(1, genOp(opAdd, 0x10, 0, 0x10, 0, 0))
	s.WriteCode(2, genOp(opMov, 0, 0, 0x10, 0, 0))
	s.SetEntry(0, 3)

	var in [numInput]Vec4
	in[0] = Vec4{1, 0, 0, 0}
	out := s.Run(in)

	if out[0][0] != 3 {
		t.Fatalf("loop accumulated %v, want 3 passes worth", out[0][0])
	}
}

func TestCallReturnsToInstructionAfterCall(t *testing.T) {
	s := New()
	s.WriteDesc(0, identityDesc())
	s.WriteCode(0, flowOp(opCall, 2, 1, 0))
	s.WriteCode(2, genOp(opMov, 0, 0, 0, 0, 0))
	s.SetEntry(0, 1)

	var in [numInput]Vec4
	in[0] = Vec4{7, 7, 7, 7}
	out := s.Run(in)

	if out[0] != (Vec4{7, 7, 7, 7}) {
		t.Fatalf("call did not execute subroutine body: %v", out[0])
	}
}

func TestCmpEqualSetsConditionAndJmpcTakesBranch(t *testing.T) {
	s := New()
	s.WriteDesc(0, packDesc(0xF, false, identitySwizzle, false, identitySwizzle))
	// cmp: EQ (code 0) on both lanes compares input0 against input1
	s.WriteCode(0, genOp(opCmp0, 0, 0, 0, 1, 0))
	// jmpc X-only mode (sel bit3=refX=true, bit2=refY=false, mode=2), jump to pc=3 if cond[0]==true
	s.WriteCode(1, flowOp(opJmpc, 3, 0, 0xA))
	s.WriteCode(2, flowOp(opEnd, 0, 0, 0))      // skipped: would end with output still zero
	s.WriteCode(3, genOp(opMov, 0, 0, 1, 0, 0)) // branch target: output = input1
	s.SetEntry(0, 4)

	var in [numInput]Vec4
	in[0] = Vec4{9, 9, 9, 9}
	in[1] = Vec4{9, 9, 9, 9}
	out := s.Run(in)

	if out[0] != (Vec4{9, 9, 9, 9}) {
		t.Fatalf("jmpc did not branch on a true EQ comparison: %v", out[0])
	}
}
