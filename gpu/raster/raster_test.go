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

package raster

import "testing"

type fakeMem []byte

func (m fakeMem) Read8(addr uint32) uint8 {
	if int(addr) >= len(m) {
		return 0
	}
	return m[addr]
}

func (m fakeMem) Write8(addr uint32, v uint8) {
	if int(addr) < len(m) {
		m[addr] = v
	}
}

func TestSampleRGBA8RoundTrips(t *testing.T) {
	mem := make(fakeMem, 256)
	ofs := swizzleOffset(0, 0, 8)
	mem[ofs*4+0] = 0x10
	mem[ofs*4+1] = 0x20
	mem[ofs*4+2] = 0x30
	mem[ofs*4+3] = 0xFF

	got := Sample(mem, 0, 8, 8, FmtRGBA8, 0, 0)
	want := Vec4{f8(0x10), f8(0x20), f8(0x30), 1}
	if got != want {
		t.Fatalf("Sample RGBA8 = %v, want %v", got, want)
	}
}

func TestSampleRGB565(t *testing.T) {
	mem := make(fakeMem, 256)
	ofs := swizzleOffset(1, 1, 8)
	w := uint16(0x1F) << 11 // full red, nothing else
	mem[ofs*2] = byte(w)
	mem[ofs*2+1] = byte(w >> 8)

	got := Sample(mem, 0, 8, 8, FmtRGB565, 1, 1)
	if got[0] != 1 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("Sample RGB565 = %v, want pure red", got)
	}
}

func TestCombinerModulatePrimaryAndTexture(t *testing.T) {
	c := Combiner{Count: 1}
	c.Stages[0] = Stage{
		RGBSrc:    [3]CombineSrc{SrcPrimary, SrcTex0, SrcPrimary},
		RGBOper:   [3]OperFunc{OperSrc, OperSrc, OperSrc},
		RGBMode:   ModeModulate,
		AlphaSrc:  [3]CombineSrc{SrcPrimary, SrcPrimary, SrcPrimary},
		AlphaOper: [3]OperFunc{OperSrc, OperSrc, OperSrc},
		AlphaMode: ModeReplace,
	}

	primary := Vec4{1, 0.5, 0, 1}
	tex := [3]Vec4{{0.5, 1, 1, 1}}
	out := c.Eval(primary, tex)

	want := Vec4{0.5, 0.5, 0, 1}
	if out != want {
		t.Fatalf("combiner modulate = %v, want %v", out, want)
	}
}

func TestCombinerInterpolate(t *testing.T) {
	c := Combiner{Count: 1}
	c.Stages[0] = Stage{
		RGBSrc:    [3]CombineSrc{SrcPrimary, SrcConstant, SrcConstant},
		RGBOper:   [3]OperFunc{OperSrc, OperSrc, OperSrcAlpha},
		RGBMode:   ModeInterpolate,
		AlphaMode: ModeReplace,
		Constant:  Vec4{0, 0, 0, 1},
	}
	primary := Vec4{1, 1, 1, 1}
	out := c.Eval(primary, [3]Vec4{})
	// factor (constant's alpha via OperSrcAlpha) is 1, so result is all primary
	if out[0] != 1 || out[1] != 1 || out[2] != 1 {
		t.Fatalf("combiner interpolate = %v", out)
	}
}

func TestDepthTestFunctions(t *testing.T) {
	cases := []struct {
		fn       DepthFunc
		new, old float32
		want     bool
	}{
		{DepthNever, 0, 0, false},
		{DepthAlways, 1, 0, true},
		{DepthEqual, 0.5, 0.5, true},
		{DepthLess, 0.2, 0.5, true},
		{DepthLess, 0.6, 0.5, false},
		{DepthGreaterEqual, 0.5, 0.5, true},
	}
	for _, c := range cases {
		if got := depthTest(c.fn, c.new, c.old); got != c.want {
			t.Fatalf("depthTest(%v, %v, %v) = %v, want %v", c.fn, c.new, c.old, got, c.want)
		}
	}
}

func TestClipTriangleFullyInsideIsUnchanged(t *testing.T) {
	a := Vertex{Pos: Vec4{0, 0.5, 0, 1}}
	b := Vertex{Pos: Vec4{-0.5, -0.5, 0, 1}}
	c := Vertex{Pos: Vec4{0.5, -0.5, 0, 1}}

	poly := clipTriangle(a, b, c)
	if len(poly) != 3 {
		t.Fatalf("clipTriangle dropped an inside triangle: %d verts", len(poly))
	}
}

func TestClipTriangleOutsideIsEmpty(t *testing.T) {
	a := Vertex{Pos: Vec4{10, 10, 0, 1}}
	b := Vertex{Pos: Vec4{11, 10, 0, 1}}
	c := Vertex{Pos: Vec4{10, 11, 0, 1}}

	poly := clipTriangle(a, b, c)
	if poly != nil {
		t.Fatalf("clipTriangle kept a fully-outside triangle: %d verts", len(poly))
	}
}

func TestAssemblerFanReusesAnchor(t *testing.T) {
	a := NewAssembler(PrimFan)
	verts := []Vertex{
		{Color: Vec4{1, 0, 0, 0}},
		{Color: Vec4{2, 0, 0, 0}},
		{Color: Vec4{3, 0, 0, 0}},
		{Color: Vec4{4, 0, 0, 0}},
	}

	var tris [][3]Vertex
	for _, v := range verts {
		if t0, t1, t2, ok := a.Push(v); ok {
			tris = append(tris, [3]Vertex{t0, t1, t2})
		}
	}

	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	if tris[0][0].Color[0] != 1 || tris[1][0].Color[0] != 1 {
		t.Fatalf("fan did not reuse the anchor vertex: %v", tris)
	}
	if tris[1][1].Color[0] != 3 {
		t.Fatalf("fan did not advance the trailing vertex: %v", tris[1])
	}
}

func TestAssemblerStripAlternatesWinding(t *testing.T) {
	a := NewAssembler(PrimStrip)
	verts := make([]Vertex, 5)
	for i := range verts {
		verts[i] = Vertex{Color: Vec4{float32(i), 0, 0, 0}}
	}

	var tris [][3]Vertex
	for _, v := range verts {
		if t0, t1, t2, ok := a.Push(v); ok {
			tris = append(tris, [3]Vertex{t0, t1, t2})
		}
	}
	if len(tris) != 3 {
		t.Fatalf("got %d triangles, want 3", len(tris))
	}
	// first triangle: 0,1,2 in order; second flips to 2,1,3 ... actually
	// the two trailing vertices swap order every other triangle.
	if tris[0][2].Color[0] != 2 || tris[1][2].Color[0] != 3 || tris[2][2].Color[0] != 4 {
		t.Fatalf("strip did not advance its trailing edge: %v", tris)
	}
}

func TestSubmitWritesColorBuffer(t *testing.T) {
	mem := make(fakeMem, 1<<16)
	r := New(mem)
	r.SetConfig(Config{
		BufWidth:    8,
		BufHeight:   8,
		ColorAddr:   0,
		ColorFormat: ColorRGBA8,
		ColorWrite:  true,
		DepthAddr:   1024,
		DepthFormat: DepthFmt16,
		DepthWrite:  true,
		DepthFunc:   DepthAlways,
		ViewScaleH:  4,
		ViewScaleV:  4,
		ViewStepH:   1,
		ViewStepV:   1,
		Combiner:    Combiner{Count: 1, Stages: [6]Stage{{RGBMode: ModeReplace, RGBSrc: [3]CombineSrc{SrcPrimary}, RGBOper: [3]OperFunc{OperSrc}, AlphaMode: ModeReplace, AlphaSrc: [3]CombineSrc{SrcPrimary}, AlphaOper: [3]OperFunc{OperSrc}}}},
	})

	white := Vec4{1, 1, 1, 1}
	a := Vertex{Pos: Vec4{-1, -1, 0, 1}, Color: white}
	b := Vertex{Pos: Vec4{1, -1, 0, 1}, Color: white}
	c := Vertex{Pos: Vec4{0, 1, 0, 1}, Color: white}
	r.Submit(a, b, c)

	ofs := swizzleOffset(4, 4, 8)
	if mem[ofs*4] != 0xFF || mem[ofs*4+3] != 0xFF {
		t.Fatalf("triangle interior pixel was not written: %v", mem[ofs*4:ofs*4+4])
	}
}
