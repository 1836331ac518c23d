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

// CullMode selects which winding, if any, is discarded before rasterizing
// a triangle.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// TextureUnit is one of the three texture samplers a draw can bind.
type TextureUnit struct {
	Addr   uint32
	Width  int
	Height int
	Format TextureFormat
	Enable bool
}

// Config is every piece of fixed-function state a draw call needs beyond
// the vertices themselves, mirroring the registers the command processor
// loads before issuing a primitive.
type Config struct {
	Textures [3]TextureUnit
	Combiner Combiner

	CullMode CullMode

	ViewScaleH, ViewScaleV float32
	ViewStepH, ViewStepV   float32
	FlipY                  bool

	BufWidth, BufHeight int

	ColorAddr   uint32
	ColorFormat ColorFormat
	ColorWrite  bool

	DepthAddr   uint32
	DepthFormat DepthFormat
	DepthWrite  bool
	DepthFunc   DepthFunc
}

// Rasterizer draws clipped, shaded triangles into a color and depth
// buffer pair using a fixed Config.
type Rasterizer struct {
	mem Memory
	cfg Config
}

// New constructs a Rasterizer bound to the given backing memory.
func New(mem Memory) *Rasterizer {
	return &Rasterizer{mem: mem}
}

// SetConfig replaces the fixed-function state used by subsequent draws.
func (r *Rasterizer) SetConfig(cfg Config) {
	r.cfg = cfg
}

// Config returns the fixed-function state currently in effect, so a
// register write that only touches one field can read-modify-write it.
func (r *Rasterizer) Config() Config {
	return r.cfg
}

// Submit clips a post-shader triangle, perspective-divides the survivors,
// and draws the resulting triangle fan.
func (r *Rasterizer) Submit(a, b, c Vertex) {
	poly := clipTriangle(a, b, c)
	if len(poly) < 3 {
		return
	}
	for i := range poly {
		w := poly[i].Pos[3]
		if w == 0 {
			continue
		}
		poly[i].Pos[0] /= w
		poly[i].Pos[1] /= w
		poly[i].Pos[2] /= w
	}
	for i := 2; i < len(poly); i++ {
		r.drawTriangle(poly[0], poly[i-1], poly[i])
	}
}

func (r *Rasterizer) viewport(p Vec4) (x, y float32) {
	x = p[0]*r.cfg.ViewScaleH + r.cfg.ViewScaleH
	sy := float32(1)
	if r.cfg.FlipY {
		sy = -1
	}
	y = p[1]*sy*r.cfg.ViewScaleV + r.cfg.ViewScaleV
	return
}

func cross(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-by) - (by-ay)*(cx-bx)
}

func (r *Rasterizer) drawTriangle(a, b, c Vertex) {
	ax, ay := r.viewport(a.Pos)
	bx, by := r.viewport(b.Pos)
	cx, cy := r.viewport(c.Pos)

	face := cross(ax, ay, bx, by, cx, cy)
	switch r.cfg.CullMode {
	case CullFront:
		if face < 0 {
			return
		}
	case CullBack:
		if face > 0 {
			return
		}
	}

	verts := [3]Vertex{a, b, c}
	screen := [3][2]float32{{ax, ay}, {bx, by}, {cx, cy}}
	order := [3]int{0, 1, 2}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2-i; j++ {
			if screen[order[j]][1] > screen[order[j+1]][1] {
				order[j], order[j+1] = order[j+1], order[j]
			}
		}
	}
	v0, v1, v2 := verts[order[0]], verts[order[1]], verts[order[2]]
	y0, y1, y2 := screen[order[0]][1], screen[order[1]][1], screen[order[2]][1]

	step := r.cfg.ViewStepV
	if step <= 0 {
		step = 1
	}
	// The clip stage already bounded x/y/z to the [-w, w] half-spaces in
	// clip space; here y0/y2 are post-viewport screen coordinates, so the
	// only remaining bound is the buffer itself, enforced per-pixel in
	// drawPixel.
	yStart := y0
	if yStart < 0 {
		yStart = 0
	}
	yEnd := y2
	if max := float32(r.cfg.BufHeight); yEnd > max {
		yEnd = max
	}

	for y := yStart; y <= yEnd; y += step {
		var tLong float32
		if y2 != y0 {
			tLong = (y - y0) / (y2 - y0)
		}
		left := lerpVertex(v0, v2, clamp01(tLong))

		var right Vertex
		if y <= y1 && y1 != y0 {
			t := (y - y0) / (y1 - y0)
			right = lerpVertex(v0, v1, clamp01(t))
		} else if y2 != y1 {
			t := (y - y1) / (y2 - y1)
			right = lerpVertex(v1, v2, clamp01(t))
		} else {
			right = v1
		}

		lx, _ := r.viewport(left.Pos)
		rx, _ := r.viewport(right.Pos)
		if lx > rx {
			left, right = right, left
			lx, rx = rx, lx
		}

		stepH := r.cfg.ViewStepH
		if stepH <= 0 {
			stepH = 1
		}
		for x := lx; x <= rx; x += stepH {
			var t float32
			if rx != lx {
				t = (x - lx) / (rx - lx)
			}
			p := lerpVertex(left, right, clamp01(t))
			r.drawPixel(x, y, p)
		}
	}
}

func (r *Rasterizer) drawPixel(x, y float32, p Vertex) {
	px, py := int(x), int(y)
	if px < 0 || py < 0 || px >= r.cfg.BufWidth || py >= r.cfg.BufHeight {
		return
	}
	ofs := swizzleOffset(px, py, r.cfg.BufWidth)

	newDepth := (p.Pos[2] + 1) / 2
	oldDepth := readDepth(r.mem, r.cfg.DepthAddr, ofs, r.cfg.DepthFormat)
	if !depthTest(r.cfg.DepthFunc, newDepth, oldDepth) {
		return
	}

	var tex [3]Vec4
	for i, unit := range r.cfg.Textures {
		if !unit.Enable {
			continue
		}
		u := int(p.Tex[i][0] * float32(unit.Width))
		v := int(p.Tex[i][1] * float32(unit.Height))
		tex[i] = Sample(r.mem, unit.Addr, unit.Width, unit.Height, unit.Format, u, v)
	}

	final := r.cfg.Combiner.Eval(p.Color, tex)
	if final[3] == 0 {
		return
	}

	if r.cfg.DepthWrite {
		writeDepth(r.mem, r.cfg.DepthAddr, ofs, r.cfg.DepthFormat, newDepth)
	}
	if r.cfg.ColorWrite {
		writeColor(r.mem, r.cfg.ColorAddr, ofs, r.cfg.ColorFormat, final)
	}
}
