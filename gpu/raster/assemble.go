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

// PrimMode selects how a stream of shaded vertices is grouped into
// triangles.
type PrimMode int

const (
	PrimTriangles PrimMode = iota
	PrimStrip
	PrimFan
)

// Assembler turns a sequential vertex stream into triangles, reusing the
// last one or two vertices the way the command processor's vertex cache
// does for strips and fans rather than requiring every vertex to be
// resubmitted three times.
type Assembler struct {
	mode  PrimMode
	count int
	v0    Vertex
	v1    Vertex
	flip  bool
}

// NewAssembler constructs an Assembler for the given primitive topology.
func NewAssembler(mode PrimMode) *Assembler {
	return &Assembler{mode: mode}
}

// Push feeds one shaded vertex in. It returns a triangle and true once
// enough vertices have been seen to emit one.
func (a *Assembler) Push(v Vertex) (t0, t1, t2 Vertex, ok bool) {
	a.count++
	switch a.mode {
	case PrimTriangles:
		switch (a.count - 1) % 3 {
		case 0:
			a.v0 = v
		case 1:
			a.v1 = v
		case 2:
			return a.v0, a.v1, v, true
		}
	case PrimFan:
		switch a.count {
		case 1:
			a.v0 = v
		case 2:
			a.v1 = v
		default:
			t0, t1, t2 = a.v0, a.v1, v
			a.v1 = v
			return t0, t1, t2, true
		}
	case PrimStrip:
		switch a.count {
		case 1:
			a.v0 = v
		case 2:
			a.v1 = v
		default:
			if a.flip {
				t0, t1, t2 = a.v1, a.v0, v
			} else {
				t0, t1, t2 = a.v0, a.v1, v
			}
			a.flip = !a.flip
			a.v0, a.v1 = a.v1, v
			return t0, t1, t2, true
		}
	}
	return Vertex{}, Vertex{}, Vertex{}, false
}

// Reset clears accumulated vertices, starting a fresh primitive of the
// same topology.
func (a *Assembler) Reset() {
	a.count = 0
	a.flip = false
}

// SetMode switches the topology a subsequent vertex stream is assembled
// under, discarding whatever partial primitive was in progress.
func (a *Assembler) SetMode(mode PrimMode) {
	a.mode = mode
	a.Reset()
}
