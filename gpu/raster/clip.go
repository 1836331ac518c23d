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

// distFn reports a vertex's signed distance from one clip plane; the
// vertex is inside the plane's half-space when the result is >= 0.
type distFn func(Vertex) float32

// clipPlanes is the six half-spaces x/y/z are each clipped against,
// compared against -w on the low side and w on the high side.
var clipPlanes = [6]distFn{
	func(v Vertex) float32 { return v.Pos[0] + v.Pos[3] }, // x >= -w
	func(v Vertex) float32 { return v.Pos[3] - v.Pos[0] }, // x <= w
	func(v Vertex) float32 { return v.Pos[1] + v.Pos[3] }, // y >= -w
	func(v Vertex) float32 { return v.Pos[3] - v.Pos[1] }, // y <= w
	func(v Vertex) float32 { return v.Pos[2] + v.Pos[3] }, // z >= -w
	func(v Vertex) float32 { return v.Pos[3] - v.Pos[2] }, // z <= w
}

// intersect finds where the edge a->b crosses a clip plane and returns the
// interpolated vertex at that crossing.
func intersect(a, b Vertex, dist distFn) Vertex {
	da, db := dist(a), dist(b)
	denom := da - db
	if denom == 0 {
		return b
	}
	return lerpVertex(a, b, da/denom)
}

// clipAgainst runs one Sutherland-Hodgman pass of a polygon against a
// single plane.
func clipAgainst(in []Vertex, dist distFn) []Vertex {
	if len(in) == 0 {
		return in
	}
	out := make([]Vertex, 0, len(in)+1)
	prev := in[len(in)-1]
	prevIn := dist(prev) >= 0
	for _, cur := range in {
		curIn := dist(cur) >= 0
		switch {
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur, dist), cur)
		case curIn:
			out = append(out, cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur, dist))
		}
		prev, prevIn = cur, curIn
	}
	return out
}

// clipTriangle clips a triangle against all six planes, returning the
// resulting convex polygon (possibly empty, possibly more than 3 vertices).
func clipTriangle(a, b, c Vertex) []Vertex {
	poly := []Vertex{a, b, c}
	for _, plane := range clipPlanes {
		poly = clipAgainst(poly, plane)
		if len(poly) == 0 {
			return nil
		}
	}
	return poly
}
