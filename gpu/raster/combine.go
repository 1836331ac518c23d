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

// CombineSrc names where one combiner operand reads its RGBA value from.
type CombineSrc int

const (
	SrcPrimary CombineSrc = iota
	SrcTex0
	SrcTex1
	SrcTex2
	SrcConstant
	SrcPrevious
)

// OperFunc is the per-operand modifier applied before a stage's mode
// combines its operands.
type OperFunc int

const (
	OperSrc OperFunc = iota
	OperOneMinusSrc
	OperSrcAlpha
	OperOneMinusSrcAlpha
)

// CalcMode is how a stage combines its (up to three) operands.
type CalcMode int

const (
	ModeReplace CalcMode = iota
	ModeModulate
	ModeAdd
	ModeAddSigned
	ModeInterpolate
	ModeSub
	ModeDot3
	ModeDot3Alpha
	ModeMulAdd
	ModeAddMul
)

// Stage is one of the six fragment combiner stages: an independent RGB
// and alpha calculation, each selecting up to three sources and operand
// functions.
type Stage struct {
	RGBSrc   [3]CombineSrc
	RGBOper  [3]OperFunc
	RGBMode  CalcMode
	AlphaSrc  [3]CombineSrc
	AlphaOper [3]OperFunc
	AlphaMode CalcMode
	Constant  Vec4
}

// Combiner chains up to six stages, each able to read the previous
// stage's clamped output as one of its own sources.
type Combiner struct {
	Stages [6]Stage
	Count  int
}

func fetch(src CombineSrc, primary Vec4, tex [3]Vec4, constant, prev Vec4) Vec4 {
	switch src {
	case SrcPrimary:
		return primary
	case SrcTex0:
		return tex[0]
	case SrcTex1:
		return tex[1]
	case SrcTex2:
		return tex[2]
	case SrcConstant:
		return constant
	case SrcPrevious:
		return prev
	}
	return Vec4{}
}

func operRGB(op OperFunc, v Vec4) [3]float32 {
	switch op {
	case OperSrc:
		return [3]float32{v[0], v[1], v[2]}
	case OperOneMinusSrc:
		return [3]float32{1 - v[0], 1 - v[1], 1 - v[2]}
	case OperSrcAlpha:
		return [3]float32{v[3], v[3], v[3]}
	case OperOneMinusSrcAlpha:
		return [3]float32{1 - v[3], 1 - v[3], 1 - v[3]}
	}
	return [3]float32{}
}

func operAlpha(op OperFunc, v Vec4) float32 {
	switch op {
	case OperSrc, OperSrcAlpha:
		return v[3]
	case OperOneMinusSrc, OperOneMinusSrcAlpha:
		return 1 - v[3]
	}
	return 0
}

func combine3(mode CalcMode, a, b, c [3]float32) [3]float32 {
	var out [3]float32
	for i := 0; i < 3; i++ {
		switch mode {
		case ModeReplace:
			out[i] = a[i]
		case ModeModulate:
			out[i] = a[i] * b[i]
		case ModeAdd:
			out[i] = a[i] + b[i]
		case ModeAddSigned:
			out[i] = a[i] + b[i] - 0.5
		case ModeInterpolate:
			out[i] = a[i]*c[i] + b[i]*(1-c[i])
		case ModeSub:
			out[i] = a[i] - b[i]
		case ModeMulAdd:
			out[i] = a[i]*b[i] + c[i]
		case ModeAddMul:
			out[i] = (a[i] + b[i]) * c[i]
		}
	}
	if mode == ModeDot3 || mode == ModeDot3Alpha {
		dot := 4 * ((a[0]-0.5)*(b[0]-0.5) + (a[1]-0.5)*(b[1]-0.5) + (a[2]-0.5)*(b[2]-0.5))
		out = [3]float32{dot, dot, dot}
	}
	return out
}

func combine1(mode CalcMode, a, b, c float32, dot3 float32) float32 {
	switch mode {
	case ModeReplace:
		return a
	case ModeModulate:
		return a * b
	case ModeAdd:
		return a + b
	case ModeAddSigned:
		return a + b - 0.5
	case ModeInterpolate:
		return a*c + b*(1-c)
	case ModeSub:
		return a - b
	case ModeDot3, ModeDot3Alpha:
		return dot3
	case ModeMulAdd:
		return a*b + c
	case ModeAddMul:
		return (a + b) * c
	}
	return 0
}

// Eval runs every configured stage, feeding each one's clamped output
// forward as the next stage's SrcPrevious operand, and returns the final
// clamped RGBA.
func (c *Combiner) Eval(primary Vec4, tex [3]Vec4) Vec4 {
	prev := primary
	n := c.Count
	if n <= 0 || n > len(c.Stages) {
		n = len(c.Stages)
	}
	for i := 0; i < n; i++ {
		st := &c.Stages[i]

		var ra, rb, rc [3]float32
		rvals := [3][3]float32{}
		for k := 0; k < 3; k++ {
			v := fetch(st.RGBSrc[k], primary, tex, st.Constant, prev)
			rvals[k] = operRGB(st.RGBOper[k], v)
		}
		ra, rb, rc = rvals[0], rvals[1], rvals[2]
		rgb := combine3(st.RGBMode, ra, rb, rc)

		var aa, ab, ac float32
		avals := [3]float32{}
		dot3 := rgb[0]
		for k := 0; k < 3; k++ {
			v := fetch(st.AlphaSrc[k], primary, tex, st.Constant, prev)
			avals[k] = operAlpha(st.AlphaOper[k], v)
		}
		aa, ab, ac = avals[0], avals[1], avals[2]
		alpha := combine1(st.AlphaMode, aa, ab, ac, dot3)

		prev = clampVec4(Vec4{rgb[0], rgb[1], rgb[2], alpha})
	}
	return prev
}
