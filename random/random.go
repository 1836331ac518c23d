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

// Package random provides a source of randomness for components that
// need one but which must still be reproducible across two runs seeded from the same
// scheduler state.
package random

import "github.com/islacore/islacore/scheduler"

// CycleSource is satisfied by anything that can report the current global
// cycle count, used to seed a Random's rewindable sequence.
type CycleSource interface {
	GlobalCycles() scheduler.Cycles
}

// Random is a source of pseudo-random numbers that is deterministic for a
// given cycle source. Setting ZeroSeed fixes the seed to a constant value,
// used by regression tests that require identical runs.
type Random struct {
	src CycleSource

	// ZeroSeed forces Rewindable to behave as though the cycle source
	// always reports zero. Useful for regression testing where the initial
	// state must be the same for every run of the test.
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(src CycleSource) *Random {
	return &Random{src: src}
}

// Rewindable returns a value in [0, n) that is a pure function of the
// current cycle count and n, so that rewinding the emulation to an earlier
// cycle and re-deriving the same value reproduces the same sequence.
func (r *Random) Rewindable(n int) int {
	if n <= 0 {
		return 0
	}

	var seed uint64
	if !r.ZeroSeed && r.src != nil {
		seed = uint64(r.src.GlobalCycles())
	}

	// a cheap SplitMix64-style mix; deterministic, not cryptographic
	seed += 0x9E3779B97F4A7C15
	seed = (seed ^ (seed >> 30)) * 0xBF58476D1CE4E5B9
	seed = (seed ^ (seed >> 27)) * 0x94D049BB133111EB
	seed = seed ^ (seed >> 31)

	return int(seed % uint64(n))
}

// NoRewind returns a value in [0, n); it returns the same value that
// Rewindable returns for the same cycle count and n.
func (r *Random) NoRewind(n int) int {
	return r.Rewindable(n)
}
