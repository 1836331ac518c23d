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

package random_test

import (
	"testing"

	"github.com/islacore/islacore/random"
	"github.com/islacore/islacore/scheduler"
	"github.com/islacore/islacore/test"
)

type cycles struct{}

func (c cycles) GlobalCycles() scheduler.Cycles {
	return 123456
}

func TestRandom(t *testing.T) {
	a := random.NewRandom(cycles{})
	b := random.NewRandom(cycles{})
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Rewindable(i), b.Rewindable(i))
	}
}

func TestRewindableRange(t *testing.T) {
	r := random.NewRandom(cycles{})
	for n := 1; n < 64; n++ {
		v := r.Rewindable(n)
		if v < 0 || v >= n {
			t.Errorf("Rewindable(%d) out of range: %d", n, v)
		}
	}
}
