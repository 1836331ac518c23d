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

package instance_test

import (
	"path/filepath"
	"testing"

	"github.com/islacore/islacore/hardware/instance"
	"github.com/islacore/islacore/scheduler"
	"github.com/islacore/islacore/test"
)

type cycles struct{}

func (c cycles) GlobalCycles() scheduler.Cycles {
	return 0
}

func TestNewInstanceMissingFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "settings")

	ins, err := instance.NewInstance(fn, cycles{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ins.Settings.Boot11Path.String(), "")
}

func TestInstanceSettingsRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "settings")

	a, err := instance.NewInstance(fn, cycles{})
	test.ExpectSuccess(t, err)

	err = a.Settings.Boot11Path.Set("/roms/boot11.bin")
	test.ExpectSuccess(t, err)
	err = a.Settings.FPSLimiter.Set(60.0)
	test.ExpectSuccess(t, err)

	err = a.Prefs.Save()
	test.ExpectSuccess(t, err)

	b, err := instance.NewInstance(fn, cycles{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b.Settings.Boot11Path.String(), "/roms/boot11.bin")
}

func TestInstanceNormalise(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "settings")

	ins, err := instance.NewInstance(fn, cycles{})
	test.ExpectSuccess(t, err)

	ins.Random.ZeroSeed = false
	ins.Normalise()
	test.ExpectEquality(t, ins.Random.ZeroSeed, true)
}
