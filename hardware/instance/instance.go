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

// Package instance defines those parts of the emulator core that might
// change from run to run of the Core type, but are not the core itself.
// Particularly useful when running more than one instance of the emulation
// in parallel, each against its own settings file.
package instance

import (
	"github.com/islacore/islacore/prefs"
	"github.com/islacore/islacore/random"
)

// Settings is the set of named, persisted values described by this
// module's settings file: fpsLimiter, boot11Path, boot9Path, nandPath,
// sdPath, plus keyBinds, a plain String for host-specific key binds.
type Settings struct {
	FPSLimiter prefs.Float
	Boot11Path prefs.String
	Boot9Path  prefs.String
	NandPath   prefs.String
	SdPath     prefs.String
	KeyBinds   prefs.String
}

// Instance defines those parts of the emulator that might change between
// different instantiations of the Core type, but are not the Core itself.
type Instance struct {
	Prefs    *prefs.Disk
	Settings Settings
	Random   *random.Random
}

// NewInstance is the preferred method of initialisation for the Instance
// type. path names the settings file on disk; cycles supplies the
// scheduler's global cycle counter to seed Random.
func NewInstance(path string, cycles random.CycleSource) (*Instance, error) {
	ins := &Instance{
		Random: random.NewRandom(cycles),
	}

	var err error
	ins.Prefs, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	if err := ins.Prefs.Add("fpsLimiter", &ins.Settings.FPSLimiter); err != nil {
		return nil, err
	}
	if err := ins.Prefs.Add("boot11Path", &ins.Settings.Boot11Path); err != nil {
		return nil, err
	}
	if err := ins.Prefs.Add("boot9Path", &ins.Settings.Boot9Path); err != nil {
		return nil, err
	}
	if err := ins.Prefs.Add("nandPath", &ins.Settings.NandPath); err != nil {
		return nil, err
	}
	if err := ins.Prefs.Add("sdPath", &ins.Settings.SdPath); err != nil {
		return nil, err
	}
	if err := ins.Prefs.Add("keyBinds", &ins.Settings.KeyBinds); err != nil {
		return nil, err
	}

	if err := ins.Prefs.Load(); err != nil {
		return nil, err
	}

	return ins, nil
}

// Normalise puts the instance into a known default state. Useful for
// regression testing where the initial state must be the same for every
// run of the test.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
}
