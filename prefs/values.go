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

package prefs

import (
	"fmt"
	"strconv"
)

// Bool is a boolean preference value. Unlike Float and Int, setting it from
// a string that doesn't parse as a bool is not an error: the value is left
// false, matching the tolerant style this kind of on/off switch wants.
type Bool struct {
	v bool
}

func (b *Bool) Set(v Value) error {
	switch x := v.(type) {
	case bool:
		b.v = x
	case string:
		parsed, err := strconv.ParseBool(x)
		if err != nil {
			b.v = false
			return nil
		}
		b.v = parsed
	default:
		return fmt.Errorf("prefs: unsupported value for bool: %v", v)
	}
	return nil
}

func (b *Bool) String() string {
	if b.v {
		return "true"
	}
	return "false"
}

// Get returns the current value.
func (b *Bool) Get() bool { return b.v }

// String is a string preference value, with an optional maximum length.
type String struct {
	v      string
	maxLen int
}

func (s *String) Set(v Value) error {
	x, ok := v.(string)
	if !ok {
		return fmt.Errorf("prefs: unsupported value for string: %v", v)
	}
	s.v = x
	s.crop()
	return nil
}

func (s *String) crop() {
	if s.maxLen > 0 && len(s.v) > s.maxLen {
		s.v = s.v[:s.maxLen]
	}
}

// SetMaxLen sets a maximum length for the string, cropping the current
// value if it exceeds it. A value of zero removes the limit, but does not
// restore any previously cropped content.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	s.crop()
}

func (s *String) String() string { return s.v }

// Float is a floating-point preference value.
type Float struct {
	v float64
}

func (f *Float) Set(v Value) error {
	switch x := v.(type) {
	case float64:
		f.v = x
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
		f.v = parsed
	default:
		return fmt.Errorf("prefs: unsupported value for float: %v", v)
	}
	return nil
}

func (f *Float) String() string {
	return strconv.FormatFloat(f.v, 'g', -1, 64)
}

// Get returns the current value.
func (f *Float) Get() float64 { return f.v }

// Int is an integer preference value.
type Int struct {
	v int
}

func (i *Int) Set(v Value) error {
	switch x := v.(type) {
	case int:
		i.v = x
	case string:
		parsed, err := strconv.Atoi(x)
		if err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
		i.v = parsed
	default:
		return fmt.Errorf("prefs: unsupported value for int: %v", v)
	}
	return nil
}

func (i *Int) String() string {
	return strconv.Itoa(i.v)
}

// Get returns the current value.
func (i *Int) Get() int { return i.v }

// Generic wraps an arbitrary load/save pair so that a preference whose
// storage doesn't fit Bool/String/Float/Int can still be registered with a
// Disk.
type Generic struct {
	load func(Value) error
	save func() Value
}

// NewGeneric creates a Generic preference value from a load function
// (applied with the raw disk value on Load) and a save function (producing
// the value to persist on Save).
func NewGeneric(load func(Value) error, save func() Value) *Generic {
	return &Generic{load: load, save: save}
}

func (g *Generic) Set(v Value) error {
	return g.load(v)
}

func (g *Generic) String() string {
	return fmt.Sprintf("%v", g.save())
}
