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

// Package test collects small assertion helpers shared by every package's
// test files in this module.
package test

import (
	"math"
	"reflect"
	"testing"
)

// ExpectFailure checks that v represents a failure: false, a non-nil error,
// or any other falsy value.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if ok(v) {
		t.Errorf("expected failure, got success (%v)", v)
	}
}

// ExpectSuccess checks that v represents a success: true, a nil error, or nil.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !ok(v) {
		t.Errorf("expected success, got failure (%v)", v)
	}
}

// ExpectedFailure is an alias of ExpectFailure, used by some test files.
func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectFailure(t, v)
}

// ExpectedSuccess is an alias of ExpectSuccess, used by some test files.
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectSuccess(t, v)
}

func ok(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return x
	case error:
		return x == nil
	default:
		return true
	}
}

// ExpectEquality checks that got and want are deeply equal.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// Equate is an alias of ExpectEquality, used by some test files for brevity.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	ExpectEquality(t, got, want)
}

// ExpectInequality checks that got and want are not deeply equal.
func ExpectInequality(t *testing.T, got, want interface{}) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("expected %v to differ from %v", got, want)
	}
}

// ExpectApproximate checks that got and want are within a relative
// tolerance of each other.
func ExpectApproximate(t *testing.T, got, want float64, tolerance float64) {
	t.Helper()
	if want == 0 {
		if math.Abs(got) > tolerance {
			t.Errorf("expected %v to be within %v of %v", got, tolerance, want)
		}
		return
	}
	if math.Abs(got-want)/math.Abs(want) > tolerance {
		t.Errorf("expected %v to be within relative %v of %v", got, tolerance, want)
	}
}
