/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("sval(reflect): nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after stripping
	// pointers) is not a named type (e.g., anonymous struct, []int, map).
	ErrReflectTypeNotNamed = errors.New("sval(reflect): type has no name")
)

// Normalize strips pointer levels and returns the nearest named type,
// or an error if the pointee is unnamed.
//
// Only pointers are unwrapped: a "$type" discriminator names the concrete
// value stored in an interface, and *T and T share one name.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	t = Indirect(t)
	if t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// Indirect strips every pointer level from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// IsNilable reports whether values of kind k can be nil.
func IsNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// IsNil reports whether v is invalid or a nil value of a nilable kind.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	return IsNilable(v.Kind()) && v.IsNil()
}

// SortKeys orders map keys deterministically: numbers numerically, strings
// and bools by value, everything else by its fmt representation.
func SortKeys(keys []reflect.Value) {
	slices.SortFunc(keys, compareKeys)
}

func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		default:
			return 1
		}
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}
