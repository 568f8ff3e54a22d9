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

package converter

import (
	"encoding"
	"reflect"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

var (
	valueType           = reflect.TypeFor[value.Value]()
	valuePtrType        = reflect.TypeFor[*value.Value]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Defaults returns the built-in converters in priority order. The
// reflected converter is last: it accepts every struct.
func Defaults() []apis.Converter {
	return []apis.Converter{
		NewEmbedded(),
		NewNullable(),
		NewGuid(),
		NewDate(),
		NewEnum(),
		NewText(),
		NewPrimitive(),
		NewSequence(),
		NewDictionary(),
		NewAny(),
		NewReflected(),
	}
}

// leaf provides the defaults shared by value-like converters: a zero
// instance and no cycle or inheritance support.
type leaf struct{}

func (leaf) CreateInstance(_ *value.Value, t reflect.Type) reflect.Value {
	return reflect.New(t).Elem()
}

func (leaf) RequestsCycleSupport(reflect.Type) bool { return false }

func (leaf) RequestsInheritanceSupport(reflect.Type) bool { return false }

// mismatch reports data of the wrong kind for t.
func mismatch(data *value.Value, t reflect.Type, want ...value.Kind) diag.Result {
	switch len(want) {
	case 0:
		return diag.Fail(diag.ShapeMismatch, "cannot decode %s into %s", data.Kind(), t)
	case 1:
		return diag.Fail(diag.ShapeMismatch, "expected %s for %s, got %s", want[0], t, data.Kind())
	default:
		return diag.Fail(diag.ShapeMismatch, "expected %s or %s for %s, got %s", want[0], want[1], t, data.Kind())
	}
}

// addressable returns v itself when it can be addressed, or an addressable copy.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}
