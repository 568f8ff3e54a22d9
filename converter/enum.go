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
	"reflect"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/meta"
	"dirpx.dev/sval/value"
)

// NewEnum returns the converter for integer types described as enums
// (see meta.RegisterEnum and apis.EnumDescriber).
//
// The wire shape is chosen per enum on encode. Decoding follows the shape
// of the data instead: a String is read as member names, a number is
// assigned as-is.
func NewEnum() apis.Converter {
	return enum{}
}

type enum struct{ leaf }

var _ apis.Converter = enum{}

func (enum) CanProcess(t reflect.Type) bool {
	_, ok := meta.EnumOf(t)
	return ok
}

func (enum) TrySerialize(d apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	e, _ := meta.EnumOf(t)
	n := meta.IntegerOf(v)
	if e.AsNames(d.Config()) {
		if s := e.FormatNames(n); s != "" {
			return value.String(s), diag.Ok()
		}
		// No declared member is present: the number is the only lossless form.
		return value.Int(n), diag.Warn("%s value %d has no declared member, encoded as a number", t, n)
	}
	if e.Flags {
		return value.Int(e.Aggregate(n)), diag.Ok()
	}
	return value.Int(n), diag.Ok()
}

func (enum) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	e, _ := meta.EnumOf(t)
	switch data.Kind() {
	case value.KindString:
		// Text is names only; numbers travel as KindInt.
		s, _ := data.AsString()
		n, missing := e.ParseNames(s)
		if len(missing) > 0 {
			var res diag.Result
			for _, name := range missing {
				res.Merge(diag.Fail(diag.MissingMember, "%q is not a member of %s", name, t))
			}
			return res
		}
		meta.SetInteger(dst, n)
		return diag.Ok()
	case value.KindInt, value.KindFloat:
		n, ok := data.AsIntegral()
		if !ok {
			return diag.Fail(diag.ShapeMismatch, "%s is not an integral value for %s", data, t)
		}
		meta.SetInteger(dst, n)
		return diag.Ok()
	default:
		return mismatch(data, t, value.KindString, value.KindInt)
	}
}
