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
	"math"
	"reflect"
	"strconv"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// NewPrimitive returns the converter for booleans, numbers and strings,
// including named types over them.
//
// Decoding is lenient where no information is lost: a Bool accepts an Int
// (non-zero is true), an integer accepts an integral Float, and numbers and
// booleans accept their decimal text, which is how dictionary keys arrive.
// Unsigned values above math.MaxInt64 encode as decimal text.
func NewPrimitive() apis.Converter {
	return primitive{}
}

type primitive struct{ leaf }

var _ apis.Converter = primitive{}

func (primitive) CanProcess(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func (primitive) TrySerialize(_ apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	switch t.Kind() {
	case reflect.Bool:
		return value.Bool(v.Bool()), diag.Ok()
	case reflect.String:
		return value.String(v.String()), diag.Ok()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(v.Int()), diag.Ok()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return value.String(strconv.FormatUint(u, 10)), diag.Ok()
		}
		return value.Int(int64(u)), diag.Ok()
	case reflect.Float32:
		// Shortest float32 text, so 0.1 stays 0.1 after widening.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v.Float(), 'g', -1, 32), 64)
		return value.Float(f), diag.Ok()
	default:
		return value.Float(v.Float()), diag.Ok()
	}
}

func (primitive) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	switch t.Kind() {
	case reflect.Bool:
		return decodeBool(data, dst, t)
	case reflect.String:
		s, ok := data.AsString()
		if !ok {
			return mismatch(data, t, value.KindString)
		}
		dst.SetString(s)
		return diag.Ok()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(data, dst, t)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decodeUint(data, dst, t)
	default:
		return decodeFloat(data, dst, t)
	}
}

func decodeBool(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	switch data.Kind() {
	case value.KindBool:
		b, _ := data.AsBool()
		dst.SetBool(b)
	case value.KindInt:
		n, _ := data.AsInt()
		dst.SetBool(n != 0)
	case value.KindString:
		s, _ := data.AsString()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
		}
		dst.SetBool(b)
	default:
		return mismatch(data, t, value.KindBool, value.KindInt)
	}
	return diag.Ok()
}

func decodeInt(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	var n int64
	switch data.Kind() {
	case value.KindInt, value.KindFloat:
		var ok bool
		if n, ok = data.AsIntegral(); !ok {
			return diag.Fail(diag.ShapeMismatch, "%s is not an integral value for %s", data, t)
		}
	case value.KindString:
		s, _ := data.AsString()
		var err error
		if n, err = strconv.ParseInt(s, 10, 64); err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
		}
	default:
		return mismatch(data, t, value.KindInt)
	}
	if dst.OverflowInt(n) {
		return diag.Fail(diag.ShapeMismatch, "%d overflows %s", n, t)
	}
	dst.SetInt(n)
	return diag.Ok()
}

func decodeUint(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	var u uint64
	switch data.Kind() {
	case value.KindInt, value.KindFloat:
		n, ok := data.AsIntegral()
		if !ok {
			return diag.Fail(diag.ShapeMismatch, "%s is not an integral value for %s", data, t)
		}
		if n < 0 {
			return diag.Fail(diag.ShapeMismatch, "%d overflows %s", n, t)
		}
		u = uint64(n)
	case value.KindString:
		s, _ := data.AsString()
		var err error
		if u, err = strconv.ParseUint(s, 10, 64); err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
		}
	default:
		return mismatch(data, t, value.KindInt)
	}
	if dst.OverflowUint(u) {
		return diag.Fail(diag.ShapeMismatch, "%d overflows %s", u, t)
	}
	dst.SetUint(u)
	return diag.Ok()
}

func decodeFloat(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	var f float64
	switch data.Kind() {
	case value.KindInt, value.KindFloat:
		f, _ = data.AsFloat()
	case value.KindString:
		s, _ := data.AsString()
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
		}
	default:
		return mismatch(data, t, value.KindFloat)
	}
	if dst.OverflowFloat(f) {
		return diag.Fail(diag.ShapeMismatch, "%g overflows %s", f, t)
	}
	dst.SetFloat(f)
	return diag.Ok()
}
