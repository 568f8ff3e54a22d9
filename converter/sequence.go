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
	"encoding/base64"
	"reflect"
	"strconv"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// NewSequence returns the converter for slices and arrays. Byte slices
// travel as a base64 String; everything else as a List.
func NewSequence() apis.Converter {
	return sequence{}
}

type sequence struct{ leaf }

var _ apis.Converter = sequence{}

func (sequence) CanProcess(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func (sequence) TrySerialize(d apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	if isBytes(t) {
		return value.String(base64.StdEncoding.EncodeToString(v.Bytes())), diag.Ok()
	}
	n := v.Len()
	items := make([]*value.Value, 0, n)
	var res diag.Result
	for i := 0; i < n; i++ {
		item, r := d.Encode(v.Index(i), t.Elem())
		res.Merge(r.Within(index(i)))
		items = append(items, item)
	}
	return value.List(items...), res
}

func (sequence) TryDeserialize(d apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	if isBytes(t) && data.IsString() {
		s, _ := data.AsString()
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse base64 into a %s: %v", t, err)
		}
		dst.SetBytes(b)
		return diag.Ok()
	}
	if !data.IsList() {
		return mismatch(data, t, value.KindList)
	}
	items := data.Items()
	var res diag.Result

	var out reflect.Value
	n := len(items)
	if t.Kind() == reflect.Array {
		out = reflect.New(t).Elem()
		if n > t.Len() {
			res.Merge(diag.Warn("%d items decoded into %s, %d ignored", n, t, n-t.Len()))
			n = t.Len()
		}
	} else {
		out = reflect.MakeSlice(t, n, n)
	}
	for i := 0; i < n; i++ {
		el := out.Index(i)
		el.Set(d.Create(items[i], t.Elem()))
		res.Merge(d.Decode(items[i], el, t.Elem()).Within(index(i)))
	}
	dst.Set(out)
	return res
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
