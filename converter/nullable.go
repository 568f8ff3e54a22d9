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
	"dirpx.dev/sval/value"
)

// NewNullable returns the converter for pointer types. A pointer is
// invisible on the wire: *T encodes exactly as T, and nil as Null (the
// engine intercepts nil before any converter runs).
//
// Identity tracking for pointers is driven by the pointee's converter, so
// this converter itself requests neither cycle nor inheritance support.
func NewNullable() apis.Converter {
	return nullable{}
}

type nullable struct{ leaf }

var _ apis.Converter = nullable{}

func (nullable) CanProcess(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer
}

func (nullable) TrySerialize(d apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	return d.Encode(v.Elem(), t.Elem())
}

// TryDeserialize decodes into the existing pointee when dst is non-nil and
// allocates one otherwise.
func (nullable) TryDeserialize(d apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	ptr := dst
	if ptr.IsNil() {
		ptr = reflect.New(t.Elem())
		ptr.Elem().Set(d.Create(data, t.Elem()))
	}
	res := d.Decode(data, ptr.Elem(), t.Elem())
	dst.Set(ptr)
	return res
}
