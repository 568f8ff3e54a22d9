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

// NewEmbedded returns the converter for value.Value members. Such members
// hold opaque fragments that travel without interpretation.
func NewEmbedded() apis.Converter {
	return embedded{}
}

type embedded struct{ leaf }

var _ apis.Converter = embedded{}

// CanProcess accepts *value.Value and value.Value, including named types
// defined over value.Value.
func (embedded) CanProcess(t reflect.Type) bool {
	if t == valuePtrType {
		return true
	}
	return t.Kind() == reflect.Struct && t.ConvertibleTo(valueType)
}

func (embedded) TrySerialize(_ apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	if t == valuePtrType {
		return v.Interface().(*value.Value), diag.Ok()
	}
	raw := v.Convert(valueType).Interface().(value.Value)
	return &raw, diag.Ok()
}

func (embedded) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	if t == valuePtrType {
		dst.Set(reflect.ValueOf(data))
		return diag.Ok()
	}
	dst.Set(reflect.ValueOf(*data).Convert(t))
	return diag.Ok()
}
