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

	"github.com/google/uuid"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// NewGuid returns the converter for uuid.UUID. Identifiers travel in their
// canonical 36-character form.
func NewGuid() apis.Converter {
	return guid{}
}

type guid struct{ leaf }

var _ apis.Converter = guid{}

func (guid) CanProcess(t reflect.Type) bool {
	return t == uuidType
}

func (guid) TrySerialize(_ apis.Dispatcher, v reflect.Value, _ reflect.Type) (*value.Value, diag.Result) {
	return value.String(v.Interface().(uuid.UUID).String()), diag.Ok()
}

func (guid) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	s, ok := data.AsString()
	if !ok {
		return mismatch(data, t, value.KindString)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s: %v", s, t, err)
	}
	dst.Set(reflect.ValueOf(id))
	return diag.Ok()
}

// CreateInstance yields uuid.Nil.
func (guid) CreateInstance(_ *value.Value, _ reflect.Type) reflect.Value {
	id := uuid.Nil
	return reflect.ValueOf(&id).Elem()
}
