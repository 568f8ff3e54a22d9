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

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// NewText returns the converter for types that know their own textual
// form: T or *T implements encoding.TextMarshaler and *T implements
// encoding.TextUnmarshaler. Such values travel as a String.
func NewText() apis.Converter {
	return text{}
}

type text struct{ leaf }

var _ apis.Converter = text{}

func (text) CanProcess(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return false
	}
	pt := reflect.PointerTo(t)
	return (t.Implements(textMarshalerType) || pt.Implements(textMarshalerType)) &&
		pt.Implements(textUnmarshalerType)
}

func (text) TrySerialize(_ apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	m, ok := v.Interface().(encoding.TextMarshaler)
	if !ok {
		m = addressable(v).Addr().Interface().(encoding.TextMarshaler)
	}
	b, err := m.MarshalText()
	if err != nil {
		return nil, diag.Fail(diag.ParseFailure, "unable to format %s as text: %v", t, err)
	}
	return value.String(string(b)), diag.Ok()
}

func (text) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	s, ok := data.AsString()
	if !ok {
		return mismatch(data, t, value.KindString)
	}
	ptr := reflect.New(t)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s: %v", s, t, err)
	}
	dst.Set(ptr.Elem())
	return diag.Ok()
}
