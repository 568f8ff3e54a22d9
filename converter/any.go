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

var (
	anyType   = reflect.TypeFor[any]()
	anySlice  = reflect.TypeFor[[]any]()
	anyObject = reflect.TypeFor[map[string]any]()
)

// NewAny returns the converter for interface types.
//
// A value stored in an interface is encoded as its concrete type. The
// engine adds the "$type" discriminator and resolves it on decode; what
// reaches this converter on decode carries no usable discriminator, so the
// payload is rebuilt from its shape: bool, int64, float64, string, []any
// and map[string]any.
func NewAny() apis.Converter {
	return anyConverter{}
}

type anyConverter struct{ leaf }

var _ apis.Converter = anyConverter{}

func (anyConverter) CanProcess(t reflect.Type) bool {
	return t.Kind() == reflect.Interface
}

// RequestsInheritanceSupport is true: an interface is where a concrete
// type cannot be recovered from the declared one.
func (anyConverter) RequestsInheritanceSupport(reflect.Type) bool { return true }

func (anyConverter) TrySerialize(d apis.Dispatcher, v reflect.Value, _ reflect.Type) (*value.Value, diag.Result) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return d.Encode(v, v.Type())
}

func (anyConverter) TryDeserialize(d apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	if content, ok := data.Get(value.KeyContent); ok {
		data = content
	}
	var (
		out reflect.Value
		res diag.Result
	)
	switch data.Kind() {
	case value.KindBool:
		b, _ := data.AsBool()
		out = reflect.ValueOf(b)
	case value.KindInt:
		n, _ := data.AsInt()
		out = reflect.ValueOf(n)
	case value.KindFloat:
		f, _ := data.AsFloat()
		out = reflect.ValueOf(f)
	case value.KindString:
		s, _ := data.AsString()
		out = reflect.ValueOf(s)
	case value.KindList:
		items := data.Items()
		list := reflect.MakeSlice(anySlice, len(items), len(items))
		for i, item := range items {
			res.Merge(d.Decode(item, list.Index(i), anyType).Within(index(i)))
		}
		out = list
	case value.KindMap:
		obj := reflect.MakeMapWithSize(anyObject, data.Len())
		data.Object().Range(func(key string, node *value.Value) bool {
			// A "$ref" that reaches this point resolved to nothing and
			// belongs to the document.
			if value.IsReservedKey(key) && key != value.KeyRef {
				return true
			}
			el := reflect.New(anyType).Elem()
			res.Merge(d.Decode(node, el, anyType).Within(key))
			obj.SetMapIndex(reflect.ValueOf(key), el)
			return true
		})
		out = obj
	default:
		return mismatch(data, t)
	}
	if !out.Type().AssignableTo(t) {
		return diag.Fail(diag.ShapeMismatch, "cannot decode %s into %s without a %s discriminator", data.Kind(), t, value.KeyType)
	}
	dst.Set(out)
	return res
}
