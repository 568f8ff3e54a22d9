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

package meta

import (
	"reflect"

	"dirpx.dev/sval/apis"
)

// Property is one serializable member of a Type.
// Properties are built once per type and never mutated afterwards.
type Property struct {
	// Name is the primary wire name.
	Name string
	// FallbackNames are alternate wire names accepted on decode, in order.
	FallbackNames []string
	// MemberName is the Go field name.
	MemberName string
	// Type is the declared storage type of the member.
	Type reflect.Type
	// CanRead reports whether the member is encoded.
	CanRead bool
	// CanWrite reports whether the member is decoded.
	CanWrite bool
	// OmitEmpty skips the member on encode when it holds its zero value.
	OmitEmpty bool

	index []int
}

// Names returns the primary name followed by the fallback names.
func (p *Property) Names() []string {
	out := make([]string, 0, 1+len(p.FallbackNames))
	out = append(out, p.Name)
	return append(out, p.FallbackNames...)
}

// Read returns the member of instance. It reports false when the member is
// reached through a nil embedded pointer.
func (p *Property) Read(instance reflect.Value) (reflect.Value, bool) {
	v := instance
	for i, x := range p.index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// Write stores val into the member of instance, allocating nil embedded
// pointers on the way. instance must be settable. It reports false when an
// embedded pointer cannot be allocated (unexported embedded pointer).
func (p *Property) Write(instance reflect.Value, val reflect.Value) bool {
	v := instance
	for i, x := range p.index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	if !v.CanSet() {
		return false
	}
	v.Set(val)
	return true
}

// ShouldSerialize applies the per-instance serialization predicate: the
// omitempty option and, when instance implements apis.ConditionalSerializer,
// its verdict for this member.
func (p *Property) ShouldSerialize(instance, member reflect.Value) bool {
	if p.OmitEmpty && isEmpty(member) {
		return false
	}
	if cs, ok := asConditional(instance); ok {
		return cs.ShouldSerialize(p.MemberName)
	}
	return true
}

func asConditional(instance reflect.Value) (apis.ConditionalSerializer, bool) {
	if !instance.IsValid() {
		return nil, false
	}
	if instance.CanInterface() {
		if cs, ok := instance.Interface().(apis.ConditionalSerializer); ok {
			return cs, true
		}
	}
	if instance.CanAddr() && instance.Addr().CanInterface() {
		if cs, ok := instance.Addr().Interface().(apis.ConditionalSerializer); ok {
			return cs, true
		}
	}
	return nil, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
