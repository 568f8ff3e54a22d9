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

package value

import (
	"fmt"
	"math"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	// KindNull is the absent value.
	KindNull Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit IEEE-754 float.
	KindFloat
	// KindString is a UTF-8 string.
	KindString
	// KindList is an ordered sequence of values.
	KindList
	// KindMap is an ordered string-keyed mapping of values.
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of the wire-agnostic value model.
//
// The kind of a node is fixed at construction. Only the contents of List and
// Map nodes may change afterwards (through Append and the Object methods);
// converting a node to another kind always produces a new node.
//
// The zero Value is Null.
type Value struct {
	kind Kind

	// Scalars (only one valid based on kind)
	b bool
	i int64
	f float64
	s string

	// Containers
	list []*Value
	obj  *Object
}

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, b: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, i: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, f: v}
}

// String creates a string value.
func String(v string) *Value {
	return &Value{kind: KindString, s: v}
}

// List creates a list value holding items in order.
// Nil items are stored as Null.
func List(items ...*Value) *Value {
	out := make([]*Value, len(items))
	for i, it := range items {
		out[i] = orNull(it)
	}
	return &Value{kind: KindList, list: out}
}

// Map creates a map value from members. Duplicate keys follow Object.Set:
// the last value wins and keeps the position of the first occurrence.
func Map(members ...Member) *Value {
	obj := NewObject(len(members))
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return &Value{kind: KindMap, obj: obj}
}

// FromObject wraps obj as a map value. A nil obj yields an empty map.
func FromObject(obj *Object) *Value {
	if obj == nil {
		obj = NewObject(0)
	}
	return &Value{kind: KindMap, obj: obj}
}

// Kind returns the variant tag. A nil *Value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is Null (or a nil pointer).
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// IsBool reports whether v is a Bool.
func (v *Value) IsBool() bool { return v.Kind() == KindBool }

// IsInt reports whether v is an Int.
func (v *Value) IsInt() bool { return v.Kind() == KindInt }

// IsFloat reports whether v is a Float.
func (v *Value) IsFloat() bool { return v.Kind() == KindFloat }

// IsNumber reports whether v is an Int or a Float.
func (v *Value) IsNumber() bool { return v.IsInt() || v.IsFloat() }

// IsString reports whether v is a String.
func (v *Value) IsString() bool { return v.Kind() == KindString }

// IsList reports whether v is a List.
func (v *Value) IsList() bool { return v.Kind() == KindList }

// IsMap reports whether v is a Map.
func (v *Value) IsMap() bool { return v.Kind() == KindMap }

// AsBool returns the boolean payload and whether v is a Bool.
func (v *Value) AsBool() (bool, bool) {
	if !v.IsBool() {
		return false, false
	}
	return v.b, true
}

// AsInt returns the integer payload and whether v is an Int.
func (v *Value) AsInt() (int64, bool) {
	if !v.IsInt() {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the numeric payload as float64. Int values are widened.
func (v *Value) AsFloat() (float64, bool) {
	switch v.Kind() {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsIntegral returns the numeric payload as int64 when it has no fractional
// part and fits the int64 range.
func (v *Value) AsIntegral() (int64, bool) {
	switch v.Kind() {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f != math.Trunc(v.f) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(v.f), true
	default:
		return 0, false
	}
}

// AsString returns the string payload and whether v is a String.
func (v *Value) AsString() (string, bool) {
	if !v.IsString() {
		return "", false
	}
	return v.s, true
}

// Items returns the list elements. The slice is shared with v.
func (v *Value) Items() []*Value {
	if !v.IsList() {
		return nil
	}
	return v.list
}

// Len returns the number of list items or map members; 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.obj.Len()
	default:
		return 0
	}
}

// Append adds items to a List. It reports false if v is not a List.
func (v *Value) Append(items ...*Value) bool {
	if !v.IsList() {
		return false
	}
	for _, it := range items {
		v.list = append(v.list, orNull(it))
	}
	return true
}

// Object returns the members of a Map, or nil if v is not a Map.
func (v *Value) Object() *Object {
	if !v.IsMap() {
		return nil
	}
	return v.obj
}

// Get returns the member stored under key when v is a Map.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsMap() {
		return nil, false
	}
	return v.obj.Get(key)
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return Null()
	}
	switch v.kind {
	case KindList:
		out := make([]*Value, len(v.list))
		for i, it := range v.list {
			out[i] = it.Clone()
		}
		return &Value{kind: KindList, list: out}
	case KindMap:
		obj := NewObject(v.obj.Len())
		v.obj.Range(func(key string, val *Value) bool {
			obj.Set(key, val.Clone())
			return true
		})
		return &Value{kind: KindMap, obj: obj}
	default:
		cp := *v
		return &cp
	}
}

// String renders v as compact JSON. It is meant for diagnostics.
func (v *Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.Kind(), err)
	}
	return string(b)
}

func orNull(v *Value) *Value {
	if v == nil {
		return Null()
	}
	return v
}
