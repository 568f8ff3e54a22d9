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

package engine

import (
	"reflect"
	"strconv"
	"unsafe"

	"go.uber.org/zap"

	"dirpx.dev/sval/diag"
	uref "dirpx.dev/sval/utils/reflect"
	"dirpx.dev/sval/value"
)

// identity names one pointee. The type is part of the key because a struct
// and its first field share an address.
type identity struct {
	ptr unsafe.Pointer
	t   reflect.Type
}

// definition is an encoded pointee that may be referenced later. Its "$id"
// is assigned on first reference and written only if one exists.
type definition struct {
	id   string
	data *value.Value
}

// tracksIdentity reports whether pointers of type t take part in
// "$id"/"$ref" tracking: cycles are enabled and the pointee's converter
// asks for it.
func (s *session) tracksIdentity(t reflect.Type) bool {
	if s.e.cfg.DisableCycles {
		return false
	}
	base := uref.Indirect(t)
	conv, ok := s.e.chain.Lookup(base)
	return ok && conv.RequestsCycleSupport(base)
}

// readsReferences reports whether a "$ref" member of a payload decoded as t
// is engine metadata. Only tracked pointers, and interfaces holding them,
// are ever written as references; every other target, raw value.Value
// members included, takes the Map as data.
func (s *session) readsReferences(t reflect.Type) bool {
	if s.e.cfg.DisableCycles {
		return false
	}
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer:
		return s.tracksIdentity(t)
	default:
		return false
	}
}

// resolvable reports whether ref names a pointer already decoded or a
// definition present in the payload.
func (s *session) resolvable(ref *value.Value) bool {
	id, ok := ref.AsString()
	if !ok {
		return false
	}
	if _, ok := s.refs[id]; ok {
		return true
	}
	_, ok = s.definitionNode(id)
	return ok
}

// visit returns a reference node when v was encoded before in this call,
// either earlier in the document or as an ancestor still being encoded.
func (s *session) visit(v reflect.Value, t reflect.Type) (*value.Value, bool) {
	key := identity{ptr: v.UnsafePointer(), t: t}
	def, ok := s.seen[key]
	if !ok {
		if s.seen == nil {
			s.seen = make(map[identity]*definition)
		}
		def = &definition{}
		s.seen[key] = def
		s.defs = append(s.defs, def)
		return nil, false
	}
	if def.id == "" {
		s.refID++
		def.id = strconv.Itoa(s.refID)
	}
	return value.Map(value.M(value.KeyRef, value.String(def.id))), true
}

// define records the encoded form of a pointee registered by visit.
func (s *session) define(v reflect.Value, t reflect.Type, data *value.Value) {
	if def, ok := s.seen[identity{ptr: v.UnsafePointer(), t: t}]; ok {
		def.data = data
	}
}

// finish writes "$id" into every definition that was referenced.
func (s *session) finish() diag.Result {
	var res diag.Result
	for _, def := range s.defs {
		if def.id == "" {
			continue
		}
		obj := def.data.Object()
		if obj == nil {
			res.Merge(diag.Fail(diag.CycleFailure, "referenced value %s did not encode as a Map, %s cannot be attached", def.id, value.KeyID))
			continue
		}
		obj.Prepend(value.KeyID, value.String(def.id))
	}
	return res
}

// resolve stores the value defined under ref into dst.
func (s *session) resolve(ref *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	id, ok := ref.AsString()
	if !ok {
		return diag.Fail(diag.ShapeMismatch, "%s must be a String, got %s", value.KeyRef, ref.Kind())
	}
	target, ok := s.refs[id]
	if !ok {
		// Key order may have changed in transit (sorted maps), putting the
		// reference ahead of its definition. Decode the definition now; it
		// registers itself and is reused when reached in document order.
		def, found := s.definitionNode(id)
		if !found {
			return diag.Fail(diag.CycleFailure, "unresolved reference %q", id)
		}
		s.debug("sval forward reference", zap.String("id", id), zap.Stringer("type", t))
		return s.Decode(def, dst, t)
	}
	return assign(target, dst, t, id)
}

// decodeDefinition decodes a Map carrying "$id" into a pointer, registering
// the pointer before its members so that references inside resolve to it.
func (s *session) decodeDefinition(idv *value.Value, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	id, _ := idv.AsString()
	if target, ok := s.refs[id]; ok {
		return assign(target, dst, t, id)
	}
	ptr := dst
	if ptr.IsNil() {
		ptr = reflect.New(t.Elem())
		ptr.Elem().Set(s.Create(data, t.Elem()))
	}
	if s.refs == nil {
		s.refs = make(map[string]reflect.Value)
	}
	s.refs[id] = ptr
	dst.Set(ptr)
	return s.Decode(data, ptr.Elem(), t.Elem())
}

// definitionNode finds the Map defining id anywhere under the decode root.
func (s *session) definitionNode(id string) (*value.Value, bool) {
	if s.pending == nil {
		s.pending = make(map[string]*value.Value)
		index(s.root, s.pending)
	}
	def, ok := s.pending[id]
	return def, ok
}

func index(v *value.Value, out map[string]*value.Value) {
	switch v.Kind() {
	case value.KindList:
		for _, item := range v.Items() {
			index(item, out)
		}
	case value.KindMap:
		if id, ok := v.Get(value.KeyID); ok {
			if s, ok := id.AsString(); ok {
				if _, dup := out[s]; !dup {
					out[s] = v
				}
			}
		}
		v.Object().Range(func(_ string, member *value.Value) bool {
			index(member, out)
			return true
		})
	}
}

// assign stores target, a pointer, into dst of type t: directly when
// assignable, or as a copy of the pointee when t is the pointee type.
func assign(target reflect.Value, dst reflect.Value, t reflect.Type, id string) diag.Result {
	switch {
	case target.Type().AssignableTo(t):
		dst.Set(target)
	case target.Type().Elem() == t:
		dst.Set(target.Elem())
	default:
		return diag.Fail(diag.CycleFailure, "reference %q is a %s, not assignable to %s", id, target.Type(), t)
	}
	return diag.Ok()
}
