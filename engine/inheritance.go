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

	"go.uber.org/zap"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	uref "dirpx.dev/sval/utils/reflect"
	"dirpx.dev/sval/value"
)

// inherits reports whether values of concrete type t carry a "$type"
// discriminator when stored in an interface. It is the answer of the
// converter of t's pointee: leaf values (numbers, dates, identifiers,
// enums) decode by shape and never need one.
func (s *session) inherits(t reflect.Type) bool {
	if s.e.resolver == nil {
		return false
	}
	base := uref.Indirect(t)
	conv, ok := s.e.chain.Lookup(base)
	return ok && conv.RequestsInheritanceSupport(base)
}

// writeType adds "$type" naming v's type to data. A Map gets the member in
// place; anything else is wrapped as {"$type": ..., "$content": data}.
// The name is recorded in the registry so the same engine can decode it.
func (s *session) writeType(data *value.Value, v reflect.Value, t reflect.Type) *value.Value {
	if s.e.resolver == nil {
		return data
	}
	var name string
	if v.IsValid() && v.CanInterface() {
		name = s.e.resolver.Resolve(v.Interface(), s.e.cfg)
	} else {
		name = s.e.resolver.ResolveType(t, s.e.cfg)
	}
	if name == "" {
		return data
	}
	if s.e.registry != nil {
		if err := s.e.registry.Register(t, name); err != nil {
			s.debug("sval type name not recorded", zap.String("name", name), zap.Stringer("type", t), zap.Error(err))
		}
	}
	if obj := data.Object(); obj != nil {
		obj.Prepend(value.KeyType, value.String(name))
		return data
	}
	return value.Map(
		value.M(value.KeyType, value.String(name)),
		value.M(value.KeyContent, data),
	)
}

// foreignMetadata reports whether a Map payload carries reserved keys at
// its top level that the engine did not put there.
func foreignMetadata(data *value.Value) bool {
	found := false
	data.Object().Range(func(key string, _ *value.Value) bool {
		found = value.IsReservedKey(key)
		return !found
	})
	return found
}

// shield wraps a payload with foreign reserved keys as {"$content": data},
// naming its type unless TypeWriter is Never. data itself is left untouched:
// raw fragments are the caller's own values.
func (s *session) shield(data *value.Value, v reflect.Value, t reflect.Type) *value.Value {
	wrapped := value.Map(value.M(value.KeyContent, data))
	if s.e.cfg.TypeWriter == apis.TypeWriterNever {
		return wrapped
	}
	return s.writeType(wrapped, v, t)
}

// decodeTyped decodes data carrying "$type" into dst, an interface of type t.
func (s *session) decodeTyped(name *value.Value, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	n, _ := name.AsString()
	concrete, ok := s.concrete(n, t)
	if !ok {
		// Unknown names fall back to the shape of the payload.
		conv, found := s.e.chain.Lookup(t)
		if !found {
			return unsupported(t)
		}
		s.debug("sval unknown type name", zap.String("name", n), zap.Stringer("type", t))
		res := diag.Warn("unknown %s %q for %s, decoded by shape", value.KeyType, n, t)
		res.Merge(conv.TryDeserialize(s, data, dst, t))
		return res
	}
	if !concrete.AssignableTo(t) {
		return diag.Fail(diag.ShapeMismatch, "%s %q is a %s, which does not implement %s", value.KeyType, n, concrete, t)
	}
	payload := data
	if content, ok := data.Get(value.KeyContent); ok {
		payload = content
	}
	inst := s.Create(payload, concrete)
	res := s.Decode(payload, inst, concrete)
	if res.Failed() {
		return res
	}
	dst.Set(inst)
	return res
}

// concrete maps a "$type" name to the type to instantiate for interface t,
// switching between T and *T when only the other implements t.
func (s *session) concrete(name string, t reflect.Type) (reflect.Type, bool) {
	if s.e.registry == nil {
		return nil, false
	}
	ct, ok := s.e.registry.LookupName(name)
	if !ok {
		return nil, false
	}
	switch {
	case ct.AssignableTo(t):
	case ct.Kind() != reflect.Pointer && reflect.PointerTo(ct).AssignableTo(t):
		ct = reflect.PointerTo(ct)
	case ct.Kind() == reflect.Pointer && ct.Elem().AssignableTo(t):
		ct = ct.Elem()
	}
	return ct, true
}
