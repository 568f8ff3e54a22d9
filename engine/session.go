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

// session is the per-call dispatcher handed to converters.
type session struct {
	e     *Engine
	depth int

	// encode side: identity of pointers already visited
	seen  map[identity]*definition
	defs  []*definition
	refID int

	// decode side: pointers rebuilt from "$id" definitions
	root    *value.Value
	refs    map[string]reflect.Value
	pending map[string]*value.Value
}

var _ apis.Dispatcher = (*session)(nil)

func (s *session) Config() apis.Config { return s.e.cfg }

// Encode implements apis.Dispatcher.
func (s *session) Encode(v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	if s.depth >= s.e.cfg.MaxDepth {
		return value.Null(), diag.Fail(diag.DepthExceeded, "maximum depth %d exceeded encoding %s", s.e.cfg.MaxDepth, t)
	}
	s.depth++
	defer func() { s.depth-- }()

	if uref.IsNil(v) {
		return value.Null(), diag.Ok()
	}
	if t.Kind() != reflect.Interface {
		return s.encodeAs(v, t)
	}

	// Encode the concrete value, then decide whether the declared type
	// needs a discriminator to get it back.
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	declared, ok := s.e.chain.Lookup(t)
	if !ok {
		return value.Null(), unsupported(t)
	}
	concrete := v.Type()
	data, res := s.encodeAs(v, concrete)
	if res.Failed() {
		return data, res
	}
	if !s.inherits(concrete) {
		if foreignMetadata(data) && !s.tracksIdentity(concrete) {
			return s.shield(data, v, concrete), res
		}
		return data, res
	}
	if !declared.RequestsInheritanceSupport(t) {
		return data, res
	}
	if s.e.cfg.TypeWriter == apis.TypeWriterNever {
		return data, res
	}
	return s.writeType(data, v, concrete), res
}

// encodeAs runs the converter for t, with identity tracking for pointers.
func (s *session) encodeAs(v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	conv, ok := s.e.chain.Lookup(t)
	if !ok {
		return value.Null(), unsupported(t)
	}
	if t.Kind() == reflect.Pointer && s.tracksIdentity(t) {
		if ref, ok := s.visit(v, t); ok {
			return ref, diag.Ok()
		}
		data, res := s.convert(conv, v, t)
		s.define(v, t, data)
		return data, res
	}
	return s.convert(conv, v, t)
}

func (s *session) convert(conv apis.Converter, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	hooked := t.Kind() == reflect.Struct
	if hooked {
		v = addressable(v)
		if h, ok := hook[apis.BeforeEncoder](v); ok {
			h.BeforeEncode()
		}
	}
	data, res := conv.TrySerialize(s, v, t)
	if data == nil {
		data = value.Null()
	}
	if hooked && !res.Failed() {
		if h, ok := hook[apis.AfterEncoder](v); ok {
			h.AfterEncode(data)
		}
	}
	if s.e.cfg.TypeWriter == apis.TypeWriterAlways && !res.Failed() && conv.RequestsInheritanceSupport(t) {
		data = s.writeType(data, v, t)
	}
	return data, res
}

// Decode implements apis.Dispatcher.
func (s *session) Decode(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	if s.depth >= s.e.cfg.MaxDepth {
		return diag.Fail(diag.DepthExceeded, "maximum depth %d exceeded decoding %s", s.e.cfg.MaxDepth, t)
	}
	s.depth++
	defer func() { s.depth-- }()

	if data == nil || data.IsNull() {
		dst.Set(reflect.Zero(t))
		return diag.Ok()
	}
	if data.IsMap() && s.readsReferences(t) {
		if ref, ok := data.Get(value.KeyRef); ok {
			// An interface may hold a foreign document that merely uses
			// the key; only references this payload can satisfy count.
			if t.Kind() != reflect.Interface || s.resolvable(ref) {
				return s.resolve(ref, dst, t)
			}
		}
	}
	if t.Kind() == reflect.Interface {
		if name, ok := data.Get(value.KeyType); ok && name.IsString() {
			return s.decodeTyped(name, data, dst, t)
		}
	}
	conv, ok := s.e.chain.Lookup(t)
	if !ok {
		return unsupported(t)
	}
	if t.Kind() == reflect.Pointer && data.IsMap() && s.tracksIdentity(t) {
		if id, ok := data.Get(value.KeyID); ok && id.IsString() {
			return s.decodeDefinition(id, data, dst, t)
		}
	}
	return s.convertIn(conv, data, dst, t)
}

func (s *session) convertIn(conv apis.Converter, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	res := conv.TryDeserialize(s, data, dst, t)
	if t.Kind() != reflect.Struct || res.Failed() {
		return res
	}
	if h, ok := hook[apis.AfterDecoder](dst); ok {
		if err := h.AfterDecode(); err != nil {
			res.Merge(diag.Fail(diag.HookFailure, "%s rejected the decoded value: %v", t, err))
		}
	}
	return res
}

// Create implements apis.Dispatcher.
func (s *session) Create(data *value.Value, t reflect.Type) reflect.Value {
	if conv, ok := s.e.chain.Lookup(t); ok {
		inst := conv.CreateInstance(data, t)
		if inst.IsValid() && inst.Type() == t {
			if inst.CanSet() {
				return inst
			}
			out := reflect.New(t).Elem()
			out.Set(inst)
			return out
		}
	}
	return reflect.New(t).Elem()
}

func (s *session) decodeRoot(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	s.root = data
	return s.Decode(data, dst, t)
}

func unsupported(t reflect.Type) diag.Result {
	return diag.Fail(diag.UnsupportedType, "no converter accepts %s", t)
}

// hook returns v as H, trying the pointer receiver first.
func hook[H any](v reflect.Value) (H, bool) {
	if v.CanAddr() && v.Addr().CanInterface() {
		if h, ok := v.Addr().Interface().(H); ok {
			return h, true
		}
	}
	if v.CanInterface() {
		if h, ok := v.Interface().(H); ok {
			return h, true
		}
	}
	var zero H
	return zero, false
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}

func (s *session) debug(msg string, fields ...zap.Field) {
	if ce := s.e.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}
