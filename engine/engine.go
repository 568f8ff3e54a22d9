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
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/config"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

var (
	// ErrNilChain is returned by New when no converter chain is provided.
	ErrNilChain = errors.New("sval(engine): nil converter chain")
)

// Engine runs encode and decode operations over a converter chain.
//
// An Engine is immutable and safe for concurrent use. Every top-level call
// gets its own session holding the per-call state: recursion depth and the
// "$id"/"$ref" identity tables.
type Engine struct {
	cfg      apis.Config
	chain    apis.Chain
	registry apis.Registry
	resolver apis.Resolver
	log      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the type registry used to resolve "$type" on decode and
// to record names on encode.
func WithRegistry(reg apis.Registry) Option {
	return func(e *Engine) { e.registry = reg }
}

// WithResolver sets the resolver naming concrete types for "$type".
func WithResolver(res apis.Resolver) Option {
	return func(e *Engine) { e.resolver = res }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New constructs an Engine. cfg is normalized; without a registry or
// resolver no "$type" discriminators are written or honored.
func New(cfg apis.Config, chain apis.Chain, opts ...Option) (*Engine, error) {
	if chain == nil {
		return nil, ErrNilChain
	}
	e := &Engine{cfg: config.Normalize(cfg), chain: chain}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() apis.Config { return e.cfg }

// Chain returns the converter chain.
func (e *Engine) Chain() apis.Chain { return e.chain }

// Registry returns the type registry, or nil.
func (e *Engine) Registry() apis.Registry { return e.registry }

// Resolver returns the type-name resolver, or nil.
func (e *Engine) Resolver() apis.Resolver { return e.resolver }

// TrySerialize encodes v as declared type t. A nil t means v's dynamic type.
func (e *Engine) TrySerialize(v any, t reflect.Type) (*value.Value, diag.Result) {
	if t == nil {
		if v == nil {
			return value.Null(), diag.Ok()
		}
		t = reflect.TypeOf(v)
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && !rv.Type().AssignableTo(t) {
		return value.Null(), diag.Fail(diag.ShapeMismatch, "value of type %s is not assignable to %s", rv.Type(), t)
	}
	return e.EncodeValue(rv, t)
}

// EncodeValue encodes v as declared type t.
func (e *Engine) EncodeValue(v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	s := e.session()
	data, res := s.Encode(v, t)
	res.Merge(s.finish())
	if data == nil {
		data = value.Null()
	}
	e.report("encode", t, res)
	return data, res
}

// TryDeserialize decodes data as type t and returns the decoded value.
//
// existing, when non-nil, is populated instead of a fresh instance: either a
// value assignable to t (a pointer or map is then filled in place) or a
// pointer to a t. Members absent from data keep their existing values.
// Callers must check the result before trusting the returned value.
func (e *Engine) TryDeserialize(data *value.Value, t reflect.Type, existing any) (any, diag.Result) {
	if t == nil {
		return nil, diag.Fail(diag.UnsupportedType, "nil target type")
	}
	s := e.session()
	var dst reflect.Value
	switch ev := reflect.ValueOf(existing); {
	case existing == nil:
		dst = s.Create(data, t)
	case ev.Type().AssignableTo(t):
		dst = reflect.New(t).Elem()
		dst.Set(ev)
	case ev.Kind() == reflect.Pointer && !ev.IsNil() && ev.Type().Elem() == t:
		dst = ev.Elem()
	default:
		return nil, diag.Fail(diag.ShapeMismatch, "existing instance of type %s cannot hold %s", ev.Type(), t)
	}
	res := s.decodeRoot(data, dst, t)
	e.report("decode", t, res)
	return dst.Interface(), res
}

// DecodeValue decodes data into dst, a settable value of type t.
func (e *Engine) DecodeValue(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	if !dst.CanSet() {
		return diag.Fail(diag.UnsupportedType, "destination for %s is not settable", t)
	}
	res := e.session().decodeRoot(data, dst, t)
	e.report("decode", t, res)
	return res
}

func (e *Engine) session() *session {
	return &session{e: e}
}

// report logs the outcome of a top-level operation.
func (e *Engine) report(op string, t reflect.Type, res diag.Result) {
	switch {
	case res.Failed():
		e.log.Warn(fmt.Sprintf("sval %s failed", op),
			zap.Stringer("type", t),
			zap.Int("messages", len(res.Messages())),
			zap.Error(res.Err()))
	case res.HasWarnings():
		e.log.Debug(fmt.Sprintf("sval %s completed with warnings", op),
			zap.Stringer("type", t),
			zap.String("result", res.String()))
	}
}
