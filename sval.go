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

package sval

import (
	"errors"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/builder"
	"dirpx.dev/sval/config"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/engine"
	"dirpx.dev/sval/meta"
	"dirpx.dev/sval/value"
	"dirpx.dev/sval/wire"
)

var (
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("sval: builder returned nil registry")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("sval: builder returned nil resolver")
	// ErrNilChain is raised when a builder returns a nil converter chain.
	ErrNilChain = errors.New("sval: builder returned nil converter chain")
	// ErrNilDestination is reported by Decode for a nil destination pointer.
	ErrNilDestination = errors.New("sval: nil decode destination")
)

// state is one immutable snapshot of the global configuration.
type state struct {
	cfg    apis.Config
	ext    any
	bld    apis.Builder
	reg    apis.Registry
	res    apis.Resolver
	custom []apis.Converter
	log    *zap.Logger
	eng    *engine.Engine
	// preg and pres pin the registry and resolver: rebuilds keep them as-is.
	preg bool
	pres bool
}

var (
	// st holds the current snapshot; readers never lock.
	st atomic.Pointer[state]
	// buildMu serializes writers.
	buildMu sync.Mutex
)

func init() {
	st.Store(defaultState())
}

// defaultState is the snapshot the package starts from: default
// configuration, the stock builder and a no-op logger.
func defaultState() *state {
	s := &state{
		cfg: config.DefaultConfig(),
		bld: builder.New(),
		log: zap.NewNop(),
	}
	s.reg = s.bld.BuildRegistry(s.cfg, nil, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.reg, nil, nil)
	s.seal()
	return s
}

// seal builds the converter chain and the engine for s.
// It panics when the builder hands back nil components.
func (s *state) seal() {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	chain := s.bld.BuildChain(s.cfg, s.custom, s.ext)
	if chain == nil {
		panic(ErrNilChain)
	}
	eng, err := engine.New(s.cfg, chain,
		engine.WithRegistry(s.reg),
		engine.WithResolver(s.res),
		engine.WithLogger(s.log.Named("sval")),
	)
	if err != nil {
		panic(err)
	}
	s.eng = eng
}

// swap derives a new snapshot from the current one under buildMu.
// With relayer set, unpinned registry and resolver are rebuilt by the
// builder from the mutated snapshot.
func swap(relayer bool, mutate func(n *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	n := *old
	n.custom = slices.Clone(old.custom)
	mutate(&n)

	if relayer {
		if !n.preg {
			n.reg = n.bld.BuildRegistry(n.cfg, old.reg, n.ext)
		}
		if !n.pres {
			n.res = n.bld.BuildResolver(n.cfg, n.reg, old.res, n.ext)
		}
	}
	n.seal()
	st.Store(&n)
}

// Serialize encodes v using its dynamic type as the declared type.
func Serialize(v any) (*value.Value, diag.Result) {
	return st.Load().eng.TrySerialize(v, nil)
}

// TrySerialize encodes v as declared type t. Values declared through an
// interface type carry a "$type" discriminator when the configuration asks
// for one.
func TrySerialize(v any, t reflect.Type) (*value.Value, diag.Result) {
	return st.Load().eng.TrySerialize(v, t)
}

// TryDeserialize decodes data as type t, populating existing when it is
// non-nil. The returned value is meaningful only if the result did not fail.
func TryDeserialize(data *value.Value, t reflect.Type, existing any) (any, diag.Result) {
	return st.Load().eng.TryDeserialize(data, t, existing)
}

// Encode encodes v with T as the declared type.
func Encode[T any](v T) (*value.Value, diag.Result) {
	return st.Load().eng.EncodeValue(reflect.ValueOf(&v).Elem(), reflect.TypeFor[T]())
}

// Decode decodes data into *dst. Members absent from data keep their
// current values.
func Decode[T any](data *value.Value, dst *T) diag.Result {
	if dst == nil {
		return diag.Fail(diag.UnsupportedType, "%v for %s", ErrNilDestination, reflect.TypeFor[T]())
	}
	return st.Load().eng.DecodeValue(data, reflect.ValueOf(dst).Elem(), reflect.TypeFor[T]())
}

// Marshal encodes v with T as the declared type and renders it with codec.
// A failed encode is returned as its diag error; warnings are dropped.
func Marshal[T any](codec wire.Codec, v T) ([]byte, error) {
	data, res := Encode(v)
	if res.Failed() {
		return nil, res.Err()
	}
	return codec.Marshal(data)
}

// Unmarshal parses raw with codec and decodes the result into *dst.
func Unmarshal[T any](codec wire.Codec, raw []byte, dst *T) error {
	data, err := codec.Unmarshal(raw)
	if err != nil {
		return err
	}
	if res := Decode(data, dst); res.Failed() {
		return res.Err()
	}
	return nil
}

// TypeName returns the "$type" name the global resolver assigns to v's
// dynamic type, or "".
func TypeName(v any) string {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TypeNameOf returns the "$type" name of t, or "".
func TypeNameOf(t reflect.Type) string {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// RegisterType binds t to name in the global registry, for "$type"
// resolution in both directions.
func RegisterType(t reflect.Type, name string) error {
	return st.Load().reg.Register(t, name)
}

// RegisterEnum declares t as an enum described by spec.
func RegisterEnum(t reflect.Type, spec apis.EnumSpec) error {
	if err := meta.RegisterEnum(t, spec); err != nil {
		return err
	}
	// The chain memoizes converter selection per type; start a fresh one.
	swap(false, func(*state) {})
	return nil
}

// AddConverter puts c in front of every converter added before it and of
// the built-in set.
func AddConverter(c apis.Converter) {
	if c == nil {
		return
	}
	swap(false, func(n *state) {
		n.custom = append([]apis.Converter{c}, n.custom...)
	})
}

// Converters returns the active converter chain in priority order.
func Converters() []apis.Converter {
	return st.Load().eng.Chain().Converters()
}

// Engine returns the engine of the current snapshot. It stays valid after
// later Set* calls, bound to the configuration it was built with.
func Engine() *engine.Engine {
	return st.Load().eng
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	cfg = config.Normalize(cfg)
	swap(true, func(n *state) { n.cfg = cfg })
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return st.Load().log
}

// SetLogger sets the logger handed to the engine. Nil disables logging.
func SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	swap(false, func(n *state) { n.log = log })
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg and pins it. Nil is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	swap(true, func(n *state) {
		n.reg = reg
		n.preg = true
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res and pins it. Nil is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	swap(false, func(n *state) {
		n.res = res
		n.pres = true
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder installs b and rebuilds every unpinned layer with it.
// Nil is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	swap(true, func(n *state) { n.bld = b })
}

// SetAll replaces several components at once.
//
// Nil arguments leave the corresponding component unchanged, except ext
// which is always replaced. An explicit registry or resolver is pinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	swap(true, func(n *state) {
		if cfg != nil {
			n.cfg = config.Normalize(*cfg)
		}
		n.ext = ext
		if bld != nil {
			n.bld = bld
		}
		if reg != nil {
			n.reg = reg
			n.preg = true
		}
		if res != nil {
			n.res = res
			n.pres = true
		}
	})
}

// SetExt replaces the extension value passed to the builder and rebuilds
// unpinned layers.
func SetExt[T any](ext T) {
	swap(true, func(n *state) { n.ext = ext })
}

// ExtAs returns the extension value as a T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether rebuilds keep the current registry.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry keeps the current registry across rebuilds.
func PinRegistry() { swap(false, func(n *state) { n.preg = true }) }

// UnpinRegistry lets rebuilds replace the registry again.
func UnpinRegistry() { swap(false, func(n *state) { n.preg = false }) }

// IsResolverPinned reports whether rebuilds keep the current resolver.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver keeps the current resolver across rebuilds.
func PinResolver() { swap(false, func(n *state) { n.pres = true }) }

// UnpinResolver lets rebuilds replace the resolver again.
func UnpinResolver() { swap(false, func(n *state) { n.pres = false }) }
