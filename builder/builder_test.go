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

package builder_test

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/builder"
	"dirpx.dev/sval/config"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/registry"
	"dirpx.dev/sval/value"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback via reflection.
type userType struct{}

// hotType implements apis.Namer and is used to verify that the
// Namer-based strategy takes priority over other strategies.
type hotType struct{}

func (hotType) EntityName() string { return "hot-name" }

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry that supports Register/Lookup/Entries/Count.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil, nil)
	require.NotNil(t, reg)

	tt := reflect.TypeOf(userType{})
	require.NoError(t, reg.Register(tt, "userType"))

	got, ok := reg.Lookup(tt)
	assert.True(t, ok)
	assert.Equal(t, "userType", got)
	assert.Equal(t, 1, reg.Count())
	assert.Len(t, reg.Entries(), 1)
}

func TestBuildRegistry_MigratesEntries(t *testing.T) {
	b := builder.New()
	prev := registry.New()
	require.NoError(t, prev.Register(reflect.TypeOf(&userType{}), "u"))

	next := b.BuildRegistry(config.DefaultConfig(), prev, nil)
	typ, ok := next.LookupName("u")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(&userType{}), typ)

	// The migrated registry is independent of the previous one.
	prev.Reset()
	assert.Equal(t, 1, next.Count())
}

// TestBuildResolver_Order_NamerThenRegistryThenReflect verifies resolution priority:
// 1. If the value implements apis.Namer, use EntityName().
// 2. Otherwise, if the type is explicitly registered in the Registry, use that.
// 3. Otherwise, fall back to the reflect-based strategy ("pkg.Type").
func TestBuildResolver_Order_NamerThenRegistryThenReflect(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil, nil)
	type fromRegistry struct{}
	ttReg := reflect.TypeOf(fromRegistry{})
	require.NoError(t, reg.Register(ttReg, "reg-name"))

	res := b.BuildResolver(cfg, reg, nil, nil)
	require.NotNil(t, res)

	assert.Equal(t, "hot-name", res.Resolve(hotType{}, cfg))
	assert.Equal(t, "reg-name", res.ResolveType(ttReg, cfg))

	got := res.ResolveType(reflect.TypeOf(userType{}), cfg)
	assert.NotEmpty(t, strings.TrimSpace(got))
	assert.Contains(t, got, ".", "reflect strategy name should contain a package prefix")
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call Resolve/ResolveType concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil, nil)
	_ = reg.Register(reflect.TypeOf(userType{}), "userType")
	_ = reg.Register(reflect.TypeOf(hotType{}), "hotType") // Namer still should override

	res := b.BuildResolver(cfg, reg, nil, nil)

	types := []reflect.Type{
		reflect.TypeOf(userType{}),
		reflect.TypeOf(hotType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf([]userType{}),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tt := types[(i+id)%len(types)]
				_ = res.ResolveType(tt, cfg)
				if got := res.Resolve(hotType{}, cfg); got != "hot-name" {
					t.Errorf("Resolve(hotType) = %q", got)
					return
				}
			}
		}(w)
	}

	wg.Wait()
}

// upper is a custom converter for strings that must win over the built-ins.
type upper struct{}

func (upper) CanProcess(t reflect.Type) bool { return t.Kind() == reflect.String }
func (upper) TrySerialize(_ apis.Dispatcher, v reflect.Value, _ reflect.Type) (*value.Value, diag.Result) {
	return value.String(strings.ToUpper(v.String())), diag.Ok()
}
func (upper) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, _ reflect.Type) diag.Result {
	s, _ := data.AsString()
	dst.SetString(strings.ToLower(s))
	return diag.Ok()
}
func (upper) CreateInstance(_ *value.Value, t reflect.Type) reflect.Value { return reflect.New(t).Elem() }
func (upper) RequestsCycleSupport(reflect.Type) bool                      { return false }
func (upper) RequestsInheritanceSupport(reflect.Type) bool                { return false }

func TestBuildChain_Priority(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	chain := b.BuildChain(cfg, []apis.Converter{upper{}}, nil)
	conv, ok := chain.Lookup(reflect.TypeOf(""))
	require.True(t, ok)
	assert.IsType(t, upper{}, conv)

	// Built-ins still serve everything else; the reflected converter is last.
	for _, typ := range []reflect.Type{
		reflect.TypeOf(0),
		reflect.TypeOf(time.Time{}),
		reflect.TypeOf(map[string]int{}),
		reflect.TypeOf([]int{}),
		reflect.TypeOf(userType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf((*any)(nil)).Elem(),
	} {
		_, ok := chain.Lookup(typ)
		assert.True(t, ok, "%v", typ)
	}

	_, ok = chain.Lookup(reflect.TypeOf(make(chan int)))
	assert.False(t, ok)

	convs := chain.Converters()
	require.NotEmpty(t, convs)
	assert.IsType(t, upper{}, convs[0])
	assert.True(t, convs[len(convs)-1].CanProcess(reflect.TypeOf(userType{})))
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
