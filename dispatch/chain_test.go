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

package dispatch_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/dispatch"
	"dirpx.dev/sval/value"
)

// kindConverter claims every type of one reflect.Kind and counts probes.
type kindConverter struct {
	name   string
	kind   reflect.Kind
	probes atomic.Int32
}

func (c *kindConverter) CanProcess(t reflect.Type) bool {
	c.probes.Add(1)
	return t.Kind() == c.kind
}

func (c *kindConverter) TrySerialize(apis.Dispatcher, reflect.Value, reflect.Type) (*value.Value, diag.Result) {
	return value.String(c.name), diag.Ok()
}

func (c *kindConverter) TryDeserialize(apis.Dispatcher, *value.Value, reflect.Value, reflect.Type) diag.Result {
	return diag.Ok()
}

func (c *kindConverter) CreateInstance(_ *value.Value, t reflect.Type) reflect.Value {
	return reflect.New(t).Elem()
}

func (c *kindConverter) RequestsCycleSupport(reflect.Type) bool       { return false }
func (c *kindConverter) RequestsInheritanceSupport(reflect.Type) bool { return false }

func TestLookup_FirstMatchWins(t *testing.T) {
	first := &kindConverter{name: "first", kind: reflect.Int}
	second := &kindConverter{name: "second", kind: reflect.Int}
	strs := &kindConverter{name: "strings", kind: reflect.String}
	ch := dispatch.New(first, strs, second)

	conv, ok := ch.Lookup(reflect.TypeFor[int]())
	require.True(t, ok)
	assert.Same(t, first, conv)

	conv, ok = ch.Lookup(reflect.TypeFor[string]())
	require.True(t, ok)
	assert.Same(t, strs, conv)

	assert.Zero(t, second.probes.Load(), "later converters are not probed once one matches")
}

func TestLookup_Misses(t *testing.T) {
	ch := dispatch.New(&kindConverter{kind: reflect.Int})

	_, ok := ch.Lookup(reflect.TypeFor[bool]())
	assert.False(t, ok)
	_, ok = ch.Lookup(nil)
	assert.False(t, ok)
}

func TestLookup_Memoized(t *testing.T) {
	c := &kindConverter{kind: reflect.Int}
	ch := dispatch.New(c)

	for range 5 {
		ch.Lookup(reflect.TypeFor[int]())
		ch.Lookup(reflect.TypeFor[bool]())
	}
	assert.EqualValues(t, 2, c.probes.Load(), "hits and misses are both cached")
}

func TestLookup_Concurrent(t *testing.T) {
	c := &kindConverter{kind: reflect.Int}
	ch := dispatch.New(c)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, ok := ch.Lookup(reflect.TypeFor[int]())
			assert.True(t, ok)
			assert.Same(t, c, conv)
		}()
	}
	wg.Wait()
}

func TestNew_DropsNil(t *testing.T) {
	a := &kindConverter{name: "a"}
	b := &kindConverter{name: "b"}
	ch := dispatch.New(nil, a, nil, b)

	convs := ch.Converters()
	require.Len(t, convs, 2)
	assert.Same(t, a, convs[0])
	assert.Same(t, b, convs[1])

	convs[0] = nil
	assert.Same(t, a, ch.Converters()[0], "Converters returns a copy")

	assert.Empty(t, dispatch.New().Converters())
}
