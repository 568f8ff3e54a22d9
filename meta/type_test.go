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

package meta_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/meta"
	"dirpx.dev/sval/value"
)

type base struct {
	ID      int `sval:"id"`
	Note    string
	Kind    string
	Created int
}

type Extra struct {
	Note string
	Kind string `sval:"Kind"`
}

type record struct {
	base
	*Extra
	Name    string `sval:"name,fallback=Title|Label,omitempty"`
	Secret  string `sval:"-"`
	Legacy  string `json:"legacy_name,omitempty"`
	Hidden  string `json:"-"`
	Frozen  int    `sval:",readonly"`
	Sink    int    `sval:"sink,writeonly"`
	Created string
	private int
}

func names(mt *meta.Type) []string {
	out := make([]string, len(mt.Properties))
	for i, p := range mt.Properties {
		out[i] = p.Name
	}
	return out
}

func prop(t *testing.T, mt *meta.Type, name string) *meta.Property {
	t.Helper()
	for _, p := range mt.Properties {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("property %q not found in %v", name, names(mt))
	return nil
}

func TestOf_Members(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[record](), "sval")

	// Ambiguous "Note" is dropped, the tagged "Kind" wins, the shallow
	// "Created" shadows the embedded one.
	assert.Equal(t, []string{"id", "Kind", "name", "legacy_name", "Frozen", "sink", "Created"}, names(mt))

	name := prop(t, mt, "name")
	assert.Equal(t, []string{"name", "Title", "Label"}, name.Names())
	assert.True(t, name.OmitEmpty)
	assert.Equal(t, "Name", name.MemberName)

	assert.Equal(t, reflect.TypeFor[string](), prop(t, mt, "Created").Type)
	assert.Equal(t, "Kind", prop(t, mt, "Kind").MemberName)

	frozen := prop(t, mt, "Frozen")
	assert.True(t, frozen.CanRead)
	assert.False(t, frozen.CanWrite)

	sink := prop(t, mt, "sink")
	assert.False(t, sink.CanRead)
	assert.True(t, sink.CanWrite)
}

func TestOf_JSONTagName(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[record](), "json")
	assert.Contains(t, names(mt), "legacy_name")
	assert.Contains(t, names(mt), "Secret", "sval tags are ignored under another tag name")
	assert.NotContains(t, names(mt), "Hidden")
}

func TestOf_NonStruct(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[int](), "")
	assert.Empty(t, mt.Properties)
	assert.Same(t, mt, meta.Of(reflect.TypeFor[int](), "sval"), "empty tag name means the default")
}

func TestOf_Memoized(t *testing.T) {
	rt := reflect.TypeFor[record]()
	a := meta.Of(rt, "sval")
	assert.Same(t, a, meta.Of(rt, "sval"))
	assert.NotSame(t, a, meta.Of(rt, "wire"))
}

func TestOf_ConcurrentFirstLookup(t *testing.T) {
	type fresh struct{ A, B int }
	rt := reflect.TypeFor[fresh]()

	const workers = 64
	got := make([]*meta.Type, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			got[i] = meta.Of(rt, "sval")
		}()
	}
	close(start)
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Same(t, got[0], got[i], "worker %d saw a different *Type", i)
	}
}

func TestProperty_ReadWriteThroughEmbeddedPointer(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[record](), "sval")
	kind := prop(t, mt, "Kind")

	var r record
	rv := reflect.ValueOf(&r).Elem()

	_, ok := kind.Read(rv)
	assert.False(t, ok, "nil embedded pointer")

	require.True(t, kind.Write(rv, reflect.ValueOf("k")))
	require.NotNil(t, r.Extra)
	assert.Equal(t, "k", r.Extra.Kind)

	got, ok := kind.Read(rv)
	require.True(t, ok)
	assert.Equal(t, "k", got.String())

	id := prop(t, mt, "id")
	require.True(t, id.Write(rv, reflect.ValueOf(9)))
	assert.Equal(t, 9, r.ID)
}

type gated struct {
	Keep string
	Drop string
	Tags []string `sval:",omitempty"`
}

func (gated) ShouldSerialize(member string) bool { return member != "Drop" }

func TestProperty_ShouldSerialize(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[gated](), "sval")
	g := reflect.ValueOf(gated{Keep: "x", Drop: "y"})

	verdict := make(map[string]bool)
	for _, p := range mt.Properties {
		member, ok := p.Read(g)
		require.True(t, ok)
		verdict[p.MemberName] = p.ShouldSerialize(g, member)
	}
	assert.Equal(t, map[string]bool{"Keep": true, "Drop": false, "Tags": false}, verdict)
}

type withDefaults struct {
	Port int
	Host string
}

func (w *withDefaults) InitDefaults() { w.Port = 8080 }

func TestType_CreateInstance(t *testing.T) {
	inst := meta.Of(reflect.TypeFor[withDefaults](), "sval").CreateInstance()
	require.True(t, inst.CanSet())
	assert.Equal(t, withDefaults{Port: 8080}, inst.Interface())

	plain := meta.Of(reflect.TypeFor[gated](), "sval").CreateInstance()
	assert.True(t, plain.IsZero())
}

func TestType_Find(t *testing.T) {
	mt := meta.Of(reflect.TypeFor[record](), "sval")
	name := prop(t, mt, "name")

	obj := value.NewObject(2)
	obj.Set("LABEL", value.String("upper"))
	obj.Set("Title", value.String("title"))

	got, ok := mt.Find(obj, name, nil)
	require.True(t, ok)
	assert.Equal(t, `"title"`, got.String(), "fallbacks are tried in order")

	obj.Delete("Title")
	_, ok = mt.Find(obj, name, nil)
	assert.False(t, ok, "exact match only without folding")

	got, ok = mt.Find(obj, name, meta.FoldKeys(obj))
	require.True(t, ok)
	assert.Equal(t, `"upper"`, got.String())
}

func TestFoldKeys_FirstWins(t *testing.T) {
	obj := value.NewObject(2)
	obj.Set("Name", value.Int(1))
	obj.Set("NAME", value.Int(2))
	assert.Equal(t, map[string]string{meta.Fold("name"): "Name"}, meta.FoldKeys(obj))
}

func TestFold_Concurrent(t *testing.T) {
	inputs := []string{"Straße", "ΣΊΣΥΦΟΣ", "Name", "créé"}
	want := make([]string, len(inputs))
	for i, s := range inputs {
		want[i] = meta.Fold(s)
	}
	assert.Equal(t, meta.Fold("STRASSE"), want[0])

	const workers = 32
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan string, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for n := range 200 {
				j := (i + n) % len(inputs)
				if got := meta.Fold(inputs[j]); got != want[j] {
					errs <- got
					return
				}
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("Fold diverged under concurrent use: %q", got)
	}
}
