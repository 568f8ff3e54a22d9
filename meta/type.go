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
	"sort"
	"sync"

	"golang.org/x/text/cases"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/value"
)

// Type describes the serializable members of one concrete Go type.
// Instances are shared and must be treated as read-only.
type Type struct {
	// Type is the described Go type.
	Type reflect.Type
	// Properties are the members in declaration order (embedded structs
	// are flattened where they appear).
	Properties []*Property
}

// cacheKey ensures memoization respects the knobs that affect member discovery.
type cacheKey struct {
	t   reflect.Type
	tag string
}

// typeCache caches built metadata by (type, tag name).
var typeCache sync.Map // key: cacheKey, val: *Type

// Of returns the metadata for t using member tags named tagName.
//
// The first lookup of a type builds its metadata; later lookups return the
// same *Type. Two goroutines racing on the first lookup may both build, but
// only one result is published and both callers receive it.
func Of(t reflect.Type, tagName string) *Type {
	if tagName == "" {
		tagName = "sval"
	}
	key := cacheKey{t: t, tag: tagName}
	if v, ok := typeCache.Load(key); ok {
		return v.(*Type)
	}
	actual, _ := typeCache.LoadOrStore(key, build(t, tagName))
	return actual.(*Type)
}

// CreateInstance returns a settable zero value of the type. When a pointer
// to the type implements apis.Initializer, InitDefaults is applied first.
func (mt *Type) CreateInstance() reflect.Value {
	ptr := reflect.New(mt.Type)
	if init, ok := ptr.Interface().(apis.Initializer); ok {
		init.InitDefaults()
	}
	return ptr.Elem()
}

// Find returns the member of obj that populates p: the primary name first,
// then each fallback name in order. With fold set, names match ignoring case.
func (mt *Type) Find(obj *value.Object, p *Property, fold map[string]string) (*value.Value, bool) {
	for _, name := range p.Names() {
		if name == "" {
			continue
		}
		if v, ok := obj.Get(name); ok {
			return v, true
		}
		if fold != nil {
			if key, ok := fold[Fold(name)]; ok {
				v, _ := obj.Get(key)
				return v, true
			}
		}
	}
	return nil, false
}

// FoldKeys maps the case-folded form of every key of obj to the key itself.
// The first key wins when two keys fold to the same form.
func FoldKeys(obj *value.Object) map[string]string {
	out := make(map[string]string, obj.Len())
	obj.Range(func(key string, _ *value.Value) bool {
		f := Fold(key)
		if _, dup := out[f]; !dup {
			out[f] = key
		}
		return true
	})
	return out
}

// Fold returns the case-folded form of s.
//
// A Caser keeps state between calls, so each call takes a fresh one and
// Fold stays safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// field is a candidate property before name conflicts are resolved.
type field struct {
	prop   *Property
	depth  int
	tagged bool
}

func build(t reflect.Type, tagName string) *Type {
	mt := &Type{Type: t}
	if t.Kind() != reflect.Struct {
		return mt
	}
	var fields []field
	collect(t, tagName, nil, 0, map[reflect.Type]bool{t: true}, &fields)
	mt.Properties = dominant(fields)
	return mt
}

// collect walks t's fields, flattening untagged embedded structs.
func collect(t reflect.Type, tagName string, prefix []int, depth int, visiting map[reflect.Type]bool, out *[]field) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := parseTag(f, tagName)
		if tag.skip {
			continue
		}
		index := append(append([]int(nil), prefix...), i)

		if f.Anonymous && tag.name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if visiting[ft] {
					continue
				}
				visiting[ft] = true
				collect(ft, tagName, index, depth+1, visiting, out)
				delete(visiting, ft)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		name := tag.name
		if name == "" {
			name = f.Name
		}
		*out = append(*out, field{
			prop: &Property{
				Name:          name,
				FallbackNames: tag.fallback,
				MemberName:    f.Name,
				Type:          f.Type,
				CanRead:       !tag.writeOnly,
				CanWrite:      !tag.readOnly,
				OmitEmpty:     tag.omitEmpty,
				index:         index,
			},
			depth:  depth,
			tagged: tag.name != "",
		})
	}
}

// dominant resolves name conflicts the way Go promotes embedded fields:
// the shallowest field wins; among equally shallow fields a single tagged
// one wins; otherwise all of them are dropped. Declaration order is kept.
func dominant(fields []field) []*Property {
	byName := make(map[string][]int, len(fields))
	for i, f := range fields {
		byName[f.prop.Name] = append(byName[f.prop.Name], i)
	}
	keep := make([]int, 0, len(fields))
	for _, idx := range byName {
		if len(idx) == 1 {
			keep = append(keep, idx[0])
			continue
		}
		min := fields[idx[0]].depth
		for _, i := range idx[1:] {
			if fields[i].depth < min {
				min = fields[i].depth
			}
		}
		var shallow, tagged []int
		for _, i := range idx {
			if fields[i].depth == min {
				shallow = append(shallow, i)
				if fields[i].tagged {
					tagged = append(tagged, i)
				}
			}
		}
		switch {
		case len(shallow) == 1:
			keep = append(keep, shallow[0])
		case len(tagged) == 1:
			keep = append(keep, tagged[0])
		}
	}
	sort.Ints(keep)
	out := make([]*Property, len(keep))
	for i, k := range keep {
		out[i] = fields[k].prop
	}
	return out
}
