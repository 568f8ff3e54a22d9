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

package converter

import (
	"reflect"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/meta"
	"dirpx.dev/sval/value"
)

// NewReflected returns the catch-all converter for structs, driven by the
// metadata cache (see meta.Of).
//
// Encoding writes every readable member that passes its serialize
// predicate. Decoding looks each writable member up by its primary name,
// then by its fallback names; unknown keys are ignored and members absent
// from the payload keep their current value. A failing member is reported
// without stopping its siblings.
func NewReflected() apis.Converter {
	return reflected{}
}

type reflected struct{}

var _ apis.Converter = reflected{}

// CanProcess accepts structs only; slices, arrays and maps belong to the
// sequence and dictionary converters.
func (reflected) CanProcess(t reflect.Type) bool {
	return t.Kind() == reflect.Struct
}

func (reflected) RequestsCycleSupport(reflect.Type) bool { return true }

func (reflected) RequestsInheritanceSupport(reflect.Type) bool { return true }

// CreateInstance returns a zero struct with apis.Initializer defaults applied.
func (reflected) CreateInstance(_ *value.Value, t reflect.Type) reflect.Value {
	return meta.Of(t, "").CreateInstance()
}

func (reflected) TrySerialize(d apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	mt := meta.Of(t, d.Config().TagName)
	v = addressable(v)

	var res diag.Result
	obj := value.NewObject(len(mt.Properties))
	for _, p := range mt.Properties {
		if !p.CanRead {
			continue
		}
		member, ok := p.Read(v)
		if !ok || !p.ShouldSerialize(v, member) {
			continue
		}
		data, r := d.Encode(member, p.Type)
		res.Merge(r.Within(p.Name))
		if r.Failed() {
			continue
		}
		obj.Set(p.Name, data)
	}
	return value.FromObject(obj), res
}

func (reflected) TryDeserialize(d apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	obj := data.Object()
	if obj == nil {
		return mismatch(data, t, value.KindMap)
	}
	cfg := d.Config()
	mt := meta.Of(t, cfg.TagName)

	var fold map[string]string
	if cfg.CaseInsensitive {
		fold = meta.FoldKeys(obj)
	}

	var res diag.Result
	for _, p := range mt.Properties {
		if !p.CanWrite {
			continue
		}
		node, ok := mt.Find(obj, p, fold)
		if !ok {
			continue
		}
		member := reflect.New(p.Type).Elem()
		if cur, ok := p.Read(dst); ok {
			member.Set(cur)
		}
		r := d.Decode(node, member, p.Type)
		res.Merge(r.Within(p.Name))
		if r.Failed() {
			continue
		}
		if !p.Write(dst, member) {
			res.Merge(diag.Warn("member %s of %s is not settable", p.MemberName, t).Within(p.Name))
		}
	}
	return res
}
