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
	"fmt"
	"reflect"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	uref "dirpx.dev/sval/utils/reflect"
	"dirpx.dev/sval/value"
)

// Member names of the general dictionary form.
const (
	KeyField   = "Key"
	ValueField = "Value"
)

// NewDictionary returns the converter for Go maps.
//
// Keys and values are encoded through the dispatcher. When every key
// encodes to a distinct, non-reserved String the map travels in compact
// form, a Map keyed by those strings. Otherwise it travels in general form,
// a List of {"Key": k, "Value": v} records. Entries are emitted in sorted
// key order so equal maps encode identically.
func NewDictionary() apis.Converter {
	return dictionary{}
}

type dictionary struct{ leaf }

var _ apis.Converter = dictionary{}

func (dictionary) CanProcess(t reflect.Type) bool {
	return t.Kind() == reflect.Map
}

func (dictionary) TrySerialize(d apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	keys := v.MapKeys()
	uref.SortKeys(keys)

	var res diag.Result
	encKeys := make([]*value.Value, len(keys))
	encVals := make([]*value.Value, len(keys))
	compact := true
	seen := make(map[string]bool, len(keys))
	for i, k := range keys {
		seg := keySegment(k)
		kd, kr := d.Encode(k, t.Key())
		vd, vr := d.Encode(v.MapIndex(k), t.Elem())
		res.Merge(kr.Within(seg))
		res.Merge(vr.Within(seg))
		encKeys[i], encVals[i] = kd, vd

		s, ok := kd.AsString()
		if !ok || seen[s] || value.IsReservedKey(s) {
			compact = false
		}
		seen[s] = true
	}

	if compact {
		obj := value.NewObject(len(keys))
		for i := range keys {
			s, _ := encKeys[i].AsString()
			obj.Set(s, encVals[i])
		}
		return value.FromObject(obj), res
	}
	items := make([]*value.Value, len(keys))
	for i := range keys {
		items[i] = value.Map(value.M(KeyField, encKeys[i]), value.M(ValueField, encVals[i]))
	}
	return value.List(items...), res
}

// TryDeserialize accepts both forms. Entries that fail to decode are
// reported and skipped; the remaining entries are still stored. Existing
// entries of a non-nil dst are kept.
func (dictionary) TryDeserialize(d apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	out := dst
	if out.IsNil() {
		out = reflect.MakeMapWithSize(t, data.Len())
	}

	var res diag.Result
	switch data.Kind() {
	case value.KindMap:
		data.Object().Range(func(key string, node *value.Value) bool {
			if value.IsReservedKey(key) {
				return true
			}
			res.Merge(storeEntry(d, out, t, value.String(key), node).Within(fmt.Sprintf("[%q]", key)))
			return true
		})
	case value.KindList:
		for i, rec := range data.Items() {
			kd, okKey := rec.Get(KeyField)
			vd, okVal := rec.Get(ValueField)
			if !okKey || !okVal {
				res.Merge(diag.Fail(diag.MissingMember, "dictionary entry needs %q and %q members, got %s", KeyField, ValueField, rec).Within(index(i)))
				continue
			}
			res.Merge(storeEntry(d, out, t, kd, vd).Within(index(i)))
		}
	default:
		return mismatch(data, t, value.KindMap, value.KindList)
	}
	dst.Set(out)
	return res
}

// storeEntry decodes one entry and inserts it. Null keys and values are
// decoded to the zero value of their type and stored as such: the zero
// value is a valid reflect.Value, so SetMapIndex inserts instead of deleting.
func storeEntry(d apis.Dispatcher, m reflect.Value, t reflect.Type, kd, vd *value.Value) diag.Result {
	k := d.Create(kd, t.Key())
	res := d.Decode(kd, k, t.Key())
	if res.Failed() {
		return res
	}
	v := d.Create(vd, t.Elem())
	r := d.Decode(vd, v, t.Elem())
	res.Merge(r)
	if r.Failed() {
		return res
	}
	m.SetMapIndex(k, v)
	return res
}

func keySegment(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return fmt.Sprintf("[%q]", k.String())
	}
	if k.CanInterface() {
		return fmt.Sprintf("[%v]", k.Interface())
	}
	return "[?]"
}
