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

package wire

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"dirpx.dev/sval/value"
)

// CBOR reads and writes RFC 8949 CBOR. Writing uses Core Deterministic
// Encoding: equal values always produce identical bytes. Byte strings read
// as base64 Strings, the same form byte slices encode to.
var CBOR Codec = cborCodec{}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("sval(wire): CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		// Decoded maps must be keyed by strings to become Map members.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels: MaxDepth,
	}.DecMode()
	if err != nil {
		panic("sval(wire): CBOR decoder initialization failed: " + err.Error())
	}
}

type cborCodec struct{}

func (cborCodec) Name() string        { return "cbor" }
func (cborCodec) ContentType() string { return "application/cbor" }

func (cborCodec) Marshal(v *value.Value) ([]byte, error) {
	return cborEnc.Marshal(toNative(v))
}

func (cborCodec) Unmarshal(data []byte) (*value.Value, error) {
	var out any
	if err := cborDec.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return fromNative(out, 0)
}

// toNative converts v to plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func toNative(v *value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInt:
		n, _ := v.AsInt()
		return n
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindList:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = toNative(item)
		}
		return out
	case value.KindMap:
		out := make(map[string]any, v.Len())
		v.Object().Range(func(key string, member *value.Value) bool {
			out[key] = toNative(member)
			return true
		})
		return out
	default:
		return nil
	}
}

// fromNative converts a decoded CBOR item back. Map members are ordered by
// key since the decoded Go map has no order.
func fromNative(x any, depth int) (*value.Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	switch t := x.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case int64:
		return value.Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return value.Float(float64(t)), nil
		}
		return value.Int(int64(t)), nil
	case float64:
		return value.Float(t), nil
	case float32:
		return value.Float(float64(t)), nil
	case string:
		return value.String(t), nil
	case []byte:
		return value.String(base64.StdEncoding.EncodeToString(t)), nil
	case []any:
		out := value.List()
		for _, item := range t {
			v, err := fromNative(item, depth+1)
			if err != nil {
				return nil, err
			}
			out.Append(v)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		obj := value.NewObject(len(keys))
		for _, k := range keys {
			v, err := fromNative(t[k], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return value.FromObject(obj), nil
	default:
		return nil, fmt.Errorf("%w: cbor %T", ErrUnsupportedItem, x)
	}
}
