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

package apis

import (
	"reflect"

	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// Converter encodes and decodes one family of Go types.
//
// Converters are registered once and are stateless afterwards. They recurse
// into nested element and member types only through the Dispatcher they are
// handed, never by calling each other directly.
type Converter interface {
	// CanProcess reports whether the converter owns values declared as t.
	CanProcess(t reflect.Type) bool

	// TrySerialize encodes v, whose declared type is t. v is never a nil
	// pointer, map, slice or interface: the engine encodes those as Null.
	TrySerialize(d Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result)

	// TryDeserialize decodes data into dst, a settable value of type t.
	// data is never Null: the engine stores the zero value for those.
	TryDeserialize(d Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result

	// CreateInstance returns a fresh settable value of type t to decode
	// data into.
	CreateInstance(data *value.Value, t reflect.Type) reflect.Value

	// RequestsCycleSupport reports whether pointers to t take part in
	// "$id"/"$ref" identity tracking.
	RequestsCycleSupport(t reflect.Type) bool

	// RequestsInheritanceSupport reports whether a value declared as t may
	// need a "$type" discriminator.
	RequestsInheritanceSupport(t reflect.Type) bool
}

// Dispatcher is the recursion entry point handed to converters.
// Implementations carry the per-call state (identity tracking, depth, path).
type Dispatcher interface {
	// Encode encodes v as declared type t.
	Encode(v reflect.Value, t reflect.Type) (*value.Value, diag.Result)

	// Decode decodes data into dst, a settable value of type t.
	Decode(data *value.Value, dst reflect.Value, t reflect.Type) diag.Result

	// Create returns a fresh settable instance of t from t's converter,
	// for containers that allocate elements before decoding into them.
	Create(data *value.Value, t reflect.Type) reflect.Value

	// Config returns the configuration of the running operation.
	Config() Config
}

// Chain selects the converter for a type.
type Chain interface {
	// Lookup returns the first converter whose CanProcess accepts t.
	Lookup(t reflect.Type) (Converter, bool)

	// Converters returns the converters in priority order.
	Converters() []Converter
}
