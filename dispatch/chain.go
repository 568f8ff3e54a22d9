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

package dispatch

import (
	"reflect"
	"sync"

	"dirpx.dev/sval/apis"
)

// New constructs an apis.Chain that tests the given converters in order.
// Nil converters are ignored. The returned chain is safe for concurrent use
// provided the converters are safe for concurrent CanProcess calls.
func New(converters ...apis.Converter) apis.Chain {
	out := make([]apis.Converter, 0, len(converters))
	for _, c := range converters {
		if c != nil {
			out = append(out, c)
		}
	}
	return &chain{convs: out}
}

// chain is an immutable, order-preserving converter list with a per-type
// memo of the selection.
type chain struct {
	convs []apis.Converter
	// picked caches the selection per type; misses are stored as nil.
	picked sync.Map // key: reflect.Type, val: apis.Converter
}

// Ensure chain implements apis.Chain.
var _ apis.Chain = (*chain)(nil)

// Lookup returns the first converter whose CanProcess accepts t.
// There is no chaining: the first match owns t.
func (c *chain) Lookup(t reflect.Type) (apis.Converter, bool) {
	if t == nil {
		return nil, false
	}
	if v, ok := c.picked.Load(t); ok {
		conv, _ := v.(apis.Converter)
		return conv, conv != nil
	}
	var found apis.Converter
	for _, conv := range c.convs {
		if conv.CanProcess(t) {
			found = conv
			break
		}
	}
	// Racing lookups compute the same answer; either store wins.
	c.picked.Store(t, found)
	return found, found != nil
}

// Converters returns a copy of the converters in priority order.
func (c *chain) Converters() []apis.Converter {
	out := make([]apis.Converter, len(c.convs))
	copy(out, c.convs)
	return out
}
