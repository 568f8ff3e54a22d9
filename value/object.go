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

package value

// Reserved top-level keys carry engine metadata inside Map payloads.
// Dictionary decoding skips them.
const (
	// KeyRef marks a back-reference to an object defined elsewhere in the graph.
	KeyRef = "$ref"
	// KeyID marks an object definition that a KeyRef points to.
	KeyID = "$id"
	// KeyType carries the concrete type name when it differs from the declared type.
	KeyType = "$type"
	// KeyVersion carries a payload version string.
	KeyVersion = "$version"
	// KeyContent wraps a non-Map payload that needed metadata attached.
	KeyContent = "$content"
)

var reservedKeys = map[string]struct{}{
	KeyRef:     {},
	KeyID:      {},
	KeyType:    {},
	KeyVersion: {},
	KeyContent: {},
}

// IsReservedKey reports whether key is one of the engine metadata keys.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value *Value
}

// M is shorthand for constructing a Member.
func M(key string, v *Value) Member {
	return Member{Key: key, Value: v}
}

// Object is an insertion-ordered mapping from string keys to values.
// Keys are unique: Set on an existing key replaces its value in place.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty Object with room for n members.
func NewObject(n int) *Object {
	return &Object{
		members: make([]Member, 0, n),
		index:   make(map[string]int, n),
	}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. Last write wins; an existing key keeps its position.
func (o *Object) Set(key string, v *Value) {
	v = orNull(v)
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Prepend stores v under key as the first member. An existing key is
// replaced in place, like Set.
func (o *Object) Prepend(key string, v *Value) {
	v = orNull(v)
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.members = append(o.members, Member{})
	copy(o.members[1:], o.members)
	o.members[0] = Member{Key: key, Value: v}
	for j, m := range o.members {
		o.index[m.Key] = j
	}
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for _, m := range o.members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Members returns a copy of the members in insertion order.
func (o *Object) Members() []Member {
	out := make([]Member, o.Len())
	if o != nil {
		copy(out, o.members)
	}
	return out
}

// Range calls fn for each member in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v *Value) bool) {
	if o == nil {
		return
	}
	for _, m := range o.members {
		if !fn(m.Key, m.Value) {
			return
		}
	}
}
