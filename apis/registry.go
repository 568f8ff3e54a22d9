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

import "reflect"

// Registry maps concrete Go types to the names carried by "$type" and back.
// Encoding records names in it; decoding instantiates the types it returns.
type Registry interface {
	// Register associates t with name. Registering the same pair twice is a
	// no-op; a second name for t or a second type for name is an error.
	Register(t reflect.Type, name string) error
	// Lookup returns the name recorded for t.
	Lookup(t reflect.Type) (name string, ok bool)
	// LookupName returns the type recorded under name.
	LookupName(name string) (t reflect.Type, ok bool)
	// Entries returns a snapshot of every association, in no particular order.
	Entries() []Entry
	// Count returns the number of associations.
	Count() int
	// Reset forgets every association.
	Reset()
}

// Entry is one type/name association.
type Entry struct {
	// Type is the type as registered, pointer levels included.
	Type reflect.Type
	// Name is the "$type" name.
	Name string
}
