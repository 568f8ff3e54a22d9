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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/sval/apis"
	uref "dirpx.dev/sval/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("sval(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("sval(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("sval(registry): conflicting type registration")
	// ErrConflictingName indicates an attempt to register a name that
	// already belongs to another type.
	ErrConflictingName = errors.New("sval(registry): name already registered for another type")
)

// New constructs an empty, concurrency-safe Registry.
//
// Types are keyed by their nearest named type, so T and *T share one
// entry; the type as registered is what LookupName returns, which lets a
// caller decide whether a "$type" payload rehydrates as T or as *T.
func New() apis.Registry {
	return &registry{}
}

// registry is a bidirectional type<->name registry backed by sync.Map.
type registry struct {
	// mu guards write-side consistency across both maps and the counter.
	mu sync.Mutex
	// types maps the normalized reflect.Type to its entry.
	types sync.Map // map[reflect.Type]apis.Entry
	// names maps a registered name to its entry.
	names sync.Map // map[string]apis.Entry
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the given name.
// It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	b, err := uref.Normalize(t)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if done, err := r.check(b, name); done {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if done, err := r.check(b, name); done {
		return err
	}

	e := apis.Entry{Type: t, Name: name}
	r.types.Store(b, e)
	r.names.Store(name, e)
	r.count++
	return nil
}

// check returns done=true when the registration is already decided.
func (r *registry) check(b reflect.Type, name string) (bool, error) {
	if old, ok := r.types.Load(b); ok {
		if old.(apis.Entry).Name == name {
			return true, nil
		}
		return true, fmt.Errorf("%w: %v is %q", ErrConflictingRegistration, b, old.(apis.Entry).Name)
	}
	if old, ok := r.names.Load(name); ok {
		return true, fmt.Errorf("%w: %q is %v", ErrConflictingName, name, old.(apis.Entry).Type)
	}
	return false, nil
}

// Lookup returns the name for t (or for the named type t points to).
func (r *registry) Lookup(t reflect.Type) (name string, ok bool) {
	b, err := uref.Normalize(t)
	if err != nil {
		return "", false
	}
	if v, ok := r.types.Load(b); ok {
		return v.(apis.Entry).Name, true
	}
	return "", false
}

// LookupName returns the type registered under name, exactly as registered.
func (r *registry) LookupName(name string) (reflect.Type, bool) {
	if v, ok := r.names.Load(name); ok {
		return v.(apis.Entry).Type, true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.names.Range(func(_, v any) bool {
		entries = append(entries, v.(apis.Entry))
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types.Clear()
	r.names.Clear()
	r.count = 0
}
