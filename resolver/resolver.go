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

// Package resolver names the concrete types written into "$type".
package resolver

import (
	"reflect"
	"slices"

	"dirpx.dev/sval/apis"
	uref "dirpx.dev/sval/utils/reflect"
)

// New returns a resolver that asks strategies in order; the first non-empty
// name wins. Nil strategies are dropped. The resolver is safe for concurrent
// use when the strategies are.
func New(strategies ...apis.Strategy) apis.Resolver {
	strats := slices.DeleteFunc(slices.Clone(strategies), func(s apis.Strategy) bool {
		return s == nil
	})
	return &resolver{strats: strats}
}

type resolver struct {
	strats []apis.Strategy
}

// Resolve names the dynamic type of v. A nil pointer, map or slice is named
// by its type so that no strategy calls a method on a nil receiver.
func (r *resolver) Resolve(v any, cfg apis.Config) string {
	if v == nil {
		return ""
	}
	if rv := reflect.ValueOf(v); uref.IsNil(rv) {
		return r.ResolveType(rv.Type(), cfg)
	}
	return r.first(func(s apis.Strategy) (string, bool) {
		return s.TryResolve(v, cfg)
	})
}

// ResolveType names t.
func (r *resolver) ResolveType(t reflect.Type, cfg apis.Config) string {
	if t == nil {
		return ""
	}
	return r.first(func(s apis.Strategy) (string, bool) {
		return s.TryResolveType(t, cfg)
	})
}

func (r *resolver) first(try func(apis.Strategy) (string, bool)) string {
	for _, s := range r.strats {
		if name, ok := try(s); ok && name != "" {
			return name
		}
	}
	return ""
}
