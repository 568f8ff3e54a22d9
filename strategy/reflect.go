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

package strategy

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/sval/apis"
	uref "dirpx.dev/sval/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives names via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes a stable "pkg.Type".
// It strips pointers via Normalize and generic instantiation parameters.
// Predeclared types (int, string, ...) have no package and get no name:
// their encoded shape already identifies them.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t    reflect.Type
	full bool
}

// typeNameCache caches resolved type names by (type, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: string

// TryResolve computes the name for v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return resolved(byType(reflect.TypeOf(v), cfg))
}

// TryResolveType computes the name for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return resolved(byType(t, cfg))
}

func resolved(name string) (string, bool) {
	return name, name != ""
}

// byType resolves the name for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{t: t, full: cfg.FullTypeNames}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	base, err := uref.Normalize(t)
	if err != nil || base == nil {
		typeNameCache.Store(key, "")
		return ""
	}

	var name string
	if p := base.PkgPath(); p != "" {
		if !cfg.FullTypeNames {
			p = path.Base(p)
		}
		name = p + "." + stripTypeParams(base.Name())
	}

	typeNameCache.Store(key, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
