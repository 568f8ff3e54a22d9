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
)

// Resolver names the concrete type written into "$type" when a value sits
// behind an interface. The default chain asks Namer, then the Registry,
// then falls back to the reflected "pkg.Type" name.
type Resolver interface {
	// Resolve names the dynamic type of v, or returns "" when no name applies.
	Resolve(v any, cfg Config) string

	// ResolveType names t, or returns "" when no name applies.
	ResolveType(t reflect.Type, cfg Config) string
}

// Strategy is one naming step of a Resolver.
type Strategy interface {
	// TryResolve names the dynamic type of v. handled is false when the
	// strategy has no opinion and the next one should be asked.
	TryResolve(v any, cfg Config) (name string, handled bool)

	// TryResolveType names t, with the same fall-through rule.
	TryResolveType(t reflect.Type, cfg Config) (name string, handled bool)
}
