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
	"reflect"

	"dirpx.dev/sval/apis"
	uref "dirpx.dev/sval/utils/reflect"
)

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is a zero-cost fast path: if v implements apis.Namer,
// return its EntityName() and stop the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryResolve checks if v implements apis.Namer and returns its EntityName().
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.Namer); ok {
		if name := n.EntityName(); name != "" {
			return name, true
		}
	}
	return "", false
}

// TryResolveType asks a freshly allocated *T for its name, which covers
// both value and pointer receivers. EntityName is expected not to depend
// on field values.
func (*namerStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	base, err := uref.Normalize(t)
	if err != nil {
		return "", false
	}
	if base.Kind() == reflect.Interface {
		return "", false
	}
	if n, ok := reflect.New(base).Interface().(apis.Namer); ok {
		if name := n.EntityName(); name != "" {
			return name, true
		}
	}
	return "", false
}
