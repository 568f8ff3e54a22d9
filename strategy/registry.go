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
)

// NewRegistryStrategy returns the strategy that names types from reg.
// Explicit registrations and the names recorded by earlier encodes both
// live in reg, so a type keeps its first "$type" name for reg's lifetime.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return registryStrategy{reg: reg}
}

type registryStrategy struct {
	reg apis.Registry
}

var _ apis.Strategy = registryStrategy{}

// TryResolve names the dynamic type of v.
func (s registryStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return s.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType names t. The registry keys T and *T together.
func (s registryStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	if s.reg == nil || t == nil {
		return "", false
	}
	name, ok := s.reg.Lookup(t)
	return name, ok && name != ""
}
