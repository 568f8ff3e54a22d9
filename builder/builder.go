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

package builder

import (
	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/converter"
	"dirpx.dev/sval/dispatch"
	"dirpx.dev/sval/registry"
	"dirpx.dev/sval/resolver"
	"dirpx.dev/sval/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry. If a pre-existing
// registry is provided, its entries are copied into the new registry.
func (b *builder) BuildRegistry(_ apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New()
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds the type-name resolver: apis.Namer first, then the
// registry, then the reflected "pkg.Type" name.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}

// BuildChain builds the converter chain: custom converters in the given
// order, then the built-in set ending with the reflected fallback.
func (b *builder) BuildChain(_ apis.Config, custom []apis.Converter, _ any) apis.Chain {
	convs := make([]apis.Converter, 0, len(custom)+len(converter.Defaults()))
	convs = append(convs, custom...)
	convs = append(convs, converter.Defaults()...)
	return dispatch.New(convs...)
}
