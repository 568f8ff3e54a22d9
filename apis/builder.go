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

// Builder assembles the pieces an engine runs on. The root package calls it
// whenever configuration, registry or converters change.
type Builder interface {
	// BuildRegistry returns the type registry for cfg. prev is the registry
	// being replaced, if any; ext is caller-defined.
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildResolver returns the "$type" name resolver over reg. prev is the
	// resolver being replaced, if any; ext is caller-defined.
	BuildResolver(cfg Config, reg Registry, prev Resolver, ext any) Resolver
	// BuildChain returns the converter chain. custom converters are tried
	// before the built-in set, in the given order.
	BuildChain(cfg Config, custom []Converter, ext any) Chain
}
