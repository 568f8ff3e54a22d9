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

// Package sval converts Go values to and from a JSON-shaped value tree.
//
// sval sits between in-memory Go types and any wire format. Encoding turns
// a value into a *value.Value (Null, Bool, Int, Float, String, List, Map);
// decoding populates a Go value from such a tree. Package wire renders the
// tree as JSON, JSONC, YAML or CBOR.
//
// # Design
//
// Every type is owned by exactly one converter: the first entry of an
// ordered chain whose CanProcess accepts it. The built-in chain is
//
//  1. embedded value.Value passthrough
//  2. pointers (nullable)
//  3. uuid.UUID
//  4. time.Time and time.Duration
//  5. enums described by meta.Enum
//  6. encoding.TextMarshaler / encoding.TextUnmarshaler
//  7. bool, numbers and strings
//  8. slices and arrays
//  9. maps
//  10. interfaces
//  11. structs, through the metadata cache in package meta
//
// Converters added with AddConverter are consulted before all of them.
//
// Converters never recurse on their own. They call back into the engine,
// which owns per-call state: recursion depth, the "$id"/"$ref" identity
// tables for shared and cyclic pointers, and "$type" discriminators for
// values stored in interfaces.
//
// Failures are data. Every operation returns a diag.Result that collects
// warnings and failures with the member path they occurred at; a failing
// member does not stop its siblings. Callers must check the result before
// trusting a decoded value.
//
// # Global API
//
// The package keeps one immutable snapshot behind an atomic pointer:
//
//	data, res := sval.Encode(order)
//	res = sval.Decode(data, &order)
//
//	raw, err := sval.Marshal(wire.YAML, cfg)
//
// Readers never lock. Writers (SetConfig, SetBuilder, SetLogger, SetAll,
// AddConverter, RegisterEnum, ...) derive a new snapshot under a build
// mutex and publish it atomically. An *engine.Engine obtained from Engine
// keeps working with the configuration it was built from.
//
// # Registry and resolver
//
// "$type" names come from a resolver that tries, in order, apis.Namer on
// the value, the type registry and finally the reflected "pkg.Type" name.
// Names written on encode are recorded in the registry, so a process can
// decode what it wrote. Types decoded from foreign data must be registered
// up front with RegisterType.
//
// A registry or resolver installed with SetRegistry / SetResolver is
// pinned: configuration changes rebuild everything else but keep it.
//
// # Configuration
//
// See package config for the options and for loading an apis.Config from
// YAML, TOML or JSONC documents.
package sval
