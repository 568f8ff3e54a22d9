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

// TypeWriter controls when the engine writes the "$type" discriminator.
type TypeWriter uint8

const (
	// TypeWriterWhenNeeded writes "$type" only when the concrete type differs
	// from the declared type and the declared converter asks for it.
	TypeWriterWhenNeeded TypeWriter = iota
	// TypeWriterNever never writes "$type".
	TypeWriterNever
	// TypeWriterAlways writes "$type" for every value whose converter
	// requests inheritance support.
	TypeWriterAlways
)

// String returns the option name as used in configuration files.
func (w TypeWriter) String() string {
	switch w {
	case TypeWriterNever:
		return "never"
	case TypeWriterAlways:
		return "always"
	default:
		return "when-needed"
	}
}

// Config carries read-only knobs that influence encoding and decoding.
// It is passed by value and should be treated as immutable by implementations.
// The zero Config is usable: every field's zero value selects the default.
type Config struct {
	// TypeWriter controls emission of the "$type" discriminator.
	TypeWriter TypeWriter

	// CaseInsensitive makes struct member lookup fold case on decode.
	CaseInsensitive bool

	// MaxDepth limits recursive dispatch. Values <= 0 select the default.
	MaxDepth int

	// DisableCycles turns off "$id"/"$ref" identity tracking for pointers.
	DisableCycles bool

	// TagName is the struct tag consulted for member metadata.
	// Empty selects "sval".
	TagName string

	// FullTypeNames makes reflected "$type" names use the full import path
	// instead of the last path element.
	FullTypeNames bool

	// EnumsAsNames selects name encoding for enums whose descriptor leaves
	// the shape unspecified.
	EnumsAsNames bool
}
