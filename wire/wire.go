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

// Package wire moves value.Value trees to and from bytes.
//
// Every codec works in memory; reading and writing files or sockets is the
// caller's business. Map member order survives JSON, JSONC and YAML. CBOR
// uses Core Deterministic Encoding, so members come back sorted by key.
package wire

import (
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/sval/value"
)

var (
	// ErrUnknownCodec is returned by ByName for an unsupported codec name.
	ErrUnknownCodec = errors.New("sval(wire): unknown codec")
	// ErrNonScalarKey is returned when a mapping key is not a scalar.
	ErrNonScalarKey = errors.New("sval(wire): mapping key is not a scalar")
	// ErrUnsupportedItem is returned for wire items with no value.Value form.
	ErrUnsupportedItem = errors.New("sval(wire): unsupported item")
	// ErrTooDeep is returned when nesting exceeds MaxDepth.
	ErrTooDeep = errors.New("sval(wire): nesting too deep")
)

// MaxDepth bounds nesting while converting decoded documents.
const MaxDepth = 512

// Codec converts between value.Value and one byte format.
type Codec interface {
	// Name returns the short format name ("json", "yaml", ...).
	Name() string
	// ContentType returns the MIME type of the format.
	ContentType() string
	// Marshal encodes v.
	Marshal(v *value.Value) ([]byte, error)
	// Unmarshal decodes data.
	Unmarshal(data []byte) (*value.Value, error)
}

// Codecs returns every built-in codec.
func Codecs() []Codec {
	return []Codec{JSON, JSONC, YAML, CBOR}
}

// ByName returns the codec with the given name, ignoring case.
func ByName(name string) (Codec, error) {
	for _, c := range Codecs() {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
