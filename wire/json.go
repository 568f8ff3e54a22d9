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

package wire

import (
	"github.com/tidwall/jsonc"

	"dirpx.dev/sval/value"
)

var (
	// JSON is plain JSON with ordered objects.
	JSON Codec = jsonCodec{}
	// JSONC accepts JSON with comments and trailing commas; it writes plain JSON.
	JSONC Codec = jsoncCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v *value.Value) ([]byte, error) {
	return v.MarshalJSON()
}

func (jsonCodec) Unmarshal(data []byte) (*value.Value, error) {
	return value.ParseJSON(data)
}

type jsoncCodec struct{ jsonCodec }

func (jsoncCodec) Name() string { return "jsonc" }

func (jsoncCodec) Unmarshal(data []byte) (*value.Value, error) {
	return value.ParseJSON(jsonc.ToJSON(data))
}
