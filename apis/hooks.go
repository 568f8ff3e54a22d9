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

import "dirpx.dev/sval/value"

// Namer lets a type choose its own "$type" discriminator.
// EntityName must be constant for a type and independent of instance state.
type Namer interface {
	EntityName() string
}

// ConditionalSerializer is consulted for every readable member before it is
// encoded. member is the Go field name. Returning false skips the member.
type ConditionalSerializer interface {
	ShouldSerialize(member string) bool
}

// Initializer is called on freshly created instances before decoding
// populates them. Members absent from the payload keep these defaults.
type Initializer interface {
	InitDefaults()
}

// BeforeEncoder is called before a value is encoded.
type BeforeEncoder interface {
	BeforeEncode()
}

// AfterEncoder is called with the encoded form of a value. It may add
// members to a Map payload but must not replace it.
type AfterEncoder interface {
	AfterEncode(data *value.Value)
}

// AfterDecoder is called once a value has been populated. A returned error
// is recorded as a hook failure.
type AfterDecoder interface {
	AfterDecode() error
}
