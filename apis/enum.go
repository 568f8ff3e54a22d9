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

// EnumShape selects how an enum travels on the wire.
type EnumShape uint8

const (
	// EnumShapeDefault defers to Config.EnumsAsNames.
	EnumShapeDefault EnumShape = iota
	// EnumShapeNumeric encodes the underlying integer.
	EnumShapeNumeric
	// EnumShapeNames encodes comma-joined member names.
	EnumShapeNames
)

// EnumMember declares one named value of an enum.
type EnumMember struct {
	// Name is the canonical (Go-side) member name.
	Name string
	// SerializedName replaces Name on the wire when non-empty.
	SerializedName string
	// FallbackNames are accepted on decode in addition to Name and SerializedName.
	FallbackNames []string
	// Value is the member's integral value.
	Value int64
}

// EnumSpec describes an integer-kinded type as an enumeration.
type EnumSpec struct {
	// Flags marks a bit-flag set: values combine with bitwise OR.
	Flags bool
	// Shape selects the wire encoding.
	Shape EnumShape
	// Members are the declared members, in declaration order.
	Members []EnumMember
}

// EnumDescriber lets a type describe itself as an enum without registration.
// It is called on the zero value of the type.
type EnumDescriber interface {
	EnumSpec() EnumSpec
}
