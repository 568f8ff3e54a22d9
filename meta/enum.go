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

package meta

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"dirpx.dev/sval/apis"
)

var (
	// ErrNotInteger is returned when an enum is registered on a non-integer type.
	ErrNotInteger = errors.New("sval(meta): enum type must have an integer kind")
	// ErrEmptyMemberName is returned when an enum member has no name.
	ErrEmptyMemberName = errors.New("sval(meta): enum member without a name")
	// ErrConflictingEnum indicates an attempt to re-register an enum with a different spec.
	ErrConflictingEnum = errors.New("sval(meta): conflicting enum registration")
)

// Enum is the compiled form of an apis.EnumSpec for one Go type.
type Enum struct {
	// Type is the enum's Go type.
	Type reflect.Type
	// Flags marks a bit-flag set.
	Flags bool
	// Shape is the declared wire shape.
	Shape apis.EnumShape
	// Members are the declared members in declaration order.
	Members []EnumMember

	spec apis.EnumSpec
}

// EnumMember is a declared member with its folded names precomputed.
type EnumMember struct {
	apis.EnumMember

	canonical string
	custom    string
	fallback  []string
}

// WireName returns the serialized name, or the canonical name when unset.
func (m *EnumMember) WireName() string {
	if m.SerializedName != "" {
		return m.SerializedName
	}
	return m.Name
}

// matches reports whether any of the member's names is in the folded set.
func (m *EnumMember) matches(set map[string]bool) bool {
	if set[m.canonical] || (m.custom != "" && set[m.custom]) {
		return true
	}
	for _, f := range m.fallback {
		if set[f] {
			return true
		}
	}
	return false
}

var (
	// registeredEnums holds explicit registrations.
	registeredEnums sync.Map // key: reflect.Type, val: *Enum
	// describedEnums memoizes apis.EnumDescriber lookups, including misses.
	describedEnums sync.Map // key: reflect.Type, val: *Enum (nil for "not an enum")
	// enumMu serializes registrations.
	enumMu sync.Mutex
)

// RegisterEnum declares t as an enum described by spec.
// Re-registering the same spec is a no-op; a different spec is rejected.
func RegisterEnum(t reflect.Type, spec apis.EnumSpec) error {
	e, err := compile(t, spec)
	if err != nil {
		return err
	}
	enumMu.Lock()
	defer enumMu.Unlock()
	if old, ok := registeredEnums.Load(t); ok {
		if reflect.DeepEqual(old.(*Enum).spec, spec) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrConflictingEnum, t)
	}
	registeredEnums.Store(t, e)
	return nil
}

// UnregisterEnum removes an explicit registration. It exists for tests and
// for hosts that reload their type catalog.
func UnregisterEnum(t reflect.Type) {
	enumMu.Lock()
	defer enumMu.Unlock()
	registeredEnums.Delete(t)
}

// EnumOf returns the enum description of t, either registered or supplied
// by t implementing apis.EnumDescriber.
func EnumOf(t reflect.Type) (*Enum, bool) {
	if t == nil || !isInteger(t.Kind()) {
		return nil, false
	}
	if v, ok := registeredEnums.Load(t); ok {
		return v.(*Enum), true
	}
	if v, ok := describedEnums.Load(t); ok {
		e := v.(*Enum)
		return e, e != nil
	}
	var e *Enum
	if d, ok := reflect.Zero(t).Interface().(apis.EnumDescriber); ok {
		// A bad self-description is treated as "not an enum".
		e, _ = compile(t, d.EnumSpec())
	}
	actual, _ := describedEnums.LoadOrStore(t, e)
	e = actual.(*Enum)
	return e, e != nil
}

func compile(t reflect.Type, spec apis.EnumSpec) (*Enum, error) {
	if t == nil || !isInteger(t.Kind()) {
		return nil, fmt.Errorf("%w: %v", ErrNotInteger, t)
	}
	e := &Enum{
		Type:    t,
		Flags:   spec.Flags,
		Shape:   spec.Shape,
		Members: make([]EnumMember, len(spec.Members)),
		spec:    spec,
	}
	for i, m := range spec.Members {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: %v member #%d", ErrEmptyMemberName, t, i)
		}
		em := EnumMember{EnumMember: m, canonical: Fold(m.Name)}
		if m.SerializedName != "" {
			em.custom = Fold(m.SerializedName)
		}
		for _, f := range m.FallbackNames {
			em.fallback = append(em.fallback, Fold(f))
		}
		e.Members[i] = em
	}
	return e, nil
}

// AsNames reports whether values of e travel as names under cfg.
func (e *Enum) AsNames(cfg apis.Config) bool {
	switch e.Shape {
	case apis.EnumShapeNames:
		return true
	case apis.EnumShapeNumeric:
		return false
	default:
		return cfg.EnumsAsNames
	}
}

// Aggregate re-derives a flag value from the declared members: the OR of
// every member sharing a bit with n. Undeclared bits are dropped, so a raw
// all-bits-set value (-1) reports only the declared bits.
func (e *Enum) Aggregate(n int64) int64 {
	var out int64
	for i := range e.Members {
		if v := e.Members[i].Value; n&v != 0 {
			out |= v
		}
	}
	return out
}

// Text returns the textual representation of n: the member names present
// in n, comma-separated. A scalar value with no member renders as its number.
func (e *Enum) Text(n int64) string {
	var names []string
	for i := range e.Members {
		m := &e.Members[i]
		switch {
		case !e.Flags:
			if m.Value == n {
				return m.Name
			}
		case m.Value == 0:
			if n == 0 {
				names = append(names, m.Name)
			}
		case n&m.Value == m.Value:
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return strconv.FormatInt(n, 10)
	}
	return strings.Join(names, ", ")
}

// FormatNames encodes n in name form. The textual representation is split
// into a case-insensitive name set; declared members are walked in order
// and every member whose canonical, serialized or fallback name is in the
// set contributes its wire name.
func (e *Enum) FormatNames(n int64) string {
	set := tokenSet(e.Text(n))
	var b strings.Builder
	for i := range e.Members {
		m := &e.Members[i]
		if !m.matches(set) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.WireName())
	}
	return b.String()
}

// ParseNames decodes name form. Every token must match a member; the
// unmatched tokens are returned in input order.
func (e *Enum) ParseNames(s string) (int64, []string) {
	tokens := Tokens(s)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[Fold(t)] = true
	}
	var out int64
	matched := make(map[string]bool, len(set))
	for i := range e.Members {
		m := &e.Members[i]
		hit := false
		for _, name := range m.folded() {
			if set[name] {
				matched[name] = true
				hit = true
			}
		}
		if hit {
			out |= m.Value
		}
	}
	var missing []string
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		f := Fold(t)
		if !matched[f] && !seen[f] {
			missing = append(missing, t)
		}
		seen[f] = true
	}
	return out, missing
}

func (m *EnumMember) folded() []string {
	out := make([]string, 0, 2+len(m.fallback))
	out = append(out, m.canonical)
	if m.custom != "" {
		out = append(out, m.custom)
	}
	return append(out, m.fallback...)
}

// Tokens splits s on ',', ' ' and '|', dropping empty tokens.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|'
	})
}

func tokenSet(s string) map[string]bool {
	tokens := Tokens(s)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[Fold(t)] = true
	}
	return set
}

// IntegerOf reads an integer-kinded value as int64. Unsigned values are
// reinterpreted bit for bit.
func IntegerOf(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

// SetInteger stores n into an integer-kinded settable value without range
// checks; excess bits are truncated by the conversion.
func SetInteger(dst reflect.Value, n int64) {
	switch dst.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		dst.SetUint(uint64(n))
	default:
		dst.SetInt(n)
	}
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
