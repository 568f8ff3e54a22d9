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

package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/registry"
	uref "dirpx.dev/sval/utils/reflect"
)

func TestRegister_IdempotentAndLookup(t *testing.T) {
	reg := registry.New()

	require.NoError(t, reg.Register(reflect.TypeOf(&invoice{}), "billing.Invoice"))
	// idempotent re-register with same name, through either pointer level
	require.NoError(t, reg.Register(reflect.TypeOf(&invoice{}), "billing.Invoice"))
	require.NoError(t, reg.Register(reflect.TypeOf(invoice{}), "billing.Invoice"))

	name, ok := reg.Lookup(reflect.TypeOf(&invoice{}))
	assert.True(t, ok)
	assert.Equal(t, "billing.Invoice", name)

	name, ok = reg.Lookup(reflect.TypeOf(invoice{}))
	assert.True(t, ok)
	assert.Equal(t, "billing.Invoice", name)

	assert.Equal(t, 1, reg.Count())
}

func TestLookupName_ReturnsTypeAsRegistered(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(reflect.TypeOf(&invoice{}), "billing.Invoice"))
	require.NoError(t, reg.Register(reflect.TypeOf(refund{}), "billing.Refund"))

	typ, ok := reg.LookupName("billing.Invoice")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(&invoice{}), typ)

	typ, ok = reg.LookupName("billing.Refund")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(refund{}), typ)

	_, ok = reg.LookupName("billing.Credit")
	assert.False(t, ok)
}

func TestRegister_Conflict(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(reflect.TypeOf(&invoice{}), "billing.Invoice"))

	// Same normalized type, different name.
	err := reg.Register(reflect.TypeOf(invoice{}), "other.Name")
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)

	// Same name, different type.
	err = reg.Register(reflect.TypeOf(refund{}), "billing.Invoice")
	assert.ErrorIs(t, err, registry.ErrConflictingName)

	assert.Equal(t, 1, reg.Count())
}

func TestRegister_Errors(t *testing.T) {
	reg := registry.New()

	assert.ErrorIs(t, reg.Register(nil, "x"), registry.ErrNilType)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf(&invoice{}), ""), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf([]invoice{}), "x"), uref.ErrReflectTypeNotNamed)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf(struct{}{}), "x"), uref.ErrReflectTypeNotNamed)
}

func TestEntriesAndReset(t *testing.T) {
	reg := registry.New()

	_ = reg.Register(reflect.TypeOf(&invoice{}), "billing.Invoice")
	_ = reg.Register(reflect.TypeOf(&refund{}), "billing.Refund")

	assert.Len(t, reg.Entries(), 2)
	assert.Equal(t, 2, reg.Count())

	reg.Reset()

	assert.Equal(t, 0, reg.Count())
	_, ok := reg.Lookup(reflect.TypeOf(&invoice{}))
	assert.False(t, ok)
	_, ok = reg.LookupName("billing.Invoice")
	assert.False(t, ok)

	// names are free again after Reset
	require.NoError(t, reg.Register(reflect.TypeOf(refund{}), "billing.Invoice"))
}

func TestLookupNilAndUnknown(t *testing.T) {
	reg := registry.New()

	name, ok := reg.Lookup(nil)
	assert.False(t, ok)
	assert.Empty(t, name)

	name, ok = reg.Lookup(reflect.TypeOf(&invoice{}))
	assert.False(t, ok)
	assert.Empty(t, name)
}
