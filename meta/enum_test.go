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

package meta_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/meta"
)

type access uint8

const (
	accessNone  access = 0
	accessRead  access = 1
	accessWrite access = 2
	accessAdmin access = 4
)

func (access) EnumSpec() apis.EnumSpec {
	return apis.EnumSpec{
		Flags: true,
		Members: []apis.EnumMember{
			{Name: "None", Value: int64(accessNone)},
			{Name: "Read", SerializedName: "r", Value: int64(accessRead)},
			{Name: "Write", FallbackNames: []string{"Modify"}, Value: int64(accessWrite)},
			{Name: "Admin", Value: int64(accessAdmin)},
		},
	}
}

type color int

var colorSpec = apis.EnumSpec{
	Shape: apis.EnumShapeNames,
	Members: []apis.EnumMember{
		{Name: "Red", Value: 1},
		{Name: "Green", Value: 2},
	},
}

func TestEnumOf_Describer(t *testing.T) {
	e, ok := meta.EnumOf(reflect.TypeFor[access]())
	require.True(t, ok)
	assert.True(t, e.Flags)
	assert.Len(t, e.Members, 4)

	again, _ := meta.EnumOf(reflect.TypeFor[access]())
	assert.Same(t, e, again)

	_, ok = meta.EnumOf(reflect.TypeFor[int]())
	assert.False(t, ok)
	_, ok = meta.EnumOf(reflect.TypeFor[string]())
	assert.False(t, ok)
	_, ok = meta.EnumOf(nil)
	assert.False(t, ok)
}

func TestRegisterEnum(t *testing.T) {
	rt := reflect.TypeFor[color]()
	t.Cleanup(func() { meta.UnregisterEnum(rt) })

	_, ok := meta.EnumOf(rt)
	require.False(t, ok)

	require.NoError(t, meta.RegisterEnum(rt, colorSpec))
	require.NoError(t, meta.RegisterEnum(rt, colorSpec), "same spec is a no-op")

	e, ok := meta.EnumOf(rt)
	require.True(t, ok)
	assert.True(t, e.AsNames(apis.Config{}))

	other := colorSpec
	other.Flags = true
	assert.ErrorIs(t, meta.RegisterEnum(rt, other), meta.ErrConflictingEnum)

	assert.ErrorIs(t, meta.RegisterEnum(reflect.TypeFor[string](), colorSpec), meta.ErrNotInteger)
	assert.ErrorIs(t, meta.RegisterEnum(reflect.TypeFor[int16](), apis.EnumSpec{
		Members: []apis.EnumMember{{Value: 1}},
	}), meta.ErrEmptyMemberName)

	meta.UnregisterEnum(rt)
	_, ok = meta.EnumOf(rt)
	assert.False(t, ok)
}

func TestEnum_AsNames(t *testing.T) {
	e, _ := meta.EnumOf(reflect.TypeFor[access]())
	assert.False(t, e.AsNames(apis.Config{}))
	assert.True(t, e.AsNames(apis.Config{EnumsAsNames: true}))

	numeric := &meta.Enum{Shape: apis.EnumShapeNumeric}
	assert.False(t, numeric.AsNames(apis.Config{EnumsAsNames: true}))
}

func TestEnum_TextAndFormat(t *testing.T) {
	e, _ := meta.EnumOf(reflect.TypeFor[access]())

	assert.Equal(t, "None", e.Text(0))
	assert.Equal(t, "Read, Write", e.Text(3))
	assert.Equal(t, "8", e.Text(8))

	assert.Equal(t, "None", e.FormatNames(0))
	assert.Equal(t, "r,Write,Admin", e.FormatNames(7))
}

func TestEnum_ParseNames(t *testing.T) {
	e, _ := meta.EnumOf(reflect.TypeFor[access]())

	n, missing := e.ParseNames("R | modify,admin")
	assert.EqualValues(t, 7, n)
	assert.Empty(t, missing)

	n, missing = e.ParseNames("read, bogus, BOGUS, other")
	assert.EqualValues(t, 1, n)
	assert.Equal(t, []string{"bogus", "other"}, missing)

	n, missing = e.ParseNames("")
	assert.Zero(t, n)
	assert.Empty(t, missing)
}

func TestEnum_Aggregate(t *testing.T) {
	e, _ := meta.EnumOf(reflect.TypeFor[access]())
	assert.EqualValues(t, 7, e.Aggregate(-1))
	assert.EqualValues(t, 2, e.Aggregate(2|16))
	assert.Zero(t, e.Aggregate(0))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, meta.Tokens(" a,,b | c "))
	assert.Empty(t, meta.Tokens(" , | "))
}

func TestIntegers(t *testing.T) {
	var u uint8
	dst := reflect.ValueOf(&u).Elem()
	meta.SetInteger(dst, 0x1FF)
	assert.Equal(t, uint8(0xFF), u)
	assert.EqualValues(t, 255, meta.IntegerOf(dst))

	var i int16
	meta.SetInteger(reflect.ValueOf(&i).Elem(), -3)
	assert.EqualValues(t, -3, meta.IntegerOf(reflect.ValueOf(i)))
}
