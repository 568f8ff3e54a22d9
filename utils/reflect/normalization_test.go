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

package reflect_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uref "dirpx.dev/sval/utils/reflect"
)

type A struct{}
type G[T any] struct{}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"ptr-ptr", reflect.TypeOf((**A)(nil)), reflect.TypeOf(A{})},
		{"generic", reflect.TypeOf(G[int]{}), reflect.TypeOf(G[int]{})},
		{"builtin", reflect.TypeOf(0), reflect.TypeOf(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := uref.Normalize(nil)
	assert.ErrorIs(t, err, uref.ErrReflectNilType)

	for _, typ := range []reflect.Type{
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(struct{ X int }{}),
		reflect.TypeOf(&struct{}{}),
	} {
		_, err := uref.Normalize(typ)
		assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed, "%v", typ)
	}
}

func TestIsNil(t *testing.T) {
	var p *A
	var m map[string]int
	var s []int
	var i any

	assert.True(t, uref.IsNil(reflect.Value{}))
	assert.True(t, uref.IsNil(reflect.ValueOf(p)))
	assert.True(t, uref.IsNil(reflect.ValueOf(m)))
	assert.True(t, uref.IsNil(reflect.ValueOf(s)))
	assert.True(t, uref.IsNil(reflect.ValueOf(&i).Elem()))

	assert.False(t, uref.IsNil(reflect.ValueOf(0)))
	assert.False(t, uref.IsNil(reflect.ValueOf(&A{})))
	assert.False(t, uref.IsNil(reflect.ValueOf([]int{})))
}

func TestSortKeys(t *testing.T) {
	ints := []reflect.Value{reflect.ValueOf(3), reflect.ValueOf(-1), reflect.ValueOf(2)}
	uref.SortKeys(ints)
	assert.Equal(t, []int64{-1, 2, 3}, []int64{ints[0].Int(), ints[1].Int(), ints[2].Int()})

	strs := []reflect.Value{reflect.ValueOf("b"), reflect.ValueOf("a")}
	uref.SortKeys(strs)
	assert.Equal(t, "a", strs[0].String())

	bools := []reflect.Value{reflect.ValueOf(true), reflect.ValueOf(false)}
	uref.SortKeys(bools)
	assert.False(t, bools[0].Bool())
}
