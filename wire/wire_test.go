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

package wire_test

import (
	"math"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/sval/value"
	"dirpx.dev/sval/wire"
)

func sample() *value.Value {
	return value.Map(
		value.M("name", value.String("widget")),
		value.M("count", value.Int(3)),
		value.M("offset", value.Int(-7)),
		value.M("ratio", value.Float(0.5)),
		value.M("whole", value.Float(2)),
		value.M("ok", value.Bool(true)),
		value.M("quoted", value.String("true")),
		value.M("none", value.Null()),
		value.M("tags", value.List(value.String("a"), value.String("b"))),
		value.M("nested", value.Map(value.M("$id", value.String("1")))),
	)
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, c := range wire.Codecs() {
		t.Run(c.Name(), func(t *testing.T) {
			raw, err := c.Marshal(sample())
			require.NoError(t, err)
			got, err := c.Unmarshal(raw)
			require.NoError(t, err)
			assert.True(t, sample().Equal(got), "round trip changed the value: %s", got)
		})
	}
}

func TestByName(t *testing.T) {
	c, err := wire.ByName("YAML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())
	assert.Equal(t, "application/yaml", c.ContentType())

	_, err = wire.ByName("xml")
	require.ErrorIs(t, err, wire.ErrUnknownCodec)
}

func TestJSON_PreservesOrder(t *testing.T) {
	raw, err := wire.JSON.Marshal(value.Map(
		value.M("b", value.Int(1)),
		value.M("a", value.Float(2)),
	))
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":2.0}`, string(raw))

	_, err = wire.JSON.Marshal(value.Float(math.NaN()))
	require.ErrorIs(t, err, value.ErrNonFinite)
}

func TestJSONC_CommentsAndTrailingCommas(t *testing.T) {
	got, err := wire.JSONC.Unmarshal([]byte(`{
		/* block */
		"a": [1, 2,], // line
		"b": "x",
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Object().Keys())
	a, _ := got.Get("a")
	assert.Equal(t, 2, a.Len())

	_, err = wire.JSON.Unmarshal([]byte(`{"a": 1,}`))
	assert.Error(t, err)
}

func TestYAML_OrderAliasesAndMerges(t *testing.T) {
	got, err := wire.YAML.Unmarshal([]byte(`
z: 1
base: &base
  host: localhost
  port: 80
prod:
  <<: *base
  port: 443
copy: *base
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "base", "prod", "copy"}, got.Object().Keys())

	prod, ok := got.Get("prod")
	require.True(t, ok)
	port, _ := prod.Get("port")
	host, _ := prod.Get("host")
	assert.True(t, value.Int(443).Equal(port), "explicit key must win over the merge")
	assert.True(t, value.String("localhost").Equal(host))

	base, _ := got.Get("base")
	cp, _ := got.Get("copy")
	assert.True(t, base.Equal(cp))
}

func TestYAML_Scalars(t *testing.T) {
	got, err := wire.YAML.Unmarshal([]byte("big: 18446744073709551615\nhex: 0x1F\nempty:\nflag: \"true\"\n"))
	require.NoError(t, err)

	big, _ := got.Get("big")
	assert.Equal(t, value.KindFloat, big.Kind())
	hex, _ := got.Get("hex")
	assert.True(t, value.Int(31).Equal(hex))
	empty, _ := got.Get("empty")
	assert.True(t, empty.IsNull())
	flag, _ := got.Get("flag")
	assert.True(t, value.String("true").Equal(flag))

	raw, err := wire.YAML.Marshal(value.List(value.Float(math.Inf(1)), value.Float(math.Inf(-1))))
	require.NoError(t, err)
	back, err := wire.YAML.Unmarshal(raw)
	require.NoError(t, err)
	items := back.Items()
	require.Len(t, items, 2)
	f, _ := items[0].AsFloat()
	assert.True(t, math.IsInf(f, 1))
	f, _ = items[1].AsFloat()
	assert.True(t, math.IsInf(f, -1))
}

func TestYAML_Errors(t *testing.T) {
	_, err := wire.YAML.Unmarshal([]byte("? [a]\n: 1\n"))
	require.ErrorIs(t, err, wire.ErrNonScalarKey)

	deep := strings.Repeat("[", wire.MaxDepth+8) + strings.Repeat("]", wire.MaxDepth+8)
	_, err = wire.YAML.Unmarshal([]byte(deep))
	require.ErrorIs(t, err, wire.ErrTooDeep)
}

func TestCBOR_Deterministic(t *testing.T) {
	ab, err := wire.CBOR.Marshal(value.Map(value.M("b", value.Int(1)), value.M("a", value.Int(2))))
	require.NoError(t, err)
	ba, err := wire.CBOR.Marshal(value.Map(value.M("a", value.Int(2)), value.M("b", value.Int(1))))
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	got, err := wire.CBOR.Unmarshal(ab)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Object().Keys())
}

func TestCBOR_ForeignItems(t *testing.T) {
	raw, err := cbor.Marshal([]byte{1, 2, 3})
	require.NoError(t, err)
	got, err := wire.CBOR.Unmarshal(raw)
	require.NoError(t, err)
	assert.True(t, value.String("AQID").Equal(got))

	raw, err = cbor.Marshal(uint64(math.MaxUint64))
	require.NoError(t, err)
	got, err = wire.CBOR.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, got.Kind())

	raw, err = cbor.Marshal(map[int]string{1: "a"})
	require.NoError(t, err)
	_, err = wire.CBOR.Unmarshal(raw)
	assert.Error(t, err)
}
