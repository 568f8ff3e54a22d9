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
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"dirpx.dev/sval/value"
)

// YAML reads and writes YAML 1.2 documents through yaml.Node, which keeps
// mapping order. Aliases are expanded and "<<" merge keys are applied on
// read; timestamps and binary scalars are read as strings.
var YAML Codec = yamlCodec{}

type yamlCodec struct{}

func (yamlCodec) Name() string        { return "yaml" }
func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Marshal(v *value.Value) ([]byte, error) {
	return yaml.Marshal(toYAML(v))
}

func (yamlCodec) Unmarshal(data []byte) (*value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromYAML(&doc, 0)
}

func toYAML(v *value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return scalar("!!bool", strconv.FormatBool(b))
	case value.KindInt:
		n, _ := v.AsInt()
		return scalar("!!int", strconv.FormatInt(n, 10))
	case value.KindFloat:
		f, _ := v.AsFloat()
		return scalar("!!float", formatYAMLFloat(f))
	case value.KindString:
		s, _ := v.AsString()
		return scalar("!!str", s)
	case value.KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, toYAML(item))
		}
		return n
	case value.KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Object().Range(func(key string, member *value.Value) bool {
			n.Content = append(n.Content, scalar("!!str", key), toYAML(member))
			return true
		})
		return n
	default:
		return scalar("!!null", "null")
	}
}

func scalar(tag, val string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s, _ := value.FormatFloat(f)
	return s
}

func fromYAML(n *yaml.Node, depth int) (*value.Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	switch n.Kind {
	case 0:
		return value.Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return fromYAML(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		out := value.List()
		for _, item := range n.Content {
			v, err := fromYAML(item, depth+1)
			if err != nil {
				return nil, err
			}
			out.Append(v)
		}
		return out, nil
	case yaml.MappingNode:
		obj := value.NewObject(len(n.Content) / 2)
		if err := yamlMapping(n, obj, depth); err != nil {
			return nil, err
		}
		return value.FromObject(obj), nil
	default:
		return nil, fmt.Errorf("%w: yaml node kind %d", ErrUnsupportedItem, n.Kind)
	}
}

func yamlMapping(n *yaml.Node, obj *value.Object, depth int) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w at line %d", ErrNonScalarKey, k.Line)
		}
		if k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		member, err := fromYAML(v, depth+1)
		if err != nil {
			return err
		}
		obj.Set(k.Value, member)
	}
	// Explicit keys win over merged ones.
	for _, m := range merges {
		if m.Kind == yaml.AliasNode {
			m = m.Alias
		}
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("%w: merge of a non-mapping at line %d", ErrUnsupportedItem, src.Line)
			}
			merged := value.NewObject(len(src.Content) / 2)
			if err := yamlMapping(src, merged, depth+1); err != nil {
				return err
			}
			merged.Range(func(key string, v *value.Value) bool {
				if !obj.Has(key) {
					obj.Set(key, v)
				}
				return true
			})
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (*value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	default:
		return value.String(n.Value), nil
	}
}
