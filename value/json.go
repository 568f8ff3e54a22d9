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

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNonFinite is returned when a NaN or infinite Float is marshaled to JSON.
	ErrNonFinite = errors.New("sval(value): non-finite float cannot be represented in JSON")
	// ErrTrailingData is returned when JSON input holds more than one document.
	ErrTrailingData = errors.New("sval(value): trailing data after JSON document")
)

// ParseJSON decodes a single JSON document into a Value. Object member order
// is preserved. Numbers without a fraction or exponent that fit int64 become
// Int; every other number becomes Float.
func ParseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

// MarshalJSON implements json.Marshaler. Map members are written in order.
// Integral Float values keep a ".0" suffix so they read back as Float.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func readJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(t.String())
	case json.Delim:
		switch t {
		case '[':
			out := List()
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				out.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		case '{':
			obj := NewObject(4)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("sval(value): unexpected object key %v", kt)
				}
				item, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return FromObject(obj), nil
		}
	}
	return nil, fmt.Errorf("sval(value): unexpected JSON token %v", tok)
}

func parseNumber(s string) (*Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("sval(value): bad number %q: %w", s, err)
	}
	return Float(f), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		s, err := FormatFloat(v.f)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case KindString:
		writeJSONString(buf, v.s)
	case KindList:
		buf.WriteByte('[')
		for i, it := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, m := range v.obj.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.Key)
			buf.WriteByte(':')
			if err := writeJSON(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// FormatFloat renders f the way MarshalJSON does.
func FormatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNonFinite
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	// json.Marshal of a string never fails.
	b, _ := json.Marshal(s)
	buf.Write(b)
}
