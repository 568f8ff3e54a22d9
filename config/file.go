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

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"dirpx.dev/sval/apis"
)

var (
	// ErrUnknownTypeWriter is returned when a type_writer value is not recognized.
	ErrUnknownTypeWriter = errors.New("sval(config): unknown type_writer value")
)

// File is the on-disk shape of a configuration document. Unset fields keep
// their defaults. The same field names are used for YAML, TOML and JSONC.
type File struct {
	TypeWriter      *string `yaml:"type_writer" toml:"type_writer" json:"type_writer"`
	CaseInsensitive *bool   `yaml:"case_insensitive" toml:"case_insensitive" json:"case_insensitive"`
	MaxDepth        *int    `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	DisableCycles   *bool   `yaml:"disable_cycles" toml:"disable_cycles" json:"disable_cycles"`
	TagName         *string `yaml:"tag_name" toml:"tag_name" json:"tag_name"`
	FullTypeNames   *bool   `yaml:"full_type_names" toml:"full_type_names" json:"full_type_names"`
	EnumsAsNames    *bool   `yaml:"enums_as_names" toml:"enums_as_names" json:"enums_as_names"`
}

// FromYAML parses a YAML configuration document. Unknown keys are rejected.
func FromYAML(data []byte) (apis.Config, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("parse yaml config: %w", err)
	}
	return f.Apply(DefaultConfig())
}

// FromTOML parses a TOML configuration document. Unknown keys are rejected.
func FromTOML(data []byte) (apis.Config, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return apis.Config{}, fmt.Errorf("parse toml config: %w", err)
	}
	return f.Apply(DefaultConfig())
}

// FromJSONC parses a JSON configuration document that may contain // and
// /* */ comments and trailing commas. Unknown keys are rejected.
func FromJSONC(data []byte) (apis.Config, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return apis.Config{}, fmt.Errorf("parse jsonc config: %w", err)
	}
	return f.Apply(DefaultConfig())
}

// Apply overlays the fields set in f onto base.
func (f File) Apply(base apis.Config) (apis.Config, error) {
	cfg := base
	if f.TypeWriter != nil {
		w, err := ParseTypeWriter(*f.TypeWriter)
		if err != nil {
			return apis.Config{}, err
		}
		cfg.TypeWriter = w
	}
	if f.CaseInsensitive != nil {
		cfg.CaseInsensitive = *f.CaseInsensitive
	}
	if f.MaxDepth != nil {
		cfg.MaxDepth = *f.MaxDepth
	}
	if f.DisableCycles != nil {
		cfg.DisableCycles = *f.DisableCycles
	}
	if f.TagName != nil {
		cfg.TagName = *f.TagName
	}
	if f.FullTypeNames != nil {
		cfg.FullTypeNames = *f.FullTypeNames
	}
	if f.EnumsAsNames != nil {
		cfg.EnumsAsNames = *f.EnumsAsNames
	}
	return Normalize(cfg), nil
}

// ParseTypeWriter maps "when-needed", "never" and "always" (case-insensitive,
// '_' accepted for '-') to a TypeWriter.
func ParseTypeWriter(s string) (apis.TypeWriter, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "when-needed":
		return apis.TypeWriterWhenNeeded, nil
	case "never":
		return apis.TypeWriterNever, nil
	case "always":
		return apis.TypeWriterAlways, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTypeWriter, s)
	}
}
