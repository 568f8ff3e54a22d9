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
	"dirpx.dev/sval/apis"
)

const (
	// DefaultTypeWriter represents the default for TypeWriter.
	// "$type" is written only where the declared type cannot recover the value.
	DefaultTypeWriter = apis.TypeWriterWhenNeeded

	// DefaultCaseInsensitive represents the default for CaseInsensitive.
	DefaultCaseInsensitive = false

	// DefaultMaxDepth represents the default for MaxDepth.
	// Deep enough for any real document, shallow enough to fail before the stack does.
	DefaultMaxDepth = 512

	// DefaultDisableCycles represents the default for DisableCycles.
	DefaultDisableCycles = false

	// DefaultTagName represents the default for TagName.
	DefaultTagName = "sval"

	// DefaultFullTypeNames represents the default for FullTypeNames.
	DefaultFullTypeNames = false

	// DefaultEnumsAsNames represents the default for EnumsAsNames.
	DefaultEnumsAsNames = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		TypeWriter:      DefaultTypeWriter,
		CaseInsensitive: DefaultCaseInsensitive,
		MaxDepth:        DefaultMaxDepth,
		DisableCycles:   DefaultDisableCycles,
		TagName:         DefaultTagName,
		FullTypeNames:   DefaultFullTypeNames,
		EnumsAsNames:    DefaultEnumsAsNames,
	}
}

// Normalize replaces out-of-range values in cfg with their defaults.
func Normalize(cfg apis.Config) apis.Config {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.TagName == "" {
		cfg.TagName = DefaultTagName
	}
	if cfg.TypeWriter > apis.TypeWriterAlways {
		cfg.TypeWriter = DefaultTypeWriter
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithTypeWriter sets the TypeWriter option.
func WithTypeWriter(w apis.TypeWriter) Option {
	return func(c *apis.Config) {
		c.TypeWriter = w
	}
}

// WithCaseInsensitive sets the CaseInsensitive option.
func WithCaseInsensitive(insensitive bool) Option {
	return func(c *apis.Config) {
		c.CaseInsensitive = insensitive
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithDisableCycles sets the DisableCycles option.
func WithDisableCycles(disable bool) Option {
	return func(c *apis.Config) {
		c.DisableCycles = disable
	}
}

// WithTagName sets the TagName option.
// An empty name resets to the default.
func WithTagName(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			name = DefaultTagName
		}
		c.TagName = name
	}
}

// WithFullTypeNames sets the FullTypeNames option.
func WithFullTypeNames(full bool) Option {
	return func(c *apis.Config) {
		c.FullTypeNames = full
	}
}

// WithEnumsAsNames sets the EnumsAsNames option.
func WithEnumsAsNames(names bool) Option {
	return func(c *apis.Config) {
		c.EnumsAsNames = names
	}
}
