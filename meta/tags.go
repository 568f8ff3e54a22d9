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
	"reflect"
	"strings"
)

// tagInfo is the parsed form of a member tag such as
//
//	`sval:"name,fallback=OldName|Legacy,omitempty"`
type tagInfo struct {
	name      string
	fallback  []string
	omitEmpty bool
	readOnly  bool
	writeOnly bool
	skip      bool
}

// parseTag reads the member tag named tagName from f. When the tag carries
// no name, the name of a "json" tag is used; a `json:"-"` without a member
// tag skips the field.
func parseTag(f reflect.StructField, tagName string) tagInfo {
	var info tagInfo
	raw, ok := f.Tag.Lookup(tagName)
	if ok && raw == "-" {
		info.skip = true
		return info
	}
	if ok {
		parts := strings.Split(raw, ",")
		info.name = strings.TrimSpace(parts[0])
		for _, opt := range parts[1:] {
			opt = strings.TrimSpace(opt)
			switch {
			case opt == "omitempty":
				info.omitEmpty = true
			case opt == "readonly":
				info.readOnly = true
			case opt == "writeonly":
				info.writeOnly = true
			case strings.HasPrefix(opt, "fallback="):
				for _, n := range strings.Split(strings.TrimPrefix(opt, "fallback="), "|") {
					if n = strings.TrimSpace(n); n != "" {
						info.fallback = append(info.fallback, n)
					}
				}
			}
		}
	}
	if info.name == "" && tagName != "json" {
		if js, found := f.Tag.Lookup("json"); found {
			if js == "-" {
				info.skip = !ok
				return info
			}
			info.name, _, _ = strings.Cut(js, ",")
		}
	}
	return info
}
