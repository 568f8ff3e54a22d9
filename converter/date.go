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

package converter

import (
	"reflect"
	"time"

	"dirpx.dev/sval/apis"
	"dirpx.dev/sval/diag"
	"dirpx.dev/sval/value"
)

// NewDate returns the converter for time.Time and time.Duration.
//
// Time points use RFC 3339 with nanoseconds, which keeps both the instant
// and the zone offset. Durations use time.Duration's own textual form.
func NewDate() apis.Converter {
	return date{}
}

type date struct{ leaf }

var _ apis.Converter = date{}

func (date) CanProcess(t reflect.Type) bool {
	return t == timeType || t == durationType
}

func (date) TrySerialize(_ apis.Dispatcher, v reflect.Value, t reflect.Type) (*value.Value, diag.Result) {
	if t == durationType {
		return value.String(time.Duration(v.Int()).String()), diag.Ok()
	}
	return value.String(v.Interface().(time.Time).Format(time.RFC3339Nano)), diag.Ok()
}

func (date) TryDeserialize(_ apis.Dispatcher, data *value.Value, dst reflect.Value, t reflect.Type) diag.Result {
	s, ok := data.AsString()
	if !ok {
		return mismatch(data, t, value.KindString)
	}
	if t == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
		}
		dst.SetInt(int64(d))
		return diag.Ok()
	}
	tm, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return diag.Fail(diag.ParseFailure, "unable to parse %q into a %s", s, t)
	}
	dst.Set(reflect.ValueOf(tm))
	return diag.Ok()
}
