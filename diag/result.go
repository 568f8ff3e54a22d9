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

// Package diag implements the accumulating diagnostic report threaded
// through every encode and decode operation.
//
// A Result has a severity (Success, Warning or Failure) and a list of
// messages. Merging two results keeps the higher severity and concatenates
// messages, so Failure is sticky and merge order never changes the outcome
// severity.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Severity orders diagnostic outcomes. Higher values dominate on merge.
type Severity uint8

const (
	// Success means no warnings and no failures were recorded.
	Success Severity = iota
	// Warning means only non-fatal notes were recorded.
	Warning
	// Failure means at least one failure was recorded.
	Failure
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Code classifies a message.
type Code uint8

const (
	// Note is a plain, uncategorized message (used by warnings).
	Note Code = iota
	// ShapeMismatch means the encoded variant is not what the converter expects.
	ShapeMismatch
	// ParseFailure means a well-shaped string failed domain parsing.
	ParseFailure
	// MissingMember means an expected enum token or record field is absent.
	MissingMember
	// UnsupportedType means no converter claims the type.
	UnsupportedType
	// CycleFailure means a reference could not be resolved or applied.
	CycleFailure
	// DepthExceeded means recursion passed the configured depth limit.
	DepthExceeded
	// HookFailure means a lifecycle hook reported an error.
	HookFailure
)

var (
	// ErrShapeMismatch matches ShapeMismatch failures via errors.Is.
	ErrShapeMismatch = errors.New("sval(diag): shape mismatch")
	// ErrParseFailure matches ParseFailure failures via errors.Is.
	ErrParseFailure = errors.New("sval(diag): parse failure")
	// ErrMissingMember matches MissingMember failures via errors.Is.
	ErrMissingMember = errors.New("sval(diag): missing member")
	// ErrUnsupportedType matches UnsupportedType failures via errors.Is.
	ErrUnsupportedType = errors.New("sval(diag): unsupported type")
	// ErrCycle matches CycleFailure failures via errors.Is.
	ErrCycle = errors.New("sval(diag): reference failure")
	// ErrDepthExceeded matches DepthExceeded failures via errors.Is.
	ErrDepthExceeded = errors.New("sval(diag): depth exceeded")
	// ErrHook matches HookFailure failures via errors.Is.
	ErrHook = errors.New("sval(diag): hook failure")
	// ErrFailed matches uncategorized failures via errors.Is.
	ErrFailed = errors.New("sval(diag): failed")
)

// Sentinel returns the error sentinel for c.
func (c Code) Sentinel() error {
	switch c {
	case ShapeMismatch:
		return ErrShapeMismatch
	case ParseFailure:
		return ErrParseFailure
	case MissingMember:
		return ErrMissingMember
	case UnsupportedType:
		return ErrUnsupportedType
	case CycleFailure:
		return ErrCycle
	case DepthExceeded:
		return ErrDepthExceeded
	case HookFailure:
		return ErrHook
	default:
		return ErrFailed
	}
}

// String returns the code name.
func (c Code) String() string {
	switch c {
	case ShapeMismatch:
		return "shape-mismatch"
	case ParseFailure:
		return "parse-failure"
	case MissingMember:
		return "missing-member"
	case UnsupportedType:
		return "unsupported-type"
	case CycleFailure:
		return "cycle"
	case DepthExceeded:
		return "depth-exceeded"
	case HookFailure:
		return "hook"
	default:
		return "note"
	}
}

// Message is one recorded diagnostic.
type Message struct {
	// Severity is Warning or Failure.
	Severity Severity
	// Code classifies the message.
	Code Code
	// Path locates the value inside the graph, e.g. "Tags.a" or "[3].Name".
	Path string
	// Text is the human-readable description.
	Text string
}

// String formats the message as "severity[code] path: text".
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.Severity.String())
	if m.Code != Note {
		b.WriteByte('[')
		b.WriteString(m.Code.String())
		b.WriteByte(']')
	}
	if m.Path != "" {
		b.WriteByte(' ')
		b.WriteString(m.Path)
	}
	b.WriteString(": ")
	b.WriteString(m.Text)
	return b.String()
}

// Result is an accumulating diagnostic report. The zero Result is Success.
type Result struct {
	severity Severity
	messages []Message
}

// Ok returns a successful Result.
func Ok() Result { return Result{} }

// Warn returns a Warning result with a single formatted note.
func Warn(format string, args ...any) Result {
	return Result{
		severity: Warning,
		messages: []Message{{Severity: Warning, Code: Note, Text: fmt.Sprintf(format, args...)}},
	}
}

// Fail returns a Failure result with a single formatted message of code c.
func Fail(c Code, format string, args ...any) Result {
	return Result{
		severity: Failure,
		messages: []Message{{Severity: Failure, Code: c, Text: fmt.Sprintf(format, args...)}},
	}
}

// Merge folds other into r: the higher severity wins and messages are appended.
func (r *Result) Merge(other Result) {
	if other.severity > r.severity {
		r.severity = other.severity
	}
	r.messages = append(r.messages, other.messages...)
}

// Merged returns a copy of r with other folded in.
func (r Result) Merged(other Result) Result {
	out := Result{severity: r.severity, messages: append([]Message(nil), r.messages...)}
	out.Merge(other)
	return out
}

// Within prefixes every message path with segment and returns the result.
// Segments starting with '[' are joined without a dot.
func (r Result) Within(segment string) Result {
	if segment == "" || len(r.messages) == 0 {
		return r
	}
	out := Result{severity: r.severity, messages: make([]Message, len(r.messages))}
	for i, m := range r.messages {
		m.Path = joinPath(segment, m.Path)
		out.messages[i] = m
	}
	return out
}

// Severity returns the accumulated severity.
func (r Result) Severity() Severity { return r.severity }

// Failed reports whether any failure was recorded.
func (r Result) Failed() bool { return r.severity == Failure }

// Succeeded reports whether no failure was recorded. Warnings still succeed.
func (r Result) Succeeded() bool { return r.severity != Failure }

// HasWarnings reports whether any warning was recorded.
func (r Result) HasWarnings() bool {
	for _, m := range r.messages {
		if m.Severity == Warning {
			return true
		}
	}
	return false
}

// Messages returns a copy of the recorded messages in order.
func (r Result) Messages() []Message {
	return append([]Message(nil), r.messages...)
}

// Has reports whether a failure with code c was recorded.
func (r Result) Has(c Code) bool {
	for _, m := range r.messages {
		if m.Severity == Failure && m.Code == c {
			return true
		}
	}
	return false
}

// Err returns nil unless r failed. Otherwise it joins one error per failure
// message, each wrapping the sentinel of its code.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	errs := make([]error, 0, len(r.messages))
	for _, m := range r.messages {
		if m.Severity != Failure {
			continue
		}
		if m.Path != "" {
			errs = append(errs, fmt.Errorf("%s: %s: %w", m.Path, m.Text, m.Code.Sentinel()))
		} else {
			errs = append(errs, fmt.Errorf("%s: %w", m.Text, m.Code.Sentinel()))
		}
	}
	return errors.Join(errs...)
}

// String renders the severity followed by each message on its own line.
func (r Result) String() string {
	if len(r.messages) == 0 {
		return r.severity.String()
	}
	var b strings.Builder
	b.WriteString(r.severity.String())
	for _, m := range r.messages {
		b.WriteString("\n  ")
		b.WriteString(m.String())
	}
	return b.String()
}

func joinPath(prefix, rest string) string {
	switch {
	case rest == "":
		return prefix
	case strings.HasPrefix(rest, "["):
		return prefix + rest
	default:
		return prefix + "." + rest
	}
}
