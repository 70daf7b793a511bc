// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report provides a diagnostics collector for the formatter.
//
// Formatting never fails outright: malformed input, bad configuration and
// internal inconsistencies are all recorded as diagnostics while the
// formatter falls back to best-effort output.
package report

import (
	"fmt"
	"strings"

	"github.com/bufbuild/blockfmt/source"
)

const (
	Error Level = 1 + iota
	Warning
	Remark
)

// Level represents the severity of a diagnostic message.
type Level int8

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Diagnostic is a single message about the input or the configuration.
type Diagnostic struct {
	// The error that prompted this diagnostic. Its Error() return is used
	// as the diagnostic message.
	Err error

	// The kind of diagnostic this is.
	Level Level

	// The part of the input this diagnostic is about. May be zero.
	Span source.Span

	// Notes to include after the message.
	Notes []string
}

// With applies the given options to this diagnostic.
func (d *Diagnostic) With(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		option(d)
	}
	return d
}

// String implements [fmt.Stringer].
func (d Diagnostic) String() string {
	var out strings.Builder
	if !d.Span.IsZero() {
		fmt.Fprintf(&out, "%s: ", d.Span)
	}
	fmt.Fprintf(&out, "%s: %v", d.Level, d.Err)
	for _, note := range d.Notes {
		fmt.Fprintf(&out, "\n  note: %s", note)
	}
	return out.String()
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// At returns a DiagnosticOption that attaches a span to a diagnostic.
func At(span source.Span) DiagnosticOption {
	return func(d *Diagnostic) { d.Span = span }
}

// Note returns a DiagnosticOption that provides the user with context about
// the diagnostic.
func Note(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
	}
}

// Report is a collection of diagnostics.
//
// A nil *Report discards everything pushed onto it.
type Report []Diagnostic

// Errorf creates a new error diagnostic; analogous to [fmt.Errorf].
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Error)
}

// Warnf creates a new warning diagnostic; analogous to [fmt.Errorf].
func (r *Report) Warnf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Warning)
}

// Remarkf creates a new remark diagnostic; analogous to [fmt.Errorf].
func (r *Report) Remarkf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Remark)
}

// HasErrors returns whether this report contains any error diagnostics.
func (r Report) HasErrors() bool {
	for _, d := range r {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given level.
func (r Report) Count(level Level) int {
	var n int
	for _, d := range r {
		if d.Level == level {
			n++
		}
	}
	return n
}

// String renders every diagnostic, one per line.
func (r Report) String() string {
	var out strings.Builder
	for i, d := range r {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(d.String())
	}
	return out.String()
}

func (r *Report) push(err error, level Level) *Diagnostic {
	if r == nil {
		return &Diagnostic{Err: err, Level: level}
	}
	*r = append(*r, Diagnostic{Err: err, Level: level})
	return &(*r)[len(*r)-1]
}
