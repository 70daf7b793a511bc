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

// Package config contains the formatter's style policy.
//
// A [Config] is a plain value: it is built once per run, either from
// [Defaults], from a flat option map via [FromOptions], or from a YAML or
// TOML file via [Load], and is never mutated by the formatter.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/bufbuild/blockfmt/report"
)

const (
	// Tab indents with one tab per level.
	Tab IndentChar = iota
	// Space indents with IndentSize spaces per level.
	Space
	// Mixed indents with IndentSize columns per level, written as tabs of
	// TabSize columns followed by the remainder as spaces.
	Mixed
)

// IndentChar selects how indentation is written.
type IndentChar uint8

// String implements [fmt.Stringer].
func (c IndentChar) String() string {
	switch c {
	case Tab:
		return "tab"
	case Space:
		return "space"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("IndentChar(%d)", int(c))
	}
}

// Limits for numeric options. Values outside of them are clamped.
const (
	MaxIndentSize  = 64
	MaxPageWidth   = 9999
	MaxBlankLines  = 99
	unlimitedWidth = math.MaxInt32
)

// Config is a complete style policy.
type Config struct {
	IndentChar IndentChar
	TabSize    int
	IndentSize int
	// The number of indentation levels a wrapped line is indented by.
	ContinuationIndent int

	// The maximum line width. Zero means unlimited.
	PageWidth int

	// The line separator written between output lines.
	LineSeparator string

	// If false, a line break between two elements of a wrappable group in
	// the input is kept as a mandatory break.
	JoinWrappedLines bool
	// If true, an outer group is split before any group nested inside it.
	WrapOuterExpressionsWhenNested bool

	// Formatter on/off markers.
	UseOnOffTags bool
	DisablingTag string
	EnablingTag  string

	// The number of consecutive blank lines kept from the input.
	BlankLinesToPreserve int

	// Whether annotations on declarations are followed by a line break.
	NewLineAfterAnnotation bool

	Comment CommentConfig

	alignment [numContexts]AlignmentPolicy
}

// CommentConfig controls the comment reformatter.
type CommentConfig struct {
	FormatLineComments  bool
	FormatBlockComments bool
	FormatJavadoc       bool
	// Whether the first comment of a file, before any code, is formatted.
	FormatHeader bool
	// Whether author line breaks inside block comments are collapsed.
	JoinLines bool
	// Whether lines after a @param style tag are indented under its
	// description.
	IndentRootTags bool
	// The maximum width of comment lines. Zero means PageWidth.
	LineLength int
}

// Defaults returns the default configuration.
func Defaults() Config {
	c := Config{
		IndentChar:                     Tab,
		TabSize:                        4,
		IndentSize:                     4,
		ContinuationIndent:             2,
		PageWidth:                      120,
		LineSeparator:                  "\n",
		JoinWrappedLines:               true,
		WrapOuterExpressionsWhenNested: true,
		DisablingTag:                   "@formatter:off",
		EnablingTag:                    "@formatter:on",
		BlankLinesToPreserve:           1,
		NewLineAfterAnnotation:         true,
		Comment: CommentConfig{
			FormatLineComments:  true,
			FormatBlockComments: true,
			FormatJavadoc:       true,
			JoinLines:           true,
			IndentRootTags:      true,
		},
	}
	for ctx := range c.alignment {
		c.alignment[ctx] = CompactSplit
	}
	c.alignment[ContextNone] = NoAlignment
	c.alignment[AnnotationArguments] = NoAlignment
	c.alignment[Assignment] = NoAlignment
	return c
}

// Policy returns the alignment policy for the given wrap context.
//
// [ContextNone] always has [NoAlignment].
func (c Config) Policy(ctx WrapContext) AlignmentPolicy {
	if ctx == ContextNone || ctx >= numContexts {
		return NoAlignment
	}
	return c.alignment[ctx]
}

// WithPolicy returns a copy of this config that uses p for ctx.
func (c Config) WithPolicy(ctx WrapContext, p AlignmentPolicy) Config {
	if ctx != ContextNone && ctx < numContexts {
		c.alignment[ctx] = p
	}
	return c
}

// Width returns the effective page width.
func (c Config) Width() int {
	if c.PageWidth <= 0 {
		return unlimitedWidth
	}
	return c.PageWidth
}

// CommentWidth returns the effective maximum width of comment lines.
func (c Config) CommentWidth() int {
	if c.Comment.LineLength > 0 {
		return min(c.Comment.LineLength, c.Width())
	}
	return c.Width()
}

// IndentColumns returns the number of columns taken up by the given number
// of indentation levels.
func (c Config) IndentColumns(levels int) int {
	if c.TabSize <= 0 || c.IndentSize <= 0 || levels <= 0 {
		return 0
	}
	if c.IndentChar == Tab {
		return levels * c.TabSize
	}
	return levels * c.IndentSize
}

// Indentation renders the indentation for the given number of levels plus
// align extra columns of alignment.
func (c Config) Indentation(levels, align int) string {
	var b strings.Builder
	if c.TabSize > 0 && c.IndentSize > 0 && levels > 0 {
		switch c.IndentChar {
		case Tab:
			b.WriteString(strings.Repeat("\t", levels))
		case Space:
			b.WriteString(strings.Repeat(" ", levels*c.IndentSize))
		case Mixed:
			cols := levels * c.IndentSize
			b.WriteString(strings.Repeat("\t", cols/c.TabSize))
			b.WriteString(strings.Repeat(" ", cols%c.TabSize))
		}
	}
	if align > 0 {
		b.WriteString(strings.Repeat(" ", align))
	}
	return b.String()
}

// Normalize clamps every numeric option into its legal range and repairs
// other unusable values, recording a warning in r for each change.
func (c Config) Normalize(r *report.Report) Config {
	clamp := func(name string, v *int, lo, hi int) {
		switch {
		case *v < lo:
			r.Warnf("%s %d is out of range, using %d", name, *v, lo)
			*v = lo
		case *v > hi:
			r.Warnf("%s %d is out of range, using %d", name, *v, hi)
			*v = hi
		}
	}

	clamp(keyTabSize, &c.TabSize, 0, MaxIndentSize)
	clamp(keyIndentSize, &c.IndentSize, 0, MaxIndentSize)
	clamp(keyContinuation, &c.ContinuationIndent, 0, MaxIndentSize)
	clamp(keyBlankLines, &c.BlankLinesToPreserve, 0, MaxBlankLines)
	clamp(keyCommentLength, &c.Comment.LineLength, 0, MaxPageWidth)
	if c.PageWidth < 0 {
		c.PageWidth = 0
	}
	clamp(keyPageWidth, &c.PageWidth, 0, MaxPageWidth)

	if c.IndentChar > Mixed {
		r.Warnf("unknown indentation character %v, using %v", c.IndentChar, Tab)
		c.IndentChar = Tab
	}
	switch c.LineSeparator {
	case "\n", "\r\n", "\r":
	default:
		r.Warnf("unsupported line separator %q, using \"\\n\"", c.LineSeparator)
		c.LineSeparator = "\n"
	}

	c.DisablingTag = strings.TrimSpace(c.DisablingTag)
	c.EnablingTag = strings.TrimSpace(c.EnablingTag)
	if c.UseOnOffTags && c.DisablingTag == "" {
		r.Warnf("%s is set but %s is empty; no region will be disabled", keyOnOff, keyDisablingTag)
	}

	for ctx, p := range c.alignment {
		if p.Split() > NextLinePerLineSplit {
			r.Warnf("invalid alignment policy %d for %v, using %v", int(p), WrapContext(ctx), CompactSplit)
			c.alignment[ctx] = CompactSplit
		}
	}
	c.alignment[ContextNone] = NoAlignment
	return c
}
