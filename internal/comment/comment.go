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

// Package comment reflows comments to fit within the page width.
//
// Three styles are handled: line comments (// ...), block comments
// (/* ... */) and documentation comments (/** ... */). A comment is
// rendered for a given starting column as a list of lines; the first line is
// written at that column and every further line is aligned with it.
package comment

import (
	"strings"

	"github.com/bufbuild/blockfmt/internal/width"
	"github.com/bufbuild/blockfmt/token"
)

// Options controls how one comment is reformatted.
type Options struct {
	// Whether the comment may be reflowed at all.
	Format bool
	// Whether this is the file's header comment and may be compacted onto a
	// single line.
	Header bool
	// Whether author line breaks are collapsed.
	Join bool
	// Whether lines after a block tag such as @param hang under it.
	IndentRootTags bool
	// The tabstop used for measuring.
	Tabstop int
}

// Comment is a comment, or a run of line comments that continue one
// another, as it appeared in the input.
type Comment struct {
	Style token.CommentStyle
	// The raw text of each comment. Only line comment runs have more than
	// one entry.
	Raw []string
	Options
}

// Rendered is the result of laying out a comment.
type Rendered struct {
	Lines []string
	// Whether lines after the first are aligned with the first one. If
	// false, they must be written exactly as they are, from column zero.
	Aligned bool
	// Whether the comment could not be reflowed and was emitted closer to
	// its input form instead.
	Degraded bool
}

// New creates a new comment from its raw text.
func New(raw []string, opts Options) *Comment {
	style := token.LineComment
	if len(raw) > 0 {
		style = token.Style(raw[0])
	}
	return &Comment{Style: style, Raw: raw, Options: opts}
}

// IsMultiline returns whether the comment spans more than one line in the
// input.
func (c *Comment) IsMultiline() bool {
	return len(c.Raw) > 1 || (len(c.Raw) == 1 && strings.Contains(c.Raw[0], "\n"))
}

// Render lays out the comment starting at column, keeping lines within
// limit where possible. Words are never split, so a single word wider than
// the available space still overflows.
//
// Render never panics: if reflowing fails, the comment is re-emitted in its
// original shape and the result is marked Degraded.
func (c *Comment) Render(column, limit int) (out Rendered) {
	defer func() {
		if recover() != nil {
			out = c.original()
			out.Degraded = true
		}
	}()

	if !c.Format {
		return c.original()
	}

	switch c.Style {
	case token.LineComment:
		return c.renderLines(column, limit)
	case token.BlockComment, token.DocComment:
		raw := c.Raw[0]
		// Comments opened with /*- or /*** are formatted by hand.
		if !strings.HasSuffix(raw, "*/") || len(raw) < 4 ||
			strings.HasPrefix(raw, "/*-") || strings.HasPrefix(raw, "/***") {
			return c.original()
		}
		return c.renderBlock(column, limit)
	default:
		return c.original()
	}
}

// original renders the comment without reflowing it.
//
// Block comments laid out with a leading star on every line are realigned
// under their new opening column; anything else is copied as-is.
func (c *Comment) original() Rendered {
	if c.Style == token.LineComment {
		lines := make([]string, len(c.Raw))
		for i, raw := range c.Raw {
			lines[i] = strings.TrimRight(raw, " \t\r")
		}
		return Rendered{Lines: lines, Aligned: true}
	}

	lines := splitLines(c.Raw[0])
	starred := true
	for _, line := range lines[1:] {
		if !strings.HasPrefix(strings.TrimSpace(line), "*") {
			starred = false
			break
		}
	}
	if !starred {
		return Rendered{Lines: lines, Aligned: false}
	}

	for i := 1; i < len(lines); i++ {
		lines[i] = " " + strings.TrimSpace(lines[i])
	}
	return Rendered{Lines: lines, Aligned: true}
}

// pack greedily packs words into lines no wider than avail. Every line gets
// at least one word.
func pack(words []string, avail int) [][]string {
	var lines [][]string
	var line []string
	var used int
	for _, word := range words {
		w := width.String(word)
		if len(line) > 0 && used+1+w > avail {
			lines = append(lines, line)
			line, used = nil, 0
		}
		if len(line) > 0 {
			used++
		}
		line = append(line, word)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}
