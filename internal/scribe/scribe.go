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

// Package scribe serializes a laid-out chunk tree.
//
// Whitespace is buffered and only written when the next piece of text
// arrives, so no line ever ends in a space. Verbatim spans are copied from
// the input byte for byte in place of the chunks they cover.
package scribe

import (
	"fmt"
	"strings"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/internal/verbatim"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/token"
)

// Output is the result of writing a chunk tree.
type Output struct {
	Text string

	// Pairs of offsets in the input and the output known to correspond, in
	// increasing order.
	anchors []anchor
}

type anchor struct {
	in, out int
}

// Write serializes root, which must have been laid out by the resolver.
//
// Write panics if the leaves of root are not in input order.
func Write(root *chunk.Chunk, file *source.File, cfg config.Config, regions *verbatim.Regions) *Output {
	s := &scribe{
		cfg:     cfg,
		text:    file.Text(),
		regions: regions,
		eol:     cfg.LineSeparator,
		last:    -1,
	}
	if s.eol == "" {
		s.eol = "\n"
	}

	s.anchor(0)
	s.visit(root)
	if s.started && !s.eolWritten && endsWithEOL(s.text) {
		s.out.WriteString(s.eol)
	}
	s.anchors = append(s.anchors, anchor{len(s.text), s.out.Len()})

	return &Output{Text: s.out.String(), anchors: s.anchors}
}

type scribe struct {
	cfg     config.Config
	text    string
	regions *verbatim.Regions
	eol     string

	out     strings.Builder
	anchors []anchor

	// Buffered whitespace, written before the next leaf.
	space, newline bool
	blank          int
	indent         chunk.Indent

	// The indentation of the current line.
	line chunk.Indent
	// Whether anything has been written.
	started bool
	// Whether the last thing written was a line comment, or a verbatim span
	// ending in one.
	lineComment bool
	// Whether the output currently ends in a line break copied from a
	// verbatim span.
	eolWritten bool

	// The end of the last leaf written, to check ordering.
	last int
	// Leaves starting before this offset were already copied verbatim.
	skip int
}

func (s *scribe) visit(c *chunk.Chunk) {
	if c.NewLine {
		s.newline = true
		s.indent = c.Indent
		s.blank = max(s.blank, c.Blank)
	} else if c.Space {
		s.space = true
	}

	switch c.Kind {
	case chunk.Token, chunk.Comment:
		s.leaf(c)
	case chunk.Group:
		for _, child := range c.Children {
			s.visit(child)
		}
	case chunk.Block:
		if c.Open != nil {
			s.visit(c.Open)
		}
		for _, item := range c.Children {
			s.visit(item)
		}
		if c.Close != nil {
			s.visit(c.Close)
		}
	}
}

func (s *scribe) leaf(c *chunk.Chunk) {
	if c.Start >= 0 {
		if c.Start < s.last {
			panic(fmt.Sprintf("scribe: chunk at offset %d written after offset %d", c.Start, s.last))
		}
		s.last = c.End
		if c.Start < s.skip {
			s.settle()
			return
		}
		if span, ok := s.regions.At(c.Start); ok {
			s.verbatim(span)
			return
		}
	}

	if c.Kind == chunk.Token && c.Text == "" {
		return
	}
	s.flush()

	if c.Kind == chunk.Comment {
		s.comment(c)
		return
	}
	if c.Start >= 0 {
		s.anchor(c.Start)
	}
	s.out.WriteString(c.Text)
	if c.Start >= 0 {
		s.anchor(c.End)
	}
	s.lineComment = false
}

// flush writes buffered whitespace.
func (s *scribe) flush() {
	switch {
	case !s.started:
		// Nothing goes before the first line.
	case s.newline || s.lineComment:
		if !s.newline {
			s.indent = s.line
		}
		if !s.eolWritten {
			s.out.WriteString(s.eol)
		}
		for range s.blank {
			s.out.WriteString(s.eol)
		}
		s.out.WriteString(s.cfg.Indentation(s.indent.Level, s.indent.Align))
		s.line = s.indent
	case s.space:
		if !s.eolWritten {
			s.out.WriteByte(' ')
		}
	}
	if !s.started && s.newline {
		s.line = s.indent
	}

	s.space, s.newline, s.blank = false, false, 0
	s.started = true
	s.eolWritten = false
}

func (s *scribe) comment(c *chunk.Chunk) {
	lines := c.Rendered.Lines
	if len(lines) == 0 {
		lines = strings.Split(c.Text, "\n")
	}

	s.out.WriteString(lines[0])
	for _, line := range lines[1:] {
		s.out.WriteString(s.eol)
		if line == "" {
			continue
		}
		if c.Rendered.Aligned {
			s.out.WriteString(s.cfg.Indentation(c.Continue.Level, c.Continue.Align))
		}
		s.out.WriteString(line)
	}
	s.lineComment = c.Comment != nil && c.Comment.Style == token.LineComment
}

// verbatim copies a span of the input, in place of everything it covers.
func (s *scribe) verbatim(span verbatim.Span) {
	s.started = true
	text := s.text[span.Start:span.End]
	s.anchor(span.Start)
	s.out.WriteString(text)
	s.anchor(span.End)

	s.skip = span.End
	s.lineComment = span.LineComment
	s.eolWritten = endsWithEOL(text)
	s.settle()
}

// settle resets buffered whitespace to what must follow the last verbatim
// span, discarding whatever the chunks it covered asked for.
func (s *scribe) settle() {
	s.space, s.blank = false, 0
	s.newline = s.eolWritten
	s.indent = s.line
}

func (s *scribe) anchor(in int) {
	s.anchors = append(s.anchors, anchor{in, s.out.Len()})
}

func endsWithEOL(text string) bool {
	return strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r")
}
