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

// Package verbatim finds the regions of a file that the user has switched
// formatting off for.
//
// A region opens immediately after a comment whose text starts with the
// disabling tag, and closes immediately after the next comment whose text
// starts with the enabling tag, or at the end of the file. The bytes of a
// region are copied to the output unchanged.
package verbatim

import (
	"iter"
	"strings"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/interval"
	"github.com/bufbuild/blockfmt/token"
)

// Span is a half-open byte range of the input that must be copied verbatim.
type Span struct {
	Start, End int
	// Whether the span ends with a line comment, so that whatever follows it
	// must start on a new line.
	LineComment bool
}

// Regions is the set of verbatim spans of one file.
//
// A nil *Regions is empty.
type Regions struct {
	spans interval.Map[int, Span]
}

// Scan finds every verbatim span in stream.
func Scan(stream *token.Stream, cfg config.Config) *Regions {
	regions := new(Regions)
	if !cfg.UseOnOffTags {
		return regions
	}
	off := Normalize(cfg.DisablingTag)
	on := Normalize(cfg.EnablingTag)
	if off == "" {
		return regions
	}

	open := -1
	for i, tok := range stream.Tokens {
		if tok.Kind != token.Comment {
			continue
		}
		body := Normalize(Body(stream.Text(i)))

		if open < 0 {
			if strings.HasPrefix(body, off) {
				open = tok.End
			}
			continue
		}
		if on != "" && strings.HasPrefix(body, on) {
			span := Span{
				Start:       open,
				End:         tok.End,
				LineComment: token.Style(stream.Text(i)) == token.LineComment,
			}
			regions.spans.Insert(open, tok.End, span)
			open = -1
		}
	}
	if end := stream.Len(); open >= 0 && open < end {
		regions.spans.Insert(open, end, Span{Start: open, End: end})
	}
	return regions
}

// At returns the span containing offset, if there is one.
func (r *Regions) At(offset int) (Span, bool) {
	if r == nil {
		return Span{}, false
	}
	found := r.spans.Get(offset)
	if found.Value == nil {
		return Span{}, false
	}
	return *found.Value, true
}

// All returns an iterator over the spans in order.
func (r *Regions) All() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if r == nil {
			return
		}
		for in := range r.spans.Intervals() {
			if !yield(*in.Value) {
				return
			}
		}
	}
}

// Len returns the number of spans.
func (r *Regions) Len() int {
	if r == nil {
		return 0
	}
	return r.spans.Len()
}

// Body strips the comment delimiters from the text of a comment.
func Body(comment string) string {
	switch {
	case strings.HasPrefix(comment, "//"):
		return comment[2:]
	case strings.HasPrefix(comment, "/*"):
		body := strings.TrimSuffix(comment[2:], "*/")
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimLeft(strings.TrimSpace(line), "*")
		}
		return strings.Join(lines, "\n")
	default:
		return comment
	}
}

// Normalize trims text and collapses each internal run of whitespace into a
// single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// HasTag returns whether the comment text mentions either of the on/off tags
// configured in cfg. Such comments are never reflowed, so that the tags
// remain recognizable.
func HasTag(comment string, cfg config.Config) bool {
	if !cfg.UseOnOffTags {
		return false
	}
	body := Normalize(Body(comment))
	for _, tag := range []string{cfg.DisablingTag, cfg.EnablingTag} {
		if tag = Normalize(tag); tag != "" && strings.Contains(body, tag) {
			return true
		}
	}
	return false
}
