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

package build

import (
	"strings"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/verbatim"
	"github.com/bufbuild/blockfmt/token"
)

// commentRun is a run of comments that are formatted as one unit: a single
// comment, or consecutive line comments stacked at the same column.
type commentRun struct {
	ids []int
	// Whether the run starts on its own line.
	ownLine bool
	// Blank lines before the run.
	blank int
	// Whether a line break follows the run.
	newline bool
}

// trivia holds the comments and line structure bound to a single
// non-skippable token.
type trivia struct {
	// Comment runs between the previous token's trailing comment and this
	// token.
	leading []commentRun
	// A comment that ends this token's line.
	trailing *commentRun

	// Blank lines directly before this token, after its leading comments.
	blank int
	// Whether a line break directly precedes this token.
	newline bool
	// Whether any line break separates this token from the previous
	// non-skippable token.
	broken bool
}

// triviaIndex is the trivia decomposition of one file. Every non-skippable
// token has an entry; comments after the last token live in eof.
type triviaIndex struct {
	tokens []trivia
	eof    trivia
}

// at returns the trivia of the token with the given stream index, or the
// end-of-file trivia for -1.
func (idx *triviaIndex) at(id int) *trivia {
	if id < 0 || id >= len(idx.tokens) {
		return &idx.eof
	}
	return &idx.tokens[id]
}

// buildTrivia walks the whole stream and attaches every comment either to
// the token it trails or to the token it precedes.
func buildTrivia(stream *token.Stream, cfg config.Config, regions *verbatim.Regions) *triviaIndex {
	idx := &triviaIndex{tokens: make([]trivia, len(stream.Tokens))}
	w := &triviaWalker{stream: stream, cfg: cfg, regions: regions, idx: idx}

	prev := -1
	var pending []int
	for i, tok := range stream.Tokens {
		if tok.Kind.IsSkippable() {
			pending = append(pending, i)
			continue
		}
		w.gap(prev, pending, i)
		pending = pending[:0]
		prev = i
	}
	w.gap(prev, pending, -1)
	return idx
}

type triviaWalker struct {
	stream  *token.Stream
	cfg     config.Config
	regions *verbatim.Regions
	idx     *triviaIndex
}

// gap distributes the skippable tokens between prev and next. Either may be
// -1, for the start and end of the file.
func (w *triviaWalker) gap(prev int, pending []int, next int) {
	rest := pending
	if prev >= 0 {
		var trailing *commentRun
		trailing, rest = w.extractTrailing(prev, pending, next)
		w.idx.at(prev).trailing = trailing
	}

	t := w.idx.at(next)
	nl := 0
	if prev < 0 {
		// Comments at the top of the file always start their own line.
		nl = 1
	}
	for _, id := range rest {
		if w.stream.Tokens[id].Kind == token.Space {
			nl += strings.Count(w.stream.Text(id), "\n")
			continue
		}

		if n := len(t.leading); n > 0 {
			last := &t.leading[n-1]
			last.newline = nl > 0
			if nl == 1 && w.stacks(last.ids[len(last.ids)-1], id) {
				last.ids = append(last.ids, id)
				nl = 0
				continue
			}
		}
		t.leading = append(t.leading, commentRun{
			ids:     []int{id},
			ownLine: nl > 0,
			blank:   max(nl-1, 0),
		})
		nl = 0
	}
	if n := len(t.leading); n > 0 {
		t.leading[n-1].newline = nl > 0
	}

	t.blank = max(nl-1, 0)
	t.newline = nl > 0
	if prev >= 0 && next >= 0 {
		t.broken = w.stream.File.Newlines(w.stream.Tokens[prev].End, w.stream.Tokens[next].Start) > 0
	}
}

// extractTrailing splits off the comment that trails prev on its line, if
// there is one. A line comment always trails; a block comment trails only
// if the line ends right after it. Line comments stacked under a trailing
// line comment continue it.
func (w *triviaWalker) extractTrailing(prev int, pending []int, next int) (*commentRun, []int) {
	i := 0
	if i < len(pending) && w.isSpace(pending[i]) {
		if strings.Contains(w.stream.Text(pending[i]), "\n") {
			return nil, pending
		}
		i++
	}
	if i >= len(pending) || w.isSpace(pending[i]) {
		return nil, pending
	}

	first := pending[i]
	run := &commentRun{ids: []int{first}}
	i++
	if token.Style(w.stream.Text(first)) != token.LineComment {
		atEOL := (i == len(pending) && next < 0) ||
			(i < len(pending) && strings.Contains(w.stream.Text(pending[i]), "\n"))
		if !atEOL {
			return nil, pending
		}
		run.newline = true
		return run, pending[i:]
	}

	for i+1 < len(pending) {
		space, comment := pending[i], pending[i+1]
		if !w.isSpace(space) || strings.Count(w.stream.Text(space), "\n") != 1 {
			break
		}
		if w.isSpace(comment) || !w.stacks(run.ids[len(run.ids)-1], comment) {
			break
		}
		run.ids = append(run.ids, comment)
		i += 2
	}
	run.newline = true
	return run, pending[i:]
}

// stacks returns whether the comment b continues the line comment a that
// sits directly above it.
func (w *triviaWalker) stacks(a, b int) bool {
	textA, textB := w.stream.Text(a), w.stream.Text(b)
	if token.Style(textA) != token.LineComment || token.Style(textB) != token.LineComment {
		return false
	}
	if verbatim.HasTag(textA, w.cfg) || verbatim.HasTag(textB, w.cfg) {
		return false
	}
	startA, startB := w.stream.Tokens[a].Start, w.stream.Tokens[b].Start
	if _, ok := w.regions.At(startA); ok {
		return false
	}
	if _, ok := w.regions.At(startB); ok {
		return false
	}
	tabstop := w.cfg.TabSize
	return w.stream.File.Column(startA, tabstop) == w.stream.File.Column(startB, tabstop)
}

func (w *triviaWalker) isSpace(id int) bool {
	return w.stream.Tokens[id].Kind == token.Space
}
