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

package syntax

import (
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/token"
)

const (
	// CompilationUnit parses a whole file: package, imports and types.
	CompilationUnit Mode = iota
	// Body parses a bare list of members and statements, without an
	// enclosing type.
	Body
)

// Mode selects what a call to [Parse] expects its input to contain.
type Mode uint8

// Parse parses stream into a tree rooted at a [Unit] node.
//
// Parsing never fails. Syntax errors are recorded in r, and the tokens
// involved end up in [Raw] nodes so that they are still formatted, in order.
func Parse(stream *token.Stream, mode Mode, r *report.Report) *Node {
	p := &parser{stream: stream, Report: r}
	for i, tok := range stream.Tokens {
		if !tok.Kind.IsSkippable() {
			p.toks = append(p.toks, i)
		}
	}

	unit := p.parseUnit(mode)
	unit.Start, unit.End = 0, stream.Len()
	return unit
}

// parser is a recursive descent parser over the non-skippable tokens of a
// stream.
type parser struct {
	*report.Report
	stream *token.Stream
	toks   []int
	pos    int

	// Set while parsing case labels, where `x ->` is not a lambda.
	noLambda bool
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

// id returns the stream index of the k-th token after the cursor, or -1.
func (p *parser) id(k int) int {
	if i := p.pos + k; i >= 0 && i < len(p.toks) {
		return p.toks[i]
	}
	return -1
}

// text returns the text of the k-th token after the cursor, or "" at the end
// of input.
func (p *parser) text(k int) string {
	id := p.id(k)
	if id < 0 {
		return ""
	}
	return p.stream.Text(id)
}

func (p *parser) kind(k int) token.Kind {
	id := p.id(k)
	if id < 0 {
		return token.Unrecognized
	}
	return p.stream.Tokens[id].Kind
}

func (p *parser) at(text string) bool {
	return p.text(0) == text
}

// adjacent returns whether the k-th and k+1-th tokens touch, with no
// whitespace or comments between them.
func (p *parser) adjacent(k int) bool {
	a, b := p.id(k), p.id(k+1)
	return a >= 0 && b == a+1
}

// isName returns whether the k-th token can be used as a name.
func (p *parser) isName(k int) bool {
	return p.kind(k) == token.Ident && !token.IsKeyword(p.text(k))
}

// isTypeName returns whether the k-th token can start a type.
func (p *parser) isTypeName(k int) bool {
	return p.isName(k) || p.text(k) == "void"
}

// next consumes the next token.
func (p *parser) next() *Node {
	id := p.id(0)
	if id < 0 {
		return nil
	}
	p.pos++
	tok := p.stream.Tokens[id]
	return &Node{Kind: Token, Tok: id, Start: tok.Start, End: tok.End}
}

// accept consumes the next token if it has the given text.
func (p *parser) accept(text string) *Node {
	if p.at(text) {
		return p.next()
	}
	return nil
}

// expect consumes the next token if it has the given text, and diagnoses
// its absence otherwise.
func (p *parser) expect(text, where string) *Node {
	if tok := p.accept(text); tok != nil {
		return tok
	}
	p.unexpected("`"+text+"`", where)
	return nil
}

func (p *parser) unexpected(want, where string) {
	id := p.id(0)
	if id < 0 {
		p.Errorf("unexpected end of input in %s, expected %s", where, want).
			With(report.At(p.stream.File.Span(p.stream.Len(), p.stream.Len())))
		return
	}
	p.Errorf("unexpected `%s` in %s, expected %s", p.stream.Text(id), where, want).
		With(report.At(p.stream.Span(id)))
}

// mustProgress returns a progress checker for this parser.
func (p *parser) mustProgress() mustProgress {
	return mustProgress{p, -1}
}

// mustProgress is a helper for ensuring that the parser makes progress
// in each loop iteration. This is intended for turning infinite loops into
// panics.
type mustProgress struct {
	p    *parser
	prev int
}

// check panics if the parser has not consumed a token since it was last
// called.
func (mp *mustProgress) check() {
	if mp.prev == mp.p.pos {
		panic("parser failed to make progress")
	}
	mp.prev = mp.p.pos
}

// skipBalanced returns the lookahead index just past the bracket that closes
// the one at k, or -1.
func (p *parser) skipBalanced(k int) int {
	var depth int
	for ; p.id(k) >= 0; k++ {
		switch p.text(k) {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return k + 1
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}
