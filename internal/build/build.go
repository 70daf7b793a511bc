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

// Package build turns a syntax tree into a chunk tree.
//
// The builder decides what may wrap and under which policy: every wrappable
// construct becomes a group tagged with its wrap context, and every comment
// in the input is attached to the token it trails or precedes. It does not
// decide where lines break; that is the resolver's job.
package build

import (
	"fmt"
	"slices"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/internal/comment"
	"github.com/bufbuild/blockfmt/internal/verbatim"
	"github.com/bufbuild/blockfmt/syntax"
	"github.com/bufbuild/blockfmt/token"
)

// Build converts the tree rooted at root into a chunk tree.
//
// The result is a block whose items are the top-level declarations (or
// statements, for a body). Every token and comment of stream appears in it
// exactly once, in order; Build panics if that cannot be guaranteed.
func Build(stream *token.Stream, root *syntax.Node, cfg config.Config, regions *verbatim.Regions) *chunk.Chunk {
	b := &builder{
		stream: stream,
		cfg:    cfg,
		trivia: buildTrivia(stream, cfg, regions),
		header: findHeader(stream),
	}

	items := b.items(root.Children, b.item)
	items = append(items, b.detach(-1, true)...)
	unit := chunk.NewBlock(nil, nil, items)
	unit.Indented = false

	b.check()
	return unit
}

type builder struct {
	stream *token.Stream
	cfg    config.Config
	trivia *triviaIndex
	// The stream index of the file's header comment, or -1.
	header int

	// Every token and comment emitted so far, in order.
	emitted []int
}

// findHeader returns the block comment that opens the file, if any.
func findHeader(stream *token.Stream) int {
	for i, tok := range stream.Tokens {
		switch tok.Kind {
		case token.Space:
			continue
		case token.Comment:
			if token.Style(stream.Text(i)) != token.LineComment {
				return i
			}
		}
		break
	}
	return -1
}

// check panics if the emitted chunks do not cover the input exactly once.
func (b *builder) check() {
	var want []int
	for i, tok := range b.stream.Tokens {
		if tok.Kind != token.Space {
			want = append(want, i)
		}
	}
	if !slices.Equal(want, b.emitted) {
		panic(fmt.Sprintf("chunk tree covers %d of %d tokens and comments", len(b.emitted), len(want)))
	}
}

// items builds a list of block items, splitting off comments that sit on
// their own lines before each item as items of their own.
func (b *builder) items(nodes []*syntax.Node, build func(*syntax.Node) *chunk.Chunk) []*chunk.Chunk {
	var items []*chunk.Chunk
	for _, n := range nodes {
		first := n.FirstToken()
		if first < 0 {
			continue
		}
		items = append(items, b.detach(first, false)...)
		blank := b.blankBefore(first)
		item := build(n)
		if item == nil {
			continue
		}
		item.Blank = blank
		items = append(items, item)
	}
	return items
}

// detach removes the leading comments of the token id that occupy whole
// lines and returns them as block items. If all is set, every leading
// comment is detached.
func (b *builder) detach(id int, all bool) []*chunk.Chunk {
	t := b.trivia.at(id)
	var items []*chunk.Chunk
	for len(t.leading) > 0 {
		run := t.leading[0]
		if !all && !(run.ownLine && run.newline) {
			break
		}
		c := b.comment(run)
		c.Blank = min(run.blank, b.cfg.BlankLinesToPreserve)
		items = append(items, c)
		t.leading = t.leading[1:]
	}
	return items
}

// blankBefore returns the number of blank lines to keep before the token
// id, accounting for any comments still attached to it.
func (b *builder) blankBefore(id int) int {
	t := b.trivia.at(id)
	blank := t.blank
	if len(t.leading) > 0 {
		blank = t.leading[0].blank
	}
	return min(blank, b.cfg.BlankLinesToPreserve)
}

// broken returns whether the input had a line break right before n.
func (b *builder) broken(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	id := n.FirstToken()
	return id >= 0 && b.trivia.at(id).broken
}

// element marks c as starting on a new line if the input did so and
// wrapped lines are not being joined.
func (b *builder) element(c *chunk.Chunk, n *syntax.Node) *chunk.Chunk {
	if c != nil && !b.cfg.JoinWrappedLines && b.broken(n) {
		c.BreakBefore = true
	}
	return c
}

// tok builds a token, together with its attached comments.
func (b *builder) tok(n *syntax.Node) *chunk.Chunk {
	if n == nil {
		return nil
	}
	if n.Kind != syntax.Token {
		return b.node(n)
	}

	id := n.Tok
	t := b.trivia.at(id)
	var parts []*chunk.Chunk
	for _, run := range t.leading {
		c := b.comment(run)
		if run.ownLine {
			c.BreakBefore = true
			c.Lead = true
		}
		if len(parts) > 0 {
			c.Space = true
		}
		parts = append(parts, c)
	}
	t.leading = nil

	tok := b.stream.Tokens[id]
	c := chunk.NewToken(b.stream.Text(id), tok.Start, tok.End)
	c.Space = len(parts) > 0
	parts = append(parts, c)
	b.emitted = append(b.emitted, id)

	if t.trailing != nil {
		trailing := b.comment(*t.trailing)
		trailing.Space = true
		parts = append(parts, trailing)
		t.trailing = nil
	}

	if len(parts) == 1 {
		return c
	}
	return chunk.Seq(parts...)
}

// comment builds a comment chunk for a run.
func (b *builder) comment(run commentRun) *chunk.Chunk {
	raw := make([]string, len(run.ids))
	tagged := false
	for i, id := range run.ids {
		raw[i] = b.stream.Text(id)
		tagged = tagged || verbatim.HasTag(raw[i], b.cfg)
	}
	b.emitted = append(b.emitted, run.ids...)

	style := token.Style(raw[0])
	opts := comment.Options{
		Join:           b.cfg.Comment.JoinLines,
		IndentRootTags: b.cfg.Comment.IndentRootTags,
		Tabstop:        b.cfg.TabSize,
	}
	switch style {
	case token.LineComment:
		opts.Format = b.cfg.Comment.FormatLineComments
	case token.BlockComment:
		opts.Format = b.cfg.Comment.FormatBlockComments
	case token.DocComment:
		opts.Format = b.cfg.Comment.FormatJavadoc
	}
	if run.ids[0] == b.header {
		opts.Header = true
		opts.Format = opts.Format && b.cfg.Comment.FormatHeader
	}
	if tagged {
		opts.Format = false
	}

	first, last := b.stream.Tokens[run.ids[0]], b.stream.Tokens[run.ids[len(run.ids)-1]]
	c := chunk.NewComment(comment.New(raw, opts), first.Start, last.End)
	switch {
	case style == token.LineComment:
		c.Break = chunk.Mandatory
	case run.newline:
		c.Break = chunk.Optional
	}
	return c
}

// line assembles a sequence of chunks separated by single spaces, except
// where glued.
type line struct {
	parts []*chunk.Chunk
}

// add appends c, preceded by a space unless it is the first part.
func (l *line) add(c *chunk.Chunk) {
	if c == nil {
		return
	}
	if len(l.parts) > 0 {
		c.Space = true
	}
	l.parts = append(l.parts, c)
}

// glue appends c without a space.
func (l *line) glue(c *chunk.Chunk) {
	if c == nil {
		return
	}
	l.parts = append(l.parts, c)
}

func (l *line) seq() *chunk.Chunk {
	switch len(l.parts) {
	case 0:
		return nil
	case 1:
		return l.parts[0]
	}
	return chunk.Seq(l.parts...)
}

// glued builds the children of n with no spaces between them.
func (b *builder) glued(children ...*syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range children {
		l.glue(b.node(child))
	}
	return l.seq()
}

// raw builds n preserving only whether the input had whitespace between
// consecutive tokens. Nested blocks are still laid out as blocks.
func (b *builder) raw(n *syntax.Node) *chunk.Chunk {
	var l line
	prevEnd := -1
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		switch {
		case n.Kind == syntax.Block:
			c := b.block(n)
			if prevEnd >= 0 {
				c.Space = true
			}
			l.glue(c)
			prevEnd = n.End
			return
		case n.Kind != syntax.Token:
			for _, child := range n.Children {
				walk(child)
			}
			return
		}

		c := b.tok(n)
		if prevEnd >= 0 && n.Start > prevEnd {
			c.Space = true
		}
		l.glue(c)
		prevEnd = n.End
	}
	walk(n)
	return l.seq()
}

// node builds any node, dispatching on its kind.
func (b *builder) node(n *syntax.Node) *chunk.Chunk {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case syntax.Token:
		return b.tok(n)

	case syntax.Package, syntax.Import:
		return b.qualified(n)
	case syntax.TypeDecl:
		return b.typeDecl(n)
	case syntax.Modifiers:
		return b.modifiers(n, false)
	case syntax.Annotation:
		return b.annotation(n)
	case syntax.AnnotationArgs:
		return b.list(config.AnnotationArguments, n.Children)
	case syntax.Pair:
		return b.pair(n)
	case syntax.Clause:
		return b.clause(n, config.Superinterfaces)
	case syntax.TypeList:
		return b.typeList(n)
	case syntax.TypeBody:
		return b.typeBody(n)
	case syntax.EnumBody:
		return b.enumBody(n)
	case syntax.EnumConstant:
		return b.enumConstant(n)
	case syntax.Initializer:
		return b.initializer(n)
	case syntax.Method:
		return b.method(n)
	case syntax.Params:
		return b.list(config.MethodDeclarationParameters, n.Children)
	case syntax.Param:
		return b.param(n)
	case syntax.Var:
		return b.variable(n, false)
	case syntax.Declarators:
		return b.declarators(n)
	case syntax.Declarator:
		return b.declarator(n)
	case syntax.Type:
		return b.typ(n)

	case syntax.Block:
		return b.block(n)
	case syntax.If:
		return b.ifStmt(n)
	case syntax.While, syntax.Synchronized:
		return b.keywordStmt(n)
	case syntax.Do:
		return b.doStmt(n)
	case syntax.For:
		return b.forStmt(n)
	case syntax.ForControl:
		return b.forControl(n)
	case syntax.Try:
		return b.tryStmt(n)
	case syntax.Resources:
		return b.resources(n)
	case syntax.Catch, syntax.Finally:
		return b.keywordStmt(n)
	case syntax.Switch:
		return b.switchStmt(n)
	case syntax.SwitchBody:
		return b.switchBody(n)
	case syntax.Case:
		return b.caseLabel(n)
	case syntax.Return, syntax.Throw, syntax.Jump, syntax.Yield, syntax.Assert:
		return b.simpleStmt(n)
	case syntax.Labeled:
		return b.labeled(n)
	case syntax.ExprStmt, syntax.Empty:
		return b.glued(n.Children...)

	case syntax.Binary:
		return b.binary(n)
	case syntax.Operator:
		return b.glued(n.Children...)
	case syntax.Assign:
		return b.assign(n)
	case syntax.Conditional:
		return b.conditional(n)
	case syntax.Unary:
		return b.unary(n)
	case syntax.Postfix, syntax.Paren, syntax.Index, syntax.MethodRef:
		return b.glued(n.Children...)
	case syntax.Cast:
		return b.cast(n)
	case syntax.Call:
		return b.call(n)
	case syntax.Args:
		return b.list(config.MethodInvocationArguments, n.Children)
	case syntax.Select:
		return b.selectChain(n)
	case syntax.New:
		return b.newExpr(n)
	case syntax.ArrayInit:
		return b.arrayInit(n)
	case syntax.Lambda:
		return b.lambda(n)
	}
	return b.raw(n)
}
