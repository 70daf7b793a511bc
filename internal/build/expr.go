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
	"slices"
	"strings"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/syntax"
)

// binary builds a flattened operand chain. Lines break before operators.
func (b *builder) binary(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	elems := []*chunk.Chunk{b.node(children[0])}
	for i := 1; i < len(children); i += 2 {
		op := children[i]
		var l line
		l.add(b.node(op))
		if i+1 < len(children) {
			l.add(b.node(children[i+1]))
		}
		e := l.seq()
		e.Space = true
		elems = append(elems, b.element(e, op))
	}
	return chunk.NewGroup(config.BinaryExpression, elems...)
}

func (b *builder) assign(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	var lhs line
	lhs.glue(b.node(children[0]))
	if len(children) < 2 {
		return lhs.seq()
	}
	lhs.add(b.node(children[1]))
	if len(children) < 3 {
		return lhs.seq()
	}
	return b.assignment(lhs.seq(), children[2])
}

// conditional builds cond ? a : b. Lines break before ? and :.
func (b *builder) conditional(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	elems := []*chunk.Chunk{b.node(children[0])}
	for i := 1; i < len(children); {
		op := children[i]
		var l line
		l.add(b.tok(op))
		i++
		if i < len(children) && !b.is(children[i], ":") {
			l.add(b.node(children[i]))
			i++
		}
		e := l.seq()
		e.Space = true
		elems = append(elems, b.element(e, op))
	}
	return chunk.NewGroup(config.ConditionalExpression, elems...)
}

func (b *builder) unary(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	op := b.tok(children[0])
	if len(children) < 2 {
		return op
	}
	operand := b.node(children[1])
	// Keep - -x and + ++x from fusing into a different operator.
	if text := b.stream.Text(children[0].Tok); text == "-" || text == "+" {
		if first := children[1].FirstToken(); first >= 0 && strings.HasPrefix(b.stream.Text(first), text) {
			operand.Space = true
		}
	}
	return chunk.Seq(op, operand)
}

func (b *builder) cast(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		c := b.node(child)
		if i > 0 && b.is(n.Children[i-1], ")") {
			l.add(c)
		} else {
			l.glue(c)
		}
	}
	return l.seq()
}

func (b *builder) call(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		if child.Kind == syntax.Args {
			l.glue(b.list(config.MethodInvocationArguments, child.Children))
			continue
		}
		l.glue(b.node(child))
	}
	return l.seq()
}

// selectChain builds a chain of member selections. A chain with at least two
// calls becomes a group that may break before each call; field accesses
// stay with whatever precedes them.
func (b *builder) selectChain(n *syntax.Node) *chunk.Chunk {
	type segment struct{ dot, member *syntax.Node }
	var segments []segment
	base := n
	for base.Kind == syntax.Select && len(base.Children) >= 2 {
		seg := segment{dot: base.Children[1]}
		if len(base.Children) > 2 {
			seg.member = base.Children[2]
		}
		segments = append(segments, seg)
		base = base.Children[0]
	}
	slices.Reverse(segments)

	calls := 0
	for _, seg := range segments {
		if isCall(seg.member) {
			calls++
		}
	}

	if calls < 2 {
		var l line
		l.glue(b.node(base))
		for _, seg := range segments {
			l.glue(b.tok(seg.dot))
			l.glue(b.node(seg.member))
		}
		return l.seq()
	}

	var elems []*chunk.Chunk
	cur := &line{}
	cur.glue(b.node(base))
	start := base
	for _, seg := range segments {
		if isCall(seg.member) {
			elems = append(elems, b.element(cur.seq(), start))
			cur, start = &line{}, seg.dot
		}
		cur.glue(b.tok(seg.dot))
		cur.glue(b.node(seg.member))
	}
	elems = append(elems, b.element(cur.seq(), start))
	return chunk.NewGroup(config.SelectorChain, elems...)
}

func isCall(n *syntax.Node) bool {
	return n != nil && (n.Kind == syntax.Call || n.Kind == syntax.New)
}

// newExpr builds an instance or array creation.
func (b *builder) newExpr(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		switch {
		case i == 0, child.Kind == syntax.Type:
			l.add(b.node(child))
		case child.Kind == syntax.Args:
			l.glue(b.list(config.AllocationArguments, child.Children))
		case child.Kind == syntax.TypeBody, child.Kind == syntax.ArrayInit:
			l.add(b.node(child))
		default:
			l.glue(b.node(child))
		}
	}
	return l.seq()
}

// arrayInit builds { a, b }, or {} when empty.
func (b *builder) arrayInit(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	open := b.tok(children[0])
	inner := children[1:]
	var closeNode *syntax.Node
	if k := len(inner); k > 0 && b.is(inner[k-1], "}") {
		closeNode, inner = inner[k-1], inner[:k-1]
	}

	elems := b.elements(inner, ",")
	var closeChunk *chunk.Chunk
	if closeNode != nil {
		closeChunk = b.tok(closeNode)
	}
	if len(elems) == 0 {
		return chunk.Seq(open, closeChunk)
	}
	return chunk.Seq(
		open,
		chunk.NewGroup(config.ArrayInitializer, elems...).WithSpace(),
		closeChunk.WithSpace(),
	)
}

func (b *builder) lambda(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		if child.Kind == syntax.Params {
			l.add(b.list(config.ContextNone, child.Children))
			continue
		}
		l.add(b.node(child))
	}
	return l.seq()
}
