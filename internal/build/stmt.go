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
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/syntax"
)

func (b *builder) block(n *syntax.Node) *chunk.Chunk {
	return b.braces(n, b.item)
}

// body adds the body of a control statement to l. A body without braces
// goes on its own line, one level deeper.
func (b *builder) body(l *line, n *syntax.Node) {
	switch {
	case n == nil:
	case n.Kind == syntax.Empty:
		l.glue(b.node(n))
	case n.Kind == syntax.Block:
		l.add(b.block(n))
	default:
		l.add(chunk.NewBlock(nil, nil, b.items([]*syntax.Node{n}, b.item)))
	}
}

func (b *builder) ifStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	children := n.Children
	l.add(b.tok(children[0]))
	for i := 1; i < len(children); i++ {
		child := children[i]
		switch {
		case child.Kind == syntax.Paren:
			l.add(b.node(child))
		case b.is(child, "else"):
			l.add(b.tok(child))
			if i+1 < len(children) && children[i+1].Kind == syntax.If {
				i++
				l.add(b.ifStmt(children[i]))
			}
		default:
			b.body(&l, child)
		}
	}
	return l.seq()
}

// keywordStmt builds while, synchronized, catch and finally: a keyword, an
// optional parenthesized header and a body.
func (b *builder) keywordStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		switch {
		case i == 0, child.Kind == syntax.Paren, b.is(child, "("):
			l.add(b.node(child))
		case b.is(child, ")"):
			l.glue(b.tok(child))
		case child.Kind == syntax.Param:
			l.glue(b.param(child))
		default:
			b.body(&l, child)
		}
	}
	return l.seq()
}

func (b *builder) doStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		switch {
		case i == 0, b.is(child, "while"), child.Kind == syntax.Paren:
			l.add(b.node(child))
		case b.is(child, ";"):
			l.glue(b.tok(child))
		default:
			b.body(&l, child)
		}
	}
	return l.seq()
}

func (b *builder) forStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		switch {
		case i == 0, child.Kind == syntax.ForControl:
			l.add(b.node(child))
		default:
			b.body(&l, child)
		}
	}
	return l.seq()
}

// forControl builds the parenthesized header of a for statement.
func (b *builder) forControl(n *syntax.Node) *chunk.Chunk {
	var l line
	for i, child := range n.Children {
		var c *chunk.Chunk
		switch child.Kind {
		case syntax.Var:
			c = b.variable(child, false)
		case syntax.Param:
			c = b.param(child)
		default:
			c = b.node(child)
		}

		switch {
		case i == 0, b.is(n.Children[i-1], "("):
			l.glue(c)
		case b.is(child, ";"), b.is(child, ")"):
			l.glue(c)
		default:
			l.add(c)
		}
	}
	return l.seq()
}

func (b *builder) tryStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		l.add(b.node(child))
	}
	return l.seq()
}

// resources builds the resource list of a try statement.
func (b *builder) resources(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	open := b.tok(children[0])
	inner := children[1:]
	var closeNode *syntax.Node
	if k := len(inner); k > 0 && b.is(inner[k-1], ")") {
		closeNode, inner = inner[k-1], inner[:k-1]
	}

	elems := b.elements(inner, ";")
	var closeChunk *chunk.Chunk
	if closeNode != nil {
		closeChunk = b.tok(closeNode)
	}
	if len(elems) == 0 {
		return chunk.Seq(open, closeChunk)
	}
	return chunk.Seq(open, chunk.NewGroup(config.TryResources, elems...), closeChunk)
}

func (b *builder) switchStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		l.add(b.node(child))
	}
	return l.seq()
}

func (b *builder) switchBody(n *syntax.Node) *chunk.Chunk {
	return b.braces(n, b.item)
}

// caseLabel builds a switch label together with the statements it guards.
// The statements of an old-style label go one level deeper; the target of
// an arrow stays on the label's line.
func (b *builder) caseLabel(n *syntax.Node) *chunk.Chunk {
	var l line
	children := n.Children
	l.add(b.tok(children[0]))
	for i := 1; i < len(children); i++ {
		child := children[i]
		switch {
		case b.is(child, ","):
			l.glue(b.tok(child))
		case b.is(child, ":"):
			l.glue(b.tok(child))
			if stmts := children[i+1:]; len(stmts) > 0 {
				l.add(chunk.NewBlock(nil, nil, b.items(stmts, b.item)))
			}
			return l.seq()
		case b.is(child, "->"):
			l.add(b.tok(child))
			for _, target := range children[i+1:] {
				l.add(b.item(target))
			}
			return l.seq()
		case child.Kind == syntax.Param:
			l.add(b.param(child))
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

// simpleStmt builds return, throw, break, continue, yield and assert.
func (b *builder) simpleStmt(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		if b.is(child, ";") {
			l.glue(b.tok(child))
			continue
		}
		l.add(b.node(child))
	}
	return l.seq()
}

func (b *builder) labeled(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		if b.is(child, ":") {
			l.glue(b.tok(child))
			continue
		}
		l.add(b.item(child))
	}
	return l.seq()
}
