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
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/syntax"
)

func (b *builder) is(n *syntax.Node, text string) bool {
	return n.IsToken(b.stream, text)
}

// item builds a block item: a member or a statement.
func (b *builder) item(n *syntax.Node) *chunk.Chunk {
	if n.Kind == syntax.Var {
		return b.variable(n, true)
	}
	return b.node(n)
}

// qualified builds a package or import declaration.
func (b *builder) qualified(n *syntax.Node) *chunk.Chunk {
	var l line
	named := false
	for _, child := range n.Children {
		switch {
		case len(l.parts) == 0, !named && b.is(child, "static"):
			l.add(b.tok(child))
		case b.is(child, ";"), named:
			l.glue(b.tok(child))
		default:
			l.add(b.tok(child))
			named = true
		}
	}
	return l.seq()
}

// modifiers builds annotations and modifier keywords. On declarations,
// annotations may be followed by a line break.
func (b *builder) modifiers(n *syntax.Node, decl bool) *chunk.Chunk {
	if n == nil {
		return nil
	}
	var l line
	for _, child := range n.Children {
		c := b.node(child)
		l.add(c)
		if decl && child.Kind == syntax.Annotation && b.cfg.NewLineAfterAnnotation {
			c.Lead = true
			c.Break = chunk.Mandatory
		}
	}
	mods := l.seq()
	if mods != nil && l.parts[len(l.parts)-1].Lead {
		mods.Lead = true
	}
	return mods
}

func (b *builder) annotation(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		if child.Kind == syntax.AnnotationArgs {
			l.glue(b.list(config.AnnotationArguments, child.Children))
			continue
		}
		l.glue(b.tok(child))
	}
	return l.seq()
}

// pair builds name = value inside annotation arguments.
func (b *builder) pair(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		l.add(b.node(child))
	}
	return l.seq()
}

func (b *builder) typeDecl(n *syntax.Node) *chunk.Chunk {
	var l line
	var kw string
	afterAt := false
	for _, child := range n.Children {
		switch child.Kind {
		case syntax.Modifiers:
			l.add(b.modifiers(child, true))
		case syntax.Token:
			c := b.tok(child)
			if afterAt {
				l.glue(c)
			} else {
				l.add(c)
			}
			afterAt = b.is(child, "@")
			if kw == "" && !afterAt {
				kw = b.stream.Text(child.Tok)
			}
		case syntax.Type:
			l.glue(b.typ(child))
		case syntax.Params:
			l.glue(b.list(config.MethodDeclarationParameters, child.Children))
		case syntax.Clause:
			ctx := config.Superinterfaces
			if kw == "class" && b.is(child.Children[0], "extends") {
				ctx = config.Superclass
			}
			l.add(b.clause(child, ctx))
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

// clause builds an extends, implements, permits or throws clause. The
// keyword travels with the first type, and the whole clause may move to
// the next line.
func (b *builder) clause(n *syntax.Node, ctx config.WrapContext) *chunk.Chunk {
	kwNode := n.Children[0]
	kw := b.tok(kwNode)
	list := n.First(syntax.TypeList)
	if list == nil {
		return kw
	}

	elems := b.elements(list.Children, ",")
	if len(elems) == 0 {
		return kw
	}
	elems[0].Space = true
	elems[0] = b.element(chunk.Seq(kw, elems[0]), kwNode)
	g := chunk.NewGroup(ctx, elems...)
	g.BreakFirst = true
	return g
}

func (b *builder) typeList(n *syntax.Node) *chunk.Chunk {
	return chunk.Seq(b.elements(n.Children, ",")...)
}

// typ builds a type as a flat run of tokens.
func (b *builder) typ(n *syntax.Node) *chunk.Chunk {
	var l line
	prev := ""
	for _, child := range n.Children {
		if child.Kind == syntax.Annotation {
			c := b.annotation(child)
			if prev != "" && prev != "." && prev != "<" {
				l.add(c)
			} else {
				l.glue(c)
			}
			prev = "@"
			continue
		}
		if child.Kind != syntax.Token {
			l.add(b.node(child))
			prev = ""
			continue
		}

		text := b.stream.Text(child.Tok)
		c := b.tok(child)
		if prev != "" && typeSpace(prev, text) {
			l.add(c)
		} else {
			l.glue(c)
		}
		prev = text
	}
	return l.seq()
}

// typeSpace returns whether a space separates two adjacent tokens of a
// type.
func typeSpace(prev, next string) bool {
	switch {
	case prev == "@", prev == ",":
		return true
	case prev == "&", next == "&":
		return true
	case prev == "extends", prev == "super", next == "extends", next == "super":
		return true
	}
	return isWord(prev) && isWord(next)
}

func isWord(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// braces builds a braced block whose first and last children are the
// braces, laying out everything in between as items.
func (b *builder) braces(n *syntax.Node, build func(*syntax.Node) *chunk.Chunk) *chunk.Chunk {
	children := n.Children
	open := b.tok(children[0])
	inner := children[1:]
	var closeNode *syntax.Node
	if k := len(inner); k > 0 && b.is(inner[k-1], "}") {
		closeNode, inner = inner[k-1], inner[:k-1]
	}

	items := b.items(inner, build)
	var closeChunk *chunk.Chunk
	if closeNode != nil {
		items = append(items, b.detach(closeNode.Tok, true)...)
		closeChunk = b.tok(closeNode)
	}
	return chunk.NewBlock(open, closeChunk, items)
}

func (b *builder) typeBody(n *syntax.Node) *chunk.Chunk {
	return b.braces(n, b.item)
}

func (b *builder) enumBody(n *syntax.Node) *chunk.Chunk {
	children := n.Children
	open := b.tok(children[0])
	rest := children[1:]
	var closeNode *syntax.Node
	if k := len(rest); k > 0 && b.is(rest[k-1], "}") {
		closeNode, rest = rest[k-1], rest[:k-1]
	}

	// The constants and the semicolon that ends them form the first item.
	var items []*chunk.Chunk
	var first line
	var blank int
	if len(rest) > 0 && rest[0].Kind == syntax.EnumConstants {
		constants := rest[0]
		rest = rest[1:]
		if id := constants.FirstToken(); id >= 0 {
			items = append(items, b.detach(id, false)...)
			blank = b.blankBefore(id)
			first.glue(chunk.NewGroup(config.EnumConstants, b.elements(constants.Children, ",")...))
		}
	}
	if len(rest) > 0 && b.is(rest[0], ";") {
		if len(first.parts) == 0 {
			items = append(items, b.detach(rest[0].Tok, false)...)
			blank = b.blankBefore(rest[0].Tok)
		}
		first.glue(b.tok(rest[0]))
		rest = rest[1:]
	}
	if c := first.seq(); c != nil {
		c.Blank = blank
		items = append(items, c)
	}

	items = append(items, b.items(rest, b.item)...)
	var closeChunk *chunk.Chunk
	if closeNode != nil {
		items = append(items, b.detach(closeNode.Tok, true)...)
		closeChunk = b.tok(closeNode)
	}
	return chunk.NewBlock(open, closeChunk, items)
}

func (b *builder) enumConstant(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		switch child.Kind {
		case syntax.Modifiers:
			l.add(b.modifiers(child, false))
		case syntax.Args:
			l.glue(b.list(config.EnumConstantArguments, child.Children))
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

func (b *builder) initializer(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		l.add(b.node(child))
	}
	return l.seq()
}

func (b *builder) method(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		switch child.Kind {
		case syntax.Modifiers:
			l.add(b.modifiers(child, true))
		case syntax.Params:
			l.glue(b.list(config.MethodDeclarationParameters, child.Children))
		case syntax.Clause:
			l.add(b.clause(child, config.ThrowsClause))
		case syntax.Token:
			switch b.stream.Text(child.Tok) {
			case "[", "]", ";":
				l.glue(b.tok(child))
			default:
				l.add(b.tok(child))
			}
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

// param builds a parameter, a catch parameter or a type pattern.
func (b *builder) param(n *syntax.Node) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.Modifiers:
			l.add(b.modifiers(child, false))
		case b.is(child, "..."), b.is(child, "["), b.is(child, "]"):
			l.glue(b.tok(child))
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

// variable builds a field or local variable declaration. decl is set for
// declarations that stand as items on their own.
func (b *builder) variable(n *syntax.Node, decl bool) *chunk.Chunk {
	var l line
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.Modifiers:
			l.add(b.modifiers(child, decl))
		case b.is(child, ";"):
			l.glue(b.tok(child))
		default:
			l.add(b.node(child))
		}
	}
	return l.seq()
}

func (b *builder) declarators(n *syntax.Node) *chunk.Chunk {
	elems := b.elements(n.Children, ",")
	switch len(elems) {
	case 0:
		return nil
	case 1:
		return elems[0]
	}
	return chunk.NewGroup(config.MultipleFields, elems...)
}

// declarator builds name = init, where the initializer may wrap.
func (b *builder) declarator(n *syntax.Node) *chunk.Chunk {
	var lhs line
	children := n.Children
	i := 0
	for ; i < len(children) && !b.is(children[i], "="); i++ {
		lhs.glue(b.node(children[i]))
	}
	if i == len(children) {
		return lhs.seq()
	}
	lhs.add(b.tok(children[i]))
	if i+1 >= len(children) {
		return lhs.seq()
	}
	return b.assignment(lhs.seq(), children[i+1])
}

// assignment joins the left-hand side of an assignment, operator included,
// with its right-hand side.
func (b *builder) assignment(lhs *chunk.Chunk, rhsNode *syntax.Node) *chunk.Chunk {
	rhs := b.node(rhsNode)
	if rhs == nil {
		return lhs
	}
	rhs.Space = true
	return chunk.NewGroup(config.Assignment, lhs, b.element(rhs, rhsNode))
}

// elements builds the elements of a separated list, each with its trailing
// separator.
func (b *builder) elements(children []*syntax.Node, sep string) []*chunk.Chunk {
	var elems []*chunk.Chunk
	for i := 0; i < len(children); i++ {
		first := children[i]
		var l line
		l.glue(b.node(first))
		if i+1 < len(children) && b.is(children[i+1], sep) {
			i++
			l.glue(b.tok(children[i]))
		}
		e := l.seq()
		if e == nil {
			continue
		}
		if len(elems) > 0 {
			e.Space = true
		}
		elems = append(elems, b.element(e, first))
	}
	return elems
}

// list builds a bracketed, comma-separated list whose elements wrap under
// the policy for ctx. Either bracket may be absent.
func (b *builder) list(ctx config.WrapContext, children []*syntax.Node) *chunk.Chunk {
	var open, closeChunk *chunk.Chunk
	if len(children) > 0 && isOpen(b, children[0]) {
		open = b.tok(children[0])
		children = children[1:]
	}
	var closeNode *syntax.Node
	if k := len(children); k > 0 && isClose(b, children[k-1]) {
		closeNode, children = children[k-1], children[:k-1]
	}

	elems := b.elements(children, ",")
	if closeNode != nil {
		closeChunk = b.tok(closeNode)
	}
	if len(elems) == 0 {
		return chunk.Seq(open, closeChunk)
	}
	return chunk.Seq(open, chunk.NewGroup(ctx, elems...), closeChunk)
}

func isOpen(b *builder, n *syntax.Node) bool {
	return b.is(n, "(") || b.is(n, "{") || b.is(n, "<")
}

func isClose(b *builder, n *syntax.Node) bool {
	return b.is(n, ")") || b.is(n, "}") || b.is(n, ">")
}
