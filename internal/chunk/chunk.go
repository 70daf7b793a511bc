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

// Package chunk defines the intermediate representation that sits between
// the syntax tree and the formatted text.
//
// A chunk is either a token (literal text), a comment, a group of chunks
// bound to a single wrap context, or a block: a pair of braces whose items
// each sit on their own line one level deeper. The builder produces a chunk
// tree, the wrap resolver decides where lines break and how they are
// indented, and the writer serializes the result.
package chunk

import (
	"fmt"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/comment"
)

const (
	Token Kind = iota
	Comment
	Group
	Block
)

// Kind is the kind of a [Chunk].
type Kind uint8

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Token:
		return "token"
	case Comment:
		return "comment"
	case Group:
		return "group"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	// Never break between this chunk and its successor.
	Never Break = iota
	// Optional lets the resolver break here if the group's policy says so.
	Optional
	// Mandatory always breaks here.
	Mandatory
)

// Break is the kind of line break preferred between a chunk and its
// successor.
type Break uint8

// Indent is the indentation of an output line: a number of indentation
// levels plus a number of columns of alignment written as spaces.
type Indent struct {
	Level, Align int
}

// Chunk is a node in the chunk tree.
type Chunk struct {
	Kind Kind

	// Token: the literal text. Comment: the raw text of the first comment.
	Text string
	// The source span of a token or comment; Start is -1 for synthesized
	// chunks.
	Start, End int

	// Whether a space separates this chunk from its predecessor when both
	// are on the same line.
	Space bool
	// The break between this chunk and its successor.
	Break Break
	// Whether a line break must precede this chunk, as for a comment that
	// sat on its own line in the input.
	BreakBefore bool
	// Whether this chunk decorates a declaration (an annotation or a
	// comment). A line following it keeps the declaration's indentation
	// instead of taking a continuation indent.
	Lead bool
	// For block items: the number of blank lines written before the item.
	Blank int

	// Group: the wrap context, which selects the alignment policy.
	Context config.WrapContext
	// Group: whether the first element may be moved to a new line under a
	// compact policy, like any later element.
	BreakFirst bool
	// Group: the elements. Block: the items.
	Children []*Chunk

	// Block: the braces. Open is nil for a braceless body such as the
	// single statement of an if; such a body ends with a mandatory break.
	Open, Close *Chunk
	// Block: whether items are indented one level deeper than the block.
	Indented bool

	// Comment: the parsed comment.
	Comment *comment.Comment

	// Layout, filled in by the resolver.
	Layout
}

// Layout is the resolver's output for one chunk.
type Layout struct {
	// Whether a line break precedes this chunk, and the indentation of the
	// line it starts. For a block, Indent is the indentation of the line
	// holding its closing brace.
	NewLine bool
	Indent  Indent

	// Comment: the rendered comment, and the indentation at which lines
	// after the first are written.
	Rendered comment.Rendered
	Continue Indent

	// Measurements cached by the resolver.
	Width    int
	Hard     bool
	Measured bool
}

// NewToken returns a new token chunk.
func NewToken(text string, start, end int) *Chunk {
	return &Chunk{Kind: Token, Text: text, Start: start, End: end}
}

// Synthetic returns a new token chunk that does not come from the input.
func Synthetic(text string) *Chunk {
	return &Chunk{Kind: Token, Text: text, Start: -1, End: -1}
}

// NewComment returns a new comment chunk.
func NewComment(c *comment.Comment, start, end int) *Chunk {
	text := ""
	if len(c.Raw) > 0 {
		text = c.Raw[0]
	}
	return &Chunk{Kind: Comment, Text: text, Start: start, End: end, Comment: c}
}

// NewGroup returns a new group. Nil children are dropped.
func NewGroup(ctx config.WrapContext, children ...*Chunk) *Chunk {
	g := &Chunk{Kind: Group, Context: ctx, Start: -1, End: -1}
	for _, child := range children {
		if child != nil {
			g.Children = append(g.Children, child)
		}
	}
	return g
}

// Seq returns a new group that never takes optional breaks.
func Seq(children ...*Chunk) *Chunk {
	return NewGroup(config.ContextNone, children...)
}

// NewBlock returns a new block. open and close are nil for a braceless
// body.
func NewBlock(open, close *Chunk, items []*Chunk) *Chunk {
	return &Chunk{
		Kind:     Block,
		Open:     open,
		Close:    close,
		Children: items,
		Indented: true,
		Start:    -1,
		End:      -1,
		Break:    breakAfterBlock(open),
	}
}

func breakAfterBlock(open *Chunk) Break {
	if open == nil {
		return Mandatory
	}
	return Never
}

// WithSpace sets Space on c and returns it.
func (c *Chunk) WithSpace() *Chunk {
	if c != nil {
		c.Space = true
	}
	return c
}

// WithBreak sets the break after c and returns it.
func (c *Chunk) WithBreak(b Break) *Chunk {
	if c != nil {
		c.Break = max(c.Break, b)
	}
	return c
}

// IsEmpty returns whether this chunk produces no output.
func (c *Chunk) IsEmpty() bool {
	switch c.Kind {
	case Token:
		return c.Text == ""
	case Group:
		for _, child := range c.Children {
			if !child.IsEmpty() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsBraceless returns whether this is a block without braces.
func (c *Chunk) IsBraceless() bool {
	return c.Kind == Block && c.Open == nil
}

// EndsHard returns whether a line break must follow this chunk, either
// because of its own Break or because its last descendant requires one.
func (c *Chunk) EndsHard() bool {
	for c != nil {
		if c.Break == Mandatory {
			return true
		}
		switch {
		case c.Kind == Group && len(c.Children) > 0:
			c = c.Children[len(c.Children)-1]
		case c.Kind == Block && c.Open != nil:
			// A block missing its closing brace leaves its last item open.
			if c.Close == nil {
				return true
			}
			c = c.Close
		default:
			return false
		}
	}
	return false
}

// StartsHard returns whether a line break must precede this chunk, either
// because of its own BreakBefore or because its first descendant requires
// one.
func (c *Chunk) StartsHard() bool {
	for c != nil {
		if c.BreakBefore {
			return true
		}
		switch {
		case c.Kind == Group && len(c.Children) > 0:
			c = c.Children[0]
		case c.Kind == Block && c.Open != nil:
			c = c.Open
		default:
			return false
		}
	}
	return false
}

// Walk calls yield on c and every chunk below it, in output order. Block
// braces are visited as children of their block.
func (c *Chunk) Walk(yield func(*Chunk) bool) bool {
	if !yield(c) {
		return false
	}
	if c.Open != nil && !c.Open.Walk(yield) {
		return false
	}
	for _, child := range c.Children {
		if !child.Walk(yield) {
			return false
		}
	}
	if c.Close != nil && !c.Close.Walk(yield) {
		return false
	}
	return true
}
