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

package wrap

import (
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/internal/width"
	"github.com/bufbuild/blockfmt/token"
)

// measure calculates the flat width of c, and whether it must contain a line
// break. If it must, Width is the width of its first line only.
//
// Measurements depend only on the configuration, so they are cached on the
// chunk.
func (l *layout) measure(c *chunk.Chunk) {
	if c.Measured {
		return
	}
	c.Measured = true
	c.Width, c.Hard = 0, false

	switch c.Kind {
	case chunk.Token:
		c.Width, _ = width.FirstLine(0, l.tabstop, c.Text)

	case chunk.Comment:
		// Trailing line comments never push code onto another line.
		if c.Comment.Style != token.LineComment {
			c.Width, _ = width.FirstLine(0, l.tabstop, c.Text)
		}
		c.Hard = c.Comment.IsMultiline()

	case chunk.Block:
		if c.Open == nil {
			c.Hard = true
			return
		}
		l.measure(c.Open)
		c.Width = c.Open.Width
		c.Hard = len(c.Children) > 0 || c.Close == nil || c.Open.EndsHard()
		if !c.Hard {
			l.measure(c.Close)
			c.Width += c.Close.Width
		}

	case chunk.Group:
		last := len(c.Children) - 1
		for i, child := range c.Children {
			l.measure(child)
			if i > 0 {
				if child.StartsHard() {
					c.Hard = true
					return
				}
				if child.Width > 0 && l.spaced(child) {
					c.Width++
				}
			}
			c.Width += child.Width
			if child.Hard || (i < last && child.EndsHard()) {
				c.Hard = true
				return
			}
		}
	}
}

// spaced returns whether c is preceded by a space when it does not start a
// line.
func (l *layout) spaced(c *chunk.Chunk) bool {
	for c != nil {
		if c.Space {
			return true
		}
		switch {
		case c.Kind == chunk.Group && len(c.Children) > 0:
			c = c.Children[0]
		case c.Kind == chunk.Block:
			c = c.Open
		default:
			return false
		}
	}
	return false
}

// breakable returns whether c is a group whose policy may introduce breaks.
func (l *layout) breakable(c *chunk.Chunk) bool {
	return c.Kind == chunk.Group && l.policy(c) != config.NoAlignment
}

// lead returns the width of the part of c that must stay on the line it
// starts on, not counting its leading space. stop is set if a break may
// follow that part.
func (l *layout) lead(c *chunk.Chunk) (w int, stop bool) {
	switch c.Kind {
	case chunk.Token:
		n, more := width.FirstLine(0, l.tabstop, c.Text)
		return n, more || c.EndsHard()

	case chunk.Comment:
		return 0, true

	case chunk.Block:
		if c.Open == nil {
			return 0, true
		}
		l.measure(c.Open)
		return c.Open.Width, true
	}

	for i, child := range c.Children {
		if i > 0 {
			if child.StartsHard() {
				return w, true
			}
			if l.spaced(child) {
				w++
			}
		}
		n, stop := l.lead(child)
		w += n
		if stop || child.EndsHard() || (i == 0 && l.breakable(c)) {
			return w, true
		}
	}
	return w, c.EndsHard()
}

// tail returns the width that must follow on the same line after the last
// chunk before siblings, given the tail of their parent.
func (l *layout) tail(siblings []*chunk.Chunk, parent int) int {
	w := 0
	for _, c := range siblings {
		if c.StartsHard() {
			return w
		}
		n, stop := l.lead(c)
		if n > 0 && l.spaced(c) {
			n++
		}
		w += n
		if stop {
			return w
		}
	}
	return w + parent
}

// fits returns whether c fits at p, followed by tail. For a chunk that must
// break, only its first line is checked.
func (l *layout) fits(c *chunk.Chunk, p pos, tail int) bool {
	l.measure(c)
	col := p.col
	if !p.fresh && c.Width > 0 && l.spaced(c) {
		col++
	}
	if c.Hard {
		return col+c.Width <= l.width
	}
	return col+c.Width+tail <= l.width
}

// settles returns whether the line after c keeps the indentation of the
// line c started on: c ends with an annotation or comment that decorates
// what follows, or with a body that sits on lines of its own.
func settles(c *chunk.Chunk) bool {
	for c != nil {
		if c.Lead || c.IsBraceless() {
			return true
		}
		if c.Kind != chunk.Group || len(c.Children) == 0 {
			return false
		}
		c = c.Children[len(c.Children)-1]
	}
	return false
}
