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

// Package wrap decides where the lines of a chunk tree break.
//
// The resolver walks the tree once, left to right, tracking the output
// column. Each group is first measured flat; if it fits in what is left of
// the line it is kept whole, and otherwise its alignment policy chooses
// which of its elements start new lines and at what indentation. There is no
// backtracking beyond a single trial placement per element, and a step
// budget bounds even that.
package wrap

import (
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/internal/width"
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
)

// stepsPerChunk is how many placements per chunk the resolver may spend
// before it stops trying optional breaks.
const stepsPerChunk = 32

// Resolve fills in the Layout of every chunk under root, which must be the
// unit block produced by the builder.
//
// file is used to attribute diagnostics; r may be nil.
func Resolve(root *chunk.Chunk, file *source.File, cfg config.Config, r *report.Report) {
	n := 0
	root.Walk(func(*chunk.Chunk) bool {
		n++
		return true
	})

	l := &layout{
		cfg:     cfg,
		file:    file,
		report:  r,
		tabstop: width.Tabstop(cfg.TabSize),
		width:   cfg.Width(),
		budget:  stepsPerChunk*n + 1024,
	}
	root.NewLine = false
	l.block(root, pos{fresh: true})
}

type layout struct {
	cfg     config.Config
	file    *source.File
	report  *report.Report
	tabstop int
	width   int

	steps, budget int
	exhausted     bool
	// Comments already reported as degraded, by offset.
	degraded map[int]bool

	probe *probe
}

// pos is the state of the output at some point.
type pos struct {
	col int
	// The indentation of the current line.
	line chunk.Indent
	// The indentation that bodies are nested under: that of the enclosing
	// block item, or of the line an element of a broken group starts on.
	base chunk.Indent
	// The indentation of the line the innermost enclosing sequence started
	// on. Declaration clauses wrap relative to it.
	head chunk.Indent
	// Whether nothing has been written on the current line yet.
	fresh bool
}

// probe records what happens on the first line of a trial placement.
type probe struct {
	broke, overflow bool
}

// columns returns the column at which a line with indentation ind starts.
func (l *layout) columns(ind chunk.Indent) int {
	return l.cfg.IndentColumns(ind.Level) + ind.Align
}

// policy returns the alignment policy for a group. Once the step budget is
// spent, no group breaks optionally any more.
func (l *layout) policy(c *chunk.Chunk) config.AlignmentPolicy {
	if l.steps > l.budget {
		if !l.exhausted {
			l.exhausted = true
			l.report.Remarkf("line wrapping gave up after %d steps; some lines may be too long", l.steps)
		}
		return config.NoAlignment
	}
	return l.cfg.Policy(c.Context)
}

// breakTo starts a new line with indentation ind before c.
func (l *layout) breakTo(c *chunk.Chunk, ind chunk.Indent, p pos) pos {
	if l.probe != nil {
		l.probe.broke = true
	}
	c.NewLine, c.Indent = true, ind
	return pos{col: l.columns(ind), line: ind, base: p.base, head: p.head, fresh: true}
}

// stay keeps c on the current line.
func (l *layout) stay(c *chunk.Chunk, p pos) pos {
	c.NewLine, c.Indent = false, chunk.Indent{}
	if !p.fresh && l.spaced(c) {
		p.col++
	}
	return p
}

// place lays out c starting at p, which already accounts for any space
// before c, and returns the position after it. tail is the width that must
// follow c on its last line.
func (l *layout) place(c *chunk.Chunk, p pos, tail int) pos {
	l.steps++
	switch c.Kind {
	case chunk.Token:
		return l.token(c, p)
	case chunk.Comment:
		return l.comment(c, p)
	case chunk.Block:
		return l.block(c, p)
	}

	policy := l.policy(c)
	if policy == config.NoAlignment {
		return l.seq(c, p, tail)
	}
	return l.split(c, p, tail, policy)
}

func (l *layout) token(c *chunk.Chunk, p pos) pos {
	if c.Text == "" {
		return p
	}
	if l.probe != nil && !l.probe.broke {
		w, _ := width.FirstLine(p.col, l.tabstop, c.Text)
		if p.col+w > l.width {
			l.probe.overflow = true
		}
	}
	p.col = width.Advance(p.col, l.tabstop, c.Text)
	p.fresh = false
	return p
}

func (l *layout) comment(c *chunk.Chunk, p pos) pos {
	c.Rendered = c.Comment.Render(p.col, l.cfg.CommentWidth())
	c.Continue = chunk.Indent{
		Level: p.line.Level,
		Align: max(p.col-l.cfg.IndentColumns(p.line.Level), 0),
	}
	if c.Rendered.Degraded && c.Start >= 0 && l.file != nil && !l.degraded[c.Start] {
		if l.degraded == nil {
			l.degraded = make(map[int]bool)
		}
		l.degraded[c.Start] = true
		l.report.Remarkf("comment could not be reformatted; it is kept as written").
			With(report.At(l.file.Span(c.Start, c.End)))
	}

	lines := c.Rendered.Lines
	switch {
	case len(lines) == 0:
		return p
	case len(lines) == 1:
		p.col = width.Advance(p.col, l.tabstop, lines[0])
	case c.Rendered.Aligned:
		p.col = width.Advance(p.col, l.tabstop, lines[len(lines)-1])
	default:
		p.col = width.Advance(0, l.tabstop, lines[len(lines)-1])
	}
	p.fresh = false
	return p
}

// block lays out a block. Items go on lines of their own, one level deeper
// than the block's base; the closing brace goes back to the base.
func (l *layout) block(c *chunk.Chunk, p pos) pos {
	base := p.base
	ind := base
	if c.Indented {
		ind.Level++
	}

	if c.Open != nil {
		c.Open.NewLine = false
		p = l.place(c.Open, p, 0)
	}
	for _, item := range c.Children {
		p = l.breakTo(item, ind, p)
		p.base = ind
		p = l.item(item, p)
	}
	p.base = base

	if c.Close == nil {
		return p
	}
	if len(c.Children) > 0 || c.Open == nil || c.Open.EndsHard() {
		p = l.breakTo(c.Close, base, p)
	} else {
		c.Close.NewLine = false
	}
	return l.place(c.Close, p, 0)
}

// item places one block item. If that fails, the item is laid out again
// without wrapping and a remark is recorded; the rest of the tree is
// unaffected.
func (l *layout) item(c *chunk.Chunk, p pos) (q pos) {
	outer := l.probe
	defer l.report.Catch("wrapping lines", l.span(c), func() {
		l.probe = outer
		l.flatten(c, p.line)
		q = p
		q.fresh = false
	})
	return l.place(c, p, 0)
}

// flatten lays out what is below c, which starts a line indented by ind,
// breaking only where a chunk demands it. Nothing is measured or rendered.
func (l *layout) flatten(c *chunk.Chunk, ind chunk.Indent) {
	switch c.Kind {
	case chunk.Group:
		for i, child := range c.Children {
			child.NewLine, child.Indent = false, chunk.Indent{}
			if i > 0 {
				prev := c.Children[i-1]
				if prev.EndsHard() || child.StartsHard() {
					child.NewLine, child.Indent = true, l.continuation(prev, ind)
				}
			}
			l.flatten(child, ind)
		}

	case chunk.Block:
		inner := ind
		if c.Indented {
			inner.Level++
		}
		if c.Open != nil {
			c.Open.NewLine = false
			l.flatten(c.Open, ind)
		}
		for _, item := range c.Children {
			item.NewLine, item.Indent = true, inner
			l.flatten(item, inner)
		}
		if c.Close != nil {
			c.Close.NewLine = len(c.Children) > 0 || c.Open == nil || c.Open.EndsHard()
			c.Close.Indent = ind
			l.flatten(c.Close, ind)
		}
	}
}

// span returns the span of the first source token under c, for
// diagnostics.
func (l *layout) span(c *chunk.Chunk) source.Span {
	var span source.Span
	if l.file == nil {
		return span
	}
	c.Walk(func(d *chunk.Chunk) bool {
		if d.Start < 0 {
			return true
		}
		span = l.file.Span(d.Start, d.End)
		return false
	})
	return span
}

// seq lays out a group that never takes optional breaks of its own. Lines
// still break where a chunk demands it; the next line is indented by the
// continuation indentation unless what came before settles it.
func (l *layout) seq(c *chunk.Chunk, p pos, tail int) pos {
	start := p.line
	for i, child := range c.Children {
		p.head = start
		childTail := l.tail(c.Children[i+1:], tail)
		if i == 0 {
			child.NewLine = false
			p = l.place(child, p, childTail)
			continue
		}

		prev := c.Children[i-1]
		if prev.EndsHard() || child.StartsHard() ||
			(prev.Break == chunk.Optional && !l.fits(child, p, childTail)) {
			p = l.breakTo(child, l.continuation(prev, start), p)
		} else {
			p = l.stay(child, p)
		}
		p = l.place(child, p, childTail)
	}
	return p
}

func (l *layout) continuation(prev *chunk.Chunk, start chunk.Indent) chunk.Indent {
	if settles(prev) {
		return start
	}
	return chunk.Indent{Level: start.Level + l.cfg.ContinuationIndent, Align: start.Align}
}

// wrapIndent returns the indentation of the lines that elements of a group
// starting at p are wrapped onto.
//
// The extends, implements and throws clauses of a declaration are indented
// from the line the declaration starts on, so that a clause following one
// that wrapped lines up with it.
func (l *layout) wrapIndent(c *chunk.Chunk, policy config.AlignmentPolicy, p pos) chunk.Indent {
	from := p.line
	switch c.Context {
	case config.Superclass, config.Superinterfaces, config.ThrowsClause:
		from = p.head
	}

	switch policy.Indent() {
	case config.IndentOnColumn:
		return chunk.Indent{
			Level: p.line.Level,
			Align: max(p.col-l.cfg.IndentColumns(p.line.Level), 0),
		}
	case config.IndentByOne:
		return chunk.Indent{Level: from.Level + 1, Align: from.Align}
	default:
		return chunk.Indent{Level: from.Level + l.cfg.ContinuationIndent, Align: from.Align}
	}
}

// split lays out a group under a policy that may break it.
func (l *layout) split(c *chunk.Chunk, p pos, tail int, policy config.AlignmentPolicy) pos {
	l.measure(c)
	if !policy.IsForced() && !c.Hard && p.col+c.Width+tail <= l.width {
		return l.seq(c, p, tail)
	}

	base := p.base
	ci := l.wrapIndent(c, policy, p)
	mode := policy.Split()
	broke := false
	last := len(c.Children) - 1
	for i, child := range c.Children {
		childTail := 0
		if i == last {
			childTail = tail
		}

		ind := ci
		var brk bool
		switch {
		case i > 0 && (c.Children[i-1].EndsHard() || child.StartsHard()):
			brk = true
		case mode == config.OnePerLineSplit:
			brk = true
		case mode == config.NextLineShiftedSplit:
			brk = true
			ind.Level += i
		case mode == config.NextLinePerLineSplit:
			brk = i > 0
		case mode == config.CompactFirstBreakSplit && i == 0:
			brk = true
		case i == 0 && !c.BreakFirst:
		case policy.IsForced() && !broke:
			brk = true
		case l.fits(child, p, childTail), l.columns(ci) >= p.col:
		case !l.cfg.WrapOuterExpressionsWhenNested:
			if q, ok := l.try(child, p, childTail); ok {
				p = q
				continue
			}
			brk = true
		default:
			brk = true
		}

		if brk && !(i == 0 && p.fresh) {
			p = l.breakTo(child, ind, p)
			broke = true
		} else {
			p = l.stay(child, p)
		}
		p.base = p.line
		p = l.place(child, p, childTail)
	}
	p.base = base
	return p
}

// try places c on the current line and reports whether the first line of
// the result fits. If it does not, the caller places c again.
func (l *layout) try(c *chunk.Chunk, p pos, tail int) (pos, bool) {
	outer := l.probe
	trial := &probe{}
	l.probe = trial
	q := l.stay(c, p)
	q.base = q.line
	q = l.place(c, q, tail)
	l.probe = outer

	if trial.overflow {
		return p, false
	}
	if outer != nil && !outer.broke {
		outer.broke = trial.broke
	}
	q.base = p.base
	return q, true
}
