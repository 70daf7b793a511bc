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

package comment

import (
	"strings"

	"github.com/bufbuild/blockfmt/internal/width"
	"github.com/bufbuild/blockfmt/token"
)

// paragraph is a unit of reflowable text inside a block comment.
type paragraph struct {
	words []string
	// Extra columns of indentation for every line, from list nesting or,
	// when author line breaks are kept, from the input.
	indent int
	// Extra columns of indentation for lines after the first.
	hang int
	// Whether an empty comment line precedes this paragraph.
	blank bool
	// Lines copied without reflowing, from <pre> sections.
	pre []string
}

// renderBlock lays out a /* */ or /** */ comment.
func (c *Comment) renderBlock(column, limit int) Rendered {
	raw := c.Raw[0]
	open := "/*"
	if c.Style == token.DocComment {
		open = "/**"
	}
	body := strings.TrimSuffix(raw[len(open):], "*/")

	paras := c.parse(body)
	if len(paras) == 0 {
		return c.original()
	}

	// A comment that was written on one line stays on one line if it still
	// fits; a short header comment is compacted onto one line.
	single := !strings.Contains(raw, "\n") || (c.Header && c.Style == token.BlockComment)
	if single && len(paras) == 1 && paras[0].pre == nil && paras[0].indent == 0 {
		line := open + " " + strings.Join(paras[0].words, " ") + " */"
		if width.Advance(column, c.Tabstop, line) <= limit {
			return Rendered{Lines: []string{line}, Aligned: true}
		}
	}

	avail := limit - column - len(" * ")
	lines := []string{open}
	for i, para := range paras {
		if para.blank && i > 0 {
			lines = append(lines, " *")
		}
		for _, pre := range para.pre {
			lines = append(lines, strings.TrimRight(" * "+pre, " "))
		}
		if para.words == nil {
			continue
		}

		pad := " * " + strings.Repeat(" ", para.indent)
		groups := pack(para.words, avail-para.indent)
		lines = append(lines, pad+strings.Join(groups[0], " "))
		if rest := para.words[len(groups[0]):]; len(rest) > 0 {
			hang := strings.Repeat(" ", para.hang)
			for _, group := range pack(rest, avail-para.indent-para.hang) {
				lines = append(lines, pad+hang+strings.Join(group, " "))
			}
		}
	}
	lines = append(lines, " */")
	return Rendered{Lines: lines, Aligned: true}
}

// parse breaks the body of a block comment into paragraphs.
func (c *Comment) parse(body string) []paragraph {
	p := &parser{join: c.Join, hangTags: c.IndentRootTags, doc: c.Style == token.DocComment}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if i > 0 {
			line = strings.TrimLeft(line, " \t")
			if strings.HasPrefix(line, "*") {
				line = line[1:]
				line = strings.TrimPrefix(line, " ")
			}
		} else {
			line = strings.TrimPrefix(line, " ")
		}
		p.line(line)
	}
	p.flush()
	return p.out
}

type parser struct {
	join, hangTags, doc bool

	out   []paragraph
	cur   *paragraph
	depth int
	blank bool
	inPre bool
}

func (p *parser) line(line string) {
	trimmed := strings.TrimSpace(line)

	if p.inPre {
		p.cur.pre = append(p.cur.pre, line)
		if strings.Contains(trimmed, "</pre>") {
			p.inPre = false
			p.flush()
		}
		return
	}

	if trimmed == "" {
		p.flush()
		p.blank = len(p.out) > 0
		return
	}

	if p.doc && strings.HasPrefix(strings.ToLower(trimmed), "<pre>") {
		p.flush()
		p.start()
		p.cur.pre = []string{line}
		p.inPre = !strings.Contains(trimmed, "</pre>")
		if !p.inPre {
			p.flush()
		}
		return
	}

	if !p.join {
		// Every author line is its own paragraph and keeps its own
		// indentation.
		p.flush()
		p.start()
		p.cur.indent = len(line) - len(strings.TrimLeft(line, " "))
		p.cur.hang = 0
		p.words(trimmed)
		p.flush()
		return
	}

	if p.doc && strings.HasPrefix(trimmed, "@") {
		p.flush()
	}
	p.words(trimmed)
}

// words feeds the words of one line into the current paragraph.
func (p *parser) words(text string) {
	for _, atom := range atoms(text) {
		if !p.doc || !p.join {
			p.word(atom)
			continue
		}
		for _, word := range splitMarkup(atom) {
			p.markup(word)
		}
	}
}

// markup feeds one word of a doc comment, applying the indentation rules of
// block-level tags.
func (p *parser) markup(word string) {
	switch strings.ToLower(word) {
	case "<ul>", "<ol>":
		p.flush()
		p.tagLine(word)
		p.depth++
	case "</ul>", "</ol>":
		p.flush()
		// Mismatched closers are tolerated by clamping the depth.
		p.depth = max(p.depth-1, 0)
		p.tagLine(word)
	default:
		if hasTag(word, "<li>") || hasTag(word, "<p>") {
			p.flush()
		}
		p.word(word)
	}
}

func (p *parser) word(word string) {
	if p.cur == nil {
		p.start()
		if p.doc && p.hangTags && strings.HasPrefix(word, "@") {
			p.cur.hang = width.String(word) + 1
		}
	}
	p.cur.words = append(p.cur.words, word)
}

func (p *parser) tagLine(tag string) {
	p.start()
	p.cur.words = []string{tag}
	p.flush()
}

func (p *parser) start() {
	p.cur = &paragraph{indent: 2 * p.depth, blank: p.blank}
	p.blank = false
}

func (p *parser) flush() {
	if p.cur != nil {
		p.out = append(p.out, *p.cur)
		p.cur = nil
	}
}

// listTags are the tags that open or close a nested list.
var listTags = []string{"<ul>", "<ol>", "</ul>", "</ol>"}

// splitMarkup splits a word around the list tags it holds and before any
// <li> or <p>, so that markup written without spaces, as in
// "<ol><li>one<ul>", nests like markup written one tag per line. Every
// split falls where a line is broken anyway. Inline tags are left whole.
func splitMarkup(word string) []string {
	if strings.Contains(word, "{@") || !strings.Contains(word, "<") {
		return []string{word}
	}

	var out []string
	start := 0
	cut := func(at int) {
		if at > start {
			out = append(out, word[start:at])
		}
		start = at
	}
	for i := 0; i < len(word); i++ {
		if word[i] != '<' {
			continue
		}
		rest := word[i:]
		if tag := listTag(rest); tag != "" {
			cut(i)
			cut(i + len(tag))
			i += len(tag) - 1
		} else if hasTag(rest, "<li>") || hasTag(rest, "<p>") {
			cut(i)
		}
	}
	cut(len(word))
	return out
}

func listTag(s string) string {
	for _, tag := range listTags {
		if hasTag(s, tag) {
			return tag
		}
	}
	return ""
}

// hasTag reports whether s starts with tag, ignoring case.
func hasTag(s, tag string) bool {
	return len(s) >= len(tag) && strings.EqualFold(s[:len(tag)], tag)
}

// atoms splits text into words, keeping inline tags such as {@link Foo bar}
// together as a single word.
func atoms(text string) []string {
	fields := strings.Fields(text)
	var out []string
	for i := 0; i < len(fields); i++ {
		word := fields[i]
		if !strings.Contains(word, "{@") {
			out = append(out, word)
			continue
		}

		depth := strings.Count(word, "{") - strings.Count(word, "}")
		for depth > 0 && i+1 < len(fields) {
			i++
			word += " " + fields[i]
			depth += strings.Count(fields[i], "{") - strings.Count(fields[i], "}")
		}
		out = append(out, word)
	}
	return out
}
