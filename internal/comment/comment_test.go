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

package comment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/blockfmt/internal/comment"
)

var formatted = comment.Options{Format: true, Join: true, IndentRootTags: true, Tabstop: 4}

func render(raw string, opts comment.Options, column, limit int) comment.Rendered {
	return comment.New([]string{raw}, opts).Render(column, limit)
}

// reparse renders lines again, as they would be read back from formatted
// output indented to column.
func reparse(t *testing.T, lines []string, opts comment.Options, column, limit int) {
	t.Helper()
	raw := strings.Join(lines, "\n"+strings.Repeat(" ", column))
	assert.Equal(t, lines, render(raw, opts, column, limit).Lines, "not idempotent")
}

func TestLineComment(t *testing.T) {
	t.Parallel()

	got := render("// short   ", formatted, 10, 30)
	assert.Equal(t, []string{"// short"}, got.Lines)

	got = render("// alpha beta gamma delta", formatted, 10, 30)
	assert.Equal(t, []string{"// alpha beta gamma", "// delta"}, got.Lines)
	assert.True(t, got.Aligned)

	got = render("//alpha beta gamma delta", formatted, 10, 30)
	assert.Equal(t, []string{"//alpha beta gamma", "//delta"}, got.Lines)

	got = render("// alpha beta gamma delta", comment.Options{}, 10, 30)
	assert.Equal(t, []string{"// alpha beta gamma delta"}, got.Lines)

	got = render("// https://example.com/a/very/long/link", formatted, 10, 30)
	assert.Equal(t, []string{"// https://example.com/a/very/long/link"}, got.Lines)
}

func TestLineCommentRun(t *testing.T) {
	t.Parallel()

	c := comment.New([]string{"// one two three four", "// five"}, formatted)
	assert.True(t, c.IsMultiline())
	got := c.Render(0, 15)
	assert.Equal(t, []string{"// one two", "// three four", "// five"}, got.Lines)
}

func TestBlockComment(t *testing.T) {
	t.Parallel()

	got := render("/*x   y*/", formatted, 0, 80)
	assert.Equal(t, []string{"/* x y */"}, got.Lines)

	got = render("/* alpha beta gamma delta */", formatted, 0, 20)
	assert.Equal(t, []string{"/*", " * alpha beta gamma", " * delta", " */"}, got.Lines)
	reparse(t, got.Lines, formatted, 0, 20)

	got = render("/*\n * one\n * two\n *\n * three\n */", formatted, 4, 80)
	assert.Equal(t, []string{"/*", " * one two", " *", " * three", " */"}, got.Lines)
	reparse(t, got.Lines, formatted, 4, 80)
}

func TestBlockCommentKeepsLines(t *testing.T) {
	t.Parallel()

	opts := formatted
	opts.Join = false
	got := render("/*\n * one\n *   two\n */", opts, 0, 80)
	assert.Equal(t, []string{"/*", " * one", " *   two", " */"}, got.Lines)
	reparse(t, got.Lines, opts, 0, 80)
}

func TestHeader(t *testing.T) {
	t.Parallel()

	opts := formatted
	opts.Header = true
	got := render("/*\n * Copyright 2025\n */", opts, 0, 80)
	assert.Equal(t, []string{"/* Copyright 2025 */"}, got.Lines)

	opts.Header = false
	got = render("/*\n * Copyright 2025\n */", opts, 0, 80)
	assert.Equal(t, []string{"/*", " * Copyright 2025", " */"}, got.Lines)
}

func TestDocComment(t *testing.T) {
	t.Parallel()

	raw := "/**\n * The quick brown fox jumps over the lazy dog.\n * @param x the value\n */"
	got := render(raw, formatted, 4, 30)
	assert.Equal(t, []string{
		"/**",
		" * The quick brown fox",
		" * jumps over the lazy",
		" * dog.",
		" * @param x the value",
		" */",
	}, got.Lines)
	reparse(t, got.Lines, formatted, 4, 30)
}

func TestDocCommentRootTags(t *testing.T) {
	t.Parallel()

	raw := "/** @param value the value to store in the cache */"
	got := render(raw, formatted, 0, 30)
	assert.Equal(t, []string{
		"/**",
		" * @param value the value to",
		" *        store in the cache",
		" */",
	}, got.Lines)
	reparse(t, got.Lines, formatted, 0, 30)
}

func TestDocCommentInlineTags(t *testing.T) {
	t.Parallel()

	raw := "/** See {@link Map#put(Object, Object)} for details. */"
	got := render(raw, formatted, 0, 30)
	assert.Equal(t, []string{
		"/**",
		" * See",
		" * {@link Map#put(Object, Object)}",
		" * for details.",
		" */",
	}, got.Lines)
}

func TestDocCommentMarkup(t *testing.T) {
	t.Parallel()

	raw := "/**\n * Items:\n * <ul>\n * <li>one</li>\n * <li>two</li>\n * </ul>\n * <pre>\n *   int x = 1;\n * </pre>\n */"
	got := render(raw, formatted, 0, 80)
	assert.Equal(t, []string{
		"/**",
		" * Items:",
		" * <ul>",
		" *   <li>one</li>",
		" *   <li>two</li>",
		" * </ul>",
		" * <pre>",
		" *   int x = 1;",
		" * </pre>",
		" */",
	}, got.Lines)
	assert.False(t, got.Degraded)
	reparse(t, got.Lines, formatted, 0, 80)
}

func TestDocCommentAdjacentMarkup(t *testing.T) {
	t.Parallel()

	raw := "/** <ol><li>one<ul><li>inner item with long text that wraps around</li></ul></li></ol> */"
	got := render(raw, formatted, 0, 40)
	assert.Equal(t, []string{
		"/**",
		" * <ol>",
		" *   <li>one",
		" *   <ul>",
		" *     <li>inner item with long text",
		" *     that wraps around</li>",
		" *   </ul>",
		" *   </li>",
		" * </ol>",
		" */",
	}, got.Lines)
	reparse(t, got.Lines, formatted, 0, 40)

	raw = "/**\n * Steps:<ol><li>first</li><LI>second</li></ol>\n */"
	got = render(raw, formatted, 0, 80)
	assert.Equal(t, []string{
		"/**",
		" * Steps:",
		" * <ol>",
		" *   <li>first</li>",
		" *   <LI>second</li>",
		" * </ol>",
		" */",
	}, got.Lines)

	got = render("/** Use {@code <ul>} here. */", formatted, 0, 80)
	assert.Equal(t, []string{"/** Use {@code <ul>} here. */"}, got.Lines)
}

func TestDocCommentMismatchedMarkup(t *testing.T) {
	t.Parallel()

	raw := "/**\n * </ul>\n * text\n * </ol>\n */"
	got := render(raw, formatted, 0, 80)
	assert.Equal(t, []string{"/**", " * </ul>", " * text", " * </ol>", " */"}, got.Lines)
}

func TestUnformatted(t *testing.T) {
	t.Parallel()

	got := render("/*\n      * a\n      *  b\n      */", comment.Options{}, 0, 80)
	assert.Equal(t, []string{"/*", " * a", " *  b", " */"}, got.Lines)
	assert.True(t, got.Aligned)

	got = render("/*\n  free form\n    text */", comment.Options{}, 0, 80)
	assert.Equal(t, []string{"/*", "  free form", "    text */"}, got.Lines)
	assert.False(t, got.Aligned)

	got = render("/*- hand formatted */", formatted, 0, 10)
	assert.Equal(t, []string{"/*- hand formatted */"}, got.Lines)
}
