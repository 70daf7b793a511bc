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

package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/blockfmt/internal/lexer"
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/token"
)

type lexed struct {
	kind token.Kind
	text string
}

func lex(t *testing.T, text string) ([]lexed, report.Report) {
	t.Helper()

	var r report.Report
	stream := lexer.Lex(source.NewFile("test.java", text), &r)

	var out []lexed
	var joined strings.Builder
	for i, tok := range stream.Tokens {
		out = append(out, lexed{tok.Kind, stream.Text(i)})
		joined.WriteString(stream.Text(i))
	}
	require.Equal(t, text, joined.String(), "token stream must be lossless")
	return out, r
}

func TestLex(t *testing.T) {
	t.Parallel()

	toks, r := lex(t, "int x = 0x1F; // done\n")
	assert.Empty(t, r)
	assert.Equal(t, []lexed{
		{token.Ident, "int"},
		{token.Space, " "},
		{token.Ident, "x"},
		{token.Space, " "},
		{token.Punct, "="},
		{token.Space, " "},
		{token.Number, "0x1F"},
		{token.Punct, ";"},
		{token.Space, " "},
		{token.Comment, "// done"},
		{token.Space, "\n"},
	}, toks)
}

func TestLexOperators(t *testing.T) {
	t.Parallel()

	toks, _ := lex(t, "a>>=b...c->d::e<<f!=g")
	var puncts []string
	for _, tok := range toks {
		if tok.kind == token.Punct {
			puncts = append(puncts, tok.text)
		}
	}
	assert.Equal(t, []string{">", ">", "=", "...", "->", "::", "<<", "!="}, puncts)
}

func TestLexLiterals(t *testing.T) {
	t.Parallel()

	toks, r := lex(t, `"a\"b" 'c' """
text
""" 1.5e3f .5 /** doc */`)
	assert.Empty(t, r)

	var kinds []token.Kind
	for _, tok := range toks {
		if tok.kind != token.Space {
			kinds = append(kinds, tok.kind)
		}
	}
	assert.Equal(t, []token.Kind{
		token.String, token.String, token.String,
		token.Number, token.Number, token.Comment,
	}, kinds)
}

func TestLexRecovers(t *testing.T) {
	t.Parallel()

	toks, r := lex(t, "a # /* open")
	assert.Equal(t, lexed{token.Unrecognized, "#"}, toks[2])
	assert.Equal(t, lexed{token.Comment, "/* open"}, toks[4])
	assert.Equal(t, 2, r.Count(report.Error))

	toks, r = lex(t, `s = "open`)
	assert.Equal(t, lexed{token.String, `"open`}, toks[len(toks)-1])
	assert.True(t, r.HasErrors())
}
