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

// Package lexer turns source text into a lossless [token.Stream].
package lexer

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/token"
)

// Rules are tried in order and the first match wins, so longer forms must
// come before their prefixes: comments before the "/" operator, text blocks
// before strings, and numbers before the "." operator.
//
// Closing angle brackets are always lexed one at a time; the parser glues
// adjacent ones back into shift operators where needed.
var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `[ \t\r\n\f]+`},
	{Name: "LineComment", Pattern: `//[^\r\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "OpenComment", Pattern: `/\*(?s:.*)`},
	{Name: "TextBlock", Pattern: `"""(?s:.*?)"""`},
	{Name: "String", Pattern: `"(?:[^"\\\r\n]|\\.)*"?`},
	{Name: "Char", Pattern: `'(?:[^'\\\r\n]|\\.)*'?`},
	{Name: "Number", Pattern: `(?:0[xX][0-9a-fA-F_]+|0[bB][01_]+|(?:\d[\d_]*(?:\.[\d_]*)?|\.\d[\d_]*)(?:[eE][+-]?\d+)?)[lLfFdD]?`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Punct", Pattern: `\.\.\.|->|::|\+\+|--|&&|\|\||<<=|<<|[-+*/%&|^!=<]=|[(){}\[\];,.@=<>!~?:+\-*/&|^%]`},
	{Name: "Unrecognized", Pattern: `(?s:.)`},
})

var kinds = func() map[lexer.TokenType]token.Kind {
	names := map[string]token.Kind{
		"Space":        token.Space,
		"LineComment":  token.Comment,
		"BlockComment": token.Comment,
		"OpenComment":  token.Comment,
		"TextBlock":    token.String,
		"String":       token.String,
		"Char":         token.String,
		"Number":       token.Number,
		"Ident":        token.Ident,
		"Punct":        token.Punct,
		"Unrecognized": token.Unrecognized,
	}

	kinds := make(map[lexer.TokenType]token.Kind)
	for name, tt := range definition.Symbols() {
		if kind, ok := names[name]; ok {
			kinds[tt] = kind
		}
	}
	return kinds
}()

// Lex lexes file into a token stream.
//
// Lexing never fails: text that no rule recognizes becomes an
// [token.Unrecognized] token, and unterminated literals and comments are
// diagnosed but still produce tokens.
func Lex(file *source.File, r *report.Report) *token.Stream {
	stream := &token.Stream{File: file}
	text := file.Text()
	defer r.Catch("lexing", file.Span(0, len(text)), func() {
		stream.Tokens = []token.Token{{Kind: token.Unrecognized, End: len(text)}}
	})

	lex, err := definition.LexString(file.Path(), text)
	if err == nil {
		var toks []lexer.Token
		toks, err = lexer.ConsumeAll(lex)
		if err == nil {
			push(stream, toks, r)
			return stream
		}
	}

	r.Errorf("could not lex input: %v", err).With(report.At(file.Span(0, len(text))))
	stream.Tokens = nil
	if text != "" {
		stream.Push(token.Unrecognized, 0, len(text))
	}
	return stream
}

func push(stream *token.Stream, toks []lexer.Token, r *report.Report) {
	text := stream.File.Text()
	var cursor int
	for _, tok := range toks {
		if tok.EOF() {
			break
		}

		start := tok.Pos.Offset
		end := start + len(tok.Value)
		if start != cursor {
			// The rule table covers every byte; a gap means the offsets
			// reported by the lexer cannot be trusted.
			panic("lexer skipped input")
		}
		cursor = end

		kind := kinds[tok.Type]
		stream.Push(kind, start, end)

		value := tok.Value
		switch {
		case kind == token.Unrecognized:
			r.Errorf("unrecognized character %q", value).With(report.At(stream.File.Span(start, end)))
		case kind == token.Comment && token.Style(value) != token.LineComment && !closed(value, "*/", 2):
			r.Errorf("unterminated block comment").With(report.At(stream.File.Span(start, end)))
		case kind == token.String && !closed(value, value[:1], 1):
			r.Errorf("unterminated literal").With(report.At(stream.File.Span(start, end)))
		}
	}

	if cursor != len(text) {
		panic("lexer stopped before end of input")
	}
}

// closed returns whether a delimited token of at least min+len(delim) bytes
// ends with delim.
func closed(value, delim string, minLen int) bool {
	if len(value) < minLen+len(delim) {
		return false
	}
	return value[len(value)-len(delim):] == delim
}
