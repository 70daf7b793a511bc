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

// Package token defines the lexical tokens of formatted source.
package token

import (
	"fmt"
	"strings"

	"github.com/bufbuild/blockfmt/source"
)

const (
	Unrecognized Kind = iota // Unrecognized garbage in the input file.

	Space   // Non-comment contiguous whitespace.
	Comment // A single comment.
	Ident   // An identifier or keyword.
	String  // A string, character or text block literal.
	Number  // A numeric literal.
	Punct   // Some punctuation.
)

// Kind identifies what kind of token a particular [Token] is.
type Kind byte

// IsSkippable returns whether this is a token that should be examined during
// syntactic analysis.
func (k Kind) IsSkippable() bool {
	return k == Space || k == Comment
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Unrecognized:
		return "Unrecognized"
	case Space:
		return "Space"
	case Comment:
		return "Comment"
	case Ident:
		return "Ident"
	case String:
		return "String"
	case Number:
		return "Number"
	case Punct:
		return "Punct"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical token: a kind plus a half-open byte range.
type Token struct {
	Kind       Kind
	Start, End int
}

// Stream is the full sequence of tokens lexed from a file, including
// whitespace and comments. Concatenating the text of every token reproduces
// the file exactly.
//
// Tokens are identified by their index within the stream.
type Stream struct {
	*source.File
	Tokens []Token
}

// Push appends a new token to the stream.
func (s *Stream) Push(kind Kind, start, end int) {
	s.Tokens = append(s.Tokens, Token{Kind: kind, Start: start, End: end})
}

// Text returns the text of the token with the given index.
func (s *Stream) Text(id int) string {
	tok := s.Tokens[id]
	return s.File.Text()[tok.Start:tok.End]
}

// Span returns the span of the token with the given index.
func (s *Stream) Span(id int) source.Span {
	tok := s.Tokens[id]
	return s.File.Span(tok.Start, tok.End)
}

// Is returns whether the token with the given index is a non-skippable token
// with exactly the given text.
func (s *Stream) Is(id int, text string) bool {
	if id < 0 || id >= len(s.Tokens) || s.Tokens[id].Kind.IsSkippable() {
		return false
	}
	return s.Text(id) == text
}

// CommentStyle classifies comment text.
type CommentStyle byte

const (
	NotComment CommentStyle = iota
	LineComment
	BlockComment
	DocComment
)

// Style returns the style of a comment token's text.
func Style(text string) CommentStyle {
	switch {
	case strings.HasPrefix(text, "//"):
		return LineComment
	case strings.HasPrefix(text, "/**") && text != "/**/":
		return DocComment
	case strings.HasPrefix(text, "/*"):
		return BlockComment
	default:
		return NotComment
	}
}
