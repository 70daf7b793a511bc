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

// Package source provides the file and span types that every other phase of
// the formatter uses to talk about the input text.
package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bufbuild/blockfmt/internal/width"
)

// File is a source file being formatted.
//
// It contains additional book-keeping information for resolving offsets into
// line and column numbers. Files are immutable once created.
//
// A nil *File behaves like an empty file with the path name "".
type File struct {
	path, text string

	once sync.Once
	// The index after each \n in text, prefixed with zero. Given a byte
	// offset, a binary search on this slice recovers its line.
	lineIndex []int
}

// Location is a user-displayable location within a source file.
type Location struct {
	// The byte offset for this location.
	Offset int

	// The line and column for this location, 1-indexed. The column is
	// measured in bytes.
	Line, Column int
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's path. It need not be a real filesystem path.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Len returns the length of this file in bytes.
func (f *File) Len() int {
	return len(f.Text())
}

// Line returns the zero-indexed line containing offset.
//
// This operation is O(log n).
func (f *File) Line(offset int) int {
	line, exact := slices.BinarySearch(f.lines(), offset)
	if !exact {
		line--
	}
	return line
}

// Location resolves a byte offset into a [Location].
func (f *File) Location(offset int) Location {
	if f == nil {
		return Location{Offset: 0, Line: 1, Column: 1}
	}
	offset = min(max(offset, 0), len(f.text))
	line := f.Line(offset)
	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: offset - f.lines()[line] + 1,
	}
}

// Column returns the zero-indexed display column of offset, expanding tabs
// to the given tabstop.
func (f *File) Column(offset, tabstop int) int {
	offset = min(max(offset, 0), f.Len())
	start := f.lines()[f.Line(offset)]
	return width.Advance(0, tabstop, f.text[start:offset])
}

// Newlines counts the line breaks in text[start:end].
func (f *File) Newlines(start, end int) int {
	if f == nil || start >= end {
		return 0
	}
	return strings.Count(f.text[start:end], "\n")
}

// Span returns a span of this file.
func (f *File) Span(start, end int) Span {
	return Span{File: f, Start: start, End: end}
}

func (f *File) lines() []int {
	f.once.Do(func() {
		f.lineIndex = append(f.lineIndex, 0)
		for i := range len(f.text) {
			if f.text[i] == '\n' {
				f.lineIndex = append(f.lineIndex, i+1)
			}
		}
	})
	return f.lineIndex
}

// Span is a half-open byte range within a [File].
//
// The zero Span is not associated with any file.
type Span struct {
	*File
	Start, End int
}

// IsZero returns whether this is the zero span.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Text returns the text this span covers.
func (s Span) Text() string {
	if s.IsZero() {
		return ""
	}
	return s.File.Text()[s.Start:s.End]
}

// Len returns the length of this span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	if s.IsZero() {
		return "<none>"
	}
	loc := s.Location(s.Start)
	return fmt.Sprintf("%s:%d:%d", s.Path(), loc.Line, loc.Column)
}
