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

// Package width measures how many display columns a piece of source text
// occupies once it has been written out.
//
// Widths are grapheme-aware (via uniseg), so that a wide CJK identifier or
// an emoji in a comment counts for the two columns it actually uses. Tabs are
// expanded to the next tabstop.
package width

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Tabstop normalizes a configured tab size for measurement purposes.
//
// A tab size of zero is legal configuration (it disables visible
// indentation), but a tab must still advance the cursor, so it is measured as
// a single column.
func Tabstop(size int) int {
	return max(size, 1)
}

// String returns the width of text, which must not contain tabs or newlines.
func String(text string) int {
	return uniseg.StringWidth(text)
}

// Advance returns the column reached after writing text starting at column.
//
// If text contains newlines, the result is the column at the end of its last
// line, measured from zero.
func Advance(column, tabstop int, text string) int {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		column, text = 0, text[i+1:]
	}
	tabstop = Tabstop(tabstop)

	for {
		tab := strings.IndexByte(text, '\t')
		if tab < 0 {
			return column + uniseg.StringWidth(strings.TrimSuffix(text, "\r"))
		}

		column += uniseg.StringWidth(text[:tab])
		column += tabstop - column%tabstop
		text = text[tab+1:]
	}
}

// FirstLine returns the width of the first line of text when written at
// column, not counting column itself, and whether text has more lines.
func FirstLine(column, tabstop int, text string) (int, bool) {
	line, _, more := strings.Cut(text, "\n")
	return Advance(column, tabstop, line) - column, more
}
