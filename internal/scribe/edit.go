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

package scribe

import (
	"slices"
	"strings"
)

// Edit replaces Length bytes of the input at Offset with Text.
type Edit struct {
	Offset, Length int
	Text           string
}

// End returns the offset just past the replaced bytes.
func (e Edit) End() int {
	return e.Offset + e.Length
}

// Edits returns the smallest edits that turn input into o.Text.
//
// Tokens are never changed by formatting, so only the gaps between them are
// compared; each differing gap becomes one edit, with the prefix and suffix
// it shares with its replacement trimmed off.
func (o *Output) Edits(input string) []Edit {
	var edits []Edit
	for i := 1; i < len(o.anchors); i++ {
		prev, next := o.anchors[i-1], o.anchors[i]
		if next.in < prev.in || next.out < prev.out {
			continue
		}
		before := input[prev.in:next.in]
		after := o.Text[prev.out:next.out]
		if before == after {
			continue
		}

		prefix := commonPrefix(before, after)
		before, after = before[prefix:], after[prefix:]
		suffix := commonSuffix(before, after)
		before, after = before[:len(before)-suffix], after[:len(after)-suffix]
		edits = append(edits, Edit{
			Offset: prev.in + prefix,
			Length: len(before),
			Text:   after,
		})
	}
	return edits
}

// Apply applies edits to text in offset order. An edit that overlaps one
// applied before it, or that runs past the end of text, is skipped; edits
// at the same offset keep their relative order.
func Apply(text string, edits []Edit) string {
	edits = slices.Clone(edits)
	slices.SortStableFunc(edits, func(a, b Edit) int {
		return a.Offset - b.Offset
	})

	var out strings.Builder
	at := 0
	for _, e := range edits {
		if e.Offset < at || e.End() > len(text) {
			continue
		}
		out.WriteString(text[at:e.Offset])
		out.WriteString(e.Text)
		at = e.End()
	}
	out.WriteString(text[at:])
	return out.String()
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return i
		}
	}
	return n
}
