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

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// AlignmentPolicy describes how a group of wrappable elements may be split
// across lines.
//
// A policy is a bitset: one split strategy (the bits under splitMask), an
// optional [Force] bit and an optional indentation mode. The encoding matches
// the numeric values accepted in option maps.
type AlignmentPolicy uint8

const (
	// NoAlignment never introduces optional breaks at the group's level.
	NoAlignment AlignmentPolicy = 0

	// Force splits the group even when it would fit on one line.
	Force AlignmentPolicy = 1
	// IndentOnColumn aligns wrapped elements to the column the group starts
	// at, instead of using the continuation indentation.
	IndentOnColumn AlignmentPolicy = 2
	// IndentByOne indents wrapped elements by one level instead of by the
	// continuation indentation.
	IndentByOne AlignmentPolicy = 4

	// CompactSplit keeps elements on the current line while they fit and
	// breaks before the first one that does not.
	CompactSplit AlignmentPolicy = 16
	// CompactFirstBreakSplit breaks before the first element, then behaves
	// like CompactSplit.
	CompactFirstBreakSplit AlignmentPolicy = 32
	// OnePerLineSplit breaks before every element.
	OnePerLineSplit AlignmentPolicy = 48
	// NextLineShiftedSplit breaks before every element, indenting each one
	// level deeper than the previous.
	NextLineShiftedSplit AlignmentPolicy = 64
	// NextLinePerLineSplit keeps the first element on the current line and
	// breaks before every later element.
	NextLinePerLineSplit AlignmentPolicy = 80

	splitMask  AlignmentPolicy = 0x70
	indentMask                 = IndentOnColumn | IndentByOne
)

var splitNames = []struct {
	split AlignmentPolicy
	name  string
}{
	{NoAlignment, "no_alignment"},
	{CompactSplit, "compact"},
	{CompactFirstBreakSplit, "compact_first_break"},
	{OnePerLineSplit, "one_per_line"},
	{NextLineShiftedSplit, "next_line_shifted"},
	{NextLinePerLineSplit, "next_line_per_line"},
}

// Split returns the split strategy of this policy, without modifier bits.
func (p AlignmentPolicy) Split() AlignmentPolicy {
	return p & splitMask
}

// IsForced returns whether this policy splits even when the group fits.
func (p AlignmentPolicy) IsForced() bool {
	return p&Force != 0 && p.Split() != NoAlignment
}

// Indent returns the indentation mode bits of this policy: zero,
// [IndentOnColumn] or [IndentByOne].
func (p AlignmentPolicy) Indent() AlignmentPolicy {
	if p&IndentOnColumn != 0 {
		return IndentOnColumn
	}
	return p & IndentByOne
}

// String implements [fmt.Stringer], producing the form accepted by
// [ParsePolicy].
func (p AlignmentPolicy) String() string {
	name := fmt.Sprintf("split(%d)", int(p.Split()))
	for _, sn := range splitNames {
		if sn.split == p.Split() {
			name = sn.name
			break
		}
	}

	var b strings.Builder
	b.WriteString(name)
	if p&Force != 0 {
		b.WriteString(",force")
	}
	switch p.Indent() {
	case IndentOnColumn:
		b.WriteString(",indent_on_column")
	case IndentByOne:
		b.WriteString(",indent_by_one")
	}
	return b.String()
}

// ParsePolicy parses a policy, either as a comma-separated list of a split
// name and modifiers (such as "compact,force") or as its numeric encoding.
func ParsePolicy(text string) (AlignmentPolicy, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseUint(text, 10, 8); err == nil {
		p := AlignmentPolicy(n)
		if p&^(splitMask|Force|indentMask) != 0 || p.Split() > NextLinePerLineSplit {
			return 0, fmt.Errorf("invalid alignment policy encoding %d", n)
		}
		return p, nil
	}

	var p AlignmentPolicy
	for i, part := range strings.Split(text, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if i == 0 {
			found := false
			for _, sn := range splitNames {
				if sn.name == part {
					p, found = sn.split, true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("unknown alignment policy %q", part)
			}
			continue
		}

		switch part {
		case "force":
			p |= Force
		case "indent_on_column":
			p = p&^indentMask | IndentOnColumn
		case "indent_by_one":
			p = p&^indentMask | IndentByOne
		case "indent_default":
			p &^= indentMask
		default:
			return 0, fmt.Errorf("unknown alignment modifier %q", part)
		}
	}
	return p, nil
}
