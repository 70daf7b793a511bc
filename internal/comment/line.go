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
)

// renderLines lays out a run of line comments. Each comment that overflows
// is wrapped on its own; comments that fit are left alone.
func (c *Comment) renderLines(column, limit int) Rendered {
	var lines []string
	for _, raw := range c.Raw {
		raw = strings.TrimRight(raw, " \t\r")
		if width.Advance(column, c.Tabstop, raw) <= limit {
			lines = append(lines, raw)
			continue
		}

		// The marker is every leading slash, so that /// comments keep
		// their shape.
		body := strings.TrimLeft(raw, "/")
		marker := raw[:len(raw)-len(body)]
		words := strings.Fields(body)
		if len(words) < 2 {
			lines = append(lines, raw)
			continue
		}

		lead := ""
		if body != "" && (body[0] == ' ' || body[0] == '\t') {
			lead = " "
		}
		prefix := marker + lead
		for _, group := range pack(words, limit-column-width.String(prefix)) {
			lines = append(lines, prefix+strings.Join(group, " "))
		}
	}
	return Rendered{Lines: lines, Aligned: true}
}
