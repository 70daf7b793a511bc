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

package chunk

import (
	"fmt"
	"strings"
)

// Dump renders a chunk tree in a compact debugging notation:
//
//   - tokens are quoted, with a leading _ when they carry a space;
//   - groups are written (context: elements...);
//   - blocks are written {items...}, with braceless blocks as {|items...|};
//   - a trailing ! or ? marks a mandatory or optional break.
//
// A leading ^ marks a chunk the resolver has put on a new line.
func Dump(c *Chunk) string {
	var b strings.Builder
	dump(&b, c)
	return b.String()
}

func dump(b *strings.Builder, c *Chunk) {
	if c.NewLine {
		b.WriteByte('^')
	}
	if c.Space {
		b.WriteByte('_')
	}

	switch c.Kind {
	case Token:
		fmt.Fprintf(b, "%q", c.Text)
	case Comment:
		fmt.Fprintf(b, "#%q", c.Text)
	case Group:
		b.WriteByte('(')
		if c.Context != 0 {
			fmt.Fprintf(b, "%v:", c.Context)
		}
		for i, child := range c.Children {
			if i > 0 || c.Context != 0 {
				b.WriteByte(' ')
			}
			dump(b, child)
		}
		b.WriteByte(')')
	case Block:
		open, close := "{", "}"
		if c.IsBraceless() {
			open, close = "{|", "|}"
		}
		b.WriteString(open)
		for i, item := range c.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			dump(b, item)
		}
		b.WriteString(close)
	}

	switch c.Break {
	case Mandatory:
		b.WriteByte('!')
	case Optional:
		b.WriteByte('?')
	}
}
