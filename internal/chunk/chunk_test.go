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

package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/chunk"
)

func TestDump(t *testing.T) {
	t.Parallel()

	call := chunk.Seq(
		chunk.Synthetic("f"),
		chunk.Synthetic("("),
		chunk.NewGroup(config.MethodInvocationArguments,
			chunk.Seq(chunk.Synthetic("a"), chunk.Synthetic(",")),
			chunk.Synthetic("b").WithSpace(),
		),
		chunk.Synthetic(")"),
		chunk.Synthetic(";").WithBreak(chunk.Mandatory),
	)
	body := chunk.NewBlock(nil, nil, []*chunk.Chunk{call})

	assert.Equal(t,
		`{|("f" "(" (arguments_in_method_invocation: ("a" ",") _"b") ")" ";"!)|}!`,
		chunk.Dump(body),
	)
	assert.True(t, call.EndsHard())
	assert.True(t, body.IsBraceless())

	var tokens int
	body.Walk(func(c *chunk.Chunk) bool {
		if c.Kind == chunk.Token {
			tokens++
		}
		return true
	})
	assert.Equal(t, 7, tokens)
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, chunk.Seq().IsEmpty())
	assert.True(t, chunk.Seq(chunk.Synthetic("")).IsEmpty())
	assert.False(t, chunk.Seq(chunk.Synthetic("x")).IsEmpty())
	assert.False(t, chunk.NewBlock(chunk.Synthetic("{"), chunk.Synthetic("}"), nil).IsEmpty())
	assert.Nil(t, chunk.NewGroup(config.ContextNone, nil).Children)
}

func TestStartsHard(t *testing.T) {
	t.Parallel()

	c := chunk.Synthetic("// x")
	c.BreakBefore = true
	assert.True(t, chunk.Seq(chunk.Seq(c, chunk.Synthetic("a"))).StartsHard())
	assert.False(t, chunk.Seq(chunk.Synthetic("a"), c).StartsHard())
	assert.False(t, chunk.Seq().StartsHard())
}
