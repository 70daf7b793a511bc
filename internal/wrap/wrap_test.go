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

package wrap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/build"
	"github.com/bufbuild/blockfmt/internal/chunk"
	"github.com/bufbuild/blockfmt/internal/lexer"
	"github.com/bufbuild/blockfmt/internal/scribe"
	"github.com/bufbuild/blockfmt/internal/verbatim"
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/syntax"
)

// layoutText formats a body with the given configuration.
func layoutText(text string, cfg config.Config) (string, report.Report) {
	var r report.Report
	file := source.NewFile("test.java", text)
	stream := lexer.Lex(file, &r)
	root := syntax.Parse(stream, syntax.Body, &r)
	regions := verbatim.Scan(stream, cfg)
	chunks := build.Build(stream, root, cfg, regions)
	Resolve(chunks, file, cfg, &r)
	return scribe.Write(chunks, file, cfg, regions).Text, r
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	const long = "foo(aaaaaa, bbbbbb, cccccc, dddddd);"
	tests := []struct {
		name   string
		policy config.AlignmentPolicy
		text   string
		want   string
	}{
		{
			name:   "none",
			policy: config.NoAlignment,
			text:   long,
			want:   long,
		},
		{
			name:   "compact",
			policy: config.CompactSplit,
			text:   long,
			want:   "foo(aaaaaa, bbbbbb, cccccc,\n        dddddd);",
		},
		{
			name:   "compact first break",
			policy: config.CompactFirstBreakSplit,
			text:   long,
			want:   "foo(\n        aaaaaa, bbbbbb,\n        cccccc, dddddd);",
		},
		{
			name:   "one per line",
			policy: config.OnePerLineSplit,
			text:   long,
			want:   "foo(\n        aaaaaa,\n        bbbbbb,\n        cccccc,\n        dddddd);",
		},
		{
			name:   "next line shifted",
			policy: config.NextLineShiftedSplit,
			text:   long,
			want:   "foo(\n        aaaaaa,\n            bbbbbb,\n                cccccc,\n                    dddddd);",
		},
		{
			name:   "next line per line",
			policy: config.NextLinePerLineSplit,
			text:   long,
			want:   "foo(aaaaaa,\n        bbbbbb,\n        cccccc,\n        dddddd);",
		},
		{
			name:   "on column",
			policy: config.CompactSplit | config.IndentOnColumn,
			text:   long,
			want:   "foo(aaaaaa, bbbbbb, cccccc,\n    dddddd);",
		},
		{
			name:   "by one",
			policy: config.OnePerLineSplit | config.IndentByOne,
			text:   long,
			want:   "foo(\n    aaaaaa,\n    bbbbbb,\n    cccccc,\n    dddddd);",
		},
		{
			name:   "forced",
			policy: config.CompactSplit | config.Force,
			text:   "foo(a, b, c);",
			want:   "foo(a,\n        b, c);",
		},
		{
			name:   "fits",
			policy: config.OnePerLineSplit,
			text:   "foo(a,\n  b, c);",
			want:   "foo(a, b, c);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			cfg.IndentChar = config.Space
			cfg.PageWidth = 30
			cfg = cfg.WithPolicy(config.MethodInvocationArguments, tt.policy)

			got, r := layoutText(tt.text, cfg)
			assert.Empty(t, r.String())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrapOuter(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.IndentChar = config.Space
	cfg.PageWidth = 30

	text := "foo(aaaa, bar(bbbb, cccc, dddd, eeee, ffff));"
	got, _ := layoutText(text, cfg)
	assert.Equal(t, "foo(aaaa,\n        bar(bbbb, cccc, dddd,\n                eeee, ffff));", got)

	cfg.WrapOuterExpressionsWhenNested = false
	got, _ = layoutText(text, cfg)
	assert.Equal(t, "foo(aaaa, bar(bbbb, cccc,\n        dddd, eeee, ffff));", got)

	// When the inner group cannot keep the outer one on its line, the outer
	// one breaks anyway.
	text = "foo(aaaa, bar(bbbb, cccc, dddd), eeee);"
	got, _ = layoutText(text, cfg)
	assert.Equal(t, "foo(aaaa,\n        bar(bbbb, cccc, dddd),\n        eeee);", got)
}

func TestBraceless(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	got, _ := layoutText("if (a) b(); else if (c) d(); else { e(); }", cfg)
	assert.Equal(t, "if (a)\n\tb();\nelse if (c)\n\td();\nelse {\n\te();\n}", got)

	got, _ = layoutText("while (x) {}", cfg)
	assert.Equal(t, "while (x) {}", got)
}

func TestBudget(t *testing.T) {
	t.Parallel()

	var r report.Report
	l := &layout{cfg: config.Defaults(), report: &r, steps: 11, budget: 10}
	g := chunk.NewGroup(config.MethodInvocationArguments, chunk.Synthetic("a"))

	assert.Equal(t, config.NoAlignment, l.policy(g))
	assert.Equal(t, config.NoAlignment, l.policy(g))
	assert.Equal(t, 1, r.Count(report.Remark))

	l = &layout{cfg: config.Defaults(), budget: 10}
	assert.Equal(t, config.CompactSplit, l.policy(g))
}

func TestItemFails(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.IndentChar = config.Space
	cfg.PageWidth = 20

	// A comment chunk with no parsed comment cannot be rendered.
	broken := &chunk.Chunk{Kind: chunk.Comment, Text: "/* x */", Start: -1, End: -1, Space: true}
	root := chunk.NewBlock(nil, nil, []*chunk.Chunk{
		chunk.Seq(chunk.Synthetic("first();")),
		chunk.Seq(chunk.Synthetic("b"), broken, chunk.Synthetic(";")),
		chunk.Seq(
			chunk.Synthetic("call("),
			chunk.NewGroup(config.MethodInvocationArguments,
				chunk.Seq(chunk.Synthetic("aaaaaa"), chunk.Synthetic(",")),
				chunk.Seq(chunk.Synthetic("bbbbbb"), chunk.Synthetic(",")).WithSpace(),
				chunk.Synthetic("cccccc").WithSpace(),
			),
			chunk.Synthetic(");"),
		),
	})
	root.Indented = false

	var r report.Report
	file := source.NewFile("test.java", "")
	assert.NotPanics(t, func() { Resolve(root, file, cfg, &r) })
	assert.Equal(t, 1, r.Count(report.Remark))
	assert.Contains(t, r.String(), "internal error while wrapping lines")

	got := scribe.Write(root, file, cfg, nil).Text
	assert.Equal(t, "first();\nb /* x */;\ncall(aaaaaa, bbbbbb,\n        cccccc);", got)
}

func TestResolveTerminates(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.IndentChar = config.Space
	cfg.PageWidth = 10
	cfg.WrapOuterExpressionsWhenNested = false

	// Deeply nested calls, each too wide for the page.
	text := "x = "
	for range 40 {
		text += "call(argument, "
	}
	text += "0"
	for range 40 {
		text += ")"
	}
	text += ";"

	assert.NotPanics(t, func() { layoutText(text, cfg) })
}
