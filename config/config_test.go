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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/report"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := config.Defaults()
	assert.Equal(t, config.Tab, c.IndentChar)
	assert.Equal(t, 4, c.TabSize)
	assert.Equal(t, 120, c.PageWidth)
	assert.Equal(t, config.CompactSplit, c.Policy(config.MethodInvocationArguments))
	assert.Equal(t, config.NoAlignment, c.Policy(config.AnnotationArguments))
	assert.Equal(t, config.NoAlignment, c.Policy(config.Assignment))
	assert.Equal(t, config.NoAlignment, c.Policy(config.ContextNone))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want config.AlignmentPolicy
		err  bool
	}{
		{text: "compact", want: config.CompactSplit},
		{text: "one_per_line,force", want: config.OnePerLineSplit | config.Force},
		{text: " next_line_shifted , indent_by_one ", want: config.NextLineShiftedSplit | config.IndentByOne},
		{text: "compact,indent_by_one,indent_on_column", want: config.CompactSplit | config.IndentOnColumn},
		{text: "49", want: config.OnePerLineSplit | config.Force},
		{text: "0", want: config.NoAlignment},
		{text: "96", err: true},
		{text: "8", err: true},
		{text: "sideways", err: true},
		{text: "compact,sideways", err: true},
	}

	for _, test := range tests {
		got, err := config.ParsePolicy(test.text)
		if test.err {
			assert.Error(t, err, test.text)
			continue
		}
		require.NoError(t, err, test.text)
		assert.Equal(t, test.want, got, test.text)

		again, err := config.ParsePolicy(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	assert.True(t, (config.CompactSplit | config.Force).IsForced())
	assert.False(t, (config.NoAlignment | config.Force).IsForced())
}

func TestFromOptions(t *testing.T) {
	t.Parallel()

	var r report.Report
	c := config.FromOptions(map[string]string{
		"tabulation.char": "space",
		"indentation.size": "2",
		"page_width":       "40",
		"line_separator":   "crlf",
		"alignment_for_arguments_in_method_invocation": "one_per_line,force",
		"comment.format_header":                         "true",
	}, &r)

	assert.Empty(t, r)
	assert.Equal(t, config.Space, c.IndentChar)
	assert.Equal(t, 2, c.IndentSize)
	assert.Equal(t, 40, c.PageWidth)
	assert.Equal(t, "\r\n", c.LineSeparator)
	assert.True(t, c.Comment.FormatHeader)
	assert.Equal(t, config.OnePerLineSplit|config.Force, c.Policy(config.MethodInvocationArguments))
}

func TestFromOptionsClamps(t *testing.T) {
	t.Parallel()

	var r report.Report
	c := config.FromOptions(map[string]string{
		"tabulation.size":                   "-3",
		"indentation.size":                  "1000",
		"page_width":                        "-1",
		"number_of_empty_lines_to_preserve": "12345",
		"join_wrapped_lines":                "maybe",
		"alignment_for_binary_expression":   "diagonal",
		"frobnicate":                        "true",
	}, &r)

	assert.Equal(t, 0, c.TabSize)
	assert.Equal(t, config.MaxIndentSize, c.IndentSize)
	assert.Equal(t, 0, c.PageWidth)
	assert.Equal(t, config.MaxBlankLines, c.BlankLinesToPreserve)
	assert.True(t, c.JoinWrappedLines)
	assert.Equal(t, config.CompactSplit, c.Policy(config.BinaryExpression))
	assert.Equal(t, 6, r.Count(report.Warning))
	assert.False(t, r.HasErrors())

	assert.Positive(t, c.Width())
	assert.Equal(t, 0, c.IndentColumns(3))
	assert.Empty(t, c.Indentation(3, 0))
}

func TestOptionsRoundTrip(t *testing.T) {
	t.Parallel()

	var r report.Report
	want := config.Defaults().
		WithPolicy(config.SelectorChain, config.NextLinePerLineSplit|config.IndentOnColumn)
	want.IndentChar = config.Mixed
	want.Comment.LineLength = 80

	got := config.FromOptions(want.Options(), &r)
	assert.Empty(t, r)
	assert.Empty(t, cmp.Diff(want.Options(), got.Options()))
	assert.Equal(t, want.Policy(config.SelectorChain), got.Policy(config.SelectorChain))
	assert.Len(t, config.Keys(), len(want.Options()))
}

func TestIndentation(t *testing.T) {
	t.Parallel()

	c := config.Defaults()
	assert.Equal(t, "\t\t  ", c.Indentation(2, 2))
	assert.Equal(t, 8, c.IndentColumns(2))

	c.IndentChar = config.Space
	c.IndentSize = 2
	assert.Equal(t, "    ", c.Indentation(2, 0))

	c.IndentChar = config.Mixed
	c.TabSize = 8
	c.IndentSize = 4
	assert.Equal(t, "\t    ", c.Indentation(3, 0))
	assert.Equal(t, 12, c.IndentColumns(3))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
page_width: 80
comment:
  format_header: true
alignment_for_assignment: compact
`), 0o600))
	tomlPath := filepath.Join(dir, "style.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
"tabulation.char" = "space"
[comment]
line_length = 72
`), 0o600))

	var r report.Report
	c, err := config.Load(yamlPath, config.Defaults(), &r)
	require.NoError(t, err)
	assert.Equal(t, 80, c.PageWidth)
	assert.True(t, c.Comment.FormatHeader)
	assert.Equal(t, config.CompactSplit, c.Policy(config.Assignment))

	c, err = config.Load(tomlPath, c, &r)
	require.NoError(t, err)
	assert.Equal(t, config.Space, c.IndentChar)
	assert.Equal(t, 72, c.Comment.LineLength)
	assert.Equal(t, 80, c.PageWidth)
	assert.Empty(t, r)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"), c, &r)
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = config.Decode(".ini", nil)
	assert.ErrorContains(t, err, "unsupported")
}
