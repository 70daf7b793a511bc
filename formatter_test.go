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

package blockfmt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/blockfmt"
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/width"
)

func spaces(pageWidth int) config.Config {
	cfg := config.Defaults()
	cfg.IndentChar = config.Space
	cfg.PageWidth = pageWidth
	return cfg
}

func TestFormat(t *testing.T) {
	t.Parallel()

	calls := "foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n"
	tests := []struct {
		name string
		cfg  config.Config
		kind blockfmt.Kind
		in   string
		want string
	}{
		{
			name: "compact split",
			cfg:  spaces(30),
			kind: blockfmt.Body,
			in:   calls,
			want: "foo(bar(1, 2, 3, 4),\n        bar(5, 6, 7, 8));\n",
		},
		{
			name: "compact split in method",
			cfg:  spaces(40),
			in:   "class A {\n    void f() {\n        " + calls + "    }\n}\n",
			want: "class A {\n" +
				"    void f() {\n" +
				"        foo(bar(1, 2, 3, 4),\n" +
				"                bar(5, 6, 7, 8));\n" +
				"    }\n" +
				"}\n",
		},
		{
			name: "no alignment",
			cfg:  spaces(30).WithPolicy(config.MethodInvocationArguments, config.NoAlignment),
			kind: blockfmt.Body,
			in:   "foo(bar(1, 2, 3, 4),\n        bar(5, 6, 7, 8));\n",
			want: calls,
		},
		{
			name: "trailing comment",
			cfg:  spaces(40),
			in:   "class A {\n    int x = 1; // this comment is far too long to fit on the line\n}\n",
			want: "class A {\n" +
				"    int x = 1; // this comment is far\n" +
				"               // too long to fit on the\n" +
				"               // line\n" +
				"}\n",
		},
		{
			name: "nested calls",
			cfg:  spaces(40),
			kind: blockfmt.Body,
			in:   "result = compute(alpha, beta, gamma(delta, epsilon, zeta), eta, theta, iota);",
			want: "result = compute(alpha, beta,\n" +
				"        gamma(delta, epsilon, zeta),\n" +
				"        eta, theta, iota);",
		},
		{
			name: "class header",
			cfg:  spaces(40),
			in:   "class Aaaaaaaa extends Bbbbbbb implements Ccccccc, Ddddddd, Eeeeeee {}\n",
			want: "class Aaaaaaaa\n" +
				"        extends Bbbbbbb\n" +
				"        implements Ccccccc, Ddddddd,\n" +
				"        Eeeeeee {}\n",
		},
		{
			name: "class",
			cfg:  config.Defaults(),
			in:   "package  a.b;\nimport java.util.List;\nclass A{int x=1;void f(){if(x>0)y();else{z();}}}\n",
			want: "package a.b;\n" +
				"import java.util.List;\n" +
				"class A {\n" +
				"\tint x = 1;\n" +
				"\tvoid f() {\n" +
				"\t\tif (x > 0)\n" +
				"\t\t\ty();\n" +
				"\t\telse {\n" +
				"\t\t\tz();\n" +
				"\t\t}\n" +
				"\t}\n" +
				"}\n",
		},
		{
			name: "blank lines",
			cfg:  config.Defaults(),
			kind: blockfmt.Body,
			in:   "a();\n\n\n\nb();   \n  c();\n",
			want: "a();\n\nb();\nc();\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := blockfmt.Formatter{Config: tt.cfg, Kind: tt.kind}
			got, r := f.Format(tt.in)
			assert.Empty(t, r.String())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected output (-want +got):\n%s", diff)
			}

			again, _ := f.Format(got)
			assert.Equal(t, got, again, "formatting is not idempotent")
		})
	}
}

func TestZeroConfig(t *testing.T) {
	t.Parallel()

	in := "class A{void f(){foo(bar(1,2,3,4),bar(5,6,7,8));}}\n"
	zero := blockfmt.Formatter{}
	got, r := zero.Format(in)
	assert.Empty(t, r.String())
	defaults := blockfmt.Formatter{Config: config.Defaults()}
	want, _ := defaults.Format(in)
	assert.Equal(t, want, got)

	// A partial config is not merged with the defaults, so no wrap context
	// has a policy that breaks lines.
	partial := blockfmt.Formatter{
		Config: config.Config{IndentChar: config.Space, TabSize: 4, IndentSize: 4, PageWidth: 30},
		Kind:   blockfmt.Body,
	}
	got, _ = partial.Format("foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n")
	assert.Equal(t, "foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n", got)

	partial.Config = config.Defaults()
	partial.Config.IndentChar = config.Space
	partial.Config.PageWidth = 30
	got, _ = partial.Format("foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n")
	assert.Equal(t, "foo(bar(1, 2, 3, 4),\n        bar(5, 6, 7, 8));\n", got)
}

// corpus is a handful of inputs exercising most constructs.
var corpus = []string{
	"class A extends Base implements Runnable, Comparable<A> {\n" +
		"  private static final Map<String, List<Integer>> CACHE = new HashMap<>();\n" +
		"  @Override public void run() { for (int i = 0; i < n; i++) { total += values[i] * weights[i] - offset; } }\n" +
		"  int compareTo(A other) { return other == null ? 1 : Integer.compare(this.size(), other.size()); }\n" +
		"}\n",
	"enum Color { RED, GREEN(\"g\"), BLUE; Color() {} Color(String s) { this.s = s; } String s; }\n",
	"/**\n * Docs for the class that are long enough that they need to be wrapped onto another line.\n */\n" +
		"interface Shape { double area(); default String describe() { return \"shape with area \" + area(); } }\n",
	"class B {\n  void f() {\n    try (var in = open(path); var out = create(target)) { copy(in, out); }\n" +
		"    catch (IOException | RuntimeException e) { log.warn(\"copy failed\", e); }\n" +
		"    finally { cleanup(); }\n" +
		"    switch (kind) { case 1: a(); break; case 2, 3 -> b(); default -> { c(); } }\n" +
		"    list.stream().filter(x -> x.isValid()).map(Item::name).collect(Collectors.toList());\n" +
		"  }\n}\n",
	"class C {\n  int[] values = { 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20 };\n" +
		"  // a comment\n  /* another */ int y; // trailing\n}\n",
}

func configs() map[string]config.Config {
	onePerLine := config.Defaults()
	shifted := config.Defaults()
	for _, ctx := range config.Contexts() {
		onePerLine = onePerLine.WithPolicy(ctx, config.OnePerLineSplit)
		shifted = shifted.WithPolicy(ctx, config.NextLineShiftedSplit|config.IndentByOne)
	}
	narrow := spaces(40)
	narrow.WrapOuterExpressionsWhenNested = false
	keep := config.Defaults()
	keep.JoinWrappedLines = false
	mixed := config.Defaults()
	mixed.IndentChar = config.Mixed
	mixed.IndentSize = 2
	mixed.PageWidth = 60

	return map[string]config.Config{
		"defaults":       config.Defaults(),
		"spaces 40":      spaces(40),
		"narrow":         narrow,
		"one per line":   onePerLine,
		"shifted":        shifted,
		"keep wrapped":   keep,
		"mixed":          mixed,
		"unlimited":      spaces(0),
		"first break":    config.Defaults().WithPolicy(config.MethodInvocationArguments, config.CompactFirstBreakSplit|config.Force),
		"next line each": spaces(50).WithPolicy(config.BinaryExpression, config.NextLinePerLineSplit|config.IndentOnColumn),
	}
}

func TestIdempotent(t *testing.T) {
	t.Parallel()

	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := blockfmt.Formatter{Config: cfg}
			for _, in := range corpus {
				once, _ := f.Format(in)
				twice, _ := f.Format(once)
				assert.Equal(t, once, twice, "input:\n%s", in)
			}
		})
	}
}

func TestWidthBound(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"foo(aaaa, bbbb, cccc, dddd, eeee, ffff, gggg, hhhh, iiii, jjjj);",
		"x = aaaa + bbbb + cccc + dddd + eeee + ffff + gggg + hhhh + iiii;",
		"result = compute(alpha, beta, gamma(delta, epsilon, zeta), eta, theta, iota);",
		"void method(int first, int second, String third, long fourth) { run(first, second); }",
	}
	for _, w := range []int{30, 40, 50} {
		f := blockfmt.Formatter{Config: spaces(w), Kind: blockfmt.Body}
		for _, in := range inputs {
			out, _ := f.Format(in)
			for _, line := range strings.Split(out, "\n") {
				assert.LessOrEqual(t, width.Advance(0, 4, line), w, "line %q of\n%s", line, out)
			}
		}
	}
}

func TestVerbatim(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.UseOnOffTags = true
	cfg.DisablingTag = "off"
	cfg.EnablingTag = "on"
	f := blockfmt.Formatter{Config: cfg, Kind: blockfmt.Body}

	in := "/*off*/ int   x  =  1; /*on*/ int   y  =  2;\n"
	out, r := f.Format(in)
	assert.Empty(t, r.String())
	assert.Equal(t, "/*off*/ int   x  =  1; /*on*/ int y = 2;\n", out)

	in = "a(  );\n// @formatter:off\nint   x =\n   {1,2};  \r\n// @formatter:on\nb(  );\n"
	cfg = config.Defaults()
	cfg.UseOnOffTags = true
	f = blockfmt.Formatter{Config: cfg, Kind: blockfmt.Body}
	out, _ = f.Format(in)
	span := "\nint   x =\n   {1,2};  \r\n// @formatter:on"
	assert.Contains(t, out, span)
	assert.Equal(t, "a();\n// @formatter:off"+span+"\nb();\n", out)

	// An unmatched disabling tag runs to the end of the input.
	in = "a(  );\n// @formatter:off\nb(  );\n"
	out, _ = f.Format(in)
	assert.Equal(t, "a();\n// @formatter:off\nb(  );\n", out)
}

func TestZeroSizes(t *testing.T) {
	t.Parallel()

	in := "class A {\n\tvoid f() {\n\t\tx(1,\n\t\t\t2);\n\t}\n}\n"
	for _, char := range []config.IndentChar{config.Tab, config.Space, config.Mixed} {
		cfg := config.Defaults()
		cfg.IndentChar = char
		cfg.TabSize = 0
		cfg.IndentSize = 0
		cfg.PageWidth = 0
		out, r := blockfmt.Format(in, cfg)
		assert.Empty(t, r.String())
		assert.Equal(t, "class A {\nvoid f() {\nx(1, 2);\n}\n}\n", out, "%v", char)
	}
}

func TestEdits(t *testing.T) {
	t.Parallel()

	f := blockfmt.Formatter{Kind: blockfmt.Body}
	in := "int  a;\nint  b;\n"
	edits, r := f.Edits(in, 0, 7)
	assert.Empty(t, r.String())
	assert.Equal(t, []blockfmt.Edit{{Offset: 4, Length: 1}}, edits)

	edits, _ = f.Edits(in, 0, len(in))
	assert.Len(t, edits, 2)
	assert.Equal(t, "int a;\nint b;\n", blockfmt.ApplyEdits(in, edits))

	for _, in := range corpus {
		f := blockfmt.Formatter{}
		want, _ := f.Format(in)
		edits, _ := f.Edits(in, 0, len(in))
		assert.Equal(t, want, blockfmt.ApplyEdits(in, edits))
	}
}

func TestFormatAll(t *testing.T) {
	t.Parallel()

	docs := []blockfmt.Document{
		{Path: "a.java", Text: "class A {}\n"},
		{Path: "b.java", Text: "class  B{}\n"},
		{Path: "c.java", Text: "class C { void f( ) { } }\n"},
	}
	f := blockfmt.Formatter{MaxParallelism: 2}
	results, err := f.FormatAll(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	assert.Equal(t, "a.java", results[0].Path)
	assert.False(t, results[0].Changed)
	assert.Equal(t, "class B {}\n", results[1].Text)
	assert.True(t, results[1].Changed)
	assert.Equal(t, "class C {\n\tvoid f() {}\n}\n", results[2].Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.FormatAll(ctx, docs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatRecovers(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"class { int }",
		"}}} x = ;",
		"if (",
		"int x = new int[] { 1, 2, ;",
		"@Foo(bar = ) void f(",
		"class A { void f() { /* a */ } /* b */ } // c",
	}
	for _, in := range inputs {
		var out string
		require.NotPanics(t, func() { out, _ = blockfmt.Format(in, config.Defaults()) }, "%q", in)
		assert.Equal(t, strip(in), strip(out), "%q lost or reordered text", in)
	}
}

// strip removes all whitespace.
func strip(text string) string {
	return strings.Join(strings.Fields(text), "")
}
