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

package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/blockfmt/internal/lexer"
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/syntax"
	"github.com/bufbuild/blockfmt/token"
)

func parse(t *testing.T, text string, mode syntax.Mode) (*token.Stream, *syntax.Node, report.Report) {
	t.Helper()
	var r report.Report
	stream := lexer.Lex(source.NewFile("test.java", text), &r)
	root := syntax.Parse(stream, mode, &r)
	assertCovers(t, stream, root)
	return stream, root, r
}

// assertCovers checks that every non-skippable token appears in the tree
// exactly once, in order.
func assertCovers(t *testing.T, stream *token.Stream, root *syntax.Node) {
	t.Helper()
	var want, got []int
	for i, tok := range stream.Tokens {
		if !tok.Kind.IsSkippable() {
			want = append(want, i)
		}
	}
	root.Tokens(func(id int) bool {
		got = append(got, id)
		return true
	})
	assert.Equal(t, want, got, "tree does not cover the token stream")
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text string
		mode       syntax.Mode
		want       string
	}{
		{
			name: "class",
			text: "class A extends B implements C, D { int x = 1, y; void f(int a) throws E { return; } }",
			want: "(Unit (TypeDecl class A (Clause extends (TypeList (Type B))) " +
				"(Clause implements (TypeList (Type C) , (Type D))) " +
				"(TypeBody { (Var (Type int) (Declarators (Declarator x = 1) , (Declarator y)) ;) " +
				"(Method (Type void) f (Params ( (Param (Type int) a) )) (Clause throws (TypeList (Type E))) " +
				"(Block { (Return return ;) })) })))",
		},
		{
			name: "precedence",
			text: "x = a + b * c - d;",
			mode: syntax.Body,
			want: "(Unit (ExprStmt (Assign x (Operator =) (Binary a (Operator +) (Binary b (Operator *) c) (Operator -) d)) ;))",
		},
		{
			name: "generics and shifts",
			text: "List<Map<String, Integer>> m = x >> 2;",
			mode: syntax.Body,
			want: "(Unit (Var (Type List < Map < String , Integer > >) (Declarators (Declarator m = (Binary x (Operator > >) 2))) ;))",
		},
		{
			name: "selector chain",
			text: "list.stream().map(x -> x + 1).collect(toList());",
			mode: syntax.Body,
			want: "(Unit (ExprStmt (Select (Select (Select list . (Call stream (Args ( )))) . " +
				"(Call map (Args ( (Lambda x -> (Binary x (Operator +) 1)) )))) . " +
				"(Call collect (Args ( (Call toList (Args ( ))) )))) ;))",
		},
		{
			name: "casts",
			text: "y = (int) x + (a) - b;",
			mode: syntax.Body,
			want: "(Unit (ExprStmt (Assign y (Operator =) (Binary (Cast ( (Type int) ) x) (Operator +) (Paren ( a )) (Operator -) b)) ;))",
		},
		{
			name: "switch",
			text: "switch (k) { case 1, 2 -> foo(); default -> { bar(); } }",
			mode: syntax.Body,
			want: "(Unit (Switch switch (Paren ( k )) (SwitchBody { " +
				"(Case case 1 , 2 -> (ExprStmt (Call foo (Args ( ))) ;)) " +
				"(Case default -> (Block { (ExprStmt (Call bar (Args ( ))) ;) })) })))",
		},
		{
			name: "enum",
			text: "enum E { A, B(1); int v; }",
			want: "(Unit (TypeDecl enum E (EnumBody { (EnumConstants (EnumConstant A) , (EnumConstant B (Args ( 1 )))) ; " +
				"(Var (Type int) (Declarators (Declarator v)) ;) })))",
		},
		{
			name: "annotations",
			text: "@Override public String toString() { return \"\"; }",
			mode: syntax.Body,
			want: "(Unit (Method (Modifiers (Annotation @ Override) public) (Type String) toString (Params ( )) " +
				"(Block { (Return return \"\" ;) })))",
		},
		{
			name: "if else",
			text: "if (a) b(); else if (c) { d(); } else e();",
			mode: syntax.Body,
			want: "(Unit (If if (Paren ( a )) (ExprStmt (Call b (Args ( ))) ;) else " +
				"(If if (Paren ( c )) (Block { (ExprStmt (Call d (Args ( ))) ;) }) else (ExprStmt (Call e (Args ( ))) ;))))",
		},
		{
			name: "for each",
			text: "for (final String s : names) use(s);",
			mode: syntax.Body,
			want: "(Unit (For for (ForControl ( (Param (Modifiers final) (Type String) s) : names )) " +
				"(ExprStmt (Call use (Args ( s ))) ;)))",
		},
		{
			name: "try",
			text: "try (var in = open()) { read(in); } catch (IOException | RuntimeException e) { } finally { close(); }",
			mode: syntax.Body,
			want: "(Unit (Try try (Resources ( (Var (Type var) (Declarators (Declarator in = (Call open (Args ( )))))) )) " +
				"(Block { (ExprStmt (Call read (Args ( in ))) ;) }) " +
				"(Catch catch ( (Param (Type IOException) | (Type RuntimeException) e) ) (Block { })) " +
				"(Finally finally (Block { (ExprStmt (Call close (Args ( ))) ;) }))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stream, root, r := parse(t, tt.text, tt.mode)
			assert.Empty(t, r.String())
			assert.Equal(t, tt.want, syntax.Dump(stream, root))
		})
	}
}

func TestParseRecovers(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"foo(;\nbar();",
		"class { int }",
		"}}} x = ;",
		"if (",
		"a b c d { e f } g",
		"int x = new int[] { 1, 2, ;",
		"switch (x) { case -> ; default }",
		"@Foo(bar = ) void f(",
		"((((",
		"x -> -> y;",
	}
	for _, text := range inputs {
		for _, mode := range []syntax.Mode{syntax.CompilationUnit, syntax.Body} {
			var r report.Report
			stream := lexer.Lex(source.NewFile("test.java", text), &r)
			var root *syntax.Node
			require.NotPanics(t, func() { root = syntax.Parse(stream, mode, &r) }, "%q", text)
			assertCovers(t, stream, root)
			assert.True(t, r.HasErrors(), "%q", text)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	stream, root, r := parse(t, "  // nothing here\n", syntax.CompilationUnit)
	assert.Empty(t, r)
	assert.Equal(t, "(Unit)", syntax.Dump(stream, root))
	assert.Equal(t, 0, root.Start)
	assert.Equal(t, stream.Len(), root.End)
}
