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

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the command with the given arguments and standard input,
// returning what it wrote to standard output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errs bytes.Buffer
	cmd := Command()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errs)
	err := cmd.ExecuteContext(context.Background())
	t.Logf("stderr:\n%s", errs.String())
	return out.String(), err
}

func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	return dir
}

func TestCollect(t *testing.T) {
	dir := tree(t, map[string]string{
		"src/A.java":         "class A {}\n",
		"src/notes.txt":      "not code\n",
		"src/gen/B.java":     "class B {}\n",
		"src/pkg/C.java":     "class C {}\n",
		"src/pkg/C_gen.java": "class D {}\n",
	})
	t.Chdir(dir)

	files, err := collect([]string{"src"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.FromSlash("src/A.java"),
		filepath.FromSlash("src/gen/B.java"),
		filepath.FromSlash("src/pkg/C.java"),
		filepath.FromSlash("src/pkg/C_gen.java"),
	}, files)

	files, err = collect([]string{"src", "src/notes.txt"}, []string{"**/gen", "**/*_gen.java"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.FromSlash("src/A.java"),
		filepath.FromSlash("src/notes.txt"),
		filepath.FromSlash("src/pkg/C.java"),
	}, files)

	_, err = collect([]string{"missing"}, nil)
	require.Error(t, err)
	_, err = collect([]string{"src"}, []string{"[unclosed"})
	require.Error(t, err)
}

func TestStdin(t *testing.T) {
	t.Parallel()

	out, err := run(t, "a(  1,2 );\n", "--body")
	require.NoError(t, err)
	assert.Equal(t, "a(1, 2);\n", out)

	out, err = run(t, "foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n",
		"--body", "-o", "tabulation.char=space", "-o", "page_width=30")
	require.NoError(t, err)
	assert.Equal(t, "foo(bar(1, 2, 3, 4),\n        bar(5, 6, 7, 8));\n", out)

	_, err = run(t, "", "-w")
	require.Error(t, err)
	_, err = run(t, "", "-o", "page_width")
	require.Error(t, err)
	_, err = run(t, "", "--color", "sometimes")
	require.Error(t, err)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"A.java": "class  A{}\n",
		"B.java": "class B {}\n",
	})
	a := filepath.Join(dir, "A.java")

	out, err := run(t, "", a)
	require.NoError(t, err)
	assert.Equal(t, "class A {}\n", out)
	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "class  A{}\n", string(data))

	out, err = run(t, "", "-l", dir)
	require.NoError(t, err)
	assert.Equal(t, a+"\n", out)

	out, err = run(t, "", "-d", "--color=never", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "-class  A{}\n")
	assert.Contains(t, out, "+class A {}\n")
	assert.NotContains(t, out, "B.java")

	out, err = run(t, "", "-d", "--color=always", a)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	out, err = run(t, "", "-w", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err = os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "class A {}\n", string(data))

	out, err = run(t, "", "-l", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"style.yaml": "tabulation:\n  char: space\npage_width: 30\n",
		"style.toml": "page_width = 30\n[tabulation]\nchar = \"space\"\n",
	})
	for _, name := range []string{"style.yaml", "style.toml"} {
		out, err := run(t, "foo(bar(1, 2, 3, 4), bar(5, 6, 7, 8));\n",
			"--body", "--config", filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "foo(bar(1, 2, 3, 4),\n        bar(5, 6, 7, 8));\n", out, name)
	}

	_, err := run(t, "", "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "options", "-o", "page_width=80", "-o", "alignment_for_binary_expression=one_per_line,force")
	require.NoError(t, err)

	var opts map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &opts))
	assert.Equal(t, "80", opts["page_width"])
	assert.Equal(t, "one_per_line,force", opts["alignment_for_binary_expression"])
	assert.Equal(t, "tab", opts["tabulation.char"])

	// The output is itself a valid config file.
	dir := tree(t, map[string]string{"style.yaml": out})
	again, err := run(t, "", "options", "--config", filepath.Join(dir, "style.yaml"))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
