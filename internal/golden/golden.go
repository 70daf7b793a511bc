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

// Package golden runs table-driven tests whose table lives in the file
// system: one file per case, with the expected outputs of each case stored
// next to it.
package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	// The root of the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// An environment variable holding a glob. Cases whose names match it have
	// their outputs rewritten instead of checked.
	Refresh string

	// The file extension (without a dot) of files which define a test case.
	// Each file is a YAML document that is decoded into a [Case].
	Extension string

	// Possible outputs of the test. The expected value of Outputs[n] for the
	// case foo.yaml is stored in foo.yaml.<Outputs[n].Extension>; a missing
	// file means the output is expected to be empty.
	Outputs []Output

	// Test executes one case, returning one string per element of Outputs.
	Test func(t *testing.T, c *Case) []string
}

// Case is a single test case.
type Case struct {
	// The path of the case file, relative to the calling test's directory.
	Path string `yaml:"-"`

	// Free-form settings for the test, such as formatter options.
	Options map[string]any `yaml:"options"`
	// The granularity of Input, if the test cares.
	Kind string `yaml:"kind"`
	// The text to run the test on.
	Input string `yaml:"input"`
}

// StringOptions returns Options with every value converted to a string.
func (c *Case) StringOptions() map[string]string {
	out := make(map[string]string, len(c.Options))
	for k, v := range c.Options {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// Output represents one output of a test case.
type Output struct {
	// The suffix added to the case's file name to find the expected output.
	Extension string

	// The comparison function for this output. May be nil, in which case the
	// values are compared byte for byte.
	Compare Compare
}

// Compare compares two outputs, returning a description of how they
// differ, or the empty string if they match.
type Compare func(got, want string) string

// Run runs every case under c.Root as a subtest of t.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)
	t.Logf("golden: searching for files in %q", root)

	var tests []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			tests = append(tests, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal("golden: error while walking testdata:", err)
	}
	slices.Sort(tests)

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("golden: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range tests {
		name, _ := filepath.Rel(testDir, path)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("golden: error while loading case %q: %v", path, err)
			}
			tc := &Case{Path: name}
			if err := yaml.Unmarshal(data, tc); err != nil {
				t.Fatalf("golden: error while decoding case %q: %v", path, err)
			}

			results := c.Test(t, tc)
			if len(results) != len(c.Outputs) {
				t.Fatalf("golden: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			refresh, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				path := fmt.Sprint(path, ".", output.Extension)
				if refresh {
					if err := write(path, results[i]); err != nil {
						t.Errorf("golden: error while refreshing %q: %v", path, err)
					}
					continue
				}

				want, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("golden: error while loading output file %q: %v", path, err)
					continue
				}
				cmp := output.Compare
				if cmp == nil {
					cmp = Diff
				}
				if diff := cmp(results[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %q:\n%s", path, diff)
				}
			}
		})
	}
}

// write replaces the contents of path, deleting it if text is empty.
func write(path, text string) error {
	if text == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// Diff is the default [Compare]: a colorized unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	added := color.New(color.FgHiGreen, color.Bold)
	removed := color.New(color.FgHiRed, color.Bold)
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("golden: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
