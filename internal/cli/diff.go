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
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"
)

// palette returns a color that is used even when the color package would
// otherwise disable it, since the caller has already decided.
func palette(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// useColor decides whether output to w is colorized, given the value of
// the --color flag.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, errors.Errorf("invalid --color value %q, want auto, always or never", mode)
	}
}

// writeDiff writes a unified diff from before to after to w.
func writeDiff(w io.Writer, path, before, after string, colored bool) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path + ".orig",
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to diff %s", path)
	}
	if !colored {
		_, err = io.WriteString(w, diff)
		return err
	}

	var (
		headerColor  = palette(color.Bold)
		hunkColor    = palette(color.FgCyan)
		addedColor   = palette(color.FgGreen)
		removedColor = palette(color.FgRed)
	)
	for _, line := range strings.SplitAfter(diff, "\n") {
		var c *color.Color
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			c = headerColor
		case strings.HasPrefix(line, "@@"):
			c = hunkColor
		case strings.HasPrefix(line, "+"):
			c = addedColor
		case strings.HasPrefix(line, "-"):
			c = removedColor
		}
		if c == nil {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
			continue
		}

		// Color the line but not its line break.
		text, eol := strings.CutSuffix(line, "\n")
		if _, err := io.WriteString(w, c.Sprint(text)); err != nil {
			return err
		}
		if eol {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
