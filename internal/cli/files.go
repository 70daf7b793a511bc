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
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/bufbuild/blockfmt"
)

// sourceExt is the extension of the files picked up when walking a
// directory. Files named explicitly are formatted whatever their extension.
const sourceExt = ".java"

// collect expands paths into the list of files to format. Directories are
// walked recursively; files and directories matching any of the exclude
// globs are skipped.
func collect(paths, excludes []string) ([]string, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	excluded := func(path string) bool {
		path = filepath.ToSlash(filepath.Clean(path))
		for _, pattern := range excludes {
			if ok, _ := doublestar.Match(pattern, path); ok {
				return true
			}
		}
		return false
	}

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot format %s", root)
		}
		if !info.IsDir() {
			if !excluded(root) {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if excluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && filepath.Ext(path) == sourceExt {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", root)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// load reads every file into a document.
func load(files []string) ([]blockfmt.Document, error) {
	docs := make([]blockfmt.Document, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		docs = append(docs, blockfmt.Document{Path: path, Text: string(data)})
	}
	return docs, nil
}

// store overwrites path with text, keeping its permissions.
func store(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
