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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/blockfmt/report"
)

// Load reads an option file and overlays it on base.
//
// The format is chosen by extension: .yaml and .yml files are read as YAML,
// .toml files as TOML. Nested tables are flattened into dotted keys, so
//
//	comment:
//	  format_header: true
//
// is the same as the flat key comment.format_header.
func Load(path string, base Config, r *report.Report) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "failed to read config file %s", path)
	}

	opts, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return base, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return base.Apply(opts, r), nil
}

// Decode decodes option file contents in the format named by ext (".yaml",
// ".yml" or ".toml") into a flat option map.
func Decode(ext string, data []byte) (map[string]string, error) {
	var tree map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Wrap(err, "invalid YAML")
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &tree); err != nil {
			return nil, errors.Wrap(err, "invalid TOML")
		}
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}

	opts := make(map[string]string)
	flatten("", tree, opts)
	return opts, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(key, v, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}
