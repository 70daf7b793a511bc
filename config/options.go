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
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/bufbuild/blockfmt/report"
)

const (
	keyIndentChar       = "tabulation.char"
	keyTabSize          = "tabulation.size"
	keyIndentSize       = "indentation.size"
	keyContinuation     = "continuation_indentation"
	keyPageWidth        = "page_width"
	keyLineSeparator    = "line_separator"
	keyJoinWrapped      = "join_wrapped_lines"
	keyWrapOuter        = "wrap_outer_expressions_when_nested"
	keyOnOff            = "use_on_off_tags"
	keyDisablingTag     = "disabling_tag"
	keyEnablingTag      = "enabling_tag"
	keyBlankLines       = "number_of_empty_lines_to_preserve"
	keyAnnotationLine   = "insert_new_line_after_annotation"
	keyLineComments     = "comment.format_line_comments"
	keyBlockComments    = "comment.format_block_comments"
	keyJavadoc          = "comment.format_javadoc_comments"
	keyHeader           = "comment.format_header"
	keyJoinCommentLines = "comment.join_lines_in_comments"
	keyRootTags         = "comment.indent_root_tags"
	keyCommentLength    = "comment.line_length"
)

// option binds an option key to a field of [Config].
type option struct {
	get func(*Config) string
	set func(*Config, string) error
}

func boolOption(field func(*Config) *bool) option {
	return option{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := parseBool(v)
			if err == nil {
				*field(c) = b
			}
			return err
		},
	}
}

func intOption(field func(*Config) *int) option {
	return option{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err == nil {
				*field(c) = n
			}
			return err
		},
	}
}

func stringOption(field func(*Config) *string) option {
	return option{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

var options = map[string]option{
	keyIndentChar: {
		get: func(c *Config) string { return c.IndentChar.String() },
		set: func(c *Config, v string) error {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "tab":
				c.IndentChar = Tab
			case "space":
				c.IndentChar = Space
			case "mixed":
				c.IndentChar = Mixed
			default:
				return strconv.ErrSyntax
			}
			return nil
		},
	},
	keyLineSeparator: {
		get: func(c *Config) string { return c.LineSeparator },
		set: func(c *Config, v string) error {
			switch strings.ToLower(v) {
			case "\n", `\n`, "lf":
				c.LineSeparator = "\n"
			case "\r\n", `\r\n`, "crlf":
				c.LineSeparator = "\r\n"
			case "\r", `\r`, "cr":
				c.LineSeparator = "\r"
			default:
				return strconv.ErrSyntax
			}
			return nil
		},
	},

	keyTabSize:       intOption(func(c *Config) *int { return &c.TabSize }),
	keyIndentSize:    intOption(func(c *Config) *int { return &c.IndentSize }),
	keyContinuation:  intOption(func(c *Config) *int { return &c.ContinuationIndent }),
	keyPageWidth:     intOption(func(c *Config) *int { return &c.PageWidth }),
	keyBlankLines:    intOption(func(c *Config) *int { return &c.BlankLinesToPreserve }),
	keyCommentLength: intOption(func(c *Config) *int { return &c.Comment.LineLength }),

	keyJoinWrapped:      boolOption(func(c *Config) *bool { return &c.JoinWrappedLines }),
	keyWrapOuter:        boolOption(func(c *Config) *bool { return &c.WrapOuterExpressionsWhenNested }),
	keyOnOff:            boolOption(func(c *Config) *bool { return &c.UseOnOffTags }),
	keyAnnotationLine:   boolOption(func(c *Config) *bool { return &c.NewLineAfterAnnotation }),
	keyLineComments:     boolOption(func(c *Config) *bool { return &c.Comment.FormatLineComments }),
	keyBlockComments:    boolOption(func(c *Config) *bool { return &c.Comment.FormatBlockComments }),
	keyJavadoc:          boolOption(func(c *Config) *bool { return &c.Comment.FormatJavadoc }),
	keyHeader:           boolOption(func(c *Config) *bool { return &c.Comment.FormatHeader }),
	keyJoinCommentLines: boolOption(func(c *Config) *bool { return &c.Comment.JoinLines }),
	keyRootTags:         boolOption(func(c *Config) *bool { return &c.Comment.IndentRootTags }),

	keyDisablingTag: stringOption(func(c *Config) *string { return &c.DisablingTag }),
	keyEnablingTag:  stringOption(func(c *Config) *string { return &c.EnablingTag }),
}

// Keys returns every recognized option key, sorted.
func Keys() []string {
	keys := slices.Collect(maps.Keys(options))
	for _, ctx := range Contexts() {
		keys = append(keys, ctx.Key())
	}
	slices.Sort(keys)
	return keys
}

// FromOptions builds a configuration from a flat option map, starting from
// [Defaults].
//
// Unknown keys and unparsable values are reported as warnings and otherwise
// ignored; out-of-range values are clamped (see [Config.Normalize]). This
// function never fails.
func FromOptions(opts map[string]string, r *report.Report) Config {
	return Defaults().Apply(opts, r)
}

// Apply returns a copy of c with the given options overlaid on it.
func (c Config) Apply(opts map[string]string, r *report.Report) Config {
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		value := opts[key]
		if opt, ok := options[key]; ok {
			if err := opt.set(&c, value); err != nil {
				r.Warnf("invalid value %q for %s, keeping %q", value, key, opt.get(&c))
			}
			continue
		}

		if ctx, ok := contextByKey(key); ok {
			p, err := ParsePolicy(value)
			if err != nil {
				r.Warnf("invalid value %q for %s: %v", value, key, err)
				continue
			}
			c.alignment[ctx] = p
			continue
		}

		r.Warnf("unknown option %s", key)
	}
	return c.Normalize(r)
}

// Options converts c back into a flat option map that [FromOptions] turns
// into an equal Config.
func (c Config) Options() map[string]string {
	out := make(map[string]string, len(options)+int(numContexts))
	for key, opt := range options {
		out[key] = opt.get(&c)
	}
	for _, ctx := range Contexts() {
		out[ctx.Key()] = c.Policy(ctx).String()
	}
	return out
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "insert", "yes", "on":
		return true, nil
	case "do not insert", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}
