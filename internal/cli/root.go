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

// Package cli implements the blockfmt command.
//
// With no paths, blockfmt formats standard input to standard output. Given
// files or directories, it formats every source file found, printing the
// results, a diff, or the names of files that would change, or rewriting
// them in place. All commands log through a charmbracelet logger carried in
// the command's context; --verbose (-v) enables debug output.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/blockfmt"
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/report"
)

// stdinPath is the name standard input goes by in diagnostics and diffs.
const stdinPath = "<stdin>"

type flags struct {
	write, diff, list bool
	body              bool
	verbose           bool
	jobs              int
	color             string
	configPath        string
	settings          []string
	excludes          []string
}

// Execute runs the blockfmt command with the process's arguments.
func Execute(ctx context.Context) error {
	return Command().ExecuteContext(ctx)
}

// Command returns the root command.
func Command() *cobra.Command {
	f := new(flags)
	root := &cobra.Command{
		Use:   "blockfmt [flags] [path ...]",
		Short: "Format Java-like source code",
		Long: `blockfmt reformats block-structured source code: it re-indents blocks,
wraps lines that are too long under per-construct alignment policies, and
reflows comments. Code between formatter off and on tags is left alone.

Without paths, blockfmt reads standard input and writes the result to
standard output. Directories are searched recursively for .java files.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if f.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&f.configPath, "config", "", "load formatter options from a YAML or TOML `file`")
	pf.StringArrayVarP(&f.settings, "option", "o", nil, "set a formatter option, as `key=value`; may be repeated")

	fl := root.Flags()
	fl.BoolVarP(&f.write, "write", "w", false, "write results back to the source files")
	fl.BoolVarP(&f.diff, "diff", "d", false, "print a diff of the changes instead of the result")
	fl.BoolVarP(&f.list, "list", "l", false, "list the files whose formatting would change")
	fl.BoolVar(&f.body, "body", false, "treat input as a bare list of members or statements")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "number of files to format in parallel; 0 means one per CPU")
	fl.StringVar(&f.color, "color", "auto", "colorize diffs: auto, always or never")
	fl.StringArrayVar(&f.excludes, "exclude", nil, "skip files and directories matching a `glob`; may be repeated")

	root.AddCommand(optionsCommand(f))
	return root
}

func optionsCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the effective formatter options as YAML",
		Long: `Print every formatter option with the value it would have after applying
--config and --option. The output can be saved and passed back with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg.Options())
			if err != nil {
				return errors.Wrap(err, "failed to encode options")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// config builds the configuration from the --config and --option flags.
func (f *flags) config(l *log.Logger) (config.Config, error) {
	var r report.Report
	cfg := config.Defaults()
	source := "defaults"
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath, cfg, &r); err != nil {
			return cfg, err
		}
		source = f.configPath
		l.Debug("loaded config", "path", f.configPath)
	}

	if len(f.settings) > 0 {
		opts := make(map[string]string, len(f.settings))
		for _, setting := range f.settings {
			key, value, ok := strings.Cut(setting, "=")
			if !ok {
				return cfg, errors.Errorf("invalid option %q, want key=value", setting)
			}
			opts[strings.TrimSpace(key)] = value
		}
		cfg = cfg.Apply(opts, &r)
		source = "--option"
	}
	logReport(l, source, r)
	return cfg, nil
}

func (f *flags) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	l := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := f.config(l)
	if err != nil {
		return err
	}
	colored, err := useColor(f.color, out)
	if err != nil {
		return err
	}

	var docs []blockfmt.Document
	if len(args) == 0 {
		if f.write {
			return errors.New("cannot use --write with standard input")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "failed to read standard input")
		}
		docs = []blockfmt.Document{{Path: stdinPath, Text: string(data)}}
	} else {
		files, err := collect(args, f.excludes)
		if err != nil {
			return err
		}
		if docs, err = load(files); err != nil {
			return err
		}
	}

	formatter := blockfmt.Formatter{Config: cfg, MaxParallelism: f.jobs}
	if f.body {
		formatter.Kind = blockfmt.Body
	}

	start := time.Now()
	results, err := formatter.FormatAll(ctx, docs)
	if err != nil {
		return err
	}
	elapsed(l, start, "formatted", "files", len(results))

	changed := 0
	for i, res := range results {
		logReport(l, res.Path, res.Report)
		if res.Changed {
			changed++
		}

		if f.list && res.Changed {
			fmt.Fprintln(out, res.Path)
		}
		if f.diff && res.Changed {
			if err := writeDiff(out, res.Path, docs[i].Text, res.Text, colored); err != nil {
				return err
			}
		}
		if f.write && res.Changed {
			if err := store(res.Path, res.Text); err != nil {
				return err
			}
			l.Debug("wrote", "path", res.Path)
		}
		if !f.list && !f.diff && !f.write {
			if _, err := io.WriteString(out, res.Text); err != nil {
				return err
			}
		}
	}
	if f.write || f.list || f.diff {
		l.Info("done", "files", len(results), "changed", changed)
	}
	return nil
}
