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

package blockfmt

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/build"
	"github.com/bufbuild/blockfmt/internal/lexer"
	"github.com/bufbuild/blockfmt/internal/scribe"
	"github.com/bufbuild/blockfmt/internal/verbatim"
	"github.com/bufbuild/blockfmt/internal/wrap"
	"github.com/bufbuild/blockfmt/report"
	"github.com/bufbuild/blockfmt/source"
	"github.com/bufbuild/blockfmt/syntax"
)

const (
	// CompilationUnit formats a whole file: package, imports and types.
	CompilationUnit Kind = iota
	// Body formats a bare list of members and statements, such as the body
	// of a single declaration.
	Body
)

// Kind is the granularity of the text given to a [Formatter].
type Kind uint8

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case CompilationUnit:
		return "compilation unit"
	case Body:
		return "body"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Edit replaces Length bytes of the input at Offset with Text.
type Edit = scribe.Edit

// Formatter formats source text.
//
// A Formatter is immutable once in use and may be shared between
// goroutines.
type Formatter struct {
	// The style to format with. The zero value means [config.Defaults].
	// Any other value is used as given: fields left zero are not filled in
	// from the defaults, and every wrap context it does not set has
	// [config.NoAlignment]. To change a few settings, start from
	// config.Defaults() and set fields or call [config.Config.WithPolicy].
	// Out of range values are clamped, with a warning in the report.
	Config config.Config
	// What the text given to the formatter contains.
	Kind Kind
	// The maximum parallelism to use in [Formatter.FormatAll]. If unspecified
	// or set to a non-positive value, then
	// min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
}

// Format formats text.
//
// Formatting never fails: text that cannot be parsed is formatted as well as
// possible, and the problems are recorded in the returned report. If
// formatting breaks down altogether, text is returned unchanged.
func (f *Formatter) Format(text string) (string, report.Report) {
	out, r := f.run("", text)
	return out.Text, r
}

// Edits formats text and returns the edits that fall within the given
// region. The edits are the same as those of formatting the whole of text,
// restricted to the ones that touch [offset, offset+length).
func (f *Formatter) Edits(text string, offset, length int) ([]Edit, report.Report) {
	out, r := f.run("", text)
	end := offset + max(length, 0)

	var edits []Edit
	for _, e := range out.Edits(text) {
		if e.Offset <= end && e.End() >= offset {
			edits = append(edits, e)
		}
	}
	return edits, r
}

// ApplyEdits applies edits to text in offset order. An edit that overlaps
// one applied before it is skipped.
func ApplyEdits(text string, edits []Edit) string {
	return scribe.Apply(text, edits)
}

// Format formats a compilation unit with the given configuration.
func Format(text string, cfg config.Config) (string, report.Report) {
	f := &Formatter{Config: cfg}
	return f.Format(text)
}

// Document is one input to [Formatter.FormatAll].
type Document struct {
	// A name for the document, used in diagnostics.
	Path string
	Text string
}

// Result is the result of formatting a [Document].
type Result struct {
	Path   string
	Text   string
	Report report.Report
	// Whether Text differs from the document's text.
	Changed bool
}

// FormatAll formats many documents in parallel, one document per task.
//
// The only error returned is that of ctx, if it expires before every
// document is formatted.
func (f *Formatter) FormatAll(ctx context.Context, docs []Document) ([]Result, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	par := f.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}
	sema := semaphore.NewWeighted(int64(par))

	results := make([]Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		if err := sema.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sema.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			out, r := f.run(doc.Path, doc.Text)
			results[i] = Result{
				Path:    doc.Path,
				Text:    out.Text,
				Report:  r,
				Changed: out.Text != doc.Text,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// run runs the whole pipeline over one document.
func (f *Formatter) run(path, text string) (out *scribe.Output, r report.Report) {
	cfg := f.Config
	if cfg == (config.Config{}) {
		cfg = config.Defaults()
	}
	cfg = cfg.Normalize(&r)

	defer r.Catch("formatting", source.Span{}, func() {
		out = &scribe.Output{Text: text}
	})

	file := source.NewFile(path, text)
	stream := lexer.Lex(file, &r)
	root := syntax.Parse(stream, syntax.Mode(f.Kind), &r)
	regions := verbatim.Scan(stream, cfg)
	chunks := build.Build(stream, root, cfg, regions)
	wrap.Resolve(chunks, file, cfg, &r)
	return scribe.Write(chunks, file, cfg, regions), r
}
