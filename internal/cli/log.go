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
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bufbuild/blockfmt/report"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or the default
// logger if there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logReport logs every diagnostic in r. Problems with the input are
// warnings, since the formatter recovers from all of them.
func logReport(l *log.Logger, path string, r report.Report) {
	for _, d := range r {
		msg := d.Err.Error()
		kv := []any{"path", path}
		if !d.Span.IsZero() {
			kv = append(kv, "at", d.Span.String())
		}
		for _, note := range d.Notes {
			kv = append(kv, "note", note)
		}

		switch d.Level {
		case report.Error, report.Warning:
			l.Warn(msg, kv...)
		default:
			l.Debug(msg, kv...)
		}
	}
}

// elapsed logs msg at debug level with the time since start.
func elapsed(l *log.Logger, start time.Time, msg string, kv ...any) {
	kv = append(kv, "took", time.Since(start).Round(time.Millisecond))
	l.Debug(msg, kv...)
}
