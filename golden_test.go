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

package blockfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/blockfmt"
	"github.com/bufbuild/blockfmt/config"
	"github.com/bufbuild/blockfmt/internal/golden"
	"github.com/bufbuild/blockfmt/report"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	corpus := golden.Corpus{
		Root:      "testdata/golden",
		Refresh:   "BLOCKFMT_REFRESH",
		Extension: "yaml",
		Outputs: []golden.Output{
			{Extension: "out"},
			{Extension: "log"},
		},
		Test: func(t *testing.T, c *golden.Case) []string {
			var r report.Report
			cfg := config.FromOptions(c.StringOptions(), &r)

			f := blockfmt.Formatter{Config: cfg}
			if c.Kind == "body" {
				f.Kind = blockfmt.Body
			}
			out, fr := f.Format(c.Input)
			r = append(r, fr...)

			again, _ := f.Format(out)
			assert.Equal(t, out, again, "formatting is not idempotent")
			return []string{out, r.String()}
		},
	}
	corpus.Run(t)
}
