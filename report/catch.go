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

package report

import (
	"fmt"
	"runtime/debug"

	"github.com/bufbuild/blockfmt/source"
)

// Catch recovers from a panic in a local formatting step, recording it as a
// remark about span, and then calls fallback so that the caller can emit
// something closer to the input instead.
//
// Catch must be called directly by a defer statement:
//
//	defer r.Catch("reflowing comment", span, func() { lines = raw })
//
// A nil report still recovers, but records nothing.
func (r *Report) Catch(step string, span source.Span, fallback func()) {
	panicked := recover()
	if panicked == nil {
		return
	}

	d := r.push(fmt.Errorf("internal error while %s: %v", step, panicked), Remark)
	d.Span = span
	if debugMode {
		d.Notes = append(d.Notes, string(debug.Stack()))
	}
	if fallback != nil {
		fallback()
	}
}
