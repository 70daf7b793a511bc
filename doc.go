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

// Package blockfmt formats block-structured, Java-like source code.
//
// Formatting is done in a handful of phases:
//  1. Lex and parse the input into a syntax tree.
//     Also see: syntax.Parse
//  2. Find the regions that formatter on/off tags exclude from formatting.
//  3. Build a tree of chunks: tokens, comments, blocks, and groups of
//     elements that may be wrapped under one alignment policy.
//  4. Decide where lines break and how each line is indented.
//  5. Write the result, copying excluded regions byte for byte.
//
// Only whitespace, line breaks and the layout of comments ever change. The
// formatter never reorders or rewrites code, and formatting its own output
// gives the same output again.
//
// # Configuration
//
// A [config.Config] holds the whole style: indentation, page width, comment
// handling, and an alignment policy per wrap context (argument lists,
// binary expressions, extends clauses and so on). It can be built from a flat
// map of options, or loaded from a YAML or TOML file; see package config.
//
// # Formatter
//
// A [Formatter] formats either a whole compilation unit or a single body (a
// bare list of members or statements). It can return the formatted text, or
// the edits that turn the input into it, optionally limited to a region:
//
//	f := blockfmt.Formatter{Config: config.Defaults()}
//	out, report := f.Format(text)
//
// [Formatter.FormatAll] formats many documents in parallel, bounded by
// MaxParallelism.
package blockfmt
