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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/blockfmt/source"
)

func TestLocation(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.java", "class A {\n\tint x;\n}\n")
	assert.Equal(t, source.Location{Offset: 0, Line: 1, Column: 1}, file.Location(0))
	assert.Equal(t, source.Location{Offset: 11, Line: 2, Column: 2}, file.Location(11))
	assert.Equal(t, source.Location{Offset: 18, Line: 3, Column: 1}, file.Location(18))
	assert.Equal(t, 1, file.Line(10))

	assert.Equal(t, 4, file.Column(11, 4))
	assert.Equal(t, 8, file.Column(11, 8))
	assert.Equal(t, 2, file.Newlines(0, 18))
}

func TestSpan(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.java", "class A {}")
	span := file.Span(6, 7)
	assert.Equal(t, "A", span.Text())
	assert.Equal(t, 1, span.Len())
	assert.Equal(t, "a.java:1:7", span.String())

	var zero source.Span
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.Text())
	assert.Equal(t, "<none>", zero.String())

	var nilFile *source.File
	assert.Empty(t, nilFile.Path())
	assert.Equal(t, source.Location{Line: 1, Column: 1}, nilFile.Location(4))
}
