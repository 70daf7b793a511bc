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

package token

var modifiers = map[string]bool{
	"public": true, "protected": true, "private": true,
	"static": true, "final": true, "abstract": true,
	"native": true, "synchronized": true, "transient": true,
	"volatile": true, "strictfp": true, "default": true,
	"sealed": true,
}

// Words that only act as keywords in some positions.
var contextual = map[string]bool{
	"record": true, "yield": true, "sealed": true, "permits": true, "var": true,
}

var typeKeywords = map[string]bool{
	"class": true, "interface": true, "enum": true, "record": true,
}

var statementKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "do": true, "try": true,
	"switch": true, "return": true, "throw": true, "break": true,
	"continue": true, "assert": true, "yield": true,
}

var reserved = map[string]bool{
	"new": true, "instanceof": true, "this": true, "super": true,
	"else": true, "case": true, "catch": true, "finally": true,
	"extends": true, "implements": true, "throws": true, "import": true,
	"package": true, "true": true, "false": true, "null": true,
	"void": true,
}

// IsModifier returns whether word is a declaration modifier keyword.
func IsModifier(word string) bool {
	return modifiers[word]
}

// IsTypeKeyword returns whether word introduces a type declaration.
func IsTypeKeyword(word string) bool {
	return typeKeywords[word]
}

// IsStatementKeyword returns whether word starts a keyword statement.
func IsStatementKeyword(word string) bool {
	return statementKeywords[word]
}

// IsKeyword returns whether word is reserved, so that it cannot be a name.
func IsKeyword(word string) bool {
	if contextual[word] {
		return false
	}
	return modifiers[word] || typeKeywords[word] || statementKeywords[word] || reserved[word]
}
