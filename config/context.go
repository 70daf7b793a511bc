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

import "fmt"

// WrapContext identifies the syntactic construct a group of wrappable
// elements came from. Each context has its own [AlignmentPolicy].
type WrapContext uint8

const (
	// ContextNone marks plain sequences. They never take optional breaks.
	ContextNone WrapContext = iota

	MethodInvocationArguments
	MethodDeclarationParameters
	AllocationArguments
	EnumConstantArguments
	AnnotationArguments
	BinaryExpression
	ArrayInitializer
	SelectorChain
	Superclass
	Superinterfaces
	ThrowsClause
	MultipleFields
	EnumConstants
	ConditionalExpression
	Assignment
	TryResources

	numContexts
)

var contextKeys = [numContexts]string{
	MethodInvocationArguments:   "alignment_for_arguments_in_method_invocation",
	MethodDeclarationParameters: "alignment_for_parameters_in_method_declaration",
	AllocationArguments:         "alignment_for_arguments_in_allocation_expression",
	EnumConstantArguments:       "alignment_for_arguments_in_enum_constant",
	AnnotationArguments:         "alignment_for_arguments_in_annotation",
	BinaryExpression:            "alignment_for_binary_expression",
	ArrayInitializer:            "alignment_for_expressions_in_array_initializer",
	SelectorChain:               "alignment_for_selector_in_method_invocation",
	Superclass:                  "alignment_for_superclass_in_type_declaration",
	Superinterfaces:             "alignment_for_superinterfaces_in_type_declaration",
	ThrowsClause:                "alignment_for_throws_clause_in_method_declaration",
	MultipleFields:              "alignment_for_multiple_fields",
	EnumConstants:               "alignment_for_enum_constants",
	ConditionalExpression:       "alignment_for_conditional_expression",
	Assignment:                  "alignment_for_assignment",
	TryResources:                "alignment_for_resources_in_try",
}

// Contexts returns every configurable wrap context.
func Contexts() []WrapContext {
	out := make([]WrapContext, 0, numContexts-1)
	for c := ContextNone + 1; c < numContexts; c++ {
		out = append(out, c)
	}
	return out
}

// Key returns the option key that configures this context's policy.
func (c WrapContext) Key() string {
	if c >= numContexts {
		return ""
	}
	return contextKeys[c]
}

// String implements [fmt.Stringer].
func (c WrapContext) String() string {
	if c == ContextNone {
		return "none"
	}
	if key := c.Key(); key != "" {
		return key[len("alignment_for_"):]
	}
	return fmt.Sprintf("WrapContext(%d)", int(c))
}

func contextByKey(key string) (WrapContext, bool) {
	for c, k := range contextKeys {
		if k != "" && k == key {
			return WrapContext(c), true
		}
	}
	return ContextNone, false
}
