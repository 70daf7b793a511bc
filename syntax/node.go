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

// Package syntax parses a token stream into the structural node tree that
// the formatter walks.
//
// The tree is concrete: every non-skippable token of the input appears in it
// exactly once, as a [Token] node, in source order. Composite nodes only
// group tokens; they never drop or synthesize any. This lets the formatter
// re-emit the input faithfully even where the parser had to give up and
// produce a [Raw] node.
package syntax

import (
	"fmt"
	"strings"

	"github.com/bufbuild/blockfmt/token"
)

const (
	Invalid Kind = iota
	Token        // A single token; Node.Tok is its index in the stream.

	Unit      // A compilation unit or a bare body.
	Package   // package a.b;
	Import    // import a.b.C;
	TypeDecl  // class, interface, enum, record or @interface declaration.
	Modifiers // Annotations and modifier keywords before a declaration.

	Annotation     // @Name or @Name(args)
	AnnotationArgs // The parenthesized arguments of an annotation.
	Pair           // name = value, inside annotation arguments.

	Clause   // extends, implements, permits or throws, with its TypeList.
	TypeList // A comma-separated list of types.
	TypeBody // The braced members of a class, interface or record.
	EnumBody
	EnumConstants // The constant list of an enum, with its commas.
	EnumConstant
	Initializer // An instance or static initializer block.
	Method      // A method or constructor.
	Params      // A parenthesized parameter list.
	Param       // A parameter, resource-less catch parameter, or type pattern.
	Var         // A field or local variable declaration.
	Declarators // Comma-separated declarators of a Var.
	Declarator  // name = init
	Type        // A type, as a flat run of tokens.

	Block
	If
	While
	Do
	For
	ForControl // The parenthesized header of a for statement.
	Try
	Resources
	Catch
	Finally
	Switch
	SwitchBody
	Case
	Return
	Throw
	Jump // break or continue.
	Yield
	Assert
	Synchronized
	Labeled
	ExprStmt
	Empty
	Raw // Tokens the parser could not make sense of.

	Binary      // A flattened chain of operands at one precedence level.
	Operator    // A binary or assignment operator, possibly glued from several tokens.
	Assign      // lhs op rhs
	Conditional // cond ? a : b
	Unary
	Postfix
	Cast
	Paren
	Call      // name(args)
	Args      // A parenthesized argument list.
	Select    // operand.member
	Index     // operand[index]
	New       // Instance or array creation.
	ArrayInit // { a, b }
	Lambda
	MethodRef // operand::name
)

var kindNames = [...]string{
	Invalid: "Invalid", Token: "Token",
	Unit: "Unit", Package: "Package", Import: "Import", TypeDecl: "TypeDecl",
	Modifiers: "Modifiers", Annotation: "Annotation", AnnotationArgs: "AnnotationArgs",
	Pair: "Pair", Clause: "Clause", TypeList: "TypeList", TypeBody: "TypeBody",
	EnumBody: "EnumBody", EnumConstants: "EnumConstants", EnumConstant: "EnumConstant",
	Initializer: "Initializer", Method: "Method", Params: "Params", Param: "Param",
	Var: "Var", Declarators: "Declarators", Declarator: "Declarator", Type: "Type",
	Block: "Block", If: "If", While: "While", Do: "Do", For: "For",
	ForControl: "ForControl", Try: "Try", Resources: "Resources", Catch: "Catch",
	Finally: "Finally", Switch: "Switch", SwitchBody: "SwitchBody", Case: "Case",
	Return: "Return", Throw: "Throw", Jump: "Jump", Yield: "Yield", Assert: "Assert",
	Synchronized: "Synchronized", Labeled: "Labeled", ExprStmt: "ExprStmt",
	Empty: "Empty", Raw: "Raw", Binary: "Binary", Operator: "Operator",
	Assign: "Assign", Conditional: "Conditional", Unary: "Unary", Postfix: "Postfix",
	Cast: "Cast", Paren: "Paren", Call: "Call", Args: "Args", Select: "Select",
	Index: "Index", New: "New", ArrayInit: "ArrayInit", Lambda: "Lambda",
	MethodRef: "MethodRef",
}

// Kind is the kind of a [Node].
type Kind uint8

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a node of the syntax tree.
type Node struct {
	Kind Kind
	// The byte range covered by this node's tokens.
	Start, End int
	// For Token nodes, the index of the token in the stream. -1 otherwise.
	Tok int
	// Children in source order.
	Children []*Node
}

// IsToken returns whether n is a token node with the given text.
func (n *Node) IsToken(s *token.Stream, text string) bool {
	return n != nil && n.Kind == Token && s.Text(n.Tok) == text
}

// Text returns the source text covered by n.
func (n *Node) Text(s *token.Stream) string {
	if n == nil {
		return ""
	}
	return s.File.Text()[n.Start:n.End]
}

// First returns the first child of n of the given kind, or nil.
func (n *Node) First(kind Kind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// Tokens calls yield on every token index below n, in order.
func (n *Node) Tokens(yield func(int) bool) bool {
	if n.Kind == Token {
		return yield(n.Tok)
	}
	for _, child := range n.Children {
		if !child.Tokens(yield) {
			return false
		}
	}
	return true
}

// FirstToken returns the index of the first token below n, or -1.
func (n *Node) FirstToken() int {
	first := -1
	n.Tokens(func(id int) bool {
		first = id
		return false
	})
	return first
}

// Dump renders n as an S-expression, for debugging and tests. Token nodes
// are written as their text.
func Dump(s *token.Stream, n *Node) string {
	var b strings.Builder
	dump(&b, s, n)
	return b.String()
}

func dump(b *strings.Builder, s *token.Stream, n *Node) {
	if n.Kind == Token {
		b.WriteString(s.Text(n.Tok))
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	for _, child := range n.Children {
		b.WriteByte(' ')
		dump(b, s, child)
	}
	b.WriteByte(')')
}

// newNode builds a node from its children. Missing and empty children are
// dropped.
func newNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Tok: -1, Start: -1, End: -1}
	for _, child := range children {
		if child == nil || child.Start < 0 {
			continue
		}
		if n.Start < 0 {
			n.Start = child.Start
		}
		n.End = child.End
		n.Children = append(n.Children, child)
	}
	return n
}
