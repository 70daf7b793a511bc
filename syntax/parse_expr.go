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

package syntax

import (
	"github.com/bufbuild/blockfmt/token"
)

// Binding power of binary operators. Operators at the same level are
// flattened into a single Binary node.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
}

// Tokens that primitive casts apply to without ambiguity.
var primitives = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true, "char": true,
	"float": true, "double": true, "boolean": true,
}

// peekOp returns the operator at the cursor and the number of tokens it
// spans. Closing angle brackets are lexed singly, so shifts and comparisons
// that start with > are glued back together here.
func (p *parser) peekOp() (string, int) {
	text := p.text(0)
	if text != ">" {
		if p.kind(0) == token.Punct || text == "instanceof" {
			return text, 1
		}
		return "", 0
	}

	n := 1
	for n < 3 && p.text(n) == ">" && p.adjacent(n-1) {
		n++
	}
	op := text
	for range n - 1 {
		op += ">"
	}
	if p.text(n) == "=" && p.adjacent(n-1) {
		return op + "=", n + 1
	}
	return op, n
}

func (p *parser) parseOp(n int) *Node {
	children := make([]*Node, 0, n)
	for range n {
		children = append(children, p.next())
	}
	return newNode(Operator, children...)
}

// parseExpr parses an expression, including assignments and lambdas.
func (p *parser) parseExpr() *Node {
	lhs := p.parseTernary()
	if lhs == nil {
		return nil
	}
	if op, n := p.peekOp(); assignOps[op] {
		opNode := p.parseOp(n)
		var rhs *Node
		if p.at("{") {
			rhs = p.parseArrayInit(p.parseExpr)
		} else {
			rhs = p.parseExpr()
		}
		return newNode(Assign, lhs, opNode, rhs)
	}
	return lhs
}

// parseTernary parses a conditional expression or anything tighter.
func (p *parser) parseTernary() *Node {
	cond := p.parseBinary(1)
	if cond == nil || !p.at("?") {
		return cond
	}
	question := p.next()
	then := p.parseTernaryOrLambda()
	colon := p.expect(":", "conditional expression")
	otherwise := p.parseTernaryOrLambda()
	return newNode(Conditional, cond, question, then, colon, otherwise)
}

func (p *parser) parseTernaryOrLambda() *Node {
	if lambda := p.parseLambda(); lambda != nil {
		return lambda
	}
	return p.parseTernary()
}

func (p *parser) parseBinary(minPrec int) *Node {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	mp := p.mustProgress()
	for {
		mp.check()
		op, _ := p.peekOp()
		prec := precedence[op]
		if prec == 0 || prec < minPrec {
			return lhs
		}

		children := []*Node{lhs}
		for {
			op, n := p.peekOp()
			if precedence[op] != prec {
				break
			}
			children = append(children, p.parseOp(n))
			var rhs *Node
			if op == "instanceof" {
				rhs = p.parsePattern()
			} else {
				rhs = p.parseBinary(prec + 1)
			}
			if rhs == nil {
				p.unexpected("an operand", "binary expression")
				break
			}
			children = append(children, rhs)
		}
		lhs = newNode(Binary, children...)
	}
}

// parsePattern parses the right-hand side of instanceof: a type, optionally
// followed by a binding name.
func (p *parser) parsePattern() *Node {
	mods := p.parseModifiers(false)
	if p.scanType(0) < 0 {
		return mods
	}
	typ := p.parseType()
	if mods == nil && !p.isName(0) {
		return typ
	}
	var name *Node
	if p.isName(0) {
		name = p.next()
	}
	return newNode(Param, mods, typ, name)
}

func (p *parser) parseUnary() *Node {
	switch p.text(0) {
	case "+", "-", "!", "~", "++", "--":
		op := p.next()
		return newNode(Unary, op, p.parseUnary())
	case "(":
		if cast := p.parseCast(); cast != nil {
			return cast
		}
	}
	return p.parsePostfix()
}

// parseCast parses a cast if the parenthesized text at the cursor looks
// like one.
func (p *parser) parseCast() *Node {
	end := p.scanType(1)
	if end < 0 || p.text(end) != ")" {
		return nil
	}
	primitive := end == 2 && primitives[p.text(1)]
	if !primitive {
		switch next := end + 1; {
		case p.text(next) == "->":
			return nil
		case p.kind(next) == token.Ident:
			switch p.text(next) {
			case "instanceof":
				return nil
			}
		case p.kind(next) == token.String, p.kind(next) == token.Number:
		case p.text(next) == "(", p.text(next) == "!", p.text(next) == "~":
		default:
			return nil
		}
	}

	open := p.next()
	typ := p.parseType()
	closeParen := p.next()
	return newNode(Cast, open, typ, closeParen, p.parseUnary())
}

func (p *parser) parsePostfix() *Node {
	n := p.parsePrimary()
	if n == nil {
		return nil
	}
	for {
		switch p.text(0) {
		case ".":
			dot := p.next()
			var member *Node
			switch {
			case p.at("new"):
				member = p.parseNew()
			case p.at("<"):
				args := p.parseTypeParams()
				member = newNode(Call, args, p.parseSelector())
			default:
				member = p.parseSelector()
			}
			n = newNode(Select, n, dot, member)
		case "::":
			sep := p.next()
			var name *Node
			if p.kind(0) == token.Ident {
				name = p.next()
			} else {
				p.unexpected("a method name", "method reference")
			}
			n = newNode(MethodRef, n, sep, name)
		case "[":
			open := p.next()
			var index *Node
			if !p.at("]") {
				index = p.parseExpr()
			}
			n = newNode(Index, n, open, index, p.expect("]", "index expression"))
		case "++", "--":
			n = newNode(Postfix, n, p.next())
		default:
			return n
		}
	}
}

// parseSelector parses the name after a dot, including a call's arguments.
func (p *parser) parseSelector() *Node {
	if p.kind(0) != token.Ident {
		p.unexpected("a member name", "selector")
		return nil
	}
	name := p.next()
	if p.at("(") {
		return newNode(Call, name, p.parseArgs())
	}
	return name
}

func (p *parser) parsePrimary() *Node {
	switch kind, text := p.kind(0), p.text(0); {
	case kind == token.String, kind == token.Number:
		return p.next()
	case text == "new":
		return p.parseNew()
	case text == "switch":
		return p.parseSwitch()
	case text == "{":
		return p.parseArrayInit(p.parseExpr)
	case text == "(":
		if lambda := p.parseLambda(); lambda != nil {
			return lambda
		}
		open := p.next()
		inner := p.parseExpr()
		return newNode(Paren, open, inner, p.expect(")", "parenthesized expression"))
	case kind == token.Ident:
		if lambda := p.parseLambda(); lambda != nil {
			return lambda
		}
		if p.text(1) == "(" && (p.isName(0) || text == "this" || text == "super") {
			name := p.next()
			return newNode(Call, name, p.parseArgs())
		}
		switch {
		case p.isName(0), text == "this", text == "super", text == "true",
			text == "false", text == "null", text == "void", text == "class":
			return p.next()
		}
	}

	switch p.text(0) {
	case "", ";", ")", "]", "}", ",", ":":
		p.unexpected("an expression", "expression")
		return nil
	}
	p.unexpected("an expression", "expression")
	return newNode(Raw, p.next())
}

// parseLambda parses a lambda if one starts at the cursor.
func (p *parser) parseLambda() *Node {
	if p.noLambda {
		return nil
	}
	var params *Node
	switch {
	case p.isName(0) && p.text(1) == "->":
		params = p.next()
	case p.at("("):
		end := p.skipBalanced(0)
		if end < 0 || p.text(end) != "->" {
			return nil
		}
		params = p.parseParams(true)
	default:
		return nil
	}

	arrow := p.next()
	var body *Node
	if p.at("{") {
		body = p.parseBlock()
	} else {
		body = p.parseExpr()
	}
	return newNode(Lambda, params, arrow, body)
}

func (p *parser) parseArgs() *Node {
	children := []*Node{p.next()}
	saved := p.noLambda
	p.noLambda = false
	defer func() { p.noLambda = saved }()

	mp := p.mustProgress()
	for !p.at(")") && !p.done() {
		mp.check()
		arg := p.parseExpr()
		if arg == nil {
			break
		}
		children = append(children, arg)
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	children = append(children, p.expect(")", "argument list"))
	return newNode(Args, children...)
}

// parseArrayInit parses a braced initializer whose elements are parsed by
// elem.
func (p *parser) parseArrayInit(elem func() *Node) *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at("}") && !p.done() {
		mp.check()
		var e *Node
		if p.at("{") {
			e = p.parseArrayInit(elem)
		} else {
			e = elem()
		}
		if e == nil {
			break
		}
		children = append(children, e)
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	children = append(children, p.expect("}", "array initializer"))
	return newNode(ArrayInit, children...)
}

// parseNew parses an instance or array creation expression.
func (p *parser) parseNew() *Node {
	children := []*Node{p.next()}
	if p.at("<") {
		children = append(children, p.parseTypeParams())
	}
	if p.scanType(0) < 0 {
		p.unexpected("a type", "new expression")
		return newNode(New, children...)
	}
	children = append(children, p.parseType())

	switch {
	case p.at("("):
		children = append(children, p.parseArgs())
		if p.at("{") {
			children = append(children, p.parseTypeBody())
		}
	case p.at("["):
		for p.at("[") {
			children = append(children, p.next())
			if !p.at("]") {
				children = append(children, p.parseExpr())
			}
			children = append(children, p.expect("]", "array creation"))
		}
		fallthrough
	case p.at("{"):
		if p.at("{") {
			children = append(children, p.parseArrayInit(p.parseExpr))
		}
	default:
		p.unexpected("arguments", "new expression")
	}
	return newNode(New, children...)
}
