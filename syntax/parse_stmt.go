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

import "github.com/bufbuild/blockfmt/token"

// parseBlock parses a braced list of statements.
func (p *parser) parseBlock() *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at("}") && !p.done() {
		mp.check()
		children = append(children, p.parseStatement())
	}
	children = append(children, p.expect("}", "block"))
	return newNode(Block, children...)
}

// parseStatement parses one statement. It always consumes at least one
// token unless the cursor is at a } or at the end of input.
func (p *parser) parseStatement() *Node {
	switch p.text(0) {
	case "{":
		return p.parseBlock()
	case ";":
		return newNode(Empty, p.next())
	case "if":
		return p.parseIf()
	case "while":
		kw := p.next()
		return newNode(While, kw, p.parseParen("while statement"), p.parseBody("while statement"))
	case "do":
		return p.parseDo()
	case "for":
		return p.parseFor()
	case "try":
		return p.parseTry()
	case "switch":
		return p.parseSwitch()
	case "return":
		kw := p.next()
		var value *Node
		if !p.at(";") {
			value = p.parseExpr()
		}
		return newNode(Return, kw, value, p.expect(";", "return statement"))
	case "throw":
		kw := p.next()
		return newNode(Throw, kw, p.parseExpr(), p.expect(";", "throw statement"))
	case "break", "continue":
		kw := p.next()
		var label *Node
		if p.isName(0) {
			label = p.next()
		}
		return newNode(Jump, kw, label, p.expect(";", "jump statement"))
	case "assert":
		kw := p.next()
		cond := p.parseExpr()
		var colon, detail *Node
		if colon = p.accept(":"); colon != nil {
			detail = p.parseExpr()
		}
		return newNode(Assert, kw, cond, colon, detail, p.expect(";", "assert statement"))
	case "synchronized":
		if p.text(1) == "(" {
			kw := p.next()
			lock := p.parseParen("synchronized statement")
			var body *Node
			if p.at("{") {
				body = p.parseBlock()
			} else {
				p.unexpected("`{`", "synchronized statement")
			}
			return newNode(Synchronized, kw, lock, body)
		}
	case "yield":
		switch p.text(1) {
		case "=", ".", "[", "++", "--", "(", "+=", "-=", "*=", "/=":
		default:
			kw := p.next()
			return newNode(Yield, kw, p.parseExpr(), p.expect(";", "yield statement"))
		}
	}

	if p.isName(0) && p.text(1) == ":" {
		label, colon := p.next(), p.next()
		return newNode(Labeled, label, colon, p.parseStatement())
	}

	mods := p.parseModifiers(false)
	if p.atTypeDecl() {
		return p.parseTypeDecl(mods)
	}
	if end := p.scanType(0); end >= 0 && p.isName(end) {
		return p.parseVar(mods, p.parseType(), true)
	}
	if mods != nil {
		p.unexpected("a declaration", "statement")
		return p.parseRaw(mods)
	}

	start := p.pos
	expr := p.parseExpr()
	if expr == nil {
		if p.pos == start {
			p.unexpected("a statement", "block")
		}
		return p.parseRaw()
	}
	if !p.at(";") {
		p.unexpected("`;`", "expression statement")
		if !p.at("}") && !p.done() {
			return p.parseRaw(expr)
		}
	}
	return newNode(ExprStmt, expr, p.accept(";"))
}

// parseRaw consumes tokens up to and including the next ; at the current
// nesting level, up to but excluding an unmatched }, or up to and including
// a braced block. Nested braces are parsed as blocks.
func (p *parser) parseRaw(prefix ...*Node) *Node {
	children := prefix
	var depth int
loop:
	for !p.done() {
		switch p.text(0) {
		case "(", "[":
			depth++
		case ")", "]":
			depth = max(depth-1, 0)
		case ";":
			if depth == 0 {
				children = append(children, p.next())
				break loop
			}
		case "}":
			if len(children) == 0 {
				// A stray close brace; take it so that the caller makes
				// progress.
				children = append(children, p.next())
			}
			break loop
		case "{":
			children = append(children, p.parseBlock())
			if depth == 0 {
				break loop
			}
			continue
		}
		children = append(children, p.next())
	}
	return newNode(Raw, children...)
}

func (p *parser) parseParen(where string) *Node {
	open := p.expect("(", where)
	if open == nil {
		return nil
	}
	inner := p.parseExpr()
	return newNode(Paren, open, inner, p.expect(")", where))
}

// parseBody parses the body of a control statement.
func (p *parser) parseBody(where string) *Node {
	if p.at("}") || p.done() {
		p.unexpected("a statement", where)
		return nil
	}
	return p.parseStatement()
}

func (p *parser) parseIf() *Node {
	kw := p.next()
	cond := p.parseParen("if statement")
	then := p.parseBody("if statement")
	var elseKw, otherwise *Node
	if elseKw = p.accept("else"); elseKw != nil {
		otherwise = p.parseBody("else clause")
	}
	return newNode(If, kw, cond, then, elseKw, otherwise)
}

func (p *parser) parseDo() *Node {
	kw := p.next()
	body := p.parseBody("do statement")
	whileKw := p.expect("while", "do statement")
	var cond *Node
	if whileKw != nil {
		cond = p.parseParen("do statement")
	}
	return newNode(Do, kw, body, whileKw, cond, p.expect(";", "do statement"))
}

func (p *parser) parseFor() *Node {
	kw := p.next()
	open := p.expect("(", "for statement")
	if open == nil {
		return newNode(For, kw, p.parseBody("for statement"))
	}

	children := []*Node{open}
	mods := p.parseModifiers(false)
	if end := p.scanType(0); end >= 0 && p.isName(end) {
		typ := p.parseType()
		if p.text(1) == ":" {
			name := p.next()
			children = append(children, newNode(Param, mods, typ, name), p.next(), p.parseExpr())
			children = append(children, p.expect(")", "for statement"))
			control := newNode(ForControl, children...)
			return newNode(For, kw, control, p.parseBody("for statement"))
		}
		children = append(children, p.parseVar(mods, typ, false))
	} else if mods != nil {
		children = append(children, mods)
	} else if !p.at(";") {
		children = append(children, p.parseExprList(";"))
	}

	children = append(children, p.expect(";", "for statement"))
	if !p.at(";") {
		children = append(children, p.parseExpr())
	}
	children = append(children, p.expect(";", "for statement"))
	if !p.at(")") {
		children = append(children, p.parseExprList(")"))
	}
	children = append(children, p.expect(")", "for statement"))
	return newNode(For, kw, newNode(ForControl, children...), p.parseBody("for statement"))
}

// parseExprList parses comma-separated expressions as an Args node without
// parentheses.
func (p *parser) parseExprList(end string) *Node {
	var children []*Node
	mp := p.mustProgress()
	for !p.at(end) && !p.done() {
		mp.check()
		expr := p.parseExpr()
		if expr == nil {
			break
		}
		children = append(children, expr)
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	return newNode(Args, children...)
}

func (p *parser) parseTry() *Node {
	children := []*Node{p.next()}
	if p.at("(") {
		children = append(children, p.parseResources())
	}
	if p.at("{") {
		children = append(children, p.parseBlock())
	} else {
		p.unexpected("`{`", "try statement")
	}

	mp := p.mustProgress()
	for p.at("catch") {
		mp.check()
		kw := p.next()
		open := p.expect("(", "catch clause")
		mods := p.parseModifiers(false)
		var param []*Node
		param = append(param, mods)
		for p.scanType(0) >= 0 {
			param = append(param, p.parseType())
			bar := p.accept("|")
			if bar == nil {
				break
			}
			param = append(param, bar)
		}
		if p.isName(0) {
			param = append(param, p.next())
		}
		closeParen := p.expect(")", "catch clause")
		var body *Node
		if p.at("{") {
			body = p.parseBlock()
		}
		children = append(children, newNode(Catch, kw, open, newNode(Param, param...), closeParen, body))
	}
	if p.at("finally") {
		kw := p.next()
		var body *Node
		if p.at("{") {
			body = p.parseBlock()
		}
		children = append(children, newNode(Finally, kw, body))
	}
	return newNode(Try, children...)
}

func (p *parser) parseResources() *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at(")") && !p.done() {
		mp.check()
		mods := p.parseModifiers(false)
		var res *Node
		if end := p.scanType(0); end >= 0 && p.isName(end) {
			res = p.parseVar(mods, p.parseType(), false)
		} else {
			res = p.parseExpr()
		}
		if res == nil {
			break
		}
		children = append(children, res)
		semi := p.accept(";")
		if semi == nil {
			break
		}
		children = append(children, semi)
	}
	children = append(children, p.expect(")", "try resources"))
	return newNode(Resources, children...)
}

// parseSwitch parses a switch statement or expression.
func (p *parser) parseSwitch() *Node {
	kw := p.next()
	subject := p.parseParen("switch")
	if !p.at("{") {
		p.unexpected("`{`", "switch")
		return newNode(Switch, kw, subject)
	}

	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at("}") && !p.done() {
		mp.check()
		if p.at("case") || (p.at("default") && (p.text(1) == ":" || p.text(1) == "->")) {
			children = append(children, p.parseCase())
			continue
		}
		// Statements before the first label.
		children = append(children, p.parseStatement())
	}
	children = append(children, p.expect("}", "switch"))
	return newNode(Switch, kw, subject, newNode(SwitchBody, children...))
}

func (p *parser) parseCase() *Node {
	children := []*Node{p.next()}
	if p.token(children[0]) == "case" {
		saved := p.noLambda
		p.noLambda = true
		mp := p.mustProgress()
		for !p.at(":") && !p.at("->") && !p.done() {
			mp.check()
			var label *Node
			if p.at("default") {
				label = p.next()
			} else if end := p.scanType(0); end >= 0 && p.isName(end) {
				label = p.parsePattern()
			} else {
				label = p.parseTernary()
			}
			if label == nil {
				break
			}
			children = append(children, label)
			comma := p.accept(",")
			if comma == nil {
				break
			}
			children = append(children, comma)
		}
		p.noLambda = saved
	}

	if arrow := p.accept("->"); arrow != nil {
		children = append(children, arrow)
		if !p.at("}") && !p.done() {
			children = append(children, p.parseStatement())
		}
		return newNode(Case, children...)
	}

	children = append(children, p.expect(":", "switch label"))
	mp := p.mustProgress()
	for !p.at("}") && !p.at("case") && !p.done() {
		if p.at("default") && (p.text(1) == ":" || p.text(1) == "->") {
			break
		}
		mp.check()
		children = append(children, p.parseStatement())
	}
	return newNode(Case, children...)
}

func (p *parser) token(n *Node) string {
	if n == nil || n.Kind != Token {
		return ""
	}
	return p.stream.Text(n.Tok)
}

// parseVar parses the declarators of a variable after its type. If semi is
// set, the terminating ; is parsed too.
func (p *parser) parseVar(mods, typ *Node, semi bool) *Node {
	var decls []*Node
	mp := p.mustProgress()
	for p.isName(0) {
		mp.check()
		decls = append(decls, p.parseDeclarator())
		comma := p.accept(",")
		if comma == nil {
			break
		}
		decls = append(decls, comma)
	}
	var end *Node
	if semi {
		end = p.expect(";", "variable declaration")
	}
	return newNode(Var, mods, typ, newNode(Declarators, decls...), end)
}

func (p *parser) parseDeclarator() *Node {
	children := []*Node{p.next()}
	for p.at("[") && p.text(1) == "]" {
		children = append(children, p.next(), p.next())
	}
	if eq := p.accept("="); eq != nil {
		children = append(children, eq)
		if p.at("{") {
			children = append(children, p.parseArrayInit(p.parseExpr))
		} else {
			children = append(children, p.parseExpr())
		}
	}
	return newNode(Declarator, children...)
}

// parseModifiers parses annotations and modifier keywords. Outside of
// member declarations, only final and annotations are modifiers. Returns
// nil if there are none.
func (p *parser) parseModifiers(member bool) *Node {
	var children []*Node
	for {
		text := p.text(0)
		switch {
		case text == "@" && p.text(1) != "interface":
			children = append(children, p.parseAnnotation())
			continue
		case text == "final":
			children = append(children, p.next())
			continue
		case !member:
		case text == "non" && p.text(1) == "-" && p.text(2) == "sealed":
			children = append(children, newNode(Type, p.next(), p.next(), p.next()))
			continue
		case p.kind(0) == token.Ident && token.IsModifier(text):
			switch {
			case text == "default" && (p.text(1) == ":" || p.text(1) == "->"):
			case text == "synchronized" && p.text(1) == "(":
			case text == "sealed" && p.kind(1) != token.Ident:
			default:
				children = append(children, p.next())
				continue
			}
		}
		break
	}
	if len(children) == 0 {
		return nil
	}
	return newNode(Modifiers, children...)
}
