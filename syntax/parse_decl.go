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

func (p *parser) parseUnit(mode Mode) *Node {
	var items []*Node
	mp := p.mustProgress()
	for !p.done() {
		mp.check()
		switch {
		case p.at("}"):
			p.unexpected("a declaration", "file")
			items = append(items, p.parseRaw())
		case mode == Body:
			items = append(items, p.parseBodyItem())
		case p.at("package"):
			items = append(items, p.parseQualified(Package))
		case p.at("import"):
			items = append(items, p.parseQualified(Import))
		default:
			items = append(items, p.parseMember())
		}
	}
	return newNode(Unit, items...)
}

// parseQualified parses a package or import declaration.
func (p *parser) parseQualified(kind Kind) *Node {
	children := []*Node{p.next()}
	if kind == Import && p.at("static") {
		children = append(children, p.next())
	}
	for !p.at(";") && !p.at("}") && !p.done() {
		text := p.text(0)
		if p.kind(0) != token.Ident && text != "." && text != "*" {
			break
		}
		children = append(children, p.next())
	}
	children = append(children, p.expect(";", kind.String()))
	return newNode(kind, children...)
}

// parseBodyItem parses one item of a bare body, which may be either a member
// declaration or a statement.
func (p *parser) parseBodyItem() *Node {
	switch {
	case p.at("@") || p.atTypeDecl() || p.at("<"):
		return p.parseMember()
	case p.kind(0) == token.Ident && token.IsModifier(p.text(0)) &&
		!p.at("final") && !p.at("synchronized") && !p.at("default"):
		return p.parseMember()
	case p.isName(0) && p.text(1) == "(":
		if end := p.skipBalanced(1); end >= 0 && (p.text(end) == "{" || p.text(end) == "throws") {
			return p.parseMember()
		}
	default:
		if end := p.scanType(0); end >= 0 && p.isName(end) && p.text(end+1) == "(" {
			return p.parseMember()
		}
	}
	return p.parseStatement()
}

// atTypeDecl returns whether a type declaration starts at the cursor, after
// its modifiers.
func (p *parser) atTypeDecl() bool {
	switch p.text(0) {
	case "class", "interface", "enum":
		return true
	case "record":
		return p.isName(1) && (p.text(2) == "(" || p.text(2) == "<")
	case "@":
		return p.text(1) == "interface"
	}
	return false
}

// parseMember parses a member of a type body.
func (p *parser) parseMember() *Node {
	switch {
	case p.at(";"):
		return newNode(Empty, p.next())
	case p.at("{"):
		return newNode(Initializer, p.parseBlock())
	case p.at("static") && p.text(1) == "{":
		kw := p.next()
		return newNode(Initializer, kw, p.parseBlock())
	}

	mods := p.parseModifiers(true)
	if p.atTypeDecl() {
		return p.parseTypeDecl(mods)
	}

	var typeParams *Node
	if p.at("<") {
		typeParams = p.parseTypeParams()
	}
	if p.isName(0) && p.text(1) == "(" {
		return p.parseMethod(mods, typeParams, nil)
	}
	if end := p.scanType(0); end >= 0 && p.isName(end) {
		typ := p.parseType()
		if p.text(1) == "(" {
			return p.parseMethod(mods, typeParams, typ)
		}
		if typeParams == nil {
			return p.parseVar(mods, typ, true)
		}
		return p.parseRaw(mods, typeParams, typ)
	}

	p.unexpected("a declaration", "type body")
	return p.parseRaw(mods, typeParams)
}

func (p *parser) parseTypeDecl(mods *Node) *Node {
	children := []*Node{mods}
	if p.at("@") {
		children = append(children, p.next())
	}
	kw := p.next()
	children = append(children, kw)
	if p.isName(0) {
		children = append(children, p.next())
	} else {
		p.unexpected("a name", "type declaration")
	}
	if p.at("<") {
		children = append(children, p.parseTypeParams())
	}
	if p.at("(") {
		children = append(children, p.parseParams(false))
	}

	mp := p.mustProgress()
	for p.at("extends") || p.at("implements") || p.at("permits") {
		mp.check()
		clause := p.next()
		children = append(children, newNode(Clause, clause, p.parseTypeList(p.token(clause)+" clause")))
	}

	switch {
	case !p.at("{"):
		p.unexpected("`{`", "type declaration")
	case p.token(kw) == "enum":
		children = append(children, p.parseEnumBody())
	default:
		children = append(children, p.parseTypeBody())
	}
	return newNode(TypeDecl, children...)
}

func (p *parser) parseTypeBody() *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at("}") && !p.done() {
		mp.check()
		children = append(children, p.parseMember())
	}
	children = append(children, p.expect("}", "type body"))
	return newNode(TypeBody, children...)
}

func (p *parser) parseEnumBody() *Node {
	children := []*Node{p.next()}

	var constants []*Node
	mp := p.mustProgress()
	for !p.at(";") && !p.at("}") && !p.done() {
		mp.check()
		mods := p.parseModifiers(false)
		if !p.isName(0) {
			if mods != nil {
				constants = append(constants, mods)
			}
			break
		}
		constant := []*Node{mods, p.next()}
		if p.at("(") {
			constant = append(constant, p.parseArgs())
		}
		if p.at("{") {
			constant = append(constant, p.parseTypeBody())
		}
		constants = append(constants, newNode(EnumConstant, constant...))
		comma := p.accept(",")
		if comma == nil {
			break
		}
		constants = append(constants, comma)
	}
	children = append(children, newNode(EnumConstants, constants...))
	children = append(children, p.accept(";"))

	mp = p.mustProgress()
	for !p.at("}") && !p.done() {
		mp.check()
		children = append(children, p.parseMember())
	}
	children = append(children, p.expect("}", "enum body"))
	return newNode(EnumBody, children...)
}

func (p *parser) parseMethod(mods, typeParams, result *Node) *Node {
	children := []*Node{mods, typeParams, result, p.next(), p.parseParams(false)}
	for p.at("[") && p.text(1) == "]" {
		children = append(children, p.next(), p.next())
	}
	if p.at("throws") {
		kw := p.next()
		children = append(children, newNode(Clause, kw, p.parseTypeList("throws clause")))
	}
	if p.at("default") {
		children = append(children, p.next(), p.parseElementValue())
	}

	switch {
	case p.at("{"):
		children = append(children, p.parseBlock())
	default:
		children = append(children, p.expect(";", "method declaration"))
	}
	return newNode(Method, children...)
}

// parseParams parses a parenthesized parameter list. Lambda parameters may
// omit their types.
func (p *parser) parseParams(lambda bool) *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at(")") && !p.done() {
		mp.check()
		var param *Node
		mods := p.parseModifiers(false)
		switch {
		case lambda && p.isName(0) && (p.text(1) == "," || p.text(1) == ")"):
			param = newNode(Param, mods, p.next())
		case p.scanType(0) >= 0:
			parts := []*Node{mods, p.parseType(), p.accept("...")}
			if p.isName(0) || p.at("this") {
				parts = append(parts, p.next())
			}
			for p.at("[") && p.text(1) == "]" {
				parts = append(parts, p.next(), p.next())
			}
			param = newNode(Param, parts...)
		default:
			p.unexpected("a parameter", "parameter list")
			param = p.parseRawUntil(mods, ",", ")")
		}
		children = append(children, param)
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	children = append(children, p.expect(")", "parameter list"))
	return newNode(Params, children...)
}

// parseRawUntil consumes tokens into a Raw node up to one of the given
// stop tokens at nesting level zero.
func (p *parser) parseRawUntil(prefix *Node, stops ...string) *Node {
	children := []*Node{prefix}
	var depth int
	for !p.done() {
		text := p.text(0)
		if depth == 0 {
			stop := text == "}" || text == ";"
			for _, s := range stops {
				stop = stop || text == s
			}
			if stop {
				break
			}
		}
		switch text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case "{":
			children = append(children, p.parseBlock())
			continue
		}
		children = append(children, p.next())
	}
	return newNode(Raw, children...)
}
