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

// scanType returns the lookahead index just past a type starting at k, or -1
// if there is no type there. It consumes nothing.
func (p *parser) scanType(k int) int {
	k = p.scanAnnotations(k)
	if !p.isTypeName(k) {
		return -1
	}
	k++
	for {
		if p.text(k) == "<" {
			if k = p.scanTypeArgs(k); k < 0 {
				return -1
			}
		}
		if p.text(k) == "." && p.isName(k+1) {
			k += 2
			continue
		}
		break
	}
	for p.text(k) == "[" && p.text(k+1) == "]" {
		k += 2
	}
	return k
}

// scanTypeArgs returns the lookahead index just past the type argument list
// opened by the < at k, or -1.
func (p *parser) scanTypeArgs(k int) int {
	var depth int
	for ; p.id(k) >= 0; k++ {
		switch text := p.text(k); text {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return k + 1
			}
		case ".", ",", "?", "&", "[", "]", "@":
		default:
			if p.kind(k) != token.Ident {
				return -1
			}
		}
	}
	return -1
}

func (p *parser) scanAnnotations(k int) int {
	for p.text(k) == "@" && p.text(k+1) != "interface" {
		k++
		for p.kind(k) == token.Ident {
			k++
			if p.text(k) != "." {
				break
			}
			k++
		}
		if p.text(k) == "(" {
			if k = p.skipBalanced(k); k < 0 {
				return -1
			}
		}
	}
	return k
}

// parseType parses a type as a flat run of tokens. The caller must have
// checked that one is present with scanType.
func (p *parser) parseType() *Node {
	end := p.pos + p.scanType(0)
	if end < p.pos {
		p.unexpected("a type", "type")
		return nil
	}
	var children []*Node
	for p.pos < end {
		if p.at("@") {
			children = append(children, p.parseAnnotation())
			continue
		}
		children = append(children, p.next())
	}
	return newNode(Type, children...)
}

// parseTypeParams parses a <...> list of type parameters or arguments as a
// Type node.
func (p *parser) parseTypeParams() *Node {
	end := p.scanTypeArgs(0)
	if end < 0 {
		return nil
	}
	end += p.pos
	var children []*Node
	for p.pos < end {
		children = append(children, p.next())
	}
	return newNode(Type, children...)
}

// parseTypeList parses a comma-separated list of types.
func (p *parser) parseTypeList(where string) *Node {
	var children []*Node
	mp := p.mustProgress()
	for {
		mp.check()
		if p.scanType(0) < 0 {
			p.unexpected("a type", where)
			break
		}
		children = append(children, p.parseType())
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	return newNode(TypeList, children...)
}

// parseAnnotation parses an annotation starting at @.
func (p *parser) parseAnnotation() *Node {
	children := []*Node{p.next()}
	for p.kind(0) == token.Ident {
		children = append(children, p.next())
		if !p.at(".") {
			break
		}
		children = append(children, p.next())
	}
	if p.at("(") {
		children = append(children, p.parseAnnotationArgs())
	}
	return newNode(Annotation, children...)
}

func (p *parser) parseAnnotationArgs() *Node {
	children := []*Node{p.next()}
	mp := p.mustProgress()
	for !p.at(")") && !p.done() {
		mp.check()
		var elem *Node
		if p.isName(0) && p.text(1) == "=" {
			name, eq := p.next(), p.next()
			elem = newNode(Pair, name, eq, p.parseElementValue())
		} else {
			elem = p.parseElementValue()
		}
		if elem == nil {
			break
		}
		children = append(children, elem)
		comma := p.accept(",")
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	children = append(children, p.expect(")", "annotation"))
	return newNode(AnnotationArgs, children...)
}

func (p *parser) parseElementValue() *Node {
	switch {
	case p.at("{"):
		return p.parseArrayInit(p.parseElementValue)
	case p.at("@"):
		return p.parseAnnotation()
	default:
		return p.parseTernary()
	}
}
