package parser

import (
	"fmt"
	"strconv"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/pointer"
	"github.com/unyt-org/datex-go/pkg/token"
)

// Type grammar, lowest precedence first:
//
//	T | U          union
//	T & U          intersection
//	T[] T[n]       postfix list types
//	&T &mut T      references, names, literals, {..}, [..], (..)

// parseType parses a full type expression.
func (p *Parser) parseType() *ast.TypeExpression {
	start := p.pos
	first := p.parseIntersectionType()
	if !p.check(token.PIPE) {
		return first
	}

	members := []*ast.TypeExpression{first}
	for !p.failed() && p.match(token.PIPE) {
		members = append(members, p.parseIntersectionType())
	}
	return p.typeNode(&ast.Union{Members: members}, start)
}

func (p *Parser) parseIntersectionType() *ast.TypeExpression {
	start := p.pos
	first := p.parsePostfixType()
	if !p.check(token.AMP) {
		return first
	}

	members := []*ast.TypeExpression{first}
	for !p.failed() && p.match(token.AMP) {
		members = append(members, p.parsePostfixType())
	}
	return p.typeNode(&ast.Intersection{Members: members}, start)
}

// parsePostfixType parses "T[]" and "T[n]" suffixes.
func (p *Parser) parsePostfixType() *ast.TypeExpression {
	start := p.pos
	t := p.parsePrimaryType()

	for !p.failed() && p.check(token.LBRACKET) {
		switch {
		case p.checkPeek(token.RBRACKET):
			p.nextToken()
			p.nextToken()
			t = p.typeNode(&ast.SliceList{Element: t}, start)
		case p.checkPeek(token.INTEGER) && p.peekN(2).Type == token.RBRACKET:
			p.nextToken()
			sizeTok := p.cur()
			size, err := strconv.Atoi(sizeTok.Literal)
			if err != nil || size < 0 {
				p.addError(fmt.Sprintf(ErrInvalidNumber, sizeTok.Literal))
				return t
			}
			p.nextToken()
			p.nextToken()
			t = p.typeNode(&ast.FixedSizeList{Element: t, Size: size}, start)
		default:
			return t
		}
	}
	return t
}

// parsePrimaryType parses a single type operand.
func (p *Parser) parsePrimaryType() *ast.TypeExpression {
	start := p.pos
	tok := p.cur()

	switch tok.Type {
	case token.AMP:
		p.nextToken()
		switch {
		case p.match(token.MUT):
			return p.typeNode(&ast.RefMut{Inner: p.parsePostfixType()}, start)
		case p.match(token.FINAL):
			return p.typeNode(&ast.RefFinal{Inner: p.parsePostfixType()}, start)
		default:
			return p.typeNode(&ast.Ref{Inner: p.parsePostfixType()}, start)
		}

	case token.IDENT:
		p.nextToken()
		if p.check(token.LT) {
			return p.parseGenericType(tok.Literal, start)
		}
		lit := &ast.Literal{Name: tok.Literal}
		if p.check(token.SLASH) && p.checkPeek(token.IDENT) {
			p.nextToken()
			lit.Variant = p.cur().Literal
			p.nextToken()
		}
		return p.typeNode(lit, start)

	case token.POINTER_ADDRESS:
		p.nextToken()
		addr, err := pointer.Parse(tok.Literal)
		if err != nil {
			p.addErrorAt(start, fmt.Sprintf(ErrInvalidAddress, tok.Literal))
		}
		return p.typeNode(&ast.GetReference{Address: addr}, start)

	case token.LBRACKET:
		p.nextToken()
		items := []*ast.TypeExpression{}
		for !p.check(token.RBRACKET) && !p.failed() {
			items = append(items, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
		return p.typeNode(&ast.StructuralList{Items: items}, start)

	case token.LBRACE:
		return p.parseStructuralMapType()

	case token.LPAREN:
		if p.checkPeek(token.RPAREN) || (p.checkPeek(token.IDENT) && p.peekN(2).Type == token.COLON) {
			return p.parseFunctionType()
		}
		p.nextToken()
		inner := p.parseType()
		p.expect(token.RPAREN)
		inner.Wrap()
		return inner
	}

	if lit, ok := p.parseLiteral(); ok {
		return p.typeNode(lit, start)
	}
	p.addError(fmt.Sprintf(ErrExpectedType, describe(tok)))
	p.nextToken()
	return p.typeNode(&ast.Recover{}, start)
}

// parseGenericType parses "Base<T, U>".
func (p *Parser) parseGenericType(base string, start int) *ast.TypeExpression {
	p.nextToken() // skip '<'
	var access []*ast.TypeExpression
	for !p.check(token.GT) && !p.failed() {
		access = append(access, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return p.typeNode(&ast.GenericAccess{Base: base, Access: access}, start)
}

// parseStructuralMapType parses "{key: T, ...}".
func (p *Parser) parseStructuralMapType() *ast.TypeExpression {
	start := p.pos
	p.nextToken() // skip '{'

	entries := []ast.StructuralMapEntry{}
	for !p.check(token.RBRACE) && !p.failed() {
		var key *ast.TypeExpression
		keyStart := p.pos
		if tok := p.cur(); (tok.Type == token.IDENT || tok.Type.IsKeyword()) && p.checkPeek(token.COLON) {
			p.nextToken()
			key = p.typeNode(&ast.Text{Value: tok.Literal}, keyStart)
		} else {
			key = p.parsePostfixType()
		}
		if !p.expect(token.COLON) {
			break
		}
		entries = append(entries, ast.StructuralMapEntry{Key: key, Value: p.parseType()})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)

	return p.typeNode(&ast.StructuralMap{Entries: entries}, start)
}

// parseFunctionType parses "(a: T, b: U) -> R".
func (p *Parser) parseFunctionType() *ast.TypeExpression {
	start := p.pos
	p.nextToken() // skip '('

	var params []ast.TypeParameter
	for !p.check(token.RPAREN) && !p.failed() {
		name := p.cur().Literal
		if !p.expect(token.IDENT) || !p.expect(token.COLON) {
			break
		}
		params = append(params, ast.TypeParameter{Name: name, Type: p.parseType()})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	ret := p.parsePostfixType()

	return p.typeNode(&ast.FunctionType{Parameters: params, ReturnType: ret}, start)
}
