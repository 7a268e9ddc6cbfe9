package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/pointer"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/values"
)

// literal is a leaf payload valid in both the expression and the type grammar.
type literal interface {
	ast.ExpressionData
	ast.TypeExpressionData
}

// parsePrimary parses primary expressions (literals, names, groups, collections).
func (p *Parser) parsePrimary() *ast.Expression {
	start := p.pos
	tok := p.cur()

	switch tok.Type {
	case token.IDENT:
		p.nextToken()
		return p.node(&ast.Identifier{Name: tok.Literal}, start)

	case token.PLACEHOLDER:
		p.nextToken()
		return p.node(&ast.Placeholder{}, start)

	case token.SLOT:
		p.nextToken()
		slot, err := parseSlot(tok.Literal)
		if err != nil {
			p.addErrorAt(start, err.Error())
		}
		return p.node(slot, start)

	case token.POINTER_ADDRESS:
		p.nextToken()
		addr, err := pointer.Parse(tok.Literal)
		if err != nil {
			p.addErrorAt(start, fmt.Sprintf(ErrInvalidAddress, tok.Literal))
		}
		return p.node(&ast.PointerAddress{Address: addr}, start)

	case token.LPAREN:
		return p.parseGroup()

	case token.LBRACKET:
		return p.parseList()

	case token.LBRACE:
		return p.parseMap()

	case token.IF:
		return p.parseConditional()

	case token.TYPE:
		// type(T) embeds a type expression as a value
		p.nextToken()
		if !p.expect(token.LPAREN) {
			return p.node(&ast.Recover{}, start)
		}
		value := p.parseType()
		p.expect(token.RPAREN)
		return p.node(&ast.TypeValue{Value: value}, start)
	}

	if lit, ok := p.parseLiteral(); ok {
		return p.node(lit, start)
	}
	return p.recoverNode(fmt.Sprintf(ErrExpectedExpression, describe(tok)))
}

// parseLiteral consumes a literal token. ok is false if the current token
// is not a literal; errors in well-formed literal tokens are recorded.
func (p *Parser) parseLiteral() (lit literal, ok bool) {
	tok := p.cur()
	idx := p.pos

	switch tok.Type {
	case token.NULL:
		lit = &ast.Null{}
	case token.TRUE, token.FALSE:
		lit = &ast.Boolean{Value: tok.Type == token.TRUE}
	case token.STRING:
		lit = &ast.Text{Value: UnescapeText(tok.Literal[1 : len(tok.Literal)-1])}
	case token.INFINITY:
		lit = &ast.Decimal{Value: values.Infinity(false)}
	case token.NAN:
		lit = &ast.Decimal{Value: values.NaN()}
	case token.ENDPOINT:
		e, err := values.ParseEndpoint(tok.Literal)
		if err != nil {
			p.addErrorAt(idx, fmt.Sprintf(ErrInvalidEndpoint, tok.Literal))
		}
		lit = &ast.Endpoint{Value: e}
	case token.INTEGER, token.DECIMAL, token.FRACTION:
		var err error
		lit, err = parseNumber(tok)
		if err != nil {
			p.addErrorAt(idx, err.Error())
			lit = &ast.Recover{}
		}
	case token.ILLEGAL:
		p.addErrorAt(idx, illegalMessage(tok.Literal))
		lit = &ast.Recover{}
	default:
		return nil, false
	}

	p.nextToken()
	return lit, true
}

// illegalMessage explains why the lexer rejected a token.
func illegalMessage(lit string) string {
	switch {
	case strings.HasPrefix(lit, `"`), strings.HasPrefix(lit, "'"):
		return ErrUnterminatedString
	case strings.HasPrefix(lit, "@"):
		return fmt.Sprintf(ErrInvalidEndpoint, lit)
	case strings.HasPrefix(lit, "$"):
		return fmt.Sprintf(ErrInvalidAddress, lit)
	case strings.HasPrefix(lit, "#"):
		return fmt.Sprintf(ErrInvalidSlot, lit)
	}
	return fmt.Sprintf(ErrIllegalCharacter, lit)
}

// splitSuffix separates a numeric literal from its variant suffix.
func splitSuffix(lit string) (number, suffix string) {
	isHex := len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X')
	for _, s := range numberSuffixes {
		if isHex && s[0] != 'u' && s[0] != 'i' {
			continue
		}
		if strings.HasSuffix(lit, s) && len(lit) > len(s) {
			return lit[:len(lit)-len(s)], s
		}
	}
	return lit, ""
}

// parseNumber converts an INTEGER, DECIMAL or FRACTION token into a literal.
func parseNumber(tok token.Token) (literal, error) {
	invalid := fmt.Errorf(ErrInvalidNumber, tok.Literal)

	if tok.Type == token.FRACTION {
		num, den, _ := strings.Cut(tok.Literal, "/")
		n, err := values.ParseInteger(num)
		if err != nil {
			return nil, invalid
		}
		d, err := values.ParseInteger(den)
		if err != nil {
			return nil, invalid
		}
		dec, err := values.DecimalFromFraction(n, d)
		if err != nil {
			return nil, invalid
		}
		return &ast.Decimal{Value: dec}, nil
	}

	number, suffix := splitSuffix(tok.Literal)

	if tok.Type == token.INTEGER {
		if v, ok := corelib.ParseIntegerVariant(suffix); ok || suffix == "" {
			n, err := values.ParseInteger(number)
			if err != nil {
				return nil, invalid
			}
			if suffix == "" {
				return &ast.Integer{Value: n}, nil
			}
			typed, err := values.NewTypedInteger(n, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", invalid.Error(), err)
			}
			return &ast.TypedInteger{Value: typed}, nil
		}
	}

	d, err := values.ParseDecimal(number)
	if err != nil {
		return nil, invalid
	}
	if suffix == "" {
		return &ast.Decimal{Value: d}, nil
	}
	v, ok := corelib.ParseDecimalVariant(suffix)
	if !ok {
		return nil, invalid
	}
	typed, err := values.NewTypedDecimal(d, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", invalid.Error(), err)
	}
	return &ast.TypedDecimal{Value: typed}, nil
}

// parseSlot converts "#0" or "#name" into a Slot.
func parseSlot(lit string) (*ast.Slot, error) {
	body := strings.TrimPrefix(lit, "#")
	if body != "" && body[0] >= '0' && body[0] <= '9' {
		n, err := strconv.ParseUint(body, 10, 32)
		if err != nil {
			return &ast.Slot{}, fmt.Errorf(ErrInvalidSlot, lit)
		}
		return &ast.Slot{Index: uint32(n)}, nil
	}
	return &ast.Slot{Name: body}, nil
}

// parseGroup parses "( ... )". A single non-terminated statement is returned
// with its Wrapped counter incremented; otherwise the group is a block.
func (p *Parser) parseGroup() *ast.Expression {
	start := p.pos
	p.nextToken() // skip '('

	stmts, terminated := p.parseStatementList(token.RPAREN)
	if !p.expect(token.RPAREN) {
		return p.node(&ast.Recover{}, start)
	}

	if len(stmts) == 1 && !terminated {
		stmts[0].Wrap()
		return stmts[0]
	}
	return p.node(&ast.Statements{Statements: stmts, IsTerminated: terminated}, start)
}

// parseList parses "[a, b, c]". A trailing comma is allowed.
func (p *Parser) parseList() *ast.Expression {
	start := p.pos
	p.nextToken() // skip '['

	items := []*ast.Expression{}
	for !p.check(token.RBRACKET) && !p.failed() {
		items = append(items, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)

	return p.node(&ast.List{Items: items}, start)
}

// parseMap parses "{key: value, ...}". Bare names and strings are text keys.
func (p *Parser) parseMap() *ast.Expression {
	start := p.pos
	p.nextToken() // skip '{'

	entries := []ast.MapEntry{}
	for !p.check(token.RBRACE) && !p.failed() {
		key := p.parseMapKey()
		if !p.expect(token.COLON) {
			break
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: p.parseExpression()})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)

	return p.node(&ast.Map{Entries: entries}, start)
}

func (p *Parser) parseMapKey() *ast.Expression {
	start := p.pos
	tok := p.cur()
	if (tok.Type == token.IDENT || tok.Type.IsKeyword()) && p.checkPeek(token.COLON) {
		p.nextToken()
		return p.node(&ast.Text{Value: tok.Literal}, start)
	}
	return p.parseExpressionWithPrecedence(precedenceOr)
}

// parseConditional parses "if (cond) then (else otherwise)?".
func (p *Parser) parseConditional() *ast.Expression {
	start := p.pos
	p.nextToken() // skip 'if'

	var cond *ast.Expression
	if p.check(token.LPAREN) {
		cond = p.parseGroup()
	} else {
		cond = p.parseExpressionWithPrecedence(precedenceOr)
	}
	then := p.parseExpression()

	var otherwise *ast.Expression
	if p.match(token.ELSE) {
		otherwise = p.parseExpression()
	}

	return p.node(&ast.Conditional{Condition: cond, Then: then, Else: otherwise}, start)
}
