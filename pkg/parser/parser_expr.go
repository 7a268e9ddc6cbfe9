package parser

import (
	"fmt"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels, lowest first:
//
//	precedenceRemote     ::
//	precedenceOr         ||
//	precedenceAnd        &&
//	precedenceComparison == != === !== < > <= >= is matches
//	precedenceUnion      |
//	precedenceIntersect  &
//	precedenceAddition   + -
//	precedenceMultiply   * / %
//	precedencePower      ^ (right associative)
//	precedencePrefix     unary + - ! & &mut &final *
//
// Assignments sit below all of them and are right associative.
const (
	precedenceNone = iota
	precedenceRemote
	precedenceOr
	precedenceAnd
	precedenceComparison
	precedenceUnion
	precedenceIntersect
	precedenceAddition
	precedenceMultiply
	precedencePower
	precedencePrefix
)

var binaryOperators = map[token.TokenType]ast.BinaryOperator{
	token.PLUS:    ast.OpAdd,
	token.MINUS:   ast.OpSubtract,
	token.STAR:    ast.OpMultiply,
	token.SLASH:   ast.OpDivide,
	token.PERCENT: ast.OpModulo,
	token.CARET:   ast.OpPower,
	token.AND:     ast.OpAnd,
	token.OR:      ast.OpOr,
	token.PIPE:    ast.OpUnion,
	token.AMP:     ast.OpIntersection,
}

var comparisonOperators = map[token.TokenType]ast.ComparisonOperator{
	token.IS:      ast.CmpIs,
	token.MATCHES: ast.CmpMatches,
	token.EQ:      ast.CmpEqual,
	token.NE:      ast.CmpNotEqual,
	token.SEQ:     ast.CmpStructuralEqual,
	token.SNE:     ast.CmpNotStructuralEqual,
	token.LT:      ast.CmpLess,
	token.GT:      ast.CmpGreater,
	token.LE:      ast.CmpLessEqual,
	token.GE:      ast.CmpGreaterEqual,
}

var assignmentOperators = map[token.TokenType]ast.AssignmentOperator{
	token.ASSIGN:     ast.Assign,
	token.ADD_ASSIGN: ast.AddAssign,
	token.SUB_ASSIGN: ast.SubtractAssign,
	token.MUL_ASSIGN: ast.MultiplyAssign,
	token.DIV_ASSIGN: ast.DivideAssign,
}

// parseExpression parses an expression including assignments.
func (p *Parser) parseExpression() *ast.Expression {
	start := p.pos
	left := p.parseExpressionWithPrecedence(precedenceRemote)
	if p.failed() {
		return left
	}

	op, ok := assignmentOperators[p.cur().Type]
	if !ok {
		return left
	}
	p.nextToken()
	right := p.parseExpression()

	switch target := left.Data.(type) {
	case *ast.Identifier:
		return p.node(&ast.VariableAssignment{Name: target.Name, Operator: op, Expression: right}, start)
	case *ast.Slot:
		if op == ast.Assign {
			return p.node(&ast.SlotAssignment{Slot: *target, Expression: right}, start)
		}
	case *ast.Deref:
		count := 1
		inner := target.Expression
		for {
			d, ok := inner.Data.(*ast.Deref)
			if !ok || inner.WrapCount() > 0 {
				break
			}
			count++
			inner = d.Expression
		}
		return p.node(&ast.DerefAssignment{
			Operator:           op,
			DerefCount:         count,
			DerefExpression:    inner,
			AssignedExpression: right,
		}, start)
	}

	p.addErrorAt(start, ErrInvalidTarget)
	return p.node(&ast.Recover{}, start)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) *ast.Expression {
	start := p.pos
	left := p.parsePrefixExpr()

	// Parse infix operators while their precedence is >= minPrecedence
	for !p.failed() {
		prec := infixPrecedence(p.cur().Type)
		if prec == precedenceNone || prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec, start)
	}

	return left
}

// infixPrecedence returns the precedence of t as an infix operator, or precedenceNone.
func infixPrecedence(t token.TokenType) int {
	switch t {
	case token.DCOLON:
		return precedenceRemote
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.SEQ, token.SNE, token.LT, token.GT, token.LE, token.GE, token.IS, token.MATCHES:
		return precedenceComparison
	case token.PIPE:
		return precedenceUnion
	case token.AMP:
		return precedenceIntersect
	case token.PLUS, token.MINUS:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	case token.CARET:
		return precedencePower
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses the operator at the current token and its right operand.
func (p *Parser) parseInfixExpr(left *ast.Expression, prec, start int) *ast.Expression {
	opToken := p.cur().Type
	p.nextToken()

	// ^ is right associative; everything else is left associative
	nextPrec := prec + 1
	if opToken == token.CARET {
		nextPrec = prec
	}
	right := p.parseExpressionWithPrecedence(nextPrec)

	if opToken == token.DCOLON {
		return p.node(&ast.RemoteExecution{Left: left, Right: right}, start)
	}
	if op, ok := comparisonOperators[opToken]; ok {
		return p.node(&ast.ComparisonOperation{Operator: op, Left: left, Right: right}, start)
	}
	return p.node(&ast.BinaryOperation{Operator: binaryOperators[opToken], Left: left, Right: right}, start)
}

// parsePrefixExpr parses prefix expressions (unary operators and primary expressions).
func (p *Parser) parsePrefixExpr() *ast.Expression {
	start := p.pos

	switch p.cur().Type {
	case token.MINUS, token.PLUS, token.BANG:
		op := ast.UnaryMinus
		switch p.cur().Type {
		case token.PLUS:
			op = ast.UnaryPlus
		case token.BANG:
			op = ast.UnaryNot
		}
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedencePrefix)
		return p.node(&ast.UnaryOperation{Operator: op, Expression: expr}, start)

	case token.STAR:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedencePrefix)
		return p.node(&ast.Deref{Expression: expr}, start)

	case token.AMP:
		p.nextToken()
		switch {
		case p.match(token.MUT):
			expr := p.parseExpressionWithPrecedence(precedencePrefix)
			return p.node(&ast.CreateRefMut{Expression: expr}, start)
		case p.match(token.FINAL):
			expr := p.parseExpressionWithPrecedence(precedencePrefix)
			return p.node(&ast.CreateRefFinal{Expression: expr}, start)
		default:
			expr := p.parseExpressionWithPrecedence(precedencePrefix)
			return p.node(&ast.CreateRef{Expression: expr}, start)
		}

	default:
		return p.parsePostfix(p.parsePrimary(), start)
	}
}

// parsePostfix parses an apply chain: calls, property access and generic access.
func (p *Parser) parsePostfix(base *ast.Expression, start int) *ast.Expression {
	var ops []ast.ApplyOperation
	for !p.failed() {
		switch {
		case p.check(token.LPAREN):
			ops = append(ops, ast.ApplyOperation{Kind: ast.FunctionCall, Expression: p.parseArguments()})
		case p.check(token.DOT):
			p.nextToken()
			ops = append(ops, ast.ApplyOperation{Kind: ast.PropertyAccess, Expression: p.parseProperty()})
		case p.check(token.LT) && p.adjacent():
			arg, ok := p.tryGenericArguments()
			if !ok {
				return p.chain(base, ops, start)
			}
			ops = append(ops, ast.ApplyOperation{Kind: ast.ApplyGeneric, Expression: arg})
		default:
			return p.chain(base, ops, start)
		}
	}
	return p.chain(base, ops, start)
}

func (p *Parser) chain(base *ast.Expression, ops []ast.ApplyOperation, start int) *ast.Expression {
	if len(ops) == 0 {
		return base
	}
	return p.node(&ast.ApplyChain{Base: base, Operations: ops}, start)
}

// adjacent reports whether the current token directly follows the previous
// one without whitespace.
func (p *Parser) adjacent() bool {
	return p.pos > 0 && p.tokens[p.pos-1].Span.End == p.cur().Span.Start
}

// parseArguments parses "(a, b)". A single argument is passed as is, zero or
// several arguments are packed into a list.
func (p *Parser) parseArguments() *ast.Expression {
	start := p.pos
	p.nextToken() // skip '('

	var args []*ast.Expression
	for !p.check(token.RPAREN) && !p.failed() {
		args = append(args, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	if len(args) == 1 {
		return args[0]
	}
	return p.node(&ast.List{Items: args}, start)
}

// parseProperty parses the key after '.': a name, an integer index or a
// parenthesized expression.
func (p *Parser) parseProperty() *ast.Expression {
	start := p.pos
	tok := p.cur()
	switch {
	case tok.Type == token.IDENT || tok.Type.IsKeyword():
		p.nextToken()
		return p.node(&ast.Text{Value: tok.Literal}, start)
	case tok.Type == token.INTEGER || tok.Type == token.STRING:
		return p.parsePrimary()
	case tok.Type == token.LPAREN:
		return p.parseGroup()
	}
	return p.recoverNode(fmt.Sprintf(ErrUnexpectedToken, describe(tok), "property name"))
}

// tryGenericArguments parses "<T, U>" as type arguments. If the tokens do not
// form a generic argument list the parser backtracks and ok is false.
func (p *Parser) tryGenericArguments() (*ast.Expression, bool) {
	savedPos := p.pos
	start := p.pos
	p.nextToken() // skip '<'

	var items []*ast.TypeExpression
	for !p.check(token.GT) && !p.failed() {
		items = append(items, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	if p.failed() || !p.check(token.GT) || len(items) == 0 {
		// only reached from an error-free state, so dropping errors is safe
		p.pos = savedPos
		p.errors = nil
		return nil, false
	}
	p.nextToken() // skip '>'

	var arg *ast.TypeExpression
	if len(items) == 1 {
		arg = items[0]
	} else {
		arg = p.typeNode(&ast.StructuralList{Items: items}, start)
	}
	return p.node(&ast.TypeValue{Value: arg}, start), true
}
