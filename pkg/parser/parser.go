// Package parser turns DATEX source into an AST.
//
// Node spans produced here are token indices: a node covering tokens i..j-1
// has Span{i, j}. ValidParseResult.Spans maps each token index to its byte
// range; the precompiler uses it to rewrite spans into byte offsets.
package parser

import (
	"fmt"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
)

// ValidParseResult is the output of a successful parse.
type ValidParseResult struct {
	AST *ast.Expression
	// Spans[i] is the byte range of token i.
	Spans    []token.Span
	Comments []*token.Comment
}

// Parser is a Pratt parser over a pre-lexed token stream.
type Parser struct {
	tokens []token.Token
	pos    int
	errors ParseErrors
}

// NewParser lexes input and returns a parser positioned at the first token.
func NewParser(input string) (*Parser, []*token.Comment) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return &Parser{tokens: tokens}, l.Comments
}

// Parse parses a complete DATEX script.
func Parse(input string) (*ValidParseResult, error) {
	p, comments := NewParser(input)
	root := p.parseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors
	}

	spans := make([]token.Span, len(p.tokens))
	for i, tok := range p.tokens {
		spans[i] = tok.Span
	}
	return &ValidParseResult{AST: root, Spans: spans, Comments: comments}, nil
}

// ---------- Token helpers ----------

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// nextToken advances to the next token. EOF is sticky.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// check returns true if current token is of given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.cur().Type == t
}

// checkPeek returns true if the next token is of given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peekN(1).Type == t
}

// match consumes current token if it matches.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.match(t) {
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.cur()), t))
	return false
}

// failed reports whether an error has been recorded. Parsing stops at the
// first error, so loops check this to unwind.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// addError records an error at the current token. Only the first error is kept.
func (p *Parser) addError(msg string) {
	if p.failed() {
		return
	}
	p.errors = append(p.errors, &ParseError{Span: p.cur().Span, Message: msg})
}

// addErrorAt records an error at the token with the given index.
func (p *Parser) addErrorAt(idx int, msg string) {
	if p.failed() {
		return
	}
	p.errors = append(p.errors, &ParseError{Span: p.tokens[idx].Span, Message: msg})
}

// spanFrom returns the token-index span from start to the last consumed token.
func (p *Parser) spanFrom(start int) token.Span {
	end := p.pos
	if end <= start {
		end = start + 1
	}
	return token.NewSpan(start, end)
}

func (p *Parser) node(data ast.ExpressionData, start int) *ast.Expression {
	return ast.New(data, p.spanFrom(start))
}

func (p *Parser) typeNode(data ast.TypeExpressionData, start int) *ast.TypeExpression {
	return ast.NewType(data, p.spanFrom(start))
}

// recoverNode consumes the offending token and returns a Recover marker.
func (p *Parser) recoverNode(msg string) *ast.Expression {
	start := p.pos
	p.addError(msg)
	p.nextToken()
	return p.node(&ast.Recover{}, start)
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "EOF"
	}
	if tok.Literal != "" {
		return fmt.Sprintf("%q", tok.Literal)
	}
	return tok.Type.String()
}

// ---------- Statements ----------

// parseProgram parses the top level. A single non-terminated statement is
// returned as is; anything else becomes a Statements node.
func (p *Parser) parseProgram() *ast.Expression {
	stmts, terminated := p.parseStatementList(token.EOF)
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.cur()), "; or EOF"))
	}
	if len(stmts) == 1 && !terminated {
		return stmts[0]
	}
	return ast.New(&ast.Statements{Statements: stmts, IsTerminated: terminated}, token.NewSpan(0, len(p.tokens)-1))
}

// parseStatementList parses statements separated by ';' until end.
func (p *Parser) parseStatementList(end token.TokenType) ([]*ast.Expression, bool) {
	var stmts []*ast.Expression
	terminated := false
	for !p.check(end) && !p.check(token.EOF) && !p.failed() {
		stmts = append(stmts, p.parseStatement())
		terminated = false
		if !p.check(token.SEMICOLON) {
			break
		}
		for p.match(token.SEMICOLON) {
			terminated = true
		}
	}
	return stmts, terminated
}

func (p *Parser) parseStatement() *ast.Expression {
	switch p.cur().Type {
	case token.VAR, token.CONST:
		return p.parseVariableDeclaration()
	case token.TYPE:
		if !p.checkPeek(token.LPAREN) {
			return p.parseTypeDeclaration()
		}
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	}
	return p.parseExpression()
}

// parseVariableDeclaration parses "var|const name (: Type)? = expr".
func (p *Parser) parseVariableDeclaration() *ast.Expression {
	start := p.pos
	kind := ast.Const
	if p.check(token.VAR) {
		kind = ast.Var
	}
	p.nextToken()

	name := p.cur().Literal
	if !p.expect(token.IDENT) {
		return p.node(&ast.Recover{}, start)
	}

	var annotation *ast.TypeExpression
	if p.match(token.COLON) {
		annotation = p.parseType()
	}

	if !p.expect(token.ASSIGN) {
		return p.node(&ast.Recover{}, start)
	}
	init := p.parseExpression()

	return p.node(&ast.VariableDeclaration{
		Kind:           kind,
		Name:           name,
		TypeAnnotation: annotation,
		Init:           init,
	}, start)
}

// parseTypeDeclaration parses "type Name(/variant)? = Type".
func (p *Parser) parseTypeDeclaration() *ast.Expression {
	start := p.pos
	p.nextToken() // skip 'type'

	name := p.cur().Literal
	if !p.expect(token.IDENT) {
		return p.node(&ast.Recover{}, start)
	}
	if p.check(token.SLASH) && p.checkPeek(token.IDENT) {
		p.nextToken()
		name += "/" + p.cur().Literal
		p.nextToken()
	}

	if !p.expect(token.ASSIGN) {
		return p.node(&ast.Recover{}, start)
	}
	value := p.parseType()

	return p.node(&ast.TypeDeclaration{Name: name, Value: value}, start)
}

// parseFunctionDeclaration parses "function name(p: T, ...) (-> T)? ( body )".
func (p *Parser) parseFunctionDeclaration() *ast.Expression {
	start := p.pos
	p.nextToken() // skip 'function'

	name := p.cur().Literal
	if !p.expect(token.IDENT) || !p.expect(token.LPAREN) {
		return p.node(&ast.Recover{}, start)
	}

	var params []ast.Parameter
	for !p.check(token.RPAREN) && !p.failed() {
		paramName := p.cur().Literal
		if !p.expect(token.IDENT) || !p.expect(token.COLON) {
			break
		}
		params = append(params, ast.Parameter{Name: paramName, Type: p.parseType()})
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return p.node(&ast.Recover{}, start)
	}

	var ret *ast.TypeExpression
	if p.match(token.ARROW) {
		ret = p.parseType()
	}

	if !p.check(token.LPAREN) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.cur()), "function body"))
		return p.node(&ast.Recover{}, start)
	}
	body := p.parseGroup()

	return p.node(&ast.FunctionDeclaration{
		Name:       name,
		Parameters: params,
		ReturnType: ret,
		Body:       body,
	}, start)
}
