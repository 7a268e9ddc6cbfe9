// Package ast defines the DATEX syntax tree.
//
// Expressions and type expressions are two disjoint tagged unions. Each node
// is a wrapper (Expression, TypeExpression) holding a span, the optional
// inferred type and a Data payload; the payload's concrete type is the tag.
// Leaf payloads shared by both grammars (literals, VariableAccess,
// GetReference) implement both marker interfaces.
//
// The Golden Rule: pkg/ast imports only leaf packages (token, pointer,
// values, types) and stdlib.
package ast

import (
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/types"
)

// VariableID is a dense index into the precompiler's variable table.
type VariableID int

// Expression is a node of the expression grammar.
type Expression struct {
	Data ExpressionData
	Span token.Span
	// Wrapped counts redundant parentheses around the node in source.
	Wrapped *int
	// Type is set by type inference.
	Type types.Container
}

// TypeExpression is a node of the type grammar.
type TypeExpression struct {
	Data    TypeExpressionData
	Span    token.Span
	Wrapped *int
	Type    types.Container
}

// ExpressionData is the payload of an Expression.
type ExpressionData interface {
	exprData()
}

// TypeExpressionData is the payload of a TypeExpression.
type TypeExpressionData interface {
	typeData()
}

// New wraps data with a span.
func New(data ExpressionData, span token.Span) *Expression {
	return &Expression{Data: data, Span: span}
}

// NewType wraps type data with a span.
func NewType(data TypeExpressionData, span token.Span) *TypeExpression {
	return &TypeExpression{Data: data, Span: span}
}

// WrapCount returns the number of redundant parentheses.
func (e *Expression) WrapCount() int {
	if e.Wrapped == nil {
		return 0
	}
	return *e.Wrapped
}

// Wrap records one more pair of parentheses around e.
func (e *Expression) Wrap() {
	n := e.WrapCount() + 1
	e.Wrapped = &n
}

// Wrap records one more pair of parentheses around t.
func (t *TypeExpression) Wrap() {
	n := 1
	if t.Wrapped != nil {
		n = *t.Wrapped + 1
	}
	t.Wrapped = &n
}

// VariableKind is the mutability of a value variable.
type VariableKind uint8

// Variable kinds.
const (
	Const VariableKind = iota
	Var
)

func (k VariableKind) String() string {
	if k == Var {
		return "var"
	}
	return "const"
}
