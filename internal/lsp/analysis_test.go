package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/values"
)

func TestNodeAt(t *testing.T) {
	one := &ast.Expression{Data: &ast.Integer{Value: values.NewInteger(1)}, Span: token.Span{Start: 0, End: 1}}
	two := &ast.Expression{Data: &ast.Integer{Value: values.NewInteger(2)}, Span: token.Span{Start: 4, End: 5}}
	sum := &ast.Expression{
		Data: &ast.BinaryOperation{Operator: ast.OpAdd, Left: one, Right: two},
		Span: token.Span{Start: 0, End: 5},
	}

	tests := []struct {
		name   string
		offset int
		want   *ast.Expression
	}{
		{"left operand", 0, one},
		{"right operand", 5, two},
		{"operator", 2, sum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, nodeAt(sum, tt.offset).expr)
		})
	}

	assert.Equal(t, node{}, nodeAt(sum, 9))
}

func TestNodeAtPrefersOuterNodeOnEqualSpans(t *testing.T) {
	inner := &ast.Expression{Data: &ast.Integer{Value: values.NewInteger(7)}, Span: token.Span{Start: 2, End: 5}}
	outer := &ast.Expression{
		Data: &ast.Statements{Statements: []*ast.Expression{inner}},
		Span: token.Span{Start: 2, End: 5},
	}

	found := nodeAt(outer, 3)
	require.NotNil(t, found.expr)
	assert.Same(t, outer, found.expr)
}
