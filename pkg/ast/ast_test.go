package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/values"
)

func intExpr(n int64, span token.Span) *Expression {
	return New(&Integer{Value: values.NewInteger(n)}, span)
}

func TestEqualIgnoresSpan(t *testing.T) {
	a := New(&BinaryOperation{
		Operator: OpAdd,
		Left:     intExpr(1, token.NewSpan(0, 1)),
		Right:    intExpr(2, token.NewSpan(4, 5)),
	}, token.NewSpan(0, 5))
	b := New(&BinaryOperation{
		Operator: OpAdd,
		Left:     intExpr(1, token.Span{}),
		Right:    intExpr(2, token.NewSpan(40, 50)),
	}, token.NewSpan(7, 9))
	b.Wrap()
	b.Type = types.Integer()

	assert.True(t, Equal(a, b))

	c := New(&BinaryOperation{
		Operator: OpSubtract,
		Left:     intExpr(1, token.Span{}),
		Right:    intExpr(2, token.Span{}),
	}, token.Span{})
	assert.False(t, Equal(a, c))
}

func TestEqualVariants(t *testing.T) {
	id := VariableID(3)
	other := VariableID(4)
	decl := func(id *VariableID) *Expression {
		return New(&VariableDeclaration{ID: id, Kind: Var, Name: "x", Init: intExpr(1, token.Span{})}, token.Span{})
	}
	assert.True(t, Equal(decl(&id), decl(&id)))
	assert.False(t, Equal(decl(&id), decl(&other)))
	assert.False(t, Equal(decl(&id), decl(nil)))

	u8 := corelib.Integer(corelib.U8).Address()
	va := New(&VariantAccess{Base: ResolvedPointer(corelib.Integer(0).Address()), Name: "integer", Variant: "u8"}, token.Span{})
	vb := New(&VariantAccess{Base: ResolvedPointer(u8), Name: "integer", Variant: "u8"}, token.Span{})
	assert.False(t, Equal(va, vb))

	ta := NewType(&Union{Members: []*TypeExpression{
		NewType(&Literal{Name: "integer", Variant: "u8"}, token.NewSpan(1, 2)),
		NewType(&Null{}, token.Span{}),
	}}, token.Span{})
	tb := NewType(&Union{Members: []*TypeExpression{
		NewType(&Literal{Name: "integer", Variant: "u8"}, token.Span{}),
		NewType(&Null{}, token.NewSpan(3, 4)),
	}}, token.Span{})
	assert.True(t, EqualType(ta, tb))
	assert.Equal(t, "integer/u8", (&Literal{Name: "integer", Variant: "u8"}).FullName())
}

func TestStaticValue(t *testing.T) {
	list := New(&List{Items: []*Expression{
		intExpr(1, token.Span{}),
		New(&Text{Value: "a"}, token.Span{}),
		New(&Map{Entries: []MapEntry{{
			Key:   New(&Text{Value: "k"}, token.Span{}),
			Value: New(&Null{}, token.Span{}),
		}}}, token.Span{}),
	}}, token.Span{})

	v, err := StaticValue(list)
	require.NoError(t, err)
	assert.Equal(t, `[1, "a", {"k": null}]`, v.String())

	neg, err := StaticValue(New(&UnaryOperation{Operator: UnaryMinus, Expression: intExpr(5, token.Span{})}, token.Span{}))
	require.NoError(t, err)
	assert.Equal(t, "-5", neg.String())

	tests := []struct {
		name string
		expr *Expression
	}{
		{"identifier", New(&Identifier{Name: "x"}, token.Span{})},
		{"not", New(&UnaryOperation{Operator: UnaryNot, Expression: New(&Boolean{Value: true}, token.Span{})}, token.Span{})},
		{"minus text", New(&UnaryOperation{Operator: UnaryMinus, Expression: New(&Text{Value: "a"}, token.Span{})}, token.Span{})},
		{"nested", New(&List{Items: []*Expression{New(&Identifier{Name: "y"}, token.Span{})}}, token.Span{})},
		{"overflow", New(&UnaryOperation{Operator: UnaryMinus, Expression: New(&TypedInteger{Value: values.MustTypedInteger(128, corelib.U8)}, token.Span{})}, token.Span{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := StaticValue(tt.expr)
				assert.ErrorIs(t, err, ErrNonStaticValue)
			})
		})
	}
}
