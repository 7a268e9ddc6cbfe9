package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/pointer"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/values"
)

// ---------- Builders ----------

func e(d ast.ExpressionData) *ast.Expression          { return ast.New(d, token.Span{}) }
func ty(d ast.TypeExpressionData) *ast.TypeExpression { return ast.NewType(d, token.Span{}) }
func num(n int64) *ast.Expression                     { return e(&ast.Integer{Value: values.NewInteger(n)}) }
func ident(name string) *ast.Expression               { return e(&ast.Identifier{Name: name}) }
func text(s string) *ast.Expression                   { return e(&ast.Text{Value: s}) }
func lit(name string) *ast.TypeExpression             { return ty(&ast.Literal{Name: name}) }

func bin(op ast.BinaryOperator, l, r *ast.Expression) *ast.Expression {
	return e(&ast.BinaryOperation{Operator: op, Left: l, Right: r})
}

func mustParse(t *testing.T, src string) *ast.Expression {
	t.Helper()
	res, err := parser.Parse(src)
	require.NoError(t, err, src)
	require.NotNil(t, res.AST)
	return res.AST
}

// ---------- Expressions ----------

func TestParseExpressions(t *testing.T) {
	fraction, err := values.DecimalFromFraction(values.NewInteger(3), values.NewInteger(4))
	require.NoError(t, err)
	addr, err := pointer.Parse("$abcdef")
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want *ast.Expression
	}{
		{
			name: "precedence",
			src:  "1 + 2 * 3",
			want: bin(ast.OpAdd, num(1), bin(ast.OpMultiply, num(2), num(3))),
		},
		{
			name: "left associative",
			src:  "1 - 2 - 3",
			want: bin(ast.OpSubtract, bin(ast.OpSubtract, num(1), num(2)), num(3)),
		},
		{
			name: "power is right associative",
			src:  "2 ^ 3 ^ 2",
			want: bin(ast.OpPower, num(2), bin(ast.OpPower, num(3), num(2))),
		},
		{
			name: "logical below comparison",
			src:  "a == 1 && b",
			want: bin(ast.OpAnd, e(&ast.ComparisonOperation{Operator: ast.CmpEqual, Left: ident("a"), Right: num(1)}), ident("b")),
		},
		{
			name: "is",
			src:  "x is integer",
			want: e(&ast.ComparisonOperation{Operator: ast.CmpIs, Left: ident("x"), Right: ident("integer")}),
		},
		{
			name: "variant access is a division before resolution",
			src:  "integer/u8",
			want: bin(ast.OpDivide, ident("integer"), ident("u8")),
		},
		{
			name: "unary minus",
			src:  "-5",
			want: e(&ast.UnaryOperation{Operator: ast.UnaryMinus, Expression: num(5)}),
		},
		{
			name: "not",
			src:  "!true",
			want: e(&ast.UnaryOperation{Operator: ast.UnaryNot, Expression: e(&ast.Boolean{Value: true})}),
		},
		{
			name: "fraction",
			src:  "3/4",
			want: e(&ast.Decimal{Value: fraction}),
		},
		{
			name: "typed integer",
			src:  "42u8",
			want: e(&ast.TypedInteger{Value: values.MustTypedInteger(42, corelib.U8)}),
		},
		{
			name: "typed decimal from integer digits",
			src:  "2f32",
			want: e(&ast.TypedDecimal{Value: values.MustTypedDecimal(2, corelib.F32)}),
		},
		{
			name: "hex integer",
			src:  "0xff",
			want: num(255),
		},
		{
			name: "text with escapes",
			src:  `"a\nb"`,
			want: text("a\nb"),
		},
		{
			name: "pointer address",
			src:  "$abcdef",
			want: e(&ast.PointerAddress{Address: addr}),
		},
		{
			name: "list with trailing comma",
			src:  "[1, 2,]",
			want: e(&ast.List{Items: []*ast.Expression{num(1), num(2)}}),
		},
		{
			name: "map with name and text keys",
			src:  "{a: 1, 'b': 2}",
			want: e(&ast.Map{Entries: []ast.MapEntry{
				{Key: text("a"), Value: num(1)},
				{Key: text("b"), Value: num(2)},
			}}),
		},
		{
			name: "conditional",
			src:  "if (true) 1 else 2",
			want: e(&ast.Conditional{Condition: e(&ast.Boolean{Value: true}), Then: num(1), Else: num(2)}),
		},
		{
			name: "remote execution binds loosest",
			src:  "@jonas :: 1 + 2",
			want: e(&ast.RemoteExecution{
				Left:  e(&ast.Endpoint{Value: values.Endpoint{Kind: values.Person, Name: "jonas"}}),
				Right: bin(ast.OpAdd, num(1), num(2)),
			}),
		},
		{
			name: "apply chain",
			src:  "f(1).name",
			want: e(&ast.ApplyChain{Base: ident("f"), Operations: []ast.ApplyOperation{
				{Kind: ast.FunctionCall, Expression: num(1)},
				{Kind: ast.PropertyAccess, Expression: text("name")},
			}}),
		},
		{
			name: "generic access needs adjacent angle bracket",
			src:  "List<integer>",
			want: e(&ast.ApplyChain{Base: ident("List"), Operations: []ast.ApplyOperation{
				{Kind: ast.ApplyGeneric, Expression: e(&ast.TypeValue{Value: lit("integer")})},
			}}),
		},
		{
			name: "spaced angle bracket is a comparison",
			src:  "a < b",
			want: e(&ast.ComparisonOperation{Operator: ast.CmpLess, Left: ident("a"), Right: ident("b")}),
		},
		{
			name: "create mutable reference",
			src:  "&mut [1]",
			want: e(&ast.CreateRefMut{Expression: e(&ast.List{Items: []*ast.Expression{num(1)}})}),
		},
		{
			name: "type value",
			src:  "type(integer | text)",
			want: e(&ast.TypeValue{Value: ty(&ast.Union{Members: []*ast.TypeExpression{lit("integer"), lit("text")}})}),
		},
		{
			name: "slot",
			src:  "#endpoint",
			want: e(&ast.Slot{Name: "endpoint"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src)
			assert.True(t, ast.Equal(tt.want, got), "got %#v", got.Data)
		})
	}
}

// ---------- Statements ----------

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *ast.Expression
	}{
		{
			name: "declaration with annotation",
			src:  "var x: integer = 42",
			want: e(&ast.VariableDeclaration{Kind: ast.Var, Name: "x", TypeAnnotation: lit("integer"), Init: num(42)}),
		},
		{
			name: "variant annotation",
			src:  "const x: integer/u8 = 1",
			want: e(&ast.VariableDeclaration{
				Kind:           ast.Const,
				Name:           "x",
				TypeAnnotation: ty(&ast.Literal{Name: "integer", Variant: "u8"}),
				Init:           num(1),
			}),
		},
		{
			name: "block keeps trailing value",
			src:  "const x = 1; x",
			want: e(&ast.Statements{Statements: []*ast.Expression{
				e(&ast.VariableDeclaration{Kind: ast.Const, Name: "x", Init: num(1)}),
				ident("x"),
			}}),
		},
		{
			name: "terminated single statement",
			src:  "x = 1;",
			want: e(&ast.Statements{IsTerminated: true, Statements: []*ast.Expression{
				e(&ast.VariableAssignment{Name: "x", Operator: ast.Assign, Expression: num(1)}),
			}}),
		},
		{
			name: "compound assignment",
			src:  "x += 2",
			want: e(&ast.VariableAssignment{Name: "x", Operator: ast.AddAssign, Expression: num(2)}),
		},
		{
			name: "deref assignment counts stars",
			src:  "**x = 3",
			want: e(&ast.DerefAssignment{Operator: ast.Assign, DerefCount: 2, DerefExpression: ident("x"), AssignedExpression: num(3)}),
		},
		{
			name: "slot assignment",
			src:  "#0 = 1",
			want: e(&ast.SlotAssignment{Slot: ast.Slot{Index: 0}, Expression: num(1)}),
		},
		{
			name: "group with several statements",
			src:  "(1; 2)",
			want: e(&ast.Statements{Statements: []*ast.Expression{num(1), num(2)}}),
		},
		{
			name: "type declaration",
			src:  "type User = {name: text, tags: text[]}",
			want: e(&ast.TypeDeclaration{Name: "User", Value: ty(&ast.StructuralMap{Entries: []ast.StructuralMapEntry{
				{Key: ty(&ast.Text{Value: "name"}), Value: lit("text")},
				{Key: ty(&ast.Text{Value: "tags"}), Value: ty(&ast.SliceList{Element: lit("text")})},
			}})}),
		},
		{
			name: "type declaration with variant",
			src:  "type User/admin = integer",
			want: e(&ast.TypeDeclaration{Name: "User/admin", Value: lit("integer")}),
		},
		{
			name: "reference annotation",
			src:  "var r: &mut integer[3] = y",
			want: e(&ast.VariableDeclaration{
				Kind:           ast.Var,
				Name:           "r",
				TypeAnnotation: ty(&ast.RefMut{Inner: ty(&ast.FixedSizeList{Element: lit("integer"), Size: 3})}),
				Init:           ident("y"),
			}),
		},
		{
			name: "function type annotation",
			src:  "var f: (a: integer) -> text = g",
			want: e(&ast.VariableDeclaration{
				Kind: ast.Var,
				Name: "f",
				TypeAnnotation: ty(&ast.FunctionType{
					Parameters: []ast.TypeParameter{{Name: "a", Type: lit("integer")}},
					ReturnType: lit("text"),
				}),
				Init: ident("g"),
			}),
		},
		{
			name: "function declaration",
			src:  "function inc(a: integer) -> integer (a + 1)",
			want: e(&ast.FunctionDeclaration{
				Name:       "inc",
				Parameters: []ast.Parameter{{Name: "a", Type: lit("integer")}},
				ReturnType: lit("integer"),
				Body:       bin(ast.OpAdd, ident("a"), num(1)),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src)
			assert.True(t, ast.Equal(tt.want, got), "got %#v", got.Data)
		})
	}
}

func TestParseWrappedCount(t *testing.T) {
	got := mustParse(t, "((1))")
	assert.Equal(t, 2, got.WrapCount())

	got = mustParse(t, "1")
	assert.Equal(t, 0, got.WrapCount())
}

// ---------- Spans ----------

func TestParseSpansAreTokenIndices(t *testing.T) {
	res, err := parser.Parse("var x = 42")
	require.NoError(t, err)

	// tokens: var x = 42 EOF
	require.Len(t, res.Spans, 5)
	assert.Equal(t, token.NewSpan(0, 4), res.AST.Span)

	decl, ok := res.AST.Data.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, token.NewSpan(3, 4), decl.Init.Span)
	assert.Equal(t, token.NewSpan(8, 10), res.Spans[3])
}

func TestParseCollectsComments(t *testing.T) {
	res, err := parser.Parse("// the answer\nvar x = 42")
	require.NoError(t, err)
	require.Len(t, res.Comments, 1)
	assert.Equal(t, "// the answer", res.Comments[0].Text)
}

// ---------- Errors ----------

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"missing name", "var = 1", "unexpected token"},
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"missing operand", "1 +", "expected expression, found EOF"},
		{"invalid target", "1 = 2", "invalid assignment target"},
		{"out of range", "256u8", "invalid number literal"},
		{"dangling tokens", "1 2", "unexpected token"},
		{"bad address", "$abc", "invalid pointer address"},
		{"unclosed list", "[1, 2", "unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parser.Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tt.message)

			var perr *parser.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Contains(t, perr.Message, tt.message)
		})
	}
}

func TestParseErrorSpanIsByteRange(t *testing.T) {
	_, err := parser.Parse("1 +")
	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, token.NewSpan(3, 3), perr.Span)
}
