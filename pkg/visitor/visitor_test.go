package visitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/values"
)

func ident(name string) *ast.Expression {
	return ast.New(&ast.Identifier{Name: name}, token.Span{})
}

func integer(n int64) *ast.Expression {
	return ast.New(&ast.Integer{Value: values.NewInteger(n)}, token.Span{})
}

func add(l, r *ast.Expression) *ast.Expression {
	return ast.New(&ast.BinaryOperation{Operator: ast.OpAdd, Left: l, Right: r}, token.Span{})
}

// recorder logs identifier names in visiting order and applies a
// configurable action per name.
type recorder struct {
	Base
	seen    []string
	actions map[string]ExpressionAction
	errs    map[string]error
	after   int
}

func (r *recorder) VisitIdentifier(_ *ast.Expression, n *ast.Identifier) (ExpressionAction, error) {
	r.seen = append(r.seen, n.Name)
	if err, ok := r.errs[n.Name]; ok {
		return ExpressionAction{}, err
	}
	if a, ok := r.actions[n.Name]; ok {
		return a, nil
	}
	return Children[ast.Expression](), nil
}

func (r *recorder) VisitBinaryOperation(_ *ast.Expression, _ *ast.BinaryOperation) (ExpressionAction, error) {
	r.seen = append(r.seen, "+")
	if a, ok := r.actions["+"]; ok {
		return a, nil
	}
	return Children[ast.Expression](), nil
}

func (r *recorder) AfterVisitExpression(*ast.Expression) { r.after++ }

func TestWalkVisitsChildrenInOrder(t *testing.T) {
	root := ast.New(&ast.Statements{Statements: []*ast.Expression{
		add(ident("a"), ident("b")),
		ast.New(&ast.List{Items: []*ast.Expression{ident("c")}}, token.Span{}),
		ast.New(&ast.Map{Entries: []ast.MapEntry{{Key: ident("k"), Value: ident("v")}}}, token.Span{}),
	}}, token.Span{})

	r := &recorder{}
	require.NoError(t, WalkExpression(r, root))
	assert.Equal(t, []string{"+", "a", "b", "c", "k", "v"}, r.seen)
}

func TestSkipChildren(t *testing.T) {
	r := &recorder{actions: map[string]ExpressionAction{"+": Skip[ast.Expression]()}}
	require.NoError(t, WalkExpression(r, add(ident("a"), ident("b"))))
	assert.Equal(t, []string{"+"}, r.seen)
}

func TestToNoop(t *testing.T) {
	e := add(ident("a"), ident("b"))
	r := &recorder{actions: map[string]ExpressionAction{"+": Noop[ast.Expression]()}}
	require.NoError(t, WalkExpression(r, e))
	assert.IsType(t, &ast.Noop{}, e.Data)
	assert.Equal(t, []string{"+"}, r.seen)

	// a second walk sees the noop and does not dispatch
	r2 := &recorder{}
	require.NoError(t, WalkExpression(r2, e))
	assert.Empty(t, r2.seen)
}

func TestReplaceDoesNotRecurse(t *testing.T) {
	e := add(ident("a"), ident("b"))
	replacement := add(ident("x"), ident("y"))
	r := &recorder{actions: map[string]ExpressionAction{"+": ReplaceWith(replacement)}}
	require.NoError(t, WalkExpression(r, e))

	assert.Equal(t, []string{"+"}, r.seen)
	assert.True(t, ast.Equal(replacement, e))
}

func TestReplaceRecurseChildNodes(t *testing.T) {
	e := add(ident("a"), ident("b"))
	r := &recorder{actions: map[string]ExpressionAction{"+": ReplaceAfterChildren(integer(3))}}
	require.NoError(t, WalkExpression(r, e))

	assert.Equal(t, []string{"+", "a", "b"}, r.seen, "old children are visited")
	assert.True(t, ast.Equal(integer(3), e))
}

// rewriter turns x into y and y into z, each via ReplaceRecurse.
type rewriter struct {
	Base
	steps int
}

func (r *rewriter) VisitIdentifier(e *ast.Expression, n *ast.Identifier) (ExpressionAction, error) {
	next := map[string]string{"x": "y", "y": "z"}
	if to, ok := next[n.Name]; ok {
		r.steps++
		return ReplaceAndRevisit(ast.New(&ast.Identifier{Name: to}, e.Span)), nil
	}
	return Children[ast.Expression](), nil
}

func TestReplaceRecurseReachesFixpoint(t *testing.T) {
	e := ast.New(&ast.List{Items: []*ast.Expression{ident("x")}}, token.Span{})
	r := &rewriter{}
	require.NoError(t, WalkExpression(r, e))

	assert.Equal(t, 2, r.steps)
	assert.True(t, ast.Equal(ident("z"), e.Data.(*ast.List).Items[0]))
}

func TestErrorRecoveryAndAbort(t *testing.T) {
	boom := errors.New("boom")

	r := &recorder{errs: map[string]error{"a": WithRecovery(boom, SkipChildren)}}
	require.NoError(t, WalkExpression(r, add(ident("a"), ident("b"))))
	assert.Equal(t, []string{"+", "a", "b"}, r.seen, "walk continues after a recoverable error")

	r = &recorder{errs: map[string]error{"a": boom}}
	err := WalkExpression(r, add(ident("a"), ident("b")))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"+", "a"}, r.seen, "walk aborts on a plain error")
}

// collector records errors instead of aborting.
type collector struct {
	recorder
	collected []error
}

func (c *collector) HandleExpressionError(err error, _ *ast.Expression) (ExpressionAction, error) {
	c.collected = append(c.collected, err)
	return Skip[ast.Expression](), nil
}

func TestHandleExpressionErrorHook(t *testing.T) {
	boom := errors.New("boom")
	c := &collector{recorder: recorder{errs: map[string]error{"a": boom, "b": boom}}}
	require.NoError(t, WalkExpression(c, add(ident("a"), ident("b"))))
	assert.Len(t, c.collected, 2)
}

func TestRecoverPanics(t *testing.T) {
	e := ast.New(&ast.List{Items: []*ast.Expression{ast.New(&ast.Recover{}, token.Span{})}}, token.Span{})
	assert.Panics(t, func() { _ = WalkExpression(&recorder{}, e) })
	assert.Panics(t, func() { _ = WalkExpression(&recorder{}, ast.New(&ast.Placeholder{}, token.Span{})) })
}

// typeNooper turns every type literal into a no-op.
type typeNooper struct {
	Base
	literals int
}

func (n *typeNooper) VisitTypeLiteral(*ast.TypeExpression, *ast.Literal) (TypeAction, error) {
	n.literals++
	return Noop[ast.TypeExpression](), nil
}

func TestTypeExpressionsReachedFromExpressions(t *testing.T) {
	annotation := ast.NewType(&ast.Union{Members: []*ast.TypeExpression{
		ast.NewType(&ast.Literal{Name: "integer"}, token.Span{}),
		ast.NewType(&ast.Literal{Name: "text"}, token.Span{}),
	}}, token.Span{})
	decl := ast.New(&ast.VariableDeclaration{Kind: ast.Var, Name: "x", TypeAnnotation: annotation, Init: integer(1)}, token.Span{})

	n := &typeNooper{}
	require.NoError(t, WalkExpression(n, decl))
	assert.Equal(t, 2, n.literals)
	for _, m := range annotation.Data.(*ast.Union).Members {
		assert.IsType(t, &ast.Null{}, m.Data)
	}
}

func TestInspect(t *testing.T) {
	inner := add(ident("a"), ident("b"))
	root := add(inner, ident("c"))
	var names []string
	Inspect(root, Inspector{Expression: func(e *ast.Expression) bool {
		if id, ok := e.Data.(*ast.Identifier); ok {
			names = append(names, id.Name)
		}
		return e != inner
	}})
	assert.Equal(t, []string{"c"}, names)
}

func TestAfterVisitCalledOncePerNode(t *testing.T) {
	r := &recorder{}
	require.NoError(t, WalkExpression(r, add(ident("a"), ident("b"))))
	assert.Equal(t, 3, r.after)
}
