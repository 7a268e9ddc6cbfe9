package precompiler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/testutil"
	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/precompiler"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/typeinference"
	"github.com/unyt-org/datex-go/pkg/values"
)

// ---------- Helpers ----------

func e(d ast.ExpressionData) *ast.Expression          { return ast.New(d, token.Span{}) }
func ty(d ast.TypeExpressionData) *ast.TypeExpression { return ast.NewType(d, token.Span{}) }
func num(n int64) *ast.Expression                     { return e(&ast.Integer{Value: values.NewInteger(n)}) }
func tnum(n int64) *ast.TypeExpression                { return ty(&ast.Integer{Value: values.NewInteger(n)}) }
func id(n ast.VariableID) *ast.VariableID             { return &n }

func access(n ast.VariableID, name string) *ast.Expression {
	return e(&ast.VariableAccess{ID: n, Name: name})
}

func taccess(n ast.VariableID, name string) *ast.TypeExpression {
	return ty(&ast.VariableAccess{ID: n, Name: name})
}

func typeDecl(n ast.VariableID, name string, value *ast.TypeExpression, hoisted bool) *ast.Expression {
	return e(&ast.TypeDeclaration{ID: id(n), Name: name, Value: value, Hoisted: hoisted})
}

func parse(t *testing.T, src string) *parser.ValidParseResult {
	t.Helper()
	res, err := parser.Parse(src)
	require.NoError(t, err, src)
	return res
}

func precompile(t *testing.T, src string) (*precompiler.RichAst, error) {
	t.Helper()
	return precompiler.Precompile(parse(t, src), precompiler.Options{Logger: testutil.NewTestLogger(t)})
}

func mustPrecompile(t *testing.T, src string) *precompiler.RichAst {
	t.Helper()
	rich, err := precompile(t, src)
	require.NoError(t, err, src)
	return rich
}

// compilerError extracts the single error of a simple pass.
func compilerError(t *testing.T, err error) *precompiler.SpannedCompilerError {
	t.Helper()
	require.Error(t, err)
	var spanned *precompiler.SpannedCompilerError
	require.True(t, errors.As(err, &spanned), "unexpected error type %T", err)
	return spanned
}

func statements(t *testing.T, rich *precompiler.RichAst) []*ast.Expression {
	t.Helper()
	stmts, ok := rich.AST.Data.(*ast.Statements)
	require.True(t, ok, "expected statements, got %T", rich.AST.Data)
	return stmts.Statements
}

// ---------- Resolution ----------

func TestUndeclaredVariable(t *testing.T) {
	_, err := precompile(t, "x + 42")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.UndeclaredVariable, spanned.Err.Kind)
	assert.Equal(t, "x", spanned.Err.Name)
	require.NotNil(t, spanned.Span)
	assert.Equal(t, token.NewSpan(0, 1), *spanned.Span)
	assert.Equal(t, "Use of undeclared variable: x at 0..1", err.Error())
}

func TestScopedVariable(t *testing.T) {
	_, err := precompile(t, "(var z = 42;z); z")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.UndeclaredVariable, spanned.Err.Kind)
	assert.Equal(t, "z", spanned.Err.Name)
}

func TestCoreTypes(t *testing.T) {
	tests := []struct {
		src string
		id  corelib.ID
	}{
		{"boolean", corelib.Boolean},
		{"integer", corelib.Integer(0)},
		{"text", corelib.Text},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			rich := mustPrecompile(t, tt.src)
			ref, ok := rich.AST.Data.(*ast.GetReference)
			require.True(t, ok, "got %T", rich.AST.Data)
			assert.Equal(t, tt.id.Address(), ref.Address)
		})
	}
}

func TestVariantAccess(t *testing.T) {
	integer := corelib.Integer(0).Address()

	t.Run("core variant", func(t *testing.T) {
		rich := mustPrecompile(t, "integer/u8")
		want := e(&ast.VariantAccess{Base: ast.ResolvedPointer(integer), Name: "integer", Variant: "u8"})
		assert.True(t, ast.Equal(want, rich.AST))
	})

	t.Run("unknown core variant is left to type inference", func(t *testing.T) {
		rich := mustPrecompile(t, "integer/invalid")
		want := e(&ast.VariantAccess{Base: ast.ResolvedPointer(integer), Name: "integer", Variant: "invalid"})
		assert.True(t, ast.Equal(want, rich.AST))
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := precompile(t, "invalid/u8")
		spanned := compilerError(t, err)
		assert.Equal(t, precompiler.UndeclaredVariable, spanned.Err.Kind)
		assert.Equal(t, "invalid", spanned.Err.Name)
	})

	t.Run("variant without base type", func(t *testing.T) {
		_, err := precompile(t, "type User/admin = {}; User/admin")
		spanned := compilerError(t, err)
		assert.Equal(t, precompiler.UndeclaredVariable, spanned.Err.Kind)
		assert.Equal(t, "User", spanned.Err.Name)
	})

	t.Run("declared variant", func(t *testing.T) {
		rich := mustPrecompile(t, "type User = {}; type User/admin = {}; User/admin")
		want := e(&ast.Statements{Statements: []*ast.Expression{
			typeDecl(0, "User", ty(&ast.StructuralMap{}), true),
			typeDecl(1, "User/admin", ty(&ast.StructuralMap{}), true),
			e(&ast.VariantAccess{Base: ast.ResolvedID(0), Name: "User", Variant: "admin"}),
		}})
		assert.True(t, ast.Equal(want, rich.AST))
	})

	t.Run("undeclared user variant", func(t *testing.T) {
		_, err := precompile(t, "type User = {}; User/guest")
		spanned := compilerError(t, err)
		assert.Equal(t, precompiler.SubvariantNotFound, spanned.Err.Kind)
		assert.Equal(t, "Subvariant guest does not exist for User", spanned.Err.Error())
	})

	t.Run("division of values", func(t *testing.T) {
		rich := mustPrecompile(t, "var a = 42; var b = 69; a/b")
		want := e(&ast.BinaryOperation{Operator: ast.OpDivide, Left: access(0, "a"), Right: access(1, "b")})
		assert.True(t, ast.Equal(want, statements(t, rich)[2]))
	})

	t.Run("division of value by type", func(t *testing.T) {
		rich := mustPrecompile(t, "var a = 10; type b = 42; a/b")
		want := e(&ast.BinaryOperation{Operator: ast.OpDivide, Left: access(1, "a"), Right: access(0, "b")})
		assert.True(t, ast.Equal(want, statements(t, rich)[2]))
	})
}

// ---------- Declarations ----------

func TestTypeDeclarationAssignment(t *testing.T) {
	want := func(first, second *ast.Expression) *ast.Expression {
		return e(&ast.Statements{IsTerminated: true, Statements: []*ast.Expression{first, second}})
	}
	varX := e(&ast.VariableDeclaration{ID: id(1), Kind: ast.Var, Name: "x", Init: access(0, "MyInt")})
	myInt := typeDecl(0, "MyInt", tnum(1), true)

	rich := mustPrecompile(t, "type MyInt = 1; var x = MyInt;")
	assert.True(t, ast.Equal(want(myInt, varX), rich.AST))

	rich = mustPrecompile(t, "var x = MyInt; type MyInt = 1;")
	assert.True(t, ast.Equal(want(varX, myInt), rich.AST))
}

func TestHoistedCrossReference(t *testing.T) {
	rich := mustPrecompile(t, "type x = MyInt; type MyInt = x;")
	want := e(&ast.Statements{IsTerminated: true, Statements: []*ast.Expression{
		typeDecl(0, "x", taccess(1, "MyInt"), true),
		typeDecl(1, "MyInt", taccess(0, "x"), true),
	}})
	assert.True(t, ast.Equal(want, rich.AST))
}

func TestNestedTypeDeclaration(t *testing.T) {
	_, err := precompile(t, "type x = NestedVar; (1; type NestedVar = x;)")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.UndeclaredVariable, spanned.Err.Kind)
	assert.Equal(t, "NestedVar", spanned.Err.Name)

	rich := mustPrecompile(t, "type x = 10; (1; type NestedVar = x;)")
	want := e(&ast.Statements{Statements: []*ast.Expression{
		typeDecl(0, "x", tnum(10), true),
		e(&ast.Statements{IsTerminated: true, Statements: []*ast.Expression{
			num(1),
			typeDecl(1, "NestedVar", taccess(0, "x"), true),
		}}),
	}})
	assert.True(t, ast.Equal(want, rich.AST))
}

func TestHoistedTypesStayInTheirBlock(t *testing.T) {
	_, err := precompile(t, "(1; type Inner = 1;); Inner")
	spanned := compilerError(t, err)
	assert.Equal(t, "Inner", spanned.Err.Name)
}

func TestCoreReferenceType(t *testing.T) {
	rich := mustPrecompile(t, "type x = integer")
	want := typeDecl(0, "x", ty(&ast.GetReference{Address: corelib.Integer(0).Address()}), false)
	assert.True(t, ast.Equal(want, rich.AST))

	rich = mustPrecompile(t, "var y: integer/u8 = 1")
	decl := rich.AST.Data.(*ast.VariableDeclaration)
	assert.True(t, ast.EqualType(ty(&ast.GetReference{Address: corelib.Integer(corelib.U8).Address()}), decl.TypeAnnotation))

	v, ok := rich.Metadata.Variable(0)
	require.True(t, ok)
	assert.True(t, v.Annotated)
}

func TestTypeVariantNotFound(t *testing.T) {
	_, err := precompile(t, "var y: integer/u7 = 1")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.SubvariantNotFound, spanned.Err.Kind)
	assert.Equal(t, "u7", spanned.Err.Variant)
}

func TestDeclarationSeesItsOwnBinding(t *testing.T) {
	rich := mustPrecompile(t, "var x = 1; var x = x")
	decl := statements(t, rich)[1].Data.(*ast.VariableDeclaration)
	require.NotNil(t, decl.ID)
	assert.Equal(t, ast.VariableID(1), *decl.ID)
	assert.True(t, ast.Equal(access(1, "x"), decl.Init))
}

func TestFunctionDeclaration(t *testing.T) {
	rich := mustPrecompile(t, "function add(a: integer, b: integer) -> integer (a + b); add")
	stmts := statements(t, rich)

	fn := stmts[0].Data.(*ast.FunctionDeclaration)
	require.NotNil(t, fn.ID)
	assert.Equal(t, ast.VariableID(0), *fn.ID)
	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, ast.VariableID(1), *fn.Parameters[0].ID)
	assert.Equal(t, ast.VariableID(2), *fn.Parameters[1].ID)
	body := e(&ast.BinaryOperation{Operator: ast.OpAdd, Left: access(1, "a"), Right: access(2, "b")})
	assert.True(t, ast.Equal(body, fn.Body))

	assert.True(t, ast.Equal(access(0, "add"), stmts[1]))

	_, err := precompile(t, "function f(a: integer) (a); a")
	spanned := compilerError(t, err)
	assert.Equal(t, "a", spanned.Err.Name)
}

// ---------- Errors ----------

func TestAssignmentToConst(t *testing.T) {
	_, err := precompile(t, "const x = 1; x = 2;")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.AssignmentToConst, spanned.Err.Kind)

	rich, err := precompiler.PrecompileDetailed(parse(t, "const x = 1; x = 2;"))
	require.NotNil(t, rich)
	var detailed *precompiler.DetailedCompilerErrors
	require.True(t, errors.As(err, &detailed))
	require.Len(t, detailed.Errors, 1)
	assert.Equal(t, precompiler.AssignmentToConst, detailed.Errors[0].Err.Kind)
	assert.Equal(t, "Cannot assign to immutable variable: x", detailed.Errors[0].Err.Error())

	assign := statements(t, rich)[1].Data.(*ast.VariableAssignment)
	require.NotNil(t, assign.ID)
	assert.Equal(t, ast.VariableID(0), *assign.ID)
}

func TestInvalidRedeclaration(t *testing.T) {
	_, err := precompile(t, "type A = 1; type A = 2;")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.InvalidRedeclaration, spanned.Err.Kind)
	assert.Equal(t, "Invalid redeclaration of A", spanned.Err.Error())
}

func TestDetailedCollectsAllErrors(t *testing.T) {
	rich, err := precompiler.PrecompileDetailed(parse(t, "x; y; const c = 1; c = 2; var a: integer = 1; a = 'no';"))
	require.NotNil(t, rich)

	var detailed *precompiler.DetailedCompilerErrors
	require.True(t, errors.As(err, &detailed))
	kinds := make([]precompiler.ErrorKind, len(detailed.Errors))
	for i, e := range detailed.Errors {
		kinds[i] = e.Err.Kind
	}
	assert.Equal(t, []precompiler.ErrorKind{
		precompiler.UndeclaredVariable,
		precompiler.UndeclaredVariable,
		precompiler.AssignmentToConst,
		precompiler.TypeError,
	}, kinds)
	require.NotNil(t, detailed.Errors[3].Err.Type)
	assert.Equal(t, typeinference.AssignmentTypeMismatch, detailed.Errors[3].Err.Type.Kind)
}

func TestDetailedUndeclaredDivision(t *testing.T) {
	_, err := precompiler.PrecompileDetailed(parse(t, "a/b"))
	var detailed *precompiler.DetailedCompilerErrors
	require.True(t, errors.As(err, &detailed))
	require.Len(t, detailed.Errors, 2)
	assert.Equal(t, "a", detailed.Errors[0].Err.Name)
	assert.Equal(t, "b", detailed.Errors[1].Err.Name)
	assert.Equal(t, token.NewSpan(2, 3), *detailed.Errors[1].Span)
}

func TestNamedSlots(t *testing.T) {
	rich := mustPrecompile(t, "#endpoint")
	slot := rich.AST.Data.(*ast.Slot)
	assert.Equal(t, precompiler.EndpointSlot, slot.Index)

	_, err := precompile(t, "#unknown")
	spanned := compilerError(t, err)
	assert.Equal(t, precompiler.InvalidSlotName, spanned.Err.Kind)
	assert.Equal(t, "Slot #unknown does not exist", spanned.Err.Error())
}

// ---------- Spans and realms ----------

func TestSpansAreRewrittenToBytes(t *testing.T) {
	rich := mustPrecompile(t, "var x = 42")
	assert.Equal(t, token.NewSpan(0, 10), rich.AST.Span)
	decl := rich.AST.Data.(*ast.VariableDeclaration)
	assert.Equal(t, token.NewSpan(8, 10), decl.Init.Span)

	v, _ := rich.Metadata.Variable(0)
	assert.Equal(t, token.NewSpan(0, 10), v.Span)
}

func TestRemoteExecutionMarksCrossRealm(t *testing.T) {
	rich := mustPrecompile(t, "var x = 1; var y = 2; @example :: x; y")
	x, _ := rich.Metadata.Variable(0)
	y, _ := rich.Metadata.Variable(1)
	assert.True(t, x.IsCrossRealm)
	assert.False(t, y.IsCrossRealm)
	assert.Equal(t, 0, x.OriginalRealm)
}

func TestContinueWithScopes(t *testing.T) {
	md := metadata.New()
	scopes := precompiler.NewScopeStack()

	_, err := precompiler.Precompile(parse(t, "var x = 1"), precompiler.Options{Metadata: md, Scopes: scopes})
	require.NoError(t, err)

	rich, err := precompiler.Precompile(parse(t, "x"), precompiler.Options{Metadata: md, Scopes: scopes})
	require.NoError(t, err)
	assert.True(t, ast.Equal(access(0, "x"), rich.AST))
	assert.Same(t, md, rich.Metadata)
}
