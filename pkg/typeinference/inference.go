// Package typeinference infers a type for every node of a precompiled AST.
//
// Literals get singleton structural types (42 has the type "the integer
// 42"), binary operations unify on base types, and type declarations
// back-patch the nominal references registered during hoisting. Inferred
// types are written to Expression.Type and TypeExpression.Type, and variable
// types to the shared metadata table.
package typeinference

import (
	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// Options configures an inference pass.
type Options struct {
	// DetailedErrors collects every error instead of stopping at the first.
	DetailedErrors bool
}

// TypeInference runs inference against one metadata table. It holds no
// other state and is cheap to construct per call.
type TypeInference struct {
	visitor.Base

	metadata *metadata.AstMetadata
	errors   *DetailedTypeErrors
}

// New returns a TypeInference reading and updating md.
func New(md *metadata.AstMetadata) *TypeInference {
	return &TypeInference{metadata: md}
}

// Infer infers the type of e and all its children.
//
// In simple mode the first error is returned as a *SpannedTypeError. In
// detailed mode failing nodes are typed never, the pass completes, and all
// errors are returned as a *DetailedTypeErrors next to the inferred type.
func (ti *TypeInference) Infer(e *ast.Expression, opts Options) (types.Container, error) {
	ti.errors = nil
	if opts.DetailedErrors {
		ti.errors = &DetailedTypeErrors{}
	}
	t, err := ti.infer(e)
	if ti.errors.HasErrors() {
		return t, ti.errors
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// InferExpressionTypeSimple infers e, stopping at the first error.
func InferExpressionTypeSimple(e *ast.Expression, md *metadata.AstMetadata) (types.Container, error) {
	return New(md).Infer(e, Options{})
}

// InferExpressionTypeDetailed infers e, collecting all errors.
func InferExpressionTypeDetailed(e *ast.Expression, md *metadata.AstMetadata) (types.Container, error) {
	return New(md).Infer(e, Options{DetailedErrors: true})
}

func (ti *TypeInference) infer(e *ast.Expression) (types.Container, error) {
	if err := visitor.WalkExpression(ti, e); err != nil {
		return nil, err
	}
	if e.Type == nil {
		return types.Never(), nil
	}
	return e.Type, nil
}

func (ti *TypeInference) inferType(t *ast.TypeExpression) (types.Container, error) {
	if err := visitor.WalkTypeExpression(ti, t); err != nil {
		return nil, err
	}
	if t.Type == nil {
		return types.Never(), nil
	}
	return t.Type, nil
}

func (ti *TypeInference) variableType(id ast.VariableID) types.Container {
	if t := ti.metadata.VariableType(id); t != nil {
		return t
	}
	return types.Never()
}

func mark(e *ast.Expression, t types.Container) (visitor.ExpressionAction, error) {
	e.Type = t
	return visitor.Skip[ast.Expression](), nil
}

func fail(e *ast.Expression, err *TypeError) (visitor.ExpressionAction, error) {
	return visitor.ExpressionAction{}, newSpanned(err, e.Span)
}

// HandleExpressionError records err in detailed mode and types the node never.
func (ti *TypeInference) HandleExpressionError(err error, e *ast.Expression) (visitor.ExpressionAction, error) {
	if ti.errors == nil {
		return visitor.ExpressionAction{}, err
	}
	ti.errors.add(err)
	return mark(e, types.Never())
}

// ---------- Literals ----------

// VisitNull implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitNull(e *ast.Expression, n *ast.Null) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitBoolean implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitBoolean(e *ast.Expression, n *ast.Boolean) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitText implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitText(e *ast.Expression, n *ast.Text) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitInteger implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitInteger(e *ast.Expression, n *ast.Integer) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitTypedInteger implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitTypedInteger(e *ast.Expression, n *ast.TypedInteger) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitDecimal implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitDecimal(e *ast.Expression, n *ast.Decimal) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitTypedDecimal implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitTypedDecimal(e *ast.Expression, n *ast.TypedDecimal) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

// VisitEndpoint implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitEndpoint(e *ast.Expression, n *ast.Endpoint) (visitor.ExpressionAction, error) {
	return ti.literal(e, n)
}

func (ti *TypeInference) literal(e *ast.Expression, data ast.TypeExpressionData) (visitor.ExpressionAction, error) {
	v, ok := ast.LiteralValue(&ast.TypeExpression{Data: data})
	if !ok {
		return mark(e, types.Never())
	}
	return mark(e, types.Literal(v))
}

// ---------- Variables ----------

// VisitVariableAccess types a read with the variable's recorded type. A type
// name therefore evaluates to its nominal reference.
func (ti *TypeInference) VisitVariableAccess(e *ast.Expression, n *ast.VariableAccess) (visitor.ExpressionAction, error) {
	return mark(e, ti.variableType(n.ID))
}

// VisitIdentifier implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitIdentifier(e *ast.Expression, _ *ast.Identifier) (visitor.ExpressionAction, error) {
	// left over by a failed resolution in detailed mode
	return mark(e, types.Never())
}

// VisitVariableDeclaration implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitVariableDeclaration(e *ast.Expression, n *ast.VariableDeclaration) (visitor.ExpressionAction, error) {
	if n.ID == nil {
		panic("typeinference: variable declaration without id: " + n.Name)
	}
	actual, err := ti.infer(n.Init)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	if n.TypeAnnotation != nil {
		// the annotation is trusted, not checked against the init expression
		actual, err = ti.inferType(n.TypeAnnotation)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
	}
	ti.metadata.UpdateVariableType(*n.ID, actual)
	return mark(e, actual)
}

// VisitVariableAssignment implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitVariableAssignment(e *ast.Expression, n *ast.VariableAssignment) (visitor.ExpressionAction, error) {
	assigned, err := ti.infer(n.Expression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	if n.ID == nil {
		// unresolved target, already reported by the precompiler
		return mark(e, types.Never())
	}
	v, _ := ti.metadata.Variable(*n.ID)
	if v.Shape.IsType {
		return fail(e, &TypeError{Kind: AssignmentToConstant, Name: n.Name})
	}
	annotated := ti.variableType(*n.ID)

	if n.Operator == ast.Assign {
		if v.Annotated && !types.Matches(assigned, annotated) {
			return fail(e, &TypeError{Kind: AssignmentTypeMismatch, Annotated: annotated, Assigned: assigned})
		}
		return mark(e, annotated)
	}
	if !sameBase(annotated, assigned) {
		return fail(e, &TypeError{
			Kind:     MismatchedOperands,
			Operator: n.Operator.String(),
			Left:     annotated,
			Right:    assigned,
		})
	}
	return mark(e, annotated)
}

// VisitTypeDeclaration implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitTypeDeclaration(e *ast.Expression, n *ast.TypeDeclaration) (visitor.ExpressionAction, error) {
	if n.ID == nil {
		panic("typeinference: type declaration without id: " + n.Name)
	}
	ref, ok := ti.metadata.VariableType(*n.ID).(*types.Reference)
	if !ok {
		panic("typeinference: type declaration " + n.Name + " has no registered reference")
	}
	inferred, err := ti.inferType(n.Value)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	switch t := inferred.(type) {
	case types.Type:
		ref.SetValue(t)
	case *types.Reference:
		ref.SetValue(types.ReferenceTo(t))
	}
	return mark(e, ref)
}

// VisitTypeValue implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitTypeValue(e *ast.Expression, n *ast.TypeValue) (visitor.ExpressionAction, error) {
	inner, err := ti.inferType(n.Value)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	return mark(e, types.Type{Definition: types.TypeOf{Inner: inner}})
}

// VisitFunctionDeclaration implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitFunctionDeclaration(e *ast.Expression, n *ast.FunctionDeclaration) (visitor.ExpressionAction, error) {
	params := make([]types.Parameter, len(n.Parameters))
	for i, p := range n.Parameters {
		var t types.Container = types.Unknown()
		if p.Type != nil {
			var err error
			if t, err = ti.inferType(p.Type); err != nil {
				return visitor.ExpressionAction{}, err
			}
		}
		if p.ID != nil {
			ti.metadata.UpdateVariableType(*p.ID, t)
		}
		params[i] = types.Parameter{Name: p.Name, Type: t}
	}

	var ret types.Container
	if n.ReturnType != nil {
		var err error
		if ret, err = ti.inferType(n.ReturnType); err != nil {
			return visitor.ExpressionAction{}, err
		}
	}
	// declared before the body is inferred so recursive calls see it
	fn := types.Type{Definition: types.Function{Parameters: params, Return: ret}}
	if n.ID != nil {
		ti.metadata.UpdateVariableType(*n.ID, fn)
	}
	body, err := ti.infer(n.Body)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	if ret == nil {
		fn = types.Type{Definition: types.Function{Parameters: params, Return: body}}
		if n.ID != nil {
			ti.metadata.UpdateVariableType(*n.ID, fn)
		}
	}
	return mark(e, fn)
}

// ---------- Blocks ----------

// VisitStatements implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitStatements(e *ast.Expression, n *ast.Statements) (visitor.ExpressionAction, error) {
	var result types.Container = types.Never()
	for i, stmt := range n.Statements {
		t, err := ti.infer(stmt)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
		if !n.IsTerminated && i == len(n.Statements)-1 {
			result = t
		}
	}
	return mark(e, result)
}

// VisitConditional implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitConditional(e *ast.Expression, n *ast.Conditional) (visitor.ExpressionAction, error) {
	if _, err := ti.infer(n.Condition); err != nil {
		return visitor.ExpressionAction{}, err
	}
	then, err := ti.infer(n.Then)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	var otherwise types.Container = types.Null()
	if n.Else != nil {
		if otherwise, err = ti.infer(n.Else); err != nil {
			return visitor.ExpressionAction{}, err
		}
	}
	if types.Equal(then, otherwise) {
		return mark(e, then)
	}
	return mark(e, types.UnionOf(then, otherwise))
}

// VisitList implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitList(e *ast.Expression, n *ast.List) (visitor.ExpressionAction, error) {
	items := make([]types.Container, len(n.Items))
	for i, item := range n.Items {
		t, err := ti.infer(item)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
		items[i] = t
	}
	return mark(e, types.ListOf(items...))
}

// VisitMap implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitMap(e *ast.Expression, n *ast.Map) (visitor.ExpressionAction, error) {
	entries := make([]types.Entry, len(n.Entries))
	for i, entry := range n.Entries {
		k, err := ti.infer(entry.Key)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
		v, err := ti.infer(entry.Value)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
		entries[i] = types.Entry{Key: k, Value: v}
	}
	return mark(e, types.MapOf(entries...))
}

// ---------- Operations ----------

// sameBase reports whether a and b share a nominal root.
func sameBase(a, b types.Container) bool {
	ba, bb := types.BaseType(a), types.BaseType(b)
	return ba != nil && ba == bb
}

// VisitBinaryOperation implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitBinaryOperation(e *ast.Expression, n *ast.BinaryOperation) (visitor.ExpressionAction, error) {
	left, err := ti.infer(n.Left)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	right, err := ti.infer(n.Right)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	if sameBase(left, right) {
		return mark(e, types.BaseType(left))
	}
	// mismatches degrade to never without a diagnostic
	return mark(e, types.Never())
}

// VisitComparisonOperation implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitComparisonOperation(e *ast.Expression, n *ast.ComparisonOperation) (visitor.ExpressionAction, error) {
	if _, err := ti.infer(n.Left); err != nil {
		return visitor.ExpressionAction{}, err
	}
	if _, err := ti.infer(n.Right); err != nil {
		return visitor.ExpressionAction{}, err
	}
	return mark(e, types.Boolean())
}

// VisitUnaryOperation implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitUnaryOperation(e *ast.Expression, n *ast.UnaryOperation) (visitor.ExpressionAction, error) {
	inner, err := ti.infer(n.Expression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	if n.Operator == ast.UnaryNot {
		return mark(e, types.Boolean())
	}
	if base := types.BaseType(inner); base != nil {
		return mark(e, base)
	}
	return mark(e, types.Never())
}

// VisitApplyChain implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitApplyChain(e *ast.Expression, n *ast.ApplyChain) (visitor.ExpressionAction, error) {
	current, err := ti.infer(n.Base)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	for _, op := range n.Operations {
		arg, err := ti.infer(op.Expression)
		if err != nil {
			return visitor.ExpressionAction{}, err
		}
		current = applyResult(current, op.Kind, arg)
	}
	return mark(e, current)
}

// applyResult is the type of one apply-chain link. Links that cannot be
// resolved statically are unknown.
func applyResult(target types.Container, kind ast.ApplyKind, arg types.Container) types.Container {
	t, ok := target.(types.Type)
	if !ok {
		return types.Unknown()
	}
	switch kind {
	case ast.FunctionCall:
		if fn, ok := t.Definition.(types.Function); ok {
			if fn.Return == nil {
				return types.Unit()
			}
			return fn.Return
		}
	case ast.PropertyAccess:
		if s, ok := t.Definition.(types.Structural); ok && s.Kind == types.StructuralMap {
			for _, entry := range s.Entries {
				if types.Equal(entry.Key, arg) {
					return entry.Value
				}
			}
		}
	}
	return types.Unknown()
}

// VisitRemoteExecution implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitRemoteExecution(e *ast.Expression, n *ast.RemoteExecution) (visitor.ExpressionAction, error) {
	if _, err := ti.infer(n.Left); err != nil {
		return visitor.ExpressionAction{}, err
	}
	right, err := ti.infer(n.Right)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	return mark(e, right)
}
