package visitor

import (
	"fmt"

	"github.com/unyt-org/datex-go/pkg/ast"
)

// WalkExpression visits e with v, applying the returned actions in place.
// It returns the first error v did not recover from.
//
// It panics on Recover and Placeholder nodes, which no pass may see.
func WalkExpression(v ExpressionVisitor, e *ast.Expression) error {
	v.BeforeVisitExpression(e)

	action, err := dispatchExpression(v, e)
	if err != nil {
		action, err = v.HandleExpressionError(err, e)
		if err != nil {
			return err
		}
	}

	switch action.Kind {
	case SkipChildren:
	case ToNoop:
		e.Data = &ast.Noop{}
	case VisitChildren:
		if err := walkExpressionChildren(v, e); err != nil {
			return err
		}
	case Replace:
		*e = *action.Node
	case ReplaceRecurseChildNodes:
		if err := walkExpressionChildren(v, e); err != nil {
			return err
		}
		*e = *action.Node
	case ReplaceRecurse:
		*e = *action.Node
		return WalkExpression(v, e)
	default:
		panic(fmt.Sprintf("visitor: unknown action %d", action.Kind))
	}

	v.AfterVisitExpression(e)
	return nil
}

// WalkTypeExpression visits t with v. ToNoop turns the node into null.
func WalkTypeExpression(v TypeExpressionVisitor, t *ast.TypeExpression) error {
	v.BeforeVisitTypeExpression(t)

	action, err := dispatchType(v, t)
	if err != nil {
		action, err = v.HandleTypeExpressionError(err, t)
		if err != nil {
			return err
		}
	}

	switch action.Kind {
	case SkipChildren:
	case ToNoop:
		t.Data = &ast.Null{}
	case VisitChildren:
		if err := walkTypeChildren(v, t); err != nil {
			return err
		}
	case Replace:
		*t = *action.Node
	case ReplaceRecurseChildNodes:
		if err := walkTypeChildren(v, t); err != nil {
			return err
		}
		*t = *action.Node
	case ReplaceRecurse:
		*t = *action.Node
		return WalkTypeExpression(v, t)
	default:
		panic(fmt.Sprintf("visitor: unknown action %d", action.Kind))
	}

	v.AfterVisitTypeExpression(t)
	return nil
}

func dispatchExpression(v ExpressionVisitor, e *ast.Expression) (ExpressionAction, error) {
	switch d := e.Data.(type) {
	case *ast.Noop:
		return Skip[ast.Expression](), nil
	case *ast.Recover:
		panic("visitor: Recover node reached a pass")
	case *ast.Placeholder:
		panic("visitor: Placeholder node reached a pass")
	case *ast.Null:
		return v.VisitNull(e, d)
	case *ast.Boolean:
		return v.VisitBoolean(e, d)
	case *ast.Text:
		return v.VisitText(e, d)
	case *ast.Integer:
		return v.VisitInteger(e, d)
	case *ast.TypedInteger:
		return v.VisitTypedInteger(e, d)
	case *ast.Decimal:
		return v.VisitDecimal(e, d)
	case *ast.TypedDecimal:
		return v.VisitTypedDecimal(e, d)
	case *ast.Endpoint:
		return v.VisitEndpoint(e, d)
	case *ast.VariableAccess:
		return v.VisitVariableAccess(e, d)
	case *ast.GetReference:
		return v.VisitGetReference(e, d)
	case *ast.Identifier:
		return v.VisitIdentifier(e, d)
	case *ast.List:
		return v.VisitList(e, d)
	case *ast.Map:
		return v.VisitMap(e, d)
	case *ast.Statements:
		return v.VisitStatements(e, d)
	case *ast.Conditional:
		return v.VisitConditional(e, d)
	case *ast.VariableDeclaration:
		return v.VisitVariableDeclaration(e, d)
	case *ast.VariableAssignment:
		return v.VisitVariableAssignment(e, d)
	case *ast.TypeDeclaration:
		return v.VisitTypeDeclaration(e, d)
	case *ast.TypeValue:
		return v.VisitTypeValue(e, d)
	case *ast.FunctionDeclaration:
		return v.VisitFunctionDeclaration(e, d)
	case *ast.CreateRef:
		return v.VisitCreateRef(e, d)
	case *ast.CreateRefMut:
		return v.VisitCreateRefMut(e, d)
	case *ast.CreateRefFinal:
		return v.VisitCreateRefFinal(e, d)
	case *ast.Deref:
		return v.VisitDeref(e, d)
	case *ast.Slot:
		return v.VisitSlot(e, d)
	case *ast.SlotAssignment:
		return v.VisitSlotAssignment(e, d)
	case *ast.PointerAddress:
		return v.VisitPointerAddress(e, d)
	case *ast.BinaryOperation:
		return v.VisitBinaryOperation(e, d)
	case *ast.ComparisonOperation:
		return v.VisitComparisonOperation(e, d)
	case *ast.DerefAssignment:
		return v.VisitDerefAssignment(e, d)
	case *ast.UnaryOperation:
		return v.VisitUnaryOperation(e, d)
	case *ast.ApplyChain:
		return v.VisitApplyChain(e, d)
	case *ast.RemoteExecution:
		return v.VisitRemoteExecution(e, d)
	case *ast.VariantAccess:
		return v.VisitVariantAccess(e, d)
	}
	panic(fmt.Sprintf("visitor: unhandled expression %T", e.Data))
}

func dispatchType(v TypeExpressionVisitor, t *ast.TypeExpression) (TypeAction, error) {
	switch d := t.Data.(type) {
	case *ast.Recover:
		panic("visitor: Recover node reached a pass")
	case *ast.Null:
		return v.VisitTypeNull(t, d)
	case *ast.Boolean:
		return v.VisitTypeBoolean(t, d)
	case *ast.Text:
		return v.VisitTypeText(t, d)
	case *ast.Integer:
		return v.VisitTypeInteger(t, d)
	case *ast.TypedInteger:
		return v.VisitTypeTypedInteger(t, d)
	case *ast.Decimal:
		return v.VisitTypeDecimal(t, d)
	case *ast.TypedDecimal:
		return v.VisitTypeTypedDecimal(t, d)
	case *ast.Endpoint:
		return v.VisitTypeEndpoint(t, d)
	case *ast.VariableAccess:
		return v.VisitTypeVariableAccess(t, d)
	case *ast.GetReference:
		return v.VisitTypeGetReference(t, d)
	case *ast.Literal:
		return v.VisitTypeLiteral(t, d)
	case *ast.StructuralList:
		return v.VisitStructuralList(t, d)
	case *ast.FixedSizeList:
		return v.VisitFixedSizeList(t, d)
	case *ast.SliceList:
		return v.VisitSliceList(t, d)
	case *ast.Union:
		return v.VisitUnion(t, d)
	case *ast.Intersection:
		return v.VisitIntersection(t, d)
	case *ast.GenericAccess:
		return v.VisitGenericAccess(t, d)
	case *ast.FunctionType:
		return v.VisitFunctionType(t, d)
	case *ast.StructuralMap:
		return v.VisitStructuralMap(t, d)
	case *ast.Ref:
		return v.VisitRef(t, d)
	case *ast.RefMut:
		return v.VisitRefMut(t, d)
	case *ast.RefFinal:
		return v.VisitRefFinal(t, d)
	}
	panic(fmt.Sprintf("visitor: unhandled type expression %T", t.Data))
}

func walkExpressionChildren(v ExpressionVisitor, e *ast.Expression) error {
	for _, c := range ChildNodes(e) {
		var err error
		if c.Expression != nil {
			err = WalkExpression(v, c.Expression)
		} else {
			err = WalkTypeExpression(v, c.Type)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func walkTypeChildren(v TypeExpressionVisitor, t *ast.TypeExpression) error {
	for _, c := range TypeChildren(t) {
		if err := WalkTypeExpression(v, c); err != nil {
			return err
		}
	}
	return nil
}
