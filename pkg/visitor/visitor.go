package visitor

import "github.com/unyt-org/datex-go/pkg/ast"

// TypeExpressionVisitor visits type expressions. Embed TypeBase (or Base)
// and override what you need.
type TypeExpressionVisitor interface {
	BeforeVisitTypeExpression(t *ast.TypeExpression)
	AfterVisitTypeExpression(t *ast.TypeExpression)
	// HandleTypeExpressionError is called when a visit method fails. It
	// returns the action to continue with, or an error to abort the walk.
	HandleTypeExpressionError(err error, t *ast.TypeExpression) (TypeAction, error)

	VisitTypeNull(t *ast.TypeExpression, n *ast.Null) (TypeAction, error)
	VisitTypeBoolean(t *ast.TypeExpression, n *ast.Boolean) (TypeAction, error)
	VisitTypeText(t *ast.TypeExpression, n *ast.Text) (TypeAction, error)
	VisitTypeInteger(t *ast.TypeExpression, n *ast.Integer) (TypeAction, error)
	VisitTypeTypedInteger(t *ast.TypeExpression, n *ast.TypedInteger) (TypeAction, error)
	VisitTypeDecimal(t *ast.TypeExpression, n *ast.Decimal) (TypeAction, error)
	VisitTypeTypedDecimal(t *ast.TypeExpression, n *ast.TypedDecimal) (TypeAction, error)
	VisitTypeEndpoint(t *ast.TypeExpression, n *ast.Endpoint) (TypeAction, error)
	VisitTypeVariableAccess(t *ast.TypeExpression, n *ast.VariableAccess) (TypeAction, error)
	VisitTypeGetReference(t *ast.TypeExpression, n *ast.GetReference) (TypeAction, error)
	VisitTypeLiteral(t *ast.TypeExpression, n *ast.Literal) (TypeAction, error)
	VisitStructuralList(t *ast.TypeExpression, n *ast.StructuralList) (TypeAction, error)
	VisitFixedSizeList(t *ast.TypeExpression, n *ast.FixedSizeList) (TypeAction, error)
	VisitSliceList(t *ast.TypeExpression, n *ast.SliceList) (TypeAction, error)
	VisitUnion(t *ast.TypeExpression, n *ast.Union) (TypeAction, error)
	VisitIntersection(t *ast.TypeExpression, n *ast.Intersection) (TypeAction, error)
	VisitGenericAccess(t *ast.TypeExpression, n *ast.GenericAccess) (TypeAction, error)
	VisitFunctionType(t *ast.TypeExpression, n *ast.FunctionType) (TypeAction, error)
	VisitStructuralMap(t *ast.TypeExpression, n *ast.StructuralMap) (TypeAction, error)
	VisitRef(t *ast.TypeExpression, n *ast.Ref) (TypeAction, error)
	VisitRefMut(t *ast.TypeExpression, n *ast.RefMut) (TypeAction, error)
	VisitRefFinal(t *ast.TypeExpression, n *ast.RefFinal) (TypeAction, error)
}

// ExpressionVisitor visits expressions. Type expressions reached from an
// expression (annotations, type declarations) go through the embedded
// TypeExpressionVisitor.
type ExpressionVisitor interface {
	TypeExpressionVisitor

	BeforeVisitExpression(e *ast.Expression)
	AfterVisitExpression(e *ast.Expression)
	// HandleExpressionError is called when a visit method fails. It
	// returns the action to continue with, or an error to abort the walk.
	HandleExpressionError(err error, e *ast.Expression) (ExpressionAction, error)

	VisitNull(e *ast.Expression, n *ast.Null) (ExpressionAction, error)
	VisitBoolean(e *ast.Expression, n *ast.Boolean) (ExpressionAction, error)
	VisitText(e *ast.Expression, n *ast.Text) (ExpressionAction, error)
	VisitInteger(e *ast.Expression, n *ast.Integer) (ExpressionAction, error)
	VisitTypedInteger(e *ast.Expression, n *ast.TypedInteger) (ExpressionAction, error)
	VisitDecimal(e *ast.Expression, n *ast.Decimal) (ExpressionAction, error)
	VisitTypedDecimal(e *ast.Expression, n *ast.TypedDecimal) (ExpressionAction, error)
	VisitEndpoint(e *ast.Expression, n *ast.Endpoint) (ExpressionAction, error)
	VisitVariableAccess(e *ast.Expression, n *ast.VariableAccess) (ExpressionAction, error)
	VisitGetReference(e *ast.Expression, n *ast.GetReference) (ExpressionAction, error)
	VisitIdentifier(e *ast.Expression, n *ast.Identifier) (ExpressionAction, error)
	VisitList(e *ast.Expression, n *ast.List) (ExpressionAction, error)
	VisitMap(e *ast.Expression, n *ast.Map) (ExpressionAction, error)
	VisitStatements(e *ast.Expression, n *ast.Statements) (ExpressionAction, error)
	VisitConditional(e *ast.Expression, n *ast.Conditional) (ExpressionAction, error)
	VisitVariableDeclaration(e *ast.Expression, n *ast.VariableDeclaration) (ExpressionAction, error)
	VisitVariableAssignment(e *ast.Expression, n *ast.VariableAssignment) (ExpressionAction, error)
	VisitTypeDeclaration(e *ast.Expression, n *ast.TypeDeclaration) (ExpressionAction, error)
	VisitTypeValue(e *ast.Expression, n *ast.TypeValue) (ExpressionAction, error)
	VisitFunctionDeclaration(e *ast.Expression, n *ast.FunctionDeclaration) (ExpressionAction, error)
	VisitCreateRef(e *ast.Expression, n *ast.CreateRef) (ExpressionAction, error)
	VisitCreateRefMut(e *ast.Expression, n *ast.CreateRefMut) (ExpressionAction, error)
	VisitCreateRefFinal(e *ast.Expression, n *ast.CreateRefFinal) (ExpressionAction, error)
	VisitDeref(e *ast.Expression, n *ast.Deref) (ExpressionAction, error)
	VisitSlot(e *ast.Expression, n *ast.Slot) (ExpressionAction, error)
	VisitSlotAssignment(e *ast.Expression, n *ast.SlotAssignment) (ExpressionAction, error)
	VisitPointerAddress(e *ast.Expression, n *ast.PointerAddress) (ExpressionAction, error)
	VisitBinaryOperation(e *ast.Expression, n *ast.BinaryOperation) (ExpressionAction, error)
	VisitComparisonOperation(e *ast.Expression, n *ast.ComparisonOperation) (ExpressionAction, error)
	VisitDerefAssignment(e *ast.Expression, n *ast.DerefAssignment) (ExpressionAction, error)
	VisitUnaryOperation(e *ast.Expression, n *ast.UnaryOperation) (ExpressionAction, error)
	VisitApplyChain(e *ast.Expression, n *ast.ApplyChain) (ExpressionAction, error)
	VisitRemoteExecution(e *ast.Expression, n *ast.RemoteExecution) (ExpressionAction, error)
	VisitVariantAccess(e *ast.Expression, n *ast.VariantAccess) (ExpressionAction, error)
}

// TypeBase implements TypeExpressionVisitor with VisitChildren everywhere.
// Errors abort unless they carry a recovery action.
type TypeBase struct{}

// Base implements ExpressionVisitor with VisitChildren everywhere.
type Base struct {
	TypeBase
}

// ---------- TypeBase ----------

// BeforeVisitTypeExpression implements TypeExpressionVisitor.
func (TypeBase) BeforeVisitTypeExpression(*ast.TypeExpression) {}

// AfterVisitTypeExpression implements TypeExpressionVisitor.
func (TypeBase) AfterVisitTypeExpression(*ast.TypeExpression) {}

// HandleTypeExpressionError applies the error's recovery action, or aborts.
func (TypeBase) HandleTypeExpressionError(err error, _ *ast.TypeExpression) (TypeAction, error) {
	if kind, ok := RecoveryAction(err); ok {
		return TypeAction{Kind: kind}, nil
	}
	return TypeAction{}, err
}

// VisitTypeNull implements TypeExpressionVisitor.
func (TypeBase) VisitTypeNull(*ast.TypeExpression, *ast.Null) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeBoolean implements TypeExpressionVisitor.
func (TypeBase) VisitTypeBoolean(*ast.TypeExpression, *ast.Boolean) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeText implements TypeExpressionVisitor.
func (TypeBase) VisitTypeText(*ast.TypeExpression, *ast.Text) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeInteger implements TypeExpressionVisitor.
func (TypeBase) VisitTypeInteger(*ast.TypeExpression, *ast.Integer) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeTypedInteger implements TypeExpressionVisitor.
func (TypeBase) VisitTypeTypedInteger(*ast.TypeExpression, *ast.TypedInteger) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeDecimal implements TypeExpressionVisitor.
func (TypeBase) VisitTypeDecimal(*ast.TypeExpression, *ast.Decimal) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeTypedDecimal implements TypeExpressionVisitor.
func (TypeBase) VisitTypeTypedDecimal(*ast.TypeExpression, *ast.TypedDecimal) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeEndpoint implements TypeExpressionVisitor.
func (TypeBase) VisitTypeEndpoint(*ast.TypeExpression, *ast.Endpoint) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeVariableAccess implements TypeExpressionVisitor.
func (TypeBase) VisitTypeVariableAccess(*ast.TypeExpression, *ast.VariableAccess) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeGetReference implements TypeExpressionVisitor.
func (TypeBase) VisitTypeGetReference(*ast.TypeExpression, *ast.GetReference) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitTypeLiteral implements TypeExpressionVisitor.
func (TypeBase) VisitTypeLiteral(*ast.TypeExpression, *ast.Literal) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitStructuralList implements TypeExpressionVisitor.
func (TypeBase) VisitStructuralList(*ast.TypeExpression, *ast.StructuralList) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitFixedSizeList implements TypeExpressionVisitor.
func (TypeBase) VisitFixedSizeList(*ast.TypeExpression, *ast.FixedSizeList) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitSliceList implements TypeExpressionVisitor.
func (TypeBase) VisitSliceList(*ast.TypeExpression, *ast.SliceList) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitUnion implements TypeExpressionVisitor.
func (TypeBase) VisitUnion(*ast.TypeExpression, *ast.Union) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitIntersection implements TypeExpressionVisitor.
func (TypeBase) VisitIntersection(*ast.TypeExpression, *ast.Intersection) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitGenericAccess implements TypeExpressionVisitor.
func (TypeBase) VisitGenericAccess(*ast.TypeExpression, *ast.GenericAccess) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitFunctionType implements TypeExpressionVisitor.
func (TypeBase) VisitFunctionType(*ast.TypeExpression, *ast.FunctionType) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitStructuralMap implements TypeExpressionVisitor.
func (TypeBase) VisitStructuralMap(*ast.TypeExpression, *ast.StructuralMap) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitRef implements TypeExpressionVisitor.
func (TypeBase) VisitRef(*ast.TypeExpression, *ast.Ref) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitRefMut implements TypeExpressionVisitor.
func (TypeBase) VisitRefMut(*ast.TypeExpression, *ast.RefMut) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// VisitRefFinal implements TypeExpressionVisitor.
func (TypeBase) VisitRefFinal(*ast.TypeExpression, *ast.RefFinal) (TypeAction, error) {
	return Children[ast.TypeExpression](), nil
}

// ---------- Base ----------

// BeforeVisitExpression implements ExpressionVisitor.
func (Base) BeforeVisitExpression(*ast.Expression) {}

// AfterVisitExpression implements ExpressionVisitor.
func (Base) AfterVisitExpression(*ast.Expression) {}

// HandleExpressionError applies the error's recovery action, or aborts.
func (Base) HandleExpressionError(err error, _ *ast.Expression) (ExpressionAction, error) {
	if kind, ok := RecoveryAction(err); ok {
		return ExpressionAction{Kind: kind}, nil
	}
	return ExpressionAction{}, err
}

// VisitNull implements ExpressionVisitor.
func (Base) VisitNull(*ast.Expression, *ast.Null) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitBoolean implements ExpressionVisitor.
func (Base) VisitBoolean(*ast.Expression, *ast.Boolean) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitText implements ExpressionVisitor.
func (Base) VisitText(*ast.Expression, *ast.Text) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitInteger implements ExpressionVisitor.
func (Base) VisitInteger(*ast.Expression, *ast.Integer) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitTypedInteger implements ExpressionVisitor.
func (Base) VisitTypedInteger(*ast.Expression, *ast.TypedInteger) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitDecimal implements ExpressionVisitor.
func (Base) VisitDecimal(*ast.Expression, *ast.Decimal) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitTypedDecimal implements ExpressionVisitor.
func (Base) VisitTypedDecimal(*ast.Expression, *ast.TypedDecimal) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitEndpoint implements ExpressionVisitor.
func (Base) VisitEndpoint(*ast.Expression, *ast.Endpoint) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitVariableAccess implements ExpressionVisitor.
func (Base) VisitVariableAccess(*ast.Expression, *ast.VariableAccess) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitGetReference implements ExpressionVisitor.
func (Base) VisitGetReference(*ast.Expression, *ast.GetReference) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitIdentifier implements ExpressionVisitor.
func (Base) VisitIdentifier(*ast.Expression, *ast.Identifier) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitList implements ExpressionVisitor.
func (Base) VisitList(*ast.Expression, *ast.List) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitMap implements ExpressionVisitor.
func (Base) VisitMap(*ast.Expression, *ast.Map) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitStatements implements ExpressionVisitor.
func (Base) VisitStatements(*ast.Expression, *ast.Statements) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitConditional implements ExpressionVisitor.
func (Base) VisitConditional(*ast.Expression, *ast.Conditional) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitVariableDeclaration implements ExpressionVisitor.
func (Base) VisitVariableDeclaration(*ast.Expression, *ast.VariableDeclaration) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitVariableAssignment implements ExpressionVisitor.
func (Base) VisitVariableAssignment(*ast.Expression, *ast.VariableAssignment) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitTypeDeclaration implements ExpressionVisitor.
func (Base) VisitTypeDeclaration(*ast.Expression, *ast.TypeDeclaration) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitTypeValue implements ExpressionVisitor.
func (Base) VisitTypeValue(*ast.Expression, *ast.TypeValue) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitFunctionDeclaration implements ExpressionVisitor.
func (Base) VisitFunctionDeclaration(*ast.Expression, *ast.FunctionDeclaration) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitCreateRef implements ExpressionVisitor.
func (Base) VisitCreateRef(*ast.Expression, *ast.CreateRef) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitCreateRefMut implements ExpressionVisitor.
func (Base) VisitCreateRefMut(*ast.Expression, *ast.CreateRefMut) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitCreateRefFinal implements ExpressionVisitor.
func (Base) VisitCreateRefFinal(*ast.Expression, *ast.CreateRefFinal) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitDeref implements ExpressionVisitor.
func (Base) VisitDeref(*ast.Expression, *ast.Deref) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitSlot implements ExpressionVisitor.
func (Base) VisitSlot(*ast.Expression, *ast.Slot) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitSlotAssignment implements ExpressionVisitor.
func (Base) VisitSlotAssignment(*ast.Expression, *ast.SlotAssignment) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitPointerAddress implements ExpressionVisitor.
func (Base) VisitPointerAddress(*ast.Expression, *ast.PointerAddress) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitBinaryOperation implements ExpressionVisitor.
func (Base) VisitBinaryOperation(*ast.Expression, *ast.BinaryOperation) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitComparisonOperation implements ExpressionVisitor.
func (Base) VisitComparisonOperation(*ast.Expression, *ast.ComparisonOperation) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitDerefAssignment implements ExpressionVisitor.
func (Base) VisitDerefAssignment(*ast.Expression, *ast.DerefAssignment) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitUnaryOperation implements ExpressionVisitor.
func (Base) VisitUnaryOperation(*ast.Expression, *ast.UnaryOperation) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitApplyChain implements ExpressionVisitor.
func (Base) VisitApplyChain(*ast.Expression, *ast.ApplyChain) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitRemoteExecution implements ExpressionVisitor.
func (Base) VisitRemoteExecution(*ast.Expression, *ast.RemoteExecution) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}

// VisitVariantAccess implements ExpressionVisitor.
func (Base) VisitVariantAccess(*ast.Expression, *ast.VariantAccess) (ExpressionAction, error) {
	return Children[ast.Expression](), nil
}
