package typeinference

import (
	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/pointer"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// withMutability marks c as a reference. A nominal reference is wrapped first.
func withMutability(c types.Container, m types.Mutability) types.Type {
	switch c := c.(type) {
	case types.Type:
		return c.WithMutability(m)
	case *types.Reference:
		return types.ReferenceTo(c).WithMutability(m)
	}
	return types.Unit().WithMutability(m)
}

// deref strips one reference level from c.
func deref(c types.Container) (types.Container, bool) {
	t, ok := c.(types.Type)
	if !ok || !t.IsReference() {
		return nil, false
	}
	if def, ok := t.Definition.(types.ReferenceDefinition); ok {
		return def.Reference, true
	}
	t.Mutability = nil
	return t, true
}

func (ti *TypeInference) createRef(e, inner *ast.Expression, m types.Mutability) (visitor.ExpressionAction, error) {
	t, err := ti.infer(inner)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	return mark(e, withMutability(t, m))
}

// VisitCreateRef implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitCreateRef(e *ast.Expression, n *ast.CreateRef) (visitor.ExpressionAction, error) {
	return ti.createRef(e, n.Expression, types.Immutable)
}

// VisitCreateRefMut implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitCreateRefMut(e *ast.Expression, n *ast.CreateRefMut) (visitor.ExpressionAction, error) {
	return ti.createRef(e, n.Expression, types.Mutable)
}

// VisitCreateRefFinal implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitCreateRefFinal(e *ast.Expression, n *ast.CreateRefFinal) (visitor.ExpressionAction, error) {
	return ti.createRef(e, n.Expression, types.Final)
}

// VisitDeref implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitDeref(e *ast.Expression, n *ast.Deref) (visitor.ExpressionAction, error) {
	inner, err := ti.infer(n.Expression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	t, ok := deref(inner)
	if !ok {
		return fail(e, &TypeError{Kind: InvalidDerefType, Type: inner})
	}
	return mark(e, t)
}

// VisitDerefAssignment implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitDerefAssignment(e *ast.Expression, n *ast.DerefAssignment) (visitor.ExpressionAction, error) {
	target, err := ti.infer(n.DerefExpression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	assigned, err := ti.infer(n.AssignedExpression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	// all but the outermost deref are reads
	for i := 1; i < n.DerefCount; i++ {
		next, ok := deref(target)
		if !ok {
			return fail(e, &TypeError{Kind: InvalidDerefType, Type: target})
		}
		target = next
	}

	t, ok := target.(types.Type)
	if !ok || !t.IsReference() {
		return fail(e, &TypeError{Kind: InvalidDerefType, Type: target})
	}
	name := targetName(n.DerefExpression)
	switch *t.Mutability {
	case types.Immutable:
		return fail(e, &TypeError{Kind: AssignmentToImmutableReference, Name: name})
	case types.Final:
		return fail(e, &TypeError{Kind: AssignmentToImmutableValue, Name: name})
	}
	if n.Operator != ast.Assign {
		inner, _ := deref(t)
		if !sameBase(inner, assigned) {
			return fail(e, &TypeError{
				Kind:     MismatchedOperands,
				Operator: n.Operator.String(),
				Left:     inner,
				Right:    assigned,
			})
		}
	}
	return mark(e, assigned)
}

func targetName(e *ast.Expression) string {
	switch d := e.Data.(type) {
	case *ast.VariableAccess:
		return d.Name
	case *ast.Identifier:
		return d.Name
	}
	return "<expression>"
}

// ---------- Pointers and slots ----------

// coreType returns the core type at an internal address.
func coreType(addr pointer.Address) (*types.Reference, bool) {
	if addr.Kind() != pointer.Internal {
		return nil, false
	}
	id, err := corelib.FromAddress(addr)
	if err != nil {
		return nil, false
	}
	return types.CoreReference(id), true
}

// VisitGetReference implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitGetReference(e *ast.Expression, n *ast.GetReference) (visitor.ExpressionAction, error) {
	if r, ok := coreType(n.Address); ok {
		return mark(e, types.Type{Definition: types.TypeOf{Inner: r}})
	}
	return mark(e, types.Unknown())
}

// VisitPointerAddress implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitPointerAddress(e *ast.Expression, _ *ast.PointerAddress) (visitor.ExpressionAction, error) {
	return mark(e, types.Unknown())
}

// VisitSlot implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitSlot(e *ast.Expression, _ *ast.Slot) (visitor.ExpressionAction, error) {
	return mark(e, types.Unknown())
}

// VisitSlotAssignment implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitSlotAssignment(e *ast.Expression, n *ast.SlotAssignment) (visitor.ExpressionAction, error) {
	t, err := ti.infer(n.Expression)
	if err != nil {
		return visitor.ExpressionAction{}, err
	}
	return mark(e, t)
}

// VisitVariantAccess implements visitor.ExpressionVisitor.
func (ti *TypeInference) VisitVariantAccess(e *ast.Expression, n *ast.VariantAccess) (visitor.ExpressionAction, error) {
	if n.Base.IsPointer() {
		id, err := corelib.FromName(n.Name + "/" + n.Variant)
		if err != nil {
			return fail(e, &TypeError{Kind: SubvariantNotFound, Name: n.Name, Variant: n.Variant})
		}
		return mark(e, types.Type{Definition: types.TypeOf{Inner: types.CoreReference(id)}})
	}
	id, ok := ti.metadata.Lookup(n.Name + "/" + n.Variant)
	if !ok {
		return fail(e, &TypeError{Kind: SubvariantNotFound, Name: n.Name, Variant: n.Variant})
	}
	t := ti.metadata.VariableType(id)
	if t == nil {
		return mark(e, types.Never())
	}
	return mark(e, types.Type{Definition: types.TypeOf{Inner: t}})
}
