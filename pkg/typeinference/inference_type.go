package typeinference

import (
	"fmt"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

func markType(t *ast.TypeExpression, c types.Container) (visitor.TypeAction, error) {
	t.Type = c
	return visitor.Skip[ast.TypeExpression](), nil
}

func failType(t *ast.TypeExpression, err *TypeError) (visitor.TypeAction, error) {
	return visitor.TypeAction{}, newSpanned(err, t.Span)
}

// HandleTypeExpressionError records err in detailed mode and types the node never.
func (ti *TypeInference) HandleTypeExpressionError(err error, t *ast.TypeExpression) (visitor.TypeAction, error) {
	if ti.errors == nil {
		return visitor.TypeAction{}, err
	}
	ti.errors.add(err)
	return markType(t, types.Never())
}

func (ti *TypeInference) inferTypes(ts []*ast.TypeExpression) ([]types.Container, error) {
	out := make([]types.Container, len(ts))
	for i, t := range ts {
		c, err := ti.inferType(t)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func literalType(t *ast.TypeExpression) (visitor.TypeAction, error) {
	v, ok := ast.LiteralValue(t)
	if !ok {
		return markType(t, types.Never())
	}
	return markType(t, types.Literal(v))
}

// VisitTypeNull implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeNull(t *ast.TypeExpression, _ *ast.Null) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeBoolean implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeBoolean(t *ast.TypeExpression, _ *ast.Boolean) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeText implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeText(t *ast.TypeExpression, _ *ast.Text) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeInteger implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeInteger(t *ast.TypeExpression, _ *ast.Integer) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeTypedInteger implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeTypedInteger(t *ast.TypeExpression, _ *ast.TypedInteger) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeDecimal implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeDecimal(t *ast.TypeExpression, _ *ast.Decimal) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeTypedDecimal implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeTypedDecimal(t *ast.TypeExpression, _ *ast.TypedDecimal) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeEndpoint implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeEndpoint(t *ast.TypeExpression, _ *ast.Endpoint) (visitor.TypeAction, error) {
	return literalType(t)
}

// VisitTypeVariableAccess implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeVariableAccess(t *ast.TypeExpression, n *ast.VariableAccess) (visitor.TypeAction, error) {
	return markType(t, ti.variableType(n.ID))
}

// VisitTypeGetReference implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeGetReference(t *ast.TypeExpression, n *ast.GetReference) (visitor.TypeAction, error) {
	if r, ok := coreType(n.Address); ok {
		return markType(t, r)
	}
	return failType(t, &TypeError{Kind: Unimplemented, Detail: fmt.Sprintf("type of pointer %s", n.Address)})
}

// VisitTypeLiteral implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitTypeLiteral(t *ast.TypeExpression, _ *ast.Literal) (visitor.TypeAction, error) {
	// unresolved name, already reported by the precompiler
	return markType(t, types.Never())
}

// VisitStructuralList implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitStructuralList(t *ast.TypeExpression, n *ast.StructuralList) (visitor.TypeAction, error) {
	items, err := ti.inferTypes(n.Items)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, types.ListOf(items...))
}

// VisitFixedSizeList implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitFixedSizeList(t *ast.TypeExpression, n *ast.FixedSizeList) (visitor.TypeAction, error) {
	elem, err := ti.inferType(n.Element)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, types.Type{Definition: types.Collection{Kind: types.ListCollection, Element: elem, Size: n.Size}})
}

// VisitSliceList implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitSliceList(t *ast.TypeExpression, n *ast.SliceList) (visitor.TypeAction, error) {
	elem, err := ti.inferType(n.Element)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, types.Type{Definition: types.Collection{Kind: types.SliceCollection, Element: elem, Size: -1}})
}

// VisitUnion implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitUnion(t *ast.TypeExpression, n *ast.Union) (visitor.TypeAction, error) {
	members, err := ti.inferTypes(n.Members)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, types.UnionOf(members...))
}

// VisitIntersection implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitIntersection(t *ast.TypeExpression, n *ast.Intersection) (visitor.TypeAction, error) {
	members, err := ti.inferTypes(n.Members)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, types.IntersectionOf(members...))
}

// VisitGenericAccess supports the built-in collections List<T> and Map<K, V>.
func (ti *TypeInference) VisitGenericAccess(t *ast.TypeExpression, n *ast.GenericAccess) (visitor.TypeAction, error) {
	args, err := ti.inferTypes(n.Access)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	switch {
	case n.Base == "List" && len(args) == 1:
		return markType(t, types.Type{Definition: types.Collection{Kind: types.ListCollection, Element: args[0], Size: -1}})
	case n.Base == "Map" && len(args) == 2:
		return markType(t, types.Type{Definition: types.Collection{Kind: types.MapCollection, Key: args[0], Element: args[1], Size: -1}})
	}
	return failType(t, &TypeError{Kind: Unimplemented, Detail: fmt.Sprintf("generic access %s<%d>", n.Base, len(args))})
}

// VisitFunctionType implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitFunctionType(t *ast.TypeExpression, n *ast.FunctionType) (visitor.TypeAction, error) {
	params := make([]types.Parameter, len(n.Parameters))
	for i, p := range n.Parameters {
		pt, err := ti.inferType(p.Type)
		if err != nil {
			return visitor.TypeAction{}, err
		}
		params[i] = types.Parameter{Name: p.Name, Type: pt}
	}
	var ret types.Container
	if n.ReturnType != nil {
		var err error
		if ret, err = ti.inferType(n.ReturnType); err != nil {
			return visitor.TypeAction{}, err
		}
	}
	return markType(t, types.Type{Definition: types.Function{Parameters: params, Return: ret}})
}

// VisitStructuralMap implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitStructuralMap(t *ast.TypeExpression, n *ast.StructuralMap) (visitor.TypeAction, error) {
	entries := make([]types.Entry, len(n.Entries))
	for i, entry := range n.Entries {
		k, err := ti.inferType(entry.Key)
		if err != nil {
			return visitor.TypeAction{}, err
		}
		v, err := ti.inferType(entry.Value)
		if err != nil {
			return visitor.TypeAction{}, err
		}
		entries[i] = types.Entry{Key: k, Value: v}
	}
	return markType(t, types.MapOf(entries...))
}

func (ti *TypeInference) refType(t, inner *ast.TypeExpression, m types.Mutability) (visitor.TypeAction, error) {
	c, err := ti.inferType(inner)
	if err != nil {
		return visitor.TypeAction{}, err
	}
	return markType(t, withMutability(c, m))
}

// VisitRef implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitRef(t *ast.TypeExpression, n *ast.Ref) (visitor.TypeAction, error) {
	return ti.refType(t, n.Inner, types.Immutable)
}

// VisitRefMut implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitRefMut(t *ast.TypeExpression, n *ast.RefMut) (visitor.TypeAction, error) {
	return ti.refType(t, n.Inner, types.Mutable)
}

// VisitRefFinal implements visitor.TypeExpressionVisitor.
func (ti *TypeInference) VisitRefFinal(t *ast.TypeExpression, n *ast.RefFinal) (visitor.TypeAction, error) {
	return ti.refType(t, n.Inner, types.Final)
}
