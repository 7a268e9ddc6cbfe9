package ast

import (
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/values"
)

// Equal compares two expressions by payload. Spans, parenthesization and
// inferred types are ignored.
func Equal(a, b *Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalData(a.Data, b.Data)
}

// EqualType compares two type expressions by payload.
func EqualType(a, b *TypeExpression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalTypeData(a.Data, b.Data)
}

func equalIDs(a, b *VariableID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalExprs(a, b []*Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalTypes(a, b []*TypeExpression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualType(a[i], b[i]) {
			return false
		}
	}
	return true
}

// equalLeaf compares payloads shared by both grammars.
func equalLeaf(a, b any) (equal, handled bool) {
	switch a := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok, true
	case *Boolean:
		o, ok := b.(*Boolean)
		return ok && a.Value == o.Value, true
	case *Text:
		o, ok := b.(*Text)
		return ok && a.Value == o.Value, true
	case *Integer:
		o, ok := b.(*Integer)
		return ok && a.Value.Equal(o.Value), true
	case *TypedInteger:
		o, ok := b.(*TypedInteger)
		return ok && a.Value.Equal(o.Value), true
	case *Decimal:
		o, ok := b.(*Decimal)
		return ok && a.Value.Equal(o.Value), true
	case *TypedDecimal:
		o, ok := b.(*TypedDecimal)
		return ok && a.Value.Equal(o.Value), true
	case *Endpoint:
		o, ok := b.(*Endpoint)
		return ok && a.Value == o.Value, true
	case *VariableAccess:
		o, ok := b.(*VariableAccess)
		return ok && *a == *o, true
	case *GetReference:
		o, ok := b.(*GetReference)
		return ok && a.Address == o.Address, true
	case *Recover:
		_, ok := b.(*Recover)
		return ok, true
	}
	return false, false
}

func equalData(a, b ExpressionData) bool {
	if eq, handled := equalLeaf(a, b); handled {
		return eq
	}
	switch a := a.(type) {
	case *Noop:
		_, ok := b.(*Noop)
		return ok
	case *Placeholder:
		_, ok := b.(*Placeholder)
		return ok
	case *Identifier:
		o, ok := b.(*Identifier)
		return ok && a.Name == o.Name
	case *List:
		o, ok := b.(*List)
		return ok && equalExprs(a.Items, o.Items)
	case *Map:
		o, ok := b.(*Map)
		if !ok || len(a.Entries) != len(o.Entries) {
			return false
		}
		for i := range a.Entries {
			if !Equal(a.Entries[i].Key, o.Entries[i].Key) || !Equal(a.Entries[i].Value, o.Entries[i].Value) {
				return false
			}
		}
		return true
	case *Statements:
		o, ok := b.(*Statements)
		return ok && a.IsTerminated == o.IsTerminated && equalExprs(a.Statements, o.Statements)
	case *Conditional:
		o, ok := b.(*Conditional)
		return ok && Equal(a.Condition, o.Condition) && Equal(a.Then, o.Then) && Equal(a.Else, o.Else)
	case *VariableDeclaration:
		o, ok := b.(*VariableDeclaration)
		return ok && equalIDs(a.ID, o.ID) && a.Kind == o.Kind && a.Name == o.Name &&
			EqualType(a.TypeAnnotation, o.TypeAnnotation) && Equal(a.Init, o.Init)
	case *VariableAssignment:
		o, ok := b.(*VariableAssignment)
		return ok && equalIDs(a.ID, o.ID) && a.Name == o.Name && a.Operator == o.Operator &&
			Equal(a.Expression, o.Expression)
	case *TypeDeclaration:
		o, ok := b.(*TypeDeclaration)
		return ok && equalIDs(a.ID, o.ID) && a.Name == o.Name && a.Hoisted == o.Hoisted &&
			EqualType(a.Value, o.Value)
	case *TypeValue:
		o, ok := b.(*TypeValue)
		return ok && EqualType(a.Value, o.Value)
	case *FunctionDeclaration:
		o, ok := b.(*FunctionDeclaration)
		if !ok || !equalIDs(a.ID, o.ID) || a.Name != o.Name || len(a.Parameters) != len(o.Parameters) {
			return false
		}
		for i := range a.Parameters {
			p, q := a.Parameters[i], o.Parameters[i]
			if p.Name != q.Name || !equalIDs(p.ID, q.ID) || !EqualType(p.Type, q.Type) {
				return false
			}
		}
		return EqualType(a.ReturnType, o.ReturnType) && Equal(a.Body, o.Body)
	case *CreateRef:
		o, ok := b.(*CreateRef)
		return ok && Equal(a.Expression, o.Expression)
	case *CreateRefMut:
		o, ok := b.(*CreateRefMut)
		return ok && Equal(a.Expression, o.Expression)
	case *CreateRefFinal:
		o, ok := b.(*CreateRefFinal)
		return ok && Equal(a.Expression, o.Expression)
	case *Deref:
		o, ok := b.(*Deref)
		return ok && Equal(a.Expression, o.Expression)
	case *Slot:
		o, ok := b.(*Slot)
		return ok && *a == *o
	case *SlotAssignment:
		o, ok := b.(*SlotAssignment)
		return ok && a.Slot == o.Slot && Equal(a.Expression, o.Expression)
	case *PointerAddress:
		o, ok := b.(*PointerAddress)
		return ok && a.Address == o.Address
	case *BinaryOperation:
		o, ok := b.(*BinaryOperation)
		if !ok || a.Operator != o.Operator || !Equal(a.Left, o.Left) || !Equal(a.Right, o.Right) {
			return false
		}
		if a.Type == nil || o.Type == nil {
			return a.Type == nil && o.Type == nil
		}
		return types.Equal(a.Type, o.Type)
	case *ComparisonOperation:
		o, ok := b.(*ComparisonOperation)
		return ok && a.Operator == o.Operator && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
	case *DerefAssignment:
		o, ok := b.(*DerefAssignment)
		return ok && a.Operator == o.Operator && a.DerefCount == o.DerefCount &&
			Equal(a.DerefExpression, o.DerefExpression) && Equal(a.AssignedExpression, o.AssignedExpression)
	case *UnaryOperation:
		o, ok := b.(*UnaryOperation)
		return ok && a.Operator == o.Operator && Equal(a.Expression, o.Expression)
	case *ApplyChain:
		o, ok := b.(*ApplyChain)
		if !ok || !Equal(a.Base, o.Base) || len(a.Operations) != len(o.Operations) {
			return false
		}
		for i := range a.Operations {
			if a.Operations[i].Kind != o.Operations[i].Kind || !Equal(a.Operations[i].Expression, o.Operations[i].Expression) {
				return false
			}
		}
		return true
	case *RemoteExecution:
		o, ok := b.(*RemoteExecution)
		return ok && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
	case *VariantAccess:
		o, ok := b.(*VariantAccess)
		return ok && a.Name == o.Name && a.Variant == o.Variant && equalResolved(a.Base, o.Base)
	}
	return false
}

func equalResolved(a, b ResolvedVariable) bool {
	if a.IsPointer() != b.IsPointer() {
		return false
	}
	if a.IsPointer() {
		return *a.Address == *b.Address
	}
	return a.ID == b.ID
}

func equalTypeData(a, b TypeExpressionData) bool {
	if eq, handled := equalLeaf(a, b); handled {
		return eq
	}
	switch a := a.(type) {
	case *Literal:
		o, ok := b.(*Literal)
		return ok && *a == *o
	case *StructuralList:
		o, ok := b.(*StructuralList)
		return ok && equalTypes(a.Items, o.Items)
	case *FixedSizeList:
		o, ok := b.(*FixedSizeList)
		return ok && a.Size == o.Size && EqualType(a.Element, o.Element)
	case *SliceList:
		o, ok := b.(*SliceList)
		return ok && EqualType(a.Element, o.Element)
	case *Union:
		o, ok := b.(*Union)
		return ok && equalTypes(a.Members, o.Members)
	case *Intersection:
		o, ok := b.(*Intersection)
		return ok && equalTypes(a.Members, o.Members)
	case *GenericAccess:
		o, ok := b.(*GenericAccess)
		return ok && a.Base == o.Base && equalTypes(a.Access, o.Access)
	case *FunctionType:
		o, ok := b.(*FunctionType)
		if !ok || len(a.Parameters) != len(o.Parameters) {
			return false
		}
		for i := range a.Parameters {
			if a.Parameters[i].Name != o.Parameters[i].Name || !EqualType(a.Parameters[i].Type, o.Parameters[i].Type) {
				return false
			}
		}
		return EqualType(a.ReturnType, o.ReturnType)
	case *StructuralMap:
		o, ok := b.(*StructuralMap)
		if !ok || len(a.Entries) != len(o.Entries) {
			return false
		}
		for i := range a.Entries {
			if !EqualType(a.Entries[i].Key, o.Entries[i].Key) || !EqualType(a.Entries[i].Value, o.Entries[i].Value) {
				return false
			}
		}
		return true
	case *Ref:
		o, ok := b.(*Ref)
		return ok && EqualType(a.Inner, o.Inner)
	case *RefMut:
		o, ok := b.(*RefMut)
		return ok && EqualType(a.Inner, o.Inner)
	case *RefFinal:
		o, ok := b.(*RefFinal)
		return ok && EqualType(a.Inner, o.Inner)
	}
	return false
}

// literalValue returns the runtime value of a shared literal payload.
func literalValue(data any) (values.Value, bool) {
	switch d := data.(type) {
	case *Null:
		return values.Null{}, true
	case *Boolean:
		return values.Boolean(d.Value), true
	case *Text:
		return values.Text(d.Value), true
	case *Integer:
		return d.Value, true
	case *TypedInteger:
		return d.Value, true
	case *Decimal:
		return d.Value, true
	case *TypedDecimal:
		return d.Value, true
	case *Endpoint:
		return d.Value, true
	}
	return nil, false
}

// LiteralValue returns the value of a literal type expression such as 42u8.
func LiteralValue(t *TypeExpression) (values.Value, bool) {
	return literalValue(t.Data)
}
