package ast

// Literal is an unresolved type name such as "integer" or "integer/u8".
type Literal struct {
	Name    string
	Variant string
}

// FullName returns "name/variant" or "name".
func (l *Literal) FullName() string {
	if l.Variant != "" {
		return l.Name + "/" + l.Variant
	}
	return l.Name
}

// StructuralList is "[T, U]".
type StructuralList struct {
	Items []*TypeExpression
}

// FixedSizeList is "T[n]".
type FixedSizeList struct {
	Element *TypeExpression
	Size    int
}

// SliceList is "T[]".
type SliceList struct {
	Element *TypeExpression
}

// Union is "T | U".
type Union struct {
	Members []*TypeExpression
}

// Intersection is "T & U".
type Intersection struct {
	Members []*TypeExpression
}

// GenericAccess is "Base<T, U>".
type GenericAccess struct {
	Base   string
	Access []*TypeExpression
}

// TypeParameter is a named parameter of a function type.
type TypeParameter struct {
	Name string
	Type *TypeExpression
}

// FunctionType is "(a: T) -> R".
type FunctionType struct {
	Parameters []TypeParameter
	ReturnType *TypeExpression
}

// StructuralMapEntry is one field of a StructuralMap.
type StructuralMapEntry struct {
	Key   *TypeExpression
	Value *TypeExpression
}

// StructuralMap is "{key: T}".
type StructuralMap struct {
	Entries []StructuralMapEntry
}

// Ref is "&T".
type Ref struct {
	Inner *TypeExpression
}

// RefMut is "&mut T".
type RefMut struct {
	Inner *TypeExpression
}

// RefFinal is "&final T".
type RefFinal struct {
	Inner *TypeExpression
}

func (*Recover) typeData()        {}
func (*Null) typeData()           {}
func (*Boolean) typeData()        {}
func (*Text) typeData()           {}
func (*Integer) typeData()        {}
func (*TypedInteger) typeData()   {}
func (*Decimal) typeData()        {}
func (*TypedDecimal) typeData()   {}
func (*Endpoint) typeData()       {}
func (*VariableAccess) typeData() {}
func (*GetReference) typeData()   {}
func (*Literal) typeData()        {}
func (*StructuralList) typeData() {}
func (*FixedSizeList) typeData()  {}
func (*SliceList) typeData()      {}
func (*Union) typeData()          {}
func (*Intersection) typeData()   {}
func (*GenericAccess) typeData()  {}
func (*FunctionType) typeData()   {}
func (*StructuralMap) typeData()  {}
func (*Ref) typeData()            {}
func (*RefMut) typeData()         {}
func (*RefFinal) typeData()       {}
