package ast

import (
	"github.com/unyt-org/datex-go/pkg/pointer"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/values"
)

// ---------- Markers ----------

// Recover marks a node the parser could not build. No pass may see it.
type Recover struct{}

// Noop is a node a visitor turned into "do nothing".
type Noop struct{}

// Placeholder is the "?" placeholder.
type Placeholder struct{}

// ---------- Literals (shared with the type grammar) ----------

// Null is the null literal.
type Null struct{}

// Boolean is a boolean literal.
type Boolean struct {
	Value bool
}

// Text is a text literal, already unescaped.
type Text struct {
	Value string
}

// Integer is an untyped integer literal.
type Integer struct {
	Value values.Integer
}

// TypedInteger is an integer literal with a variant suffix, e.g. 42u8.
type TypedInteger struct {
	Value values.TypedInteger
}

// Decimal is an untyped decimal literal.
type Decimal struct {
	Value values.Decimal
}

// TypedDecimal is a decimal literal with a variant suffix, e.g. 1.5f32.
type TypedDecimal struct {
	Value values.TypedDecimal
}

// Endpoint is an endpoint literal such as @jonas.
type Endpoint struct {
	Value values.Endpoint
}

// VariableAccess reads a resolved variable. It replaces Identifier.
type VariableAccess struct {
	ID   VariableID
	Name string
}

// GetReference reads a runtime pointer, e.g. a core library type.
type GetReference struct {
	Address pointer.Address
}

// ---------- Expressions ----------

// Identifier is an unresolved name. The precompiler replaces it.
type Identifier struct {
	Name string
}

// List is a list literal.
type List struct {
	Items []*Expression
}

// MapEntry is a key/value pair of a Map.
type MapEntry struct {
	Key   *Expression
	Value *Expression
}

// Map is a map literal.
type Map struct {
	Entries []MapEntry
}

// Statements is a block. A non-terminated block evaluates to its last statement.
type Statements struct {
	Statements   []*Expression
	IsTerminated bool
}

// Conditional is if/else.
type Conditional struct {
	Condition *Expression
	Then      *Expression
	Else      *Expression
}

// VariableDeclaration is "var x: T = init" or "const x = init".
type VariableDeclaration struct {
	ID             *VariableID
	Kind           VariableKind
	Name           string
	TypeAnnotation *TypeExpression
	Init           *Expression
}

// VariableAssignment is "x = expr" or a compound assignment.
type VariableAssignment struct {
	ID         *VariableID
	Name       string
	Operator   AssignmentOperator
	Expression *Expression
}

// TypeDeclaration is "type Name = T". Hoisted is set when the declaration
// was registered before its block was visited.
type TypeDeclaration struct {
	ID      *VariableID
	Name    string
	Value   *TypeExpression
	Hoisted bool
}

// TypeValue embeds a type expression as a value.
type TypeValue struct {
	Value *TypeExpression
}

// Parameter is a function parameter.
type Parameter struct {
	ID   *VariableID
	Name string
	Type *TypeExpression
}

// FunctionDeclaration is "function name(params) -> T (body)".
type FunctionDeclaration struct {
	ID         *VariableID
	Name       string
	Parameters []Parameter
	ReturnType *TypeExpression
	Body       *Expression
}

// CreateRef is "&expr".
type CreateRef struct {
	Expression *Expression
}

// CreateRefMut is "&mut expr".
type CreateRefMut struct {
	Expression *Expression
}

// CreateRefFinal is "&final expr".
type CreateRefFinal struct {
	Expression *Expression
}

// Deref is "*expr".
type Deref struct {
	Expression *Expression
}

// Slot is "#0" or "#name". Named slots are resolved to an index by the precompiler.
type Slot struct {
	Index uint32
	Name  string
}

// IsNamed reports whether the slot still carries its name.
func (s *Slot) IsNamed() bool { return s.Name != "" }

// SlotAssignment is "#0 = expr".
type SlotAssignment struct {
	Slot       Slot
	Expression *Expression
}

// PointerAddress is a "$abcdef" literal.
type PointerAddress struct {
	Address pointer.Address
}

// BinaryOperation is "left op right". Type is an optional explicit result type.
type BinaryOperation struct {
	Operator BinaryOperator
	Left     *Expression
	Right    *Expression
	Type     types.Container
}

// ComparisonOperation is "left op right" for comparisons.
type ComparisonOperation struct {
	Operator ComparisonOperator
	Left     *Expression
	Right    *Expression
}

// DerefAssignment is "*x = expr" with DerefCount stars.
type DerefAssignment struct {
	Operator           AssignmentOperator
	DerefCount         int
	DerefExpression    *Expression
	AssignedExpression *Expression
}

// UnaryOperation is "op expr".
type UnaryOperation struct {
	Operator   UnaryOperator
	Expression *Expression
}

// ApplyOperation is one link of an apply chain.
type ApplyOperation struct {
	Kind       ApplyKind
	Expression *Expression
}

// ApplyChain is "base(arg).prop<generic>".
type ApplyChain struct {
	Base       *Expression
	Operations []ApplyOperation
}

// RemoteExecution is "left :: right"; right runs on the endpoint left evaluates to.
type RemoteExecution struct {
	Left  *Expression
	Right *Expression
}

// ResolvedVariable is the base of a variant access: a variable or a pointer.
type ResolvedVariable struct {
	ID      VariableID
	Address *pointer.Address
}

// ResolvedID returns a ResolvedVariable naming a variable.
func ResolvedID(id VariableID) ResolvedVariable {
	return ResolvedVariable{ID: id}
}

// ResolvedPointer returns a ResolvedVariable naming a pointer.
func ResolvedPointer(a pointer.Address) ResolvedVariable {
	return ResolvedVariable{Address: &a}
}

// IsPointer reports whether r names a pointer.
func (r ResolvedVariable) IsPointer() bool { return r.Address != nil }

// VariantAccess is "base/variant", e.g. integer/u8 used as a value.
type VariantAccess struct {
	Base    ResolvedVariable
	Name    string
	Variant string
}

func (*Recover) exprData()             {}
func (*Noop) exprData()                {}
func (*Placeholder) exprData()         {}
func (*Null) exprData()                {}
func (*Boolean) exprData()             {}
func (*Text) exprData()                {}
func (*Integer) exprData()             {}
func (*TypedInteger) exprData()        {}
func (*Decimal) exprData()             {}
func (*TypedDecimal) exprData()        {}
func (*Endpoint) exprData()            {}
func (*VariableAccess) exprData()      {}
func (*GetReference) exprData()        {}
func (*Identifier) exprData()          {}
func (*List) exprData()                {}
func (*Map) exprData()                 {}
func (*Statements) exprData()          {}
func (*Conditional) exprData()         {}
func (*VariableDeclaration) exprData() {}
func (*VariableAssignment) exprData()  {}
func (*TypeDeclaration) exprData()     {}
func (*TypeValue) exprData()           {}
func (*FunctionDeclaration) exprData() {}
func (*CreateRef) exprData()           {}
func (*CreateRefMut) exprData()        {}
func (*CreateRefFinal) exprData()      {}
func (*Deref) exprData()               {}
func (*Slot) exprData()                {}
func (*SlotAssignment) exprData()      {}
func (*PointerAddress) exprData()      {}
func (*BinaryOperation) exprData()     {}
func (*ComparisonOperation) exprData() {}
func (*DerefAssignment) exprData()     {}
func (*UnaryOperation) exprData()      {}
func (*ApplyChain) exprData()          {}
func (*RemoteExecution) exprData()     {}
func (*VariantAccess) exprData()       {}
