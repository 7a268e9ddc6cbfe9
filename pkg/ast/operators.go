package ast

import "fmt"

// BinaryOperator is an arithmetic, logical or set operator.
type BinaryOperator uint8

// Binary operators.
const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpAnd
	OpOr
	OpUnion
	OpIntersection
)

var binaryOperatorNames = [...]string{"+", "-", "*", "/", "%", "^", "&&", "||", "|", "&"}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOperatorNames) {
		return binaryOperatorNames[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", op)
}

// ComparisonOperator compares two values.
type ComparisonOperator uint8

// Comparison operators.
const (
	CmpIs ComparisonOperator = iota
	CmpMatches
	CmpEqual
	CmpNotEqual
	CmpStructuralEqual
	CmpNotStructuralEqual
	CmpLess
	CmpGreater
	CmpLessEqual
	CmpGreaterEqual
)

var comparisonOperatorNames = [...]string{"is", "matches", "==", "!=", "===", "!==", "<", ">", "<=", ">="}

func (op ComparisonOperator) String() string {
	if int(op) < len(comparisonOperatorNames) {
		return comparisonOperatorNames[op]
	}
	return fmt.Sprintf("ComparisonOperator(%d)", op)
}

// AssignmentOperator is "=" or a compound assignment.
type AssignmentOperator uint8

// Assignment operators.
const (
	Assign AssignmentOperator = iota
	AddAssign
	SubtractAssign
	MultiplyAssign
	DivideAssign
)

var assignmentOperatorNames = [...]string{"=", "+=", "-=", "*=", "/="}

func (op AssignmentOperator) String() string {
	if int(op) < len(assignmentOperatorNames) {
		return assignmentOperatorNames[op]
	}
	return fmt.Sprintf("AssignmentOperator(%d)", op)
}

// UnaryOperator is a prefix operator.
type UnaryOperator uint8

// Unary operators.
const (
	UnaryPlus UnaryOperator = iota
	UnaryMinus
	UnaryNot
)

func (op UnaryOperator) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	}
	return fmt.Sprintf("UnaryOperator(%d)", op)
}

// ApplyKind is the kind of an apply-chain link.
type ApplyKind uint8

// Apply kinds.
const (
	FunctionCall ApplyKind = iota
	PropertyAccess
	ApplyGeneric
)
