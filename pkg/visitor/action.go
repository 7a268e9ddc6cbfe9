// Package visitor walks DATEX syntax trees.
//
// A visitor overrides only the node kinds it cares about; every method
// returns an Action telling the walker what to do with the node's children.
// WalkExpression and WalkTypeExpression are the only traversal code: every
// pass (resolution, inference, tooling) reuses them.
package visitor

import (
	"errors"

	"github.com/unyt-org/datex-go/pkg/ast"
)

// ActionKind says what the walker does after a visit method returns.
type ActionKind uint8

// Action kinds.
const (
	// VisitChildren recurses into the node's children. It is the zero value.
	VisitChildren ActionKind = iota
	// SkipChildren leaves the node as it is.
	SkipChildren
	// ToNoop replaces the node's payload with a no-op marker.
	ToNoop
	// Replace swaps in a new node without visiting old or new children.
	Replace
	// ReplaceRecurseChildNodes visits the original children, then swaps in the new node.
	ReplaceRecurseChildNodes
	// ReplaceRecurse swaps in the new node and visits it again from the top.
	ReplaceRecurse
)

func (k ActionKind) String() string {
	switch k {
	case VisitChildren:
		return "VisitChildren"
	case SkipChildren:
		return "SkipChildren"
	case ToNoop:
		return "ToNoop"
	case Replace:
		return "Replace"
	case ReplaceRecurseChildNodes:
		return "ReplaceRecurseChildNodes"
	case ReplaceRecurse:
		return "ReplaceRecurse"
	}
	return "ActionKind(?)"
}

// Action is the result of visiting a node of type T.
type Action[T any] struct {
	Kind ActionKind
	Node *T
}

// ExpressionAction is an Action on expressions.
type ExpressionAction = Action[ast.Expression]

// TypeAction is an Action on type expressions.
type TypeAction = Action[ast.TypeExpression]

// Children returns the VisitChildren action.
func Children[T any]() Action[T] { return Action[T]{Kind: VisitChildren} }

// Skip returns the SkipChildren action.
func Skip[T any]() Action[T] { return Action[T]{Kind: SkipChildren} }

// Noop returns the ToNoop action.
func Noop[T any]() Action[T] { return Action[T]{Kind: ToNoop} }

// ReplaceWith returns a Replace action.
func ReplaceWith[T any](n *T) Action[T] { return Action[T]{Kind: Replace, Node: n} }

// ReplaceAfterChildren returns a ReplaceRecurseChildNodes action.
func ReplaceAfterChildren[T any](n *T) Action[T] {
	return Action[T]{Kind: ReplaceRecurseChildNodes, Node: n}
}

// ReplaceAndRevisit returns a ReplaceRecurse action.
func ReplaceAndRevisit[T any](n *T) Action[T] { return Action[T]{Kind: ReplaceRecurse, Node: n} }

// Recoverable is implemented by errors that know how the walk should go on
// after they have been recorded. Only node-free kinds make sense here.
type Recoverable interface {
	error
	RecoveryAction() ActionKind
}

// RecoveryAction returns the action carried by err, if any.
func RecoveryAction(err error) (ActionKind, bool) {
	var r Recoverable
	if errors.As(err, &r) {
		return r.RecoveryAction(), true
	}
	return 0, false
}

// WithRecovery attaches a recovery action to err.
func WithRecovery(err error, kind ActionKind) error {
	return &recoverableError{err: err, kind: kind}
}

type recoverableError struct {
	err  error
	kind ActionKind
}

func (e *recoverableError) Error() string              { return e.err.Error() }
func (e *recoverableError) Unwrap() error              { return e.err }
func (e *recoverableError) RecoveryAction() ActionKind { return e.kind }
