package typeinference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/types"
)

// ErrorKind identifies a type error.
type ErrorKind uint8

// Type error kinds.
const (
	SubvariantNotFound ErrorKind = iota + 1
	InvalidDerefType
	Unimplemented
	MismatchedOperands
	AssignmentToImmutableReference
	AssignmentToImmutableValue
	AssignmentToConstant
	AssignmentTypeMismatch
)

var errorKindNames = map[ErrorKind]string{
	SubvariantNotFound:             "SubvariantNotFound",
	InvalidDerefType:               "InvalidDerefType",
	Unimplemented:                  "Unimplemented",
	MismatchedOperands:             "MismatchedOperands",
	AssignmentToImmutableReference: "AssignmentToImmutableReference",
	AssignmentToImmutableValue:     "AssignmentToImmutableValue",
	AssignmentToConstant:           "AssignmentToConstant",
	AssignmentTypeMismatch:         "AssignmentTypeMismatch",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// TypeError is a user-facing type error. Only the fields relevant to Kind
// are set.
type TypeError struct {
	Kind ErrorKind
	// Name is the variable or type involved.
	Name    string
	Variant string
	// Operator is set for MismatchedOperands.
	Operator string
	// Left and Right are the operand types of MismatchedOperands.
	Left, Right types.Container
	// Assigned and Annotated are set for AssignmentTypeMismatch.
	Assigned, Annotated types.Container
	// Type is the offending type of InvalidDerefType.
	Type types.Container
	// Detail describes an Unimplemented case.
	Detail string
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case SubvariantNotFound:
		return fmt.Sprintf("Type %s does not have a subvariant named %s", e.Name, e.Variant)
	case InvalidDerefType:
		return fmt.Sprintf("Cannot dereference value of type %s", e.Type)
	case Unimplemented:
		return "Unimplemented type inference case: " + e.Detail
	case MismatchedOperands:
		return fmt.Sprintf("Cannot perform %q operation on %s and %s", e.Operator, e.Left, e.Right)
	case AssignmentToImmutableReference:
		return fmt.Sprintf("Cannot assign to immutable reference variable '%s'", e.Name)
	case AssignmentToImmutableValue:
		return fmt.Sprintf("Cannot assign to immutable variable '%s'", e.Name)
	case AssignmentToConstant:
		return fmt.Sprintf("Cannot assign to constant variable '%s'", e.Name)
	case AssignmentTypeMismatch:
		return fmt.Sprintf("Cannot assign %s to %s", e.Assigned, e.Annotated)
	}
	return e.Kind.String()
}

// SpannedTypeError is a TypeError located in the source. Span is nil when
// the node carried no position.
type SpannedTypeError struct {
	Err  *TypeError
	Span *token.Span
}

func newSpanned(err *TypeError, span token.Span) *SpannedTypeError {
	if span.IsZero() {
		return &SpannedTypeError{Err: err}
	}
	return &SpannedTypeError{Err: err, Span: &span}
}

func (e *SpannedTypeError) Error() string {
	if e.Span == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Span)
}

func (e *SpannedTypeError) Unwrap() error { return e.Err }

// DetailedTypeErrors collects every type error of one inference pass.
type DetailedTypeErrors struct {
	Errors []*SpannedTypeError
}

// HasErrors reports whether any error was recorded.
func (d *DetailedTypeErrors) HasErrors() bool { return d != nil && len(d.Errors) > 0 }

func (d *DetailedTypeErrors) add(err error) {
	var spanned *SpannedTypeError
	if errors.As(err, &spanned) {
		d.Errors = append(d.Errors, spanned)
		return
	}
	var te *TypeError
	if errors.As(err, &te) {
		d.Errors = append(d.Errors, &SpannedTypeError{Err: te})
		return
	}
	// not a type error: keep the message so nothing is dropped
	d.Errors = append(d.Errors, &SpannedTypeError{Err: &TypeError{Kind: Unimplemented, Detail: err.Error()}})
}

func (d *DetailedTypeErrors) Error() string {
	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (d *DetailedTypeErrors) Unwrap() []error {
	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = e
	}
	return errs
}
