package precompiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/typeinference"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// ErrorKind identifies a compiler error.
type ErrorKind uint8

// Compiler error kinds.
const (
	UndeclaredVariable ErrorKind = iota + 1
	InvalidRedeclaration
	AssignmentToConst
	SubvariantNotFound
	InvalidSlotName
	TypeError
)

func (k ErrorKind) String() string {
	switch k {
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case InvalidRedeclaration:
		return "InvalidRedeclaration"
	case AssignmentToConst:
		return "AssignmentToConst"
	case SubvariantNotFound:
		return "SubvariantNotFound"
	case InvalidSlotName:
		return "InvalidSlotName"
	case TypeError:
		return "TypeError"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// CompilerError is a user-facing error found while precompiling.
type CompilerError struct {
	Kind    ErrorKind
	Name    string
	Variant string
	// Type is set for TypeError.
	Type *typeinference.TypeError
}

func (e *CompilerError) Error() string {
	switch e.Kind {
	case UndeclaredVariable:
		return "Use of undeclared variable: " + e.Name
	case InvalidRedeclaration:
		return "Invalid redeclaration of " + e.Name
	case AssignmentToConst:
		return "Cannot assign to immutable variable: " + e.Name
	case SubvariantNotFound:
		return fmt.Sprintf("Subvariant %s does not exist for %s", e.Variant, e.Name)
	case InvalidSlotName:
		return fmt.Sprintf("Slot #%s does not exist", e.Name)
	case TypeError:
		if e.Type != nil {
			return e.Type.Error()
		}
	}
	return e.Kind.String()
}

func (e *CompilerError) Unwrap() error {
	if e.Type == nil {
		return nil
	}
	return e.Type
}

// SpannedCompilerError is a CompilerError with its byte span. Span is nil
// for nodes without a position.
type SpannedCompilerError struct {
	Err  *CompilerError
	Span *token.Span

	recovery visitor.ActionKind
}

func newError(kind ErrorKind, name string, span token.Span) *SpannedCompilerError {
	e := &SpannedCompilerError{Err: &CompilerError{Kind: kind, Name: name}}
	if !span.IsZero() {
		e.Span = &span
	}
	return e
}

func (e *SpannedCompilerError) Error() string {
	if e.Span == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Span)
}

func (e *SpannedCompilerError) Unwrap() error { return e.Err }

// RecoveryAction tells the walker how to go on once the error is recorded.
func (e *SpannedCompilerError) RecoveryAction() visitor.ActionKind { return e.recovery }

// skipping marks e to skip the failing node's children in detailed mode.
func (e *SpannedCompilerError) skipping() *SpannedCompilerError {
	e.recovery = visitor.SkipChildren
	return e
}

// FromTypeError converts a type inference error.
func FromTypeError(te *typeinference.SpannedTypeError) *SpannedCompilerError {
	return &SpannedCompilerError{Err: &CompilerError{Kind: TypeError, Type: te.Err}, Span: te.Span}
}

// DetailedCompilerErrors collects every error of a detailed pass, in the
// order they were found.
type DetailedCompilerErrors struct {
	Errors []*SpannedCompilerError
}

// HasErrors reports whether any error was recorded.
func (d *DetailedCompilerErrors) HasErrors() bool { return d != nil && len(d.Errors) > 0 }

// Record appends err.
func (d *DetailedCompilerErrors) Record(err *SpannedCompilerError) {
	d.Errors = append(d.Errors, err)
}

// AppendTypeErrors appends the errors of a detailed inference pass.
func (d *DetailedCompilerErrors) AppendTypeErrors(errs *typeinference.DetailedTypeErrors) {
	for _, te := range errs.Errors {
		d.Record(FromTypeError(te))
	}
}

func (d *DetailedCompilerErrors) Error() string {
	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (d *DetailedCompilerErrors) Unwrap() []error {
	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = e
	}
	return errs
}

// asSpanned converts any error raised during the walk.
func asSpanned(err error) *SpannedCompilerError {
	var spanned *SpannedCompilerError
	if errors.As(err, &spanned) {
		return spanned
	}
	var te *typeinference.SpannedTypeError
	if errors.As(err, &te) {
		return FromTypeError(te)
	}
	return &SpannedCompilerError{Err: &CompilerError{Kind: TypeError, Type: &typeinference.TypeError{
		Kind:   typeinference.Unimplemented,
		Detail: err.Error(),
	}}}
}
