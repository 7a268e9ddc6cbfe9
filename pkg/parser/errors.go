package parser

import (
	"fmt"
	"strings"

	"github.com/unyt-org/datex-go/pkg/token"
)

// ParseError is a syntax error located by a byte span.
type ParseError struct {
	Span    token.Span
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
}

// ParseErrors is the list of errors collected during one parse.
type ParseErrors []*ParseError

func (errs ParseErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs ParseErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrInvalidNumber      = "invalid number literal %q"
	ErrInvalidEndpoint    = "invalid endpoint %q"
	ErrInvalidAddress     = "invalid pointer address %q"
	ErrInvalidSlot        = "invalid slot %q"
	ErrIllegalCharacter   = "illegal character %q"
	ErrInvalidTarget      = "invalid assignment target"
	ErrExpectedExpression = "expected expression, found %s"
	ErrExpectedType       = "expected type, found %s"
)
