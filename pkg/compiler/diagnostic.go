package compiler

import (
	"errors"

	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/precompiler"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/typeinference"
)

// KindSyntax is the Diagnostic kind of parse errors.
const KindSyntax = "SyntaxError"

// Diagnostic is a flattened, tool-friendly view of one error. Span is a
// byte range; it is zero when the error has no position.
type Diagnostic struct {
	Span    token.Span `json:"span" yaml:"span"`
	Kind    string     `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`
}

// Diagnostics flattens any error returned by Compile. It returns nil for a
// nil error.
func Diagnostics(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	var parseErrs parser.ParseErrors
	if errors.As(err, &parseErrs) {
		out := make([]Diagnostic, len(parseErrs))
		for i, e := range parseErrs {
			out[i] = Diagnostic{Span: e.Span, Kind: KindSyntax, Message: e.Message}
		}
		return out
	}

	var detailed *precompiler.DetailedCompilerErrors
	if errors.As(err, &detailed) {
		out := make([]Diagnostic, len(detailed.Errors))
		for i, e := range detailed.Errors {
			out[i] = fromCompilerError(e)
		}
		return out
	}

	var spanned *precompiler.SpannedCompilerError
	if errors.As(err, &spanned) {
		return []Diagnostic{fromCompilerError(spanned)}
	}

	var typeErrs *typeinference.DetailedTypeErrors
	if errors.As(err, &typeErrs) {
		out := make([]Diagnostic, len(typeErrs.Errors))
		for i, e := range typeErrs.Errors {
			out[i] = fromCompilerError(precompiler.FromTypeError(e))
		}
		return out
	}

	var typeErr *typeinference.SpannedTypeError
	if errors.As(err, &typeErr) {
		return []Diagnostic{fromCompilerError(precompiler.FromTypeError(typeErr))}
	}

	return []Diagnostic{{Kind: "Error", Message: err.Error()}}
}

func fromCompilerError(e *precompiler.SpannedCompilerError) Diagnostic {
	d := Diagnostic{Kind: e.Err.Kind.String(), Message: e.Err.Error()}
	if e.Err.Kind == precompiler.TypeError && e.Err.Type != nil {
		d.Kind = e.Err.Type.Kind.String()
	}
	if e.Span != nil {
		d.Span = *e.Span
	}
	return d
}
