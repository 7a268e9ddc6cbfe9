// Package compiler runs the DATEX front end: parse, precompile and infer.
//
// Compile handles one source text. Workspace keeps the compiled state of a
// set of files for tools that recompile on change, and Session carries
// declarations from one input to the next as a REPL does.
package compiler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/precompiler"
	"github.com/unyt-org/datex-go/pkg/typeinference"
)

// Options configures a compilation.
type Options struct {
	// DetailedErrors collects every error and returns the RichAst with them.
	DetailedErrors bool
	Logger         *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Compile parses, precompiles and type-checks src.
//
// Syntax errors are returned as parser.ParseErrors with a nil RichAst. In
// simple mode the first compiler or type error is returned as a
// *precompiler.SpannedCompilerError. In detailed mode the RichAst is
// returned together with a *precompiler.DetailedCompilerErrors.
func Compile(src string, opts Options) (*precompiler.RichAst, error) {
	return compile(src, opts, nil, nil)
}

func compile(src string, opts Options, md *metadata.AstMetadata, scopes *precompiler.ScopeStack) (*precompiler.RichAst, error) {
	logger := opts.logger()
	start := time.Now()

	res, err := parser.Parse(src)
	if err != nil {
		logger.Debug("parse failed", slog.String("error", err.Error()))
		return nil, err
	}

	rich, err := precompiler.Precompile(res, precompiler.Options{
		DetailedErrors: opts.DetailedErrors,
		Metadata:       md,
		Scopes:         scopes,
		Logger:         logger,
	})
	if opts.DetailedErrors {
		// detailed precompilation already ran type inference
		logCompiled(logger, rich, start, err)
		return rich, err
	}
	if err != nil {
		return nil, err
	}

	if _, err := typeinference.InferExpressionTypeSimple(rich.AST, rich.Metadata); err != nil {
		var te *typeinference.SpannedTypeError
		if errors.As(err, &te) {
			return nil, precompiler.FromTypeError(te)
		}
		return nil, err
	}
	logCompiled(logger, rich, start, nil)
	return rich, nil
}

func logCompiled(logger *slog.Logger, rich *precompiler.RichAst, start time.Time, err error) {
	if rich == nil {
		return
	}
	attrs := []any{
		slog.Int("variables", rich.Metadata.Len()),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.Int("diagnostics", len(Diagnostics(err))))
	}
	logger.Debug("compiled", attrs...)
}
