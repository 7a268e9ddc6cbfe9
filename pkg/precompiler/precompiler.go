// Package precompiler resolves names in a parsed DATEX program.
//
// It walks the AST once, replacing identifiers with variable accesses or
// core library references, hoisting type declarations so they can refer to
// each other, and rewriting token-index spans into byte spans. The result is
// a RichAst: the rewritten tree plus the variable metadata table shared with
// type inference and tooling.
package precompiler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/typeinference"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// EndpointSlot is the index of the #endpoint slot.
const EndpointSlot uint32 = 0xFFFFFF00

var namedSlots = map[string]uint32{
	"endpoint": EndpointSlot,
}

// RichAst is a precompiled AST with its variable metadata.
type RichAst struct {
	AST      *ast.Expression
	Metadata *metadata.AstMetadata
}

// Options configures a precompilation.
type Options struct {
	// DetailedErrors collects every error and runs detailed type inference.
	DetailedErrors bool
	// Metadata and Scopes continue an earlier pass, as a REPL does. Both
	// are created fresh when nil.
	Metadata *metadata.AstMetadata
	Scopes   *ScopeStack
	Logger   *slog.Logger
}

// Precompiler is the resolution pass. Use Precompile; a Precompiler runs once.
type Precompiler struct {
	visitor.Base

	metadata *metadata.AstMetadata
	scopes   *ScopeStack
	spans    []token.Span
	errors   *DetailedCompilerErrors
	logger   *slog.Logger

	// pushed records, per visited expression, whether a scope was entered.
	pushed []bool
}

// PrecompileSimple precompiles res, stopping at the first error.
func PrecompileSimple(res *parser.ValidParseResult) (*RichAst, error) {
	return Precompile(res, Options{})
}

// PrecompileDetailed precompiles res, collecting every error. The returned
// RichAst is set even when the error is non-nil.
func PrecompileDetailed(res *parser.ValidParseResult) (*RichAst, error) {
	return Precompile(res, Options{DetailedErrors: true})
}

// Precompile resolves res.AST in place.
//
// In simple mode the first error is returned as a *SpannedCompilerError and
// the RichAst is nil. In detailed mode the pass completes, type inference
// runs on the result, and all errors of both passes come back as a
// *DetailedCompilerErrors together with the RichAst.
func Precompile(res *parser.ValidParseResult, opts Options) (*RichAst, error) {
	p := &Precompiler{
		metadata: opts.Metadata,
		scopes:   opts.Scopes,
		spans:    res.Spans,
		logger:   opts.Logger,
	}
	if p.metadata == nil {
		p.metadata = metadata.New()
	}
	if p.scopes == nil {
		p.scopes = NewScopeStack()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if opts.DetailedErrors {
		p.errors = &DetailedCompilerErrors{}
	}

	if err := visitor.WalkExpression(p, res.AST); err != nil {
		return nil, asSpanned(err)
	}
	rich := &RichAst{AST: res.AST, Metadata: p.metadata}

	if !opts.DetailedErrors {
		return rich, nil
	}
	if _, err := typeinference.InferExpressionTypeDetailed(rich.AST, rich.Metadata); err != nil {
		var typeErrs *typeinference.DetailedTypeErrors
		if errors.As(err, &typeErrs) {
			p.errors.AppendTypeErrors(typeErrs)
		} else {
			p.errors.Record(asSpanned(err))
		}
	}
	if p.errors.HasErrors() {
		p.logger.Debug("precompiled with errors", slog.Int("errors", len(p.errors.Errors)))
		return rich, p.errors
	}
	return rich, nil
}

// collect records err in detailed mode and returns nil, or returns err.
func (p *Precompiler) collect(err *SpannedCompilerError) error {
	if p.errors == nil {
		return err
	}
	p.errors.Record(err)
	return nil
}

// byteSpan translates a token-index span. The zero span of hand-built
// nodes is kept as is.
func (p *Precompiler) byteSpan(s token.Span) token.Span {
	if s.IsZero() || len(p.spans) == 0 {
		return s
	}
	start, end := s.Start, s.End-1
	if start >= len(p.spans) {
		start = len(p.spans) - 1
	}
	if end >= len(p.spans) {
		end = len(p.spans) - 1
	}
	if end < start {
		end = start
	}
	return token.NewSpan(p.spans[start].Start, p.spans[end].End)
}

// ---------- Hooks ----------

// BeforeVisitExpression enters a scope for every expression except remote
// executions, which manage their scopes themselves.
func (p *Precompiler) BeforeVisitExpression(e *ast.Expression) {
	e.Span = p.byteSpan(e.Span)
	_, remote := e.Data.(*ast.RemoteExecution)
	if !remote {
		p.scopes.Push()
	}
	p.pushed = append(p.pushed, !remote)
}

// AfterVisitExpression leaves the scope entered for e.
func (p *Precompiler) AfterVisitExpression(*ast.Expression) {
	last := len(p.pushed) - 1
	pushed := p.pushed[last]
	p.pushed = p.pushed[:last]
	if !pushed {
		return
	}
	if err := p.scopes.Pop(); err != nil {
		panic(err)
	}
}

// BeforeVisitTypeExpression rewrites the span of t.
func (p *Precompiler) BeforeVisitTypeExpression(t *ast.TypeExpression) {
	t.Span = p.byteSpan(t.Span)
}

// HandleExpressionError records err in detailed mode. The walk continues
// with the error's recovery action.
func (p *Precompiler) HandleExpressionError(err error, _ *ast.Expression) (visitor.ExpressionAction, error) {
	spanned := asSpanned(err)
	if p.errors == nil {
		return visitor.ExpressionAction{}, spanned
	}
	p.errors.Record(spanned)
	return visitor.ExpressionAction{Kind: spanned.RecoveryAction()}, nil
}

// HandleTypeExpressionError records err in detailed mode.
func (p *Precompiler) HandleTypeExpressionError(err error, _ *ast.TypeExpression) (visitor.TypeAction, error) {
	spanned := asSpanned(err)
	if p.errors == nil {
		return visitor.TypeAction{}, spanned
	}
	p.errors.Record(spanned)
	return visitor.TypeAction{Kind: spanned.RecoveryAction()}, nil
}

// ---------- Resolution ----------

// addVariable allocates an id for a declaration and binds it in the
// enclosing scope, or in the innermost one when here is set.
func (p *Precompiler) addVariable(name string, shape metadata.Shape, span token.Span, here bool) ast.VariableID {
	id := p.metadata.AddVariable(metadata.VariableMetadata{
		Name:          name,
		Shape:         shape,
		OriginalRealm: p.scopes.Realm(),
		Span:          span,
	})
	if here {
		p.scopes.DeclareHere(name, id)
	} else {
		p.scopes.Declare(name, id)
	}
	p.logger.Debug("declared variable", slog.String("name", name), slog.Int("id", int(id)), slog.String("shape", shape.String()))
	return id
}

// resolve finds name among declared variables, then in the core library.
func (p *Precompiler) resolve(name string) (ast.ResolvedVariable, bool) {
	if id, ok := p.scopes.Resolve(name, p.metadata); ok {
		return ast.ResolvedID(id), true
	}
	if id, err := corelib.FromName(name); err == nil {
		return ast.ResolvedPointer(id.Address()), true
	}
	return ast.ResolvedVariable{}, false
}

// nominalPlaceholder registers the reference a type declaration back-patches.
func (p *Precompiler) nominalPlaceholder(id ast.VariableID, name string) {
	base, variant, _ := strings.Cut(name, "/")
	p.metadata.UpdateVariableType(id, types.NewNominal(base, variant))
}

func resolvedExpression(r ast.ResolvedVariable, name string, span token.Span) *ast.Expression {
	if r.IsPointer() {
		return ast.New(&ast.GetReference{Address: *r.Address}, span)
	}
	return ast.New(&ast.VariableAccess{ID: r.ID, Name: name}, span)
}

// VisitIdentifier replaces a name with the variable or core library entry it
// resolves to.
func (p *Precompiler) VisitIdentifier(e *ast.Expression, n *ast.Identifier) (visitor.ExpressionAction, error) {
	r, ok := p.resolve(n.Name)
	if !ok {
		return visitor.ExpressionAction{}, newError(UndeclaredVariable, n.Name, e.Span)
	}
	return visitor.ReplaceWith(resolvedExpression(r, n.Name, e.Span)), nil
}

// VisitStatements hoists the block's type declarations before its statements
// are visited.
func (p *Precompiler) VisitStatements(_ *ast.Expression, n *ast.Statements) (visitor.ExpressionAction, error) {
	registered := make(map[string]bool)
	for _, stmt := range n.Statements {
		decl, ok := stmt.Data.(*ast.TypeDeclaration)
		if !ok {
			continue
		}
		decl.Hoisted = true
		span := p.byteSpan(stmt.Span)
		if registered[decl.Name] {
			if err := p.collect(newError(InvalidRedeclaration, decl.Name, span)); err != nil {
				return visitor.ExpressionAction{}, err
			}
		}
		registered[decl.Name] = true

		// hoisted names live in the block itself
		id := p.addVariable(decl.Name, metadata.TypeShape, span, true)
		p.nominalPlaceholder(id, decl.Name)
	}
	return visitor.Children[ast.Expression](), nil
}

// VisitTypeDeclaration implements visitor.ExpressionVisitor.
func (p *Precompiler) VisitTypeDeclaration(e *ast.Expression, n *ast.TypeDeclaration) (visitor.ExpressionAction, error) {
	if n.Hoisted {
		if id, ok := p.scopes.Resolve(n.Name, p.metadata); ok {
			n.ID = &id
			return visitor.Children[ast.Expression](), nil
		}
	}
	id := p.addVariable(n.Name, metadata.TypeShape, e.Span, false)
	p.nominalPlaceholder(id, n.Name)
	n.ID = &id
	return visitor.Children[ast.Expression](), nil
}

// VisitVariableDeclaration allocates the variable's ID.
func (p *Precompiler) VisitVariableDeclaration(e *ast.Expression, n *ast.VariableDeclaration) (visitor.ExpressionAction, error) {
	// allocated before the init expression is visited, which therefore
	// sees the new binding
	id := p.addVariable(n.Name, metadata.ValueShape(n.Kind), e.Span, false)
	if n.TypeAnnotation != nil {
		p.metadata.Update(id, func(v *metadata.VariableMetadata) { v.Annotated = true })
	}
	n.ID = &id
	return visitor.Children[ast.Expression](), nil
}

// VisitVariableAssignment binds the target and rejects writes to constants.
func (p *Precompiler) VisitVariableAssignment(e *ast.Expression, n *ast.VariableAssignment) (visitor.ExpressionAction, error) {
	id, ok := p.scopes.Resolve(n.Name, p.metadata)
	if !ok {
		return visitor.ExpressionAction{}, newError(UndeclaredVariable, n.Name, e.Span)
	}
	n.ID = &id
	if v, _ := p.metadata.Variable(id); v.Shape.IsConst() {
		if err := p.collect(newError(AssignmentToConst, n.Name, e.Span)); err != nil {
			return visitor.ExpressionAction{}, err
		}
	}
	return visitor.Children[ast.Expression](), nil
}

// VisitFunctionDeclaration binds the function name, then its parameters around
// the body.
func (p *Precompiler) VisitFunctionDeclaration(e *ast.Expression, n *ast.FunctionDeclaration) (visitor.ExpressionAction, error) {
	id := p.addVariable(n.Name, metadata.ValueShape(ast.Const), e.Span, false)
	n.ID = &id

	// parameters are bound in the function's own scope, around the body
	for i := range n.Parameters {
		param := &n.Parameters[i]
		if param.Type != nil {
			if err := visitor.WalkTypeExpression(p, param.Type); err != nil {
				return visitor.ExpressionAction{}, err
			}
		}
		pid := p.addVariable(param.Name, metadata.ValueShape(ast.Const), e.Span, true)
		if param.Type != nil {
			p.metadata.Update(pid, func(v *metadata.VariableMetadata) { v.Annotated = true })
		}
		param.ID = &pid
	}
	if n.ReturnType != nil {
		if err := visitor.WalkTypeExpression(p, n.ReturnType); err != nil {
			return visitor.ExpressionAction{}, err
		}
	}
	if err := visitor.WalkExpression(p, n.Body); err != nil {
		return visitor.ExpressionAction{}, err
	}
	return visitor.Skip[ast.Expression](), nil
}

// VisitBinaryOperation turns a/b into a variant access when a names a type
// or value and b is not a variable, as in integer/u8 or User/admin.
func (p *Precompiler) VisitBinaryOperation(e *ast.Expression, n *ast.BinaryOperation) (visitor.ExpressionAction, error) {
	if n.Operator != ast.OpDivide {
		return visitor.Children[ast.Expression](), nil
	}
	left, ok := n.Left.Data.(*ast.Identifier)
	if !ok {
		return visitor.Children[ast.Expression](), nil
	}
	right, ok := n.Right.Data.(*ast.Identifier)
	if !ok {
		return visitor.Children[ast.Expression](), nil
	}

	base, leftOK := p.resolve(left.Name)
	_, rightOK := p.resolve(right.Name)
	if !leftOK {
		if err := p.collect(newError(UndeclaredVariable, left.Name, p.byteSpan(n.Left.Span))); err != nil {
			return visitor.ExpressionAction{}, err
		}
		if !rightOK {
			if err := p.collect(newError(UndeclaredVariable, right.Name, p.byteSpan(n.Right.Span))); err != nil {
				return visitor.ExpressionAction{}, err
			}
		}
		return visitor.Skip[ast.Expression](), nil
	}
	if rightOK {
		return visitor.Children[ast.Expression](), nil
	}

	if !base.IsPointer() {
		if _, ok := p.scopes.Resolve(left.Name+"/"+right.Name, p.metadata); !ok {
			err := newError(SubvariantNotFound, left.Name, e.Span)
			err.Err.Variant = right.Name
			return visitor.ExpressionAction{}, err.skipping()
		}
	}
	return visitor.ReplaceWith(ast.New(&ast.VariantAccess{
		Base:    base,
		Name:    left.Name,
		Variant: right.Name,
	}, e.Span)), nil
}

// VisitRemoteExecution resolves the left side in the current realm and the
// right side in a new one.
func (p *Precompiler) VisitRemoteExecution(_ *ast.Expression, n *ast.RemoteExecution) (visitor.ExpressionAction, error) {
	if err := visitor.WalkExpression(p, n.Left); err != nil {
		return visitor.ExpressionAction{}, err
	}
	p.scopes.Push()
	p.scopes.IncrementRealm()
	if err := visitor.WalkExpression(p, n.Right); err != nil {
		return visitor.ExpressionAction{}, err
	}
	if err := p.scopes.Pop(); err != nil {
		panic(err)
	}
	return visitor.Skip[ast.Expression](), nil
}

func (p *Precompiler) resolveSlot(s *ast.Slot, span token.Span) error {
	if !s.IsNamed() {
		return nil
	}
	index, ok := namedSlots[s.Name]
	if !ok {
		return newError(InvalidSlotName, s.Name, span)
	}
	s.Index = index
	return nil
}

// VisitSlot implements visitor.ExpressionVisitor.
func (p *Precompiler) VisitSlot(e *ast.Expression, n *ast.Slot) (visitor.ExpressionAction, error) {
	if err := p.resolveSlot(n, e.Span); err != nil {
		return visitor.ExpressionAction{}, err
	}
	return visitor.Skip[ast.Expression](), nil
}

// VisitSlotAssignment implements visitor.ExpressionVisitor.
func (p *Precompiler) VisitSlotAssignment(e *ast.Expression, n *ast.SlotAssignment) (visitor.ExpressionAction, error) {
	if err := p.resolveSlot(&n.Slot, e.Span); err != nil {
		return visitor.ExpressionAction{}, err
	}
	return visitor.Children[ast.Expression](), nil
}

// VisitTypeLiteral resolves a named type such as text, integer/u8 or
// User/admin.
func (p *Precompiler) VisitTypeLiteral(t *ast.TypeExpression, n *ast.Literal) (visitor.TypeAction, error) {
	if n.Variant == "" {
		r, ok := p.resolve(n.Name)
		if !ok {
			return visitor.TypeAction{}, newError(UndeclaredVariable, n.Name, t.Span).skipping()
		}
		return visitor.ReplaceWith(resolvedType(r, n.Name, t.Span)), nil
	}

	base, ok := p.resolve(n.Name)
	if !ok {
		return visitor.TypeAction{}, newError(UndeclaredVariable, n.Name, t.Span).skipping()
	}
	full := n.FullName()
	if base.IsPointer() {
		if id, err := corelib.FromName(full); err == nil {
			return visitor.ReplaceWith(resolvedType(ast.ResolvedPointer(id.Address()), full, t.Span)), nil
		}
	} else if id, ok := p.scopes.Resolve(full, p.metadata); ok {
		return visitor.ReplaceWith(resolvedType(ast.ResolvedID(id), full, t.Span)), nil
	}
	err := newError(SubvariantNotFound, n.Name, t.Span)
	err.Err.Variant = n.Variant
	return visitor.TypeAction{}, err.skipping()
}

func resolvedType(r ast.ResolvedVariable, name string, span token.Span) *ast.TypeExpression {
	if r.IsPointer() {
		return ast.NewType(&ast.GetReference{Address: *r.Address}, span)
	}
	return ast.NewType(&ast.VariableAccess{ID: r.ID, Name: name}, span)
}
