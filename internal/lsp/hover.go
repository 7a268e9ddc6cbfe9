package lsp

import (
	"github.com/unyt-org/datex-go/pkg/precompiler"
	"github.com/unyt-org/datex-go/pkg/token"
)

// getHover describes the variable or inferred type under the cursor.
func (s *Server) getHover(params HoverParams) *Hover {
	doc, rich := s.analysis(params.TextDocument.URI)
	if doc == nil || rich == nil {
		return nil
	}

	n := nodeAt(rich.AST, doc.PositionToOffset(params.Position))
	text, span, ok := hoverText(rich, n)
	if !ok {
		return nil
	}
	r := doc.SpanToRange(span)
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: "```datex\n" + text + "\n```"},
		Range:    &r,
	}
}

func hoverText(rich *precompiler.RichAst, n node) (string, token.Span, bool) {
	if id, ok := n.variableID(); ok {
		if v, ok := rich.Metadata.Variable(id); ok {
			return describeVariable(v), n.span(), true
		}
	}
	switch {
	case n.expr != nil && n.expr.Type != nil:
		return n.expr.Type.String(), n.expr.Span, true
	case n.typ != nil && n.typ.Type != nil:
		return n.typ.Type.String(), n.typ.Span, true
	}
	return "", token.Span{}, false
}

// getDefinition locates the declaration of the variable under the cursor.
func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc, rich := s.analysis(params.TextDocument.URI)
	if doc == nil || rich == nil {
		return nil
	}

	id, ok := nodeAt(rich.AST, doc.PositionToOffset(params.Position)).variableID()
	if !ok {
		return nil
	}
	v, ok := rich.Metadata.Variable(id)
	if !ok || v.Span.IsZero() {
		return nil
	}
	return &Location{URI: doc.URI, Range: doc.SpanToRange(v.Span)}
}
