package lsp

import (
	"strings"
	"unicode"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// getInlayHints shows the inferred type after every unannotated variable
// declaration in the requested range.
func (s *Server) getInlayHints(params InlayHintParams) []InlayHint {
	hints := []InlayHint{}
	doc, rich := s.analysis(params.TextDocument.URI)
	if doc == nil || rich == nil {
		return hints
	}
	from := doc.PositionToOffset(params.Range.Start)
	to := doc.PositionToOffset(params.Range.End)

	visitor.Inspect(rich.AST, visitor.Inspector{
		Expression: func(e *ast.Expression) bool {
			if e.Span.End < from || e.Span.Start > to {
				return false
			}
			decl, ok := e.Data.(*ast.VariableDeclaration)
			if !ok || decl.TypeAnnotation != nil || decl.ID == nil {
				return true
			}
			t := rich.Metadata.VariableType(*decl.ID)
			if t == nil {
				return true
			}
			end, ok := nameEnd(doc.Content, e.Span, decl.Name)
			if !ok {
				return true
			}
			hints = append(hints, InlayHint{
				Position: doc.OffsetToPosition(end),
				Label:    ": " + t.String(),
				Kind:     InlayHintKindType,
			})
			return true
		},
	})
	return hints
}

// nameEnd returns the byte offset just past the declared name, which
// follows the declaration keyword.
func nameEnd(content string, span token.Span, name string) (int, bool) {
	if span.Start < 0 || span.End > len(content) || span.Start >= span.End {
		return 0, false
	}
	text := content[span.Start:span.End]
	kw := strings.IndexFunc(text, unicode.IsSpace)
	if kw < 0 {
		return 0, false
	}
	i := strings.Index(text[kw:], name)
	if i < 0 {
		return 0, false
	}
	return span.Start + kw + i + len(name), true
}
