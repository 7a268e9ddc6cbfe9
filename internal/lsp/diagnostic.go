package lsp

import (
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// diagnosticSource tags every diagnostic published by this server.
const diagnosticSource = "datex"

// publishDiagnostics compiles the document and publishes its errors.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	file := s.workspace.Update(uri, doc.Content)
	if file.AST != nil {
		s.remember(uri, doc, file)
	}
	s.logger.Debug("compiled document", "uri", uri, "diagnostics", len(file.Diagnostics))

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(doc, file.Diagnostics),
	})
}

func toDiagnostics(doc *Document, diags []compiler.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, Diagnostic{
			Range:    doc.SpanToRange(d.Span),
			Severity: DiagnosticSeverityError,
			Code:     d.Kind,
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return out
}
