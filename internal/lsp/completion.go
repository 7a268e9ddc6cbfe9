package lsp

import (
	"strings"

	"github.com/unyt-org/datex-go/pkg/corelib"
)

var keywords = []string{
	"const", "var", "type", "function", "if", "else",
	"true", "false", "null", "mut", "final", "is", "matches",
}

// getCompletions offers declared variables, keywords and core types that
// start with the identifier before the cursor.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	items := []CompletionItem{}
	doc, rich := s.analysis(params.TextDocument.URI)
	if doc == nil {
		return items
	}
	prefix := doc.WordBefore(params.Position)
	seen := make(map[string]bool)
	add := func(item CompletionItem) {
		if seen[item.Label] || !strings.HasPrefix(item.Label, prefix) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	if rich != nil {
		vars := rich.Metadata.Variables()
		// later declarations shadow earlier ones
		for i := len(vars) - 1; i >= 0; i-- {
			v := vars[i]
			add(CompletionItem{
				Label:    v.Name,
				Kind:     variableKind(v),
				Detail:   describeVariable(v),
				SortText: "0" + v.Name,
			})
		}
	}
	for _, kw := range keywords {
		add(CompletionItem{Label: kw, Kind: CompletionItemKindKeyword, SortText: "1" + kw})
	}
	for _, id := range corelib.All() {
		name := id.String()
		add(CompletionItem{Label: name, Kind: CompletionItemKindClass, Detail: "core type", SortText: "2" + name})
	}
	return items
}
