package lsp

import (
	"fmt"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/types"
	"github.com/unyt-org/datex-go/pkg/visitor"
)

// node is the innermost expression or type expression at an offset.
// Exactly one field is set, or neither when nothing matched.
type node struct {
	expr *ast.Expression
	typ  *ast.TypeExpression
}

// nodeAt finds the smallest node whose span contains offset.
func nodeAt(root *ast.Expression, offset int) node {
	var found node
	best := -1
	better := func(span token.Span) bool {
		if !span.Contains(offset) {
			return false
		}
		// on equal spans the first node visited, the outer one, wins
		return best < 0 || span.Len() < best
	}

	visitor.Inspect(root, visitor.Inspector{
		Expression: func(e *ast.Expression) bool {
			if !e.Span.Contains(offset) {
				return false
			}
			if better(e.Span) {
				found, best = node{expr: e}, e.Span.Len()
			}
			return true
		},
		TypeExpression: func(t *ast.TypeExpression) bool {
			if !t.Span.Contains(offset) {
				return false
			}
			if better(t.Span) {
				found, best = node{typ: t}, t.Span.Len()
			}
			return true
		},
	})
	return found
}

func (n node) span() token.Span {
	if n.expr != nil {
		return n.expr.Span
	}
	if n.typ != nil {
		return n.typ.Span
	}
	return token.Span{}
}

// variableID returns the variable a node declares, reads or assigns.
func (n node) variableID() (ast.VariableID, bool) {
	if n.typ != nil {
		if v, ok := n.typ.Data.(*ast.VariableAccess); ok {
			return v.ID, true
		}
		return 0, false
	}
	if n.expr == nil {
		return 0, false
	}

	var id *ast.VariableID
	switch d := n.expr.Data.(type) {
	case *ast.VariableAccess:
		return d.ID, true
	case *ast.VariableDeclaration:
		id = d.ID
	case *ast.VariableAssignment:
		id = d.ID
	case *ast.TypeDeclaration:
		id = d.ID
	case *ast.FunctionDeclaration:
		id = d.ID
	}
	if id == nil {
		return 0, false
	}
	return *id, true
}

// describeVariable renders a variable the way it would be declared.
func describeVariable(v metadata.VariableMetadata) string {
	if v.Shape.IsType {
		if ref, ok := v.Type.(*types.Reference); ok {
			return fmt.Sprintf("type %s = %s", v.Name, ref.Value())
		}
		return "type " + v.Name
	}
	if v.Type == nil {
		return fmt.Sprintf("%s %s", v.Shape, v.Name)
	}
	return fmt.Sprintf("%s %s: %s", v.Shape, v.Name, v.Type)
}

func variableKind(v metadata.VariableMetadata) CompletionItemKind {
	if v.Shape.IsType {
		return CompletionItemKindClass
	}
	if t, ok := v.Type.(types.Type); ok {
		if _, fn := t.Definition.(types.Function); fn {
			return CompletionItemKindFunction
		}
	}
	if v.Shape.IsConst() {
		return CompletionItemKindConstant
	}
	return CompletionItemKindVariable
}
