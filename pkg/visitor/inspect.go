package visitor

import "github.com/unyt-org/datex-go/pkg/ast"

// Inspector receives nodes during a read-only walk. Returning false from
// either callback skips that node's children. A nil callback visits all
// nodes of that grammar without stopping.
type Inspector struct {
	Expression     func(e *ast.Expression) bool
	TypeExpression func(t *ast.TypeExpression) bool
}

// Inspect walks e depth-first in visiting order without modifying it.
// Unlike WalkExpression it tolerates Recover and Placeholder nodes.
func Inspect(e *ast.Expression, in Inspector) {
	if e == nil {
		return
	}
	if in.Expression != nil && !in.Expression(e) {
		return
	}
	for _, c := range ChildNodes(e) {
		if c.Expression != nil {
			Inspect(c.Expression, in)
		} else {
			InspectType(c.Type, in)
		}
	}
}

// InspectType walks t depth-first without modifying it.
func InspectType(t *ast.TypeExpression, in Inspector) {
	if t == nil {
		return
	}
	if in.TypeExpression != nil && !in.TypeExpression(t) {
		return
	}
	for _, c := range TypeChildren(t) {
		InspectType(c, in)
	}
}
