package visitor

import "github.com/unyt-org/datex-go/pkg/ast"

// Child is one direct child of an expression: exactly one field is set.
type Child struct {
	Expression *ast.Expression
	Type       *ast.TypeExpression
}

// ChildNodes returns the direct children of e in visiting order.
func ChildNodes(e *ast.Expression) []Child {
	var out []Child
	expr := func(c *ast.Expression) {
		if c != nil {
			out = append(out, Child{Expression: c})
		}
	}
	typ := func(c *ast.TypeExpression) {
		if c != nil {
			out = append(out, Child{Type: c})
		}
	}

	switch d := e.Data.(type) {
	case *ast.List:
		for _, item := range d.Items {
			expr(item)
		}
	case *ast.Map:
		for _, entry := range d.Entries {
			expr(entry.Key)
			expr(entry.Value)
		}
	case *ast.Statements:
		for _, s := range d.Statements {
			expr(s)
		}
	case *ast.Conditional:
		expr(d.Condition)
		expr(d.Then)
		expr(d.Else)
	case *ast.VariableDeclaration:
		expr(d.Init)
		typ(d.TypeAnnotation)
	case *ast.VariableAssignment:
		expr(d.Expression)
	case *ast.TypeDeclaration:
		typ(d.Value)
	case *ast.TypeValue:
		typ(d.Value)
	case *ast.FunctionDeclaration:
		for _, p := range d.Parameters {
			typ(p.Type)
		}
		typ(d.ReturnType)
		expr(d.Body)
	case *ast.CreateRef:
		expr(d.Expression)
	case *ast.CreateRefMut:
		expr(d.Expression)
	case *ast.CreateRefFinal:
		expr(d.Expression)
	case *ast.Deref:
		expr(d.Expression)
	case *ast.SlotAssignment:
		expr(d.Expression)
	case *ast.BinaryOperation:
		expr(d.Left)
		expr(d.Right)
	case *ast.ComparisonOperation:
		expr(d.Left)
		expr(d.Right)
	case *ast.DerefAssignment:
		expr(d.DerefExpression)
		expr(d.AssignedExpression)
	case *ast.UnaryOperation:
		expr(d.Expression)
	case *ast.ApplyChain:
		expr(d.Base)
		for _, op := range d.Operations {
			expr(op.Expression)
		}
	case *ast.RemoteExecution:
		expr(d.Left)
		expr(d.Right)
	}
	return out
}

// TypeChildren returns the direct children of t in visiting order.
func TypeChildren(t *ast.TypeExpression) []*ast.TypeExpression {
	var out []*ast.TypeExpression
	add := func(cs ...*ast.TypeExpression) {
		for _, c := range cs {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch d := t.Data.(type) {
	case *ast.StructuralList:
		add(d.Items...)
	case *ast.FixedSizeList:
		add(d.Element)
	case *ast.SliceList:
		add(d.Element)
	case *ast.Union:
		add(d.Members...)
	case *ast.Intersection:
		add(d.Members...)
	case *ast.GenericAccess:
		add(d.Access...)
	case *ast.FunctionType:
		for _, p := range d.Parameters {
			add(p.Type)
		}
		add(d.ReturnType)
	case *ast.StructuralMap:
		for _, e := range d.Entries {
			add(e.Key, e.Value)
		}
	case *ast.Ref:
		add(d.Inner)
	case *ast.RefMut:
		add(d.Inner)
	case *ast.RefFinal:
		add(d.Inner)
	}
	return out
}
