// Package metadata holds the variable table built by the precompiler and
// refined by type inference. One AstMetadata is shared by every pass over the
// same AST and by the tooling that reads the result.
package metadata

import (
	"fmt"
	"sync"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/token"
	"github.com/unyt-org/datex-go/pkg/types"
)

// Shape says whether a variable holds a value (const or var) or names a type.
type Shape struct {
	IsType bool
	Kind   ast.VariableKind
}

// ValueShape returns the shape of a value variable.
func ValueShape(kind ast.VariableKind) Shape { return Shape{Kind: kind} }

// TypeShape is the shape of a type declaration.
var TypeShape = Shape{IsType: true}

// IsConst reports whether the variable is a const value.
func (s Shape) IsConst() bool { return !s.IsType && s.Kind == ast.Const }

func (s Shape) String() string {
	if s.IsType {
		return "type"
	}
	return s.Kind.String()
}

// VariableMetadata describes one declared variable.
type VariableMetadata struct {
	Name  string
	Shape Shape
	// Type is nil until a type declaration is hoisted or inference runs.
	Type types.Container
	// OriginalRealm is the realm the variable was declared in.
	OriginalRealm int
	// IsCrossRealm is set once the variable is read from another realm.
	IsCrossRealm bool
	// Annotated is set for declarations with an explicit type.
	Annotated bool
	// Span is the byte span of the declaring node.
	Span token.Span
}

// AstMetadata is the id -> variable table. Ids are dense, starting at 0.
// It is safe for concurrent use, though passes over one AST run sequentially.
type AstMetadata struct {
	mu        sync.RWMutex
	variables []VariableMetadata
}

// New returns an empty table.
func New() *AstMetadata {
	return &AstMetadata{}
}

// AddVariable appends v and returns its id.
func (m *AstMetadata) AddVariable(v VariableMetadata) ast.VariableID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables = append(m.variables, v)
	return ast.VariableID(len(m.variables) - 1)
}

// Variable returns a copy of the metadata for id.
func (m *AstMetadata) Variable(id ast.VariableID) (VariableMetadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || int(id) >= len(m.variables) {
		return VariableMetadata{}, false
	}
	return m.variables[id], true
}

// VariableType returns the type recorded for id, or nil.
func (m *AstMetadata) VariableType(id ast.VariableID) types.Container {
	v, ok := m.Variable(id)
	if !ok {
		return nil
	}
	return v.Type
}

// Update applies fn to the metadata for id. It reports whether id exists.
func (m *AstMetadata) Update(id ast.VariableID, fn func(*VariableMetadata)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || int(id) >= len(m.variables) {
		return false
	}
	fn(&m.variables[id])
	return true
}

// UpdateVariableType records t as the type of id. It panics if id is unknown,
// since every id handed out by the precompiler has an entry.
func (m *AstMetadata) UpdateVariableType(id ast.VariableID, t types.Container) {
	if !m.Update(id, func(v *VariableMetadata) { v.Type = t }) {
		panic(fmt.Sprintf("metadata: no variable with id %d", id))
	}
}

// Lookup returns the id of the most recently declared variable called name.
func (m *AstMetadata) Lookup(name string) (ast.VariableID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.variables) - 1; i >= 0; i-- {
		if m.variables[i].Name == name {
			return ast.VariableID(i), true
		}
	}
	return 0, false
}

// Variables returns a copy of all entries, indexed by id.
func (m *AstMetadata) Variables() []VariableMetadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]VariableMetadata, len(m.variables))
	copy(out, m.variables)
	return out
}

// Len returns the number of variables.
func (m *AstMetadata) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}
