package precompiler

import (
	"errors"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/metadata"
)

// ErrEmptyScopeStack is the panic value when more scopes are popped than pushed.
var ErrEmptyScopeStack = errors.New("could not pop scope, stack is empty")

// Scope maps names to variable ids for one syntactic region.
type Scope struct {
	parent *Scope
	realm  int
	names  map[string]ast.VariableID
}

// Child returns a new scope nested in s, in the same realm.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, realm: s.realm, names: make(map[string]ast.VariableID)}
}

// Lookup resolves name in s or any enclosing scope.
func (s *Scope) Lookup(name string) (ast.VariableID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// Names returns every name visible from s, innermost binding first.
func (s *Scope) Names() map[string]ast.VariableID {
	out := make(map[string]ast.VariableID)
	for cur := s; cur != nil; cur = cur.parent {
		for name, id := range cur.names {
			if _, shadowed := out[name]; !shadowed {
				out[name] = id
			}
		}
	}
	return out
}

// ScopeStack is the chain of scopes entered during a pass. The precompiler
// pushes one scope per visited expression, so a declaration lands in the
// scope of the expression that contains it.
//
// A ScopeStack may be reused across passes (a REPL keeps one per session),
// but not by two passes at once.
type ScopeStack struct {
	current *Scope
}

// NewScopeStack returns a stack holding only the root scope.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{current: &Scope{names: make(map[string]ast.VariableID)}}
}

// Current returns the innermost scope.
func (s *ScopeStack) Current() *Scope { return s.current }

// Push enters a new scope.
func (s *ScopeStack) Push() { s.current = s.current.Child() }

// Pop leaves the innermost scope. The root scope cannot be popped.
func (s *ScopeStack) Pop() error {
	if s.current.parent == nil {
		return ErrEmptyScopeStack
	}
	s.current = s.current.parent
	return nil
}

// Restore makes scope the innermost one again. A pass that stops at an
// error leaves its scopes open; a REPL restores the scope it started in.
func (s *ScopeStack) Restore(scope *Scope) { s.current = scope }

// IncrementRealm moves the innermost scope into a new realm, as happens on
// the right-hand side of a remote execution.
func (s *ScopeStack) IncrementRealm() { s.current.realm++ }

// Realm returns the realm index of the innermost scope.
func (s *ScopeStack) Realm() int { return s.current.realm }

// declarationScope is the scope enclosing the expression being visited.
func (s *ScopeStack) declarationScope() *Scope {
	if s.current.parent != nil {
		return s.current.parent
	}
	return s.current
}

// Declare binds name in the scope enclosing the current expression.
func (s *ScopeStack) Declare(name string, id ast.VariableID) {
	s.declarationScope().names[name] = id
}

// DeclareHere binds name in the innermost scope. Hoisted declarations and
// function parameters use it.
func (s *ScopeStack) DeclareHere(name string, id ast.VariableID) {
	s.current.names[name] = id
}

// Resolve looks up name and marks the variable cross-realm when it is read
// from a realm other than the one it was declared in.
func (s *ScopeStack) Resolve(name string, md *metadata.AstMetadata) (ast.VariableID, bool) {
	id, ok := s.current.Lookup(name)
	if !ok {
		return 0, false
	}
	realm := s.Realm()
	md.Update(id, func(v *metadata.VariableMetadata) {
		if v.OriginalRealm != realm {
			v.IsCrossRealm = true
		}
	})
	return id, true
}
