package compiler

import (
	"sync"

	"github.com/unyt-org/datex-go/pkg/ast"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/precompiler"
)

// Session compiles a sequence of inputs against shared declarations. A
// variable declared by one Eval is visible to the next.
type Session struct {
	mu     sync.Mutex
	opts   Options
	md     *metadata.AstMetadata
	scopes *precompiler.ScopeStack
}

// NewSession returns an empty session.
func NewSession(opts Options) *Session {
	return &Session{
		opts:   opts,
		md:     metadata.New(),
		scopes: precompiler.NewScopeStack(),
	}
}

// Eval compiles src in the session. A failed input leaves earlier
// declarations intact.
func (s *Session) Eval(src string) (*precompiler.RichAst, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.scopes.Current()
	rich, err := compile(src, s.opts, s.md, s.scopes)
	if err != nil {
		s.scopes.Restore(top)
	}
	return rich, err
}

// Variables returns every variable declared so far.
func (s *Session) Variables() []metadata.VariableMetadata {
	return s.md.Variables()
}

// Names returns the variables visible at the top level, by name.
func (s *Session) Names() map[string]ast.VariableID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes.Current().Names()
}
