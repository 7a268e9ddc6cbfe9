package precompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/metadata"
)

func TestScopeStackDeclare(t *testing.T) {
	md := metadata.New()
	s := NewScopeStack()

	s.Push() // expression scope
	id := md.AddVariable(metadata.VariableMetadata{Name: "a"})
	s.Declare("a", id)
	s.DeclareHere("b", id)

	_, ok := s.Resolve("a", md)
	assert.True(t, ok)
	require.NoError(t, s.Pop())

	got, ok := s.Resolve("a", md)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = s.Resolve("b", md)
	assert.False(t, ok, "b was bound in the popped scope")
}

func TestScopeStackPopRoot(t *testing.T) {
	s := NewScopeStack()
	assert.ErrorIs(t, s.Pop(), ErrEmptyScopeStack)
}

func TestScopeShadowing(t *testing.T) {
	s := NewScopeStack()
	s.DeclareHere("x", 0)
	s.Push()
	s.DeclareHere("x", 1)

	names := s.Current().Names()
	assert.Equal(t, 1, int(names["x"]))
	require.NoError(t, s.Pop())
	assert.Equal(t, 0, int(s.Current().Names()["x"]))
}

func TestResolveMarksCrossRealm(t *testing.T) {
	md := metadata.New()
	s := NewScopeStack()
	id := md.AddVariable(metadata.VariableMetadata{Name: "x", OriginalRealm: s.Realm()})
	s.DeclareHere("x", id)

	s.Push()
	_, ok := s.Resolve("x", md)
	require.True(t, ok)
	v, _ := md.Variable(id)
	assert.False(t, v.IsCrossRealm)

	s.IncrementRealm()
	s.Push()
	assert.Equal(t, 1, s.Realm())
	_, ok = s.Resolve("x", md)
	require.True(t, ok)
	v, _ = md.Variable(id)
	assert.True(t, v.IsCrossRealm)
}
