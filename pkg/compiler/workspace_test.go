package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/testutil"
)

func TestWorkspaceOpenUpdateRemove(t *testing.T) {
	w := NewWorkspace(Options{DetailedErrors: true, Logger: testutil.NewTestLogger(t)})

	f := w.Open("a.dx", "var x = 1")
	assert.Equal(t, 1, f.Version)
	assert.Empty(t, f.Diagnostics)
	require.NotNil(t, f.AST)

	f = w.Update("a.dx", "var x = 1; y")
	assert.Equal(t, 2, f.Version)
	require.Len(t, f.Diagnostics, 1)
	assert.Equal(t, "UndeclaredVariable", f.Diagnostics[0].Kind)
	assert.NotNil(t, f.AST, "detailed mode keeps the AST")

	got, ok := w.File("a.dx")
	require.True(t, ok)
	assert.Same(t, f, got)
	assert.Equal(t, 1, w.ErrorCount())

	w.Remove("a.dx")
	_, ok = w.File("a.dx")
	assert.False(t, ok)
}

func TestWorkspaceLoadAll(t *testing.T) {
	dir := t.TempDir()
	sources := map[string]string{
		"a.dx": "var a = 1; a",
		"b.dx": "type T = integer; var b: T = 2;",
		"c.dx": "missing",
	}
	var paths []string
	for name, src := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		paths = append(paths, path)
	}

	w := NewWorkspace(Options{Logger: testutil.NewTestLogger(t)})
	w.SetConcurrency(2)
	require.NoError(t, w.LoadAll(context.Background(), paths))

	files := w.Files()
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.dx"), files[0].Path)
	assert.Empty(t, files[0].Diagnostics)
	assert.Empty(t, files[1].Diagnostics)
	require.Len(t, files[2].Diagnostics, 1)
	assert.Nil(t, files[2].AST)
}

func TestWorkspaceLoadAllMissingFile(t *testing.T) {
	w := NewWorkspace(Options{})
	err := w.LoadAll(context.Background(), []string{filepath.Join(t.TempDir(), "nope.dx")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkspaceLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorkspace(Options{})
	err := w.LoadAll(ctx, []string{"a.dx"})
	assert.ErrorIs(t, err, context.Canceled)
}
