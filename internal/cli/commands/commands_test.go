package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/cli/config"
	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/internal/testutil"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCheckCommand(), "check [paths...]", []string{"watch", "debounce", "no-history", "include"}},
		{NewInferCommand(), "infer [file]", []string{"expr"}},
		{NewInspectCommand(), "inspect [file]", []string{"expr", "interactive"}},
		{NewReplCommand(), "repl", nil},
		{NewHistoryCommand(), "history [run-id]", []string{"limit"}},
		{NewServeCommand(), "serve", []string{"addr", "no-history"}},
		{NewLSPCommand(), "lsp", nil},
		{NewInitCommand(), "init [directory]", []string{"force", "example"}},
		{NewDoctorCommand(), "doctor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

// newTestContext builds a command context writing plain text to buf.
func newTestContext(t *testing.T, mode output.Mode) (*CommandContext, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.ProjectRoot = t.TempDir()
	cfg.StatePath = filepath.Join(cfg.ProjectRoot, ".datex", "state.db")
	buf := new(bytes.Buffer)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   testutil.NewTestLogger(t),
		Renderer: output.NewRendererWithTTY(buf, buf, false, mode),
	}, buf
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpandInputs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.dx"), "1")
	writeFile(t, filepath.Join(root, "lib", "b.dx"), "2")
	writeFile(t, filepath.Join(root, "lib", "deep", "c.dx"), "3")
	writeFile(t, filepath.Join(root, "lib", "notes.txt"), "")
	writeFile(t, filepath.Join(root, ".git", "d.dx"), "4")

	files, err := expandInputs(nil, root, []string{"**/*.dx"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.dx"),
		filepath.Join(root, "lib", "b.dx"),
		filepath.Join(root, "lib", "deep", "c.dx"),
	}, files)

	files, err = expandInputs(nil, root, []string{"lib/*.dx"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "lib", "b.dx")}, files)

	lib := filepath.Join(root, "lib")
	files, err = expandInputs([]string{lib, filepath.Join(lib, "b.dx")}, root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(lib, "b.dx"), filepath.Join(lib, "deep", "c.dx")}, files)

	_, err = expandInputs([]string{filepath.Join(root, "missing.dx")}, root, nil)
	require.Error(t, err)
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"**/*.dx", "a.dx", true},
		{"**/*.dx", "x/y/a.dx", true},
		{"src/**/*.dx", "src/a.dx", true},
		{"src/**/*.dx", "lib/a.dx", false},
		{"*.dx", "x/a.dx", false},
		{"src/*", "src", false},
		{"**", "anything/at/all", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchGlob(tt.pattern, tt.name), "%s ~ %s", tt.pattern, tt.name)
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dx")
	writeFile(t, path, "var a = 1")

	src, err := readSource(nil, []string{path}, "")
	require.NoError(t, err)
	assert.Equal(t, "var a = 1", src)

	src, err = readSource(bytes.NewBufferString("1 + 2"), []string{"-"}, "")
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", src)

	src, err = readSource(nil, nil, "true")
	require.NoError(t, err)
	assert.Equal(t, "true", src)

	_, err = readSource(nil, []string{path}, "true")
	require.Error(t, err)
	_, err = readSource(nil, nil, "")
	require.Error(t, err)
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := filepath.Join(dir, "good.dx")
	bad := filepath.Join(dir, "bad.dx")
	writeFile(t, good, "var a = 1; a")
	writeFile(t, bad, "a")

	ws := compiler.NewWorkspace(compiler.Options{})
	require.NoError(t, ws.LoadAll(ctx, []string{good, bad}))

	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	defer func() { _ = store.Close() }()

	id, err := saveRun(ctx, store, ws)
	require.NoError(t, err)

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.True(t, run.Completed())
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, 1, run.ErrorCount)

	diags, err := store.RunDiagnostics(ctx, id)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, bad, diags[0].Path)
}

func TestCheckFilesRecordsHistory(t *testing.T) {
	cc, _ := newTestContext(t, output.ModeText)
	path := filepath.Join(cc.Cfg.ProjectRoot, "main.dx")
	writeFile(t, path, "var a = 1;\nb")

	res, err := checkFiles(context.Background(), cc, []string{path}, &CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Errors)
	assert.NotEmpty(t, res.Summary.RunID)
	require.Len(t, res.Files, 1)
	require.Len(t, res.Files[0].Diagnostics, 1)
	assert.Equal(t, 2, res.Files[0].Diagnostics[0].Line)

	res, err = checkFiles(context.Background(), cc, []string{path}, &CheckOptions{NoHistory: true})
	require.NoError(t, err)
	assert.Empty(t, res.Summary.RunID)
}

func TestRepl(t *testing.T) {
	cc, buf := newTestContext(t, output.ModeText)
	r := newRepl(cc)

	assert.False(t, r.handle("var total = 1"))
	assert.False(t, r.handle("total + 1"))
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	assert.False(t, r.handle("missing"))
	assert.Contains(t, buf.String(), "Use of undeclared variable: missing")

	// declarations survive a failed input
	buf.Reset()
	assert.False(t, r.handle(".vars"))
	assert.Contains(t, buf.String(), "total")

	buf.Reset()
	assert.False(t, r.handle(".reset"))
	assert.False(t, r.handle(".vars"))
	assert.Contains(t, buf.String(), "No variables declared")

	buf.Reset()
	assert.False(t, r.handle(".help"))
	assert.Contains(t, buf.String(), "Commands:")
	assert.True(t, strings.HasSuffix(buf.String(), "declared variables\n"), "help ends with a single newline")

	buf.Reset()
	assert.False(t, r.handle(".bogus"))
	assert.Contains(t, buf.String(), "Unknown command: .bogus")

	assert.False(t, r.handle("   "))
	assert.True(t, r.handle(".quit"))
	assert.True(t, r.handle(".exit"))
}

func TestInspectModel(t *testing.T) {
	vars := []output.VariableInfo{
		{ID: 0, Name: "a", Shape: "Var", Type: "integer", Line: 1, Column: 1},
		{ID: 1, Name: "b", Shape: "Const", Realm: 1, CrossRealm: true},
	}
	m := newInspectModel(vars)

	view := m.View()
	assert.Contains(t, view, "Variables (2)")
	assert.Contains(t, view, "integer")

	v, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "a", v.Name)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(inspectModel)
	v, ok = m.selected()
	require.True(t, ok)
	assert.Equal(t, "b", v.Name)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inspectModel)
	assert.True(t, m.detail)
	assert.Contains(t, m.View(), "cross realm: true")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestVariableRows(t *testing.T) {
	rows := variableRows([]output.VariableInfo{
		{ID: 0, Name: "a", Shape: "Var", Type: "integer", Line: 2, Column: 5},
		{ID: 1, Name: "b", Shape: "Const", Realm: 1, CrossRealm: true},
	})
	assert.Equal(t, [][]string{
		{"0", "a", "Var", "integer", "0", "2:5"},
		{"1", "b", "Const", "-", "1 (cross)", "-"},
	}, rows)
}

func TestRelevantEvent(t *testing.T) {
	assert.True(t, relevantEvent(fsnotify.Event{Name: "a.dx", Op: fsnotify.Write}))
	assert.True(t, relevantEvent(fsnotify.Event{Name: "a.dx", Op: fsnotify.Remove}))
	assert.False(t, relevantEvent(fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}))
	assert.False(t, relevantEvent(fsnotify.Event{Name: "a.dx", Op: fsnotify.Chmod}))
}

func TestDebounceEvents(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()
	require.NoError(t, watchDirRecursive(watcher, dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- debounceEvents(ctx, watcher, 20*time.Millisecond, changed, testutil.NewTestLogger(t))
	}()

	path := filepath.Join(dir, "main.dx")
	for i := range 3 {
		writeFile(t, path, string(rune('1'+i)))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}

	cancel()
	require.NoError(t, <-done)
}
