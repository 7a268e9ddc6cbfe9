package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFields(t *testing.T) {
	fields := configFields()

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
		assert.NotEmpty(t, f.Description, "key %s is undocumented", f.Key)
	}
	assert.Contains(t, keys, "watch.debounce")
	assert.Contains(t, keys, "serve.addr")
	assert.NotContains(t, keys, "ProjectRoot")

	for _, f := range fields {
		if f.Key == "watch.debounce" {
			assert.Equal(t, "200ms", f.Default)
		}
	}
}

func TestGenerateDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(filepath.Join(dir, "cli")))
	require.NoError(t, generateConfigDocs(dir))

	for _, name := range []string{"cli/index.md", "cli/check.md", "cli/infer.md", "configuration.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	check, err := os.ReadFile(filepath.Join(dir, "cli", "check.md"))
	require.NoError(t, err)
	assert.Contains(t, string(check), "datex check [paths...] [flags]")
	assert.Contains(t, string(check), "`--watch`")
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "# a\ndatex check\n  nested", cleanExample("  # a\n  datex check\n    nested\n"))
}

func TestMarkdownTableEscapesPipes(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A"}, [][]string{{"x | y"}})
	assert.Equal(t, "| A |\n|---|\n| x \\| y |\n\n", string(w.Bytes()))
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "DATEX_WATCH_DEBOUNCE", envVar("watch.debounce"))
	assert.Equal(t, "DATEX_LOG_LEVEL", envVar("log_level"))
}
