package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/cli/config"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"datex.yaml", ".gitignore", "src/main.dx"},
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, "datex.yaml"), "existing")
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, "datex.yaml"), "existing")
			},
			args:      []string{"--force"},
			wantFiles: []string{"datex.yaml", "src/main.dx"},
		},
		{
			name:      "init example in subdirectory",
			args:      []string{"demo", "--example"},
			wantFiles: []string{"demo/datex.yaml", "demo/src/main.dx", "demo/src/geometry/types.dx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, filepath.FromSlash(f)))
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	for _, template := range []string{"minimal", "example"} {
		t.Run(template, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, copyTemplate(template, dir, false))
			t.Chdir(dir)

			cfg, err := config.LoadConfig("", nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "datex.yaml"), cfg.ConfigFile)
			assert.Equal(t, []string{"**/*.dx"}, cfg.Include)
		})
	}
}

func TestTemplatesCompile(t *testing.T) {
	for _, template := range []string{"minimal", "example"} {
		t.Run(template, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, copyTemplate(template, dir, false))

			files, err := expandInputs(nil, dir, []string{"**/*.dx"})
			require.NoError(t, err)
			require.NotEmpty(t, files)

			for _, f := range files {
				src, err := os.ReadFile(f)
				require.NoError(t, err)
				_, err = compiler.Compile(string(src), compiler.Options{DetailedErrors: true})
				assert.NoError(t, err, f)
			}
		})
	}
}

func TestListTemplateFiles(t *testing.T) {
	files, err := listTemplateFiles("minimal")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".gitignore", "datex.yaml", "src/main.dx"}, files)
}
