package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/config"
	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger placed on the command
// context by the root command and builds a renderer for its output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// CompileOptions returns compiler options for the configured error mode.
func (c *CommandContext) CompileOptions() compiler.Options {
	return compiler.Options{DetailedErrors: c.Cfg.DetailedErrors, Logger: c.Logger}
}

// OpenStore opens the check history database. Callers close it.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}
