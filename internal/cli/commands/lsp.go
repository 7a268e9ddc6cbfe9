package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/config"
	"github.com/unyt-org/datex-go/internal/lsp"
)

// errUncleanExit is returned when the client sent exit without shutdown.
var errUncleanExit = errors.New("language server exited without shutdown")

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC. It publishes
diagnostics for open .dx documents and answers hover, definition,
completion and inlay hint requests. Logs go to stderr unless lsp.log_file
is configured.`,
		Example: `  # Start LSP server (usually called by an IDE)
  datex lsp

  # Keep a server log
  datex lsp --lsp-log-file /tmp/datex-lsp.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	if cfg.LSP.LogFile != "" {
		f, err := openLogFile(cfg.LSP.LogFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		level, err := config.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	server := lsp.NewServerWithLogger(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err := server.Run(); err != nil {
		return err
	}
	if !server.CleanShutdown() {
		return errUncleanExit
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
