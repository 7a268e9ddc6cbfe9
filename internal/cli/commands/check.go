package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// ErrCheckFailed is returned when a check found errors. The diagnostics
// have already been rendered.
var ErrCheckFailed = errors.New("check found errors")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch     bool
	NoHistory bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Compile DATEX files and report errors",
		Long: `Parse, resolve and type-check DATEX source files.

Paths may be files or directories; directories are searched for .dx files.
Without paths, the include patterns from datex.yaml are matched below the
project root. Each check is recorded in the history database.

Output adapts to environment:
  - Terminal: Styled output with source excerpts
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Check the whole project
  datex check

  # Check one directory and collect every error per file
  datex check ./src --detailed-errors

  # Re-check on every change
  datex check --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when files change")
	cmd.Flags().Duration("debounce", 0, "Delay before re-checking after a change (default from config)")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record the run in the history database")
	cmd.Flags().StringSlice("include", nil, "Glob patterns used when no paths are given")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)

	files, err := expandInputs(args, cc.Cfg.ProjectRoot, cc.Cfg.Include)
	if err != nil {
		return err
	}
	if opts.Watch {
		return watchCheck(cmd.Context(), cc, args, opts)
	}
	if len(files) == 0 {
		cc.Renderer.Warning("No DATEX files found")
		return nil
	}

	res, err := checkFiles(cmd.Context(), cc, files, opts)
	if err != nil {
		return err
	}
	if err := cc.Renderer.CheckResult(res); err != nil {
		return err
	}
	if res.Summary.Errors > 0 {
		return ErrCheckFailed
	}
	return nil
}

// checkFiles compiles files concurrently and records the run.
func checkFiles(ctx context.Context, cc *CommandContext, files []string, opts *CheckOptions) (output.CheckOutput, error) {
	start := time.Now()
	ws := compiler.NewWorkspace(cc.CompileOptions())
	if err := ws.LoadAll(ctx, files); err != nil {
		return output.CheckOutput{}, err
	}

	res := output.CheckOutput{Summary: output.CheckSummary{Files: len(files)}}
	for _, f := range ws.Files() {
		res.Files = append(res.Files, output.FileResult{
			Path:        f.Path,
			Diagnostics: output.NewDiagnostics(f.Content, f.Diagnostics),
		})
		res.Summary.Errors += len(f.Diagnostics)
	}

	if !opts.NoHistory {
		runID, err := recordRun(ctx, cc, ws)
		if err != nil {
			// history is best effort
			cc.Logger.Warn("failed to record check run", slog.String("error", err.Error()))
		}
		res.Summary.RunID = runID
	}

	cc.Logger.Info("check complete",
		slog.Int("files", res.Summary.Files),
		slog.Int("errors", res.Summary.Errors),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

func recordRun(ctx context.Context, cc *CommandContext, ws *compiler.Workspace) (string, error) {
	store, err := cc.OpenStore()
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()
	return saveRun(ctx, store, ws)
}

func saveRun(ctx context.Context, store state.Store, ws *compiler.Workspace) (string, error) {
	run, err := store.CreateRun(ctx)
	if err != nil {
		return "", err
	}
	files := ws.Files()
	for _, f := range files {
		if err := store.RecordDiagnostics(ctx, run.ID, f.Path, f.Diagnostics); err != nil {
			return run.ID, err
		}
	}
	if err := store.CompleteRun(ctx, run.ID, len(files), ws.ErrorCount()); err != nil {
		return run.ID, fmt.Errorf("failed to complete run %s: %w", run.ID, err)
	}
	return run.ID, nil
}
