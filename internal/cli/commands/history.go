package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/pkg/token"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded check runs",
		Long: `List recent check runs from the history database, or the diagnostics
recorded by one run.`,
		Example: `  # Recent runs
  datex history

  # Diagnostics of one run
  datex history 3f2a9c1e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return showRun(cmd, cc, store, args[0])
			}
			return listRuns(cmd, cc, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")

	return cmd
}

func listRuns(cmd *cobra.Command, cc *CommandContext, store state.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	infos := make([]output.RunInfo, len(runs))
	for i, run := range runs {
		infos[i] = output.NewRunInfo(run)
	}
	if cc.Renderer.IsStructured() {
		return cc.Renderer.Structured(infos)
	}
	if len(infos) == 0 {
		cc.Renderer.Muted("No check runs recorded")
		return nil
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		completed := "running"
		if info.CompletedAt != nil {
			completed = info.CompletedAt.Sub(info.StartedAt).Round(time.Millisecond).String()
		}
		rows[i] = []string{
			info.ID,
			info.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(info.Files),
			strconv.Itoa(info.Errors),
			completed,
		}
	}
	cc.Renderer.Table([]string{"Run", "Started", "Files", "Errors", "Duration"}, rows)
	return nil
}

func showRun(cmd *cobra.Command, cc *CommandContext, store state.Store, id string) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	diags, err := store.RunDiagnostics(cmd.Context(), id)
	if err != nil {
		return err
	}
	if cc.Renderer.IsStructured() {
		if diags == nil {
			diags = []state.FileDiagnostic{}
		}
		return cc.Renderer.Structured(struct {
			Run         output.RunInfo         `json:"run" yaml:"run"`
			Diagnostics []state.FileDiagnostic `json:"diagnostics" yaml:"diagnostics"`
		}{output.NewRunInfo(run), diags})
	}

	cc.Renderer.Header(1, "Run "+run.ID)
	cc.Renderer.Println(output.FormatKeyValue("Started", run.StartedAt.Local().Format(time.DateTime)))
	cc.Renderer.Println(output.FormatKeyValue("Files", strconv.Itoa(run.Files)))
	cc.Renderer.Println(output.FormatKeyValue("Errors", strconv.Itoa(run.ErrorCount)))
	if len(diags) == 0 {
		return nil
	}
	cc.Renderer.Println()

	rows := make([][]string, len(diags))
	for i, d := range diags {
		rows[i] = []string{d.Path, spanText(d.Span), d.Kind, d.Message}
	}
	cc.Renderer.Table([]string{"File", "Bytes", "Kind", "Message"}, rows)
	return nil
}

func spanText(s token.Span) string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
