package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/server"
	"github.com/unyt-org/datex-go/internal/state"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var noHistory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Start an HTTP server that compiles DATEX sources on request.

Endpoints:
  GET  /healthz         Liveness probe
  POST /api/check       {"source": "..."} -> diagnostics
  POST /api/infer       {"source": "..."} -> result type and variables
  GET  /api/runs        Recent check runs from the history database
  GET  /api/runs/{id}   Diagnostics of one run`,
		Example: `  # Listen on the configured address
  datex serve

  # Listen on all interfaces
  datex serve --addr :7878`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			var store state.Store
			if !noHistory {
				s, err := cc.OpenStore()
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:           cc.Cfg.Serve.Addr,
				DetailedErrors: cc.Cfg.DetailedErrors,
				Store:          store,
				Logger:         cc.Logger,
			})
			cc.Renderer.Success("Listening on http://" + cc.Cfg.Serve.Addr)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not serve the check history")

	return cmd
}
