package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/eesnip/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translations over HTTP",
		Long: `Start an HTTP server that translates snippets.

Endpoints:
  POST /translate   snippet as a raw body or {"snippet": "..."}
  GET  /rules       the dialect's rewrite rules
  GET  /healthz     liveness check`,
		Example: `  eesnip serve
  eesnip serve --port 9000
  curl --data-binary @ndvi.js localhost:8765/translate`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", "Host to bind (default: all interfaces)")
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (default: 8765)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Dialect: cmdCtx.Dialect,
		Header:  cmdCtx.Cfg.Header,
		Host:    cmdCtx.Cfg.Serve.Host,
		Port:    cmdCtx.Cfg.Serve.Port,
		Logger:  cmdCtx.Logger,
	})
	return srv.Serve(ctx)
}
