package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/melkeydev/bookdash/config"
	"github.com/melkeydev/bookdash/web"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		Long: `Start the single page dashboard. The sidebar selects an analysis and the
result pane is refreshed over server-sent events.`,
		Example: `  # Default port
  bookdash serve

  # Custom port against Postgres
  bookdash serve --port 3000 --db-type postgres --db-host db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, controller, err := newController(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return web.NewServer(web.Config{
				Controller: controller,
				Title:      cfg.Dashboard.Title,
				Port:       cfg.Server.Port,
				Logger:     slog.Default(),
			}).Serve(ctx)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().String("title", config.DefaultTitle, "Dashboard title")

	return cmd
}
