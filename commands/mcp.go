package commands

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/melkeydev/bookdash/mcp"
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyses as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, controller, err := newController(cmd.Context())
			if err != nil {
				return err
			}

			s := server.NewMCPServer(
				"bookdash",
				Version,
				server.WithToolCapabilities(false),
				server.WithLogging(),
			)

			mcp.RegisterTools(s, controller)
			slog.Info("mcp server ready", "tools", 3)

			if err := server.ServeStdio(s); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}
