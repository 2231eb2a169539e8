// Package commands provides the bookdash command-line interface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/melkeydev/bookdash/config"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/databases"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var cfgFile string

type configKey struct{}

// newRunner is replaced in tests.
var newRunner = func(cfg config.DatabaseConfig, logger *slog.Logger) (dashboard.QueryRunner, error) {
	return databases.NewConnector(cfg, logger)
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bookdash",
		Short: "Book store analytics dashboard",
		Long: `bookdash runs a fixed set of analyses against the book store table
and shows each result as a table or chart, in the browser, on the terminal,
or to an MCP client.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "list" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./bookdash.yaml)")
	flags.String("db-type", "", "Database type (mysql|postgres|sqlite)")
	flags.String("db-host", "", "Database host")
	flags.Int("db-port", 0, "Database port")
	flags.String("db-user", "", "Database user")
	flags.String("db-password", "", "Database password")
	flags.String("db-name", "", "Database name")
	flags.String("db-dsn", "", "Full connection string, overrides the discrete fields")
	flags.String("db-file", "", "SQLite database file")
	flags.String("table", "", "Table the analyses read from")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("db-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"mysql", "postgres", "sqlite"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMCPCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func getConfig(ctx context.Context) (*config.Config, error) {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}

// newController wires the configured database into a dashboard controller.
func newController(ctx context.Context) (*config.Config, *dashboard.Controller, error) {
	cfg, err := getConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	runner, err := newRunner(cfg.Database, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	controller := dashboard.NewController(runner, dashboard.Options{
		Table:       cfg.Dashboard.Table,
		Placeholder: dashboard.Placeholder(cfg.Database.DBType),
		Logger:      slog.Default(),
	})
	return cfg, controller, nil
}
