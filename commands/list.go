package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available analyses",
		Long: `List every analysis in menu order with its id, the choices it offers,
and the free-text input it needs.`,
		Example: `  # Show the menu
  bookdash list

  # Machine readable
  bookdash list -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := dashboard.Catalog()
			if format != formatTable {
				return encode(cmd.OutOrStdout(), format, catalog)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "ID", "Label", "Choices", "Input"})
			for i, a := range catalog {
				t.AppendRow(table.Row{i + 1, a.ID, a.Label, strings.Join(a.Options, " / "), a.Input})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatTable, fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	return cmd
}
