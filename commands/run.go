package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/handlers"
	"github.com/melkeydev/bookdash/render"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Option int
	Input  string
	Format string
	DryRun bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <analysis>",
		Short: "Run one analysis and print the result",
		Long: `Run a single analysis by id or menu label. Charts are printed as the
table of values they would plot.`,
		Example: `  # Publishers with the highest average rating
  bookdash run publishers --option 1

  # Keyword search as JSON
  bookdash run search --input python -o json

  # Spreadsheet export
  bookdash run after-2010 -o xlsx > after-2010.xlsx

  # Show the SQL without running it
  bookdash run discounts --dry-run`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			var ids []string
			for _, a := range dashboard.Catalog() {
				ids = append(ids, string(a.ID))
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Option, "option", 0, "Choice index for analyses with radio options")
	cmd.Flags().StringVar(&opts.Input, "input", "", "Keyword or SQL text for analyses that take input")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", formatTable, fmt.Sprintf("Output format (%s|%s)", strings.Join(formats, "|"), formatXLSX))
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the SQL instead of running it")

	return cmd
}

func runAnalysis(cmd *cobra.Command, name string, opts *RunOptions) error {
	id, err := dashboard.ParseID(name)
	if err != nil {
		return err
	}
	if opts.Format != formatXLSX && !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
	sel := dashboard.Selection{Analysis: id, Option: opts.Option, Input: opts.Input}

	_, controller, err := newController(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.DryRun {
		stmt, ok, err := controller.Statement(sel)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "-- no query")
			return nil
		}
		_, _ = fmt.Fprintln(out, stmt.SQL)
		for i, arg := range stmt.Args {
			_, _ = fmt.Fprintf(out, "-- arg %d = %v\n", i+1, arg)
		}
		return nil
	}

	var outcome dashboard.Outcome
	switch opts.Format {
	case formatTable:
		outcome, err = controller.Run(cmd.Context(), sel, render.NewTerminal(out))
		if err != nil {
			return err
		}
	case formatXLSX:
		wb := render.NewWorkbook()
		outcome, err = controller.Run(cmd.Context(), sel, wb)
		if err != nil {
			return err
		}
		if len(wb.Sheets()) > 0 {
			if _, err := wb.WriteTo(out); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
		}
	default:
		doc := render.NewDocument()
		outcome, err = controller.Run(cmd.Context(), sel, doc)
		if err != nil {
			return err
		}
		if err := encode(out, opts.Format, handlers.AnalysisResult{
			Analysis: id,
			Outcome:  outcome,
			Blocks:   doc.Blocks,
		}); err != nil {
			return err
		}
	}

	switch outcome.Kind {
	case dashboard.OutcomeFailed:
		return fmt.Errorf("analysis %s failed", id)
	case dashboard.OutcomeSkipped:
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "nothing to run: --input is required")
	case dashboard.OutcomeEmpty:
		if opts.Format == formatXLSX {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "query returned no rows")
		}
	}
	return nil
}
