package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
)

// Terminal writes results as plain text tables.
type Terminal struct {
	w io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Heading(text string) error {
	_, err := fmt.Fprintf(t.w, "\n%s\n\n", text)
	return err
}

func (t *Terminal) Markdown(text string) error {
	_, err := fmt.Fprintln(t.w, text)
	return err
}

func (t *Terminal) Table(res *types.QueryResult) error {
	return t.writeTable(res.Columns, res.Rows)
}

func (t *Terminal) DataFrame(res *types.QueryResult) error {
	if err := t.writeTable(res.Columns, res.Rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "(%d rows)\n", res.Len())
	return err
}

// Chart prints the numbers behind the chart; the terminal has no canvas.
func (t *Terminal) Chart(spec *charts.Spec) error {
	if _, err := fmt.Fprintf(t.w, "%s [%s]\n", spec.Title, spec.Kind); err != nil {
		return err
	}

	if spec.Kind == charts.KindScatter {
		s := spec.Series[0]
		header := []string{spec.XLabel, spec.YLabel}
		if len(spec.Hover) > 0 {
			header = append([]string{"label"}, header...)
		}
		rows := make([][]any, len(s.X))
		for i := range s.X {
			row := []any{formatNumber(s.X[i]), formatNumber(s.Values[i])}
			if len(spec.Hover) > 0 {
				row = append([]any{spec.Hover[i]}, row...)
			}
			rows[i] = row
		}
		return t.writeTable(header, rows)
	}

	header := []string{spec.XLabel}
	if spec.Kind == charts.KindPie {
		header = []string{"label"}
	}
	for _, s := range spec.Series {
		header = append(header, s.Name)
	}
	rows := make([][]any, len(spec.Categories))
	for i, c := range spec.Categories {
		row := []any{c}
		for _, s := range spec.Series {
			row = append(row, formatNumber(s.Values[i]))
		}
		rows[i] = row
	}
	return t.writeTable(header, rows)
}

func (t *Terminal) Error(err error) error {
	_, werr := fmt.Fprintf(t.w, "Error: %v\n", err)
	return werr
}

func (t *Terminal) writeTable(columns []string, rows [][]any) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = types.FormatValue(v)
		}
		tw.AppendRow(row)
	}

	tw.Render()
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
