package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// Workbook writes each table or chart into its own spreadsheet sheet, named
// after the heading that preceded it.
type Workbook struct {
	file    *excelize.File
	heading string
	used    map[string]bool
	sheets  []string
}

func NewWorkbook() *Workbook {
	return &Workbook{
		file: excelize.NewFile(),
		used: map[string]bool{},
	}
}

// Sheets returns the sheet names in creation order.
func (w *Workbook) Sheets() []string {
	return w.sheets
}

func (w *Workbook) Heading(text string) error {
	w.heading = text
	return nil
}

func (w *Workbook) Markdown(text string) error {
	sheet, err := w.newSheet()
	if err != nil {
		return err
	}
	for i, line := range strings.Split(text, "\n") {
		if err := w.setRow(sheet, i+1, []any{line}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) Table(res *types.QueryResult) error {
	return w.writeResult(res)
}

func (w *Workbook) DataFrame(res *types.QueryResult) error {
	return w.writeResult(res)
}

func (w *Workbook) Chart(spec *charts.Spec) error {
	sheet, err := w.newSheet()
	if err != nil {
		return err
	}

	if spec.Kind == charts.KindScatter {
		s := spec.Series[0]
		if err := w.setRow(sheet, 1, []any{"label", spec.XLabel, spec.YLabel}); err != nil {
			return err
		}
		for i := range s.X {
			label := ""
			if i < len(spec.Hover) {
				label = spec.Hover[i]
			}
			if err := w.setRow(sheet, i+2, []any{label, s.X[i], s.Values[i]}); err != nil {
				return err
			}
		}
		return nil
	}

	header := []any{spec.XLabel}
	if spec.Kind == charts.KindPie || spec.XLabel == "" {
		header = []any{"label"}
	}
	for _, s := range spec.Series {
		header = append(header, s.Name)
	}
	if err := w.setRow(sheet, 1, header); err != nil {
		return err
	}
	for i, c := range spec.Categories {
		row := []any{c}
		for _, s := range spec.Series {
			row = append(row, s.Values[i])
		}
		if err := w.setRow(sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) Error(err error) error {
	w.heading = "Error"
	sheet, serr := w.newSheet()
	if serr != nil {
		return serr
	}
	return w.setRow(sheet, 1, []any{"Error: " + err.Error()})
}

// WriteTo writes the workbook in xlsx format and releases it.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	defer w.file.Close()

	if len(w.sheets) == 0 {
		return 0, fmt.Errorf("workbook has no sheets")
	}
	w.file.SetActiveSheet(0)
	return w.file.WriteTo(out)
}

func (w *Workbook) writeResult(res *types.QueryResult) error {
	sheet, err := w.newSheet()
	if err != nil {
		return err
	}

	header := make([]any, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	if err := w.setRow(sheet, 1, header); err != nil {
		return err
	}

	for i, row := range res.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = types.Normalize(v)
		}
		if err := w.setRow(sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) setRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func (w *Workbook) newSheet() (string, error) {
	name := w.sheetName()

	if len(w.sheets) == 0 {
		// excelize starts every file with Sheet1.
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return "", fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return "", fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	w.used[strings.ToLower(name)] = true
	w.sheets = append(w.sheets, name)
	return name, nil
}

func (w *Workbook) sheetName() string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(w.heading))
	if base == "" {
		base = "Result"
	}
	base = truncate(base, maxSheetName)

	name := base
	for n := 2; w.used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
