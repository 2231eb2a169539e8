package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readWorkbook(t *testing.T, wb *Workbook) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook_Table(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.Heading("Top 5 Most Expensive Books"))
	require.NoError(t, wb.Table(&types.QueryResult{
		Columns: []string{"title", "retail_price"},
		Rows:    [][]any{{"The Hobbit", 19.5}, {"Dune", nil}},
	}))
	assert.Equal(t, []string{"Top 5 Most Expensive Books"}, wb.Sheets())

	f := readWorkbook(t, wb)
	rows, err := f.GetRows("Top 5 Most Expensive Books")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "retail_price"}, rows[0])
	assert.Equal(t, []string{"The Hobbit", "19.5"}, rows[1])
	assert.Equal(t, []string{"Dune"}, rows[2])
}

func TestWorkbook_SheetNames(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.Heading("Books with Discounts Greater than 20% [by title]"))
	require.NoError(t, wb.Chart(&charts.Spec{
		Kind:       charts.KindGroupedBar,
		XLabel:     "title",
		Categories: []string{"Dune"},
		Series: []charts.Series{
			{Name: "retail_price", Values: []float64{100}},
			{Name: "discount_price", Values: []float64{70}},
		},
	}))
	require.NoError(t, wb.Heading("Books with Discounts Greater than 20% [by title]"))
	require.NoError(t, wb.Markdown("line one\nline two"))
	require.NoError(t, wb.Error(errors.New("Table 'life_new1' doesn't exist")))

	sheets := wb.Sheets()
	require.Len(t, sheets, 3)
	for _, name := range sheets {
		assert.LessOrEqual(t, len([]rune(name)), maxSheetName)
		assert.NotContains(t, name, "[")
	}
	assert.NotEqual(t, sheets[0], sheets[1])
	assert.Equal(t, "Error", sheets[2])

	f := readWorkbook(t, wb)
	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "retail_price", "discount_price"}, rows[0])
	assert.Equal(t, []string{"Dune", "100", "70"}, rows[1])

	rows, err = f.GetRows(sheets[1])
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"line one"}, {"line two"}}, rows)

	value, err := f.GetCellValue("Error", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Error: Table 'life_new1' doesn't exist", value)
}

func TestWorkbook_Empty(t *testing.T) {
	_, err := NewWorkbook().WriteTo(&bytes.Buffer{})
	assert.Error(t, err)
}
