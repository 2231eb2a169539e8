package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
	"github.com/yuin/goldmark"
)

// HTMLRenderer collects HTML fragments for the result pane.
type HTMLRenderer struct {
	blocks []template.HTML
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Blocks returns the rendered fragments in call order.
func (h *HTMLRenderer) Blocks() []template.HTML {
	return h.blocks
}

func (h *HTMLRenderer) Heading(text string) error {
	return h.execute("heading", text)
}

func (h *HTMLRenderer) Markdown(text string) error {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}
	// goldmark escapes raw HTML unless WithUnsafe is set.
	h.blocks = append(h.blocks, template.HTML(buf.String()))
	return nil
}

func (h *HTMLRenderer) Table(res *types.QueryResult) error {
	return h.execute("table", tableView(res, "static"))
}

func (h *HTMLRenderer) DataFrame(res *types.QueryResult) error {
	return h.execute("dataframe", tableView(res, "dataframe"))
}

func (h *HTMLRenderer) Chart(spec *charts.Spec) error {
	var svg bytes.Buffer
	if err := charts.RenderSVG(spec, &svg); err != nil {
		return fmt.Errorf("drawing %s chart: %w", spec.Kind, err)
	}

	view := chartView{
		Spec: spec,
		SVG:  template.HTML(svg.String()),
	}
	if spec.Kind == charts.KindGroupedBar {
		for i, s := range spec.Series {
			view.Legend = append(view.Legend, legendItem{
				Name:  s.Name,
				Color: template.CSS(charts.SeriesColor(i).String()),
			})
		}
	}
	if spec.Kind == charts.KindScatter && len(spec.Hover) > 0 {
		s := spec.Series[0]
		for i, label := range spec.Hover {
			view.Points = append(view.Points, pointItem{Label: label, X: s.X[i], Y: s.Values[i]})
		}
	}

	return h.execute("chart", view)
}

func (h *HTMLRenderer) Error(err error) error {
	return h.execute("error", err.Error())
}

func (h *HTMLRenderer) execute(name string, data any) error {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	h.blocks = append(h.blocks, template.HTML(buf.String()))
	return nil
}

type tableData struct {
	Class   string
	Columns []string
	Rows    [][]string
	Count   int
}

func tableView(res *types.QueryResult, class string) tableData {
	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = types.FormatValue(v)
		}
		rows[i] = cells
	}
	return tableData{
		Class:   class,
		Columns: res.Columns,
		Rows:    rows,
		Count:   len(rows),
	}
}

type legendItem struct {
	Name  string
	Color template.CSS
}

type pointItem struct {
	Label string
	X, Y  float64
}

type chartView struct {
	Spec   *charts.Spec
	SVG    template.HTML
	Legend []legendItem
	Points []pointItem
}
