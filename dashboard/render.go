package dashboard

import (
	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
)

// Renderer is the set of display primitives an analysis can use.
type Renderer interface {
	Heading(text string) error
	Markdown(text string) error
	// Table shows a static table.
	Table(res *types.QueryResult) error
	// DataFrame shows a scrollable, sortable grid.
	DataFrame(res *types.QueryResult) error
	Chart(spec *charts.Spec) error
	// Error shows a non-fatal notice.
	Error(err error) error
}

type renderFunc func(r Renderer, res *types.QueryResult) error

func table(r Renderer, res *types.QueryResult) error {
	return r.Table(res)
}

func dataFrame(r Renderer, res *types.QueryResult) error {
	return r.DataFrame(res)
}

func pie(names, values, title string) renderFunc {
	return func(r Renderer, res *types.QueryResult) error {
		spec, err := charts.Pie(res, names, values, title)
		if err != nil {
			return err
		}
		return r.Chart(spec)
	}
}

func bar(x string, ys []string, title string) renderFunc {
	return func(r Renderer, res *types.QueryResult) error {
		spec, err := charts.Bar(res, x, ys, title)
		if err != nil {
			return err
		}
		return r.Chart(spec)
	}
}

// firstColumnBar uses whichever column comes first as the x axis, since the
// grouping key differs between the options of one analysis.
func firstColumnBar(y, title string) renderFunc {
	return func(r Renderer, res *types.QueryResult) error {
		spec, err := charts.Bar(res, res.Columns[0], []string{y}, title)
		if err != nil {
			return err
		}
		return r.Chart(spec)
	}
}

func indexedBar(index, title string) renderFunc {
	return func(r Renderer, res *types.QueryResult) error {
		spec, err := charts.IndexedBar(res, index, title)
		if err != nil {
			return err
		}
		return r.Chart(spec)
	}
}

func scatter(x, y, hover, title string) renderFunc {
	return func(r Renderer, res *types.QueryResult) error {
		spec, err := charts.Scatter(res, x, y, hover, title)
		if err != nil {
			return err
		}
		return r.Chart(spec)
	}
}
