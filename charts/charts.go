// Package charts turns query results into chart specifications and draws
// them as SVG.
package charts

import (
	"fmt"

	"github.com/melkeydev/bookdash/types"
	"github.com/spf13/cast"
)

type Kind string

const (
	KindPie        Kind = "pie"
	KindBar        Kind = "bar"
	KindGroupedBar Kind = "grouped_bar"
	KindScatter    Kind = "scatter"
)

// Series is one named run of values. X is only set for scatter charts; the
// other kinds align Values with Spec.Categories.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	X      []float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Values []float64 `json:"values" yaml:"values"`
}

// Spec is everything a renderer needs to draw a chart.
type Spec struct {
	Kind       Kind     `json:"kind" yaml:"kind"`
	Title      string   `json:"title" yaml:"title"`
	XLabel     string   `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Series     []Series `json:"series" yaml:"series"`
	Hover      []string `json:"hover,omitempty" yaml:"hover,omitempty"`
}

// Pie uses one column for slice names and another for slice sizes.
func Pie(res *types.QueryResult, names, values, title string) (*Spec, error) {
	labels, err := labelColumn(res, names)
	if err != nil {
		return nil, err
	}
	sizes, err := numberColumn(res, values)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Kind:       KindPie,
		Title:      title,
		Categories: labels,
		Series:     []Series{{Name: values, Values: sizes}},
	}, nil
}

// Bar plots each y column against the x column. More than one y column
// gives a grouped bar chart.
func Bar(res *types.QueryResult, x string, ys []string, title string) (*Spec, error) {
	if len(ys) == 0 {
		return nil, fmt.Errorf("bar chart needs at least one value column")
	}

	labels, err := labelColumn(res, x)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Kind:       KindBar,
		Title:      title,
		XLabel:     x,
		Categories: labels,
	}
	if len(ys) > 1 {
		spec.Kind = KindGroupedBar
	} else {
		spec.YLabel = ys[0]
	}

	for _, y := range ys {
		values, err := numberColumn(res, y)
		if err != nil {
			return nil, err
		}
		spec.Series = append(spec.Series, Series{Name: y, Values: values})
	}

	return spec, nil
}

// IndexedBar plots every column except index against it.
func IndexedBar(res *types.QueryResult, index, title string) (*Spec, error) {
	if res.ColumnIndex(index) < 0 {
		return nil, fmt.Errorf("column %q not in result", index)
	}

	var ys []string
	for _, c := range res.Columns {
		if c != index {
			ys = append(ys, c)
		}
	}
	return Bar(res, index, ys, title)
}

// Scatter plots y against x, one point per row, labelled by hover.
func Scatter(res *types.QueryResult, x, y, hover, title string) (*Spec, error) {
	xs, err := numberColumn(res, x)
	if err != nil {
		return nil, err
	}
	ys, err := numberColumn(res, y)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Kind:   KindScatter,
		Title:  title,
		XLabel: x,
		YLabel: y,
		Series: []Series{{Name: y, X: xs, Values: ys}},
	}
	if hover != "" {
		spec.Hover, err = labelColumn(res, hover)
		if err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func labelColumn(res *types.QueryResult, name string) ([]string, error) {
	values, err := res.Column(name)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = types.FormatValue(v)
	}
	return labels, nil
}

// numberColumn coerces a column to float64. NULL becomes 0.
func numberColumn(res *types.QueryResult, name string) ([]float64, error) {
	values, err := res.Column(name)
	if err != nil {
		return nil, err
	}

	numbers := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		f, err := cast.ToFloat64E(types.Normalize(v))
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		numbers[i] = f
	}
	return numbers, nil
}
