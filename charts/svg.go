package charts

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 800
	height = 480
)

// RenderSVG draws spec as an SVG document.
func RenderSVG(spec *Spec, w io.Writer) error {
	if spec == nil || len(spec.Series) == 0 {
		return fmt.Errorf("nothing to draw")
	}

	switch spec.Kind {
	case KindPie:
		return renderPie(spec, w)
	case KindBar, KindGroupedBar:
		return renderBars(spec, w)
	case KindScatter:
		return renderScatter(spec, w)
	default:
		return fmt.Errorf("unsupported chart kind: %s", spec.Kind)
	}
}

// SeriesColor is the fill colour of the i-th series, shared with legends.
func SeriesColor(i int) drawing.Color {
	return chart.GetDefaultColor(i)
}

func renderPie(spec *Spec, w io.Writer) error {
	values := make([]chart.Value, len(spec.Categories))
	for i, label := range spec.Categories {
		values[i] = chart.Value{
			Label: label,
			Value: spec.Series[0].Values[i],
		}
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

// renderBars lays grouped series side by side, one bar per category and
// series, coloured by series.
func renderBars(spec *Spec, w io.Writer) error {
	var bars []chart.Value
	lo, hi := 0.0, 0.0
	for i, category := range spec.Categories {
		for s, series := range spec.Series {
			label := category
			if s > 0 {
				label = ""
			}
			color := SeriesColor(s)
			bars = append(bars, chart.Value{
				Label: label,
				Value: series.Values[i],
				Style: chart.Style{
					FillColor:   color,
					StrokeColor: color,
					StrokeWidth: 1,
				},
			})
			lo = math.Min(lo, series.Values[i])
			hi = math.Max(hi, series.Values[i])
		}
	}

	yRange := paddedRange(lo, hi)
	if lo == 0 {
		yRange.Min = 0
	}

	barWidth := (width - 100) / max(len(bars), 1)
	bc := chart.BarChart{
		Title:    spec.Title,
		Width:    width,
		Height:   height,
		BarWidth: min(max(barWidth-4, 4), 60),
		Bars:     bars,
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: yRange,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 20},
		},
	}
	return bc.Render(chart.SVG, w)
}

func renderScatter(spec *Spec, w io.Writer) error {
	series := spec.Series[0]
	xLo, xHi := bounds(series.X)
	yLo, yHi := bounds(series.Values)

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: paddedRange(xLo, xHi),
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: paddedRange(yLo, yHi),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    series.Name,
				XValues: series.X,
				YValues: series.Values,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    SeriesColor(0),
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange never returns a zero-width range; go-chart refuses those.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
