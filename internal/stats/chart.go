package stats

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewSamples is returned when a chart would have no x extent.
var ErrTooFewSamples = errors.New("stats: need at least two samples to chart")

// ChartKind selects which series a chart plots.
type ChartKind int

const (
	// CoherenceChart plots lattice coherence in [-1, 1].
	CoherenceChart ChartKind = iota
	// FractionChart plots both regime fractions in [0, 1].
	FractionChart
)

const (
	chartWidth  = 640
	chartHeight = 240
)

var (
	coherenceColor = drawing.Color{R: 251, G: 113, B: 133, A: 255}
	fracAColor     = drawing.Color{R: 96, G: 165, B: 250, A: 255}
	fracBColor     = drawing.Color{R: 251, G: 146, B: 60, A: 255}
)

// RenderChart writes a PNG line chart of samples to w.
func RenderChart(w io.Writer, kind ChartKind, samples []Sample) error {
	if len(samples) < 2 {
		return ErrTooFewSamples
	}
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.Step)
	}

	var series []chart.Series
	yRange := &chart.ContinuousRange{Min: 0, Max: 1}
	switch kind {
	case CoherenceChart:
		yRange = &chart.ContinuousRange{Min: -1, Max: 1}
		series = append(series, chart.ContinuousSeries{
			Name:    "Coherence",
			XValues: xs,
			YValues: pick(samples, func(s Sample) float64 { return s.Coherence }),
			Style:   chart.Style{StrokeColor: coherenceColor, StrokeWidth: 2},
		})
	case FractionChart:
		series = append(series,
			chart.ContinuousSeries{
				Name:    "Frozen (A)",
				XValues: xs,
				YValues: pick(samples, func(s Sample) float64 { return s.FracA }),
				Style:   chart.Style{StrokeColor: fracAColor, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Liquid (B)",
				XValues: xs,
				YValues: pick(samples, func(s Sample) float64 { return s.FracB }),
				Style:   chart.Style{StrokeColor: fracBColor, StrokeWidth: 2},
			},
		)
	default:
		return fmt.Errorf("stats: unknown chart kind %d", kind)
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:  "Step",
			Style: chart.Style{FontSize: 9},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 9},
			Range: yRange,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func pick(samples []Sample, f func(Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}
