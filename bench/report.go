package bench

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is one plotted line: a structure label and its latency samples
// against whatever X the caller chooses (cmd/bench uses fanout), already
// in x order.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

// RenderLatencyChart draws one line per series on a single latency chart
// and saves it as a PNG, so a benchmark sweep produces a figure
// directly comparable across structures without a separate plotting step.
func RenderLatencyChart(title, xLabel, yLabel string, series []Series, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("bench: series %q has mismatched X/Y lengths (%d vs %d)", s.Label, len(s.X), len(s.Y))
		}
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = s.X[j]
			pts[j].Y = s.Y[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("bench: build line for %q: %w", s.Label, err)
		}
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("bench: save chart: %w", err)
	}
	return nil
}
