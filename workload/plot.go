package workload

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotLatency draws one latency line per result and saves it to filename.
// The image format follows the file extension.
func PlotLatency(results []Result, filename string) error {
	p := plot.New()
	p.Title.Text = "Latency"
	p.X.Label.Text = "Operation"
	p.Y.Label.Text = "Latency (ms)"

	lines := make([]interface{}, 0, 2*len(results))
	for _, res := range results {
		pts := make(plotter.XYs, len(res.Metrics))
		for i, m := range res.Metrics {
			pts[i].X = float64(m.OperationIndex)
			pts[i].Y = m.Latency * 1000
		}
		lines = append(lines, res.Name, pts)
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("add lines: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
