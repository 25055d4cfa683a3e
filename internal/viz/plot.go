package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// LossPlot renders the per-epoch loss history as a static ASCII chart.
// Each history entry holds the boundary and residual components; the
// chart shows their sum on a log10 scale.
func LossPlot(trainHist, testHist [][2]float64) string {
	train := totals(trainHist)
	test := totals(testHist)
	if len(train) < 2 {
		return "not enough epochs to plot"
	}
	return asciigraph.PlotMany([][]float64{train, test},
		asciigraph.Width(graphWidth),
		asciigraph.Height(graphHeight),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("log10 total loss  green=train red=test"),
	)
}

// ProfilePlot renders the predicted solution against a reference on a
// shared axis. Points are assumed sorted by the first coordinate.
func ProfilePlot(pred, exact []float64) string {
	if len(pred) < 2 {
		return "not enough points to plot"
	}
	series := [][]float64{pred}
	colors := []asciigraph.AnsiColor{asciigraph.Green}
	caption := "predicted solution"
	if len(exact) == len(pred) {
		series = append(series, exact)
		colors = append(colors, asciigraph.Red)
		caption = "solution  green=predicted red=exact"
	}
	return asciigraph.PlotMany(series,
		asciigraph.Width(graphWidth),
		asciigraph.Height(graphHeight),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

func totals(hist [][2]float64) []float64 {
	out := make([]float64, len(hist))
	for i, h := range hist {
		v := h[0] + h[1]
		if v <= 0 {
			v = 1e-16
		}
		out[i] = math.Log10(v)
	}
	return out
}
