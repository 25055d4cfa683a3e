package export

import (
	"fmt"
	"math"
	"strings"
)

// Curve is a single polyline to render. X and Y must have equal length.
type Curve struct {
	Color string
	X     []float64
	Y     []float64
}

// CurvesToSVG renders one or more curves on a shared axis range.
func CurvesToSVG(curves []Curve, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	n := 0
	for _, c := range curves {
		for i := range c.X {
			minX = math.Min(minX, c.X[i])
			maxX = math.Max(maxX, c.X[i])
			minY = math.Min(minY, c.Y[i])
			maxY = math.Max(maxY, c.Y[i])
			n++
		}
	}
	if n < 2 {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range curves {
		if len(c.X) < 2 {
			continue
		}
		color := c.Color
		if color == "" {
			color = "#00ff00"
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i := range c.X {
			x := (c.X[i] - minX) / rangeX * float64(width)
			y := float64(height) - (c.Y[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ProfileSVG plots a predicted solution against the exact one.
func ProfileSVG(x, pred, exact []float64, width, height int) string {
	return CurvesToSVG([]Curve{
		{Color: "#00ff00", X: x, Y: pred},
		{Color: "#ff4444", X: x, Y: exact},
	}, width, height)
}

// LossSVG plots total train and test losses on a log10 scale.
func LossSVG(trainHist, testHist [][2]float64, width, height int) string {
	logTotals := func(hist [][2]float64) (xs, ys []float64) {
		for i, pair := range hist {
			total := pair[0] + pair[1]
			if total <= 0 {
				total = 1e-16
			}
			xs = append(xs, float64(i))
			ys = append(ys, math.Log10(total))
		}
		return xs, ys
	}
	tx, ty := logTotals(trainHist)
	vx, vy := logTotals(testHist)
	return CurvesToSVG([]Curve{
		{Color: "#00ff00", X: tx, Y: ty},
		{Color: "#ff4444", X: vx, Y: vy},
	}, width, height)
}
