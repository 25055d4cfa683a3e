package export

import (
	"strings"
	"testing"
)

func TestCurvesToSVG(t *testing.T) {
	svg := CurvesToSVG([]Curve{
		{Color: "#00ff00", X: []float64{0, 0.5, 1}, Y: []float64{0, 1, 0}},
	}, 200, 100)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("missing dimensions")
	}
	if strings.Count(svg, "<path") != 1 {
		t.Errorf("expected one path, got %d", strings.Count(svg, "<path"))
	}
}

func TestCurvesToSVG_Empty(t *testing.T) {
	if svg := CurvesToSVG(nil, 200, 100); svg != "" {
		t.Error("expected empty string for no curves")
	}
	if svg := CurvesToSVG([]Curve{{X: []float64{1}, Y: []float64{1}}}, 200, 100); svg != "" {
		t.Error("expected empty string for a single point")
	}
}

func TestProfileSVG(t *testing.T) {
	x := []float64{0, 0.5, 1}
	svg := ProfileSVG(x, []float64{0, 0.9, 0}, []float64{0, 1, 0}, 400, 200)
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected two paths, got %d", strings.Count(svg, "<path"))
	}
}

func TestLossSVG(t *testing.T) {
	trainHist := [][2]float64{{1, 1}, {0.5, 0.5}, {0.1, 0.1}}
	testHist := [][2]float64{{1, 1}, {0.6, 0.6}, {0, 0}} // zero total must not blow up
	svg := LossSVG(trainHist, testHist, 400, 200)
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected two paths, got %d", strings.Count(svg, "<path"))
	}
}
