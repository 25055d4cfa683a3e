package geometry

import "math"

// Interval is the closed 1-D domain [L, R].
type Interval struct {
	L, R float64
}

func NewInterval(l, r float64) *Interval {
	return &Interval{L: l, R: r}
}

func (iv *Interval) Dim() int          { return 1 }
func (iv *Interval) ID() string        { return "Interval" }
func (iv *Interval) Diameter() float64 { return iv.R - iv.L }

func (iv *Interval) Inside(p []float64) bool {
	return iv.L <= p[0] && p[0] <= iv.R
}

func (iv *Interval) OnBoundary(p []float64) bool {
	return math.Abs(p[0]-iv.L) < boundaryTol || math.Abs(p[0]-iv.R) < boundaryTol
}

func (iv *Interval) UniformPoints(n int, boundary bool) [][]float64 {
	pts := make([][]float64, n)
	if boundary {
		h := (iv.R - iv.L) / float64(n-1)
		for i := 0; i < n; i++ {
			pts[i] = []float64{iv.L + float64(i)*h}
		}
		pts[n-1][0] = iv.R
		return pts
	}
	h := (iv.R - iv.L) / float64(n+1)
	for i := 0; i < n; i++ {
		pts[i] = []float64{iv.L + float64(i+1)*h}
	}
	return pts
}

// RandomBoundaryPoints returns the two endpoints when n == 2, otherwise it
// alternates between them so repeated anchors stay balanced.
func (iv *Interval) RandomBoundaryPoints(n int) [][]float64 {
	pts := make([][]float64, n)
	if n == 2 {
		pts[0] = []float64{iv.L}
		pts[1] = []float64{iv.R}
		return pts
	}
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			pts[i] = []float64{iv.L}
		} else {
			pts[i] = []float64{iv.R}
		}
	}
	return pts
}

func (iv *Interval) BackgroundPoints(seed, dir []float64, count CountFunc, shift int) [][]float64 {
	var dist float64
	if dir[0] < 0 {
		dist = seed[0] - iv.L
	} else {
		dist = iv.R - seed[0]
	}
	return rayPoints(seed, dir, dist, count, shift)
}

func (iv *Interval) MinDistToBoundary(points [][]float64) float64 {
	min := math.Inf(1)
	for _, p := range points {
		if d := p[0] - iv.L; d < min {
			min = d
		}
		if d := iv.R - p[0]; d < min {
			min = d
		}
	}
	return min
}
