package geometry

import "math"

// boundaryTol is the absolute tolerance used by OnBoundary checks.
const boundaryTol = 1e-9

// CountFunc converts a ray length into the number of quadrature intervals
// along that ray.
type CountFunc func(dist float64) int

// Domain is the sampling capability a discretization needs from a geometric
// domain.
type Domain interface {
	// Dim returns the spatial dimension.
	Dim() int
	// ID identifies the domain kind ("Interval", "Disk", "Ball").
	ID() string
	// Diameter returns the largest distance between two points of the domain.
	Diameter() float64
	// Inside reports whether p lies in the closed domain.
	Inside(p []float64) bool
	// OnBoundary reports whether p lies on the domain boundary.
	OnBoundary(p []float64) bool
	// UniformPoints returns n points spread evenly over the domain. With
	// boundary false the points are strictly interior.
	UniformPoints(n int, boundary bool) [][]float64
	// RandomBoundaryPoints returns n low-discrepancy points on the boundary.
	RandomBoundaryPoints(n int) [][]float64
	// BackgroundPoints marches a ray from seed toward the boundary along
	// dir. The step is d/max(count(d),1), where d is the distance from seed
	// to the boundary; the ray always has max(count(d),1)+1 points. With
	// shift zero the first point is the seed and the last lies on the
	// boundary; shift > 0 slides the window back by that many steps, so the
	// ray starts behind the seed and stops short of the boundary.
	BackgroundPoints(seed, dir []float64, count CountFunc, shift int) [][]float64
	// MinDistToBoundary returns the smallest distance from any of the
	// points to the boundary.
	MinDistToBoundary(points [][]float64) float64
}

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// rayPoints builds the shared background-point layout: points
// seed + k*h*dir for k = -shift..n-shift, so the window of n+1 points
// slides back by shift steps and stops that many steps short of the
// boundary.
func rayPoints(seed, dir []float64, dist float64, count CountFunc, shift int) [][]float64 {
	n := count(dist)
	if n < 1 {
		n = 1
	}
	h := dist / float64(n)
	pts := make([][]float64, 0, n+1)
	for k := -shift; k <= n-shift; k++ {
		p := make([]float64, len(seed))
		for d := range seed {
			p[d] = seed[d] + float64(k)*h*dir[d]
		}
		pts = append(pts, p)
	}
	return pts
}
