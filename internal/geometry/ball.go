package geometry

import "math"

// Ball is the closed 3-D ball of the given center and radius.
type Ball struct {
	Center []float64
	Radius float64
	// Seed drives the low-discrepancy boundary sampler.
	Seed uint64
}

func NewBall(cx, cy, cz, r float64) *Ball {
	return &Ball{Center: []float64{cx, cy, cz}, Radius: r, Seed: 1}
}

func (b *Ball) Dim() int          { return 3 }
func (b *Ball) ID() string        { return "Ball" }
func (b *Ball) Diameter() float64 { return 2 * b.Radius }

func (b *Ball) Inside(p []float64) bool {
	return norm(sub(p, b.Center)) <= b.Radius+boundaryTol
}

func (b *Ball) OnBoundary(p []float64) bool {
	return math.Abs(norm(sub(p, b.Center))-b.Radius) < boundaryTol
}

func (b *Ball) UniformPoints(n int, boundary bool) [][]float64 {
	side := int(math.Ceil(math.Cbrt(6 * float64(n) / math.Pi)))
	for {
		pts := b.gridInside(side, boundary)
		if len(pts) >= n {
			return pts[:n]
		}
		side++
	}
}

func (b *Ball) gridInside(side int, boundary bool) [][]float64 {
	h := 2 * b.Radius / float64(side+1)
	var pts [][]float64
	for i := 1; i <= side; i++ {
		for j := 1; j <= side; j++ {
			for k := 1; k <= side; k++ {
				p := []float64{
					b.Center[0] - b.Radius + float64(i)*h,
					b.Center[1] - b.Radius + float64(j)*h,
					b.Center[2] - b.Radius + float64(k)*h,
				}
				if !b.Inside(p) {
					continue
				}
				if !boundary && b.OnBoundary(p) {
					continue
				}
				pts = append(pts, p)
			}
		}
	}
	return pts
}

// RandomBoundaryPoints maps a 2-D Halton sequence onto the sphere with an
// area-preserving transform.
func (b *Ball) RandomBoundaryPoints(n int) [][]float64 {
	u := haltonUnit(n, 2, b.Seed)
	pts := make([][]float64, n)
	for i := 0; i < n; i++ {
		theta := math.Acos(1 - 2*u.At(i, 0))
		phi := 2 * math.Pi * u.At(i, 1)
		pts[i] = []float64{
			b.Center[0] + b.Radius*math.Sin(theta)*math.Cos(phi),
			b.Center[1] + b.Radius*math.Sin(theta)*math.Sin(phi),
			b.Center[2] + b.Radius*math.Cos(theta),
		}
	}
	return pts
}

func (b *Ball) BackgroundPoints(seed, dir []float64, count CountFunc, shift int) [][]float64 {
	u := unit(dir)
	return rayPoints(seed, u, raySphereDist(seed, u, b.Center, b.Radius), count, shift)
}

func (b *Ball) MinDistToBoundary(points [][]float64) float64 {
	min := math.Inf(1)
	for _, p := range points {
		if dist := b.Radius - norm(sub(p, b.Center)); dist < min {
			min = dist
		}
	}
	return min
}
