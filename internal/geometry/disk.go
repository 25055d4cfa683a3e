package geometry

import "math"

// Disk is the closed 2-D disk of the given center and radius.
type Disk struct {
	Center []float64
	Radius float64
	// Seed drives the low-discrepancy boundary sampler.
	Seed uint64
}

func NewDisk(cx, cy, r float64) *Disk {
	return &Disk{Center: []float64{cx, cy}, Radius: r, Seed: 1}
}

func (d *Disk) Dim() int          { return 2 }
func (d *Disk) ID() string        { return "Disk" }
func (d *Disk) Diameter() float64 { return 2 * d.Radius }

func (d *Disk) Inside(p []float64) bool {
	return norm(sub(p, d.Center)) <= d.Radius+boundaryTol
}

func (d *Disk) OnBoundary(p []float64) bool {
	return math.Abs(norm(sub(p, d.Center))-d.Radius) < boundaryTol
}

// UniformPoints lays a square grid over the bounding box and keeps the first
// n strictly interior nodes.
func (d *Disk) UniformPoints(n int, boundary bool) [][]float64 {
	side := int(math.Ceil(math.Sqrt(4 * float64(n) / math.Pi)))
	for {
		pts := d.gridInside(side, boundary)
		if len(pts) >= n {
			return pts[:n]
		}
		side++
	}
}

func (d *Disk) gridInside(side int, boundary bool) [][]float64 {
	h := 2 * d.Radius / float64(side+1)
	var pts [][]float64
	for i := 1; i <= side; i++ {
		for j := 1; j <= side; j++ {
			p := []float64{
				d.Center[0] - d.Radius + float64(i)*h,
				d.Center[1] - d.Radius + float64(j)*h,
			}
			if !d.Inside(p) {
				continue
			}
			if !boundary && d.OnBoundary(p) {
				continue
			}
			pts = append(pts, p)
		}
	}
	return pts
}

func (d *Disk) RandomBoundaryPoints(n int) [][]float64 {
	u := haltonUnit(n, 1, d.Seed)
	pts := make([][]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * u.At(i, 0)
		pts[i] = []float64{
			d.Center[0] + d.Radius*math.Cos(theta),
			d.Center[1] + d.Radius*math.Sin(theta),
		}
	}
	return pts
}

// distToBoundary returns the distance from interior point p to the circle
// along the unit direction dir.
func (d *Disk) distToBoundary(p, dir []float64) float64 {
	return raySphereDist(p, dir, d.Center, d.Radius)
}

func (d *Disk) BackgroundPoints(seed, dir []float64, count CountFunc, shift int) [][]float64 {
	u := unit(dir)
	return rayPoints(seed, u, d.distToBoundary(seed, u), count, shift)
}

func (d *Disk) MinDistToBoundary(points [][]float64) float64 {
	min := math.Inf(1)
	for _, p := range points {
		if dist := d.Radius - norm(sub(p, d.Center)); dist < min {
			min = dist
		}
	}
	return min
}

func unit(v []float64) []float64 {
	n := norm(v)
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] / n
	}
	return out
}

// raySphereDist solves |p + t*dir - c| = r for the positive root t.
func raySphereDist(p, dir, c []float64, r float64) float64 {
	pc := sub(p, c)
	b := 0.0
	for i := range dir {
		b += dir[i] * pc[i]
	}
	return math.Sqrt(b*b+r*r-norm(pc)*norm(pc)) - b
}
