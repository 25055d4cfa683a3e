package frac

import (
	"log"
	"math"

	"github.com/fracnet/fracnet/internal/autodiff"
	"github.com/fracnet/fracnet/internal/geometry"
)

// Order is the fractional order α. Use [Fixed] for a plain number or an
// *autodiff.Value for a trainable order.
type Order interface {
	Float() float64
}

// Fixed is a constant fractional order.
type Fixed float64

func (f Fixed) Float() float64 { return float64(f) }

// Option tunes optional Fractional behavior.
type Option func(*Fractional)

// WithCorrectionOrder selects the boundary-correction order for dynamic
// meshes. The default is 1; orders 2 and 3 are higher-order extrapolations.
func WithCorrectionOrder(order int) Option {
	return func(f *Fractional) { f.correction = order }
}

// Fractional computes discrete fractional-derivative weights over a domain.
//
// The Grünwald–Letnikov coefficient recursion is precomputed eagerly at
// construction; sample points and per-seed weight vectors are built lazily
// by SamplePoints and memoized.
type Fractional struct {
	order Order
	dom   geometry.Domain
	disc  Discretization
	seeds [][]float64

	correction int

	// Coefficient cache. wInitV mirrors wInit as autodiff values when the
	// order is trainable.
	wInit  []float64
	wInitV []*autodiff.Value

	x       [][]float64
	offsets []int
	w       [][]float64
}

// New builds a Fractional operator. Seeds must be nil for static meshes and
// non-nil for dynamic ones.
func New(order Order, dom geometry.Domain, disc Discretization, seeds [][]float64, opts ...Option) (*Fractional, error) {
	if (disc.Mesh == Static && seeds != nil) || (disc.Mesh == Dynamic && seeds == nil) {
		return nil, ErrSeeds
	}
	f := &Fractional{order: order, dom: dom, disc: disc, seeds: seeds, correction: 1}
	for _, opt := range opts {
		opt(f)
	}
	if f.correction < 1 || f.correction > 3 {
		return nil, ErrCorrectionOrder
	}
	if disc.Mesh == Dynamic {
		f.checkStepSize()
	}
	f.initWeights()
	return f, nil
}

// checkStepSize warns when the mesh step is coarser than the distance from
// the seeds to the boundary. Under-resolution degrades accuracy but is not
// an error.
func (f *Fractional) checkStepSize() {
	h := 1 / float64(f.disc.Resolution[len(f.disc.Resolution)-1])
	minH := f.dom.MinDistToBoundary(f.seeds)
	if minH < h {
		log.Printf("frac: mesh step size %g is larger than the boundary distance %g", h, minH)
	}
}

// initWeights precomputes the Grünwald–Letnikov coefficients
//
//	w[0] = 1, w[j] = w[j-1] * (j-1-α) / j
//
// The recursion loses accuracy for large j combined with large α; this is a
// known limitation of the Grünwald–Letnikov expansion, not something the
// operator compensates for.
func (f *Fractional) initWeights() {
	var n int
	if f.disc.Mesh == Static {
		n = f.disc.Resolution[0]
	} else {
		n = f.distToCount(f.dom.Diameter()) + 1
	}
	alpha := f.order.Float()
	f.wInit = make([]float64, n)
	f.wInit[0] = 1
	for j := 1; j < n; j++ {
		f.wInit[j] = f.wInit[j-1] * (float64(j) - 1 - alpha) / float64(j)
	}
	if av, ok := f.order.(*autodiff.Value); ok {
		f.wInitV = make([]*autodiff.Value, n)
		f.wInitV[0] = autodiff.Const(1)
		for j := 1; j < n; j++ {
			c := autodiff.Sub(autodiff.Const(float64(j)-1), av)
			f.wInitV[j] = autodiff.Scale(1/float64(j), autodiff.Mul(f.wInitV[j-1], c))
		}
	}
}

// Weights returns the first k+1 Grünwald–Letnikov coefficients. The slice
// shares the cache's backing array; callers must not modify it.
func (f *Fractional) Weights(k int) []float64 {
	return f.wInit[:k+1]
}

// distToCount converts a ray length into the quadrature interval count.
func (f *Fractional) distToCount(dist float64) int {
	return int(math.Ceil(float64(f.disc.Resolution[len(f.disc.Resolution)-1]) * dist))
}

// SamplePoints generates (or returns the memoized) sample-point set the
// weight matrix is expressed over.
func (f *Fractional) SamplePoints() ([][]float64, error) {
	if f.x != nil {
		return f.x, nil
	}
	var err error
	switch f.disc.Mesh {
	case Static:
		f.x = f.dom.UniformPoints(f.disc.Resolution[0], true)
	case Dynamic:
		f.x, err = f.dynamicPoints()
	default:
		err = ErrMeshType
	}
	if err != nil {
		return nil, err
	}
	return f.x, nil
}

// SeedOffsets returns the starting index of each seed's ray block within
// the dynamic sample-point sequence, with a trailing end offset.
func (f *Fractional) SeedOffsets() []int {
	return f.offsets
}

func (f *Fractional) dynamicPoints() ([][]float64, error) {
	for _, s := range f.seeds {
		if f.dom.OnBoundary(s) {
			return nil, ErrBoundarySeed
		}
	}
	dirs, dirW, err := quadDirections(f.dom.Dim(), f.disc.Resolution)
	if err != nil {
		return nil, err
	}
	alpha := f.order.Float()

	blocks := make([][][]float64, 0, len(f.seeds))
	f.w = make([][]float64, 0, len(f.seeds))
	for _, seed := range f.seeds {
		var seedPts [][]float64
		var seedW []float64
		for di, dir := range dirs {
			ray := f.dom.BackgroundPoints(seed, dir, f.distToCount, 0)
			h := dist(ray[1], ray[0])
			base := f.Weights(len(ray) - 1)
			wRay := make([]float64, len(ray))
			for j := range wRay {
				wRay[j] = dirW[di] * math.Pow(h, -alpha) * base[j]
			}
			ray, wRay = f.correct(ray, wRay)
			seedPts = append(seedPts, ray...)
			seedW = append(seedW, wRay...)
		}
		blocks = append(blocks, seedPts)
		f.w = append(f.w, seedW)
	}

	f.offsets = make([]int, len(blocks)+1)
	f.offsets[0] = len(f.seeds)
	for i, b := range blocks {
		f.offsets[i+1] = f.offsets[i] + len(b)
	}
	out := make([][]float64, 0, f.offsets[len(blocks)])
	out = append(out, f.seeds...)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out, nil
}

func (f *Fractional) correct(x [][]float64, w []float64) ([][]float64, []float64) {
	switch f.correction {
	case 2:
		return f.modifySecondOrder(x, w)
	case 3:
		return f.modifyThirdOrder(x, w)
	default:
		return f.modifyFirstOrder(x, w)
	}
}

// modifyFirstOrder shifts the ray one half step toward the interior:
// an extrapolated point 2x[0]-x[1] is prepended and the boundary endpoint
// dropped. If the extrapolation leaves the domain, the first point/weight
// pair is dropped instead.
func (f *Fractional) modifyFirstOrder(x [][]float64, w []float64) ([][]float64, []float64) {
	ext := extrapolate(x[0], x[1])
	shifted := make([][]float64, 0, len(x))
	shifted = append(shifted, ext)
	shifted = append(shifted, x[:len(x)-1]...)
	if !f.dom.Inside(ext) {
		return shifted[1:], w[1:]
	}
	return shifted, w
}

func (f *Fractional) modifySecondOrder(x [][]float64, w []float64) ([][]float64, []float64) {
	wm := blendWeights(w, f.order.Float(), secondOrderBlend)
	ext := extrapolate(x[0], x[1])
	shifted := make([][]float64, 0, len(x)+1)
	shifted = append(shifted, ext)
	shifted = append(shifted, x...)
	if !f.dom.Inside(ext) {
		return shifted[1:], wm[1:]
	}
	return shifted, wm
}

func (f *Fractional) modifyThirdOrder(x [][]float64, w []float64) ([][]float64, []float64) {
	wm := blendWeights(w, f.order.Float(), thirdOrderBlend)
	ext := extrapolate(x[0], x[1])
	shifted := make([][]float64, 0, len(x)+1)
	shifted = append(shifted, ext)
	shifted = append(shifted, x...)
	if !f.dom.Inside(ext) {
		return shifted[1:], wm[1:]
	}
	return shifted, wm
}

type blendFunc func(beta float64, w0, w1, w2 float64) float64

func secondOrderBlend(beta float64, w0, w1, _ float64) float64 {
	return beta*w0 + (1-beta)*w1
}

func thirdOrderBlend(beta float64, w0, w1, w2 float64) float64 {
	return (-6*beta*beta+11*beta+1)/6*w0 +
		(11-6*beta)*(1-beta)/12*w1 +
		(6*beta+1)*(beta-1)/12*w2
}

// blendWeights combines the zero-padded shifts of w:
// w0 = [0, w...], w1 = [w..., 0], w2 = [0, 0, w[:len-1]...].
func blendWeights(w []float64, alpha float64, blend blendFunc) []float64 {
	beta := 1 - alpha/2
	out := make([]float64, len(w)+1)
	for i := range out {
		var w0, w1, w2 float64
		if i >= 1 {
			w0 = w[i-1]
		}
		if i < len(w) {
			w1 = w[i]
		}
		if i >= 2 && i-2 < len(w)-1 {
			w2 = w[i-2]
		}
		out[i] = blend(beta, w0, w1, w2)
	}
	return out
}

func extrapolate(x0, x1 []float64) []float64 {
	ext := make([]float64, len(x0))
	for d := range x0 {
		ext[d] = 2*x0[d] - x1[d]
	}
	return ext
}

func dist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
