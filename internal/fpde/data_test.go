package fpde

import (
	"errors"
	"math"
	"testing"

	"github.com/fracnet/fracnet/internal/frac"
	"github.com/fracnet/fracnet/internal/geometry"
)

func noopResidual(x [][]float64, y []float64, w frac.Matrix) []float64 {
	r, _ := w.Dims()
	return make([]float64, r)
}

func linear(p []float64) float64 { return p[0] }

func mustDisc(t *testing.T, dim int, mesh frac.MeshType, res []int, anchors int) frac.Discretization {
	t.Helper()
	d, err := frac.NewDiscretization(dim, mesh, res, anchors)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStaticRequiresInterval(t *testing.T) {
	disk := geometry.NewDisk(0, 0, 1)
	// dim 1 keeps the discretization itself valid; the domain is the
	// problem here.
	disc := mustDisc(t, 1, frac.Static, []int{10}, 2)
	_, err := NewData(noopResidual, frac.Fixed(0.5), linear, disk, disc, 10, 10)
	if !errors.Is(err, ErrIntervalOnly) {
		t.Errorf("error = %v, want ErrIntervalOnly", err)
	}
}

func TestStaticBatchSizeMismatch(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Static, []int{10}, 2)
	d, err := NewData(noopResidual, frac.Fixed(0.5), linear, iv, disc, 11, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.TrainNextBatch(); !errors.Is(err, ErrBatchSize) {
		t.Errorf("error = %v, want ErrBatchSize", err)
	}
}

func TestStaticBatchLayout(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Static, []int{10}, 2)
	d, err := NewData(noopResidual, frac.Fixed(0.6), linear, iv, disc, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	x, y, err := d.TrainNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	// 2 anchors followed by the rotated 10-point grid
	if len(x) != 12 {
		t.Fatalf("batch length = %d, want 12", len(x))
	}
	if x[0][0] != 0 || x[1][0] != 1 {
		t.Errorf("anchors = %g, %g, want the endpoints", x[0][0], x[1][0])
	}
	h := 1.0 / 9
	if math.Abs(x[2][0]-h) > 1e-12 {
		t.Errorf("grid should start one step in after rotation, got %g", x[2][0])
	}
	if x[len(x)-1][0] != 0 {
		t.Errorf("rotation should move the left endpoint last, got %g", x[len(x)-1][0])
	}
	for i, p := range x {
		if y[i] != linear(p) {
			t.Errorf("target %d = %g, want %g", i, y[i], linear(p))
		}
	}
}

func TestTrainBatchMemoized(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Static, []int{10}, 2)
	d, err := NewData(noopResidual, frac.Fixed(0.6), linear, iv, disc, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	x1, _, err := d.TrainNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	x2, _, _ := d.TrainNextBatch()
	if &x1[0] != &x2[0] {
		t.Error("train batch should be memoized")
	}

	d.Reset()
	x3, _, err := d.TrainNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	if &x1[0] == &x3[0] {
		t.Error("reset should rebuild the batch")
	}
}

func TestStaticIntegralMatrix(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Static, []int{10}, 2)
	d, err := NewData(noopResidual, frac.Fixed(0.6), linear, iv, disc, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	w, err := d.IntegralMatrix(Train)
	if err != nil {
		t.Fatal(err)
	}
	r, c := w.Dims()
	if r != 8 || c != 10 {
		t.Errorf("dims = (%d,%d), want (8,10)", r, c)
	}
}

func TestDynamicBatch(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Dynamic, []int{20}, 2)
	d, err := NewData(noopResidual, frac.Fixed(1.5), linear, iv, disc, 6, 8)
	if err != nil {
		t.Fatal(err)
	}

	x, _, err := d.TrainNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	// anchors, then 4 interior seeds, then ray points
	if len(x) < 6 {
		t.Fatalf("batch too short: %d", len(x))
	}
	for i := 2; i < 6; i++ {
		if x[i][0] <= 0 || x[i][0] >= 1 {
			t.Errorf("seed %d = %g not interior", i, x[i][0])
		}
	}

	w, err := d.IntegralMatrix(Train)
	if err != nil {
		t.Fatal(err)
	}
	r, c := w.Dims()
	if r != 4 {
		t.Errorf("rows = %d, want one per seed", r)
	}
	if c != len(x)-2 {
		t.Errorf("cols = %d, want %d (all non-anchor points)", c, len(x)-2)
	}
	if _, ok := w.(*frac.COO); !ok {
		t.Errorf("dynamic matrix should be sparse, got %T", w)
	}
}

type fakeCtx struct {
	split Split
	x     [][]float64
}

func (f fakeCtx) ActiveSplit() Split  { return f.split }
func (f fakeCtx) Inputs() [][]float64 { return f.x }

func TestLosses(t *testing.T) {
	iv := geometry.NewInterval(0, 1)
	disc := mustDisc(t, 1, frac.Static, []int{5}, 2)

	residual := func(x [][]float64, y []float64, w frac.Matrix) []float64 {
		return []float64{1, 2}
	}
	d, err := NewData(residual, frac.Fixed(0.5), linear, iv, disc, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	x, targets, err := d.TrainNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	outputs := make([]float64, len(x))
	outputs[0] = 0.1 // anchor targets are 0 and 1
	outputs[1] = 1.0

	mse := func(a, b []float64) float64 {
		s := 0.0
		for i := range a {
			dlt := a[i] - b[i]
			s += dlt * dlt
		}
		return s / float64(len(a))
	}

	losses, err := d.Losses(targets, outputs, mse, fakeCtx{Train, x})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(losses[0]-0.005) > 1e-12 {
		t.Errorf("boundary loss = %g, want 0.005", losses[0])
	}
	if math.Abs(losses[1]-2.5) > 1e-12 {
		t.Errorf("residual loss = %g, want 2.5", losses[1])
	}
}
