package frac

import (
	"math"
	"testing"

	"github.com/fracnet/fracnet/internal/autodiff"
	"github.com/fracnet/fracnet/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

func TestStaticMatrixValues(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	f, err := New(Fixed(0.5), dom, mustDisc(t, 1, Static, []int{5}), nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := f.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}
	r, c := m.Dims()
	if r != 5 || c != 5 {
		t.Fatalf("dims = (%d,%d), want (5,5)", r, c)
	}

	// h = 1/4, h^-0.5 = 2; left and right expansions overlap on the band.
	want := [][]float64{
		{0, 0, 0, 0, 0},
		{2, -2, 1.75, -0.125, 0},
		{0, 1.75, -2, 1.75, 0},
		{0, -0.125, 1.75, -2, 2},
		{0, 0, 0, 0, 0},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m.At(i, j)-want[i][j]) > 1e-12 {
				t.Errorf("m[%d][%d] = %g, want %g", i, j, m.At(i, j), want[i][j])
			}
		}
	}
}

func TestStaticMatrixSymmetry(t *testing.T) {
	// The two-sided operator on a symmetric grid is invariant under
	// reflection of both indices.
	dom := geometry.NewInterval(0, 1)
	f, err := New(Fixed(1.7), dom, mustDisc(t, 1, Static, []int{9}), nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := f.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b := m.At(i, j), m.At(n-1-i, n-1-j)
			if math.Abs(a-b) > 1e-12 {
				t.Errorf("asymmetry at (%d,%d): %g vs %g", i, j, a, b)
			}
		}
	}
}

// fracPoissonRHS is the closed-form two-sided fractional derivative of
// u(x) = x^3 (1-x)^3 on [0,1].
func fracPoissonRHS(x, alpha float64) float64 {
	coeffs := []float64{1, -3, 3, -1}
	powers := []float64{3, 4, 5, 6}
	s := 0.0
	for k, c := range coeffs {
		p := powers[k]
		g := math.Gamma(p+1) / math.Gamma(p+1-alpha)
		s += c * g * (math.Pow(x, p-alpha) + math.Pow(1-x, p-alpha))
	}
	return s
}

func TestStaticMatrixApproximatesDerivative(t *testing.T) {
	alpha := 1.5
	n := 101
	dom := geometry.NewInterval(0, 1)
	f, err := New(Fixed(alpha), dom, mustDisc(t, 1, Static, []int{n}), nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := f.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}

	u := make([]float64, n)
	h := 1 / float64(n-1)
	for i := range u {
		x := float64(i) * h
		u[i] = math.Pow(x, 3) * math.Pow(1-x, 3)
	}
	got := MulVec(m, u)
	for i := 1; i < n-1; i++ {
		x := float64(i) * h
		if err := math.Abs(got[i] - fracPoissonRHS(x, alpha)); err > 0.01 {
			t.Fatalf("row %d: |D^a u - rhs| = %g", i, err)
		}
	}
}

func TestDynamicMatrixApproximatesDerivative(t *testing.T) {
	alpha := 1.5
	dom := geometry.NewInterval(0, 1)
	seeds := [][]float64{{0.3}, {0.71}}
	f, err := New(Fixed(alpha), dom, mustDisc(t, 1, Dynamic, []int{200}), seeds)
	if err != nil {
		t.Fatal(err)
	}
	x, err := f.SamplePoints()
	if err != nil {
		t.Fatal(err)
	}
	m, err := f.GetMatrix(true)
	if err != nil {
		t.Fatal(err)
	}

	u := make([]float64, len(x))
	for i, p := range x {
		u[i] = math.Pow(p[0], 3) * math.Pow(1-p[0], 3)
	}
	got := MulVec(m, u)
	for i, s := range seeds {
		if err := math.Abs(got[i] - fracPoissonRHS(s[0], alpha)); err > 0.005 {
			t.Fatalf("seed %g: |D^a u - rhs| = %g", s[0], err)
		}
	}
}

func TestDynamicSparseMatchesDense(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	f, err := New(Fixed(0.8), dom, mustDisc(t, 1, Dynamic, []int{10}), [][]float64{{0.4}, {0.6}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.SamplePoints(); err != nil {
		t.Fatal(err)
	}

	sp, err := f.GetMatrix(true)
	if err != nil {
		t.Fatal(err)
	}
	dn, err := f.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}

	coo, ok := sp.(*COO)
	if !ok {
		t.Fatalf("sparse form is %T", sp)
	}
	dense, ok := dn.(*mat.Dense)
	if !ok {
		t.Fatalf("dense form is %T", dn)
	}

	r, c := coo.Dims()
	dr, dc := dense.Dims()
	if r != dr || c != dc {
		t.Fatalf("dims differ: (%d,%d) vs (%d,%d)", r, c, dr, dc)
	}
	expanded := coo.Dense()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if expanded.At(i, j) != dense.At(i, j) {
				t.Fatalf("entry (%d,%d) differs: %g vs %g", i, j, expanded.At(i, j), dense.At(i, j))
			}
		}
	}
}

func TestDynamicTrainableOrderRejected(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	f, err := New(autodiff.Var(1.5), dom, mustDisc(t, 1, Dynamic, []int{10}), [][]float64{{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.SamplePoints(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.GetMatrix(true); err != ErrTrainableDynamic {
		t.Errorf("sparse: error = %v, want ErrTrainableDynamic", err)
	}
	if _, err := f.GetMatrix(false); err != ErrTrainableDynamic {
		t.Errorf("dense: error = %v, want ErrTrainableDynamic", err)
	}
}

func TestMatrixBeforeSamplePoints(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	f, err := New(Fixed(0.8), dom, mustDisc(t, 1, Dynamic, []int{10}), [][]float64{{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.GetMatrix(true); err != ErrNoSamplePoints {
		t.Errorf("error = %v, want ErrNoSamplePoints", err)
	}
}

func TestGradMatrixMatchesNumeric(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	alpha := 0.7

	fNum, err := New(Fixed(alpha), dom, mustDisc(t, 1, Static, []int{7}), nil)
	if err != nil {
		t.Fatal(err)
	}
	numeric, err := fNum.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}

	av := autodiff.Var(alpha)
	fGrad, err := New(av, dom, mustDisc(t, 1, Static, []int{7}), nil)
	if err != nil {
		t.Fatal(err)
	}
	grad, err := fGrad.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}
	gm, ok := grad.(*GradMatrix)
	if !ok {
		t.Fatalf("trainable order should assemble a *GradMatrix, got %T", grad)
	}

	r, c := numeric.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(gm.At(i, j)-numeric.At(i, j)) > 1e-12 {
				t.Errorf("entry (%d,%d): %g vs %g", i, j, gm.At(i, j), numeric.At(i, j))
			}
		}
	}
}

func TestGradMatrixAlphaGradient(t *testing.T) {
	dom := geometry.NewInterval(0, 1)
	alpha := 1.3
	eps := 1e-6

	av := autodiff.Var(alpha)
	f, err := New(av, dom, mustDisc(t, 1, Static, []int{6}), nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := f.GetMatrix(false)
	if err != nil {
		t.Fatal(err)
	}
	gm := m.(*GradMatrix)

	entryAt := func(a float64, i, j int) float64 {
		op, err := New(Fixed(a), dom, mustDisc(t, 1, Static, []int{6}), nil)
		if err != nil {
			t.Fatal(err)
		}
		w, err := op.GetMatrix(false)
		if err != nil {
			t.Fatal(err)
		}
		return w.At(i, j)
	}

	for _, idx := range [][2]int{{1, 1}, {2, 3}, {4, 2}} {
		i, j := idx[0], idx[1]
		gm.Value(i, j).Backward()
		got := av.Grad()
		want := (entryAt(alpha+eps, i, j) - entryAt(alpha-eps, i, j)) / (2 * eps)
		if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
			t.Errorf("d m[%d][%d]/d alpha = %g, finite difference %g", i, j, got, want)
		}
	}
}

func TestMulVecT(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	got := MulVecT(m, []float64{1, -1})
	want := []float64{-3, -3, -3}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-14 {
			t.Errorf("out[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
