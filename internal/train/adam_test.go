package train

import (
	"math"
	"testing"
)

func TestAdamFirstStep(t *testing.T) {
	// On step one the bias-corrected moments equal the raw gradient, so
	// the update is lr * g / (|g| + eps).
	opt := NewAdam(0.1)
	params := []float64{1, -2}
	grads := []float64{0.5, -3}

	opt.Update(params, grads)

	want := []float64{
		1 - 0.1*0.5/(0.5+1e-8),
		-2 + 0.1*3/(3+1e-8),
	}
	for i := range want {
		if math.Abs(params[i]-want[i]) > 1e-10 {
			t.Errorf("param %d = %.12f, want %.12f", i, params[i], want[i])
		}
	}
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	opt := NewAdam(0.1)
	params := []float64{5}
	for i := 0; i < 500; i++ {
		grads := []float64{2 * params[0]}
		opt.Update(params, grads)
	}
	if math.Abs(params[0]) > 1e-2 {
		t.Errorf("minimizer not reached: %g", params[0])
	}
}

func TestAdamGrowsWithParams(t *testing.T) {
	opt := NewAdam(0.01)
	opt.Update([]float64{1}, []float64{1})
	// a larger parameter vector later must not panic
	opt.Update([]float64{1, 2, 3}, []float64{1, 1, 1})
}

func TestLosses(t *testing.T) {
	if got := MSE([]float64{1, 2}, []float64{2, 4}); math.Abs(got-2.5) > 1e-14 {
		t.Errorf("MSE = %g, want 2.5", got)
	}
	if got := MSE(nil, nil); got != 0 {
		t.Errorf("empty MSE = %g, want 0", got)
	}
	if got := MAE([]float64{1, 2}, []float64{2, 4}); math.Abs(got-1.5) > 1e-14 {
		t.Errorf("MAE = %g, want 1.5", got)
	}
	if got := RelL2([]float64{3, 4}, []float64{3, 4}); got != 0 {
		t.Errorf("RelL2 of equal vectors = %g, want 0", got)
	}
	if got := RelL2([]float64{0, 0}, []float64{3, 4}); math.Abs(got-5) > 1e-14 {
		t.Errorf("RelL2 with zero targets = %g, want 5", got)
	}
}
