package autodiff

import (
	"math"
	"testing"
)

// gradCheck compares the reverse-mode gradient of f at x against a central
// finite difference.
func gradCheck(t *testing.T, name string, f func(*Value) *Value, x float64) {
	t.Helper()
	v := Var(x)
	f(v).Backward()
	got := v.Grad()

	eps := 1e-6
	want := (f(Var(x+eps)).Float() - f(Var(x-eps)).Float()) / (2 * eps)
	if math.Abs(got-want) > 1e-5*math.Max(1, math.Abs(want)) {
		t.Errorf("%s: gradient %g, finite difference %g", name, got, want)
	}
}

func TestGradients(t *testing.T) {
	gradCheck(t, "add", func(x *Value) *Value { return Add(x, Const(3)) }, 1.2)
	gradCheck(t, "sub", func(x *Value) *Value { return Sub(Const(3), x) }, 1.2)
	gradCheck(t, "mul", func(x *Value) *Value { return Mul(x, x) }, -0.7)
	gradCheck(t, "div", func(x *Value) *Value { return Div(Const(2), x) }, 0.9)
	gradCheck(t, "neg", Neg, 0.3)
	gradCheck(t, "scale", func(x *Value) *Value { return Scale(-1.5, x) }, 2.0)
	gradCheck(t, "pow", func(x *Value) *Value { return Pow(x, 2.5) }, 1.4)
	gradCheck(t, "exp", Exp, 0.5)
	gradCheck(t, "powconstbase", func(x *Value) *Value { return PowConstBase(0.25, Neg(x)) }, 1.5)
	gradCheck(t, "composite", func(x *Value) *Value {
		return Add(Mul(x, Exp(Neg(x))), Div(Pow(x, 2), Const(3)))
	}, 0.8)
}

func TestDot(t *testing.T) {
	a := Var(2)
	row := []*Value{a, Mul(a, a), Const(1)}
	y := Dot(row, []float64{1, 3, 5})
	if math.Abs(y.Float()-(2+12+5)) > 1e-14 {
		t.Fatalf("dot = %g, want 19", y.Float())
	}
	y.Backward()
	// d/da (a + 3a^2 + 5) = 1 + 6a = 13
	if math.Abs(a.Grad()-13) > 1e-12 {
		t.Errorf("grad = %g, want 13", a.Grad())
	}
}

func TestBackwardResetsGrads(t *testing.T) {
	x := Var(1.5)
	y := Mul(x, x)
	y.Backward()
	first := x.Grad()
	y.Backward()
	if x.Grad() != first {
		t.Errorf("repeated backward accumulated: %g vs %g", x.Grad(), first)
	}
}

func TestSharedSubexpression(t *testing.T) {
	x := Var(0.5)
	e := Exp(x)
	y := Add(Mul(e, e), e)
	y.Backward()
	// d/dx (e^2x + e^x) = 2e^2x + e^x
	want := 2*math.Exp(1) + math.Exp(0.5)
	if math.Abs(x.Grad()-want) > 1e-10 {
		t.Errorf("grad = %g, want %g", x.Grad(), want)
	}
}

func TestSetLeafOnly(t *testing.T) {
	x := Var(1)
	x.Set(2)
	if x.Float() != 2 {
		t.Errorf("set failed: %g", x.Float())
	}

	defer func() {
		if recover() == nil {
			t.Error("Set on a derived node should panic")
		}
	}()
	Mul(x, x).Set(3)
}
