// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// Operations build an expression graph of [Value] nodes; [Value.Backward]
// walks the graph once in reverse topological order and accumulates
// gradients. It exists so the fractional order of a discretization can be a
// trainable parameter: the weight recursion and matrix assembly run over
// Values and the gradient with respect to the order falls out of a single
// backward pass.
package autodiff

import "math"

// Value is a node in the expression graph.
type Value struct {
	v       float64
	grad    float64
	parents []*Value
	// back propagates this node's gradient into its parents.
	back func()
}

// Var creates a leaf node whose gradient is tracked.
func Var(v float64) *Value {
	return &Value{v: v}
}

// Const creates a constant leaf node.
func Const(v float64) *Value {
	return &Value{v: v}
}

// Float returns the node's current value.
func (a *Value) Float() float64 { return a.v }

// Grad returns the gradient accumulated by the last Backward call.
func (a *Value) Grad() float64 { return a.grad }

// Set overwrites the value of a leaf node. Panics on non-leaf nodes, since
// interior values are derived.
func (a *Value) Set(v float64) {
	if len(a.parents) > 0 {
		panic("autodiff: Set on non-leaf value")
	}
	a.v = v
}

func Add(a, b *Value) *Value {
	out := &Value{v: a.v + b.v, parents: []*Value{a, b}}
	out.back = func() {
		a.grad += out.grad
		b.grad += out.grad
	}
	return out
}

func Sub(a, b *Value) *Value {
	out := &Value{v: a.v - b.v, parents: []*Value{a, b}}
	out.back = func() {
		a.grad += out.grad
		b.grad -= out.grad
	}
	return out
}

func Mul(a, b *Value) *Value {
	out := &Value{v: a.v * b.v, parents: []*Value{a, b}}
	out.back = func() {
		a.grad += b.v * out.grad
		b.grad += a.v * out.grad
	}
	return out
}

func Div(a, b *Value) *Value {
	out := &Value{v: a.v / b.v, parents: []*Value{a, b}}
	out.back = func() {
		a.grad += out.grad / b.v
		b.grad -= a.v / (b.v * b.v) * out.grad
	}
	return out
}

func Neg(a *Value) *Value {
	out := &Value{v: -a.v, parents: []*Value{a}}
	out.back = func() { a.grad -= out.grad }
	return out
}

// Scale multiplies a by a plain constant.
func Scale(c float64, a *Value) *Value {
	out := &Value{v: c * a.v, parents: []*Value{a}}
	out.back = func() { a.grad += c * out.grad }
	return out
}

// Pow raises a to a constant power.
func Pow(a *Value, p float64) *Value {
	out := &Value{v: math.Pow(a.v, p), parents: []*Value{a}}
	out.back = func() {
		a.grad += p * math.Pow(a.v, p-1) * out.grad
	}
	return out
}

// Exp is e**a.
func Exp(a *Value) *Value {
	out := &Value{v: math.Exp(a.v), parents: []*Value{a}}
	out.back = func() { a.grad += out.v * out.grad }
	return out
}

// PowConstBase is c**a for a positive constant base c, used for the h^(-α)
// scaling of weight matrices.
func PowConstBase(c float64, a *Value) *Value {
	return Exp(Scale(math.Log(c), a))
}

// Dot contracts a coefficient row with a plain float vector.
func Dot(row []*Value, x []float64) *Value {
	acc := Const(0)
	for i, r := range row {
		acc = Add(acc, Scale(x[i], r))
	}
	return acc
}

// Backward seeds the gradient of a with 1 and propagates it through the
// graph. Gradients of all reachable nodes are reset first, so repeated
// calls do not accumulate across passes.
func (a *Value) Backward() {
	order := topo(a)
	for _, n := range order {
		n.grad = 0
	}
	a.grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].back != nil {
			order[i].back()
		}
	}
}

func topo(root *Value) []*Value {
	var order []*Value
	seen := map[*Value]bool{}
	var visit func(n *Value)
	visit = func(n *Value) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, p := range n.parents {
			visit(p)
		}
		order = append(order, n)
	}
	visit(root)
	return order
}
