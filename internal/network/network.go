// Package network provides a plain fully connected feedforward net used as
// the function approximator in PINN training and as the branch/trunk
// sub-nets of operator networks.
package network

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrLayerSizes indicates fewer than two layer sizes.
	ErrLayerSizes = errors.New("network: at least an input and an output layer are required")
)

// Activation is an elementwise nonlinearity with its derivative.
type Activation struct {
	Name  string
	F     func(float64) float64
	Deriv func(float64) float64
}

var activations = map[string]Activation{
	"tanh": {
		Name:  "tanh",
		F:     math.Tanh,
		Deriv: func(v float64) float64 { t := math.Tanh(v); return 1 - t*t },
	},
	"relu": {
		Name: "relu",
		F: func(v float64) float64 {
			if v > 0 {
				return v
			}
			return 0
		},
		Deriv: func(v float64) float64 {
			if v > 0 {
				return 1
			}
			return 0
		},
	},
	"sigmoid": {
		Name:  "sigmoid",
		F:     func(v float64) float64 { return 1 / (1 + math.Exp(-v)) },
		Deriv: func(v float64) float64 { s := 1 / (1 + math.Exp(-v)); return s * (1 - s) },
	},
	"abs": {
		Name: "abs",
		F:    math.Abs,
		Deriv: func(v float64) float64 {
			if v >= 0 {
				return 1
			}
			return -1
		},
	},
}

// GetActivation looks up an activation by name.
func GetActivation(name string) (Activation, error) {
	a, ok := activations[name]
	if !ok {
		return Activation{}, fmt.Errorf("network: unknown activation %q", name)
	}
	return a, nil
}

// FNN is a fully connected feedforward network with a linear output layer.
type FNN struct {
	sizes []int
	act   Activation

	// W[l] is out×in for layer l; B[l] is the bias vector.
	W [][][]float64
	B [][]float64

	trainable bool
}

// NewFNN builds a network with Glorot-style normal initialization from the
// given seed.
func NewFNN(sizes []int, activation string, seed int64) (*FNN, error) {
	if len(sizes) < 2 {
		return nil, ErrLayerSizes
	}
	act, err := GetActivation(activation)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	n := &FNN{sizes: sizes, act: act, trainable: true}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		std := math.Sqrt(2 / float64(in+out))
		w := make([][]float64, out)
		for i := range w {
			w[i] = make([]float64, in)
			for j := range w[i] {
				w[i][j] = rng.NormFloat64() * std
			}
		}
		n.W = append(n.W, w)
		n.B = append(n.B, make([]float64, out))
	}
	return n, nil
}

// SetTrainable freezes or unfreezes the parameters; frozen nets report
// zero parameters to the optimizer.
func (n *FNN) SetTrainable(v bool) { n.trainable = v }

// Trainable reports whether gradients should be applied to this net.
func (n *FNN) Trainable() bool { return n.trainable }

// InSize returns the input width.
func (n *FNN) InSize() int { return n.sizes[0] }

// OutSize returns the output width.
func (n *FNN) OutSize() int { return n.sizes[len(n.sizes)-1] }

// Forward evaluates the network at a single point.
func (n *FNN) Forward(x []float64) []float64 {
	y, _ := n.forward(x)
	return y
}

// forward also returns the pre-activations per layer for backprop, plus
// the post-activation inputs of each layer.
func (n *FNN) forward(x []float64) ([]float64, [][]float64) {
	inputs := [][]float64{x}
	cur := x
	for l := range n.W {
		z := make([]float64, len(n.W[l]))
		for i := range n.W[l] {
			s := n.B[l][i]
			for j, wij := range n.W[l][i] {
				s += wij * cur[j]
			}
			z[i] = s
		}
		if l < len(n.W)-1 {
			a := make([]float64, len(z))
			for i, v := range z {
				a[i] = n.act.F(v)
			}
			inputs = append(inputs, z)
			cur = a
		} else {
			cur = z
		}
	}
	return cur, inputs
}

// Grads accumulates parameter gradients with the same shape as the net.
type Grads struct {
	W [][][]float64
	B [][]float64
}

// NewGrads allocates a zero gradient for the network.
func (n *FNN) NewGrads() *Grads {
	g := &Grads{}
	for l := range n.W {
		w := make([][]float64, len(n.W[l]))
		for i := range w {
			w[i] = make([]float64, len(n.W[l][i]))
		}
		g.W = append(g.W, w)
		g.B = append(g.B, make([]float64, len(n.B[l])))
	}
	return g
}

// Backward accumulates dLoss/dParams for one sample into g given
// dLoss/dOutput, and returns dLoss/dInput.
func (n *FNN) Backward(x, dLdy []float64, g *Grads) []float64 {
	_, inputs := n.forward(x)

	// activations per layer input
	acts := make([][]float64, len(n.W))
	acts[0] = x
	for l := 1; l < len(n.W); l++ {
		z := inputs[l]
		a := make([]float64, len(z))
		for i, v := range z {
			a[i] = n.act.F(v)
		}
		acts[l] = a
	}

	delta := append([]float64(nil), dLdy...)
	for l := len(n.W) - 1; l >= 0; l-- {
		in := acts[l]
		for i := range n.W[l] {
			g.B[l][i] += delta[i]
			for j := range n.W[l][i] {
				g.W[l][i][j] += delta[i] * in[j]
			}
		}
		prev := make([]float64, len(in))
		for j := range prev {
			s := 0.0
			for i := range n.W[l] {
				s += n.W[l][i][j] * delta[i]
			}
			prev[j] = s
		}
		if l > 0 {
			z := inputs[l]
			for j := range prev {
				prev[j] *= n.act.Deriv(z[j])
			}
		}
		delta = prev
	}
	return delta
}

// NumParams counts all weights and biases.
func (n *FNN) NumParams() int {
	c := 0
	for l := range n.W {
		for i := range n.W[l] {
			c += len(n.W[l][i])
		}
		c += len(n.B[l])
	}
	return c
}

// Flatten appends all parameters to dst in a stable order.
func (n *FNN) Flatten(dst []float64) []float64 {
	for l := range n.W {
		for i := range n.W[l] {
			dst = append(dst, n.W[l][i]...)
		}
		dst = append(dst, n.B[l]...)
	}
	return dst
}

// Load reads parameters back in Flatten order and returns the consumed
// count.
func (n *FNN) Load(src []float64) int {
	k := 0
	for l := range n.W {
		for i := range n.W[l] {
			copy(n.W[l][i], src[k:])
			k += len(n.W[l][i])
		}
		copy(n.B[l], src[k:])
		k += len(n.B[l])
	}
	return k
}

// Flatten appends gradient entries in the same order as FNN.Flatten.
func (g *Grads) Flatten(dst []float64) []float64 {
	for l := range g.W {
		for i := range g.W[l] {
			dst = append(dst, g.W[l][i]...)
		}
		dst = append(dst, g.B[l]...)
	}
	return dst
}

// Zero resets all gradient entries.
func (g *Grads) Zero() {
	for l := range g.W {
		for i := range g.W[l] {
			for j := range g.W[l][i] {
				g.W[l][i][j] = 0
			}
		}
		for i := range g.B[l] {
			g.B[l][i] = 0
		}
	}
}
