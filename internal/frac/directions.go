package frac

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// legendre returns the n-point Gauss–Legendre nodes and weights on [-1, 1].
func legendre(n int) (nodes, weights []float64) {
	nodes = make([]float64, n)
	weights = make([]float64, n)
	(quad.Legendre{}).FixedLocations(nodes, weights, -1, 1)
	return nodes, weights
}

// quadDirections builds the fixed direction set the dynamic mesh marches
// rays along, with the quadrature weight of each direction. The directions
// discretize the unit circle (2-D) or sphere (3-D) with Gauss–Legendre
// rules, so the directional sum converges at the rule's order.
func quadDirections(dim int, resolution []int) (dirs [][]float64, weights []float64, err error) {
	switch dim {
	case 1:
		return [][]float64{{-1}, {1}}, []float64{1, 1}, nil
	case 2:
		nodes, gw := legendre(resolution[0])
		dirs = make([][]float64, len(nodes))
		weights = make([]float64, len(nodes))
		for i, t := range nodes {
			theta := math.Pi*t + math.Pi
			dirs[i] = []float64{math.Cos(theta), math.Sin(theta)}
			weights[i] = math.Pi * gw[i]
		}
		return dirs, weights, nil
	case 3:
		n := resolution[0]
		if resolution[1] > n {
			n = resolution[1]
		}
		nodes, gw := legendre(n)
		for i := 0; i < resolution[0]; i++ {
			theta := (math.Pi*nodes[i] + math.Pi) / 2
			for j := 0; j < resolution[1]; j++ {
				phi := math.Pi*nodes[j] + math.Pi
				dirs = append(dirs, []float64{
					math.Sin(theta) * math.Cos(phi),
					math.Sin(theta) * math.Sin(phi),
					math.Cos(theta),
				})
				weights = append(weights, math.Pi*math.Pi/2*gw[i]*gw[j]*math.Sin(theta))
			}
		}
		return dirs, weights, nil
	default:
		return nil, nil, ErrDimension
	}
}
