// Package frac discretizes fractional differential operators.
//
// A [Fractional] turns the continuous operator D^α (the two-sided
// Grünwald–Letnikov fractional derivative of order α ∈ (0,2), α ≠ 1) into a
// weight matrix W over a finite set of sample points, so that W·u(x)
// approximates D^α u at the interior points. Two meshing regimes are
// supported, selected by [Discretization]:
//
//   - Static: a fixed uniform 1-D grid over an interval. W is a dense n×n
//     band matrix assembled from the shifted Grünwald–Letnikov weights.
//   - Dynamic: arbitrary interior points in 1/2/3 dimensions. Around every
//     point, rays are marched to the boundary along a fixed set of
//     Gauss–Legendre quadrature directions, and the one-dimensional
//     Grünwald–Letnikov weights along each ray are combined with the
//     quadrature weights.
//
// The fractional order may be a plain number or a trainable
// [autodiff.Value]; in the latter case the static matrix is assembled as an
// expression graph so gradients flow through α.
package frac
