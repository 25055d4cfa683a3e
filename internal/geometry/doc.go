// Package geometry provides the spatial domains that training points are
// drawn from.
//
// Each domain implements the [Domain] interface, exposing the sampling
// primitives the fractional-derivative discretization needs:
//
//   - [Interval]: 1-D closed interval [L, R]
//   - [Disk]: 2-D disk of given center and radius
//   - [Ball]: 3-D ball of given center and radius
//
// Boundary anchor points are drawn with a low-discrepancy Halton sequence so
// that repeated draws cover the boundary evenly. Background points are rays
// marched from an interior point to the boundary; the fractional operator
// evaluates its quadrature along them.
package geometry
