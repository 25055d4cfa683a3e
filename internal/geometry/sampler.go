package geometry

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// haltonUnit draws n low-discrepancy points from the unit cube [0,1)^dim
// using a scrambled Halton sequence.
func haltonUnit(n, dim int, seed uint64) *mat.Dense {
	src := rand.NewSource(seed)
	bounds := make([]r1.Interval, dim)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: 0, Max: 1}
	}
	sampler := samplemv.Halton{
		Kind: samplemv.Owen,
		Q:    distmv.NewUniform(bounds, src),
		Src:  src,
	}
	batch := mat.NewDense(n, dim, nil)
	sampler.Sample(batch)
	return batch
}
