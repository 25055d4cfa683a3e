package deeponet

import (
	"errors"
	"fmt"

	"github.com/fracnet/fracnet/internal/network"
	"gonum.org/v1/gonum/mat"
)

// ErrFourierModes indicates a Fourier branch width that cannot be factored
// onto the output grid.
var ErrFourierModes = errors.New("deeponet: Fourier branch width does not match the output shape")

// FourierDeepONetCartesianProd augments a Cartesian-product DeepONet with
// a Fourier branch: the branch output is read as a complex half-spectrum
// and pushed through an inverse real FFT onto the output grid, then added
// to the vanilla branch-trunk product.
type FourierDeepONetCartesianProd struct {
	*DeepONetCartesianProd

	fourier     *network.FNN
	outputShape []int
	trunkDim    int
}

// NewFourier builds the Fourier variant. fourierSizes is the width list of
// the Fourier branch net; outputShape is the grid the inverse FFT lands
// on (one entry per trunk input dimension, 1 or 2 of them).
func NewFourier(cfg Config, fourierSizes []int, outputShape []int) (*FourierDeepONetCartesianProd, error) {
	base, err := NewCartesianProd(cfg)
	if err != nil {
		return nil, err
	}
	fb, err := network.NewFNN(fourierSizes, cfg.branchActivation(), cfg.Seed+2)
	if err != nil {
		return nil, err
	}
	trunkDim := cfg.TrunkSizes[0]
	if trunkDim != 1 && trunkDim != 2 {
		return nil, fmt.Errorf("deeponet: Fourier head supports 1-D or 2-D trunks, got %d", trunkDim)
	}
	if len(outputShape) != trunkDim {
		return nil, fmt.Errorf("deeponet: output shape has %d entries for a %d-D trunk", len(outputShape), trunkDim)
	}
	return &FourierDeepONetCartesianProd{
		DeepONetCartesianProd: base,
		fourier:               fb,
		outputShape:           outputShape,
		trunkDim:              trunkDim,
	}, nil
}

// Forward evaluates the vanilla product and adds the Fourier head. The
// location set must enumerate the output grid row-major.
func (d *FourierDeepONetCartesianProd) Forward(us, xs [][]float64) (*mat.Dense, error) {
	y := d.DeepONetCartesianProd.Forward(us, xs)
	for i, u := range us {
		flat, err := d.fourierHead(d.fourier.Forward(u))
		if err != nil {
			return nil, err
		}
		for j, v := range flat {
			y.Set(i, j, y.At(i, j)+v)
		}
	}
	return y, nil
}

func (d *FourierDeepONetCartesianProd) fourierHead(raw []float64) ([]float64, error) {
	modes := len(raw) / 2
	half := make([]complex128, modes)
	for k := 0; k < modes; k++ {
		half[k] = complex(raw[k], raw[modes+k])
	}
	if d.trunkDim == 1 {
		return irfft(half, d.outputShape[0])
	}
	modes2 := d.outputShape[1]/2 + 1
	if modes%modes2 != 0 {
		return nil, ErrFourierModes
	}
	modes1 := modes / modes2
	spec := make([][]complex128, modes1)
	for i := 0; i < modes1; i++ {
		spec[i] = half[i*modes2 : (i+1)*modes2]
	}
	grid, err := irfft2(spec, d.outputShape[0], d.outputShape[1])
	if err != nil {
		return nil, err
	}
	flat := make([]float64, 0, d.outputShape[0]*d.outputShape[1])
	for _, row := range grid {
		flat = append(flat, row...)
	}
	return flat, nil
}
