package fpde

import (
	"errors"

	"github.com/fracnet/fracnet/internal/frac"
	"github.com/fracnet/fracnet/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrIntervalOnly indicates a static mesh over a non-interval domain.
	ErrIntervalOnly = errors.New("fpde: only Interval domains support static meshes")
	// ErrBatchSize indicates a batch size that does not match the static mesh resolution.
	ErrBatchSize = errors.New("fpde: mesh resolution does not match batch size")
)

// TargetFunc evaluates the reference solution (or right-hand side data) at
// a point.
type TargetFunc func(p []float64) float64

// Residual maps interior inputs, the matching network outputs and the
// integral matrix to the fractional-PDE residual vector.
type Residual func(x [][]float64, y []float64, w frac.Matrix) []float64

// Loss reduces a (target, prediction) pair to a scalar.
type Loss func(targets, preds []float64) float64

// Split selects the training or test batch.
type Split int

const (
	Train Split = iota
	Test
)

// ModelContext is what Losses needs from the surrounding model: which
// split the current batch belongs to, and the raw network inputs.
type ModelContext interface {
	ActiveSplit() Split
	Inputs() [][]float64
}

// Data generates training and test batches for a fractional PDE and
// composes their losses. Batches are memoized per split; Reset discards
// both.
type Data struct {
	residual Residual
	order    frac.Order
	target   TargetFunc
	dom      geometry.Domain
	disc     frac.Discretization

	batchSize int
	testSize  int

	trainX    [][]float64
	trainY    []float64
	fracTrain *frac.Fractional

	testX    [][]float64
	testY    []float64
	fracTest *frac.Fractional
}

// NewData validates the configuration and builds a Data.
func NewData(residual Residual, order frac.Order, target TargetFunc, dom geometry.Domain, disc frac.Discretization, batchSize, testSize int) (*Data, error) {
	if disc.Mesh == frac.Static && dom.ID() != "Interval" {
		return nil, ErrIntervalOnly
	}
	return &Data{
		residual:  residual,
		order:     order,
		target:    target,
		dom:       dom,
		disc:      disc,
		batchSize: batchSize,
		testSize:  testSize,
	}, nil
}

// TrainNextBatch returns the training points and targets, generating them
// on first use. Subsequent calls return the same arrays.
func (d *Data) TrainNextBatch() ([][]float64, []float64, error) {
	if d.trainX != nil {
		return d.trainX, d.trainY, nil
	}
	x, y, op, err := d.pointsAndTargets(d.batchSize)
	if err != nil {
		return nil, nil, err
	}
	d.trainX, d.trainY, d.fracTrain = x, y, op
	return x, y, nil
}

// Test returns the test points and targets, generating them on first use.
func (d *Data) Test() ([][]float64, []float64, error) {
	if d.testX != nil {
		return d.testX, d.testY, nil
	}
	x, y, op, err := d.pointsAndTargets(d.testSize)
	if err != nil {
		return nil, nil, err
	}
	d.testX, d.testY, d.fracTest = x, y, op
	return x, y, nil
}

// NumAnchors returns the number of boundary anchor points prefixed to
// every batch.
func (d *Data) NumAnchors() int { return d.disc.NumAnchors }

// Reset invalidates both splits so the next request draws fresh batches.
func (d *Data) Reset() {
	d.trainX, d.trainY, d.fracTrain = nil, nil, nil
	d.testX, d.testY, d.fracTest = nil, nil, nil
}

func (d *Data) pointsAndTargets(size int) ([][]float64, []float64, *frac.Fractional, error) {
	anchors := d.disc.NumAnchors
	var x [][]float64
	var op *frac.Fractional
	switch d.disc.Mesh {
	case frac.Static:
		if size != d.disc.Resolution[0]-2+anchors {
			return nil, nil, nil, ErrBatchSize
		}
		var err error
		op, err = frac.New(d.order, d.dom, d.disc, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		x, err = op.SamplePoints()
		if err != nil {
			return nil, nil, nil, err
		}
		x = rollLeft(x)
	case frac.Dynamic:
		seeds := d.dom.UniformPoints(size-anchors, false)
		var err error
		op, err = frac.New(d.order, d.dom, d.disc, seeds)
		if err != nil {
			return nil, nil, nil, err
		}
		x, err = op.SamplePoints()
		if err != nil {
			return nil, nil, nil, err
		}
	default:
		return nil, nil, nil, frac.ErrMeshType
	}
	if anchors > 0 {
		bc := d.dom.RandomBoundaryPoints(anchors)
		x = append(bc, x...)
	}
	y := make([]float64, len(x))
	for i, p := range x {
		y[i] = d.target(p)
	}
	return x, y, op, nil
}

// rollLeft rotates the point sequence left by one, aligning the static
// grid so the leading boundary node ends up adjacent to the anchors.
func rollLeft(x [][]float64) [][]float64 {
	out := make([][]float64, 0, len(x))
	out = append(out, x[1:]...)
	out = append(out, x[0])
	return out
}

// IntegralMatrix returns the weight matrix of the requested split,
// triggering point generation if it has not happened yet. Static matrices
// are column-rotated to match the point rotation and stripped of their
// boundary rows.
func (d *Data) IntegralMatrix(split Split) (frac.Matrix, error) {
	var op *frac.Fractional
	switch split {
	case Train:
		if d.trainX == nil {
			if _, _, err := d.TrainNextBatch(); err != nil {
				return nil, err
			}
		}
		op = d.fracTrain
	default:
		if d.testX == nil {
			if _, _, err := d.Test(); err != nil {
				return nil, err
			}
		}
		op = d.fracTest
	}
	m, err := op.GetMatrix(true)
	if err != nil {
		return nil, err
	}
	if d.disc.Mesh == frac.Static {
		return rollTrimStatic(m)
	}
	return m, nil
}

// rollTrimStatic rotates columns left by one and trims the first and last
// (boundary) rows. The dispatch is exhaustive over the static assembly
// forms; the differentiable form shuffles expression nodes so gradients
// survive the rearrangement.
func rollTrimStatic(m frac.Matrix) (frac.Matrix, error) {
	switch w := m.(type) {
	case *mat.Dense:
		r, c := w.Dims()
		out := mat.NewDense(r-2, c, nil)
		for i := 1; i < r-1; i++ {
			for j := 0; j < c; j++ {
				out.Set(i-1, j, w.At(i, (j+1)%c))
			}
		}
		return out, nil
	case *frac.GradMatrix:
		r, _ := w.Dims()
		return w.RollColumns(1).TrimRows(1, r-1), nil
	default:
		return nil, frac.ErrMeshType
	}
}

// Losses splits targets and outputs into the anchor segment and the
// interior segment and returns [boundary loss, fractional residual loss].
// Both split matrices are materialized; the active one is chosen by the
// model context so the selection stays a runtime branch.
func (d *Data) Losses(targets, outputs []float64, lossFn Loss, mctx ModelContext) ([2]float64, error) {
	wTrain, err := d.IntegralMatrix(Train)
	if err != nil {
		return [2]float64{}, err
	}
	wTest, err := d.IntegralMatrix(Test)
	if err != nil {
		return [2]float64{}, err
	}
	w := wTrain
	if mctx.ActiveSplit() == Test {
		w = wTest
	}
	nbc := d.disc.NumAnchors
	x := mctx.Inputs()
	f := d.residual(x[nbc:], outputs[nbc:], w)
	return [2]float64{
		lossFn(targets[:nbc], outputs[:nbc]),
		lossFn(make([]float64, len(f)), f),
	}, nil
}
