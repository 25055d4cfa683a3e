package deeponet

import (
	"errors"

	"github.com/fracnet/fracnet/internal/network"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTrunkTrainable indicates a per-layer trainable-trunk list whose
	// length does not match the trunk layout.
	ErrTrunkTrainable = errors.New("deeponet: trainable-trunk list does not match trunk layer sizes")
	// ErrWidthMismatch indicates differing branch and trunk output widths.
	ErrWidthMismatch = errors.New("deeponet: branch and trunk output widths do not match")
)

// BranchFunc is a user-defined branch network; it must map the branch
// input to the declared branch output width.
type BranchFunc func(u []float64) []float64

// Config describes a DeepONet. Activation applies to both nets unless the
// per-net fields are set.
type Config struct {
	BranchSizes []int
	// Branch overrides the fully connected branch net. BranchSizes must
	// still declare the input and output widths.
	Branch BranchFunc

	TrunkSizes []int

	Activation       string
	BranchActivation string
	TrunkActivation  string

	UseBias         bool
	TrainableBranch bool
	// TrainableTrunk freezes individual trunk layers. nil trains all;
	// otherwise its length must be len(TrunkSizes)-1.
	TrainableTrunk []bool

	Seed int64
}

func (c Config) branchActivation() string {
	if c.BranchActivation != "" {
		return c.BranchActivation
	}
	return c.Activation
}

func (c Config) trunkActivation() string {
	if c.TrunkActivation != "" {
		return c.TrunkActivation
	}
	return c.Activation
}

// DeepONet combines a branch and a trunk net with a dot product.
type DeepONet struct {
	branch   *network.FNN
	branchFn BranchFunc
	trunk    *network.FNN

	useBias bool
	bias    float64

	trainableTrunk []bool
}

// NewDeepONet validates the configuration and builds the nets.
func NewDeepONet(cfg Config) (*DeepONet, error) {
	if cfg.TrainableTrunk != nil && len(cfg.TrainableTrunk) != len(cfg.TrunkSizes)-1 {
		return nil, ErrTrunkTrainable
	}
	if cfg.BranchSizes[len(cfg.BranchSizes)-1] != cfg.TrunkSizes[len(cfg.TrunkSizes)-1] {
		return nil, ErrWidthMismatch
	}
	d := &DeepONet{
		branchFn:       cfg.Branch,
		useBias:        cfg.UseBias,
		trainableTrunk: cfg.TrainableTrunk,
	}
	var err error
	if cfg.Branch == nil {
		d.branch, err = network.NewFNN(cfg.BranchSizes, cfg.branchActivation(), cfg.Seed)
		if err != nil {
			return nil, err
		}
		d.branch.SetTrainable(cfg.TrainableBranch)
	}
	d.trunk, err = network.NewFNN(cfg.TrunkSizes, cfg.trunkActivation(), cfg.Seed+1)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// TrainableTrunk returns the per-layer trunk freezing mask, or nil when
// every layer trains.
func (d *DeepONet) TrainableTrunk() []bool { return d.trainableTrunk }

func (d *DeepONet) branchOut(u []float64) []float64 {
	if d.branchFn != nil {
		return d.branchFn(u)
	}
	return d.branch.Forward(u)
}

// Forward evaluates the operator: u is the sampled input function, x the
// evaluation location.
func (d *DeepONet) Forward(u, x []float64) float64 {
	bu := d.branchOut(u)
	tx := d.trunk.Forward(x)
	s := 0.0
	for i := range bu {
		s += bu[i] * tx[i]
	}
	if d.useBias {
		s += d.bias
	}
	return s
}

// DeepONetCartesianProd evaluates every input-function sample at every
// location: output is (samples × locations).
type DeepONetCartesianProd struct {
	*DeepONet
}

// NewCartesianProd builds a Cartesian-product DeepONet.
func NewCartesianProd(cfg Config) (*DeepONetCartesianProd, error) {
	d, err := NewDeepONet(cfg)
	if err != nil {
		return nil, err
	}
	return &DeepONetCartesianProd{DeepONet: d}, nil
}

// Forward returns the (len(us) × len(xs)) output grid as a dense product
// of the branch and trunk embeddings.
func (d *DeepONetCartesianProd) Forward(us, xs [][]float64) *mat.Dense {
	p := d.trunk.OutSize()
	b := mat.NewDense(len(us), p, nil)
	for i, u := range us {
		b.SetRow(i, d.branchOut(u))
	}
	t := mat.NewDense(len(xs), p, nil)
	for i, x := range xs {
		t.SetRow(i, d.trunk.Forward(x))
	}
	var y mat.Dense
	y.Mul(b, t.T())
	if d.useBias {
		r, c := y.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				y.Set(i, j, y.At(i, j)+d.bias)
			}
		}
	}
	return &y
}
