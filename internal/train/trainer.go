// Package train runs gradient-based PINN training against fractional-PDE
// batch data.
package train

import (
	"context"
	"errors"

	"github.com/fracnet/fracnet/internal/autodiff"
	"github.com/fracnet/fracnet/internal/fpde"
	"github.com/fracnet/fracnet/internal/frac"
	"github.com/fracnet/fracnet/internal/network"
)

// ErrNoEpochs indicates a non-positive epoch count.
var ErrNoEpochs = errors.New("train: epoch count must be positive")

// Config are the trainer settings.
type Config struct {
	Epochs       int
	LearningRate float64
	// AlphaLR is the learning rate of the fractional order when it is
	// trainable. Zero falls back to LearningRate.
	AlphaLR float64
}

// Observer is notified after every epoch with the two-part train and test
// losses.
type Observer interface {
	OnEpoch(epoch int, train, test [2]float64)
}

// Metric accumulates a scalar over the course of a run.
type Metric interface {
	Name() string
	Observe(epoch int, train, test [2]float64)
	Value() float64
	Reset()
}

// Result is the outcome of a training run.
type Result struct {
	Epochs       int
	TrainHistory [][2]float64
	TestHistory  [][2]float64
	Metrics      map[string]float64
	Alpha        float64
}

// Trainer couples a network with fractional-PDE data and optimizes the
// network (and optionally the fractional order) with Adam.
//
// The interior residual is assumed linear in the network outputs,
// f = W·u - rhs(x), which covers fractional Poisson-type problems; the
// gradient of the residual loss is then Wᵀf.
type Trainer struct {
	net   *network.FNN
	data  *fpde.Data
	rhs   func(p []float64) float64
	order frac.Order
	cfg   Config

	opt      *Adam
	alphaOpt *Adam

	metrics   []Metric
	observers []Observer
	exact     fpde.TargetFunc
}

// New builds a trainer. rhs is the right-hand side of D^α u = rhs.
func New(net *network.FNN, data *fpde.Data, rhs func(p []float64) float64, order frac.Order, cfg Config) *Trainer {
	alr := cfg.AlphaLR
	if alr == 0 {
		alr = cfg.LearningRate
	}
	return &Trainer{
		net:      net,
		data:     data,
		rhs:      rhs,
		order:    order,
		cfg:      cfg,
		opt:      NewAdam(cfg.LearningRate),
		alphaOpt: NewAdam(alr),
	}
}

func (t *Trainer) AddMetric(m Metric)     { t.metrics = append(t.metrics, m) }
func (t *Trainer) AddObserver(o Observer) { t.observers = append(t.observers, o) }

// SetExact registers the exact solution, enabling the relative-L2 result
// metric on the test points.
func (t *Trainer) SetExact(f fpde.TargetFunc) { t.exact = f }

type batchContext struct {
	split fpde.Split
	x     [][]float64
}

func (b batchContext) ActiveSplit() fpde.Split { return b.split }
func (b batchContext) Inputs() [][]float64     { return b.x }

// Run trains for the configured number of epochs or until the context is
// canceled, returning the partial result in that case as well.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	if t.cfg.Epochs <= 0 {
		return nil, ErrNoEpochs
	}
	for _, m := range t.metrics {
		m.Reset()
	}
	result := &Result{Metrics: make(map[string]float64)}

	grads := t.net.NewGrads()
	var flatP, flatG []float64

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			t.finish(result)
			return result, ctx.Err()
		default:
		}

		trainX, trainY, err := t.data.TrainNextBatch()
		if err != nil {
			return nil, err
		}
		testX, testY, err := t.data.Test()
		if err != nil {
			return nil, err
		}

		w, err := t.data.IntegralMatrix(fpde.Train)
		if err != nil {
			return nil, err
		}

		y := t.forward(trainX)
		trainLosses, err := t.data.Losses(trainY, y, MSE, batchContext{fpde.Train, trainX})
		if err != nil {
			return nil, err
		}
		yTest := t.forward(testX)
		testLosses, err := t.data.Losses(testY, yTest, MSE, batchContext{fpde.Test, testX})
		if err != nil {
			return nil, err
		}

		if t.net.Trainable() {
			t.stepNet(trainX, trainY, y, w, grads, &flatP, &flatG)
		}
		if err := t.stepAlpha(trainX, y, w); err != nil {
			return nil, err
		}

		result.TrainHistory = append(result.TrainHistory, trainLosses)
		result.TestHistory = append(result.TestHistory, testLosses)
		result.Epochs = epoch

		for _, m := range t.metrics {
			m.Observe(epoch, trainLosses, testLosses)
		}
		for _, o := range t.observers {
			o.OnEpoch(epoch, trainLosses, testLosses)
		}
	}

	t.finish(result)
	return result, nil
}

func (t *Trainer) forward(xs [][]float64) []float64 {
	y := make([]float64, len(xs))
	for i, x := range xs {
		y[i] = t.net.Forward(x)[0]
	}
	return y
}

// stepNet applies one Adam step to the network parameters.
func (t *Trainer) stepNet(x [][]float64, targets, y []float64, w frac.Matrix, grads *network.Grads, flatP, flatG *[]float64) {
	nbc := t.data.NumAnchors()
	yInt := y[nbc:]
	xInt := x[nbc:]
	rows, _ := w.Dims()

	f := frac.MulVec(w, yInt)
	for i := 0; i < rows; i++ {
		f[i] -= t.rhs(xInt[i])
	}

	dy := make([]float64, len(y))
	if nbc > 0 {
		for i := 0; i < nbc; i++ {
			dy[i] = 2 * (y[i] - targets[i]) / float64(nbc)
		}
	}
	scaled := make([]float64, rows)
	for i := range f {
		scaled[i] = 2 * f[i] / float64(rows)
	}
	wtf := frac.MulVecT(w, scaled)
	for j := range wtf {
		dy[nbc+j] += wtf[j]
	}

	grads.Zero()
	out := make([]float64, 1)
	for i := range x {
		if dy[i] == 0 {
			continue
		}
		out[0] = dy[i]
		t.net.Backward(x[i], out, grads)
	}

	*flatP = t.net.Flatten((*flatP)[:0])
	*flatG = grads.Flatten((*flatG)[:0])
	t.opt.Update(*flatP, *flatG)
	t.net.Load(*flatP)
}

// stepAlpha applies one Adam step to a trainable fractional order and
// invalidates the data caches so the next epoch rebuilds the operator at
// the new order.
func (t *Trainer) stepAlpha(x [][]float64, y []float64, w frac.Matrix) error {
	av, ok := t.order.(*autodiff.Value)
	if !ok {
		return nil
	}
	gm, ok := w.(*frac.GradMatrix)
	if !ok {
		return nil
	}
	nbc := t.data.NumAnchors()
	yInt := y[nbc:]
	xInt := x[nbc:]
	rows, _ := gm.Dims()

	loss := autodiff.Const(0)
	for i := 0; i < rows; i++ {
		fi := autodiff.Dot(gm.Row(i), yInt)
		fi = autodiff.Sub(fi, autodiff.Const(t.rhs(xInt[i])))
		loss = autodiff.Add(loss, autodiff.Mul(fi, fi))
	}
	loss = autodiff.Scale(1/float64(rows), loss)
	loss.Backward()

	p := []float64{av.Float()}
	g := []float64{av.Grad()}
	t.alphaOpt.Update(p, g)
	av.Set(p[0])

	t.data.Reset()
	return nil
}

func (t *Trainer) finish(result *Result) {
	result.Alpha = t.order.Float()
	for _, m := range t.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	if t.exact != nil {
		testX, _, err := t.data.Test()
		if err == nil {
			preds := t.forward(testX)
			exact := make([]float64, len(testX))
			for i, p := range testX {
				exact[i] = t.exact(p)
			}
			result.Metrics["l2_rel_error"] = RelL2(exact, preds)
		}
	}
}
