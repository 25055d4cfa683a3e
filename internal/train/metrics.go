package train

import "math"

// BestTestLoss tracks the smallest total test loss seen during a run.
type BestTestLoss struct {
	best float64
	seen bool
}

func NewBestTestLoss() *BestTestLoss {
	return &BestTestLoss{best: math.Inf(1)}
}

func (m *BestTestLoss) Name() string { return "best_test_loss" }

func (m *BestTestLoss) Observe(epoch int, train, test [2]float64) {
	total := test[0] + test[1]
	if !m.seen || total < m.best {
		m.best = total
		m.seen = true
	}
}

func (m *BestTestLoss) Value() float64 { return m.best }

func (m *BestTestLoss) Reset() {
	m.best = math.Inf(1)
	m.seen = false
}

// FinalTrainLoss reports the last observed total training loss.
type FinalTrainLoss struct {
	last float64
}

func NewFinalTrainLoss() *FinalTrainLoss { return &FinalTrainLoss{} }

func (m *FinalTrainLoss) Name() string { return "final_train_loss" }

func (m *FinalTrainLoss) Observe(epoch int, train, test [2]float64) {
	m.last = train[0] + train[1]
}

func (m *FinalTrainLoss) Value() float64 { return m.last }

func (m *FinalTrainLoss) Reset() { m.last = 0 }
