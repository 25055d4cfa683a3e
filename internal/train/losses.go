package train

import "math"

// MSE is the mean squared error. Empty segments (a batch with no anchors)
// contribute zero.
func MSE(targets, preds []float64) float64 {
	if len(preds) == 0 {
		return 0
	}
	s := 0.0
	for i := range preds {
		d := preds[i] - targets[i]
		s += d * d
	}
	return s / float64(len(preds))
}

// MAE is the mean absolute error.
func MAE(targets, preds []float64) float64 {
	if len(preds) == 0 {
		return 0
	}
	s := 0.0
	for i := range preds {
		s += math.Abs(preds[i] - targets[i])
	}
	return s / float64(len(preds))
}

// RelL2 is the relative L2 error of preds against targets.
func RelL2(targets, preds []float64) float64 {
	num, den := 0.0, 0.0
	for i := range preds {
		d := preds[i] - targets[i]
		num += d * d
		den += targets[i] * targets[i]
	}
	if den == 0 {
		return math.Sqrt(num)
	}
	return math.Sqrt(num / den)
}
