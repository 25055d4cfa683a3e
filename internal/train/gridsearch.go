package train

import (
	"context"
	"math"
)

// GridSearch sweeps hyperparameter combinations and keeps the one that
// minimizes a result metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds and runs a trainer per grid cell and returns the
// parameters with the smallest value of the named metric.
func (g *GridSearch) Search(
	ctx context.Context,
	buildTrainer func(params map[string]float64) (*Trainer, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildTrainer, metricName, &best, &bestParams)

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildTrainer func(map[string]float64) (*Trainer, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if depth == len(g.paramNames) {
		tr, err := buildTrainer(current)
		if err != nil {
			return
		}

		result, err := tr.Run(ctx)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	for _, v := range g.ranges[depth] {
		current[g.paramNames[depth]] = v
		g.searchRecursive(ctx, depth+1, current, buildTrainer, metricName, best, bestParams)
	}
	delete(current, g.paramNames[depth])
}
