// Package optim tunes scenario parameters by exhaustive search.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/carsim/internal/sim"
)

// Runner builds and runs one candidate and returns its result.
type Runner func(ctx context.Context, params map[string]float64) (*sim.Result, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search runs every grid point and returns the parameters with the lowest
// value of metricName. Candidates that fail to run are skipped; an error is
// returned only if none succeeded or ctx was cancelled.
func (g *GridSearch) Search(ctx context.Context, run Runner, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		result, err := run(ctx, params)
		if err != nil {
			lastErr = err
			return
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			lastErr = fmt.Errorf("metric %s not recorded", metricName)
			return
		}
		if val < best {
			best = val
			bestParams = make(map[string]float64, len(params))
			for k, v := range params {
				bestParams[k] = v
			}
		}
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no candidate succeeded: %w", lastErr)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
