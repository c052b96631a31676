package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/experiment"
	"github.com/san-kum/carsim/internal/sim"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
}

func TestGridSearch_FindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {0, 3}})
	calls := 0
	run := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		calls++
		cost := (p["a"]-1)*(p["a"]-1) + p["b"]
		return &sim.Result{Metrics: map[string]float64{"cost": cost}}, nil
	}

	params, best, err := g.Search(context.Background(), run, "cost")
	require.NoError(t, err)
	assert.Equal(t, 8, calls)
	assert.Equal(t, map[string]float64{"a": 1, "b": 0}, params)
	assert.Equal(t, 0.0, best)
}

func TestGridSearch_Errors(t *testing.T) {
	failing := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		return nil, errors.New("diverged")
	}
	_, _, err := NewGridSearch([]string{"a"}, [][]float64{{1, 2}}).Search(context.Background(), failing, "cost")
	assert.ErrorContains(t, err, "diverged")

	_, _, err = NewGridSearch([]string{"a"}, nil).Search(context.Background(), failing, "cost")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"a"}, [][]float64{{1}}).Search(ctx, failing, "cost")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCruiseRunner_PrefersResponsiveGains(t *testing.T) {
	base := config.GetPreset("cruise")
	base.Duration = 15

	g := NewGridSearch([]string{"kp", "ki"}, [][]float64{{0.02, 0.5}, {0, 0.1}})
	params, best, err := g.Search(context.Background(), CruiseRunner(base, experiment.NewRegistry()), "speed_error")
	require.NoError(t, err)

	assert.Equal(t, 0.5, params["kp"])
	assert.Less(t, best, base.Cruise.Target)
}
