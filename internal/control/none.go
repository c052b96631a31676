package control

import (
	"math"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(s physics.State, t float64) physics.Input {
	return physics.Input{}
}

// Clamp restricts every field of in to its documented range.
func Clamp(in physics.Input) physics.Input {
	return physics.Input{
		Throttle:  clamp(in.Throttle, 0, 1),
		Brake:     clamp(in.Brake, 0, 1),
		Handbrake: clamp(in.Handbrake, 0, 1),
		Steer:     clamp(in.Steer, -1, 1),
	}
}

// clamp maps NaN to 0 so a bad command cannot poison the state.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return dynamo.Clamp(v, lo, hi)
}
