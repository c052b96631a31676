package sim

import "github.com/san-kum/carsim/internal/physics"

// Driver produces the input for the next tick from the current state.
type Driver interface {
	Compute(s physics.State, t float64) physics.Input
}

// Resetter is implemented by drivers that carry state between ticks. Run
// resets them before the first tick.
type Resetter interface {
	Reset()
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s physics.State, in physics.Input, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every tick with the new state.
type Observer interface {
	OnStep(s physics.State, in physics.Input, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

// DefaultConfig ticks at 30 Hz for ten seconds.
func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 30,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result holds the recorded trajectory. States[0] is the initial state and
// Inputs[i] is the input that produced States[i+1].
type Result struct {
	States     []physics.State
	Inputs     []physics.Input
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded state.
func (r *Result) Final() physics.State {
	if len(r.States) == 0 {
		return physics.State{}
	}
	return r.States[len(r.States)-1]
}
