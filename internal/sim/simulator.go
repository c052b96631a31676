package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

type Simulator struct {
	car       *physics.Car
	driver    Driver
	metrics   []Metric
	observers []Observer
}

func New(car *physics.Car, driver Driver) *Simulator {
	return &Simulator{
		car:       car,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run ticks the car from its current state for cfg.Duration seconds.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		States:  make([]physics.State, 0, steps+1),
		Inputs:  make([]physics.Input, 0, steps),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	if r, ok := s.driver.(Resetter); ok {
		r.Reset()
	}

	t := 0.0
	result.States = append(result.States, s.car.State())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		in, err := s.step(t, cfg)
		t = float64(i+1) * cfg.Dt
		if err != nil {
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}

		result.StepsTaken++
		result.States = append(result.States, s.car.State())
		result.Inputs = append(result.Inputs, in)
		result.Times = append(result.Times, t)
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback ticks until the duration elapses, the context is done or
// the callback returns false. The callback sees the state after each tick.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(physics.State, physics.Input, float64) bool) error {
	if err := s.validate(cfg); err != nil {
		return err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in, err := s.step(t, cfg)
		t = float64(i+1) * cfg.Dt
		if err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}

		if !callback(s.car.State(), in, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) step(t float64, cfg Config) (physics.Input, error) {
	in := s.driver.Compute(s.car.State(), t)
	s.car.SetInput(in)
	s.car.Tick(cfg.Dt)

	state := s.car.State()
	if cfg.ValidateState && !state.IsValid() {
		return in, dynamo.ErrInvalidState
	}

	next := t + cfg.Dt
	for _, m := range s.metrics {
		m.Observe(state, in, next)
	}
	for _, obs := range s.observers {
		obs.OnStep(state, in, next)
	}
	return in, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(cfg Config) error {
	if s.car == nil {
		return fmt.Errorf("simulator has no car")
	}
	if s.driver == nil {
		return fmt.Errorf("simulator has no driver")
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
