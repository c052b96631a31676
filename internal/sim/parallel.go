package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

// Vehicle pairs a car with the driver that controls it.
type Vehicle struct {
	Name   string
	Car    *physics.Car
	Driver Driver
}

// Fleet steps independent vehicles side by side. Vehicles share nothing, so
// each tick fans out across goroutines without locking.
type Fleet struct {
	vehicles []Vehicle
	minChunk int
	t        float64
}

func NewFleet(vehicles ...Vehicle) *Fleet {
	return &Fleet{vehicles: vehicles, minChunk: 8}
}

func (f *Fleet) Len() int              { return len(f.vehicles) }
func (f *Fleet) Vehicle(i int) Vehicle { return f.vehicles[i] }
func (f *Fleet) Time() float64         { return f.t }

// Step advances every vehicle by one tick.
func (f *Fleet) Step(dt float64) {
	t := f.t
	dynamo.ParallelFor(len(f.vehicles), f.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			v := f.vehicles[i]
			v.Car.SetInput(v.Driver.Compute(v.Car.State(), t))
			v.Car.Tick(dt)
		}
	})
	f.t += dt
}

// Run steps the fleet for cfg.Duration and returns the number of ticks taken.
func (f *Fleet) Run(ctx context.Context, cfg Config) (int, error) {
	if cfg.Dt <= 0 || cfg.Duration <= 0 {
		return 0, fmt.Errorf("dt and duration must be positive, got dt=%f duration=%f", cfg.Dt, cfg.Duration)
	}
	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		f.Step(cfg.Dt)

		if cfg.ValidateState {
			for _, v := range f.vehicles {
				if !v.Car.State().IsValid() {
					return i + 1, &dynamo.SimulationError{Step: i, Time: f.t, Wrapped: dynamo.ErrInvalidState}
				}
			}
		}
	}
	return steps, nil
}
