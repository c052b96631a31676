// Package experiment assembles a car, driver and metrics from a scenario
// config and runs it.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	car       *physics.Car
	simulator *sim.Simulator
}

// New validates cfg and builds the simulator. The car starts from the
// configured initial state.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vc, err := cfg.VehicleConfig()
	if err != nil {
		return nil, err
	}
	car, err := physics.NewCar(vc)
	if err != nil {
		return nil, err
	}
	car.SetState(cfg.GetInitState())

	driver, err := reg.GetDriver(cfg.Driver, cfg)
	if err != nil {
		return nil, err
	}

	s := sim.New(car, driver)
	for _, m := range reg.DefaultMetrics() {
		s.AddMetric(m)
	}

	return &Experiment{cfg: cfg, car: car, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// SimConfig is the runner configuration derived from the scenario.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Car() *physics.Car { return e.car }

func (e *Experiment) Config() *config.Config { return e.cfg }
