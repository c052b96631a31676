package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/metrics"
	"github.com/san-kum/carsim/internal/sim"
)

// StabilityThreshold is the yaw rate (rad/s) above which a tick counts as
// unstable.
const StabilityThreshold = 1.5

// Registry maps driver names from scenario files to constructors.
type Registry struct {
	drivers map[string]func(cfg *config.Config) (sim.Driver, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		drivers: make(map[string]func(cfg *config.Config) (sim.Driver, error)),
	}

	r.drivers["none"] = func(cfg *config.Config) (sim.Driver, error) {
		return control.NewNone(), nil
	}
	r.drivers["script"] = func(cfg *config.Config) (sim.Driver, error) {
		return control.NewScript(cfg.GetScript())
	}
	r.drivers["cruise"] = func(cfg *config.Config) (sim.Driver, error) {
		c := cfg.Cruise
		return control.NewCruise(c.Kp, c.Ki, c.Kd, c.Target, c.Steer), nil
	}

	return r
}

func (r *Registry) GetDriver(name string, cfg *config.Config) (sim.Driver, error) {
	fn, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownDriver, name)
	}
	d, err := fn(cfg)
	if err != nil {
		return nil, fmt.Errorf("driver %s: %w", name, err)
	}
	return d, nil
}

func (r *Registry) ListDrivers() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewMaxSpeed(),
		metrics.NewDistance(),
		metrics.NewMeanLateralAccel(),
		metrics.NewMaxSlipRear(),
		metrics.NewControlEffort(),
		metrics.NewStability(StabilityThreshold),
	}
}
