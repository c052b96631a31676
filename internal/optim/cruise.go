package optim

import (
	"context"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/experiment"
	"github.com/san-kum/carsim/internal/metrics"
	"github.com/san-kum/carsim/internal/sim"
)

// CruiseRunner runs base with the cruise driver, taking kp, ki and kd from
// params where present, and scores it with speed_error.
func CruiseRunner(base *config.Config, reg *experiment.Registry) Runner {
	return func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		cfg := base.Clone()
		cfg.Driver = "cruise"
		if v, ok := params["kp"]; ok {
			cfg.Cruise.Kp = v
		}
		if v, ok := params["ki"]; ok {
			cfg.Cruise.Ki = v
		}
		if v, ok := params["kd"]; ok {
			cfg.Cruise.Kd = v
		}

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return nil, err
		}
		exp.Simulator().AddMetric(metrics.NewSpeedError(cfg.Cruise.Target))
		return exp.Run(ctx)
	}
}
