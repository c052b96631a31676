// Package automation runs batches of scenarios: vehicle parameter sweeps
// and Monte Carlo trials over perturbed starting conditions.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/experiment"
	"github.com/san-kum/carsim/internal/physics"
)

// ParameterSweep runs a base scenario once per value of one vehicle parameter.
type ParameterSweep struct {
	Base      *config.Config `yaml:"-"`
	Scenario  string         `yaml:"scenario"`
	ParamName string         `yaml:"param"`
	ParamMin  float64        `yaml:"min"`
	ParamMax  float64        `yaml:"max"`
	NumSteps  int            `yaml:"steps"`
	Workers   int            `yaml:"workers"`
}

type SweepResult struct {
	ParamValue float64
	FinalState physics.State
	Metrics    map[string]float64
}

// LoadSweep reads a sweep definition. The named scenario must be a preset.
func LoadSweep(path string) (*ParameterSweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sweep ParameterSweep
	if err := yaml.Unmarshal(data, &sweep); err != nil {
		return nil, fmt.Errorf("parse sweep %s: %w", path, err)
	}
	sweep.Base = config.GetPreset(sweep.Scenario)
	if sweep.Base == nil {
		return nil, fmt.Errorf("unknown scenario %q", sweep.Scenario)
	}
	return &sweep, nil
}

// Values returns the parameter values visited by the sweep.
func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps <= 1 {
		return []float64{p.ParamMin}
	}
	step := (p.ParamMax - p.ParamMin) / float64(p.NumSteps-1)
	vals := make([]float64, p.NumSteps)
	for i := range vals {
		vals[i] = p.ParamMin + float64(i)*step
	}
	return vals
}

func workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// RunSweep executes the sweep concurrently. Results are in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *experiment.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base scenario")
	}
	if _, err := physics.DefaultConfig().WithParam(sweep.ParamName, 1); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(sweep.Workers))

	for i, val := range values {
		g.Go(func() error {
			cfg := sweep.Base.Clone()
			params := make(map[string]float64, len(cfg.VehicleParams)+1)
			for k, v := range cfg.VehicleParams {
				params[k] = v
			}
			params[sweep.ParamName] = val
			cfg.VehicleParams = params

			exp, err := experiment.New(cfg, reg)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, val, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, val, err)
			}

			results[i] = SweepResult{
				ParamValue: val,
				FinalState: result.Final(),
				Metrics:    result.Metrics,
			}
			logger.Debug("sweep point done",
				zap.String("param", sweep.ParamName),
				zap.Float64("value", val),
				zap.Int("steps", result.StepsTaken))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloConfig perturbs the base scenario's initial speed and heading
// uniformly within the given half-widths. The velocity turns with the heading
// so trials start without sideslip.
type MonteCarloConfig struct {
	Base                *config.Config
	SpeedPerturbation   float64
	HeadingPerturbation float64
	NumTrials           int
	Workers             int
	// StableFraction is the minimum stability metric for a trial to count
	// as controlled.
	StableFraction float64
}

type MonteCarloResult struct {
	TrialID     int
	InitSpeed   float64
	InitHeading float64
	FinalState  physics.State
	Stability   float64
	MaxSlipRear float64
	Stable      bool
}

// RunMonteCarlo runs NumTrials perturbed copies of the base scenario. The
// perturbations are drawn from the base seed up front, so the outcome is the
// same for any worker count.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry, logger *zap.Logger) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("monte carlo has no base scenario")
	}
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}

	rng := rand.New(rand.NewSource(cfg.Base.Seed))
	trials := make([]*config.Config, cfg.NumTrials)
	for i := range trials {
		tc := cfg.Base.Clone()
		speed := math.Hypot(tc.InitState.VX, tc.InitState.VY)
		vAngle := math.Atan2(tc.InitState.VY, tc.InitState.VX)
		speed += (rng.Float64()*2 - 1) * cfg.SpeedPerturbation
		if speed < 0 {
			speed = 0
		}
		dh := (rng.Float64()*2 - 1) * cfg.HeadingPerturbation
		tc.InitState.Heading += dh
		tc.InitState.VX = speed * math.Cos(vAngle+dh)
		tc.InitState.VY = speed * math.Sin(vAngle+dh)
		trials[i] = tc
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg.Workers))

	for i, tc := range trials {
		g.Go(func() error {
			exp, err := experiment.New(tc, reg)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}

			stability := result.Metrics["stability"]
			results[i] = MonteCarloResult{
				TrialID:     i,
				InitSpeed:   math.Hypot(tc.InitState.VX, tc.InitState.VY),
				InitHeading: tc.InitState.Heading,
				FinalState:  result.Final(),
				Stability:   stability,
				MaxSlipRear: result.Metrics["max_slip_rear"],
				Stable:      stability >= cfg.StableFraction,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	stable, unstable := MonteCarloStats(results)
	logger.Info("monte carlo complete",
		zap.Int("trials", cfg.NumTrials),
		zap.Int("stable", stable),
		zap.Int("unstable", unstable))
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
