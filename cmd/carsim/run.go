package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/experiment"
	"github.com/san-kum/carsim/internal/storage"
)

type scenarioFlags struct {
	configFile string
	vehicle    string
	driver     string
	dt         float64
	duration   float64
	seed       int64
	target     float64
	steer      float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&f.vehicle, "vehicle", config.DefaultVehicle, "vehicle preset")
	cmd.Flags().StringVar(&f.driver, "driver", config.DefaultDriver, "driver (none, script, cruise)")
	cmd.Flags().Float64Var(&f.dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&f.duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed recorded with the run")
	cmd.Flags().Float64Var(&f.target, "target", 0, "cruise target speed in m/s")
	cmd.Flags().Float64Var(&f.steer, "steer", 0, "cruise steer command")
}

// resolve layers preset, scenario file and explicitly set flags, in that
// order.
func (f *scenarioFlags) resolve(cmd *cobra.Command, preset string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cfg.Name == "" {
			cfg.Name = strings.TrimSuffix(filepath.Base(f.configFile), filepath.Ext(f.configFile))
		}
	}

	changed := cmd.Flags().Changed
	if changed("vehicle") {
		cfg.Vehicle = f.vehicle
	}
	if changed("driver") {
		cfg.Driver = f.driver
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("target") {
		cfg.Cruise.Target = f.target
	}
	if changed("steer") {
		cfg.Cruise.Steer = f.steer
	}
	if cfg.Name == "" {
		cfg.Name = "custom"
	}
	return cfg, cfg.Validate()
}

func newRunCmd() *cobra.Command {
	var (
		flags  scenarioFlags
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := ""
			if len(args) > 0 {
				preset = args[0]
			}
			cfg, err := flags.resolve(cmd, preset)
			if err != nil {
				return err
			}
			return runScenario(cfg, !noSave)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runScenario(cfg *config.Config, save bool) error {
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scenario",
		zap.String("scenario", cfg.Name),
		zap.String("vehicle", cfg.Vehicle),
		zap.String("driver", cfg.Driver),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration))

	fmt.Printf("running %s (%s, %s driver)...\n", cfg.Name, cfg.Vehicle, cfg.Driver)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if save {
		st := storage.New(dataDir())
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runInfo(cfg), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	final := result.Final()
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final: x=%.2f y=%.2f heading=%.3f speed=%.2f m/s\n",
		final.Position.X, final.Position.Y, final.Heading, final.Speed)
	printMetrics(result.Metrics)
	return nil
}

func runInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Scenario: cfg.Name,
		Vehicle:  cfg.Vehicle,
		Driver:   cfg.Driver,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func newPresetsCmd() *cobra.Command {
	var vehicle string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario and vehicle presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vehicle != "" {
				return printVehicleParams(vehicle)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tVEHICLE\tDRIVER\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\n", name, p.Vehicle, p.Driver, p.Duration)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VEHICLE\tMASS\tENGINE\tGRIP\tMAX STEER\tTOP SPEED")
			for _, name := range config.ListVehicles() {
				v := config.VehiclePresets[name]
				fmt.Fprintf(w, "%s\t%.0f kg\t%.0f N\t%.2f\t%.0f deg\t%.0f km/h\n",
					name, v.Mass, v.EngineForce, v.TireGrip, v.MaxSteer, v.TerminalSpeed()*3.6)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "print every parameter of one vehicle preset")
	return cmd
}

// printVehicleParams lists the names accepted by vehicle_params and sweep.
func printVehicleParams(name string) error {
	v, ok := config.VehiclePresets[name]
	if !ok {
		return fmt.Errorf("unknown vehicle: %s (available: %v)", name, config.ListVehicles())
	}
	params := v.GetParams()
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%g\n", k, params[k])
	}
	return w.Flush()
}
