package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/carsim/internal/automation"
	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/experiment"
	"github.com/san-kum/carsim/internal/optim"
)

func presetArg(args []string, fallback string) (*config.Config, error) {
	name := fallback
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return cfg, nil
}

func newTuneCmd() *cobra.Command {
	var (
		kpMin, kpMax, kiMin, kiMax float64
		steps                      int
		target                     float64
	)
	cmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search cruise gains that minimise speed error",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := presetArg(args, "cruise")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("target") {
				base.Cruise.Target = target
			}
			if base.Cruise.Target <= 0 {
				return fmt.Errorf("preset %s has no cruise target, pass --target", base.Name)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			g := optim.NewGridSearch(
				[]string{"kp", "ki"},
				[][]float64{optim.Linspace(kpMin, kpMax, steps), optim.Linspace(kiMin, kiMax, steps)},
			)
			logger.Info("tuning cruise gains",
				zap.String("scenario", base.Name),
				zap.Float64("target", base.Cruise.Target),
				zap.Int("candidates", steps*steps))

			best, score, err := g.Search(ctx, optim.CruiseRunner(base, experiment.NewRegistry()), "speed_error")
			if err != nil {
				return err
			}
			fmt.Printf("best gains for %s at %.1f m/s: kp=%.4f ki=%.4f\n", base.Name, base.Cruise.Target, best["kp"], best["ki"])
			fmt.Printf("mean speed error: %.4f m/s\n", score)
			return nil
		},
	}
	cmd.Flags().Float64Var(&kpMin, "kp-min", 0.05, "lowest proportional gain")
	cmd.Flags().Float64Var(&kpMax, "kp-max", 2, "highest proportional gain")
	cmd.Flags().Float64Var(&kiMin, "ki-min", 0, "lowest integral gain")
	cmd.Flags().Float64Var(&kiMax, "ki-max", 0.5, "highest integral gain")
	cmd.Flags().IntVar(&steps, "steps", 6, "values per gain")
	cmd.Flags().Float64Var(&target, "target", 0, "override the cruise target speed in m/s")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		file  string
		sweep automation.ParameterSweep
	)
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scenario across a range of one vehicle parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &sweep
			if file != "" {
				loaded, err := automation.LoadSweep(file)
				if err != nil {
					return err
				}
				s = loaded
			} else {
				base, err := presetArg(args, "slalom")
				if err != nil {
					return err
				}
				s.Base = base
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunSweep(ctx, s, experiment.NewRegistry(), logger)
			if err != nil {
				return err
			}

			fmt.Printf("%s: sweeping %s\n\n", s.Base.Name, s.ParamName)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tMAX SPEED\tDISTANCE\tMAX SLIP REAR\tSTABILITY\n", s.ParamName)
			for _, r := range results {
				fmt.Fprintf(w, "%.4g\t%.2f\t%.1f\t%.3f\t%.3f\n",
					r.ParamValue,
					r.Metrics["max_speed"],
					r.Metrics["distance"],
					r.Metrics["max_slip_rear"],
					r.Metrics["stability"])
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "sweep definition (yaml)")
	cmd.Flags().StringVar(&sweep.ParamName, "param", "tire_grip", "vehicle parameter to sweep")
	cmd.Flags().Float64Var(&sweep.ParamMin, "min", 1.5, "first value")
	cmd.Flags().Float64Var(&sweep.ParamMax, "max", 3.5, "last value")
	cmd.Flags().IntVar(&sweep.NumSteps, "steps", 5, "number of values")
	cmd.Flags().IntVar(&sweep.Workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		mc   automation.MonteCarloConfig
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "run a scenario from randomly perturbed starts and count spins",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := presetArg(args, "handbrake_turn")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				base.Seed = seed
			}
			mc.Base = base

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunMonteCarlo(ctx, &mc, experiment.NewRegistry(), logger)
			if err != nil {
				return err
			}

			stable, unstable := automation.MonteCarloStats(results)
			worst := results[0]
			for _, r := range results {
				if r.Stability < worst.Stability {
					worst = r
				}
			}
			fmt.Printf("%s: %d trials, seed %d\n", base.Name, mc.NumTrials, base.Seed)
			fmt.Printf("controlled: %d\nspun:       %d\n", stable, unstable)
			fmt.Printf("worst trial %d: start %.2f m/s heading %.3f rad, stability %.3f, max rear slip %.3f rad\n",
				worst.TrialID, worst.InitSpeed, worst.InitHeading, worst.Stability, worst.MaxSlipRear)
			return nil
		},
	}
	cmd.Flags().IntVar(&mc.NumTrials, "trials", 100, "number of trials")
	cmd.Flags().Float64Var(&mc.SpeedPerturbation, "speed", 2, "initial speed perturbation in m/s")
	cmd.Flags().Float64Var(&mc.HeadingPerturbation, "heading", 0.1, "initial heading perturbation in rad")
	cmd.Flags().Float64Var(&mc.StableFraction, "stable", 0.9, "minimum stability fraction to count as controlled")
	cmd.Flags().IntVar(&mc.Workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the preset seed")
	return cmd
}
