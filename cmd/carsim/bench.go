package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

func newBenchCmd() *cobra.Command {
	var (
		vehicle  string
		duration float64
	)
	cmd := &cobra.Command{
		Use:   "bench [cars]",
		Short: "step a fleet of cars in parallel and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1000
			if len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("cars must be a positive integer, got %q", args[0])
				}
				n = v
			}

			vc, ok := config.VehiclePresets[vehicle]
			if !ok {
				return fmt.Errorf("unknown vehicle: %s (available: %v)", vehicle, config.ListVehicles())
			}

			vehicles := make([]sim.Vehicle, n)
			for i := range vehicles {
				car, err := physics.NewCar(vc)
				if err != nil {
					return err
				}
				// spread targets and steering so cars do different work
				target := 5 + float64(i%20)
				steer := float64(i%7-3) / 3
				vehicles[i] = sim.Vehicle{
					Name:   fmt.Sprintf("car-%d", i),
					Car:    car,
					Driver: control.NewCruise(config.DefaultKp, config.DefaultKi, 0, target, steer),
				}
			}

			fleet := sim.NewFleet(vehicles...)
			cfg := sim.Config{Dt: config.DefaultDt, Duration: duration, ValidateState: true}

			fmt.Printf("benchmarking %d %s cars for %.1fs of simulated time...\n", n, vehicle, duration)
			start := time.Now()
			steps, err := fleet.Run(context.Background(), cfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			ticks := float64(steps) * float64(n)
			fmt.Printf("steps: %d\n", steps)
			fmt.Printf("time: %v\n", elapsed)
			fmt.Printf("car-ticks/sec: %.0f\n", ticks/elapsed.Seconds())
			fmt.Printf("realtime factor: %.1fx\n", duration*float64(n)/elapsed.Seconds())
			return nil
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", config.DefaultVehicle, "vehicle preset")
	cmd.Flags().Float64Var(&duration, "time", 10, "simulated seconds")
	return cmd
}
