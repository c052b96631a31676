package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/carsim/internal/analysis"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/export"
	"github.com/san-kum/carsim/internal/physics"
)

func newAnalyzeCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "yaw spectrum and sideslip phase plane of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			states := make([]physics.State, len(samples))
			yaw := make([]float64, len(samples))
			steer := make([]float64, len(samples))
			for i, s := range samples {
				states[i] = s.State
				yaw[i] = s.State.YawRate
				steer[i] = s.Input.Steer
			}

			maxBeta := 0.0
			for _, s := range states {
				maxBeta = max(maxBeta, math.Abs(analysis.Sideslip(s)))
			}

			fmt.Printf("run: %s (%s)\n", meta.ID, meta.Scenario)
			fmt.Printf("steer input frequency: %.3f Hz\n", analysis.DominantFrequency(steer, meta.Dt))
			fmt.Printf("yaw rate frequency:    %.3f Hz\n", analysis.DominantFrequency(yaw, meta.Dt))
			fmt.Printf("max sideslip:          %.2f deg\n\n", maxBeta*180/math.Pi)
			fmt.Println("sideslip (x, rad) vs yaw rate (y, rad/s):")
			fmt.Print(analysis.PhasePortraitToASCII(analysis.SideslipPhase(states), width, height))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "plot width")
	cmd.Flags().IntVar(&height, "height", 20, "plot height")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var (
		out  string
		opts = export.DefaultSVGOptions()
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the driven path as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}
			points := make([]dynamo.Vec2, len(samples))
			for i, s := range samples {
				points[i] = s.State.Position
			}
			return writeOutput(out, func(f *os.File) error {
				return export.TrajectoryToSVG(f, points, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "image width in px")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "image height in px")
	cmd.Flags().StringVar(&opts.Stroke, "stroke", opts.Stroke, "path colour")
	return cmd
}
