package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/storage"
	"github.com/san-kum/carsim/internal/tui"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir()).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tVEHICLE\tDRIVER\tTIME\tDURATION\tMAX SPEED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%.1f km/h\n",
					run.ID,
					run.Scenario,
					run.Vehicle,
					run.Driver,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Metrics["max_speed"]*3.6,
				)
			}
			return w.Flush()
		},
	}
}

func loadSamples(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir())
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, samples, nil
}

func newPlotCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot speed, yaw rate and steering of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			speed := make([]float64, len(samples))
			yaw := make([]float64, len(samples))
			steer := make([]float64, len(samples))
			for i, s := range samples {
				speed[i] = s.State.Speed * 3.6
				yaw[i] = s.State.YawRate
				steer[i] = s.State.SteerAngle
			}

			fmt.Printf("run: %s (%s, %s, %s driver)\n\n", meta.ID, meta.Scenario, meta.Vehicle, meta.Driver)
			opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Width(width)}
			fmt.Println(asciigraph.Plot(speed, append(opts, asciigraph.Caption("speed (km/h)"))...))
			fmt.Println()
			fmt.Println(asciigraph.Plot(yaw, append(opts, asciigraph.Caption("yaw rate (rad/s)"))...))
			fmt.Println()
			fmt.Println(asciigraph.Plot(steer, append(opts, asciigraph.Caption("steer angle (deg)"))...))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 70, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newTrackCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "track [run_id]",
		Short: "draw the driven path from above",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadSamples(args[0])
			if err != nil {
				return err
			}

			lo := dynamo.Vec2{X: math.Inf(1), Y: math.Inf(1)}
			hi := dynamo.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
			for _, s := range samples {
				p := s.State.Position
				lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
				hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
			}

			// fit the bounding box into width*2 by height*4 dots
			span := hi.Sub(lo)
			scale := math.Max(span.X/float64(width*2-2), span.Y/float64(height*4-4))
			if scale <= 0 {
				scale = 1
			}

			c := tui.NewCanvas(width, height, scale)
			c.Center = lo.Add(hi).Scale(0.5)
			for i := 1; i < len(samples); i++ {
				c.Line(samples[i-1].State.Position, samples[i].State.Position)
			}

			fmt.Printf("run: %s (%s)\n", meta.ID, meta.Scenario)
			fmt.Printf("x %.1f..%.1f m, y %.1f..%.1f m, %.2f m/dot\n\n", lo.X, hi.X, lo.Y, hi.Y, scale)
			fmt.Println(c.String())
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "canvas width in cells")
	cmd.Flags().IntVar(&height, "height", 20, "canvas height in cells")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, result, err := storage.New(dataDir()).LoadResult(args[0])
			if err != nil {
				return err
			}
			return writeOutput(out, func(f *os.File) error {
				return storage.ExportJSON(f, info, result)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := storage.New(dataDir()).LoadResult(args[0])
			if err != nil {
				return err
			}
			return writeOutput(out, func(f *os.File) error {
				return storage.WriteCSV(f, result)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeOutput(path string, write func(f *os.File) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	return nil
}
