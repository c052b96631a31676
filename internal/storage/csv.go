package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

// Columns is the states.csv header. Input columns hold the command applied
// from that row's state; the last row has none and is written as zeros.
var Columns = []string{
	"time", "x", "y", "heading", "vx", "vy", "speed", "yaw_rate", "steer_angle",
	"throttle", "brake", "handbrake", "steer_cmd",
}

// Sample is one decoded states.csv row.
type Sample struct {
	Time  float64
	State physics.State
	Input physics.Input
}

// formatFloat writes the shortest text that parses back to v exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the trajectory of result with the Columns header.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(Columns); err != nil {
		return err
	}

	for i, s := range result.States {
		var in physics.Input
		if i < len(result.Inputs) {
			in = result.Inputs[i]
		}
		t := 0.0
		if i < len(result.Times) {
			t = result.Times[i]
		}

		row := []string{
			formatFloat(t),
			formatFloat(s.Position.X),
			formatFloat(s.Position.Y),
			formatFloat(s.Heading),
			formatFloat(s.Velocity.X),
			formatFloat(s.Velocity.Y),
			formatFloat(s.Speed),
			formatFloat(s.YawRate),
			formatFloat(s.SteerAngle),
			formatFloat(in.Throttle),
			formatFloat(in.Brake),
			formatFloat(in.Handbrake),
			formatFloat(in.Steer),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV decodes rows written by WriteCSV. Columns are matched by header
// name so files with extra or reordered columns still load.
func ReadCSV(in io.Reader) ([]Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []Sample{}, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	if _, ok := index["time"]; !ok {
		return nil, fmt.Errorf("states: missing time column")
	}

	samples := make([]Sample, 0)
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		get := func(name string) (float64, error) {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return 0, nil
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return 0, fmt.Errorf("states line %d, %s: %w", line, name, err)
			}
			return v, nil
		}

		var vals [13]float64
		for i, name := range Columns {
			if vals[i], err = get(name); err != nil {
				return nil, err
			}
		}

		samples = append(samples, Sample{
			Time: vals[0],
			State: physics.State{
				Position:   dynamo.Vec2{X: vals[1], Y: vals[2]},
				Heading:    vals[3],
				Velocity:   dynamo.Vec2{X: vals[4], Y: vals[5]},
				Speed:      vals[6],
				YawRate:    vals[7],
				SteerAngle: vals[8],
			},
			Input: physics.Input{
				Throttle:  vals[9],
				Brake:     vals[10],
				Handbrake: vals[11],
				Steer:     vals[12],
			},
		})
	}

	return samples, nil
}
