package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Vehicle  string             `json:"vehicle"`
	Driver   string             `json:"driver"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   []ExportState      `json:"states"`
	Inputs   []physics.Input    `json:"inputs"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportState is the serialised subset of physics.State.
type ExportState struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Heading    float64 `json:"heading"`
	VX         float64 `json:"vx"`
	VY         float64 `json:"vy"`
	Speed      float64 `json:"speed"`
	YawRate    float64 `json:"yaw_rate"`
	SteerAngle float64 `json:"steer_angle"`
}

// ExportJSON writes the whole run as one indented JSON document.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	data := ExportData{
		Scenario: info.Scenario,
		Vehicle:  info.Vehicle,
		Driver:   info.Driver,
		Dt:       info.Dt,
		Duration: info.Duration,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		States:   make([]ExportState, len(result.States)),
		Inputs:   result.Inputs,
		Metrics:  result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = ExportState{
			X:          s.Position.X,
			Y:          s.Position.Y,
			Heading:    s.Heading,
			VX:         s.Velocity.X,
			VY:         s.Velocity.Y,
			Speed:      s.Speed,
			YawRate:    s.YawRate,
			SteerAngle: s.SteerAngle,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
