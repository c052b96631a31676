package config

import (
	"sort"

	"github.com/san-kum/carsim/internal/physics"
)

// VehiclePresets are the selectable cars. sedan is the reference car.
var VehiclePresets = map[string]physics.Config{
	"sedan": physics.DefaultConfig(),
	"sports": {
		Mass:                 1000,
		InertiaScale:         1.8,
		HalfWidth:            0.9,
		CGToFront:            1.9,
		CGToRear:             2.1,
		CGToFrontAxle:        1.2,
		CGToRearAxle:         1.3,
		CGHeight:             0.45,
		WheelRadius:          0.33,
		TireGrip:             2.4,
		LockGrip:             0.6,
		EngineForce:          6000,
		BrakeForce:           14000,
		EBrakeForce:          14000 / 2.5,
		WeightTransfer:       0.25,
		MaxSteer:             35,
		CornerStiffnessFront: 5.5,
		CornerStiffnessRear:  5.8,
		AirResist:            2.0,
		RollResist:           7.0,
	},
	"van": {
		Mass:                 2000,
		InertiaScale:         2.5,
		HalfWidth:            1.0,
		CGToFront:            2.5,
		CGToRear:             2.5,
		CGToFrontAxle:        1.5,
		CGToRearAxle:         1.5,
		CGHeight:             0.9,
		WheelRadius:          0.6,
		TireGrip:             1.8,
		LockGrip:             0.7,
		EngineForce:          4500,
		BrakeForce:           14000,
		EBrakeForce:          14000 / 2.5,
		WeightTransfer:       0.3,
		MaxSteer:             38,
		CornerStiffnessFront: 4.5,
		CornerStiffnessRear:  4.8,
		AirResist:            3.5,
		RollResist:           10.0,
	},
}

// Presets are ready-made scenarios.
var Presets = map[string]*Config{
	"straight": {
		Vehicle: "sedan", Driver: "script", Dt: DefaultDt, Duration: 10.0,
		Script: []SegmentConfig{{Until: 10, Throttle: 1}},
	},
	"slalom": {
		Vehicle: "sedan", Driver: "script", Dt: DefaultDt, Duration: 12.0,
		Script: []SegmentConfig{
			{Until: 3, Throttle: 1},
			{Until: 4.5, Throttle: 0.4, Steer: 1},
			{Until: 6, Throttle: 0.4, Steer: -1},
			{Until: 7.5, Throttle: 0.4, Steer: 1},
			{Until: 9, Throttle: 0.4, Steer: -1},
			{Until: 12, Throttle: 0.4},
		},
	},
	"skidpad": {
		Vehicle: "sedan", Driver: "cruise", Dt: DefaultDt, Duration: 30.0,
		Cruise: CruiseConfig{Kp: DefaultKp, Ki: DefaultKi, Target: 12, Steer: 0.5},
	},
	"handbrake_turn": {
		Vehicle: "sedan", Driver: "script", Dt: DefaultDt, Duration: 8.0,
		Script: []SegmentConfig{
			{Until: 4, Throttle: 1},
			{Until: 5.5, Handbrake: 1, Steer: 1},
			{Until: 8},
		},
	},
	"cruise": {
		Vehicle: "sedan", Driver: "cruise", Dt: DefaultDt, Duration: 30.0,
		Cruise: CruiseConfig{Kp: DefaultKp, Ki: DefaultKi, Target: 20},
	},
	"coastdown": {
		Vehicle: "sedan", Driver: "none", Dt: DefaultDt, Duration: 20.0,
		InitState: InitStateConfig{VX: 25},
	},
}

// GetPreset returns a copy of the named scenario with defaults filled in,
// or nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	cfg.Name = name
	cfg.Transport = DefaultConfig().Transport
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListVehicles() []string {
	names := make([]string, 0, len(VehiclePresets))
	for name := range VehiclePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
