package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

const (
	DefaultDt       = 1.0 / 30
	DefaultDuration = 10.0
	DefaultVehicle  = "sedan"
	DefaultDriver   = "none"
	DefaultKp       = 0.5
	DefaultKi       = 0.1
	DefaultKd       = 0.0

	DefaultVREDURL        = "http://localhost:8888"
	DefaultReceiverPort   = 8890
	DefaultReceiverScript = "external-connection-receiver.py"
	DefaultCarNode        = "Alias Shape Rep"
)

// Config describes one scenario: which car, who drives it and for how long.
type Config struct {
	Name          string             `yaml:"name,omitempty"`
	Vehicle       string             `yaml:"vehicle"`
	VehicleParams map[string]float64 `yaml:"vehicle_params,omitempty"`
	Driver        string             `yaml:"driver"`
	Dt            float64            `yaml:"dt"`
	Duration      float64            `yaml:"duration"`
	Seed          int64              `yaml:"seed"`
	InitState     InitStateConfig    `yaml:"init_state"`
	Script        []SegmentConfig    `yaml:"script,omitempty"`
	Cruise        CruiseConfig       `yaml:"cruise"`
	Transport     TransportConfig    `yaml:"transport"`
}

type InitStateConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"` // radians
	VX      float64 `yaml:"vx"`      // world frame
	VY      float64 `yaml:"vy"`
	YawRate float64 `yaml:"yaw_rate"`
}

type SegmentConfig struct {
	Until     float64 `yaml:"until"`
	Throttle  float64 `yaml:"throttle,omitempty"`
	Brake     float64 `yaml:"brake,omitempty"`
	Handbrake float64 `yaml:"handbrake,omitempty"`
	Steer     float64 `yaml:"steer,omitempty"`
}

type CruiseConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"` // m/s
	Steer  float64 `yaml:"steer"`
}

type TransportConfig struct {
	// WebSocket is the listen address of the telemetry hub; empty disables it.
	WebSocket string     `yaml:"websocket,omitempty"`
	VRED      VREDConfig `yaml:"vred"`
}

type VREDConfig struct {
	Enabled        bool      `yaml:"enabled"`
	URL            string    `yaml:"url"`
	ReceiverPort   int       `yaml:"receiver_port"`
	ReceiverScript string    `yaml:"receiver_script"`
	Scene          string    `yaml:"scene,omitempty"`
	CarNode        string    `yaml:"car_node"`
	WheelNodes     [4]string `yaml:"wheel_nodes,flow"` // front left, front right, rear left, rear right
}

func DefaultConfig() *Config {
	return &Config{
		Vehicle:  DefaultVehicle,
		Driver:   DefaultDriver,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Cruise: CruiseConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Transport: TransportConfig{
			VRED: VREDConfig{
				URL:            DefaultVREDURL,
				ReceiverPort:   DefaultReceiverPort,
				ReceiverScript: DefaultReceiverScript,
				CarNode:        DefaultCarNode,
				WheelNodes:     [4]string{"node#166502", "node#167187", "node#166503", "node#166504"},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings and that the vehicle resolves.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	_, err := c.VehicleConfig()
	return err
}

// VehicleConfig resolves the vehicle preset and applies overrides.
func (c *Config) VehicleConfig() (physics.Config, error) {
	vc, ok := VehiclePresets[c.Vehicle]
	if !ok {
		return physics.Config{}, fmt.Errorf("%w: vehicle %q", dynamo.ErrUnknownPreset, c.Vehicle)
	}

	// sorted so the first bad override reported is stable
	names := make([]string, 0, len(c.VehicleParams))
	for name := range c.VehicleParams {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var err error
		vc, err = vc.WithParam(name, c.VehicleParams[name])
		if err != nil {
			return physics.Config{}, fmt.Errorf("vehicle_params: %w", err)
		}
	}
	if err := vc.Validate(); err != nil {
		return physics.Config{}, err
	}
	return vc, nil
}

// GetInitState builds the starting state. Speed follows from the velocity.
func (c *Config) GetInitState() physics.State {
	v := dynamo.Vec2{X: c.InitState.VX, Y: c.InitState.VY}
	return physics.State{
		Position: dynamo.Vec2{X: c.InitState.X, Y: c.InitState.Y},
		Velocity: v,
		Heading:  c.InitState.Heading,
		YawRate:  c.InitState.YawRate,
		Speed:    v.Len(),
	}
}

// GetScript converts the scripted segments into script driver segments.
func (c *Config) GetScript() []control.Segment {
	steps := make([]control.Segment, len(c.Script))
	for i, seg := range c.Script {
		steps[i] = control.Segment{
			Until: seg.Until,
			Input: physics.Input{
				Throttle:  seg.Throttle,
				Brake:     seg.Brake,
				Handbrake: seg.Handbrake,
				Steer:     seg.Steer,
			},
		}
	}
	return steps
}

// Clone returns a deep copy so presets can be modified by callers.
func (c *Config) Clone() *Config {
	out := *c
	if c.VehicleParams != nil {
		out.VehicleParams = make(map[string]float64, len(c.VehicleParams))
		for k, v := range c.VehicleParams {
			out.VehicleParams[k] = v
		}
	}
	if c.Script != nil {
		out.Script = append([]SegmentConfig(nil), c.Script...)
	}
	return &out
}
