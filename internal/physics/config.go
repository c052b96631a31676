package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/carsim/internal/dynamo"
)

// Gravity in m/s^2.
const Gravity = 9.81

// Config holds the static vehicle parameters. Lengths are in metres, forces
// in newtons, MaxSteer in degrees.
type Config struct {
	Mass                 float64 // kg
	InertiaScale         float64 // yaw inertia = Mass * InertiaScale
	HalfWidth            float64 // centre to side of chassis
	CGToFront            float64 // centre of gravity to front of chassis
	CGToRear             float64 // centre of gravity to rear of chassis
	CGToFrontAxle        float64
	CGToRearAxle         float64
	CGHeight             float64
	WheelRadius          float64 // includes tire; also the axle height
	TireGrip             float64
	LockGrip             float64 // fraction of grip left when the rear wheels are locked
	EngineForce          float64
	BrakeForce           float64
	EBrakeForce          float64
	WeightTransfer       float64
	MaxSteer             float64 // degrees
	CornerStiffnessFront float64
	CornerStiffnessRear  float64
	AirResist            float64
	RollResist           float64
}

// DefaultConfig returns a mid-size rear-wheel-drive sedan.
func DefaultConfig() Config {
	return Config{
		Mass:                 1200,
		InertiaScale:         2.0,
		HalfWidth:            0.8,
		CGToFront:            2.0,
		CGToRear:             2.0,
		CGToFrontAxle:        1.25,
		CGToRearAxle:         1.25,
		CGHeight:             0.55,
		WheelRadius:          0.55,
		TireGrip:             2.0,
		LockGrip:             0.7,
		EngineForce:          4000,
		BrakeForce:           12000,
		EBrakeForce:          12000 / 2.5,
		WeightTransfer:       0.2,
		MaxSteer:             40,
		CornerStiffnessFront: 5.0,
		CornerStiffnessRear:  5.2,
		AirResist:            2.5,
		RollResist:           8.0,
	}
}

// Validate rejects any parameter that is not strictly positive and finite.
// Every violation wraps dynamo.ErrParameterBounds and names the field.
func (c Config) Validate() error {
	for _, p := range c.fields() {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrParameterBounds, p.name, p.value)
		}
	}
	if wb := c.CGToFrontAxle + c.CGToRearAxle; wb <= 0 {
		return fmt.Errorf("%w: wheelbase must be positive, got %v", dynamo.ErrParameterBounds, wb)
	}
	if inertia := c.Mass * c.InertiaScale; inertia <= 0 || math.IsInf(inertia, 0) {
		return fmt.Errorf("%w: moment of inertia must be positive, got %v", dynamo.ErrParameterBounds, inertia)
	}
	return nil
}

type namedParam struct {
	name  string
	value float64
}

func (c Config) fields() []namedParam {
	return []namedParam{
		{"mass", c.Mass},
		{"inertia_scale", c.InertiaScale},
		{"half_width", c.HalfWidth},
		{"cg_to_front", c.CGToFront},
		{"cg_to_rear", c.CGToRear},
		{"cg_to_front_axle", c.CGToFrontAxle},
		{"cg_to_rear_axle", c.CGToRearAxle},
		{"cg_height", c.CGHeight},
		{"wheel_radius", c.WheelRadius},
		{"tire_grip", c.TireGrip},
		{"lock_grip", c.LockGrip},
		{"engine_force", c.EngineForce},
		{"brake_force", c.BrakeForce},
		{"ebrake_force", c.EBrakeForce},
		{"weight_transfer", c.WeightTransfer},
		{"max_steer", c.MaxSteer},
		{"corner_stiffness_front", c.CornerStiffnessFront},
		{"corner_stiffness_rear", c.CornerStiffnessRear},
		{"air_resist", c.AirResist},
		{"roll_resist", c.RollResist},
	}
}

// GetParams exposes the parameters by their snake_case names.
func (c Config) GetParams() map[string]float64 {
	params := make(map[string]float64, 20)
	for _, p := range c.fields() {
		params[p.name] = p.value
	}
	return params
}

// WithParam returns a copy of c with one parameter replaced. The result is
// not validated.
func (c Config) WithParam(name string, value float64) (Config, error) {
	switch name {
	case "mass":
		c.Mass = value
	case "inertia_scale":
		c.InertiaScale = value
	case "half_width":
		c.HalfWidth = value
	case "cg_to_front":
		c.CGToFront = value
	case "cg_to_rear":
		c.CGToRear = value
	case "cg_to_front_axle":
		c.CGToFrontAxle = value
	case "cg_to_rear_axle":
		c.CGToRearAxle = value
	case "cg_height":
		c.CGHeight = value
	case "wheel_radius":
		c.WheelRadius = value
	case "tire_grip":
		c.TireGrip = value
	case "lock_grip":
		c.LockGrip = value
	case "engine_force":
		c.EngineForce = value
	case "brake_force":
		c.BrakeForce = value
	case "ebrake_force":
		c.EBrakeForce = value
	case "weight_transfer":
		c.WeightTransfer = value
	case "max_steer":
		c.MaxSteer = value
	case "corner_stiffness_front":
		c.CornerStiffnessFront = value
	case "corner_stiffness_rear":
		c.CornerStiffnessRear = value
	case "air_resist":
		c.AirResist = value
	case "roll_resist":
		c.RollResist = value
	default:
		return c, fmt.Errorf("unknown param: %s", name)
	}
	return c, nil
}

// RearGrip is the rear tire grip for a given handbrake input.
func (c Config) RearGrip(ebrake float64) float64 {
	return c.TireGrip * (1.0 - ebrake*(1.0-c.LockGrip))
}

// TerminalSpeed is the straight-line speed at which full-throttle traction
// equals rolling plus air resistance.
func (c Config) TerminalSpeed() float64 {
	a, b, f := c.AirResist, c.RollResist, c.EngineForce
	return (-b + math.Sqrt(b*b+4*a*f)) / (2 * a)
}

// Derived holds constants computed from a Config.
type Derived struct {
	Inertia        float64
	WheelBase      float64
	AxleRatioFront float64 // share of weight on the front axle
	AxleRatioRear  float64
}

// Recalculate computes the derived constants. The config must be valid:
// a non-positive wheelbase yields Inf/NaN.
func Recalculate(c Config) Derived {
	wb := c.CGToFrontAxle + c.CGToRearAxle
	return Derived{
		Inertia:        c.Mass * c.InertiaScale,
		WheelBase:      wb,
		AxleRatioFront: c.CGToRearAxle / wb,
		AxleRatioRear:  c.CGToFrontAxle / wb,
	}
}
