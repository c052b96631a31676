package physics

import "github.com/san-kum/carsim/internal/dynamo"

// Input is the per-tick driver command. Values are used as given; callers
// are responsible for keeping them in range.
type Input struct {
	Throttle  float64 `json:"throttle"`  // 0..1
	Brake     float64 `json:"brake"`     // 0..1
	Handbrake float64 `json:"handbrake"` // 0..1
	Steer     float64 `json:"steer"`     // -1..1, positive turns left
}

// Tires is the tire model output of the last integration step.
type Tires struct {
	AxleWeightFront float64
	AxleWeightRear  float64
	SlipFront       float64 // radians
	SlipRear        float64
	GripRear        float64
	LateralFront    float64 // N, chassis frame
	LateralRear     float64
	Traction        float64
}

// State is everything that changes between ticks. It is a plain value; the
// transitions below return a new State instead of mutating their argument.
type State struct {
	Position dynamo.Vec2 // world, metres
	Velocity dynamo.Vec2 // world, m/s
	Accel    dynamo.Vec2 // world, m/s^2

	LocalVelocity dynamo.Vec2
	// LocalAccel is read by the next tick for weight transfer.
	LocalAccel dynamo.Vec2

	Heading float64 // radians, unbounded
	YawRate float64 // rad/s

	Steer      float64 // smoothed command, -1..1
	SteerAngle float64 // degrees, -MaxSteer..MaxSteer
	Speed      float64

	Tires Tires
}

// IsValid reports whether the state is free of NaN and Inf.
func (s State) IsValid() bool {
	return s.Position.IsValid() && s.Velocity.IsValid() &&
		dynamo.IsFinite(s.Heading, s.YawRate, s.SteerAngle, s.Speed)
}
