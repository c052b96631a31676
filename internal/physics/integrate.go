package physics

import (
	"math"

	"github.com/san-kum/carsim/internal/dynamo"
)

// Below this speed with no throttle the car is brought to a full stop; the
// explicit integration oscillates around zero otherwise.
const restSpeed = 0.5

// Integrate advances s by dt under input in. SteerAngle must already be up
// to date for this tick (see Steer).
func Integrate(c Config, d Derived, s State, in Input, dt float64) State {
	sn, cs := math.Sin(s.Heading), math.Cos(s.Heading)
	// SteerAngle is kept in degrees; the slip and force terms take radians.
	steerRad := s.SteerAngle * math.Pi / 180

	v := s.Velocity.ToLocal(sn, cs)
	s.LocalVelocity = v

	// Weight on axles from the static split plus the shift caused by last
	// tick's longitudinal acceleration.
	shift := c.WeightTransfer * s.LocalAccel.X * c.CGHeight / d.WheelBase
	axleWeightFront := c.Mass * (d.AxleRatioFront*Gravity - shift)
	axleWeightRear := c.Mass * (d.AxleRatioRear*Gravity + shift)

	// Lateral velocity of each axle caused by the body's rotation.
	yawSpeedFront := c.CGToFrontAxle * s.YawRate
	yawSpeedRear := -c.CGToRearAxle * s.YawRate

	slipFront := math.Atan2(v.Y+yawSpeedFront, math.Abs(v.X)) - dynamo.Sign(v.X)*steerRad
	slipRear := math.Atan2(v.Y+yawSpeedRear, math.Abs(v.X))

	gripFront := c.TireGrip
	gripRear := c.RearGrip(in.Handbrake)

	frictionFront := dynamo.Clamp(-c.CornerStiffnessFront*slipFront, -gripFront, gripFront) * axleWeightFront
	frictionRear := dynamo.Clamp(-c.CornerStiffnessRear*slipRear, -gripRear, gripRear) * axleWeightRear

	brake := math.Min(in.Brake*c.BrakeForce+in.Handbrake*c.EBrakeForce, c.BrakeForce)
	throttle := in.Throttle * c.EngineForce

	// Rear-wheel drive: traction acts along the chassis only.
	traction := throttle - brake*dynamo.Sign(v.X)

	drag := dynamo.Vec2{
		X: -c.RollResist*v.X - c.AirResist*v.X*math.Abs(v.X),
		Y: -c.RollResist*v.Y - c.AirResist*v.Y*math.Abs(v.Y),
	}

	force := dynamo.Vec2{
		X: drag.X + traction,
		Y: drag.Y + math.Cos(steerRad)*frictionFront + frictionRear,
	}

	s.LocalAccel = force.Scale(1 / c.Mass)
	s.Accel = s.LocalAccel.ToWorld(sn, cs)
	s.Velocity = s.Velocity.Add(s.Accel.Scale(dt))
	s.Speed = s.Velocity.Len()

	torque := frictionFront*c.CGToFrontAxle - frictionRear*c.CGToRearAxle

	if math.Abs(s.Speed) < restSpeed && in.Throttle == 0 {
		s.Speed = 0
		s.Velocity = dynamo.Vec2{}
		s.YawRate = 0
		torque = 0
	}

	s.YawRate += torque / d.Inertia * dt
	s.Heading += s.YawRate * dt

	s.Position = s.Position.Add(s.Velocity.Scale(dt))

	s.Tires = Tires{
		AxleWeightFront: axleWeightFront,
		AxleWeightRear:  axleWeightRear,
		SlipFront:       slipFront,
		SlipRear:        slipRear,
		GripRear:        gripRear,
		LateralFront:    frictionFront,
		LateralRear:     frictionRear,
		Traction:        traction,
	}
	return s
}
