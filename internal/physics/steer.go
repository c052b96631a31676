package physics

import (
	"math"

	"github.com/san-kum/carsim/internal/dynamo"
)

const (
	steerRate    = 2.0 // command units per second towards the input
	recenterRate = 1.0
	// Steering authority falls linearly with speed, capped at authoritySpeedCap.
	authoritySpeedCap = 250.0
	authorityDivisor  = 280.0
)

// SteerAuthority is the fraction of steering available at a given speed.
func SteerAuthority(speed float64) float64 {
	return 1.0 - math.Min(speed, authoritySpeedCap)/authorityDivisor
}

// Steer moves the smoothed steer value towards cmd and derives the wheel
// angle. It uses s.Speed, which is the speed of the previous tick.
func Steer(c Config, s State, cmd, dt float64) State {
	if cmd != 0 {
		s.Steer = dynamo.Clamp(s.Steer+cmd*dt*steerRate, -1, 1)
	} else if s.Steer > 0 {
		s.Steer = math.Max(s.Steer-dt*recenterRate, 0)
	} else if s.Steer < 0 {
		s.Steer = math.Min(s.Steer+dt*recenterRate, 0)
	}

	s.SteerAngle = s.Steer * SteerAuthority(s.Speed) * c.MaxSteer
	return s
}
