package control

import (
	"math"

	"github.com/san-kum/carsim/internal/physics"
)

// Cruise holds a target speed with a PID loop. Positive output opens the
// throttle, negative output brakes.
type Cruise struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64 // m/s
	Steer    float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewCruise(kp, ki, kd, target, steer float64) *Cruise {
	return &Cruise{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Steer:  steer,
		first:  true,
	}
}

func (c *Cruise) Compute(s physics.State, t float64) physics.Input {
	err := c.Target - s.Speed

	if c.first {
		c.prevErr = err
		c.prevT = t
		c.first = false
		return c.toInput(c.Kp * err)
	}

	u := c.Kp * err
	if dt := t - c.prevT; dt > 0 {
		c.integral += err * dt
		// Keep the integral term within one full pedal of authority.
		if c.Ki > 0 {
			limit := 1 / c.Ki
			c.integral = math.Max(-limit, math.Min(limit, c.integral))
		}
		u += c.Ki*c.integral + c.Kd*(err-c.prevErr)/dt
	}

	c.prevErr = err
	c.prevT = t
	return c.toInput(u)
}

func (c *Cruise) toInput(u float64) physics.Input {
	in := physics.Input{Steer: c.Steer}
	if u >= 0 {
		in.Throttle = u
	} else {
		in.Brake = -u
	}
	return Clamp(in)
}

// Reset clears integral and derivative state
func (c *Cruise) Reset() {
	c.integral = 0
	c.prevErr = 0
	c.first = true
}
