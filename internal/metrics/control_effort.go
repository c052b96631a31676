package metrics

import (
	"math"

	"github.com/san-kum/carsim/internal/physics"
)

// ControlEffort is the mean pedal usage (throttle plus brake) per tick.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s physics.State, in physics.Input, t float64) {
	c.sum += math.Abs(in.Throttle) + math.Abs(in.Brake)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
