package metrics

import (
	"math"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s physics.State, in physics.Input, t float64) {
	m.max = math.Max(m.max, s.Speed)
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Distance is the path length travelled, summed from position deltas.
type Distance struct {
	prev    dynamo.Vec2
	started bool
	total   float64
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Observe(s physics.State, in physics.Input, t float64) {
	if d.started {
		d.total += s.Position.Sub(d.prev).Len()
	}
	d.prev = s.Position
	d.started = true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.prev = dynamo.Vec2{}
	d.started = false
	d.total = 0
}

// MeanLateralAccel averages |a_y| in the chassis frame.
type MeanLateralAccel struct {
	sum     float64
	samples int
}

func NewMeanLateralAccel() *MeanLateralAccel { return &MeanLateralAccel{} }

func (m *MeanLateralAccel) Name() string { return "mean_lateral_accel" }

func (m *MeanLateralAccel) Observe(s physics.State, in physics.Input, t float64) {
	m.sum += math.Abs(s.LocalAccel.Y)
	m.samples++
}

func (m *MeanLateralAccel) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLateralAccel) Reset() {
	m.sum = 0
	m.samples = 0
}

// MaxSlipRear tracks the largest rear slip angle in radians. Sustained
// values well past the tire's linear range mean the car is drifting.
type MaxSlipRear struct {
	max float64
}

func NewMaxSlipRear() *MaxSlipRear { return &MaxSlipRear{} }

func (m *MaxSlipRear) Name() string { return "max_slip_rear" }

func (m *MaxSlipRear) Observe(s physics.State, in physics.Input, t float64) {
	m.max = math.Max(m.max, math.Abs(s.Tires.SlipRear))
}

func (m *MaxSlipRear) Value() float64 { return m.max }

func (m *MaxSlipRear) Reset() { m.max = 0 }

// SpeedError is the mean absolute deviation from a target speed, used to
// score speed controllers.
type SpeedError struct {
	target  float64
	sum     float64
	samples int
}

func NewSpeedError(target float64) *SpeedError { return &SpeedError{target: target} }

func (m *SpeedError) Name() string { return "speed_error" }

func (m *SpeedError) Observe(s physics.State, in physics.Input, t float64) {
	m.sum += math.Abs(m.target - s.Speed)
	m.samples++
}

func (m *SpeedError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *SpeedError) Reset() {
	m.sum = 0
	m.samples = 0
}
