package transport

import "github.com/san-kum/carsim/internal/physics"

// Frame is what a viewer needs to pose the car for one tick.
type Frame struct {
	Time          float64 `json:"t"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Heading       float64 `json:"heading"`        // radians
	SteerAngle    float64 `json:"steer_angle"`    // degrees
	WheelRotation float64 `json:"wheel_rotation"` // accumulated, radians
	Speed         float64 `json:"speed"`
}

// FrameBuilder accumulates wheel rotation across ticks of one car.
type FrameBuilder struct {
	car      *physics.Car
	rotation float64
}

func NewFrameBuilder(car *physics.Car) *FrameBuilder {
	return &FrameBuilder{car: car}
}

// Next must be called once after every tick.
func (b *FrameBuilder) Next(t float64) Frame {
	b.rotation += b.car.WheelRotationDelta()
	s := b.car.State()
	return Frame{
		Time:          t,
		X:             s.Position.X,
		Y:             s.Position.Y,
		Heading:       s.Heading,
		SteerAngle:    s.SteerAngle,
		WheelRotation: b.rotation,
		Speed:         s.Speed,
	}
}

func (b *FrameBuilder) Reset() { b.rotation = 0 }
