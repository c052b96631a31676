package physics

import "github.com/san-kum/carsim/internal/dynamo"

// Car owns one vehicle's configuration, derived constants, current input and
// state. It is not safe for concurrent use; give each goroutine its own Car.
type Car struct {
	cfg     Config
	derived Derived
	input   Input
	state   State
}

// NewCar validates cfg and returns a car at rest at the origin.
func NewCar(cfg Config) (*Car, error) {
	c := &Car{}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure replaces the parameters and recomputes the derived constants.
// On error the previous configuration is kept.
func (c *Car) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.derived = Recalculate(cfg)
	return nil
}

// SetInput stores the command used by the next Tick.
func (c *Car) SetInput(in Input) { c.input = in }

// Tick runs steering smoothing and then the integration step.
func (c *Car) Tick(dt float64) {
	c.state = Steer(c.cfg, c.state, c.input.Steer, dt)
	c.state = Integrate(c.cfg, c.derived, c.state, c.input, dt)
}

// SetState seeds initial conditions, e.g. a starting pose or velocity.
func (c *Car) SetState(s State) { c.state = s }

// Reset puts the car back at rest at the origin and clears the input.
func (c *Car) Reset() {
	c.state = State{}
	c.input = Input{}
}

func (c *Car) Config() Config        { return c.cfg }
func (c *Car) Derived() Derived      { return c.derived }
func (c *Car) Input() Input          { return c.input }
func (c *Car) State() State          { return c.state }
func (c *Car) Position() dynamo.Vec2 { return c.state.Position }
func (c *Car) Heading() float64      { return c.state.Heading }
func (c *Car) Speed() float64        { return c.state.Speed }

// LocalVelocity is the velocity in the chassis frame computed by the last tick.
func (c *Car) LocalVelocity() dynamo.Vec2 { return c.state.LocalVelocity }

// SteerAngle is the front wheel angle in degrees.
func (c *Car) SteerAngle() float64 { return c.state.SteerAngle }

// WheelRotationDelta is the wheel spin for the last tick as consumed by
// visualisers: -localVelocity.x / wheelRadius.
func (c *Car) WheelRotationDelta() float64 {
	return -c.state.LocalVelocity.X / c.cfg.WheelRadius
}
