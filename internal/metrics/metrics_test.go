package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

// All metrics must satisfy the runner's interface.
var (
	_ sim.Metric = (*MaxSpeed)(nil)
	_ sim.Metric = (*Distance)(nil)
	_ sim.Metric = (*MeanLateralAccel)(nil)
	_ sim.Metric = (*MaxSlipRear)(nil)
	_ sim.Metric = (*ControlEffort)(nil)
	_ sim.Metric = (*Stability)(nil)
	_ sim.Metric = (*SpeedError)(nil)
)

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	for _, v := range []float64{1, 5, 3} {
		m.Observe(physics.State{Speed: v}, physics.Input{}, 0)
	}
	assert.Equal(t, 5.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestDistance(t *testing.T) {
	d := NewDistance()
	d.Observe(physics.State{Position: dynamo.Vec2{X: 10, Y: 10}}, physics.Input{}, 0)
	assert.Equal(t, 0.0, d.Value(), "first sample only sets the origin")

	d.Observe(physics.State{Position: dynamo.Vec2{X: 13, Y: 14}}, physics.Input{}, 1)
	d.Observe(physics.State{Position: dynamo.Vec2{X: 13, Y: 16}}, physics.Input{}, 2)
	assert.InDelta(t, 7.0, d.Value(), 1e-12)

	d.Reset()
	d.Observe(physics.State{Position: dynamo.Vec2{X: 100}}, physics.Input{}, 0)
	assert.Equal(t, 0.0, d.Value())
}

func TestMeanLateralAccel(t *testing.T) {
	m := NewMeanLateralAccel()
	assert.Equal(t, 0.0, m.Value())

	m.Observe(physics.State{LocalAccel: dynamo.Vec2{Y: 2}}, physics.Input{}, 0)
	m.Observe(physics.State{LocalAccel: dynamo.Vec2{Y: -4}}, physics.Input{}, 0)
	assert.InDelta(t, 3.0, m.Value(), 1e-12)
}

func TestMaxSlipRear(t *testing.T) {
	m := NewMaxSlipRear()
	m.Observe(physics.State{Tires: physics.Tires{SlipRear: 0.1}}, physics.Input{}, 0)
	m.Observe(physics.State{Tires: physics.Tires{SlipRear: -0.3}}, physics.Input{}, 0)
	assert.InDelta(t, 0.3, m.Value(), 1e-12)
}

func TestControlEffort(t *testing.T) {
	c := NewControlEffort()
	c.Observe(physics.State{}, physics.Input{Throttle: 1}, 0)
	c.Observe(physics.State{}, physics.Input{Brake: 0.5, Steer: 1}, 0)
	assert.InDelta(t, 0.75, c.Value(), 1e-12)

	c.Reset()
	assert.Equal(t, 0.0, c.Value())
}

func TestStability(t *testing.T) {
	s := NewStability(1.0)
	assert.Equal(t, 1.0, s.Value())

	s.Observe(physics.State{YawRate: 0.5}, physics.Input{}, 0)
	s.Observe(physics.State{YawRate: -2}, physics.Input{}, 0)
	s.Observe(physics.State{YawRate: 0}, physics.Input{}, 0)
	s.Observe(physics.State{YawRate: 3}, physics.Input{}, 0)
	assert.InDelta(t, 0.5, s.Value(), 1e-12)
}

func TestSpeedError(t *testing.T) {
	m := NewSpeedError(10)
	m.Observe(physics.State{Speed: 8}, physics.Input{}, 0)
	m.Observe(physics.State{Speed: 13}, physics.Input{}, 0)
	assert.InDelta(t, 2.5, m.Value(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestMetricsInSimulation(t *testing.T) {
	car, err := physics.NewCar(physics.DefaultConfig())
	require.NoError(t, err)

	driver, err := control.NewScript([]control.Segment{
		{Until: 5, Input: physics.Input{Throttle: 1}},
	})
	require.NoError(t, err)

	s := sim.New(car, driver)
	maxSpeed := NewMaxSpeed()
	dist := NewDistance()
	s.AddMetric(maxSpeed)
	s.AddMetric(dist)

	cfg := sim.DefaultConfig()
	cfg.Duration = 5
	res, err := s.Run(t.Context(), cfg)
	require.NoError(t, err)

	final := res.Final()
	assert.InDelta(t, final.Speed, maxSpeed.Value(), 1e-9)
	// Distance starts at the first observed tick, not the initial state.
	assert.InDelta(t, final.Position.X-res.States[1].Position.X, dist.Value(), 1e-6)
	assert.Equal(t, maxSpeed.Value(), res.Metrics["max_speed"])
}
