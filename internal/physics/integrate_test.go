package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

var _ = Describe("Integrate", func() {
	var (
		cfg         physics.Config
		d           physics.Derived
		staticFront float64
		staticRear  float64
	)

	BeforeEach(func() {
		cfg = physics.DefaultConfig()
		d = physics.Recalculate(cfg)
		staticFront = cfg.Mass * d.AxleRatioFront * physics.Gravity
		staticRear = cfg.Mass * d.AxleRatioRear * physics.Gravity
	})

	moving := func(vx, vy float64) physics.State {
		v := dynamo.Vec2{X: vx, Y: vy}
		return physics.State{Velocity: v, Speed: v.Len()}
	}

	Context("with the wheels turned", func() {
		It("treats the steer angle as degrees in the slip and force projection", func() {
			s := moving(10, 0)
			s.SteerAngle = 40
			next := physics.Integrate(cfg, d, s, physics.Input{}, dt)

			rad := 40 * math.Pi / 180
			Expect(next.Tires.SlipFront).To(BeNumerically("~", -rad, 1e-12))
			Expect(next.Tires.SlipRear).To(BeZero())
			Expect(next.Tires.LateralFront).To(BeNumerically("~", cfg.TireGrip*staticFront, 1e-9))
			Expect(next.LocalAccel.Y).To(BeNumerically("~", math.Cos(rad)*cfg.TireGrip*staticFront/cfg.Mass, 1e-9))
			Expect(next.LocalAccel.Y).To(BeNumerically("~", 7.5149, 1e-4))
		})

		DescribeTable("saturates the front lateral force at grip times axle load",
			func(angle, want float64) {
				s := moving(10, 0)
				s.SteerAngle = angle
				next := physics.Integrate(cfg, d, s, physics.Input{}, dt)
				Expect(next.Tires.LateralFront).To(BeNumerically("~", want*cfg.TireGrip*staticFront, 1e-9))
			},
			Entry("full left lock", 40.0, 1.0),
			Entry("full right lock", -40.0, -1.0),
		)

		It("drops the steer term from the front slip when not rolling", func() {
			s := moving(0, 3)
			s.SteerAngle = 30
			next := physics.Integrate(cfg, d, s, physics.Input{Brake: 1}, dt)

			Expect(next.Tires.SlipFront).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(next.Tires.SlipRear).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(next.Tires.Traction).To(BeZero())
		})
	})

	It("yaws from the difference of the axle moments", func() {
		next := physics.Integrate(cfg, d, moving(10, 1), physics.Input{}, dt)

		slip := math.Atan2(1, 10)
		front := -cfg.CornerStiffnessFront * slip * staticFront
		rear := -cfg.CornerStiffnessRear * slip * staticRear
		Expect(next.Tires.LateralFront).To(BeNumerically("~", front, 1e-9))
		Expect(next.Tires.LateralRear).To(BeNumerically("~", rear, 1e-9))

		torque := front*cfg.CGToFrontAxle - rear*cfg.CGToRearAxle
		Expect(torque).To(BeNumerically(">", 0))
		Expect(next.YawRate).To(BeNumerically("~", torque/d.Inertia*dt, 1e-12))
		Expect(next.Heading).To(BeNumerically("~", next.YawRate*dt, 1e-15))
	})

	DescribeTable("brake traction",
		func(vx float64, in physics.Input, want float64) {
			next := physics.Integrate(cfg, d, moving(vx, 0), in, dt)
			Expect(next.Tires.Traction).To(BeNumerically("~", want, 1e-9))
		},
		Entry("caps brake plus handbrake at the brake force", 10.0, physics.Input{Brake: 1, Handbrake: 1}, -12000.0),
		Entry("adds the handbrake below the cap", 10.0, physics.Input{Brake: 0.5, Handbrake: 1}, -(6000.0+4800.0)),
		Entry("opposes reverse motion", -5.0, physics.Input{Brake: 1}, 12000.0),
		Entry("adds to throttle when reversing", -5.0, physics.Input{Throttle: 0.5, Brake: 1}, 2000.0+12000.0),
	)

	It("decelerates a reversing car under braking", func() {
		next := physics.Integrate(cfg, d, moving(-5, 0), physics.Input{Brake: 1}, dt)
		drag := -cfg.RollResist*-5 - cfg.AirResist*-5*5
		Expect(next.LocalAccel.X).To(BeNumerically("~", (12000+drag)/cfg.Mass, 1e-9))
		Expect(next.Velocity.X).To(BeNumerically(">", -5))
	})
})
