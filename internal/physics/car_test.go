package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

const dt = 1.0 / 30

func newSedan() *physics.Car {
	car, err := physics.NewCar(physics.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return car
}

var _ = Describe("Car", func() {
	It("refuses an invalid configuration", func() {
		cfg := physics.DefaultConfig()
		cfg.Mass = 0
		_, err := physics.NewCar(cfg)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("keeps the previous configuration when reconfiguring fails", func() {
		car := newSedan()
		bad := physics.DefaultConfig()
		bad.CGToRearAxle = -3
		Expect(car.Configure(bad)).NotTo(Succeed())
		Expect(car.Config()).To(Equal(physics.DefaultConfig()))
		Expect(car.Derived().WheelBase).To(Equal(2.5))
	})

	Context("at rest", func() {
		It("stays put with no input", func() {
			car := newSedan()
			for i := 0; i < 300; i++ {
				car.Tick(dt)
			}
			Expect(car.Position()).To(Equal(dynamo.Vec2{}))
			Expect(car.Heading()).To(BeZero())
			Expect(car.State().Velocity).To(Equal(dynamo.Vec2{}))
			Expect(car.Speed()).To(BeZero())
		})

		It("does not creep when braking", func() {
			car := newSedan()
			car.SetInput(physics.Input{Brake: 1, Handbrake: 1})
			for i := 0; i < 30; i++ {
				car.Tick(dt)
			}
			Expect(car.Position()).To(Equal(dynamo.Vec2{}))
			Expect(car.State().YawRate).To(BeZero())
		})
	})

	Context("first tick of full throttle from rest", func() {
		var car *physics.Car

		BeforeEach(func() {
			car = newSedan()
			car.SetInput(physics.Input{Throttle: 1})
			car.Tick(dt)
		})

		It("accelerates at engine force over mass", func() {
			Expect(car.State().LocalAccel.X).To(BeNumerically("~", 4000.0/1200.0, 1e-12))
			Expect(car.State().LocalAccel.Y).To(BeZero())
		})

		It("integrates velocity and then position from the new velocity", func() {
			vx := car.State().Velocity.X
			Expect(vx).To(BeNumerically("~", 0.1111, 1e-4))
			Expect(car.Position().X).To(BeNumerically("~", vx*dt, 1e-15))
			Expect(car.Position().Y).To(BeZero())
		})

		It("is not caught by the rest clamp while throttle is applied", func() {
			Expect(car.Speed()).To(BeNumerically(">", 0))
			Expect(car.Speed()).To(BeNumerically("<", 0.5))
		})

		It("uses the previous tick's acceleration for weight transfer", func() {
			static := 1200 * 0.5 * physics.Gravity
			Expect(car.State().Tires.AxleWeightFront).To(BeNumerically("~", static, 1e-9))

			car.Tick(dt)
			shift := 1200 * 0.2 * (4000.0 / 1200.0) * 0.55 / 2.5
			Expect(car.State().Tires.AxleWeightFront).To(BeNumerically("~", static-shift, 1e-6))
			Expect(car.State().Tires.AxleWeightRear).To(BeNumerically("~", static+shift, 1e-6))
		})

		It("spins the wheels backwards in the visual convention", func() {
			// LocalVelocity is sampled before the velocity update, so the
			// first tick from rest still reports zero.
			Expect(car.WheelRotationDelta()).To(BeZero())
			car.Tick(dt)
			Expect(car.WheelRotationDelta()).To(BeNumerically("<", 0))
			Expect(car.WheelRotationDelta()).To(BeNumerically("~", -car.LocalVelocity().X/0.55, 1e-15))
		})
	})

	It("approaches terminal speed monotonically without overshooting", func() {
		car := newSedan()
		terminal := car.Config().TerminalSpeed()
		car.SetInput(physics.Input{Throttle: 1})

		prev := 0.0
		for i := 0; i < 3000; i++ {
			car.Tick(dt)
			Expect(car.Speed()).To(BeNumerically(">=", prev))
			Expect(car.Speed()).To(BeNumerically("<=", terminal+1e-9))
			prev = car.Speed()
		}
		Expect(car.Speed()).To(BeNumerically("~", terminal, 1e-3))
		Expect(car.Heading()).To(BeZero())
	})

	It("stops dead below the rest threshold without throttle", func() {
		car := newSedan()
		car.SetState(physics.State{
			Velocity: dynamo.Vec2{X: 0.3, Y: 0.1},
			YawRate:  0.4,
		})
		car.Tick(dt)

		Expect(car.State().Velocity).To(Equal(dynamo.Vec2{}))
		Expect(car.State().YawRate).To(Equal(0.0))
		Expect(car.Speed()).To(Equal(0.0))
		Expect(car.Heading()).To(Equal(0.0))
	})

	It("reduces rear grip under handbrake while moving", func() {
		car := newSedan()
		car.SetState(physics.State{Velocity: dynamo.Vec2{X: 20}})
		car.SetInput(physics.Input{Handbrake: 1})
		car.Tick(dt)

		Expect(car.State().Tires.GripRear).To(BeNumerically("<", car.Config().TireGrip))
		Expect(car.Speed()).To(BeNumerically("<", 20))
	})

	It("turns left for a positive steer command", func() {
		car := newSedan()
		car.SetState(physics.State{Velocity: dynamo.Vec2{X: 15}})
		car.SetInput(physics.Input{Throttle: 0.3, Steer: 1})
		for i := 0; i < 60; i++ {
			car.Tick(dt)
		}
		Expect(car.Heading()).To(BeNumerically(">", 0))
		Expect(car.Position().Y).To(BeNumerically(">", 0))
		Expect(car.SteerAngle()).To(BeNumerically(">", 0))
	})

	It("never wraps the heading", func() {
		car := newSedan()
		car.SetState(physics.State{Heading: 7.5})
		car.Tick(dt)
		Expect(car.Heading()).To(Equal(7.5))
	})

	It("resets to rest", func() {
		car := newSedan()
		car.SetInput(physics.Input{Throttle: 1})
		car.Tick(dt)
		car.Reset()
		Expect(car.State()).To(Equal(physics.State{}))
		Expect(car.Input()).To(Equal(physics.Input{}))
	})
})

var _ = Describe("Steer", func() {
	cfg := physics.DefaultConfig()

	It("converges a held command to full lock at standstill", func() {
		s := physics.State{}
		for i := 0; i < 100; i++ {
			s = physics.Steer(cfg, s, 1, dt)
		}
		Expect(s.Steer).To(Equal(1.0))
		Expect(s.SteerAngle).To(Equal(cfg.MaxSteer))
	})

	DescribeTable("limits authority with speed",
		func(speed, cmd float64) {
			s := physics.State{Speed: speed}
			for i := 0; i < 100; i++ {
				s = physics.Steer(cfg, s, cmd, dt)
			}
			Expect(s.Steer).To(Equal(cmd))
			want := cmd * cfg.MaxSteer * (1 - math.Min(speed, 250)/280)
			Expect(s.SteerAngle).To(BeNumerically("~", want, 1e-12))
		},
		Entry("slow left", 10.0, 1.0),
		Entry("fast right", 100.0, -1.0),
		Entry("capped", 400.0, 1.0),
	)

	It("keeps a tenth of authority above the cap", func() {
		Expect(physics.SteerAuthority(1000)).To(BeNumerically("~", 1-250.0/280, 1e-12))
		Expect(physics.SteerAuthority(0)).To(Equal(1.0))
	})

	It("moves at two units per second towards the command", func() {
		s := physics.Steer(cfg, physics.State{}, 1, 0.1)
		Expect(s.Steer).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("recentres at one unit per second without crossing zero", func() {
		s := physics.State{Steer: 0.5}
		s = physics.Steer(cfg, s, 0, 0.1)
		Expect(s.Steer).To(BeNumerically("~", 0.4, 1e-12))
		for i := 0; i < 20; i++ {
			s = physics.Steer(cfg, s, 0, 0.1)
		}
		Expect(s.Steer).To(Equal(0.0))

		s = physics.State{Steer: -0.05}
		s = physics.Steer(cfg, s, 0, 0.1)
		Expect(s.Steer).To(Equal(0.0))
	})
})
