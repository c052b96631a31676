package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

var _ = Describe("Config", func() {
	DescribeTable("axle weight ratios sum to one",
		func(front, rear float64) {
			cfg := physics.DefaultConfig()
			cfg.CGToFrontAxle = front
			cfg.CGToRearAxle = rear
			Expect(cfg.Validate()).To(Succeed())

			d := physics.Recalculate(cfg)
			Expect(d.AxleRatioFront + d.AxleRatioRear).To(BeNumerically("~", 1.0, 1e-12))
			Expect(d.WheelBase).To(Equal(front + rear))
		},
		Entry("balanced", 1.25, 1.25),
		Entry("nose heavy", 0.9, 1.6),
		Entry("tail heavy", 1.7, 0.8),
		Entry("tiny", 1e-3, 2e-3),
	)

	It("derives inertia from mass and scale", func() {
		d := physics.Recalculate(physics.DefaultConfig())
		Expect(d.Inertia).To(Equal(2400.0))
		Expect(d.AxleRatioFront).To(Equal(0.5))
	})

	DescribeTable("rejects non-positive parameters",
		func(name string, value float64) {
			cfg, err := physics.DefaultConfig().WithParam(name, value)
			Expect(err).NotTo(HaveOccurred())

			err = cfg.Validate()
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(err.Error()).To(ContainSubstring(name))
		},
		Entry("zero mass", "mass", 0.0),
		Entry("negative mass", "mass", -1200.0),
		Entry("zero inertia scale", "inertia_scale", 0.0),
		Entry("negative front axle", "cg_to_front_axle", -1.25),
		Entry("zero rear axle", "cg_to_rear_axle", 0.0),
		Entry("NaN grip", "tire_grip", math.NaN()),
		Entry("infinite engine", "engine_force", math.Inf(1)),
	)

	It("rejects unknown parameter names", func() {
		_, err := physics.DefaultConfig().WithParam("turbo", 1)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips every parameter through GetParams and WithParam", func() {
		cfg := physics.DefaultConfig()
		for name, v := range cfg.GetParams() {
			next, err := cfg.WithParam(name, v*2)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.GetParams()[name]).To(Equal(v * 2))
		}
	})

	Describe("RearGrip", func() {
		It("is nominal without handbrake", func() {
			cfg := physics.DefaultConfig()
			Expect(cfg.RearGrip(0)).To(Equal(cfg.TireGrip))
		})

		It("drops below nominal under handbrake when lock grip is below one", func() {
			cfg := physics.DefaultConfig()
			Expect(cfg.LockGrip).To(BeNumerically("<", 1))
			Expect(cfg.RearGrip(1)).To(BeNumerically("<", cfg.TireGrip))
			Expect(cfg.RearGrip(1)).To(BeNumerically("~", cfg.TireGrip*cfg.LockGrip, 1e-12))
		})

		It("scales with partial handbrake", func() {
			cfg := physics.DefaultConfig()
			Expect(cfg.RearGrip(0.5)).To(BeNumerically("~", 2.0*(1-0.5*0.3), 1e-12))
		})
	})

	It("computes the terminal speed from the drag polynomial", func() {
		cfg := physics.DefaultConfig()
		v := cfg.TerminalSpeed()
		residual := cfg.EngineForce - cfg.RollResist*v - cfg.AirResist*v*v
		Expect(residual).To(BeNumerically("~", 0, 1e-9))
	})
})
