package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

type constDriver struct{ in physics.Input }

func (d constDriver) Compute(physics.State, float64) physics.Input { return d.in }

type countMetric struct {
	count int
	lastT float64
}

func (m *countMetric) Name() string { return "count" }
func (m *countMetric) Observe(_ physics.State, _ physics.Input, t float64) {
	m.count++
	m.lastT = t
}
func (m *countMetric) Value() float64 { return float64(m.count) }
func (m *countMetric) Reset()         { m.count = 0 }

func newCar() *physics.Car {
	car, err := physics.NewCar(physics.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return car
}

type countingDriver struct {
	resets int
}

func (d *countingDriver) Compute(physics.State, float64) physics.Input { return physics.Input{} }
func (d *countingDriver) Reset()                                       { d.resets++ }

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	It("records the initial state plus one state per tick", func() {
		s := sim.New(newCar(), constDriver{physics.Input{Throttle: 1}})
		result, err := s.Run(ctx, sim.Config{Dt: 0.1, Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.States).To(HaveLen(11))
		Expect(result.Times).To(HaveLen(11))
		Expect(result.Inputs).To(HaveLen(10))
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Times[10]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(result.Final().Speed).To(BeNumerically(">", 0))
	})

	It("resets a stateful driver before every run", func() {
		d := &countingDriver{}
		s := sim.New(newCar(), d)
		cfg := sim.Config{Dt: 0.1, Duration: 0.5}
		_, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.resets).To(Equal(2))
	})

	It("runs a full 30 Hz session to the tick", func() {
		s := sim.New(newCar(), constDriver{})
		result, err := s.Run(ctx, sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(300))
	})

	DescribeTable("rejects invalid configs",
		func(cfg sim.Config) {
			s := sim.New(newCar(), constDriver{})
			_, err := s.Run(ctx, cfg)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero dt", sim.Config{Dt: 0, Duration: 1}),
		Entry("negative dt", sim.Config{Dt: -0.1, Duration: 1}),
		Entry("zero duration", sim.Config{Dt: 0.1, Duration: 0}),
		Entry("negative duration", sim.Config{Dt: 0.1, Duration: -1}),
	)

	It("rejects a missing driver", func() {
		_, err := sim.New(newCar(), nil).Run(ctx, sim.DefaultConfig())
		Expect(err).To(HaveOccurred())
	})

	It("feeds metrics once per tick and reports their values", func() {
		s := sim.New(newCar(), constDriver{})
		m := &countMetric{}
		s.AddMetric(m)

		result, err := s.Run(ctx, sim.Config{Dt: 0.1, Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.count).To(Equal(10))
		Expect(m.lastT).To(BeNumerically("~", 1.0, 1e-12))
		Expect(result.Metrics).To(HaveKeyWithValue("count", 10.0))
	})

	It("stops on a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := sim.New(newCar(), constDriver{}).Run(cctx, sim.DefaultConfig())
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("reports a non-finite state with its step", func() {
		s := sim.New(newCar(), constDriver{physics.Input{Throttle: math.NaN()}})
		_, err := s.Run(ctx, sim.DefaultConfig())

		Expect(err).To(MatchError(dynamo.ErrInvalidState))
		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
	})

	It("lets the callback end the run early", func() {
		car := newCar()
		s := sim.New(car, constDriver{physics.Input{Throttle: 1}})
		ticks := 0
		err := s.RunWithCallback(ctx, sim.DefaultConfig(), func(st physics.State, _ physics.Input, _ float64) bool {
			ticks++
			return st.Speed < 5
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(BeNumerically("<", 300))
		Expect(car.Speed()).To(BeNumerically(">=", 5))
	})
})

var _ = Describe("Fleet", func() {
	It("steps every vehicle exactly like a lone car", func() {
		in := physics.Input{Throttle: 0.8, Steer: 1}
		vehicles := make([]sim.Vehicle, 40)
		for i := range vehicles {
			vehicles[i] = sim.Vehicle{Car: newCar(), Driver: constDriver{in}}
		}
		fleet := sim.NewFleet(vehicles...)

		steps, err := fleet.Run(context.Background(), sim.Config{Dt: 1.0 / 30, Duration: 5, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal(150))
		Expect(fleet.Time()).To(BeNumerically("~", 5, 1e-9))

		lone := newCar()
		lone.SetInput(in)
		for i := 0; i < 150; i++ {
			lone.Tick(1.0 / 30)
		}
		for i := 0; i < fleet.Len(); i++ {
			Expect(fleet.Vehicle(i).Car.State()).To(Equal(lone.State()))
		}
	})

	It("rejects a non-positive timestep", func() {
		_, err := sim.NewFleet().Run(context.Background(), sim.Config{Dt: 0, Duration: 1})
		Expect(err).To(HaveOccurred())
	})
})
