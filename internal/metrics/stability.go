package metrics

import (
	"math"

	"github.com/san-kum/carsim/internal/physics"
)

// Stability is the fraction of ticks whose yaw rate stayed under threshold
// (rad/s). A spinning car scores low.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st physics.State, in physics.Input, t float64) {
	s.samples++
	if math.Abs(st.YawRate) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
