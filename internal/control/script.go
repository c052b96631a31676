package control

import (
	"fmt"

	"github.com/san-kum/carsim/internal/physics"
)

// Segment applies Input until simulation time Until (seconds).
type Segment struct {
	Until float64
	Input physics.Input
}

// Script replays timed segments. After the last segment it coasts.
type Script struct {
	segments []Segment
}

// NewScript checks that segment end times are positive and increasing.
func NewScript(segments []Segment) (*Script, error) {
	prev := 0.0
	for i, seg := range segments {
		if seg.Until <= prev {
			return nil, fmt.Errorf("segment %d: until %.3f must be after %.3f", i, seg.Until, prev)
		}
		prev = seg.Until
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	return &Script{segments: segs}, nil
}

func (s *Script) Compute(st physics.State, t float64) physics.Input {
	for _, seg := range s.segments {
		if t < seg.Until {
			return Clamp(seg.Input)
		}
	}
	return physics.Input{}
}

// Duration is the end time of the last segment.
func (s *Script) Duration() float64 {
	if len(s.segments) == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].Until
}
