package dynamo

import "math"

// Vec2 is a planar vector. X is forward and Y is left in the vehicle frame.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// ToLocal rotates a world-frame vector into a frame rotated by heading
// (rotation by -heading).
func (v Vec2) ToLocal(sn, cs float64) Vec2 {
	return Vec2{
		X: cs*v.X + sn*v.Y,
		Y: cs*v.Y - sn*v.X,
	}
}

// ToWorld is the inverse of ToLocal (rotation by +heading).
func (v Vec2) ToWorld(sn, cs float64) Vec2 {
	return Vec2{
		X: cs*v.X - sn*v.Y,
		Y: sn*v.X + cs*v.Y,
	}
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1. Zero (of either sign) maps to 0.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// IsFinite reports whether every value is neither NaN nor Inf.
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
