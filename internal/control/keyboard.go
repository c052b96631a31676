package control

import (
	"time"

	"github.com/san-kum/carsim/internal/physics"
)

type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyHandbrake
	numKeys
)

var keyNames = [numKeys]string{"forward", "backward", "left", "right", "handbrake"}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return "unknown"
	}
	return keyNames[k]
}

// DefaultHoldWindow covers the initial auto-repeat delay of most terminals.
const DefaultHoldWindow = 500 * time.Millisecond

// Keyboard turns key state into input. Sources with key-up events use Set;
// terminals only report presses, so Press marks a key held for HoldWindow
// and auto-repeat keeps refreshing it.
type Keyboard struct {
	HoldWindow time.Duration
	// AutoBrake applies full brake whenever forward is not held.
	AutoBrake bool

	down    [numKeys]bool
	pressed [numKeys]time.Time
	now     func() time.Time
}

func NewKeyboard(holdWindow time.Duration, autoBrake bool) *Keyboard {
	if holdWindow <= 0 {
		holdWindow = DefaultHoldWindow
	}
	return &Keyboard{
		HoldWindow: holdWindow,
		AutoBrake:  autoBrake,
		now:        time.Now,
	}
}

// Press records a key press from a source without release events.
func (k *Keyboard) Press(key Key) {
	if key < 0 || key >= numKeys {
		return
	}
	k.pressed[key] = k.now()
}

// Set records an explicit key down or up.
func (k *Keyboard) Set(key Key, down bool) {
	if key < 0 || key >= numKeys {
		return
	}
	k.down[key] = down
	if !down {
		k.pressed[key] = time.Time{}
	}
}

// ReleaseAll drops every key, e.g. when the window loses focus.
func (k *Keyboard) ReleaseAll() {
	k.down = [numKeys]bool{}
	k.pressed = [numKeys]time.Time{}
}

func (k *Keyboard) Held(key Key) bool {
	if key < 0 || key >= numKeys {
		return false
	}
	if k.down[key] {
		return true
	}
	p := k.pressed[key]
	return !p.IsZero() && k.now().Sub(p) < k.HoldWindow
}

func (k *Keyboard) Compute(s physics.State, t float64) physics.Input {
	var in physics.Input

	if k.Held(KeyHandbrake) {
		in.Handbrake = 1
	}

	forward := k.Held(KeyForward)
	if forward {
		in.Throttle = 1
	}
	if k.Held(KeyBackward) || (k.AutoBrake && !forward) {
		in.Brake = 1
	}

	switch {
	case k.Held(KeyLeft):
		in.Steer = 1
	case k.Held(KeyRight):
		in.Steer = -1
	}
	return in
}
