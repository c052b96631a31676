package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownPreset indicates a scenario or vehicle preset that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownDriver indicates a driver name the registry cannot build.
	ErrUnknownDriver = errors.New("dynamo: unknown driver")

	// ErrNotConnected indicates a transport used before connecting or after teardown.
	ErrNotConnected = errors.New("dynamo: transport not connected")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
