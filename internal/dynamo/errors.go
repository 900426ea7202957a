package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration that cannot produce a valid simulation.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDomain indicates a force was evaluated inside the capture radius.
	ErrDomain = errors.New("dynamo: position inside capture radius")

	// ErrInvalidState indicates a NaN or Inf component in a position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ParticleError wraps an error with the particle and frame it occurred on.
type ParticleError struct {
	Index   int
	Frame   int
	Wrapped error
}

func (e *ParticleError) Error() string {
	return fmt.Sprintf("particle %d (frame %d): %v", e.Index, e.Frame, e.Wrapped)
}

func (e *ParticleError) Unwrap() error {
	return e.Wrapped
}
