package integrators

import (
	"errors"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Leapfrog is the kick-drift-kick scheme. When the drift lands inside the
// capture radius the closing kick is skipped; the capture is picked up on
// the next frame.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(f dynamo.Field, pos, vel dynamo.Vec, dt float64) (dynamo.Vec, dynamo.Vec, error) {
	halfDt := 0.5 * dt

	a, err := f.Accel(pos)
	if err != nil {
		return pos, vel, err
	}
	half := r3.Add(vel, r3.Scale(halfDt, a))
	next := r3.Add(pos, r3.Scale(dt, half))

	aNew, err := f.Accel(next)
	if errors.Is(err, dynamo.ErrDomain) {
		return next, half, nil
	}
	if err != nil {
		return pos, vel, err
	}

	return next, r3.Add(half, r3.Scale(halfDt, aNew)), nil
}
