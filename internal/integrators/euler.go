package integrators

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// SymplecticEuler is the semi-implicit Euler scheme. Velocity is kicked
// with the acceleration at the pre-step position, then position drifts
// with the new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic" }

func (e *SymplecticEuler) Step(f dynamo.Field, pos, vel dynamo.Vec, dt float64) (dynamo.Vec, dynamo.Vec, error) {
	a, err := f.Accel(pos)
	if err != nil {
		return pos, vel, err
	}
	vel = r3.Add(vel, r3.Scale(dt, a))
	pos = r3.Add(pos, r3.Scale(dt, vel))
	return pos, vel, nil
}
