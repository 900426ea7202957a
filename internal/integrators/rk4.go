package integrators

import (
	"errors"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// RK4 is the classic fourth order Runge-Kutta scheme on the (pos, vel)
// system. It is not symplectic, so long runs slowly lose or gain energy,
// but a single step is far more accurate than Euler. When a stage falls
// inside the capture radius the step falls back to semi-implicit Euler
// from the pre-step state; the capture is picked up on the next frame.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.Field, pos, vel dynamo.Vec, dt float64) (dynamo.Vec, dynamo.Vec, error) {
	h := dt * 0.5

	a1, err := f.Accel(pos)
	if err != nil {
		return pos, vel, err
	}
	fallback := func(err error) (dynamo.Vec, dynamo.Vec, error) {
		if !errors.Is(err, dynamo.ErrDomain) {
			return pos, vel, err
		}
		next := r3.Add(vel, r3.Scale(dt, a1))
		return r3.Add(pos, r3.Scale(dt, next)), next, nil
	}
	p1, v1 := vel, a1

	a2, err := f.Accel(r3.Add(pos, r3.Scale(h, p1)))
	if err != nil {
		return fallback(err)
	}
	p2, v2 := r3.Add(vel, r3.Scale(h, v1)), a2

	a3, err := f.Accel(r3.Add(pos, r3.Scale(h, p2)))
	if err != nil {
		return fallback(err)
	}
	p3, v3 := r3.Add(vel, r3.Scale(h, v2)), a3

	a4, err := f.Accel(r3.Add(pos, r3.Scale(dt, p3)))
	if err != nil {
		return fallback(err)
	}
	p4, v4 := r3.Add(vel, r3.Scale(dt, v3)), a4

	dt6 := dt / 6.0
	pos = r3.Add(pos, r3.Scale(dt6, weighted(p1, p2, p3, p4)))
	vel = r3.Add(vel, r3.Scale(dt6, weighted(v1, v2, v3, v4)))
	return pos, vel, nil
}

func weighted(k1, k2, k3, k4 dynamo.Vec) dynamo.Vec {
	return r3.Add(r3.Add(k1, k4), r3.Scale(2, r3.Add(k2, k3)))
}
