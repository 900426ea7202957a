package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or direction in simulation space. The central mass sits at
// the origin.
type Vec = r3.Vec

// Planar builds a vector in the z = 0 plane.
func Planar(x, y float64) Vec { return Vec{X: x, Y: y} }

// Norm returns the distance of v from the origin.
func Norm(v Vec) float64 { return r3.Norm(v) }

// IsFinite reports whether every component of v is neither NaN nor Inf.
func IsFinite(v Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ClampNorm rescales v so its length does not exceed limit. It reports
// whether v was modified.
func ClampNorm(v Vec, limit float64) (Vec, bool) {
	n := r3.Norm(v)
	if n <= limit || n == 0 {
		return v, false
	}
	return r3.Scale(limit/n, v), true
}

// Field is an acceleration field.
type Field interface {
	Accel(pos Vec) (Vec, error)
}

// Integrator advances a single body by dt under field f and returns the new
// position and velocity. Implementations must not retain pos or vel.
type Integrator interface {
	Step(f Field, pos, vel Vec, dt float64) (Vec, Vec, error)
}
