package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ForceLaw is the acceleration field of the central mass:
//
//	a = -K * unit(pos) / |pos|^Exponent
type ForceLaw struct {
	K             float64 `yaml:"k"`
	Exponent      float64 `yaml:"exponent"`
	CaptureRadius float64 `yaml:"capture_radius"`
}

// Captured reports whether pos lies strictly inside the capture radius.
func (f ForceLaw) Captured(pos dynamo.Vec) bool {
	return dynamo.Norm(pos) < f.CaptureRadius
}

// Accel returns the acceleration at pos. Inside the capture radius (or at
// the origin) it returns the zero vector and an error wrapping
// dynamo.ErrDomain.
func (f ForceLaw) Accel(pos dynamo.Vec) (dynamo.Vec, error) {
	r := dynamo.Norm(pos)
	if r < f.CaptureRadius || r == 0 {
		return dynamo.Vec{}, fmt.Errorf("%w: r=%g, capture radius %g", dynamo.ErrDomain, r, f.CaptureRadius)
	}
	mag := f.K / math.Pow(r, f.Exponent)
	return r3.Scale(-mag/r, pos), nil
}

// Validate checks the law's constants.
func (f ForceLaw) Validate() error {
	if f.CaptureRadius <= 0 {
		return fmt.Errorf("%w: capture radius must be positive, got %g", dynamo.ErrParameterBounds, f.CaptureRadius)
	}
	if f.K < 0 || math.IsNaN(f.K) || math.IsInf(f.K, 0) {
		return fmt.Errorf("%w: force constant must be finite and non-negative, got %g", dynamo.ErrParameterBounds, f.K)
	}
	if f.Exponent <= 0 || math.IsNaN(f.Exponent) || math.IsInf(f.Exponent, 0) {
		return fmt.Errorf("%w: force exponent must be positive, got %g", dynamo.ErrParameterBounds, f.Exponent)
	}
	return nil
}

// CircularSpeed is the speed of a circular orbit of radius r for orbit
// constant c.
func CircularSpeed(c, r float64) float64 {
	return math.Sqrt(c / r)
}

// Potential is the specific potential energy at distance r. For exponents
// above 1 it is zero at infinity.
func (f ForceLaw) Potential(r float64) float64 {
	if f.Exponent == 1 {
		return f.K * math.Log(r)
	}
	return -f.K / ((f.Exponent - 1) * math.Pow(r, f.Exponent-1))
}
