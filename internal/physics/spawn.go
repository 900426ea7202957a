package physics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/accretion/internal/dynamo"
)

// Band is a closed interval [Min, Max].
type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws uniformly from the band. A degenerate band always yields Min.
func (b Band) Sample(rng *rand.Rand) float64 {
	return b.Min + rng.Float64()*(b.Max-b.Min)
}

// SampleOutward draws with density growing linearly in the radius, as a
// uniform draw over the area of an annulus would.
func (b Band) SampleOutward(rng *rand.Rand) float64 {
	return b.Min + math.Sqrt(rng.Float64())*(b.Max-b.Min)
}

func (b Band) validate(name string) error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min > b.Max {
		return fmt.Errorf("%w: %s band [%g, %g] is empty", dynamo.ErrParameterBounds, name, b.Min, b.Max)
	}
	return nil
}

// VelocityMode selects how disk particles are launched.
type VelocityMode string

const (
	// VelocityCircular launches tangentially at the circular-orbit speed.
	VelocityCircular VelocityMode = "circular"
	// VelocityRandom draws each component uniformly from
	// [-RandomSpeed, RandomSpeed].
	VelocityRandom VelocityMode = "random"
)

// ringPoint places a point at radius r and angle theta in the disk plane,
// lifted by z out of it.
func ringPoint(r, theta, z float64) dynamo.Vec {
	return dynamo.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}

// tangent returns the counter-clockwise tangential velocity of magnitude v
// at angle theta.
func tangent(v, theta float64) dynamo.Vec {
	return dynamo.Vec{X: -v * math.Sin(theta), Y: v * math.Cos(theta)}
}

// shellPoint places a point at radius r in a random direction. In 2D the
// direction is restricted to the plane.
func shellPoint(rng *rand.Rand, r float64, dim int) dynamo.Vec {
	phi := rng.Float64() * 2 * math.Pi
	if dim < 3 {
		return ringPoint(r, phi, 0)
	}
	theta := rng.Float64() * math.Pi
	return dynamo.Vec{
		X: r * math.Sin(theta) * math.Cos(phi),
		Y: r * math.Sin(theta) * math.Sin(phi),
		Z: r * math.Cos(theta),
	}
}

func symmetric(rng *rand.Rand, half float64) float64 {
	return (2*rng.Float64() - 1) * half
}
