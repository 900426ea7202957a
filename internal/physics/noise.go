package physics

import (
	"math/rand/v2"

	"github.com/san-kum/accretion/internal/dynamo"
)

// Noise adds an occasional uniform kick to particle velocities. On frames
// that are a multiple of Every, each particle is kicked with probability
// Chance by up to Amplitude per component.
type Noise struct {
	Every     int     `yaml:"every"`
	Chance    float64 `yaml:"chance"`
	Amplitude float64 `yaml:"amplitude"`
}

func (n Noise) Enabled() bool {
	return n.Every > 0 && n.Chance > 0 && n.Amplitude > 0
}

// Active reports whether frame is a noise frame.
func (n Noise) Active(frame int) bool {
	return n.Enabled() && frame%n.Every == 0
}

// Kick returns vel, possibly perturbed. Callers only invoke it on active
// frames so that disabled noise draws nothing from rng.
func (n Noise) Kick(vel dynamo.Vec, dim int, rng *rand.Rand) dynamo.Vec {
	if rng.Float64() >= n.Chance {
		return vel
	}
	vel.X += symmetric(rng, n.Amplitude)
	vel.Y += symmetric(rng, n.Amplitude)
	if dim >= 3 {
		vel.Z += symmetric(rng, n.Amplitude)
	}
	return vel
}
