package physics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/accretion/internal/dynamo"
)

// DiskPolicy places accretion disk particles. Captured disk particles are
// put back on the disk immediately.
type DiskPolicy struct {
	InitialBand   Band         `yaml:"initial_band"`
	RespawnBand   Band         `yaml:"respawn_band"`
	Jitter        float64      `yaml:"jitter"`
	OrbitConstant float64      `yaml:"orbit_constant"`
	Velocity      VelocityMode `yaml:"velocity"`
	RandomSpeed   float64      `yaml:"random_speed"`
	// OutwardBias draws initial radii with SampleOutward.
	OutwardBias   bool         `yaml:"outward_bias"`
}

// OrbitalPolicy places free orbiting particles. Captured orbital particles
// stay inactive until a per-step draw falls below RespawnProbability.
type OrbitalPolicy struct {
	InitialBand        Band    `yaml:"initial_band"`
	SpawnBand          Band    `yaml:"spawn_band"`
	OrbitConstant      float64 `yaml:"orbit_constant"`
	SpeedJitter        Band    `yaml:"speed_jitter"`
	InitialSpeedJitter Band    `yaml:"initial_speed_jitter"`
	OutOfPlane         float64 `yaml:"out_of_plane"`
	RespawnProbability float64 `yaml:"respawn_probability"`
}

// Respawner applies the capture test and the role's respawn policy.
type Respawner struct {
	Law     ForceLaw
	Dim     int
	Disk    DiskPolicy
	Orbital OrbitalPolicy
}

// MaybeRespawn tests p against the capture radius using its current
// position. It returns true when p must skip integration this step: it was
// captured now, or it is an orbital particle that is still inactive or has
// just been reactivated. Respawning always clears the trail.
func (r *Respawner) MaybeRespawn(p *Particle, rng *rand.Rand) bool {
	switch p.Role {
	case RoleDisk:
		if !r.Law.Captured(p.Pos) {
			return false
		}
		r.placeDisk(p, r.Disk.RespawnBand.Sample(rng), rng)
		p.Trail.Clear()
		return true

	case RoleOrbital:
		if p.Alive {
			if !r.Law.Captured(p.Pos) {
				return false
			}
			p.Alive = false
		}
		if rng.Float64() < r.Orbital.RespawnProbability {
			r.placeOrbital(p, r.Orbital.SpawnBand, r.Orbital.SpeedJitter, rng)
			p.Alive = true
			p.Trail.Clear()
		}
		return true
	}
	return false
}

// Spawn initializes a fresh particle of the given role from its policy's
// initial band.
func (r *Respawner) Spawn(p *Particle, rng *rand.Rand) {
	p.Alive = true
	p.Trail.Clear()
	switch p.Role {
	case RoleDisk:
		radius := r.Disk.InitialBand.Sample(rng)
		if r.Disk.OutwardBias {
			radius = r.Disk.InitialBand.SampleOutward(rng)
		}
		r.placeDisk(p, radius, rng)
	case RoleOrbital:
		r.placeOrbital(p, r.Orbital.InitialBand, r.Orbital.initialJitter(), rng)
	}
}

// Reset moves p straight to the respawn state of its role without waiting
// for a capture. It is used to recover particles whose step produced a
// non-finite state.
func (r *Respawner) Reset(p *Particle, rng *rand.Rand) {
	p.Trail.Clear()
	switch p.Role {
	case RoleDisk:
		r.placeDisk(p, r.Disk.RespawnBand.Sample(rng), rng)
	case RoleOrbital:
		p.Alive = false
		p.Pos = dynamo.Vec{}
		p.Vel = dynamo.Vec{}
	}
}

func (r *Respawner) placeDisk(p *Particle, radius float64, rng *rand.Rand) {
	theta := rng.Float64() * 2 * math.Pi
	z := 0.0
	if r.Dim >= 3 {
		z = symmetric(rng, r.Disk.Jitter)
	}
	p.Pos = ringPoint(radius, theta, z)

	switch r.Disk.Velocity {
	case VelocityRandom:
		p.Vel = dynamo.Vec{X: symmetric(rng, r.Disk.RandomSpeed), Y: symmetric(rng, r.Disk.RandomSpeed)}
		if r.Dim >= 3 {
			p.Vel.Z = symmetric(rng, r.Disk.RandomSpeed)
		}
	default:
		p.Vel = tangent(CircularSpeed(r.Disk.OrbitConstant, radius), theta)
	}
	p.Temperature = r.temperature(radius)
}

func (r *Respawner) placeOrbital(p *Particle, band, jitter Band, rng *rand.Rand) {
	radius := band.Sample(rng)
	p.Pos = shellPoint(rng, radius, r.Dim)

	v := CircularSpeed(r.Orbital.OrbitConstant, radius) * jitter.Sample(rng)
	phi := rng.Float64() * 2 * math.Pi
	p.Vel = dynamo.Vec{X: v * math.Sin(phi), Y: v * math.Cos(phi)}
	if r.Dim >= 3 {
		p.Vel.Z = symmetric(rng, r.Orbital.OutOfPlane) * v
	}
}

// initialJitter falls back to SpeedJitter when no initial jitter is set.
func (o OrbitalPolicy) initialJitter() Band {
	if o.InitialSpeedJitter == (Band{}) {
		return o.SpeedJitter
	}
	return o.InitialSpeedJitter
}

// temperature maps a disk radius to [0, 1], hottest at the inner edge.
func (r *Respawner) temperature(radius float64) float64 {
	lo := math.Min(r.Disk.InitialBand.Min, r.Disk.RespawnBand.Min)
	hi := math.Max(r.Disk.InitialBand.Max, r.Disk.RespawnBand.Max)
	if hi <= lo {
		return 1
	}
	return math.Max(0, math.Min(1, 1-(radius-lo)/(hi-lo)))
}

// Validate checks that every band is well formed and lies outside the
// capture radius, so that spawning never lands a particle already captured.
func (r *Respawner) Validate(diskCount, orbitalCount int) error {
	if err := r.Law.Validate(); err != nil {
		return err
	}
	if r.Dim != 2 && r.Dim != 3 {
		return fmt.Errorf("%w: dimensions must be 2 or 3, got %d", dynamo.ErrParameterBounds, r.Dim)
	}

	outside := func(name string, b Band) error {
		if err := b.validate(name); err != nil {
			return err
		}
		if b.Min <= r.Law.CaptureRadius {
			return fmt.Errorf("%w: %s band starts at %g, inside capture radius %g",
				dynamo.ErrParameterBounds, name, b.Min, r.Law.CaptureRadius)
		}
		return nil
	}

	if diskCount > 0 {
		if err := outside("disk initial", r.Disk.InitialBand); err != nil {
			return err
		}
		if err := outside("disk respawn", r.Disk.RespawnBand); err != nil {
			return err
		}
		switch r.Disk.Velocity {
		case VelocityCircular, "":
			if r.Disk.OrbitConstant <= 0 {
				return fmt.Errorf("%w: disk orbit constant must be positive", dynamo.ErrParameterBounds)
			}
		case VelocityRandom:
			if r.Disk.RandomSpeed < 0 {
				return fmt.Errorf("%w: disk random speed must be non-negative", dynamo.ErrParameterBounds)
			}
		default:
			return fmt.Errorf("%w: unknown disk velocity mode %q", dynamo.ErrParameterBounds, r.Disk.Velocity)
		}
		if r.Disk.Jitter < 0 {
			return fmt.Errorf("%w: disk jitter must be non-negative", dynamo.ErrParameterBounds)
		}
	}

	if orbitalCount > 0 {
		if err := outside("orbital initial", r.Orbital.InitialBand); err != nil {
			return err
		}
		if err := outside("orbital spawn", r.Orbital.SpawnBand); err != nil {
			return err
		}
		if err := r.Orbital.SpeedJitter.validate("orbital speed jitter"); err != nil {
			return err
		}
		if r.Orbital.SpeedJitter.Min < 0 {
			return fmt.Errorf("%w: orbital speed jitter must be non-negative", dynamo.ErrParameterBounds)
		}
		initial := r.Orbital.initialJitter()
		if err := initial.validate("orbital initial speed jitter"); err != nil {
			return err
		}
		if initial.Min < 0 {
			return fmt.Errorf("%w: orbital initial speed jitter must be non-negative", dynamo.ErrParameterBounds)
		}
		if r.Orbital.OrbitConstant <= 0 {
			return fmt.Errorf("%w: orbital orbit constant must be positive", dynamo.ErrParameterBounds)
		}
		if err := ValidateProbability(r.Orbital.RespawnProbability); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProbability rejects values outside [0, 1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: probability must be in [0, 1], got %g", dynamo.ErrParameterBounds, p)
	}
	return nil
}
