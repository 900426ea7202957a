package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/integrators"
	"github.com/san-kum/accretion/internal/physics"
)

// Simulation owns the particle population and advances it frame by frame.
// It is not safe for concurrent use.
type Simulation struct {
	cfg       *config.Config
	respawn   *physics.Respawner
	integ     dynamo.Integrator
	particles []physics.Particle
	rng       *rand.Rand
	logger    *slog.Logger

	frame   int
	time    float64
	speed   float64
	lensing bool
	last    FrameStats
}

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithIntegrator overrides the integrator named in the configuration.
func WithIntegrator(i dynamo.Integrator) Option {
	return func(s *Simulation) { s.integ = i }
}

// New validates cfg and creates a simulation with a freshly spawned
// population. cfg is copied; later changes to it have no effect.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:    cfg.Clone(),
		integ:  integ,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.respawn = s.cfg.Respawner()
	s.Reset()
	return s, nil
}

// Reset reseeds the random stream and respawns every particle from the
// initial bands. Speed and lensing return to their configured values;
// other live parameters keep their current settings.
func (s *Simulation) Reset() {
	seed := uint64(s.cfg.Seed)
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s.frame = 0
	s.time = 0
	s.speed = s.cfg.Speed
	s.lensing = s.cfg.Lensing
	s.last = FrameStats{}

	s.particles = make([]physics.Particle, 0, s.cfg.Population())
	for i := 0; i < s.cfg.Disk.Count; i++ {
		s.particles = append(s.particles, physics.NewParticle(physics.RoleDisk, s.cfg.TrailLength))
	}
	for i := 0; i < s.cfg.Orbital.Count; i++ {
		s.particles = append(s.particles, physics.NewParticle(physics.RoleOrbital, s.cfg.TrailLength))
	}
	for i := range s.particles {
		s.respawn.Spawn(&s.particles[i], s.rng)
	}
}

// Advance moves every particle forward by dt scaled by the speed
// multiplier and returns the resulting snapshot.
func (s *Simulation) Advance(dt float64) Snapshot {
	s.step(dt * s.speed)
	return s.Snapshot()
}

// Step advances one frame with the configured dt.
func (s *Simulation) Step() Snapshot {
	return s.Advance(s.cfg.Dt)
}

func (s *Simulation) step(dt float64) {
	stats := FrameStats{Frame: s.frame + 1, Dt: dt}
	noisy := s.cfg.Noise.Active(s.frame)

	for i := range s.particles {
		p := &s.particles[i]
		wasAlive := p.Alive

		if s.respawn.MaybeRespawn(p, s.rng) {
			if wasAlive {
				stats.Captured++
			}
			if p.Alive {
				stats.Respawned++
			}
			continue
		}

		vel := p.Vel
		if noisy {
			vel = s.cfg.Noise.Kick(vel, s.cfg.Dimensions, s.rng)
		}

		pos, vel, err := s.integ.Step(s.respawn.Law, p.Pos, vel, dt)
		if err == nil {
			var clamped bool
			if vel, clamped = dynamo.ClampNorm(vel, s.cfg.MaxSpeed); clamped {
				stats.Clamped++
				s.logger.Debug("velocity clamped", "particle", i, "frame", stats.Frame, "max_speed", s.cfg.MaxSpeed)
			}
			if !dynamo.IsFinite(pos) || !dynamo.IsFinite(vel) {
				err = dynamo.ErrInvalidState
			}
		}
		if err != nil {
			stats.Recovered++
			s.logger.Warn("discarding particle step",
				"error", &dynamo.ParticleError{Index: i, Frame: stats.Frame, Wrapped: err})
			s.respawn.Reset(p, s.rng)
			continue
		}

		p.Pos, p.Vel = pos, vel
		p.Trail.Record(pos)
	}

	for i := range s.particles {
		if s.particles[i].Alive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}

	s.frame++
	s.time += dt
	stats.Time = s.time
	s.last = stats
}

// Snapshot copies the current state without advancing it.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:         s.frame,
		Time:          s.time,
		Dim:           s.cfg.Dimensions,
		CaptureRadius: s.respawn.Law.CaptureRadius,
		Speed:         s.speed,
		Lensing:       s.lensing,
		Particles:     make([]ParticleView, len(s.particles)),
		Stats:         s.last,
	}
	for i := range s.particles {
		snap.Particles[i] = viewOf(i, &s.particles[i])
	}
	return snap
}

// SetBody places particle i at the given state, marks it alive and clears
// its trail.
func (s *Simulation) SetBody(i int, b physics.Body) error {
	if i < 0 || i >= len(s.particles) {
		return fmt.Errorf("%w: particle index %d out of range [0, %d)", dynamo.ErrParameterBounds, i, len(s.particles))
	}
	if !dynamo.IsFinite(b.Pos) || !dynamo.IsFinite(b.Vel) {
		return dynamo.ErrInvalidState
	}
	p := &s.particles[i]
	p.Body = b
	p.Alive = true
	p.Trail.Clear()
	return nil
}

func (s *Simulation) Len() int               { return len(s.particles) }
func (s *Simulation) Frame() int             { return s.frame }
func (s *Simulation) Time() float64          { return s.time }
func (s *Simulation) Config() *config.Config { return s.cfg.Clone() }
func (s *Simulation) LastStats() FrameStats  { return s.last }
