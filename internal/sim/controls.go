package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
)

const (
	MinSpeedMultiplier = 0.01
	MaxSpeedMultiplier = 100.0
)

// Params is the current value of every live control.
type Params struct {
	Speed              float64
	Lensing            bool
	RespawnProbability float64
	TrailLength        int
	CaptureRadius      float64
	ForceConstant      float64
}

func (s *Simulation) Params() Params {
	return Params{
		Speed:              s.speed,
		Lensing:            s.lensing,
		RespawnProbability: s.respawn.Orbital.RespawnProbability,
		TrailLength:        s.cfg.TrailLength,
		CaptureRadius:      s.respawn.Law.CaptureRadius,
		ForceConstant:      s.respawn.Law.K,
	}
}

func (s *Simulation) SpeedMultiplier() float64 { return s.speed }

// SpeedUp multiplies the speed by the configured factor.
func (s *Simulation) SpeedUp() float64 {
	s.speed = math.Min(MaxSpeedMultiplier, s.speed*s.cfg.SpeedFactor)
	return s.speed
}

// SpeedDown divides the speed by the configured factor.
func (s *Simulation) SpeedDown() float64 {
	s.speed = math.Max(MinSpeedMultiplier, s.speed/s.cfg.SpeedFactor)
	return s.speed
}

func (s *Simulation) SetSpeedMultiplier(v float64) error {
	if math.IsNaN(v) || v < MinSpeedMultiplier || v > MaxSpeedMultiplier {
		return fmt.Errorf("%w: speed multiplier %g outside [%g, %g]",
			dynamo.ErrParameterBounds, v, MinSpeedMultiplier, MaxSpeedMultiplier)
	}
	s.speed = v
	return nil
}

// Lensing only affects rendering; physics ignores it.
func (s *Simulation) Lensing() bool { return s.lensing }

func (s *Simulation) ToggleLensing() bool {
	s.lensing = !s.lensing
	return s.lensing
}

func (s *Simulation) SetRespawnProbability(p float64) error {
	if err := physics.ValidateProbability(p); err != nil {
		return err
	}
	s.respawn.Orbital.RespawnProbability = p
	s.cfg.Orbital.RespawnProbability = p
	return nil
}

// SetTrailLength resizes every trail, keeping the newest entries.
func (s *Simulation) SetTrailLength(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: trail length must be at least 1, got %d", dynamo.ErrParameterBounds, n)
	}
	for i := range s.particles {
		s.particles[i].Trail.Resize(n)
	}
	s.cfg.TrailLength = n
	return nil
}

// SetCaptureRadius changes the capture radius. The new radius must stay
// inside every spawn band in use.
func (s *Simulation) SetCaptureRadius(r float64) error {
	next := *s.respawn
	next.Law.CaptureRadius = r
	if err := next.Validate(s.cfg.Disk.Count, s.cfg.Orbital.Count); err != nil {
		return err
	}
	s.respawn.Law.CaptureRadius = r
	s.cfg.Force.CaptureRadius = r
	return nil
}

func (s *Simulation) SetForceConstant(k float64) error {
	next := s.respawn.Law
	next.K = k
	if err := next.Validate(); err != nil {
		return err
	}
	s.respawn.Law.K = k
	s.cfg.Force.K = k
	return nil
}
