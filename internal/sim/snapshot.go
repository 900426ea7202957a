package sim

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
)

// ParticleView is a read-only copy of one particle's state.
type ParticleView struct {
	Index       int
	Role        physics.Role
	Alive       bool
	Pos         dynamo.Vec
	Vel         dynamo.Vec
	Speed       float64
	Distance    float64
	Temperature float64
	Trail       []dynamo.Vec
}

// Snapshot is everything a renderer needs to draw one frame. It shares no
// memory with the simulation.
type Snapshot struct {
	Frame         int
	Time          float64
	Dim           int
	CaptureRadius float64
	Speed         float64
	Lensing       bool
	Particles     []ParticleView
	Stats         FrameStats
}

// Active returns the views of particles that are alive.
func (s *Snapshot) Active() []ParticleView {
	out := make([]ParticleView, 0, len(s.Particles))
	for _, p := range s.Particles {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// Speeds returns the speed of every alive particle.
func (s *Snapshot) Speeds() []float64 {
	out := make([]float64, 0, len(s.Particles))
	for _, p := range s.Particles {
		if p.Alive {
			out = append(out, p.Speed)
		}
	}
	return out
}

// Valid reports whether every alive particle has a finite state.
func (s *Snapshot) Valid() bool {
	for _, p := range s.Particles {
		if p.Alive && !(dynamo.IsFinite(p.Pos) && dynamo.IsFinite(p.Vel)) {
			return false
		}
	}
	return true
}

func viewOf(i int, p *physics.Particle) ParticleView {
	return ParticleView{
		Index:       i,
		Role:        p.Role,
		Alive:       p.Alive,
		Pos:         p.Pos,
		Vel:         p.Vel,
		Speed:       p.Speed(),
		Distance:    p.Distance(),
		Temperature: p.Temperature,
		Trail:       p.Trail.Points(),
	}
}
