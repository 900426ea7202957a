package physics

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/trail"
)

// Role selects a particle's respawn policy.
type Role uint8

const (
	// RoleDisk particles belong to the accretion disk and respawn
	// immediately when captured.
	RoleDisk Role = iota
	// RoleOrbital particles go inactive when captured and come back with a
	// fixed per-step probability.
	RoleOrbital
)

func (r Role) String() string {
	switch r {
	case RoleDisk:
		return "disk"
	case RoleOrbital:
		return "orbital"
	default:
		return "unknown"
	}
}

// Body is the kinematic state shared by every role.
type Body struct {
	Pos dynamo.Vec
	Vel dynamo.Vec
}

func (b Body) Speed() float64    { return dynamo.Norm(b.Vel) }
func (b Body) Distance() float64 { return dynamo.Norm(b.Pos) }

type Particle struct {
	Body
	Role  Role
	Alive bool
	// Temperature is a rendering hint for disk particles, 1 at the inner
	// edge of the disk and 0 at the outer edge.
	Temperature float64
	Trail       *trail.Trail
}

// NewParticle returns an alive particle with an empty trail.
func NewParticle(role Role, trailLength int) Particle {
	return Particle{
		Role:  role,
		Alive: true,
		Trail: trail.New(trailLength),
	}
}
