// Package physics provides the force law and particle lifecycle rules of
// the simulation.
//
//   - [ForceLaw]: central inverse-power attraction with a capture radius
//   - [Particle]: a [Body] tagged with a [Role] (disk or orbital)
//   - [Respawner]: capture test and role-specific respawn policy
//   - [Noise]: occasional random velocity kicks
//
// All particles are test particles: they feel the central mass and
// nothing else, so they can be updated in any order.
//
// # Capture
//
// Capture is always tested against the pre-step position, before the
// force is evaluated:
//
//	if respawner.MaybeRespawn(&p, rng) {
//	    continue // captured or inactive; no integration this step
//	}
//	pos, vel, err := integ.Step(respawner.Law, p.Pos, p.Vel, dt)
package physics
