// Package dynamo provides core primitives shared by the particle engine.
//
// The package defines the small vocabulary the other packages speak:
//
//   - [Vec]: position/velocity vector (2D simulations keep Z at zero)
//   - [Field]: acceleration field evaluated at a position
//   - [Integrator]: advances one body's kinematic state by dt
//   - domain errors such as [ErrDomain] and [ErrParameterBounds]
//
// # Example
//
//	law := physics.ForceLaw{K: 0.2, Exponent: 1.5, CaptureRadius: 0.5}
//	integ := integrators.NewSymplecticEuler()
//	pos, vel, err := integ.Step(law, pos, vel, dt)
//
// # Thread Safety
//
// Values in this package are plain data. Integrators are stateless and may
// be shared between goroutines; simulations built on top of them are not.
package dynamo
