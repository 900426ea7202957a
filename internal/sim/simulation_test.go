package sim_test

import (
	"context"
	"io"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
)

var quiet = sim.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// singleDisk is a flat one-particle configuration with noise disabled.
func singleDisk() *config.Config {
	cfg := config.GetPreset("classic")
	cfg.Disk.Count = 1
	cfg.Noise = physics.Noise{}
	return cfg
}

func singleOrbital(prob float64) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Disk.Count = 0
	cfg.Orbital.Count = 1
	cfg.Orbital.RespawnProbability = prob
	cfg.Noise = physics.Noise{}
	return cfg
}

func mustNew(cfg *config.Config) *sim.Simulation {
	s, err := sim.New(cfg, quiet)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Simulation", func() {
	Describe("a single integration step", func() {
		It("kicks velocity from the pre-step position before drifting", func() {
			s := mustNew(singleDisk())
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Planar(5, 0), Vel: dynamo.Planar(0, 0.3)})).To(Succeed())

			snap := s.Advance(1)
			p := snap.Particles[0]

			ax := -0.2 / math.Pow(5, 1.5)
			Expect(p.Vel.X).To(BeNumerically("~", ax, 1e-12))
			Expect(p.Vel.X).To(BeNumerically("~", -0.01789, 1e-5))
			Expect(p.Vel.Y).To(BeNumerically("~", 0.3, 1e-12))
			Expect(p.Pos.X).To(BeNumerically("~", 4.982, 1e-3))
			Expect(p.Pos.Y).To(BeNumerically("~", 0.3, 1e-12))
			Expect(p.Trail).To(HaveLen(1))
			Expect(snap.Stats.Captured).To(Equal(0))
		})

		It("scales dt by the speed multiplier", func() {
			s := mustNew(singleDisk())
			Expect(s.SetSpeedMultiplier(2)).To(Succeed())
			snap := s.Advance(0.5)
			Expect(snap.Stats.Dt).To(Equal(1.0))
			Expect(snap.Time).To(Equal(1.0))
		})
	})

	Describe("capture", func() {
		It("respawns a captured disk particle on the spawn ring before any force is applied", func() {
			s := mustNew(singleDisk())
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Planar(0.3, 0), Vel: dynamo.Planar(0.1, 0)})).To(Succeed())

			snap := s.Advance(1)
			p := snap.Particles[0]

			Expect(p.Distance).To(BeNumerically("~", 8, 1e-9))
			Expect(math.Abs(p.Vel.X)).To(BeNumerically("<=", 0.5))
			Expect(math.Abs(p.Vel.Y)).To(BeNumerically("<=", 0.5))
			Expect(p.Trail).To(BeEmpty())
			Expect(p.Alive).To(BeTrue())
			Expect(snap.Stats.Captured).To(Equal(1))
			Expect(snap.Stats.Respawned).To(Equal(1))
		})

		It("does not capture a particle exactly on the capture radius", func() {
			s := mustNew(singleDisk())
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Planar(0.5, 0)})).To(Succeed())

			snap := s.Advance(1e-3)
			Expect(snap.Stats.Captured).To(Equal(0))
			Expect(snap.Particles[0].Trail).To(HaveLen(1))
			Expect(snap.Particles[0].Distance).To(BeNumerically("<", 0.5))
		})

		It("always routes particles that start a frame inside the horizon through respawn", func() {
			cfg := config.GetPreset("classic")
			s := mustNew(cfg)

			prev := s.Snapshot()
			captures := 0
			for frame := 0; frame < cfg.Steps; frame++ {
				next := s.Advance(cfg.Dt)
				for i, before := range prev.Particles {
					after := next.Particles[i]
					Expect(len(after.Trail)).To(BeNumerically("<=", cfg.TrailLength))
					if before.Distance < cfg.Force.CaptureRadius {
						captures++
						Expect(after.Trail).To(BeEmpty())
						Expect(after.Distance).To(BeNumerically("~", 8, 1e-9))
					}
				}
				prev = next
			}
			Expect(captures).To(BeNumerically(">", 0))
		})
	})

	Describe("integrators near the horizon", func() {
		DescribeTable("leave capture to the next frame's pre-step test",
			func(integrator string, x float64) {
				cfg := singleOrbital(0)
				cfg.Integrator = integrator
				s := mustNew(cfg)
				Expect(s.SetBody(0, physics.Body{Pos: dynamo.Vec{X: x}, Vel: dynamo.Vec{X: -1}})).To(Succeed())

				snap := s.Advance(0.05)
				p := snap.Particles[0]
				Expect(p.Alive).To(BeTrue())
				Expect(p.Pos.X).To(BeNumerically("<", x))
				Expect(p.Trail).To(HaveLen(1))
				Expect(snap.Stats.Captured).To(Equal(0))
				Expect(snap.Stats.Recovered).To(Equal(0))

				snap = s.Advance(0.05)
				Expect(snap.Stats.Captured).To(Equal(1))
				Expect(snap.Particles[0].Alive).To(BeFalse())
			},
			Entry("rk4 on the radius", "rk4", 1.0),
			Entry("rk4 just outside", "rk4", 1.02),
			Entry("leapfrog on the radius", "leapfrog", 1.0),
			Entry("symplectic on the radius", "symplectic", 1.0),
		)
	})

	Describe("probabilistic respawn", func() {
		It("keeps a captured orbital particle inactive while the probability is zero", func() {
			s := mustNew(singleOrbital(0))
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Vec{X: 0.2}})).To(Succeed())

			for i := 0; i < 100; i++ {
				snap := s.Advance(0.05)
				Expect(snap.Particles[0].Alive).To(BeFalse())
				Expect(snap.Active()).To(BeEmpty())
				Expect(snap.Stats.Inactive).To(Equal(1))
			}

			Expect(s.SetRespawnProbability(1)).To(Succeed())
			snap := s.Advance(0.05)
			p := snap.Particles[0]
			Expect(p.Alive).To(BeTrue())
			Expect(p.Distance).To(BeNumerically(">=", 6-1e-9))
			Expect(p.Distance).To(BeNumerically("<=", 12+1e-9))
			Expect(p.Trail).To(BeEmpty())
			Expect(snap.Stats.Respawned).To(Equal(1))
		})
	})

	Describe("stability", func() {
		It("integrates the default population for 1000 steps without NaN or Inf", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Population()).To(Equal(100))
			s := mustNew(cfg)

			runner := sim.NewRunner(s)
			checker := &finiteChecker{}
			runner.AddObserver(checker)

			result, err := runner.Run(context.Background(), 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(1000))
			Expect(checker.invalid).To(Equal(0))
			Expect(result.Final.Valid()).To(BeTrue())
			Expect(result.Totals().Recovered).To(Equal(0))
		})

		It("clamps runaway velocities to the configured maximum", func() {
			cfg := singleDisk()
			cfg.MaxSpeed = 0.1
			s := mustNew(cfg)
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Planar(5, 0), Vel: dynamo.Planar(0, 5)})).To(Succeed())

			snap := s.Advance(1)
			Expect(snap.Particles[0].Speed).To(BeNumerically("<=", 0.1+1e-12))
			Expect(snap.Stats.Clamped).To(Equal(1))
		})
	})

	Describe("determinism", func() {
		run := func(seed int64) sim.Snapshot {
			cfg := config.DefaultConfig()
			cfg.Seed = seed
			s := mustNew(cfg)
			var snap sim.Snapshot
			for i := 0; i < 300; i++ {
				snap = s.Step()
			}
			return snap
		}

		It("reproduces identical trajectories for the same seed", func() {
			a, b := run(7), run(7)
			Expect(a.Particles).To(HaveLen(len(b.Particles)))
			for i := range a.Particles {
				Expect(a.Particles[i].Pos).To(Equal(b.Particles[i].Pos))
				Expect(a.Particles[i].Vel).To(Equal(b.Particles[i].Vel))
				Expect(a.Particles[i].Alive).To(Equal(b.Particles[i].Alive))
			}
		})

		It("diverges for different seeds", func() {
			a, b := run(7), run(8)
			Expect(a.Particles[0].Pos).NotTo(Equal(b.Particles[0].Pos))
		})

		It("replays from the start after Reset", func() {
			s := mustNew(config.DefaultConfig())
			first := s.Snapshot()
			for i := 0; i < 10; i++ {
				s.Step()
			}
			s.Reset()
			Expect(s.Snapshot().Particles[3].Pos).To(Equal(first.Particles[3].Pos))
			Expect(s.Frame()).To(Equal(0))
		})
	})

	Describe("snapshots", func() {
		It("share no memory with the simulation", func() {
			s := mustNew(singleDisk())
			Expect(s.SetBody(0, physics.Body{Pos: dynamo.Planar(5, 0), Vel: dynamo.Planar(0, 0.3)})).To(Succeed())
			snap := s.Advance(1)
			snap.Particles[0].Trail[0] = dynamo.Vec{X: 99}

			again := s.Snapshot()
			Expect(again.Particles[0].Trail[0].X).NotTo(Equal(99.0))
		})
	})

	Describe("controls", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			s = mustNew(config.DefaultConfig())
		})

		It("adjusts speed by the configured factor", func() {
			Expect(s.SpeedUp()).To(BeNumerically("~", 1.2, 1e-12))
			Expect(s.SpeedUp()).To(BeNumerically("~", 1.44, 1e-12))
			Expect(s.SpeedDown()).To(BeNumerically("~", 1.2, 1e-12))
		})

		It("keeps speed inside its bounds", func() {
			for i := 0; i < 100; i++ {
				s.SpeedDown()
			}
			Expect(s.SpeedMultiplier()).To(Equal(sim.MinSpeedMultiplier))
			Expect(s.SetSpeedMultiplier(0)).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("toggles lensing without touching physics", func() {
			before := s.Lensing()
			Expect(s.ToggleLensing()).To(Equal(!before))
			Expect(s.Step().Lensing).To(Equal(!before))
		})

		It("rejects invalid live parameters", func() {
			Expect(s.SetRespawnProbability(1.5)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetTrailLength(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetCaptureRadius(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetCaptureRadius(5)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetForceConstant(-1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.Params().CaptureRadius).To(Equal(1.0))
		})

		It("applies valid live parameters", func() {
			Expect(s.SetCaptureRadius(1.2)).To(Succeed())
			Expect(s.SetForceConstant(0.25)).To(Succeed())
			Expect(s.SetTrailLength(3)).To(Succeed())

			p := s.Params()
			Expect(p.CaptureRadius).To(Equal(1.2))
			Expect(p.ForceConstant).To(Equal(0.25))
			Expect(p.TrailLength).To(Equal(3))

			var snap sim.Snapshot
			for i := 0; i < 10; i++ {
				snap = s.Step()
			}
			for _, pv := range snap.Particles {
				Expect(len(pv.Trail)).To(BeNumerically("<=", 3))
			}
			Expect(snap.CaptureRadius).To(Equal(1.2))
		})
	})

	Describe("construction", func() {
		It("fails fast on a malformed configuration", func() {
			cfg := config.DefaultConfig()
			cfg.Force.CaptureRadius = -1
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects out-of-range particle indices", func() {
			s := mustNew(singleDisk())
			Expect(s.SetBody(1, physics.Body{})).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})

type finiteChecker struct {
	invalid int
}

func (f *finiteChecker) OnFrame(snap *sim.Snapshot) {
	if !snap.Valid() {
		f.invalid++
	}
}
