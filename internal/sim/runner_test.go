package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/sim"
)

type frameCounter struct {
	count int
}

func (f *frameCounter) Name() string            { return "frames" }
func (f *frameCounter) Observe(_ *sim.Snapshot) { f.count++ }
func (f *frameCounter) Value() float64          { return float64(f.count) }
func (f *frameCounter) Reset()                  { f.count = 0 }

var _ = Describe("Runner", func() {
	It("feeds every frame to its metrics", func() {
		runner := sim.NewRunner(mustNew(config.DefaultConfig()))
		runner.AddMetric(&frameCounter{})

		result, err := runner.Run(context.Background(), 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("frames", 25.0))
		Expect(result.Frames).To(HaveLen(25))
		Expect(result.Final.Frame).To(Equal(25))
	})

	It("stops between frames when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := sim.NewRunner(mustNew(config.DefaultConfig())).Run(ctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(Equal(0))
	})

	It("rejects a non-positive step count", func() {
		_, err := sim.NewRunner(mustNew(config.DefaultConfig())).Run(context.Background(), 0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one independent simulation per seed", func() {
		cfg := config.DefaultConfig()
		ens := sim.NewEnsemble(cfg, 4, 10, func() []sim.Metric {
			return []sim.Metric{&frameCounter{}}
		}, quiet)

		results, err := ens.Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.Metrics["frames"]).To(Equal(50.0))
			Expect(r.Final.Valid()).To(BeTrue())
		}
		Expect(results[0].Final.Particles[0].Pos).NotTo(Equal(results[1].Final.Particles[0].Pos))
	})

	It("reports configuration errors", func() {
		cfg := config.DefaultConfig()
		cfg.TrailLength = 0
		_, err := sim.NewEnsemble(cfg, 2, 1, nil).Run(context.Background(), 10)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})
