package sim

import (
	"context"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
)

// Ensemble runs independent simulations of one configuration with
// consecutive seeds.
type Ensemble struct {
	cfg        *config.Config
	numRuns    int
	seedStart  int64
	newMetrics func() []Metric
	opts       []Option
}

// NewEnsemble prepares numRuns runs of cfg. newMetrics, if not nil, is
// called once per run so that metrics are never shared between goroutines.
func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, newMetrics func() []Metric, opts ...Option) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, newMetrics: newMetrics, opts: opts}
}

func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			cfgCopy := e.cfg.Clone()
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := New(cfgCopy, e.opts...)
			if err != nil {
				errs[idx] = err
				continue
			}

			runner := NewRunner(s)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					runner.AddMetric(m)
				}
			}

			results[idx], errs[idx] = runner.Run(ctx, steps)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
