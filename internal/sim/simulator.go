package sim

import (
	"context"
	"fmt"
)

// Runner drives a Simulation headless for a fixed number of frames,
// feeding metrics and observers along the way.
type Runner struct {
	sim       *Simulation
	metrics   []Metric
	observers []Observer
}

func NewRunner(s *Simulation) *Runner {
	return &Runner{
		sim:       s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances steps frames with the configured dt. Cancellation is
// checked between frames; a canceled run returns the partial result along
// with ctx.Err().
func (r *Runner) Run(ctx context.Context, steps int) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	result := &Result{
		Frames:  make([]FrameStats, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	watch := len(r.metrics) > 0 || len(r.observers) > 0
	dt := r.sim.cfg.Dt

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		if watch {
			snap := r.sim.Advance(dt)
			for _, m := range r.metrics {
				m.Observe(&snap)
			}
			for _, obs := range r.observers {
				obs.OnFrame(&snap)
			}
		} else {
			r.sim.step(dt * r.sim.speed)
		}

		result.Frames = append(result.Frames, r.sim.last)
		result.StepsTaken++
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.Final = r.sim.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
