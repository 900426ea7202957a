package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/metrics"
	"github.com/san-kum/accretion/internal/sim"
)

// Setters are the configuration fields a grid search can vary.
var Setters = map[string]func(*config.Config, float64){
	"k":                   func(c *config.Config, v float64) { c.Force.K = v },
	"exponent":            func(c *config.Config, v float64) { c.Force.Exponent = v },
	"capture_radius":      func(c *config.Config, v float64) { c.Force.CaptureRadius = v },
	"respawn_probability": func(c *config.Config, v float64) { c.Orbital.RespawnProbability = v },
	"noise_chance":        func(c *config.Config, v float64) { c.Noise.Chance = v },
	"noise_amplitude":     func(c *config.Config, v float64) { c.Noise.Amplitude = v },
	"dt":                  func(c *config.Config, v float64) { c.Dt = v },
}

// ParamNames lists the keys of Setters in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trial is one evaluated grid point. Err is set when the point produced an
// invalid configuration or the run failed.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of parameter values and keeps the
// one with the lowest metric value, or the highest when Maximize is set.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d value ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points returns the cartesian product of the ranges, last parameter
// varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[depth]))
		for _, p := range points {
			for _, val := range g.ranges[depth] {
				newParams := make(map[string]float64, len(p)+1)
				for k, v := range p {
					newParams[k] = v
				}
				newParams[name] = val
				next = append(next, newParams)
			}
		}
		points = next
	}
	return points
}

// Search runs base with each grid point applied for steps frames and
// scores it by metricName from metrics.Standard. Points run in parallel.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, steps int, metricName string) (Trial, []Trial, error) {
	points := g.Points()
	trials := make([]Trial, len(points))

	dynamo.ParallelFor(len(points), 1, func(start, end int) {
		for i := start; i < end; i++ {
			trials[i] = g.evaluate(ctx, base, points[i], steps, metricName)
		}
	})

	if err := ctx.Err(); err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	found := false
	for _, t := range trials {
		if t.Err != nil {
			continue
		}
		if (g.Maximize && t.Value > best.Value) || (!g.Maximize && t.Value < best.Value) {
			best = t
			found = true
		}
	}
	if !found {
		return Trial{}, trials, fmt.Errorf("no valid grid point among %d", len(trials))
	}
	return best, trials, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, steps int, metricName string) Trial {
	trial := Trial{Params: params}

	cfg := base.Clone()
	for name, v := range params {
		Setters[name](cfg, v)
	}

	s, err := sim.New(cfg)
	if err != nil {
		trial.Err = err
		return trial
	}

	runner := sim.NewRunner(s)
	for _, m := range metrics.Standard(cfg.Force, cfg.MaxSpeed) {
		runner.AddMetric(m)
	}

	result, err := runner.Run(ctx, steps)
	if err != nil {
		trial.Err = err
		return trial
	}

	v, ok := result.Metrics[metricName]
	if !ok {
		trial.Err = fmt.Errorf("unknown metric: %s", metricName)
		return trial
	}
	trial.Value = v
	return trial
}
