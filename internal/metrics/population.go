package metrics

import (
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// CaptureRate is the mean number of captures per frame.
type CaptureRate struct {
	captures int
	frames   int
}

func NewCaptureRate() *CaptureRate { return &CaptureRate{} }

func (c *CaptureRate) Name() string { return "capture_rate" }

func (c *CaptureRate) Observe(snap *sim.Snapshot) {
	c.captures += snap.Stats.Captured
	c.frames++
}

func (c *CaptureRate) Value() float64 {
	if c.frames == 0 {
		return 0
	}
	return float64(c.captures) / float64(c.frames)
}

func (c *CaptureRate) Reset() { c.captures, c.frames = 0, 0 }

// ActiveFraction is the mean fraction of the population alive per frame.
type ActiveFraction struct {
	fractions []float64
}

func NewActiveFraction() *ActiveFraction { return &ActiveFraction{} }

func (a *ActiveFraction) Name() string { return "active_fraction" }

func (a *ActiveFraction) Observe(snap *sim.Snapshot) {
	if len(snap.Particles) == 0 {
		return
	}
	a.fractions = append(a.fractions, float64(snap.Stats.Active)/float64(len(snap.Particles)))
}

func (a *ActiveFraction) Value() float64 {
	if len(a.fractions) == 0 {
		return 0
	}
	return stat.Mean(a.fractions, nil)
}

func (a *ActiveFraction) Reset() { a.fractions = a.fractions[:0] }

// MeanSpeed is the speed of alive particles averaged over particles and
// frames.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(snap *sim.Snapshot) {
	speeds := snap.Speeds()
	if len(speeds) == 0 {
		return
	}
	m.sum += stat.Mean(speeds, nil)
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() { m.sum, m.samples = 0, 0 }

// SpeedSpread is the standard deviation of alive particle speeds in the
// most recent frame.
type SpeedSpread struct {
	last float64
}

func NewSpeedSpread() *SpeedSpread { return &SpeedSpread{} }

func (s *SpeedSpread) Name() string { return "speed_stddev" }

func (s *SpeedSpread) Observe(snap *sim.Snapshot) {
	speeds := snap.Speeds()
	if len(speeds) < 2 {
		s.last = 0
		return
	}
	s.last = stat.StdDev(speeds, nil)
}

func (s *SpeedSpread) Value() float64 { return s.last }
func (s *SpeedSpread) Reset()         { s.last = 0 }

// Standard returns a fresh set of the metrics reported for every run.
func Standard(law physics.ForceLaw, maxSpeed float64) []sim.Metric {
	return []sim.Metric{
		NewCaptureRate(),
		NewActiveFraction(),
		NewMeanSpeed(),
		NewSpeedSpread(),
		NewEnergy(law),
		NewEnergyDrift(law),
		NewStability(maxSpeed),
	}
}
