package metrics

import (
	"github.com/san-kum/accretion/internal/sim"
)

// Stability is the fraction of frames in which every alive particle had a
// finite state and a speed at or below threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap *sim.Snapshot) {
	s.samples++
	if !snap.Valid() {
		s.violations++
		return
	}
	for _, v := range snap.Speeds() {
		if v > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
