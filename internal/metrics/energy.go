package metrics

import (
	"math"

	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// Energy is the mean specific orbital energy of alive particles, averaged
// over frames. Respawns and noise make it drift; it is a diagnostic only.
type Energy struct {
	name    string
	law     physics.ForceLaw
	samples int
	total   float64
}

func NewEnergy(law physics.ForceLaw) *Energy {
	return &Energy{
		name: "energy",
		law:  law,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(snap *sim.Snapshot) {
	mean, ok := meanEnergy(e.law, snap)
	if !ok {
		return
	}
	e.total += mean
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of the population's mean
// specific energy from the first observed frame.
type EnergyDrift struct {
	name          string
	law           physics.ForceLaw
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(law physics.ForceLaw) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		law:  law,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snap *sim.Snapshot) {
	energy, ok := meanEnergy(e.law, snap)
	if !ok {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func meanEnergy(law physics.ForceLaw, snap *sim.Snapshot) (float64, bool) {
	energies := make([]float64, 0, len(snap.Particles))
	for _, p := range snap.Particles {
		if !p.Alive || p.Distance == 0 {
			continue
		}
		energies = append(energies, 0.5*p.Speed*p.Speed+law.Potential(p.Distance))
	}
	if len(energies) == 0 {
		return 0, false
	}
	return stat.Mean(energies, nil), true
}
