package metrics

import (
	"math"

	"github.com/san-kum/poelab/internal/runtime"
)

// kinetic is the total translational kinetic energy of a snapshot, in
// scenario units (mass × (px/step)²).
func kinetic(snap runtime.Snapshot) float64 {
	var ke float64
	for _, s := range snap {
		if math.IsInf(s.Mass, 0) {
			continue
		}
		ke += 0.5 * s.Mass * s.Speed * s.Speed
	}
	return ke
}

// KineticEnergy is the mean total kinetic energy over the observed ticks.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(snap runtime.Snapshot, t float64) {
	e.totalEnergy += kinetic(snap)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest kinetic energy change relative to the first
// sample that carried any energy. A frictionless coast keeps it at zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snap runtime.Snapshot, t float64) {
	energy := kinetic(snap)
	if e.initialEnergy == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / e.initialEnergy
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
}
