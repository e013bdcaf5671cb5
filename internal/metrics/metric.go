// Package metrics accumulates scalar summaries of a run from the snapshots
// a session delivers each tick.
package metrics

import "github.com/san-kum/poelab/internal/runtime"

type Metric interface {
	Name() string
	Observe(snap runtime.Snapshot, t float64)
	Value() float64
	Reset()
}

// Set observes several metrics at once.
type Set []Metric

func (s Set) Observe(snap runtime.Snapshot, t float64) {
	for _, m := range s {
		m.Observe(snap, t)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns each metric's value keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Default is the set reported at the end of a run.
func Default() Set {
	return Set{NewKineticEnergy(), NewEnergyDrift(), NewPeakSpeed(), NewAtRest(RestSpeed)}
}
