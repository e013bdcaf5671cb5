// Package export writes the record of a headless run as CSV, JSON or an SVG
// picture of the final scene.
package export

import (
	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
)

// Trace is every snapshot of one run in tick order.
type Trace struct {
	Scenario string
	Dt       float64
	Times    []float64
	Frames   []runtime.Snapshot
	Metrics  map[string]float64
}

func NewTrace(scenario string, dt float64) *Trace {
	return &Trace{Scenario: scenario, Dt: dt}
}

// Record appends snap taken at simulated time at. Snapshots are fresh maps,
// so the trace keeps them as they are.
func (t *Trace) Record(at float64, snap runtime.Snapshot) {
	t.Times = append(t.Times, at)
	t.Frames = append(t.Frames, snap)
}

func (t *Trace) Len() int { return len(t.Frames) }

// Speeds is the speed series of one body; ticks where it was absent are
// skipped.
func (t *Trace) Speeds(id string) []float64 {
	out := make([]float64, 0, len(t.Frames))
	for _, f := range t.Frames {
		if st, ok := f[id]; ok {
			out = append(out, st.Speed)
		}
	}
	return out
}

// Path is the positions one body went through.
func (t *Trace) Path(id string) []engine.Vector {
	out := make([]engine.Vector, 0, len(t.Frames))
	for _, f := range t.Frames {
		if st, ok := f[id]; ok {
			out = append(out, st.Position)
		}
	}
	return out
}
