package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
)

func snapshot(speeds ...float64) runtime.Snapshot {
	snap := runtime.Snapshot{}
	for i, v := range speeds {
		snap[string(rune('a'+i))] = runtime.BodyState{
			Velocity: engine.Vector{X: v},
			Speed:    math.Abs(v),
			Mass:     2,
		}
	}
	return snap
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(snapshot(3, -1), 0)
	expected := 0.5*2*9 + 0.5*2*1
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Observe(snapshot(0, 0), 1)
	if math.Abs(m.Value()-expected/2) > 1e-9 {
		t.Errorf("expected mean energy %f, got %f", expected/2, m.Value())
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(snapshot(1), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	d := NewEnergyDrift()

	d.Observe(snapshot(0), 0)
	d.Observe(snapshot(2), 1)
	d.Observe(snapshot(2), 2)
	if d.Value() != 0 {
		t.Errorf("coasting should not drift, got %f", d.Value())
	}

	d.Observe(snapshot(1), 3)
	if math.Abs(d.Value()-0.75) > 1e-9 {
		t.Errorf("expected drift 0.75, got %f", d.Value())
	}

	d.Observe(snapshot(2), 4)
	if math.Abs(d.Value()-0.75) > 1e-9 {
		t.Errorf("drift should keep its maximum, got %f", d.Value())
	}
}
