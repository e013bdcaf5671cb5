package runtime

import (
	"sort"

	"github.com/san-kum/poelab/internal/engine"
)

// BodyState is the observable state of one dynamic body at one tick.
type BodyState struct {
	Position          engine.Vector `json:"position"`
	Velocity          engine.Vector `json:"velocity"`
	Speed             float64       `json:"speed"`
	Angle             float64       `json:"angle"`
	AngularVelocity   float64       `json:"angularVelocity"`
	Friction          float64       `json:"friction"`
	FrictionAir       float64       `json:"frictionAir"`
	FrictionStatic    float64       `json:"frictionStatic"`
	EffectiveFriction float64       `json:"effectiveFriction"`
	Mass              float64       `json:"mass"`
}

// Snapshot maps the id of every dynamic body to its state.
type Snapshot map[string]BodyState

// IDs returns the snapshot keys in sorted order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sink receives one snapshot per step, on the stepping goroutine.
type Sink func(Snapshot)

// Observe projects every dynamic body of reg. It only reads.
func Observe(reg *Registry) Snapshot {
	snap := make(Snapshot, reg.Len())
	reg.each(func(e *entry) {
		if e.static {
			return
		}
		snap[e.id] = reg.stateOf(e.body)
	})
	return snap
}

func (r *Registry) stateOf(b engine.Body) BodyState {
	v := b.Velocity()
	return BodyState{
		Position:          b.Position(),
		Velocity:          v,
		Speed:             v.Len(),
		Angle:             b.Angle(),
		AngularVelocity:   b.AngularVelocity(),
		Friction:          b.Friction(),
		FrictionAir:       b.FrictionAir(),
		FrictionStatic:    b.FrictionStatic(),
		EffectiveFriction: r.EffectiveFriction(b),
		Mass:              b.Mass(),
	}
}
