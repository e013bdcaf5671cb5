package runtime

import "github.com/san-kum/poelab/internal/engine"

// GroundID is the id whose friction bounds every body's effective friction.
const GroundID = "ground"

type entry struct {
	id     string
	body   engine.Body
	static bool
}

// Registry maps document ids to the bodies of one build generation. Once
// detached it resolves nothing, so stale references cannot reach a cleared
// world.
type Registry struct {
	entries    map[string]*entry
	order      []string
	generation string
	detached   bool
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// add registers a body, replacing an earlier body with the same id while
// keeping its original position in the order.
func (r *Registry) add(id string, body engine.Body, static bool) (replaced bool) {
	if _, ok := r.entries[id]; ok {
		replaced = true
	} else {
		r.order = append(r.order, id)
	}
	r.entries[id] = &entry{id: id, body: body, static: static}
	return replaced
}

func (r *Registry) lookup(id string) (*entry, bool) {
	if r == nil || r.detached {
		return nil, false
	}
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) each(fn func(e *entry)) {
	if r == nil || r.detached {
		return
	}
	for _, id := range r.order {
		fn(r.entries[id])
	}
}

func (r *Registry) detach() {
	r.detached = true
	r.entries = nil
}

// Has reports whether id resolves to a live body.
func (r *Registry) Has(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// IDs returns every registered id, statics first, in document order.
func (r *Registry) IDs() []string {
	if r == nil || r.detached {
		return nil
	}
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Len() int {
	if r == nil || r.detached {
		return 0
	}
	return len(r.order)
}

func (r *Registry) Generation() string {
	if r == nil {
		return ""
	}
	return r.generation
}

func (r *Registry) Detached() bool { return r == nil || r.detached }

// EffectiveFriction is the lesser of the body's friction and the ground's,
// or the body's own friction when there is no ground.
func (r *Registry) EffectiveFriction(body engine.Body) float64 {
	f := body.Friction()
	if g, ok := r.lookup(GroundID); ok {
		if gf := g.body.Friction(); gf < f {
			return gf
		}
	}
	return f
}
