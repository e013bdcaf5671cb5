package runtime

import "github.com/san-kum/poelab/internal/engine"

// Handle references one body of one build generation. After the session
// rebuilds or tears down, the handle is detached: reads report ok=false and
// writes do nothing.
type Handle struct {
	reg    *Registry
	id     string
	static bool
}

func (h *Handle) ID() string         { return h.id }
func (h *Handle) Static() bool       { return h.static }
func (h *Handle) Generation() string { return h.reg.Generation() }
func (h *Handle) Detached() bool     { return h.reg.Detached() }

func (h *Handle) body() (engine.Body, bool) {
	e, ok := h.reg.lookup(h.id)
	if !ok {
		return nil, false
	}
	return e.body, true
}

// State returns the body's current state. Static bodies are reported too.
func (h *Handle) State() (BodyState, bool) {
	b, ok := h.body()
	if !ok {
		return BodyState{}, false
	}
	return h.reg.stateOf(b), true
}

// Shape returns the body's resolved geometry.
func (h *Handle) Shape() (engine.Shape, bool) {
	b, ok := h.body()
	if !ok {
		return engine.Shape{}, false
	}
	return b.Shape(), true
}

func (h *Handle) ApplyForce(force engine.Vector) {
	if b, ok := h.body(); ok && force.IsFinite() {
		b.ApplyForce(b.Position(), force)
	}
}

func (h *Handle) SetVelocity(v engine.Vector) {
	if b, ok := h.body(); ok && v.IsFinite() {
		b.SetVelocity(v)
	}
}

// SetProperty writes through the same table as Session.SetProperty,
// including the ground friction fan-out.
func (h *Handle) SetProperty(name string, v float64) {
	if p, ok := ParseProperty(name); ok {
		h.reg.setProperty(h.id, p, v)
	}
}
