package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/poelab/internal/engine"
)

// Body wraps a cp body and its single shape. Static bodies share the
// space's static body and keep their own position.
type Body struct {
	label    string
	static   bool
	released bool
	geom     engine.Shape
	body     *cp.Body
	shape    *cp.Shape
	pos      engine.Vector

	friction       float64
	restitution    float64
	frictionAir    float64
	frictionStatic float64
	mass           float64
	moment         float64
	locked         bool
}

func (b *Body) Label() string       { return b.label }
func (b *Body) Static() bool        { return b.static }
func (b *Body) Shape() engine.Shape { return b.geom }

func (b *Body) live() bool { return !b.released && b.body != nil }

func (b *Body) Position() engine.Vector {
	if b.static || !b.live() {
		return b.pos
	}
	return fromCP(b.body.Position())
}

func (b *Body) Angle() float64 {
	if b.static || !b.live() {
		return 0
	}
	return b.body.Angle()
}

func (b *Body) SetAngle(a float64) {
	if b.static || !b.live() {
		return
	}
	b.body.SetAngle(a)
}

// Velocity is reported in px per base step.
func (b *Body) Velocity() engine.Vector {
	if b.static || !b.live() {
		return engine.Vector{}
	}
	return fromCP(b.body.Velocity()).Scale(engine.BaseStep)
}

func (b *Body) SetVelocity(v engine.Vector) {
	if b.static || !b.live() {
		return
	}
	b.body.SetVelocity(v.X/engine.BaseStep, v.Y/engine.BaseStep)
}

func (b *Body) AngularVelocity() float64 {
	if b.static || !b.live() {
		return 0
	}
	return b.body.AngularVelocity() * engine.BaseStep
}

func (b *Body) SetAngularVelocity(w float64) {
	if b.static || !b.live() || b.locked {
		return
	}
	b.body.SetAngularVelocity(w / engine.BaseStep)
}

func (b *Body) ApplyForce(point, force engine.Vector) {
	if b.static || !b.live() {
		return
	}
	b.body.ApplyForceAtWorldPoint(toCP(force.Scale(accelScale)), toCP(point))
}

func (b *Body) Friction() float64 { return b.friction }

func (b *Body) SetFriction(f float64) {
	b.friction = f
	if b.live() {
		b.shape.SetFriction(f)
	}
}

func (b *Body) FrictionAir() float64        { return b.frictionAir }
func (b *Body) SetFrictionAir(f float64)    { b.frictionAir = f }
func (b *Body) FrictionStatic() float64     { return b.frictionStatic }
func (b *Body) SetFrictionStatic(f float64) { b.frictionStatic = f }

func (b *Body) Restitution() float64 { return b.restitution }

func (b *Body) SetRestitution(r float64) {
	b.restitution = r
	if b.live() {
		b.shape.SetElasticity(r)
	}
}

func (b *Body) Mass() float64 { return b.mass }

// SetMass keeps the mass-to-inertia ratio so the geometry stays consistent.
func (b *Body) SetMass(m float64) {
	if b.static || !b.live() || m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return
	}
	old := b.mass
	b.mass = m
	b.body.SetMass(m)
	if !b.locked && old > 0 {
		b.moment *= m / old
		b.body.SetMoment(b.moment)
	}
}

func (b *Body) SetDensity(d float64) {
	if d <= 0 {
		return
	}
	b.SetMass(d * b.geom.Area())
}

func (b *Body) Inertia() float64 { return b.moment }

func (b *Body) SetInertia(i float64) {
	if b.static || !b.live() || i <= 0 || math.IsNaN(i) {
		return
	}
	b.moment = i
	b.locked = math.IsInf(i, 1)
	b.body.SetMoment(i)
	if b.locked {
		b.body.SetAngularVelocity(0)
	}
}

// drag is the per-step velocity retention from air friction.
func (b *Body) drag() float64 {
	d := 1 - b.frictionAir
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
