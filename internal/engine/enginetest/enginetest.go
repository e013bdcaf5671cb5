// Package enginetest provides a deterministic engine for tests.
//
// Bodies integrate with explicit Euler in scenario units. The only contact
// model is a flat floor: a dynamic body that reaches the top of a static
// rectangle it overlaps horizontally rests on it and slides with Coulomb
// friction μ = friction(body) × friction(floor). Nothing else collides.
//
// Stepping a world after Clear panics, which lets tests catch shutdown
// ordering bugs.
package enginetest

import (
	"math"

	"github.com/san-kum/poelab/internal/engine"
)

// Engine records every world it creates.
type Engine struct {
	Worlds []*World
}

func New() *Engine { return &Engine{} }

func (e *Engine) NewWorld(opts engine.WorldOptions) engine.World {
	w := &World{opts: opts}
	e.Worlds = append(e.Worlds, w)
	return w
}

// Last returns the most recently created world, or nil.
func (e *Engine) Last() *World {
	if len(e.Worlds) == 0 {
		return nil
	}
	return e.Worlds[len(e.Worlds)-1]
}

type World struct {
	opts    engine.WorldOptions
	bodies  []*Body
	steps   int
	cleared bool
}

func (w *World) Options() engine.WorldOptions { return w.opts }
func (w *World) Steps() int                   { return w.steps }
func (w *World) Cleared() bool                { return w.cleared }
func (w *World) Bodies() []*Body              { return w.bodies }

func (w *World) AddBody(opts engine.BodyOptions) engine.Body {
	if w.cleared {
		panic("enginetest: add body to cleared world")
	}
	b := &Body{
		world:          w,
		label:          opts.Label,
		static:         opts.Static,
		shape:          opts.Shape,
		pos:            opts.Position,
		friction:       opts.Friction,
		restitution:    opts.Restitution,
		frictionAir:    opts.FrictionAir,
		frictionStatic: opts.FrictionStatic,
		mass:           opts.Mass,
		inertia:        opts.Inertia,
	}
	if b.static {
		b.mass, b.inertia = math.Inf(1), math.Inf(1)
	} else if b.inertia == 0 {
		b.inertia = b.mass * b.shape.Area() / 6
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) Step(dt float64) {
	if w.cleared {
		panic("enginetest: step after clear")
	}
	w.steps++
	frac := dt / engine.BaseStep
	// px/ms² to px/step per step
	gain := dt * 1000 * engine.BaseStep * 1000
	g := w.opts.Gravity

	for _, b := range w.bodies {
		if b.static {
			continue
		}
		acc := g.Add(b.force.Scale(1 / b.mass))
		b.vel = b.vel.Add(acc.Scale(gain))
		b.vel = b.vel.Scale(math.Pow(1-b.frictionAir, frac))
		b.pos = b.pos.Add(b.vel.Scale(frac))
		if !math.IsInf(b.inertia, 1) {
			b.angle += b.angVel * frac
		}
		b.force = engine.Vector{}

		if floor := w.floorUnder(b); floor != nil {
			top := floor.pos.Y - floor.shape.Height/2
			b.pos.Y = top - b.halfHeight()
			if b.vel.Y > 0 {
				b.vel.Y = 0
			}
			decel := b.friction * floor.friction * math.Abs(g.Y) * gain
			switch {
			case b.vel.X > decel:
				b.vel.X -= decel
			case b.vel.X < -decel:
				b.vel.X += decel
			default:
				b.vel.X = 0
			}
		}
	}
}

func (w *World) Clear() {
	for _, b := range w.bodies {
		b.released = true
	}
	w.bodies = nil
	w.cleared = true
}

func (w *World) floorUnder(b *Body) *Body {
	for _, s := range w.bodies {
		if !s.static || s.shape.Kind != engine.ShapeRectangle {
			continue
		}
		top := s.pos.Y - s.shape.Height/2
		left, right := s.pos.X-s.shape.Width/2, s.pos.X+s.shape.Width/2
		if b.pos.X < left || b.pos.X > right || b.pos.Y > s.pos.Y {
			continue
		}
		if b.pos.Y+b.halfHeight() >= top {
			return s
		}
	}
	return nil
}

// Body is a test body. Every mutation after release panics.
type Body struct {
	world    *World
	label    string
	static   bool
	released bool
	shape    engine.Shape

	pos    engine.Vector
	vel    engine.Vector
	angle  float64
	angVel float64
	force  engine.Vector

	friction       float64
	restitution    float64
	frictionAir    float64
	frictionStatic float64
	mass           float64
	inertia        float64
}

func (b *Body) Label() string       { return b.label }
func (b *Body) Static() bool        { return b.static }
func (b *Body) Shape() engine.Shape { return b.shape }
func (b *Body) Released() bool      { return b.released }

// Force returns the force accumulated for the next step.
func (b *Body) Force() engine.Vector { return b.force }

func (b *Body) Position() engine.Vector  { return b.pos }
func (b *Body) Angle() float64           { return b.angle }
func (b *Body) Velocity() engine.Vector  { return b.vel }
func (b *Body) AngularVelocity() float64 { return b.angVel }
func (b *Body) Friction() float64        { return b.friction }
func (b *Body) FrictionAir() float64     { return b.frictionAir }
func (b *Body) FrictionStatic() float64  { return b.frictionStatic }
func (b *Body) Restitution() float64     { return b.restitution }
func (b *Body) Mass() float64            { return b.mass }
func (b *Body) Inertia() float64         { return b.inertia }

func (b *Body) SetAngle(a float64) {
	b.mutate()
	if !b.static {
		b.angle = a
	}
}

func (b *Body) SetVelocity(v engine.Vector) {
	b.mutate()
	if !b.static {
		b.vel = v
	}
}

func (b *Body) SetAngularVelocity(w float64) {
	b.mutate()
	if !b.static {
		b.angVel = w
	}
}

func (b *Body) ApplyForce(point, force engine.Vector) {
	b.mutate()
	if !b.static {
		b.force = b.force.Add(force)
	}
}

func (b *Body) SetFriction(f float64)       { b.mutate(); b.friction = f }
func (b *Body) SetFrictionAir(f float64)    { b.mutate(); b.frictionAir = f }
func (b *Body) SetFrictionStatic(f float64) { b.mutate(); b.frictionStatic = f }
func (b *Body) SetRestitution(r float64)    { b.mutate(); b.restitution = r }

func (b *Body) SetMass(m float64) {
	b.mutate()
	if b.static || m <= 0 {
		return
	}
	if !math.IsInf(b.inertia, 1) {
		b.inertia *= m / b.mass
	}
	b.mass = m
}

func (b *Body) SetDensity(d float64) {
	b.SetMass(d * b.shape.Area())
}

func (b *Body) SetInertia(i float64) {
	b.mutate()
	if !b.static && i > 0 {
		b.inertia = i
	}
}

func (b *Body) mutate() {
	if b.released {
		panic("enginetest: mutation of released body " + b.label)
	}
}

func (b *Body) halfHeight() float64 {
	switch b.shape.Kind {
	case engine.ShapeCircle:
		return b.shape.Radius
	case engine.ShapePolygon:
		var h float64
		for _, v := range b.shape.Vertices {
			h = math.Max(h, v.Y)
		}
		return h
	default:
		return b.shape.Height / 2
	}
}
