// Package chipmunk adapts github.com/jakecoffman/cp to the engine contract.
//
// Scenario units (px per base step, mass·px/ms²) are converted to cp's
// per-second units on the way in and back on the way out. Air drag is not a
// cp concept, so it is applied per body in a velocity update function.
// Static friction is stored and reported but cp resolves contacts with the
// single product of the two shapes' friction coefficients.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/poelab/internal/engine"
)

// accelScale converts px/ms² to px/s².
const accelScale = 1e6

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) NewWorld(opts engine.WorldOptions) engine.World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(toCP(opts.Gravity.Scale(accelScale)))
	return &World{space: space}
}

// World owns one cp space and every body added to it.
type World struct {
	space  *cp.Space
	bodies []*Body
}

func (w *World) AddBody(opts engine.BodyOptions) engine.Body {
	if w.space == nil {
		return nil
	}
	if opts.Static {
		b := w.addStatic(opts)
		w.bodies = append(w.bodies, b)
		return b
	}
	b := w.addDynamic(opts)
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) Step(dt float64) {
	if w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

func (w *World) Clear() {
	if w.space == nil {
		return
	}
	for _, b := range w.bodies {
		if b.shape != nil {
			w.space.RemoveShape(b.shape)
		}
		if !b.static && b.body != nil {
			w.space.RemoveBody(b.body)
		}
		b.released = true
	}
	w.bodies = nil
	w.space = nil
}

func (w *World) addStatic(opts engine.BodyOptions) *Body {
	geom := centered(opts.Shape)
	pos := opts.Position
	sb := w.space.StaticBody

	var shape *cp.Shape
	switch geom.Kind {
	case engine.ShapeCircle:
		shape = cp.NewCircle(sb, geom.Radius, toCP(pos))
	case engine.ShapePolygon:
		verts := make([]cp.Vector, len(geom.Vertices))
		for i, v := range geom.Vertices {
			verts[i] = toCP(v.Add(pos))
		}
		shape = cp.NewPolyShapeRaw(sb, len(verts), verts, 0)
	default:
		bb := cp.BB{
			L: pos.X - geom.Width/2,
			B: pos.Y - geom.Height/2,
			R: pos.X + geom.Width/2,
			T: pos.Y + geom.Height/2,
		}
		shape = cp.NewBox2(sb, bb, 0)
	}
	shape.SetFriction(opts.Friction)
	shape.SetElasticity(opts.Restitution)
	w.space.AddShape(shape)

	return &Body{
		label:          opts.Label,
		static:         true,
		geom:           geom,
		body:           sb,
		shape:          shape,
		pos:            pos,
		friction:       opts.Friction,
		restitution:    opts.Restitution,
		frictionStatic: opts.FrictionStatic,
		mass:           math.Inf(1),
		moment:         math.Inf(1),
	}
}

func (w *World) addDynamic(opts engine.BodyOptions) *Body {
	geom := centered(opts.Shape)
	mass := opts.Mass
	if mass <= 0 || math.IsInf(mass, 0) || math.IsNaN(mass) {
		mass = 1
	}

	locked := math.IsInf(opts.Inertia, 1)
	moment := opts.Inertia
	if locked {
		moment = math.Inf(1)
	} else if moment <= 0 {
		moment = momentFor(geom, mass)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(toCP(opts.Position))
	body.SetAngle(0)
	body.SetAngularVelocity(0)

	var shape *cp.Shape
	switch geom.Kind {
	case engine.ShapeCircle:
		shape = cp.NewCircle(body, geom.Radius, cp.Vector{})
	case engine.ShapePolygon:
		shape = cp.NewPolyShapeRaw(body, len(geom.Vertices), toCPs(geom.Vertices), 0)
	default:
		shape = cp.NewBox(body, geom.Width, geom.Height, 0)
	}
	shape.SetFriction(opts.Friction)
	shape.SetElasticity(opts.Restitution)

	b := &Body{
		label:          opts.Label,
		geom:           geom,
		body:           body,
		shape:          shape,
		friction:       opts.Friction,
		restitution:    opts.Restitution,
		frictionAir:    opts.FrictionAir,
		frictionStatic: opts.FrictionStatic,
		mass:           mass,
		moment:         moment,
		locked:         locked,
	}
	body.SetVelocityUpdateFunc(func(cb *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(cb, gravity, damping*b.drag(), dt)
	})

	w.space.AddBody(body)
	w.space.AddShape(shape)
	return b
}

func momentFor(geom engine.Shape, mass float64) float64 {
	switch geom.Kind {
	case engine.ShapeCircle:
		return cp.MomentForCircle(mass, 0, geom.Radius, cp.Vector{})
	case engine.ShapePolygon:
		return cp.MomentForPoly(mass, len(geom.Vertices), toCPs(geom.Vertices), cp.Vector{}, 0)
	default:
		return cp.MomentForBox(mass, geom.Width, geom.Height)
	}
}

// minArea is the smallest polygon area cp can integrate without producing a
// zero moment.
const minArea = 1e-6

// centered returns geometry whose polygon vertices are counter-clockwise
// around their own centroid, the way cp expects them. Polygons without area
// become a hexagon spanning the same points.
func centered(s engine.Shape) engine.Shape {
	if s.Kind != engine.ShapePolygon {
		return s
	}
	c := engine.Centroid(s.Vertices)
	verts := make([]engine.Vector, len(s.Vertices))
	var reach float64
	for i, v := range s.Vertices {
		verts[i] = v.Sub(c)
		reach = math.Max(reach, verts[i].Len())
	}
	if len(verts) < 3 || math.Abs(engine.SignedArea(verts)) <= minArea || !c.IsFinite() {
		if reach < 1 || math.IsNaN(reach) || math.IsInf(reach, 0) {
			reach = 1
		}
		s.Radius = reach
		s.Vertices = engine.RegularPolygon(6, reach)
		return s
	}
	if engine.SignedArea(verts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	s.Vertices = verts
	return s
}

func toCP(v engine.Vector) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromCP(v cp.Vector) engine.Vector { return engine.Vector{X: v.X, Y: v.Y} }

func toCPs(vs []engine.Vector) []cp.Vector {
	out := make([]cp.Vector, len(vs))
	for i, v := range vs {
		out[i] = toCP(v)
	}
	return out
}
