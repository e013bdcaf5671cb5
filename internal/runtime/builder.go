package runtime

import (
	"math"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/scene"
)

// Build creates every body of physics inside world and registers it under
// its document id. Missing shape or physics fields fall back to the scene
// defaults, so Build never fails. A duplicated id keeps the later body.
func Build(world engine.World, physics scene.Physics) *Registry {
	reg := newRegistry()
	for _, spec := range physics.Statics {
		reg.add(spec.ID, world.AddBody(BodyOptions(spec, true)), true)
	}
	for _, spec := range physics.Dynamics {
		body := world.AddBody(BodyOptions(spec, false))
		if v := spec.InitialVelocity; v != nil {
			body.SetVelocity(engine.Vector{X: v.X, Y: v.Y})
		}
		reg.add(spec.ID, body, false)
	}
	return reg
}

// BodyOptions resolves a body specification into engine options.
func BodyOptions(spec scene.BodySpec, static bool) engine.BodyOptions {
	c := spec.ResolveCoefficients(static)
	label := spec.Label
	if label == "" {
		label = spec.ID
	}
	return engine.BodyOptions{
		Label:          label,
		Static:         static,
		Position:       engine.Vector{X: spec.Position.X, Y: spec.Position.Y},
		Shape:          shapeOf(spec.ResolveGeometry(static)),
		Friction:       c.Friction,
		Restitution:    c.Restitution,
		FrictionAir:    c.FrictionAir,
		FrictionStatic: c.FrictionStatic,
		Mass:           c.Mass,
		Inertia:        c.Inertia,
	}
}

// WorldOptions resolves gravity and bounds of a document world.
func WorldOptions(w scene.World) engine.WorldOptions {
	g := w.ResolvedGravity()
	b := w.ResolvedBounds()
	return engine.WorldOptions{
		Gravity: engine.Vector{X: g.X, Y: g.Y},
		Width:   b.Width,
		Height:  b.Height,
	}
}

func shapeOf(g scene.Geometry) engine.Shape {
	switch g.Kind {
	case scene.Circle:
		return engine.Shape{Kind: engine.ShapeCircle, Radius: g.Radius}
	case scene.Polygon:
		if len(g.Vertices) >= 3 {
			verts := make([]engine.Vector, len(g.Vertices))
			for i, v := range g.Vertices {
				verts[i] = engine.Vector{X: v.X, Y: v.Y}
			}
			return engine.Shape{Kind: engine.ShapePolygon, Vertices: verts}
		}
		return engine.Shape{
			Kind:     engine.ShapePolygon,
			Radius:   g.Radius,
			Vertices: engine.RegularPolygon(g.Sides, g.Radius),
		}
	default:
		return engine.Shape{Kind: engine.ShapeRectangle, Width: g.Width, Height: g.Height}
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
