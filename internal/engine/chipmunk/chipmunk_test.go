package chipmunk

import (
	"math"
	"testing"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(opts engine.BodyOptions) engine.BodyOptions {
	opts.Shape = engine.Shape{Kind: engine.ShapeRectangle, Width: 50, Height: 50}
	if opts.Mass == 0 {
		opts.Mass = 5
	}
	return opts
}

func TestCoastingWithoutGravity(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{Label: "box", Position: engine.Vector{X: 100, Y: 100}}))

	b.SetVelocity(engine.Vector{X: 2})
	for i := 0; i < 10; i++ {
		w.Step(engine.BaseStep)
	}

	assert.InDelta(t, 2.0, b.Velocity().X, 1e-9)
	assert.InDelta(t, 120.0, b.Position().X, 1e-6)
	assert.InDelta(t, 100.0, b.Position().Y, 1e-6)
}

func TestAirFriction(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{FrictionAir: 0.1}))

	b.SetVelocity(engine.Vector{X: 2})
	w.Step(engine.BaseStep)
	assert.InDelta(t, 1.8, b.Velocity().X, 1e-9)

	b.SetFrictionAir(0)
	w.Step(engine.BaseStep)
	assert.InDelta(t, 1.8, b.Velocity().X, 1e-9)
}

func TestApplyForceIsConsumed(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{Mass: 5, Inertia: math.Inf(1)}))

	b.ApplyForce(b.Position(), engine.Vector{X: 0.05})
	w.Step(engine.BaseStep)
	v := b.Velocity().X
	// 0.01 px/ms² over one 1/60 s step
	assert.InDelta(t, 0.01*1000*1000*engine.BaseStep*engine.BaseStep, v, 1e-9)

	w.Step(engine.BaseStep)
	assert.InDelta(t, v, b.Velocity().X, 1e-9)
}

func TestGravityScale(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{Gravity: engine.Vector{Y: 0.001}})
	b := w.AddBody(box(engine.BodyOptions{}))

	w.Step(engine.BaseStep)
	assert.InDelta(t, 0.001*1e6*engine.BaseStep*engine.BaseStep, b.Velocity().Y, 1e-9)
}

func TestSetMassRescalesInertia(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{Mass: 5}))

	i := b.Inertia()
	require.Greater(t, i, 0.0)

	b.SetMass(10)
	assert.Equal(t, 10.0, b.Mass())
	assert.InDelta(t, 2*i, b.Inertia(), 1e-9)

	b.SetMass(-1)
	assert.Equal(t, 10.0, b.Mass())
}

func TestInfiniteInertiaIsKept(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{Mass: 5, Inertia: math.Inf(1)}))

	b.SetMass(20)
	assert.True(t, math.IsInf(b.Inertia(), 1))

	b.SetAngularVelocity(1)
	assert.Equal(t, 0.0, b.AngularVelocity())
}

func TestSetDensity(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{}))

	b.SetDensity(0.002)
	assert.InDelta(t, 0.002*50*50, b.Mass(), 1e-9)
}

func TestStaticBody(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{Gravity: engine.Vector{Y: 0.001}})
	ground := w.AddBody(engine.BodyOptions{
		Label:    "ground",
		Static:   true,
		Position: engine.Vector{X: 350, Y: 430},
		Shape:    engine.Shape{Kind: engine.ShapeRectangle, Width: 700, Height: 40},
		Friction: 0.5,
	})

	assert.True(t, ground.Static())
	assert.True(t, math.IsInf(ground.Mass(), 1))

	ground.SetVelocity(engine.Vector{X: 3})
	ground.ApplyForce(ground.Position(), engine.Vector{X: 1})
	w.Step(engine.BaseStep)

	assert.Equal(t, engine.Vector{X: 350, Y: 430}, ground.Position())
	assert.Equal(t, engine.Vector{}, ground.Velocity())

	ground.SetFriction(0.2)
	assert.Equal(t, 0.2, ground.Friction())
}

func TestPolygonIsCentered(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	// clockwise triangle with its centroid at (10, 10)
	b := w.AddBody(engine.BodyOptions{
		Mass:     1,
		Position: engine.Vector{X: 50, Y: 50},
		Shape: engine.Shape{Kind: engine.ShapePolygon, Vertices: []engine.Vector{
			{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 30, Y: 0},
		}},
	})

	verts := b.Shape().Vertices
	require.Len(t, verts, 3)
	c := engine.Centroid(verts)
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
	assert.Greater(t, engine.SignedArea(verts), 0.0)
	assert.InDelta(t, 450, b.Shape().Area(), 1e-9)
}

func TestFlatPolygonBecomesHexagon(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{Gravity: engine.Vector{Y: 0.001}})
	b := w.AddBody(engine.BodyOptions{
		Mass:     1,
		Position: engine.Vector{X: 50, Y: 50},
		Shape: engine.Shape{Kind: engine.ShapePolygon, Vertices: []engine.Vector{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0},
		}},
	})

	shape := b.Shape()
	require.Len(t, shape.Vertices, 6)
	assert.InDelta(t, 10, shape.Radius, 1e-9)
	assert.Greater(t, shape.Area(), 0.0)
	assert.Greater(t, b.Inertia(), 0.0)

	for i := 0; i < 5; i++ {
		w.Step(engine.BaseStep)
	}
	assert.True(t, b.Position().IsFinite())
	assert.True(t, b.Velocity().IsFinite())
	assert.False(t, math.IsNaN(b.Angle()))
	assert.False(t, math.IsNaN(b.AngularVelocity()))
}

func TestClearReleasesBodies(t *testing.T) {
	w := New().NewWorld(engine.WorldOptions{})
	b := w.AddBody(box(engine.BodyOptions{}))
	b.SetVelocity(engine.Vector{X: 1})

	w.Clear()
	w.Step(engine.BaseStep)

	b.SetVelocity(engine.Vector{X: 5})
	b.ApplyForce(engine.Vector{}, engine.Vector{X: 1})
	assert.Equal(t, engine.Vector{}, b.Velocity())
	assert.Nil(t, w.AddBody(box(engine.BodyOptions{})))
}
