package chipmunk_test

import (
	"math"
	"testing"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/engine/chipmunk"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

// boxOnGround is a 5 kg box at rest on a 700 px ground, rotation locked.
func boxOnGround() *scene.Document {
	return &scene.Document{
		ID:      "friction",
		Version: "1.0",
		Physics: scene.Physics{
			World: scene.World{Gravity: &scene.Vec2{X: 0, Y: 1}},
			Statics: []scene.BodySpec{{
				ID:         "ground",
				Type:       scene.Rectangle,
				Position:   scene.Vec2{X: 350, Y: 430},
				Dimensions: &scene.Dimensions{Width: 700, Height: 40},
				Physics:    scene.BodyPhysics{Friction: fptr(0.5)},
			}},
			Dynamics: []scene.BodySpec{{
				ID:         "box",
				Type:       scene.Rectangle,
				Position:   scene.Vec2{X: 150, Y: 370},
				Dimensions: &scene.Dimensions{Width: 80, Height: 80},
				Physics: scene.BodyPhysics{
					Friction: fptr(0.5),
					Mass:     fptr(5),
					Inertia:  &scene.Inertia{Value: math.Inf(1)},
				},
			}},
		},
	}
}

func newSession(t *testing.T, doc *scene.Document) (*runtime.Session, *runtime.ManualClock) {
	t.Helper()
	clock := runtime.NewManualClock()
	s := runtime.NewSession(doc, runtime.Options{Engine: chipmunk.New(), Clock: clock})
	require.NoError(t, s.Build())
	t.Cleanup(s.Teardown)
	return s, clock
}

func finiteState(t *testing.T, id string, b runtime.BodyState) {
	t.Helper()
	assert.True(t, b.Position.IsFinite(), "%s position %v", id, b.Position)
	assert.True(t, b.Velocity.IsFinite(), "%s velocity %v", id, b.Velocity)
	assert.False(t, math.IsNaN(b.Angle) || math.IsInf(b.Angle, 0), "%s angle %v", id, b.Angle)
	assert.False(t, math.IsNaN(b.AngularVelocity) || math.IsInf(b.AngularVelocity, 0), "%s angular velocity %v", id, b.AngularVelocity)
}

func TestSession_FrictionlessCoasting(t *testing.T) {
	s, clock := newSession(t, boxOnGround())
	clock.Advance(10)

	s.SetProperty("ground", "friction", 0)
	assert.Equal(t, 0.0, s.Snapshot()["box"].Friction)
	assert.Equal(t, 0.0, s.Snapshot()["box"].FrictionAir)
	assert.Equal(t, 0.0, s.Snapshot()["box"].EffectiveFriction)

	var vx []float64
	s.SetSink(func(snap runtime.Snapshot) { vx = append(vx, snap["box"].Velocity.X) })
	s.ApplyForce("box", engine.Vector{X: 0.05})
	clock.Advance(60)

	require.Len(t, vx, 60)
	// 0.01 px/ms² for one 1/60 s step, in px per step
	want := 0.01 * 1e6 * engine.BaseStep * engine.BaseStep
	for i, v := range vx {
		assert.InDelta(t, want, v, 1e-3, "tick %d", i)
	}
}

func TestSession_GroundFrictionStopsBox(t *testing.T) {
	s, clock := newSession(t, boxOnGround())
	clock.Advance(10)

	s.ApplyForce("box", engine.Vector{X: 0.05})
	clock.Advance(1)
	assert.Greater(t, s.Snapshot()["box"].Velocity.X, 1.0)

	clock.Advance(180)
	assert.InDelta(t, 0, s.Snapshot()["box"].Velocity.X, 1e-2)
}

func TestSession_FlatPolygonStaysFinite(t *testing.T) {
	doc := boxOnGround()
	doc.Physics.Dynamics = append(doc.Physics.Dynamics, scene.BodySpec{
		ID:       "sliver",
		Type:     scene.Polygon,
		Position: scene.Vec2{X: 450, Y: 300},
		Vertices: []scene.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}},
	})
	s, clock := newSession(t, doc)

	clock.Advance(5)

	snap := s.Snapshot()
	require.Contains(t, snap, "sliver")
	for _, id := range snap.IDs() {
		finiteState(t, id, snap[id])
	}
}
