package controls

import (
	"testing"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/engine/enginetest"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op       string
	id       string
	name     string
	value    float64
	vec      engine.Vector
	launches []runtime.Launch
}

type recorder struct{ calls []call }

func (r *recorder) ApplyForce(id string, f engine.Vector) {
	r.calls = append(r.calls, call{op: "force", id: id, vec: f})
}

func (r *recorder) SetProperty(id, name string, v float64) {
	r.calls = append(r.calls, call{op: "set", id: id, name: name, value: v})
}

func (r *recorder) LaunchCollision(l []runtime.Launch) {
	r.calls = append(r.calls, call{op: "launch", launches: l})
}

func (r *recorder) Reset() { r.calls = append(r.calls, call{op: "reset"}) }

func (r *recorder) last() call { return r.calls[len(r.calls)-1] }

func fptr(v float64) *float64 { return &v }

func sampleControls() []scene.Control {
	return []scene.Control{
		{ID: "push", Type: scene.Button, Label: "Push", Target: "box", Action: scene.ActionApplyForce,
			ActionParams: &scene.ActionParams{Force: &scene.Vec2{X: 0.05}}},
		{ID: "friction", Type: scene.Slider, Label: "Friction", Target: "ground", Property: "friction",
			Range: &scene.Range{Min: 0, Max: 1, Step: 0.05}, DefaultValue: fptr(0.5)},
		{ID: "wind", Type: scene.Toggle, Label: "Wind", Target: "box", ToggleProperty: "frictionAir"},
		{ID: "surface", Type: scene.Dropdown, Label: "Surface", Target: "ground", Property: "friction",
			Options: []scene.Option{{Label: "Ice", Value: 0.05}, {Label: "Wood", Value: 0.4}, {Label: "Carpet", Value: 0.8}}},
		{ID: "reset", Type: scene.Button, Label: "Reset", Action: scene.ActionReset},
		{ID: "mass", Type: scene.Slider, Label: "Mass", Target: "box", Property: "mass", Unit: "kg",
			Range: &scene.Range{Min: 1, Max: 10, Step: 1}},
		{ID: "collide", Type: scene.Button, Label: "Collide", Action: scene.ActionLaunchCollision,
			ActionParams: &scene.ActionParams{
				ObjectA: &scene.Launch{ID: "a", Velocity: scene.Vec2{X: 5}},
				ObjectB: &scene.Launch{ID: "b", Velocity: scene.Vec2{X: -5}},
			}},
		{ID: "explode", Type: scene.Button, Label: "Explode", Action: "explode"},
	}
}

func TestPanel_Order(t *testing.T) {
	p := New(sampleControls(), &recorder{}, nil)

	var ids []string
	for _, c := range p.Controls() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"friction", "mass", "surface", "push", "reset", "collide", "explode", "wind"}, ids)
}

func TestPanel_SliderInitialValue(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	v, ok := p.Value("friction")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	v, _ = p.Value("mass")
	assert.Equal(t, 1.0, v)
	assert.Empty(t, rec.calls)
}

func TestPanel_SliderSet(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.3, 0.3},
		{0.33, 0.35},
		{-1, 0},
		{7, 1},
	}

	for _, tt := range tests {
		rec := &recorder{}
		p := New(sampleControls(), rec, nil)

		require.True(t, p.Set("friction", tt.in))
		got := rec.last()
		assert.Equal(t, "set", got.op)
		assert.Equal(t, "ground", got.id)
		assert.Equal(t, "friction", got.name)
		assert.InDelta(t, tt.want, got.value, 1e-9, "input %v", tt.in)
	}
}

func TestPanel_Nudge(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	require.True(t, p.Nudge("friction", -2))
	v, _ := p.Value("friction")
	assert.InDelta(t, 0.4, v, 1e-9)

	require.True(t, p.Nudge("surface", 1))
	assert.Equal(t, 0.05, rec.last().value)
	require.True(t, p.Nudge("surface", 5))
	assert.Equal(t, 0.8, rec.last().value)
	assert.Equal(t, "Surface: Carpet", p.Display("surface"))
}

func TestPanel_Dropdown(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	_, ok := p.Value("surface")
	assert.False(t, ok)

	assert.True(t, p.Set("surface", 0.4))
	assert.Equal(t, call{op: "set", id: "ground", name: "friction", value: 0.4}, rec.last())

	assert.False(t, p.Set("surface", 0.41))
	assert.False(t, p.Select("surface", 3))
	assert.False(t, p.Select("friction", 0))
}

func TestPanel_Toggle(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	require.True(t, p.Toggle("wind"))
	assert.Equal(t, call{op: "set", id: "box", name: "frictionAir", value: 1}, rec.last())
	assert.Equal(t, "Wind: on", p.Display("wind"))

	require.True(t, p.Toggle("wind"))
	assert.Equal(t, 0.0, rec.last().value)
	assert.False(t, p.Toggle("push"))
}

func TestPanel_Buttons(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	require.True(t, p.Press("push"))
	require.True(t, p.Press("push"))
	assert.Equal(t, call{op: "force", id: "box", vec: engine.Vector{X: 0.05}}, rec.last())
	assert.Equal(t, 2, p.Pushes())

	require.True(t, p.Press("collide"))
	assert.Equal(t, []runtime.Launch{
		{ID: "a", Velocity: engine.Vector{X: 5}},
		{ID: "b", Velocity: engine.Vector{X: -5}},
	}, rec.last().launches)

	require.True(t, p.Press("reset"))
	assert.Equal(t, "reset", rec.last().op)
	assert.Equal(t, 0, p.Pushes())

	n := len(rec.calls)
	assert.False(t, p.Press("explode"))
	assert.False(t, p.Press("friction"))
	assert.False(t, p.Press("missing"))
	assert.Len(t, rec.calls, n)
}

func TestPanel_Display(t *testing.T) {
	p := New(sampleControls(), &recorder{}, nil)

	assert.Equal(t, "Friction: 0.50", p.Display("friction"))
	assert.Equal(t, "Mass: 1.00 kg", p.Display("mass"))
	assert.Equal(t, "Surface: -", p.Display("surface"))
	assert.Equal(t, "[Push]", p.Display("push"))
	assert.Equal(t, "", p.Display("missing"))
}

func TestPanel_DrivesSession(t *testing.T) {
	ground := 0.5
	doc := &scene.Document{
		ID: "drive",
		Physics: scene.Physics{
			Statics:  []scene.BodySpec{{ID: "ground", Position: scene.Vec2{X: 350, Y: 430}, Physics: scene.BodyPhysics{Friction: &ground}}},
			Dynamics: []scene.BodySpec{{ID: "box", Position: scene.Vec2{X: 150, Y: 385}}},
		},
	}
	s := runtime.NewSession(doc, runtime.Options{Engine: enginetest.New()})
	require.NoError(t, s.Build())

	p := New(sampleControls(), s, nil)
	p.Set("friction", 0.2)

	st := s.Snapshot()["box"]
	assert.InDelta(t, 0.2, st.Friction, 1e-9)
	assert.InDelta(t, 0.2*runtime.AirFrictionPerFriction, st.FrictionAir, 1e-9)

	gen := s.Generation()
	p.Press("reset")
	assert.NotEqual(t, gen, s.Generation())
	assert.InDelta(t, 0.2, s.Snapshot()["box"].Friction, 1e-9)
}

func TestPanel_ResetReappliesTouchedWidgets(t *testing.T) {
	rec := &recorder{}
	p := New(sampleControls(), rec, nil)

	p.Reset()
	assert.Equal(t, []call{{op: "reset"}}, rec.calls)

	p.Set("mass", 4)
	p.Toggle("wind")
	rec.calls = nil

	p.Reset()
	assert.Equal(t, []call{
		{op: "reset"},
		{op: "set", id: "box", name: "mass", value: 4},
		{op: "set", id: "box", name: "frictionAir", value: 1},
	}, rec.calls)
	assert.Equal(t, 4.0, mustValue(t, p, "mass"))
}

func mustValue(t *testing.T, p *Panel, id string) float64 {
	t.Helper()
	v, ok := p.Value(id)
	require.True(t, ok)
	return v
}
