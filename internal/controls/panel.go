// Package controls holds the state of a scene's control widgets and turns
// widget interactions into control-surface calls.
package controls

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
)

// Surface is the part of a session the widgets drive.
type Surface interface {
	ApplyForce(id string, force engine.Vector)
	SetProperty(id, name string, v float64)
	LaunchCollision(launches []runtime.Launch)
	Reset()
}

type widget struct {
	ctrl     scene.Control
	value    float64
	selected int
	on       bool
	touched  bool
}

// Panel is the set of widgets of one document, sliders first, then
// dropdowns, buttons and toggles.
type Panel struct {
	surface Surface
	widgets []*widget
	byID    map[string]*widget
	pushes  int
	log     *slog.Logger
}

func New(ctrls []scene.Control, surface Surface, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Panel{
		surface: surface,
		byID:    make(map[string]*widget, len(ctrls)),
		log:     logger,
	}
	for _, kind := range []scene.ControlKind{scene.Slider, scene.Dropdown, scene.Button, scene.Toggle} {
		for _, c := range ctrls {
			if c.Type != kind {
				continue
			}
			w := newWidget(c)
			p.widgets = append(p.widgets, w)
			p.byID[c.ID] = w
		}
	}
	return p
}

func newWidget(c scene.Control) *widget {
	w := &widget{ctrl: c, selected: -1}
	switch c.Type {
	case scene.Slider:
		if c.DefaultValue != nil {
			w.value = *c.DefaultValue
		} else if c.Range != nil {
			w.value = c.Range.Min
		}
	case scene.Dropdown:
		if c.DefaultValue != nil {
			for i, o := range c.Options {
				if o.Value == *c.DefaultValue {
					w.selected = i
					w.value = o.Value
				}
			}
		}
	}
	return w
}

// Controls returns the widgets' controls in display order.
func (p *Panel) Controls() []scene.Control {
	out := make([]scene.Control, len(p.widgets))
	for i, w := range p.widgets {
		out[i] = w.ctrl
	}
	return out
}

func (p *Panel) Len() int { return len(p.widgets) }

// Pushes counts applied forces since the last reset action.
func (p *Panel) Pushes() int { return p.pushes }

// Value returns the current value of a slider or dropdown, or 1/0 for a
// toggle.
func (p *Panel) Value(id string) (float64, bool) {
	w, ok := p.byID[id]
	if !ok {
		return 0, false
	}
	switch w.ctrl.Type {
	case scene.Toggle:
		if w.on {
			return 1, true
		}
		return 0, true
	case scene.Slider:
		return w.value, true
	case scene.Dropdown:
		return w.value, w.selected >= 0
	}
	return 0, false
}

// Set moves a slider to v, clamped to its range and snapped to its step, or
// selects the dropdown option whose value is v. The resulting value is
// written to the target.
func (p *Panel) Set(id string, v float64) bool {
	w, ok := p.byID[id]
	if !ok || math.IsNaN(v) {
		return false
	}
	switch w.ctrl.Type {
	case scene.Slider:
		w.value = snap(w.ctrl.Range, v)
		w.touched = true
		p.write(w.ctrl.Target, w.ctrl.Property, w.value)
		return true
	case scene.Dropdown:
		for i, o := range w.ctrl.Options {
			if o.Value == v {
				return p.Select(id, i)
			}
		}
	}
	return false
}

// Nudge moves a slider by steps range steps, or a dropdown by steps options.
func (p *Panel) Nudge(id string, steps int) bool {
	w, ok := p.byID[id]
	if !ok {
		return false
	}
	switch w.ctrl.Type {
	case scene.Slider:
		step := 0.0
		if r := w.ctrl.Range; r != nil {
			step = r.Step
			if step <= 0 {
				step = (r.Max - r.Min) / 20
			}
		}
		return p.Set(id, w.value+float64(steps)*step)
	case scene.Dropdown:
		if len(w.ctrl.Options) == 0 {
			return false
		}
		i := w.selected + steps
		if w.selected < 0 && steps < 0 {
			i = 0
		}
		return p.Select(id, clampIndex(i, len(w.ctrl.Options)))
	}
	return false
}

func (p *Panel) Select(id string, index int) bool {
	w, ok := p.byID[id]
	if !ok || w.ctrl.Type != scene.Dropdown || index < 0 || index >= len(w.ctrl.Options) {
		return false
	}
	w.selected = index
	w.value = w.ctrl.Options[index].Value
	w.touched = true
	p.write(w.ctrl.Target, w.ctrl.Property, w.value)
	return true
}

// Toggle flips a toggle and writes 1 or 0 to its toggle property.
func (p *Panel) Toggle(id string) bool {
	w, ok := p.byID[id]
	if !ok || w.ctrl.Type != scene.Toggle {
		return false
	}
	w.on = !w.on
	w.touched = true
	v := 0.0
	if w.on {
		v = 1
	}
	p.write(w.ctrl.Target, w.ctrl.ToggleProperty, v)
	return true
}

// Press runs a button's action.
func (p *Panel) Press(id string) bool {
	w, ok := p.byID[id]
	if !ok || w.ctrl.Type != scene.Button {
		return false
	}
	c := w.ctrl
	params := c.ActionParams
	switch c.Action {
	case scene.ActionApplyForce:
		if c.Target == "" || params == nil || params.Force == nil {
			p.log.Warn("applyForce without target or force", "control", c.ID)
			return false
		}
		p.surface.ApplyForce(c.Target, engine.Vector{X: params.Force.X, Y: params.Force.Y})
		p.pushes++
	case scene.ActionReset:
		p.Reset()
	case scene.ActionLaunchCollision:
		if params == nil || params.ObjectA == nil || params.ObjectB == nil {
			p.log.Warn("launchCollision needs objectA and objectB", "control", c.ID)
			return false
		}
		p.surface.LaunchCollision([]runtime.Launch{launch(params.ObjectA), launch(params.ObjectB)})
	default:
		p.log.Warn("unknown action", "control", c.ID, "action", c.Action)
		return false
	}
	return true
}

// Reset rebuilds the world and writes every widget the learner has changed
// back to it, so settings survive the rebuild. The push counter restarts.
func (p *Panel) Reset() {
	p.surface.Reset()
	p.pushes = 0
	for _, w := range p.widgets {
		if !w.touched {
			continue
		}
		switch w.ctrl.Type {
		case scene.Slider, scene.Dropdown:
			p.write(w.ctrl.Target, w.ctrl.Property, w.value)
		case scene.Toggle:
			v := 0.0
			if w.on {
				v = 1
			}
			p.write(w.ctrl.Target, w.ctrl.ToggleProperty, v)
		}
	}
}

// Display renders a widget's label with its current value.
func (p *Panel) Display(id string) string {
	w, ok := p.byID[id]
	if !ok {
		return ""
	}
	c := w.ctrl
	switch c.Type {
	case scene.Slider:
		s := fmt.Sprintf("%s: %.2f", c.Label, w.value)
		if c.Unit != "" {
			s += " " + c.Unit
		}
		return s
	case scene.Dropdown:
		if w.selected < 0 {
			return c.Label + ": -"
		}
		return c.Label + ": " + c.Options[w.selected].Label
	case scene.Toggle:
		if w.on {
			return c.Label + ": on"
		}
		return c.Label + ": off"
	default:
		return "[" + c.Label + "]"
	}
}

func (p *Panel) write(target, property string, v float64) {
	if target == "" || property == "" {
		p.log.Debug("control without target", "property", property)
		return
	}
	p.surface.SetProperty(target, property, v)
}

func launch(l *scene.Launch) runtime.Launch {
	return runtime.Launch{ID: l.ID, Velocity: engine.Vector{X: l.Velocity.X, Y: l.Velocity.Y}}
}

func snap(r *scene.Range, v float64) float64 {
	if r == nil || r.Max < r.Min {
		return v
	}
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
