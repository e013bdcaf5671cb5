package runtime

import (
	"math"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/engine/enginetest"
	"github.com/san-kum/poelab/internal/scene"
)

func fptr(v float64) *float64 { return &v }

func rect(id string, x, y, w, h float64, phys scene.BodyPhysics) scene.BodySpec {
	return scene.BodySpec{
		ID:         id,
		Type:       scene.Rectangle,
		Position:   scene.Vec2{X: x, Y: y},
		Dimensions: &scene.Dimensions{Width: w, Height: h},
		Physics:    phys,
	}
}

// frictionScene is a box resting on a 700 px ground.
func frictionScene() *scene.Document {
	return &scene.Document{
		ID:      "friction",
		Version: "1.0",
		Physics: scene.Physics{
			World: scene.World{Gravity: &scene.Vec2{X: 0, Y: 1}},
			Statics: []scene.BodySpec{
				rect("ground", 350, 430, 700, 40, scene.BodyPhysics{Friction: fptr(0.5)}),
			},
			Dynamics: []scene.BodySpec{
				rect("box", 150, 370, 80, 80, scene.BodyPhysics{
					Friction: fptr(0.5),
					Mass:     fptr(5),
					Inertia:  &scene.Inertia{Value: math.Inf(1)},
				}),
			},
		},
	}
}

// twoBodyScene adds a second box and a wall to frictionScene.
func twoBodyScene() *scene.Document {
	doc := frictionScene()
	doc.ID = "two-body"
	doc.Physics.Statics = append(doc.Physics.Statics,
		rect("wall", 690, 300, 20, 200, scene.BodyPhysics{Friction: fptr(0.2)}))
	doc.Physics.Dynamics = append(doc.Physics.Dynamics,
		rect("crate", 450, 385, 50, 50, scene.BodyPhysics{Friction: fptr(0.8)}))
	return doc
}

func newTestSession(doc *scene.Document) (*Session, *enginetest.Engine, *ManualClock) {
	eng := enginetest.New()
	clock := NewManualClock()
	return NewSession(doc, Options{Engine: eng, Clock: clock}), eng, clock
}

func vec(x, y float64) engine.Vector { return engine.Vector{X: x, Y: y} }

func newEngine() *enginetest.Engine { return enginetest.New() }
