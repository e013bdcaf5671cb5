// Package engine defines the physics-engine capability the runtime consumes.
//
// The runtime never integrates motion itself. It asks an [Engine] for a
// [World], adds bodies to it, mutates them and steps it:
//
//   - [World]: a stepping simulation space owning its bodies
//   - [Body]: one rigid body, static or dynamic
//   - [BodyOptions]: everything needed to create a body
//
// All quantities use scenario units: positions in px, velocities in px per
// base step (1/60 s), forces in mass·px/ms² and gravity in px/ms². Adapters
// convert to their native units internally.
//
// # Thread Safety
//
// Worlds and bodies are NOT thread-safe. Callers serialize all access.
package engine

import "math"

// BaseStep is the step duration velocities are expressed against.
const BaseStep = 1.0 / 60.0

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector) Add(o Vector) Vector    { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector    { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f} }
func (v Vector) Len() float64           { return math.Hypot(v.X, v.Y) }

// IsFinite reports whether both components are finite numbers.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	default:
		return "rectangle"
	}
}

// Shape is fully resolved geometry. Polygon vertices are relative to the
// body position.
type Shape struct {
	Kind     ShapeKind
	Width    float64
	Height   float64
	Radius   float64
	Vertices []Vector
}

// Area returns the shape's surface, used for density.
func (s Shape) Area() float64 {
	switch s.Kind {
	case ShapeCircle:
		return math.Pi * s.Radius * s.Radius
	case ShapePolygon:
		return math.Abs(SignedArea(s.Vertices))
	default:
		return s.Width * s.Height
	}
}

// SignedArea is positive for counter-clockwise winding.
func SignedArea(verts []Vector) float64 {
	var a float64
	for i := range verts {
		j := (i + 1) % len(verts)
		a += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return a / 2
}

// Centroid returns the area centroid of a simple polygon.
func Centroid(verts []Vector) Vector {
	a := SignedArea(verts)
	if a == 0 {
		var c Vector
		for _, v := range verts {
			c = c.Add(v)
		}
		if len(verts) > 0 {
			c = c.Scale(1 / float64(len(verts)))
		}
		return c
	}
	var cx, cy float64
	for i := range verts {
		j := (i + 1) % len(verts)
		cross := verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
		cx += (verts[i].X + verts[j].X) * cross
		cy += (verts[i].Y + verts[j].Y) * cross
	}
	return Vector{cx / (6 * a), cy / (6 * a)}
}

// RegularPolygon returns n counter-clockwise vertices on a circle of radius r.
func RegularPolygon(n int, r float64) []Vector {
	verts := make([]Vector, n)
	offset := math.Pi / float64(n)
	for i := 0; i < n; i++ {
		angle := offset + 2*math.Pi*float64(i)/float64(n)
		verts[i] = Vector{r * math.Cos(angle), r * math.Sin(angle)}
	}
	return verts
}

type WorldOptions struct {
	Gravity Vector
	Width   float64
	Height  float64
}

// BodyOptions describes a body to create. Inertia 0 means derive it from
// mass and shape; +Inf locks rotation.
type BodyOptions struct {
	Label          string
	Static         bool
	Position       Vector
	Shape          Shape
	Friction       float64
	Restitution    float64
	FrictionAir    float64
	FrictionStatic float64
	Mass           float64
	Inertia        float64
}

type Engine interface {
	NewWorld(opts WorldOptions) World
}

type World interface {
	AddBody(opts BodyOptions) Body
	// Step integrates one step of dt seconds. Forces applied since the
	// previous step are consumed by it.
	Step(dt float64)
	// Clear removes and releases every body. The world is unusable after.
	Clear()
}

type Body interface {
	Label() string
	Static() bool
	Shape() Shape

	Position() Vector
	Angle() float64
	SetAngle(a float64)
	Velocity() Vector
	SetVelocity(v Vector)
	AngularVelocity() float64
	SetAngularVelocity(w float64)

	// ApplyForce adds a force at a world point for the next step.
	ApplyForce(point, force Vector)

	Friction() float64
	SetFriction(f float64)
	FrictionAir() float64
	SetFrictionAir(f float64)
	FrictionStatic() float64
	SetFrictionStatic(f float64)
	Restitution() float64
	SetRestitution(r float64)

	Mass() float64
	// SetMass rescales inertia proportionally unless rotation is locked.
	SetMass(m float64)
	SetDensity(d float64)
	Inertia() float64
	SetInertia(i float64)
}
