package scene

import "math"

// Builder defaults for absent fields. Missing geometry is never an error.
const (
	DefaultStaticFriction     = 0.5
	DefaultStaticRestitution  = 0.1
	DefaultDynamicFriction    = 0.5
	DefaultDynamicRestitution = 0.05
	DefaultFrictionAir        = 0.0
	DefaultMass               = 5.0

	DefaultWidth         = 50.0
	DefaultHeight        = 50.0
	DefaultStaticWidth   = 800.0
	DefaultStaticHeight  = 40.0
	DefaultRadius        = 25.0
	DefaultPolygonRadius = 30.0
	DefaultSides         = 6

	DefaultBoundsWidth  = 700.0
	DefaultBoundsHeight = 450.0
	DefaultGravityScale = 0.001
)

// Coefficients are the resolved physics properties of a body.
type Coefficients struct {
	Friction       float64
	Restitution    float64
	FrictionAir    float64
	FrictionStatic float64
	Mass           float64
	// Inertia is zero when it should be derived from mass and shape,
	// +Inf when rotation is locked.
	Inertia float64
}

// Geometry is a resolved shape with every dimension present.
type Geometry struct {
	Kind     ShapeKind
	Width    float64
	Height   float64
	Radius   float64
	Sides    int
	Vertices []Vec2
}

// ResolveCoefficients fills absent coefficients with the builder defaults.
func (b BodySpec) ResolveCoefficients(static bool) Coefficients {
	c := Coefficients{
		Friction:    DefaultDynamicFriction,
		Restitution: DefaultDynamicRestitution,
		FrictionAir: DefaultFrictionAir,
		Mass:        DefaultMass,
	}
	if static {
		c.Friction = DefaultStaticFriction
		c.Restitution = DefaultStaticRestitution
	}
	p := b.Physics
	if p.Friction != nil {
		c.Friction = *p.Friction
	}
	if p.Restitution != nil {
		c.Restitution = *p.Restitution
	}
	c.FrictionStatic = c.Friction
	if static {
		return c
	}
	if p.FrictionAir != nil {
		c.FrictionAir = *p.FrictionAir
	}
	if p.FrictionStatic != nil {
		c.FrictionStatic = *p.FrictionStatic
	}
	if p.Mass != nil && *p.Mass > 0 {
		c.Mass = *p.Mass
	}
	if p.Inertia != nil {
		if p.Inertia.Infinite() {
			c.Inertia = math.Inf(1)
		} else if p.Inertia.Value > 0 {
			c.Inertia = p.Inertia.Value
		}
	}
	return c
}

// ResolveGeometry fills absent shape parameters. Unknown kinds are rectangles.
// Explicit polygon vertices are used only when they enclose an area; anything
// else falls back to a regular polygon.
func (b BodySpec) ResolveGeometry(static bool) Geometry {
	switch b.Type {
	case Circle:
		return Geometry{Kind: Circle, Radius: positiveOr(b.Radius, DefaultRadius)}
	case Polygon:
		if len(b.Vertices) >= 3 && enclosesArea(b.Vertices) {
			verts := make([]Vec2, len(b.Vertices))
			copy(verts, b.Vertices)
			return Geometry{Kind: Polygon, Vertices: verts}
		}
		sides := DefaultSides
		if b.Sides != nil && *b.Sides >= 3 {
			sides = *b.Sides
		}
		return Geometry{Kind: Polygon, Sides: sides, Radius: positiveOr(b.Radius, DefaultPolygonRadius)}
	}
	g := Geometry{Kind: Rectangle, Width: DefaultWidth, Height: DefaultHeight}
	if static {
		g.Width, g.Height = DefaultStaticWidth, DefaultStaticHeight
	}
	if d := b.Dimensions; d != nil {
		if d.Width > 0 {
			g.Width = d.Width
		}
		if d.Height > 0 {
			g.Height = d.Height
		}
	}
	return g
}

// ResolvedGravity is the gravity vector already multiplied by its scale.
func (w World) ResolvedGravity() Vec2 {
	g := Vec2{X: 0, Y: 1}
	if w.Gravity != nil {
		g = *w.Gravity
	}
	scale := DefaultGravityScale
	if w.GravityScale != nil {
		scale = *w.GravityScale
	}
	return Vec2{X: g.X * scale, Y: g.Y * scale}
}

// ResolvedBounds returns the world size, defaulting each absent dimension.
func (w World) ResolvedBounds() Bounds {
	b := Bounds{Width: DefaultBoundsWidth, Height: DefaultBoundsHeight}
	if w.Bounds != nil {
		if w.Bounds.Width > 0 {
			b.Width = w.Bounds.Width
		}
		if w.Bounds.Height > 0 {
			b.Height = w.Bounds.Height
		}
	}
	return b
}

func positiveOr(v *float64, def float64) float64 {
	if v != nil && *v > 0 {
		return *v
	}
	return def
}

// minPolygonArea is the smallest shoelace area, in px², accepted for explicit
// vertices.
const minPolygonArea = 1e-6

func enclosesArea(verts []Vec2) bool {
	var twice float64
	for i, v := range verts {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return false
		}
		w := verts[(i+1)%len(verts)]
		twice += v.X*w.Y - w.X*v.Y
	}
	return math.Abs(twice)/2 > minPolygonArea
}
