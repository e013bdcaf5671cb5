package runtime

import (
	"math"

	"github.com/san-kum/poelab/internal/engine"
)

// Property is a body property writable through the control surface.
type Property int

const (
	PropUnknown Property = iota
	PropFriction
	PropMass
	PropFrictionAir
	PropRestitution
	PropDensity
	PropFrictionStatic
	PropAngle
	PropAngularVelocity
	PropInertia
)

// AirFrictionPerFriction scales a ground friction write into the air drag
// of every dynamic body.
const AirFrictionPerFriction = 0.015

var propertyNames = map[string]Property{
	"friction":        PropFriction,
	"mass":            PropMass,
	"frictionAir":     PropFrictionAir,
	"restitution":     PropRestitution,
	"density":         PropDensity,
	"frictionStatic":  PropFrictionStatic,
	"angle":           PropAngle,
	"angularVelocity": PropAngularVelocity,
	"inertia":         PropInertia,
}

// ParseProperty maps a document property name to a Property.
func ParseProperty(name string) (Property, bool) {
	p, ok := propertyNames[name]
	return p, ok
}

func (p Property) String() string {
	for name, q := range propertyNames {
		if q == p {
			return name
		}
	}
	return "unknown"
}

// setProperty writes v to the body registered under id. It reports whether
// anything was written.
func (r *Registry) setProperty(id string, p Property, v float64) bool {
	e, ok := r.lookup(id)
	if !ok {
		return false
	}
	if !finite(v) && !(p == PropInertia && math.IsInf(v, 1)) {
		return false
	}

	b := e.body
	switch p {
	case PropFriction:
		b.SetFriction(v)
		if e.static {
			r.each(func(d *entry) {
				if d.static {
					return
				}
				d.body.SetFriction(v)
				d.body.SetFrictionAir(v * AirFrictionPerFriction)
				d.body.SetFrictionStatic(v)
			})
		}
	case PropMass:
		if v <= 0 {
			return false
		}
		b.SetMass(v)
	case PropFrictionAir:
		b.SetFrictionAir(v)
	case PropRestitution:
		b.SetRestitution(v)
	case PropDensity:
		if v <= 0 {
			return false
		}
		b.SetDensity(v)
	default:
		return assign(b, p, v)
	}
	return true
}

// assign is the default branch: plain field writes with no side effects.
func assign(b engine.Body, p Property, v float64) bool {
	switch p {
	case PropFrictionStatic:
		b.SetFrictionStatic(v)
	case PropAngle:
		b.SetAngle(v)
	case PropAngularVelocity:
		b.SetAngularVelocity(v)
	case PropInertia:
		b.SetInertia(v)
	default:
		return false
	}
	return true
}
