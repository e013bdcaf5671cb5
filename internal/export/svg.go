package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
)

const (
	defaultStatic  = "#2c3e50"
	defaultDynamic = "#3498db"
	trailColor     = "#ffcb6b"
)

// SceneSVG draws the current bodies of s in scene coordinates, filled with
// their document appearance, plus the path every dynamic body took in tr.
// tr may be nil.
func SceneSVG(s *runtime.Session, tr *Trace) string {
	doc := s.Document()
	b := doc.Physics.World.ResolvedBounds()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<title>%s</title>
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, b.Width, b.Height, b.Width, b.Height, escape(doc.Scenario.Title))

	bodies := s.GetAllBodies()
	for _, id := range s.IDs() {
		h := bodies[id]
		st, ok := h.State()
		if !ok {
			continue
		}
		shape, _ := h.Shape()
		spec, _, _ := doc.Body(id)
		writeBody(&sb, id, st, shape, style(spec.Appearance, h.Static()))
	}

	if tr != nil {
		for _, d := range doc.Physics.Dynamics {
			writeTrail(&sb, tr.Path(d.ID))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func style(a *scene.Appearance, static bool) string {
	fill, stroke, opacity := defaultDynamic, "none", 1.0
	if static {
		fill = defaultStatic
	}
	if a != nil {
		if a.FillColor != "" {
			fill = a.FillColor
		}
		if a.StrokeColor != "" {
			stroke = a.StrokeColor
		}
		if a.Opacity != nil {
			opacity = *a.Opacity
		}
	}
	return fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="2" opacity="%.2f"`, escape(fill), escape(stroke), opacity)
}

func writeBody(sb *strings.Builder, id string, st runtime.BodyState, s engine.Shape, attrs string) {
	deg := st.Angle * 180 / math.Pi
	transform := fmt.Sprintf(`transform="translate(%.2f %.2f) rotate(%.2f)"`, st.Position.X, st.Position.Y, deg)

	switch s.Kind {
	case engine.ShapeCircle:
		fmt.Fprintf(sb, `<circle id="%s" %s cx="0" cy="0" r="%.2f" %s/>`+"\n", escape(id), transform, s.Radius, attrs)
	case engine.ShapePolygon:
		pts := make([]string, len(s.Vertices))
		for i, v := range s.Vertices {
			pts[i] = fmt.Sprintf("%.2f,%.2f", v.X, v.Y)
		}
		fmt.Fprintf(sb, `<polygon id="%s" %s points="%s" %s/>`+"\n", escape(id), transform, strings.Join(pts, " "), attrs)
	default:
		fmt.Fprintf(sb, `<rect id="%s" %s x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n",
			escape(id), transform, -s.Width/2, -s.Height/2, s.Width, s.Height, attrs)
	}
}

func writeTrail(sb *strings.Builder, path []engine.Vector) {
	if len(path) < 2 {
		return
	}
	sb.WriteString(`<path fill="none" stroke="` + trailColor + `" stroke-width="1.5" stroke-dasharray="4 3" d="M`)
	for i, p := range path {
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString(`"/>` + "\n")
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
