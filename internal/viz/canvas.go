package viz

import (
	"math"
	"strings"

	"github.com/san-kum/poelab/internal/engine"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas is
// Width*2 by Height*4 sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// DrawPolygon draws the closed outline through pts.
func (c *Canvas) DrawPolygon(pts [][2]int) {
	for i := range pts {
		j := (i + 1) % len(pts)
		c.DrawLine(pts[i][0], pts[i][1], pts[j][0], pts[j][1])
	}
}

// Viewport maps scene pixels onto canvas sub-pixels with one uniform scale,
// keeping the scene's aspect ratio.
type Viewport struct {
	Scale float64
}

// Fit returns the viewport that shows a w by h scene in full.
func (c *Canvas) Fit(w, h float64) Viewport {
	if w <= 0 || h <= 0 {
		return Viewport{Scale: 1}
	}
	return Viewport{Scale: math.Min(float64(c.Width*2)/w, float64(c.Height*4)/h)}
}

func (v Viewport) Point(p engine.Vector) [2]int {
	return [2]int{int(math.Round(p.X * v.Scale)), int(math.Round(p.Y * v.Scale))}
}

const circleSegments = 24

// DrawShape outlines a body at pos rotated by angle. Circles get a spoke so
// rotation stays visible; dynamic bodies get a centre mark.
func (c *Canvas) DrawShape(v Viewport, pos engine.Vector, angle float64, s engine.Shape, dynamic bool) {
	sin, cos := math.Sincos(angle)
	place := func(local engine.Vector) [2]int {
		return v.Point(engine.Vector{
			X: pos.X + local.X*cos - local.Y*sin,
			Y: pos.Y + local.X*sin + local.Y*cos,
		})
	}

	switch s.Kind {
	case engine.ShapeCircle:
		pts := make([][2]int, circleSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts[i] = place(engine.Vector{X: s.Radius * math.Cos(a), Y: s.Radius * math.Sin(a)})
		}
		c.DrawPolygon(pts)
		centre, rim := place(engine.Vector{}), place(engine.Vector{X: s.Radius})
		c.DrawLine(centre[0], centre[1], rim[0], rim[1])
		return
	case engine.ShapePolygon:
		pts := make([][2]int, len(s.Vertices))
		for i, vert := range s.Vertices {
			pts[i] = place(vert)
		}
		c.DrawPolygon(pts)
	default:
		hw, hh := s.Width/2, s.Height/2
		c.DrawPolygon([][2]int{
			place(engine.Vector{X: -hw, Y: -hh}),
			place(engine.Vector{X: hw, Y: -hh}),
			place(engine.Vector{X: hw, Y: hh}),
			place(engine.Vector{X: -hw, Y: hh}),
		})
	}
	if dynamic {
		p := place(engine.Vector{})
		c.Set(p[0], p[1])
		c.Set(p[0]+1, p[1])
		c.Set(p[0], p[1]+1)
		c.Set(p[0]+1, p[1]+1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
