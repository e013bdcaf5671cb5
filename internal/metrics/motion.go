package metrics

import (
	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
)

// RestSpeed is the speed in px/step below which a body counts as resting.
const RestSpeed = 0.01

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{name: "peak_speed"} }

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(snap runtime.Snapshot, t float64) {
	for _, s := range snap {
		if s.Speed > p.peak {
			p.peak = s.Speed
		}
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// Distance is the path length travelled by one body.
type Distance struct {
	name    string
	id      string
	last    engine.Vector
	started bool
	total   float64
}

func NewDistance(id string) *Distance {
	return &Distance{name: "distance_" + id, id: id}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(snap runtime.Snapshot, t float64) {
	s, ok := snap[d.id]
	if !ok {
		return
	}
	if d.started {
		d.total += s.Position.Sub(d.last).Len()
	}
	d.last, d.started = s.Position, true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.total = 0
	d.started = false
}

// AtRest is the fraction of ticks in which every body moved slower than
// the threshold. An empty run counts as fully at rest.
type AtRest struct {
	name      string
	threshold float64
	resting   int
	samples   int
}

func NewAtRest(threshold float64) *AtRest {
	return &AtRest{
		name:      "at_rest",
		threshold: threshold,
	}
}

func (a *AtRest) Name() string { return a.name }

func (a *AtRest) Observe(snap runtime.Snapshot, t float64) {
	a.samples++
	for _, s := range snap {
		if s.Speed > a.threshold {
			return
		}
	}
	a.resting++
}

func (a *AtRest) Value() float64 {
	if a.samples == 0 {
		return 1.0
	}
	return float64(a.resting) / float64(a.samples)
}

func (a *AtRest) Reset() {
	a.resting = 0
	a.samples = 0
}
