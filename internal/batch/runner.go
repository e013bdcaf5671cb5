// Package batch runs scenarios headless: one run with scripted pushes and
// property changes, or a whole plan of runs and parameter sweeps spread
// over a worker pool.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/export"
	"github.com/san-kum/poelab/internal/metrics"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
)

// checkEvery is how many ticks run between context checks.
const checkEvery = 60

// Spec describes one headless run.
type Spec struct {
	Name     string   `yaml:"name"`
	Scenario string   `yaml:"scenario"`
	Duration float64  `yaml:"duration"`
	Dt       float64  `yaml:"dt,omitempty"`
	Push     []string `yaml:"push,omitempty"`
	Set      []string `yaml:"set,omitempty"`
}

func (s Spec) step() float64 {
	if s.Dt > 0 {
		return s.Dt
	}
	return engine.BaseStep
}

// Steps is the number of ticks the run takes.
func (s Spec) Steps() int {
	return int(s.Duration/s.step() + 0.5)
}

type Result struct {
	Spec    Spec
	Ticks   int
	Elapsed float64
	Final   runtime.Snapshot
	Metrics map[string]float64
	Trace   *export.Trace
}

// Recorder is the session sink of a headless run. It feeds the metrics and
// the trace and fires scheduled events after every tick.
type Recorder struct {
	session *runtime.Session
	sched   *Schedule
	metrics metrics.Set
	trace   *export.Trace
	log     *slog.Logger
	limit   int
}

// NewRecorder tracks the default metrics plus the distance covered by every
// dynamic body of doc.
func NewRecorder(doc *scene.Document, dt float64, sched *Schedule, log *slog.Logger) *Recorder {
	if sched == nil {
		sched = &Schedule{}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Recorder{
		sched:   sched,
		metrics: metrics.Default(),
		trace:   export.NewTrace(doc.ID, dt),
		log:     log,
	}
	for _, d := range doc.Physics.Dynamics {
		r.metrics = append(r.metrics, metrics.NewDistance(d.ID))
	}
	return r
}

// Bind attaches the session whose clock and bodies the recorder uses. It
// must be called before the session ticks.
func (r *Recorder) Bind(s *runtime.Session) { r.session = s }

// StopAfter pauses the session from the sink once it has ticked n times, so
// a free-running clock cannot step past the limit. Zero means no limit.
func (r *Recorder) StopAfter(n int) { r.limit = n }

func (r *Recorder) Observe(snap runtime.Snapshot) {
	t := r.session.Elapsed()
	r.metrics.Observe(snap, t)
	r.trace.Record(t, snap)
	if r.limit > 0 && r.session.Ticks() >= r.limit {
		r.session.SetPaused(true)
		return
	}
	r.Fire(t)
}

// Fire runs the events due by t; they act on the next step.
func (r *Recorder) Fire(t float64) {
	for _, desc := range r.sched.Fire(r.session, t) {
		r.log.Info("event", "t", t, "action", desc)
	}
}

func (r *Recorder) Metrics() metrics.Set { return r.metrics }
func (r *Recorder) Trace() *export.Trace { return r.trace }

// Run builds doc on eng and steps it for spec.Duration as fast as possible.
func Run(ctx context.Context, doc *scene.Document, spec Spec, eng engine.Engine, log *slog.Logger) (*Result, error) {
	sched, err := NewSchedule(spec.Push, spec.Set)
	if err != nil {
		return nil, err
	}
	rec := NewRecorder(doc, spec.step(), sched, log)
	clock := runtime.NewManualClock()
	session := runtime.NewSession(doc, runtime.Options{
		Engine: eng,
		Clock:  clock,
		Step:   spec.step(),
		Sink:   rec.Observe,
		Logger: log,
	})
	rec.Bind(session)
	if err := session.Build(); err != nil {
		return nil, err
	}
	defer session.Teardown()
	rec.Fire(0)

	for left := spec.Steps(); left > 0; left -= checkEvery {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clock.Advance(min(left, checkEvery))
	}

	values := rec.metrics.Values()
	rec.trace.Metrics = values
	return &Result{
		Spec:    spec,
		Ticks:   session.Ticks(),
		Elapsed: session.Elapsed(),
		Final:   session.Snapshot(),
		Metrics: values,
		Trace:   rec.trace,
	}, nil
}

// Resolver loads the document a spec names.
type Resolver func(ref string) (*scene.Document, error)

// RunAll runs specs on at most workers goroutines, each with its own
// engine, and returns the results in spec order. Documents are resolved up
// front so a bad reference fails before anything runs.
func RunAll(ctx context.Context, specs []Spec, resolve Resolver, newEngine func() engine.Engine, workers int, log *slog.Logger) ([]*Result, error) {
	docs := make([]*scene.Document, len(specs))
	for i, spec := range specs {
		doc, err := resolve(spec.Scenario)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		docs[i] = doc
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(specs))
	errs := make([]error, len(specs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range specs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = Run(ctx, docs[idx], specs[idx], newEngine(), log)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", specs[i].Name, err)
		}
	}

	return results, nil
}
