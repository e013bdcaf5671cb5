package runtime

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/scene"
)

type State int

const (
	Unbuilt State = iota
	Running
	TornDown
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Running:
		return "running"
	case TornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// Launch is one velocity override of a collision batch.
type Launch struct {
	ID       string
	Velocity engine.Vector
}

type Options struct {
	Engine engine.Engine
	// Clock defaults to a ManualClock.
	Clock Clock
	// Step is the integration step in seconds, engine.BaseStep by default.
	Step float64
	Sink Sink
	// Surface is closed on teardown.
	Surface io.Closer
	Logger  *slog.Logger
}

// Session is the world lifecycle manager and the control surface of one
// scene. It exclusively owns the engine world and the registry; callers
// reach bodies only through its methods or generation-bound handles.
type Session struct {
	engine  engine.Engine
	clock   Clock
	dt      float64
	sink    Sink
	surface io.Closer
	log     *slog.Logger

	doc   *scene.Document
	state State
	world engine.World
	reg   *Registry

	paused  bool
	ticks   int
	elapsed float64
}

func NewSession(doc *scene.Document, opts Options) *Session {
	s := &Session{
		engine:  opts.Engine,
		clock:   opts.Clock,
		dt:      opts.Step,
		sink:    opts.Sink,
		surface: opts.Surface,
		log:     opts.Logger,
		doc:     doc,
	}
	if s.clock == nil {
		s.clock = NewManualClock()
	}
	if s.dt <= 0 {
		s.dt = engine.BaseStep
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Session) State() State              { return s.state }
func (s *Session) Document() *scene.Document { return s.doc }
func (s *Session) Generation() string        { return s.reg.Generation() }
func (s *Session) Ticks() int                { return s.ticks }
func (s *Session) Elapsed() float64          { return s.elapsed }
func (s *Session) Step() float64             { return s.dt }
func (s *Session) Paused() bool              { return s.paused }
func (s *Session) SetPaused(paused bool)     { s.paused = paused }
func (s *Session) SetSink(sink Sink)         { s.sink = sink }

// Build creates the world. It is only valid from Unbuilt.
func (s *Session) Build() error {
	switch s.state {
	case TornDown:
		return ErrTornDown
	case Running:
		return ErrInvalidTransition
	}
	if s.doc == nil {
		return ErrNoDocument
	}
	s.build()
	return nil
}

// Load replaces the document. Loading the document already in use does
// nothing; a new one rebuilds a running session immediately.
func (s *Session) Load(doc *scene.Document) error {
	if s.state == TornDown {
		return ErrTornDown
	}
	if doc == nil {
		return ErrNoDocument
	}
	if doc == s.doc {
		return nil
	}
	s.doc = doc
	if s.state == Running {
		s.rebuild("document changed")
	}
	return nil
}

// Reset discards the world and builds it again from the same document.
// An unbuilt session is built for the first time; a torn down one is left
// alone.
func (s *Session) Reset() {
	switch s.state {
	case TornDown:
		return
	case Unbuilt:
		if err := s.Build(); err != nil {
			s.log.Warn("reset failed", "error", err)
		}
		return
	}
	s.rebuild("reset")
}

// Teardown releases the world and the surface. The session cannot be used
// afterwards.
func (s *Session) Teardown() {
	if s.state == TornDown {
		return
	}
	s.shutdown()
	s.state = TornDown
	if s.surface != nil {
		if err := s.surface.Close(); err != nil {
			s.log.Warn("closing surface", "error", err)
		}
		s.surface = nil
	}
	s.log.Info("session torn down", "scene", s.sceneID())
}

// Tick advances the world by one step and delivers the snapshot.
func (s *Session) Tick() {
	if s.state != Running || s.paused {
		return
	}
	s.world.Step(s.dt)
	s.ticks++
	s.elapsed += s.dt

	snap := Observe(s.reg)
	if s.sink != nil {
		s.sink(snap)
	}
}

// Snapshot observes the current world without stepping it.
func (s *Session) Snapshot() Snapshot { return Observe(s.reg) }

func (s *Session) ApplyForce(id string, force engine.Vector) {
	e, ok := s.resolve(id, "apply force")
	if !ok || e.static {
		return
	}
	if !force.IsFinite() {
		s.log.Debug("ignoring non-finite force", "id", id)
		return
	}
	e.body.ApplyForce(e.body.Position(), force)
}

func (s *Session) SetProperty(id, name string, v float64) {
	p, ok := ParseProperty(name)
	if !ok {
		s.log.Debug("unknown property", "id", id, "property", name)
		return
	}
	if _, ok := s.resolve(id, "set property"); !ok {
		return
	}
	if !s.reg.setProperty(id, p, v) {
		s.log.Debug("property value ignored", "id", id, "property", name, "value", v)
	}
}

func (s *Session) SetVelocity(id string, v engine.Vector) {
	e, ok := s.resolve(id, "set velocity")
	if !ok || e.static {
		return
	}
	if !v.IsFinite() {
		s.log.Debug("ignoring non-finite velocity", "id", id)
		return
	}
	e.body.SetVelocity(v)
}

// LaunchCollision applies every override against the current registry
// before the next step.
func (s *Session) LaunchCollision(launches []Launch) {
	for _, l := range launches {
		s.SetVelocity(l.ID, l.Velocity)
	}
}

// GetBody returns a handle bound to the current generation.
func (s *Session) GetBody(id string) (*Handle, bool) {
	e, ok := s.reg.lookup(id)
	if !ok {
		return nil, false
	}
	return &Handle{reg: s.reg, id: id, static: e.static}, true
}

// GetAllBodies returns a fresh map of handles; changing it has no effect
// on the session.
func (s *Session) GetAllBodies() map[string]*Handle {
	all := make(map[string]*Handle, s.reg.Len())
	s.reg.each(func(e *entry) {
		all[e.id] = &Handle{reg: s.reg, id: e.id, static: e.static}
	})
	return all
}

// IDs returns the registered ids, statics first, in document order.
func (s *Session) IDs() []string { return s.reg.IDs() }

func (s *Session) resolve(id, op string) (*entry, bool) {
	e, ok := s.reg.lookup(id)
	if !ok {
		s.log.Debug("unknown body", "op", op, "id", id, "state", s.state)
	}
	return e, ok
}

func (s *Session) build() {
	world := s.engine.NewWorld(WorldOptions(s.doc.Physics.World))
	reg := Build(world, s.doc.Physics)
	reg.generation = uuid.NewString()

	if n := len(s.doc.Physics.Statics) + len(s.doc.Physics.Dynamics); reg.Len() != n {
		s.log.Warn("duplicate body ids", "scene", s.doc.ID, "bodies", n, "registered", reg.Len())
	}

	s.world, s.reg = world, reg
	s.state = Running
	s.ticks, s.elapsed = 0, 0
	s.clock.Start(s.Tick)

	s.log.Info("world built", "scene", s.doc.ID, "generation", reg.generation, "bodies", reg.Len())
}

func (s *Session) rebuild(reason string) {
	s.log.Info("rebuilding world", "scene", s.sceneID(), "reason", reason)
	s.shutdown()
	s.build()
}

// shutdown stops scheduling before anything is released.
func (s *Session) shutdown() {
	s.clock.Stop()
	if s.reg != nil {
		s.reg.detach()
	}
	if s.world != nil {
		s.world.Clear()
	}
	s.world, s.reg = nil, nil
}

func (s *Session) sceneID() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.ID
}
