package runtime

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/poelab/internal/engine/enginetest"
	"github.com/san-kum/poelab/internal/scene"
)

type closer struct{ closed int }

func (c *closer) Close() error {
	c.closed++
	return errors.New("already gone")
}

var _ = Describe("Session", func() {
	var (
		s     *Session
		eng   *enginetest.Engine
		clock *ManualClock
		doc   *scene.Document
	)

	BeforeEach(func() {
		doc = twoBodyScene()
		s, eng, clock = newTestSession(doc)
	})

	Describe("lifecycle", func() {
		It("starts unbuilt with no bodies", func() {
			Expect(s.State()).To(Equal(Unbuilt))
			Expect(s.IDs()).To(BeEmpty())
			Expect(s.Snapshot()).To(BeEmpty())
			Expect(eng.Worlds).To(BeEmpty())
		})

		It("builds once", func() {
			Expect(s.Build()).To(Succeed())
			Expect(s.State()).To(Equal(Running))
			Expect(clock.Running()).To(BeTrue())
			Expect(s.Generation()).NotTo(BeEmpty())

			Expect(s.Build()).To(MatchError(ErrInvalidTransition))
			Expect(eng.Worlds).To(HaveLen(1))
		})

		It("refuses to build without a document", func() {
			s = NewSession(nil, Options{Engine: eng})
			Expect(s.Build()).To(MatchError(ErrNoDocument))
			Expect(s.State()).To(Equal(Unbuilt))
		})

		It("passes resolved gravity and bounds to the engine", func() {
			Expect(s.Build()).To(Succeed())
			opts := eng.Last().Options()
			Expect(opts.Gravity.Y).To(BeNumerically("~", 0.001, 1e-12))
			Expect(opts.Width).To(Equal(700.0))
		})

		It("resolves every configured id after build", func() {
			Expect(s.Build()).To(Succeed())
			for _, spec := range doc.Physics.Bodies() {
				_, ok := s.GetBody(spec.ID)
				Expect(ok).To(BeTrue(), spec.ID)
			}
			Expect(s.GetAllBodies()).To(HaveLen(4))
		})

		It("builds on the first reset", func() {
			s.Reset()
			Expect(s.State()).To(Equal(Running))
			Expect(eng.Worlds).To(HaveLen(1))
		})

		Context("when torn down", func() {
			var surface *closer

			BeforeEach(func() {
				surface = &closer{}
				s = NewSession(doc, Options{Engine: eng, Clock: clock, Surface: surface})
				Expect(s.Build()).To(Succeed())
				s.Teardown()
			})

			It("releases the world and the surface", func() {
				Expect(s.State()).To(Equal(TornDown))
				Expect(clock.Running()).To(BeFalse())
				Expect(eng.Last().Cleared()).To(BeTrue())
				Expect(surface.closed).To(Equal(1))
			})

			It("is terminal", func() {
				Expect(s.Build()).To(MatchError(ErrTornDown))
				Expect(s.Load(frictionScene())).To(MatchError(ErrTornDown))
				s.Reset()
				s.Teardown()
				Expect(s.State()).To(Equal(TornDown))
				Expect(eng.Worlds).To(HaveLen(1))
				Expect(surface.closed).To(Equal(1))
			})

			It("ignores control calls", func() {
				Expect(func() {
					s.ApplyForce("box", vec(1, 0))
					s.SetVelocity("box", vec(1, 0))
					s.SetProperty("ground", "friction", 0)
					s.Tick()
				}).NotTo(Panic())
				_, ok := s.GetBody("box")
				Expect(ok).To(BeFalse())
			})
		})

		It("can tear down an unbuilt session", func() {
			s.Teardown()
			Expect(s.State()).To(Equal(TornDown))
			Expect(eng.Worlds).To(BeEmpty())
		})
	})

	Describe("rebuild", func() {
		BeforeEach(func() {
			Expect(s.Build()).To(Succeed())
		})

		It("clears the old world before creating the new one", func() {
			first := eng.Last()
			clock.Advance(2)
			s.Reset()

			Expect(eng.Worlds).To(HaveLen(2))
			Expect(first.Cleared()).To(BeTrue())
			for _, b := range eng.Worlds[1].Bodies() {
				Expect(b.Released()).To(BeFalse())
			}
			Expect(s.Ticks()).To(Equal(0))

			clock.Advance(1)
			Expect(first.Steps()).To(Equal(2))
			Expect(eng.Last().Steps()).To(Equal(1))
		})

		It("issues a new generation", func() {
			gen := s.Generation()
			s.Reset()
			Expect(s.Generation()).NotTo(Equal(gen))
		})

		It("detaches handles taken before the reset", func() {
			old, ok := s.GetBody("box")
			Expect(ok).To(BeTrue())
			s.Reset()

			Expect(old.Detached()).To(BeTrue())
			Expect(func() {
				old.SetVelocity(vec(10, 0))
				old.ApplyForce(vec(1, 0))
				old.SetProperty("mass", 50)
			}).NotTo(Panic())

			_, ok = old.State()
			Expect(ok).To(BeFalse())

			fresh := s.Snapshot()["box"]
			Expect(fresh.Velocity).To(Equal(vec(0, 0)))
			Expect(fresh.Mass).To(Equal(5.0))
		})

		It("restores the initial state on every reset", func() {
			initial := s.Snapshot()
			s.SetVelocity("box", vec(4, 0))
			s.SetProperty("ground", "friction", 0.1)
			clock.Advance(10)

			s.Reset()
			first := s.Snapshot()
			s.Reset()
			second := s.Snapshot()

			Expect(first).To(Equal(initial))
			Expect(second).To(Equal(initial))
			Expect(s.IDs()).To(Equal([]string{"ground", "wall", "box", "crate"}))
		})

		It("keeps GetAllBodies a copy", func() {
			all := s.GetAllBodies()
			delete(all, "box")
			_, ok := s.GetBody("box")
			Expect(ok).To(BeTrue())
		})
	})

	Describe("Load", func() {
		It("does nothing for the same document", func() {
			Expect(s.Build()).To(Succeed())
			gen := s.Generation()
			Expect(s.Load(doc)).To(Succeed())
			Expect(s.Generation()).To(Equal(gen))
			Expect(eng.Worlds).To(HaveLen(1))
		})

		It("rebuilds a running session for a new document", func() {
			Expect(s.Build()).To(Succeed())
			Expect(s.Load(frictionScene())).To(Succeed())
			Expect(eng.Worlds).To(HaveLen(2))
			Expect(eng.Worlds[0].Cleared()).To(BeTrue())
			Expect(s.IDs()).To(Equal([]string{"ground", "box"}))
		})

		It("only stores the document while unbuilt", func() {
			next := frictionScene()
			Expect(s.Load(next)).To(Succeed())
			Expect(s.Document()).To(BeIdenticalTo(next))
			Expect(eng.Worlds).To(BeEmpty())
		})

		It("rejects a nil document", func() {
			Expect(s.Load(nil)).To(MatchError(ErrNoDocument))
		})
	})

	Describe("control surface", func() {
		BeforeEach(func() {
			Expect(s.Build()).To(Succeed())
		})

		It("launches a batch against the current registry", func() {
			s.LaunchCollision([]Launch{
				{ID: "box", Velocity: vec(3, 0)},
				{ID: "crate", Velocity: vec(-2, 0)},
				{ID: "ghost", Velocity: vec(9, 9)},
			})
			snap := s.Snapshot()
			Expect(snap["box"].Velocity).To(Equal(vec(3, 0)))
			Expect(snap["crate"].Velocity).To(Equal(vec(-2, 0)))
		})

		It("ignores forces and velocities on static bodies", func() {
			s.ApplyForce("ground", vec(1, 0))
			s.SetVelocity("ground", vec(1, 0))
			g, _ := s.GetBody("ground")
			st, _ := g.State()
			Expect(st.Velocity).To(Equal(vec(0, 0)))
		})

		It("ignores non-finite input", func() {
			s.SetVelocity("box", vec(math.NaN(), 0))
			s.ApplyForce("box", vec(math.Inf(1), 0))
			clock.Advance(1)
			Expect(s.Snapshot()["box"].Velocity.IsFinite()).To(BeTrue())
		})
	})

	Describe("frictionless coasting", func() {
		It("keeps a pushed box at constant speed once the ground has no friction", func() {
			doc = frictionScene()
			s, eng, clock = newTestSession(doc)
			Expect(s.Build()).To(Succeed())

			s.SetProperty("ground", "friction", 0)
			clock.Advance(1)
			Expect(s.Snapshot()["box"].FrictionAir).To(Equal(0.0))

			var speeds []float64
			s.SetSink(func(snap Snapshot) { speeds = append(speeds, snap["box"].Speed) })
			s.ApplyForce("box", vec(0.05, 0))
			clock.Advance(30)

			Expect(speeds).To(HaveLen(30))
			Expect(speeds[0]).To(BeNumerically(">", 0))
			for i := 1; i < len(speeds); i++ {
				Expect(speeds[i]).To(BeNumerically(">=", speeds[i-1]-1e-9))
				Expect(speeds[i]).To(BeNumerically("~", speeds[0], 1e-9))
			}
		})

		It("stops the box when the ground keeps its friction", func() {
			doc = frictionScene()
			s, eng, clock = newTestSession(doc)
			Expect(s.Build()).To(Succeed())

			clock.Advance(1)
			s.ApplyForce("box", vec(0.05, 0))
			clock.Advance(1)
			Expect(s.Snapshot()["box"].Speed).To(BeNumerically(">", 0))

			clock.Advance(120)
			Expect(s.Snapshot()["box"].Speed).To(BeNumerically("~", 0, 1e-9))
		})
	})
})
