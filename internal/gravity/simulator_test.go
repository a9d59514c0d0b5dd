package gravity

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/decsim/decsim/internal/dec"
	"github.com/decsim/decsim/internal/vec"
	"github.com/shopspring/decimal"
)

func v3(x, y, z string) [3]string {
	return [3]string{x, y, z}
}

func newSim() *Simulator {
	s, err := New(dec.DefaultPrecision)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func newBody(name, mass string, pos, vel [3]string) *Body {
	GinkgoHelper()
	ctx := dec.Default()
	p, err := vec.Parse(ctx, pos[0], pos[1], pos[2])
	Expect(err).NotTo(HaveOccurred())
	v, err := vec.Parse(ctx, vel[0], vel[1], vel[2])
	Expect(err).NotTo(HaveOccurred())
	b, err := NewBody(name, decimal.RequireFromString(mass), p, v)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func expectDecimal(got decimal.Decimal, want string) {
	GinkgoHelper()
	Expect(got.Equal(decimal.RequireFromString(want))).To(BeTrue(),
		"got %s, want %s", got, want)
}

var _ = Describe("NewBody", func() {
	It("rejects zero mass", func() {
		_, err := NewBody("m", decimal.Zero, vec.Zero(dec.Default()), vec.Zero(dec.Default()))
		Expect(errors.Is(err, ErrInvalidMass)).To(BeTrue())
	})

	It("rejects negative mass", func() {
		_, err := NewBody("m", decimal.NewFromInt(-1), vec.Zero(dec.Default()), vec.Zero(dec.Default()))
		Expect(errors.Is(err, ErrInvalidMass)).To(BeTrue())
	})

	It("starts with zero acceleration", func() {
		b := newBody("m", "1", v3("1", "2", "3"), v3("4", "5", "6"))
		Expect(b.Acceleration.IsZero()).To(BeTrue())
	})
})

var _ = Describe("Simulator bodies", func() {
	var s *Simulator

	BeforeEach(func() {
		s = newSim()
		Expect(s.AddBody(newBody("alpha", "1", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("beta", "2", v3("1", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("gamma", "3", v3("2", "0", "0"), v3("0", "0", "0")))).To(Succeed())
	})

	It("preserves insertion order", func() {
		Expect(s.Names()).To(Equal([]string{"alpha", "beta", "gamma"}))
		Expect(s.Len()).To(Equal(3))
	})

	It("rejects a duplicate name without touching state", func() {
		err := s.AddBody(newBody("beta", "99", v3("9", "9", "9"), v3("0", "0", "0")))
		Expect(errors.Is(err, ErrDuplicateBody)).To(BeTrue())

		Expect(s.Len()).To(Equal(3))
		b, ok := s.Body("beta")
		Expect(ok).To(BeTrue())
		expectDecimal(b.Mass, "2")
	})

	It("removes a body and keeps the remaining order", func() {
		Expect(s.RemoveBody("beta")).To(Succeed())
		Expect(s.Names()).To(Equal([]string{"alpha", "gamma"}))

		g, ok := s.Body("gamma")
		Expect(ok).To(BeTrue())
		expectDecimal(g.Mass, "3")
	})

	It("fails removal of an unknown name without touching state", func() {
		err := s.RemoveBody("delta")
		Expect(errors.Is(err, ErrBodyNotFound)).To(BeTrue())
		Expect(s.Names()).To(Equal([]string{"alpha", "beta", "gamma"}))
	})

	It("looks up tracked and untracked names", func() {
		_, ok := s.Body("alpha")
		Expect(ok).To(BeTrue())
		_, ok = s.Body("missing")
		Expect(ok).To(BeFalse())
	})

	It("reports display state for a body", func() {
		st, err := s.BodyState("beta")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Mass).To(Equal(2.0))
		Expect(st.Position.X).To(Equal(1.0))
		Expect(st.KineticEnergy).To(Equal(0.0))

		_, err = s.BodyState("missing")
		Expect(errors.Is(err, ErrBodyNotFound)).To(BeTrue())
	})
})

var _ = Describe("Simulator time step", func() {
	It("defaults to 0.01", func() {
		expectDecimal(newSim().TimeStep(), "0.01")
	})

	It("accepts a positive replacement", func() {
		s := newSim()
		Expect(s.SetTimeStep(decimal.RequireFromString("0.5"))).To(Succeed())
		expectDecimal(s.TimeStep(), "0.5")
	})

	It("rejects zero and negative values", func() {
		s := newSim()
		Expect(errors.Is(s.SetTimeStep(decimal.Zero), ErrInvalidTimeStep)).To(BeTrue())
		Expect(errors.Is(s.SetTimeStep(decimal.NewFromInt(-1)), ErrInvalidTimeStep)).To(BeTrue())
		expectDecimal(s.TimeStep(), "0.01")
	})
})

var _ = Describe("Step", func() {
	It("moves a single body by its velocity alone", func() {
		s := newSim()
		Expect(s.AddBody(newBody("probe", "4", v3("0", "0", "0"), v3("1", "2", "-3")))).To(Succeed())

		Expect(s.Step()).To(Succeed())

		b, _ := s.Body("probe")
		expectDecimal(b.Position.X(), "0.01")
		expectDecimal(b.Position.Y(), "0.02")
		expectDecimal(b.Position.Z(), "-0.03")
		expectDecimal(b.Velocity.X(), "1")
		Expect(b.Acceleration.IsZero()).To(BeTrue())

		// KE = 0.5 * 4 * (1+4+9)
		expectDecimal(s.KineticEnergy(b), "28")
	})

	It("advances the clock by exactly dt per step", func() {
		s := newSim()
		Expect(s.AddBody(newBody("probe", "1", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())

		for i := 0; i < 3; i++ {
			Expect(s.Step()).To(Succeed())
		}
		expectDecimal(s.Time(), "0.03")
	})

	It("updates velocities strictly before positions", func() {
		stepped := newSim()
		manual := newSim()
		for _, s := range []*Simulator{stepped, manual} {
			Expect(s.AddBody(newBody("a", "1E10", v3("0", "0", "0"), v3("0", "0.001", "0")))).To(Succeed())
			Expect(s.AddBody(newBody("b", "1E10", v3("10", "0", "0"), v3("0", "-0.001", "0")))).To(Succeed())
		}

		Expect(stepped.Step()).To(Succeed())

		// The same phases by hand, in the required order.
		Expect(manual.ApplyForces()).To(Succeed())
		manual.UpdateVelocities()
		manual.UpdatePositions()

		for _, name := range []string{"a", "b"} {
			got, _ := stepped.Body(name)
			want, _ := manual.Body(name)
			Expect(got.Position.Equal(want.Position)).To(BeTrue(),
				"position of %s: %s vs %s", name, got.Position, want.Position)
			Expect(got.Velocity.Equal(want.Velocity)).To(BeTrue(),
				"velocity of %s: %s vs %s", name, got.Velocity, want.Velocity)
		}

		// Positions must move by the post-update velocity, not the stale one.
		moved, _ := stepped.Body("a")
		vNew := moved.Velocity
		Expect(moved.Position.Equal(vec.Zero(stepped.Context()).Add(vNew.Scale(stepped.TimeStep())))).To(BeTrue())
	})

	It("caches total energy after each step", func() {
		s := newSim()
		Expect(s.AddBody(newBody("probe", "4", v3("0", "0", "0"), v3("1", "0", "0")))).To(Succeed())

		Expect(s.Snapshot().TotalEnergy).To(Equal(0.0))
		Expect(s.Step()).To(Succeed())
		Expect(s.Snapshot().TotalEnergy).To(Equal(2.0))
	})

	It("fails on coincident bodies and reports the pair", func() {
		s := newSim()
		Expect(s.AddBody(newBody("one", "1", v3("1", "1", "1"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("two", "1", v3("1", "1", "1"), v3("0", "0", "0")))).To(Succeed())

		err := s.Step()
		Expect(errors.Is(err, ErrCoincidentPositions)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("one"))
		Expect(err.Error()).To(ContainSubstring("two"))
	})
})

var _ = Describe("Run", func() {
	var s *Simulator

	BeforeEach(func() {
		s = newSim()
		Expect(s.AddBody(newBody("sun", "1E12", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("planet", "1", v3("100", "0", "0"), v3("0", "0.8", "0")))).To(Succeed())
	})

	It("returns exactly one snapshot per step", func() {
		snaps, err := s.Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(snaps).To(HaveLen(50))
		Expect(s.History()).To(HaveLen(50))
	})

	It("spaces snapshot times by dt", func() {
		snaps, err := s.Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		for i, snap := range snaps {
			Expect(snap.Time).To(BeNumerically("~", 0.01*float64(i+1), 1e-12))
		}
	})

	It("includes every body in every snapshot", func() {
		snaps, err := s.Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		for _, snap := range snaps {
			Expect(snap.Objects).To(HaveKey("sun"))
			Expect(snap.Objects).To(HaveKey("planet"))
		}
	})

	It("accumulates history across runs", func() {
		_, err := s.Run(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.History()).To(HaveLen(15))
	})

	It("treats zero and negative step counts as no-ops", func() {
		for _, n := range []int{0, -3} {
			snaps, err := s.Run(context.Background(), n)
			Expect(err).NotTo(HaveOccurred())
			Expect(snaps).To(BeEmpty())
		}
		Expect(s.History()).To(BeEmpty())
		expectDecimal(s.Time(), "0")
	})

	It("stops on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		snaps, err := s.Run(ctx, 100)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(snaps).To(BeEmpty())
	})
})

var _ = Describe("Reset", func() {
	It("clears clock, history and accelerations but keeps trajectories", func() {
		s := newSim()
		Expect(s.AddBody(newBody("a", "1E10", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("b", "1E10", v3("5", "0", "0"), v3("0", "0", "0")))).To(Succeed())

		_, err := s.Run(context.Background(), 4)
		Expect(err).NotTo(HaveOccurred())

		a, _ := s.Body("a")
		posAfterRun := a.Position

		s.Reset()

		expectDecimal(s.Time(), "0")
		Expect(s.History()).To(BeEmpty())
		Expect(a.Acceleration.IsZero()).To(BeTrue())
		Expect(a.Position.Equal(posAfterRun)).To(BeTrue())
		Expect(s.Snapshot().TotalEnergy).To(Equal(0.0))
	})
})
