package gravity

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shopspring/decimal"
)

var _ = Describe("GravitationalForce", func() {
	var (
		s    *Simulator
		a, b *Body
	)

	BeforeEach(func() {
		s = newSim()
		a = newBody("a", "2", v3("0", "0", "0"), v3("0", "0", "0"))
		b = newBody("b", "3", v3("2", "0", "0"), v3("0", "0", "0"))
		Expect(s.AddBody(a)).To(Succeed())
		Expect(s.AddBody(b)).To(Succeed())
	})

	It("computes G*m1*m2/r^2 toward the other body", func() {
		// G*2*3/4 = 1.0011450E-10, along +x.
		f, err := s.GravitationalForce(a, b)
		Expect(err).NotTo(HaveOccurred())
		expectDecimal(f.X(), "1.0011450E-10")
		expectDecimal(f.Y(), "0")
		expectDecimal(f.Z(), "0")
		Expect(f.X().IsPositive()).To(BeTrue(), "force on a must point toward b")
	})

	It("is exactly antisymmetric under argument exchange", func() {
		fab, err := s.GravitationalForce(a, b)
		Expect(err).NotTo(HaveOccurred())
		fba, err := s.GravitationalForce(b, a)
		Expect(err).NotTo(HaveOccurred())
		Expect(fba.Equal(fab.Neg())).To(BeTrue(), "F(b,a) = %s, want %s", fba, fab.Neg())
	})

	It("fails for coincident bodies", func() {
		c := newBody("c", "1", v3("0", "0", "0"), v3("5", "5", "5"))
		Expect(s.AddBody(c)).To(Succeed())
		_, err := s.GravitationalForce(a, c)
		Expect(errors.Is(err, ErrCoincidentPositions)).To(BeTrue())
	})
})

var _ = Describe("Energies", func() {
	It("computes kinetic energy as half m v.v", func() {
		s := newSim()
		b := newBody("probe", "4", v3("0", "0", "0"), v3("1", "2", "2"))
		Expect(s.AddBody(b)).To(Succeed())
		expectDecimal(s.KineticEnergy(b), "18")
	})

	It("computes pair potential energy as -G*m1*m2/r", func() {
		s := newSim()
		a := newBody("a", "2", v3("0", "0", "0"), v3("0", "0", "0"))
		b := newBody("b", "3", v3("2", "0", "0"), v3("0", "0", "0"))
		Expect(s.AddBody(a)).To(Succeed())
		Expect(s.AddBody(b)).To(Succeed())

		pe, err := s.PotentialEnergy(a, b)
		Expect(err).NotTo(HaveOccurred())
		expectDecimal(pe, "-2.00229E-10")
		Expect(pe.IsNegative()).To(BeTrue())

		reversed, err := s.PotentialEnergy(b, a)
		Expect(err).NotTo(HaveOccurred())
		Expect(reversed.Equal(pe)).To(BeTrue(), "pair potential must not depend on order")
	})

	It("fails the pair potential for coincident bodies", func() {
		s := newSim()
		a := newBody("a", "1", v3("3", "3", "3"), v3("0", "0", "0"))
		b := newBody("b", "1", v3("3", "3", "3"), v3("0", "0", "0"))
		_, err := s.PotentialEnergy(a, b)
		Expect(errors.Is(err, ErrCoincidentPositions)).To(BeTrue())
	})

	It("totals kinetic plus pairwise potential energy", func() {
		s := newSim()
		Expect(s.AddBody(newBody("a", "2", v3("0", "0", "0"), v3("0", "1", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("b", "3", v3("2", "0", "0"), v3("0", "0", "0")))).To(Succeed())

		total, err := s.TotalEnergy()
		Expect(err).NotTo(HaveOccurred())
		// KE = 1, PE = -2.00229E-10.
		expectDecimal(total, "0.999999999799771")
	})

	It("is zero for an empty simulation", func() {
		total, err := newSim().TotalEnergy()
		Expect(err).NotTo(HaveOccurred())
		expectDecimal(total, "0")
	})
})

var _ = Describe("ApplyForces", func() {
	It("gives equal masses exactly opposite accelerations", func() {
		s := newSim()
		Expect(s.AddBody(newBody("a", "2", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("b", "2", v3("0", "3", "0"), v3("0", "0", "0")))).To(Succeed())

		Expect(s.ApplyForces()).To(Succeed())

		a, _ := s.Body("a")
		b, _ := s.Body("b")
		Expect(b.Acceleration.Equal(a.Acceleration.Neg())).To(BeTrue(),
			"accelerations %s and %s are not opposite", a.Acceleration, b.Acceleration)
		Expect(a.Acceleration.Y().IsPositive()).To(BeTrue(), "a must fall toward b")
	})

	It("scales the reaction by the mass ratio", func() {
		s := newSim()
		Expect(s.AddBody(newBody("light", "2", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("heavy", "4", v3("2", "0", "0"), v3("0", "0", "0")))).To(Succeed())

		Expect(s.ApplyForces()).To(Succeed())

		light, _ := s.Body("light")
		heavy, _ := s.Body("heavy")
		// F = 2G, so a_light = F/2 = G and a_heavy = -F/4 = -G/2.
		expectDecimal(light.Acceleration.X(), "6.67430E-11")
		expectDecimal(heavy.Acceleration.X(), "-3.337150E-11")
	})

	It("accumulates contributions from all pairs", func() {
		s := newSim()
		Expect(s.AddBody(newBody("left", "5", v3("-1", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("middle", "5", v3("0", "0", "0"), v3("0", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("right", "5", v3("1", "0", "0"), v3("0", "0", "0")))).To(Succeed())

		Expect(s.ApplyForces()).To(Succeed())

		left, _ := s.Body("left")
		middle, _ := s.Body("middle")
		right, _ := s.Body("right")

		// The middle body's neighbors pull with equal strength.
		Expect(middle.Acceleration.IsZero()).To(BeTrue(),
			"middle acceleration = %s, want zero", middle.Acceleration)
		// Each outer body feels 5G from the neighbor plus 1.25G from the far
		// body: 6.25G.
		expectDecimal(left.Acceleration.X(), "4.17143750E-10")
		expectDecimal(right.Acceleration.X(), "-4.17143750E-10")
	})

	It("resets stale accelerations", func() {
		s := newSim()
		b := newBody("solo", "1", v3("9", "9", "9"), v3("0", "0", "0"))
		Expect(s.AddBody(b)).To(Succeed())

		b.Acceleration = b.Position
		Expect(b.Acceleration.IsZero()).To(BeFalse())

		Expect(s.ApplyForces()).To(Succeed())
		Expect(b.Acceleration.IsZero()).To(BeTrue())
	})
})

var _ = Describe("Conserved quantities", func() {
	newBinary := func() *Simulator {
		s := newSim()
		Expect(s.AddBody(newBody("east", "1.5E8", v3("1", "0", "0"), v3("0", "0.05", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("west", "1.5E8", v3("-1", "0", "0"), v3("0", "-0.05", "0")))).To(Succeed())
		return s
	}

	It("sums linear momentum over bodies", func() {
		s := newSim()
		Expect(s.AddBody(newBody("a", "2", v3("0", "1", "0"), v3("1", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("b", "3", v3("1", "0", "0"), v3("0", "1", "0")))).To(Succeed())

		p := s.Momentum()
		expectDecimal(p.X(), "2")
		expectDecimal(p.Y(), "3")
		expectDecimal(p.Z(), "0")
	})

	It("sums angular momentum over bodies", func() {
		s := newSim()
		Expect(s.AddBody(newBody("a", "2", v3("0", "1", "0"), v3("1", "0", "0")))).To(Succeed())
		Expect(s.AddBody(newBody("b", "3", v3("1", "0", "0"), v3("0", "1", "0")))).To(Succeed())

		l := s.AngularMomentum()
		expectDecimal(l.X(), "0")
		expectDecimal(l.Y(), "0")
		expectDecimal(l.Z(), "1")
	})

	It("keeps the momentum of a symmetric binary at zero", func() {
		s := newBinary()
		Expect(s.Momentum().IsZero()).To(BeTrue())

		_, err := s.Run(context.Background(), 100)
		Expect(err).NotTo(HaveOccurred())

		drift := s.Momentum().Magnitude()
		Expect(drift.Cmp(decimal.New(1, -30)) < 0).To(BeTrue(),
			"momentum drifted to %s", drift)
	})

	It("holds total energy within 0.1 percent over 1000 steps", func() {
		s := newBinary()

		initial, err := s.TotalEnergy()
		Expect(err).NotTo(HaveOccurred())
		e0 := initial.InexactFloat64()
		Expect(e0).NotTo(BeZero())

		snaps, err := s.Run(context.Background(), 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(snaps).To(HaveLen(1000))

		worst := 0.0
		for _, snap := range snaps {
			if drift := math.Abs((snap.TotalEnergy - e0) / e0); drift > worst {
				worst = drift
			}
		}
		Expect(worst).To(BeNumerically("<", 0.001),
			"worst relative energy drift %g", worst)
	})
})
