// Package phys holds the physical constants the simulation uses, stated as
// exact decimal literals so no float artifact ever enters the arithmetic.
// Values follow the 2019 SI redefinition; G and the vacuum constants carry
// the CODATA 2018 recommended digits. The variables are initialized once and
// treated as read-only.
package phys

import "github.com/shopspring/decimal"

// Fundamental constants in SI units.
var (
	// GravitationalConstant is G in m^3 kg^-1 s^-2.
	GravitationalConstant = decimal.RequireFromString("6.67430E-11")

	// SpeedOfLight is c in m/s, exact by definition.
	SpeedOfLight = decimal.RequireFromString("299792458")

	// PlanckConstant is h in J*s, exact by definition.
	PlanckConstant = decimal.RequireFromString("6.62607015E-34")

	// BoltzmannConstant is k_B in J/K, exact by definition.
	BoltzmannConstant = decimal.RequireFromString("1.380649E-23")

	// AvogadroNumber is N_A in mol^-1, exact by definition.
	AvogadroNumber = decimal.RequireFromString("6.02214076E23")

	// ElementaryCharge is e in C, exact by definition.
	ElementaryCharge = decimal.RequireFromString("1.602176634E-19")

	// VacuumPermittivity is epsilon_0 in F/m.
	VacuumPermittivity = decimal.RequireFromString("8.8541878128E-12")

	// VacuumPermeability is mu_0 in N/A^2.
	VacuumPermeability = decimal.RequireFromString("1.25663706212E-6")
)

// Constant is one table entry for display surfaces.
type Constant struct {
	Name   string
	Symbol string
	Value  decimal.Decimal
	Unit   string
}

// Table returns the constants in display order.
func Table() []Constant {
	return []Constant{
		{"gravitational constant", "G", GravitationalConstant, "m^3 kg^-1 s^-2"},
		{"speed of light", "c", SpeedOfLight, "m/s"},
		{"planck constant", "h", PlanckConstant, "J s"},
		{"boltzmann constant", "k_B", BoltzmannConstant, "J/K"},
		{"avogadro number", "N_A", AvogadroNumber, "1/mol"},
		{"elementary charge", "e", ElementaryCharge, "C"},
		{"vacuum permittivity", "eps_0", VacuumPermittivity, "F/m"},
		{"vacuum permeability", "mu_0", VacuumPermeability, "N/A^2"},
	}
}
