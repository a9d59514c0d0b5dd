package phys

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConstants(t *testing.T) {
	if !SpeedOfLight.Equal(decimal.NewFromInt(299792458)) {
		t.Errorf("SpeedOfLight = %s, want 299792458", SpeedOfLight)
	}
	if !GravitationalConstant.Equal(decimal.New(667430, -16)) {
		t.Errorf("GravitationalConstant = %s, want 6.67430E-11", GravitationalConstant)
	}
	for _, c := range Table() {
		if !c.Value.IsPositive() {
			t.Errorf("constant %s is not positive: %s", c.Symbol, c.Value)
		}
	}
}

func TestTable_Order(t *testing.T) {
	table := Table()
	if len(table) != 8 {
		t.Fatalf("Table() has %d entries, want 8", len(table))
	}
	if table[0].Symbol != "G" || table[1].Symbol != "c" {
		t.Errorf("unexpected table order: %s, %s", table[0].Symbol, table[1].Symbol)
	}
}
