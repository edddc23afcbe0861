package chemistry

import (
	"context"
	"math"
	"testing"

	"github.com/rotrain/rotrain/pkg/phreeqc"
)

// linearTitration is a fake runner whose pH shifts linearly with the
// moles of reagent added, letting dosing tests bisect to an exact
// analytical answer.
func linearTitration(slopePerMole float64) phreeqc.FakeRunner {
	return phreeqc.FakeRunner{
		Eval: func(in phreeqc.Input) (phreeqc.Output, error) {
			moles := 0.0
			if in.Reaction != nil {
				moles = in.Reaction.Moles
			}
			return phreeqc.Output{PH: in.Solution.PH + slopePerMole*moles, Converged: true}, nil
		},
	}
}

func TestChemicalDoseToReachSelectsNaOHWhenRaisingPH(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Na+": 1200, "Cl-": 1800}}
	runner := linearTitration(500) // pH rises 500 per mole added
	opt, err := ChemicalDoseToReach(context.Background(), runner, comp, 7.0, 7.5, 25, DefaultReagentPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Chemical != "NaOH" {
		t.Errorf("expected NaOH to raise pH, got %s", opt.Chemical)
	}
	if opt.DoseMgL <= 0 {
		t.Error("expected a positive dose")
	}
	if opt.CostPerM3 <= 0 {
		t.Error("expected a positive cost per m3")
	}
}

func TestChemicalDoseToReachSelectsAcidWhenLoweringPH(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"SO4-2": 100}} // low sulfate -> H2SO4
	runner := linearTitration(-500)
	opt, err := ChemicalDoseToReach(context.Background(), runner, comp, 8.0, 7.0, 25, DefaultReagentPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Chemical != "H2SO4" {
		t.Errorf("expected H2SO4 for low-sulfate feed, got %s", opt.Chemical)
	}
}

func TestChemicalDoseToReachPrefersHClWhenSulfateHigh(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"SO4-2": 500}}
	runner := linearTitration(-500)
	opt, err := ChemicalDoseToReach(context.Background(), runner, comp, 8.0, 7.0, 25, DefaultReagentPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Chemical != "HCl" {
		t.Errorf("expected HCl for high-sulfate feed, got %s", opt.Chemical)
	}
}

func TestCompareDoseOptionsRanksCheapestFirst(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"SO4-2": 100}}
	runner := linearTitration(-500)
	opts, err := CompareDoseOptions(context.Background(), runner, comp, 8.0, 7.0, 25, DefaultReagentPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("expected 2 acid options, got %d", len(opts))
	}
	for i := 1; i < len(opts); i++ {
		if opts[i].CostPerM3 < opts[i-1].CostPerM3 {
			t.Errorf("expected options sorted ascending by cost: %v", opts)
		}
	}
}

func TestTitrateToPHConvergesWithinTolerance(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Na+": 500}}
	runner := linearTitration(1000)
	moles, err := titrateToPH(context.Background(), runner, comp, 7.0, 25, 7.8, "NaOH", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.0008 // (7.8-7.0)/1000
	if math.Abs(moles-want) > 0.0001 {
		t.Errorf("moles = %v, want approximately %v", moles, want)
	}
}
