package chemistry

import (
	"context"
	"fmt"
	"math"

	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// reagent is a pH-adjustment chemical titrated via PHREEQC: the species
// name PHREEQC's REACTION block expects, its molar mass (for mg/L
// conversion), and its delivered cost.
type reagent struct {
	Name          string
	Species       string
	MolarMassGMol float64
	CostPerKg     float64
}

// ReagentPrices is the configurable cost table DoseOptions are priced
// against, grounded on original_source/utils/economic_defaults.py's
// chemical price table.
type ReagentPrices struct {
	NaOHUSDPerKg  float64
	HClUSDPerKg   float64
	H2SO4USDPerKg float64
}

// DefaultReagentPrices returns the bundled default reagent cost table.
func DefaultReagentPrices() ReagentPrices {
	return ReagentPrices{
		NaOHUSDPerKg:  0.59,
		HClUSDPerKg:   0.17,
		H2SO4USDPerKg: 0.10,
	}
}

func (p ReagentPrices) reagents() map[string]reagent {
	return map[string]reagent{
		"NaOH":  {Name: "NaOH", Species: "NaOH", MolarMassGMol: 40.0, CostPerKg: p.NaOHUSDPerKg},
		"HCl":   {Name: "HCl", Species: "HCl", MolarMassGMol: 36.46, CostPerKg: p.HClUSDPerKg},
		"H2SO4": {Name: "H2SO4", Species: "H2SO4", MolarMassGMol: 98.08, CostPerKg: p.H2SO4USDPerKg},
	}
}

// DoseOption is one reagent's cost to reach a target pH: dose in mg/L
// of neat reagent and the resulting cost per m3 of feed treated.
type DoseOption struct {
	Chemical  string
	DoseMgL   float64
	CostPerM3 float64
}

const (
	doseSearchMaxIterations = 40
	doseSearchPHTolerance   = 0.02
)

// ChemicalDoseToReach runs C5's second operation: given a target pH
// different from the feed's current pH, it selects the appropriate
// reagent (NaOH to raise pH; H2SO4 or HCl to lower it, favoring H2SO4
// unless feed sulfate is already high) and titrates the dose via
// PHREEQC that reaches the target.
func ChemicalDoseToReach(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, currentPH, targetPH, tempC float64, prices ReagentPrices) (DoseOption, error) {
	name := selectReagent(comp, currentPH, targetPH)
	return doseFor(ctx, runner, comp, currentPH, targetPH, tempC, prices, name)
}

// CompareDoseOptions titrates every reagent capable of reaching
// targetPH from currentPH (acids when lowering, NaOH when raising) and
// returns them ranked by cost per m3, cheapest first.
func CompareDoseOptions(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, currentPH, targetPH, tempC float64, prices ReagentPrices) ([]DoseOption, error) {
	var candidates []string
	if targetPH > currentPH {
		candidates = []string{"NaOH"}
	} else {
		candidates = []string{"HCl", "H2SO4"}
	}

	options := make([]DoseOption, 0, len(candidates))
	for _, name := range candidates {
		opt, err := doseFor(ctx, runner, comp, currentPH, targetPH, tempC, prices, name)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	for i := 1; i < len(options); i++ {
		for j := i; j > 0 && options[j].CostPerM3 < options[j-1].CostPerM3; j-- {
			options[j], options[j-1] = options[j-1], options[j]
		}
	}
	return options, nil
}

func selectReagent(comp NormalizedComposition, currentPH, targetPH float64) string {
	if targetPH > currentPH {
		return "NaOH"
	}
	if comp.IonsMgL["SO4-2"] < 250 {
		return "H2SO4"
	}
	return "HCl"
}

func doseFor(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, currentPH, targetPH, tempC float64, prices ReagentPrices, name string) (DoseOption, error) {
	r, ok := prices.reagents()[name]
	if !ok {
		return DoseOption{}, rerror.New(rerror.ChemistryError, fmt.Sprintf("unknown reagent %q", name))
	}

	// Every reagent here (NaOH, HCl, H2SO4) is dosed as a single
	// PHREEQC reaction component added in the forward direction; the
	// search direction (more moles raises or lowers pH) falls out of
	// the titration bisection itself, not a sign flip here.
	moles, err := titrateToPH(ctx, runner, comp, currentPH, tempC, targetPH, r.Species, 1.0)
	if err != nil {
		return DoseOption{}, err
	}

	doseMgL := moles * r.MolarMassGMol * 1000
	// 1 m3 of feed = 1000 L; dose (mg/L) * 1000 = mg/m3; / 1e6 = kg/m3.
	costPerM3 := (doseMgL / 1000) * r.CostPerKg

	return DoseOption{Chemical: name, DoseMgL: doseMgL, CostPerM3: costPerM3}, nil
}

// titrateToPH finds the moles/L of the given reagent species that
// shifts comp's equilibrium pH (at tempC) to targetPH, by bracketing
// and bisecting on the dose since pH response to a proton
// donor/acceptor is monotonic.
func titrateToPH(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, currentPH, tempC, targetPH float64, species string, coefficient float64) (float64, error) {
	phAt := func(moles float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, rerror.Wrap(rerror.Cancelled, "dose titration", err)
		}
		in := phreeqc.Input{
			Solution: phreeqc.Solution{IonsMgL: comp.IonsMgL, PH: currentPH, TemperatureC: tempC},
		}
		if moles > 0 {
			in.Reaction = &phreeqc.ReactionStep{Species: species, Coefficient: coefficient, Moles: moles}
		}
		out, err := runner.Run(ctx, in)
		if err != nil {
			return 0, rerror.Wrap(rerror.ChemistryError, "phreeqc titration run failed", err)
		}
		if !out.Converged {
			return 0, rerror.New(rerror.ChemistryError, "phreeqc titration run did not converge")
		}
		return out.PH, nil
	}

	lowMoles, highMoles := 0.0, 0.001
	lowPH, err := phAt(lowMoles)
	if err != nil {
		return 0, err
	}
	raising := targetPH > lowPH

	var highPH float64
	for i := 0; i < doseSearchMaxIterations; i++ {
		highPH, err = phAt(highMoles)
		if err != nil {
			return 0, err
		}
		if raising && highPH >= targetPH {
			break
		}
		if !raising && highPH <= targetPH {
			break
		}
		highMoles *= 2
	}

	for i := 0; i < doseSearchMaxIterations; i++ {
		if highMoles-lowMoles < 1e-9 {
			break
		}
		mid := (lowMoles + highMoles) / 2
		midPH, err := phAt(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(midPH-targetPH) < doseSearchPHTolerance {
			return mid, nil
		}
		if (raising && midPH < targetPH) || (!raising && midPH > targetPH) {
			lowMoles = mid
		} else {
			highMoles = mid
		}
	}
	return (lowMoles + highMoles) / 2, nil
}
