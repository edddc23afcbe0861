package chemistry

import (
	"context"
	"fmt"

	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// initialWaterMolPerLiter is the moles of water in one liter of dilute
// solution (55.51 mol/L), used as the basis for the REACTION water
// removal that achieves a target concentration factor.
const initialWaterMolPerLiter = 55.51

// ScalingAssessment supplements the raw saturation indices PHREEQC
// returns with a human-readable tendency label and a 0-1 severity
// score per mineral. These annotations are advisory only — they never
// participate in the sustainable-recovery gating arithmetic of C4.
type ScalingAssessment struct {
	SI       map[string]float64 `yaml:"si" json:"si"`
	Tendency map[string]string  `yaml:"tendency" json:"tendency"`
	Severity map[string]float64 `yaml:"severity" json:"severity"`
}

// ConcentrateResult is the output of Concentrate (C3): the concentrated
// ion map, the equilibrium pH and dissolved CO2 PHREEQC reports at that
// concentration factor, and the scaling assessment.
type ConcentrateResult struct {
	IonsMgL map[string]float64 `yaml:"ions_mg_l" json:"ions_mg_l"`
	PH      float64            `yaml:"ph" json:"ph"`
	CO2MolL float64            `yaml:"co2_mol_l" json:"co2_mol_l"`
	Scaling ScalingAssessment  `yaml:"scaling" json:"scaling"`
}

// Concentrate runs C3: it concentrates comp to the concentration factor
// implied by recoveryFraction (CF = 1/(1-R)) via a PHREEQC REACTION
// step removing pure water, and reports the resulting equilibrium pH,
// dissolved CO2, and per-mineral saturation indices. There is no
// algebraic fallback — a non-convergent PHREEQC run is a ChemistryError.
func Concentrate(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, feedPH, tempC, recoveryFraction float64) (ConcentrateResult, error) {
	if err := ctx.Err(); err != nil {
		return ConcentrateResult{}, rerror.Wrap(rerror.Cancelled, "concentrate", err)
	}
	if recoveryFraction < 0 || recoveryFraction >= 1 {
		return ConcentrateResult{}, rerror.New(rerror.ChemistryError, fmt.Sprintf("recovery %.4f out of range [0,1)", recoveryFraction))
	}

	cf := 1.0 / (1.0 - recoveryFraction)
	removedMol := initialWaterMolPerLiter * (1.0 - 1.0/cf)

	in := phreeqc.Input{
		Solution: phreeqc.Solution{IonsMgL: comp.IonsMgL, PH: feedPH, TemperatureC: tempC},
	}
	if removedMol > 0 {
		in.Reaction = &phreeqc.ReactionStep{Species: "H2O", Coefficient: -1.0, Moles: removedMol}
	}

	out, err := runner.Run(ctx, in)
	if err != nil {
		return ConcentrateResult{}, rerror.Wrap(rerror.ChemistryError, "phreeqc run failed", err)
	}
	if !out.Converged {
		return ConcentrateResult{}, rerror.New(rerror.ChemistryError, "phreeqc run did not converge")
	}

	// Removing pure water conserves every dissolved ion's mass; scaling
	// the feed concentration by CF is exact, not an approximation of the
	// equilibrium chemistry PHREEQC alone determines (pH, CO2, SI).
	concentrated := make(map[string]float64, len(comp.IonsMgL))
	for ion, c := range comp.IonsMgL {
		concentrated[ion] = c * cf
	}

	assessment := ScalingAssessment{
		SI:       out.SI,
		Tendency: make(map[string]string, len(out.SI)),
		Severity: make(map[string]float64, len(out.SI)),
	}
	for mineral, si := range out.SI {
		assessment.Tendency[mineral] = scalingTendency(si)
		assessment.Severity[mineral] = scalingSeverity(si)
	}

	return ConcentrateResult{
		IonsMgL: concentrated,
		PH:      out.PH,
		CO2MolL: out.CO2MolL,
		Scaling: assessment,
	}, nil
}

// scalingTendency classifies a saturation index into a five-tier
// human-readable label.
func scalingTendency(si float64) string {
	switch {
	case si < -0.5:
		return "undersaturated"
	case si < 0:
		return "near_equilibrium"
	case si < 0.5:
		return "slightly_supersaturated"
	case si < 1.0:
		return "supersaturated"
	default:
		return "highly_supersaturated"
	}
}

// scalingSeverity maps a saturation index to a 0-1 severity score,
// piecewise steeper once a mineral is supersaturated.
func scalingSeverity(si float64) float64 {
	switch {
	case si < 0:
		return 0.0
	case si < 0.5:
		return si / 0.5 * 0.5
	case si < 1.0:
		return 0.5 + (si-0.5)/0.5*0.3
	default:
		v := 0.8 + (si-1.0)*0.1
		if v > 1.0 {
			return 1.0
		}
		return v
	}
}
