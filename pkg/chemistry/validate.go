// Package chemistry implements the water-chemistry validator, the
// PHREEQC-backed scaling evaluator, the sustainable-recovery
// calculator, and the pH-recovery optimizer. Unlike pkg/validation,
// a failed check here is a hard *rerror.DesignError — this package
// gates the pipeline rather than annotating it.
package chemistry

import (
	"fmt"
	"math"

	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// chargeBalanceWarnTolerance is the residual fraction that triggers
// auto-balancing against the dominant counter-ion (spec: 2%).
const chargeBalanceWarnTolerance = 0.02

// chargeBalanceFailTolerance is the residual fraction that still fails
// validation even after auto-balancing (spec: 10%).
const chargeBalanceFailTolerance = 0.10

// tdsReconcileTolerance is the fractional difference between reported
// TDS and the summed ion concentrations that is still reconciled rather
// than rejected.
const tdsReconcileTolerance = 0.10

// NormalizedComposition is the output of ValidateComposition: canonical
// ion labels, reconciled TDS, and the charge-balance residual that
// resulted after any auto-balancing.
type NormalizedComposition struct {
	IonsMgL               map[string]float64
	TDSMgL                float64
	ChargeBalanceResidual float64
}

// ValidateComposition normalizes a caller-supplied ion map against the
// catalog's ion registry, auto-balances small charge imbalances, and
// reconciles reported TDS against the summed ion concentrations. It
// returns *rerror.DesignError with kind InvalidComposition on any
// unrecoverable failure.
func ValidateComposition(cat *reference.Catalog, raw map[string]float64, reportedTDSMgL float64) (NormalizedComposition, error) {
	ions := make(map[string]float64, len(raw))
	for rawLabel, conc := range raw {
		if conc < 0 {
			return NormalizedComposition{}, rerror.New(rerror.InvalidComposition,
				fmt.Sprintf("negative concentration for %s: %.4f mg/L", rawLabel, conc))
		}
		canonical, ok := cat.Canonicalize(rawLabel)
		if !ok {
			return NormalizedComposition{}, rerror.New(rerror.InvalidComposition,
				fmt.Sprintf("unknown ion %q", rawLabel))
		}
		ions[canonical] += conc
	}

	residual, err := balanceCharge(cat, ions)
	if err != nil {
		return NormalizedComposition{}, err
	}

	sum := 0.0
	for _, c := range ions {
		sum += c
	}

	tds := sum
	if reportedTDSMgL > 0 {
		diff := math.Abs(reportedTDSMgL-sum) / math.Max(reportedTDSMgL, 1e-9)
		if diff > tdsReconcileTolerance {
			return NormalizedComposition{}, rerror.New(rerror.InvalidComposition,
				fmt.Sprintf("reported TDS %.1f mg/L differs from summed ions %.1f mg/L by %.1f%%", reportedTDSMgL, sum, diff*100))
		}
		tds = sum // reconcile to the summed value, per spec §4.1 step 4
	}

	return NormalizedComposition{IonsMgL: ions, TDSMgL: tds, ChargeBalanceResidual: residual}, nil
}

// balanceCharge computes the signed equivalent-charge residual and, if
// it exceeds the warn tolerance, adjusts the dominant counter-ion (the
// largest-magnitude ion of opposite sign to the imbalance) to absorb
// it. It mutates ions in place and returns the residual after any
// adjustment.
func balanceCharge(cat *reference.Catalog, ions map[string]float64) (float64, error) {
	eq, total := equivalents(cat, ions)
	residual := residualFraction(eq, total)
	if residual <= chargeBalanceWarnTolerance {
		return residual, nil
	}

	// Excess sign: positive means net-cationic, so the counter-ion to
	// grow is the largest-magnitude anion (and vice versa).
	netSign := 1.0
	if sumEq(eq) < 0 {
		netSign = -1.0
	}

	counterLabel, counterEq := "", 0.0
	for label, e := range eq {
		if sign(e) == -netSign && math.Abs(e) > math.Abs(counterEq) {
			counterLabel, counterEq = label, e
		}
	}
	if counterLabel == "" {
		return residual, rerror.New(rerror.InvalidComposition, "cannot auto-balance: no counter-ion of opposite sign present")
	}

	// Solve for the counter-ion's new equivalents so the total residual
	// becomes exactly zero, then convert back to mg/L.
	others := sumEq(eq) - counterEq
	newCounterEq := -others
	ion, _ := cat.Ion(counterLabel)
	newConc := newCounterEq * ion.MolecularWeight / float64(ion.Charge)
	if newConc < 0 {
		return residual, rerror.New(rerror.InvalidComposition, "auto-balance would require a negative concentration")
	}
	ions[counterLabel] = newConc

	eq, total = equivalents(cat, ions)
	residual = residualFraction(eq, total)
	if residual > chargeBalanceFailTolerance {
		return residual, rerror.New(rerror.InvalidComposition,
			fmt.Sprintf("charge-balance residual %.1f%% exceeds tolerance after auto-balance", residual*100))
	}
	return residual, nil
}

func equivalents(cat *reference.Catalog, ions map[string]float64) (eq map[string]float64, total float64) {
	eq = make(map[string]float64, len(ions))
	for label, conc := range ions {
		ion, ok := cat.Ion(label)
		if !ok || ion.Neutral || ion.Charge == 0 {
			continue
		}
		e := conc * float64(ion.Charge) / ion.MolecularWeight
		eq[label] = e
		total += math.Abs(e)
	}
	return eq, total
}

func sumEq(eq map[string]float64) float64 {
	var s float64
	for _, e := range eq {
		s += e
	}
	return s
}

func residualFraction(eq map[string]float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Abs(sumEq(eq)) / total
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
