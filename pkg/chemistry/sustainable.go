package chemistry

import (
	"context"
	"math"

	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// AntiscalantScenario selects which SI threshold table SustainableRecovery
// gates against.
type AntiscalantScenario string

const (
	AntiscalantNone            AntiscalantScenario = "none"
	AntiscalantStandard        AntiscalantScenario = "standard"
	AntiscalantHighPerformance AntiscalantScenario = "high_performance"
)

// sustainableRecoveryBisectionLow/High bound the bisection search in
// SustainableRecovery; sustainableRecoveryResolution is the stopping
// resolution on R (spec: 0.01).
const (
	sustainableRecoveryBisectionLow  = 0.10
	sustainableRecoveryBisectionHigh = 0.99
	sustainableRecoveryResolution    = 0.01
)

// Thresholds returns the per-mineral SI ceiling for a given antiscalant
// scenario. These are configuration data, not algorithmic invariants —
// callers needing different values should build their own map and call
// SustainableRecoveryWithThresholds directly.
func Thresholds(scenario AntiscalantScenario) map[string]float64 {
	switch scenario {
	case AntiscalantStandard:
		return map[string]float64{
			"Calcite":   1.0,
			"Gypsum":    1.2,
			"Anhydrite": 1.2,
			"Barite":    2.0,
			"Celestite": 1.5,
			"Fluorite":  1.2,
			"SiO2(a)":   1.0,
		}
	case AntiscalantHighPerformance:
		return map[string]float64{
			"Calcite":   1.5,
			"Gypsum":    1.8,
			"Anhydrite": 1.8,
			"Barite":    2.5,
			"Celestite": 1.8,
			"Fluorite":  1.5,
			"SiO2(a)":   1.3,
		}
	default:
		zero := map[string]float64{}
		for _, m := range phreeqc.Minerals {
			zero[m] = 0.0
		}
		return zero
	}
}

// SustainableRecovery runs C4: bisection on R in [0.1, 0.99] to find the
// maximum recovery at which every mineral's saturation index, as
// reported by C3, stays at or below its scenario threshold.
func SustainableRecovery(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, feedPH, tempC float64, scenario AntiscalantScenario) (float64, error) {
	return SustainableRecoveryWithThresholds(ctx, runner, comp, feedPH, tempC, Thresholds(scenario))
}

// SustainableRecoveryWithThresholds is SustainableRecovery parameterized
// directly on the threshold table, for callers (such as the tests) that
// need non-default thresholds.
func SustainableRecoveryWithThresholds(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, feedPH, tempC float64, thresholds map[string]float64) (float64, error) {
	feasible := func(r float64) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, rerror.Wrap(rerror.Cancelled, "sustainable recovery", err)
		}
		result, err := Concentrate(ctx, runner, comp, feedPH, tempC, r)
		if err != nil {
			return false, err
		}
		worst := math.Inf(-1)
		for mineral, si := range result.Scaling.SI {
			threshold, ok := thresholds[mineral]
			if !ok {
				continue
			}
			if excess := si - threshold; excess > worst {
				worst = excess
			}
		}
		return worst <= 0, nil
	}

	low, high := sustainableRecoveryBisectionLow, sustainableRecoveryBisectionHigh
	lowOK, err := feasible(low)
	if err != nil {
		return 0, err
	}
	if !lowOK {
		// Even the floor recovery scales; no sustainable recovery exists.
		return low, nil
	}

	best := low
	for high-low > sustainableRecoveryResolution {
		mid := (low + high) / 2
		ok, err := feasible(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			best = mid
			low = mid
		} else {
			high = mid
		}
	}
	return best, nil
}
