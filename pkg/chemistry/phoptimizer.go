package chemistry

import (
	"context"
	"math"

	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// pHSearchLow/High bound the golden-section search in
// MaximizeSustainableRecovery; pHSearchResolution is its stopping width.
const (
	pHSearchLow        = 5.5
	pHSearchHigh        = 9.0
	pHSearchResolution = 0.05
)

// goldenRatio is the golden-section search's standard shrink factor.
var goldenRatio = (math.Sqrt(5) - 1) / 2

// MaximizeSustainableRecovery runs C5's first operation: a golden-section
// search over feed pH in [5.5, 9.0] that maximizes the sustainable
// recovery returned by C4. At each probe, the composition's carbonate
// speciation is allowed to re-equilibrate to the probe pH (handled by
// PHREEQC inside Concentrate/SustainableRecovery — this function only
// drives the search over pH, it does not itself adjust alkalinity).
func MaximizeSustainableRecovery(ctx context.Context, runner phreeqc.Runner, comp NormalizedComposition, tempC float64, scenario AntiscalantScenario) (pHStar, rMax float64, err error) {
	evalAt := func(pH float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, rerror.Wrap(rerror.Cancelled, "ph optimization", err)
		}
		return SustainableRecovery(ctx, runner, comp, pH, tempC, scenario)
	}

	a, b := pHSearchLow, pHSearchHigh
	c := b - goldenRatio*(b-a)
	d := a + goldenRatio*(b-a)

	fc, err := evalAt(c)
	if err != nil {
		return 0, 0, err
	}
	fd, err := evalAt(d)
	if err != nil {
		return 0, 0, err
	}

	for math.Abs(b-a) > pHSearchResolution {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - goldenRatio*(b-a)
			fc, err = evalAt(c)
			if err != nil {
				return 0, 0, err
			}
		} else {
			a, c, fc = c, d, fd
			d = a + goldenRatio*(b-a)
			fd, err = evalAt(d)
			if err != nil {
				return 0, 0, err
			}
		}
	}

	if fc > fd {
		return c, fc, nil
	}
	return d, fd, nil
}
