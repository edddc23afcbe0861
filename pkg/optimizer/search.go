package optimizer

import (
	"fmt"
	"math"

	"github.com/rotrain/rotrain/pkg/validation"
	"gonum.org/v1/gonum/floats"
)

// searchScale classifies how wide a candidate-vessel search needs to be
// by the magnitude of the ideal first-stage vessel count: every count in
// a window around the ideal, a geometric multiplier grid, or a wider
// linear multiplier grid. No scale uses a binary search.
type searchScale int

const (
	scaleStandard searchScale = iota // every count in a window, <=100
	scaleOptimized                   // geometric progression, 100-1000
	scaleUltraOptimized              // 9-point linear multiplier sweep, no refinement, >1000
)

func classifyScale(idealN1 int) searchScale {
	switch {
	case idealN1 <= 100:
		return scaleStandard
	case idealN1 <= 1000:
		return scaleOptimized
	default:
		return scaleUltraOptimized
	}
}

// candidateN1 produces the first-stage vessel counts to try, centered
// on idealN1, with a density appropriate to the search scale.
func candidateN1(idealN1 int, scale searchScale) []int {
	if idealN1 < 1 {
		idealN1 = 1
	}
	seen := map[int]bool{}
	var out []int
	add := func(n int) {
		if n >= 1 && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	switch scale {
	case scaleStandard:
		lo := idealN1 - idealN1/5 - 3
		hi := idealN1 + idealN1/5 + 3
		if lo < 1 {
			lo = 1
		}
		for n := lo; n <= hi; n++ {
			add(n)
		}
	case scaleOptimized:
		// Geometric progression of n1 candidates: a log-spaced
		// multiplier grid around the ideal, tighter than the
		// ultra-optimized case since the feasible band is narrower at
		// this scale.
		for _, m := range floats.LogSpan(make([]float64, 11), 0.5, 1.5) {
			add(int(math.Round(float64(idealN1) * m)))
		}
	case scaleUltraOptimized:
		for _, m := range floats.Span(make([]float64, 9), 0.25, 1.75) {
			add(int(math.Round(float64(idealN1) * m)))
		}
	}
	return out
}

// searchStageCount enumerates every viable k-stage split and returns
// the configurations that meet or exceed the recovery target.
func searchStageCount(req Request, k int, report *validation.Report) []Configuration {
	perStageTarget := equalStageRecovery(req.RecoveryTarget, k)
	idealN1 := int(math.Round(perStageTarget * req.FeedFlowM3H * 1000 / (req.fluxTarget(0) * req.vesselAreaM2())))
	scale := classifyScale(idealN1)

	var configs []Configuration
	seen := map[string]bool{}
	for _, n1 := range candidateN1(idealN1, scale) {
		stages, ok := evaluateSplit(req, k, n1, perStageTarget, req.FeedFlowM3H, report)
		if !ok {
			continue
		}
		key := splitKey(stages)
		if seen[key] {
			continue
		}
		seen[key] = true

		achieved := systemRecovery(stages, req.FeedFlowM3H)
		if achieved+1e-9 < req.RecoveryTarget {
			continue
		}
		configs = append(configs, Configuration{
			Stages:            stages,
			SystemFeedFlowM3H: req.FeedFlowM3H,
			SystemRecovery:    achieved,
			RecoveryTargetMet: true,
		})
	}
	return configs
}

func splitKey(stages []StageDesign) string {
	key := ""
	for _, s := range stages {
		key += fmt.Sprintf("%d,", s.VesselCount)
	}
	return key
}

func systemRecovery(stages []StageDesign, systemFeed float64) float64 {
	total := 0.0
	for _, s := range stages {
		total += s.PermeateFlowM3H
	}
	return total / systemFeed
}

// evaluateSplit sizes stage 1 at n1 vessels (the swept variable) and
// derives every later stage by mass balance against perStageTarget, the
// uniform per-stage recovery that reaches the array's overall target.
func evaluateSplit(req Request, k, n1 int, perStageTarget, stage1Feed float64, report *validation.Report) ([]StageDesign, bool) {
	stages := make([]StageDesign, 0, k)
	feed := stage1Feed
	tol := req.tolerance()
	area := req.vesselAreaM2()

	for idx := 0; idx < k; idx++ {
		targetFlux := req.fluxTarget(idx)
		qMin := req.minConcentrate(idx)

		var n int
		var permeate, achievedFlux float64
		if idx == 0 {
			n = n1
			permeate = targetFlux * float64(n) * area / 1000
			achievedFlux = targetFlux
			if permeate >= feed || feed-permeate < qMin*float64(n) {
				return nil, false
			}
		} else {
			wantPermeate := perStageTarget * feed
			var ok bool
			n, permeate, achievedFlux, ok = chooseVesselCount(wantPermeate, feed, area, targetFlux, tol, qMin)
			if !ok {
				return nil, false
			}
		}

		if n > vesselCountExplosionLimit {
			report.AddWarning(validation.Result{
				Level:       validation.LevelHydraulic,
				Message:     fmt.Sprintf("stage %d requires %d vessels, exceeding the %d-vessel sanity limit", idx+1, n, vesselCountExplosionLimit),
				Field:       "vessel_count",
				ActualValue: n,
				Expected:    fmt.Sprintf("<= %d", vesselCountExplosionLimit),
			})
		}

		concentrate := feed - permeate
		stages = append(stages, StageDesign{
			VesselCount:        n,
			ElementsPerVessel:  req.Membrane.ElementsPerVessel,
			MembraneAreaM2:     area * float64(n),
			TargetFluxLMH:      targetFlux,
			AchievedFluxLMH:    achievedFlux,
			FeedFlowM3H:        feed,
			PermeateFlowM3H:    permeate,
			ConcentrateFlowM3H: concentrate,
			Recovery:           permeate / feed,
		})
		feed = concentrate
	}
	return stages, true
}

// vesselCountSearchWindow is how far chooseVesselCount strays from the
// nominal-flux anchor when the anchor vessel count leaves the
// fouling-minimum concentrate constraint unmet. Concentrate flow per
// vessel rises as vessel count falls, so the search tries fewer vessels
// first; a handful more is tried too in case the anchor overshoots flux.
var vesselCountSearchWindow = []int{0, -1, -2, -3, -4, -5, -6, -8, -10, 1, 2, 3}

// chooseVesselCount finds a vessel count that delivers wantPermeate
// from feed at a flux within [floor, relaxed-ceiling] of targetFlux
// while leaving at least qMin concentrate flow per vessel. The nominal
// flux anchor is tried first; nearby counts are tried only as the last
// resort the contract allows for meeting the fouling-minimum and
// recovery-target constraints together.
func chooseVesselCount(wantPermeate, feed, area, targetFlux, tol, qMin float64) (n int, permeate, achievedFlux float64, ok bool) {
	if wantPermeate <= 0 || wantPermeate >= feed {
		return 0, 0, 0, false
	}
	anchor := int(math.Round(wantPermeate * 1000 / (targetFlux * area)))
	floor := targetFlux * fluxToleranceFloorFraction
	ceiling := targetFlux * (1 + 2*tol)
	concentrate := feed - wantPermeate

	for _, delta := range vesselCountSearchWindow {
		candidate := anchor + delta
		if candidate < 1 {
			continue
		}
		flux := wantPermeate * 1000 / (float64(candidate) * area)
		if flux < floor || flux > ceiling {
			continue
		}
		if concentrate/float64(candidate) < qMin {
			continue
		}
		return candidate, wantPermeate, flux, true
	}
	return 0, 0, 0, false
}
