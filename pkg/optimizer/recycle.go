package optimizer

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/rotrain/rotrain/pkg/rerror"
	"github.com/rotrain/rotrain/pkg/validation"
)

const recycleRatioSteps = 18

// recycleRatioCandidates is the grid of recycle fractions tried, from
// the smallest (least disposal waste) upward, so the first convergent
// and feasible ratio found is also the least wasteful one tried.
func recycleRatioCandidates(maxRatio float64) []float64 {
	span := floats.Span(make([]float64, recycleRatioSteps+1), 0, maxRatio)
	return span[1:] // drop the zero-recycle endpoint; recycle=0 is the no-recycle search
}

// searchWithRecycle solves the three-stage concentrate-recycle fixed
// point described by the contract: for each candidate recycle ratio it
// guesses the final-stage concentrate flow, re-evaluates the three-stage
// balance against the blended stage-1 feed, and updates the guess with
// under-relaxation until it settles. The first ratio that converges and
// meets the recovery target (at the system, not stage-1, basis) wins.
func searchWithRecycle(ctx context.Context, req Request, report *validation.Report) (*Configuration, error) {
	const k = maxStages
	qf := req.FeedFlowM3H
	anyConverged := false

	for _, ratio := range recycleRatioCandidates(req.maxRecycleRatio()) {
		if err := ctx.Err(); err != nil {
			return nil, rerror.Wrap(rerror.Cancelled, "recycle fixed point", err)
		}

		qConcN := qf * (1 - req.RecoveryTarget) // initial guess
		var stages []StageDesign
		converged := false
		iterations := 0

		for iter := 0; iter < recycleMaxIterations; iter++ {
			iterations = iter + 1
			qRecycle := ratio * qConcN
			stage1Feed := qf + qRecycle

			effectiveRecoveryOfStage1Feed := req.RecoveryTarget * qf / stage1Feed
			if effectiveRecoveryOfStage1Feed >= 1 {
				break
			}
			perStageTarget := equalStageRecovery(effectiveRecoveryOfStage1Feed, k)
			idealN1 := int(math.Round(perStageTarget * stage1Feed * 1000 / (req.fluxTarget(0) * req.vesselAreaM2())))
			if idealN1 < 1 {
				idealN1 = 1
			}

			candidate, ok := evaluateSplit(req, k, idealN1, perStageTarget, stage1Feed, report)
			if !ok {
				break
			}
			stages = candidate

			qConcNNew := stages[k-1].ConcentrateFlowM3H
			delta := qConcNNew - qConcN
			qConcN += recycleUnderRelaxation * delta

			if math.Abs(delta) <= recycleConvergenceTolerance*math.Max(qConcN, 1) {
				converged = true
				break
			}
		}

		req.logger().WithFields(logrus.Fields{
			"ratio": ratio, "iterations": iterations, "converged": converged,
		}).Debug("recycle fixed-point iteration")

		if !converged || stages == nil {
			continue
		}
		anyConverged = true

		qRecycle := ratio * qConcN
		qDisposal := qConcN * (1 - ratio)
		systemRecov := (qf - qDisposal) / qf
		if systemRecov+1e-6 < req.RecoveryTarget {
			continue
		}

		return &Configuration{
			Stages:            stages,
			SystemFeedFlowM3H: qf,
			SystemRecovery:    systemRecov,
			RecoveryTargetMet: true,
			Recycle: &Recycle{
				RecycleFlowM3H:  qRecycle,
				RecycleRatio:    ratio,
				DisposalFlowM3H: qDisposal,
			},
		}, nil
	}

	if !anyConverged {
		return nil, rerror.New(rerror.ConvergenceFailure,
			"recycle fixed point did not settle within the iteration budget for any candidate ratio")
	}
	return nil, rerror.New(rerror.NoFeasibleConfig,
		"no recycle ratio up to max_recycle_ratio converges on the recovery target")
}
