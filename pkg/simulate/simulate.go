package simulate

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rotrain/rotrain/pkg/chemistry"
	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/rerror"
)

// ERD describes an optional energy-recovery device on the final stage's
// brine stream.
type ERD struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	Efficiency float64 `yaml:"efficiency" json:"efficiency"` // fraction of brine hydraulic energy recovered
}

// Request is the C7 contract input.
type Request struct {
	Configuration optimizer.Configuration
	Catalog       *reference.Catalog
	Membrane      reference.Membrane
	Runner        phreeqc.Runner

	FeedComposition  chemistry.NormalizedComposition
	FeedPH           float64
	FeedTemperatureC float64

	PumpEfficiency float64 // defaults to 0.80 if zero
	ERD            ERD

	// Log receives per-stage tracing (PHREEQC call count, recycle
	// composition-feedback passes). Nil is safe and traces nothing.
	Log *logrus.Logger
}

func (req Request) pumpEfficiency() float64 {
	if req.PumpEfficiency > 0 {
		return req.PumpEfficiency
	}
	return defaultPumpEfficiency
}

func (req Request) logger() *logrus.Logger {
	if req.Log != nil {
		return req.Log
	}
	return discardLogger
}

var discardLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Simulate walks the configuration stage by stage with the
// solution-diffusion model described by the contract, then rolls the
// stages up into system-level energy and mass-balance totals taken on
// the external-feed basis.
func Simulate(ctx context.Context, req Request) (Result, error) {
	if len(req.Configuration.Stages) == 0 {
		return Result{}, rerror.New(rerror.InvalidComposition, "configuration has no stages to simulate")
	}

	stages, err := simulateStages(ctx, req, req.FeedComposition.IonsMgL)
	if err != nil {
		return Result{}, err
	}

	if req.Configuration.Recycle != nil {
		// One-shot correction: blend the fresh feed with the first
		// pass's stage-N concentrate composition (an approximation of
		// the recycle stream) before re-running, rather than iterating
		// composition to a full fixed point alongside the flow fixed
		// point pkg/optimizer already solved.
		lastConc := stages[len(stages)-1].ConcentrateCompositionMgL
		blended := blendFeedComposition(
			req.Configuration.SystemFeedFlowM3H, req.FeedComposition.IonsMgL,
			req.Configuration.Recycle.RecycleFlowM3H, lastConc,
		)
		req.logger().Debug("re-running stage sequence with recycle-blended feed composition")
		stages, err = simulateStages(ctx, req, blended)
		if err != nil {
			return Result{}, err
		}
	}

	req.logger().WithField("stages", len(stages)).Debug("simulation complete")
	system := rollUpSystem(req, stages)
	return Result{Stages: stages, System: system}, nil
}

// blendFeedComposition mass-weights two streams' ion concentrations,
// the same approach the reference hybrid simulator uses to combine
// fresh feed with a recycled concentrate before stage 1.
func blendFeedComposition(freshFlowM3H float64, freshMgL map[string]float64, recycleFlowM3H float64, recycleMgL map[string]float64) map[string]float64 {
	total := freshFlowM3H + recycleFlowM3H
	if total <= 0 {
		return freshMgL
	}
	blended := make(map[string]float64)
	for ion, c := range freshMgL {
		blended[ion] = freshFlowM3H * c
	}
	for ion, c := range recycleMgL {
		blended[ion] += recycleFlowM3H * c
	}
	for ion := range blended {
		blended[ion] /= total
	}
	return blended
}

func simulateStages(ctx context.Context, req Request, stage1FeedMgL map[string]float64) ([]StageResult, error) {
	cfg := req.Configuration
	results := make([]StageResult, 0, len(cfg.Stages))
	feedMgL := stage1FeedMgL
	inletPH := req.FeedPH

	for i, sd := range cfg.Stages {
		if err := ctx.Err(); err != nil {
			return nil, rerror.Wrap(rerror.Cancelled, "stage simulation", err)
		}

		sr, nextPH, err := simulateStage(ctx, req, sd, feedMgL, inletPH)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i+1, err)
		}
		results = append(results, sr)
		feedMgL = sr.ConcentrateCompositionMgL
		inletPH = nextPH
	}
	return results, nil
}

func simulateStage(ctx context.Context, req Request, sd optimizer.StageDesign, feedMgL map[string]float64, inletPH float64) (StageResult, float64, error) {
	m := req.Membrane
	tempC := req.FeedTemperatureC

	awAtTemp := waterPermeabilityAtTemp(m, tempC)
	ndp := ndpFromFluxPa(sd.TargetFluxLMH, awAtTemp)

	velocity := crossflowVelocityMPerS(sd.FeedFlowM3H, sd.VesselCount, m.SpacerHeightM)
	kmt := massTransferCoefficientMPerS(velocity, m.SpacerHeightM)
	beta := polarizationFactor(sd.TargetFluxLMH, kmt)

	wallMgL := make(map[string]float64, len(feedMgL))
	for ion, c := range feedMgL {
		wallMgL[ion] = c * beta
	}
	osmoticWall := osmoticPressurePa(req.Catalog, wallMgL, tempC)
	osmoticFeed := osmoticPressurePa(req.Catalog, feedMgL, tempC)

	spacerDrop := spacerPressureDropPa(m, m.ElementsPerVessel)
	feedPressure := osmoticWall + ndp + spacerDrop + permeateSidePressurePa

	if m.MaxFeedPressurePa > 0 && feedPressure > m.MaxFeedPressurePa {
		return StageResult{}, 0, rerror.New(rerror.PressureLimitExceeded, fmt.Sprintf(
			"feed pressure %.0f Pa exceeds membrane limit %.0f Pa", feedPressure, m.MaxFeedPressurePa))
	}
	netDrivingPressure := feedPressure - osmoticWall - spacerDrop - permeateSidePressurePa
	if netDrivingPressure <= 0 {
		return StageResult{}, 0, rerror.New(rerror.FluxOutOfRange,
			"net driving pressure is non-positive; osmotic pressure exceeds applied pressure")
	}

	permeateMgL, concentrateMgL := permeateAndConcentrate(req.Catalog, m, feedMgL, sd.FeedFlowM3H, sd.PermeateFlowM3H, awAtTemp, netDrivingPressure, tempC)

	concComp := chemistry.NormalizedComposition{IonsMgL: concentrateMgL, TDSMgL: sumMgL(concentrateMgL)}
	req.logger().Debug("calling PHREEQC for stage concentrate scaling check")
	concResult, err := chemistry.Concentrate(ctx, req.Runner, concComp, inletPH, tempC, 0)
	if err != nil {
		return StageResult{}, 0, err
	}

	sr := StageResult{
		FeedFlowM3H:                  sd.FeedFlowM3H,
		PermeateFlowM3H:              sd.PermeateFlowM3H,
		ConcentrateFlowM3H:           sd.ConcentrateFlowM3H,
		Recovery:                     sd.Recovery,
		FeedCompositionMgL:           feedMgL,
		PermeateCompositionMgL:       permeateMgL,
		ConcentrateCompositionMgL:    concentrateMgL,
		OsmoticPressureFeedPa:        osmoticFeed,
		OsmoticPressureConcentratePa: osmoticWall,
		PolarizationFactor:           beta,
		FeedPressurePa:               feedPressure,
		Pressure: PressureComponents{
			OsmoticRejectPa: osmoticWall,
			NetDrivingPa:    netDrivingPressure,
			SpacerDropPa:    spacerDrop,
			PermeatePa:      permeateSidePressurePa,
		},
		AchievedFluxLMH:                   sd.AchievedFluxLMH,
		WaterPermeabilityAtTempMPerSPerPa: awAtTemp,
		PumpWorkW:                         pumpWorkWatts(sd.FeedFlowM3H, feedPressure, req.pumpEfficiency()),
		Concentrate:                       concResult,
	}
	return sr, concResult.PH, nil
}

func rollUpSystem(req Request, stages []StageResult) SystemResult {
	cfg := req.Configuration

	totalPumpWork := 0.0
	totalPermeate := 0.0
	for _, s := range stages {
		totalPumpWork += s.PumpWorkW
		totalPermeate += s.PermeateFlowM3H
	}

	if req.ERD.Enabled && len(stages) > 0 {
		last := stages[len(stages)-1]
		brineFlowM3S := last.ConcentrateFlowM3H / 3600
		recovered := req.ERD.Efficiency * brineFlowM3S * (last.FeedPressurePa - atmosphericPressurePa)
		if recovered > 0 {
			totalPumpWork -= recovered
		}
	}

	disposalFlow := cfg.SystemFeedFlowM3H - cfg.SystemRecovery*cfg.SystemFeedFlowM3H
	disposalTDS := 0.0
	if cfg.Recycle != nil {
		disposalTDS = sumMgL(stages[len(stages)-1].ConcentrateCompositionMgL)
		disposalFlow = cfg.Recycle.DisposalFlowM3H
	} else if len(stages) > 0 {
		disposalTDS = sumMgL(stages[len(stages)-1].ConcentrateCompositionMgL)
	}

	sec := 0.0
	if totalPermeate > 0 {
		sec = (totalPumpWork / 1000) / totalPermeate
	}

	return SystemResult{
		SystemFeedFlowM3H:      cfg.SystemFeedFlowM3H,
		TotalPermeateFlowM3H:   totalPermeate,
		SystemRecovery:         cfg.SystemRecovery,
		DisposalFlowM3H:        disposalFlow,
		DisposalTDSMgL:         disposalTDS,
		SpecificEnergyKWhPerM3: sec,
		TotalPumpWorkW:         totalPumpWork,
	}
}

func sumMgL(m map[string]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

