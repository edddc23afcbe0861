// Package optimizer implements the vessel-array and concentrate-recycle
// configuration search: given a feed flow and a recovery target, it
// enumerates viable per-stage vessel counts under flux and
// fouling-minimum constraints, falling back to a recycle fixed point
// when a straight-through array cannot reach the target.
package optimizer

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/rotrain/rotrain/pkg/chemistry"
	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/rerror"
	"github.com/rotrain/rotrain/pkg/validation"
)

// DefaultFluxTargetsLMH is the bundled per-stage flux target vector;
// the last entry repeats for any stage beyond its length.
var DefaultFluxTargetsLMH = []float64{18, 15, 12}

// DefaultMinConcentrateFlowM3H is the bundled per-stage fouling-minimum
// concentrate flow; the last entry repeats beyond its length.
var DefaultMinConcentrateFlowM3H = []float64{3.5, 3.8, 4.0}

const (
	defaultFluxToleranceFraction = 0.1
	fluxToleranceFloorFraction   = 0.7
	defaultMaxRecycleRatio       = 0.9
	maxStages                    = 3
	vesselCountExplosionLimit    = 500
	recycleMaxIterations         = 50
	recycleConvergenceTolerance  = 0.001
	recycleUnderRelaxation       = 0.5
)

// StageDesign is one stage's vessel count and resulting hydraulics.
type StageDesign struct {
	VesselCount        int     `yaml:"vessel_count" json:"vessel_count"`
	ElementsPerVessel  int     `yaml:"elements_per_vessel" json:"elements_per_vessel"`
	MembraneAreaM2     float64 `yaml:"membrane_area_m2" json:"membrane_area_m2"`
	TargetFluxLMH      float64 `yaml:"target_flux_lmh" json:"target_flux_lmh"`
	AchievedFluxLMH    float64 `yaml:"achieved_flux_lmh" json:"achieved_flux_lmh"`
	FeedFlowM3H        float64 `yaml:"feed_flow_m3h" json:"feed_flow_m3h"`
	PermeateFlowM3H    float64 `yaml:"permeate_flow_m3h" json:"permeate_flow_m3h"`
	ConcentrateFlowM3H float64 `yaml:"concentrate_flow_m3h" json:"concentrate_flow_m3h"`
	Recovery           float64 `yaml:"recovery" json:"recovery"`
}

// Recycle records the mass balance of a concentrate-recycle loop.
type Recycle struct {
	RecycleFlowM3H  float64 `yaml:"recycle_flow_m3h" json:"recycle_flow_m3h"`
	RecycleRatio    float64 `yaml:"recycle_ratio" json:"recycle_ratio"`
	DisposalFlowM3H float64 `yaml:"disposal_flow_m3h" json:"disposal_flow_m3h"`
}

// Configuration is a full candidate train: an ordered stage sequence
// plus the system-level mass balance that is always taken relative to
// the external feed, never the (possibly recycle-blended) stage-1 feed.
type Configuration struct {
	Stages             []StageDesign `yaml:"stages" json:"stages"`
	SystemFeedFlowM3H  float64       `yaml:"system_feed_flow_m3h" json:"system_feed_flow_m3h"`
	SystemRecovery     float64       `yaml:"system_recovery" json:"system_recovery"`
	Recycle            *Recycle      `yaml:"recycle,omitempty" json:"recycle,omitempty"`
	SustainableRMax    float64       `yaml:"sustainable_r_max,omitempty" json:"sustainable_r_max,omitempty"`
	HasSustainableRMax bool          `yaml:"has_sustainable_r_max,omitempty" json:"has_sustainable_r_max,omitempty"`
	RecoveryTargetMet  bool          `yaml:"recovery_target_met" json:"recovery_target_met"`
}

// Request is the C6 contract input.
type Request struct {
	FeedFlowM3H                    float64
	RecoveryTarget                 float64
	Membrane                       reference.Membrane
	FluxTargetsLMH                 []float64
	FluxToleranceFraction          float64
	MinConcentrateFlowPerVesselM3H []float64
	AllowRecycle                   bool
	MaxRecycleRatio                float64

	// Optional sustainable-recovery reality check (C4). When Runner is
	// nil the gate is skipped and every configuration's
	// HasSustainableRMax is left false, per spec.
	Runner              phreeqc.Runner
	FeedComposition     *chemistry.NormalizedComposition
	FeedPHStandard      float64
	FeedTemperatureC    float64
	AntiscalantScenario chemistry.AntiscalantScenario

	// Log receives per-evaluation tracing (feasible vessel-split counts,
	// recycle fixed-point iterations). Nil is safe and traces nothing.
	Log *logrus.Logger
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

func (req Request) fluxTarget(stageIdx int) float64 {
	targets := req.FluxTargetsLMH
	if len(targets) == 0 {
		targets = DefaultFluxTargetsLMH
	}
	if stageIdx < len(targets) {
		return targets[stageIdx]
	}
	return targets[len(targets)-1]
}

func (req Request) minConcentrate(stageIdx int) float64 {
	mins := req.MinConcentrateFlowPerVesselM3H
	if len(mins) == 0 {
		mins = DefaultMinConcentrateFlowM3H
	}
	if stageIdx < len(mins) {
		return mins[stageIdx]
	}
	return mins[len(mins)-1]
}

func (req Request) tolerance() float64 {
	if req.FluxToleranceFraction > 0 {
		return req.FluxToleranceFraction
	}
	return defaultFluxToleranceFraction
}

func (req Request) maxRecycleRatio() float64 {
	if req.MaxRecycleRatio > 0 {
		return req.MaxRecycleRatio
	}
	return defaultMaxRecycleRatio
}

func (req Request) vesselAreaM2() float64 {
	return req.Membrane.ElementAreaM2 * float64(req.Membrane.ElementsPerVessel)
}

// Optimize runs the search described by C6: for each stage count 1-3 it
// enumerates vessel splits, falling back to a concentrate-recycle fixed
// point for the 3-stage case when no straight-through split reaches the
// target. It returns every viable configuration found, ordered by stage
// count ascending then by closeness of achieved to target recovery, plus
// a report carrying non-fatal findings (vessel-count explosions,
// sustainable-recovery conflicts).
func Optimize(ctx context.Context, req Request) ([]Configuration, *validation.Report, error) {
	report := validation.NewReport()

	if req.FeedFlowM3H <= 0 {
		return nil, report, rerror.New(rerror.InvalidComposition, "feed flow must be positive")
	}
	if req.RecoveryTarget <= 0 || req.RecoveryTarget >= 1 {
		return nil, report, rerror.New(rerror.InvalidComposition, "recovery target must be in (0, 1)")
	}
	if req.vesselAreaM2() <= 0 {
		return nil, report, rerror.New(rerror.UnknownMembrane, "membrane has no usable element area")
	}

	var configs []Configuration
	for k := 1; k <= maxStages; k++ {
		if err := ctx.Err(); err != nil {
			return nil, report, rerror.Wrap(rerror.Cancelled, "configuration search", err)
		}
		found := searchStageCount(req, k, report)
		req.logger().WithFields(logrus.Fields{"stages": k, "feasible": len(found)}).Debug("vessel-split search complete")
		configs = append(configs, found...)
	}

	if req.AllowRecycle {
		best := bestAchieved(configs, maxStages)
		if best == nil || best.SystemRecovery < req.RecoveryTarget {
			recycled, err := searchWithRecycle(ctx, req, report)
			switch {
			case rerror.Is(err, rerror.Cancelled), rerror.Is(err, rerror.ConvergenceFailure):
				return nil, report, err
			case err != nil:
				report.AddWarning(validation.Result{
					Level:   validation.LevelHydraulic,
					Message: fmt.Sprintf("recycle fixed point: %v", err),
				})
			case recycled != nil:
				configs = append(configs, *recycled)
			}
		}
	}

	if len(configs) == 0 {
		return nil, report, rerror.New(rerror.NoFeasibleConfig, fmt.Sprintf(
			"no configuration up to %d stages reaches recovery target %.3f", maxStages, req.RecoveryTarget))
	}

	if req.Runner != nil && req.FeedComposition != nil {
		gateSustainableRecovery(ctx, req, configs, report)
	}

	sort.SliceStable(configs, func(i, j int) bool {
		ni, nj := len(configs[i].Stages), len(configs[j].Stages)
		if ni != nj {
			return ni < nj
		}
		di := math.Abs(configs[i].SystemRecovery - req.RecoveryTarget)
		dj := math.Abs(configs[j].SystemRecovery - req.RecoveryTarget)
		return di < dj
	})

	return configs, report, nil
}

func bestAchieved(configs []Configuration, stageCount int) *Configuration {
	var best *Configuration
	for i := range configs {
		c := &configs[i]
		if len(c.Stages) != stageCount {
			continue
		}
		if best == nil || c.SystemRecovery > best.SystemRecovery {
			best = c
		}
	}
	return best
}

// equalStageRecovery derives the per-stage recovery that, applied
// uniformly across k stages, reaches the overall target r: solving
// r = 1-(1-perStage)^k for perStage. This is the mass-balance rule used
// to size every stage beyond the one scale-aware search sweeps directly.
func equalStageRecovery(target float64, k int) float64 {
	return 1 - math.Pow(1-target, 1/float64(k))
}

func gateSustainableRecovery(ctx context.Context, req Request, configs []Configuration, report *validation.Report) {
	rMax, err := chemistry.SustainableRecovery(ctx, req.Runner, *req.FeedComposition, req.FeedPHStandard, req.FeedTemperatureC, req.AntiscalantScenario)
	if err != nil {
		report.AddWarning(validation.Result{
			Level:   validation.LevelChemistry,
			Message: fmt.Sprintf("sustainable recovery ceiling could not be computed: %v", err),
		})
		return
	}
	for i := range configs {
		configs[i].SustainableRMax = rMax
		configs[i].HasSustainableRMax = true
		if configs[i].SystemRecovery > rMax {
			report.AddWarning(validation.Result{
				Level:       validation.LevelChemistry,
				Message:     fmt.Sprintf("configuration recovery %.3f exceeds sustainable ceiling %.3f", configs[i].SystemRecovery, rMax),
				Field:       "system_recovery",
				ActualValue: configs[i].SystemRecovery,
				Expected:    fmt.Sprintf("<= %.3f", rMax),
				Suggestions: []string{"lower recovery target", "raise feed pH via chemical_dose_to_reach"},
			})
		}
	}
}
