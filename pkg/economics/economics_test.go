package economics

import (
	"math"
	"testing"

	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/simulate"
)

func twoStageConfig() optimizer.Configuration {
	return optimizer.Configuration{
		Stages: []optimizer.StageDesign{
			{VesselCount: 20, MembraneAreaM2: 20 * 37.16, TargetFluxLMH: 18, AchievedFluxLMH: 18},
			{VesselCount: 10, MembraneAreaM2: 10 * 37.16, TargetFluxLMH: 15, AchievedFluxLMH: 15},
		},
		SystemFeedFlowM3H: 100,
		SystemRecovery:    0.75,
	}
}

func performanceFor(config optimizer.Configuration, feedPressurePa float64) simulate.Result {
	stages := make([]simulate.StageResult, len(config.Stages))
	for i := range config.Stages {
		stages[i] = simulate.StageResult{
			FeedFlowM3H:        100,
			ConcentrateFlowM3H: 25,
			FeedPressurePa:     feedPressurePa,
			PumpWorkW:          100 * feedPressurePa / 3600,
		}
	}
	return simulate.Result{
		Stages: stages,
		System: simulate.SystemResult{
			TotalPermeateFlowM3H:   75,
			SpecificEnergyKWhPerM3: 1.0,
		},
	}
}

func brackishMembrane() reference.Membrane {
	return reference.Membrane{Name: "brackish-standard", Grade: "brackish"}
}

func TestCapitalRecoveryFactorPositiveForPositiveWACC(t *testing.T) {
	crf := CapitalRecoveryFactor(0.093, 30)
	if crf <= 0 {
		t.Fatalf("expected positive CRF, got %f", crf)
	}
}

func TestCapitalRecoveryFactorDegeneratesToStraightLineAtZeroWACC(t *testing.T) {
	crf := CapitalRecoveryFactor(0, 30)
	want := 1.0 / 30.0
	if math.Abs(crf-want) > 1e-9 {
		t.Errorf("crf at 0%% WACC = %f, want %f", crf, want)
	}
}

func TestCapitalRecoveryFactorZeroLifetimeIsZero(t *testing.T) {
	if crf := CapitalRecoveryFactor(0.05, 0); crf != 0 {
		t.Errorf("expected 0 CRF at zero lifetime, got %f", crf)
	}
}

func TestEvaluateLowPressureUsesLpsCost(t *testing.T) {
	config := twoStageConfig()
	req := Request{
		Configuration: config,
		Performance:   performanceFor(config, 20e5), // 20 bar, below threshold
		Membrane:      brackishMembrane(),
		Params:        DefaultParams(),
		Dosing:        DefaultDosing(),
	}
	result := Evaluate(req)
	if result.Capital.Pumps <= 0 {
		t.Error("expected positive pump capital cost")
	}
	if result.IncludedERD {
		t.Error("expected no ERD below the pressure threshold")
	}
}

func TestEvaluateHighPressureIncludesERD(t *testing.T) {
	config := twoStageConfig()
	req := Request{
		Configuration: config,
		Performance:   performanceFor(config, 60e5), // 60 bar, above threshold
		Membrane:      brackishMembrane(),
		Params:        DefaultParams(),
		Dosing:        DefaultDosing(),
	}
	result := Evaluate(req)
	if !result.IncludedERD {
		t.Error("expected ERD to be auto-included above the pressure threshold")
	}
	if result.Capital.EnergyRecovery <= 0 {
		t.Error("expected positive ERD capital cost when included")
	}
}

func TestEvaluateLCOWComponentsSumToTotal(t *testing.T) {
	config := twoStageConfig()
	req := Request{
		Configuration: config,
		Performance:   performanceFor(config, 20e5),
		Membrane:      brackishMembrane(),
		Params:        DefaultParams(),
		Dosing:        DefaultDosing(),
	}
	result := Evaluate(req)

	sum := result.LCOW.CapitalRecovery + result.LCOW.Electricity + result.LCOW.Membrane +
		result.LCOW.Chemical + result.LCOW.FixedOM
	if math.Abs(sum-result.LCOW.Total) > result.LCOW.Total*0.01 {
		t.Errorf("LCOW components sum to %f, want within 1%% of total %f", sum, result.LCOW.Total)
	}
	if result.LCOW.Total <= 0 {
		t.Error("expected a positive total LCOW")
	}
}

func TestEvaluateSeawaterMembraneCostsMoreThanBrackish(t *testing.T) {
	config := twoStageConfig()
	perf := performanceFor(config, 20e5)

	brackishReq := Request{Configuration: config, Performance: perf, Membrane: brackishMembrane(), Params: DefaultParams(), Dosing: DefaultDosing()}
	seawaterReq := brackishReq
	seawaterReq.Membrane = reference.Membrane{Name: "seawater-standard", Grade: "seawater"}

	brackishResult := Evaluate(brackishReq)
	seawaterResult := Evaluate(seawaterReq)

	if seawaterResult.Capital.Membranes <= brackishResult.Capital.Membranes {
		t.Errorf("expected seawater membrane capital (%f) to exceed brackish (%f)",
			seawaterResult.Capital.Membranes, brackishResult.Capital.Membranes)
	}
}
