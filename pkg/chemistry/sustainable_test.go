package chemistry

import (
	"context"
	"math"
	"testing"

	"github.com/rotrain/rotrain/pkg/phreeqc"
)

func TestSustainableRecoveryWithinResolution(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Ca+2": 400, "SO4-2": 1000}}
	runner := siRisesWithCF() // Calcite SI = -1 + log10(CF); crosses 0.5 at CF ~ 31.6 -> R ~ 0.968
	rMax, err := SustainableRecoveryWithThresholds(context.Background(), runner, comp, 7.5, 25, map[string]float64{"Calcite": 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rMax < 0.94 || rMax > 0.99 {
		t.Errorf("R_max = %v, expected roughly in [0.94, 0.99]", rMax)
	}
}

func TestSustainableRecoveryMonotoneInThreshold(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Ca+2": 400, "SO4-2": 1000}}
	runner := siRisesWithCF()
	loose, err := SustainableRecoveryWithThresholds(context.Background(), runner, comp, 7.5, 25, map[string]float64{"Calcite": 1.5})
	if err != nil {
		t.Fatal(err)
	}
	tight, err := SustainableRecoveryWithThresholds(context.Background(), runner, comp, 7.5, 25, map[string]float64{"Calcite": 0.0})
	if err != nil {
		t.Fatal(err)
	}
	if loose <= tight {
		t.Errorf("looser threshold should permit higher recovery: loose=%v tight=%v", loose, tight)
	}
}

func TestThresholdsRiseWithAntiscalantStrength(t *testing.T) {
	none := Thresholds(AntiscalantNone)
	standard := Thresholds(AntiscalantStandard)
	high := Thresholds(AntiscalantHighPerformance)
	for _, mineral := range phreeqc.Minerals {
		if standard[mineral] < none[mineral] {
			t.Errorf("%s: standard threshold should be >= none", mineral)
		}
		if high[mineral] < standard[mineral] {
			t.Errorf("%s: high-performance threshold should be >= standard", mineral)
		}
	}
}

func TestSustainableRecoveryRespectsContextCancellation(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Ca+2": 400}}
	runner := siRisesWithCF()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SustainableRecoveryWithThresholds(ctx, runner, comp, 7.5, 25, map[string]float64{"Calcite": 0.5})
	if err == nil {
		t.Error("expected a cancellation error")
	}
}

func TestSustainableRecoveryFloorWhenInfeasibleEverywhere(t *testing.T) {
	comp := NormalizedComposition{IonsMgL: map[string]float64{"Ca+2": 2000}}
	runner := phreeqc.FakeRunner{Eval: func(in phreeqc.Input) (phreeqc.Output, error) {
		return phreeqc.Output{SI: map[string]float64{"Calcite": 5.0}, Converged: true}, nil
	}}
	rMax, err := SustainableRecoveryWithThresholds(context.Background(), runner, comp, 7.5, 25, map[string]float64{"Calcite": 0.0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rMax-sustainableRecoveryBisectionLow) > 1e-9 {
		t.Errorf("expected the floor recovery when even the minimum probe is infeasible, got %v", rMax)
	}
}
