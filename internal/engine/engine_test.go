package engine

import (
	"context"
	"testing"

	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/reference"
)

func fakeRunner() phreeqc.Runner {
	return phreeqc.FakeRunner{Eval: func(in phreeqc.Input) (phreeqc.Output, error) {
		return phreeqc.Output{
			PH:        in.Solution.PH,
			SI:        map[string]float64{"Calcite": 0.1, "Gypsum": -0.3},
			TotalsMgL: in.Solution.IonsMgL,
			Converged: true,
		}, nil
	}}
}

func testEngine() *Engine {
	return New(reference.DefaultCatalog(), fakeRunner(), nil)
}

func brackishFeed() map[string]float64 {
	return map[string]float64{"Na+": 650, "Cl-": 1000, "Ca+2": 120, "SO4-2": 200}
}

func TestOptimizeReturnsConfigurationsForFeasibleTarget(t *testing.T) {
	eng := testEngine()
	resp, err := eng.Optimize(context.Background(), OptimizeRequest{
		FeedFlowM3H:           100,
		WaterRecoveryFraction: 0.75,
		MembraneModel:         "brackish-standard",
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if len(resp.Configurations) == 0 {
		t.Fatal("expected at least one feasible configuration")
	}
}

func TestOptimizeUnknownMembraneIsUnknownMembraneKind(t *testing.T) {
	eng := testEngine()
	_, err := eng.Optimize(context.Background(), OptimizeRequest{
		FeedFlowM3H:           100,
		WaterRecoveryFraction: 0.75,
		MembraneModel:         "not-a-real-membrane",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown membrane model")
	}
	kind, ok := KindOf(err)
	if !ok || kind != ErrUnknownMembrane {
		t.Errorf("KindOf(err) = (%v, %v), want (%v, true)", kind, ok, ErrUnknownMembrane)
	}
}

func TestOptimizeWithFeedCompositionGatesSustainableRecovery(t *testing.T) {
	eng := testEngine()
	resp, err := eng.Optimize(context.Background(), OptimizeRequest{
		FeedFlowM3H:           100,
		WaterRecoveryFraction: 0.75,
		MembraneModel:         "brackish-standard",
		FeedIonCompositionMgL: brackishFeed(),
		FeedTDSMgL:            1970,
		FeedPH:                7.8,
		FeedTemperatureC:      25,
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	for _, cfg := range resp.Configurations {
		if !cfg.HasSustainableRMax {
			t.Errorf("expected HasSustainableRMax once a feed composition and runner are supplied")
		}
	}
}

func TestSimulateRunsPerformanceAndEconomics(t *testing.T) {
	eng := testEngine()

	optResp, err := eng.Optimize(context.Background(), OptimizeRequest{
		FeedFlowM3H:           100,
		WaterRecoveryFraction: 0.75,
		MembraneModel:         "brackish-standard",
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if len(optResp.Configurations) == 0 {
		t.Fatal("expected at least one configuration to simulate")
	}

	resp, err := eng.Simulate(context.Background(), SimulateRequest{
		Configuration:         optResp.Configurations[0],
		MembraneModel:         "brackish-standard",
		FeedIonCompositionMgL: brackishFeed(),
		FeedSalinityPPM:       1970,
		FeedPH:                7.8,
		FeedTemperatureC:      25,
	})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(resp.Performance.Stages) == 0 {
		t.Fatal("expected at least one simulated stage")
	}
	if resp.Economics.LCOW.Total <= 0 {
		t.Error("expected a positive total LCOW")
	}
}

func TestDefaultsReturnsBundledDefaults(t *testing.T) {
	eng := testEngine()
	resp, err := eng.Defaults(DefaultsRequest{})
	if err != nil {
		t.Fatalf("Defaults failed: %v", err)
	}
	if resp.EconomicParams.WACC <= 0 {
		t.Error("expected a positive default WACC")
	}
	if resp.ChemicalDosing.CIPFrequencyPerYear <= 0 {
		t.Error("expected a positive default CIP frequency")
	}
}

func TestDefaultsUnknownMembraneIsUnknownMembraneKind(t *testing.T) {
	eng := testEngine()
	_, err := eng.Defaults(DefaultsRequest{MembraneModel: "not-a-real-membrane"})
	if err == nil {
		t.Fatal("expected an error for an unknown membrane model")
	}
	if kind, ok := KindOf(err); !ok || kind != ErrUnknownMembrane {
		t.Errorf("KindOf(err) = (%v, %v), want (%v, true)", kind, ok, ErrUnknownMembrane)
	}
}

func TestOptimizeRequestRejectsCancelledContext(t *testing.T) {
	eng := testEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Optimize(ctx, OptimizeRequest{
		FeedFlowM3H:           100,
		WaterRecoveryFraction: 0.75,
		MembraneModel:         "brackish-standard",
	})
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if kind, ok := KindOf(err); !ok || kind != ErrCancelled {
		t.Errorf("KindOf(err) = (%v, %v), want (%v, true)", kind, ok, ErrCancelled)
	}
}
