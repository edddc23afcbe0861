package engine

import (
	"os"
	"path/filepath"
	"testing"
)

const testProjectYAML = `
feed:
  flow_m3h: 100
  ion_composition_mg_l:
    Na+: 650
    Cl-: 1000
    Ca+2: 120
    SO4-2: 200
  tds_mg_l: 1970
  ph: 7.8
  temperature_c: 25
membrane_model: brackish-standard
optimize:
  water_recovery_fraction: 0.75
  allow_recycle: true
  max_recycle_ratio: 0.5
`

func writeTestProject(t *testing.T, yamlText string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "train.yaml"), []byte(yamlText), 0o644); err != nil {
		t.Fatalf("writing fixture project: %v", err)
	}
	return dir
}

func TestLoadProject(t *testing.T) {
	dir := writeTestProject(t, testProjectYAML)

	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Feed.FlowM3H != 100 {
		t.Errorf("feed.flow_m3h = %v, want 100", p.Feed.FlowM3H)
	}
	if p.MembraneModel != "brackish-standard" {
		t.Errorf("membrane_model = %q, want %q", p.MembraneModel, "brackish-standard")
	}
	if p.Optimize == nil || p.Optimize.WaterRecoveryFraction != 0.75 {
		t.Fatalf("optimize.water_recovery_fraction = %+v, want 0.75", p.Optimize)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	if _, err := LoadProject("/nonexistent/path"); err == nil {
		t.Error("expected an error for a missing project directory")
	}
}

func TestProjectOptimizeRequestRequiresOptimizeBlock(t *testing.T) {
	p := &Project{Feed: FeedSpec{FlowM3H: 100}, MembraneModel: "brackish-standard"}
	if _, err := p.OptimizeRequest(); err == nil {
		t.Error("expected an error when the project has no optimize block")
	}
}

func TestProjectSimulateRequestRequiresConfiguration(t *testing.T) {
	p := &Project{Feed: FeedSpec{FlowM3H: 100}, MembraneModel: "brackish-standard"}
	if _, err := p.SimulateRequest(); err == nil {
		t.Error("expected an error when the project has no configuration")
	}
}

func TestProjectOptimizeRequestCarriesFeedAndParams(t *testing.T) {
	dir := writeTestProject(t, testProjectYAML)
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	req, err := p.OptimizeRequest()
	if err != nil {
		t.Fatalf("OptimizeRequest failed: %v", err)
	}
	if req.FeedFlowM3H != 100 || req.WaterRecoveryFraction != 0.75 {
		t.Errorf("req = %+v, want flow 100 and recovery 0.75", req)
	}
	if !req.AllowRecycle || req.MaxRecycleRatio != 0.5 {
		t.Errorf("req.AllowRecycle/MaxRecycleRatio = %v/%v, want true/0.5", req.AllowRecycle, req.MaxRecycleRatio)
	}
	if len(req.FeedIonCompositionMgL) != 4 {
		t.Errorf("expected 4 ions in feed composition, got %d", len(req.FeedIonCompositionMgL))
	}
}
