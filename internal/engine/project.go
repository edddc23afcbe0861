package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rotrain/rotrain/pkg/economics"
	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/simulate"
)

// Project is the on-disk description of a train: the feed water, the
// membrane to evaluate it against, and either the parameters that
// drive optimization or a specific configuration to simulate.
// cmd/rotrain reads one of these per invocation, the way
// cmd/cityplanner reads a city.yaml.
type Project struct {
	Feed           FeedSpec                 `yaml:"feed"`
	MembraneModel  string                   `yaml:"membrane_model"`
	Optimize       *OptimizeParams          `yaml:"optimize,omitempty"`
	Configuration  *optimizer.Configuration `yaml:"configuration,omitempty"`
	PumpEfficiency float64                  `yaml:"pump_efficiency,omitempty"`
	EnergyRecovery *simulate.ERD            `yaml:"energy_recovery,omitempty"`
	EconomicParams *economics.Params        `yaml:"economic_params,omitempty"`
	ChemicalDosing *economics.Dosing        `yaml:"chemical_dosing,omitempty"`
}

// FeedSpec describes the feed water common to both operations.
type FeedSpec struct {
	FlowM3H           float64            `yaml:"flow_m3h"`
	IonCompositionMgL map[string]float64 `yaml:"ion_composition_mg_l,omitempty"`
	TDSMgL            float64            `yaml:"tds_mg_l,omitempty"`
	SalinityPPM       float64            `yaml:"salinity_ppm,omitempty"`
	PH                float64            `yaml:"ph"`
	TemperatureC      float64            `yaml:"temperature_c"`
}

// OptimizeParams carries the search parameters used only by the
// optimize operation; a project intended only for simulate may omit
// this block entirely and set Configuration instead.
type OptimizeParams struct {
	WaterRecoveryFraction float64   `yaml:"water_recovery_fraction"`
	AllowRecycle          bool      `yaml:"allow_recycle,omitempty"`
	MaxRecycleRatio       float64   `yaml:"max_recycle_ratio,omitempty"`
	FluxTargetsLMH        []float64 `yaml:"flux_targets_lmh,omitempty"`
	FluxTolerance         float64   `yaml:"flux_tolerance,omitempty"`
	AntiscalantScenario   string    `yaml:"antiscalant_scenario,omitempty"`
}

// Load reads a train project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}

	return &p, nil
}

// LoadProject loads a train project from a project directory. It
// looks for train.yaml in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, "train.yaml"))
}

// OptimizeRequest builds operation 1's request from the project,
// returning an error if the project has no optimize block.
func (p *Project) OptimizeRequest() (OptimizeRequest, error) {
	if p.Optimize == nil {
		return OptimizeRequest{}, errors.New("project has no optimize block")
	}
	return OptimizeRequest{
		FeedFlowM3H:           p.Feed.FlowM3H,
		WaterRecoveryFraction: p.Optimize.WaterRecoveryFraction,
		MembraneModel:         p.MembraneModel,
		AllowRecycle:          p.Optimize.AllowRecycle,
		MaxRecycleRatio:       p.Optimize.MaxRecycleRatio,
		FluxTargetsLMH:        p.Optimize.FluxTargetsLMH,
		FluxTolerance:         p.Optimize.FluxTolerance,
		FeedIonCompositionMgL: p.Feed.IonCompositionMgL,
		FeedTDSMgL:            p.Feed.TDSMgL,
		FeedTemperatureC:      p.Feed.TemperatureC,
		FeedPH:                p.Feed.PH,
		AntiscalantScenario:   p.Optimize.AntiscalantScenario,
	}, nil
}

// SimulateRequest builds operation 2's request from the project,
// returning an error if the project has no configuration to simulate.
func (p *Project) SimulateRequest() (SimulateRequest, error) {
	if p.Configuration == nil {
		return SimulateRequest{}, errors.New("project has no configuration to simulate")
	}
	return SimulateRequest{
		Configuration:         *p.Configuration,
		FeedSalinityPPM:       p.Feed.SalinityPPM,
		FeedIonCompositionMgL: p.Feed.IonCompositionMgL,
		MembraneModel:         p.MembraneModel,
		FeedTemperatureC:      p.Feed.TemperatureC,
		FeedPH:                p.Feed.PH,
		PumpEfficiency:        p.PumpEfficiency,
		EnergyRecovery:        p.EnergyRecovery,
		EconomicParams:        p.EconomicParams,
		ChemicalDosing:        p.ChemicalDosing,
	}, nil
}
