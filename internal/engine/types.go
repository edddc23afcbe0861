package engine

import (
	"github.com/rotrain/rotrain/pkg/chemistry"
	"github.com/rotrain/rotrain/pkg/economics"
	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/simulate"
	"github.com/rotrain/rotrain/pkg/validation"
)

// OptimizeRequest is operation 1's input.
type OptimizeRequest struct {
	FeedFlowM3H           float64            `yaml:"feed_flow_m3h" json:"feed_flow_m3h"`
	WaterRecoveryFraction float64            `yaml:"water_recovery_fraction" json:"water_recovery_fraction"`
	MembraneModel         string             `yaml:"membrane_model" json:"membrane_model"`
	AllowRecycle          bool               `yaml:"allow_recycle" json:"allow_recycle"`
	MaxRecycleRatio       float64            `yaml:"max_recycle_ratio" json:"max_recycle_ratio"`
	FluxTargetsLMH        []float64          `yaml:"flux_targets_lmh" json:"flux_targets_lmh"`
	FluxTolerance         float64            `yaml:"flux_tolerance" json:"flux_tolerance"`
	FeedIonCompositionMgL map[string]float64 `yaml:"feed_ion_composition" json:"feed_ion_composition"`
	FeedTDSMgL            float64            `yaml:"feed_tds_mg_l" json:"feed_tds_mg_l"`
	FeedTemperatureC      float64            `yaml:"feed_temperature_c" json:"feed_temperature_c"`
	FeedPH                float64            `yaml:"feed_ph" json:"feed_ph"`
	AntiscalantScenario   string             `yaml:"antiscalant_scenario" json:"antiscalant_scenario"`
}

// OptimizeResponse is operation 1's output: every viable configuration
// plus any non-fatal warnings attached along the way.
type OptimizeResponse struct {
	Configurations []optimizer.Configuration `json:"configurations"`
	Warnings       []validation.Result       `json:"warnings"`
}

// SimulateRequest is operation 2's input.
type SimulateRequest struct {
	Configuration         optimizer.Configuration `yaml:"configuration" json:"configuration"`
	FeedSalinityPPM       float64                 `yaml:"feed_salinity_ppm" json:"feed_salinity_ppm"`
	FeedIonCompositionMgL map[string]float64      `yaml:"feed_ion_composition" json:"feed_ion_composition"`
	MembraneModel         string                  `yaml:"membrane_model" json:"membrane_model"`
	FeedTemperatureC      float64                 `yaml:"feed_temperature_c" json:"feed_temperature_c"`
	FeedPH                float64                 `yaml:"feed_ph" json:"feed_ph"`
	PumpEfficiency        float64                 `yaml:"pump_efficiency,omitempty" json:"pump_efficiency,omitempty"`
	EnergyRecovery        *simulate.ERD           `yaml:"energy_recovery,omitempty" json:"energy_recovery,omitempty"`
	EconomicParams        *economics.Params       `yaml:"economic_params,omitempty" json:"economic_params,omitempty"`
	ChemicalDosing        *economics.Dosing       `yaml:"chemical_dosing,omitempty" json:"chemical_dosing,omitempty"`
}

// SimulateResponse is operation 2's output.
type SimulateResponse struct {
	Performance simulate.Result  `json:"performance"`
	Economics   economics.Result `json:"economics"`
}

// DefaultsRequest is operation 3's input.
type DefaultsRequest struct {
	MembraneModel string `yaml:"membrane_model,omitempty" json:"membrane_model,omitempty"`
}

// DefaultsResponse is operation 3's output.
type DefaultsResponse struct {
	EconomicParams economics.Params `json:"economic_params"`
	ChemicalDosing economics.Dosing `json:"chemical_dosing"`
}

// antiscalantScenario maps a request's plain-string scenario onto the
// chemistry package's typed enum, defaulting to the moderate tier when
// unspecified or unrecognized.
func antiscalantScenario(raw string) chemistry.AntiscalantScenario {
	switch chemistry.AntiscalantScenario(raw) {
	case chemistry.AntiscalantNone, chemistry.AntiscalantStandard, chemistry.AntiscalantHighPerformance:
		return chemistry.AntiscalantScenario(raw)
	default:
		return chemistry.AntiscalantStandard
	}
}
