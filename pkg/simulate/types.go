// Package simulate implements the hybrid stage-by-stage solution-diffusion
// performance model (C7): given a configuration from pkg/optimizer and a
// validated feed composition, it walks the train stage by stage computing
// osmotic pressure, corrected permeability, per-ion rejection, and feed
// pressure, then rolls the stages up into system-level energy and
// mass-balance totals.
package simulate

import "github.com/rotrain/rotrain/pkg/chemistry"

// PressureComponents breaks a stage's required feed pressure into its
// additive terms, mirroring the contract's named quantities so callers
// can report or audit each one independently.
type PressureComponents struct {
	OsmoticRejectPa float64 `yaml:"osmotic_reject_pa" json:"osmotic_reject_pa"`
	NetDrivingPa    float64 `yaml:"net_driving_pa" json:"net_driving_pa"`
	SpacerDropPa    float64 `yaml:"spacer_drop_pa" json:"spacer_drop_pa"`
	PermeatePa      float64 `yaml:"permeate_pa" json:"permeate_pa"`
}

// StageResult is one stage's computed hydraulics, rejection, and scaling
// outcome.
type StageResult struct {
	FeedFlowM3H        float64 `yaml:"feed_flow_m3h" json:"feed_flow_m3h"`
	PermeateFlowM3H    float64 `yaml:"permeate_flow_m3h" json:"permeate_flow_m3h"`
	ConcentrateFlowM3H float64 `yaml:"concentrate_flow_m3h" json:"concentrate_flow_m3h"`
	Recovery           float64 `yaml:"recovery" json:"recovery"`

	FeedCompositionMgL        map[string]float64 `yaml:"feed_composition_mg_l" json:"feed_composition_mg_l"`
	PermeateCompositionMgL    map[string]float64 `yaml:"permeate_composition_mg_l" json:"permeate_composition_mg_l"`
	ConcentrateCompositionMgL map[string]float64 `yaml:"concentrate_composition_mg_l" json:"concentrate_composition_mg_l"`

	OsmoticPressureFeedPa        float64             `yaml:"osmotic_pressure_feed_pa" json:"osmotic_pressure_feed_pa"`
	OsmoticPressureConcentratePa float64             `yaml:"osmotic_pressure_concentrate_pa" json:"osmotic_pressure_concentrate_pa"`
	PolarizationFactor           float64             `yaml:"polarization_factor" json:"polarization_factor"`
	FeedPressurePa               float64             `yaml:"feed_pressure_pa" json:"feed_pressure_pa"`
	Pressure                     PressureComponents  `yaml:"pressure" json:"pressure"`
	AchievedFluxLMH              float64             `yaml:"achieved_flux_lmh" json:"achieved_flux_lmh"`

	WaterPermeabilityAtTempMPerSPerPa float64 `yaml:"water_permeability_at_temp_m_per_s_per_pa" json:"water_permeability_at_temp_m_per_s_per_pa"`

	PumpWorkW float64 `yaml:"pump_work_w" json:"pump_work_w"`

	Concentrate chemistry.ConcentrateResult `yaml:"concentrate" json:"concentrate"`
}

// SystemResult rolls every stage up to the basis the contract requires:
// the external feed, never the (possibly recycle-blended) stage-1 feed.
type SystemResult struct {
	SystemFeedFlowM3H      float64 `yaml:"system_feed_flow_m3h" json:"system_feed_flow_m3h"`
	TotalPermeateFlowM3H   float64 `yaml:"total_permeate_flow_m3h" json:"total_permeate_flow_m3h"`
	SystemRecovery         float64 `yaml:"system_recovery" json:"system_recovery"`
	DisposalFlowM3H        float64 `yaml:"disposal_flow_m3h" json:"disposal_flow_m3h"`
	DisposalTDSMgL         float64 `yaml:"disposal_tds_mg_l" json:"disposal_tds_mg_l"`
	SpecificEnergyKWhPerM3 float64 `yaml:"specific_energy_kwh_per_m3" json:"specific_energy_kwh_per_m3"`
	TotalPumpWorkW         float64 `yaml:"total_pump_work_w" json:"total_pump_work_w"`
}

// Result is the complete C7 output for one configuration.
type Result struct {
	Stages []StageResult `yaml:"stages" json:"stages"`
	System SystemResult  `yaml:"system" json:"system"`
}
