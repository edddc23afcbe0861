// Package economics implements the capital/operating cost aggregation
// and levelized-cost-of-water model (C8): given a configuration, a
// performance result, and an economic-parameter record, it assembles a
// capital breakdown, an annual operating breakdown, and the LCOW
// contribution of each term.
package economics

// Params is the economic-parameter record the contract names: WACC,
// plant lifetime, utilization, prices, and the percentage factors that
// drive fixed O&M and indirect capital.
type Params struct {
	WACC                  float64 `yaml:"wacc" json:"wacc"`
	PlantLifetimeYears    int     `yaml:"plant_lifetime_years" json:"plant_lifetime_years"`
	UtilizationFactor     float64 `yaml:"utilization_factor" json:"utilization_factor"`
	ElectricityCostUSDkWh float64 `yaml:"electricity_cost_usd_kwh" json:"electricity_cost_usd_kwh"`

	MembraneReplacementFraction float64 `yaml:"membrane_replacement_fraction" json:"membrane_replacement_fraction"`
	MembraneCostBrackishUSDm2   float64 `yaml:"membrane_cost_brackish_usd_m2" json:"membrane_cost_brackish_usd_m2"`
	MembraneCostSeawaterUSDm2   float64 `yaml:"membrane_cost_seawater_usd_m2" json:"membrane_cost_seawater_usd_m2"`

	AcidHClCostUSDkg       float64 `yaml:"acid_hcl_cost_usd_kg" json:"acid_hcl_cost_usd_kg"`
	BaseNaOHCostUSDkg      float64 `yaml:"base_naoh_cost_usd_kg" json:"base_naoh_cost_usd_kg"`
	AntiscalantCostUSDkg   float64 `yaml:"antiscalant_cost_usd_kg" json:"antiscalant_cost_usd_kg"`
	CIPSurfactantCostUSDkg float64 `yaml:"cip_surfactant_cost_usd_kg" json:"cip_surfactant_cost_usd_kg"`
	CIPAcidCostUSDkg       float64 `yaml:"cip_acid_cost_usd_kg" json:"cip_acid_cost_usd_kg"`
	CIPBaseCostUSDkg       float64 `yaml:"cip_base_cost_usd_kg" json:"cip_base_cost_usd_kg"`

	HighPressurePumpCostUSDPerW  float64 `yaml:"high_pressure_pump_cost_usd_per_w" json:"high_pressure_pump_cost_usd_per_w"`
	LowPressurePumpCostUSDPerLps float64 `yaml:"low_pressure_pump_cost_usd_per_lps" json:"low_pressure_pump_cost_usd_per_lps"`

	PressureExchangerCostUSDPerM3H float64 `yaml:"pressure_exchanger_cost_usd_per_m3h" json:"pressure_exchanger_cost_usd_per_m3h"`
	ERDEfficiency                  float64 `yaml:"erd_efficiency" json:"erd_efficiency"`
	ERDPressureThresholdPa         float64 `yaml:"erd_pressure_threshold_pa" json:"erd_pressure_threshold_pa"`
	AutoIncludeERD                 bool    `yaml:"auto_include_erd" json:"auto_include_erd"`

	IncludeCartridgeFilters   bool    `yaml:"include_cartridge_filters" json:"include_cartridge_filters"`
	IncludeCIPSystem          bool    `yaml:"include_cip_system" json:"include_cip_system"`
	CartridgeFilterCostUSDM3H float64 `yaml:"cartridge_filter_cost_usd_m3h" json:"cartridge_filter_cost_usd_m3h"`
	CIPCapitalCostUSDm2       float64 `yaml:"cip_capital_cost_usd_m2" json:"cip_capital_cost_usd_m2"`

	IndirectCapitalFactor float64 `yaml:"indirect_capital_factor" json:"indirect_capital_factor"`

	LandPercentFCI           float64 `yaml:"land_percent_fci" json:"land_percent_fci"`
	WorkingCapitalPercentFCI float64 `yaml:"working_capital_percent_fci" json:"working_capital_percent_fci"`
	SalariesPercentFCI       float64 `yaml:"salaries_percent_fci" json:"salaries_percent_fci"`
	BenefitPercentOfSalary   float64 `yaml:"benefit_percent_of_salary" json:"benefit_percent_of_salary"`
	MaintenancePercentFCI    float64 `yaml:"maintenance_percent_fci" json:"maintenance_percent_fci"`
	LabFeesPercentFCI        float64 `yaml:"lab_fees_percent_fci" json:"lab_fees_percent_fci"`
	InsuranceTaxesPercentFCI float64 `yaml:"insurance_taxes_percent_fci" json:"insurance_taxes_percent_fci"`
}

// Dosing is the chemical-dosing parameter record consumed alongside
// Params.
type Dosing struct {
	AntiscalantDoseMgL float64 `yaml:"antiscalant_dose_mg_l" json:"antiscalant_dose_mg_l"`

	AcidDoseKgM3 float64 `yaml:"acid_dose_kg_m3" json:"acid_dose_kg_m3"`
	BaseDoseKgM3 float64 `yaml:"base_dose_kg_m3" json:"base_dose_kg_m3"`

	CIPFrequencyPerYear   int     `yaml:"cip_frequency_per_year" json:"cip_frequency_per_year"`
	CIPDoseKgPerM2        float64 `yaml:"cip_dose_kg_per_m2" json:"cip_dose_kg_per_m2"`
	CIPSurfactantFraction float64 `yaml:"cip_surfactant_fraction" json:"cip_surfactant_fraction"`
	CIPAcidFraction       float64 `yaml:"cip_acid_fraction" json:"cip_acid_fraction"`
	CIPBaseFraction       float64 `yaml:"cip_base_fraction" json:"cip_base_fraction"`
}

// DefaultParams returns the bundled WaterTAP-aligned defaults. Both
// membrane-grade unit costs are carried; the capital calculation picks
// one of them from the request's single membrane grade for the whole
// train.
func DefaultParams() Params {
	return Params{
		WACC:                  DefaultWACC,
		PlantLifetimeYears:    DefaultPlantLifetimeYears,
		UtilizationFactor:     DefaultUtilizationFactor,
		ElectricityCostUSDkWh: DefaultElectricityCostUSDkWh,

		MembraneReplacementFraction: DefaultMembraneReplacementFraction,
		MembraneCostBrackishUSDm2:   DefaultMembraneCostBrackishUSDm2,
		MembraneCostSeawaterUSDm2:   DefaultMembraneCostSeawaterUSDm2,

		AcidHClCostUSDkg:       DefaultAcidHClCostUSDkg,
		BaseNaOHCostUSDkg:      DefaultBaseNaOHCostUSDkg,
		AntiscalantCostUSDkg:   DefaultAntiscalantCostUSDkg,
		CIPSurfactantCostUSDkg: DefaultCIPSurfactantCostUSDkg,
		CIPAcidCostUSDkg:       DefaultCIPAcidCostUSDkg,
		CIPBaseCostUSDkg:       DefaultCIPBaseCostUSDkg,

		HighPressurePumpCostUSDPerW:  DefaultHighPressurePumpCostUSDPerW,
		LowPressurePumpCostUSDPerLps: DefaultLowPressurePumpCostUSDPerLps,

		PressureExchangerCostUSDPerM3H: DefaultPressureExchangerCostUSDPerM3H,
		ERDEfficiency:                  DefaultERDEfficiency,
		ERDPressureThresholdPa:         DefaultERDPressureThresholdPa,
		AutoIncludeERD:                 DefaultAutoIncludeERD,

		IncludeCartridgeFilters:   DefaultIncludeCartridgeFilters,
		IncludeCIPSystem:          DefaultIncludeCIPSystem,
		CartridgeFilterCostUSDM3H: DefaultCartridgeFilterCostUSDM3H,
		CIPCapitalCostUSDm2:       DefaultCIPCapitalCostUSDm2,

		IndirectCapitalFactor: DefaultIndirectCapitalFactor,

		LandPercentFCI:           DefaultLandPercentFCI,
		WorkingCapitalPercentFCI: DefaultWorkingCapitalPercentFCI,
		SalariesPercentFCI:       DefaultSalariesPercentFCI,
		BenefitPercentOfSalary:   DefaultBenefitPercentOfSalary,
		MaintenancePercentFCI:    DefaultMaintenancePercentFCI,
		LabFeesPercentFCI:        DefaultLabFeesPercentFCI,
		InsuranceTaxesPercentFCI: DefaultInsuranceTaxesPercentFCI,
	}
}

// DefaultDosing returns the bundled default chemical-dosing parameters.
func DefaultDosing() Dosing {
	return Dosing{
		AntiscalantDoseMgL:    DefaultAntiscalantDoseMgL,
		CIPFrequencyPerYear:   DefaultCIPFrequencyPerYear,
		CIPDoseKgPerM2:        DefaultCIPDoseKgPerM2,
		CIPSurfactantFraction: DefaultCIPSurfactantFraction,
		CIPAcidFraction:       DefaultCIPAcidFraction,
		CIPBaseFraction:       DefaultCIPBaseFraction,
	}
}

// CapitalBreakdown itemizes capital cost by category.
type CapitalBreakdown struct {
	Pumps            float64 `yaml:"pumps" json:"pumps"`
	Membranes        float64 `yaml:"membranes" json:"membranes"`
	EnergyRecovery   float64 `yaml:"energy_recovery" json:"energy_recovery"`
	CartridgeFilters float64 `yaml:"cartridge_filters" json:"cartridge_filters"`
	CIPSystem        float64 `yaml:"cip_system" json:"cip_system"`
	DirectTotal      float64 `yaml:"direct_total" json:"direct_total"`
	IndirectTotal    float64 `yaml:"indirect_total" json:"indirect_total"`
	Total            float64 `yaml:"total" json:"total"`
}

// OperatingBreakdown itemizes annual operating cost by category.
type OperatingBreakdown struct {
	Electricity         float64 `yaml:"electricity" json:"electricity"`
	MembraneReplacement float64 `yaml:"membrane_replacement" json:"membrane_replacement"`
	Antiscalant         float64 `yaml:"antiscalant" json:"antiscalant"`
	CIPChemicals        float64 `yaml:"cip_chemicals" json:"cip_chemicals"`
	FixedOM             float64 `yaml:"fixed_om" json:"fixed_om"`
	Total               float64 `yaml:"total" json:"total"`
}

// LCOWComponents breaks the levelized cost of water into its additive
// contributions, each already divided by annual permeate volume.
type LCOWComponents struct {
	CapitalRecovery float64 `yaml:"capital_recovery" json:"capital_recovery"`
	Electricity     float64 `yaml:"electricity" json:"electricity"`
	Membrane        float64 `yaml:"membrane" json:"membrane"`
	Chemical        float64 `yaml:"chemical" json:"chemical"`
	FixedOM         float64 `yaml:"fixed_om" json:"fixed_om"`
	Total           float64 `yaml:"total" json:"total"`
}

// Result is the complete C8 output for one configuration.
type Result struct {
	Capital     CapitalBreakdown   `yaml:"capital" json:"capital"`
	Operating   OperatingBreakdown `yaml:"operating" json:"operating"`
	LCOW        LCOWComponents     `yaml:"lcow" json:"lcow"`
	IncludedERD bool               `yaml:"included_erd" json:"included_erd"`
}
