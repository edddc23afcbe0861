package economics

// Default economic parameters, aligned with the reference material's
// WaterTAP-derived defaults.
const (
	DefaultWACC                  = 0.093
	DefaultPlantLifetimeYears    = 30
	DefaultUtilizationFactor     = 0.9
	DefaultElectricityCostUSDkWh = 0.07

	DefaultMembraneReplacementFraction = 0.2
	DefaultMembraneCostBrackishUSDm2   = 30.0
	DefaultMembraneCostSeawaterUSDm2   = 75.0

	DefaultAcidHClCostUSDkg       = 0.17
	DefaultBaseNaOHCostUSDkg      = 0.59
	DefaultAntiscalantCostUSDkg   = 2.50
	DefaultCIPSurfactantCostUSDkg = 3.00
	DefaultCIPAcidCostUSDkg       = 0.17
	DefaultCIPBaseCostUSDkg       = 0.59

	DefaultHighPressurePumpCostUSDPerW   = 1.908
	DefaultLowPressurePumpCostUSDPerLps  = 889.0
	LowPressurePumpThresholdPa           = 45e5 // 45 bar

	DefaultPressureExchangerCostUSDPerM3H = 535.0
	DefaultERDEfficiency                  = 0.95
	DefaultERDPressureThresholdPa         = 45e5 // 45 bar
	DefaultAutoIncludeERD                 = true

	DefaultIncludeCartridgeFilters    = false
	DefaultIncludeCIPSystem           = false
	DefaultCartridgeFilterCostUSDM3H  = 100.0
	DefaultCIPCapitalCostUSDm2        = 50.0

	DefaultIndirectCapitalFactor = 2.5

	DefaultLandPercentFCI        = 0.0015
	DefaultWorkingCapitalPercentFCI = 0.05
	DefaultSalariesPercentFCI    = 0.001
	DefaultBenefitPercentOfSalary = 0.9
	DefaultMaintenancePercentFCI = 0.008
	DefaultLabFeesPercentFCI     = 0.003
	DefaultInsuranceTaxesPercentFCI = 0.002

	DefaultAntiscalantDoseMgL  = 5.0
	DefaultCIPFrequencyPerYear = 4
	DefaultCIPDoseKgPerM2      = 0.5
	DefaultCIPSurfactantFraction = 0.7
	DefaultCIPAcidFraction       = 0.2
	DefaultCIPBaseFraction       = 0.1

	hoursPerYear = 8760
)
