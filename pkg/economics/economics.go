package economics

import (
	"math"

	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/simulate"
)

// Request is the C8 contract input: a configuration, its performance
// result, and the economic/dosing parameter records.
type Request struct {
	Configuration optimizer.Configuration
	Performance   simulate.Result
	Membrane      reference.Membrane
	Params        Params
	Dosing        Dosing
}

// Evaluate assembles the capital breakdown, annual operating breakdown,
// and LCOW contributions the contract names.
func Evaluate(req Request) Result {
	capital, includedERD := evaluateCapital(req)
	operating := evaluateOperating(req, capital)

	annualPermeateM3 := req.Performance.System.TotalPermeateFlowM3H * hoursPerYear * req.Params.UtilizationFactor

	crf := CapitalRecoveryFactor(req.Params.WACC, req.Params.PlantLifetimeYears)
	lcow := LCOWComponents{}
	if annualPermeateM3 > 0 {
		lcow.CapitalRecovery = crf * capital.Total / annualPermeateM3
		lcow.Electricity = operating.Electricity / annualPermeateM3
		lcow.Membrane = operating.MembraneReplacement / annualPermeateM3
		lcow.Chemical = (operating.Antiscalant + operating.CIPChemicals) / annualPermeateM3
		lcow.FixedOM = operating.FixedOM / annualPermeateM3
	}
	lcow.Total = lcow.CapitalRecovery + lcow.Electricity + lcow.Membrane + lcow.Chemical + lcow.FixedOM

	return Result{Capital: capital, Operating: operating, LCOW: lcow, IncludedERD: includedERD}
}

// CapitalRecoveryFactor is CRF = i(1+i)^N / ((1+i)^N - 1); at i=0 it
// degenerates to 1/N, the undiscounted straight-line case.
func CapitalRecoveryFactor(wacc float64, lifetimeYears int) float64 {
	if lifetimeYears <= 0 {
		return 0
	}
	n := float64(lifetimeYears)
	if wacc <= 0 {
		return 1 / n
	}
	factor := math.Pow(1+wacc, n)
	return wacc * factor / (factor - 1)
}

func evaluateCapital(req Request) (CapitalBreakdown, bool) {
	p := req.Params
	var pumps, membranes float64
	for _, stage := range req.Performance.Stages {
		pumps += pumpCapitalCost(p, stage)
	}
	for _, sd := range req.Configuration.Stages {
		membranes += membraneCapitalCost(p, req.Membrane, sd)
	}

	var erd float64
	includedERD := false
	if shouldIncludeERD(req) {
		includedERD = true
		last := req.Performance.Stages[len(req.Performance.Stages)-1]
		erd = p.PressureExchangerCostUSDPerM3H * last.ConcentrateFlowM3H
	}

	var cartridgeFilters float64
	if p.IncludeCartridgeFilters {
		cartridgeFilters = p.CartridgeFilterCostUSDM3H * req.Configuration.SystemFeedFlowM3H
	}

	var cip float64
	if p.IncludeCIPSystem {
		totalArea := 0.0
		for _, sd := range req.Configuration.Stages {
			totalArea += sd.MembraneAreaM2
		}
		cip = p.CIPCapitalCostUSDm2 * totalArea
	}

	direct := pumps + membranes + erd + cartridgeFilters + cip
	indirectFactor := p.IndirectCapitalFactor
	if indirectFactor <= 0 {
		indirectFactor = DefaultIndirectCapitalFactor
	}
	// Land and working capital are carried as WaterTAP-style percent-of-FCI
	// indirect cost lines, alongside the direct/indirect contractor-fee
	// style multiplier above.
	indirect := direct*(indirectFactor-1) + direct*p.LandPercentFCI + direct*p.WorkingCapitalPercentFCI

	return CapitalBreakdown{
		Pumps:            pumps,
		Membranes:        membranes,
		EnergyRecovery:   erd,
		CartridgeFilters: cartridgeFilters,
		CIPSystem:        cip,
		DirectTotal:      direct,
		IndirectTotal:    indirect,
		Total:            direct + indirect,
	}, includedERD
}

// pumpCapitalCost prices a low-pressure pump per L/s of feed flow below
// the high-pressure threshold, or a high-pressure pump per watt of
// mechanical work above it.
func pumpCapitalCost(p Params, stage simulate.StageResult) float64 {
	if stage.FeedPressurePa < LowPressurePumpThresholdPa {
		feedFlowLps := stage.FeedFlowM3H * 1000 / 3600
		return p.LowPressurePumpCostUSDPerLps * feedFlowLps
	}
	return p.HighPressurePumpCostUSDPerW * stage.PumpWorkW
}

func membraneCapitalCost(p Params, m reference.Membrane, sd optimizer.StageDesign) float64 {
	unitCost := p.MembraneCostBrackishUSDm2
	if m.Grade == "seawater" {
		unitCost = p.MembraneCostSeawaterUSDm2
	}
	return unitCost * sd.MembraneAreaM2
}

func shouldIncludeERD(req Request) bool {
	if !req.Params.AutoIncludeERD || len(req.Performance.Stages) == 0 {
		return false
	}
	last := req.Performance.Stages[len(req.Performance.Stages)-1]
	threshold := req.Params.ERDPressureThresholdPa
	if threshold <= 0 {
		threshold = DefaultERDPressureThresholdPa
	}
	return last.FeedPressurePa >= threshold
}

func evaluateOperating(req Request, capital CapitalBreakdown) OperatingBreakdown {
	p := req.Params
	d := req.Dosing

	annualPermeateM3 := req.Performance.System.TotalPermeateFlowM3H * hoursPerYear * p.UtilizationFactor
	electricity := req.Performance.System.SpecificEnergyKWhPerM3 * annualPermeateM3 * p.ElectricityCostUSDkWh

	membraneReplacement := capital.Membranes * p.MembraneReplacementFraction

	antiscalantKgYear := d.AntiscalantDoseMgL * req.Configuration.SystemFeedFlowM3H * hoursPerYear * p.UtilizationFactor / 1e6
	antiscalant := antiscalantKgYear * p.AntiscalantCostUSDkg

	cipChemicals := 0.0
	if p.IncludeCIPSystem {
		totalArea := 0.0
		for _, sd := range req.Configuration.Stages {
			totalArea += sd.MembraneAreaM2
		}
		cipKgPerCleaning := d.CIPDoseKgPerM2 * totalArea
		cipKgYear := cipKgPerCleaning * float64(d.CIPFrequencyPerYear)
		cipChemicals = cipKgYear * (d.CIPSurfactantFraction*p.CIPSurfactantCostUSDkg +
			d.CIPAcidFraction*p.CIPAcidCostUSDkg +
			d.CIPBaseFraction*p.CIPBaseCostUSDkg)
	}

	fci := capital.Total
	fixedOM := fci * (p.SalariesPercentFCI*(1+p.BenefitPercentOfSalary) +
		p.MaintenancePercentFCI + p.LabFeesPercentFCI + p.InsuranceTaxesPercentFCI)

	return OperatingBreakdown{
		Electricity:         electricity,
		MembraneReplacement: membraneReplacement,
		Antiscalant:         antiscalant,
		CIPChemicals:        cipChemicals,
		FixedOM:             fixedOM,
		Total:               electricity + membraneReplacement + antiscalant + cipChemicals + fixedOM,
	}
}
