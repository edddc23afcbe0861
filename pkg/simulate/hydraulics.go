package simulate

import (
	"math"

	"github.com/rotrain/rotrain/pkg/reference"
)

const (
	gasConstantJPerMolK = 8.314
	kelvinOffset        = 273.15
	referenceTempK      = 298.15 // 25 C

	waterActivationEnergyJPerMol  = 20000
	soluteActivationEnergyJPerMol = 25000

	// osmoticCoefficientDilute/Concentrated bound the linear scaling of
	// the osmotic coefficient between infinite dilution and a typical
	// brackish strength; referenceBrackishTDSMgL is the TDS at which the
	// concentrated-end coefficient applies, a calibration constant in
	// the same spirit as the membrane catalog's divalent amplification.
	osmoticCoefficientDilute      = 1.0
	osmoticCoefficientConcentrated = 0.93
	referenceBrackishTDSMgL        = 5000.0

	permeateSidePressurePa = 1.0e5 // 1 bar
	atmosphericPressurePa  = 1.01325e5

	defaultPumpEfficiency = 0.80

	// elementWidthM is the effective flow-channel width of a standard
	// 8-inch spiral-wound element, used only to turn a vessel's feed
	// flow into a crossflow velocity for the mass-transfer correlation.
	elementWidthM = 0.86

	// massTransferCoefficientConstant calibrates the simplified
	// Sherwood-type correlation (k_mt ~ C * v^0.875 / h^0.125) to
	// typical spiral-wound crossflow behavior; not uniquely determined
	// by any single source, so it is a named constant rather than a
	// derived quantity.
	massTransferCoefficientConstant = 0.04
)

func kelvin(tempC float64) float64 {
	return tempC + kelvinOffset
}

// waterDensityKgM3 follows the polynomial water-density fit used
// throughout the reference material, valid 0-100 C.
func waterDensityKgM3(tempC float64) float64 {
	t := tempC
	return 999.84 + 0.065*t - 0.0085*t*t + 0.000035*t*t*t
}

// arrheniusCorrect scales a 25 C transport coefficient to tempC using
// the Arrhenius relation with the given activation energy.
func arrheniusCorrect(valueAt25 float64, activationEnergyJPerMol, tempC float64) float64 {
	t := kelvin(tempC)
	return valueAt25 * math.Exp((activationEnergyJPerMol/gasConstantJPerMolK)*(1/referenceTempK-1/t))
}

func waterPermeabilityAtTemp(m reference.Membrane, tempC float64) float64 {
	return arrheniusCorrect(m.AW25, waterActivationEnergyJPerMol, tempC)
}

func saltPermeabilityAtTemp(m reference.Membrane, ionLabel string, tempC float64) float64 {
	return arrheniusCorrect(m.BIonAt25(ionLabel), soluteActivationEnergyJPerMol, tempC)
}

// osmoticCoefficient scales linearly from the dilute-limit coefficient
// toward the brackish-strength coefficient as TDS rises.
func osmoticCoefficient(tdsMgL float64) float64 {
	frac := tdsMgL / referenceBrackishTDSMgL
	if frac > 1 {
		frac = 1
	}
	return osmoticCoefficientDilute - (osmoticCoefficientDilute-osmoticCoefficientConcentrated)*frac
}

// osmoticPressurePa sums each species' contribution to osmotic pressure:
// every entry in ionsMgL is already an individual dissociated species
// (not a neutral salt), so each contributes with a dissociation
// coefficient of 1.
func osmoticPressurePa(cat *reference.Catalog, ionsMgL map[string]float64, tempC float64) float64 {
	tds := 0.0
	for _, v := range ionsMgL {
		tds += v
	}
	phi := osmoticCoefficient(tds)
	t := kelvin(tempC)

	molarSum := 0.0
	for label, mgL := range ionsMgL {
		ion, ok := cat.Ion(label)
		if !ok || mgL <= 0 {
			continue
		}
		molarSum += mgL / ion.MolecularWeight // mg/L == g/m3; /MW(g/mol) = mol/m3
	}
	return phi * gasConstantJPerMolK * t * molarSum
}

// ndpFromFluxPa inverts the solution-diffusion flux equation for the net
// driving pressure that yields fluxLMH at the given temperature-corrected
// water permeability.
func ndpFromFluxPa(fluxLMH, awAtTemp float64) float64 {
	fluxMPerS := fluxLMH / (1000 * 3600)
	return fluxMPerS / awAtTemp
}

// crossflowVelocityMPerS estimates the feed-channel crossflow velocity
// from the stage's per-vessel feed flow and the membrane's spacer
// height, used only to drive the mass-transfer correlation below.
func crossflowVelocityMPerS(feedFlowM3H float64, nVessels int, spacerHeightM float64) float64 {
	if nVessels < 1 || spacerHeightM <= 0 {
		return 0
	}
	flowPerVesselM3S := (feedFlowM3H / float64(nVessels)) / 3600
	channelAreaM2 := spacerHeightM * elementWidthM
	return flowPerVesselM3S / channelAreaM2
}

// massTransferCoefficientMPerS is the simplified Sherwood-type
// correlation used to turn crossflow velocity and channel height into a
// polarization mass-transfer coefficient.
func massTransferCoefficientMPerS(velocityMPerS, spacerHeightM float64) float64 {
	if velocityMPerS <= 0 || spacerHeightM <= 0 {
		return math.Inf(1) // no polarization if there is no defined channel
	}
	return massTransferCoefficientConstant * math.Pow(velocityMPerS, 0.875) / math.Pow(spacerHeightM, 0.125)
}

// polarizationFactor is beta = exp(J / k_mt); wall concentration is
// c_bulk * beta.
func polarizationFactor(fluxLMH, massTransferCoeffMPerS float64) float64 {
	fluxMPerS := fluxLMH / (1000 * 3600)
	return math.Exp(fluxMPerS / massTransferCoeffMPerS)
}

func spacerPressureDropPa(m reference.Membrane, elementsInStage int) float64 {
	return m.SpacerDropCoeff * float64(elementsInStage)
}

func pumpWorkWatts(feedFlowM3H, feedPressurePa, pumpEfficiency float64) float64 {
	feedFlowM3S := feedFlowM3H / 3600
	return feedFlowM3S * feedPressurePa / pumpEfficiency
}
