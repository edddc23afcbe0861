// Package reference holds the static ion and membrane catalogs: element
// properties, charge, molecular weight, and per-membrane transport
// coefficients. Nothing in this package computes a design; it only looks
// one up.
package reference

// Ion is a single species in the ion registry: its canonical label,
// signed charge, and molecular weight, used to convert between mg/L and
// molar/equivalent concentrations throughout chemistry and simulation.
type Ion struct {
	Label          string  `yaml:"label" json:"label"`
	Charge         int     `yaml:"charge" json:"charge"`
	MolecularWeight float64 `yaml:"molecular_weight" json:"molecular_weight"`
	// Neutral marks species (boric acid, dissolved silica) that carry no
	// charge and are excluded from the charge-balance residual.
	Neutral bool `yaml:"neutral" json:"neutral"`
}

// IsDivalent reports whether the ion carries a charge magnitude of 2,
// the threshold at which C7 applies its charge-amplification factor.
func (i Ion) IsDivalent() bool {
	return i.Charge == 2 || i.Charge == -2
}

// Membrane is a named membrane-element specification. Field names follow
// spec.md's data model: water permeability A_w at 25 °C, per-ion salt
// permeability B_i, and the mechanical/hydraulic limits the simulator and
// optimizer must respect.
type Membrane struct {
	Name string `yaml:"name" json:"name"`
	// Grade distinguishes brackish vs seawater membranes for economic
	// unit-cost lookup (C8).
	Grade string `yaml:"grade" json:"grade"`

	ElementAreaM2 float64 `yaml:"element_area_m2" json:"element_area_m2"`

	// AW25 is water permeability A_w at 25 °C, in m/s/Pa.
	AW25 float64 `yaml:"a_w_25c" json:"a_w_25c"`

	// BIon25 is per-ion salt permeability B_i at 25 °C, in m/s, keyed by
	// ion label. Ions absent from this map fall back to BIonDefault25.
	BIon25        map[string]float64 `yaml:"b_ion_25c" json:"b_ion_25c"`
	BIonDefault25 float64            `yaml:"b_ion_default_25c" json:"b_ion_default_25c"`

	MaxFeedPressurePa float64 `yaml:"max_feed_pressure_pa" json:"max_feed_pressure_pa"`
	MaxTemperatureC   float64 `yaml:"max_temperature_c" json:"max_temperature_c"`
	SpacerHeightM     float64 `yaml:"spacer_height_m" json:"spacer_height_m"`
	SpacerDropCoeff   float64 `yaml:"spacer_pressure_drop_coeff" json:"spacer_pressure_drop_coeff"`

	// NominalFluxLowLMH/NominalFluxHighLMH bound the catalog-recommended
	// flux band. They are catalog data only: no stage flux is checked
	// against them.
	NominalFluxLowLMH  float64 `yaml:"nominal_flux_low_lmh" json:"nominal_flux_low_lmh"`
	NominalFluxHighLMH float64 `yaml:"nominal_flux_high_lmh" json:"nominal_flux_high_lmh"`

	// DivalentChargeAmplification is a calibration constant (spec.md §9
	// leaves this undefined by source) applied on top of the scalar
	// solution-diffusion rejection prediction for divalent ions in C7.
	DivalentChargeAmplification float64 `yaml:"divalent_charge_amplification" json:"divalent_charge_amplification"`

	ElementsPerVessel int `yaml:"elements_per_vessel" json:"elements_per_vessel"`
}

// BIonAt25 returns the membrane's salt permeability for the named ion,
// falling back to the membrane's default when the ion has no specific
// entry.
func (m Membrane) BIonAt25(ionLabel string) float64 {
	if v, ok := m.BIon25[ionLabel]; ok {
		return v
	}
	return m.BIonDefault25
}

// Catalog is the loaded set of ions and membranes available to a request.
// It is read-only after construction and safe to share across concurrent
// requests (spec.md §5).
type Catalog struct {
	Ions      map[string]Ion      `yaml:"ions" json:"ions"`
	Membranes map[string]Membrane `yaml:"membranes" json:"membranes"`
}

// Ion looks up a canonical ion label. ok is false if the ion is unknown
// to the catalog.
func (c *Catalog) Ion(label string) (Ion, bool) {
	ion, ok := c.Ions[label]
	return ion, ok
}

// Membrane looks up a membrane by name. ok is false if no such membrane
// is catalogued.
func (c *Catalog) Membrane(name string) (Membrane, bool) {
	m, ok := c.Membranes[name]
	return m, ok
}
