package reference

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/ions.yaml
var defaultIonsYAML []byte

//go:embed data/membranes.yaml
var defaultMembranesYAML []byte

// DefaultCatalog loads the bundled ion and membrane reference data. It
// never fails on a correctly built binary; a decode error indicates a
// corrupted embed and panics when DefaultCatalog is called, the way a malformed
// embedded asset would in any Go program shipping data this way.
func DefaultCatalog() *Catalog {
	cat, err := loadCatalog(defaultIonsYAML, defaultMembranesYAML)
	if err != nil {
		panic(fmt.Sprintf("reference: bundled catalog data is invalid: %v", err))
	}
	return cat
}

// LoadCatalog reads ion and membrane catalogs from the given YAML bytes,
// overlaying onto the bundled defaults. A nil ionsYAML or membranesYAML
// leaves the corresponding defaults untouched — this mirrors a project
// directory overriding only the membranes it cares about.
func LoadCatalog(ionsYAML, membranesYAML []byte) (*Catalog, error) {
	base := DefaultCatalog()
	if ionsYAML != nil {
		var overlay struct {
			Ions map[string]Ion `yaml:"ions"`
		}
		if err := yaml.Unmarshal(ionsYAML, &overlay); err != nil {
			return nil, fmt.Errorf("reference: decode ion overlay: %w", err)
		}
		for k, v := range overlay.Ions {
			base.Ions[k] = v
		}
	}
	if membranesYAML != nil {
		var overlay struct {
			Membranes map[string]Membrane `yaml:"membranes"`
		}
		if err := yaml.Unmarshal(membranesYAML, &overlay); err != nil {
			return nil, fmt.Errorf("reference: decode membrane overlay: %w", err)
		}
		for k, v := range overlay.Membranes {
			base.Membranes[k] = v
		}
	}
	return base, nil
}

func loadCatalog(ionsYAML, membranesYAML []byte) (*Catalog, error) {
	cat := &Catalog{Ions: map[string]Ion{}, Membranes: map[string]Membrane{}}

	var ions struct {
		Ions map[string]Ion `yaml:"ions"`
	}
	if err := yaml.Unmarshal(ionsYAML, &ions); err != nil {
		return nil, fmt.Errorf("decode ions.yaml: %w", err)
	}
	cat.Ions = ions.Ions

	var membranes struct {
		Membranes map[string]Membrane `yaml:"membranes"`
	}
	if err := yaml.Unmarshal(membranesYAML, &membranes); err != nil {
		return nil, fmt.Errorf("decode membranes.yaml: %w", err)
	}
	cat.Membranes = membranes.Membranes

	return cat, nil
}

// FoldKey produces the lookup key used to match a caller-supplied ion
// label against the registry regardless of case, underscores, or
// spacing: "Na_+", "na+", and "NA+" all fold to the same key.
// Canonicalize folds each catalogued label the same way on every call
// and compares the results.
func FoldKey(raw string) string {
	b := make([]byte, 0, len(raw))
	for _, r := range raw {
		switch {
		case r == '_' || r == ' ':
			continue
		case r >= 'A' && r <= 'Z':
			b = append(b, byte(r-'A'+'a'))
		default:
			b = append(b, byte(r))
		}
	}
	return string(b)
}

// Canonicalize resolves a caller-supplied ion label to the registry's
// canonical form. ok is false if no catalogued ion folds to the same
// key.
func (c *Catalog) Canonicalize(raw string) (label string, ok bool) {
	folded := FoldKey(raw)
	for k := range c.Ions {
		if FoldKey(k) == folded {
			return k, true
		}
	}
	return "", false
}
