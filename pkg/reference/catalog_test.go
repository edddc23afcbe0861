package reference

import "testing"

func TestDefaultCatalogLoads(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.Ions) == 0 {
		t.Fatal("expected bundled ion registry to be non-empty")
	}
	if len(cat.Membranes) == 0 {
		t.Fatal("expected bundled membrane catalog to be non-empty")
	}
	if _, ok := cat.Ion("Na+"); !ok {
		t.Error("expected Na+ in default ion registry")
	}
	if _, ok := cat.Membrane("brackish-standard"); !ok {
		t.Error("expected brackish-standard in default membrane catalog")
	}
}

func TestMembraneBIonAtFallsBackToDefault(t *testing.T) {
	cat := DefaultCatalog()
	m, ok := cat.Membrane("brackish-standard")
	if !ok {
		t.Fatal("brackish-standard missing from default catalog")
	}
	if got := m.BIonAt25("Na+"); got != m.BIon25["Na+"] {
		t.Errorf("expected specific B_i for Na+, got %v", got)
	}
	if got := m.BIonAt25("F-"); got != m.BIonDefault25 {
		t.Errorf("expected default B_i for unlisted ion F-, got %v", got)
	}
}

func TestCanonicalizeFoldsCaseAndUnderscores(t *testing.T) {
	cat := DefaultCatalog()
	cases := []struct {
		raw  string
		want string
	}{
		{"Na_+", "Na+"},
		{"na+", "Na+"},
		{"CA+2", "Ca+2"},
		{"hco3-", "HCO3-"},
	}
	for _, c := range cases {
		got, ok := cat.Canonicalize(c.raw)
		if !ok {
			t.Errorf("Canonicalize(%q): expected match", c.raw)
			continue
		}
		if got != c.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestCanonicalizeUnknownIon(t *testing.T) {
	cat := DefaultCatalog()
	if _, ok := cat.Canonicalize("Xx+9"); ok {
		t.Error("expected unknown ion to not canonicalize")
	}
}

func TestIonIsDivalent(t *testing.T) {
	cat := DefaultCatalog()
	ca, _ := cat.Ion("Ca+2")
	if !ca.IsDivalent() {
		t.Error("Ca+2 should be divalent")
	}
	na, _ := cat.Ion("Na+")
	if na.IsDivalent() {
		t.Error("Na+ should not be divalent")
	}
}
