package phreeqc

import (
	"bufio"
	"os"
	"strings"
	"testing"
)

func TestBuildDeckIncludesReactionWhenConcentrating(t *testing.T) {
	in := Input{
		Solution: Solution{
			IonsMgL:      map[string]float64{"Na+": 500, "Cl-": 800},
			PH:           7.5,
			TemperatureC: 25,
		},
		Reaction: &ReactionStep{Species: "H2O", Coefficient: -1.0, Moles: 20},
	}
	deck := buildDeck(in, "/tmp/out.sel")
	if !strings.Contains(deck, "SOLUTION 1") {
		t.Error("expected a SOLUTION block")
	}
	if !strings.Contains(deck, "REACTION 1") {
		t.Error("expected a REACTION block when a reaction step is set")
	}
	if !strings.Contains(deck, "SELECTED_OUTPUT 1") {
		t.Error("expected a SELECTED_OUTPUT block")
	}
	for _, mineral := range Minerals {
		if !strings.Contains(deck, mineral) {
			t.Errorf("expected mineral %s in -si line", mineral)
		}
	}
}

func TestBuildDeckOmitsReactionWithoutConcentration(t *testing.T) {
	in := Input{Solution: Solution{IonsMgL: map[string]float64{"Na+": 100}, PH: 7.0, TemperatureC: 25}}
	deck := buildDeck(in, "/tmp/out.sel")
	if strings.Contains(deck, "REACTION 1") {
		t.Error("did not expect a REACTION block when no reaction step is set")
	}
}

func TestParseSelectedOutput(t *testing.T) {
	f, err := os.CreateTemp("", "selected-*.sel")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	w.WriteString("pH\tm_CO2\tsi_Calcite\tsi_Gypsum\ttot_Ca\n")
	w.WriteString("7.200\t0.00031\t0.850\t-1.200\t160.0\n")
	w.Flush()
	f.Seek(0, 0)

	out, err := parseSelectedOutput(f)
	if err != nil {
		t.Fatalf("parseSelectedOutput: %v", err)
	}
	if !out.Converged {
		t.Error("expected Converged to be true")
	}
	if out.PH != 7.2 {
		t.Errorf("PH = %v, want 7.2", out.PH)
	}
	if out.SI["Calcite"] != 0.85 {
		t.Errorf("SI[Calcite] = %v, want 0.85", out.SI["Calcite"])
	}
	if out.TotalsMgL["Ca"] != 160.0 {
		t.Errorf("TotalsMgL[Ca] = %v, want 160.0", out.TotalsMgL["Ca"])
	}
}

func TestParseSelectedOutputEmptyIsError(t *testing.T) {
	f, err := os.CreateTemp("", "empty-*.sel")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.Seek(0, 0)

	if _, err := parseSelectedOutput(f); err == nil {
		t.Error("expected an error for an empty selected-output file")
	}
}

func TestFakeRunnerDefaultEcho(t *testing.T) {
	r := FakeRunner{}
	out, err := r.Run(nil, Input{Solution: Solution{PH: 8.1}})
	if err != nil {
		t.Fatal(err)
	}
	if out.PH != 8.1 {
		t.Errorf("PH = %v, want 8.1", out.PH)
	}
}
