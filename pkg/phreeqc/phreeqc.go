// Package phreeqc drives the PHREEQC geochemistry engine as a
// subprocess: it writes a SOLUTION/REACTION/SELECTED_OUTPUT input deck,
// runs the phreeqc binary against it, and parses the tab-delimited
// selected-output file it produces. There is no native Go binding for
// PHREEQC (it is a USGS C/Fortran engine normally driven via its own
// CLI or the IPhreeqc C API), so this package is the one part of the
// core built on os/exec rather than a client library.
package phreeqc

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Minerals is the fixed RO-scaling mineral set every evaluation reports
// saturation indices for.
var Minerals = []string{
	"Calcite",
	"Gypsum",
	"Anhydrite",
	"Barite",
	"Celestite",
	"Fluorite",
	"SiO2(a)",
}

// elementMap translates a canonical ion label to the PHREEQC master
// species it is entered under, and the divisor converting mg/L of the
// ion into mg/L on the PHREEQC element/valence basis.
var elementMap = map[string]struct {
	species string
	factor  float64
}{
	"Na+":    {"Na", 1.0},
	"Ca+2":   {"Ca", 1.0},
	"Mg+2":   {"Mg", 1.0},
	"K+":     {"K", 1.0},
	"Ba+2":   {"Ba", 1.0},
	"Sr+2":   {"Sr", 1.0},
	"Cl-":    {"Cl", 1.0},
	"SO4-2":  {"S(6)", 96.06 / 32.07},
	"HCO3-":  {"Alkalinity", 1.0},
	"CO3-2":  {"C(4)", 60.01 / 12.01},
	"NO3-":   {"N(5)", 62.00 / 14.01},
	"F-":     {"F", 1.0},
	"SiO2":   {"Si", 60.08 / 28.09},
	"B(OH)3": {"B", 61.83 / 10.81},
}

// Solution is the water chemistry PHREEQC should evaluate.
type Solution struct {
	IonsMgL     map[string]float64
	PH          float64
	TemperatureC float64
}

// ReactionStep is a single PHREEQC REACTION block: add (or, with a
// negative coefficient, remove) Moles of Species. C3 uses this to
// remove pure water for concentration; C5 uses it to titrate a reagent
// (NaOH, HCl, H2SO4) to shift pH.
type ReactionStep struct {
	Species     string
	Coefficient float64
	Moles       float64
}

// Input is one PHREEQC evaluation request: a solution plus an optional
// reaction step applied to it.
type Input struct {
	Solution Solution
	Reaction *ReactionStep
}

// Output is the parsed result of one PHREEQC run: the species of
// interest to C3/C4/C5/C7.
type Output struct {
	PH           float64
	CO2MolL      float64
	SI           map[string]float64
	TotalsMgL    map[string]float64
	Converged    bool
}

// Runner executes a PHREEQC input and returns its parsed result.
// Abstracted behind an interface so tests can substitute a fake runner
// without shelling out.
type Runner interface {
	Run(ctx context.Context, in Input) (Output, error)
}

// ExecRunner runs the phreeqc CLI binary found on PATH (or at a
// configured path) against a generated input deck.
type ExecRunner struct {
	// BinaryPath is the phreeqc executable; defaults to "phreeqc" on
	// PATH when empty.
	BinaryPath string
	// DatabasePath is the PHREEQC thermodynamic database file
	// (phreeqc.dat, pitzer.dat, ...); required.
	DatabasePath string
}

// Run writes the input deck to a temp file, invokes phreeqc, and parses
// the resulting selected-output file.
func (r ExecRunner) Run(ctx context.Context, in Input) (Output, error) {
	dir, err := os.MkdirTemp("", "rotrain-phreeqc-")
	if err != nil {
		return Output{}, fmt.Errorf("phreeqc: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := dir + "/input.pqi"
	outputPath := dir + "/output.pqo"
	selectedPath := dir + "/selected.sel"

	deck := buildDeck(in, selectedPath)
	if err := os.WriteFile(inputPath, []byte(deck), 0o644); err != nil {
		return Output{}, fmt.Errorf("phreeqc: write input deck: %w", err)
	}

	binary := r.BinaryPath
	if binary == "" {
		binary = "phreeqc"
	}

	cmd := exec.CommandContext(ctx, binary, inputPath, outputPath, r.DatabasePath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Output{}, fmt.Errorf("phreeqc: run failed: %w (output: %s)", err, truncate(out, 2000))
	}

	f, err := os.Open(selectedPath)
	if err != nil {
		return Output{}, fmt.Errorf("phreeqc: selected-output not produced: %w", err)
	}
	defer f.Close()

	return parseSelectedOutput(f)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "...(truncated)"
}

func buildDeck(in Input, selectedPath string) string {
	var b strings.Builder
	b.WriteString("SOLUTION 1\n")
	fmt.Fprintf(&b, "    temp      %.2f\n", in.Solution.TemperatureC)
	fmt.Fprintf(&b, "    pH        %.3f\n", in.Solution.PH)
	b.WriteString("    pe        4.0\n")
	b.WriteString("    units     mg/l\n")

	for ion, mgl := range in.Solution.IonsMgL {
		mapping, ok := elementMap[ion]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "    %-12s %.6f\n", mapping.species, mgl/mapping.factor)
	}
	b.WriteString("END\n")

	if in.Reaction != nil {
		b.WriteString("REACTION 1\n")
		fmt.Fprintf(&b, "    %-8s %.4f\n", in.Reaction.Species, in.Reaction.Coefficient)
		fmt.Fprintf(&b, "    %.6f moles\n", in.Reaction.Moles)
		b.WriteString("END\n")
	}

	b.WriteString("SELECTED_OUTPUT 1\n")
	fmt.Fprintf(&b, "    -file %s\n", selectedPath)
	b.WriteString("    -reset false\n")
	b.WriteString("    -high_precision true\n")
	b.WriteString("    -pH true\n")
	b.WriteString("    -molalities CO2\n")
	b.WriteString("    -totals Na Ca Mg K Ba Sr Cl S(6) C(4) N(5) F Si B Alkalinity\n")
	fmt.Fprintf(&b, "    -si %s\n", strings.Join(Minerals, " "))
	b.WriteString("END\n")

	return b.String()
}

// parseSelectedOutput reads PHREEQC's tab-delimited selected-output
// file: one header row naming each column, followed by one data row
// per simulation step. The last row (post-REACTION, when present) is
// the one this package reports.
func parseSelectedOutput(f *os.File) (Output, error) {
	scanner := bufio.NewScanner(f)
	var header []string
	var lastRow []string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if header == nil {
			header = fields
			continue
		}
		lastRow = fields
	}
	if err := scanner.Err(); err != nil {
		return Output{}, fmt.Errorf("phreeqc: read selected output: %w", err)
	}
	if header == nil || lastRow == nil {
		return Output{}, fmt.Errorf("phreeqc: selected output is empty, run likely did not converge")
	}

	out := Output{
		SI:        map[string]float64{},
		TotalsMgL: map[string]float64{},
		Converged: true,
	}

	for i, name := range header {
		if i >= len(lastRow) {
			break
		}
		val, err := strconv.ParseFloat(lastRow[i], 64)
		if err != nil {
			continue
		}
		switch {
		case name == "pH":
			out.PH = val
		case name == "m_CO2":
			out.CO2MolL = val
		case strings.HasPrefix(name, "si_"):
			out.SI[strings.TrimPrefix(name, "si_")] = val
		case strings.HasPrefix(name, "tot_"):
			out.TotalsMgL[strings.TrimPrefix(name, "tot_")] = val
		}
	}

	return out, nil
}
