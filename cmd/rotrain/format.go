package main

import (
	"fmt"
	"sort"

	"github.com/rotrain/rotrain/internal/engine"
	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/validation"
)

func printOptimizeReport(resp *engine.OptimizeResponse) {
	fmt.Printf("Found %d feasible configuration(s)\n", len(resp.Configurations))
	fmt.Println("=====================================")

	for i, cfg := range resp.Configurations {
		fmt.Printf("\nConfiguration %d\n", i+1)
		fmt.Printf("  System feed:     %.1f m3/h\n", cfg.SystemFeedFlowM3H)
		fmt.Printf("  System recovery: %.1f%%", cfg.SystemRecovery*100)
		if cfg.RecoveryTargetMet {
			fmt.Print(" (target met)")
		}
		fmt.Println()
		if cfg.HasSustainableRMax {
			fmt.Printf("  Sustainable Rmax: %.1f%%\n", cfg.SustainableRMax*100)
		}
		if cfg.Recycle != nil {
			fmt.Printf("  Recycle: %.1f m3/h (ratio %.2f), disposal %.1f m3/h\n",
				cfg.Recycle.RecycleFlowM3H, cfg.Recycle.RecycleRatio, cfg.Recycle.DisposalFlowM3H)
		}
		for s, stage := range cfg.Stages {
			printStageDesign(s+1, stage)
		}
	}

	if len(resp.Warnings) > 0 {
		fmt.Println()
		printValidationResults(resp.Warnings)
	}
}

func printStageDesign(n int, sd optimizer.StageDesign) {
	fmt.Printf("  Stage %d: %d vessels x %d elements, %.1f m2, flux %.1f/%.1f LMH target/achieved, recovery %.1f%%\n",
		n, sd.VesselCount, sd.ElementsPerVessel, sd.MembraneAreaM2, sd.TargetFluxLMH, sd.AchievedFluxLMH, sd.Recovery*100)
}

func printSimulateReport(resp *engine.SimulateResponse) {
	fmt.Println("Performance")
	fmt.Println("===========")
	for i, stage := range resp.Performance.Stages {
		fmt.Printf("Stage %d: feed %.1f m3/h @ %.1f bar, flux %.1f LMH, pump work %.1f kW\n",
			i+1, stage.FeedFlowM3H, stage.FeedPressurePa/1e5, stage.AchievedFluxLMH, stage.PumpWorkW/1000)
		for _, mineral := range sortedKeys(stage.Concentrate.Scaling.SI) {
			si := stage.Concentrate.Scaling.SI[mineral]
			fmt.Printf("    SI(%s) = %.2f [%s]\n", mineral, si, stage.Concentrate.Scaling.Tendency[mineral])
		}
	}

	sys := resp.Performance.System
	fmt.Println()
	fmt.Printf("System feed:     %.1f m3/h\n", sys.SystemFeedFlowM3H)
	fmt.Printf("System permeate: %.1f m3/h (%.1f%% recovery)\n", sys.TotalPermeateFlowM3H, sys.SystemRecovery*100)
	fmt.Printf("Disposal:        %.1f m3/h @ %.0f mg/L TDS\n", sys.DisposalFlowM3H, sys.DisposalTDSMgL)
	fmt.Printf("Specific energy: %.3f kWh/m3\n", sys.SpecificEnergyKWhPerM3)

	econ := resp.Economics
	fmt.Println()
	fmt.Println("Economics")
	fmt.Println("=========")
	fmt.Printf("Capital: pumps $%s, membranes $%s, ERD $%s, total $%s\n",
		formatMoney(econ.Capital.Pumps), formatMoney(econ.Capital.Membranes),
		formatMoney(econ.Capital.EnergyRecovery), formatMoney(econ.Capital.Total))
	fmt.Printf("Operating (annual): electricity $%s, membrane replacement $%s, chemicals $%s, fixed O&M $%s, total $%s\n",
		formatMoney(econ.Operating.Electricity), formatMoney(econ.Operating.MembraneReplacement),
		formatMoney(econ.Operating.Antiscalant+econ.Operating.CIPChemicals), formatMoney(econ.Operating.FixedOM),
		formatMoney(econ.Operating.Total))
	fmt.Printf("LCOW: $%.3f/m3 (capital %.3f, electricity %.3f, membrane %.3f, chemical %.3f, fixed O&M %.3f)\n",
		econ.LCOW.Total, econ.LCOW.CapitalRecovery, econ.LCOW.Electricity, econ.LCOW.Membrane, econ.LCOW.Chemical, econ.LCOW.FixedOM)
}

func printValidationResults(results []validation.Result) {
	fmt.Printf("WARNINGS (%d):\n", len(results))
	for _, r := range results {
		fmt.Printf("  [%s] %s\n", r.Level, r.Message)
		if r.Field != "" {
			fmt.Printf("    -> %s = %v\n", r.Field, r.ActualValue)
		}
		if r.Expected != "" {
			fmt.Printf("    expected: %s\n", r.Expected)
		}
		for _, s := range r.Suggestions {
			fmt.Printf("    * %s\n", s)
		}
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
