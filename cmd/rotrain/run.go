package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotrain/rotrain/internal/engine"
	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/reference"
)

func buildEngine(phreeqcBin, phreeqcDB string) *engine.Engine {
	var runner phreeqc.Runner
	if phreeqcDB != "" {
		runner = phreeqc.ExecRunner{BinaryPath: phreeqcBin, DatabasePath: phreeqcDB}
	}
	return engine.New(reference.DefaultCatalog(), runner, nil)
}

func runOptimize(projectPath, phreeqcBin, phreeqcDB string) error {
	project, err := engine.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	req, err := project.OptimizeRequest()
	if err != nil {
		return err
	}

	eng := buildEngine(phreeqcBin, phreeqcDB)
	resp, err := eng.Optimize(context.Background(), req)
	if err != nil {
		return err
	}

	printOptimizeReport(resp)
	return nil
}

func runSimulate(projectPath, phreeqcBin, phreeqcDB string) error {
	if phreeqcDB == "" {
		return fmt.Errorf("simulate requires --phreeqc-db (PHREEQC is used to check scaling on every stage)")
	}

	project, err := engine.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	req, err := project.SimulateRequest()
	if err != nil {
		return err
	}

	eng := buildEngine(phreeqcBin, phreeqcDB)
	resp, err := eng.Simulate(context.Background(), req)
	if err != nil {
		return err
	}

	printSimulateReport(resp)
	return nil
}

func runDefaults(membraneModel string) error {
	eng := buildEngine("", "")
	resp, err := eng.Defaults(engine.DefaultsRequest{MembraneModel: membraneModel})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
