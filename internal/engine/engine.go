// Package engine wires C1-C8 behind the three operations the contract
// names: optimize, simulate, and defaults. It is the one place that
// knows about every core package; pkg/reference, pkg/chemistry,
// pkg/optimizer, pkg/simulate, and pkg/economics never import each
// other beyond what their own algorithms need.
package engine

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rotrain/rotrain/pkg/chemistry"
	"github.com/rotrain/rotrain/pkg/economics"
	"github.com/rotrain/rotrain/pkg/optimizer"
	"github.com/rotrain/rotrain/pkg/phreeqc"
	"github.com/rotrain/rotrain/pkg/reference"
	"github.com/rotrain/rotrain/pkg/rerror"
	"github.com/rotrain/rotrain/pkg/simulate"
)

// Engine holds the shared, read-only collaborators every request uses:
// the ion/membrane catalog and the PHREEQC runner. Safe for concurrent
// use across requests (spec.md §5) — it carries no per-request state.
type Engine struct {
	Catalog *reference.Catalog
	Runner  phreeqc.Runner
	Log     *logrus.Logger
}

// New builds an Engine. A nil logger defaults to one that discards
// output, so library code never needs a nil check before logging.
func New(catalog *reference.Catalog, runner phreeqc.Runner, log *logrus.Logger) *Engine {
	if catalog == nil {
		catalog = reference.DefaultCatalog()
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Engine{Catalog: catalog, Runner: runner, Log: log}
}

func (e *Engine) lookupMembrane(model string) (reference.Membrane, error) {
	m, ok := e.Catalog.Membrane(model)
	if !ok {
		return reference.Membrane{}, rerror.New(rerror.UnknownMembrane, "membrane model \""+model+"\" is not in the catalog")
	}
	return m, nil
}

// Optimize is operation 1: optimize_ro_configuration.
func (e *Engine) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	membrane, err := e.lookupMembrane(req.MembraneModel)
	if err != nil {
		return nil, err
	}

	optReq := optimizer.Request{
		FeedFlowM3H:           req.FeedFlowM3H,
		RecoveryTarget:        req.WaterRecoveryFraction,
		Membrane:              membrane,
		FluxTargetsLMH:        req.FluxTargetsLMH,
		FluxToleranceFraction: req.FluxTolerance,
		AllowRecycle:          req.AllowRecycle,
		MaxRecycleRatio:       req.MaxRecycleRatio,
		FeedPHStandard:        req.FeedPH,
		FeedTemperatureC:      req.FeedTemperatureC,
		AntiscalantScenario:   antiscalantScenario(req.AntiscalantScenario),
		Log:                   e.Log,
	}

	if len(req.FeedIonCompositionMgL) > 0 {
		comp, err := chemistry.ValidateComposition(e.Catalog, req.FeedIonCompositionMgL, req.FeedTDSMgL)
		if err != nil {
			return nil, err
		}
		optReq.FeedComposition = &comp
		optReq.Runner = e.Runner
		e.Log.WithFields(logrus.Fields{"feed_flow_m3h": req.FeedFlowM3H, "recovery_target": req.WaterRecoveryFraction}).
			Debug("optimizing with sustainable-recovery gating enabled")
	}

	configs, report, err := optimizer.Optimize(ctx, optReq)
	if err != nil {
		return nil, err
	}

	return &OptimizeResponse{Configurations: configs, Warnings: report.Warnings}, nil
}

// Simulate is operation 2: simulate_ro_system.
func (e *Engine) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error) {
	membrane, err := e.lookupMembrane(req.MembraneModel)
	if err != nil {
		return nil, err
	}

	comp, err := chemistry.ValidateComposition(e.Catalog, req.FeedIonCompositionMgL, req.FeedSalinityPPM)
	if err != nil {
		return nil, err
	}

	simReq := simulate.Request{
		Configuration:    req.Configuration,
		Catalog:          e.Catalog,
		Membrane:         membrane,
		Runner:           e.Runner,
		FeedComposition:  comp,
		FeedPH:           req.FeedPH,
		FeedTemperatureC: req.FeedTemperatureC,
		PumpEfficiency:   req.PumpEfficiency,
		Log:              e.Log,
	}
	if req.EnergyRecovery != nil {
		simReq.ERD = *req.EnergyRecovery
	}

	performance, err := simulate.Simulate(ctx, simReq)
	if err != nil {
		return nil, err
	}

	params := economics.DefaultParams()
	if req.EconomicParams != nil {
		params = *req.EconomicParams
	}
	dosing := economics.DefaultDosing()
	if req.ChemicalDosing != nil {
		dosing = *req.ChemicalDosing
	}

	econResult := economics.Evaluate(economics.Request{
		Configuration: req.Configuration,
		Performance:   performance,
		Membrane:      membrane,
		Params:        params,
		Dosing:        dosing,
	})

	return &SimulateResponse{Performance: performance, Economics: econResult}, nil
}

// Defaults is operation 3: get_defaults.
func (e *Engine) Defaults(req DefaultsRequest) (*DefaultsResponse, error) {
	if req.MembraneModel != "" {
		if _, err := e.lookupMembrane(req.MembraneModel); err != nil {
			return nil, err
		}
	}
	return &DefaultsResponse{
		EconomicParams: economics.DefaultParams(),
		ChemicalDosing: economics.DefaultDosing(),
	}, nil
}
