package phreeqc

import "context"

// FakeRunner is a deterministic, in-memory stand-in for ExecRunner used
// by package tests that exercise chemistry and optimizer logic without
// shelling out to a real phreeqc binary.
//
// Eval, when set, computes an Output for a given Input; it lets a test
// express "SI rises with concentration factor" without depending on an
// installed PHREEQC database.
type FakeRunner struct {
	Eval func(Input) (Output, error)
}

func (f FakeRunner) Run(_ context.Context, in Input) (Output, error) {
	if f.Eval != nil {
		return f.Eval(in)
	}
	return Output{PH: in.Solution.PH, SI: map[string]float64{}, TotalsMgL: map[string]float64{}, Converged: true}, nil
}
