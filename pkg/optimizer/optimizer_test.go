package optimizer

import (
	"context"
	"testing"

	"github.com/rotrain/rotrain/pkg/reference"
)

func brackishMembrane() reference.Membrane {
	return reference.Membrane{
		Name:              "brackish-standard",
		ElementAreaM2:     37.16,
		ElementsPerVessel: 7,
	}
}

func TestOptimizeTrivialLowRecoverySingleStage(t *testing.T) {
	req := Request{
		FeedFlowM3H:    50,
		RecoveryTarget: 0.01,
		Membrane:       brackishMembrane(),
	}
	configs, _, err := Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(configs) == 0 {
		t.Fatal("expected at least one configuration")
	}
	first := configs[0]
	if len(first.Stages) != 1 {
		t.Errorf("expected a single-stage configuration for a trivial target, got %d stages", len(first.Stages))
	}
}

func TestOptimizeHighRecoveryWithoutRecycleFails(t *testing.T) {
	req := Request{
		FeedFlowM3H:    100,
		RecoveryTarget: 0.99,
		Membrane:       brackishMembrane(),
		AllowRecycle:   false,
	}
	if _, _, err := Optimize(context.Background(), req); err == nil {
		t.Error("expected NoFeasibleConfiguration for 99% recovery with recycle disallowed")
	}
}

func TestOptimizeModerateRecoveryTwoStageRatio(t *testing.T) {
	req := Request{
		FeedFlowM3H:    100,
		RecoveryTarget: 0.75,
		Membrane:       brackishMembrane(),
	}
	configs, _, err := Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var twoStage *Configuration
	for i := range configs {
		if len(configs[i].Stages) == 2 {
			twoStage = &configs[i]
			break
		}
	}
	if twoStage == nil {
		t.Fatal("expected at least one 2-stage configuration")
	}
	n1 := float64(twoStage.Stages[0].VesselCount)
	n2 := float64(twoStage.Stages[1].VesselCount)
	ratio := n1 / n2
	if ratio < 1.3 || ratio > 2.6 {
		t.Errorf("expected n1 roughly 2x n2, got n1=%v n2=%v ratio=%v", n1, n2, ratio)
	}
}

func TestOptimizeHighRecoveryWithRecycleSucceeds(t *testing.T) {
	req := Request{
		FeedFlowM3H:     100,
		RecoveryTarget:  0.85,
		Membrane:        brackishMembrane(),
		AllowRecycle:    true,
		MaxRecycleRatio: 0.9,
	}
	configs, _, err := Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var recycled *Configuration
	for i := range configs {
		if configs[i].Recycle != nil {
			recycled = &configs[i]
			break
		}
	}
	if recycled == nil {
		t.Fatal("expected a recycle configuration among the results")
	}
	if recycled.SystemFeedFlowM3H != req.FeedFlowM3H {
		t.Errorf("system feed flow must equal external feed, got %v", recycled.SystemFeedFlowM3H)
	}
	if recycled.SystemRecovery < req.RecoveryTarget {
		t.Errorf("system recovery %v should meet target %v", recycled.SystemRecovery, req.RecoveryTarget)
	}
	wantDisposal := req.FeedFlowM3H * (1 - req.RecoveryTarget)
	if recycled.Recycle.DisposalFlowM3H > wantDisposal*1.5 || recycled.Recycle.DisposalFlowM3H < wantDisposal*0.5 {
		t.Errorf("disposal flow %v far from expected ballpark %v", recycled.Recycle.DisposalFlowM3H, wantDisposal)
	}
}

func TestOptimizeRejectsInvalidInputs(t *testing.T) {
	cases := []Request{
		{FeedFlowM3H: 0, RecoveryTarget: 0.5, Membrane: brackishMembrane()},
		{FeedFlowM3H: 100, RecoveryTarget: 0, Membrane: brackishMembrane()},
		{FeedFlowM3H: 100, RecoveryTarget: 1.0, Membrane: brackishMembrane()},
		{FeedFlowM3H: 100, RecoveryTarget: 0.5, Membrane: reference.Membrane{}},
	}
	for i, req := range cases {
		if _, _, err := Optimize(context.Background(), req); err == nil {
			t.Errorf("case %d: expected a validation error", i)
		}
	}
}

func TestOptimizeRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := Request{FeedFlowM3H: 100, RecoveryTarget: 0.5, Membrane: brackishMembrane()}
	if _, _, err := Optimize(ctx, req); err == nil {
		t.Error("expected a cancellation error")
	}
}

func TestEqualStageRecoveryMatchesOverallAtEachStage(t *testing.T) {
	r := equalStageRecovery(0.75, 2)
	overall := 1 - (1-r)*(1-r)
	if overall < 0.749 || overall > 0.751 {
		t.Errorf("equal per-stage recovery %v does not recombine to overall target: got %v", r, overall)
	}
}
