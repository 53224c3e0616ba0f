package services

import (
	"context"
	"testing"

	"github.com/spendsense/spendsense-backend/internal/cache"
)

func TestOnboardingService_DataMergeAndClear(t *testing.T) {
	ctx := context.Background()
	svc := NewOnboardingService(testLogger(t), cache.NewMemorySessionStore())

	view, err := svc.SetData(ctx, "v1", map[string]string{
		"business_name": "Tony's",
		"email":         "tony@example.com",
	})
	if err != nil {
		t.Fatalf("set data: %v", err)
	}
	if view.Data["business_name"] != "Tony's" || view.Data["email"] != "tony@example.com" {
		t.Fatalf("merge lost fields: %+v", view.Data)
	}

	view, err = svc.SetData(ctx, "v1", map[string]string{
		"email":        "  ",
		"contact_name": "Tony",
	})
	if err != nil {
		t.Fatalf("set data: %v", err)
	}
	if _, ok := view.Data["email"]; ok {
		t.Fatalf("blank value did not clear the field: %+v", view.Data)
	}
	if view.Data["business_name"] != "Tony's" || view.Data["contact_name"] != "Tony" {
		t.Fatalf("merge clobbered fields: %+v", view.Data)
	}
}

func TestOnboardingService_ProgressionRules(t *testing.T) {
	ctx := context.Background()
	svc := NewOnboardingService(testLogger(t), cache.NewMemorySessionStore())

	view, err := svc.Snapshot(ctx, "v2")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.CurrentStep != 1 || view.StepName != "intro" || view.TotalSteps != 8 {
		t.Fatalf("unexpected initial view: %+v", view)
	}

	// Back at step 1 is a no-op.
	view, _ = svc.Back(ctx, "v2")
	if view.CurrentStep != 1 {
		t.Fatalf("back at step 1 moved to %d", view.CurrentStep)
	}

	// Next clamps at the final step.
	for i := 0; i < 20; i++ {
		view, _ = svc.Next(ctx, "v2")
	}
	if view.CurrentStep != 8 || view.StepName != "checkout" {
		t.Fatalf("next did not clamp: %+v", view)
	}

	// Out-of-range jumps normalize to step 1.
	view, _ = svc.JumpTo(ctx, "v2", 42)
	if view.CurrentStep != 1 {
		t.Fatalf("jump 42 normalized to %d, want 1", view.CurrentStep)
	}
	view, _ = svc.JumpTo(ctx, "v2", 0)
	if view.CurrentStep != 1 {
		t.Fatalf("jump 0 normalized to %d, want 1", view.CurrentStep)
	}
	view, _ = svc.JumpTo(ctx, "v2", 5)
	if view.CurrentStep != 5 || view.StepName != "value" {
		t.Fatalf("jump 5 landed at %+v", view)
	}
}

func TestOnboardingService_ResetAndRestart(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemorySessionStore()
	svc := NewOnboardingService(testLogger(t), store)

	if _, err := svc.SetData(ctx, "v3", map[string]string{"business_name": "Tony's"}); err != nil {
		t.Fatalf("set data: %v", err)
	}
	if _, err := svc.JumpTo(ctx, "v3", 4); err != nil {
		t.Fatalf("jump: %v", err)
	}

	// A fresh service over the same store models a process restart.
	restarted := NewOnboardingService(testLogger(t), store)
	view, err := restarted.Snapshot(ctx, "v3")
	if err != nil {
		t.Fatalf("snapshot after restart: %v", err)
	}
	if view.CurrentStep != 4 || view.Data["business_name"] != "Tony's" {
		t.Fatalf("restore lost state: %+v", view)
	}

	view, err = restarted.Reset(ctx, "v3")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if view.CurrentStep != 1 || len(view.Data) != 0 {
		t.Fatalf("reset left state behind: %+v", view)
	}
}

func TestOnboardingService_ExportCopies(t *testing.T) {
	ctx := context.Background()
	svc := NewOnboardingService(testLogger(t), cache.NewMemorySessionStore())

	if _, err := svc.SetData(ctx, "v4", map[string]string{"goals": "Cut food cost"}); err != nil {
		t.Fatalf("set data: %v", err)
	}
	data, err := svc.Export(ctx, "v4")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data["goals"] = "mutated"
	again, _ := svc.Export(ctx, "v4")
	if again["goals"] != "Cut food cost" {
		t.Fatalf("export leaked internal map: %+v", again)
	}
}
