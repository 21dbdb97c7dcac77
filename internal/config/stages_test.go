package config

import (
	"testing"

	"github.com/canonical/directory-lifecycle/internal/types"
)

func testSpec() *EnvSpec {
	return &EnvSpec{
		MemberInactiveDays:         90,
		MemberOffboardInactiveDays: 180,
		GuestInactiveDays:          90,
		GuestReviewInactiveDays:    60,
		ReviewGroup:                "inactive-guest-review",
		LicenseCatalogFailure:      "degrade",
	}
}

func TestStages(t *testing.T) {
	stages, err := Stages(testSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stages) != len(StageNames) {
		t.Fatalf("expected %d stages, got %d", len(StageNames), len(stages))
	}

	expectedActions := map[string]types.Action{
		StageMemberDisable:  types.ActionDisable,
		StageMemberOffboard: types.ActionSoftDelete,
		StageGuestDisable:   types.ActionDisable,
		StageGuestReview:    types.ActionNone,
	}
	for name, action := range expectedActions {
		stage, ok := stages[name]
		if !ok {
			t.Fatalf("missing stage %s", name)
		}
		if stage.Action != action {
			t.Errorf("stage %s: expected action %s, got %s", name, action, stage.Action)
		}
	}

	offboard := stages[StageMemberOffboard]
	if offboard.Pipeline.Enabled == nil || *offboard.Pipeline.Enabled {
		t.Error("member-offboard must target disabled accounts")
	}
	if offboard.Pipeline.InactiveDays != 180 {
		t.Errorf("expected 180 days for member-offboard, got %d", offboard.Pipeline.InactiveDays)
	}

	review := stages[StageGuestReview]
	if review.TargetGroup != "inactive-guest-review" {
		t.Errorf("expected review group on guest-review, got %q", review.TargetGroup)
	}
	if review.Pipeline.Kind != types.KindGuest {
		t.Errorf("expected guest kind, got %s", review.Pipeline.Kind)
	}
	if len(review.Pipeline.LicenseIncludeList) != 0 {
		t.Error("guest stages must not carry a license include-list")
	}
}

func TestStages_DryRun(t *testing.T) {
	spec := testSpec()
	spec.DryRun = true

	stages, err := Stages(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, stage := range stages {
		if stage.Action != types.ActionNone {
			t.Errorf("stage %s: dry run must force action none, got %s", name, stage.Action)
		}
	}
}

func TestStages_InvalidConfig(t *testing.T) {
	spec := testSpec()
	spec.GuestInactiveDays = 0

	if _, err := Stages(spec); err == nil {
		t.Fatal("expected validation error for zero inactivity threshold")
	}
}

func TestStages_LicenseCatalogFatal(t *testing.T) {
	spec := testSpec()
	spec.LicenseCatalogFailure = "fatal"

	stages, err := Stages(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stages[StageMemberDisable].Pipeline.LicenseCatalogFatal {
		t.Error("expected fatal catalog handling on member stages")
	}
}
