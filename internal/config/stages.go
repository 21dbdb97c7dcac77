package config

import (
	"fmt"

	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/canonical/directory-lifecycle/pkg/pipeline"
	"github.com/canonical/directory-lifecycle/pkg/runner"
	"github.com/go-playground/validator/v10"
)

const (
	StageMemberDisable  = "member-disable"
	StageMemberOffboard = "member-offboard"
	StageGuestDisable   = "guest-disable"
	StageGuestReview    = "guest-review"
)

// StageNames lists the stages in their canonical execution order.
var StageNames = []string{StageMemberDisable, StageMemberOffboard, StageGuestDisable, StageGuestReview}

// Stages assembles the lifecycle stage configurations from the environment.
// With DryRun set every action collapses to none, leaving the selection and
// reporting path intact.
func Stages(spec *EnvSpec) (map[string]*runner.StageConfig, error) {
	enabled := true
	disabled := false

	stages := map[string]*runner.StageConfig{
		StageMemberDisable: {
			Name: StageMemberDisable,
			Pipeline: &pipeline.Config{
				Stage:               StageMemberDisable,
				Kind:                types.KindMember,
				Enabled:             &enabled,
				InactiveDays:        spec.MemberInactiveDays,
				ExclusionGroup:      spec.ExclusionGroup,
				ExcludedDomains:     spec.ExcludedDomains,
				ExcludedDepartments: spec.ExcludedDepartments,
				LicenseIncludeList:  spec.LicenseIncludeList,
				LicenseCatalogFatal: spec.LicenseCatalogFatal(),
			},
			Action: types.ActionDisable,
		},
		StageMemberOffboard: {
			Name: StageMemberOffboard,
			Pipeline: &pipeline.Config{
				Stage:               StageMemberOffboard,
				Kind:                types.KindMember,
				Enabled:             &disabled,
				InactiveDays:        spec.MemberOffboardInactiveDays,
				ExclusionGroup:      spec.ExclusionGroup,
				ExcludedDomains:     spec.ExcludedDomains,
				ExcludedDepartments: spec.ExcludedDepartments,
				LicenseIncludeList:  spec.LicenseIncludeList,
				LicenseCatalogFatal: spec.LicenseCatalogFatal(),
			},
			Action: types.ActionSoftDelete,
		},
		StageGuestDisable: {
			Name: StageGuestDisable,
			Pipeline: &pipeline.Config{
				Stage:           StageGuestDisable,
				Kind:            types.KindGuest,
				Enabled:         &enabled,
				InactiveDays:    spec.GuestInactiveDays,
				ExclusionGroup:  spec.ExclusionGroup,
				ExcludedDomains: spec.ExcludedDomains,
			},
			Action: types.ActionDisable,
		},
		StageGuestReview: {
			Name: StageGuestReview,
			Pipeline: &pipeline.Config{
				Stage:           StageGuestReview,
				Kind:            types.KindGuest,
				Enabled:         &enabled,
				InactiveDays:    spec.GuestReviewInactiveDays,
				ExclusionGroup:  spec.ExclusionGroup,
				ExcludedDomains: spec.ExcludedDomains,
			},
			Action:      types.ActionNone,
			TargetGroup: spec.ReviewGroup,
		},
	}

	if spec.DryRun {
		for _, stage := range stages {
			stage.Action = types.ActionNone
		}
	}

	validate := validator.New()
	for name, stage := range stages {
		if err := validate.Struct(stage.Pipeline); err != nil {
			return nil, fmt.Errorf("invalid configuration for stage %s: %w", name, err)
		}
	}

	return stages, nil
}
