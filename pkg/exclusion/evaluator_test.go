// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package exclusion

import (
	"testing"
	"time"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/types"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEvaluator_Evaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	cfg := Config{
		GroupMemberIDs: []string{"excluded-id"},
		Domains:        []string{"example.org"},
		Departments:    []string{" Shared Mailboxes "},
		Now:            now,
		InactiveDays:   90,
		MemberStage:    true,
	}

	testCases := []struct {
		name           string
		account        *types.Account
		memberStage    bool
		expectedResult bool
		expectedReason Reason
	}{
		{
			name: "not excluded",
			account: &types.Account{
				ID:            "account-1",
				PrincipalName: "user@company.com",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: false,
			expectedReason: ReasonNone,
		},
		{
			name: "created within grace period",
			account: &types.Account{
				ID:            "account-2",
				PrincipalName: "new@company.com",
				CreatedAt:     timePtr(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)),
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonCreationRecency,
		},
		{
			name: "member of exclusion group",
			account: &types.Account{
				ID:            "excluded-id",
				PrincipalName: "vip@company.com",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonGroup,
		},
		{
			name: "excluded department, normalized",
			account: &types.Account{
				ID:            "account-3",
				PrincipalName: "box@company.com",
				Department:    "shared mailboxes",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonDepartment,
		},
		{
			name: "department skipped for guest stages",
			account: &types.Account{
				ID:            "account-4",
				PrincipalName: "box@company.com",
				Department:    "shared mailboxes",
				CreatedAt:     old,
			},
			memberStage:    false,
			expectedResult: false,
			expectedReason: ReasonNone,
		},
		{
			name: "subdomain caught by substring match",
			account: &types.Account{
				ID:            "account-5",
				PrincipalName: "user@sub.example.org",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonDomain,
		},
		{
			name: "unrelated domain containing excluded one is also caught",
			account: &types.Account{
				ID:            "account-6",
				PrincipalName: "user@example.org.uk",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonDomain,
		},
		{
			name: "excluded domain on email only",
			account: &types.Account{
				ID:            "account-7",
				PrincipalName: "user_company.com#EXT#@tenant.example.com",
				Email:         "user@example.org",
				CreatedAt:     old,
			},
			memberStage:    true,
			expectedResult: true,
			expectedReason: ReasonDomain,
		},
		{
			name: "missing creation date does not exclude",
			account: &types.Account{
				ID:            "account-8",
				PrincipalName: "user@company.com",
			},
			memberStage:    true,
			expectedResult: false,
			expectedReason: ReasonNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.MemberStage = tc.memberStage
			e := NewEvaluator(c, logging.NewNoopLogger())

			excluded, reason := e.Evaluate(tc.account)

			if excluded != tc.expectedResult {
				t.Errorf("expected excluded=%v, got %v", tc.expectedResult, excluded)
			}
			if reason != tc.expectedReason {
				t.Errorf("expected reason %q, got %q", tc.expectedReason, reason)
			}
		})
	}
}

func TestEvaluator_DomainMatchIsCaseInsensitive(t *testing.T) {
	e := NewEvaluator(Config{
		Domains:      []string{"Example.ORG"},
		Now:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		InactiveDays: 90,
	}, logging.NewNoopLogger())

	account := &types.Account{
		ID:            "account-1",
		PrincipalName: "USER@EXAMPLE.ORG",
		CreatedAt:     timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	excluded, reason := e.Evaluate(account)
	if !excluded || reason != ReasonDomain {
		t.Errorf("expected domain exclusion, got excluded=%v reason=%q", excluded, reason)
	}
}
