// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/canonical/directory-lifecycle/internal/directory"
	"github.com/canonical/directory-lifecycle/internal/types"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package pipeline -destination ./mock_pipeline.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package pipeline -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package pipeline -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package pipeline -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func boolPtr(b bool) *bool {
	return &b
}

// setupService wires a Service against a mock directory with permissive
// ambient expectations so each test only declares directory behavior.
func setupService(t *testing.T) (*Service, *MockDirectoryInterface) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockDirectory := NewMockDirectoryInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.TODO(), trace.SpanFromContext(context.TODO())).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	return NewService(mockDirectory, mockTracer, mockMonitor, mockLogger), mockDirectory
}

func memberConfig() *Config {
	return &Config{
		Stage:        "member-disable",
		Kind:         types.KindMember,
		Enabled:      boolPtr(true),
		InactiveDays: 90,
		Now:          testNow,
	}
}

func memberSnapshot() []*types.Account {
	return []*types.Account{
		{
			ID:            "acc-a",
			PrincipalName: "alice@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			SignInActivity: types.SignInActivity{
				LastSignIn: "2025-02-01T00:00:00Z",
			},
		},
		{
			ID:            "acc-b",
			PrincipalName: "bob@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			SignInActivity: types.SignInActivity{
				LastSignIn: "2025-05-01T00:00:00Z",
			},
		},
		{
			ID:            "acc-c",
			PrincipalName: "carol@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestService_Run_CandidateSelection(t *testing.T) {
	s, mockDirectory := setupService(t)

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(memberSnapshot(), nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	result, err := s.Run(context.Background(), memberConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Account.ID != "acc-a" {
		t.Errorf("expected candidate acc-a, got %s", result.Candidates[0].Account.ID)
	}
	if result.Candidates[0].InactiveDays != 120 {
		t.Errorf("expected 120 inactive days, got %d", result.Candidates[0].InactiveDays)
	}
	if result.Stats.RetrievalPath != RetrievalServerFilter {
		t.Errorf("expected server-filter path, got %s", result.Stats.RetrievalPath)
	}
	if result.Stats.ExcludedByCreation != 1 {
		t.Errorf("expected 1 creation-recency exclusion, got %d", result.Stats.ExcludedByCreation)
	}
	if result.Stats.Retrieved != 3 {
		t.Errorf("expected 3 retrieved, got %d", result.Stats.Retrieved)
	}
}

func TestService_Run_NeverActiveIsCandidate(t *testing.T) {
	s, mockDirectory := setupService(t)

	accounts := []*types.Account{
		{
			ID:            "acc-never",
			PrincipalName: "dora@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(accounts, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	result, err := s.Run(context.Background(), memberConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	if result.Candidates[0].LastActivity != nil {
		t.Errorf("expected nil last activity, got %v", result.Candidates[0].LastActivity)
	}
	if result.Candidates[0].InactiveDays != -1 {
		t.Errorf("expected -1 inactive days, got %d", result.Candidates[0].InactiveDays)
	}
}

func TestService_Run_ClientFilterFallback(t *testing.T) {
	s, mockDirectory := setupService(t)

	// The unfiltered snapshot carries accounts the predicate must reject
	// locally: a guest and a disabled member.
	full := append(memberSnapshot(),
		&types.Account{
			ID:            "acc-guest",
			PrincipalName: "guest@partner.example",
			Kind:          types.KindGuest,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		},
		&types.Account{
			ID:            "acc-disabled",
			PrincipalName: "dan@corp.example",
			Kind:          types.KindMember,
			Enabled:       false,
			CreatedAt:     timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		},
	)

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(nil, directory.ErrFilterNotSupported)
	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Nil()).
		Return(full, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	result, err := s.Run(context.Background(), memberConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.RetrievalPath != RetrievalClientFilter {
		t.Errorf("expected client-filter path, got %s", result.Stats.RetrievalPath)
	}
	if result.Stats.Retrieved != 3 {
		t.Errorf("expected 3 retrieved after local filtering, got %d", result.Stats.Retrieved)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Account.ID != "acc-a" {
		t.Errorf("expected the same single candidate as the server path, got %d", len(result.Candidates))
	}
}

func TestService_Run_RetrievalFailsBothPaths(t *testing.T) {
	s, mockDirectory := setupService(t)

	serverErr := errors.New("server filter unavailable")
	fallbackErr := errors.New("directory unreachable")

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(nil, serverErr)
	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Nil()).
		Return(nil, fallbackErr)

	result, err := s.Run(context.Background(), memberConfig())
	if err == nil {
		t.Fatal("expected error when both retrieval paths fail")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if !errors.Is(err, serverErr) || !errors.Is(err, fallbackErr) {
		t.Errorf("expected both path errors to be wrapped, got %v", err)
	}
}

func TestService_Run_FederationArtifactsDropped(t *testing.T) {
	s, mockDirectory := setupService(t)

	accounts := []*types.Account{
		{
			ID:            "acc-fed",
			PrincipalName: "mallory_other.example#EXT#@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(accounts, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	result, err := s.Run(context.Background(), memberConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.FederationArtifacts != 1 {
		t.Errorf("expected 1 federation artifact, got %d", result.Stats.FederationArtifacts)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(result.Candidates))
	}
}

func TestService_Run_ExclusionGroupDegraded(t *testing.T) {
	lookupErr := errors.New("directory timeout")

	testCases := []struct {
		name       string
		setupMocks func(*MockDirectoryInterface)
	}{
		{
			name: "group not found",
			setupMocks: func(mockDirectory *MockDirectoryInterface) {
				mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "lifecycle-exempt").
					Return(nil, directory.ErrNotFound)
			},
		},
		{
			name: "group lookup error",
			setupMocks: func(mockDirectory *MockDirectoryInterface) {
				mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "lifecycle-exempt").
					Return(nil, lookupErr)
			},
		},
		{
			name: "membership fetch error",
			setupMocks: func(mockDirectory *MockDirectoryInterface) {
				mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "lifecycle-exempt").
					Return(&types.Group{ID: "grp-1", DisplayName: "lifecycle-exempt"}, nil)
				mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-1").
					Return(nil, lookupErr)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mockDirectory := setupService(t)

			mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
				Return(memberSnapshot(), nil)
			mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
				Return(map[string]string{}, nil)
			tc.setupMocks(mockDirectory)

			cfg := memberConfig()
			cfg.ExclusionGroup = "lifecycle-exempt"

			result, err := s.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("expected degraded run, got error: %v", err)
			}

			if len(result.Warnings) != 1 {
				t.Errorf("expected 1 warning, got %d: %v", len(result.Warnings), result.Warnings)
			}
			// Group filter disabled: the inactive account is still selected.
			if len(result.Candidates) != 1 || result.Candidates[0].Account.ID != "acc-a" {
				t.Errorf("expected candidate acc-a with group filter disabled")
			}
		})
	}
}

func TestService_Run_ExclusionGroupApplied(t *testing.T) {
	s, mockDirectory := setupService(t)

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(memberSnapshot(), nil)
	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "lifecycle-exempt").
		Return(&types.Group{ID: "grp-1", DisplayName: "lifecycle-exempt"}, nil)
	mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-1").
		Return([]string{"acc-a"}, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	cfg := memberConfig()
	cfg.ExclusionGroup = "lifecycle-exempt"

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates with acc-a exempted, got %d", len(result.Candidates))
	}
	if result.Stats.ExcludedByGroup != 1 {
		t.Errorf("expected 1 group exclusion, got %d", result.Stats.ExcludedByGroup)
	}
}

func TestService_Run_LicenseFilter(t *testing.T) {
	accounts := []*types.Account{
		{
			ID:               "acc-licensed",
			PrincipalName:    "erin@corp.example",
			Kind:             types.KindMember,
			Enabled:          true,
			CreatedAt:        timePtr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			AssignedLicenses: []string{"sku-001"},
		},
		{
			ID:            "acc-unlicensed",
			PrincipalName: "frank@corp.example",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	s, mockDirectory := setupService(t)

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(accounts, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{"sku-001": "Office Suite E3"}, nil)

	cfg := memberConfig()
	cfg.LicenseIncludeList = []string{"Office Suite E3"}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 1 || result.Candidates[0].Account.ID != "acc-licensed" {
		t.Fatalf("expected only the licensed account as candidate")
	}
	if result.Stats.ExcludedByLicense != 1 {
		t.Errorf("expected 1 license exclusion, got %d", result.Stats.ExcludedByLicense)
	}
	if len(result.Candidates[0].Licenses) != 1 || result.Candidates[0].Licenses[0] != "Office Suite E3" {
		t.Errorf("expected friendly license name on candidate, got %v", result.Candidates[0].Licenses)
	}
}

func TestService_Run_LicenseCatalogDegraded(t *testing.T) {
	s, mockDirectory := setupService(t)

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(memberSnapshot(), nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(nil, errors.New("subscription endpoint down"))

	cfg := memberConfig()
	cfg.LicenseIncludeList = []string{"Office Suite E3"}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected degraded run, got error: %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(result.Warnings))
	}
	// License filter disabled: the unlicensed inactive account still passes.
	if len(result.Candidates) != 1 || result.Candidates[0].Account.ID != "acc-a" {
		t.Errorf("expected candidate acc-a with license filter disabled")
	}
}

func TestService_Run_LicenseCatalogFatal(t *testing.T) {
	s, mockDirectory := setupService(t)

	catalogErr := errors.New("subscription endpoint down")

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(memberSnapshot(), nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(nil, catalogErr)

	cfg := memberConfig()
	cfg.LicenseIncludeList = []string{"Office Suite E3"}
	cfg.LicenseCatalogFatal = true

	result, err := s.Run(context.Background(), cfg)
	if !errors.Is(err, catalogErr) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestService_Run_GuestStage(t *testing.T) {
	s, mockDirectory := setupService(t)

	accounts := []*types.Account{
		{
			ID:            "acc-guest",
			PrincipalName: "guest_partner.example#EXT#@corp.example",
			Kind:          types.KindGuest,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			Department:    "Finance",
		},
	}

	// Guest stages never touch the license catalog and keep federation
	// principal names intact.
	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(accounts, nil)

	cfg := &Config{
		Stage:               "guest-disable",
		Kind:                types.KindGuest,
		Enabled:             boolPtr(true),
		InactiveDays:        90,
		ExcludedDepartments: []string{"finance"},
		Now:                 testNow,
	}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.FederationArtifacts != 0 {
		t.Errorf("guest stage must not drop federation principals, dropped %d", result.Stats.FederationArtifacts)
	}
	if result.Stats.ExcludedByDepartment != 0 {
		t.Errorf("guest stage must not apply the department filter, excluded %d", result.Stats.ExcludedByDepartment)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Account.ID != "acc-guest" {
		t.Fatalf("expected the guest as candidate, got %d", len(result.Candidates))
	}
}

func TestService_Run_DomainExclusion(t *testing.T) {
	s, mockDirectory := setupService(t)

	accounts := []*types.Account{
		{
			ID:            "acc-svc",
			PrincipalName: "bot@sub.example.org",
			Kind:          types.KindMember,
			Enabled:       true,
			CreatedAt:     timePtr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	mockDirectory.EXPECT().ListAccounts(gomock.Any(), gomock.Not(gomock.Nil())).
		Return(accounts, nil)
	mockDirectory.EXPECT().ListLicenseCatalog(gomock.Any()).
		Return(map[string]string{}, nil)

	cfg := memberConfig()
	cfg.ExcludedDomains = []string{"example.org"}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.ExcludedByDomain != 1 {
		t.Errorf("expected 1 domain exclusion, got %d", result.Stats.ExcludedByDomain)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(result.Candidates))
	}
}
