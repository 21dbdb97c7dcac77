// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package actuator

import (
	"context"
	"errors"
	"testing"

	"github.com/canonical/directory-lifecycle/internal/types"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package actuator -destination ./mock_actuator.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package actuator -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package actuator -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package actuator -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func candidates(ids ...string) []*types.Candidate {
	out := make([]*types.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, &types.Candidate{
			Account:      &types.Account{ID: id, PrincipalName: id + "@corp.example"},
			InactiveDays: 120,
		})
	}
	return out
}

func setupService(t *testing.T) (*Service, *MockDirectoryInterface, *MockSecurityLoggerInterface, *MockMonitorInterface) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockDirectory := NewMockDirectoryInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)
	mockSecurity := NewMockSecurityLoggerInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.TODO(), trace.SpanFromContext(context.TODO())).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()

	return NewService(mockDirectory, mockTracer, mockMonitor, mockLogger), mockDirectory, mockSecurity, mockMonitor
}

func TestService_Apply_DryRun(t *testing.T) {
	s, _, _, _ := setupService(t)

	// No directory expectations: a dry run must not touch the directory.
	result, err := s.Apply(context.Background(), "member-disable", types.ActionNone, candidates("acc-1", "acc-2", "acc-3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Errorf("expected 3/3/0, got %d/%d/%d", result.Total, result.Succeeded, result.Failed)
	}
}

func TestService_Apply_Disable(t *testing.T) {
	s, mockDirectory, mockSecurity, _ := setupService(t)

	mockDirectory.EXPECT().SetAccountEnabled(gomock.Any(), "acc-1", false).Return(nil)
	mockSecurity.EXPECT().AccountDisabled("acc-1", "member-disable")

	result, err := s.Apply(context.Background(), "member-disable", types.ActionDisable, candidates("acc-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 0 {
		t.Errorf("expected 1 success, got %d/%d", result.Succeeded, result.Failed)
	}
}

func TestService_Apply_SoftDelete(t *testing.T) {
	s, mockDirectory, mockSecurity, _ := setupService(t)

	mockDirectory.EXPECT().RemoveAccount(gomock.Any(), "acc-1").Return(nil)
	mockSecurity.EXPECT().AccountRemoved("acc-1", "member-offboard")

	result, err := s.Apply(context.Background(), "member-offboard", types.ActionSoftDelete, candidates("acc-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Succeeded != 1 {
		t.Errorf("expected 1 success, got %d", result.Succeeded)
	}
}

func TestService_Apply_ItemFailureDoesNotBlockRest(t *testing.T) {
	s, mockDirectory, mockSecurity, mockMonitor := setupService(t)

	directoryErr := errors.New("conflict")

	mockDirectory.EXPECT().SetAccountEnabled(gomock.Any(), "acc-1", false).Return(nil)
	mockDirectory.EXPECT().SetAccountEnabled(gomock.Any(), "acc-2", false).Return(directoryErr)
	mockDirectory.EXPECT().SetAccountEnabled(gomock.Any(), "acc-3", false).Return(nil)
	mockSecurity.EXPECT().AccountDisabled("acc-1", "member-disable")
	mockSecurity.EXPECT().AccountDisabled("acc-3", "member-disable")
	mockMonitor.EXPECT().SetItemFailureCountMetric(
		map[string]string{"stage": "member-disable", "operation": "disable"}, float64(1),
	).Return(nil)

	result, err := s.Apply(context.Background(), "member-disable", types.ActionDisable, candidates("acc-1", "acc-2", "acc-3"))
	if err != nil {
		t.Fatalf("item failures must not fail the run: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("expected 2 succeeded and 1 failed, got %d/%d", result.Succeeded, result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0].AccountID != "acc-2" {
		t.Errorf("expected failure recorded for acc-2, got %+v", result.Failures)
	}
}

func TestService_Apply_UnknownAction(t *testing.T) {
	s, _, _, _ := setupService(t)

	result, err := s.Apply(context.Background(), "member-disable", types.Action(99), candidates("acc-1"))
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestService_Apply_NoCandidates(t *testing.T) {
	s, _, _, _ := setupService(t)

	result, err := s.Apply(context.Background(), "member-disable", types.ActionDisable, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || result.Failed != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
