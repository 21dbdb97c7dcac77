// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groupsync

import (
	"context"
	"errors"
	"testing"

	"github.com/canonical/directory-lifecycle/internal/directory"
	"github.com/canonical/directory-lifecycle/internal/types"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package groupsync -destination ./mock_groupsync.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package groupsync -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package groupsync -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package groupsync -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

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
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()

	return NewService(mockDirectory, mockTracer, mockMonitor, mockLogger), mockDirectory, mockSecurity, mockMonitor
}

func TestService_Sync_Rewrite(t *testing.T) {
	s, mockDirectory, mockSecurity, _ := setupService(t)

	group := &types.Group{ID: "grp-1", DisplayName: "guest-review"}

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").Return(group, nil)
	mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-1").Return([]string{"old-1", "old-2"}, nil)
	mockDirectory.EXPECT().RemoveGroupMember(gomock.Any(), "grp-1", "old-1").Return(nil)
	mockDirectory.EXPECT().RemoveGroupMember(gomock.Any(), "grp-1", "old-2").Return(nil)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-1", "new-1").Return(nil)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-1", "new-2").Return(nil)
	mockSecurity.EXPECT().GroupMembershipRewritten("grp-1", 2, 2)

	result, err := s.Sync(context.Background(), "guest-review", []string{"new-1", "new-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Removed != 2 || result.Added != 2 {
		t.Errorf("expected 2 removed and 2 added, got %d/%d", result.Removed, result.Added)
	}
	if result.Created {
		t.Error("group existed, must not be reported as created")
	}
}

func TestService_Sync_IdempotentRewrite(t *testing.T) {
	// Re-running with the same input removes and re-adds the same accounts;
	// the final membership is unchanged.
	s, mockDirectory, mockSecurity, _ := setupService(t)

	group := &types.Group{ID: "grp-1", DisplayName: "guest-review"}

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").Return(group, nil)
	mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-1").Return([]string{"acc-1"}, nil)
	mockDirectory.EXPECT().RemoveGroupMember(gomock.Any(), "grp-1", "acc-1").Return(nil)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-1", "acc-1").Return(nil)
	mockSecurity.EXPECT().GroupMembershipRewritten("grp-1", 1, 1)

	result, err := s.Sync(context.Background(), "guest-review", []string{"acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Removed != 1 || result.Added != 1 {
		t.Errorf("expected 1/1, got %d/%d", result.Removed, result.Added)
	}
}

func TestService_Sync_CreatesMissingGroup(t *testing.T) {
	s, mockDirectory, mockSecurity, _ := setupService(t)

	created := &types.Group{ID: "grp-new", DisplayName: "guest-review"}

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").Return(nil, directory.ErrNotFound)
	mockDirectory.EXPECT().CreateGroup(gomock.Any(), "guest-review").Return(created, nil)
	mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-new").Return(nil, nil)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-new", "acc-1").Return(nil)
	mockSecurity.EXPECT().GroupMembershipRewritten("grp-new", 0, 1)

	result, err := s.Sync(context.Background(), "guest-review", []string{"acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Created {
		t.Error("expected the group to be reported as created")
	}
	if result.Added != 1 {
		t.Errorf("expected 1 added, got %d", result.Added)
	}
}

func TestService_Sync_EmptyGroupNameSkips(t *testing.T) {
	s, _, _, _ := setupService(t)

	result, err := s.Sync(context.Background(), "", []string{"acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result when no group is configured, got %+v", result)
	}
}

func TestService_Sync_MembershipFailuresTolerated(t *testing.T) {
	s, mockDirectory, mockSecurity, mockMonitor := setupService(t)

	group := &types.Group{ID: "grp-1", DisplayName: "guest-review"}
	opErr := errors.New("conflict")

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").Return(group, nil)
	mockDirectory.EXPECT().ListGroupMembers(gomock.Any(), "grp-1").Return([]string{"old-1", "old-2"}, nil)
	mockDirectory.EXPECT().RemoveGroupMember(gomock.Any(), "grp-1", "old-1").Return(opErr)
	mockDirectory.EXPECT().RemoveGroupMember(gomock.Any(), "grp-1", "old-2").Return(nil)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-1", "new-1").Return(opErr)
	mockDirectory.EXPECT().AddGroupMember(gomock.Any(), "grp-1", "new-2").Return(nil)
	mockMonitor.EXPECT().SetItemFailureCountMetric(
		map[string]string{"stage": "guest-review", "operation": "group-sync"}, float64(2),
	).Return(nil)
	mockSecurity.EXPECT().GroupMembershipRewritten("grp-1", 1, 1)

	result, err := s.Sync(context.Background(), "guest-review", []string{"new-1", "new-2"})
	if err != nil {
		t.Fatalf("membership failures must not fail the sync: %v", err)
	}

	if result.FailedRemovals != 1 || result.FailedAdds != 1 {
		t.Errorf("expected 1 failed removal and 1 failed add, got %d/%d", result.FailedRemovals, result.FailedAdds)
	}
	if result.Removed != 1 || result.Added != 1 {
		t.Errorf("expected 1 removed and 1 added, got %d/%d", result.Removed, result.Added)
	}
}

func TestService_Sync_GroupLookupError(t *testing.T) {
	s, mockDirectory, _, _ := setupService(t)

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").
		Return(nil, errors.New("directory unreachable"))

	result, err := s.Sync(context.Background(), "guest-review", []string{"acc-1"})
	if err == nil {
		t.Fatal("expected error on group lookup failure")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestService_Sync_CreateGroupError(t *testing.T) {
	s, mockDirectory, _, _ := setupService(t)

	mockDirectory.EXPECT().GetGroupByName(gomock.Any(), "guest-review").Return(nil, directory.ErrNotFound)
	mockDirectory.EXPECT().CreateGroup(gomock.Any(), "guest-review").Return(nil, errors.New("forbidden"))

	_, err := s.Sync(context.Background(), "guest-review", nil)
	if err == nil {
		t.Fatal("expected error on group creation failure")
	}
}
