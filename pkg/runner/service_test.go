// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/canonical/directory-lifecycle/pkg/actuator"
	"github.com/canonical/directory-lifecycle/pkg/groupsync"
	"github.com/canonical/directory-lifecycle/pkg/pipeline"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package runner -destination ./mock_runner.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package runner -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package runner -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package runner -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

type runnerMocks struct {
	pipeline  *MockPipelineInterface
	actuator  *MockActuatorInterface
	groupSync *MockGroupSyncInterface
	directory *MockDirectoryInterface
	reports   *MockReportStoreInterface
	monitor   *MockMonitorInterface
}

func setupService(t *testing.T) (*Service, *runnerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mocks := &runnerMocks{
		pipeline:  NewMockPipelineInterface(ctrl),
		actuator:  NewMockActuatorInterface(ctrl),
		groupSync: NewMockGroupSyncInterface(ctrl),
		directory: NewMockDirectoryInterface(ctrl),
		reports:   NewMockReportStoreInterface(ctrl),
		monitor:   NewMockMonitorInterface(ctrl),
	}

	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.TODO(), trace.SpanFromContext(context.TODO())).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mocks.monitor.EXPECT().SetRunDurationMetric(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mocks.monitor.EXPECT().SetCandidateCountMetric(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s := NewService(mocks.pipeline, mocks.actuator, mocks.groupSync, mocks.directory, mocks.reports, mockTracer, mocks.monitor, mockLogger)

	return s, mocks
}

func stageConfig() *StageConfig {
	return &StageConfig{
		Name: "member-disable",
		Pipeline: &pipeline.Config{
			Stage:        "member-disable",
			Kind:         types.KindMember,
			InactiveDays: 90,
		},
		Action: types.ActionDisable,
	}
}

func pipelineResult() *pipeline.Result {
	last := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return &pipeline.Result{
		Candidates: []*types.Candidate{
			{
				Account:      &types.Account{ID: "acc-1", PrincipalName: "alice@corp.example"},
				LastActivity: &last,
				InactiveDays: 120,
			},
		},
		Stats: pipeline.Stats{Retrieved: 10, Candidates: 1, RetrievalPath: pipeline.RetrievalServerFilter},
	}
}

func TestService_RunStage(t *testing.T) {
	s, mocks := setupService(t)

	identity := &types.IdentityContext{TenantID: "tenant-1", ClientID: "client-1"}

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(identity, nil)
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(pipelineResult(), nil)
	mocks.actuator.EXPECT().Apply(gomock.Any(), "member-disable", types.ActionDisable, gomock.Any()).
		Return(&actuator.Result{Action: types.ActionDisable, Total: 1, Succeeded: 1}, nil)
	mocks.reports.EXPECT().SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *types.RunRecord, records []*types.CandidateRecord) error {
			if run.Stage != "member-disable" || run.Actor != "client-1" {
				t.Errorf("unexpected run record: %+v", run)
			}
			if len(records) != 1 || records[0].Outcome != types.OutcomeApplied {
				t.Errorf("unexpected candidate records: %+v", records)
			}
			return nil
		})

	summary, err := s.RunStage(context.Background(), stageConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.RunID == "" {
		t.Error("expected a run ID")
	}
	if summary.Actor != "client-1" {
		t.Errorf("expected actor client-1, got %s", summary.Actor)
	}
	if summary.Actuation.Succeeded != 1 {
		t.Errorf("expected 1 actuation success, got %d", summary.Actuation.Succeeded)
	}
	if summary.GroupSync != nil {
		t.Error("no target group configured, expected no group sync result")
	}
}

func TestService_RunStage_PipelineFailureIsFatal(t *testing.T) {
	s, mocks := setupService(t)

	pipelineErr := errors.New("retrieval failed")

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(nil, errors.New("identity unavailable"))
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, pipelineErr)

	summary, err := s.RunStage(context.Background(), stageConfig())
	if !errors.Is(err, pipelineErr) {
		t.Fatalf("expected pipeline error, got %v", err)
	}
	if summary != nil {
		t.Errorf("expected nil summary, got %+v", summary)
	}
}

func TestService_RunStage_WithGroupSync(t *testing.T) {
	s, mocks := setupService(t)

	cfg := stageConfig()
	cfg.Name = "guest-review"
	cfg.Action = types.ActionNone
	cfg.TargetGroup = "inactive-guests"

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(&types.IdentityContext{ClientID: "client-1"}, nil)
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(pipelineResult(), nil)
	mocks.actuator.EXPECT().Apply(gomock.Any(), "guest-review", types.ActionNone, gomock.Any()).
		Return(&actuator.Result{Action: types.ActionNone, Total: 1, Succeeded: 1}, nil)
	mocks.groupSync.EXPECT().Sync(gomock.Any(), "inactive-guests", []string{"acc-1"}).
		Return(&groupsync.Result{GroupID: "grp-1", Added: 1}, nil)
	mocks.reports.EXPECT().SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *types.RunRecord, records []*types.CandidateRecord) error {
			if records[0].Outcome != types.OutcomeDryRun {
				t.Errorf("expected dry-run outcome, got %s", records[0].Outcome)
			}
			return nil
		})

	summary, err := s.RunStage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.GroupSync == nil || summary.GroupSync.Added != 1 {
		t.Errorf("expected group sync result, got %+v", summary.GroupSync)
	}
}

func TestService_RunStage_GroupSyncFailureDegrades(t *testing.T) {
	s, mocks := setupService(t)

	cfg := stageConfig()
	cfg.TargetGroup = "inactive-guests"

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(&types.IdentityContext{ClientID: "client-1"}, nil)
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(pipelineResult(), nil)
	mocks.actuator.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&actuator.Result{Action: types.ActionDisable, Total: 1, Succeeded: 1}, nil)
	mocks.groupSync.EXPECT().Sync(gomock.Any(), "inactive-guests", gomock.Any()).
		Return(nil, errors.New("group create forbidden"))
	mocks.reports.EXPECT().SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	summary, err := s.RunStage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("group sync failure must not fail the stage: %v", err)
	}

	if len(summary.Warnings) == 0 {
		t.Error("expected a warning for the failed group sync")
	}
}

func TestService_RunStage_ReportFailureDegrades(t *testing.T) {
	s, mocks := setupService(t)

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(&types.IdentityContext{ClientID: "client-1"}, nil)
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(pipelineResult(), nil)
	mocks.actuator.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&actuator.Result{Action: types.ActionDisable, Total: 1, Succeeded: 1}, nil)
	mocks.reports.EXPECT().SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	summary, err := s.RunStage(context.Background(), stageConfig())
	if err != nil {
		t.Fatalf("report persistence failure must not fail the stage: %v", err)
	}

	if len(summary.Warnings) == 0 {
		t.Error("expected a warning for the failed report persistence")
	}
}

func TestService_RunStage_FailedCandidateOutcome(t *testing.T) {
	s, mocks := setupService(t)

	mocks.directory.EXPECT().CurrentIdentity(gomock.Any()).Return(&types.IdentityContext{ClientID: "client-1"}, nil)
	mocks.pipeline.EXPECT().Run(gomock.Any(), gomock.Any()).Return(pipelineResult(), nil)
	mocks.actuator.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&actuator.Result{
			Action: types.ActionDisable,
			Total:  1,
			Failed: 1,
			Failures: []actuator.Failure{
				{AccountID: "acc-1", Error: "conflict"},
			},
		}, nil)
	mocks.reports.EXPECT().SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *types.RunRecord, records []*types.CandidateRecord) error {
			if run.Failed != 1 {
				t.Errorf("expected 1 failed in run record, got %d", run.Failed)
			}
			if records[0].Outcome != types.OutcomeFailed {
				t.Errorf("expected failed outcome, got %s", records[0].Outcome)
			}
			return nil
		})

	if _, err := s.RunStage(context.Background(), stageConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
