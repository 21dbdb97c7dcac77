// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/canonical/directory-lifecycle/pkg/actuator"
	"github.com/canonical/directory-lifecycle/pkg/groupsync"
	"github.com/canonical/directory-lifecycle/pkg/pipeline"
	"github.com/google/uuid"
)

// StageConfig is one fully assembled lifecycle stage: the pipeline
// configuration, the action applied to its candidates, and the optional
// review group that receives the candidate set.
type StageConfig struct {
	Name        string
	Pipeline    *pipeline.Config
	Action      types.Action
	TargetGroup string
}

type Summary struct {
	RunID      string             `json:"run_id"`
	Stage      string             `json:"stage"`
	Action     types.Action       `json:"action"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Actor      string             `json:"actor,omitempty"`
	Stats      pipeline.Stats     `json:"stats"`
	Warnings   []string           `json:"warnings,omitempty"`
	Candidates []*types.Candidate `json:"-"`
	Actuation  *actuator.Result   `json:"actuation"`
	GroupSync  *groupsync.Result  `json:"group_sync,omitempty"`
}

type Service struct {
	pipeline  PipelineInterface
	actuator  ActuatorInterface
	groupSync GroupSyncInterface
	directory DirectoryInterface
	reports   ReportStoreInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

// NewService wires one runner. reports may be nil when no report store is
// configured; persistence is then skipped.
func NewService(pipeline PipelineInterface, actuator ActuatorInterface, groupSync GroupSyncInterface, directory DirectoryInterface, reports ReportStoreInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		pipeline:  pipeline,
		actuator:  actuator,
		groupSync: groupSync,
		directory: directory,
		reports:   reports,
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

// RunStage executes one lifecycle stage end to end: candidate selection,
// actuation, optional group sync, then reporting. Selection failures are
// fatal; everything after actuation degrades with warnings.
func (s *Service) RunStage(ctx context.Context, cfg *StageConfig) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "runner.Service.RunStage")
	defer span.End()

	summary := &Summary{
		RunID:     uuid.NewString(),
		Stage:     cfg.Name,
		Action:    cfg.Action,
		StartedAt: time.Now().UTC(),
	}

	identity, err := s.directory.CurrentIdentity(ctx)
	if err != nil {
		s.logger.Warnf("could not resolve connection identity: %v", err)
	} else {
		summary.Actor = identity.ClientID
	}

	outcome := "success"
	defer func() {
		summary.FinishedAt = time.Now().UTC()
		s.emitMetrics(cfg.Name, outcome, summary)
	}()

	result, err := s.pipeline.Run(ctx, cfg.Pipeline)
	if err != nil {
		outcome = "failure"
		return nil, fmt.Errorf("stage %s: %w", cfg.Name, err)
	}
	summary.Stats = result.Stats
	summary.Warnings = result.Warnings
	summary.Candidates = result.Candidates

	actuation, err := s.actuator.Apply(ctx, cfg.Name, cfg.Action, result.Candidates)
	if err != nil {
		outcome = "failure"
		return nil, fmt.Errorf("stage %s: %w", cfg.Name, err)
	}
	summary.Actuation = actuation

	if cfg.TargetGroup != "" {
		ids := make([]string, 0, len(result.Candidates))
		for _, candidate := range result.Candidates {
			ids = append(ids, candidate.Account.ID)
		}
		sync, err := s.groupSync.Sync(ctx, cfg.TargetGroup, ids)
		if err != nil {
			s.warn(summary, fmt.Sprintf("group sync failed for %q: %v", cfg.TargetGroup, err))
		} else {
			summary.GroupSync = sync
		}
	}

	s.persist(ctx, summary)

	return summary, nil
}

func (s *Service) persist(ctx context.Context, summary *Summary) {
	if s.reports == nil {
		return
	}

	run := &types.RunRecord{
		ID:            summary.RunID,
		Stage:         summary.Stage,
		Action:        summary.Action.String(),
		RetrievalPath: string(summary.Stats.RetrievalPath),
		StartedAt:     summary.StartedAt,
		FinishedAt:    time.Now().UTC(),
		Retrieved:     summary.Stats.Retrieved,
		Candidates:    summary.Stats.Candidates,
		Succeeded:     summary.Actuation.Succeeded,
		Failed:        summary.Actuation.Failed,
		Warnings:      summary.Warnings,
		Actor:         summary.Actor,
	}

	failed := make(map[string]struct{}, len(summary.Actuation.Failures))
	for _, failure := range summary.Actuation.Failures {
		failed[failure.AccountID] = struct{}{}
	}

	records := make([]*types.CandidateRecord, 0, len(summary.Candidates))
	for _, candidate := range summary.Candidates {
		outcome := types.OutcomeApplied
		if summary.Action == types.ActionNone {
			outcome = types.OutcomeDryRun
		}
		if _, ok := failed[candidate.Account.ID]; ok {
			outcome = types.OutcomeFailed
		}
		records = append(records, &types.CandidateRecord{
			RunID:         summary.RunID,
			AccountID:     candidate.Account.ID,
			PrincipalName: candidate.Account.PrincipalName,
			LastActivity:  candidate.LastActivity,
			InactiveDays:  candidate.InactiveDays,
			Licenses:      candidate.Licenses,
			Outcome:       outcome,
		})
	}

	// Reporting is best effort; a broken store never fails the stage.
	if err := s.reports.SaveRun(ctx, run, records); err != nil {
		s.warn(summary, fmt.Sprintf("failed to persist run report: %v", err))
	}
}

func (s *Service) emitMetrics(stage, outcome string, summary *Summary) {
	duration := summary.FinishedAt.Sub(summary.StartedAt).Seconds()
	if err := s.monitor.SetRunDurationMetric(map[string]string{"stage": stage, "outcome": outcome}, duration); err != nil {
		s.logger.Warnf("failed to record run duration metric: %v", err)
	}
	if err := s.monitor.SetCandidateCountMetric(map[string]string{"stage": stage}, float64(summary.Stats.Candidates)); err != nil {
		s.logger.Warnf("failed to record candidate count metric: %v", err)
	}
}

func (s *Service) warn(summary *Summary, msg string) {
	s.logger.Warn(msg)
	summary.Warnings = append(summary.Warnings, msg)
}
