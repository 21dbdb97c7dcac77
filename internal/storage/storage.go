// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/canonical/directory-lifecycle/internal/db"
	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/jackc/pgx/v5"
)

var _ StorageInterface = (*Storage)(nil)

// Storage persists lifecycle run reports. Runs and their candidate rows are
// written together in one transaction; reads serve the status API.
type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) SaveRun(ctx context.Context, run *types.RunRecord, candidates []*types.CandidateRecord) error {
	ctx, span := s.tracer.Start(ctx, "storage.SaveRun")
	defer span.End()

	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	return s.db.WithTx(ctx, func(txCtx context.Context) error {
		_, err := s.db.Statement(txCtx).
			Insert("lifecycle_runs").
			Columns("id", "stage", "action", "retrieval_path", "started_at", "finished_at",
				"retrieved", "candidates", "succeeded", "failed", "warnings", "actor").
			Values(run.ID, run.Stage, run.Action, run.RetrievalPath, run.StartedAt, run.FinishedAt,
				run.Retrieved, run.Candidates, run.Succeeded, run.Failed, warnings, run.Actor).
			ExecContext(txCtx)
		if err != nil {
			return WrapDuplicateKeyError(fmt.Errorf("failed to insert run: %w", err), "run already recorded")
		}

		if len(candidates) == 0 {
			return nil
		}

		insert := s.db.Statement(txCtx).
			Insert("lifecycle_candidates").
			Columns("run_id", "account_id", "principal_name", "last_activity", "inactive_days", "licenses", "outcome")

		for _, c := range candidates {
			licenses, err := json.Marshal(c.Licenses)
			if err != nil {
				return fmt.Errorf("failed to encode licenses: %w", err)
			}
			insert = insert.Values(c.RunID, c.AccountID, c.PrincipalName, c.LastActivity, c.InactiveDays, licenses, c.Outcome)
		}

		if _, err := insert.ExecContext(txCtx); err != nil {
			return WrapForeignKeyError(fmt.Errorf("failed to insert candidates: %w", err), "candidates reference unknown run")
		}

		return nil
	})
}

func (s *Storage) GetRunByID(ctx context.Context, id string) (*types.RunRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetRunByID")
	defer span.End()

	var (
		run      types.RunRecord
		warnings []byte
	)
	err := s.db.Statement(ctx).
		Select("id", "stage", "action", "retrieval_path", "started_at", "finished_at",
			"retrieved", "candidates", "succeeded", "failed", "warnings", "actor").
		From("lifecycle_runs").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&run.ID, &run.Stage, &run.Action, &run.RetrievalPath, &run.StartedAt, &run.FinishedAt,
			&run.Retrieved, &run.Candidates, &run.Succeeded, &run.Failed, &warnings, &run.Actor)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := json.Unmarshal(warnings, &run.Warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}

	return &run, nil
}

func (s *Storage) ListRuns(ctx context.Context, stage string, page, size int64) ([]*types.RunRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListRuns")
	defer span.End()

	pageSize := db.PageSize(size)

	query := s.db.Statement(ctx).
		Select("id", "stage", "action", "retrieval_path", "started_at", "finished_at",
			"retrieved", "candidates", "succeeded", "failed", "warnings", "actor").
		From("lifecycle_runs").
		OrderBy("started_at DESC").
		Offset(db.Offset(page, pageSize)).
		Limit(pageSize)

	if stage != "" {
		query = query.Where(sq.Eq{"stage": stage})
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.RunRecord
	for rows.Next() {
		var (
			run      types.RunRecord
			warnings []byte
		)
		if err := rows.Scan(&run.ID, &run.Stage, &run.Action, &run.RetrievalPath, &run.StartedAt, &run.FinishedAt,
			&run.Retrieved, &run.Candidates, &run.Succeeded, &run.Failed, &warnings, &run.Actor); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal(warnings, &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

func (s *Storage) ListCandidatesByRunID(ctx context.Context, runID string) ([]*types.CandidateRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListCandidatesByRunID")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("run_id", "account_id", "principal_name", "last_activity", "inactive_days", "licenses", "outcome").
		From("lifecycle_candidates").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("principal_name").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*types.CandidateRecord
	for rows.Next() {
		var (
			c        types.CandidateRecord
			licenses []byte
		)
		if err := rows.Scan(&c.RunID, &c.AccountID, &c.PrincipalName, &c.LastActivity, &c.InactiveDays, &licenses, &c.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if err := json.Unmarshal(licenses, &c.Licenses); err != nil {
			return nil, fmt.Errorf("failed to decode licenses: %w", err)
		}
		candidates = append(candidates, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return candidates, nil
}
