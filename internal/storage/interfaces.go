// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
)

type StorageInterface interface {
	SaveRun(ctx context.Context, run *types.RunRecord, candidates []*types.CandidateRecord) error
	GetRunByID(ctx context.Context, id string) (*types.RunRecord, error)
	ListRuns(ctx context.Context, stage string, page, size int64) ([]*types.RunRecord, error)
	ListCandidatesByRunID(ctx context.Context, runID string) ([]*types.CandidateRecord, error)
}
