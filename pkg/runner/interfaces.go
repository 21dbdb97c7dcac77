// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runner

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/canonical/directory-lifecycle/pkg/actuator"
	"github.com/canonical/directory-lifecycle/pkg/groupsync"
	"github.com/canonical/directory-lifecycle/pkg/pipeline"
)

type ServiceInterface interface {
	RunStage(ctx context.Context, cfg *StageConfig) (*Summary, error)
}

type PipelineInterface interface {
	Run(ctx context.Context, cfg *pipeline.Config) (*pipeline.Result, error)
}

type ActuatorInterface interface {
	Apply(ctx context.Context, stage string, action types.Action, candidates []*types.Candidate) (*actuator.Result, error)
}

type GroupSyncInterface interface {
	Sync(ctx context.Context, groupName string, accountIDs []string) (*groupsync.Result, error)
}

type DirectoryInterface interface {
	CurrentIdentity(ctx context.Context) (*types.IdentityContext, error)
}

// ReportStoreInterface persists run summaries for audit. The store is
// write-only from the runner's point of view.
type ReportStoreInterface interface {
	SaveRun(ctx context.Context, run *types.RunRecord, candidates []*types.CandidateRecord) error
}
