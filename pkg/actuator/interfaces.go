// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package actuator

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
)

type ServiceInterface interface {
	Apply(ctx context.Context, stage string, action types.Action, candidates []*types.Candidate) (*Result, error)
}

type DirectoryInterface interface {
	SetAccountEnabled(ctx context.Context, accountID string, enabled bool) error
	RemoveAccount(ctx context.Context, accountID string) error
}
