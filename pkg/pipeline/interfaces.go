// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package pipeline

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
)

type ServiceInterface interface {
	Run(ctx context.Context, cfg *Config) (*Result, error)
}

type DirectoryInterface interface {
	ListAccounts(ctx context.Context, filter *types.AccountFilter) ([]*types.Account, error)
	GetGroupByName(ctx context.Context, name string) (*types.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	ListLicenseCatalog(ctx context.Context) (map[string]string, error)
}
