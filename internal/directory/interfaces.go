// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
)

type DirectoryInterface interface {
	ListAccounts(ctx context.Context, filter *types.AccountFilter) ([]*types.Account, error)
	GetGroupByName(ctx context.Context, name string) (*types.Group, error)
	CreateGroup(ctx context.Context, name string) (*types.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	AddGroupMember(ctx context.Context, groupID, accountID string) error
	RemoveGroupMember(ctx context.Context, groupID, accountID string) error
	SetAccountEnabled(ctx context.Context, accountID string, enabled bool) error
	RemoveAccount(ctx context.Context, accountID string) error
	ListLicenseCatalog(ctx context.Context) (map[string]string, error)
	CurrentIdentity(ctx context.Context) (*types.IdentityContext, error)
}
