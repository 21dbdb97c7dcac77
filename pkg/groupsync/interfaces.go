// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groupsync

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/types"
)

type ServiceInterface interface {
	Sync(ctx context.Context, groupName string, accountIDs []string) (*Result, error)
}

type DirectoryInterface interface {
	GetGroupByName(ctx context.Context, name string) (*types.Group, error)
	CreateGroup(ctx context.Context, name string) (*types.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	AddGroupMember(ctx context.Context, groupID, accountID string) error
	RemoveGroupMember(ctx context.Context, groupID, accountID string) error
}
