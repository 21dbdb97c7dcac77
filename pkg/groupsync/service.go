// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groupsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/directory-lifecycle/internal/directory"
	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
)

type Result struct {
	GroupID        string `json:"group_id"`
	GroupName      string `json:"group_name"`
	Created        bool   `json:"created"`
	Removed        int    `json:"removed"`
	Added          int    `json:"added"`
	FailedRemovals int    `json:"failed_removals"`
	FailedAdds     int    `json:"failed_adds"`
}

type Service struct {
	directory DirectoryInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(directory DirectoryInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		directory: directory,
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

// Sync rewrites the review group's membership to exactly the given account
// set: every existing member is removed, then every account is added. The
// rewrite makes the operation idempotent; running it twice with the same
// input yields the same membership. Individual membership operations are
// tolerated on failure.
func (s *Service) Sync(ctx context.Context, groupName string, accountIDs []string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "groupsync.Service.Sync")
	defer span.End()

	if groupName == "" {
		s.logger.Info("no review group configured, skipping group sync")
		return nil, nil
	}

	group, created, err := s.ensureGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}

	result := &Result{GroupID: group.ID, GroupName: groupName, Created: created}

	members, err := s.directory.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %q: %w", groupName, err)
	}

	for _, memberID := range members {
		if err := s.directory.RemoveGroupMember(ctx, group.ID, memberID); err != nil {
			result.FailedRemovals++
			s.logger.Errorf("failed to remove account %s from group %s: %v", memberID, group.ID, err)
			continue
		}
		result.Removed++
	}

	for _, accountID := range accountIDs {
		if err := s.directory.AddGroupMember(ctx, group.ID, accountID); err != nil {
			result.FailedAdds++
			s.logger.Errorf("failed to add account %s to group %s: %v", accountID, group.ID, err)
			continue
		}
		result.Added++
	}

	if failed := result.FailedRemovals + result.FailedAdds; failed > 0 {
		if err := s.monitor.SetItemFailureCountMetric(
			map[string]string{"stage": groupName, "operation": "group-sync"},
			float64(failed),
		); err != nil {
			s.logger.Warnf("failed to record item failure metric: %v", err)
		}
	}

	s.logger.Security().GroupMembershipRewritten(group.ID, result.Removed, result.Added)

	return result, nil
}

func (s *Service) ensureGroup(ctx context.Context, name string) (*types.Group, bool, error) {
	group, err := s.directory.GetGroupByName(ctx, name)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		group, err = s.directory.CreateGroup(ctx, name)
		if err != nil {
			return nil, false, fmt.Errorf("failed to create group %q: %w", name, err)
		}
		s.logger.Infof("created review group %q (%s)", name, group.ID)
		return group, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to look up group %q: %w", name, err)
	}
	return group, false, nil
}
