// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package actuator

import (
	"context"
	"fmt"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
)

// Failure records one candidate the stage action could not be applied to.
type Failure struct {
	AccountID     string `json:"account_id"`
	PrincipalName string `json:"principal_name"`
	Error         string `json:"error"`
}

type Result struct {
	Action    types.Action `json:"action"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Failures  []Failure    `json:"failures,omitempty"`
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

// Apply executes the stage action against every candidate. Item failures are
// collected, not propagated: one broken account never blocks the rest of the
// run. Only an action outside the known set aborts.
func (s *Service) Apply(ctx context.Context, stage string, action types.Action, candidates []*types.Candidate) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "actuator.Service.Apply")
	defer span.End()

	switch action {
	case types.ActionNone, types.ActionDisable, types.ActionSoftDelete:
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	result := &Result{Action: action, Total: len(candidates)}

	for _, candidate := range candidates {
		if err := s.apply(ctx, stage, action, candidate); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				AccountID:     candidate.Account.ID,
				PrincipalName: candidate.Account.PrincipalName,
				Error:         err.Error(),
			})
			s.logger.Errorf("stage %s: %s failed for account %s: %v", stage, action, candidate.Account.ID, err)
			continue
		}
		result.Succeeded++
	}

	if result.Failed > 0 {
		if err := s.monitor.SetItemFailureCountMetric(
			map[string]string{"stage": stage, "operation": action.String()},
			float64(result.Failed),
		); err != nil {
			s.logger.Warnf("failed to record item failure metric: %v", err)
		}
	}

	s.logger.Infof("stage %s: action=%s total=%d succeeded=%d failed=%d",
		stage, action, result.Total, result.Succeeded, result.Failed)

	return result, nil
}

func (s *Service) apply(ctx context.Context, stage string, action types.Action, candidate *types.Candidate) error {
	switch action {
	case types.ActionNone:
		s.logger.Infof("stage %s: account %s (%s, inactive %d days) would be acted upon",
			stage, candidate.Account.ID, candidate.Account.PrincipalName, candidate.InactiveDays)
		return nil
	case types.ActionDisable:
		if err := s.directory.SetAccountEnabled(ctx, candidate.Account.ID, false); err != nil {
			return err
		}
		s.logger.Security().AccountDisabled(candidate.Account.ID, stage)
		return nil
	case types.ActionSoftDelete:
		if err := s.directory.RemoveAccount(ctx, candidate.Account.ID); err != nil {
			return err
		}
		s.logger.Security().AccountRemoved(candidate.Account.ID, stage)
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}
