// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/canonical/directory-lifecycle/internal/directory"
	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
	"github.com/canonical/directory-lifecycle/pkg/activity"
	"github.com/canonical/directory-lifecycle/pkg/exclusion"
	"github.com/canonical/directory-lifecycle/pkg/license"
)

// federationMarker flags principal names of cross-tenant federation
// artifacts; member stages drop these before any other filtering.
const federationMarker = "#EXT#"

type RetrievalPath string

const (
	RetrievalServerFilter RetrievalPath = "server-filter"
	RetrievalClientFilter RetrievalPath = "client-filter"
)

// Config is the lifecycle-stage configuration consumed by one pipeline run.
// Defaults come from the environment; nothing here is ambient state.
type Config struct {
	Stage string `validate:"required"`

	Kind    types.AccountKind `validate:"required,oneof=Member Guest"`
	Enabled *bool

	InactiveDays int `validate:"required,gt=0"`

	ExclusionGroup      string
	ExcludedDomains     []string
	ExcludedDepartments []string
	LicenseIncludeList  []string

	// LicenseCatalogFatal promotes a catalog build failure from degraded
	// to fatal for operators who prefer a hard stop over a pass-through.
	LicenseCatalogFatal bool

	// Now anchors every time comparison of the run; zero means wall clock.
	Now time.Time
}

func (c *Config) memberStage() bool {
	return c.Kind == types.KindMember
}

type Stats struct {
	Retrieved            int           `json:"retrieved"`
	FederationArtifacts  int           `json:"federation_artifacts"`
	ExcludedByCreation   int           `json:"excluded_by_creation"`
	ExcludedByGroup      int           `json:"excluded_by_group"`
	ExcludedByDepartment int           `json:"excluded_by_department"`
	ExcludedByDomain     int           `json:"excluded_by_domain"`
	ExcludedByLicense    int           `json:"excluded_by_license"`
	Candidates           int           `json:"candidates"`
	RetrievalPath        RetrievalPath `json:"retrieval_path"`
}

type Result struct {
	Candidates []*types.Candidate
	Stats      Stats
	Warnings   []string
}

type Service struct {
	directory DirectoryInterface
	resolver  *activity.Resolver

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(directory DirectoryInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		directory: directory,
		resolver:  activity.NewResolver(logger),
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

// Run produces the candidate list for one lifecycle stage by applying the
// stage's filters as successive set reductions over a directory snapshot.
func (s *Service) Run(ctx context.Context, cfg *Config) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.Service.Run")
	defer span.End()

	now := cfg.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result := new(Result)

	accounts, path, err := s.retrieve(ctx, cfg)
	if err != nil {
		// No partial result can be trusted when retrieval fails on both
		// paths; this is fatal for the run.
		return nil, fmt.Errorf("account retrieval failed on both paths: %w", err)
	}
	result.Stats.RetrievalPath = path
	result.Stats.Retrieved = len(accounts)

	if cfg.memberStage() {
		accounts = s.dropFederationArtifacts(accounts, &result.Stats)
	}

	evaluator, err := s.buildEvaluator(ctx, cfg, now, result)
	if err != nil {
		return nil, err
	}

	matcher, err := s.buildMatcher(ctx, cfg, result)
	if err != nil {
		return nil, err
	}

	threshold := time.Duration(cfg.InactiveDays) * 24 * time.Hour

	for _, account := range accounts {
		if excluded, reason := evaluator.Evaluate(account); excluded {
			s.countExclusion(&result.Stats, reason)
			continue
		}

		if cfg.memberStage() && !matcher.Matches(account) {
			result.Stats.ExcludedByLicense++
			continue
		}

		last := s.resolver.Resolve(account)
		if last != nil && now.Sub(*last) < threshold {
			continue
		}

		result.Candidates = append(result.Candidates, &types.Candidate{
			Account:      account,
			LastActivity: last,
			InactiveDays: activity.InactiveDays(last, now),
			Licenses:     matcher.Names(account),
		})
	}

	result.Stats.Candidates = len(result.Candidates)

	s.logger.Infof("stage %s: retrieved=%d candidates=%d path=%s",
		cfg.Stage, result.Stats.Retrieved, result.Stats.Candidates, result.Stats.RetrievalPath)

	return result, nil
}

// retrieve asks the directory for a server-side filtered listing and falls
// back to fetching the full snapshot and filtering locally. Both paths apply
// the same predicate, so the logical result is identical.
func (s *Service) retrieve(ctx context.Context, cfg *Config) ([]*types.Account, RetrievalPath, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.Service.retrieve")
	defer span.End()

	filter := &types.AccountFilter{Kind: cfg.Kind, Enabled: cfg.Enabled}

	accounts, err := s.directory.ListAccounts(ctx, filter)
	if err == nil {
		return accounts, RetrievalServerFilter, nil
	}

	s.logger.Warnf("server-side filter failed, falling back to client-side filtering: %v", err)

	all, fallbackErr := s.directory.ListAccounts(ctx, nil)
	if fallbackErr != nil {
		return nil, "", errors.Join(err, fallbackErr)
	}

	filtered := make([]*types.Account, 0, len(all))
	for _, account := range all {
		if filter.Matches(account) {
			filtered = append(filtered, account)
		}
	}

	return filtered, RetrievalClientFilter, nil
}

func (s *Service) dropFederationArtifacts(accounts []*types.Account, stats *Stats) []*types.Account {
	kept := make([]*types.Account, 0, len(accounts))
	for _, account := range accounts {
		if strings.Contains(account.PrincipalName, federationMarker) {
			stats.FederationArtifacts++
			continue
		}
		kept = append(kept, account)
	}
	return kept
}

// buildEvaluator fetches the exclusion-group membership once for the whole
// run. Lookup failures degrade: the group filter is disabled with a warning
// instead of aborting.
func (s *Service) buildEvaluator(ctx context.Context, cfg *Config, now time.Time, result *Result) (*exclusion.Evaluator, error) {
	var memberIDs []string

	if cfg.ExclusionGroup != "" {
		group, err := s.directory.GetGroupByName(ctx, cfg.ExclusionGroup)
		switch {
		case errors.Is(err, directory.ErrNotFound):
			s.warn(result, fmt.Sprintf("exclusion group %q not found, group filter disabled", cfg.ExclusionGroup))
		case err != nil:
			s.warn(result, fmt.Sprintf("exclusion group lookup failed, group filter disabled: %v", err))
		default:
			memberIDs, err = s.directory.ListGroupMembers(ctx, group.ID)
			if err != nil {
				s.warn(result, fmt.Sprintf("exclusion group membership fetch failed, group filter disabled: %v", err))
				memberIDs = nil
			}
		}
	}

	return exclusion.NewEvaluator(exclusion.Config{
		GroupMemberIDs: memberIDs,
		Domains:        cfg.ExcludedDomains,
		Departments:    cfg.ExcludedDepartments,
		Now:            now,
		InactiveDays:   cfg.InactiveDays,
		MemberStage:    cfg.memberStage(),
	}, s.logger), nil
}

func (s *Service) buildMatcher(ctx context.Context, cfg *Config, result *Result) (*license.Matcher, error) {
	if !cfg.memberStage() {
		// Guest stages skip licensing entirely.
		return license.NewMatcher(nil, nil, s.logger), nil
	}

	catalog, err := license.BuildCatalog(ctx, s.directory, s.logger)
	if err != nil {
		if cfg.LicenseCatalogFatal {
			return nil, fmt.Errorf("license catalog build failed: %w", err)
		}
		// Degraded: the license filter is disabled for this run.
		s.warn(result, fmt.Sprintf("license catalog build failed, license filter disabled: %v", err))
		return license.NewMatcher(catalog, nil, s.logger), nil
	}

	return license.NewMatcher(catalog, cfg.LicenseIncludeList, s.logger), nil
}

func (s *Service) countExclusion(stats *Stats, reason exclusion.Reason) {
	switch reason {
	case exclusion.ReasonCreationRecency:
		stats.ExcludedByCreation++
	case exclusion.ReasonGroup:
		stats.ExcludedByGroup++
	case exclusion.ReasonDepartment:
		stats.ExcludedByDepartment++
	case exclusion.ReasonDomain:
		stats.ExcludedByDomain++
	}
}

func (s *Service) warn(result *Result, msg string) {
	s.logger.Warn(msg)
	result.Warnings = append(result.Warnings, msg)
}
