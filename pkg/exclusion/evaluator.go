// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package exclusion

import (
	"strings"
	"time"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/types"
)

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonCreationRecency Reason = "creation-recency"
	ReasonGroup           Reason = "exclusion-group"
	ReasonDepartment      Reason = "department"
	ReasonDomain          Reason = "domain"
)

type Evaluator struct {
	groupMembers map[string]struct{}
	domains      []string
	departments  map[string]struct{}

	now             time.Time
	threshold       time.Duration
	checkDepartment bool

	logger logging.LoggerInterface
}

type Config struct {
	GroupMemberIDs []string
	Domains        []string
	Departments    []string

	Now          time.Time
	InactiveDays int
	MemberStage  bool
}

func NewEvaluator(cfg Config, logger logging.LoggerInterface) *Evaluator {
	members := make(map[string]struct{}, len(cfg.GroupMemberIDs))
	for _, id := range cfg.GroupMemberIDs {
		members[id] = struct{}{}
	}

	domains := make([]string, 0, len(cfg.Domains))
	for _, d := range cfg.Domains {
		domains = append(domains, normalize(d))
	}

	departments := make(map[string]struct{}, len(cfg.Departments))
	for _, d := range cfg.Departments {
		departments[normalize(d)] = struct{}{}
	}

	return &Evaluator{
		groupMembers:    members,
		domains:         domains,
		departments:     departments,
		now:             cfg.Now,
		threshold:       time.Duration(cfg.InactiveDays) * 24 * time.Hour,
		checkDepartment: cfg.MemberStage,
		logger:          logger,
	}
}

// Evaluate decides whether the account is excluded from lifecycle
// processing. Predicates are pure; the evaluation order only determines
// which reason is reported when several would apply.
func (e *Evaluator) Evaluate(a *types.Account) (bool, Reason) {
	if e.createdRecently(a) {
		return true, ReasonCreationRecency
	}

	if _, ok := e.groupMembers[a.ID]; ok {
		return true, ReasonGroup
	}

	if e.checkDepartment && a.Department != "" {
		if _, ok := e.departments[normalize(a.Department)]; ok {
			return true, ReasonDepartment
		}
	}

	if e.inExcludedDomain(a) {
		return true, ReasonDomain
	}

	return false, ReasonNone
}

// createdRecently protects newly provisioned accounts from immediate
// action. A missing creation date does not exclude; the account is
// processed with a warning.
func (e *Evaluator) createdRecently(a *types.Account) bool {
	if a.CreatedAt == nil {
		e.logger.Warnf("account %s has no creation date, processing without grace period", a.ID)
		return false
	}
	return e.now.Sub(*a.CreatedAt) < e.threshold
}

// inExcludedDomain matches excluded domains as substrings of the principal
// name or email. Substring, not suffix, matching is deliberate: it mirrors
// the long-standing production behavior, even though it can catch unrelated
// domains that merely contain an excluded one.
func (e *Evaluator) inExcludedDomain(a *types.Account) bool {
	principal := normalize(a.PrincipalName)
	email := normalize(a.Email)

	for _, domain := range e.domains {
		if domain == "" {
			continue
		}
		if strings.Contains(principal, domain) {
			return true
		}
		if email != "" && strings.Contains(email, domain) {
			return true
		}
	}

	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
