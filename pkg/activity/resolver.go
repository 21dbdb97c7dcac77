// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package activity

import (
	"time"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/types"
)

// source order is fixed; it only affects which source name is reported in
// diagnostics, the business decision uses the maximum across all of them.
type source struct {
	name  string
	value func(*types.SignInActivity) string
}

var sources = []source{
	{"last_sign_in", func(s *types.SignInActivity) string { return s.LastSignIn }},
	{"last_non_interactive_sign_in", func(s *types.SignInActivity) string { return s.LastNonInteractiveSignIn }},
	{"last_successful_sign_in", func(s *types.SignInActivity) string { return s.LastSuccessfulSignIn }},
}

type Resolver struct {
	logger logging.LoggerInterface
}

func NewResolver(logger logging.LoggerInterface) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve returns the most recent activity instant across the account's raw
// timestamps, or nil when the account never signed in. Unparseable
// timestamps are skipped and logged, never fatal.
func (r *Resolver) Resolve(a *types.Account) *time.Time {
	var latest *time.Time

	for _, src := range sources {
		raw := src.value(&a.SignInActivity)
		if raw == "" {
			continue
		}

		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			r.logger.Warnf("skipping unparseable %s timestamp %q for account %s: %v", src.name, raw, a.ID, err)
			continue
		}

		if latest == nil || ts.After(*latest) {
			t := ts
			latest = &t
		}
	}

	return latest
}

// InactiveDays converts a resolved instant into whole days of inactivity
// relative to now. A nil instant (never signed in) yields -1; callers render
// that as "never" and treat it as maximal inactivity.
func InactiveDays(last *time.Time, now time.Time) int {
	if last == nil {
		return -1
	}
	return int(now.Sub(*last).Hours() / 24)
}
