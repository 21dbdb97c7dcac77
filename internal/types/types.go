// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"fmt"
	"time"
)

type AccountKind string

const (
	KindMember AccountKind = "Member"
	KindGuest  AccountKind = "Guest"
)

// Account is a directory identity snapshot taken at pipeline start. It is
// immutable for the duration of one run; the directory is the sole owner.
type Account struct {
	ID               string
	PrincipalName    string
	DisplayName      string
	Email            string
	Kind             AccountKind
	Enabled          bool
	CreatedAt        *time.Time
	Department       string
	AssignedLicenses []string
	SignInActivity   SignInActivity
}

// SignInActivity carries the raw activity timestamps as returned by the
// directory. Values are RFC3339 strings and may be absent or malformed;
// parsing is deferred to the activity resolver.
type SignInActivity struct {
	LastSignIn               string
	LastNonInteractiveSignIn string
	LastSuccessfulSignIn     string
}

// Candidate is an Account that passed every filter of a lifecycle stage,
// plus the derived fields used for actuation and reporting.
type Candidate struct {
	Account *Account

	// LastActivity is nil when the account never signed in.
	LastActivity *time.Time
	InactiveDays int
	Licenses     []string
}

type Group struct {
	ID              string
	DisplayName     string
	SecurityEnabled bool
	MailEnabled     bool
}

// IdentityContext describes the identity the directory connection was
// established as, fetched once per run.
type IdentityContext struct {
	TenantID    string
	ClientID    string
	DisplayName string
}

// AccountFilter is the structural filter a lifecycle stage applies when
// retrieving the directory snapshot.
type AccountFilter struct {
	Kind    AccountKind
	Enabled *bool
}

// Matches evaluates the filter locally. It is the client-side equivalent of
// the directory's server-side filter and must stay in lockstep with it.
func (f *AccountFilter) Matches(a *Account) bool {
	if f == nil {
		return true
	}
	if f.Kind != "" && a.Kind != f.Kind {
		return false
	}
	if f.Enabled != nil && a.Enabled != *f.Enabled {
		return false
	}
	return true
}

// Action is the lifecycle action applied to each candidate.
type Action int

const (
	ActionNone Action = iota
	ActionDisable
	ActionSoftDelete
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDisable:
		return "disable"
	case ActionSoftDelete:
		return "soft-delete"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalJSON renders the action by name so run reports stay readable.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// ParseAction maps the configuration value onto the closed Action set.
func ParseAction(s string) (Action, error) {
	switch s {
	case "none", "":
		return ActionNone, nil
	case "disable":
		return ActionDisable, nil
	case "soft-delete":
		return ActionSoftDelete, nil
	}
	return ActionNone, fmt.Errorf("unknown lifecycle action: %q", s)
}
