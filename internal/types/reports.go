// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import "time"

// RunRecord is the persisted audit row for one lifecycle stage run.
type RunRecord struct {
	ID            string
	Stage         string
	Action        string
	RetrievalPath string
	StartedAt     time.Time
	FinishedAt    time.Time
	Retrieved     int
	Candidates    int
	Succeeded     int
	Failed        int
	Warnings      []string
	Actor         string
}

// CandidateRecord is the persisted audit row for one candidate of a run.
type CandidateRecord struct {
	RunID         string
	AccountID     string
	PrincipalName string
	LastActivity  *time.Time
	InactiveDays  int
	Licenses      []string
	Outcome       string
}

const (
	OutcomeDryRun  = "dry-run"
	OutcomeApplied = "applied"
	OutcomeFailed  = "failed"
)
