// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

type MonitorInterface interface {
	GetService() string
	SetResponseTimeMetric(map[string]string, float64) error
	SetRunDurationMetric(map[string]string, float64) error
	SetCandidateCountMetric(map[string]string, float64) error
	SetItemFailureCountMetric(map[string]string, float64) error
	SetDependencyAvailability(map[string]string, float64) error
}
