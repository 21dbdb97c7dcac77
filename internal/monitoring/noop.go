// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

type NoopMonitor struct {
	service string
}

var _ MonitorInterface = (*NoopMonitor)(nil)

func NewNoopMonitor(service string) *NoopMonitor {
	return &NoopMonitor{service: service}
}

func (m *NoopMonitor) GetService() string {
	return m.service
}

func (m *NoopMonitor) SetResponseTimeMetric(map[string]string, float64) error {
	return nil
}

func (m *NoopMonitor) SetRunDurationMetric(map[string]string, float64) error {
	return nil
}

func (m *NoopMonitor) SetCandidateCountMetric(map[string]string, float64) error {
	return nil
}

func (m *NoopMonitor) SetItemFailureCountMetric(map[string]string, float64) error {
	return nil
}

func (m *NoopMonitor) SetDependencyAvailability(map[string]string, float64) error {
	return nil
}
