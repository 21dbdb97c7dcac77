// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"fmt"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

type Monitor struct {
	service string

	responseTime     *prometheus.HistogramVec
	runDuration      *prometheus.HistogramVec
	candidateCount   *prometheus.GaugeVec
	itemFailureCount *prometheus.CounterVec
	dependencyUp     *prometheus.GaugeVec

	logger logging.LoggerInterface
}

var _ monitoring.MonitorInterface = (*Monitor)(nil)

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lifecycle_response_time_seconds",
			Help: "Response time of HTTP endpoints.",
		},
		[]string{"route", "status"},
	)

	m.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifecycle_run_duration_seconds",
			Help:    "Wall-clock duration of a lifecycle stage run.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"stage", "outcome"},
	)

	m.candidateCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lifecycle_candidates",
			Help: "Number of candidates produced by the last run of a stage.",
		},
		[]string{"stage"},
	)

	m.itemFailureCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_item_failures_total",
			Help: "Per-item failures absorbed during lifecycle runs.",
		},
		[]string{"stage", "operation"},
	)

	m.dependencyUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lifecycle_dependency_available",
			Help: "Availability of external dependencies, 1 up 0 down.",
		},
		[]string{"component"},
	)

	prometheus.MustRegister(m.responseTime, m.runDuration, m.candidateCount, m.itemFailureCount, m.dependencyUp)

	return m
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, seconds float64) error {
	o, err := m.responseTime.GetMetricWith(tags)
	if err != nil {
		return fmt.Errorf("response time metric with tags %v not found: %w", tags, err)
	}

	o.Observe(seconds)
	return nil
}

func (m *Monitor) SetRunDurationMetric(tags map[string]string, seconds float64) error {
	o, err := m.runDuration.GetMetricWith(tags)
	if err != nil {
		return fmt.Errorf("run duration metric with tags %v not found: %w", tags, err)
	}

	o.Observe(seconds)
	return nil
}

func (m *Monitor) SetCandidateCountMetric(tags map[string]string, count float64) error {
	g, err := m.candidateCount.GetMetricWith(tags)
	if err != nil {
		return fmt.Errorf("candidate count metric with tags %v not found: %w", tags, err)
	}

	g.Set(count)
	return nil
}

func (m *Monitor) SetItemFailureCountMetric(tags map[string]string, count float64) error {
	c, err := m.itemFailureCount.GetMetricWith(tags)
	if err != nil {
		return fmt.Errorf("item failure metric with tags %v not found: %w", tags, err)
	}

	c.Add(count)
	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, available float64) error {
	g, err := m.dependencyUp.GetMetricWith(tags)
	if err != nil {
		return fmt.Errorf("dependency availability metric with tags %v not found: %w", tags, err)
	}

	g.Set(available)
	return nil
}
