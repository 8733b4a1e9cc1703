// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the coursegate counters. It satisfies web.Recorder.
type Metrics struct {
	AuthAttempts   *prometheus.CounterVec
	GateRejections *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
}

// NewMetrics creates the coursegate counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursegate_auth_attempts_total",
				Help: "Signup and signin attempts by operation, role and outcome",
			},
			[]string{"operation", "role", "outcome"},
		),
		GateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursegate_gate_rejections_total",
				Help: "Requests rejected by the role gate, by role and reason",
			},
			[]string{"role", "reason"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursegate_http_requests_total",
				Help: "API requests by matched route and status code",
			},
			[]string{"route", "status"},
		),
	}

	reg.MustRegister(m.AuthAttempts, m.GateRejections, m.HTTPRequests)
	return m
}

// AuthAttempt increments coursegate_auth_attempts_total.
func (m *Metrics) AuthAttempt(operation, role, outcome string) {
	m.AuthAttempts.WithLabelValues(operation, role, outcome).Inc()
}

// GateRejection increments coursegate_gate_rejections_total.
func (m *Metrics) GateRejection(role, reason string) {
	m.GateRejections.WithLabelValues(role, reason).Inc()
}

// HTTPRequest increments coursegate_http_requests_total.
func (m *Metrics) HTTPRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
