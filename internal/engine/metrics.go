// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for permission resolution and boundary handling.
var (
	// resolveDuration tracks the latency of point and volume queries.
	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "areaguard_resolve_duration_seconds",
		Help:    "Histogram of permission query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// resolveTotal counts permission queries by kind.
	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "areaguard_resolve_total",
		Help: "Total number of permission queries",
	}, []string{"kind"})

	// boundaryDecisions counts enter/leave outcomes.
	boundaryDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "areaguard_boundary_decisions_total",
		Help: "Total number of boundary crossing decisions",
	}, []string{"direction", "outcome"})

	// mutationDenials counts world-mutation attempts denied by a missing
	// capability bit.
	mutationDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "areaguard_mutation_denials_total",
		Help: "Total number of denied world mutation attempts",
	})
)

// observeResolve records one permission query.
func observeResolve(kind string, start time.Time) {
	resolveDuration.Observe(time.Since(start).Seconds())
	resolveTotal.WithLabelValues(kind).Inc()
}

// observeBoundary records one boundary decision.
func observeBoundary(direction string, allowed bool) {
	outcome := "allow"
	if !allowed {
		outcome = "deny"
	}
	boundaryDecisions.WithLabelValues(direction, outcome).Inc()
}
