// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// Package-level tracer for scheduling runs.
var tracer = otel.Tracer("courseplan.scheduler")

// Prometheus metrics for scheduling decisions.
var (
	placementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courseplan_placements_total",
		Help: "Courses committed to a term, by phase (required/filler)",
	}, []string{"phase"})

	fillerAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courseplan_filler_chains_abandoned_total",
		Help: "Filler chains abandoned after a recoverable placement failure",
	})

	termsScanned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "courseplan_terms_scanned_per_placement",
		Help:    "Terms examined before a course found a home",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	runLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courseplan_build_schedule_duration_seconds",
		Help:    "Duration of BuildSchedule runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"success"})
)

// recordRun records the latency and outcome of one BuildSchedule call.
func recordRun(d time.Duration, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	runLatency.WithLabelValues(label).Observe(d.Seconds())
}
