// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for graph operations.
var (
	tracer = otel.Tracer("courseplan.graph")
	meter  = otel.Meter("courseplan.graph")
)

// Metrics for graph build and mutation operations.
var (
	buildLatency  metric.Float64Histogram
	buildTotal    metric.Int64Counter
	edgesRejected metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"requisite_graph_build_duration_seconds",
			metric.WithDescription("Duration of requisite graph build operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"requisite_graph_build_total",
			metric.WithDescription("Total number of requisite graph build operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesRejected, err = meter.Int64Counter(
			"requisite_graph_edges_rejected_total",
			metric.WithDescription("Edge insertions rejected by the cycle check"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records metrics for a bulk build operation.
func recordBuildMetrics(ctx context.Context, duration time.Duration, vertexCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)
}

// edgesRejectedInc counts a cycle rejection by relation kind.
func edgesRejectedInc(relation Relation) {
	if err := initMetrics(); err != nil {
		return
	}
	edgesRejected.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("relation", relation.String())),
	)
}

// startBuildSpan creates a span for a bulk build operation.
func startBuildSpan(ctx context.Context, courseCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Graph.Build",
		trace.WithAttributes(
			attribute.Int("graph.course_count", courseCount),
		),
	)
}
