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
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

// Build constructs a fully connected graph from a catalog: one vertex per
// course, one edge per declared prerequisite/corequisite.
//
// Every referenced name is resolved against the input before any edge is
// inserted. Build fails with ErrUnknownCourse when a requisite names a
// course absent from the input, and with ErrRootCorequisites when a root
// course declares corequisites. On failure nothing is partially
// constructed: the caller receives a nil graph.
//
// Cyclic requisite declarations surface as ErrCycle from the underlying
// AddEdge (a structural violation, retryable with corrected input).
func Build(ctx context.Context, courses []catalog.Course) (*Graph, error) {
	ctx, span := startBuildSpan(ctx, len(courses))
	defer span.End()
	start := time.Now()

	g := New()
	for _, c := range courses {
		g.AddVertex(c)
	}

	// Resolve all references up front so a bad catalog mutates nothing.
	for _, c := range courses {
		if c.IsRoot && len(c.Corequisites) > 0 {
			return nil, failBuild(ctx, span, start, fmt.Errorf("%w: %s", ErrRootCorequisites, c.Name))
		}
		for _, name := range c.Prerequisites {
			if _, ok := g.vertices[name]; !ok {
				return nil, failBuild(ctx, span, start, fmt.Errorf("%w: %s requires %s", ErrUnknownCourse, c.Name, name))
			}
		}
		for _, name := range c.Corequisites {
			if _, ok := g.vertices[name]; !ok {
				return nil, failBuild(ctx, span, start, fmt.Errorf("%w: %s corequires %s", ErrUnknownCourse, c.Name, name))
			}
		}
	}

	for _, c := range courses {
		for _, name := range c.Prerequisites {
			if err := g.AddEdge(c.Name, name, RelationPrereq); err != nil {
				return nil, failBuild(ctx, span, start, err)
			}
		}
		for _, name := range c.Corequisites {
			if err := g.AddEdge(c.Name, name, RelationCoreq); err != nil {
				return nil, failBuild(ctx, span, start, err)
			}
		}
	}

	span.SetAttributes(
		attribute.Int("graph.vertex_count", g.VertexCount()),
		attribute.Int("graph.edge_count", g.EdgeCount()),
	)
	recordBuildMetrics(ctx, time.Since(start), g.VertexCount(), g.EdgeCount(), true)
	slog.Debug("requisite graph built",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(start),
	)
	return g, nil
}

// failBuild records failure telemetry and passes the error through.
func failBuild(ctx context.Context, span trace.Span, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	recordBuildMetrics(ctx, time.Since(start), 0, 0, false)
	return err
}
