// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package planner exposes the program-of-study planner over HTTP: catalog
// ingestion, graph validation, and schedule construction behind a gin
// router.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/ingest"
	"github.com/AleutianAI/courseplan/services/planner/schedule"
	"github.com/AleutianAI/courseplan/services/planner/scheduler"
	"github.com/AleutianAI/courseplan/services/planner/store/badgerstore"
)

// Service implements the planner operations behind the HTTP handlers.
//
// Thread Safety: safe for concurrent use; every request builds its own
// graph and scheduler.
type Service struct {
	logger *slog.Logger
	store  *badgerstore.Store
}

// NewService creates a planner service.
func NewService() *Service {
	return &Service{logger: slog.Default()}
}

// WithStore attaches a run store. Completed plans are persisted and their
// run IDs returned in plan responses.
func (s *Service) WithStore(store *badgerstore.Store) *Service {
	s.store = store
	return s
}

// WithLogger sets the logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// HasStore reports whether a run store is attached.
func (s *Service) HasStore() bool {
	return s.store != nil
}

// Plan converts the inline catalog, builds its requisite graph, and runs
// the scheduler with the request parameters.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (PlanResponse, error) {
	courses, err := ingest.Convert(ctx, req.Catalog)
	if err != nil {
		return PlanResponse{}, err
	}

	g, err := graph.Build(ctx, courses)
	if err != nil {
		return PlanResponse{}, err
	}

	opts := []scheduler.Option{scheduler.WithLogger(s.logger)}
	if req.StartTerm != "" {
		start, err := catalog.ParseTermType(req.StartTerm)
		if err != nil {
			return PlanResponse{}, fmt.Errorf("%w: %v", ingest.ErrInvalidDocument, err)
		}
		opts = append(opts, scheduler.WithStartTerm(start))
	}

	sched, err := scheduler.New(g, opts...).
		BuildSchedule(ctx, req.TermCapacity, req.TargetCourses, req.Degree)
	if err != nil {
		return PlanResponse{}, err
	}

	resp := PlanResponse{
		Degree:      req.Degree,
		CourseCount: sched.PlacedCount(),
		Terms:       termViews(sched),
	}

	if s.store != nil {
		resp.RunID = s.persistRun(ctx, req, resp)
	}
	return resp, nil
}

// persistRun saves a completed plan. Persistence failures are logged, not
// returned: the plan itself succeeded.
func (s *Service) persistRun(ctx context.Context, req PlanRequest, resp PlanResponse) string {
	result, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode plan result", "error", err)
		return ""
	}
	id, err := s.store.PutRun(ctx, badgerstore.Run{
		Degree:        req.Degree,
		TermCapacity:  req.TermCapacity,
		TargetCourses: req.TargetCourses,
		Result:        result,
	})
	if err != nil {
		s.logger.Error("persist plan run", "error", err)
		return ""
	}
	return id.String()
}

// Check converts the inline catalog and builds its requisite graph,
// reporting structure on success.
func (s *Service) Check(ctx context.Context, doc ingest.Document) (CheckResponse, error) {
	courses, err := ingest.Convert(ctx, doc)
	if err != nil {
		return CheckResponse{}, err
	}

	g, err := graph.Build(ctx, courses)
	if err != nil {
		return CheckResponse{}, err
	}

	roots, _ := g.Partition()
	degrees := make([]string, 0, len(roots))
	for _, c := range roots {
		degrees = append(degrees, c.Name)
	}
	return CheckResponse{
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
		Degrees:  degrees,
	}, nil
}

// termViews flattens a schedule into the response shape.
func termViews(sched *schedule.Schedule) []TermView {
	views := make([]TermView, 0, sched.TermCount())
	for i := 0; i < sched.TermCount(); i++ {
		view := TermView{Index: i, Type: sched.TermTypeAt(i).String()}
		for _, slot := range sched.Slots(i) {
			meetings := make([]string, 0, len(slot.Section.Occurrences))
			for _, o := range slot.Section.Occurrences {
				meetings = append(meetings, o.String())
			}
			view.Courses = append(view.Courses, CourseView{
				Name:     slot.Course.Name,
				Meetings: meetings,
			})
		}
		views = append(views, view)
	}
	return views
}
