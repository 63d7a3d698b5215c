// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package planner

import (
	"github.com/AleutianAI/courseplan/services/planner/ingest"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "1.0.0"

// PlanRequest is the request body for POST /v1/planner/plan.
type PlanRequest struct {
	// Catalog is the inline catalog document.
	Catalog ingest.Document `json:"catalog" binding:"required"`

	// Degree names the degree root whose requirements drive the plan.
	Degree string `json:"degree" binding:"required"`

	// TermCapacity is the maximum number of courses per term.
	TermCapacity int `json:"term_capacity" binding:"required"`

	// TargetCourses is the total number of courses the plan must contain.
	TargetCourses int `json:"target_courses"`

	// StartTerm is the term type of the first term ("fall" or "winter").
	// Defaults to fall.
	StartTerm string `json:"start_term,omitempty"`
}

// CourseView is one placed course in a plan response.
type CourseView struct {
	Name     string   `json:"name"`
	Meetings []string `json:"meetings"`
}

// TermView is one term of a plan response.
type TermView struct {
	Index   int          `json:"index"`
	Type    string       `json:"type"`
	Courses []CourseView `json:"courses"`
}

// PlanResponse is the response body for POST /v1/planner/plan.
type PlanResponse struct {
	// RunID identifies the persisted run; empty when no store is attached.
	RunID string `json:"run_id,omitempty"`

	Degree      string     `json:"degree"`
	CourseCount int        `json:"course_count"`
	Terms       []TermView `json:"terms"`
}

// CheckRequest is the request body for POST /v1/planner/graph/check.
type CheckRequest struct {
	Catalog ingest.Document `json:"catalog" binding:"required"`
}

// CheckResponse reports the structure of a valid requisite graph.
type CheckResponse struct {
	Vertices int      `json:"vertices"`
	Edges    int      `json:"edges"`
	Degrees  []string `json:"degrees"`
}

// ErrorResponse is the JSON error body shared by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the body of GET /v1/planner/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the body of GET /v1/planner/ready.
type ReadyResponse struct {
	Ready   bool `json:"ready"`
	StoreOK bool `json:"store_ok"`
}
