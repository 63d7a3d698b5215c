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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/ingest"
	"github.com/AleutianAI/courseplan/services/planner/scheduler"
)

// Handlers holds the HTTP handlers for the planner service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers backed by the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandlePlan handles POST /v1/planner/plan.
//
// Request Body:
//
//	PlanRequest
//
// Responses:
//
//	200 OK: PlanResponse
//	400 Bad Request: invalid body, catalog, or parameters
//	422 Unprocessable Entity: cyclic catalog or unsatisfiable instance
//	500 Internal Server Error: internal invariant failure
func (h *Handlers) HandlePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Plan(c.Request.Context(), req)
	if err != nil {
		status, code := planErrorStatus(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// planErrorStatus maps service errors onto HTTP status and error codes.
func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrInvalidDocument),
		errors.Is(err, ingest.ErrBadClock),
		errors.Is(err, ingest.ErrBadWeekday):
		return http.StatusBadRequest, "INVALID_CATALOG"
	case errors.Is(err, graph.ErrUnknownCourse),
		errors.Is(err, graph.ErrRootCorequisites):
		return http.StatusBadRequest, "UNRESOLVED_REFERENCE"
	case errors.Is(err, graph.ErrStructuralViolation):
		return http.StatusUnprocessableEntity, "STRUCTURAL_VIOLATION"
	case errors.Is(err, scheduler.ErrConfiguration):
		return http.StatusBadRequest, "INVALID_PARAMETERS"
	case errors.Is(err, scheduler.ErrPlacement):
		return http.StatusUnprocessableEntity, "UNSATISFIABLE"
	default:
		return http.StatusInternalServerError, "PLAN_FAILED"
	}
}

// HandleGraphCheck handles POST /v1/planner/graph/check.
//
// Responses:
//
//	200 OK: CheckResponse
//	400 Bad Request: invalid body or catalog
//	422 Unprocessable Entity: cyclic requisites
func (h *Handlers) HandleGraphCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Check(c.Request.Context(), req.Catalog)
	if err != nil {
		status, code := planErrorStatus(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/planner/health. Always 200 if running.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/planner/ready. The service is stateless, so
// readiness follows liveness; the body reports whether a run store is
// attached.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:   true,
		StoreOK: h.svc.HasStore(),
	})
}
