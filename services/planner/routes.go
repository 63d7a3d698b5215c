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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the planner endpoints with the router group
// (typically /v1).
//
// Endpoints:
//
//	POST /v1/planner/plan - build a schedule from an inline catalog
//	POST /v1/planner/graph/check - validate catalog structure
//	GET  /v1/planner/health - health check
//	GET  /v1/planner/ready - readiness check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	planner := rg.Group("/planner")
	{
		planner.POST("/plan", handlers.HandlePlan)

		graph := planner.Group("/graph")
		{
			graph.POST("/check", handlers.HandleGraphCheck)
		}

		planner.GET("/health", handlers.HandleHealth)
		planner.GET("/ready", handlers.HandleReady)
	}
}
