// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/ingest"
	"github.com/AleutianAI/courseplan/services/planner/render"
)

func runGraphDot(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), render.GraphDOT(g))
	return nil
}

func runGraphCheck(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}

	roots, _ := g.Partition()
	fmt.Fprintf(cmd.OutOrStdout(), "catalog OK: %d courses, %d requisites, %d degrees\n",
		g.VertexCount(), g.EdgeCount(), len(roots))
	for _, c := range roots {
		fmt.Fprintf(cmd.OutOrStdout(), "  degree %s (%d requirements)\n", c.Name, len(c.Prerequisites))
	}
	return nil
}

func loadGraph(cmd *cobra.Command) (*graph.Graph, error) {
	ctx := cmd.Context()
	courses, err := ingest.LoadFile(ctx, catalogFile)
	if err != nil {
		return nil, err
	}
	return graph.Build(ctx, courses)
}
