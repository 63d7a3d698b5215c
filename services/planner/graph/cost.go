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

import "fmt"

// Costs holds the chain-depth cost of every vertex reachable from the root
// the computation was run for. Vertices absent from the map have cost 0.
type Costs map[string]float64

// Of returns the cost of the named vertex (0 when unreached).
func (c Costs) Of(name string) float64 {
	return c[name]
}

// ComputeCostHeuristic computes the weighted longest-chain cost of every
// vertex reachable from root.
//
// Costs start at 0 and vertices are processed in reverse-topological order
// (dependencies first), so each vertex sees the final cost of its targets:
//
//	cost(v) = max over outgoing edges e of cost(e.Target) + e.Relation.Weight()
//
// A prerequisite contributes 1.0 and a corequisite 0.05, making cost the
// depth of the longest requisite chain below the vertex, with corequisites
// acting as a tie-breaker among equally deep chains. The scheduler places
// high-cost chains first.
//
// Returns ErrVertexNotFound if root is not in the graph. The cost map is a
// fresh per-call result; nothing is stored on the vertices.
func (g *Graph) ComputeCostHeuristic(root string) (Costs, error) {
	if _, ok := g.vertices[root]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrVertexNotFound, root)
	}

	costs := make(Costs, len(g.vertices))
	g.TopoFrom(root)(func(v *Vertex) bool {
		cost := 0.0
		for _, e := range v.out {
			if c := costs[e.Target] + e.Relation.Weight(); c > cost {
				cost = c
			}
		}
		costs[v.Name()] = cost
		return true
	})
	return costs, nil
}
