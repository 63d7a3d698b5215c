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

import "sort"

// reachable reports whether to is reachable from from along directed edges.
// Iterative DFS; the visited set is call-local so concurrent traversals of
// an unmutated graph are safe.
func (g *Graph) reachable(from, to string) bool {
	start, ok := g.vertices[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}

	visited := map[string]bool{from: true}
	stack := []*Vertex{start}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range v.out {
			if e.Target == to {
				return true
			}
			if visited[e.Target] {
				continue
			}
			visited[e.Target] = true
			if next, ok := g.vertices[e.Target]; ok {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// TopoFrom returns a lazy, restartable, finite sequence of the vertices
// reachable from root, in dependency order: a vertex is yielded only after
// every vertex it points to has been yielded. Iterating the returned
// function again restarts the traversal from scratch.
//
// The traversal is an iterative post-order DFS with an explicit frame
// stack, so arbitrarily deep chains cannot exhaust the goroutine stack.
// Precondition: the graph is acyclic, which AddEdge guarantees by
// construction. A missing root yields nothing.
func (g *Graph) TopoFrom(root string) func(yield func(*Vertex) bool) {
	return func(yield func(*Vertex) bool) {
		start, ok := g.vertices[root]
		if !ok {
			return
		}

		type frame struct {
			v    *Vertex
			next int
		}
		visited := map[string]bool{root: true}
		stack := []frame{{v: start}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(f.v.out) {
				e := f.v.out[f.next]
				f.next++
				if visited[e.Target] {
					continue
				}
				visited[e.Target] = true
				if next, ok := g.vertices[e.Target]; ok {
					stack = append(stack, frame{v: next})
				}
				continue
			}
			v := f.v
			stack = stack[:len(stack)-1]
			if !yield(v) {
				return
			}
		}
	}
}

// Roots returns the names of vertices with no incoming edges, excluding the
// named vertex, sorted for determinism. These are the heads of independent
// requisite chains.
func (g *Graph) Roots(exclude string) []string {
	indeg := make(map[string]int, len(g.vertices))
	for name := range g.vertices {
		indeg[name] = 0
	}
	for _, v := range g.vertices {
		for _, e := range v.out {
			indeg[e.Target]++
		}
	}

	var roots []string
	for name, d := range indeg {
		if d == 0 && name != exclude {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}
