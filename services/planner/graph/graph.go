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
	"fmt"
	"sort"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

// Relation is the kind of requisite an edge expresses.
type Relation int

const (
	// RelationPrereq requires the target to be scheduled in a strictly
	// earlier term than the source.
	RelationPrereq Relation = iota

	// RelationCoreq requires the target to be scheduled no later than the
	// source (same term is allowed).
	RelationCoreq

	// NumRelations is the number of relation kinds.
	NumRelations
)

// Relation weights for the cost heuristic. The corequisite weight is a
// deliberate epsilon: among vertices with equal prerequisite-chain depth,
// one that drags a corequisite along sorts as deeper and is attempted first,
// because corequisite chains are more constrained.
const (
	prereqWeight = 1.0
	coreqWeight  = 0.05
)

// relationNames maps Relation values to their string representations.
var relationNames = map[Relation]string{
	RelationPrereq: "prereq",
	RelationCoreq:  "coreq",
}

// String returns the string representation of the Relation.
func (r Relation) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return "unknown"
}

// Weight returns the chain-depth contribution of the relation.
func (r Relation) Weight() float64 {
	if r == RelationCoreq {
		return coreqWeight
	}
	return prereqWeight
}

// Edge is a directed, typed requisite from its owning vertex to Target.
// Targets are referenced by course name so removing a vertex can never
// leave a dangling pointer.
type Edge struct {
	// Relation is the requisite kind.
	Relation Relation

	// Target is the name of the required course.
	Target string
}

// EdgeRef is a fully qualified edge (source included) as exposed to read
// accessors and external renderers.
type EdgeRef struct {
	From     string
	To       string
	Relation Relation
}

// Vertex wraps one catalog course and owns its outgoing edges. A vertex
// carries no traversal state: visited sets and costs are per-call scratch
// owned by the traversal, never persisted here.
type Vertex struct {
	// Course is the wrapped catalog entry. Immutable.
	Course catalog.Course

	out []Edge
}

// Name returns the identity key of the vertex.
func (v *Vertex) Name() string {
	return v.Course.Name
}

// Outgoing returns a copy of the vertex's outgoing edges in insertion order.
func (v *Vertex) Outgoing() []Edge {
	out := make([]Edge, len(v.out))
	copy(out, v.out)
	return out
}

// hasEdge reports whether an edge to target already exists (any relation:
// at most one edge may exist between an ordered vertex pair).
func (v *Vertex) hasEdge(target string) bool {
	for _, e := range v.out {
		if e.Target == target {
			return true
		}
	}
	return false
}

// Graph owns the vertex set of the requisite DAG. Vertex identity is the
// wrapped course's name.
type Graph struct {
	vertices map[string]*Vertex
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{vertices: make(map[string]*Vertex)}
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, v := range g.vertices {
		n += len(v.out)
	}
	return n
}

// Vertex returns the vertex wrapping the named course.
func (g *Graph) Vertex(name string) (*Vertex, bool) {
	v, ok := g.vertices[name]
	return v, ok
}

// AddVertex inserts a vertex for course if none exists for that identity.
// Adding an existing course is a no-op.
func (g *Graph) AddVertex(course catalog.Course) {
	if _, ok := g.vertices[course.Name]; ok {
		return
	}
	g.vertices[course.Name] = &Vertex{Course: course}
}

// AddEdge inserts a directed requisite edge from source to target.
//
// The call is a no-op when either vertex is missing or the edge already
// exists. It fails with ErrRootTarget when target is a root course, and
// with ErrCycle when the insertion would close a directed cycle (tested by
// asking whether source is already reachable from target). Both checks run
// before any mutation, so a failed AddEdge leaves the graph unchanged.
func (g *Graph) AddEdge(source, target string, relation Relation) error {
	src, ok := g.vertices[source]
	if !ok {
		return nil
	}
	tgt, ok := g.vertices[target]
	if !ok {
		return nil
	}
	if tgt.Course.IsRoot {
		return fmt.Errorf("%w: %s -> %s", ErrRootTarget, source, target)
	}
	if src.hasEdge(target) {
		return nil
	}
	if source == target || g.reachable(target, source) {
		edgesRejectedInc(relation)
		return fmt.Errorf("%w: %s -> %s", ErrCycle, source, target)
	}
	src.out = append(src.out, Edge{Relation: relation, Target: target})
	return nil
}

// RemoveEdge deletes the edge from source to target. Missing vertices or a
// missing edge are no-ops.
func (g *Graph) RemoveEdge(source, target string) {
	src, ok := g.vertices[source]
	if !ok {
		return
	}
	for i, e := range src.out {
		if e.Target == target {
			src.out = append(src.out[:i], src.out[i+1:]...)
			return
		}
	}
}

// RemoveVertex deletes the named vertex and rewires around it: every vertex
// that held an edge to the removed one loses that edge and inherits the
// removed vertex's out-edges (each keeping its own relation kind). This
// preserves transitive reachability through the removed node. Absent
// vertices are a no-op.
func (g *Graph) RemoveVertex(name string) {
	removed, ok := g.vertices[name]
	if !ok {
		return
	}
	inherited := removed.Outgoing()
	delete(g.vertices, name)

	for _, v := range g.vertices {
		dropped := false
		for i, e := range v.out {
			if e.Target == name {
				v.out = append(v.out[:i], v.out[i+1:]...)
				dropped = true
				break
			}
		}
		if !dropped {
			continue
		}
		for _, e := range inherited {
			// Same duplicate/cycle checks as AddEdge. A cycle is
			// impossible here: the path v -> removed -> e.Target
			// already existed in a DAG.
			if err := g.AddEdge(v.Name(), e.Target, e.Relation); err != nil {
				panic(fmt.Sprintf("graph: rewiring %s -> %s broke the DAG invariant: %v", v.Name(), e.Target, err))
			}
		}
	}
}

// Partition splits the current vertex set into root (degree) courses and
// ordinary courses, each sorted by name.
func (g *Graph) Partition() (roots, ordinary []catalog.Course) {
	for _, v := range g.vertices {
		if v.Course.IsRoot {
			roots = append(roots, v.Course)
		} else {
			ordinary = append(ordinary, v.Course)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	sort.Slice(ordinary, func(i, j int) bool { return ordinary[i].Name < ordinary[j].Name })
	return roots, ordinary
}

// Edges returns every edge of the graph as fully qualified references,
// sorted by (From, To) for deterministic rendering.
func (g *Graph) Edges() []EdgeRef {
	refs := make([]EdgeRef, 0, g.EdgeCount())
	for _, v := range g.vertices {
		for _, e := range v.out {
			refs = append(refs, EdgeRef{From: v.Name(), To: e.Target, Relation: e.Relation})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].From != refs[j].From {
			return refs[i].From < refs[j].From
		}
		return refs[i].To < refs[j].To
	})
	return refs
}
