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
	"errors"
	"testing"
	"time"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

// makeCourse builds a schedulable course offered in both term types.
func makeCourse(t *testing.T, name string, prereqs, coreqs []string) catalog.Course {
	t.Helper()
	occ, err := catalog.NewWeeklyOccurrence(time.Monday, 9*60, 10*60)
	if err != nil {
		t.Fatalf("NewWeeklyOccurrence failed: %v", err)
	}
	sec, err := catalog.NewSection(occ)
	if err != nil {
		t.Fatalf("NewSection failed: %v", err)
	}
	fall, err := catalog.NewTimetableOffering(catalog.TermTypeFall, sec)
	if err != nil {
		t.Fatalf("NewTimetableOffering failed: %v", err)
	}
	winter, err := catalog.NewTimetableOffering(catalog.TermTypeWinter, sec)
	if err != nil {
		t.Fatalf("NewTimetableOffering failed: %v", err)
	}
	c, err := catalog.NewCourse(name, prereqs, coreqs, []catalog.TimetableOffering{fall, winter})
	if err != nil {
		t.Fatalf("NewCourse failed: %v", err)
	}
	return c
}

func makeRoot(t *testing.T, name string, prereqs []string) catalog.Course {
	t.Helper()
	c, err := catalog.NewRootCourse(name, prereqs)
	if err != nil {
		t.Fatalf("NewRootCourse failed: %v", err)
	}
	return c
}

// newTestGraph builds a graph with plain vertices named by the arguments.
func newTestGraph(t *testing.T, names ...string) *Graph {
	t.Helper()
	g := New()
	for _, n := range names {
		g.AddVertex(makeCourse(t, n, nil, nil))
	}
	return g
}

func snapshot(g *Graph) []EdgeRef {
	return g.Edges()
}

func edgesEqual(a, b []EdgeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRelation_String(t *testing.T) {
	tests := []struct {
		relation Relation
		expected string
	}{
		{RelationPrereq, "prereq"},
		{RelationCoreq, "coreq"},
		{Relation(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.relation.String(); got != tc.expected {
			t.Errorf("Relation(%d).String() = %q, expected %q", tc.relation, got, tc.expected)
		}
	}
}

func TestGraph_AddVertex_Idempotent(t *testing.T) {
	g := New()
	c := makeCourse(t, "1010", nil, nil)

	g.AddVertex(c)
	g.AddVertex(c)

	if g.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, expected 1", g.VertexCount())
	}
}

func TestGraph_AddEdge_MissingVertexIsNoop(t *testing.T) {
	g := newTestGraph(t, "1010")

	if err := g.AddEdge("1010", "missing", RelationPrereq); err != nil {
		t.Errorf("edge to missing vertex: %v", err)
	}
	if err := g.AddEdge("missing", "1010", RelationPrereq); err != nil {
		t.Errorf("edge from missing vertex: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, expected 0", g.EdgeCount())
	}
}

func TestGraph_AddEdge_DuplicateIsNoop(t *testing.T) {
	g := newTestGraph(t, "1020", "1010")

	if err := g.AddEdge("1020", "1010", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	before := snapshot(g)

	if err := g.AddEdge("1020", "1010", RelationPrereq); err != nil {
		t.Errorf("duplicate AddEdge: %v", err)
	}
	// Same ordered pair with a different relation is still a duplicate.
	if err := g.AddEdge("1020", "1010", RelationCoreq); err != nil {
		t.Errorf("duplicate AddEdge (other relation): %v", err)
	}
	if !edgesEqual(before, snapshot(g)) {
		t.Error("duplicate AddEdge changed observable state")
	}
}

func TestGraph_AddEdge_RejectsDirectCycle(t *testing.T) {
	g := newTestGraph(t, "A", "B")

	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	before := snapshot(g)

	err := g.AddEdge("B", "A", RelationPrereq)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("closing edge error = %v, expected ErrCycle", err)
	}
	if !errors.Is(err, ErrStructuralViolation) {
		t.Error("ErrCycle does not wrap ErrStructuralViolation")
	}
	if !edgesEqual(before, snapshot(g)) {
		t.Error("failed AddEdge mutated the graph")
	}
}

func TestGraph_AddEdge_RejectsIndirectCycle(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")

	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("B", "C", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	before := snapshot(g)

	if err := g.AddEdge("C", "A", RelationCoreq); !errors.Is(err, ErrCycle) {
		t.Fatalf("closing edge error = %v, expected ErrCycle", err)
	}
	if !edgesEqual(before, snapshot(g)) {
		t.Error("failed AddEdge mutated the graph")
	}
}

func TestGraph_AddEdge_RejectsSelfLoop(t *testing.T) {
	g := newTestGraph(t, "A")
	if err := g.AddEdge("A", "A", RelationPrereq); !errors.Is(err, ErrCycle) {
		t.Errorf("self edge error = %v, expected ErrCycle", err)
	}
}

func TestGraph_AddEdge_RejectsRootTarget(t *testing.T) {
	g := New()
	g.AddVertex(makeCourse(t, "1010", nil, nil))
	g.AddVertex(makeRoot(t, "CS-BSC", nil))

	err := g.AddEdge("1010", "CS-BSC", RelationPrereq)
	if !errors.Is(err, ErrRootTarget) {
		t.Fatalf("edge to root error = %v, expected ErrRootTarget", err)
	}
	if !errors.Is(err, ErrStructuralViolation) {
		t.Error("ErrRootTarget does not wrap ErrStructuralViolation")
	}
	if g.EdgeCount() != 0 {
		t.Error("rejected edge was inserted")
	}

	// The root may depend on others; only the target position is illegal.
	if err := g.AddEdge("CS-BSC", "1010", RelationPrereq); err != nil {
		t.Errorf("edge from root failed: %v", err)
	}
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	g.RemoveEdge("A", "B")
	if g.EdgeCount() != 0 {
		t.Error("edge not removed")
	}

	// Removing a missing edge or vertex is a no-op.
	g.RemoveEdge("A", "B")
	g.RemoveEdge("missing", "B")
}

func TestGraph_RemoveVertex_RewiresThroughRemoved(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")
	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("B", "C", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	g.RemoveVertex("B")

	if _, ok := g.Vertex("B"); ok {
		t.Fatal("vertex B still present")
	}
	a, _ := g.Vertex("A")
	out := a.Outgoing()
	if len(out) != 1 || out[0].Target != "C" || out[0].Relation != RelationPrereq {
		t.Fatalf("A.Outgoing() = %v, expected single prereq edge to C", out)
	}

	// The inherited edge is a regular edge: it can be removed again.
	g.RemoveEdge("A", "C")
	if g.EdgeCount() != 0 {
		t.Error("inherited edge not removable")
	}
}

func TestGraph_RemoveVertex_NoDuplicateOnExistingShortcut(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")
	for _, e := range []struct{ from, to string }{{"A", "B"}, {"B", "C"}, {"A", "C"}} {
		if err := g.AddEdge(e.from, e.to, RelationPrereq); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e.from, e.to, err)
		}
	}

	g.RemoveVertex("B")

	a, _ := g.Vertex("A")
	if out := a.Outgoing(); len(out) != 1 || out[0].Target != "C" {
		t.Fatalf("A.Outgoing() = %v, expected exactly one edge to C", out)
	}
}

func TestGraph_RemoveVertex_InheritedEdgesKeepTheirKind(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")
	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("B", "C", RelationCoreq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	g.RemoveVertex("B")

	a, _ := g.Vertex("A")
	out := a.Outgoing()
	if len(out) != 1 || out[0].Relation != RelationCoreq {
		t.Fatalf("A.Outgoing() = %v, expected inherited coreq edge", out)
	}
}

func TestGraph_RemoveVertex_MissingIsNoop(t *testing.T) {
	g := newTestGraph(t, "A")
	g.RemoveVertex("missing")
	if g.VertexCount() != 1 {
		t.Error("RemoveVertex of missing vertex changed the graph")
	}
}

func TestGraph_Partition(t *testing.T) {
	g := New()
	g.AddVertex(makeRoot(t, "CS-BSC", nil))
	g.AddVertex(makeCourse(t, "1020", nil, nil))
	g.AddVertex(makeCourse(t, "1010", nil, nil))

	roots, ordinary := g.Partition()
	if len(roots) != 1 || roots[0].Name != "CS-BSC" {
		t.Errorf("roots = %v", roots)
	}
	if len(ordinary) != 2 || ordinary[0].Name != "1010" || ordinary[1].Name != "1020" {
		t.Errorf("ordinary = %v", ordinary)
	}
}

func TestGraph_Roots(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")
	if err := g.AddEdge("A", "B", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	roots := g.Roots("")
	if len(roots) != 2 || roots[0] != "A" || roots[1] != "C" {
		t.Errorf("Roots() = %v, expected [A C]", roots)
	}

	if roots := g.Roots("A"); len(roots) != 1 || roots[0] != "C" {
		t.Errorf("Roots(exclude A) = %v, expected [C]", roots)
	}
}

func TestGraph_TopoFrom_DependenciesFirst(t *testing.T) {
	// D -> {B, C}, B -> A, C -> A
	g := newTestGraph(t, "A", "B", "C", "D")
	for _, e := range []struct{ from, to string }{{"D", "B"}, {"D", "C"}, {"B", "A"}, {"C", "A"}} {
		if err := g.AddEdge(e.from, e.to, RelationPrereq); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e.from, e.to, err)
		}
	}

	pos := map[string]int{}
	i := 0
	g.TopoFrom("D")(func(v *Vertex) bool {
		pos[v.Name()] = i
		i++
		return true
	})

	if len(pos) != 4 {
		t.Fatalf("visited %d vertices, expected 4", len(pos))
	}
	for _, e := range g.Edges() {
		if pos[e.From] <= pos[e.To] {
			t.Errorf("edge %s -> %s violates dependency order (%d <= %d)", e.From, e.To, pos[e.From], pos[e.To])
		}
	}
}

func TestGraph_TopoFrom_Restartable(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.AddEdge("B", "A", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	seq := g.TopoFrom("B")
	for round := 0; round < 2; round++ {
		var names []string
		seq(func(v *Vertex) bool {
			names = append(names, v.Name())
			return true
		})
		if len(names) != 2 || names[0] != "A" || names[1] != "B" {
			t.Fatalf("round %d order = %v, expected [A B]", round, names)
		}
	}
}

func TestGraph_TopoFrom_EarlyStop(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.AddEdge("B", "A", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	count := 0
	g.TopoFrom("B")(func(v *Vertex) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("yield called %d times after stop, expected 1", count)
	}
}

func TestGraph_TopoFrom_MissingRoot(t *testing.T) {
	g := newTestGraph(t, "A")
	called := false
	g.TopoFrom("missing")(func(v *Vertex) bool {
		called = true
		return true
	})
	if called {
		t.Error("missing root yielded vertices")
	}
}

func TestGraph_ComputeCostHeuristic(t *testing.T) {
	// root -> X -> Y -> Z (prereqs), X also coreqs W.
	g := New()
	g.AddVertex(makeRoot(t, "root", nil))
	for _, n := range []string{"X", "Y", "Z", "W"} {
		g.AddVertex(makeCourse(t, n, nil, nil))
	}
	for _, e := range []struct {
		from, to string
		rel      Relation
	}{
		{"root", "X", RelationPrereq},
		{"X", "Y", RelationPrereq},
		{"Y", "Z", RelationPrereq},
		{"X", "W", RelationCoreq},
	} {
		if err := g.AddEdge(e.from, e.to, e.rel); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e.from, e.to, err)
		}
	}

	costs, err := g.ComputeCostHeuristic("root")
	if err != nil {
		t.Fatalf("ComputeCostHeuristic failed: %v", err)
	}

	expected := map[string]float64{
		"Z":    0,
		"W":    0,
		"Y":    1,
		"X":    2,
		"root": 3,
	}
	for name, want := range expected {
		if got := costs.Of(name); got != want {
			t.Errorf("cost(%s) = %v, expected %v", name, got, want)
		}
	}
}

func TestGraph_ComputeCostHeuristic_CoreqTieBreak(t *testing.T) {
	// Two chains of equal prereq depth; one drags a corequisite whose own
	// chain is just as deep, so the coreq weight breaks the tie:
	// cost(withCoreq) = max(0+1.0, 1.0+0.05) = 1.05 > cost(plain) = 1.0.
	g := newTestGraph(t, "withCoreq", "plain", "dep1", "dep2", "co")
	for _, e := range []struct {
		from, to string
		rel      Relation
	}{
		{"withCoreq", "dep1", RelationPrereq},
		{"withCoreq", "co", RelationCoreq},
		{"co", "dep1", RelationPrereq},
		{"plain", "dep2", RelationPrereq},
	} {
		if err := g.AddEdge(e.from, e.to, e.rel); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	g.AddVertex(makeRoot(t, "root", nil))
	if err := g.AddEdge("root", "withCoreq", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("root", "plain", RelationPrereq); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	costs, err := g.ComputeCostHeuristic("root")
	if err != nil {
		t.Fatalf("ComputeCostHeuristic failed: %v", err)
	}
	if costs.Of("withCoreq") <= costs.Of("plain") {
		t.Errorf("cost(withCoreq) = %v not greater than cost(plain) = %v",
			costs.Of("withCoreq"), costs.Of("plain"))
	}
}

func TestGraph_ComputeCostHeuristic_MissingRoot(t *testing.T) {
	g := New()
	if _, err := g.ComputeCostHeuristic("missing"); !errors.Is(err, ErrVertexNotFound) {
		t.Errorf("error = %v, expected ErrVertexNotFound", err)
	}
}

func TestBuild(t *testing.T) {
	courses := []catalog.Course{
		makeRoot(t, "CS-BSC", []string{"1020"}),
		makeCourse(t, "1020", []string{"1010"}, nil),
		makeCourse(t, "1010", nil, nil),
	}

	g, err := Build(context.Background(), courses)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, expected 3", g.VertexCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, expected 2", g.EdgeCount())
	}
}

func TestBuild_UnknownReference(t *testing.T) {
	courses := []catalog.Course{
		makeCourse(t, "1020", []string{"ghost"}, nil),
	}
	if _, err := Build(context.Background(), courses); !errors.Is(err, ErrUnknownCourse) {
		t.Errorf("error = %v, expected ErrUnknownCourse", err)
	}
}

func TestBuild_RootCorequisites(t *testing.T) {
	// Bypass the catalog constructor: bulk import must re-check.
	root := catalog.Course{Name: "CS-BSC", IsRoot: true, Corequisites: []string{"1010"}}
	courses := []catalog.Course{root, makeCourse(t, "1010", nil, nil)}

	if _, err := Build(context.Background(), courses); !errors.Is(err, ErrRootCorequisites) {
		t.Errorf("error = %v, expected ErrRootCorequisites", err)
	}
}

func TestBuild_CyclicCatalog(t *testing.T) {
	courses := []catalog.Course{
		makeCourse(t, "A", []string{"B"}, nil),
		makeCourse(t, "B", []string{"A"}, nil),
	}
	if _, err := Build(context.Background(), courses); !errors.Is(err, ErrCycle) {
		t.Errorf("error = %v, expected ErrCycle", err)
	}
}
