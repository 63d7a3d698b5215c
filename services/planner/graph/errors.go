// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the prerequisite/corequisite dependency graph.
//
// The graph is a directed acyclic graph whose vertices wrap catalog courses
// and whose edges are typed requisite relations. An edge points from a
// dependent course to the course it requires: for a Prereq edge the source
// must be scheduled strictly after the target, for a Coreq edge no earlier
// than the target.
//
// # Acyclicity
//
// The edge relation is always acyclic. AddEdge tests reachability before
// inserting and rejects any edge that would close a cycle, so acyclicity is
// enforced on every mutation rather than discovered after the fact.
// Mutation errors are detected before any state changes: a failed AddEdge
// leaves the graph exactly as it was.
//
// # Ownership Model
//
// The graph is the sole owner of its vertices. Edges reference their target
// by course name (the identity key), never by pointer, so removal and
// rewiring cannot leave dangling references.
//
// # Thread Safety
//
// Graph is NOT safe for concurrent mutation. Traversals keep their visited
// state in per-call work sets, so any number of traversals may run
// concurrently as long as the graph is not being mutated.
package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph operations.
var (
	// ErrStructuralViolation is the class of every mutation rejected to
	// protect graph structure. Match with errors.Is.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrCycle is returned when an edge insertion would create a directed
	// cycle. The graph is left unchanged. Wraps ErrStructuralViolation.
	ErrCycle = fmt.Errorf("%w: edge would create a cycle", ErrStructuralViolation)

	// ErrRootTarget is returned when an edge insertion would make a root
	// (degree) course a dependency target. Root courses are top-level
	// entry points and can never be depended upon. Wraps
	// ErrStructuralViolation.
	ErrRootTarget = fmt.Errorf("%w: root course cannot be a dependency target", ErrStructuralViolation)

	// ErrVertexNotFound is returned by queries that require an existing
	// vertex (mutations treat missing vertices as no-ops instead).
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrUnknownCourse is returned by the bulk builder when a declared
	// prerequisite or corequisite name does not resolve to any course.
	ErrUnknownCourse = errors.New("unknown course reference")

	// ErrRootCorequisites is returned by the bulk builder when a root
	// course declares corequisites.
	ErrRootCorequisites = errors.New("root course must not declare corequisites")
)
