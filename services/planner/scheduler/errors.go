// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scheduler realizes a feasible program of study: it walks the
// requisite graph longest-chain-first and greedily commits each course to
// the earliest term that honors precedence, capacity and timetable
// feasibility.
package scheduler

import "errors"

// Error taxonomy of a scheduling run.
var (
	// ErrConfiguration covers inputs rejected before any work begins:
	// non-positive term capacity, a target credit count exceeding the
	// available course pool, or a missing/invalid degree course. Always
	// fatal to the call.
	ErrConfiguration = errors.New("configuration error")

	// ErrPlacement means no legal term exists for a course. Fatal inside
	// a required chain; recoverable (chain abandoned) during the filler
	// phase. Also raised when the finished schedule falls short of the
	// target credit count: the instance is unsatisfiable as given.
	ErrPlacement = errors.New("placement failure")

	// ErrInternal marks states the algorithm proves cannot occur under
	// correct operation, e.g. a dependency left unscheduled after its
	// chain walk. Always fatal; signals a logic defect, never a normal
	// user-facing outcome.
	ErrInternal = errors.New("internal invariant violation")
)

// PlacementError carries the course and phase of a failed placement.
type PlacementError struct {
	// Course is the course that found no legal term.
	Course string

	// Phase is "required" or "filler".
	Phase string

	// Err is the underlying cause, wrapping ErrPlacement or ErrInternal.
	Err error
}

func (e *PlacementError) Error() string {
	return "scheduler: placing " + e.Course + " (" + e.Phase + " phase): " + e.Err.Error()
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}
