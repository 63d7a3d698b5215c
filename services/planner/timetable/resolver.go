// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package timetable decides whether a set of courses can coexist in one
// term without overlapping weekly occurrences.
//
// The resolver enumerates, per occupied slot, every way to pick exactly one
// section and keeps the combinations in which no two chosen sections share
// an overlapping same-weekday occurrence. Complexity is the product of the
// per-slot candidate counts; per-term candidate and section counts are
// small in practice, so explicit enumeration is acceptable. If input sizes
// ever grow, this is the component to optimize first (constraint
// propagation); correctness does not depend on it.
//
// # Thread Safety
//
// Resolver is NOT safe for concurrent use: it carries a single-entry memo
// scoped to one scheduling run. Create one Resolver per run.
package timetable

import (
	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

// Slot is one per-course entry of a term under consideration: the course
// plus its candidate offerings, already filtered to the term's term type.
type Slot struct {
	// Course is the occupying course.
	Course catalog.Course

	// Offerings are the candidate offerings for the slot.
	Offerings []catalog.TimetableOffering
}

// candidateSections flattens the slot's offerings into the list of
// selectable sections, preserving declaration order.
func (s Slot) candidateSections() []catalog.Section {
	var out []catalog.Section
	for _, o := range s.Offerings {
		out = append(out, o.Sections...)
	}
	return out
}

// Assignment binds one course to one chosen section.
type Assignment struct {
	Course  string
	Section catalog.Section
}

// Combination is a complete conflict-free assignment: exactly one section
// per occupied slot.
type Combination []Assignment

// Resolver answers feasibility queries for a single term.
type Resolver struct {
	memo memoCache
}

// NewResolver creates a resolver with an empty memo.
func NewResolver() *Resolver {
	return &Resolver{}
}

// FindFeasibleCombinations returns every way to pick exactly one section
// per slot such that no two chosen sections conflict.
//
// An empty slot list is trivially satisfiable and yields one empty
// combination. A slot with no candidate sections makes the term
// unsatisfiable and yields no combinations.
//
// Results for the most recent input fingerprint are memoized; a repeated
// call with identical slots returns the cached result without
// recomputation. Callers must not mutate the returned combinations.
func (r *Resolver) FindFeasibleCombinations(slots []Slot) []Combination {
	fp := fingerprintSlots(slots)
	if result, ok := r.memo.get(fp); ok {
		return result
	}

	candidates := make([][]catalog.Section, len(slots))
	for i, s := range slots {
		candidates[i] = s.candidateSections()
	}

	var (
		result  []Combination
		current = make(Combination, 0, len(slots))
	)
	var enumerate func(i int)
	enumerate = func(i int) {
		if i == len(slots) {
			combo := make(Combination, len(current))
			copy(combo, current)
			result = append(result, combo)
			return
		}
		for _, sec := range candidates[i] {
			if conflictsWithAny(sec, current) {
				continue
			}
			current = append(current, Assignment{Course: slots[i].Course.Name, Section: sec})
			enumerate(i + 1)
			current = current[:len(current)-1]
		}
	}
	enumerate(0)

	r.memo.put(fp, result)
	return result
}

// CanCourseJoinTerm reports whether course, with the given candidate
// offerings, can join a term already holding the given slots. On success it
// returns the first feasible combination for the hypothetical term (current
// contents plus the new course).
func (r *Resolver) CanCourseJoinTerm(course catalog.Course, offerings []catalog.TimetableOffering, current []Slot) (Combination, bool) {
	slots := make([]Slot, 0, len(current)+1)
	slots = append(slots, current...)
	slots = append(slots, Slot{Course: course, Offerings: offerings})

	combos := r.FindFeasibleCombinations(slots)
	if len(combos) == 0 {
		return nil, false
	}
	return combos[0], true
}

// conflictsWithAny reports whether sec collides with any already-chosen
// section.
func conflictsWithAny(sec catalog.Section, chosen Combination) bool {
	for _, a := range chosen {
		if sec.ConflictsWith(a.Section) {
			return true
		}
	}
	return false
}
