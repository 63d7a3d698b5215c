// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schedule stores the result of a scheduling run: a growable list
// of fixed-capacity terms, each slot holding a placed course and its chosen
// section, plus a course-to-term index.
//
// A Schedule is built once by the scheduler and read-only afterwards; it
// does not support moving a course once placed.
package schedule

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

// Sentinel errors for schedule mutations.
var (
	// ErrInvalidCapacity is returned when a schedule is constructed with a
	// non-positive term capacity.
	ErrInvalidCapacity = errors.New("term capacity must be positive")

	// ErrTermFull is returned when a placement would exceed a term's
	// capacity.
	ErrTermFull = errors.New("term is at capacity")

	// ErrAlreadyPlaced is returned when a course is placed a second time.
	// A course name never appears in more than one term.
	ErrAlreadyPlaced = errors.New("course already placed")

	// ErrRootNotSchedulable is returned when a root (degree) course is
	// placed into a term.
	ErrRootNotSchedulable = errors.New("root course is not schedulable")

	// ErrSlotNotFound is returned by SetSection when the course does not
	// occupy the given term.
	ErrSlotNotFound = errors.New("course does not occupy the term")
)

// Slot holds one placed course together with its chosen section.
type Slot struct {
	Course  catalog.Course
	Section catalog.Section
}

// term is one fixed-capacity term of the schedule.
type term struct {
	slots []Slot
}

// Schedule is an ordered sequence of terms. Index 0 is the first term and
// carries the configured starting term type; term types cycle from there.
type Schedule struct {
	capacity  int
	startTerm catalog.TermType
	terms     []*term
	byCourse  map[string]int
}

// New creates an empty schedule with the given per-term slot capacity and
// the term type of index 0.
func New(capacity int, startTerm catalog.TermType) (*Schedule, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Schedule{
		capacity:  capacity,
		startTerm: startTerm,
		byCourse:  make(map[string]int),
	}, nil
}

// Capacity returns the per-term slot capacity.
func (s *Schedule) Capacity() int {
	return s.capacity
}

// TermCount returns the number of materialized terms: the highest placed
// term index plus one. Intermediate terms a placement skipped over count
// even when they hold no course.
func (s *Schedule) TermCount() int {
	return len(s.terms)
}

// TermTypeAt returns the term type of term index i. Indices beyond the
// currently materialized terms are valid: the cycle extends indefinitely.
func (s *Schedule) TermTypeAt(i int) catalog.TermType {
	return catalog.TermTypeForIndex(s.startTerm, i)
}

// IsTermFull reports whether term i has reached capacity. Terms that do not
// exist yet are empty, hence not full.
func (s *Schedule) IsTermFull(i int) bool {
	if i < 0 || i >= len(s.terms) {
		return false
	}
	return len(s.terms[i].slots) >= s.capacity
}

// Slots returns a copy of the occupied slots of term i, in placement order.
// Out-of-range indices return nil.
func (s *Schedule) Slots(i int) []Slot {
	if i < 0 || i >= len(s.terms) {
		return nil
	}
	out := make([]Slot, len(s.terms[i].slots))
	copy(out, s.terms[i].slots)
	return out
}

// TermForCourse returns the term index holding the named course. The
// second return is false when the course is unscheduled.
func (s *Schedule) TermForCourse(name string) (int, bool) {
	i, ok := s.byCourse[name]
	return i, ok
}

// PlacedCount returns the total number of placed courses.
func (s *Schedule) PlacedCount() int {
	return len(s.byCourse)
}

// Place commits course with its chosen section into term i, materializing
// intermediate empty terms as needed. It fails when the course is a root,
// is already placed, or the term is at capacity. Placement is permanent.
func (s *Schedule) Place(i int, course catalog.Course, section catalog.Section) error {
	if i < 0 {
		return fmt.Errorf("schedule: negative term index %d", i)
	}
	if course.IsRoot {
		return fmt.Errorf("%w: %s", ErrRootNotSchedulable, course.Name)
	}
	if prev, ok := s.byCourse[course.Name]; ok {
		return fmt.Errorf("%w: %s in term %d", ErrAlreadyPlaced, course.Name, prev)
	}
	for len(s.terms) <= i {
		s.terms = append(s.terms, &term{})
	}
	if len(s.terms[i].slots) >= s.capacity {
		return fmt.Errorf("%w: term %d", ErrTermFull, i)
	}
	s.terms[i].slots = append(s.terms[i].slots, Slot{Course: course, Section: section})
	s.byCourse[course.Name] = i
	return nil
}

// SetSection replaces the chosen section of a course already occupying
// term i. The term resolver may re-pick sections of earlier placements
// when a new course joins a term; the course's term never changes.
func (s *Schedule) SetSection(i int, courseName string, section catalog.Section) error {
	if i < 0 || i >= len(s.terms) {
		return fmt.Errorf("%w: %s in term %d", ErrSlotNotFound, courseName, i)
	}
	for j := range s.terms[i].slots {
		if s.terms[i].slots[j].Course.Name == courseName {
			s.terms[i].slots[j].Section = section
			return nil
		}
	}
	return fmt.Errorf("%w: %s in term %d", ErrSlotNotFound, courseName, i)
}
