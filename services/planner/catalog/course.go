// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import "fmt"

// TimetableOffering is the set of alternative weekly section patterns a
// course provides within a specific term type.
type TimetableOffering struct {
	// Term is the term type the offering belongs to.
	Term TermType

	// Sections are the mutually exclusive scheduling alternatives of the
	// offering, in declaration order. Never empty.
	Sections []Section
}

// NewTimetableOffering validates and constructs a TimetableOffering.
// The section slice is copied.
func NewTimetableOffering(term TermType, sections ...Section) (TimetableOffering, error) {
	if !term.Valid() {
		return TimetableOffering{}, fmt.Errorf("%w: %d", ErrUnknownTermType, term)
	}
	if len(sections) == 0 {
		return TimetableOffering{}, ErrNoSections
	}
	owned := make([]Section, len(sections))
	copy(owned, sections)
	return TimetableOffering{Term: term, Sections: owned}, nil
}

// Course is an immutable catalog entry. Its Name is the identity key used
// throughout the planner: two courses are the same course iff their names
// are equal.
//
// A course with IsRoot set is a non-schedulable placeholder representing a
// degree or program. Root courses carry prerequisites (the program's
// requirements) but no corequisites and no offerings, and may never be the
// target of a dependency edge.
type Course struct {
	// Name uniquely identifies the course.
	Name string

	// IsRoot marks a non-schedulable degree/program placeholder.
	IsRoot bool

	// Prerequisites are names of courses that must be scheduled strictly
	// earlier, in declaration order.
	Prerequisites []string

	// Corequisites are names of courses that must be scheduled no later
	// than this course, in declaration order. Always empty for roots.
	Corequisites []string

	// Offerings lists the timetable offerings of the course. Empty iff
	// IsRoot is set.
	Offerings []TimetableOffering
}

// NewCourse validates and constructs a schedulable (non-root) course.
// All slices are copied.
func NewCourse(name string, prerequisites, corequisites []string, offerings []TimetableOffering) (Course, error) {
	if name == "" {
		return Course{}, ErrEmptyName
	}
	if len(offerings) == 0 {
		return Course{}, fmt.Errorf("%w: %q", ErrNoOfferings, name)
	}
	return Course{
		Name:          name,
		Prerequisites: cloneStrings(prerequisites),
		Corequisites:  cloneStrings(corequisites),
		Offerings:     cloneOfferings(offerings),
	}, nil
}

// NewRootCourse validates and constructs a root (degree) course. Only
// prerequisites are accepted: the requirements of the program.
func NewRootCourse(name string, prerequisites []string) (Course, error) {
	if name == "" {
		return Course{}, ErrEmptyName
	}
	return Course{
		Name:          name,
		IsRoot:        true,
		Prerequisites: cloneStrings(prerequisites),
	}, nil
}

// OfferingsFor returns the offerings of the course whose term type matches
// term, preserving declaration order. The result shares the course's
// offering values (which are immutable).
func (c Course) OfferingsFor(term TermType) []TimetableOffering {
	var out []TimetableOffering
	for _, o := range c.Offerings {
		if o.Term == term {
			out = append(out, o)
		}
	}
	return out
}

// OfferedIn reports whether the course has at least one offering of the
// given term type.
func (c Course) OfferedIn(term TermType) bool {
	for _, o := range c.Offerings {
		if o.Term == term {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneOfferings(in []TimetableOffering) []TimetableOffering {
	if len(in) == 0 {
		return nil
	}
	out := make([]TimetableOffering, len(in))
	copy(out, in)
	return out
}
