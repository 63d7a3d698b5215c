// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog provides the validated value types of the course catalog.
//
// The catalog package contains Course, TimetableOffering, Section and
// WeeklyOccurrence. All types are validated at construction and treated as
// immutable afterwards: nothing in this module mutates a catalog value once
// its constructor has returned.
//
// # Ownership Model
//
// Catalog values are plain values. Slices inside them (offerings, sections,
// occurrences) are owned by the value and MUST NOT be mutated by callers
// after construction.
//
// # Thread Safety
//
// Because catalog values are immutable after construction, they are safe to
// read from multiple goroutines.
package catalog

import "errors"

// Sentinel errors for catalog construction. All of these belong to the
// data-validity class: a value that fails construction is never partially
// built.
var (
	// ErrEmptyName is returned when a course is constructed without a name.
	// The name is the identity key of a course.
	ErrEmptyName = errors.New("course name must not be empty")

	// ErrNoOfferings is returned when a non-root course is constructed
	// without at least one timetable offering.
	ErrNoOfferings = errors.New("non-root course requires at least one offering")

	// ErrNoSections is returned when an offering is constructed without at
	// least one section.
	ErrNoSections = errors.New("offering requires at least one section")

	// ErrNoOccurrences is returned when a section is constructed without at
	// least one weekly occurrence.
	ErrNoOccurrences = errors.New("section requires at least one occurrence")

	// ErrInvalidTimeRange is returned when an occurrence does not satisfy
	// start < end.
	ErrInvalidTimeRange = errors.New("occurrence start must be before end")

	// ErrOutsideDailyWindow is returned when an occurrence falls outside
	// the allowed instructional window of a day.
	ErrOutsideDailyWindow = errors.New("occurrence outside allowed daily window")

	// ErrNonInstructionalDay is returned when an occurrence is placed on
	// the designated non-instructional weekday.
	ErrNonInstructionalDay = errors.New("occurrence on non-instructional day")

	// ErrUnknownTermType is returned when parsing an unrecognized term type.
	ErrUnknownTermType = errors.New("unknown term type")
)
