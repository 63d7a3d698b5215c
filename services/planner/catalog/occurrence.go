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

import (
	"fmt"
	"time"
)

// Instructional-day constraints. Every occurrence must fit inside the
// allowed daily window and avoid the non-instructional weekday. These are
// enforced at construction time and are permanent thereafter.
const (
	// DayStartMinute is the earliest allowed start of an occurrence,
	// in minutes since midnight (08:00).
	DayStartMinute = 8 * 60

	// DayEndMinute is the latest allowed end of an occurrence,
	// in minutes since midnight (22:00).
	DayEndMinute = 22 * 60

	// NonInstructionalDay is the weekday on which no occurrence may fall.
	NonInstructionalDay = time.Sunday
)

// WeeklyOccurrence is a single recurring weekly meeting: a weekday plus a
// half-open [Start, End) minute interval within that day.
type WeeklyOccurrence struct {
	// Day is the weekday of the meeting.
	Day time.Weekday

	// StartMinute is the start of the meeting in minutes since midnight.
	StartMinute int

	// EndMinute is the end of the meeting in minutes since midnight.
	// The interval is half-open: a meeting ending at minute m does not
	// overlap one starting at minute m.
	EndMinute int
}

// NewWeeklyOccurrence validates and constructs a WeeklyOccurrence.
//
// Validation rules:
//   - StartMinute < EndMinute
//   - the window lies within [DayStartMinute, DayEndMinute]
//   - Day is not NonInstructionalDay
func NewWeeklyOccurrence(day time.Weekday, startMinute, endMinute int) (WeeklyOccurrence, error) {
	if startMinute >= endMinute {
		return WeeklyOccurrence{}, fmt.Errorf("%w: start=%d end=%d", ErrInvalidTimeRange, startMinute, endMinute)
	}
	if startMinute < DayStartMinute || endMinute > DayEndMinute {
		return WeeklyOccurrence{}, fmt.Errorf("%w: [%s, %s)", ErrOutsideDailyWindow,
			formatMinute(startMinute), formatMinute(endMinute))
	}
	if day == NonInstructionalDay {
		return WeeklyOccurrence{}, fmt.Errorf("%w: %s", ErrNonInstructionalDay, day)
	}
	return WeeklyOccurrence{Day: day, StartMinute: startMinute, EndMinute: endMinute}, nil
}

// Overlaps reports whether two occurrences collide: same weekday and
// intersecting half-open intervals (start1 < end2 && start2 < end1).
func (o WeeklyOccurrence) Overlaps(other WeeklyOccurrence) bool {
	if o.Day != other.Day {
		return false
	}
	return o.StartMinute < other.EndMinute && other.StartMinute < o.EndMinute
}

// String renders the occurrence as "Monday 09:00-10:30".
func (o WeeklyOccurrence) String() string {
	return fmt.Sprintf("%s %s-%s", o.Day, formatMinute(o.StartMinute), formatMinute(o.EndMinute))
}

// formatMinute renders minutes since midnight as HH:MM.
func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Section is one concrete scheduling alternative of an offering: a set of
// weekly occurrences that must all be satisfied together. A section models
// a recurring multi-day meeting pattern (e.g. Mon+Wed 09:00-10:30).
type Section struct {
	// Occurrences are the weekly meetings of the section. Never empty.
	Occurrences []WeeklyOccurrence
}

// NewSection validates and constructs a Section from one or more
// occurrences. The occurrence slice is copied.
func NewSection(occurrences ...WeeklyOccurrence) (Section, error) {
	if len(occurrences) == 0 {
		return Section{}, ErrNoOccurrences
	}
	owned := make([]WeeklyOccurrence, len(occurrences))
	copy(owned, occurrences)
	return Section{Occurrences: owned}, nil
}

// ConflictsWith reports whether any occurrence of s overlaps any occurrence
// of other.
func (s Section) ConflictsWith(other Section) bool {
	for _, a := range s.Occurrences {
		for _, b := range other.Occurrences {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}
