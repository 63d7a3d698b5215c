// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

func section(t *testing.T, day time.Weekday, start, end int) catalog.Section {
	t.Helper()
	occ, err := catalog.NewWeeklyOccurrence(day, start, end)
	require.NoError(t, err)
	sec, err := catalog.NewSection(occ)
	require.NoError(t, err)
	return sec
}

func offering(t *testing.T, term catalog.TermType, sections ...catalog.Section) catalog.TimetableOffering {
	t.Helper()
	off, err := catalog.NewTimetableOffering(term, sections...)
	require.NoError(t, err)
	return off
}

func course(t *testing.T, name string, offerings ...catalog.TimetableOffering) catalog.Course {
	t.Helper()
	c, err := catalog.NewCourse(name, nil, nil, offerings)
	require.NoError(t, err)
	return c
}

func slot(t *testing.T, name string, sections ...catalog.Section) Slot {
	t.Helper()
	off := offering(t, catalog.TermTypeFall, sections...)
	return Slot{Course: course(t, name, off), Offerings: []catalog.TimetableOffering{off}}
}

func TestFindFeasibleCombinations_EmptyInput(t *testing.T) {
	r := NewResolver()

	combos := r.FindFeasibleCombinations(nil)

	require.Len(t, combos, 1, "empty input is trivially satisfiable")
	assert.Empty(t, combos[0])
}

func TestFindFeasibleCombinations_SingleSlot(t *testing.T) {
	r := NewResolver()
	s := slot(t, "1010",
		section(t, time.Monday, 9*60, 10*60),
		section(t, time.Tuesday, 9*60, 10*60),
	)

	combos := r.FindFeasibleCombinations([]Slot{s})

	require.Len(t, combos, 2, "one combination per candidate section")
	for _, c := range combos {
		require.Len(t, c, 1)
		assert.Equal(t, "1010", c[0].Course)
	}
}

func TestFindFeasibleCombinations_FiltersOverlaps(t *testing.T) {
	r := NewResolver()
	mon9 := section(t, time.Monday, 9*60, 10*60)
	mon930 := section(t, time.Monday, 9*60+30, 10*60+30)
	tue9 := section(t, time.Tuesday, 9*60, 10*60)

	a := slot(t, "A", mon9)
	b := slot(t, "B", mon930, tue9)

	combos := r.FindFeasibleCombinations([]Slot{a, b})

	require.Len(t, combos, 1, "only the Tuesday section of B avoids A")
	require.Len(t, combos[0], 2)
	assert.Equal(t, tue9, combos[0][1].Section)
}

func TestFindFeasibleCombinations_NoFeasibleAssignment(t *testing.T) {
	r := NewResolver()
	mon9 := section(t, time.Monday, 9*60, 10*60)
	mon930 := section(t, time.Monday, 9*60+30, 10*60+30)

	combos := r.FindFeasibleCombinations([]Slot{slot(t, "A", mon9), slot(t, "B", mon930)})

	assert.Empty(t, combos)
}

func TestFindFeasibleCombinations_CartesianCount(t *testing.T) {
	r := NewResolver()
	// Three slots on pairwise disjoint days, two sections each: 2^3 combos.
	a := slot(t, "A", section(t, time.Monday, 9*60, 10*60), section(t, time.Monday, 11*60, 12*60))
	b := slot(t, "B", section(t, time.Tuesday, 9*60, 10*60), section(t, time.Tuesday, 11*60, 12*60))
	c := slot(t, "C", section(t, time.Wednesday, 9*60, 10*60), section(t, time.Wednesday, 11*60, 12*60))

	combos := r.FindFeasibleCombinations([]Slot{a, b, c})

	assert.Len(t, combos, 8)
}

func TestFindFeasibleCombinations_SlotWithoutSections(t *testing.T) {
	r := NewResolver()
	a := slot(t, "A", section(t, time.Monday, 9*60, 10*60))
	empty := Slot{Course: a.Course}

	combos := r.FindFeasibleCombinations([]Slot{a, empty})

	assert.Empty(t, combos, "a slot with no candidates makes the term unsatisfiable")
}

func TestResolver_MemoizesLastQuery(t *testing.T) {
	r := NewResolver()
	slots := []Slot{slot(t, "A", section(t, time.Monday, 9*60, 10*60))}

	first := r.FindFeasibleCombinations(slots)
	second := r.FindFeasibleCombinations(slots)

	require.Len(t, second, 1)
	// Single-entry memo: the identical query returns the cached slice.
	assert.Same(t, &first[0], &second[0], "repeated query should hit the memo")

	// A different query evicts the entry ...
	other := []Slot{slot(t, "B", section(t, time.Tuesday, 9*60, 10*60))}
	r.FindFeasibleCombinations(other)

	// ... so the original query is recomputed into a fresh slice.
	third := r.FindFeasibleCombinations(slots)
	require.Len(t, third, 1)
	assert.NotSame(t, &first[0], &third[0], "evicted query should be recomputed")
}

func TestFingerprintSlots_Deterministic(t *testing.T) {
	a := []Slot{slot(t, "A", section(t, time.Monday, 9*60, 10*60))}
	b := []Slot{slot(t, "A", section(t, time.Monday, 9*60, 10*60))}

	assert.Equal(t, fingerprintSlots(a), fingerprintSlots(b))

	c := []Slot{slot(t, "A", section(t, time.Monday, 9*60, 10*60+1))}
	assert.NotEqual(t, fingerprintSlots(a), fingerprintSlots(c))

	d := []Slot{slot(t, "B", section(t, time.Monday, 9*60, 10*60))}
	assert.NotEqual(t, fingerprintSlots(a), fingerprintSlots(d))
}

func TestCanCourseJoinTerm(t *testing.T) {
	r := NewResolver()
	mon9 := section(t, time.Monday, 9*60, 10*60)
	mon930 := section(t, time.Monday, 9*60+30, 10*60+30)
	tue9 := section(t, time.Tuesday, 9*60, 10*60)

	current := []Slot{slot(t, "A", mon9)}

	joiner := course(t, "B", offering(t, catalog.TermTypeFall, mon930, tue9))
	combo, ok := r.CanCourseJoinTerm(joiner, joiner.Offerings, current)
	require.True(t, ok)
	require.Len(t, combo, 2)
	assert.Equal(t, "B", combo[1].Course)
	assert.Equal(t, tue9, combo[1].Section)

	blocked := course(t, "C", offering(t, catalog.TermTypeFall, mon930))
	_, ok = r.CanCourseJoinTerm(blocked, blocked.Offerings, current)
	assert.False(t, ok)
}
