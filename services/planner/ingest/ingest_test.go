// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

const sampleCatalog = `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "09:00"
                end: "09:50"
      - term: winter
        sections:
          - meetings:
              - day: tuesday
                start: "10:00"
                end: "10:50"
  - name: "1020"
    prerequisites: ["1010"]
    offerings:
      - term: winter
        sections:
          - meetings:
              - day: wednesday
                start: "13:00"
                end: "13:50"
              - day: friday
                start: "13:00"
                end: "13:50"
degrees:
  - name: cs-minor
    requirements: ["1020"]
`

func TestParse_SampleCatalog(t *testing.T) {
	courses, err := Parse(context.Background(), []byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, courses, 3)

	byName := make(map[string]catalog.Course, len(courses))
	for _, c := range courses {
		byName[c.Name] = c
	}

	c1010 := byName["1010"]
	assert.False(t, c1010.IsRoot)
	assert.True(t, c1010.OfferedIn(catalog.TermTypeFall))
	assert.True(t, c1010.OfferedIn(catalog.TermTypeWinter))

	fall := c1010.OfferingsFor(catalog.TermTypeFall)
	require.Len(t, fall, 1)
	require.Len(t, fall[0].Sections, 1)
	occ := fall[0].Sections[0].Occurrences[0]
	assert.Equal(t, time.Monday, occ.Day)
	assert.Equal(t, 9*60, occ.StartMinute)
	assert.Equal(t, 9*60+50, occ.EndMinute)

	c1020 := byName["1020"]
	assert.Equal(t, []string{"1010"}, c1020.Prerequisites)
	winter := c1020.OfferingsFor(catalog.TermTypeWinter)
	require.Len(t, winter, 1)
	assert.Len(t, winter[0].Sections[0].Occurrences, 2)

	degree := byName["cs-minor"]
	assert.True(t, degree.IsRoot)
	assert.Equal(t, []string{"1020"}, degree.Prerequisites)
	assert.Empty(t, degree.Offerings)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	doc := `
courses:
  - name: "1010"
    credits: 3
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "09:00"
                end: "09:50"
`
	_, err := Parse(context.Background(), []byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParse_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"empty document", `{}`},
		{"course without offerings", `
courses:
  - name: "1010"
    offerings: []
`},
		{"unknown term type", `
courses:
  - name: "1010"
    offerings:
      - term: summer
        sections:
          - meetings:
              - day: monday
                start: "09:00"
                end: "09:50"
`},
		{"degree without requirements", `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "09:00"
                end: "09:50"
degrees:
  - name: degree
    requirements: []
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestParse_DuplicateNames(t *testing.T) {
	doc := `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "09:00"
                end: "09:50"
  - name: "1010"
    offerings:
      - term: winter
        sections:
          - meetings:
              - day: tuesday
                start: "09:00"
                end: "09:50"
`
	_, err := Parse(context.Background(), []byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParse_BadClockAndWeekday(t *testing.T) {
	badClock := `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "9 am"
                end: "09:50"
`
	_, err := Parse(context.Background(), []byte(badClock))
	assert.ErrorIs(t, err, ErrBadClock)

	badDay := `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: moonday
                start: "09:00"
                end: "09:50"
`
	_, err = Parse(context.Background(), []byte(badDay))
	assert.ErrorIs(t, err, ErrBadWeekday)
}

func TestParse_OutsideDailyWindow(t *testing.T) {
	doc := `
courses:
  - name: "1010"
    offerings:
      - term: fall
        sections:
          - meetings:
              - day: monday
                start: "06:00"
                end: "06:50"
`
	_, err := Parse(context.Background(), []byte(doc))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	courses, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 8 * 60, false},
		{"21:59", 21*60 + 59, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"9:xx", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDocumentFrom_RoundTrip(t *testing.T) {
	original, err := Parse(context.Background(), []byte(sampleCatalog))
	require.NoError(t, err)

	doc := DocumentFrom(original)
	require.Len(t, doc.Courses, 2)
	require.Len(t, doc.Degrees, 1)

	meeting := doc.Courses[0].Offerings[0].Sections[0].Meetings[0]
	assert.Equal(t, "monday", meeting.Day)
	assert.Equal(t, "09:00", meeting.Start)
	assert.Equal(t, "09:50", meeting.End)

	// Converting the rendered document reproduces the original courses.
	converted, err := Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, original, converted)
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{8 * 60, "08:00"},
		{9*60 + 5, "09:05"},
		{21*60 + 59, "21:59"},
		{0, "00:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatClock(tc.in), tc.in)
	}
}
