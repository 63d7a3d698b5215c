// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ingest loads course catalogs from YAML documents.
//
// A document declares schedulable courses (with requisites and per-term
// offerings) and degree roots (with their requirement lists). Loading
// validates the document structurally, converts clock times and weekday
// names, and returns catalog values ready for graph.Build. Name resolution
// across courses is graph.Build's job, not the loader's.
//
// The same document types carry json tags so the HTTP API can bind request
// bodies to them directly.
//
// Thread Safety:
//
//	All exported functions are safe for concurrent use.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

const (
	// MaxCatalogFileSize is the maximum allowed catalog file size (1MB).
	MaxCatalogFileSize = 1024 * 1024

	// MaxCoursesPerCatalog bounds the number of declared courses.
	MaxCoursesPerCatalog = 5000
)

var validate = validator.New()

// Document is the root of a catalog file.
type Document struct {
	Courses []CourseDoc `yaml:"courses" json:"courses" validate:"required,min=1,max=5000,dive"`
	Degrees []DegreeDoc `yaml:"degrees,omitempty" json:"degrees,omitempty" validate:"dive"`
}

// CourseDoc declares one schedulable course.
type CourseDoc struct {
	Name          string        `yaml:"name" json:"name" validate:"required"`
	Prerequisites []string      `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty" validate:"dive,required"`
	Corequisites  []string      `yaml:"corequisites,omitempty" json:"corequisites,omitempty" validate:"dive,required"`
	Offerings     []OfferingDoc `yaml:"offerings" json:"offerings" validate:"required,min=1,dive"`
}

// OfferingDoc declares the sections a course offers in one term type.
type OfferingDoc struct {
	Term     string       `yaml:"term" json:"term" validate:"required,oneof=fall winter"`
	Sections []SectionDoc `yaml:"sections" json:"sections" validate:"required,min=1,dive"`
}

// SectionDoc declares one selectable weekly pattern.
type SectionDoc struct {
	Meetings []MeetingDoc `yaml:"meetings" json:"meetings" validate:"required,min=1,dive"`
}

// MeetingDoc declares one weekly meeting as weekday plus HH:MM clock times.
type MeetingDoc struct {
	Day   string `yaml:"day" json:"day" validate:"required"`
	Start string `yaml:"start" json:"start" validate:"required"`
	End   string `yaml:"end" json:"end" validate:"required"`
}

// DegreeDoc declares one degree root and its requirements.
type DegreeDoc struct {
	Name         string   `yaml:"name" json:"name" validate:"required"`
	Requirements []string `yaml:"requirements" json:"requirements" validate:"required,min=1,dive,required"`
}

// LoadFile reads, parses, and converts a catalog file.
//
// The path is resolved to an absolute path and the file is rejected when it
// exceeds MaxCatalogFileSize, before any of it is read.
func LoadFile(ctx context.Context, path string) ([]catalog.Course, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	if info.Size() > MaxCatalogFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxCatalogFileSize)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	courses, err := Parse(ctx, data)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog file loaded", "path", absPath, "courses", len(courses))
	return courses, nil
}

// Decode parses YAML data into a Document. Unknown fields are rejected;
// structural validation happens in Convert.
func Decode(data []byte) (Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Parse decodes a YAML catalog document and converts it to catalog courses.
func Parse(ctx context.Context, data []byte) ([]catalog.Course, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Convert(ctx, doc)
}

// Convert validates a decoded document and produces catalog courses: one
// per course declaration, plus one root per degree declaration.
func Convert(ctx context.Context, doc Document) ([]catalog.Course, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(doc.Courses) > MaxCoursesPerCatalog {
		return nil, fmt.Errorf("%w: %d courses (max %d)", ErrInvalidDocument, len(doc.Courses), MaxCoursesPerCatalog)
	}

	out := make([]catalog.Course, 0, len(doc.Courses)+len(doc.Degrees))
	seen := make(map[string]struct{}, len(doc.Courses)+len(doc.Degrees))

	for _, cd := range doc.Courses {
		if _, dup := seen[cd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate course %q", ErrInvalidDocument, cd.Name)
		}
		seen[cd.Name] = struct{}{}

		offerings, err := convertOfferings(cd)
		if err != nil {
			return nil, err
		}
		c, err := catalog.NewCourse(cd.Name, cd.Prerequisites, cd.Corequisites, offerings)
		if err != nil {
			return nil, fmt.Errorf("%w: course %q: %v", ErrInvalidDocument, cd.Name, err)
		}
		out = append(out, c)
	}

	for _, dd := range doc.Degrees {
		if _, dup := seen[dd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate course %q", ErrInvalidDocument, dd.Name)
		}
		seen[dd.Name] = struct{}{}

		r, err := catalog.NewRootCourse(dd.Name, dd.Requirements)
		if err != nil {
			return nil, fmt.Errorf("%w: degree %q: %v", ErrInvalidDocument, dd.Name, err)
		}
		out = append(out, r)
	}

	slog.Debug("catalog document converted",
		"courses", len(doc.Courses),
		"degrees", len(doc.Degrees),
	)
	return out, nil
}

// DocumentFrom renders catalog courses back into a document, the inverse
// of Convert. Catalogs loaded from a store round-trip through it for
// display and export.
func DocumentFrom(courses []catalog.Course) Document {
	var doc Document
	for _, c := range courses {
		if c.IsRoot {
			doc.Degrees = append(doc.Degrees, DegreeDoc{
				Name:         c.Name,
				Requirements: c.Prerequisites,
			})
			continue
		}
		cd := CourseDoc{
			Name:          c.Name,
			Prerequisites: c.Prerequisites,
			Corequisites:  c.Corequisites,
		}
		for _, o := range c.Offerings {
			od := OfferingDoc{Term: o.Term.String()}
			for _, sec := range o.Sections {
				var sd SectionDoc
				for _, occ := range sec.Occurrences {
					sd.Meetings = append(sd.Meetings, MeetingDoc{
						Day:   strings.ToLower(occ.Day.String()),
						Start: formatClock(occ.StartMinute),
						End:   formatClock(occ.EndMinute),
					})
				}
				od.Sections = append(od.Sections, sd)
			}
			cd.Offerings = append(cd.Offerings, od)
		}
		doc.Courses = append(doc.Courses, cd)
	}
	return doc
}

func convertOfferings(cd CourseDoc) ([]catalog.TimetableOffering, error) {
	offerings := make([]catalog.TimetableOffering, 0, len(cd.Offerings))
	for _, od := range cd.Offerings {
		term, err := catalog.ParseTermType(od.Term)
		if err != nil {
			return nil, fmt.Errorf("%w: course %q: %v", ErrInvalidDocument, cd.Name, err)
		}
		sections := make([]catalog.Section, 0, len(od.Sections))
		for _, sd := range od.Sections {
			occs := make([]catalog.WeeklyOccurrence, 0, len(sd.Meetings))
			for _, md := range sd.Meetings {
				o, err := convertMeeting(md)
				if err != nil {
					return nil, fmt.Errorf("course %q: %w", cd.Name, err)
				}
				occs = append(occs, o)
			}
			sec, err := catalog.NewSection(occs...)
			if err != nil {
				return nil, fmt.Errorf("%w: course %q: %v", ErrInvalidDocument, cd.Name, err)
			}
			sections = append(sections, sec)
		}
		off, err := catalog.NewTimetableOffering(term, sections...)
		if err != nil {
			return nil, fmt.Errorf("%w: course %q: %v", ErrInvalidDocument, cd.Name, err)
		}
		offerings = append(offerings, off)
	}
	return offerings, nil
}

func convertMeeting(md MeetingDoc) (catalog.WeeklyOccurrence, error) {
	day, err := parseWeekday(md.Day)
	if err != nil {
		return catalog.WeeklyOccurrence{}, err
	}
	start, err := parseClock(md.Start)
	if err != nil {
		return catalog.WeeklyOccurrence{}, err
	}
	end, err := parseClock(md.End)
	if err != nil {
		return catalog.WeeklyOccurrence{}, err
	}
	return catalog.NewWeeklyOccurrence(day, start, end)
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// parseClock converts an "HH:MM" value to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseWeekday converts a case-insensitive weekday name.
func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	case "sunday":
		return time.Sunday, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadWeekday, s)
}
