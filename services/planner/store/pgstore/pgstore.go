// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pgstore is a Postgres-backed catalog repository.
//
// The schema is relational: one row per course, one per requisite relation,
// one per weekly occurrence (keyed by course, term, and section index).
// SaveCatalog replaces the stored catalog atomically; LoadCatalog
// reassembles catalog values in the same shape they were saved.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS courses (
	name TEXT PRIMARY KEY,
	is_root BOOLEAN NOT NULL
);
CREATE TABLE IF NOT EXISTS relations (
	source TEXT NOT NULL REFERENCES courses(name) ON DELETE CASCADE,
	target TEXT NOT NULL REFERENCES courses(name) ON DELETE CASCADE,
	relation TEXT NOT NULL CHECK (relation IN ('prereq', 'coreq')),
	position INT NOT NULL,
	PRIMARY KEY (source, target, relation)
);
CREATE TABLE IF NOT EXISTS occurrences (
	course_name TEXT NOT NULL REFERENCES courses(name) ON DELETE CASCADE,
	term TEXT NOT NULL,
	section_index INT NOT NULL,
	day INT NOT NULL,
	start_minute INT NOT NULL,
	end_minute INT NOT NULL
);
CREATE INDEX IF NOT EXISTS occurrences_course_idx
	ON occurrences (course_name, term, section_index);
`

const (
	insertCourse     = `INSERT INTO courses (name, is_root) VALUES ($1, $2)`
	insertRelation   = `INSERT INTO relations (source, target, relation, position) VALUES ($1, $2, $3, $4)`
	insertOccurrence = `INSERT INTO occurrences (course_name, term, section_index, day, start_minute, end_minute) VALUES ($1, $2, $3, $4, $5, $6)`

	selectCourses     = `SELECT name, is_root FROM courses ORDER BY name`
	selectRelations   = `SELECT source, target, relation FROM relations ORDER BY source, relation, position`
	selectOccurrences = `SELECT course_name, term, section_index, day, start_minute, end_minute FROM occurrences ORDER BY course_name, term, section_index`
)

// Repository stores catalogs in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a repository on an existing connection pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens a connection pool from a connection string and returns a
// repository on it.
func Connect(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Close releases the underlying pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Migrate creates the catalog tables when they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

// SaveCatalog replaces the stored catalog with the given courses, in one
// transaction.
func (r *Repository) SaveCatalog(ctx context.Context, courses []catalog.Course) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save catalog: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	batch := pgx.Batch{}
	for _, c := range courses {
		batch.Queue(insertCourse, c.Name, c.IsRoot)
	}
	for _, c := range courses {
		for i, name := range c.Prerequisites {
			batch.Queue(insertRelation, c.Name, name, "prereq", i)
		}
		for i, name := range c.Corequisites {
			batch.Queue(insertRelation, c.Name, name, "coreq", i)
		}
		for _, o := range c.Offerings {
			for secIdx, sec := range o.Sections {
				for _, occ := range sec.Occurrences {
					batch.Queue(insertOccurrence,
						c.Name, o.Term.String(), secIdx,
						int(occ.Day), occ.StartMinute, occ.EndMinute)
				}
			}
		}
	}

	if err := tx.SendBatch(ctx, &batch).Close(); err != nil {
		return fmt.Errorf("insert catalog rows: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadCatalog reads the stored catalog back as catalog values.
func (r *Repository) LoadCatalog(ctx context.Context) ([]catalog.Course, error) {
	names, roots, err := r.loadCourses(ctx)
	if err != nil {
		return nil, err
	}
	prereqs, coreqs, err := r.loadRelations(ctx)
	if err != nil {
		return nil, err
	}
	offerings, err := r.loadOfferings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Course, 0, len(names))
	for _, name := range names {
		var c catalog.Course
		var err error
		if roots[name] {
			c, err = catalog.NewRootCourse(name, prereqs[name])
		} else {
			c, err = catalog.NewCourse(name, prereqs[name], coreqs[name], offerings[name])
		}
		if err != nil {
			return nil, fmt.Errorf("stored course %q: %w", name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) loadCourses(ctx context.Context) ([]string, map[string]bool, error) {
	rows, err := r.pool.Query(ctx, selectCourses)
	if err != nil {
		return nil, nil, fmt.Errorf("select courses: %w", err)
	}
	defer rows.Close()

	var names []string
	roots := make(map[string]bool)
	for rows.Next() {
		var name string
		var isRoot bool
		if err := rows.Scan(&name, &isRoot); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		roots[name] = isRoot
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return names, roots, nil
}

func (r *Repository) loadRelations(ctx context.Context) (prereqs, coreqs map[string][]string, err error) {
	rows, err := r.pool.Query(ctx, selectRelations)
	if err != nil {
		return nil, nil, fmt.Errorf("select relations: %w", err)
	}
	defer rows.Close()

	prereqs = make(map[string][]string)
	coreqs = make(map[string][]string)
	for rows.Next() {
		var source, target, relation string
		if err := rows.Scan(&source, &target, &relation); err != nil {
			return nil, nil, err
		}
		if relation == "coreq" {
			coreqs[source] = append(coreqs[source], target)
		} else {
			prereqs[source] = append(prereqs[source], target)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return prereqs, coreqs, nil
}

// occurrenceRow is one scanned occurrences row.
type occurrenceRow struct {
	course     string
	term       string
	sectionIdx int
	day        int
	start      int
	end        int
}

func (r *Repository) loadOfferings(ctx context.Context) (map[string][]catalog.TimetableOffering, error) {
	rows, err := r.pool.Query(ctx, selectOccurrences)
	if err != nil {
		return nil, fmt.Errorf("select occurrences: %w", err)
	}
	defer rows.Close()

	var scanned []occurrenceRow
	for rows.Next() {
		var row occurrenceRow
		if err := rows.Scan(&row.course, &row.term, &row.sectionIdx, &row.day, &row.start, &row.end); err != nil {
			return nil, err
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assembleOfferings(scanned)
}

// assembleOfferings groups ordered occurrence rows back into offerings:
// rows are grouped by (course, term) into offerings and by section index
// into sections.
func assembleOfferings(rows []occurrenceRow) (map[string][]catalog.TimetableOffering, error) {
	type groupKey struct {
		course string
		term   string
	}

	sections := make(map[groupKey]map[int][]catalog.WeeklyOccurrence)
	var order []groupKey
	for _, row := range rows {
		occ, err := catalog.NewWeeklyOccurrence(time.Weekday(row.day), row.start, row.end)
		if err != nil {
			return nil, fmt.Errorf("stored occurrence for %q: %w", row.course, err)
		}
		key := groupKey{course: row.course, term: row.term}
		if _, seen := sections[key]; !seen {
			sections[key] = make(map[int][]catalog.WeeklyOccurrence)
			order = append(order, key)
		}
		sections[key][row.sectionIdx] = append(sections[key][row.sectionIdx], occ)
	}

	out := make(map[string][]catalog.TimetableOffering)
	for _, key := range order {
		term, err := catalog.ParseTermType(key.term)
		if err != nil {
			return nil, fmt.Errorf("stored term for %q: %w", key.course, err)
		}
		group := sections[key]
		secs := make([]catalog.Section, 0, len(group))
		for idx := 0; idx < len(group); idx++ {
			occs, ok := group[idx]
			if !ok {
				return nil, fmt.Errorf("stored sections for %q term %s are not contiguous", key.course, key.term)
			}
			sec, err := catalog.NewSection(occs...)
			if err != nil {
				return nil, fmt.Errorf("stored section for %q: %w", key.course, err)
			}
			secs = append(secs, sec)
		}
		off, err := catalog.NewTimetableOffering(term, secs...)
		if err != nil {
			return nil, fmt.Errorf("stored offering for %q: %w", key.course, err)
		}
		out[key.course] = append(out[key.course], off)
	}
	return out, nil
}
