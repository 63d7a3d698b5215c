// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render produces human-readable views of schedules and requisite
// graphs: a markdown term table, a plain-text table, and a Graphviz DOT
// export of the dependency structure.
package render

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/schedule"
)

// ScheduleMarkdown renders a schedule as a markdown table, one row per
// placed course, ordered by term.
func ScheduleMarkdown(s *schedule.Schedule) string {
	var sb strings.Builder

	sb.WriteString("| Term | Type | Course | Meetings |\n")
	sb.WriteString("|------|------|--------|----------|\n")
	for i := 0; i < s.TermCount(); i++ {
		termType := s.TermTypeAt(i)
		for _, slot := range s.Slots(i) {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				i+1, termType, slot.Course.Name, meetings(slot)))
		}
	}
	return sb.String()
}

// ScheduleTable renders a schedule as an indented plain-text listing, one
// block per term.
func ScheduleTable(s *schedule.Schedule) string {
	var sb strings.Builder

	for i := 0; i < s.TermCount(); i++ {
		sb.WriteString(fmt.Sprintf("Term %d (%s)\n", i+1, s.TermTypeAt(i)))
		slots := s.Slots(i)
		if len(slots) == 0 {
			sb.WriteString("  (empty)\n")
			continue
		}
		for _, slot := range slots {
			sb.WriteString(fmt.Sprintf("  %-12s %s\n", slot.Course.Name, meetings(slot)))
		}
	}
	return sb.String()
}

// meetings joins a slot's occurrences as "Monday 09:00-09:50, ...".
func meetings(slot schedule.Slot) string {
	parts := make([]string, 0, len(slot.Section.Occurrences))
	for _, o := range slot.Section.Occurrences {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, ", ")
}

// GraphDOT exports the requisite graph in Graphviz DOT format. Degree roots
// render as filled boxes, prerequisite edges solid, corequisite edges
// dashed.
func GraphDOT(g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("digraph Requisites {\n")
	sb.WriteString("    rankdir=BT;\n")
	sb.WriteString("    node [shape=box];\n")
	sb.WriteString("\n")

	roots, ordinary := g.Partition()
	for _, c := range roots {
		sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", style=filled, fillcolor=\"#dbeafe\"];\n",
			dotID(c.Name), escapeDOTLabel(c.Name)))
	}
	for _, c := range ordinary {
		sb.WriteString(fmt.Sprintf("    %s [label=\"%s\"];\n",
			dotID(c.Name), escapeDOTLabel(c.Name)))
	}

	sb.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := ""
		if e.Relation == graph.RelationCoreq {
			attrs = " [style=dashed]"
		}
		sb.WriteString(fmt.Sprintf("    %s -> %s%s;\n", dotID(e.From), dotID(e.To), attrs))
	}
	sb.WriteString("}\n")

	return sb.String()
}

// dotID converts a course name into a safe DOT node identifier.
func dotID(s string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// escapeDOTLabel escapes quotes and backslashes in a DOT label.
func escapeDOTLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
