// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/ingest"
	"github.com/AleutianAI/courseplan/services/planner/render"
	"github.com/AleutianAI/courseplan/services/planner/schedule"
	"github.com/AleutianAI/courseplan/services/planner/scheduler"
)

// planJSON is the JSON output shape of the plan command.
type planJSON struct {
	Degree string         `json:"degree"`
	Terms  []planJSONTerm `json:"terms"`
}

type planJSONTerm struct {
	Index   int              `json:"index"`
	Type    string           `json:"type"`
	Courses []planJSONCourse `json:"courses"`
}

type planJSONCourse struct {
	Name     string   `json:"name"`
	Meetings []string `json:"meetings"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	courses, err := ingest.LoadFile(ctx, catalogFile)
	if err != nil {
		return err
	}

	g, err := graph.Build(ctx, courses)
	if err != nil {
		return err
	}

	start, err := catalog.ParseTermType(startTerm)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(g, scheduler.WithStartTerm(start)).
		BuildSchedule(ctx, termCapacity, targetCourses, degreeName)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "table":
		fmt.Fprint(cmd.OutOrStdout(), render.ScheduleTable(sched))
	case "markdown":
		fmt.Fprint(cmd.OutOrStdout(), render.ScheduleMarkdown(sched))
	case "json":
		data, err := json.MarshalIndent(planAsJSON(degreeName, sched), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unknown output format %q (want table, markdown, or json)", outputFormat)
	}
	return nil
}

func planAsJSON(degree string, sched *schedule.Schedule) planJSON {
	out := planJSON{Degree: degree}
	for i := 0; i < sched.TermCount(); i++ {
		term := planJSONTerm{Index: i, Type: sched.TermTypeAt(i).String()}
		for _, slot := range sched.Slots(i) {
			course := planJSONCourse{Name: slot.Course.Name}
			for _, o := range slot.Section.Occurrences {
				course.Meetings = append(course.Meetings, o.String())
			}
			term.Courses = append(term.Courses, course)
		}
		out.Terms = append(out.Terms, term)
	}
	return out
}
