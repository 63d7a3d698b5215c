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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	catalogFile   string
	degreeName    string
	termCapacity  int
	targetCourses int
	startTerm     string
	outputFormat  string
	storePath     string
	postgresConn  string
	listenAddr    string

	rootCmd = &cobra.Command{
		Use:   "courseplan",
		Short: "A cli to plan programs of study over course catalogs",
		Long: `Courseplan builds multi-term programs of study: it loads a course
catalog, validates the prerequisite structure, and assigns courses to
terms without timetable conflicts.`,
	}

	// --- Planning ---
	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Build a program of study from a catalog file",
		RunE:  runPlan, // Defined in cmd_plan.go
	}

	// --- Graph Inspection ---
	graphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Inspect the requisite graph of a catalog",
	}
	graphDotCmd = &cobra.Command{
		Use:   "dot",
		Short: "Export the requisite graph in Graphviz DOT format",
		RunE:  runGraphDot, // Defined in cmd_graph.go
	}
	graphCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate catalog structure (references, roots, cycles)",
		RunE:  runGraphCheck, // Defined in cmd_graph.go
	}

	// --- Catalog Store ---
	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Manage catalogs in the local store",
	}
	catalogPushCmd = &cobra.Command{
		Use:   "push [name]",
		Short: "Store a catalog file under a name",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogPush, // Defined in cmd_catalog.go
	}
	catalogPullCmd = &cobra.Command{
		Use:   "pull [name]",
		Short: "Print a stored catalog as YAML (no name with --postgres)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCatalogPull, // Defined in cmd_catalog.go
	}
	catalogListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored catalog names",
		RunE:  runCatalogList, // Defined in cmd_catalog.go
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the planner HTTP service",
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Path to the catalog YAML file")
	planCmd.Flags().StringVar(&degreeName, "degree", "", "Degree root whose requirements drive the plan")
	planCmd.Flags().IntVar(&termCapacity, "capacity", 5, "Maximum courses per term")
	planCmd.Flags().IntVar(&targetCourses, "target", 0, "Total number of courses the plan must contain")
	planCmd.Flags().StringVar(&startTerm, "start-term", "fall", "Term type of the first term (fall, winter)")
	planCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table, markdown, or json")
	_ = planCmd.MarkFlagRequired("file")
	_ = planCmd.MarkFlagRequired("degree")

	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphDotCmd)
	graphCmd.AddCommand(graphCheckCmd)
	graphCmd.PersistentFlags().StringVarP(&catalogFile, "file", "f", "", "Path to the catalog YAML file")
	_ = graphCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogPushCmd)
	catalogCmd.AddCommand(catalogPullCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.PersistentFlags().StringVar(&storePath, "store", defaultStorePath(), "Directory of the local catalog store")
	catalogCmd.PersistentFlags().StringVar(&postgresConn, "postgres", "", "Postgres connection string; uses the shared single-catalog backend instead of the local store")
	catalogPushCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Path to the catalog YAML file")
	_ = catalogPushCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Address for the HTTP service")
	serveCmd.Flags().StringVar(&storePath, "store", "", "Directory of the run store (empty disables persistence)")
}
