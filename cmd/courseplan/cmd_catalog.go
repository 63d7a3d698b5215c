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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
	"github.com/AleutianAI/courseplan/services/planner/ingest"
	"github.com/AleutianAI/courseplan/services/planner/store/badgerstore"
	"github.com/AleutianAI/courseplan/services/planner/store/pgstore"
)

// defaultStorePath places the catalog store under the user cache directory.
func defaultStorePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "courseplan", "store")
	}
	return ".courseplan-store"
}

func openStore() (*badgerstore.Store, error) {
	return badgerstore.Open(badgerstore.DefaultConfig(storePath))
}

// pushToPostgres migrates the shared schema and replaces the stored catalog.
func pushToPostgres(ctx context.Context, courses []catalog.Course) error {
	repo, err := pgstore.Connect(ctx, postgresConn)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	return repo.SaveCatalog(ctx, courses)
}

func runCatalogPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	doc, err := ingest.Decode(data)
	if err != nil {
		return err
	}
	// Reject structurally invalid documents before they reach a store.
	courses, err := ingest.Convert(ctx, doc)
	if err != nil {
		return err
	}

	if postgresConn != "" {
		if err := pushToPostgres(ctx, courses); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored catalog to postgres (%d courses)\n", len(doc.Courses))
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PutCatalog(ctx, name, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored catalog %q (%d courses)\n", name, len(doc.Courses))
	return nil
}

func runCatalogPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var doc ingest.Document
	if postgresConn != "" {
		repo, err := pgstore.Connect(ctx, postgresConn)
		if err != nil {
			return err
		}
		defer repo.Close()

		courses, err := repo.LoadCatalog(ctx)
		if err != nil {
			return err
		}
		doc = ingest.DocumentFrom(courses)
	} else {
		if len(args) == 0 {
			return errors.New("a catalog name is required with the local store")
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		doc, err = store.GetCatalog(ctx, args[0])
		if err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	if postgresConn != "" {
		return errors.New("the postgres backend holds a single catalog; nothing to list")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.ListCatalogs(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
