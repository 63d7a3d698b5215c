// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/courseplan/services/planner/ingest"
)

const (
	catalogPrefix = "catalog/"
	runPrefix     = "run/"
)

// Run is one persisted scheduling run: the parameters that produced it plus
// the JSON-encoded result document.
type Run struct {
	ID            uuid.UUID       `json:"id"`
	Degree        string          `json:"degree"`
	TermCapacity  int             `json:"term_capacity"`
	TargetCourses int             `json:"target_courses"`
	CreatedAt     time.Time       `json:"created_at"`
	Result        json.RawMessage `json:"result"`
}

// PutCatalog stores a catalog document under the given name, replacing any
// previous version.
func (s *Store) PutCatalog(ctx context.Context, name string, doc ingest.Document) error {
	if name == "" {
		return errors.New("badgerstore: catalog name must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", name, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(catalogPrefix+name), data)
	})
}

// GetCatalog loads a catalog document by name.
func (s *Store) GetCatalog(ctx context.Context, name string) (ingest.Document, error) {
	var doc ingest.Document
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(catalogPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return doc, fmt.Errorf("%w: catalog %q", ErrNotFound, name)
	}
	return doc, err
}

// DeleteCatalog removes a catalog by name. Deleting a missing catalog is a
// no-op.
func (s *Store) DeleteCatalog(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(catalogPrefix + name))
	})
}

// ListCatalogs returns the stored catalog names, sorted.
func (s *Store) ListCatalogs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(catalogPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), catalogPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// PutRun persists a completed scheduling run. A zero run ID is assigned a
// fresh UUID; the (possibly assigned) ID is returned.
func (s *Store) PutRun(ctx context.Context, run Run) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode run %s: %w", run.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runPrefix+run.ID.String()), data)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return run.ID, nil
}

// GetRun loads a run by ID.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var run Run
	if err := ctx.Err(); err != nil {
		return run, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runPrefix + id.String()))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return run, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return run, err
}

// ListRuns returns all persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var runs []Run
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(runPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var run Run
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			})
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}
