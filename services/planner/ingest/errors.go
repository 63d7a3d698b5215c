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

import "errors"

var (
	// ErrFileTooLarge indicates the catalog file exceeds MaxCatalogFileSize.
	ErrFileTooLarge = errors.New("ingest: catalog file too large")

	// ErrInvalidDocument indicates the document failed structural or field
	// validation. The wrapped error carries the offending field.
	ErrInvalidDocument = errors.New("ingest: invalid catalog document")

	// ErrBadClock indicates a meeting time that is not a valid HH:MM value.
	ErrBadClock = errors.New("ingest: invalid clock time")

	// ErrBadWeekday indicates an unrecognized weekday name.
	ErrBadWeekday = errors.New("ingest: invalid weekday")
)
