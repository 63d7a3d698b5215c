// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"fmt"
	"strings"
)

// TermType is the recurring category of an academic term. Term types cycle:
// term index 0 has the configured starting type, index 1 the next type in
// declaration order, wrapping around after NumTermTypes.
type TermType int

const (
	// TermTypeFall is the fall term.
	TermTypeFall TermType = iota

	// TermTypeWinter is the winter term.
	TermTypeWinter

	// NumTermTypes is the length of the term-type cycle (for array sizing
	// and modular arithmetic).
	NumTermTypes
)

// termTypeNames maps TermType values to their string representations.
var termTypeNames = map[TermType]string{
	TermTypeFall:   "fall",
	TermTypeWinter: "winter",
}

// String returns the string representation of the TermType.
func (t TermType) String() string {
	if name, ok := termTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is a declared term type.
func (t TermType) Valid() bool {
	return t >= 0 && t < NumTermTypes
}

// Next returns the term type following t in the cycle.
func (t TermType) Next() TermType {
	return (t + 1) % NumTermTypes
}

// ParseTermType parses a case-insensitive term-type name.
func ParseTermType(s string) (TermType, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for t, name := range termTypeNames {
		if name == needle {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTermType, s)
}

// TermTypeForIndex returns the term type of term index i given the starting
// term type of index 0. Negative indices are not meaningful and map to start.
func TermTypeForIndex(start TermType, i int) TermType {
	if i < 0 {
		return start
	}
	return TermType((int(start) + i) % int(NumTermTypes))
}
