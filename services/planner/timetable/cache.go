// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package timetable

import (
	"encoding/binary"
	"hash/fnv"
)

// memoCache is a single-entry memo keyed by input fingerprint. It is tuned
// for the scheduler's call pattern ("ask the same term repeatedly while
// incrementally filling it"), not for general-purpose caching: any call
// with a new fingerprint evicts the previous entry.
type memoCache struct {
	valid       bool
	fingerprint uint64
	result      []Combination
}

// get returns the cached result iff fp matches the stored fingerprint.
func (m *memoCache) get(fp uint64) ([]Combination, bool) {
	if m.valid && m.fingerprint == fp {
		return m.result, true
	}
	return nil, false
}

// put stores the result for fp, evicting whatever was cached before.
func (m *memoCache) put(fp uint64, result []Combination) {
	m.valid = true
	m.fingerprint = fp
	m.result = result
}

// fingerprintSlots computes a deterministic FNV-1a hash over the ordered
// (course identity, offering-set identity) of every slot. Two slot lists
// with equal courses, offering terms and section meeting patterns, in the
// same order, hash identically.
func fingerprintSlots(slots []Slot) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(len(slots))
	for _, s := range slots {
		h.Write([]byte(s.Course.Name))
		h.Write([]byte{0})
		writeInt(len(s.Offerings))
		for _, o := range s.Offerings {
			writeInt(int(o.Term))
			writeInt(len(o.Sections))
			for _, sec := range o.Sections {
				writeInt(len(sec.Occurrences))
				for _, occ := range sec.Occurrences {
					writeInt(int(occ.Day))
					writeInt(occ.StartMinute)
					writeInt(occ.EndMinute)
				}
			}
		}
	}
	return h.Sum64()
}
