package ui

import (
	"time"

	"admindash/admindb"
)

// Snapshot is the latest accepted poll outcome consumed by rendering.
// It is immutable once installed in a SnapshotStore.
type Snapshot struct {
	Records  []admindb.Record
	Valid    bool
	PolledAt time.Time
	Err      error
}

// Drawable reports whether the snapshot should render as a table.
func (s Snapshot) Drawable() bool {
	return s.Valid && len(s.Records) > 0
}

// SnapshotFromResult converts a poll result into the snapshot that replaces
// the live one. A failed poll keeps no records.
func SnapshotFromResult(res admindb.Result, polledAt time.Time) Snapshot {
	if !res.OK() {
		return Snapshot{PolledAt: polledAt, Err: res.Err}
	}
	records := res.Records
	if records == nil {
		records = []admindb.Record{}
	}
	return Snapshot{Records: records, Valid: true, PolledAt: polledAt}
}

// SnapshotStore owns the single live Snapshot. The writer (poll step) and the
// reader (renderer) run sequentially on the frame goroutine, so there is no
// locking.
type SnapshotStore struct {
	current Snapshot
}

// NewSnapshotStore starts with an empty, invalid snapshot.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace installs snap unconditionally.
func (s *SnapshotStore) Replace(snap Snapshot) {
	s.current = snap
}

// Current returns the live snapshot. Callers must not modify Records.
func (s *SnapshotStore) Current() Snapshot {
	return s.current
}
