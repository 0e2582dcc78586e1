package ui

import (
	"errors"
	"testing"
	"time"

	"admindash/admindb"
)

func TestSnapshotFromResult(t *testing.T) {
	at := time.Unix(100, 0)

	ok := SnapshotFromResult(admindb.Result{Records: sampleRecords()}, at)
	if !ok.Valid || len(ok.Records) != 2 || !ok.PolledAt.Equal(at) || ok.Err != nil {
		t.Fatalf("unexpected success snapshot: %+v", ok)
	}
	if !ok.Drawable() {
		t.Fatalf("expected non-empty valid snapshot to be drawable")
	}

	empty := SnapshotFromResult(admindb.Result{}, at)
	if !empty.Valid || empty.Records == nil || empty.Drawable() {
		t.Fatalf("expected valid, empty, non-drawable snapshot: %+v", empty)
	}

	failure := errors.New("connection reset")
	bad := SnapshotFromResult(admindb.Result{Records: sampleRecords(), Err: failure}, at)
	if bad.Valid || bad.Records != nil || !errors.Is(bad.Err, failure) {
		t.Fatalf("expected failed poll to discard records: %+v", bad)
	}
}

func TestSnapshotStoreReplace(t *testing.T) {
	store := NewSnapshotStore()
	if store.Current().Valid || store.Current().Drawable() {
		t.Fatalf("expected initial snapshot to be invalid")
	}
	store.Replace(Snapshot{Records: sampleRecords(), Valid: true})
	if !store.Current().Drawable() {
		t.Fatalf("expected replaced snapshot to be drawable")
	}
	// A failed poll replaces good data.
	store.Replace(Snapshot{Err: errors.New("boom")})
	if store.Current().Valid || store.Current().Records != nil {
		t.Fatalf("expected failure to clear the previous snapshot: %+v", store.Current())
	}
}
