package ui

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"admindash/admindb"
)

func sampleRecords() []admindb.Record {
	return []admindb.Record{
		{ID: 1, Name: "Ann", Username: "ann", Password: "pw1"},
		{ID: 2, Name: "Bob", Username: "bob", Password: "pw2"},
	}
}

func TestRenderTable(t *testing.T) {
	r := NewTableRenderer(admindb.DefaultColumns())
	var rec FrameRecorder
	r.Render(Snapshot{Records: sampleRecords(), Valid: true}, &rec)

	frame := rec.Frame()
	if !frame.IsTable() {
		t.Fatalf("expected a table frame, got text %q", frame.Text)
	}
	wantHeader := []string{"Admin_ID", "Name", "Username", "Password"}
	if !reflect.DeepEqual(frame.Header, wantHeader) {
		t.Fatalf("unexpected header %v", frame.Header)
	}
	wantRows := [][]string{{"1", "Ann", "ann", "pw1"}, {"2", "Bob", "bob", "pw2"}}
	if !reflect.DeepEqual(frame.Rows, wantRows) {
		t.Fatalf("unexpected rows %v", frame.Rows)
	}
}

func TestRenderFallback(t *testing.T) {
	r := NewTableRenderer(admindb.DefaultColumns())
	cases := map[string]Snapshot{
		"initial":           {},
		"empty":             {Records: []admindb.Record{}, Valid: true},
		"failed":            {Err: errors.New("boom")},
		"invalid-with-rows": {Records: sampleRecords(), Valid: false},
	}
	for name, snap := range cases {
		var rec FrameRecorder
		r.Render(snap, &rec)
		frame := rec.Frame()
		if frame.IsTable() || frame.Text != FallbackMessage {
			t.Fatalf("%s: expected fallback text, got %+v", name, frame)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewTableRenderer(admindb.DefaultColumns())
	snap := Snapshot{Records: sampleRecords(), Valid: true, PolledAt: time.Unix(10, 0)}
	var a, b FrameRecorder
	r.Render(snap, &a)
	r.Render(snap, &b)
	if a.Frame().Fingerprint() != b.Frame().Fingerprint() {
		t.Fatalf("expected identical output for the same snapshot")
	}
	if snap.Records[0].Name != "Ann" || len(snap.Records) != 2 {
		t.Fatalf("render modified the snapshot: %+v", snap.Records)
	}
}

func TestRenderHeaderNotShared(t *testing.T) {
	r := NewTableRenderer(admindb.DefaultColumns())
	var rec FrameRecorder
	r.Render(Snapshot{Records: sampleRecords(), Valid: true}, &rec)
	rec.Frame().Header[0] = "changed"

	var again FrameRecorder
	r.Render(Snapshot{Records: sampleRecords(), Valid: true}, &again)
	if again.Frame().Header[0] != "Admin_ID" {
		t.Fatalf("header mutation leaked into renderer: %v", again.Frame().Header)
	}
}

func TestRenderNilSurface(t *testing.T) {
	NewTableRenderer(admindb.DefaultColumns()).Render(Snapshot{Records: sampleRecords(), Valid: true}, nil)
}

func TestFrameFingerprint(t *testing.T) {
	table := Frame{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	same := Frame{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	shifted := Frame{Header: []string{"a", "b"}, Rows: [][]string{{"12", ""}}}
	text := Frame{Text: "a\x1fb"}

	if table.Fingerprint() != same.Fingerprint() {
		t.Fatalf("expected equal frames to share a fingerprint")
	}
	if table.Fingerprint() == shifted.Fingerprint() {
		t.Fatalf("expected cell boundaries to affect the fingerprint")
	}
	if table.Fingerprint() == text.Fingerprint() {
		t.Fatalf("expected table and text frames to differ")
	}
	if (Frame{}).IsTable() {
		t.Fatalf("zero frame is not a table")
	}
}
