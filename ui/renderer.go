package ui

import "admindash/admindb"

// FallbackMessage is drawn instead of the table when there is no valid,
// non-empty snapshot. Failed and empty polls look the same.
const FallbackMessage = "No data available or query failed."

// TableRenderer draws a snapshot as a four-column grid or the fallback line.
// It only reads the snapshot.
type TableRenderer struct {
	header []string
}

// NewTableRenderer uses columns as the fixed header row.
func NewTableRenderer(columns admindb.Columns) *TableRenderer {
	return &TableRenderer{header: columns.Header()}
}

// Render issues one frame's draw commands for snap.
func (r *TableRenderer) Render(snap Snapshot, s Surface) {
	if s == nil {
		return
	}
	if !snap.Drawable() {
		s.DrawText(FallbackMessage)
		return
	}
	rows := make([][]string, len(snap.Records))
	for i, rec := range snap.Records {
		rows[i] = rec.Cells()
	}
	header := make([]string, len(r.header))
	copy(header, r.header)
	s.DrawTable(header, rows)
}
