package ui

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// Surface receives the draw commands for one frame. A frame issues exactly
// one DrawTable or one DrawText.
type Surface interface {
	DrawTable(header []string, rows [][]string)
	DrawText(line string)
}

// Frame is the content drawn during one frame.
type Frame struct {
	Header []string
	Rows   [][]string
	Text   string
}

// IsTable reports whether the frame holds a table.
func (f Frame) IsTable() bool {
	return f.Header != nil
}

// Fingerprint hashes the frame content so surfaces can skip repainting
// unchanged frames.
func (f Frame) Fingerprint() uint64 {
	h := xxh3.New()
	if !f.IsTable() {
		_, _ = h.WriteString("text\x00")
		_, _ = h.WriteString(f.Text)
		return h.Sum64()
	}
	_, _ = h.WriteString("table\x00")
	_, _ = h.WriteString(strings.Join(f.Header, "\x1f"))
	for _, row := range f.Rows {
		_, _ = h.WriteString("\x1e")
		_, _ = h.WriteString(strings.Join(row, "\x1f"))
	}
	return h.Sum64()
}

// FrameRecorder is a Surface that keeps the most recent frame.
type FrameRecorder struct {
	frame Frame
}

func (r *FrameRecorder) DrawTable(header []string, rows [][]string) {
	r.frame = Frame{Header: header, Rows: rows}
}

func (r *FrameRecorder) DrawText(line string) {
	r.frame = Frame{Text: line}
}

// Frame returns the last recorded frame.
func (r *FrameRecorder) Frame() Frame {
	return r.frame
}
