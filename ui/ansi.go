package ui

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"admindash/config"

	"github.com/mattn/go-runewidth"
)

const (
	clearScreenANSI = "\x1b[2J\x1b[H"
	boldANSI        = "\x1b[1m"
	magentaANSI     = "\x1b[35m"
	resetANSI       = "\x1b[0m"
	maxColumnWidth  = 40
)

// Presenter applies a finished frame plus the status line to an output.
type Presenter interface {
	Present(frame Frame, status string)
}

// ANSIConsole is a lightweight, repaint-on-change console renderer that uses
// ANSI escape codes. It is selected via ui.mode=ansi in the YAML config.
type ANSIConsole struct {
	mu          sync.Mutex
	out         io.Writer
	title       string
	color       bool
	clear       bool
	renderBuf   bytes.Buffer
	painted     bool
	fingerprint uint64
	lastStatus  string
}

// NewANSIConsole writes frames to out.
func NewANSIConsole(cfg config.UIConfig, out io.Writer) *ANSIConsole {
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = config.DefaultTitle
	}
	return &ANSIConsole{
		out:   out,
		title: title,
		color: cfg.Color,
		clear: cfg.ClearScreen,
	}
}

// Present repaints when the frame or the status line changed since the last
// paint.
func (c *ANSIConsole) Present(frame Frame, status string) {
	if c == nil || c.out == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fp := frame.Fingerprint()
	if c.painted && fp == c.fingerprint && status == c.lastStatus {
		return
	}
	c.painted = true
	c.fingerprint = fp
	c.lastStatus = status

	c.renderBuf.Reset()
	if c.clear {
		c.renderBuf.WriteString(clearScreenANSI)
	}
	c.writeStyled(c.title, boldANSI)
	c.renderBuf.WriteByte('\n')
	if frame.IsTable() {
		writeGrid(&c.renderBuf, frame.Header, frame.Rows, c.color)
	} else {
		c.renderBuf.WriteString(sanitizeCell(frame.Text))
		c.renderBuf.WriteByte('\n')
	}
	c.renderBuf.WriteByte('\n')
	c.writeStyled(status, magentaANSI)
	c.renderBuf.WriteByte('\n')
	_, _ = c.renderBuf.WriteTo(c.out)
}

func (c *ANSIConsole) writeStyled(text, code string) {
	if c.color {
		c.renderBuf.WriteString(code)
	}
	c.renderBuf.WriteString(sanitizeCell(text))
	if c.color {
		c.renderBuf.WriteString(resetANSI)
	}
}

// writeGrid lays out a header and rows in display-width aligned columns.
func writeGrid(buf *bytes.Buffer, header []string, rows [][]string, color bool) {
	widths := make([]int, len(header))
	measure := func(cells []string) {
		for i := 0; i < len(widths) && i < len(cells); i++ {
			w := runewidth.StringWidth(sanitizeCell(cells[i]))
			if w > maxColumnWidth {
				w = maxColumnWidth
			}
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	writeRow := func(cells []string) {
		for i, w := range widths {
			if i > 0 {
				buf.WriteString(" | ")
			}
			cell := ""
			if i < len(cells) {
				cell = sanitizeCell(cells[i])
			}
			cell = runewidth.Truncate(cell, w, "…")
			if i == len(widths)-1 {
				buf.WriteString(cell)
				continue
			}
			buf.WriteString(runewidth.FillRight(cell, w))
		}
		buf.WriteByte('\n')
	}

	if color {
		buf.WriteString(boldANSI)
	}
	writeRow(header)
	if color {
		buf.WriteString(resetANSI)
	}
	for i, w := range widths {
		if i > 0 {
			buf.WriteString("-+-")
		}
		buf.WriteString(strings.Repeat("-", w))
	}
	buf.WriteByte('\n')
	for _, row := range rows {
		writeRow(row)
	}
}

// sanitizeCell drops control characters so cell text cannot move the cursor
// or inject escape sequences.
func sanitizeCell(s string) string {
	if strings.IndexFunc(s, isControl) == -1 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}
