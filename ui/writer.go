package ui

import (
	"bytes"
	"sync"
	"time"
)

const paneWriterMaxBytes = 64 * 1024

// paneWriter turns log output into events for a BoundedEventBuffer. It never
// touches widgets, so it is safe to call from the frame goroutine while a
// frame is being drawn.
type paneWriter struct {
	events *BoundedEventBuffer
	now    func() time.Time
	// buf holds any partial line; it is bounded to avoid unbounded growth when no newline arrives.
	buf          []byte
	mu           sync.Mutex
	droppedBytes uint64
}

func newPaneWriter(events *BoundedEventBuffer) *paneWriter {
	return &paneWriter{events: events, now: time.Now}
}

func (w *paneWriter) Write(p []byte) (int, error) {
	if w == nil || w.events == nil {
		return len(p), nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	if excess := len(w.buf) - paneWriterMaxBytes; excess > 0 {
		w.buf = w.buf[excess:]
		w.droppedBytes += uint64(excess)
	}
	data := w.buf
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			break
		}
		line := string(bytes.TrimRight(data[:idx], "\r"))
		w.events.Append(StyledEvent{
			Timestamp: w.now().UTC(),
			Kind:      ClassifyLine(line),
			Message:   line,
		})
		data = data[idx+1:]
	}
	w.buf = append(w.buf[:0], data...)
	return len(p), nil
}
