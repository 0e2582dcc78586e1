package ui

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies a log line category shown in the system pane.
type EventKind int

const (
	EventSystem EventKind = iota
	EventPoll
	EventDatabase
)

func (k EventKind) Label() string {
	switch k {
	case EventSystem:
		return "SYS"
	case EventPoll:
		return "POLL"
	case EventDatabase:
		return "DB"
	default:
		return "UNK"
	}
}

// ClassifyLine picks the event kind from a log line's subsystem prefix.
func ClassifyLine(line string) EventKind {
	switch {
	case strings.HasPrefix(line, "Poll:"):
		return EventPoll
	case strings.HasPrefix(line, "Database:"), strings.HasPrefix(line, "Preflight:"):
		return EventDatabase
	default:
		return EventSystem
	}
}

// StyledEvent is a single log line held by the system pane.
type StyledEvent struct {
	Timestamp time.Time
	Kind      EventKind
	Message   string
}

// EventSnapshot is a copy of the buffer contents with the sequence number at
// the time of the copy.
type EventSnapshot struct {
	Events []StyledEvent
	Seq    uint64
}

// BoundedEventBuffer stores events in a bounded ring.
// Append may be called from any goroutine (the log writer); SnapshotInto is
// called by the frame goroutine.
type BoundedEventBuffer struct {
	mu         sync.RWMutex
	events     []StyledEvent
	head       int
	count      int
	maxMessage int
	seq        atomic.Uint64
	evicted    atomic.Uint64
	truncated  atomic.Uint64
}

// NewBoundedEventBuffer keeps at most maxCount events; messages longer than
// maxMessage bytes are truncated (0 disables truncation).
func NewBoundedEventBuffer(maxCount, maxMessage int) *BoundedEventBuffer {
	if maxCount <= 0 {
		maxCount = 1
	}
	if maxMessage < 0 {
		maxMessage = 0
	}
	return &BoundedEventBuffer{
		events:     make([]StyledEvent, maxCount),
		maxMessage: maxMessage,
	}
}

// Append inserts an event, evicting the oldest when full.
func (b *BoundedEventBuffer) Append(e StyledEvent) {
	if b == nil {
		return
	}
	if b.maxMessage > 0 && len(e.Message) > b.maxMessage {
		e.Message = e.Message[:b.maxMessage]
		b.truncated.Add(1)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.events) {
		b.head = (b.head + 1) % len(b.events)
		b.count--
		b.evicted.Add(1)
	}
	pos := (b.head + b.count) % len(b.events)
	b.events[pos] = e
	b.count++
	b.seq.Add(1)
}

// Seq returns the number of events appended so far.
func (b *BoundedEventBuffer) Seq() uint64 {
	if b == nil {
		return 0
	}
	return b.seq.Load()
}

// SnapshotInto copies events oldest-first into dst.
// The caller owns dst and the returned slice.
func (b *BoundedEventBuffer) SnapshotInto(dst []StyledEvent) EventSnapshot {
	if b == nil {
		return EventSnapshot{Events: dst[:0]}
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if cap(dst) < b.count {
		dst = make([]StyledEvent, b.count)
	} else {
		dst = dst[:b.count]
	}
	for i := 0; i < b.count; i++ {
		pos := (b.head + i) % len(b.events)
		dst[i] = b.events[pos]
	}
	return EventSnapshot{Events: dst, Seq: b.seq.Load()}
}

// Drops returns how many events were evicted and how many were truncated.
func (b *BoundedEventBuffer) Drops() (evicted, truncated uint64) {
	if b == nil {
		return 0, 0
	}
	return b.evicted.Load(), b.truncated.Load()
}
