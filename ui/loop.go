package ui

import (
	"context"
	"log"
	"time"

	"admindash/admindb"
)

// Poller runs one query against the store. *admindb.Executor implements it.
type Poller interface {
	Poll(ctx context.Context) admindb.Result
}

// Loop composes the per-frame pipeline:
// scheduler -> (on cadence) poller -> snapshot store -> renderer.
type Loop struct {
	scheduler *FrameScheduler
	poller    Poller
	snapshots *SnapshotStore
	renderer  *TableRenderer
	metrics   *Metrics
	now       func() time.Time
	logf      func(string, ...any)
}

// NewLoop wires the components. A nil poller means there is no connection:
// frames still advance and render, but never poll.
func NewLoop(scheduler *FrameScheduler, poller Poller, snapshots *SnapshotStore, renderer *TableRenderer, metrics *Metrics) *Loop {
	if scheduler == nil {
		scheduler = NewFrameScheduler(DefaultCadence)
	}
	if snapshots == nil {
		snapshots = NewSnapshotStore()
	}
	if renderer == nil {
		renderer = NewTableRenderer(admindb.DefaultColumns())
	}
	return &Loop{
		scheduler: scheduler,
		poller:    poller,
		snapshots: snapshots,
		renderer:  renderer,
		metrics:   metrics,
		now:       time.Now,
		logf:      log.Printf,
	}
}

// Frame runs one iteration. The poll, when due, blocks the caller until the
// query completes; nothing is returned to the frame driver.
func (l *Loop) Frame(ctx context.Context, s Surface) {
	start := l.now()
	if l.scheduler.ShouldPoll() && l.poller != nil {
		l.poll(ctx)
	}
	l.renderer.Render(l.snapshots.Current(), s)
	l.metrics.ObserveFrame(l.now().Sub(start))
}

func (l *Loop) poll(ctx context.Context) {
	res := l.poller.Poll(ctx)
	at := l.now()
	l.snapshots.Replace(SnapshotFromResult(res, at))
	l.metrics.ObservePoll(res.Elapsed, res.OK(), at)
	if !res.OK() {
		l.logf("Poll: query failed (frame %d): %v", l.scheduler.Frame()-1, res.Err)
	}
}

// Snapshot returns the live snapshot.
func (l *Loop) Snapshot() Snapshot {
	return l.snapshots.Current()
}

// Scheduler exposes the frame scheduler for status reporting.
func (l *Loop) Scheduler() *FrameScheduler {
	return l.scheduler
}

// Connected reports whether the loop has a store to poll.
func (l *Loop) Connected() bool {
	return l.poller != nil
}
