package ui

import (
	"context"
	"log"
	"time"
)

// LogPresenter reports frame changes through the standard logger. It backs
// ui.mode=headless, where there is no console to draw on.
type LogPresenter struct {
	logf        func(string, ...any)
	painted     bool
	fingerprint uint64
}

func NewLogPresenter(logf func(string, ...any)) *LogPresenter {
	if logf == nil {
		logf = log.Printf
	}
	return &LogPresenter{logf: logf}
}

// Present logs one line whenever the drawn content changes. The status line
// is ignored because it changes every frame.
func (p *LogPresenter) Present(frame Frame, _ string) {
	fp := frame.Fingerprint()
	if p.painted && fp == p.fingerprint {
		return
	}
	p.painted = true
	p.fingerprint = fp
	if frame.IsTable() {
		p.logf("UI: showing %d records", len(frame.Rows))
		return
	}
	p.logf("UI: %s", frame.Text)
}

// RunTicker drives loop at fps frames per second until ctx is cancelled,
// handing every frame to p. The first frame runs immediately.
func RunTicker(ctx context.Context, fps int, loop *Loop, metrics *Metrics, p Presenter) {
	if fps <= 0 {
		fps = 60
	}
	var rec FrameRecorder
	frame := func() {
		loop.Frame(ctx, &rec)
		p.Present(rec.Frame(), FormatStatus(metrics.Snapshot(), loop.Connected(), loop.Scheduler().Cadence(), time.Now()))
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	frame()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			frame()
		}
	}
}
