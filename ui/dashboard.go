package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"admindash/config"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	accentTag   = "[#ff69b4]"
	accentReset = "[-]"
)

const (
	pageTable   = "table"
	pageMessage = "message"
	pageMain    = "main"
	pageHelp    = "help"
)

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorHotPink
)

// Dashboard is the tview frame driver and render surface. Every frame runs
// inside QueueUpdateDraw on the UI goroutine, so a poll that blocks stalls
// drawing and input for that frame.
type Dashboard struct {
	app      *tview.Application
	root     *tview.Pages
	content  *tview.Pages
	table    *tview.Table
	message  *tview.TextView
	status   *tview.TextView
	system   *tview.TextView
	loop     *Loop
	metrics  *Metrics
	events   *BoundedEventBuffer
	recorder FrameRecorder

	frameTime time.Duration
	logLines  int
	pending   atomic.Bool
	ready     chan struct{}
	stopOnce  sync.Once
	helpShown bool

	painted     bool
	fingerprint uint64
	eventsSeq   uint64
	scratch     []StyledEvent
	now         func() time.Time
}

// NewDashboard builds the widget tree. Nothing runs until Run is called.
func NewDashboard(cfg config.UIConfig, loop *Loop, metrics *Metrics) *Dashboard {
	fps := cfg.TargetFPS
	if fps <= 0 {
		fps = config.DefaultTargetFPS
	}
	logLines := cfg.LogLines
	if logLines <= 0 {
		logLines = config.DefaultLogLines
	}
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = config.DefaultTitle
	}

	app := tview.NewApplication().EnableMouse(cfg.EnableMouse)
	ready := make(chan struct{})
	var once sync.Once
	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		once.Do(func() { close(ready) })
		return false
	})

	d := &Dashboard{
		app:       app,
		loop:      loop,
		metrics:   metrics,
		events:    NewBoundedEventBuffer(logLines*4, 1024),
		frameTime: time.Second / time.Duration(fps),
		logLines:  logLines,
		ready:     ready,
		now:       time.Now,
	}

	d.table = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false).
		SetSeparator(tview.Borders.Vertical)
	d.message = tview.NewTextView().SetDynamicColors(false).SetWrap(true)

	d.content = tview.NewPages()
	d.content.AddPage(pageTable, d.table, true, false)
	d.content.AddPage(pageMessage, d.message, true, true)
	d.content.SetBorder(true).
		SetTitle(accentText(title)).
		SetTitleAlign(tview.AlignLeft).
		SetBorderColor(uiBorderColor).
		SetTitleColor(uiTitleColor)

	d.system = newBoxedTextView("System")
	d.system.SetScrollable(true)
	d.status = tview.NewTextView().SetDynamicColors(false).SetWrap(false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.content, 0, 1, true).
		AddItem(d.system, logLines+2, 0, false).
		AddItem(d.status, 1, 0, false).
		AddItem(buildFooter(), 1, 0, false)

	d.root = tview.NewPages()
	d.root.AddPage(pageMain, layout, true, true)
	d.root.AddPage(pageHelp, buildHelpOverlay(), true, false)

	d.installKeybindings()
	app.SetRoot(d.root, true).SetFocus(d.table)
	return d
}

func (d *Dashboard) installKeybindings() {
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if d.helpShown {
			if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyF1 || event.Rune() == 'h' || event.Rune() == '?' {
				d.toggleHelp(false)
				return nil
			}
		}
		switch event.Key() {
		case tcell.KeyF1:
			d.toggleHelp(!d.helpShown)
			return nil
		case tcell.KeyEsc, tcell.KeyCtrlC:
			d.Stop()
			return nil
		}
		switch event.Rune() {
		case 'q', 'Q':
			d.Stop()
			return nil
		case 'h', '?':
			d.toggleHelp(!d.helpShown)
			return nil
		}
		return event
	})
}

func (d *Dashboard) toggleHelp(show bool) {
	d.helpShown = show
	if show {
		d.root.ShowPage(pageHelp)
		d.root.SendToFront(pageHelp)
		return
	}
	d.root.HidePage(pageHelp)
}

// Run starts the frame ticker and blocks until the application stops or ctx
// is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.runTicker(ctx)
	return d.app.Run()
}

func (d *Dashboard) runTicker(ctx context.Context) {
	ticker := time.NewTicker(d.frameTime)
	defer ticker.Stop()
	d.requestFrame(ctx)
	for {
		select {
		case <-ticker.C:
			d.requestFrame(ctx)
		case <-ctx.Done():
			d.Stop()
			return
		}
	}
}

// requestFrame queues one frame unless the previous one has not run yet, so a
// slow poll never builds a backlog of frames. QueueUpdateDraw waits for the
// frame to execute, so it runs off the ticker goroutine.
func (d *Dashboard) requestFrame(ctx context.Context) {
	if !d.pending.CompareAndSwap(false, true) {
		return
	}
	go d.app.QueueUpdateDraw(func() {
		defer d.pending.Store(false)
		if ctx.Err() != nil {
			return
		}
		d.drawFrame(ctx)
	})
}

// drawFrame runs the loop against the recorder and applies the result to the
// widgets. Must run on the UI goroutine.
func (d *Dashboard) drawFrame(ctx context.Context) {
	d.loop.Frame(ctx, &d.recorder)
	d.present(d.recorder.Frame())
	d.status.SetText(FormatStatus(d.metrics.Snapshot(), d.loop.Connected(), d.loop.Scheduler().Cadence(), d.now()))
	d.syncSystemPane()
}

func (d *Dashboard) present(frame Frame) {
	fp := frame.Fingerprint()
	if d.painted && fp == d.fingerprint {
		return
	}
	d.painted = true
	d.fingerprint = fp

	if !frame.IsTable() {
		d.message.SetText(frame.Text)
		d.content.SwitchToPage(pageMessage)
		return
	}

	row, col := d.table.GetSelection()
	d.table.Clear()
	for c, name := range frame.Header {
		d.table.SetCell(0, c, tview.NewTableCell(tview.Escape(name)).
			SetTextColor(uiTitleColor).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false).
			SetExpansion(1))
	}
	for r, cells := range frame.Rows {
		for c, text := range cells {
			d.table.SetCell(r+1, c, tview.NewTableCell(tview.Escape(text)).SetExpansion(1))
		}
	}
	if row < 1 {
		row = 1
	}
	if row > len(frame.Rows) {
		row = len(frame.Rows)
	}
	d.table.Select(row, col)
	d.content.SwitchToPage(pageTable)
	if !d.helpShown {
		d.app.SetFocus(d.table)
	}
}

func (d *Dashboard) syncSystemPane() {
	seq := d.events.Seq()
	if seq == d.eventsSeq {
		return
	}
	snap := d.events.SnapshotInto(d.scratch)
	d.scratch = snap.Events
	d.eventsSeq = snap.Seq

	events := snap.Events
	if len(events) > d.logLines {
		events = events[len(events)-d.logLines:]
	}
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, " %s %-4s %s", ev.Timestamp.Local().Format("15:04:05"), ev.Kind.Label(), tview.Escape(ev.Message))
	}
	d.system.SetText(b.String())
	d.system.ScrollToEnd()
}

// WaitReady blocks until the first screen draw.
func (d *Dashboard) WaitReady() {
	if d == nil || d.ready == nil {
		return
	}
	<-d.ready
}

// Stop ends the application. Safe to call more than once.
func (d *Dashboard) Stop() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		if d.app != nil {
			d.app.Stop()
		}
	})
}

// SystemWriter returns a writer whose lines appear in the System pane.
func (d *Dashboard) SystemWriter() io.Writer {
	if d == nil {
		return nil
	}
	return newPaneWriter(d.events)
}

func newBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	tv.SetBorder(true)
	if title != "" {
		tv.SetTitle(accentText(title)).SetTitleAlign(tview.AlignLeft)
	}
	tv.SetBorderColor(uiBorderColor)
	tv.SetTitleColor(uiTitleColor)
	return tv
}

func buildFooter() *tview.TextView {
	return tview.NewTextView().SetDynamicColors(true).SetText(
		accentText("F1") + "Help  " + accentText("↑/↓") + "Scroll  " + accentText("Esc") + "/[Q]Quit",
	)
}

func buildHelpOverlay() tview.Primitive {
	help := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	help.SetText(strings.TrimSpace(fmt.Sprintf(`
KEYBOARD HELP

  %sF1%s / ? / h   Toggle this help
  ↑/↓ k/j       Move row selection
  PgUp/PgDn     Scroll a page
  Home/End      First/last row
  Esc / q       Quit (Esc closes help first)
  Ctrl+C        Quit
`, accentTag, accentReset)))
	help.SetBorder(true).SetTitle("Help")
	help.SetBorderColor(uiBorderColor)
	help.SetTitleColor(uiTitleColor)
	container := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(help, 11, 1, true).
			AddItem(nil, 0, 1, false),
			50, 1, true).
		AddItem(nil, 0, 1, false)
	return container
}

func accentText(text string) string {
	if text == "" {
		return ""
	}
	return accentTag + text + accentReset
}
