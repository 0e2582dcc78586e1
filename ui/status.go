package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatStatus renders the one-line status shown under the table.
func FormatStatus(m MetricsSnapshot, connected bool, cadence int, now time.Time) string {
	parts := make([]string, 0, 5)
	parts = append(parts, fmt.Sprintf("frame %s", humanize.Comma(int64(m.Frames))))
	if !connected {
		parts = append(parts, "no database connection")
		return strings.Join(parts, " | ")
	}
	parts = append(parts, fmt.Sprintf("poll every %d frames", cadence))
	parts = append(parts, fmt.Sprintf("polls %s (failed %s)", humanize.Comma(int64(m.Polls)), humanize.Comma(int64(m.Failures))))
	if m.Poll.N > 0 {
		parts = append(parts, fmt.Sprintf("query p50 %s p99 %s", roundLatency(m.Poll.P50), roundLatency(m.Poll.P99)))
	}
	if m.LastSuccess.IsZero() {
		parts = append(parts, "never updated")
	} else {
		parts = append(parts, "updated "+humanize.RelTime(m.LastSuccess, now, "ago", "from now"))
	}
	return strings.Join(parts, " | ")
}

func roundLatency(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
