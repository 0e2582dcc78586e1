package ui

import "testing"

func countPolls(s *FrameScheduler, frames int) int {
	polls := 0
	for i := 0; i < frames; i++ {
		if s.ShouldPoll() {
			polls++
		}
	}
	return polls
}

func TestFrameSchedulerPollsOnCadenceBoundaries(t *testing.T) {
	s := NewFrameScheduler(60)
	for frame := 0; frame <= 180; frame++ {
		got := s.ShouldPoll()
		want := frame%60 == 0
		if got != want {
			t.Fatalf("frame %d: expected poll=%v, got %v", frame, want, got)
		}
	}
	if s.Frame() != 181 {
		t.Fatalf("expected 181 frames evaluated, got %d", s.Frame())
	}
}

func TestFrameSchedulerPollCount(t *testing.T) {
	cases := []struct {
		cadence int
		last    int
	}{
		{cadence: 60, last: 0},
		{cadence: 60, last: 59},
		{cadence: 60, last: 60},
		{cadence: 60, last: 599},
		{cadence: 1, last: 10},
		{cadence: 7, last: 100},
		{cadence: 30, last: 29},
	}
	for _, tc := range cases {
		s := NewFrameScheduler(tc.cadence)
		// Frames 0..last inclusive poll last/cadence+1 times.
		want := tc.last/tc.cadence + 1
		if got := countPolls(s, tc.last+1); got != want {
			t.Fatalf("cadence %d frames 0..%d: expected %d polls, got %d", tc.cadence, tc.last, want, got)
		}
	}
}

func TestFrameSchedulerDefaultsCadence(t *testing.T) {
	for _, cadence := range []int{0, -5} {
		s := NewFrameScheduler(cadence)
		if s.Cadence() != DefaultCadence {
			t.Fatalf("cadence %d: expected default %d, got %d", cadence, DefaultCadence, s.Cadence())
		}
	}
}

func TestFrameSchedulerCadenceOneAlwaysPolls(t *testing.T) {
	s := NewFrameScheduler(1)
	for i := 0; i < 5; i++ {
		if !s.ShouldPoll() {
			t.Fatalf("frame %d: expected poll with cadence 1", i)
		}
	}
}
