package ui

// DefaultCadence is the number of frames between polls.
const DefaultCadence = 60

// FrameScheduler counts frames and decides which ones poll the store.
type FrameScheduler struct {
	cadence uint64
	frame   uint64
}

// NewFrameScheduler returns a scheduler whose counter starts at 0. A
// non-positive cadence falls back to DefaultCadence.
func NewFrameScheduler(cadence int) *FrameScheduler {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &FrameScheduler{cadence: uint64(cadence)}
}

// ShouldPoll reports whether the current frame polls, then advances the
// counter. Call it exactly once per frame.
func (f *FrameScheduler) ShouldPoll() bool {
	poll := f.frame%f.cadence == 0
	f.frame++
	return poll
}

// Frame returns the number of frames evaluated so far.
func (f *FrameScheduler) Frame() uint64 {
	return f.frame
}

// Cadence returns the configured poll cadence in frames.
func (f *FrameScheduler) Cadence() int {
	return int(f.cadence)
}
