package renderer

import "time"

// Stats is the advisory frame-rate readout, refreshed once per second.
type Stats struct {
	FPS         float64
	FrameTimeMs float64
}

// FrameTimer counts frames and publishes Stats every Interval.
type FrameTimer struct {
	Interval time.Duration

	frames      int
	windowStart time.Time
	stats       Stats
}

// NewFrameTimer starts a timer at now.
func NewFrameTimer(now time.Time) *FrameTimer {
	return &FrameTimer{Interval: time.Second, windowStart: now}
}

// Tick records a frame finishing at now. It reports true when Stats was
// refreshed.
func (t *FrameTimer) Tick(now time.Time) bool {
	t.frames++
	elapsed := now.Sub(t.windowStart)
	if elapsed < t.Interval {
		return false
	}
	secs := elapsed.Seconds()
	t.stats = Stats{
		FPS:         float64(t.frames) / secs,
		FrameTimeMs: secs * 1000 / float64(t.frames),
	}
	t.frames = 0
	t.windowStart = now
	return true
}

// Stats returns the last published values.
func (t *FrameTimer) Stats() Stats { return t.stats }
