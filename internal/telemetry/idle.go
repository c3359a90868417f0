package telemetry

import "time"

// IdleTracker detects quiet periods on the inbound sample stream. After
// a configurable interval without data it asks for exactly one all-zero
// sample to be forwarded, so the store can tell "sensor still" from
// "pipeline dead". New data re-arms it.
type IdleTracker struct {
	After time.Duration

	lastData time.Time
	posted   bool
}

// NewIdleTracker returns a tracker armed at now. A non-positive After
// disables it.
func NewIdleTracker(after time.Duration, now time.Time) *IdleTracker {
	return &IdleTracker{
		After:    after,
		lastData: now,
	}
}

// MarkData records inbound data at now and re-arms the tracker.
func (t *IdleTracker) MarkData(now time.Time) {
	t.lastData = now
	t.posted = false
}

// ShouldPostZero reports whether the quiet period has elapsed and no
// zero sample has been posted for it yet. A true return consumes the
// period: it stays false until MarkData re-arms the tracker.
func (t *IdleTracker) ShouldPostZero(now time.Time) bool {
	if t.After <= 0 || t.posted {
		return false
	}
	if now.Sub(t.lastData) < t.After {
		return false
	}

	t.posted = true
	return true
}
