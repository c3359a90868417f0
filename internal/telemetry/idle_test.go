package telemetry_test

import (
	"testing"
	"time"

	"codeberg.org/dazzo/dazzod/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestIdleTrackerFiresOncePerQuietPeriod(t *testing.T) {
	start := time.Now()
	tracker := telemetry.NewIdleTracker(time.Second, start)

	assert.False(t, tracker.ShouldPostZero(start))
	assert.False(t, tracker.ShouldPostZero(start.Add(999*time.Millisecond)))

	// Fires exactly once at the boundary, then stays quiet.
	assert.True(t, tracker.ShouldPostZero(start.Add(time.Second)))
	assert.False(t, tracker.ShouldPostZero(start.Add(2*time.Second)))
	assert.False(t, tracker.ShouldPostZero(start.Add(time.Hour)))
}

func TestIdleTrackerRearmsOnData(t *testing.T) {
	start := time.Now()
	tracker := telemetry.NewIdleTracker(time.Second, start)

	assert.True(t, tracker.ShouldPostZero(start.Add(time.Second)))

	resumed := start.Add(5 * time.Second)
	tracker.MarkData(resumed)
	assert.False(t, tracker.ShouldPostZero(resumed.Add(500*time.Millisecond)))
	assert.True(t, tracker.ShouldPostZero(resumed.Add(time.Second)))
}

func TestIdleTrackerDisabled(t *testing.T) {
	start := time.Now()
	tracker := telemetry.NewIdleTracker(0, start)

	assert.False(t, tracker.ShouldPostZero(start.Add(time.Hour)))
}
