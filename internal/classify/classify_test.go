package classify_test

import (
	"testing"

	"codeberg.org/dazzo/dazzod/internal/classify"
	"codeberg.org/dazzo/dazzod/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestActivityThresholds(t *testing.T) {
	c := classify.New(classify.ModeNDOF, 4, 1.0, 3.0)

	activity, mean := c.Observe(telemetry.Sample{X: 0.1})
	assert.Equal(t, classify.Resting, activity)
	assert.InDelta(t, 0.1, mean, 1e-6)

	// Window mean of {0.1, 2.9} is 1.5: active.
	activity, mean = c.Observe(telemetry.Sample{X: 2.9})
	assert.Equal(t, classify.Active, activity)
	assert.InDelta(t, 1.5, mean, 1e-6)

	c = classify.New(classify.ModeNDOF, 1, 1.0, 3.0)
	activity, _ = c.Observe(telemetry.Sample{Y: 8.5})
	assert.Equal(t, classify.HighlyActive, activity)
}

func TestWindowEvictsOldest(t *testing.T) {
	c := classify.New(classify.ModeNDOF, 2, 1.0, 3.0)

	c.Observe(telemetry.Sample{X: 9})
	c.Observe(telemetry.Sample{X: 9})

	// Two quiet samples push both bursts out of the window.
	c.Observe(telemetry.Sample{X: 0.1})
	activity, mean := c.Observe(telemetry.Sample{X: 0.1})
	assert.Equal(t, classify.Resting, activity)
	assert.InDelta(t, 0.1, mean, 1e-6)
}

func TestAccOnlyModeSubtractsGravity(t *testing.T) {
	c := classify.New(classify.ModeAccOnly, 4, 1.0, 3.0)

	// A motionless sensor reading constant gravity must classify as
	// resting once the window fills: the window-mean vector is the
	// gravity estimate and the dynamic residual is zero.
	var activity classify.Activity
	var mean float64
	for i := 0; i < 4; i++ {
		activity, mean = c.Observe(telemetry.Sample{Z: 9.81})
	}
	assert.Equal(t, classify.Resting, activity)
	assert.InDelta(t, 0.0, mean, 1e-6)

	// The same readings in NDOF mode would be highly active.
	n := classify.New(classify.ModeNDOF, 4, 1.0, 3.0)
	for i := 0; i < 4; i++ {
		activity, _ = n.Observe(telemetry.Sample{Z: 9.81})
	}
	assert.Equal(t, classify.HighlyActive, activity)
}
