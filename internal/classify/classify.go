package classify

import (
	"math"

	"codeberg.org/dazzo/dazzod/internal/telemetry"
)

// SensorMode selects how gravity is handled in the incoming samples.
type SensorMode string

const (
	// ModeAccOnly means raw accelerometer data: gravity is estimated as
	// the window-mean vector and subtracted. Cheap but imprecise.
	ModeAccOnly SensorMode = "acconly"
	// ModeNDOF means the sensor already fused out gravity.
	ModeNDOF SensorMode = "ndof"
)

// Activity is the classified motion level.
type Activity string

const (
	Resting      Activity = "resting"
	Active       Activity = "active"
	HighlyActive Activity = "highly active"
)

// Classifier labels activity from a sliding window of samples by the
// mean magnitude of dynamic acceleration.
type Classifier struct {
	Mode            SensorMode
	RestThreshold   float64
	ActiveThreshold float64

	window []telemetry.Sample
	size   int
}

// New returns a Classifier with a window of the given size. Thresholds
// are in m/s²; below rest is Resting, below active is Active, above is
// HighlyActive.
func New(mode SensorMode, windowSize int, restThreshold, activeThreshold float64) *Classifier {
	return &Classifier{
		Mode:            mode,
		RestThreshold:   restThreshold,
		ActiveThreshold: activeThreshold,
		window:          make([]telemetry.Sample, 0, windowSize),
		size:            windowSize,
	}
}

// Observe adds a sample to the window, evicting the oldest when full,
// and returns the current classification with the mean dynamic
// acceleration it was derived from.
func (c *Classifier) Observe(s telemetry.Sample) (Activity, float64) {
	if len(c.window) == c.size {
		copy(c.window, c.window[1:])
		c.window = c.window[:c.size-1]
	}
	c.window = append(c.window, s)

	mean := c.meanDynamicAcceleration()
	switch {
	case mean < c.RestThreshold:
		return Resting, mean
	case mean < c.ActiveThreshold:
		return Active, mean
	default:
		return HighlyActive, mean
	}
}

func (c *Classifier) meanDynamicAcceleration() float64 {
	n := float64(len(c.window))

	var gx, gy, gz float64
	if c.Mode == ModeAccOnly {
		for _, s := range c.window {
			gx += float64(s.X)
			gy += float64(s.Y)
			gz += float64(s.Z)
		}
		gx /= n
		gy /= n
		gz /= n
	}

	var sum float64
	for _, s := range c.window {
		dx := float64(s.X) - gx
		dy := float64(s.Y) - gy
		dz := float64(s.Z) - gz
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}

	return sum / n
}
