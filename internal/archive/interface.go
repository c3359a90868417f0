package archive

import (
	"context"
	"time"
)

// Recorder is the local sample archive: every accepted sample is kept
// on disk so motion history survives sink outages.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Close() error
}

// Entry is one archived sample with its derived readings.
type Entry struct {
	Timestamp time.Time
	X, Y, Z   float64
	Magnitude float64
	Activity  string
}
