package display

import (
	"fmt"
	"io"

	"codeberg.org/dazzo/dazzod/internal/telemetry"
)

// Readout renders the current sample as pre-formatted text for a
// status surface. It is write-only output: nothing in the pipeline
// reads it back.
type Readout struct {
	out    io.Writer
	sensor string
}

// New returns a Readout writing to out under the given sensor name.
func New(out io.Writer, sensor string) *Readout {
	return &Readout{
		out:    out,
		sensor: sensor,
	}
}

// Refresh writes one status line for the sample and its activity label.
func (r *Readout) Refresh(s telemetry.Sample, activity string) error {
	_, err := fmt.Fprintf(r.out, "%s  x=%8.2f  y=%8.2f  z=%8.2f  %s\n",
		r.sensor, s.X, s.Y, s.Z, activity)
	return err
}

// Format returns the formatted status line without writing it.
func Format(s telemetry.Sample) string {
	return fmt.Sprintf("x=%8.2f  y=%8.2f  z=%8.2f", s.X, s.Y, s.Z)
}
