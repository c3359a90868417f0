package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/dazzo/dazzod/internal/errors"
)

var axisNames = [3]string{"x", "y", "z"}

// EncodeLines serializes a sample into line protocol for the
// time-series store: one line per axis, terminated by a newline, with
// the sensor identity as a tag and the value printed to six decimal
// places.
func EncodeLines(s Sample, sensor string) string {
	var b strings.Builder
	values := [3]float32{s.X, s.Y, s.Z}
	for i, axis := range axisNames {
		fmt.Fprintf(&b, "%s,sensor=%s value=%.6f\n", axis, sensor, values[i])
	}

	return b.String()
}

// DecodeLines parses line-protocol text produced by EncodeLines back
// into per-axis values. Used to verify round-trip fidelity.
func DecodeLines(encoded string) (map[string]float64, error) {
	errFactory := errors.New()

	values := make(map[string]float64)
	for _, line := range strings.Split(strings.TrimRight(encoded, "\n"), "\n") {
		tags, field, ok := strings.Cut(line, " ")
		if !ok {
			return nil, errFactory.WithData(errors.ErrPayloadMalformed, line)
		}

		axis, _, ok := strings.Cut(tags, ",")
		if !ok {
			return nil, errFactory.WithData(errors.ErrPayloadMalformed, line)
		}

		raw, found := strings.CutPrefix(field, "value=")
		if !found {
			return nil, errFactory.WithData(errors.ErrPayloadMalformed, line)
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrPayloadMalformed, err)
		}

		values[axis] = value
	}

	return values, nil
}
