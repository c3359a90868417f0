package telemetry

import (
	"encoding/binary"
	"math"
	"time"

	"codeberg.org/dazzo/dazzod/internal/errors"
)

// PayloadSize is the exact length of a link payload: three packed
// little-endian 32-bit floats.
const PayloadSize = 12

// Sample is one acceleration reading from the sensor node. It is
// immutable after creation.
type Sample struct {
	X, Y, Z    float32
	CapturedAt time.Time
}

// Magnitude returns the Euclidean magnitude of the acceleration vector
// in m/s².
func (s Sample) Magnitude() float64 {
	x := float64(s.X)
	y := float64(s.Y)
	z := float64(s.Z)

	return math.Sqrt(x*x + y*y + z*z)
}

// IsZero reports whether all three axes read zero.
func (s Sample) IsZero() bool {
	return s.X == 0 && s.Y == 0 && s.Z == 0
}

// DecodePayload unpacks a raw link payload into a Sample captured at
// the given time. Payloads of any length other than PayloadSize are
// rejected; callers drop them silently per the link contract.
func DecodePayload(payload []byte, capturedAt time.Time) (Sample, error) {
	if len(payload) != PayloadSize {
		return Sample{}, errors.New().WithData(errors.ErrPayloadMalformed, len(payload))
	}

	return Sample{
		X:          math.Float32frombits(binary.LittleEndian.Uint32(payload[0:4])),
		Y:          math.Float32frombits(binary.LittleEndian.Uint32(payload[4:8])),
		Z:          math.Float32frombits(binary.LittleEndian.Uint32(payload[8:12])),
		CapturedAt: capturedAt,
	}, nil
}

// EncodePayload packs a Sample into the 12-byte link wire format. Used
// by the transmitter side and by tests.
func EncodePayload(s Sample) []byte {
	payload := make([]byte, PayloadSize)
	binary.LittleEndian.PutUint32(payload[0:4], math.Float32bits(s.X))
	binary.LittleEndian.PutUint32(payload[4:8], math.Float32bits(s.Y))
	binary.LittleEndian.PutUint32(payload[8:12], math.Float32bits(s.Z))

	return payload
}
