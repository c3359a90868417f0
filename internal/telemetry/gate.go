package telemetry

import "time"

// Gate decides whether a sample is worth forwarding. A sample passes
// when its magnitude reaches the configured threshold, or when the
// heartbeat interval has elapsed since the last forwarded sample so the
// store can distinguish "no movement" from "link dead".
type Gate struct {
	Threshold float64
	Heartbeat time.Duration

	lastSent time.Time
}

// NewGate returns a Gate with the given magnitude threshold and
// heartbeat interval. A zero heartbeat disables the interval rule.
func NewGate(threshold float64, heartbeat time.Duration) *Gate {
	return &Gate{
		Threshold: threshold,
		Heartbeat: heartbeat,
	}
}

// ShouldTransmit reports whether the sample passes the gate and records
// the transmission time when it does. A magnitude exactly equal to the
// threshold passes. The heartbeat rule is evaluated even when the
// magnitude rule fails, so a heartbeat fires exactly at the interval
// boundary.
func (g *Gate) ShouldTransmit(s Sample, now time.Time) bool {
	send := s.Magnitude() >= g.Threshold
	if !send && g.Heartbeat > 0 {
		send = g.lastSent.IsZero() || now.Sub(g.lastSent) >= g.Heartbeat
	}

	if send {
		g.lastSent = now
	}

	return send
}

// LastSent returns the time of the last forwarded sample.
func (g *Gate) LastSent() time.Time {
	return g.lastSent
}
