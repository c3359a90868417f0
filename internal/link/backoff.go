package link

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes reconnect delays: the deterministic exponential term
// min(max, initial*2^attempts) plus a uniformly random additive jitter
// in [0, jitter). The jitter is never negative, so the delay never
// drops below the exponential term. Backoff is owned by a single
// supervisor and is not safe for concurrent use.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  time.Duration

	attempts int
	random   func() float64
}

// NewBackoff returns a Backoff seeded with the default random source.
func NewBackoff(initial, max, jitter time.Duration) *Backoff {
	return &Backoff{
		Initial: initial,
		Max:     max,
		Jitter:  jitter,
		random:  rand.Float64,
	}
}

// Next returns the delay to wait before the next connect attempt and
// advances the attempt counter. The first call after a reset returns
// the initial delay.
func (b *Backoff) Next() time.Duration {
	exp := float64(b.Initial) * math.Pow(2, float64(b.attempts))
	delay := time.Duration(math.Min(exp, float64(b.Max)))
	b.attempts++

	if b.Jitter > 0 {
		delay += time.Duration(b.random() * float64(b.Jitter))
	}

	return delay
}

// Reset clears the attempt counter after a successful connection, so
// the next failure streak starts over at the initial delay.
func (b *Backoff) Reset() {
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last
// reset.
func (b *Backoff) Attempts() int {
	return b.attempts
}
