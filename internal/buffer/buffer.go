package buffer

import (
	"context"
	"strings"
	"sync"
	"time"

	"codeberg.org/dazzo/dazzod/internal/errors"
)

// Publisher pushes a complete batch body to the durable store. A nil
// error is the only acknowledgement; any other outcome leaves the batch
// with the caller for retry.
type Publisher interface {
	Push(ctx context.Context, body []byte) error
}

// FlushResult describes the outcome of a flush attempt.
type FlushResult int

const (
	// FlushEmpty means there was nothing to push.
	FlushEmpty FlushResult = iota
	// FlushSkipped means the transport was down and the batch was kept.
	FlushSkipped
	// FlushOK means the batch was pushed and cleared.
	FlushOK
	// FlushFailed means the push failed and the batch was retained.
	FlushFailed
)

// Buffer accumulates encoded sample records until a push succeeds. It
// is written by the sample hand-off path and flushed by the scheduling
// loop; all state is guarded by one mutex and the push itself happens
// outside the lock so enqueues are never delayed by network I/O.
type Buffer struct {
	maxEntries int
	maxBytes   int
	interval   time.Duration

	mu        sync.Mutex
	entries   []string
	bytes     int
	lastFlush time.Time
	pending   bool
}

// New returns a Buffer with the given flush interval, entry-count
// ceiling and byte ceiling. now seeds the last-flush timestamp.
func New(interval time.Duration, maxEntries, maxBytes int, now time.Time) *Buffer {
	return &Buffer{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		interval:   interval,
		lastFlush:  now,
	}
}

// Add appends one encoded sample record. It never drops and never
// performs I/O: when the append crosses the byte ceiling the buffer is
// marked flush-pending instead, so the next scheduling tick flushes to
// make room. The batch may therefore exceed the ceiling by at most one
// record until that tick.
func (b *Buffer) Add(encoded string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bytes+len(encoded) > b.maxBytes {
		b.pending = true
	}

	b.entries = append(b.entries, encoded)
	b.bytes += len(encoded)
}

// ShouldFlush reports whether any flush trigger has fired: elapsed time
// since the last flush, entry count, byte length, or a pending eager
// flush requested by Add.
func (b *Buffer) ShouldFlush(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return false
	}

	return b.pending ||
		now.Sub(b.lastFlush) >= b.interval ||
		len(b.entries) >= b.maxEntries ||
		b.bytes >= b.maxBytes
}

// Flush pushes the full batch through the publisher. It is a no-op when
// the batch is empty or the transport is down (the batch is preserved).
// The push is all-or-nothing: on success exactly the pushed records are
// cleared and now becomes the last-flush time; on failure the batch is
// byte-for-byte untouched and the error is returned for logging.
func (b *Buffer) Flush(ctx context.Context, now time.Time, connected bool, pub Publisher) (FlushResult, error) {
	b.mu.Lock()
	count := len(b.entries)
	if count == 0 {
		b.mu.Unlock()
		return FlushEmpty, nil
	}
	if !connected {
		b.mu.Unlock()
		return FlushSkipped, errors.New().New(errors.ErrTransportUnavailable)
	}
	body := []byte(strings.Join(b.entries[:count], ""))
	b.mu.Unlock()

	if err := pub.Push(ctx, body); err != nil {
		return FlushFailed, errors.New().Wrap(errors.ErrSinkPush, err)
	}

	b.mu.Lock()
	b.entries = append(b.entries[:0], b.entries[count:]...)
	b.bytes = 0
	for _, e := range b.entries {
		b.bytes += len(e)
	}
	b.pending = b.bytes >= b.maxBytes
	b.lastFlush = now
	b.mu.Unlock()

	return FlushOK, nil
}

// Stats returns the entry count and byte length as one consistent
// snapshot.
func (b *Buffer) Stats() (entries, bytes int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries), b.bytes
}

// LastFlush returns the time of the last successful flush.
func (b *Buffer) LastFlush() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastFlush
}
