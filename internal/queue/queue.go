package queue

import (
	"sync"

	"codeberg.org/dazzo/dazzod/internal/telemetry"
)

// SampleQueue is the bounded hand-off between the transport's
// notification path and the scheduling loop: the notification path
// enqueues, the loop drains. The capacity is fixed at construction so
// memory stays bounded no matter how long the loop stalls; a full
// queue rejects the newest sample rather than growing.
type SampleQueue struct {
	mu   sync.Mutex
	data []telemetry.Sample
	cap  int
}

// New returns a queue holding at most capacity samples.
func New(capacity int) *SampleQueue {
	return &SampleQueue{
		data: make([]telemetry.Sample, 0, capacity),
		cap:  capacity,
	}
}

// Enqueue appends a sample, reporting false if the queue is full.
func (q *SampleQueue) Enqueue(s telemetry.Sample) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, s)
	return true
}

// Drain removes and returns all queued samples in FIFO order.
func (q *SampleQueue) Drain() []telemetry.Sample {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	out := make([]telemetry.Sample, len(q.data))
	copy(out, q.data)
	q.data = q.data[:0]
	return out
}

// Len returns the number of queued samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}
