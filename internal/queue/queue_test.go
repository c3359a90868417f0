package queue_test

import (
	"testing"

	"codeberg.org/dazzo/dazzod/internal/queue"
	"codeberg.org/dazzo/dazzod/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDrainFIFO(t *testing.T) {
	q := queue.New(4)

	require.True(t, q.Enqueue(telemetry.Sample{X: 1}))
	require.True(t, q.Enqueue(telemetry.Sample{X: 2}))
	require.True(t, q.Enqueue(telemetry.Sample{X: 3}))
	assert.Equal(t, 3, q.Len())

	drained := q.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, float32(1), drained[0].X)
	assert.Equal(t, float32(2), drained[1].X)
	assert.Equal(t, float32(3), drained[2].X)

	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	q := queue.New(2)

	require.True(t, q.Enqueue(telemetry.Sample{X: 1}))
	require.True(t, q.Enqueue(telemetry.Sample{X: 2}))
	assert.False(t, q.Enqueue(telemetry.Sample{X: 3}), "queue must stay bounded")

	drained := q.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, float32(2), drained[1].X, "rejected sample was the newest")

	// Draining frees the capacity again.
	assert.True(t, q.Enqueue(telemetry.Sample{X: 4}))
}
