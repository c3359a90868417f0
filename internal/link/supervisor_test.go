package link_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/dazzo/dazzod/internal/errors"
	"codeberg.org/dazzo/dazzod/internal/link"
	"codeberg.org/dazzo/dazzod/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu        sync.Mutex
	failures  int
	connects  int
	connected bool
	drops     chan error
}

func newFakeTransport(failures int) *fakeTransport {
	return &fakeTransport{
		failures: failures,
		drops:    make(chan error, 1),
	}
}

func (t *fakeTransport) Connect(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connects++
	if t.connects <= t.failures {
		return errors.New().New(link.ErrDialFailed)
	}
	t.connected = true
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

func (t *fakeTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *fakeTransport) Drops() <-chan error {
	return t.drops
}

func (t *fakeTransport) connectCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connects
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.Fail(t, "condition not reached within timeout")
}

func TestSupervisorConnectsAfterFailures(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	transport := newFakeTransport(2)
	sup := link.NewSupervisor(transport, link.NewBackoff(time.Millisecond, 10*time.Millisecond, 0))

	var attempts int
	var mu sync.Mutex
	sup.OnAttempt = func() {
		mu.Lock()
		attempts++
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, sup.Connected)
	assert.Equal(t, link.StatusConnected, sup.Status())
	assert.Equal(t, 3, transport.connectCount(), "two failures then a success")

	mu.Lock()
	assert.Equal(t, 3, attempts)
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop on cancellation")
	}
	assert.Equal(t, link.StatusDisconnected, sup.Status())
	assert.False(t, transport.Connected(), "transport closed on shutdown")
}

func TestSupervisorReconnectsAfterDrop(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	transport := newFakeTransport(0)
	sup := link.NewSupervisor(transport, link.NewBackoff(time.Millisecond, 10*time.Millisecond, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, sup.Connected)

	transport.drops <- errors.New().New(link.ErrReadFailed)

	waitFor(t, time.Second, func() bool { return transport.connectCount() >= 2 })
	waitFor(t, time.Second, sup.Connected)

	cancel()
	<-done
}

func TestSupervisorShutdownInterruptsBackoffWait(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	// A transport that always fails, with a long backoff: cancellation
	// must not wait the delay out.
	transport := newFakeTransport(int(^uint(0) >> 1))
	sup := link.NewSupervisor(transport, link.NewBackoff(time.Hour, time.Hour, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, func() bool { return transport.connectCount() >= 1 })
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor blocked in backoff sleep past cancellation")
	}
}
