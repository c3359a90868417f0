package link

import (
	"context"
	"sync/atomic"
	"time"

	"codeberg.org/dazzo/dazzod/internal/logger"
)

// Supervisor keeps a transport connected for the lifetime of the
// process. It owns all status transitions: Disconnected → Connecting on
// an attempt, Connecting → Connected on success, and back to
// Disconnected on any connect failure or link drop, after which it
// waits out the backoff delay before trying again. The wait is a timer
// inside a select with the context, so shutdown interrupts a pending
// delay immediately.
type Supervisor struct {
	transport Transport
	backoff   *Backoff
	status    atomic.Int32

	// OnAttempt, when set, is called before every connect attempt.
	OnAttempt func()
}

// NewSupervisor returns a supervisor driving the given transport with
// the given backoff policy.
func NewSupervisor(transport Transport, backoff *Backoff) *Supervisor {
	return &Supervisor{
		transport: transport,
		backoff:   backoff,
	}
}

// Status returns the current link status.
func (s *Supervisor) Status() Status {
	return Status(s.status.Load())
}

// Connected reports whether the link is currently connected.
func (s *Supervisor) Connected() bool {
	return s.Status() == StatusConnected
}

// Run drives the reconnect loop until the context is cancelled. There
// is no terminal state: every failure feeds the backoff and every
// success resets it. On return the transport is closed.
func (s *Supervisor) Run(ctx context.Context) {
	defer func() {
		s.status.Store(int32(StatusDisconnected))
		if err := s.transport.Close(); err != nil {
			logger.Debug().Err(err).Msg("Error closing transport on shutdown")
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		s.status.Store(int32(StatusConnecting))
		if s.OnAttempt != nil {
			s.OnAttempt()
		}

		if err := s.transport.Connect(ctx); err != nil {
			s.status.Store(int32(StatusDisconnected))
			delay := s.backoff.Next()
			logger.Warn().
				Err(err).
				Dur("retry_in", delay).
				Int("attempts", s.backoff.Attempts()).
				Msg("Connect failed")
			if !s.wait(ctx, delay) {
				return
			}
			continue
		}

		s.backoff.Reset()
		s.status.Store(int32(StatusConnected))
		logger.Info().Msg("Link connected")

		select {
		case <-ctx.Done():
			return
		case err := <-s.transport.Drops():
			s.status.Store(int32(StatusDisconnected))
			delay := s.backoff.Next()
			logger.Warn().
				Err(err).
				Dur("retry_in", delay).
				Msg("Link dropped")
			if !s.wait(ctx, delay) {
				return
			}
		}
	}
}

// wait blocks for the given delay, returning false if the context was
// cancelled first.
func (s *Supervisor) wait(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
