package metrics

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/dazzo/dazzod/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters. Malformed payloads are counted
// here but never escalated; flush and reconnect counters give the
// operator a view of sink and link health without a dashboard
// round-trip.
type Metrics struct {
	registry *prometheus.Registry

	SamplesReceived   prometheus.Counter
	PayloadsMalformed prometheus.Counter
	SamplesDropped    prometheus.Counter
	FlushSuccess      prometheus.Counter
	FlushFailure      prometheus.Counter
	ReconnectAttempts prometheus.Counter
	BatchEntries      prometheus.Gauge
}

// New returns a Metrics set registered on its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SamplesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_samples_received_total",
			Help: "Well-formed sample payloads delivered by the link.",
		}),
		PayloadsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_payloads_malformed_total",
			Help: "Link payloads dropped for having the wrong length.",
		}),
		SamplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_samples_dropped_total",
			Help: "Samples lost because the hand-off queue was full.",
		}),
		FlushSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_flush_success_total",
			Help: "Batches pushed to the sink.",
		}),
		FlushFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_flush_failure_total",
			Help: "Batch pushes that failed and were retained for retry.",
		}),
		ReconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dazzod_reconnect_attempts_total",
			Help: "Link connect attempts made by the supervisor.",
		}),
		BatchEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dazzod_batch_entries",
			Help: "Encoded samples currently waiting in the forward buffer.",
		}),
	}

	m.registry.MustRegister(
		m.SamplesReceived,
		m.PayloadsMalformed,
		m.SamplesDropped,
		m.FlushSuccess,
		m.FlushFailure,
		m.ReconnectAttempts,
		m.BatchEntries,
	)

	return m
}

// Serve exposes the registry on addr until the context is cancelled.
// Intended to run in its own goroutine; listen errors are logged, not
// fatal.
func (m *Metrics) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("Metrics listener failed")
	}
}

// Gather exposes the registry for tests.
func (m *Metrics) Gather() prometheus.Gatherer {
	return m.registry
}
