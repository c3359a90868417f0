package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/dazzo/dazzod/internal/archive"
	"codeberg.org/dazzo/dazzod/internal/buffer"
	"codeberg.org/dazzo/dazzod/internal/classify"
	"codeberg.org/dazzo/dazzod/internal/config"
	"codeberg.org/dazzo/dazzod/internal/display"
	"codeberg.org/dazzo/dazzod/internal/errors"
	"codeberg.org/dazzo/dazzod/internal/link"
	"codeberg.org/dazzo/dazzod/internal/logger"
	"codeberg.org/dazzo/dazzod/internal/metrics"
	"codeberg.org/dazzo/dazzod/internal/pid"
	"codeberg.org/dazzo/dazzod/internal/queue"
	"codeberg.org/dazzo/dazzod/internal/sink"
	"codeberg.org/dazzo/dazzod/internal/telemetry"
)

const (
	queueCapacity    = 256
	classifierWindow = 8
	restThreshold    = 1.0
	activeThreshold  = 3.0
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

// app owns the pipeline state. Each field has a single writer: the
// transport's read goroutine fills the queue, the loop tick drains it
// and drives the buffer, and the supervisor owns the link status.
type app struct {
	gate       *telemetry.Gate
	classifier *classify.Classifier
	readout    *display.Readout
	samples    *queue.SampleQueue
	batch      *buffer.Buffer
	supervisor *link.Supervisor
	publisher  buffer.Publisher
	recorder   archive.Recorder
	meter      *metrics.Metrics

	sinkEnabled bool
	idle        *telemetry.IdleTracker
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	a, err := initApp()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer cleanup(a)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.MetricsListen != "" {
		go a.meter.Serve(ctx, cfg.MetricsListen)
	}
	go a.supervisor.Run(ctx)

	if err := a.loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
}

func initApp() (*app, error) {
	a := &app{
		gate: telemetry.NewGate(
			cfg.MagnitudeThreshold,
			secondsToDuration(cfg.HeartbeatInterval),
		),
		classifier: classify.New(classify.ModeNDOF, classifierWindow, restThreshold, activeThreshold),
		readout:    display.New(os.Stdout, cfg.Sensor),
		samples:    queue.New(queueCapacity),
		meter:      metrics.New(),
		idle:       telemetry.NewIdleTracker(secondsToDuration(cfg.IdleZeroAfter), time.Now()),
	}

	a.batch = buffer.New(
		time.Duration(cfg.FlushInterval)*time.Millisecond,
		cfg.MaxLines,
		cfg.MaxBytes,
		time.Now(),
	)

	if err := a.initSink(); err != nil {
		return nil, err
	}

	recorder, err := archive.NewService(archive.Config{DBPath: cfg.ArchiveDB})
	if err != nil {
		return nil, err
	}
	a.recorder = recorder

	transport := link.NewTCPTransport(
		cfg.Device,
		secondsToDuration(cfg.ConnectTimeout),
		a.onPayload,
	)
	backoff := link.NewBackoff(
		secondsToDuration(cfg.BackoffInitial),
		secondsToDuration(cfg.BackoffMax),
		secondsToDuration(cfg.BackoffJitter),
	)
	a.supervisor = link.NewSupervisor(transport, backoff)
	a.supervisor.OnAttempt = func() { a.meter.ReconnectAttempts.Inc() }

	return a, nil
}

// initSink builds the publisher, or leaves the sink disabled when the
// configuration rules it out. Disabling is logged once and is not
// fatal: the node keeps receiving, displaying and archiving.
func (a *app) initSink() error {
	if cfg.Monitor {
		logger.Info().Msg("Monitor mode: sink push disabled")
		return nil
	}

	publisher, err := sink.New(sink.Config{
		BaseURL: cfg.SinkURL,
		Org:     cfg.Org,
		Bucket:  cfg.Bucket,
		Token:   cfg.Token,
		Timeout: secondsToDuration(cfg.PushTimeout),
	})
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrSecureScheme, errors.ErrSinkDisabled:
			logger.Warn().Err(err).Msg("Sink publisher disabled")
			return nil
		default:
			return err
		}
	}

	a.publisher = publisher
	a.sinkEnabled = true

	return nil
}

// onPayload runs on the transport's read goroutine. It only decodes the
// fixed-size frame and hands the sample off; everything slower waits
// for the next loop tick.
func (a *app) onPayload(payload []byte) {
	sample, err := telemetry.DecodePayload(payload, time.Now())
	if err != nil {
		a.meter.PayloadsMalformed.Inc()
		return
	}

	a.meter.SamplesReceived.Inc()
	if !a.samples.Enqueue(sample) {
		a.meter.SamplesDropped.Inc()
	}
}

// loop is the cooperative scheduler: one ticker drives sample
// processing, idle detection and flush checks. Nothing in here blocks
// longer than a bounded sink push.
func (a *app) loop(ctx context.Context) error {
	if cfg.TickInterval <= 0 {
		return errors.New().WithData(errors.ErrInvalidConfig, "tick_interval")
	}

	ticker := time.NewTicker(time.Duration(cfg.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			a.tick(ctx, now)
		}
	}
}

func (a *app) tick(ctx context.Context, now time.Time) {
	drained := a.samples.Drain()
	if len(drained) > 0 {
		a.idle.MarkData(now)
		for _, sample := range drained {
			a.process(ctx, sample, now)
		}
	} else if a.sinkEnabled && a.idle.ShouldPostZero(now) {
		zero := telemetry.Sample{CapturedAt: now}
		a.batch.Add(telemetry.EncodeLines(zero, cfg.Sensor))
		logger.Info().Msg("Inactivity detected, posting zero sample")
	}

	entries, _ := a.batch.Stats()
	a.meter.BatchEntries.Set(float64(entries))

	if a.sinkEnabled && a.batch.ShouldFlush(now) {
		a.flush(ctx, now)
	}
}

func (a *app) process(ctx context.Context, sample telemetry.Sample, now time.Time) {
	activity, meanAcc := a.classifier.Observe(sample)

	if err := a.readout.Refresh(sample, string(activity)); err != nil {
		logger.Debug().Err(err).Msg("Failed to refresh readout")
	}

	if err := a.recorder.Record(ctx, &archive.Entry{
		Timestamp: sample.CapturedAt,
		X:         float64(sample.X),
		Y:         float64(sample.Y),
		Z:         float64(sample.Z),
		Magnitude: sample.Magnitude(),
		Activity:  string(activity),
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to archive sample")
	}

	logger.Debug().
		Float64("magnitude", sample.Magnitude()).
		Float64("mean_acc", meanAcc).
		Str("activity", string(activity)).
		Msg("Sample processed")

	if !a.sinkEnabled {
		return
	}

	if a.gate.ShouldTransmit(sample, now) {
		a.batch.Add(telemetry.EncodeLines(sample, cfg.Sensor))
	}
}

func (a *app) flush(ctx context.Context, now time.Time) {
	result, err := a.batch.Flush(ctx, now, a.supervisor.Connected(), a.publisher)
	switch result {
	case buffer.FlushOK:
		a.meter.FlushSuccess.Inc()
		logger.Debug().Msg("Batch flushed")
	case buffer.FlushFailed:
		a.meter.FlushFailure.Inc()
		logger.Warn().Err(err).Msg("Flush failed, batch retained")
	case buffer.FlushSkipped:
		logger.Debug().Msg("Flush skipped, link down")
	case buffer.FlushEmpty:
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(a *app) {
	if err := a.recorder.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close sample archive")
	}
	logger.Info().Msg("Exiting...")
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
