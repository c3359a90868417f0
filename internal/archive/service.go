package archive

import (
	"context"

	"codeberg.org/dazzo/dazzod/internal/logger"
)

// No-op implementation
type noopRecorder struct{}

// NewService returns a Recorder for the given configuration, or a
// no-op recorder when no archive path is configured.
func NewService(cfg Config) (Recorder, error) {
	if cfg.DBPath == "" {
		logger.Debug().Msg("Sample archive disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRecorder(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Sample archive initialized")

	return repo, nil
}

func (*noopRecorder) Record(_ context.Context, _ *Entry) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
