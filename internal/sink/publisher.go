package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/dazzo/dazzod/internal/errors"
	"codeberg.org/dazzo/dazzod/internal/logger"
)

// Config holds the write endpoint settings for the time-series store.
type Config struct {
	BaseURL string
	Org     string
	Bucket  string
	Token   string
	Timeout time.Duration
}

// Publisher posts line-protocol batches to an InfluxDB v2-compatible
// write endpoint. Requests carry a bounded timeout so a slow or
// unreachable store fails fast instead of stalling the scheduling loop;
// the underlying client reuses connections across pushes but treats a
// broken reused connection as an ordinary push failure.
type Publisher struct {
	writeURL string
	token    string
	client   *http.Client
}

// New validates the endpoint configuration and returns a Publisher.
// Only plaintext HTTP endpoints are supported: a secure-scheme base URL
// or a missing token is a configuration error and the caller is
// expected to run without a sink rather than halt.
func New(cfg Config) (*Publisher, error) {
	errFactory := errors.New()

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	switch u.Scheme {
	case "http":
	case "https":
		return nil, errFactory.WithData(errors.ErrSecureScheme, cfg.BaseURL)
	default:
		return nil, errFactory.WithData(errors.ErrInvalidConfig, cfg.BaseURL)
	}

	if cfg.Token == "" {
		return nil, errFactory.WithMessage(errors.ErrSinkDisabled, "sink token is not set")
	}

	query := url.Values{}
	query.Set("org", cfg.Org)
	query.Set("bucket", cfg.Bucket)
	query.Set("precision", "s")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Publisher{
		writeURL: fmt.Sprintf("%s/api/v2/write?%s", cfg.BaseURL, query.Encode()),
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Push posts one batch body. Any outcome other than a 2xx response is
// an error and the caller's batch must be kept for retry.
func (p *Publisher) Push(ctx context.Context, body []byte) error {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.writeURL, bytes.NewReader(body))
	if err != nil {
		return errFactory.Wrap(errors.ErrSinkPush, err)
	}
	req.Header.Set("Authorization", "Token "+p.token)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return errFactory.Wrap(errors.ErrSinkPush, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", string(detail)).
			Msg("Sink rejected batch")
		return errFactory.WithData(errors.ErrSinkPush, resp.StatusCode)
	}

	return nil
}
