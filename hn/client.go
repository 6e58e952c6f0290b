package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/hnfetch/observe"
)

// maxDrain bounds how much of an error response is read before closing.
const maxDrain = 4 << 10

// getJSON fetches url through the deduplicator and decodes the shared body.
// The fetch itself runs detached from ctx; ctx only bounds this caller's wait.
func getJSON[T any](ctx context.Context, s *Service, meta observe.FetchMeta, url string) (T, error) {
	var zero T

	executed := false
	body, _, err := s.inflight.Do(ctx, url, func(ctx context.Context) ([]byte, error) {
		executed = true
		return s.fetchRaw(ctx, meta, url)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, canceled(ctxErr)
		}
	}
	// The result came from the shared call, so executed is safe to read.
	if !executed {
		s.metrics.RecordDedupJoin(ctx, meta)
		if s.metricsLogging {
			s.logger.Debug(ctx, "deduplicated request joined", observe.F("url", url))
		}
	}
	if err != nil {
		return zero, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return zero, fmt.Errorf("%w: %s", ErrItemNotFound, url)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, &ParseError{URL: url, Err: err}
	}
	return v, nil
}

// fetchRaw performs the GET with retries and returns the full body.
// Each attempt holds a permit for its duration only.
func (s *Service) fetchRaw(ctx context.Context, meta observe.FetchMeta, url string) ([]byte, error) {
	start := time.Now()
	ctx = observe.ContextWithFetchMeta(ctx, meta)

	attempts := 0
	var body []byte
	err := s.executor.Execute(ctx, func(ctx context.Context) error {
		attempts++
		b, err := s.get(ctx, url)
		s.metrics.RecordAttempt(ctx, meta, attempts, err)
		if err != nil {
			return err
		}
		body = b
		return nil
	})

	elapsed := time.Since(start)
	if err != nil {
		s.upstream.RecordFailure(err)
		if s.metricsLogging {
			s.logger.Debug(ctx, "GET failed (final)",
				observe.F("url", url),
				observe.F("attempt", attempts),
				observe.F("elapsed_ms", elapsed.Milliseconds()),
				observe.F("error", err),
			)
		}
		return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
	}

	s.upstream.RecordSuccess()
	if s.metricsLogging {
		s.logger.Debug(ctx, "GET successful",
			observe.F("url", url),
			observe.F("attempt", attempts),
			observe.F("elapsed_ms", elapsed.Milliseconds()),
			observe.F("bytes", len(body)),
		)
	}
	return body, nil
}

// onRetry logs a failed attempt that will be retried after delay.
func (s *Service) onRetry(ctx context.Context, attempt int, err error, delay time.Duration) {
	meta, _ := observe.FetchMetaFromContext(ctx)
	fields := append(meta.Fields(),
		observe.F("attempt", attempt),
		observe.F("max_attempts", s.config.MaxAttempts()),
		observe.F("delay_ms", delay.Milliseconds()),
		observe.F("error", err),
	)
	s.logger.Warn(ctx, "request failed, retrying", fields...)
}

// get performs a single attempt.
func (s *Service) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return body, nil
}

func isCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

func wrapOp(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}
