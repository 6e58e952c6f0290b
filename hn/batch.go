package hn

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/hnfetch/observe"
)

// FetchStoriesConcurrent fetches stories with at most ConcurrentRequests in
// flight. Results arrive in completion order; failed ids are left out.
// A context that is already done yields an empty slice.
func (s *Service) FetchStoriesConcurrent(ctx context.Context, ids []int) []Story {
	return fetchBatch(ctx, s, "stories", ids, s.FetchStory)
}

// FetchCommentsConcurrent is FetchStoriesConcurrent for comments.
func (s *Service) FetchCommentsConcurrent(ctx context.Context, ids []int) []Comment {
	return fetchBatch(ctx, s, "comments", ids, s.FetchComment)
}

func fetchBatch[T any](ctx context.Context, s *Service, op string, ids []int, fetch func(context.Context, int) (T, error)) []T {
	if err := ctx.Err(); err != nil {
		s.logger.Warn(ctx, "request cancelled before starting batch fetch",
			observe.F("hn.operation", op),
			observe.F("count", len(ids)),
		)
		return []T{}
	}

	start := time.Now()
	var (
		mu      sync.Mutex
		results = make([]T, 0, len(ids))
	)

	// Workers never return an error, so one failed item cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(s.config.ConcurrentRequests)

	for _, id := range ids {
		if ctx.Err() != nil {
			s.dropItem(ctx, op, id, canceled(ctx.Err()))
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				s.dropItem(ctx, op, id, canceled(err))
				return nil
			}
			v, err := fetch(ctx, id)
			if err != nil {
				s.dropItem(ctx, op, id, err)
				return nil
			}
			mu.Lock()
			results = append(results, v)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if s.metricsLogging {
		s.logger.Debug(ctx, "batch fetch completed",
			observe.F("hn.operation", op),
			observe.F("requested", len(ids)),
			observe.F("successful", len(results)),
			observe.F("elapsed_ms", time.Since(start).Milliseconds()),
		)
	}
	return results
}

func (s *Service) dropItem(ctx context.Context, op string, id int, err error) {
	s.logger.Debug(ctx, "batch item dropped",
		observe.F("hn.operation", op),
		observe.F("id", id),
		observe.F("error", err),
	)
	if s.onItemError != nil {
		s.onItemError(id, err)
	}
}
